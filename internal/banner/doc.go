// Package banner moves a pack's top-level PNG banners into its info folder
// so later phases leave them alone.
package banner
