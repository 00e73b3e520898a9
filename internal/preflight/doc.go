// Package preflight provides readiness checks for the filesystem paths and
// external tools debloat depends on.
//
// These checks run in two contexts:
//   - The run command checks the library before taking the ledger lock and
//     warns about missing tools, which would otherwise only show up as
//     per-file start failures.
//   - The CLI "debloat check" command renders every result as a table.
package preflight
