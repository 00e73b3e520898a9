package pipeline

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PackState is the lifecycle position of a pack within a run.
type PackState int

const (
	StateUndiscovered PackState = iota
	StateDiscovered
	StateBannersRelocated
	StateConverted
	StateCleaned
	StateRecorded
)

var stateNames = map[PackState]string{
	StateUndiscovered:     "undiscovered",
	StateDiscovered:       "discovered",
	StateBannersRelocated: "banners_relocated",
	StateConverted:        "converted",
	StateCleaned:          "cleaned",
	StateRecorded:         "recorded",
}

// String returns the snake_case state name.
func (s PackState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Label returns the human readable state, e.g. "Banners Relocated".
func (s PackState) Label() string {
	return cases.Title(language.English).String(strings.ReplaceAll(s.String(), "_", " "))
}
