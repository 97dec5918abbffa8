package task

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Label title-cases a priority or filter value for display.
func Label[T ~string](v T) string {
	return cases.Title(language.English).String(string(v))
}
