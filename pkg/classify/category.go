// Package classify maps free-text summaries onto the closed news taxonomy.
package classify

import "strings"

// Category is one of the four news categories. The zero value is not valid;
// use Parse to obtain one from model output.
type Category string

const (
	Clinical   Category = "Clinical"
	Regulatory Category = "Regulatory"
	Commercial Category = "Commercial"
	Other      Category = "Other"
)

// Parse trims raw and matches it case-sensitively against the bucketed
// categories. Anything else, including "clinical" or "Clinical.", is Other.
func Parse(raw string) Category {
	switch c := Category(strings.TrimSpace(raw)); c {
	case Clinical, Regulatory, Commercial:
		return c
	default:
		return Other
	}
}

func (c Category) String() string {
	return string(c)
}
