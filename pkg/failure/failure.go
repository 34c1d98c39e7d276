// Package failure carries typed per-article failures through the pipeline.
//
// Callers inspect the Kind with errors.As instead of matching on message text,
// so content that happens to start with "Error" is never mistaken for a failure.
package failure

import (
	"errors"
	"fmt"
)

// Kind identifies which external boundary failed.
type Kind int

const (
	FetchFailure Kind = iota + 1
	ParseFailure
	ModelFailure
	SearchFailure
)

func (k Kind) String() string {
	switch k {
	case FetchFailure:
		return "fetch"
	case ParseFailure:
		return "parse"
	case ModelFailure:
		return "model"
	case SearchFailure:
		return "search"
	default:
		return "unknown"
	}
}

// Failure wraps the underlying error with its Kind.
type Failure struct {
	Kind Kind
	Err  error
}

func (f *Failure) Error() string {
	var prefix string
	switch f.Kind {
	case FetchFailure, ParseFailure:
		prefix = "Error fetching text"
	case ModelFailure:
		prefix = "Error summarizing content"
	case SearchFailure:
		prefix = "Error searching"
	default:
		prefix = "Error"
	}
	if f.Err == nil {
		return prefix
	}
	return fmt.Sprintf("%s: %v", prefix, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Fetch marks err as a page fetch failure.
func Fetch(err error) error {
	return &Failure{Kind: FetchFailure, Err: err}
}

// Parse marks err as a page parse failure.
func Parse(err error) error {
	return &Failure{Kind: ParseFailure, Err: err}
}

// Model marks err as a generative model failure.
func Model(err error) error {
	return &Failure{Kind: ModelFailure, Err: err}
}

// Search marks err as a search provider failure.
func Search(err error) error {
	return &Failure{Kind: SearchFailure, Err: err}
}

// KindOf reports the Kind of the first Failure in err's chain.
func KindOf(err error) (Kind, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind, true
	}
	return 0, false
}

// Is reports whether err carries a Failure of kind k.
func Is(err error, k Kind) bool {
	got, ok := KindOf(err)
	return ok && got == k
}
