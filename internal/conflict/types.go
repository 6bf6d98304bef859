package conflict

import (
	"errors"
	"fmt"
)

type ResolutionChoice int

const (
	ChooseOurs ResolutionChoice = iota
	ChooseTheirs
	ChooseBoth
)

func (c ResolutionChoice) String() string {
	switch c {
	case ChooseTheirs:
		return "theirs"
	case ChooseBoth:
		return "both"
	default:
		return "ours"
	}
}

// ParseChoice maps a config or flag value to a ResolutionChoice.
func ParseChoice(s string) (ResolutionChoice, error) {
	switch s {
	case "", "ours":
		return ChooseOurs, nil
	case "theirs":
		return ChooseTheirs, nil
	case "both":
		return ChooseBoth, nil
	}
	return ChooseOurs, fmt.Errorf("unknown resolution %q (want ours, theirs or both)", s)
}

// Policy decides what happens to markers that do not form a clean section.
type Policy int

const (
	// ShortestMatch pairs every start with the nearest following middle and
	// end markers and leaves anything unpaired as literal text.
	ShortestMatch Policy = iota
	// Strict rejects nested, stray and unterminated markers.
	Strict
)

type Options struct {
	Choice ResolutionChoice
	Policy Policy
}

// Section is one conflict as found in the text. Line numbers are 1-based.
type Section struct {
	StartLine    int
	EndLine      int
	OurLabel     string
	TheirLabel   string
	OurChanges   string
	BaseContent  string
	TheirChanges string
}

type Result struct {
	Text       string
	Sections   []Section
	Unresolved int
	Changed    bool
}

var ErrMalformed = errors.New("malformed conflict markers")

type MalformedError struct {
	Line   int
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformed
}
