package conflict

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const singleConflict = "<<<<<<< HEAD\n" +
	"keep-this-line\n" +
	"=======\n" +
	"discard-this-line\n" +
	">>>>>>> branch-name\n"

func TestResolve_NoMarkersIsIdentity(t *testing.T) {
	inputs := []string{
		"",
		"plain text\n",
		"no trailing newline",
		"=======\nsetext heading underline above\n",
		"a line with <<<<<<< HEAD in the middle\n",
		"start of prose mentioning start and middle and end\n",
	}

	for _, in := range inputs {
		res, err := Resolve(in, Options{})
		require.NoError(t, err)
		assert.Equal(t, in, res.Text)
		assert.False(t, res.Changed)
		assert.Empty(t, res.Sections)
	}
}

func TestResolve_SingleConflict(t *testing.T) {
	res, err := Resolve(singleConflict, Options{})
	require.NoError(t, err)

	assert.Equal(t, "keep-this-line\n", res.Text)
	assert.True(t, res.Changed)
	assert.Zero(t, res.Unresolved)
	require.Len(t, res.Sections, 1)

	s := res.Sections[0]
	assert.Equal(t, 1, s.StartLine)
	assert.Equal(t, 5, s.EndLine)
	assert.Equal(t, "HEAD", s.OurLabel)
	assert.Equal(t, "branch-name", s.TheirLabel)
	assert.Equal(t, "keep-this-line\n", s.OurChanges)
	assert.Equal(t, "discard-this-line\n", s.TheirChanges)
}

func TestResolve_MultipleConflictsKeepSurroundingText(t *testing.T) {
	in := "import React from 'react'\n" +
		"<<<<<<< HEAD\n" +
		"import Navbar from './components/NavbarOptimized'\n" +
		"=======\n" +
		"import Navbar from './components/Navbar'\n" +
		">>>>>>> 3f2a9c1\n" +
		"\n" +
		"export default function App() {\n" +
		"<<<<<<< HEAD\n" +
		"  return <Navbar compact />\n" +
		"=======\n" +
		"  return <Navbar />\n" +
		"  // old\n" +
		">>>>>>> feature/nav\n" +
		"}\n"

	want := "import React from 'react'\n" +
		"import Navbar from './components/NavbarOptimized'\n" +
		"\n" +
		"export default function App() {\n" +
		"  return <Navbar compact />\n" +
		"}\n"

	res, err := Resolve(in, Options{})
	require.NoError(t, err)
	assert.Equal(t, want, res.Text)
	assert.Len(t, res.Sections, 2)
	assert.Equal(t, "feature/nav", res.Sections[1].TheirLabel)
}

func TestResolve_Idempotent(t *testing.T) {
	inputs := []string{
		singleConflict,
		"a\n<<<<<<< HEAD\nb\n=======\nc\n>>>>>>> x\nd\n<<<<<<< HEAD\nunterminated\n",
		"<<<<<<< A\n<<<<<<< B\nx\n=======\ny\n>>>>>>> b\nz\n=======\nw\n>>>>>>> a\n",
	}

	for _, in := range inputs {
		once, err := Resolve(in, Options{})
		require.NoError(t, err)
		twice, err := Resolve(once.Text, Options{})
		require.NoError(t, err)
		assert.Equal(t, once.Text, twice.Text)
	}
}

func TestResolve_EmptyOursSide(t *testing.T) {
	in := "before\n<<<<<<< HEAD\n=======\ntheirs only\n>>>>>>> main\nafter\n"

	res, err := Resolve(in, Options{})
	require.NoError(t, err)
	assert.Equal(t, "before\nafter\n", res.Text)
}

func TestResolve_EndMarkerAtEOFWithoutNewline(t *testing.T) {
	in := "<<<<<<< HEAD\nours\n=======\ntheirs\n>>>>>>> main"

	res, err := Resolve(in, Options{})
	require.NoError(t, err)
	assert.Equal(t, "ours\n", res.Text)
}

func TestResolve_CRLFMarkers(t *testing.T) {
	in := "<<<<<<< HEAD\r\nours\r\n=======\r\ntheirs\r\n>>>>>>> main\r\nrest\r\n"

	res, err := Resolve(in, Options{})
	require.NoError(t, err)
	assert.Equal(t, "ours\r\nrest\r\n", res.Text)
}

func TestResolve_Diff3BaseDropped(t *testing.T) {
	in := "<<<<<<< HEAD\n" +
		"ours\n" +
		"||||||| merged common ancestors\n" +
		"base\n" +
		"=======\n" +
		"theirs\n" +
		">>>>>>> topic\n"

	res, err := Resolve(in, Options{})
	require.NoError(t, err)
	assert.Equal(t, "ours\n", res.Text)
	require.Len(t, res.Sections, 1)
	assert.Equal(t, "base\n", res.Sections[0].BaseContent)

	strict, err := Resolve(in, Options{Policy: Strict})
	require.NoError(t, err)
	assert.Equal(t, res.Text, strict.Text)
}

func TestResolve_Choices(t *testing.T) {
	tests := []struct {
		choice ResolutionChoice
		want   string
	}{
		{ChooseOurs, "keep-this-line\n"},
		{ChooseTheirs, "discard-this-line\n"},
		{ChooseBoth, "keep-this-line\ndiscard-this-line\n"},
	}

	for _, tt := range tests {
		t.Run(tt.choice.String(), func(t *testing.T) {
			res, err := Resolve(singleConflict, Options{Choice: tt.choice})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Text)
		})
	}
}

func TestResolve_UnterminatedStartLeftInPlace(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"no separator", "a\n<<<<<<< HEAD\nb\n"},
		{"no end marker", "a\n<<<<<<< HEAD\nb\n=======\nc\n"},
		{"end marker without label", "<<<<<<< HEAD\nb\n=======\nc\n>>>>>>>\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Resolve(tt.in, Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.in, res.Text)
			assert.Equal(t, 1, res.Unresolved)
			assert.False(t, res.Changed)
		})
	}
}

func TestResolve_ResolvedThenUnterminated(t *testing.T) {
	in := "<<<<<<< HEAD\nx\n=======\ny\n>>>>>>> b\nmid\n<<<<<<< HEAD\nz\n"

	res, err := Resolve(in, Options{})
	require.NoError(t, err)
	assert.Equal(t, "x\nmid\n<<<<<<< HEAD\nz\n", res.Text)
	assert.Equal(t, 1, res.Unresolved)
	assert.Len(t, res.Sections, 1)
}

func TestResolve_NestedUsesShortestMatch(t *testing.T) {
	in := "<<<<<<< HEAD\n" +
		"outer-ours\n" +
		"<<<<<<< HEAD\n" +
		"inner-ours\n" +
		"=======\n" +
		"inner-theirs\n" +
		">>>>>>> inner\n" +
		"outer-tail\n" +
		"=======\n" +
		"outer-theirs\n" +
		">>>>>>> outer\n"

	// Both starts pair with the first separator. The outer separator still
	// pairs with its end marker, so that run goes too.
	want := "outer-ours\n" +
		"inner-ours\n" +
		"outer-tail\n"

	res, err := Resolve(in, Options{})
	require.NoError(t, err)
	assert.Equal(t, want, res.Text)
	assert.Zero(t, res.Unresolved)
	assert.Len(t, res.Sections, 1)
}

func TestResolve_SeparatorRunWithoutOpenStartIsDropped(t *testing.T) {
	in := "<<<<<<< HEAD\n" +
		"a\n" +
		"=======\n" +
		"b\n" +
		">>>>>>> x\n" +
		"keep\n" +
		"=======\n" +
		"stray\n" +
		">>>>>>> y\n" +
		"tail\n" +
		"=======\n" +
		"no end after this\n"

	res, err := Resolve(in, Options{})
	require.NoError(t, err)
	assert.Equal(t, "a\nkeep\ntail\n=======\nno end after this\n", res.Text)
	assert.Len(t, res.Sections, 1)

	theirs, err := Resolve(in, Options{Choice: ChooseTheirs})
	require.NoError(t, err)
	assert.Equal(t, "b\nkeep\nstray\ntail\n=======\nno end after this\n", theirs.Text)
}

func TestResolve_StrayMarkersWithoutStartAreText(t *testing.T) {
	in := "title\n=======\nbody\n>>>>>>> not a conflict\n"

	res, err := Resolve(in, Options{})
	require.NoError(t, err)
	assert.Equal(t, in, res.Text)
}

func TestResolve_StrictRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
		line int
	}{
		{"nested start", "<<<<<<< HEAD\na\n<<<<<<< HEAD\nb\n=======\nc\n>>>>>>> x\n", 3},
		{"unterminated", "<<<<<<< HEAD\na\n", 1},
		{"missing end", "<<<<<<< HEAD\na\n=======\nb\n", 1},
		{"end before separator", "<<<<<<< HEAD\na\n>>>>>>> x\n", 3},
		{"stray separator", "<<<<<<< HEAD\na\n=======\nb\n>>>>>>> x\n=======\n", 6},
		{"unlabelled end", "<<<<<<< HEAD\na\n=======\nb\n>>>>>>>\n", 5},
		{"second separator", "<<<<<<< HEAD\na\n=======\nb\n=======\nc\n>>>>>>> x\n", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Resolve(tt.in, Options{Policy: Strict})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))

			var me *MalformedError
			require.ErrorAs(t, err, &me)
			assert.Equal(t, tt.line, me.Line)
			assert.Equal(t, tt.in, res.Text)
		})
	}
}

func TestResolve_StrictStrayMarkersWithoutStart(t *testing.T) {
	// Strict mode only engages once a start marker is present.
	in := "title\n=======\n"

	res, err := Resolve(in, Options{Policy: Strict})
	require.NoError(t, err)
	assert.Equal(t, in, res.Text)
}

func TestParse(t *testing.T) {
	sections, err := Parse("x\n"+singleConflict, ShortestMatch)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, 2, sections[0].StartLine)
	assert.Equal(t, 6, sections[0].EndLine)

	sections, err = Parse("nothing here\n", Strict)
	require.NoError(t, err)
	assert.Empty(t, sections)
}

func TestHasMarkers(t *testing.T) {
	assert.True(t, HasMarkers(singleConflict))
	assert.True(t, HasMarkers("<<<<<<<\n"))
	assert.False(t, HasMarkers("<<<<<<<<< too long\n"))
	assert.False(t, HasMarkers("  <<<<<<< indented\n"))
}

func TestParseChoice(t *testing.T) {
	c, err := ParseChoice("")
	require.NoError(t, err)
	assert.Equal(t, ChooseOurs, c)

	c, err = ParseChoice("both")
	require.NoError(t, err)
	assert.Equal(t, ChooseBoth, c)

	_, err = ParseChoice("mine")
	assert.Error(t, err)
}
