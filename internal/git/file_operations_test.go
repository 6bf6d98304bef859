package git

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUnmerged(t *testing.T) {
	output := "UU src/App.jsx\n" +
		"AA src/firebase.js\n" +
		"M  src/components/About.jsx\n" +
		" M vite.config.js\n" +
		"?? notes.txt\n" +
		"R  old.jsx -> src/New.jsx\n" +
		"DU \"src/with space.jsx\"\n"

	assert.Equal(t, []string{"src/App.jsx", "src/firebase.js", "src/with space.jsx"}, parseUnmerged(output))
}

func TestParseUnmerged_Empty(t *testing.T) {
	assert.Empty(t, parseUnmerged(""))
	assert.Empty(t, parseUnmerged(" M clean.js\n"))
}

func TestFormatCommandError(t *testing.T) {
	assert.NoError(t, formatCommandError("add files", nil, bytes.Buffer{}, bytes.Buffer{}))

	var stderr bytes.Buffer
	stderr.WriteString("fatal: not a git repository")
	err := formatCommandError("get status", errors.New("exit status 128"), bytes.Buffer{}, stderr)
	assert.ErrorContains(t, err, "get status failed: exit status 128")
	assert.ErrorContains(t, err, "fatal: not a git repository")
}
