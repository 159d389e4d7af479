package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DisabledForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	bar := New(Options{Max: 3, Description: "Writing snippets", Writer: &buf})

	assert.False(t, bar.Enabled())
	require.NoError(t, bar.Add(1))
	bar.Describe("still writing")
	require.NoError(t, bar.Finish())
	require.NoError(t, bar.Clear())
	assert.Empty(t, buf.String(), "a disabled bar prints nothing")
}
