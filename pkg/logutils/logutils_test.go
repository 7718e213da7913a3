package logutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "localnotifier.log")

	l, closer, err := New("debug", file)
	require.NoError(t, err)
	l.Info().Str("id", "n1").Msg("shown")
	closer()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id":"n1"`)
	assert.Contains(t, string(data), `"message":"shown"`)
}

func TestNew_BadLevel(t *testing.T) {
	_, _, err := New("loud", "")
	assert.Error(t, err)
}
