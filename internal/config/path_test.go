package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Run("expands tilde prefix", func(t *testing.T) {
		assert.Equal(t, filepath.Join(home, "data", "tally.db"), ExpandPath("~/data/tally.db"))
	})

	t.Run("expands bare tilde", func(t *testing.T) {
		assert.Equal(t, home, ExpandPath("~"))
	})

	t.Run("expands environment variables", func(t *testing.T) {
		t.Setenv("TALLY_TEST_DIR", "/var/lib/tally")
		assert.Equal(t, "/var/lib/tally/tally.db", ExpandPath("$TALLY_TEST_DIR/tally.db"))
	})

	t.Run("leaves plain paths alone", func(t *testing.T) {
		assert.Equal(t, "/tmp/tally.db", ExpandPath("/tmp/tally.db"))
		assert.Equal(t, "", ExpandPath(""))
	})
}
