package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "lowercase y", input: "y\n", want: true},
		{name: "yes word", input: "yes\n", want: true},
		{name: "uppercase Y", input: "Y\n", want: true},
		{name: "n declines", input: "n\n", want: false},
		{name: "empty line declines", input: "\n", want: false},
		{name: "garbage declines", input: "sure why not\n", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := Confirm(context.Background(), &out, strings.NewReader(tt.input), "Delete this transaction?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "[y/N]")
		})
	}

	t.Run("EOF declines without error", func(t *testing.T) {
		var out bytes.Buffer
		got, err := Confirm(context.Background(), &out, strings.NewReader(""), "Delete?")
		require.NoError(t, err)
		assert.False(t, got)
	})
}

func TestNonBlockingReaderCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// A pipe with nothing written blocks until the context fires.
	pr, pw := io.Pipe()
	defer pw.Close()

	reader := NewNonBlockingReader(pr)
	_, err := reader.ReadLine(ctx)
	assert.ErrorIs(t, err, ErrInputCancelled)
}

func TestNonBlockingReaderReadsLine(t *testing.T) {
	reader := NewNonBlockingReader(strings.NewReader("  hello world  \n"))
	line, err := reader.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello world", line)
}
