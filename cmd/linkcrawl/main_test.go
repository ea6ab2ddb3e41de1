package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain_Run(t *testing.T) {
	t.Run("no command shows help and errors", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		m := NewMain()

		err := m.Run(context.Background(), nil, &stdout, &stderr)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
	})

	t.Run("help exits cleanly", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		m := NewMain()

		err := m.Run(context.Background(), []string{"--help"}, &stdout, &stderr)
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "crawl")
		assert.Contains(t, stdout.String(), "serve")
	})

	t.Run("unknown command errors", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		m := NewMain()

		err := m.Run(context.Background(), []string{"frobnicate"}, &stdout, &stderr)
		require.Error(t, err)
	})

	t.Run("list against a fresh database", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		m := NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "linkcrawl.db")

		err := m.Run(context.Background(), []string{"list"}, &stdout, &stderr)
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No articles stored")
	})
}

func TestDefaultDBPath_EnvOverride(t *testing.T) {
	t.Setenv("LINKCRAWL_DB", "/tmp/custom.db")
	assert.Equal(t, "/tmp/custom.db", defaultDBPath())
}
