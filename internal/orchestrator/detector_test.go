package orchestrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExecutable(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
}

func TestToolDetector_Full(t *testing.T) {
	dir := t.TempDir()
	bwaPath := filepath.Join(dir, "bwa")
	samPath := filepath.Join(dir, "samtools")
	writeExecutable(t, bwaPath)
	writeExecutable(t, samPath)

	d := NewToolDetector(Config{BwaPath: bwaPath, SamtoolsPath: samPath})
	level, missing, err := d.Detect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ToolsFull, level)
	assert.Empty(t, missing)
}

func TestToolDetector_IndexOnly(t *testing.T) {
	dir := t.TempDir()
	bwaPath := filepath.Join(dir, "bwa")
	writeExecutable(t, bwaPath)

	d := NewToolDetector(Config{BwaPath: bwaPath, SamtoolsPath: filepath.Join(dir, "samtools")})
	level, missing, err := d.Detect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ToolsIndexOnly, level)
	assert.Equal(t, []string{"samtools"}, missing)
}

func TestToolDetector_NotExecutable(t *testing.T) {
	dir := t.TempDir()
	bwaPath := filepath.Join(dir, "bwa")
	require.NoError(t, os.WriteFile(bwaPath, []byte("x"), 0o644))

	d := NewToolDetector(Config{BwaPath: bwaPath, SamtoolsPath: bwaPath})
	level, missing, err := d.Detect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ToolsMissing, level)
	assert.Equal(t, []string{"bwa", "samtools"}, missing)
}

func TestToolDetector_LookPath(t *testing.T) {
	d := NewToolDetector(Config{})
	d.lookPath = func(name string) (string, error) {
		if name == "bwa" {
			return "/usr/bin/bwa", nil
		}
		return "", errors.New("not found")
	}

	level, missing, err := d.Detect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ToolsIndexOnly, level)
	assert.Equal(t, []string{"samtools"}, missing)
}

func TestToolDetector_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewToolDetector(Config{}).Detect(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestToolLevel_String(t *testing.T) {
	assert.Equal(t, "missing", ToolsMissing.String())
	assert.Equal(t, "index-only", ToolsIndexOnly.String())
	assert.Equal(t, "full", ToolsFull.String())
	assert.Equal(t, "unknown", ToolLevel(9).String())
}
