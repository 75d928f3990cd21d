package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/vrn-registry/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixture = filepath.Join("..", "..", "internal", "directory", "testdata", "records.json")

func TestRun_Table(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(options{File: fixture, Location: "southeast"}, &out))

	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Contains(t, string(lines[0]), "NAME")
	assert.Contains(t, string(lines[1]), "Blue Ridge Restoration")
	assert.Contains(t, string(lines[2]), "Gulf Coast Debris")
}

func TestRun_JSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(options{File: fixture, Location: "midwest", JSON: true}, &out))

	var got []domain.Provider
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Prairie Roofing Co", got[0].Name)
}

func TestRun_NoMatches(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(options{File: fixture, Location: "antarctica"}, &out))
	assert.Contains(t, out.String(), "No providers match")
}

func TestRun_UnknownDisaster(t *testing.T) {
	var out bytes.Buffer
	err := run(options{File: fixture, Disaster: "volcano"}, &out)
	require.ErrorIs(t, err, domain.ErrUnknownCategory)
}

func TestRun_Categories(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(options{Categories: true}, &out))
	assert.Contains(t, out.String(), string(domain.DefaultDisaster))
}
