package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kdschlosser/angry-debugger/internal/testutil"
)

func TestWriteLevels_MatchesGolden(t *testing.T) {
	var buf bytes.Buffer
	writeLevels(&buf, false)
	assert.Equal(t, testutil.Golden(t, "levels.golden"), buf.String())
}

func TestWriteLevels_Conventional(t *testing.T) {
	var buf bytes.Buffer
	writeLevels(&buf, true)
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 6+31)
	assert.Equal(t, "   0  NOTSET", lines[0])
	assert.Equal(t, "  30  WARNING", lines[3])
}
