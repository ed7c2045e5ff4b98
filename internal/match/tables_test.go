package match

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRanges(t *testing.T) {
	path := writeFile(t, "ranges.csv", `# US military blocks
USAF,AE0000,AE3FFF

US Navy, AE4000 , AE7FFF
`)
	ranges, err := LoadRanges(path)
	require.NoError(t, err)
	require.Len(t, ranges, 2)

	assert.Equal(t, Range{Label: "USAF", Lo: 0xAE0000, Hi: 0xAE3FFF}, ranges[0])
	assert.Equal(t, Range{Label: "US Navy", Lo: 0xAE4000, Hi: 0xAE7FFF}, ranges[1])
}

func TestLoadRangesPreservesFileOrder(t *testing.T) {
	first := writeFile(t, "a.csv", "Alpha,100,1FF\n")
	second := writeFile(t, "b.csv", "Bravo,180,2FF\n")

	ranges, err := LoadRanges(first, second)
	require.NoError(t, err)
	require.Len(t, ranges, 2)
	assert.Equal(t, "Alpha", ranges[0].Label)
	assert.Equal(t, "Bravo", ranges[1].Label)
}

func TestLoadRangesRejectsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"wrong field count", "USAF,AE0000\n"},
		{"bad lower bound", "USAF,XYZ,AE3FFF\n"},
		{"bad upper bound", "USAF,AE0000,XYZ\n"},
		{"inverted bounds", "USAF,AE3FFF,AE0000\n"},
		{"empty file", "# only comments\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "ranges.csv", tt.content)
			_, err := LoadRanges(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadRangesMissingFile(t *testing.T) {
	_, err := LoadRanges(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestLoadPrefixes(t *testing.T) {
	path := writeFile(t, "callsigns.txt", `# tankers and transports
reach
RCH

polo
`)
	prefixes, err := LoadPrefixes(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"REACH", "RCH", "POLO"}, prefixes)
}

func TestLoadPrefixesEmptyIsError(t *testing.T) {
	path := writeFile(t, "callsigns.txt", "\n# nothing here\n")
	_, err := LoadPrefixes(path)
	assert.Error(t, err)

	_, err = LoadPrefixes(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
