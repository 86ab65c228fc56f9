package version

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestPrettyWithoutColor(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	orig := Version
	t.Cleanup(func() { Version = orig })

	tests := []struct {
		version string
		want    string
	}{
		{"1.2.3", "1.2.3"},
		{"0.1.0-dev", "0.1.0-dev"},
		{"nightly", "nightly"},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			Version = tt.version
			assert.Equal(t, tt.want, Pretty())
		})
	}
}

func TestCurrentTrims(t *testing.T) {
	orig, commit := Version, GitCommit
	t.Cleanup(func() { Version, GitCommit = orig, commit })

	Version, GitCommit = "  ", " abc123\n"
	info := Current()
	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, "abc123", info.Commit)
	assert.Empty(t, info.Built)
}
