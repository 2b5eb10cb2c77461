package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/stencil/pkg/config"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func TestLoadSetUserOverridesPreset(t *testing.T) {
	root := t.TempDir()
	// Same identity key as the vue preset's component template.
	writeFile(t, root, ".stencil/src/components/[name].vue", "user version")

	opts := config.Defaults()
	opts.Presets = []string{"vue"}

	merged, sources, err := LoadSet(opts, root)
	require.NoError(t, err)
	require.Len(t, sources, 1)

	var found bool
	for _, tmpl := range merged {
		if tmpl.SourcePath == "src/components/[name].vue" && tmpl.ScopePrefix == "" {
			found = true
			content, readErr := tmpl.ReadContent()
			require.NoError(t, readErr)
			assert.Equal(t, "user version", string(content))
		}
	}
	assert.True(t, found)
}

func TestLoadSetUnknownPreset(t *testing.T) {
	opts := config.Defaults()
	opts.Presets = []string{"missing"}

	_, _, err := LoadSet(opts, t.TempDir())
	require.Error(t, err)
}

func TestStartDisabled(t *testing.T) {
	opts := config.Defaults()
	opts.Enabled = false

	s, err := Start(opts, t.TempDir(), nil)
	require.NoError(t, err)

	select {
	case <-s.Ready():
	default:
		t.Fatal("disabled session must be immediately ready")
	}
	assert.Nil(t, s.Templates())
	s.Stop()
	s.Stop()
}

func TestStartAndStop(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".stencil/[name].vue", "template")

	s, err := Start(config.Defaults(), root, nil)
	require.NoError(t, err)
	defer s.Stop()

	<-s.Ready()
	assert.Len(t, s.Templates(), 1)
}
