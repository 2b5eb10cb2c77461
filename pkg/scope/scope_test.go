package scope

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/stencil/pkg/template"
)

func writeFile(t *testing.T, root string, rel string, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".stencil/[name].vue", "root template")
	writeFile(t, root, "src/modules/admin/.stencil/components/[name].vue", "admin template")
	writeFile(t, root, "src/main.ts", "")

	sources, err := Discover(root, ".stencil")
	require.NoError(t, err)
	require.Len(t, sources, 2)

	assert.Equal(t, root, sources[0].ScopeRoot)
	assert.Equal(t, filepath.Join(root, ".stencil"), sources[0].RootDir)
	assert.Equal(t, 0, sources[0].Depth)

	assert.Equal(t, filepath.Join(root, "src", "modules", "admin"), sources[1].ScopeRoot)
	assert.Equal(t, 3, sources[1].Depth)
}

func TestDiscoverSkipsHiddenDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".git/objects/.stencil/[name].vue", "never found")
	writeFile(t, root, ".hidden/sub/.stencil/[name].vue", "never found")
	writeFile(t, root, "src/.stencil/[name].vue", "found")

	sources, err := Discover(root, ".stencil")
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, filepath.Join(root, "src"), sources[0].ScopeRoot)
}

func TestDiscoverDoesNotRecurseIntoRootFolder(t *testing.T) {
	root := t.TempDir()
	// A root folder containing a directory that itself holds a root
	// folder: the inner one is template data, not a project directory.
	writeFile(t, root, "templates/sub/templates/[name].vue", "data")

	sources, err := Discover(root, "templates")
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, root, sources[0].ScopeRoot)
}

func TestDiscoverMissingRootIsEmpty(t *testing.T) {
	sources, err := Discover(filepath.Join(t.TempDir(), "nope"), ".stencil")
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestLoadAll(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".stencil/src/components/[name].vue", "<template></template>")
	writeFile(t, root, ".stencil/[...path].ts", "// ts")
	writeFile(t, root, "src/modules/admin/.stencil/components/[name].vue", "<!-- admin -->")

	templates, err := LoadAll(root, ".stencil")
	require.NoError(t, err)
	require.Len(t, templates, 3)

	byKey := make(map[string]*template.Template, len(templates))
	for _, tmpl := range templates {
		byKey[tmpl.Key()] = tmpl
	}

	rootTmpl := byKey["\x00src/components/[name].vue"]
	require.NotNil(t, rootTmpl)
	assert.Equal(t, "", rootTmpl.ScopePrefix)
	assert.Equal(t, 0, rootTmpl.ScopeDepth)
	assert.Equal(t, ".vue", rootTmpl.Ext)

	admin := byKey["src/modules/admin\x00components/[name].vue"]
	require.NotNil(t, admin)
	assert.Equal(t, 3, admin.ScopeDepth)

	content, err := admin.ReadContent()
	require.NoError(t, err)
	assert.Equal(t, []byte("<!-- admin -->"), content)
}

func TestLoadReadsCurrentContent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".stencil/[name].vue", "before")

	templates, err := LoadAll(root, ".stencil")
	require.NoError(t, err)
	require.Len(t, templates, 1)

	// Content is re-read at apply time, so an edit after load wins.
	writeFile(t, root, ".stencil/[name].vue", "after")
	content, err := templates[0].ReadContent()
	require.NoError(t, err)
	assert.Equal(t, []byte("after"), content)
}
