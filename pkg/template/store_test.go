package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tmplWithContent(t *testing.T, scope, pattern, content string) *Template {
	t.Helper()
	tmpl := mustParse(t, pattern)
	tmpl.ScopePrefix = scope
	tmpl.Content = []byte(content)
	return tmpl
}

func TestMergeOverrideReplacesSharedKey(t *testing.T) {
	base := []*Template{tmplWithContent(t, "scope", "a/[name].ts", "X")}
	override := []*Template{tmplWithContent(t, "scope", "a/[name].ts", "Y")}

	merged := Merge(base, override)
	require.Len(t, merged, 1)
	assert.Equal(t, []byte("Y"), merged[0].Content)
}

func TestMergeDisjointInputsAreAdditive(t *testing.T) {
	base := []*Template{
		tmplWithContent(t, "", "a/[name].ts", "A"),
		tmplWithContent(t, "", "b/[name].ts", "B"),
	}
	override := []*Template{
		tmplWithContent(t, "", "c/[name].ts", "C"),
	}

	merged := Merge(base, override)
	assert.Len(t, merged, len(base)+len(override))

	sources := make([]string, 0, len(merged))
	for _, m := range merged {
		sources = append(sources, m.SourcePath)
	}
	assert.Equal(t, []string{"a/[name].ts", "b/[name].ts", "c/[name].ts"}, sources)
}

func TestMergeSameSourceDifferentScopeIsDistinct(t *testing.T) {
	base := []*Template{tmplWithContent(t, "", "a/[name].ts", "root")}
	override := []*Template{tmplWithContent(t, "src/admin", "a/[name].ts", "nested")}

	merged := Merge(base, override)
	assert.Len(t, merged, 2)
}

func TestMergeReplacementKeepsSlotOrder(t *testing.T) {
	base := []*Template{
		tmplWithContent(t, "", "a/[name].ts", "A"),
		tmplWithContent(t, "", "b/[name].ts", "B"),
	}
	override := []*Template{tmplWithContent(t, "", "a/[name].ts", "A2")}

	merged := Merge(base, override)
	require.Len(t, merged, 2)
	assert.Equal(t, "a/[name].ts", merged[0].SourcePath)
	assert.Equal(t, []byte("A2"), merged[0].Content)
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry([]*Template{
		tmplWithContent(t, "", "a/[name].ts", "A"),
		tmplWithContent(t, "", "b/[name].ts", "B"),
	})
	assert.Equal(t, 2, reg.Len())

	// Replace keeps the slot, insert appends.
	reg.InsertOrReplace(tmplWithContent(t, "", "a/[name].ts", "A2"))
	reg.InsertOrReplace(tmplWithContent(t, "", "c/[name].ts", "C"))
	assert.Equal(t, 3, reg.Len())

	snap := reg.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, []byte("A2"), snap[0].Content)
	assert.Equal(t, "c/[name].ts", snap[2].SourcePath)

	// Remove is keyed and tolerant of unknown keys.
	reg.Remove(snap[1].Key())
	reg.Remove("no-such-key")
	assert.Equal(t, 2, reg.Len())

	snap = reg.Snapshot()
	assert.Equal(t, "a/[name].ts", snap[0].SourcePath)
	assert.Equal(t, "c/[name].ts", snap[1].SourcePath)

	// Snapshot is a copy: mutating it does not affect the registry.
	snap[0] = nil
	assert.NotNil(t, reg.Snapshot()[0])
}
