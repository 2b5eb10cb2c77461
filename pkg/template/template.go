package template

import (
	"os"
	"path"
	"strings"

	"github.com/arthur-debert/stencil/pkg/errors"
)

// Template is one parsed pattern together with the payload it scaffolds and
// the scope it governs. Match semantics are fully determined by DirSegments,
// StemSegments, Ext and ScopePrefix.
type Template struct {
	// DirSegments holds one segment group per directory component of the
	// pattern, in order. Most groups are a single segment; a component
	// like "api-[version]" parses into several.
	DirSegments [][]Segment

	// StemSegments holds the segment group for the filename stem (the
	// final component with the extension stripped).
	StemSegments []Segment

	// Ext is the literal extension including the leading dot, compared
	// exactly. Empty when the final component has no dot.
	Ext string

	// SourcePath is the original pattern path relative to its owning
	// template root, using forward slashes.
	SourcePath string

	// AbsPath is the on-disk location of the template file. Content is
	// re-read from here at apply time so edits after load are picked up.
	// Empty for built-in presets, whose payload is inline.
	AbsPath string

	// Content is the inline payload for templates without an AbsPath.
	Content []byte

	// ScopePrefix is the path from the project root to the directory the
	// owning template root governs, "" when it governs the whole project.
	ScopePrefix string

	// ScopeDepth is the nesting level of the scope root below the project
	// root. Used only to break specificity ties.
	ScopeDepth int
}

// Key returns the identity used for override precedence when merging
// template sets: two templates with the same scope and source path are the
// same logical template.
func (t *Template) Key() string {
	return t.ScopePrefix + "\x00" + t.SourcePath
}

// ScopeRel strips the template's scope prefix from a project-relative path.
// The second return is false when the path lies outside the scope, in which
// case the template must not be matched against it at all.
func (t *Template) ScopeRel(relPath string) (string, bool) {
	if t.ScopePrefix == "" {
		return relPath, true
	}
	prefix := t.ScopePrefix + "/"
	if !strings.HasPrefix(relPath, prefix) {
		return "", false
	}
	return strings.TrimPrefix(relPath, prefix), true
}

// ReadContent returns the template payload. File-backed templates are read
// from disk on every call rather than cached, so a template edited after
// initial load scaffolds its current content.
func (t *Template) ReadContent() ([]byte, error) {
	if t.AbsPath == "" {
		return t.Content, nil
	}
	data, err := os.ReadFile(t.AbsPath)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrReadFailed, "cannot read template source").
			WithDetail("path", t.AbsPath)
	}
	return data, nil
}

// StaticPrefix returns the longest leading run of fully static directory
// components, joined and prefixed with the scope prefix. This is the
// directory the watcher observes for this template.
func (t *Template) StaticPrefix() string {
	var comps []string
	for _, group := range t.DirSegments {
		if len(group) != 1 || group[0].Kind != SegmentStatic {
			break
		}
		comps = append(comps, group[0].Text)
	}
	return path.Join(t.ScopePrefix, path.Join(comps...))
}
