// Package scope discovers template-root directories in a project tree and
// loads their contents as scoped templates. Any number of roots may exist at
// different depths; each governs only the subtree of the directory that
// contains it.
package scope

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/stencil/pkg/logging"
	"github.com/arthur-debert/stencil/pkg/template"
)

// maxDepth bounds the discovery walk so a pathological tree (or a symlink
// cycle surfaced as directories) cannot recurse forever.
const maxDepth = 64

// Source is one discovered template root.
type Source struct {
	// RootDir is the directory holding the pattern files.
	RootDir string

	// ScopeRoot is the directory whose subtree the templates govern: the
	// parent that directly contains RootDir.
	ScopeRoot string

	// Depth is the nesting level of ScopeRoot below the project root,
	// zero for the project root itself.
	Depth int
}

// Prefix returns the slash-separated path from the project root to this
// source's scope root, "" when the scope root is the project root.
func (s Source) Prefix(projectRoot string) string {
	return scopePrefix(projectRoot, s.ScopeRoot)
}

// Discover walks the project tree depth-first and records every directory
// that directly contains a subdirectory named rootFolderName. Hidden
// directories are never descended into, and a root folder is data rather
// than project tree, so it is never recursed either. Unreadable directories
// contribute nothing.
func Discover(projectRoot, rootFolderName string) ([]Source, error) {
	logger := logging.GetLogger("scope.discover")

	var sources []Source
	var walk func(dir string, depth int)
	walk = func(dir string, depth int) {
		if depth > maxDepth {
			logger.Warn().Str("dir", dir).Msg("Depth ceiling reached, not descending")
			return
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			// A missing or unreadable directory is not an error, it
			// simply holds no template roots.
			logger.Debug().Err(err).Str("dir", dir).Msg("Skipping unreadable directory")
			return
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			name := entry.Name()
			if name == rootFolderName {
				sources = append(sources, Source{
					RootDir:   filepath.Join(dir, name),
					ScopeRoot: dir,
					Depth:     depth,
				})
				continue
			}
			if strings.HasPrefix(name, ".") {
				continue
			}
			walk(filepath.Join(dir, name), depth+1)
		}
	}
	walk(projectRoot, 0)

	logger.Debug().
		Int("count", len(sources)).
		Str("rootFolder", rootFolderName).
		Msg("Discovered template roots")
	return sources, nil
}

// LoadAll discovers every template root under projectRoot and parses every
// file it contains, stamping each template with the scope it governs.
// Templates are returned in discovery order, files within a root in walk
// order, so the resulting ordering is stable for a given tree.
func LoadAll(projectRoot, rootFolderName string) ([]*template.Template, error) {
	sources, err := Discover(projectRoot, rootFolderName)
	if err != nil {
		return nil, err
	}

	var templates []*template.Template
	for _, src := range sources {
		templates = append(templates, Load(projectRoot, src)...)
	}
	return templates, nil
}

// Load parses every file under one source's root directory. Files that fail
// to parse are logged and skipped; an unreadable root yields no templates.
func Load(projectRoot string, src Source) []*template.Template {
	logger := logging.GetLogger("scope.load")

	prefix := src.Prefix(projectRoot)

	var templates []*template.Template
	err := filepath.WalkDir(src.RootDir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			logger.Debug().Err(err).Str("path", p).Msg("Skipping unreadable entry")
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(src.RootDir, p)
		if relErr != nil {
			return nil
		}

		tmpl, parseErr := template.Parse(filepath.ToSlash(rel))
		if parseErr != nil {
			logger.Warn().Err(parseErr).Str("path", p).Msg("Skipping unparseable template path")
			return nil
		}
		tmpl.AbsPath = p
		tmpl.ScopePrefix = prefix
		tmpl.ScopeDepth = src.Depth
		templates = append(templates, tmpl)
		return nil
	})
	if err != nil {
		logger.Debug().Err(err).Str("root", src.RootDir).Msg("Template root walk failed")
	}

	logger.Debug().
		Str("root", src.RootDir).
		Str("scopePrefix", prefix).
		Int("count", len(templates)).
		Msg("Loaded templates from root")
	return templates
}

// scopePrefix computes the slash-separated path from the project root to a
// scope root, "" when they are the same directory.
func scopePrefix(projectRoot, scopeRoot string) string {
	rel, err := filepath.Rel(projectRoot, scopeRoot)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}
