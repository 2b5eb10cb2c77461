package watcher

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/stencil/pkg/template"
)

// DeriveWatchDirs computes the minimal set of directories to observe for a
// template set: each template contributes its longest fully static leading
// directory run prefixed with its scope, the results are resolved to their
// nearest existing ancestor (the static prefix may name directories nobody
// has created yet) and deduplicated, and any directory nested under another
// result is dropped since watching is recursive.
func DeriveWatchDirs(projectRoot string, templates []*template.Template) []string {
	seen := make(map[string]struct{})
	var dirs []string
	for _, t := range templates {
		dir := filepath.Join(projectRoot, filepath.FromSlash(t.StaticPrefix()))
		dir = nearestExisting(projectRoot, dir)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}

	sort.Strings(dirs)
	return pruneNested(dirs)
}

// nearestExisting walks up from dir until it finds a directory that exists,
// never rising above the project root.
func nearestExisting(projectRoot, dir string) string {
	for {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
		if dir == projectRoot {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return projectRoot
		}
		dir = parent
	}
}

// pruneNested drops every directory that lies under an earlier one in the
// sorted input.
func pruneNested(sorted []string) []string {
	var out []string
	for _, dir := range sorted {
		nested := false
		for _, kept := range out {
			if dir == kept || strings.HasPrefix(dir, kept+string(filepath.Separator)) {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, dir)
		}
	}
	return out
}
