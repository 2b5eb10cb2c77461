// Package presets ships named, built-in template collections that work
// without a local template tree. Each collection is an embedded directory
// whose file paths are patterns and whose file contents are the payloads.
//
// Payloads that would confuse the Go toolchain if embedded under their real
// name (Go source, mainly) carry an extra ".tmpl" suffix in the embedded
// tree; the suffix is stripped when the pattern is parsed.
package presets

import (
	"embed"
	"io/fs"
	"sort"
	"strings"

	"github.com/arthur-debert/stencil/pkg/errors"
	"github.com/arthur-debert/stencil/pkg/logging"
	"github.com/arthur-debert/stencil/pkg/template"
)

//go:embed all:embedded
var embedded embed.FS

const embeddedRoot = "embedded"

// payloadSuffix is stripped from embedded file names before pattern parsing.
const payloadSuffix = ".tmpl"

// Names lists the available preset collections, sorted.
func Names() []string {
	entries, err := embedded.ReadDir(embeddedRoot)
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Load parses one named collection into templates. Preset templates always
// govern the whole project (empty scope prefix, depth zero) and carry their
// payload inline, so the source watcher never has to track them.
func Load(name string) ([]*template.Template, error) {
	logger := logging.GetLogger("presets")

	root := embeddedRoot + "/" + name
	if _, err := embedded.ReadDir(root); err != nil {
		return nil, errors.Newf(errors.ErrPresetNotFound, "unknown preset %q", name).
			WithDetail("available", Names())
	}

	var templates []*template.Template
	err := fs.WalkDir(embedded, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		content, readErr := embedded.ReadFile(p)
		if readErr != nil {
			return readErr
		}

		rel := strings.TrimPrefix(p, root+"/")
		rel = strings.TrimSuffix(rel, payloadSuffix)

		tmpl, parseErr := template.Parse(rel)
		if parseErr != nil {
			logger.Warn().Err(parseErr).Str("path", p).Msg("Skipping unparseable preset path")
			return nil
		}
		tmpl.Content = content
		templates = append(templates, tmpl)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "failed to read preset %q", name)
	}

	logger.Debug().Str("preset", name).Int("count", len(templates)).Msg("Loaded preset")
	return templates, nil
}

// LoadAll stacks the named collections left to right: on an identity-key
// collision a later preset overrides an earlier one.
func LoadAll(names []string) ([]*template.Template, error) {
	var stacked []*template.Template
	for _, name := range names {
		loaded, err := Load(name)
		if err != nil {
			return nil, err
		}
		stacked = template.Merge(stacked, loaded)
	}
	return stacked, nil
}
