package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/arthur-debert/stencil/pkg/errors"
	"github.com/arthur-debert/stencil/pkg/scope"
	"github.com/arthur-debert/stencil/pkg/template"
)

func (o *Orchestrator) targetLoop() {
	defer o.wg.Done()
	for {
		select {
		case <-o.done:
			return
		case ev, ok := <-o.targets.Events:
			if !ok {
				return
			}
			o.handleTargetEvent(ev)
		case err, ok := <-o.targets.Errors:
			if !ok {
				return
			}
			o.logger.Warn().Err(err).Msg("Target watch error")
		}
	}
}

func (o *Orchestrator) sourceLoop() {
	defer o.wg.Done()
	for {
		select {
		case <-o.done:
			return
		case ev, ok := <-o.sourceWatch.Events:
			if !ok {
				return
			}
			o.handleSourceEvent(ev)
		case err, ok := <-o.sourceWatch.Errors:
			if !ok {
				return
			}
			o.logger.Warn().Err(err).Msg("Source watch error")
		}
	}
}

func (o *Orchestrator) handleTargetEvent(ev fsnotify.Event) {
	switch {
	case ev.Op.Has(fsnotify.Create):
		info, err := os.Stat(ev.Name)
		if err != nil {
			// Gone already; a fast create-delete is not our problem.
			return
		}
		if info.IsDir() {
			o.watchNewDirectory(ev.Name)
			return
		}
		o.handleCreatedFile(ev.Name, info.Size())
	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		o.forgetBaseline(ev.Name)
	}
}

// watchNewDirectory registers a directory created after activation and
// scaffolds any files that appeared inside it before the watch landed.
func (o *Orchestrator) watchNewDirectory(dir string) {
	if isHidden(filepath.Base(dir)) {
		return
	}
	if err := o.targets.Add(dir); err != nil {
		o.logger.Debug().Err(err).Str("dir", dir).Msg("Cannot watch new directory")
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		p := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			o.watchNewDirectory(p)
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		o.handleCreatedFile(p, info.Size())
	}
}

// handleCreatedFile is the scaffold decision point: pre-existing files and
// files that already have content are left alone, everything else runs
// through match and resolution against a snapshot of the live set.
func (o *Orchestrator) handleCreatedFile(absPath string, size int64) {
	rel, err := filepath.Rel(o.projectRoot, absPath)
	if err != nil {
		return
	}
	relSlash := filepath.ToSlash(rel)

	if o.inBaseline(relSlash) {
		return
	}
	if size != 0 {
		o.logger.Debug().Str("file", relSlash).Msg("New file is not empty, leaving it alone")
		return
	}

	best, _ := template.ResolveBest(relSlash, o.registry.Snapshot())
	if best == nil {
		// No template for this file is a no-op, not an error.
		return
	}

	if err := o.apply(best, absPath); err != nil {
		// One failed scaffold must not stop the watch loop.
		o.logger.Error().Err(err).Str("file", relSlash).Msg("Failed to apply template")
		return
	}
	o.sink(fmt.Sprintf("scaffolded %s from %s", relSlash, best.SourcePath))
}

// apply overwrites the target with the template's current content. The
// content is re-read at apply time so edits to the source after initial
// load are honored.
func (o *Orchestrator) apply(t *template.Template, target string) error {
	content, err := t.ReadContent()
	if err != nil {
		return err
	}
	if err := os.WriteFile(target, content, 0644); err != nil {
		return errors.Wrap(err, errors.ErrWriteFailed, "cannot write scaffolded file").
			WithDetail("target", target).
			WithDetail("template", t.SourcePath)
	}
	return nil
}

// inBaseline reports whether the project-relative path was already present
// when its watch root activated.
func (o *Orchestrator) inBaseline(relSlash string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, baseline := range o.baselines {
		if _, ok := baseline[relSlash]; ok {
			return true
		}
	}
	return false
}

// forgetBaseline drops a removed path from every baseline so a later
// recreation is again eligible for scaffolding.
func (o *Orchestrator) forgetBaseline(absPath string) {
	rel, err := filepath.Rel(o.projectRoot, absPath)
	if err != nil {
		return
	}
	relSlash := filepath.ToSlash(rel)

	o.mu.Lock()
	defer o.mu.Unlock()
	for _, baseline := range o.baselines {
		delete(baseline, relSlash)
	}
}

// handleSourceEvent keeps the live template set current with edits under
// the discovered template roots: adds and changes re-parse the single file,
// removals delete the corresponding entry by identity key.
func (o *Orchestrator) handleSourceEvent(ev fsnotify.Event) {
	src, rel, ok := o.owningSource(ev.Name)
	if !ok {
		return
	}

	switch {
	case ev.Op.Has(fsnotify.Create), ev.Op.Has(fsnotify.Write):
		info, err := os.Stat(ev.Name)
		if err != nil {
			return
		}
		if info.IsDir() {
			o.addSourceWatches(ev.Name)
			o.reloadSourceDir(src, ev.Name)
			return
		}
		o.reloadSourceFile(src, rel, ev.Name)
	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		key := src.Prefix(o.projectRoot) + "\x00" + rel
		o.registry.Remove(key)
		o.logger.Debug().Str("template", rel).Msg("Template source removed")
	}
}

// reloadSourceFile re-parses one template source and replaces its live
// entry.
func (o *Orchestrator) reloadSourceFile(src scope.Source, rel, absPath string) {
	tmpl, err := template.Parse(rel)
	if err != nil {
		o.logger.Warn().Err(err).Str("path", absPath).Msg("Skipping unparseable template path")
		return
	}
	tmpl.AbsPath = absPath
	tmpl.ScopePrefix = src.Prefix(o.projectRoot)
	tmpl.ScopeDepth = src.Depth
	o.registry.InsertOrReplace(tmpl)
	o.logger.Debug().Str("template", rel).Msg("Template source updated")
}

// reloadSourceDir picks up every file inside a directory that appeared
// under a template root, covering editors that move whole directories into
// place.
func (o *Orchestrator) reloadSourceDir(src scope.Source, dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		p := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			o.reloadSourceDir(src, p)
			continue
		}
		if rel, relErr := filepath.Rel(src.RootDir, p); relErr == nil {
			o.reloadSourceFile(src, filepath.ToSlash(rel), p)
		}
	}
}

// owningSource finds the template root containing the path and returns the
// path relative to it.
func (o *Orchestrator) owningSource(absPath string) (scope.Source, string, bool) {
	for _, src := range o.sources {
		prefix := src.RootDir + string(filepath.Separator)
		if absPath == src.RootDir || strings.HasPrefix(absPath, prefix) {
			rel, err := filepath.Rel(src.RootDir, absPath)
			if err != nil {
				continue
			}
			return src, filepath.ToSlash(rel), true
		}
	}
	return scope.Source{}, "", false
}
