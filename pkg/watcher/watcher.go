// Package watcher drives the live side of stencil: it observes the minimal
// set of project directories derived from the loaded templates, detects
// newly created empty files, applies the winning template, and keeps the
// live template set synchronized with edits to the template sources
// themselves.
package watcher

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/stencil/pkg/errors"
	"github.com/arthur-debert/stencil/pkg/logging"
	"github.com/arthur-debert/stencil/pkg/scope"
	"github.com/arthur-debert/stencil/pkg/template"
)

// State tracks one watch root's lifecycle.
type State int

const (
	// StateInitializing means the baseline scan is still running.
	StateInitializing State = iota
	// StateActive means the baseline is captured and events are handled.
	StateActive
	// StateStopped means all handles have been released.
	StateStopped
)

// Sink receives the one human-readable line emitted per scaffolded file.
type Sink func(message string)

// Orchestrator owns both watch streams: target directories (where files are
// scaffolded) and template-source directories (which mutate the live set).
// The two streams run on separate goroutines; the registry is the only
// state they share.
type Orchestrator struct {
	projectRoot string
	registry    *template.Registry
	sources     []scope.Source
	sink        Sink
	logger      zerolog.Logger

	targets     *fsnotify.Watcher
	sourceWatch *fsnotify.Watcher

	mu        sync.Mutex
	baselines map[string]map[string]struct{} // watch root -> project-relative paths seen at activation
	states    map[string]State

	ready    chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New builds an orchestrator over an already-merged live registry. sources
// are the discovered template roots whose contents feed the registry; they
// are watched separately so source edits update matching without restarting
// target watches.
func New(projectRoot string, registry *template.Registry, sources []scope.Source, sink Sink) *Orchestrator {
	logger := logging.GetLogger("watcher")
	if sink == nil {
		sink = func(msg string) { logger.Info().Msg(msg) }
	}
	return &Orchestrator{
		projectRoot: projectRoot,
		registry:    registry,
		sources:     sources,
		sink:        sink,
		logger:      logger,
		baselines:   make(map[string]map[string]struct{}),
		states:      make(map[string]State),
		ready:       make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Start derives the watch directories, captures their baselines, registers
// every watch handle and launches the event loops. The readiness signal
// fires once every baseline is captured; events arriving before then are
// queued by the watch backend, not lost.
func (o *Orchestrator) Start() error {
	var err error
	o.targets, err = fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrWatchFailed, "cannot create target watcher")
	}
	o.sourceWatch, err = fsnotify.NewWatcher()
	if err != nil {
		_ = o.targets.Close()
		return errors.Wrap(err, errors.ErrWatchFailed, "cannot create source watcher")
	}

	roots := DeriveWatchDirs(o.projectRoot, o.registry.Snapshot())
	for _, root := range roots {
		o.mu.Lock()
		o.states[root] = StateInitializing
		o.baselines[root] = make(map[string]struct{})
		o.mu.Unlock()

		o.scanRoot(root)

		o.mu.Lock()
		o.states[root] = StateActive
		o.mu.Unlock()
		o.logger.Debug().Str("root", root).Msg("Watch root active")
	}

	for _, src := range o.sources {
		o.addSourceWatches(src.RootDir)
	}

	close(o.ready)

	o.wg.Add(2)
	go o.targetLoop()
	go o.sourceLoop()

	o.logger.Info().
		Int("watchRoots", len(roots)).
		Int("templateRoots", len(o.sources)).
		Msg("Watch orchestrator started")
	return nil
}

// scanRoot registers watches for root and all its subdirectories and
// records every existing file into the root's baseline set, so files that
// predate the session are never scaffolded.
func (o *Orchestrator) scanRoot(root string) {
	baseline := o.baselines[root]
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			// A watch dir that does not exist yet, or a subtree we
			// cannot read, simply contributes nothing.
			return nil
		}
		if d.IsDir() {
			if isHidden(d.Name()) && p != root {
				return filepath.SkipDir
			}
			if addErr := o.targets.Add(p); addErr != nil {
				o.logger.Debug().Err(addErr).Str("dir", p).Msg("Cannot watch directory")
			}
			return nil
		}
		if rel, relErr := filepath.Rel(o.projectRoot, p); relErr == nil {
			baseline[filepath.ToSlash(rel)] = struct{}{}
		}
		return nil
	})
	if err != nil {
		o.logger.Debug().Err(err).Str("root", root).Msg("Baseline scan failed")
	}
}

// addSourceWatches registers the template-source watcher on a root
// directory and all its subdirectories.
func (o *Orchestrator) addSourceWatches(rootDir string) {
	err := filepath.WalkDir(rootDir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if addErr := o.sourceWatch.Add(p); addErr != nil {
				o.logger.Debug().Err(addErr).Str("dir", p).Msg("Cannot watch template source directory")
			}
		}
		return nil
	})
	if err != nil {
		o.logger.Debug().Err(err).Str("root", rootDir).Msg("Source watch registration failed")
	}
}

// Ready returns a channel closed once every watch root's baseline has been
// captured and live events are being handled.
func (o *Orchestrator) Ready() <-chan struct{} {
	return o.ready
}

// States returns a copy of the per-root lifecycle states.
func (o *Orchestrator) States() map[string]State {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make(map[string]State, len(o.states))
	for k, v := range o.states {
		out[k] = v
	}
	return out
}

// Stop releases every watch handle. It is idempotent and safe to call at
// any time, including before Start; in-flight event handling is allowed to
// settle rather than interrupted.
func (o *Orchestrator) Stop() {
	o.stopOnce.Do(func() {
		close(o.done)
		if o.targets != nil {
			_ = o.targets.Close()
		}
		if o.sourceWatch != nil {
			_ = o.sourceWatch.Close()
		}
		o.wg.Wait()

		o.mu.Lock()
		for root := range o.states {
			o.states[root] = StateStopped
		}
		o.mu.Unlock()
		o.logger.Info().Msg("Watch orchestrator stopped")
	})
}

func isHidden(name string) bool {
	return len(name) > 1 && name[0] == '.'
}
