// Package session is the integration surface consumed by hosts: start wires
// discovery, preset stacking, merging and the watch orchestrator together;
// stop tears the watches down again.
package session

import (
	"github.com/arthur-debert/stencil/pkg/config"
	"github.com/arthur-debert/stencil/pkg/logging"
	"github.com/arthur-debert/stencil/pkg/presets"
	"github.com/arthur-debert/stencil/pkg/scope"
	"github.com/arthur-debert/stencil/pkg/template"
	"github.com/arthur-debert/stencil/pkg/watcher"
)

// Session is one live scaffolding run over a project root.
type Session struct {
	registry     *template.Registry
	orchestrator *watcher.Orchestrator
}

// LoadSet resolves the effective template set for a project without
// starting any watches: presets stacked left to right form the base, and
// user-authored templates from every discovered root always win on an
// identity-key collision.
func LoadSet(opts config.Options, projectRoot string) ([]*template.Template, []scope.Source, error) {
	builtin, err := presets.LoadAll(opts.Presets)
	if err != nil {
		return nil, nil, err
	}

	sources, err := scope.Discover(projectRoot, opts.RootFolderName)
	if err != nil {
		return nil, nil, err
	}

	var user []*template.Template
	for _, src := range sources {
		user = append(user, scope.Load(projectRoot, src)...)
	}

	return template.Merge(builtin, user), sources, nil
}

// Start loads the template set and begins watching. Options are expected to
// be resolved already (config.Load). With Enabled false the session is a
// no-op whose Stop does nothing. sink receives one line per scaffolded file
// and may be nil.
func Start(opts config.Options, projectRoot string, sink watcher.Sink) (*Session, error) {
	logger := logging.GetLogger("session")

	if !opts.Enabled {
		logger.Info().Msg("Scaffolding disabled, session is a no-op")
		return &Session{}, nil
	}

	merged, sources, err := LoadSet(opts, projectRoot)
	if err != nil {
		return nil, err
	}

	registry := template.NewRegistry(merged)
	orchestrator := watcher.New(projectRoot, registry, sources, sink)
	if err := orchestrator.Start(); err != nil {
		return nil, err
	}

	logger.Info().
		Int("templates", registry.Len()).
		Int("roots", len(sources)).
		Str("projectRoot", projectRoot).
		Msg("Session started")

	return &Session{registry: registry, orchestrator: orchestrator}, nil
}

// Ready reports readiness of the underlying watches. A disabled session is
// immediately ready.
func (s *Session) Ready() <-chan struct{} {
	if s.orchestrator == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return s.orchestrator.Ready()
}

// Templates returns a snapshot of the live template set.
func (s *Session) Templates() []*template.Template {
	if s.registry == nil {
		return nil
	}
	return s.registry.Snapshot()
}

// Stop releases all watch handles. Safe to call more than once and on a
// disabled session.
func (s *Session) Stop() {
	if s.orchestrator != nil {
		s.orchestrator.Stop()
	}
}
