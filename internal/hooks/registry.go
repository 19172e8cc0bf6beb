package hooks

import (
	"sort"

	"github.com/entangled/entangled-go/internal/config"
	"github.com/entangled/entangled-go/internal/refs"
)

// Registry holds every hook this build knows about, keyed by name. Only the
// subset named in Config.Hooks actually runs for a given document.
type Registry struct {
	byName map[string]Hook
}

// NewRegistry builds the standard hook set.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]Hook)}
	for _, h := range []Hook{
		QuartoAttributes{},
		Shebang{},
		SPDXLicense{},
		&Task{},
		&Build{},
	} {
		r.byName[h.Name()] = h
	}
	return r
}

// Enabled returns the hooks named in cfg.Hooks that this registry knows
// about, sorted by ascending priority (spec.md §4.2: "each registered
// hook's on_read is invoked in ascending priority order"). An unknown name
// is silently skipped rather than treated as an error — style presets name
// hooks (like "repl") that have no core-side implementation because they
// carry no parse-affecting behavior this module's scope covers.
func (r *Registry) Enabled(cfg config.Config) []Hook {
	var out []Hook
	for _, name := range cfg.Hooks {
		if h, ok := r.byName[name]; ok {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority() < out[j].Priority() })
	return out
}

// OnRead runs every enabled hook's OnRead against block, in priority order.
func OnRead(hs []Hook, cfg config.Config, block *refs.CodeBlock) error {
	for _, h := range hs {
		if err := h.OnRead(cfg, block); err != nil {
			return err
		}
	}
	return nil
}

// PreTangle runs every enabled hook's PreTangle.
func PreTangle(hs []Hook, cfg config.Config, rm *refs.ReferenceMap) error {
	for _, h := range hs {
		if err := h.PreTangle(cfg, rm); err != nil {
			return err
		}
	}
	return nil
}

// OnTangle runs every enabled hook's OnTangle.
func OnTangle(hs []Hook, cfg config.Config, rm *refs.ReferenceMap, tx TxWriter) error {
	for _, h := range hs {
		if err := h.OnTangle(cfg, rm, tx); err != nil {
			return err
		}
	}
	return nil
}

// PostTangle runs every enabled hook's PostTangle.
func PostTangle(hs []Hook, cfg config.Config, rm *refs.ReferenceMap) error {
	for _, h := range hs {
		if err := h.PostTangle(cfg, rm); err != nil {
			return err
		}
	}
	return nil
}
