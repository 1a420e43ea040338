package command

import (
	"fmt"
	"sync"
)

// Module is one (category, definition) pair yielded by a Source.
type Module struct {
	Category   string
	Definition *Definition
}

// Source enumerates command modules for the registry. LoadOne backs targeted
// hot-reload: it re-materializes a single command's definition so the registry
// can swap it in without touching the rest.
type Source interface {
	Load() ([]Module, error)
	LoadOne(name string) (Module, error)
}

// Factory materializes one command definition. Factories are invoked on every
// load, so a reload picks up whatever state the factory reads at that moment.
type Factory func() *Definition

// BuiltinSource is a Source over compiled-in command factories, grouped one
// level deep by category.
type BuiltinSource struct {
	mu      sync.RWMutex
	entries []builtinEntry
}

type builtinEntry struct {
	category string
	factory  Factory
}

// NewBuiltinSource returns an empty source.
func NewBuiltinSource() *BuiltinSource {
	return &BuiltinSource{}
}

// Register adds factories under a category.
func (s *BuiltinSource) Register(category string, factories ...Factory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range factories {
		s.entries = append(s.entries, builtinEntry{category: category, factory: f})
	}
}

// Load materializes every registered module in registration order.
func (s *BuiltinSource) Load() ([]Module, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	modules := make([]Module, 0, len(s.entries))
	for _, e := range s.entries {
		modules = append(modules, Module{Category: e.category, Definition: e.factory()})
	}
	return modules, nil
}

// LoadOne re-materializes the named command.
func (s *BuiltinSource) LoadOne(name string) (Module, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		def := e.factory()
		if def != nil && def.Name == name {
			return Module{Category: e.category, Definition: def}, nil
		}
	}
	return Module{}, fmt.Errorf("no source module for command %q", name)
}
