package command

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

// Registry indexes loaded commands by name, alias, and category. All reads and
// swaps go through one RWMutex, so an in-flight dispatch that already resolved
// a definition keeps running the old record while a reload swaps in the new
// one — never a partially-swapped mixture.
type Registry struct {
	mu       sync.RWMutex
	loaded   bool
	defs     map[string]*Definition
	aliases  map[string]string // alias -> canonical name
	catOf    map[string]string // name -> category
	catOrder []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		defs:    make(map[string]*Definition),
		aliases: make(map[string]string),
		catOf:   make(map[string]string),
	}
}

// LoadAll imports every module the source yields. Modules missing a name or a
// handler are skipped with a warning, not fatal. Calling LoadAll on an already
// initialized registry is a no-op, which guards against double-initialization
// races at startup.
func (r *Registry) LoadAll(src Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded {
		log.Debug().Msg("command registry already loaded, skipping")
		return nil
	}

	modules, err := src.Load()
	if err != nil {
		return fmt.Errorf("failed to load command modules: %w", err)
	}

	for _, m := range modules {
		if err := r.indexLocked(m); err != nil {
			log.Warn().Err(err).Str("category", m.Category).Msg("skipping command module")
		}
	}

	r.rebuildCategoryOrderLocked()
	r.loaded = true
	log.Info().Int("commands", len(r.defs)).Int("categories", len(r.catOrder)).Msg("command registry loaded")
	return nil
}

// indexLocked validates and indexes one module. Alias collisions keep the
// first claim; the later claim is dropped with a warning.
func (r *Registry) indexLocked(m Module) error {
	def := m.Definition
	if def == nil {
		return fmt.Errorf("nil definition")
	}
	if def.Name == "" {
		return fmt.Errorf("command module without a name")
	}
	if def.Handler == nil {
		return fmt.Errorf("command %q has no handler", def.Name)
	}
	if _, exists := r.defs[def.Name]; exists {
		return fmt.Errorf("duplicate command name %q", def.Name)
	}
	if owner, taken := r.aliases[def.Name]; taken {
		return fmt.Errorf("command name %q already claimed as alias of %q", def.Name, owner)
	}

	r.defs[def.Name] = def
	r.catOf[def.Name] = m.Category
	r.claimAliasesLocked(def)
	return nil
}

// claimAliasesLocked indexes a definition's aliases, dropping collisions.
func (r *Registry) claimAliasesLocked(def *Definition) {
	for _, a := range def.Aliases {
		if a == "" || a == def.Name {
			continue
		}
		if _, exists := r.defs[a]; exists {
			log.Warn().Str("alias", a).Str("command", def.Name).Msg("alias shadows an existing command name, dropped")
			continue
		}
		if owner, taken := r.aliases[a]; taken {
			log.Warn().Str("alias", a).Str("command", def.Name).Str("owner", owner).Msg("alias already claimed, dropped")
			continue
		}
		r.aliases[a] = def.Name
	}
}

// Resolve returns the definition for a name or alias.
func (r *Registry) Resolve(nameOrAlias string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if def, ok := r.defs[nameOrAlias]; ok {
		return def, true
	}
	if name, ok := r.aliases[nameOrAlias]; ok {
		def, ok := r.defs[name]
		return def, ok
	}
	return nil, false
}

// ReloadOne re-imports a single command from the source and swaps it into the
// index atomically, preserving its category assignment. Any failure leaves the
// previous definition fully intact.
func (r *Registry) ReloadOne(src Source, name string) error {
	m, err := src.LoadOne(name)
	if err != nil {
		return fmt.Errorf("reload of %q failed: %w", name, err)
	}
	def := m.Definition
	if def == nil || def.Name == "" {
		return fmt.Errorf("reload of %q produced an unnamed definition", name)
	}
	if def.Handler == nil {
		return fmt.Errorf("reload of %q produced a definition without a handler", name)
	}
	if def.Name != name {
		return fmt.Errorf("reload of %q produced definition named %q", name, def.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.defs[name]
	if !ok {
		return fmt.Errorf("command %q is not registered", name)
	}

	// Release the old alias claims, then re-claim under the same rules.
	for _, a := range old.Aliases {
		if r.aliases[a] == name {
			delete(r.aliases, a)
		}
	}
	r.defs[name] = def
	r.claimAliasesLocked(def)

	log.Info().Str("command", name).Msg("command reloaded")
	return nil
}

// ByCategory returns the definitions of one category ordered by name.
func (r *Registry) ByCategory(category string) []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Definition
	for name, cat := range r.catOf {
		if cat != category {
			continue
		}
		if def, ok := r.defs[name]; ok {
			out = append(out, def)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Categories returns all categories in sorted order.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.catOrder...)
}

// Count returns the number of registered commands.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}

// Names returns every canonical command name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) rebuildCategoryOrderLocked() {
	seen := make(map[string]struct{})
	r.catOrder = r.catOrder[:0]
	for _, cat := range r.catOf {
		if _, ok := seen[cat]; ok {
			continue
		}
		seen[cat] = struct{}{}
		r.catOrder = append(r.catOrder, cat)
	}
	sort.Strings(r.catOrder)
}
