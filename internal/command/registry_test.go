package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(_ context.Context, _ *Request) error { return nil }

func def(name string, aliases ...string) Factory {
	return func() *Definition {
		return &Definition{Name: name, Aliases: aliases, Handler: noop}
	}
}

func TestLoadAllAndResolve(t *testing.T) {
	src := NewBuiltinSource()
	src.Register("core", def("ping", "p"), def("help"))
	src.Register("owner", def("sudo"))

	r := NewRegistry()
	require.NoError(t, r.LoadAll(src))

	assert.Equal(t, 3, r.Count())
	assert.Equal(t, []string{"core", "owner"}, r.Categories())

	got, ok := r.Resolve("ping")
	require.True(t, ok)
	assert.Equal(t, "ping", got.Name)

	byAlias, ok := r.Resolve("p")
	require.True(t, ok)
	assert.Same(t, got, byAlias)

	_, ok = r.Resolve("nope")
	assert.False(t, ok)
}

func TestLoadAllIsIdempotent(t *testing.T) {
	src := NewBuiltinSource()
	src.Register("core", def("ping"))

	r := NewRegistry()
	require.NoError(t, r.LoadAll(src))
	require.Equal(t, 1, r.Count())

	// A second load, even with new modules in the source, is a no-op.
	src.Register("core", def("late"))
	require.NoError(t, r.LoadAll(src))
	assert.Equal(t, 1, r.Count())
	_, ok := r.Resolve("late")
	assert.False(t, ok)
}

func TestLoadAllSkipsInvalidModules(t *testing.T) {
	src := NewBuiltinSource()
	src.Register("core",
		def("good"),
		func() *Definition { return &Definition{Name: "", Handler: noop} },
		func() *Definition { return &Definition{Name: "broken"} }, // no handler
		func() *Definition { return nil },
	)

	r := NewRegistry()
	require.NoError(t, r.LoadAll(src))
	assert.Equal(t, 1, r.Count())
	_, ok := r.Resolve("broken")
	assert.False(t, ok)
}

func TestAliasCollisionFirstClaimWins(t *testing.T) {
	src := NewBuiltinSource()
	src.Register("core", def("first", "x"), def("second", "x"))

	r := NewRegistry()
	require.NoError(t, r.LoadAll(src))

	got, ok := r.Resolve("x")
	require.True(t, ok)
	assert.Equal(t, "first", got.Name)

	// Both commands themselves still resolve by name.
	_, ok = r.Resolve("second")
	assert.True(t, ok)
}

func TestAliasNeverShadowsCommandName(t *testing.T) {
	src := NewBuiltinSource()
	src.Register("core", def("ping"), def("other", "ping"))

	r := NewRegistry()
	require.NoError(t, r.LoadAll(src))

	got, ok := r.Resolve("ping")
	require.True(t, ok)
	assert.Equal(t, "ping", got.Name)
}

func TestReloadOneSwapsBehavior(t *testing.T) {
	greeting := "v1"
	src := NewBuiltinSource()
	src.Register("core", func() *Definition {
		msg := greeting
		return &Definition{
			Name: "greet",
			Handler: func(_ context.Context, req *Request) error {
				return req.Reply(msg)
			},
		}
	})

	r := NewRegistry()
	require.NoError(t, r.LoadAll(src))

	var got string
	req := &Request{Reply: func(s string) error { got = s; return nil }}

	d, _ := r.Resolve("greet")
	require.NoError(t, d.Handler(context.Background(), req))
	assert.Equal(t, "v1", got)

	greeting = "v2"
	require.NoError(t, r.ReloadOne(src, "greet"))

	d, _ = r.Resolve("greet")
	require.NoError(t, d.Handler(context.Background(), req))
	assert.Equal(t, "v2", got)
}

func TestReloadOneFailureKeepsOldDefinition(t *testing.T) {
	valid := true
	src := NewBuiltinSource()
	src.Register("core", func() *Definition {
		if !valid {
			return &Definition{Name: "greet"} // handler missing: invalid
		}
		return &Definition{Name: "greet", Handler: noop, Cooldown: 5}
	})

	r := NewRegistry()
	require.NoError(t, r.LoadAll(src))
	old, _ := r.Resolve("greet")

	valid = false
	require.Error(t, r.ReloadOne(src, "greet"))

	still, ok := r.Resolve("greet")
	require.True(t, ok)
	assert.Same(t, old, still)
}

func TestReloadOneUnknownCommand(t *testing.T) {
	src := NewBuiltinSource()
	src.Register("core", def("ping"))

	r := NewRegistry()
	require.NoError(t, r.LoadAll(src))
	assert.Error(t, r.ReloadOne(src, "ghost"))
}

func TestReloadOnePreservesCategory(t *testing.T) {
	src := NewBuiltinSource()
	src.Register("admin", def("kick"))

	r := NewRegistry()
	require.NoError(t, r.LoadAll(src))
	require.NoError(t, r.ReloadOne(src, "kick"))

	defs := r.ByCategory("admin")
	require.Len(t, defs, 1)
	assert.Equal(t, "kick", defs[0].Name)
}

func TestByCategoryOrdered(t *testing.T) {
	src := NewBuiltinSource()
	src.Register("core", def("zeta"), def("alpha"), def("mid"))

	r := NewRegistry()
	require.NoError(t, r.LoadAll(src))

	defs := r.ByCategory("core")
	require.Len(t, defs, 3)
	assert.Equal(t, "alpha", defs[0].Name)
	assert.Equal(t, "mid", defs[1].Name)
	assert.Equal(t, "zeta", defs[2].Name)

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Names())
}
