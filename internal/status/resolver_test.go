package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boardOptions() map[string]string {
	return map[string]string{
		"todo":        "opt-todo",
		"in progress": "opt-progress",
		"in review":   "opt-review",
		"done":        "opt-done",
	}
}

func TestResolveDirect(t *testing.T) {
	r := NewResolver(nil)

	name, id, ok := r.Resolve("done", boardOptions())
	require.True(t, ok)
	assert.Equal(t, "done", name)
	assert.Equal(t, "opt-done", id)

	// Case and whitespace insensitive.
	name, id, ok = r.Resolve("  In Progress ", boardOptions())
	require.True(t, ok)
	assert.Equal(t, "in progress", name)
	assert.Equal(t, "opt-progress", id)
}

func TestResolveAlias(t *testing.T) {
	r := NewResolver(nil)

	// "wip" matches nothing directly; the alias table routes it.
	name, id, ok := r.Resolve("wip", boardOptions())
	require.True(t, ok)
	assert.Equal(t, "in progress", name)
	assert.Equal(t, "opt-progress", id)

	name, id, ok = r.Resolve("closed", boardOptions())
	require.True(t, ok)
	assert.Equal(t, "done", name)
	assert.Equal(t, "opt-done", id)
}

func TestResolveCustomAliasesWin(t *testing.T) {
	r := NewResolver(map[string]string{
		"QA":     "In Review",
		"closed": "todo", // override a built-in
	})

	name, _, ok := r.Resolve("qa", boardOptions())
	require.True(t, ok)
	assert.Equal(t, "in review", name)

	name, _, ok = r.Resolve("closed", boardOptions())
	require.True(t, ok)
	assert.Equal(t, "todo", name)
}

func TestResolveSubstring(t *testing.T) {
	r := NewResolver(nil)

	// Board name contains the input.
	name, _, ok := r.Resolve("review", boardOptions())
	require.True(t, ok)
	assert.Equal(t, "in review", name)

	// Input contains the board name.
	name, _, ok = r.Resolve("all done here", boardOptions())
	require.True(t, ok)
	assert.Equal(t, "done", name)
}

func TestResolveMiss(t *testing.T) {
	r := NewResolver(nil)

	_, _, ok := r.Resolve("shipped to mars", boardOptions())
	assert.False(t, ok)

	_, _, ok = r.Resolve("", boardOptions())
	assert.False(t, ok)
}

func TestValidNamesSorted(t *testing.T) {
	names := ValidNames(boardOptions())
	assert.Equal(t, []string{"done", "in progress", "in review", "todo"}, names)
}
