package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveShortcut(t *testing.T) {
	user := defaultShortcuts()

	assert.Equal(t, "sqrt", resolveShortcut(user, "r"), "user table substitution")
	assert.Equal(t, "+", resolveShortcut(user, "="), "fixed table substitution")
	assert.Equal(t, "x>0?", resolveShortcut(user, "x.0?"), "shifted symbol equivalent")
	assert.Equal(t, "sin", resolveShortcut(user, "sin"), "unmapped tokens pass through")
}

func TestResolveShortcutUserThenFixed(t *testing.T) {
	user := map[string]string{"gt": "x.0?"}
	assert.Equal(t, "x>0?", resolveShortcut(user, "gt"),
		"one user substitution may feed one fixed substitution")
}

func TestResolveShortcutNotRecursive(t *testing.T) {
	user := map[string]string{"a": "b", "b": "c"}
	assert.Equal(t, "b", resolveShortcut(user, "a"),
		"at most one user-table substitution applies")
}

func TestShortcutFor(t *testing.T) {
	user := defaultShortcuts()

	key, ok := shortcutFor(user, "sqrt")
	assert.True(t, ok)
	assert.Equal(t, "r", key)

	_, ok = shortcutFor(user, "sin")
	assert.False(t, ok)

	key, ok = shortcutFor(map[string]string{"z": "dup", "b": "dup"}, "dup")
	assert.True(t, ok)
	assert.Equal(t, "b", key, "ties break toward the lowest key")
}
