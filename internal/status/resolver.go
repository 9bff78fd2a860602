// Package status maps free-text status names onto a board's actual
// status options.
package status

import (
	"sort"
	"strings"

	"boardctl/internal/match"
)

// DefaultAliases maps common shorthand to canonical status names. It is
// the single source of truth for built-in aliases; callers get a copy
// and may layer their own on top.
func DefaultAliases() map[string]string {
	return map[string]string{
		"wip":         "in progress",
		"in-progress": "in progress",
		"doing":       "in progress",
		"started":     "in progress",
		"active":      "in progress",
		"closed":      "done",
		"complete":    "done",
		"completed":   "done",
		"finished":    "done",
		"shipped":     "done",
		"resolved":    "done",
		"to do":       "todo",
		"to-do":       "todo",
		"not started": "todo",
		"stuck":       "blocked",
		"on hold":     "blocked",
		"waiting":     "blocked",
		"paused":      "blocked",
	}
}

// Resolver resolves target-status text against a board's option set.
type Resolver struct {
	aliases map[string]string
}

// NewResolver builds a Resolver from the default alias table with extra
// entries merged over it. Extra aliases win on key collisions.
func NewResolver(extra map[string]string) *Resolver {
	aliases := DefaultAliases()
	for k, v := range extra {
		aliases[match.Normalize(k)] = match.Normalize(v)
	}
	return &Resolver{aliases: aliases}
}

// Resolve maps target text to one of the board's status options, given
// the normalized option-name→ID mapping. Three stages, first hit wins:
// direct lookup, alias-table lookup, then bidirectional substring scan.
// Returns the canonical option name, its ID, and whether resolution
// succeeded.
func (r *Resolver) Resolve(target string, options map[string]string) (string, string, bool) {
	name := match.Normalize(target)
	if name == "" {
		return "", "", false
	}

	if id, ok := options[name]; ok {
		return name, id, true
	}

	if alias, ok := r.aliases[name]; ok {
		if id, ok := options[alias]; ok {
			return alias, id, true
		}
	}

	// Deterministic scan order: sorted names, so repeated runs resolve
	// identically.
	for _, optName := range ValidNames(options) {
		if strings.Contains(optName, name) || strings.Contains(name, optName) {
			return optName, options[optName], true
		}
	}

	return "", "", false
}

// ValidNames returns the board's status option names in sorted order,
// for error messages when resolution fails.
func ValidNames(options map[string]string) []string {
	names := make([]string, 0, len(options))
	for name := range options {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
