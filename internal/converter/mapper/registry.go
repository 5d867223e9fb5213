package mapper

import (
	"fmt"
	"strings"
)

// ============================================================
// Identity Registry
// ============================================================

const maxNameLength = 100

// Registry assigns collision-free GEM names for one translation run. The
// same source identifier always resolves to the same assigned name within
// the run.
type Registry struct {
	names map[string]string // source identifier -> assigned name
	taken map[string]bool
}

func NewRegistry() *Registry {
	return &Registry{
		names: make(map[string]string),
		taken: make(map[string]bool),
	}
}

// Assign returns the GEM name for a source entity. The candidate comes from
// the display name when present, otherwise the identifier; collisions get a
// deterministic numeric suffix.
func (r *Registry) Assign(sourceID, displayName string) string {
	if name, ok := r.names[sourceID]; ok {
		return name
	}

	candidate := displayName
	if candidate == "" {
		candidate = sourceID
	}
	candidate = Sanitize(candidate)
	if candidate == "" {
		candidate = "Unnamed"
	}

	name := candidate
	for i := 1; r.taken[name]; i++ {
		name = fmt.Sprintf("%s_%d", candidate, i)
	}

	r.taken[name] = true
	if sourceID != "" {
		r.names[sourceID] = name
	}
	return name
}

// Names returns a copy of the identifier-to-name mapping.
func (r *Registry) Names() map[string]string {
	out := make(map[string]string, len(r.names))
	for k, v := range r.names {
		out[k] = v
	}
	return out
}

// Sanitize reduces a candidate name to the GEM-legal character set. Runs of
// illegal characters collapse into a single underscore.
func Sanitize(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		legal := r == '-' || r == '_' ||
			(r >= '0' && r <= '9') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= 'a' && r <= 'z')
		if legal {
			b.WriteRune(r)
			lastUnderscore = r == '_'
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	out := strings.Trim(b.String(), "_")
	if len(out) > maxNameLength {
		out = out[:maxNameLength]
	}
	return out
}
