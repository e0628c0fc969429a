package graft

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// World is the single shared namespace of committed variable state:
// current bindings plus a monotonically increasing generation counter
// per variable. Direct writes (Set) leave generations untouched; only
// AdvanceGeneration moves a variable's clock, and the merge protocol
// is its only caller. A World is owned by the interpreter instance
// that created it, never shared process-wide, so independent
// interpreters can coexist. Access is guarded for callers that reach
// in from other goroutines.
type World struct {
	mu         sync.RWMutex
	vars       map[string]Value
	generation map[string]int
}

// NewWorld creates an empty World
func NewWorld() *World {
	return &World{
		vars:       make(map[string]Value),
		generation: make(map[string]int),
	}
}

// Get returns the current binding for name, and whether one exists
func (w *World) Get(name string) (Value, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	v, ok := w.vars[name]
	return v, ok
}

// Set unconditionally overwrites the binding for name. The variable's
// generation is not changed.
func (w *World) Set(name string, value Value) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.vars[name] = value
}

// Generation returns the generation counter for name, 0 if never seen
func (w *World) Generation(name string) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.generation[name]
}

// AdvanceGeneration increments the generation counter for name,
// creating it at 1 if absent
func (w *World) AdvanceGeneration(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.generation[name]++
}

// Names returns all bound variable names in sorted order
func (w *World) Names() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	names := make([]string, 0, len(w.vars))
	for name := range w.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of bound variables
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.vars)
}

// String renders a deterministic snapshot of bindings and generations,
// used for the before/after execution dumps
func (w *World) String() string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	names := make([]string, 0, len(w.vars))
	for name := range w.vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("World{")
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s (gen %d)", name, w.vars[name], w.generation[name])
	}
	b.WriteString("}")
	return b.String()
}
