// Package command maps free-form input lines to handlers through an ordered
// table of anchored regular expressions.
package command

import (
	"context"
	"fmt"
	"regexp"
)

// Handler runs a matched command. env is the shell's explicit state object;
// args are the pattern's capture groups in order. Groups that did not
// participate in the match are passed as "".
type Handler[E any] func(ctx context.Context, env E, args []string) error

// Binding is one compiled (pattern, handler) registration.
type Binding[E any] struct {
	Name    string
	Pattern string
	re      *regexp.Regexp
	Handler Handler[E]
}

// Match is the result of a successful resolution.
type Match[E any] struct {
	Binding *Binding[E]
	Args    []string
}

// Registry is an ordered list of bindings, built once at startup. Resolution
// is first-match-wins in registration order, so specific patterns must be
// registered before general ones.
type Registry[E any] struct {
	bindings []*Binding[E]
}

// NewRegistry returns an empty registry.
func NewRegistry[E any]() *Registry[E] {
	return &Registry[E]{}
}

// Register compiles pattern and appends it. The pattern is anchored at both
// ends: only input it matches in full will resolve to h.
func (r *Registry[E]) Register(name, pattern string, h Handler[E]) error {
	if h == nil {
		return fmt.Errorf("command %q: nil handler", name)
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return fmt.Errorf("command %q: compiling pattern: %w", name, err)
	}
	r.bindings = append(r.bindings, &Binding[E]{
		Name:    name,
		Pattern: pattern,
		re:      re,
		Handler: h,
	})
	return nil
}

// MustRegister is Register for static tables; it panics on a bad pattern.
func (r *Registry[E]) MustRegister(name, pattern string, h Handler[E]) {
	if err := r.Register(name, pattern, h); err != nil {
		panic(err)
	}
}

// Resolve returns the first binding whose pattern matches all of input.
// It performs no I/O and does not call the handler.
func (r *Registry[E]) Resolve(input string) (Match[E], bool) {
	for _, b := range r.bindings {
		groups := b.re.FindStringSubmatch(input)
		if groups == nil {
			continue
		}
		args := make([]string, len(groups)-1)
		copy(args, groups[1:])
		return Match[E]{Binding: b, Args: args}, true
	}
	return Match[E]{}, false
}

// Bindings returns the registrations in resolution order.
func (r *Registry[E]) Bindings() []*Binding[E] {
	return append([]*Binding[E](nil), r.bindings...)
}

// Len is the number of registered bindings.
func (r *Registry[E]) Len() int { return len(r.bindings) }
