package benchmark

import (
	"fmt"
	"slices"
	"strings"
)

// SelectAll selects every registered benchmark.
const SelectAll = "all"

// Registry is an append-only table of descriptors in registration order.
type Registry struct {
	descriptors []Descriptor
	byName      map[string]int
}

// NewRegistry registers descriptors in order.
func NewRegistry(descriptors ...Descriptor) (*Registry, error) {
	r := &Registry{byName: make(map[string]int)}
	for _, d := range descriptors {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register appends d. Names must be unique.
func (r *Registry) Register(d Descriptor) error {
	if err := d.validate(); err != nil {
		return err
	}
	if _, dup := r.byName[d.Name]; dup {
		return fmt.Errorf("benchmark %s registered twice", d.Name)
	}
	r.byName[d.Name] = len(r.descriptors)
	r.descriptors = append(r.descriptors, d)
	return nil
}

// Len returns the number of registered benchmarks.
func (r *Registry) Len() int { return len(r.descriptors) }

// All returns every descriptor in registration order.
func (r *Registry) All() []Descriptor {
	return slices.Clone(r.descriptors)
}

// Lookup finds a descriptor by exact name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Descriptor{}, false
	}
	return r.descriptors[i], true
}

// Category returns the descriptors of a category in registration order; empty when
// the category is unknown.
func (r *Registry) Category(category string) []Descriptor {
	var out []Descriptor
	for _, d := range r.descriptors {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}

// Categories returns the distinct categories, sorted.
func (r *Registry) Categories() []string {
	var cats []string
	for _, d := range r.descriptors {
		if !slices.Contains(cats, d.Category) {
			cats = append(cats, d.Category)
		}
	}
	slices.Sort(cats)
	return cats
}

// Order returns the registration index of a benchmark, or -1.
func (r *Registry) Order(name string) int {
	if i, ok := r.byName[name]; ok {
		return i
	}
	return -1
}

// Selection is the outcome of resolving selection tokens.
type Selection struct {
	Descriptors []Descriptor
	Unknown     []string
}

// Errors returns one UnknownBenchmarkError per unmatched token.
func (s Selection) Errors() []error {
	errs := make([]error, 0, len(s.Unknown))
	for _, tok := range s.Unknown {
		errs = append(errs, &UnknownBenchmarkError{Name: tok})
	}
	return errs
}

// Select resolves tokens ("all", category names, exact benchmark names). A token is
// tried as a category first, then as a name. The result is deduplicated and in
// registration order; unmatched tokens are reported, not treated as errors.
func (r *Registry) Select(tokens []string) Selection {
	var sel Selection
	picked := make(map[int]bool)
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if tok == SelectAll {
			for i := range r.descriptors {
				picked[i] = true
			}
			continue
		}
		matched := false
		for i, d := range r.descriptors {
			if d.Category == tok {
				picked[i] = true
				matched = true
			}
		}
		if matched {
			continue
		}
		if i, ok := r.byName[tok]; ok {
			picked[i] = true
			continue
		}
		sel.Unknown = append(sel.Unknown, tok)
	}
	for i, d := range r.descriptors {
		if picked[i] {
			sel.Descriptors = append(sel.Descriptors, d)
		}
	}
	return sel
}
