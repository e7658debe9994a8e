// Package resolver resolves indirect references in PDF object graphs,
// with cycle detection and a recursion-depth bound. Deep resolution
// produces structurally new dictionaries/arrays and never mutates its
// input objects.
package resolver

import (
	"fmt"

	"github.com/trkbt10/officekit/core"
	"github.com/trkbt10/officekit/internal/errs"
)

// ObjectReader supplies objects by number; any document reader satisfies
// it.
type ObjectReader interface {
	GetObject(objNum int) (core.Object, error)
	ResolveReference(ref core.IndirectRef) (core.Object, error)
}

// ObjectResolver resolves references against an ObjectReader. Each
// top-level call runs with its own visited set, so a resolver can be
// reused across independent resolutions.
type ObjectResolver struct {
	reader   ObjectReader
	maxDepth int
}

// Option configures the resolver.
type Option func(*ObjectResolver)

// WithMaxDepth sets the maximum recursion depth (default 100).
func WithMaxDepth(depth int) Option {
	return func(r *ObjectResolver) { r.maxDepth = depth }
}

// NewResolver creates a resolver over a reader.
func NewResolver(reader ObjectReader, opts ...Option) *ObjectResolver {
	r := &ObjectResolver{reader: reader, maxDepth: 100}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// walk carries one resolution's state: the objects on the current
// reference chain (for cycle detection) and the remaining depth budget.
type walk struct {
	reader  ObjectReader
	onChain map[int]bool
	depth   int
	max     int
}

func (r *ObjectResolver) newWalk() *walk {
	return &walk{reader: r.reader, onChain: make(map[int]bool), max: r.maxDepth}
}

// Resolve follows obj if it is an indirect reference; containers are
// returned as-is.
func (r *ObjectResolver) Resolve(obj core.Object) (core.Object, error) {
	return r.newWalk().resolve(obj, false)
}

// ResolveDeep recursively resolves every reference inside obj, returning
// a fully expanded copy.
func (r *ObjectResolver) ResolveDeep(obj core.Object) (core.Object, error) {
	return r.newWalk().resolve(obj, true)
}

func (w *walk) resolve(obj core.Object, deep bool) (core.Object, error) {
	if w.depth >= w.max {
		return nil, fmt.Errorf("maximum recursion depth (%d) exceeded", w.max)
	}

	switch v := obj.(type) {
	case core.IndirectRef:
		if w.onChain[v.Number] {
			return nil, &errs.CycleDetected{Chain: []string{fmt.Sprintf("object %d", v.Number)}}
		}
		w.onChain[v.Number] = true
		defer delete(w.onChain, v.Number)

		resolved, err := w.reader.ResolveReference(v)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve reference %d %d R: %w", v.Number, v.Generation, err)
		}
		if !deep {
			return resolved, nil
		}
		return w.descend(resolved, deep)

	case core.Dict:
		if !deep {
			return v, nil
		}
		out := make(core.Dict, len(v))
		for key, value := range v {
			resolved, err := w.descend(value, deep)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve dict key %s: %w", key, err)
			}
			out[key] = resolved
		}
		return out, nil

	case core.Array:
		if !deep {
			return v, nil
		}
		out := make(core.Array, len(v))
		for i, elem := range v {
			resolved, err := w.descend(elem, deep)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve array element %d: %w", i, err)
			}
			out[i] = resolved
		}
		return out, nil

	case *core.Stream:
		if !deep {
			return v, nil
		}
		resolvedDict, err := w.descend(v.Dict, deep)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve stream dict: %w", err)
		}
		return &core.Stream{Dict: resolvedDict.(core.Dict), Data: v.Data}, nil
	}

	// Primitives resolve to themselves.
	return obj, nil
}

func (w *walk) descend(obj core.Object, deep bool) (core.Object, error) {
	w.depth++
	defer func() { w.depth-- }()
	return w.resolve(obj, deep)
}

// Reset exists for callers that interleave resolutions; state is
// per-call, so there is nothing to clear.
func (r *ObjectResolver) Reset() {}

// ResolveDict deep-resolves a dictionary.
func (r *ObjectResolver) ResolveDict(dict core.Dict) (core.Dict, error) {
	resolved, err := r.ResolveDeep(dict)
	if err != nil {
		return nil, err
	}
	return resolved.(core.Dict), nil
}

// ResolveArray deep-resolves an array.
func (r *ObjectResolver) ResolveArray(arr core.Array) (core.Array, error) {
	resolved, err := r.ResolveDeep(arr)
	if err != nil {
		return nil, err
	}
	return resolved.(core.Array), nil
}

// ResolveReference resolves one reference without recursing.
func (r *ObjectResolver) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	return r.reader.ResolveReference(ref)
}

// ResolveReferenceDeep resolves a reference and everything beneath it.
func (r *ObjectResolver) ResolveReferenceDeep(ref core.IndirectRef) (core.Object, error) {
	return r.ResolveDeep(ref)
}

// GetObject loads an object by number.
func (r *ObjectResolver) GetObject(objNum int) (core.Object, error) {
	return r.reader.GetObject(objNum)
}

// GetObjectResolved loads an object and resolves it shallowly.
func (r *ObjectResolver) GetObjectResolved(objNum int) (core.Object, error) {
	obj, err := r.reader.GetObject(objNum)
	if err != nil {
		return nil, err
	}
	return r.Resolve(obj)
}

// GetObjectResolvedDeep loads an object and resolves it fully.
func (r *ObjectResolver) GetObjectResolvedDeep(objNum int) (core.Object, error) {
	obj, err := r.reader.GetObject(objNum)
	if err != nil {
		return nil, err
	}
	return r.ResolveDeep(obj)
}
