package pages

import (
	"fmt"

	"github.com/trkbt10/officekit/core"
	"github.com/trkbt10/officekit/internal/errs"
)

// ObjectResolver resolves indirect references while walking the tree.
type ObjectResolver interface {
	Resolve(obj core.Object) (core.Object, error)
	ResolveDeep(obj core.Object) (core.Object, error)
	ResolveReference(ref core.IndirectRef) (core.Object, error)
}

// Catalog is the document catalog: the root the trailer's /Root points at.
type Catalog struct {
	dict     core.Dict
	resolver ObjectResolver
}

// NewCatalog wraps a catalog dictionary.
func NewCatalog(dict core.Dict, resolver ObjectResolver) *Catalog {
	return &Catalog{dict: dict, resolver: resolver}
}

// Type returns the /Type name ("Catalog" for well-formed documents).
func (c *Catalog) Type() string {
	name, _ := c.dict.GetName("Type")
	return string(name)
}

// Pages resolves the catalog's page-tree root.
func (c *Catalog) Pages() (core.Dict, error) {
	obj := c.dict.Get("Pages")
	if obj == nil {
		return nil, fmt.Errorf("catalog missing /Pages entry")
	}
	resolved, err := c.resolver.Resolve(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve /Pages: %w", err)
	}
	dict, ok := resolved.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("invalid /Pages type: %T", resolved)
	}
	return dict, nil
}

// PageTree flattens the /Pages node hierarchy into an ordered page list.
type PageTree struct {
	root     core.Dict
	resolver ObjectResolver
	pages    []*Page
}

// NewPageTree wraps a page-tree root dictionary.
func NewPageTree(root core.Dict, resolver ObjectResolver) *PageTree {
	return &PageTree{root: root, resolver: resolver}
}

// Count returns the root's declared /Count.
func (t *PageTree) Count() (int, error) {
	count, ok := t.root.GetInt("Count")
	if !ok {
		return 0, fmt.Errorf("page tree missing /Count entry")
	}
	return int(count), nil
}

// GetPage returns the page at a 0-based index.
func (t *PageTree) GetPage(index int) (*Page, error) {
	pages, err := t.Pages()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(pages))
	}
	return pages[index], nil
}

// Pages returns every leaf page in tree order, flattening on first use.
func (t *PageTree) Pages() ([]*Page, error) {
	if t.pages != nil {
		return t.pages, nil
	}

	// Malformed trees can make a node its own descendant; the visited
	// set turns that into an error instead of unbounded recursion.
	visited := map[string]bool{}
	var flat []*Page

	var walk func(node core.Dict, ancestors []core.Dict) error
	walk = func(node core.Dict, ancestors []core.Dict) error {
		switch name, _ := node.GetName("Type"); string(name) {
		case "Pages":
			key := fmt.Sprintf("%p", node)
			if visited[key] {
				return &errs.CycleDetected{Chain: []string{"page tree node " + key}}
			}
			visited[key] = true

			kidsObj, err := t.resolver.Resolve(node.Get("Kids"))
			if err != nil {
				return fmt.Errorf("failed to resolve /Kids: %w", err)
			}
			kids, ok := kidsObj.(core.Array)
			if !ok {
				return fmt.Errorf("invalid /Kids type: %T", kidsObj)
			}
			chain := append(append([]core.Dict(nil), ancestors...), node)
			for i, kid := range kids {
				resolved, err := t.resolver.Resolve(kid)
				if err != nil {
					return fmt.Errorf("failed to resolve kid %d: %w", i, err)
				}
				kidDict, ok := resolved.(core.Dict)
				if !ok {
					return fmt.Errorf("invalid kid type: %T", resolved)
				}
				if err := walk(kidDict, chain); err != nil {
					return err
				}
			}
			return nil

		case "Page":
			flat = append(flat, &Page{dict: node, ancestors: ancestors, resolver: t.resolver})
			return nil

		default:
			return fmt.Errorf("unexpected page node type %q", name)
		}
	}

	if err := walk(t.root, nil); err != nil {
		return nil, err
	}
	t.pages = flat
	return t.pages, nil
}

// Page is one leaf of the page tree. Inheritable attributes (boxes,
// resources, rotation) resolve up the ancestor chain, nearest first.
type Page struct {
	dict      core.Dict
	ancestors []core.Dict
	resolver  ObjectResolver
}

// NewPage wraps a page dictionary; parent may be nil.
func NewPage(dict core.Dict, parent core.Dict, resolver ObjectResolver) *Page {
	p := &Page{dict: dict, resolver: resolver}
	if parent != nil {
		p.ancestors = []core.Dict{parent}
	}
	return p
}

// inherited finds an attribute on the page or the nearest ancestor
// carrying it.
func (p *Page) inherited(key string) core.Object {
	if obj := p.dict.Get(key); obj != nil {
		return obj
	}
	for i := len(p.ancestors) - 1; i >= 0; i-- {
		if obj := p.ancestors[i].Get(key); obj != nil {
			return obj
		}
	}
	return nil
}

// Type returns the /Type name ("Page").
func (p *Page) Type() string {
	name, _ := p.dict.GetName("Type")
	return string(name)
}

// MediaBox returns the inheritable media box as [x1 y1 x2 y2].
func (p *Page) MediaBox() ([]float64, error) {
	return p.box("MediaBox")
}

// CropBox returns the crop box, defaulting to the media box.
func (p *Page) CropBox() ([]float64, error) {
	box, err := p.box("CropBox")
	if err != nil {
		return p.MediaBox()
	}
	return box, nil
}

func (p *Page) box(name string) ([]float64, error) {
	obj := p.inherited(name)
	if obj == nil {
		return nil, fmt.Errorf("%s not found", name)
	}
	resolved, err := p.resolver.Resolve(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", name, err)
	}
	arr, ok := resolved.(core.Array)
	if !ok || len(arr) != 4 {
		return nil, fmt.Errorf("invalid %s: %v", name, resolved)
	}
	box := make([]float64, 4)
	for i, elem := range arr {
		switch v := elem.(type) {
		case core.Int:
			box[i] = float64(v)
		case core.Real:
			box[i] = float64(v)
		default:
			return nil, fmt.Errorf("invalid %s element type: %T", name, elem)
		}
	}
	return box, nil
}

// Resources returns the inheritable resource dictionary.
func (p *Page) Resources() (core.Dict, error) {
	obj := p.inherited("Resources")
	if obj == nil {
		return nil, fmt.Errorf("resources not found")
	}
	resolved, err := p.resolver.Resolve(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Resources: %w", err)
	}
	dict, ok := resolved.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("invalid Resources type: %T", resolved)
	}
	return dict, nil
}

// Contents returns the page's content streams; a single stream and an
// array of streams both normalize to a slice.
func (p *Page) Contents() ([]core.Object, error) {
	obj := p.dict.Get("Contents")
	if obj == nil {
		return nil, nil
	}
	resolved, err := p.resolver.Resolve(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Contents: %w", err)
	}
	switch v := resolved.(type) {
	case *core.Stream:
		return []core.Object{v}, nil
	case core.Array:
		streams := make([]core.Object, len(v))
		for i, elem := range v {
			if streams[i], err = p.resolver.Resolve(elem); err != nil {
				return nil, fmt.Errorf("failed to resolve contents[%d]: %w", i, err)
			}
		}
		return streams, nil
	}
	return nil, fmt.Errorf("invalid Contents type: %T", resolved)
}

// Rotate returns the inheritable page rotation in degrees.
func (p *Page) Rotate() int {
	obj := p.inherited("Rotate")
	if rotate, ok := obj.(core.Int); ok {
		return int(rotate)
	}
	return 0
}

// Width returns the media-box width.
func (p *Page) Width() (float64, error) {
	box, err := p.MediaBox()
	if err != nil {
		return 0, err
	}
	return box[2] - box[0], nil
}

// Height returns the media-box height.
func (p *Page) Height() (float64, error) {
	box, err := p.MediaBox()
	if err != nil {
		return 0, err
	}
	return box[3] - box[1], nil
}
