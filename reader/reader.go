package reader

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/trkbt10/officekit/core"
	"github.com/trkbt10/officekit/font"
	"github.com/trkbt10/officekit/graphicsstate"
	"github.com/trkbt10/officekit/pages"
	"github.com/trkbt10/officekit/softmask"
)

// PDFVersion is the header version of a document.
type PDFVersion struct {
	Major int
	Minor int
}

// String returns the version as "major.minor".
func (v PDFVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Config carries the interpreter options a Reader applies when producing
// page elements.
type Config struct {
	// ShadingMaxSize switches shading rasterization inside soft masks: 0
	// disables it, any positive value enables it. It does not limit the
	// mask raster size.
	ShadingMaxSize int

	// SoftMaskVectorMaxSize enables text/path soft-mask rasterization up
	// to the given extent.
	SoftMaskVectorMaxSize int

	// Strict fails fast on malformed operators instead of recovering.
	Strict bool
}

// Reader reads a PDF document: header, xref (tables and streams), objects
// (plain and /ObjStm-compressed), the page tree, and interpreted page
// content.
type Reader struct {
	file    *os.File
	version PDFVersion

	xref    *core.XRefTable
	trailer core.Dict

	objects map[int]core.Object
	objStms map[int]*core.ObjectStream

	pageTree *pages.PageTree

	cfg Config
}

// Reader resolves indirect references for the page tree.
var _ pages.ObjectResolver = (*Reader)(nil)

// Option configures a Reader.
type Option func(*Reader)

// WithConfig sets the interpreter configuration.
func WithConfig(cfg Config) Option {
	return func(r *Reader) { r.cfg = cfg }
}

// NewReader reads the header and cross-reference structures from an open
// file. The caller keeps ownership of the file unless Open was used.
func NewReader(file *os.File, opts ...Option) (*Reader, error) {
	r := &Reader{
		file:    file,
		objects: make(map[int]core.Object),
		objStms: make(map[int]*core.ObjectStream),
	}
	for _, opt := range opts {
		opt(r)
	}

	version, err := readHeader(file)
	if err != nil {
		return nil, err
	}
	r.version = version

	if err := r.loadXRef(); err != nil {
		return nil, err
	}
	return r, nil
}

// Open opens a PDF file by path.
func Open(filename string, opts ...Option) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	r, err := NewReader(file, opts...)
	if err != nil {
		file.Close()
		return nil, err
	}
	return r, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// readHeader parses the %PDF-x.y header line.
func readHeader(file *os.File) (PDFVersion, error) {
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return PDFVersion{}, fmt.Errorf("failed to seek to start: %w", err)
	}
	buf := make([]byte, 16)
	n, err := file.Read(buf)
	if err != nil || n < 8 {
		return PDFVersion{}, fmt.Errorf("failed to read header (%d bytes): %v", n, err)
	}

	header := string(buf[:n])
	if !strings.HasPrefix(header, "%PDF-") {
		return PDFVersion{}, fmt.Errorf("invalid PDF header %q", header[:min(n, 8)])
	}

	rest := header[len("%PDF-"):]
	dot := strings.IndexByte(rest, '.')
	if dot < 1 {
		return PDFVersion{}, fmt.Errorf("invalid version in header %q", header)
	}
	major, err := strconv.Atoi(rest[:dot])
	if err != nil {
		return PDFVersion{}, fmt.Errorf("invalid major version: %w", err)
	}
	end := dot + 1
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	minor, err := strconv.Atoi(rest[dot+1 : end])
	if err != nil {
		return PDFVersion{}, fmt.Errorf("invalid minor version: %w", err)
	}
	return PDFVersion{Major: major, Minor: minor}, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// loadXRef parses the cross-reference chain, merging incremental updates
// when the trailer carries /Prev.
func (r *Reader) loadXRef() error {
	parser := core.NewXRefParser(r.file)
	table, err := parser.ParseXRefFromEOF()
	if err != nil {
		return fmt.Errorf("failed to parse xref: %w", err)
	}
	if table.Trailer.Get("Prev") != nil {
		tables, err := parser.ParseAllXRefs()
		if err != nil {
			return fmt.Errorf("failed to parse xref chain: %w", err)
		}
		table = core.MergeXRefTables(tables...)
	}
	r.xref = table
	r.trailer = table.Trailer
	return nil
}

// Version returns the header version.
func (r *Reader) Version() PDFVersion {
	return r.version
}

// Trailer returns the trailer dictionary.
func (r *Reader) Trailer() core.Dict {
	return r.trailer
}

// NumObjects returns the trailer's declared /Size.
func (r *Reader) NumObjects() int {
	if size, ok := r.trailer.GetInt("Size"); ok {
		return int(size)
	}
	return 0
}

// GetObject loads an object by number, following the xref entry to either
// a byte offset or an object-stream slot. Loaded objects are memoized.
func (r *Reader) GetObject(objNum int) (core.Object, error) {
	if obj, ok := r.objects[objNum]; ok {
		return obj, nil
	}

	entry, ok := r.xref.Get(objNum)
	if !ok {
		return nil, fmt.Errorf("object %d not found in xref table", objNum)
	}
	if !entry.InUse {
		return nil, fmt.Errorf("object %d is not in use", objNum)
	}

	var obj core.Object
	var err error
	if entry.Type == core.XRefEntryCompressed {
		// Offset names the owning /ObjStm, Generation its slot index.
		obj, err = r.objectFromStream(objNum, int(entry.Offset), entry.Generation)
	} else {
		obj, err = r.objectAtOffset(objNum, entry.Offset)
	}
	if err != nil {
		return nil, err
	}

	r.objects[objNum] = obj
	return obj, nil
}

// objectAtOffset parses an indirect object definition at a byte offset.
func (r *Reader) objectAtOffset(objNum int, offset int64) (core.Object, error) {
	if _, err := r.file.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to object %d: %w", objNum, err)
	}
	indObj, err := core.NewParser(r.file).ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse object %d: %w", objNum, err)
	}
	if indObj.Ref.Number != objNum {
		return nil, fmt.Errorf("object number mismatch: expected %d, got %d", objNum, indObj.Ref.Number)
	}
	return indObj.Object, nil
}

// objectFromStream extracts a compressed object from its /ObjStm.
func (r *Reader) objectFromStream(objNum, stmNum, index int) (core.Object, error) {
	objStm, ok := r.objStms[stmNum]
	if !ok {
		entry, found := r.xref.Get(stmNum)
		if !found {
			return nil, fmt.Errorf("object stream %d not found in xref table", stmNum)
		}
		if entry.Type == core.XRefEntryCompressed {
			return nil, fmt.Errorf("object stream %d cannot be in another object stream", stmNum)
		}
		obj, err := r.objectAtOffset(stmNum, entry.Offset)
		if err != nil {
			return nil, fmt.Errorf("failed to load object stream %d: %w", stmNum, err)
		}
		stream, isStream := obj.(*core.Stream)
		if !isStream {
			return nil, fmt.Errorf("object %d is not a stream (got %T)", stmNum, obj)
		}
		objStm, err = core.NewObjectStream(stream)
		if err != nil {
			return nil, fmt.Errorf("failed to open object stream %d: %w", stmNum, err)
		}
		r.objStms[stmNum] = objStm
	}

	obj, extractedNum, err := objStm.GetObjectByIndex(index)
	if err != nil {
		return nil, fmt.Errorf("failed to extract object %d from stream %d: %w", objNum, stmNum, err)
	}
	if extractedNum != objNum {
		return nil, fmt.Errorf("object number mismatch in stream: expected %d, got %d", objNum, extractedNum)
	}
	return obj, nil
}

// ResolveReference resolves an indirect reference.
func (r *Reader) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	return r.GetObject(ref.Number)
}

// Resolve resolves obj if it is an indirect reference, otherwise returns
// it unchanged.
func (r *Reader) Resolve(obj core.Object) (core.Object, error) {
	if ref, ok := obj.(core.IndirectRef); ok {
		return r.ResolveReference(ref)
	}
	return obj, nil
}

// ResolveDeep recursively resolves every indirect reference inside obj. A
// reference to an object that is already being expanded on the current
// path (such as a page's /Parent link) is kept as an IndirectRef, so
// cyclic object graphs terminate.
func (r *Reader) ResolveDeep(obj core.Object) (core.Object, error) {
	return r.resolveDeep(obj, make(map[int]bool))
}

func (r *Reader) resolveDeep(obj core.Object, onPath map[int]bool) (core.Object, error) {
	if ref, ok := obj.(core.IndirectRef); ok {
		if onPath[ref.Number] {
			return ref, nil
		}
		onPath[ref.Number] = true
		defer delete(onPath, ref.Number)
	}
	resolved, err := r.Resolve(obj)
	if err != nil {
		return nil, err
	}
	switch v := resolved.(type) {
	case core.Array:
		out := make(core.Array, len(v))
		for i, elem := range v {
			if out[i], err = r.resolveDeep(elem, onPath); err != nil {
				return nil, err
			}
		}
		return out, nil
	case core.Dict:
		out := make(core.Dict, len(v))
		for key, val := range v {
			if out[key], err = r.resolveDeep(val, onPath); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	return resolved, nil
}

// GetCatalog returns the document catalog.
func (r *Reader) GetCatalog() (core.Dict, error) {
	return r.trailerDict("Root", true)
}

// GetInfo returns the document info dictionary, or nil when absent.
func (r *Reader) GetInfo() (core.Dict, error) {
	return r.trailerDict("Info", false)
}

func (r *Reader) trailerDict(key string, required bool) (core.Dict, error) {
	obj := r.trailer.Get(key)
	if obj == nil {
		if required {
			return nil, fmt.Errorf("trailer missing /%s entry", key)
		}
		return nil, nil
	}
	resolved, err := r.Resolve(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve /%s: %w", key, err)
	}
	dict, ok := resolved.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("/%s is not a dictionary: %T", key, resolved)
	}
	return dict, nil
}

// PageCount returns the number of pages.
func (r *Reader) PageCount() (int, error) {
	if err := r.ensurePageTree(); err != nil {
		return 0, err
	}
	return r.pageTree.Count()
}

// GetPage returns the page at a 0-based index.
func (r *Reader) GetPage(index int) (*pages.Page, error) {
	if err := r.ensurePageTree(); err != nil {
		return nil, err
	}
	return r.pageTree.GetPage(index)
}

func (r *Reader) ensurePageTree() error {
	if r.pageTree != nil {
		return nil
	}
	catalog, err := r.GetCatalog()
	if err != nil {
		return err
	}
	pagesObj, err := r.Resolve(catalog.Get("Pages"))
	if err != nil {
		return fmt.Errorf("failed to resolve /Pages: %w", err)
	}
	pagesDict, ok := pagesObj.(core.Dict)
	if !ok {
		return fmt.Errorf("/Pages is not a dictionary: %T", pagesObj)
	}
	r.pageTree = pages.NewPageTree(pagesDict, r)
	return nil
}

// PageElements interprets a page's content streams and returns the parsed
// elements, each with a full graphics-state snapshot, plus any recovered
// warnings.
func (r *Reader) PageElements(page *pages.Page) ([]graphicsstate.Element, []string, error) {
	resources, err := page.Resources()
	if err != nil {
		resources = core.Dict{}
	}

	evaluator := softmask.NewEvaluator(
		softmask.WithResolver(r.Resolve),
		softmask.WithShadingMaxSize(r.cfg.ShadingMaxSize),
		softmask.WithVectorMaxSize(r.cfg.SoftMaskVectorMaxSize),
	)
	interp := graphicsstate.NewInterpreter(
		graphicsstate.WithResources(resources),
		graphicsstate.WithResolver(r.Resolve),
		graphicsstate.WithMaskEvaluator(evaluator),
		graphicsstate.WithShadingMaxSize(r.cfg.ShadingMaxSize),
		graphicsstate.WithSoftMaskVectorMaxSize(r.cfg.SoftMaskVectorMaxSize),
		graphicsstate.WithStrict(r.cfg.Strict),
	)
	r.registerPageFonts(interp, resources)

	contents, err := page.Contents()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get contents: %w", err)
	}
	for _, contentObj := range contents {
		resolved, err := r.Resolve(contentObj)
		if err != nil {
			continue
		}
		stream, ok := resolved.(*core.Stream)
		if !ok {
			continue
		}
		data, err := stream.Decode()
		if err != nil {
			return nil, interp.Warnings(), fmt.Errorf("failed to decode content stream: %w", err)
		}
		if err := interp.Run(data); err != nil {
			return nil, interp.Warnings(), err
		}
	}

	return interp.Elements(), interp.Warnings(), nil
}

// PageText flattens a page's text elements into a string, in stream
// order with newlines between text objects.
func (r *Reader) PageText(page *pages.Page) (string, error) {
	elements, _, err := r.PageElements(page)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, elem := range elements {
		text, ok := elem.(*graphicsstate.ParsedText)
		if !ok {
			continue
		}
		for _, run := range text.Runs {
			sb.WriteString(run.Text)
		}
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

// registerPageFonts builds metric tables for every /Font resource so the
// interpreter can compute run advances.
func (r *Reader) registerPageFonts(interp *graphicsstate.Interpreter, resources core.Dict) {
	fontsObj, err := r.Resolve(resources.Get("Font"))
	if err != nil {
		return
	}
	fontsDict, ok := fontsObj.(core.Dict)
	if !ok {
		return
	}

	for name, entry := range fontsDict {
		resolved, err := r.Resolve(entry)
		if err != nil {
			continue
		}
		fontDict, ok := resolved.(core.Dict)
		if !ok {
			continue
		}

		baseFont, _ := fontDict.GetName("BaseFont")
		subtype, _ := fontDict.GetName("Subtype")
		f := font.NewFont(name, string(baseFont), string(subtype))

		if enc, ok := fontDict.GetName("Encoding"); ok {
			f.Encoding = string(enc)
		}

		// Simple fonts carry /FirstChar + /Widths.
		if widths, ok := fontDict.GetArray("Widths"); ok {
			first := 0
			if fc, ok := fontDict.GetInt("FirstChar"); ok {
				first = int(fc)
			}
			for i, w := range widths {
				resolvedW, err := r.Resolve(w)
				if err != nil {
					continue
				}
				switch v := resolvedW.(type) {
				case core.Int:
					f.SetWidth(rune(first+i), float64(v))
				case core.Real:
					f.SetWidth(rune(first+i), float64(v))
				}
			}
		}

		interp.RegisterFont(name, f)
	}
}
