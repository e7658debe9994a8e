// Package reader reads PDF documents end to end: the %PDF header, the
// cross-reference chain (classical tables and xref streams, with /Prev
// merging), plain and /ObjStm-compressed objects, the page tree, and
// interpreted page content.
//
// Open a document and walk its pages:
//
//	r, err := reader.Open("document.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	count, _ := r.PageCount()
//	page, _ := r.GetPage(0)
//
// PageElements runs the content-stream interpreter over a page and
// returns parsed elements (paths, text runs, images, shadings), each
// carrying a full graphics-state snapshot; PageText flattens the text
// elements. Interpreter behaviour (shading and soft-mask rasterization
// bounds, strict mode) is set with WithConfig.
//
// Indirect references resolve through GetObject/Resolve/ResolveDeep;
// loaded objects and object streams are memoized per reader.
package reader
