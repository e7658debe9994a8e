// Package model provides the shared geometric primitives: points,
// bounding boxes, and 2D affine transformation matrices.
//
// Matrices follow the PDF row-vector convention: a.Multiply(b) applies a
// first, then b, and Transform maps a point through the matrix. BBox is
// an axis-aligned rectangle with the usual set operations (union,
// intersection, containment).
package model
