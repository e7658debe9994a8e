// Package patch applies structural edits to parsed OOXML trees while
// preserving unknown attributes, vendor extensions, and inheritance order.
//
// The contract: given an existing XML tree and a new domain value, produce
// a minimally mutated tree such that re-parsing yields the new value, with
// every unrecognised sibling and attribute kept in its original position.
// Input trees are never mutated; results share unchanged subtrees with
// their inputs.
//
// Shape-tree operations are transactional: a failed operation surfaces its
// index and the tree from before that operation is returned unchanged.
package patch
