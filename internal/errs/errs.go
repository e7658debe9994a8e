// Package errs carries the repository's error taxonomy: typed values for
// the handful of failure shapes every parser/patcher/interpreter in this
// module can produce, instead of ad-hoc string errors.
package errs

import "fmt"

// ParseError reports XML, PDF, or CFB syntax failures.
type ParseError struct {
	Path       string
	ByteOffset int64
	HasOffset  bool
	Message    string
}

func (e *ParseError) Error() string {
	if e.HasOffset {
		return fmt.Sprintf("parse error in %s at byte %d: %s", e.Path, e.ByteOffset, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// SchemaViolation reports a missing-required attribute or illegal enum
// value encountered while parsing in strict mode.
type SchemaViolation struct {
	Path    string
	Element string
	Rule    string
}

func (e *SchemaViolation) Error() string {
	return fmt.Sprintf("schema violation in %s, element %s: %s", e.Path, e.Element, e.Rule)
}

// ResourceNotFound reports a relationship id that does not resolve.
type ResourceNotFound struct {
	RID        string
	SourcePart string
}

func (e *ResourceNotFound) Error() string {
	return fmt.Sprintf("relationship %q not found in %s", e.RID, e.SourcePart)
}

// CycleDetected reports a CFB or xref cycle.
type CycleDetected struct {
	Chain []string
}

func (e *CycleDetected) Error() string {
	return fmt.Sprintf("cycle detected: %v", e.Chain)
}

// Unsupported reports a feature the implementation deliberately does not
// handle: an unimplemented PDF filter, or a non-rewriteable OOXML extension.
type Unsupported struct {
	Feature string
}

func (e *Unsupported) Error() string {
	return fmt.Sprintf("unsupported: %s", e.Feature)
}

// InvariantViolation reports an internal consistency failure — a bug, not
// a data problem. Callers should treat this as fatal.
type InvariantViolation struct {
	What string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.What)
}
