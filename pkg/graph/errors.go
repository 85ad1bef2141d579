package graph

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrInvalidArgument = errors.New("graph: invalid argument")
	ErrDuplicateID     = errors.New("graph: duplicate id")
	ErrUnknownID       = errors.New("graph: unknown id")
	ErrSchemaViolation = errors.New("graph: schema violation")
	ErrReservedKey     = errors.New("graph: reserved property key")
	ErrElementRemoved  = errors.New("graph: element removed")
	ErrForeignElement  = errors.New("graph: element belongs to another graph")
	ErrVetoed          = errors.New("graph: change vetoed")
	ErrIDExhausted     = errors.New("graph: id generator exhausted")
)

// SchemaViolationError is returned when an edge label is observed between a
// second, different pair of vertex labels while extracting a strict schema.
//
// errors.Is(err, ErrSchemaViolation) reports true for it.
//
// Example:
//
//	_, err := g.StrictSchemaGraph("schema")
//	var sve *graph.SchemaViolationError
//	if errors.As(err, &sve) {
//		fmt.Printf("label %v used as %v->%v and %v->%v\n",
//			sve.EdgeLabel, sve.KnownOut, sve.KnownIn, sve.Out, sve.In)
//	}
type SchemaViolationError struct {
	EdgeLabel any
	KnownOut  any
	KnownIn   any
	Out       any
	In        any
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("graph: schema violation: edge label %v already connects %v->%v, cannot also connect %v->%v",
		e.EdgeLabel, e.KnownOut, e.KnownIn, e.Out, e.In)
}

func (e *SchemaViolationError) Unwrap() error { return ErrSchemaViolation }

func duplicateID(kind string, id any) error {
	return fmt.Errorf("%w: %s %v", ErrDuplicateID, kind, id)
}

func unknownID(kind string, id any) error {
	return fmt.Errorf("%w: %s %v", ErrUnknownID, kind, id)
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
