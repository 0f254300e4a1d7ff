package entity

import (
	"github.com/samber/oops"
)

// Error codes attached to oops errors raised by the entity layer.
const (
	CodeInvalidGeometry = "invalid_geometry"
	CodeInvalidEntity   = "invalid_entity"
)

// InvalidGeometry builds the error returned when an entity has negative or
// non-finite dimensions.
func InvalidGeometry(e *Entity) error {
	return oops.In("entity").
		Code(CodeInvalidGeometry).
		With("id", uint64(e.ID), "kind", e.Kind.String(), "width", e.Box.W, "height", e.Box.H).
		Errorf("entity %d has invalid dimensions %vx%v", e.ID, e.Box.W, e.Box.H)
}

// IsInvalidGeometry reports whether err carries the invalid_geometry code.
func IsInvalidGeometry(err error) bool {
	return hasCode(err, CodeInvalidGeometry)
}

func hasCode(err error, code string) bool {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return false
	}
	return oopsErr.Code() == code
}
