package layout

import (
	"errors"
	"fmt"
)

// ErrGeometry is matched by every GeometryError.
var ErrGeometry = errors.New("layout: invalid geometry")

// GeometryError reports a page or column configuration that cannot be laid out.
type GeometryError struct {
	Table   string // table name, empty for page geometry
	Problem string
}

func (e *GeometryError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("layout: table %q: %s", e.Table, e.Problem)
	}
	return fmt.Sprintf("layout: %s", e.Problem)
}

// Is makes errors.Is(err, ErrGeometry) true.
func (e *GeometryError) Is(target error) bool {
	return target == ErrGeometry
}
