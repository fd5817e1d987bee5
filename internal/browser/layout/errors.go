// internal/browser/layout/errors.go
package layout

import (
	"errors"
	"fmt"

	"github.com/xkilldash9x/boxflow/internal/browser/parser"
)

var (
	// ErrUnsupportedUnit matches every *UnsupportedUnitError through errors.Is.
	ErrUnsupportedUnit = errors.New("unsupported length unit")
	// ErrMaxDepth is returned when the styled tree nests deeper than the
	// configured limit.
	ErrMaxDepth = errors.New("maximum tree depth exceeded")
	// ErrNoStyles is returned when layout is requested without a styled tree.
	ErrNoStyles = errors.New("styled tree is nil")
)

// UnsupportedUnitError reports a width given in a unit the engine cannot
// resolve. Only px and percentages are supported.
type UnsupportedUnitError struct {
	Property string
	Unit     parser.Unit
}

func (e *UnsupportedUnitError) Error() string {
	return fmt.Sprintf("unsupported length unit '%s' for property '%s'", e.Unit, e.Property)
}

func (e *UnsupportedUnitError) Is(target error) bool {
	return target == ErrUnsupportedUnit
}
