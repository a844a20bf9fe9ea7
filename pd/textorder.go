package pd

// TextPosition is a glyph position in page coordinates, paired with the
// page's rotation at the time it was recorded (§4.6 collaborator
// contract: this package only implements the comparator a text
// extractor needs, not extraction itself).
type TextPosition struct {
	X, Y     float64
	Rotation int // 0, 90, 180 or 270
}

// rotatedY returns the rotated y-coordinate used for ordering.
func rotatedY(p TextPosition) float64 {
	switch p.Rotation {
	case 90:
		return p.X
	case 180, 270:
		return -p.Y
	default:
		return p.Y
	}
}

// rotatedXFirst returns the rotated x-coordinate for the first (a)
// operand of a comparison.
func rotatedXFirst(p TextPosition) float64 {
	switch p.Rotation {
	case 90:
		return p.Y
	case 180, 270:
		return -p.X
	default:
		return p.X
	}
}

// rotatedXSecond returns the rotated x-coordinate for the second (b)
// operand of a comparison. For a 90° rotation this intentionally
// reuses X rather than Y, preserving the exact (likely unintended)
// asymmetry of the system this comparator was modeled on rather than
// silently correcting it — see the open question this package's tests
// document.
func rotatedXSecond(p TextPosition) float64 {
	switch p.Rotation {
	case 90:
		return p.X
	case 180, 270:
		return -p.X
	default:
		return p.X
	}
}

// ComparePositions orders a before b: primarily by rotated y ascending,
// then by rotated x ascending (§4.6). a and b must share the same
// Rotation; comparing positions from differently-rotated pages is
// meaningless and the result is unspecified.
func ComparePositions(a, b TextPosition) int {
	ay, by := rotatedY(a), rotatedY(b)
	if ay != by {
		if ay < by {
			return -1
		}
		return 1
	}
	ax, bx := rotatedXFirst(a), rotatedXSecond(b)
	if ax != bx {
		if ax < bx {
			return -1
		}
		return 1
	}
	return 0
}

// LessPosition reports whether a orders strictly before b, for direct
// use with sort.Slice.
func LessPosition(a, b TextPosition) bool {
	return ComparePositions(a, b) < 0
}
