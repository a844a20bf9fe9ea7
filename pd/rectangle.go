// Package pd implements the thin, dictionary-backed typed views over a
// cos.Document: PDDocument, the page tree, annotations, and the
// document information / encryption dictionaries they expose.
package pd

import "github.com/coregrove/gopdfcos/cos"

// Rectangle is a PDF rectangle (7.9.5): four numbers, not necessarily
// ordered lower-left/upper-right on the wire.
type Rectangle struct {
	Llx, Lly, Urx, Ury float64
}

// Width returns the absolute width of the rectangle.
func (r Rectangle) Width() float64 {
	w := r.Urx - r.Llx
	if w < 0 {
		return -w
	}
	return w
}

// Height returns the absolute height of the rectangle.
func (r Rectangle) Height() float64 {
	h := r.Ury - r.Lly
	if h < 0 {
		return -h
	}
	return h
}

// rectangleFromArray reads a four-element numeric array as a Rectangle.
// A malformed or absent array yields the zero Rectangle.
func rectangleFromArray(doc *cos.Document, o cos.Object) Rectangle {
	arr, ok := doc.ResolveArray(o)
	if !ok || len(arr) != 4 {
		return Rectangle{}
	}
	vals := make([]float64, 4)
	for i, v := range arr {
		vals[i] = numberValue(doc.Resolve(v))
	}
	return Rectangle{Llx: vals[0], Lly: vals[1], Urx: vals[2], Ury: vals[3]}
}

func numberValue(o cos.Object) float64 {
	switch v := o.(type) {
	case cos.Integer:
		return float64(v)
	case cos.Real:
		return float64(v)
	default:
		return 0
	}
}
