package pd

import "testing"

func TestRectangleWidthHeight(t *testing.T) {
	r := Rectangle{Llx: 0, Lly: 0, Urx: 612, Ury: 792}
	if r.Width() != 612 {
		t.Errorf("Width() = %v, want 612", r.Width())
	}
	if r.Height() != 792 {
		t.Errorf("Height() = %v, want 792", r.Height())
	}
}

func TestRectangleWidthHeightUnordered(t *testing.T) {
	// corners are not guaranteed to be lower-left/upper-right on the wire.
	r := Rectangle{Llx: 612, Lly: 792, Urx: 0, Ury: 0}
	if r.Width() != 612 {
		t.Errorf("Width() = %v, want 612", r.Width())
	}
	if r.Height() != 792 {
		t.Errorf("Height() = %v, want 792", r.Height())
	}
}
