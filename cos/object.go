package cos

import "fmt"

// ObjectKey identifies an indirect object by its number and generation
// (7.3.10, "Indirect Objects").
type ObjectKey struct {
	Number     uint32
	Generation uint16
}

func (k ObjectKey) String() string { return fmt.Sprintf("%d %d obj", k.Number, k.Generation) }

// object is a mutable pool slot: it is what a Ref points at. The pool
// owns the slot; Ref values are lightweight keys, never pointers, so
// cyclic object graphs (page -> parent -> kids -> page) never become
// cyclic Go ownership graphs.
type object struct {
	value   Object
	present bool // false for a slot created only to satisfy a forward reference
}

// Stream is a dictionary plus a handle on a byte payload held in the
// document's scratch file. The payload is opened on demand through
// Document.StreamReader; Stream itself carries no open file handle.
type Stream struct {
	Dict

	scratchOffset int64
	length        int64
}

func (s Stream) String() string    { return s.Dict.String() }
func (s Stream) PDFString() string { return s.Dict.PDFString() }

// Length is the number of raw (still-encoded) payload bytes recorded
// for this stream at parse time.
func (s Stream) Length() int64 { return s.length }
