package cos

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/log"
)

// xrefSection records a parsed "start count" header (§4.2.3); the
// entries themselves are never consulted — this parser repopulates the
// pool by parsing every object in the file, trading random-access
// efficiency for tolerance of a damaged or inconsistent xref table.
type xrefSection struct {
	Start, Count int
}

// Document is a COSDocument (§3.2): the indirect-object pool, the
// merged trailer, the scratch file backing stream payloads, and the
// bookkeeping needed to dereference object streams.
type Document struct {
	config Configuration

	pool   map[ObjectKey]*object
	scratch *ScratchFile

	trailer Dict
	xrefs   []xrefSection

	version      float64
	headerString string

	documentID Array // trailer["ID"], if present

	closed bool
}

func newDocument(conf Configuration) (*Document, error) {
	sf, err := newScratchFile(conf.ScratchDir)
	if err != nil {
		return nil, err
	}
	return &Document{
		config:  conf,
		pool:    map[ObjectKey]*object{},
		scratch: sf,
		trailer: Dict{},
	}, nil
}

// Version returns the declared PDF header version as a number, e.g.
// 1.4 for "%PDF-1.4". Per §9 Open Question, only the three bytes
// right after "%PDF-" are ever consulted, so "1.10" is misparsed as
// "1.1" followed by a stray '0' — accepted as a documented limitation.
func (d *Document) Version() float64 { return d.version }

// IsLinearized reports whether any dictionary installed in the pool
// carries a "/Linearized" key. The hint is read-only:
// this parser never takes the fast-web-view path it describes, it is
// simply another object reached by the ordinary linear scan.
func (d *Document) IsLinearized() bool {
	for _, o := range d.pool {
		if o.present {
			if dict, ok := o.value.(Dict); ok {
				if _, has := dict["Linearized"]; has {
					return true
				}
			}
		}
	}
	return false
}

// Trailer returns the merged trailer dictionary (§4.2.4).
func (d *Document) Trailer() Dict { return d.trailer }

// IsEncrypted reports whether trailer["Encrypt"] is present.
func (d *Document) IsEncrypted() bool {
	_, has := d.trailer["Encrypt"]
	return has
}

// DocumentID returns the trailer's /ID array (two byte strings), or
// nil if absent.
func (d *Document) DocumentID() Array { return d.documentID }

// slot returns the pool entry for key, allocating an empty one if it
// does not yet exist — this is what makes forward references work:
// parsing "5 0 obj (... 7 0 R ...) endobj" before object 7 has been
// seen creates an empty slot for 7 0 that later parsing fills in.
func (d *Document) slot(key ObjectKey) *object {
	o, ok := d.pool[key]
	if !ok {
		o = &object{}
		d.pool[key] = o
	}
	return o
}

// install sets the value for key, allocating the slot if needed (§4.2.2
// step 5).
func (d *Document) install(key ObjectKey, value Object) {
	o := d.slot(key)
	o.value = value
	o.present = true
	log.Read.Printf("cos: installed object %s\n", key)
}

// Resolve follows Ref indirection until a direct value is reached. An
// unresolved reference — one whose key was never installed in the pool
// — resolves to Null{}, never an error (§3.2 invariant).
func (d *Document) Resolve(o Object) Object {
	seen := map[ObjectKey]bool{}
	for {
		ref, ok := o.(Ref)
		if !ok {
			if o == nil {
				return Null{}
			}
			return o
		}
		if seen[ref.Key] {
			// a Ref cycle (malformed file): break it rather than loop forever.
			return Null{}
		}
		seen[ref.Key] = true

		slot, ok := d.pool[ref.Key]
		if !ok || !slot.present {
			return Null{}
		}
		o = slot.value
	}
}

// Get resolves the value stored at key, or Null{} if the key is absent.
func (d *Document) Get(key ObjectKey) Object {
	return d.Resolve(Ref{Key: key})
}

// ResolveDict resolves o and type-asserts it to Dict, accepting a bare
// Stream's dictionary too (many call sites don't care which).
func (d *Document) ResolveDict(o Object) (Dict, bool) {
	switch v := d.Resolve(o).(type) {
	case Dict:
		return v, true
	case Stream:
		return v.Dict, true
	default:
		return nil, false
	}
}

// ResolveArray resolves o and type-asserts it to Array.
func (d *Document) ResolveArray(o Object) (Array, bool) {
	v, ok := d.Resolve(o).(Array)
	return v, ok
}

// ResolveInt resolves o and type-asserts it to Integer.
func (d *Document) ResolveInt(o Object) (int64, bool) {
	v, ok := d.Resolve(o).(Integer)
	return int64(v), ok
}

// ResolveStream resolves o and type-asserts it to Stream.
func (d *Document) ResolveStream(o Object) (Stream, bool) {
	v, ok := d.Resolve(o).(Stream)
	return v, ok
}

// StreamReader opens the raw (still-filtered) payload of s for
// reading. The returned reader is only valid until Close.
func (d *Document) StreamReader(s Stream) (*ScratchReader, error) {
	if d.closed {
		return nil, ErrDocumentClosed
	}
	return d.scratch.ReaderAt(s.scratchOffset, s.length)
}

// Close releases the scratch file. Idempotent. Once closed, StreamReader
// (and with it stream decoding and NewStream) fails with
// ErrDocumentClosed; lookups and edits of the in-memory pool (Resolve,
// Get, AddObject, SetObject, Trailer, ...) are not checked and keep
// working.
func (d *Document) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	return d.scratch.Close()
}

func (d *Document) checkOpen() error {
	if d.closed {
		return ErrDocumentClosed
	}
	return nil
}

// AllKeys returns every object key currently in the pool (for callers
// that need to walk the whole graph, e.g. a writer).
func (d *Document) AllKeys() []ObjectKey {
	out := make([]ObjectKey, 0, len(d.pool))
	for k, o := range d.pool {
		if o.present {
			out = append(out, k)
		}
	}
	return out
}

func (d *Document) String() string {
	return fmt.Sprintf("cos.Document{objects: %d, encrypted: %v}", len(d.pool), d.IsEncrypted())
}
