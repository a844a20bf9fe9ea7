package cos

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/log"
)

// parseStreamAt parses a stream payload (§4.2.7): src.pos must be
// positioned exactly at the start of the "stream" keyword, which this
// method consumes along with the rest of the production up to and
// including "endstream". dict is the already-parsed stream dictionary.
func (d *Document) parseStreamAt(src *byteSource, dict Dict) (Stream, error) {
	if !src.ConsumeKeyword("stream") {
		return Stream{}, newParseError(StreamNotPrecededByDict, int64(src.pos), "expected \"stream\" keyword")
	}
	if err := d.consumeStreamEOL(src); err != nil {
		return Stream{}, err
	}

	contentStart := src.pos
	length, ok := d.declaredLength(dict)
	if ok {
		end := contentStart + int(length)
		if end > len(src.data) || !d.endstreamFollows(src.data, end) {
			// "/Length clearly wrong": fall back to the textual scan.
			ok = false
		}
	}
	if !ok {
		end, scanErr := scanForEndstream(src.data, contentStart)
		if scanErr != nil {
			return Stream{}, scanErr
		}
		length = int64(end - contentStart)
	}

	payload := src.data[contentStart : contentStart+int(length)]
	offset, err := d.scratch.Allocate(int64(len(payload)))
	if err != nil {
		return Stream{}, err
	}
	if err := d.scratch.WriteAt(offset, payload); err != nil {
		return Stream{}, err
	}

	src.pos = contentStart + int(length)
	d.consumeTrailingEndstream(src)

	log.Read.Printf("cos: stream payload of %d bytes at scratch offset %d\n", length, offset)
	return Stream{Dict: dict, scratchOffset: offset, length: length}, nil
}

// consumeStreamEOL consumes exactly one line terminator after "stream"
// (7.3.8.1): CRLF or LF are valid; a bare CR is not per spec but is
// accepted anyway since real-world producers emit it.
func (d *Document) consumeStreamEOL(src *byteSource) error {
	ch, ok := src.Read()
	if !ok {
		return fmt.Errorf("cos: stream payload truncated before EOL")
	}
	switch ch {
	case '\r':
		if next, ok := src.Peek(); ok && next == '\n' {
			src.pos++
		}
		return nil
	case '\n':
		return nil
	default:
		// tolerate a missing EOL: put the byte back and proceed, the
		// producer likely wrote the payload immediately after "stream".
		src.Unread()
		return nil
	}
}

// declaredLength resolves dict["Length"], including through an
// indirect reference that has already been installed in the pool. If
// the reference points at an object not yet parsed (a forward
// reference to an object appearing later in the file), ok is false and
// the caller falls back to scanning for "endstream".
func (d *Document) declaredLength(dict Dict) (length int64, ok bool) {
	lengthObj, has := dict["Length"]
	if !has {
		return 0, false
	}
	if ref, isRef := lengthObj.(Ref); isRef {
		slot, present := d.pool[ref.Key]
		if !present || !slot.present {
			return 0, false
		}
		lengthObj = slot.value
	}
	i, ok := lengthObj.(Integer)
	if !ok || i < 0 {
		return 0, false
	}
	return int64(i), true
}

// endstreamFollows reports whether, after skipping at most one EOL
// starting at pos, the literal "endstream" is found — the sanity check
// that validates a declared /Length.
func (d *Document) endstreamFollows(data []byte, pos int) bool {
	p := pos
	if p < len(data) && data[p] == '\r' {
		p++
	}
	if p < len(data) && data[p] == '\n' {
		p++
	}
	return bytes.HasPrefix(data[min(p, len(data)):], []byte("endstream"))
}

func scanForEndstream(data []byte, from int) (int, error) {
	idx := bytes.Index(data[from:], []byte("endstream"))
	if idx < 0 {
		return 0, fmt.Errorf("cos: could not locate \"endstream\"")
	}
	end := from + idx
	// trim the EOL that should precede "endstream" from the payload.
	if end > from && data[end-1] == '\n' {
		end--
		if end > from && data[end-1] == '\r' {
			end--
		}
	} else if end > from && data[end-1] == '\r' {
		end--
	}
	return end, nil
}

func (d *Document) consumeTrailingEndstream(src *byteSource) {
	// Skip the EOL we trimmed (or that was never there) then the
	// "endstream" keyword itself, tolerating either being absent.
	if ch, ok := src.Peek(); ok && ch == '\r' {
		src.pos++
		if ch2, ok := src.Peek(); ok && ch2 == '\n' {
			src.pos++
		}
	} else if ok && ch == '\n' {
		src.pos++
	}
	src.ConsumeKeyword("endstream")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
