package cos

import (
	"fmt"
	"strconv"
	"strings"
)

// parseXref parses an xref table (§4.2.3): the "xref" keyword has
// already been consumed. Each subsection is "start count" followed by
// count 20-byte entries; only the (start, count) headers are kept — the
// object pool is populated by parsing every object directly, so xref
// entries exist here purely for bookkeeping/diagnostics, never for
// locating an object.
func (d *Document) parseXref(src *byteSource) error {
	for {
		src.SkipWhitespace()
		ch, ok := src.Peek()
		if !ok || !src.isDigit(ch) {
			return nil
		}

		line, ok := src.ReadLine()
		if !ok {
			return nil
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return fmt.Errorf("cos: malformed xref subsection header %q", line)
		}
		start, err1 := strconv.Atoi(fields[0])
		count, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil {
			return fmt.Errorf("cos: malformed xref subsection header %q", line)
		}
		d.xrefs = append(d.xrefs, xrefSection{Start: start, Count: count})

		for i := 0; i < count; i++ {
			// Each entry is a fixed 20 bytes; malformed entries are
			// ignored outright (§6) since the contents are discarded.
			// A subsection holding fewer entries than count ends at the
			// first line that does not start with a digit ("trailer").
			src.SkipWhitespace()
			if ch, ok := src.Peek(); !ok || !src.isDigit(ch) {
				break
			}
			if _, ok := src.ReadLine(); !ok {
				return nil
			}
		}
	}
}
