package cos

import "fmt"

// parseObjectAt parses one direct object starting at src's current
// position and advances src past it.
func parseObjectAt(src *byteSource) (Object, error) {
	p := newObjectParser(src.data[src.pos:])
	obj, err := p.ParseObject()
	if err != nil {
		return nil, err
	}
	src.pos += p.tokens.CurrentPosition()
	return obj, nil
}

// parseTrailer parses a dictionary after "trailer" (§4.2.4) and merges
// it into the document's running trailer. A linear scan visits
// trailers in the order they physically occur in the file, which is
// the *reverse* of update order — so the first trailer encountered is
// the most recently written one and wins on key conflicts; entries
// already present are never overwritten by a later (older) merge.
func (d *Document) parseTrailer(src *byteSource) error {
	src.SkipWhitespace()
	obj, err := parseObjectAt(src)
	if err != nil {
		return fmt.Errorf("cos: parsing trailer: %w", err)
	}
	dict, ok := obj.(Dict)
	if !ok {
		return fmt.Errorf("cos: trailer is not a dictionary")
	}
	d.mergeTrailer(dict)
	return nil
}

func (d *Document) mergeTrailer(dict Dict) {
	for k, v := range dict {
		if _, has := d.trailer[k]; !has {
			d.trailer[k] = v
		}
	}
	if id, ok := dict["ID"].(Array); ok && d.documentID == nil {
		d.documentID = id
	}
}

// synthesizeTrailerFromXRefStreams implements §4.1 step 7: if no
// trailer section was ever found (PDF 1.5+ cross-reference-stream-only
// files), walk the pool for /Type /XRef streams and merge their
// dictionaries in as the trailer.
func (d *Document) synthesizeTrailerFromXRefStreams() {
	if len(d.trailer) > 0 {
		return
	}
	for _, o := range d.pool {
		if !o.present {
			continue
		}
		stream, ok := o.value.(Stream)
		if !ok {
			continue
		}
		if typ, _ := stream.Dict["Type"].(Name); typ == "XRef" {
			d.mergeTrailer(stream.Dict)
		}
	}
}
