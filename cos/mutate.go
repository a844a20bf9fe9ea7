package cos

// AddObject allocates a fresh object key (the current highest number in
// the pool, plus one, at generation 0) and installs value under it. Used
// by higher layers (the PD page tree) that build up an object graph in
// memory rather than reading one off the wire.
func (d *Document) AddObject(value Object) ObjectKey {
	var next uint32 = 1
	for k := range d.pool {
		if k.Number >= next {
			next = k.Number + 1
		}
	}
	key := ObjectKey{Number: next, Generation: 0}
	d.install(key, value)
	return key
}

// SetObject overwrites the value stored at key, allocating the slot if
// it does not already exist.
func (d *Document) SetObject(key ObjectKey, value Object) {
	d.install(key, value)
}

// DeleteObject removes key from the pool entirely; any Ref still
// pointing at it resolves to Null{} afterwards.
func (d *Document) DeleteObject(key ObjectKey) {
	delete(d.pool, key)
}

// NewStream copies payload into this document's scratch file and
// installs a fresh Stream object built from dict plus the copy,
// returning its key. dict["Length"] is set to the payload length.
func (d *Document) NewStream(dict Dict, payload []byte) (ObjectKey, error) {
	offset, err := d.scratch.Allocate(int64(len(payload)))
	if err != nil {
		return ObjectKey{}, err
	}
	if err := d.scratch.WriteAt(offset, payload); err != nil {
		return ObjectKey{}, err
	}
	if dict == nil {
		dict = Dict{}
	}
	dict["Length"] = Integer(len(payload))
	s := Stream{Dict: dict, scratchOffset: offset, length: int64(len(payload))}
	return d.AddObject(s), nil
}
