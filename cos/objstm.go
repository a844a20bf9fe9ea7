package cos

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/coregrove/gopdfcos/cos/filter"
	"github.com/pdfcpu/pdfcpu/pkg/log"
)

// dereferenceObjectStreams implements §4.4: after the main parse, every
// stream in the pool whose dictionary has /Type /ObjStm is unpacked —
// its /N pairs of (object number, offset) are read from the decoded
// payload, and each of the N contained objects is parsed and installed
// at (number, generation 0). A malformed object stream is skipped so
// the others are still unpacked; the first such failure is returned.
func (d *Document) dereferenceObjectStreams() error {
	var firstErr error
	for key, o := range d.pool {
		if !o.present {
			continue
		}
		stream, ok := o.value.(Stream)
		if !ok {
			continue
		}
		typ, _ := stream.Dict["Type"].(Name)
		if typ != "ObjStm" {
			continue
		}
		if err := d.dereferenceObjectStream(key, stream); err != nil {
			log.Read.Printf("cos: skipping malformed object stream %s: %s\n", key, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (d *Document) dereferenceObjectStream(streamKey ObjectKey, stream Stream) error {
	n, ok := stream.Dict["N"].(Integer)
	if !ok {
		return fmt.Errorf("%w: missing /N", ErrUnresolvedObjStream)
	}
	first, ok := stream.Dict["First"].(Integer)
	if !ok {
		return fmt.Errorf("%w: missing /First", ErrUnresolvedObjStream)
	}

	decoded, err := d.decodeStreamPayload(stream)
	if err != nil {
		return err
	}
	if int(first) > len(decoded) {
		return fmt.Errorf("%w: /First %d beyond decoded length %d", ErrUnresolvedObjStream, first, len(decoded))
	}

	prolog := decoded[:first]
	fields := bytes.Fields(bytes.ReplaceAll(prolog, []byte{0}, []byte{' '}))
	if len(fields)%2 != 0 {
		return fmt.Errorf("%w: odd field count in prolog", ErrUnresolvedObjStream)
	}

	count := len(fields) / 2
	if count != int(n) {
		// a producer lied about /N; trust the prolog we could actually parse.
		log.Read.Printf("cos: object stream %s declares N=%d but prolog has %d pairs\n", streamKey, n, count)
	}

	numbers := make([]int, count)
	offsets := make([]int, count)
	for i := 0; i < count; i++ {
		num, err := strconv.Atoi(string(fields[2*i]))
		if err != nil {
			return fmt.Errorf("%w: invalid object number in prolog", ErrUnresolvedObjStream)
		}
		off, err := strconv.Atoi(string(fields[2*i+1]))
		if err != nil {
			return fmt.Errorf("%w: invalid offset in prolog", ErrUnresolvedObjStream)
		}
		numbers[i] = num
		offsets[i] = int(first) + off
	}

	for i := 0; i < count; i++ {
		start := offsets[i]
		end := len(decoded)
		if i+1 < count {
			end = offsets[i+1]
		}
		if start > len(decoded) || end > len(decoded) || start > end {
			log.Read.Printf("cos: object stream %s: out-of-range object at index %d\n", streamKey, i)
			continue
		}
		obj, err := newObjectParser(decoded[start:end]).ParseObject()
		if err != nil {
			log.Read.Printf("cos: object stream %s: object %d unparseable: %s\n", streamKey, numbers[i], err)
			continue
		}
		d.install(ObjectKey{Number: uint32(numbers[i]), Generation: 0}, obj)
	}
	return nil
}

// DecodeStream reads a stream's raw payload off the scratch file and
// runs it through its declared /Filter pipeline, yielding the decoded
// content bytes (content-stream operators, decompressed object-stream
// payloads, and so on — interpreting those bytes is a collaborator's job).
func (d *Document) DecodeStream(stream Stream) ([]byte, error) {
	return d.decodeStreamPayload(stream)
}

// decodeStreamPayload reads a stream's raw payload off the scratch file
// and runs it through its declared /Filter pipeline.
func (d *Document) decodeStreamPayload(stream Stream) ([]byte, error) {
	r, err := d.StreamReader(stream)
	if err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	names, paramsList := filterPipeline(stream.Dict)
	data := raw
	for i, name := range names {
		var params filter.Params
		if i < len(paramsList) {
			params = paramsList[i]
		} else {
			params = filter.DefaultParams()
		}
		data, err = filter.Decode(name, params, data)
		if err != nil {
			return nil, fmt.Errorf("decoding filter %q: %w", name, err)
		}
	}
	return data, nil
}

func filterPipeline(dict Dict) (names []string, params []filter.Params) {
	switch f := dict["Filter"].(type) {
	case Name:
		names = []string{string(f)}
	case Array:
		for _, o := range f {
			if n, ok := o.(Name); ok {
				names = append(names, string(n))
			}
		}
	}

	parmsToParams := func(p Dict) filter.Params {
		out := filter.DefaultParams()
		if v, ok := p["Predictor"].(Integer); ok {
			out.Predictor = int(v)
		}
		if v, ok := p["Colors"].(Integer); ok {
			out.Colors = int(v)
		}
		if v, ok := p["BitsPerComponent"].(Integer); ok {
			out.BitsPerComponent = int(v)
		}
		if v, ok := p["Columns"].(Integer); ok {
			out.Columns = int(v)
		}
		if v, ok := p["EarlyChange"].(Integer); ok {
			out.EarlyChange = int(v)
		}
		return out
	}

	switch p := dict["DecodeParms"].(type) {
	case Dict:
		params = []filter.Params{parmsToParams(p)}
	case Array:
		for _, o := range p {
			if d, ok := o.(Dict); ok {
				params = append(params, parmsToParams(d))
			} else {
				params = append(params, filter.DefaultParams())
			}
		}
	}
	return names, params
}
