// Package filter decodes the PDF stream filters (7.4) needed to read
// the payload of an object stream (§4.4) or a regular content stream.
// Encoding (for a writer) is out of scope, matching §1 of the design.
package filter

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/hhrutter/lzw"
)

// Names of the filters this package understands.
const (
	ASCII85   = "ASCII85Decode"
	ASCIIHex  = "ASCIIHexDecode"
	RunLength = "RunLengthDecode"
	LZW       = "LZWDecode"
	Flate     = "FlateDecode"
)

// Params carries the optional /DecodeParms entries relevant to the
// filters implemented here.
type Params struct {
	Predictor        int
	Colors           int
	BitsPerComponent int
	Columns          int
	EarlyChange      int // LZWDecode only; default 1
}

// DefaultParams returns the PDF-spec default decode parameters.
func DefaultParams() Params {
	return Params{Predictor: 1, Colors: 1, BitsPerComponent: 8, Columns: 1, EarlyChange: 1}
}

// Decode runs one filter stage over encoded data.
func Decode(name string, params Params, encoded []byte) ([]byte, error) {
	switch name {
	case Flate:
		return decodeFlate(params, encoded)
	case LZW:
		return decodeLZW(params, encoded)
	case ASCIIHex:
		return decodeASCIIHex(encoded)
	case ASCII85:
		return decodeASCII85(encoded)
	case RunLength:
		return decodeRunLength(encoded)
	default:
		return nil, fmt.Errorf("filter: unsupported filter %q", name)
	}
}

func decodeFlate(params Params, encoded []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, err
	}
	return applyPredictor(params, raw)
}

func decodeLZW(params Params, encoded []byte) ([]byte, error) {
	earlyChange := params.EarlyChange != 0
	r := lzw.NewReader(bytes.NewReader(encoded), earlyChange)
	defer r.Close()
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return applyPredictor(params, raw)
}
