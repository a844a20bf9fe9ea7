package filter

import (
	"bytes"
	"fmt"
	"io"
)

// applyPredictor undoes the PNG (10-15) or TIFF (2) predictor applied
// before compression, per 7.4.4.4. Predictor 0 or 1 means "none".
func applyPredictor(p Params, raw []byte) ([]byte, error) {
	if p.Predictor == 0 || p.Predictor == 1 {
		return raw, nil
	}

	bytesPerPixel := (p.BitsPerComponent*p.Colors + 7) / 8
	rowSize := p.BitsPerComponent * p.Colors * p.Columns / 8
	if p.Predictor != 2 {
		rowSize++ // PNG rows are prefixed with a filter-type byte
	}
	if rowSize <= 0 {
		return nil, fmt.Errorf("filter: invalid predictor row size")
	}

	cur := make([]byte, rowSize)
	prev := make([]byte, rowSize)
	r := bytes.NewReader(raw)

	var out []byte
	for {
		if _, err := io.ReadFull(r, cur); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, err
		}
		row, err := predictRow(prev, cur, p.Predictor, bytesPerPixel)
		if err != nil {
			return nil, err
		}
		out = append(out, row...)
		prev, cur = cur, prev
	}
	return out, nil
}

func predictRow(prev, cur []byte, predictor, bpp int) ([]byte, error) {
	if predictor == 2 {
		return undoHorizontalDiff(cur, bpp), nil
	}

	filterType := cur[0]
	data := cur[1:]
	prevData := prev[1:]
	out := make([]byte, len(data))

	for i := range data {
		left := byte(0)
		if i >= bpp {
			left = out[i-bpp]
		}
		up := prevData[i]
		upLeft := byte(0)
		if i >= bpp {
			upLeft = prevData[i-bpp]
		}

		switch filterType {
		case 0: // None
			out[i] = data[i]
		case 1: // Sub
			out[i] = data[i] + left
		case 2: // Up
			out[i] = data[i] + up
		case 3: // Average
			out[i] = data[i] + byte((int(left)+int(up))/2)
		case 4: // Paeth
			out[i] = data[i] + paeth(left, up, upLeft)
		default:
			return nil, fmt.Errorf("filter: unsupported PNG predictor filter type %d", filterType)
		}
	}
	return out, nil
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func undoHorizontalDiff(row []byte, bpp int) []byte {
	out := make([]byte, len(row))
	copy(out, row)
	for i := bpp; i < len(out); i++ {
		out[i] += out[i-bpp]
	}
	return out
}
