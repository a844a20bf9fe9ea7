package filter

import (
	"bytes"
	"fmt"

	"github.com/coregrove/gopdfcos/internal/tokenizer"
)

// decodeASCIIHex reverses ASCIIHexDecode (7.4.2): pairs of hex digits
// up to the '>' EOD marker; an odd trailing nibble is treated as if
// followed by a '0'.
func decodeASCIIHex(encoded []byte) ([]byte, error) {
	var out bytes.Buffer
	var pending byte
	havePending := false
	for _, c := range encoded {
		if c == '>' {
			break
		}
		nib, ok := tokenizer.IsHexChar(c)
		if !ok {
			continue // whitespace and any other junk is ignored
		}
		if !havePending {
			pending = nib
			havePending = true
			continue
		}
		out.WriteByte((pending << 4) | nib)
		havePending = false
	}
	if havePending {
		out.WriteByte(pending << 4)
	}
	return out.Bytes(), nil
}

// decodeASCII85 reverses ASCII85Decode (7.4.3).
func decodeASCII85(encoded []byte) ([]byte, error) {
	var out bytes.Buffer
	var group [5]byte
	n := 0

	flush := func(count int) error {
		if count == 0 {
			return nil
		}
		for i := count; i < 5; i++ {
			group[i] = 'u'
		}
		var v uint32
		for _, c := range group {
			if c < '!' || c > 'u' {
				return fmt.Errorf("filter: invalid ASCII85 byte %q", c)
			}
			v = v*85 + uint32(c-'!')
		}
		buf := []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
		out.Write(buf[:count-1])
		return nil
	}

	for i := 0; i < len(encoded); i++ {
		c := encoded[i]
		switch {
		case c == '~':
			return out.Bytes(), nil
		case c == 'z' && n == 0:
			out.Write([]byte{0, 0, 0, 0})
		case c <= ' ':
			continue
		default:
			group[n] = c
			n++
			if n == 5 {
				if err := flush(5); err != nil {
					return nil, err
				}
				n = 0
			}
		}
	}
	if n > 0 {
		if err := flush(n); err != nil {
			return nil, err
		}
	}
	return out.Bytes(), nil
}

// decodeRunLength reverses RunLengthDecode (7.4.5).
func decodeRunLength(encoded []byte) ([]byte, error) {
	var out bytes.Buffer
	i := 0
	for i < len(encoded) {
		length := encoded[i]
		i++
		switch {
		case length == 128:
			return out.Bytes(), nil
		case length < 128:
			n := int(length) + 1
			if i+n > len(encoded) {
				return nil, fmt.Errorf("filter: truncated RunLengthDecode literal run")
			}
			out.Write(encoded[i : i+n])
			i += n
		default:
			if i >= len(encoded) {
				return nil, fmt.Errorf("filter: truncated RunLengthDecode replicate run")
			}
			count := 257 - int(length)
			b := encoded[i]
			i++
			for j := 0; j < count; j++ {
				out.WriteByte(b)
			}
		}
	}
	return out.Bytes(), nil
}
