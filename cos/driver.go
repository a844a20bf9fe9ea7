package cos

import (
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/log"
)

// Parse implements the top-level parse driver of §4.1: it reads the
// header, then loops over the structural sections and indirect objects
// of a PDF byte stream, assembling a Document. On any failure the
// partially-built Document is closed (releasing its scratch file)
// before the error is returned — no partial document ever escapes.
func Parse(data []byte, conf *Configuration) (doc *Document, err error) {
	if conf == nil {
		conf = NewDefaultConfiguration()
	}
	doc, err = newDocument(*conf)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = doc.Close()
			doc = nil
		}
	}()

	src := newByteSource(data)
	if err = doc.parseHeader(src); err != nil {
		return nil, err
	}

	if err = doc.mainLoop(src); err != nil {
		return nil, err
	}

	doc.synthesizeTrailerFromXRefStreams()

	if !doc.IsEncrypted() && doc.config.DecodeObjectStreams {
		if dsErr := doc.dereferenceObjectStreams(); dsErr != nil {
			log.Read.Printf("cos: object stream dereferencing: %s\n", dsErr)
			if !doc.config.Lenient {
				err = dsErr
				return nil, err
			}
		}
	}

	return doc, nil
}

// parseHeader implements §4.1 steps 2-4: locate "%PDF-", trim leading
// garbage, parse the version, and skip the binary-fill marker line.
func (d *Document) parseHeader(src *byteSource) error {
	line, ok := src.ReadLine()
	if !ok {
		return newParseError(CorruptHeader, 0, "%w", ErrCorruptHeader)
	}

	const marker = "%PDF-"
	idx := strings.Index(line, marker)
	if idx < 0 || len(line)-idx < len(marker)+1 {
		return newParseError(CorruptHeader, 0, "%w", ErrCorruptHeader)
	}
	d.headerString = line[idx:]

	versionStr := line[idx+len(marker):]
	if len(versionStr) < 3 {
		return newParseError(CorruptHeader, 0, "%w", ErrCorruptHeader)
	}
	v, err := strconv.ParseFloat(versionStr[:3], 64)
	if err != nil {
		return newParseError(CorruptHeader, 0, "corrupt pdf header version: %s", err)
	}
	d.version = v

	src.SkipWhitespace()
	if ch, ok := src.Peek(); ok && !src.isDigit(ch) {
		// binary fill marker (3.4.1): a comment line of high-bit bytes
		// Acrobat writes after the header to tell tools the file is binary.
		src.ReadLine()
	}
	return nil
}

// mainLoop implements §4.1 step 5-6.
func (d *Document) mainLoop(src *byteSource) error {
	sawEOF := false
	for !src.IsEOF() {
		src.SkipWhitespace()
		if src.IsEOF() {
			break
		}
		ch, ok := src.Peek()
		if !ok {
			break
		}

		sawEOF = false
		switch {
		case ch == 'x':
			if err := d.parseXRefSection(src); err != nil {
				return err
			}
		case ch == 't':
			if err := d.parseTrailerSection(src); err != nil {
				return err
			}
			// a trailer is often immediately followed by startxref;
			// fall through into it without another whitespace skip
			// round-trip, matching the spec's described dispatch.
			src.SkipWhitespace()
			if ch2, ok := src.Peek(); ok && ch2 == 's' {
				var err error
				sawEOF, err = d.parseStartxrefSection(src)
				if err != nil {
					return err
				}
			}
		case ch == 's':
			var err error
			sawEOF, err = d.parseStartxrefSection(src)
			if err != nil {
				return err
			}
		default:
			if err := d.parseIndirectObject(src); err != nil {
				return err
			}
		}
		if sawEOF {
			// whatever follows a well-formed "%%EOF" is trailing noise
			// (padding, a botched second update, an editor's appended
			// signature block): stop here instead of trying to parse it
			// as more structure (§6).
			break
		}
		src.SkipWhitespace()
	}
	return nil
}

func (d *Document) parseXRefSection(src *byteSource) error {
	if !src.ConsumeKeyword("xref") {
		return d.parseIndirectObject(src)
	}
	return d.parseXref(src)
}

func (d *Document) parseTrailerSection(src *byteSource) error {
	if !src.ConsumeKeyword("trailer") {
		return d.parseIndirectObject(src)
	}
	return d.parseTrailer(src)
}

// parseStartxrefSection implements §4.2.5: "startxref", an integer
// (discarded — xref offsets are never used for random access by this
// parser), then a required "%%EOF".
func (d *Document) parseStartxrefSection(src *byteSource) (sawEOF bool, err error) {
	if !src.ConsumeKeyword("startxref") {
		return false, d.parseIndirectObject(src)
	}
	src.SkipWhitespace()
	if _, err := parseObjectAt(src); err != nil {
		return false, err
	}
	// SkipPlainWhitespace, not SkipWhitespace: "%%EOF" itself starts
	// with '%', and SkipWhitespace treats a leading '%' as a comment to
	// the end of the line, which would swallow the marker before
	// ConsumeKeyword ever saw it.
	src.SkipPlainWhitespace()
	if !src.ConsumeKeyword("%%EOF") {
		if !src.IsEOF() {
			return false, newParseError(ExpectedKeyword, int64(src.Pos()), "%w", ErrExpectedEOF)
		}
	}
	return true, nil
}

// parseIndirectObject implements §4.2.2.
func (d *Document) parseIndirectObject(src *byteSource) error {
	start := src.Pos()
	num, genKey, ok := d.readObjectDeclaration(src)
	if !ok {
		return newParseError(ExpectedKeyword, int64(start), "expected \"num gen obj\"")
	}
	key := ObjectKey{Number: uint32(num), Generation: uint16(genKey)}

	src.SkipWhitespace()
	value, err := parseObjectAt(src)
	if err != nil {
		return err
	}

	src.SkipWhitespace()
	value, err = d.maybeAttachStream(src, value)
	if err != nil {
		return err
	}

	if err := d.expectEndobj(src); err != nil {
		return err
	}

	d.install(key, value)
	return nil
}

// readObjectDeclaration reads "num gen obj", retrying the first integer
// once on failure per §4.2.1's tolerant readInt (a stray token like a
// leftover "endobj" before the real declaration).
func (d *Document) readObjectDeclaration(src *byteSource) (num, gen int, ok bool) {
	num, ok = readIntTolerant(src)
	if !ok {
		return 0, 0, false
	}
	src.SkipWhitespace()
	gen, ok = readIntTolerant(src)
	if !ok {
		return 0, 0, false
	}
	src.SkipWhitespace()
	if !src.ConsumeKeyword("obj") {
		return 0, 0, false
	}
	return num, gen, true
}

func readIntTolerant(src *byteSource) (int, bool) {
	if n, ok := tryReadInt(src); ok {
		return n, true
	}
	// retry once, e.g. skipping over a stray token.
	return tryReadInt(src)
}

func tryReadInt(src *byteSource) (int, bool) {
	start := src.pos
	neg := false
	if ch, ok := src.Peek(); ok && (ch == '+' || ch == '-') {
		neg = ch == '-'
		src.pos++
	}
	digitsStart := src.pos
	for {
		ch, ok := src.Peek()
		if !ok || !src.isDigit(ch) {
			break
		}
		src.pos++
	}
	if src.pos == digitsStart {
		src.pos = start
		return 0, false
	}
	n, err := strconv.Atoi(string(src.data[digitsStart:src.pos]))
	if err != nil {
		src.pos = start
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// maybeAttachStream implements §4.2.2 step 4's "stream" branch: if the
// next keyword is "stream", value must be a Dict, and the value is
// replaced by the parsed Stream.
func (d *Document) maybeAttachStream(src *byteSource, value Object) (Object, error) {
	save := src.Pos()
	if peekKeyword(src) != "stream" {
		src.SeekTo(save)
		return value, nil
	}
	src.SeekTo(save)

	dict, ok := value.(Dict)
	if !ok {
		return nil, newParseError(StreamNotPrecededByDict, int64(save), "stream keyword not preceded by a dictionary")
	}
	return d.parseStreamAt(src, dict)
}

// expectEndobj implements §4.2.2 step 4's remaining branches: accept
// "endobj"; if the next token instead looks like the start of another
// object declaration (a number), assume "endobj" was simply omitted and
// leave the cursor there; otherwise give it one more try before failing.
func (d *Document) expectEndobj(src *byteSource) error {
	save := src.Pos()
	if src.ConsumeKeyword("endobj") {
		return nil
	}
	src.SeekTo(save)

	if looksLikeObjectDeclaration(src) {
		// missing endobj, tolerated (§6).
		return nil
	}

	src.SkipWhitespace()
	save2 := src.Pos()
	if src.ConsumeKeyword("endobj") {
		return nil
	}
	src.SeekTo(save2)
	if looksLikeObjectDeclaration(src) {
		return nil
	}
	return newParseError(ExpectedKeyword, int64(save2), "%w", ErrExpectedEndobj)
}

// looksLikeObjectDeclaration peeks for "num gen obj" without consuming
// anything, used to recognize a missing-endobj recovery point.
func looksLikeObjectDeclaration(src *byteSource) bool {
	save := src.Pos()
	_, _, ok := src.peekObjectDeclaration()
	src.SeekTo(save)
	return ok
}

func (src *byteSource) peekObjectDeclaration() (num, gen int, ok bool) {
	save := src.pos
	defer func() { src.pos = save }()
	n, ok := tryReadInt(src)
	if !ok {
		return 0, 0, false
	}
	src.SkipWhitespace()
	g, ok := tryReadInt(src)
	if !ok {
		return 0, 0, false
	}
	src.SkipWhitespace()
	if !src.ConsumeKeyword("obj") {
		return 0, 0, false
	}
	return n, g, true
}

// peekKeyword reads the next bare keyword token (for "stream"/"endobj"
// lookahead) without permanently advancing the caller's notion of
// position — callers are expected to SeekTo(save) themselves.
func peekKeyword(src *byteSource) string {
	src.SkipWhitespace()
	start := src.pos
	for {
		ch, ok := src.Peek()
		if !ok || src.isWhitespace(ch) || strings.IndexByte("()<>[]{}/%", ch) >= 0 {
			break
		}
		src.pos++
	}
	return string(src.data[start:src.pos])
}
