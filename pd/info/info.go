// Package info implements PDDocumentInformation, a typed view over the
// document information dictionary (`trailer["Info"]`, 14.3.3).
package info

import (
	"regexp"
	"strconv"
	"time"

	"github.com/coregrove/gopdfcos/cos"
	"github.com/coregrove/gopdfcos/internal/textenc"
)

// PDDocumentInformation is a view over the optional document
// information dictionary. A nil trailer["Info"] yields a valid,
// all-empty PDDocumentInformation rather than an error.
type PDDocumentInformation struct {
	dict cos.Dict
}

// New builds a PDDocumentInformation from the trailer's "Info" entry,
// resolving it through doc.
func New(doc *cos.Document, trailer cos.Dict) PDDocumentInformation {
	dict, _ := doc.ResolveDict(trailer["Info"])
	return PDDocumentInformation{dict: dict}
}

func (i PDDocumentInformation) text(key cos.Name) string {
	s, ok := i.dict[key].(cos.String)
	if !ok {
		return ""
	}
	return textenc.DecodeTextString(s.Bytes)
}

func (i PDDocumentInformation) Title() string    { return i.text("Title") }
func (i PDDocumentInformation) Author() string   { return i.text("Author") }
func (i PDDocumentInformation) Subject() string  { return i.text("Subject") }
func (i PDDocumentInformation) Keywords() string { return i.text("Keywords") }
func (i PDDocumentInformation) Creator() string  { return i.text("Creator") }
func (i PDDocumentInformation) Producer() string { return i.text("Producer") }

// Trapped reflects the document's `/Trapped` name (True/False/Unknown),
// defaulting to "Unknown" when absent (Table 317).
func (i PDDocumentInformation) Trapped() string {
	n, ok := i.dict["Trapped"].(cos.Name)
	if !ok {
		return "Unknown"
	}
	return string(n)
}

func (i PDDocumentInformation) CreationDate() (time.Time, bool) {
	return dateValue(i.dict["CreationDate"])
}

func (i PDDocumentInformation) ModDate() (time.Time, bool) {
	return dateValue(i.dict["ModDate"])
}

func dateValue(o cos.Object) (time.Time, bool) {
	s, ok := o.(cos.String)
	if !ok {
		return time.Time{}, false
	}
	return parseDate(string(s.Bytes))
}

// dateExp matches the PDF date string format (7.9.4): D:YYYYMMDDHHmmSS
// followed by an optional UTC offset.
var dateExp = regexp.MustCompile(`^D?:?(\d{4})(\d{2})?(\d{2})?(\d{2})?(\d{2})?(\d{2})?([+\-Zz])?(\d{2})?'?(\d{2})?'?$`)

// parseDate parses a PDF date string, tolerating the missing leading
// "D:" some producers omit and defaulting absent trailing fields (month,
// day, hour, ...) to their minimum valid value.
func parseDate(s string) (time.Time, bool) {
	m := dateExp.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	field := func(idx int, def int) int {
		if idx >= len(m) || m[idx] == "" {
			return def
		}
		n, err := strconv.Atoi(m[idx])
		if err != nil {
			return def
		}
		return n
	}
	year := field(1, 0)
	month := field(2, 1)
	day := field(3, 1)
	hour := field(4, 0)
	minute := field(5, 0)
	second := field(6, 0)

	loc := time.UTC
	if sign := m[7]; sign == "+" || sign == "-" {
		offH := field(8, 0)
		offM := field(9, 0)
		secs := offH*3600 + offM*60
		if sign == "-" {
			secs = -secs
		}
		loc = time.FixedZone("", secs)
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, 0, loc), true
}
