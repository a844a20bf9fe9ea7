package info

import (
	"testing"

	"github.com/coregrove/gopdfcos/cos"
)

func newTestDoc(t *testing.T) *cos.Document {
	t.Helper()
	doc, err := cos.Parse([]byte("%PDF-1.4\n1 0 obj\n<< >>\nendobj\ntrailer\n<< /Size 2 >>\nstartxref\n0\n%%EOF"), nil)
	if err != nil {
		t.Fatalf("cos.Parse: %v", err)
	}
	t.Cleanup(func() { doc.Close() })
	return doc
}

func TestNewWithNoInfoIsEmpty(t *testing.T) {
	doc := newTestDoc(t)
	i := New(doc, cos.Dict{})
	if i.Title() != "" || i.Author() != "" {
		t.Errorf("expected empty info, got Title=%q Author=%q", i.Title(), i.Author())
	}
	if got := i.Trapped(); got != "Unknown" {
		t.Errorf("Trapped() = %q, want Unknown", got)
	}
}

func TestFieldAccessors(t *testing.T) {
	doc := newTestDoc(t)
	dict := cos.Dict{
		"Title":    cos.String{Bytes: []byte("My Title"), Origin: cos.Literal},
		"Author":   cos.String{Bytes: []byte("Jane Doe"), Origin: cos.Literal},
		"Subject":  cos.String{Bytes: []byte("A test"), Origin: cos.Literal},
		"Keywords": cos.String{Bytes: []byte("pdf,test"), Origin: cos.Literal},
		"Creator":  cos.String{Bytes: []byte("creator"), Origin: cos.Literal},
		"Producer": cos.String{Bytes: []byte("producer"), Origin: cos.Literal},
		"Trapped":  cos.Name("True"),
	}
	i := New(doc, cos.Dict{"Info": dict})

	cases := []struct {
		name string
		got  string
		want string
	}{
		{"Title", i.Title(), "My Title"},
		{"Author", i.Author(), "Jane Doe"},
		{"Subject", i.Subject(), "A test"},
		{"Keywords", i.Keywords(), "pdf,test"},
		{"Creator", i.Creator(), "creator"},
		{"Producer", i.Producer(), "producer"},
		{"Trapped", i.Trapped(), "True"},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("%s() = %q, want %q", c.name, c.got, c.want)
		}
	}
}

func TestParseDateWithOffset(t *testing.T) {
	got, ok := parseDate("D:20230615120000+02'00'")
	if !ok {
		t.Fatal("parseDate: ok = false")
	}
	if got.Year() != 2023 || int(got.Month()) != 6 || got.Day() != 15 {
		t.Errorf("date = %v, want 2023-06-15", got)
	}
	if got.Hour() != 12 {
		t.Errorf("hour = %d, want 12", got.Hour())
	}
	_, offset := got.Zone()
	if offset != 2*3600 {
		t.Errorf("offset = %d, want %d", offset, 2*3600)
	}
}

func TestParseDateMissingLeadingD(t *testing.T) {
	// some producers omit the "D:" prefix entirely.
	got, ok := parseDate("20230101")
	if !ok {
		t.Fatal("parseDate: ok = false")
	}
	if got.Year() != 2023 || got.Month() != 1 || got.Day() != 1 {
		t.Errorf("date = %v, want 2023-01-01", got)
	}
}

func TestParseDateMalformed(t *testing.T) {
	if _, ok := parseDate("not a date"); ok {
		t.Error("parseDate(garbage): ok = true, want false")
	}
}

func TestCreationDateAbsentIsNotOK(t *testing.T) {
	doc := newTestDoc(t)
	i := New(doc, cos.Dict{})
	if _, ok := i.CreationDate(); ok {
		t.Error("CreationDate() ok = true for a document with no /Info")
	}
}
