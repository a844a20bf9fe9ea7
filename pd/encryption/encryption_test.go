package encryption

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

func TestNewWithoutEncryptIsNotOK(t *testing.T) {
	doc := newTestDoc(t)
	_, ok := New(doc, cos.Dict{})
	if ok {
		t.Error("New() ok = true for a trailer without /Encrypt")
	}
}

func TestEncryptionDictionaryShape(t *testing.T) {
	doc := newTestDoc(t)
	encDict := cos.Dict{
		"Filter": cos.Name("Standard"),
		"V":      cos.Integer(2),
		"R":      cos.Integer(3),
		"O":      cos.String{Bytes: []byte("owner-hash-bytes-32-long-012345"), Origin: cos.Hex},
		"U":      cos.String{Bytes: []byte("user-hash-bytes-32-bytes-long012"), Origin: cos.Hex},
		"P":      cos.Integer(-44),
	}
	e, ok := New(doc, cos.Dict{"Encrypt": encDict})
	if !ok {
		t.Fatal("New() ok = false, want true")
	}
	if e.Filter() != "Standard" {
		t.Errorf("Filter() = %q, want Standard", e.Filter())
	}
	if e.V() != 2 {
		t.Errorf("V() = %d, want 2", e.V())
	}
	if e.R() != 3 {
		t.Errorf("R() = %d, want 3", e.R())
	}
	if !e.EncryptMetadata() {
		t.Error("EncryptMetadata() = false, want true (default)")
	}
}

func TestPermissionBits(t *testing.T) {
	// Table 22: printing (bit 3) and modifying (bit 4) granted, copying
	// (bit 5) denied.
	p := PermPrint | PermModify
	if !p.Has(PermPrint) {
		t.Error("Has(PermPrint) = false, want true")
	}
	if !p.Has(PermModify) {
		t.Error("Has(PermModify) = false, want true")
	}
	if p.Has(PermCopy) {
		t.Error("Has(PermCopy) = true, want false")
	}
}

func TestEncryptMetadataExplicitFalse(t *testing.T) {
	doc := newTestDoc(t)
	encDict := cos.Dict{
		"Filter":          cos.Name("Standard"),
		"EncryptMetadata": cos.Boolean(false),
	}
	e, ok := New(doc, cos.Dict{"Encrypt": encDict})
	if !ok {
		t.Fatal("New() ok = false")
	}
	if e.EncryptMetadata() {
		t.Error("EncryptMetadata() = true, want false")
	}
}
