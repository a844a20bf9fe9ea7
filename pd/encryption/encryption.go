// Package encryption implements PDEncryptionDictionary, a typed,
// read-only view over the trailer's /Encrypt dictionary (7.6.1). It
// exposes the shape of the dictionary only; deriving a key from a
// password and actually decrypting strings/streams is an external
// collaborator's job (§1 non-goal).
package encryption

import "github.com/coregrove/gopdfcos/cos"

// Permission is the /P bitfield (Table 22): a signed 32-bit integer
// whose bits grant or deny individual operations on the document.
type Permission int32

const (
	PermPrint Permission = 1 << (3 - 1)
	PermModify Permission = 1 << (4 - 1)
	PermCopy Permission = 1 << (5 - 1)
	PermAnnotate Permission = 1 << (6 - 1)
	PermFillForms Permission = 1 << (9 - 1)
	PermExtractAccessibility Permission = 1 << (10 - 1)
	PermAssemble Permission = 1 << (11 - 1)
	PermPrintHighRes Permission = 1 << (12 - 1)
)

// PDEncryptionDictionary is a view over trailer["Encrypt"].
type PDEncryptionDictionary struct {
	doc  *cos.Document
	dict cos.Dict
	ok   bool
}

// New builds a PDEncryptionDictionary from the trailer's "Encrypt"
// entry. The second return is false when the document is not encrypted.
func New(doc *cos.Document, trailer cos.Dict) (PDEncryptionDictionary, bool) {
	o, has := trailer["Encrypt"]
	if !has {
		return PDEncryptionDictionary{}, false
	}
	dict, ok := doc.ResolveDict(o)
	if !ok {
		return PDEncryptionDictionary{}, false
	}
	return PDEncryptionDictionary{doc: doc, dict: dict, ok: true}, true
}

func (e PDEncryptionDictionary) name(key cos.Name) string {
	n, _ := e.dict[key].(cos.Name)
	return string(n)
}

func (e PDEncryptionDictionary) int(key cos.Name) int {
	v, _ := e.doc.ResolveInt(e.dict[key])
	return int(v)
}

// Filter is the security handler's preferred name, usually "Standard".
func (e PDEncryptionDictionary) Filter() string { return e.name("Filter") }

// V is the algorithm version (Table 20).
func (e PDEncryptionDictionary) V() int { return e.int("V") }

// R is the standard security handler revision (Table 21).
func (e PDEncryptionDictionary) R() int { return e.int("R") }

func (e PDEncryptionDictionary) bytesOf(key cos.Name) []byte {
	s, ok := e.dict[key].(cos.String)
	if !ok {
		return nil
	}
	return s.Bytes
}

// O is the owner password validation hash (32 or 48 bytes depending on R).
func (e PDEncryptionDictionary) O() []byte { return e.bytesOf("O") }

// U is the user password validation hash.
func (e PDEncryptionDictionary) U() []byte { return e.bytesOf("U") }

// P is the permission bitfield.
func (e PDEncryptionDictionary) P() Permission {
	return Permission(e.int("P"))
}

// Has reports whether bit f of /P is set.
func (p Permission) Has(f Permission) bool { return p&f != 0 }

// EncryptMetadata reports whether document metadata streams are
// encrypted too (default true per Table 20).
func (e PDEncryptionDictionary) EncryptMetadata() bool {
	b, ok := e.dict["EncryptMetadata"].(cos.Boolean)
	if !ok {
		return true
	}
	return bool(b)
}
