package pd

import (
	"fmt"

	"github.com/coregrove/gopdfcos/cos"
	"github.com/coregrove/gopdfcos/pd/encryption"
	"github.com/coregrove/gopdfcos/pd/info"
)

// PDDocument wraps a cos.Document with the typed views of §3.3: the
// document catalog, document information, and (once decrypted) the
// encryption dictionary. PD views hold a back-reference to their
// underlying dictionary; mutating them writes through to the shared
// COS pool.
type PDDocument struct {
	cos *cos.Document

	catalog    *PDDocumentCatalog
	info       *info.PDDocumentInformation
	encryption *encryption.PDEncryptionDictionary
}

// Load implements §4.1 end to end: it parses data into a COSDocument,
// then wraps it as a PDDocument.
func Load(data []byte, conf *cos.Configuration) (*PDDocument, error) {
	doc, err := cos.Parse(data, conf)
	if err != nil {
		return nil, err
	}
	return newPDDocument(doc), nil
}

func newPDDocument(doc *cos.Document) *PDDocument {
	return &PDDocument{cos: doc}
}

// COSDocument returns the underlying low-level document store.
func (d *PDDocument) COSDocument() *cos.Document { return d.cos }

// DocumentCatalog returns (and caches) the catalog view over
// trailer["Root"].
func (d *PDDocument) DocumentCatalog() (*PDDocumentCatalog, error) {
	if d.catalog != nil {
		return d.catalog, nil
	}
	ref, ok := d.cos.Trailer()["Root"].(cos.Ref)
	if !ok {
		return nil, fmt.Errorf("pd: trailer has no /Root entry")
	}
	d.catalog = &PDDocumentCatalog{doc: d.cos, ref: ref.Key}
	return d.catalog, nil
}

// DocumentInformation returns (and caches) the document information
// view over trailer["Info"].
func (d *PDDocument) DocumentInformation() info.PDDocumentInformation {
	if d.info == nil {
		v := info.New(d.cos, d.cos.Trailer())
		d.info = &v
	}
	return *d.info
}

// IsEncrypted reports whether trailer["Encrypt"] is present.
func (d *PDDocument) IsEncrypted() bool { return d.cos.IsEncrypted() }

// EncryptionDictionary returns (and caches) the encryption dictionary
// view, or ok == false if the document is not encrypted.
func (d *PDDocument) EncryptionDictionary() (encryption.PDEncryptionDictionary, bool) {
	if d.encryption != nil {
		return *d.encryption, true
	}
	enc, ok := encryption.New(d.cos, d.cos.Trailer())
	if !ok {
		return encryption.PDEncryptionDictionary{}, false
	}
	d.encryption = &enc
	return enc, true
}

// NumberOfPages returns the number of leaf pages reachable from the
// catalog's page tree. Requires a non-encrypted or already-decrypted
// document (§7, EncryptionRequired would apply to a hypothetical
// decrypt() call, not to this read-only walk of already-parsed dicts).
func (d *PDDocument) NumberOfPages() (int, error) {
	cat, err := d.DocumentCatalog()
	if err != nil {
		return 0, err
	}
	root := cat.Pages()
	if root == nil {
		return 0, nil
	}
	return len(root.Pages()), nil
}

// AddPage appends page to the root of the page tree (§4.5).
func (d *PDDocument) AddPage(page *PDPage) error {
	cat, err := d.DocumentCatalog()
	if err != nil {
		return err
	}
	root := cat.Pages()
	if root == nil {
		return fmt.Errorf("pd: document catalog has no /Pages")
	}
	root.addPage(page)
	return nil
}

// RemovePage removes page from its parent's /Kids and recomputes page
// counts from the root (§4.5).
func (d *PDDocument) RemovePage(page *PDPage) (bool, error) {
	parent := page.Parent()
	if parent == nil {
		return false, nil
	}
	return parent.removePage(page), nil
}

// ImportPage copies src's content stream(s) into this document's pool
// and scratch file, builds a new page dictionary holding src's
// /MediaBox and /Rotate (inherited values resolved) plus the copied
// /Contents, and adds it to this document's page tree (§4.5). No other
// entry of src's page dictionary (/Resources, /CropBox, /Annots, ...)
// is copied.
func (d *PDDocument) ImportPage(src *PDPage) (*PDPage, error) {
	contents, err := src.importContentInto(d.cos)
	if err != nil {
		return nil, err
	}

	dict := cos.Dict{
		"Type":     cos.Name("Page"),
		"MediaBox": rectangleToArray(src.MediaBox()),
		"Rotate":   cos.Integer(src.Rotate()),
	}
	if contents != nil {
		dict["Contents"] = contents
	}

	key := d.cos.AddObject(dict)
	page := &PDPage{doc: d.cos, ref: key}
	if err := d.AddPage(page); err != nil {
		return nil, err
	}
	return page, nil
}

func rectangleToArray(r Rectangle) cos.Array {
	return cos.Array{
		cos.Real(r.Llx), cos.Real(r.Lly), cos.Real(r.Urx), cos.Real(r.Ury),
	}
}

// Close releases the underlying COSDocument's scratch file.
func (d *PDDocument) Close() error { return d.cos.Close() }
