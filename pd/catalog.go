package pd

import "github.com/coregrove/gopdfcos/cos"

// PDDocumentCatalog is a view over the document catalog dictionary
// (`/Type /Catalog`, the object `trailer["Root"]` points at, 7.7.2).
type PDDocumentCatalog struct {
	doc *cos.Document
	ref cos.ObjectKey
}

func (c *PDDocumentCatalog) Dict() cos.Dict {
	d, _ := c.doc.ResolveDict(cos.Ref{Key: c.ref})
	return d
}

// Pages returns the root of the page tree (`/Pages`).
func (c *PDDocumentCatalog) Pages() *PDPageNode {
	ref, ok := c.Dict()["Pages"].(cos.Ref)
	if !ok {
		return nil
	}
	return &PDPageNode{doc: c.doc, ref: ref.Key}
}

// Version returns the catalog's optional `/Version` name, overriding
// the header version when a later PDF revision bumps the document's
// feature level without rewriting the header (7.7.2, Table 28).
func (c *PDDocumentCatalog) Version() cos.Name {
	n, _ := c.Dict()["Version"].(cos.Name)
	return n
}
