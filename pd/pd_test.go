package pd

import (
	"testing"

	"github.com/coregrove/gopdfcos/cos"
)

// fixturePDF is a small but structurally real document: a two-level
// page tree, one inherited MediaBox, a rotated leaf, a content stream,
// one annotation and a document information dictionary.
const fixturePDF = "%PDF-1.6\n" +
	"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n" +
	"2 0 obj\n<< /Type /Pages /Kids [3 0 R 4 0 R] /Count 2 /MediaBox [0 0 612 792] >>\nendobj\n" +
	"3 0 obj\n<< /Type /Page /Parent 2 0 R /Contents 5 0 R /Annots [6 0 R] >>\nendobj\n" +
	"4 0 obj\n<< /Type /Page /Parent 2 0 R /Rotate 90 >>\nendobj\n" +
	"5 0 obj\n<< /Length 5 >>\nstream\nBT ET\nendstream\nendobj\n" +
	"6 0 obj\n<< /Type /Annot /Subtype /Text /Rect [0 0 10 10] /F 12 /Contents (hi) >>\nendobj\n" +
	"7 0 obj\n<< /Title (Test Doc) /CreationDate (D:20230615120000+02'00') >>\nendobj\n" +
	"trailer\n<< /Size 8 /Root 1 0 R /Info 7 0 R >>\n" +
	"startxref\n0\n%%EOF"

func loadFixture(t *testing.T) *PDDocument {
	t.Helper()
	doc, err := Load([]byte(fixturePDF), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	t.Cleanup(func() { doc.Close() })
	return doc
}

func TestNumberOfPages(t *testing.T) {
	doc := loadFixture(t)
	n, err := doc.NumberOfPages()
	if err != nil {
		t.Fatalf("NumberOfPages: %v", err)
	}
	if n != 2 {
		t.Errorf("NumberOfPages() = %d, want 2", n)
	}
}

func TestPageTreeCountInvariant(t *testing.T) {
	// Invariant #2: the root's recorded /Count matches the number of
	// leaf pages reachable from it.
	doc := loadFixture(t)
	cat, err := doc.DocumentCatalog()
	if err != nil {
		t.Fatalf("DocumentCatalog: %v", err)
	}
	root := cat.Pages()
	if root == nil {
		t.Fatalf("catalog has no /Pages")
	}
	if got, want := root.Count(), len(root.Pages()); got != want {
		t.Errorf("Count() = %d, want %d (len(Pages()))", got, want)
	}
}

func TestUpdateCountIsIdempotent(t *testing.T) {
	// Invariant #3.
	doc := loadFixture(t)
	cat, _ := doc.DocumentCatalog()
	root := cat.Pages()

	first := root.updateCount()
	second := root.updateCount()
	if first != second {
		t.Errorf("updateCount() not idempotent: %d then %d", first, second)
	}
	if first != 2 {
		t.Errorf("updateCount() = %d, want 2", first)
	}
}

func TestMediaBoxInheritance(t *testing.T) {
	doc := loadFixture(t)
	cat, _ := doc.DocumentCatalog()
	pages := cat.Pages().Pages()
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}

	for _, p := range pages {
		box := p.MediaBox()
		if box.Urx != 612 || box.Ury != 792 {
			t.Errorf("page %v MediaBox = %+v, want inherited 0 0 612 792", p.ref, box)
		}
	}
}

func TestRotateInheritedAndLeafOverride(t *testing.T) {
	doc := loadFixture(t)
	cat, _ := doc.DocumentCatalog()
	pages := cat.Pages().Pages()

	var gotZero, got90 bool
	for _, p := range pages {
		switch p.Rotate() {
		case 0:
			gotZero = true
		case 90:
			got90 = true
		}
	}
	if !gotZero || !got90 {
		t.Errorf("expected one page at Rotate 0 (inherited default) and one at 90, got zero=%v ninety=%v", gotZero, got90)
	}
}

func TestPageContents(t *testing.T) {
	doc := loadFixture(t)
	cat, _ := doc.DocumentCatalog()
	var withContents *PDPage
	for _, p := range cat.Pages().Pages() {
		if _, has := p.Dict()["Contents"]; has {
			withContents = p
		}
	}
	if withContents == nil {
		t.Fatalf("no page with /Contents found")
	}
	got, err := withContents.Contents()
	if err != nil {
		t.Fatalf("Contents: %v", err)
	}
	if string(got) != "BT ET" {
		t.Errorf("Contents() = %q, want %q", got, "BT ET")
	}
}

func TestAnnotationFlags(t *testing.T) {
	// S6: /F 12 is FlagPrint|FlagNoZoom.
	doc := loadFixture(t)
	cat, _ := doc.DocumentCatalog()

	var page3 *PDPage
	for _, p := range cat.Pages().Pages() {
		if len(p.Annotations()) > 0 {
			page3 = p
		}
	}
	if page3 == nil {
		t.Fatalf("no page with annotations found")
	}

	annots := page3.Annotations()
	if len(annots) != 1 {
		t.Fatalf("got %d annotations, want 1", len(annots))
	}
	a := annots[0]

	if a.Subtype() != "Text" {
		t.Errorf("Subtype() = %q, want Text", a.Subtype())
	}
	if !IsPrinted(a) {
		t.Error("IsPrinted() = false, want true (/F 12)")
	}
	if !IsNoZoom(a) {
		t.Error("IsNoZoom() = false, want true (/F 12)")
	}
	if IsHidden(a) {
		t.Error("IsHidden() = true, want false")
	}
	if got, want := a.Contents(), "hi"; got != want {
		t.Errorf("Contents() = %q, want %q", got, want)
	}
}

func TestSetFlagsRoundTrip(t *testing.T) {
	doc := loadFixture(t)
	cat, _ := doc.DocumentCatalog()
	var a PDAnnotation
	for _, p := range cat.Pages().Pages() {
		if annots := p.Annotations(); len(annots) > 0 {
			a = annots[0]
		}
	}
	if a == nil {
		t.Fatalf("no annotation found")
	}

	SetHidden(a, true)
	if !IsHidden(a) {
		t.Error("SetHidden(true) did not stick")
	}
	if !IsPrinted(a) {
		t.Error("SetHidden should not clear unrelated flags")
	}
	SetHidden(a, false)
	if IsHidden(a) {
		t.Error("SetHidden(false) did not clear the flag")
	}
}

func TestAddAndRemovePageRoundTrip(t *testing.T) {
	// Invariant #4.
	doc := loadFixture(t)
	before, err := doc.NumberOfPages()
	if err != nil {
		t.Fatalf("NumberOfPages: %v", err)
	}

	key := doc.COSDocument().AddObject(cos.Dict{"Type": cos.Name("Page")})
	page := &PDPage{doc: doc.COSDocument(), ref: key}

	if err := doc.AddPage(page); err != nil {
		t.Fatalf("AddPage: %v", err)
	}
	after, err := doc.NumberOfPages()
	if err != nil {
		t.Fatalf("NumberOfPages: %v", err)
	}
	if after != before+1 {
		t.Errorf("NumberOfPages after AddPage = %d, want %d", after, before+1)
	}

	found, err := doc.RemovePage(page)
	if err != nil {
		t.Fatalf("RemovePage: %v", err)
	}
	if !found {
		t.Error("RemovePage reported page not found")
	}
	final, err := doc.NumberOfPages()
	if err != nil {
		t.Fatalf("NumberOfPages: %v", err)
	}
	if final != before {
		t.Errorf("NumberOfPages after RemovePage = %d, want %d", final, before)
	}
}

func TestRemovePageUpdatesCountToRoot(t *testing.T) {
	// A 3-level tree: root -> mid -> leaf, leaf2. Removing leaf must
	// update mid's /Count AND the root's /Count, not just mid's.
	doc := loadFixture(t)
	cosDoc := doc.COSDocument()

	leaf1 := cosDoc.AddObject(cos.Dict{"Type": cos.Name("Page")})
	leaf2 := cosDoc.AddObject(cos.Dict{"Type": cos.Name("Page")})

	midKey := cosDoc.AddObject(cos.Dict{
		"Type":  cos.Name("Pages"),
		"Kids":  cos.Array{cos.Ref{Key: leaf1}, cos.Ref{Key: leaf2}},
		"Count": cos.Integer(2),
	})
	cosDoc.SetObject(leaf1, cos.Dict{"Type": cos.Name("Page"), "Parent": cos.Ref{Key: midKey}})
	cosDoc.SetObject(leaf2, cos.Dict{"Type": cos.Name("Page"), "Parent": cos.Ref{Key: midKey}})

	cat, err := doc.DocumentCatalog()
	if err != nil {
		t.Fatalf("DocumentCatalog: %v", err)
	}
	root := cat.Pages()
	if root == nil {
		t.Fatal("catalog has no /Pages root")
	}
	rootDict := root.Dict()
	kids, _ := cosDoc.ResolveArray(rootDict["Kids"])
	kids = append(kids, cos.Ref{Key: midKey})
	rootDict["Kids"] = kids
	cosDoc.SetObject(root.key(), rootDict)
	cosDoc.SetObject(midKey, func() cos.Dict {
		d, _ := cosDoc.ResolveDict(cos.Ref{Key: midKey})
		d["Parent"] = cos.Ref{Key: root.key()}
		return d
	}())

	rootCountBefore := root.updateCount()

	mid := &PDPageNode{doc: cosDoc, ref: midKey}
	leaf := &PDPage{doc: cosDoc, ref: leaf1}

	found, err := doc.RemovePage(leaf)
	if err != nil {
		t.Fatalf("RemovePage: %v", err)
	}
	if !found {
		t.Fatal("RemovePage reported leaf not found")
	}

	if got := mid.Count(); got != 1 {
		t.Errorf("mid.Count() after deep removal = %d, want 1", got)
	}
	if got := root.Count(); got != rootCountBefore-1 {
		t.Errorf("root.Count() after deep removal = %d, want %d", got, rootCountBefore-1)
	}
}

func TestImportPageCopiesContentIntoDestination(t *testing.T) {
	src := loadFixture(t)
	dst := loadFixture(t)

	var srcPage *PDPage
	for _, p := range mustCatalog(t, src).Pages().Pages() {
		if _, has := p.Dict()["Contents"]; has {
			srcPage = p
		}
	}
	if srcPage == nil {
		t.Fatalf("fixture has no page with content")
	}

	before, _ := dst.NumberOfPages()
	imported, err := dst.ImportPage(srcPage)
	if err != nil {
		t.Fatalf("ImportPage: %v", err)
	}
	after, _ := dst.NumberOfPages()
	if after != before+1 {
		t.Errorf("NumberOfPages after ImportPage = %d, want %d", after, before+1)
	}

	got, err := imported.Contents()
	if err != nil {
		t.Fatalf("imported Contents: %v", err)
	}
	if string(got) != "BT ET" {
		t.Errorf("imported Contents() = %q, want %q", got, "BT ET")
	}
	if imported.doc != dst.cos {
		t.Error("imported page is not owned by the destination document")
	}
}

func mustCatalog(t *testing.T, d *PDDocument) *PDDocumentCatalog {
	t.Helper()
	cat, err := d.DocumentCatalog()
	if err != nil {
		t.Fatalf("DocumentCatalog: %v", err)
	}
	return cat
}

func TestDocumentInformation(t *testing.T) {
	doc := loadFixture(t)
	info := doc.DocumentInformation()
	if got, want := info.Title(), "Test Doc"; got != want {
		t.Errorf("Title() = %q, want %q", got, want)
	}
	created, ok := info.CreationDate()
	if !ok {
		t.Fatal("CreationDate() ok = false")
	}
	if created.Year() != 2023 || int(created.Month()) != 6 || created.Day() != 15 {
		t.Errorf("CreationDate() = %v, want 2023-06-15", created)
	}
	_, offsetSeconds := created.Zone()
	if offsetSeconds != 2*3600 {
		t.Errorf("CreationDate() offset = %ds, want %ds", offsetSeconds, 2*3600)
	}
}

func TestDocumentNotEncrypted(t *testing.T) {
	doc := loadFixture(t)
	if doc.IsEncrypted() {
		t.Error("IsEncrypted() = true, want false")
	}
	if _, ok := doc.EncryptionDictionary(); ok {
		t.Error("EncryptionDictionary() ok = true, want false")
	}
}
