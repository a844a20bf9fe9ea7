package pd

import (
	"io"

	"github.com/coregrove/gopdfcos/cos"
)

// PageNode is either a *PDPageNode (an intermediate /Pages node) or a
// *PDPage (a leaf /Page). Dispatch on the concrete type via a type
// switch, mirroring the rest of this package's tagged-variant style.
type PageNode interface {
	isPageNode()
	key() cos.ObjectKey
}

// PDPageNode is a dictionary view of a `/Type /Pages` node: an interior
// node of the page tree, with children in `/Kids` and a cached leaf
// count in `/Count`.
type PDPageNode struct {
	doc *cos.Document
	ref cos.ObjectKey
}

func (*PDPageNode) isPageNode()             {}
func (n *PDPageNode) key() cos.ObjectKey    { return n.ref }
func (n *PDPageNode) Dict() cos.Dict        { d, _ := n.doc.ResolveDict(cos.Ref{Key: n.ref}); return d }
func (n *PDPageNode) Document() *cos.Document { return n.doc }

// Kids returns the node's immediate children, dispatched between
// PDPageNode and PDPage by `/Type` (tolerant of a missing `/Type`: a
// child with no `/Kids` entry of its own is treated as a leaf).
func (n *PDPageNode) Kids() []PageNode {
	dict := n.Dict()
	arr, _ := n.doc.ResolveArray(dict["Kids"])
	out := make([]PageNode, 0, len(arr))
	for _, o := range arr {
		ref, ok := o.(cos.Ref)
		if !ok {
			continue
		}
		kidDict, ok := n.doc.ResolveDict(o)
		if !ok {
			continue
		}
		out = append(out, wrapNode(n.doc, ref.Key, kidDict))
	}
	return out
}

func wrapNode(doc *cos.Document, key cos.ObjectKey, dict cos.Dict) PageNode {
	if typ, _ := dict["Type"].(cos.Name); typ == "Pages" {
		return &PDPageNode{doc: doc, ref: key}
	}
	if _, hasKids := dict["Kids"]; hasKids {
		return &PDPageNode{doc: doc, ref: key}
	}
	return &PDPage{doc: doc, ref: key}
}

// Pages flattens every leaf page reachable from n, in document order.
// Be aware that inherited attributes (Resources, MediaBox, Rotate) are
// not resolved by this call; use the PDPage accessors for that.
func (n *PDPageNode) Pages() []*PDPage {
	var out []*PDPage
	for _, kid := range n.Kids() {
		switch k := kid.(type) {
		case *PDPageNode:
			out = append(out, k.Pages()...)
		case *PDPage:
			out = append(out, k)
		}
	}
	return out
}

// Count returns the node's recorded `/Count`, without recomputing it.
func (n *PDPageNode) Count() int {
	v, _ := n.doc.ResolveInt(n.Dict()["Count"])
	return int(v)
}

// updateCount recursively recomputes `/Count` as the number of leaf
// pages reachable from n (a page contributes 1, a sub-tree contributes
// its own updated count) and writes the new value back into n's
// dictionary. Idempotent: calling it again with no intervening
// structural change yields the same value.
func (n *PDPageNode) updateCount() int {
	total := 0
	for _, kid := range n.Kids() {
		switch k := kid.(type) {
		case *PDPageNode:
			total += k.updateCount()
		case *PDPage:
			total++
		}
	}
	dict := n.Dict()
	dict["Count"] = cos.Integer(total)
	n.doc.SetObject(n.ref, dict)
	return total
}

// addPage appends page to n's `/Kids`, reparents page to n, and
// recomputes counts from n downward (spec's addPage runs updateCount()
// against the tree root; callers add through PDDocument.AddPage, which
// always starts from the root).
func (n *PDPageNode) addPage(page *PDPage) {
	dict := n.Dict()
	kids, _ := n.doc.ResolveArray(dict["Kids"])
	kids = append(kids, cos.Ref{Key: page.ref})
	dict["Kids"] = kids
	n.doc.SetObject(n.ref, dict)

	pageDict := page.Dict()
	pageDict["Parent"] = cos.Ref{Key: n.ref}
	n.doc.SetObject(page.ref, pageDict)

	n.updateCount()
}

// removePage removes page from n's `/Kids` if present, returning
// whether it was found, and recomputes counts from n all the way up to
// the tree root, so no ancestor above n is left with a stale cached
// `/Count`.
func (n *PDPageNode) removePage(page *PDPage) bool {
	dict := n.Dict()
	kids, _ := n.doc.ResolveArray(dict["Kids"])
	out := make(cos.Array, 0, len(kids))
	found := false
	for _, o := range kids {
		if ref, ok := o.(cos.Ref); ok && ref.Key == page.ref {
			found = true
			continue
		}
		out = append(out, o)
	}
	if !found {
		return false
	}
	dict["Kids"] = out
	n.doc.SetObject(n.ref, dict)
	n.updateCountToRoot()
	return true
}

// updateCountToRoot recomputes n's count, then walks up `/Parent` refs
// recomputing each ancestor's count in turn, so a change anywhere in
// the tree is reflected all the way to the root.
func (n *PDPageNode) updateCountToRoot() {
	seen := map[cos.ObjectKey]bool{}
	node := n
	for node != nil && !seen[node.ref] {
		seen[node.ref] = true
		node.updateCount()
		ref, ok := node.Dict()["Parent"].(cos.Ref)
		if !ok {
			return
		}
		node = &PDPageNode{doc: node.doc, ref: ref.Key}
	}
}

// PDPage is a dictionary view of a `/Type /Page` leaf: the unit of
// content a reader renders or extracts text from.
type PDPage struct {
	doc *cos.Document
	ref cos.ObjectKey
}

func (*PDPage) isPageNode()          {}
func (p *PDPage) key() cos.ObjectKey { return p.ref }
func (p *PDPage) Dict() cos.Dict     { d, _ := p.doc.ResolveDict(cos.Ref{Key: p.ref}); return d }

// Parent returns the page's immediate ancestor node, or nil for an
// unparented page (e.g. one not yet added to a tree).
func (p *PDPage) Parent() *PDPageNode {
	ref, ok := p.Dict()["Parent"].(cos.Ref)
	if !ok {
		return nil
	}
	return &PDPageNode{doc: p.doc, ref: ref.Key}
}

// MediaBox returns the page's media box, walking up `/Parent` chains to
// satisfy inheritance (7.7.3.4) if the page itself omits it.
func (p *PDPage) MediaBox() Rectangle {
	return p.inheritedRectangle("MediaBox")
}

// CropBox returns the page's crop box, falling back to the inherited
// MediaBox if neither the page nor any ancestor sets `/CropBox`.
func (p *PDPage) CropBox() Rectangle {
	if r, ok := p.inheritedRectangleOK("CropBox"); ok {
		return r
	}
	return p.MediaBox()
}

func (p *PDPage) inheritedRectangle(key cos.Name) Rectangle {
	r, _ := p.inheritedRectangleOK(key)
	return r
}

func (p *PDPage) inheritedRectangleOK(key cos.Name) (Rectangle, bool) {
	dict := p.Dict()
	seen := map[cos.ObjectKey]bool{p.ref: true}
	for {
		if v, has := dict[key]; has {
			return rectangleFromArray(p.doc, v), true
		}
		ref, ok := dict["Parent"].(cos.Ref)
		if !ok || seen[ref.Key] {
			return Rectangle{}, false
		}
		seen[ref.Key] = true
		dict, ok = p.doc.ResolveDict(ref)
		if !ok {
			return Rectangle{}, false
		}
	}
}

// Rotate returns the page's `/Rotate` angle (a multiple of 90, inherited
// like MediaBox), defaulting to 0 when absent anywhere in the chain.
func (p *PDPage) Rotate() int {
	dict := p.Dict()
	seen := map[cos.ObjectKey]bool{p.ref: true}
	for {
		if v, has := dict["Rotate"]; has {
			n, _ := p.doc.ResolveInt(v)
			return int(n)
		}
		ref, ok := dict["Parent"].(cos.Ref)
		if !ok || seen[ref.Key] {
			return 0
		}
		seen[ref.Key] = true
		dict, ok = p.doc.ResolveDict(ref)
		if !ok {
			return 0
		}
	}
}

// Annotations returns the page's `/Annots`, dispatched to concrete
// PDAnnotation variants (§4.5 create).
func (p *PDPage) Annotations() []PDAnnotation {
	arr, _ := p.doc.ResolveArray(p.Dict()["Annots"])
	out := make([]PDAnnotation, 0, len(arr))
	for _, o := range arr {
		ref, ok := o.(cos.Ref)
		if !ok {
			continue
		}
		dict, ok := p.doc.ResolveDict(o)
		if !ok {
			continue
		}
		out = append(out, newAnnotation(p.doc, ref.Key, dict))
	}
	return out
}

// Contents decodes and concatenates the page's content stream(s)
// (`/Contents` is a stream or an array of streams, 7.8.2), each run
// through its own filter pipeline and joined with a newline, the way a
// multi-stream page is meant to be read as a single token sequence.
func (p *PDPage) Contents() ([]byte, error) {
	var streams []cos.Stream
	switch v := p.doc.Resolve(p.Dict()["Contents"]).(type) {
	case cos.Stream:
		streams = []cos.Stream{v}
	case cos.Array:
		for _, o := range v {
			if s, ok := p.doc.ResolveStream(o); ok {
				streams = append(streams, s)
			}
		}
	}
	var out []byte
	for i, s := range streams {
		decoded, err := p.doc.DecodeStream(s)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			out = append(out, '\n')
		}
		out = append(out, decoded...)
	}
	return out, nil
}

// importContentInto copies p's content stream(s) into dst's scratch
// file, 10 KiB at a time, and returns the resulting Contents value for
// installation into a fresh page dictionary in dst.
func (p *PDPage) importContentInto(dst *cos.Document) (cos.Object, error) {
	var streams []cos.Stream
	switch v := p.doc.Resolve(p.Dict()["Contents"]).(type) {
	case cos.Stream:
		streams = []cos.Stream{v}
	case cos.Array:
		for _, o := range v {
			if s, ok := p.doc.ResolveStream(o); ok {
				streams = append(streams, s)
			}
		}
	}
	if len(streams) == 0 {
		return nil, nil
	}

	const bufSize = 10 * 1024
	refs := make(cos.Array, 0, len(streams))
	for _, s := range streams {
		r, err := p.doc.StreamReader(s)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, 0, s.Length())
		chunk := make([]byte, bufSize)
		for {
			n, err := r.Read(chunk)
			if n > 0 {
				buf = append(buf, chunk[:n]...)
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, err
			}
		}
		key, err := dst.NewStream(copyDict(s.Dict), buf)
		if err != nil {
			return nil, err
		}
		refs = append(refs, cos.Ref{Key: key})
	}
	if len(refs) == 1 {
		return refs[0], nil
	}
	return refs, nil
}

func copyDict(d cos.Dict) cos.Dict {
	out := make(cos.Dict, len(d))
	for k, v := range d {
		// the payload is copied still encoded, so /Filter and
		// /DecodeParms stay; NewStream sets /Length itself.
		if k == "Length" {
			continue
		}
		out[k] = v
	}
	return out
}
