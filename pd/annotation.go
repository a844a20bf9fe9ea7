package pd

import (
	"github.com/coregrove/gopdfcos/cos"
	"github.com/coregrove/gopdfcos/internal/textenc"
)

// AnnotationFlag describes the behaviour of an annotation (Table 165).
type AnnotationFlag uint16

const (
	FlagInvisible AnnotationFlag = 1 << (1 - 1)
	FlagHidden    AnnotationFlag = 1 << (2 - 1)
	FlagPrint     AnnotationFlag = 1 << (3 - 1)
	FlagNoZoom    AnnotationFlag = 1 << (4 - 1)
	FlagNoRotate  AnnotationFlag = 1 << (5 - 1)
	FlagNoView    AnnotationFlag = 1 << (6 - 1)
	FlagReadOnly  AnnotationFlag = 1 << (7 - 1)
	FlagLocked    AnnotationFlag = 1 << (8 - 1)
	FlagToggleNoView AnnotationFlag = 1 << (9 - 1)
)

// PDAnnotation is a `/Type /Annot` dictionary view, dispatched on
// `/Subtype` by newAnnotation. Every concrete subtype embeds
// baseAnnotation and so shares its flag and Rect accessors.
type PDAnnotation interface {
	Dict() cos.Dict
	Rect() Rectangle
	Flags() AnnotationFlag
	SetFlags(AnnotationFlag)
	Contents() string
	Subtype() cos.Name
}

type baseAnnotation struct {
	doc *cos.Document
	ref cos.ObjectKey
}

func (b baseAnnotation) Dict() cos.Dict {
	d, _ := b.doc.ResolveDict(cos.Ref{Key: b.ref})
	return d
}

func (b baseAnnotation) Rect() Rectangle {
	return rectangleFromArray(b.doc, b.Dict()["Rect"])
}

func (b baseAnnotation) Flags() AnnotationFlag {
	v, _ := b.doc.ResolveInt(b.Dict()["F"])
	return AnnotationFlag(v)
}

func (b baseAnnotation) SetFlags(f AnnotationFlag) {
	dict := b.Dict()
	dict["F"] = cos.Integer(f)
	b.doc.SetObject(b.ref, dict)
}

func (b baseAnnotation) Contents() string {
	s, ok := b.Dict()["Contents"].(cos.String)
	if !ok {
		return ""
	}
	return textenc.DecodeTextString(s.Bytes)
}

func (b baseAnnotation) Subtype() cos.Name {
	n, _ := b.Dict()["Subtype"].(cos.Name)
	return n
}

// hasFlag reports whether f is set in the annotation's /F bitfield —
// the convenience accessors named after S6 in the contract
// (isPrinted, isNoZoom, ...) are all this one check.
func hasFlag(a PDAnnotation, f AnnotationFlag) bool { return a.Flags()&f != 0 }

func setFlag(a PDAnnotation, f AnnotationFlag, on bool) {
	cur := a.Flags()
	if on {
		cur |= f
	} else {
		cur &^= f
	}
	a.SetFlags(cur)
}

// IsInvisible, IsHidden, ... implement the §8 S6 contract directly
// against any PDAnnotation.
func IsInvisible(a PDAnnotation) bool { return hasFlag(a, FlagInvisible) }
func IsHidden(a PDAnnotation) bool    { return hasFlag(a, FlagHidden) }
func IsPrinted(a PDAnnotation) bool   { return hasFlag(a, FlagPrint) }
func IsNoZoom(a PDAnnotation) bool    { return hasFlag(a, FlagNoZoom) }
func IsNoRotate(a PDAnnotation) bool  { return hasFlag(a, FlagNoRotate) }
func IsNoView(a PDAnnotation) bool    { return hasFlag(a, FlagNoView) }
func IsReadOnly(a PDAnnotation) bool  { return hasFlag(a, FlagReadOnly) }
func IsLocked(a PDAnnotation) bool    { return hasFlag(a, FlagLocked) }

func SetHidden(a PDAnnotation, on bool)   { setFlag(a, FlagHidden, on) }
func SetPrinted(a PDAnnotation, on bool)  { setFlag(a, FlagPrint, on) }
func SetLocked(a PDAnnotation, on bool)   { setFlag(a, FlagLocked, on) }

// RubberStamp is a `/Subtype /Stamp` markup annotation.
type RubberStamp struct {
	baseAnnotation
	Name cos.Name // rubber stamp icon name, /Name entry (Table 181)
}

// Link is a `/Subtype /Link` annotation.
type Link struct {
	baseAnnotation
}

// Widget is a `/Subtype /Widget` form-field annotation.
type Widget struct {
	baseAnnotation
}

// Popup is a `/Subtype /Popup` annotation associated with a markup
// annotation via `/Parent`.
type Popup struct {
	baseAnnotation
}

// Open reports the popup's initial open/closed state.
func (p Popup) Open() bool {
	b, _ := p.Dict()["Open"].(cos.Boolean)
	return bool(b)
}

// FreeText is a `/Subtype /FreeText` markup annotation that displays
// text directly on the page without an associated popup.
type FreeText struct {
	baseAnnotation
}

// Text is a `/Subtype /Text` "sticky note" annotation.
type Text struct {
	baseAnnotation
}

// Unknown is any annotation subtype this package does not otherwise
// recognize — tolerance (§4.5): an unrecognized /Subtype is never an
// error, it simply falls back to the base accessors.
type Unknown struct {
	baseAnnotation
}

// newAnnotation dispatches on dict["Subtype"] (§4.5 create).
func newAnnotation(doc *cos.Document, ref cos.ObjectKey, dict cos.Dict) PDAnnotation {
	base := baseAnnotation{doc: doc, ref: ref}
	subtype, _ := dict["Subtype"].(cos.Name)
	switch subtype {
	case "Stamp":
		name, _ := dict["Name"].(cos.Name)
		return RubberStamp{baseAnnotation: base, Name: name}
	case "Link":
		return Link{baseAnnotation: base}
	case "Widget":
		return Widget{baseAnnotation: base}
	case "Popup":
		return Popup{baseAnnotation: base}
	case "FreeText":
		return FreeText{baseAnnotation: base}
	case "Text":
		return Text{baseAnnotation: base}
	default:
		return Unknown{baseAnnotation: base}
	}
}
