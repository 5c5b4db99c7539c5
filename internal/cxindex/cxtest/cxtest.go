// Package cxtest is an in-memory implementation of the cxindex interfaces
// for tests. Graphs are built by hand from Type and Cursor values; the zero
// value of every optional field means "absent".
package cxtest

import (
	"fmt"
	"strings"

	"leon/internal/cxindex"
)

// Type is a hand-built type node.
type Type struct {
	Invalid  bool
	TypeKind cxindex.TypeKind
	Name     string // spelling
	Decl     *Cursor
	PointeeT *Type
	Const    bool
	Volatile bool
	Restrict bool
	ArgTypes int
	Result   *Type

	unqual *Type
}

// InvalidType is what absent type references resolve to.
var InvalidType = &Type{Invalid: true}

func wrapType(t *Type) cxindex.Type {
	if t == nil {
		return InvalidType
	}
	return t
}

func (t *Type) Kind() cxindex.TypeKind {
	if t.Invalid {
		return cxindex.TypeInvalid
	}
	return t.TypeKind
}

func (t *Type) IsValid() bool { return !t.Invalid }

func (t *Type) Spelling() string { return t.Name }

func (t *Type) Declaration() cxindex.Cursor { return wrapCursor(t.Decl) }

func (t *Type) Pointee() cxindex.Type {
	switch t.TypeKind {
	case cxindex.TypeLValueReference, cxindex.TypeRValueReference,
		cxindex.TypePointer, cxindex.TypeBlockPointer,
		cxindex.TypeObjCObjectPointer, cxindex.TypeMemberPointer:
		return wrapType(t.PointeeT)
	}
	return InvalidType
}

func (t *Type) NonReference() cxindex.Type {
	switch t.TypeKind {
	case cxindex.TypeLValueReference, cxindex.TypeRValueReference:
		return wrapType(t.PointeeT)
	}
	return t
}

func (t *Type) Unqualified() cxindex.Type {
	if !t.Const && !t.Volatile && !t.Restrict {
		return t
	}
	if t.unqual == nil {
		u := *t
		u.Const, u.Volatile, u.Restrict = false, false, false
		u.Name = stripQuals(u.Name)
		t.unqual = &u
	}
	return t.unqual
}

// stripQuals removes leading qualifier tokens from a spelling, the way the
// libclang backend renders unqualified views of qualified types.
func stripQuals(s string) string {
	for {
		switch {
		case strings.HasPrefix(s, "const "):
			s = s[len("const "):]
		case strings.HasPrefix(s, "volatile "):
			s = s[len("volatile "):]
		case strings.HasPrefix(s, "restrict "):
			s = s[len("restrict "):]
		default:
			return s
		}
	}
}

func (t *Type) IsConst() bool    { return t.Const }
func (t *Type) IsVolatile() bool { return t.Volatile }
func (t *Type) IsRestrict() bool { return t.Restrict }

func (t *Type) NumArgTypes() int { return t.ArgTypes }

func (t *Type) ResultType() cxindex.Type { return wrapType(t.Result) }

// TemplateArg is a template argument on a declaration cursor.
type TemplateArg struct {
	Kind  cxindex.TemplateArgKind
	Type  *Type
	Value int64
}

// Cursor is a hand-built AST node. Children are visited in order; the
// cursor is located in the main file unless OutsideMainFile is set.
type Cursor struct {
	Invalid         bool
	CursorKind      cxindex.CursorKind
	TU              bool
	Unexposed       bool
	Name            string
	Parent          *Cursor
	T               *Type
	Result          *Type
	Children        []*Cursor
	AccessSpec      cxindex.Access
	StorageClass    cxindex.Storage
	Const           bool
	Virtual         bool
	Pure            bool
	HasTemplateArgs bool
	TemplateArgs    []TemplateArg
	Eval            *cxindex.EvalResult
	OutsideMainFile bool
}

// InvalidCursor is what absent cursor references resolve to.
var InvalidCursor = &Cursor{Invalid: true}

func wrapCursor(c *Cursor) cxindex.Cursor {
	if c == nil {
		return InvalidCursor
	}
	return c
}

func (c *Cursor) Kind() cxindex.CursorKind { return c.CursorKind }

func (c *Cursor) IsValid() bool { return !c.Invalid }

func (c *Cursor) IsTranslationUnit() bool { return c.TU }

func (c *Cursor) IsUnexposed() bool { return c.Unexposed }

func (c *Cursor) Spelling() string { return c.Name }

func (c *Cursor) SemanticParent() cxindex.Cursor { return wrapCursor(c.Parent) }

func (c *Cursor) Type() cxindex.Type { return wrapType(c.T) }

func (c *Cursor) ResultType() cxindex.Type { return wrapType(c.Result) }

func (c *Cursor) NumTemplateArguments() int {
	if !c.HasTemplateArgs {
		return -1
	}
	return len(c.TemplateArgs)
}

func (c *Cursor) TemplateArgumentKind(i int) cxindex.TemplateArgKind {
	return c.TemplateArgs[i].Kind
}

func (c *Cursor) TemplateArgumentType(i int) cxindex.Type {
	return wrapType(c.TemplateArgs[i].Type)
}

func (c *Cursor) TemplateArgumentValue(i int) int64 {
	return c.TemplateArgs[i].Value
}

func (c *Cursor) Access() cxindex.Access { return c.AccessSpec }

func (c *Cursor) Storage() cxindex.Storage { return c.StorageClass }

func (c *Cursor) IsMethodConst() bool   { return c.Const }
func (c *Cursor) IsMethodVirtual() bool { return c.Virtual }
func (c *Cursor) IsMethodPure() bool    { return c.Pure }

func (c *Cursor) Evaluate() (cxindex.EvalResult, bool) {
	if c.Eval == nil {
		return cxindex.EvalResult{}, false
	}
	return *c.Eval, true
}

func (c *Cursor) InMainFile() bool { return !c.OutsideMainFile }

func (c *Cursor) VisitChildren(fn cxindex.Visitor) {
	c.visit(fn)
}

func (c *Cursor) visit(fn cxindex.Visitor) bool {
	for _, child := range c.Children {
		switch fn(child, c) {
		case cxindex.VisitBreak:
			return false
		case cxindex.VisitRecurse:
			if !child.visit(fn) {
				return false
			}
		}
	}
	return true
}

// Flag returns an annotate-attribute cursor spelled "@leon".
func Flag() *Cursor {
	return &Cursor{CursorKind: cxindex.CursorAnnotateAttr, Name: "@leon"}
}

// KV returns an annotate-attribute cursor spelled as a key/value marker.
func KV(key, value string) *Cursor {
	return &Cursor{
		CursorKind: cxindex.CursorAnnotateAttr,
		Name:       fmt.Sprintf("@leonkv %q %q", key, value),
	}
}

// TranslationUnit wraps a root cursor for driver-level tests.
type TranslationUnit struct {
	Root  *Cursor
	Diags []cxindex.Diagnostic
}

func (t *TranslationUnit) Cursor() cxindex.Cursor { return wrapCursor(t.Root) }

func (t *TranslationUnit) Diagnostics() []cxindex.Diagnostic { return t.Diags }

func (t *TranslationUnit) Dispose() {}

// Index maps canonical source paths to prepared roots.
type Index struct {
	TUs   map[string]*Cursor
	Diags map[string][]cxindex.Diagnostic
}

func (i *Index) Parse(source string, args []string) (cxindex.TranslationUnit, error) {
	root, ok := i.TUs[source]
	if !ok {
		return nil, fmt.Errorf("no translation unit prepared for %s", source)
	}
	return &TranslationUnit{Root: root, Diags: i.Diags[source]}, nil
}

func (i *Index) Dispose() {}
