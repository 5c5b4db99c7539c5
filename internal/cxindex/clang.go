//go:build clang

package cxindex

import (
	"fmt"
	"strings"

	"github.com/go-clang/clang-v15/clang"
)

// NewClangIndex returns the libclang-backed index.
func NewClangIndex() (Index, error) {
	return &clangIndex{idx: clang.NewIndex(0, 0)}, nil
}

type clangIndex struct {
	idx clang.Index
}

func (i *clangIndex) Parse(source string, args []string) (TranslationUnit, error) {
	flags := uint32(clang.TranslationUnit_SkipFunctionBodies | clang.TranslationUnit_Incomplete)
	tu := i.idx.ParseTranslationUnit(source, args, nil, flags)
	if tu.TranslationUnitCursor().IsNull() {
		return nil, fmt.Errorf("failed to create a translation unit for %s", source)
	}
	return clangTU{tu: tu}, nil
}

func (i *clangIndex) Dispose() {
	i.idx.Dispose()
}

type clangTU struct {
	tu clang.TranslationUnit
}

func (t clangTU) Cursor() Cursor {
	return clangCursor{c: t.tu.TranslationUnitCursor()}
}

func (t clangTU) Diagnostics() []Diagnostic {
	var out []Diagnostic
	for _, d := range t.tu.Diagnostics() {
		var sev Severity
		switch d.Severity() {
		case clang.Diagnostic_Note:
			sev = SeverityNote
		case clang.Diagnostic_Warning:
			sev = SeverityWarning
		case clang.Diagnostic_Error:
			sev = SeverityError
		case clang.Diagnostic_Fatal:
			sev = SeverityFatal
		default:
			continue
		}
		out = append(out, Diagnostic{
			Severity: sev,
			Text:     d.FormatDiagnostic(clang.DefaultDiagnosticDisplayOptions()),
		})
	}
	return out
}

func (t clangTU) Dispose() {
	t.tu.Dispose()
}

type clangCursor struct {
	c clang.Cursor
}

func (c clangCursor) Kind() CursorKind {
	switch c.c.Kind() {
	case clang.Cursor_AnnotateAttr:
		return CursorAnnotateAttr
	case clang.Cursor_ClassDecl:
		return CursorClassDecl
	case clang.Cursor_StructDecl:
		return CursorStructDecl
	case clang.Cursor_EnumDecl:
		return CursorEnumDecl
	case clang.Cursor_EnumConstantDecl:
		return CursorEnumConstantDecl
	case clang.Cursor_FieldDecl:
		return CursorFieldDecl
	case clang.Cursor_VarDecl:
		return CursorVarDecl
	case clang.Cursor_FunctionDecl:
		return CursorFunctionDecl
	case clang.Cursor_CXXMethod:
		return CursorCXXMethod
	case clang.Cursor_ParmDecl:
		return CursorParmDecl
	case clang.Cursor_FriendDecl:
		return CursorFriendDecl
	case clang.Cursor_CXXBaseSpecifier:
		return CursorCXXBaseSpecifier
	case clang.Cursor_ClassTemplate:
		return CursorClassTemplate
	case clang.Cursor_ClassTemplatePartialSpecialization:
		return CursorClassTemplatePartialSpecialization
	}
	return CursorOther
}

func (c clangCursor) IsValid() bool {
	return !c.c.Kind().IsInvalid()
}

func (c clangCursor) IsTranslationUnit() bool {
	return c.c.Kind().IsTranslationUnit()
}

func (c clangCursor) IsUnexposed() bool {
	return c.c.Kind().IsUnexposed()
}

func (c clangCursor) Spelling() string {
	return c.c.Spelling()
}

func (c clangCursor) SemanticParent() Cursor {
	return clangCursor{c: c.c.SemanticParent()}
}

func (c clangCursor) Type() Type {
	return clangType{t: c.c.Type()}
}

func (c clangCursor) ResultType() Type {
	return clangType{t: c.c.ResultType()}
}

func (c clangCursor) NumTemplateArguments() int {
	return int(c.c.NumTemplateArguments())
}

func (c clangCursor) TemplateArgumentKind(i int) TemplateArgKind {
	switch c.c.TemplateArgumentKind(uint32(i)) {
	case clang.TemplateArgumentKind_Type:
		return TemplateArgType
	case clang.TemplateArgumentKind_Declaration:
		return TemplateArgDeclaration
	case clang.TemplateArgumentKind_NullPtr:
		return TemplateArgNullPtr
	case clang.TemplateArgumentKind_Integral:
		return TemplateArgIntegral
	case clang.TemplateArgumentKind_Template:
		return TemplateArgTemplate
	case clang.TemplateArgumentKind_TemplateExpansion:
		return TemplateArgTemplateExpansion
	case clang.TemplateArgumentKind_Expression:
		return TemplateArgExpression
	case clang.TemplateArgumentKind_Pack:
		return TemplateArgPack
	case clang.TemplateArgumentKind_Null:
		return TemplateArgNull
	}
	return TemplateArgInvalid
}

func (c clangCursor) TemplateArgumentType(i int) Type {
	return clangType{t: c.c.TemplateArgumentType(uint32(i))}
}

func (c clangCursor) TemplateArgumentValue(i int) int64 {
	return c.c.TemplateArgumentValue(uint32(i))
}

func (c clangCursor) Access() Access {
	switch c.c.AccessSpecifier() {
	case clang.AccessSpecifier_Public:
		return AccessPublic
	case clang.AccessSpecifier_Protected:
		return AccessProtected
	case clang.AccessSpecifier_Private:
		return AccessPrivate
	}
	return AccessInvalid
}

func (c clangCursor) Storage() Storage {
	switch c.c.StorageClass() {
	case clang.SC_None:
		return StorageNone
	case clang.SC_Static:
		return StorageStatic
	}
	return StorageOther
}

func (c clangCursor) IsMethodConst() bool {
	return c.c.CXXMethod_IsConst()
}

func (c clangCursor) IsMethodVirtual() bool {
	return c.c.CXXMethod_IsVirtual()
}

func (c clangCursor) IsMethodPure() bool {
	return c.c.CXXMethod_IsPureVirtual()
}

func (c clangCursor) Evaluate() (EvalResult, bool) {
	// clang_Cursor_Evaluate hands back a null result for non-expression
	// cursors; the bindings expose no null check, so gate by kind.
	if !c.c.Kind().IsExpression() {
		return EvalResult{}, false
	}
	er := c.c.Evaluate()
	defer er.Dispose()
	if er.Kind() == clang.Eval_Int {
		return EvalResult{Kind: EvalInt, Int: er.AsLongLong()}, true
	}
	return EvalResult{Kind: EvalOther}, true
}

func (c clangCursor) InMainFile() bool {
	return c.c.Location().IsFromMainFile()
}

func (c clangCursor) VisitChildren(fn Visitor) {
	c.c.Visit(func(cursor, parent clang.Cursor) clang.ChildVisitResult {
		switch fn(clangCursor{c: cursor}, clangCursor{c: parent}) {
		case VisitRecurse:
			return clang.ChildVisit_Recurse
		case VisitBreak:
			return clang.ChildVisit_Break
		}
		return clang.ChildVisit_Continue
	})
}

type clangType struct {
	t clang.Type
}

func (t clangType) Kind() TypeKind {
	switch t.t.Kind() {
	case clang.Type_Invalid:
		return TypeInvalid
	case clang.Type_LValueReference:
		return TypeLValueReference
	case clang.Type_RValueReference:
		return TypeRValueReference
	case clang.Type_Pointer:
		return TypePointer
	case clang.Type_BlockPointer:
		return TypeBlockPointer
	case clang.Type_ObjCObjectPointer:
		return TypeObjCObjectPointer
	case clang.Type_MemberPointer:
		return TypeMemberPointer
	case clang.Type_Auto:
		return TypeAuto
	}
	return TypeOther
}

func (t clangType) IsValid() bool {
	return t.t.Kind() != clang.Type_Invalid
}

func (t clangType) Spelling() string {
	return t.t.Spelling()
}

func (t clangType) Declaration() Cursor {
	return clangCursor{c: t.t.Declaration()}
}

func (t clangType) Pointee() Type {
	return clangType{t: t.t.PointeeType()}
}

func (t clangType) NonReference() Type {
	switch t.t.Kind() {
	case clang.Type_LValueReference, clang.Type_RValueReference:
		// libclang's pointee of a reference is its referenced type.
		return clangType{t: t.t.PointeeType()}
	}
	return t
}

func (t clangType) Unqualified() Type {
	if !t.IsConst() && !t.IsVolatile() && !t.IsRestrict() {
		return t
	}
	return unqualType{clangType: t}
}

func (t clangType) IsConst() bool {
	return t.t.IsConstQualifiedType()
}

func (t clangType) IsVolatile() bool {
	return t.t.IsVolatileQualifiedType()
}

func (t clangType) IsRestrict() bool {
	return t.t.IsRestrictQualifiedType()
}

func (t clangType) NumArgTypes() int {
	return int(t.t.NumArgTypes())
}

func (t clangType) ResultType() Type {
	return clangType{t: t.t.ResultType()}
}

// unqualType views a type with its own top-level qualifiers stripped.
// libclang 15 predates clang_getUnqualifiedType; the canonicalizer only
// needs the qualifier flags cleared and, for undeclared roots, a
// qualifier-free spelling.
type unqualType struct {
	clangType
}

func (t unqualType) IsConst() bool    { return false }
func (t unqualType) IsVolatile() bool { return false }
func (t unqualType) IsRestrict() bool { return false }

func (t unqualType) Unqualified() Type { return t }

func (t unqualType) Spelling() string {
	s := t.clangType.Spelling()
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
