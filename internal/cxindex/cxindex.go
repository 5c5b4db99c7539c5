// Package cxindex abstracts the C++ indexing library behind small
// interfaces. The production backend wraps libclang via the go-clang
// bindings; tests substitute the in-memory implementation from the cxtest
// subpackage.
package cxindex

// CursorKind identifies the declaration kinds the reflector dispatches on.
// Anything else maps to CursorOther.
type CursorKind int

const (
	CursorOther CursorKind = iota
	CursorAnnotateAttr
	CursorClassDecl
	CursorStructDecl
	CursorEnumDecl
	CursorEnumConstantDecl
	CursorFieldDecl
	CursorVarDecl
	CursorFunctionDecl
	CursorCXXMethod
	CursorParmDecl
	CursorFriendDecl
	CursorCXXBaseSpecifier
	CursorClassTemplate
	CursorClassTemplatePartialSpecialization
)

// TypeKind identifies the type shapes the canonicalizer peels. The zero
// value is the invalid type.
type TypeKind int

const (
	TypeInvalid TypeKind = iota
	TypeOther
	TypeLValueReference
	TypeRValueReference
	TypePointer
	TypeBlockPointer
	TypeObjCObjectPointer
	TypeMemberPointer
	TypeAuto
)

// TemplateArgKind mirrors the indexing library's template argument kinds.
// Only Type, NullPtr and Integral are supported; the rest fail registration.
type TemplateArgKind int

const (
	TemplateArgNull TemplateArgKind = iota
	TemplateArgType
	TemplateArgDeclaration
	TemplateArgNullPtr
	TemplateArgIntegral
	TemplateArgTemplate
	TemplateArgTemplateExpansion
	TemplateArgExpression
	TemplateArgPack
	TemplateArgInvalid
)

func (k TemplateArgKind) String() string {
	switch k {
	case TemplateArgNull:
		return "null"
	case TemplateArgType:
		return "type"
	case TemplateArgDeclaration:
		return "declaration"
	case TemplateArgNullPtr:
		return "nullptr"
	case TemplateArgIntegral:
		return "integral"
	case TemplateArgTemplate:
		return "template"
	case TemplateArgTemplateExpansion:
		return "template expansion"
	case TemplateArgExpression:
		return "expression"
	case TemplateArgPack:
		return "pack"
	}
	return "invalid"
}

// Access is a C++ access specifier as reported by the indexing library.
type Access int

const (
	AccessInvalid Access = iota
	AccessPublic
	AccessProtected
	AccessPrivate
)

// Storage is a declaration storage class.
type Storage int

const (
	StorageNone Storage = iota
	StorageStatic
	StorageOther
)

// VisitResult controls child traversal.
type VisitResult int

const (
	VisitContinue VisitResult = iota
	VisitRecurse
	VisitBreak
)

// Visitor is invoked for each visited child cursor.
type Visitor func(cursor, parent Cursor) VisitResult

// EvalKind classifies a compile-time evaluation result.
type EvalKind int

const (
	EvalOther EvalKind = iota
	EvalInt
)

// EvalResult is the outcome of compile-time evaluating a cursor.
type EvalResult struct {
	Kind EvalKind
	Int  int64
}

// Type is a handle to a C++ type.
type Type interface {
	Kind() TypeKind
	IsValid() bool
	// Spelling is the indexing library's rendering of the type.
	Spelling() string
	// Declaration is the declaring cursor, invalid for undeclared types
	// such as builtins.
	Declaration() Cursor
	// Pointee is the pointed-to type, invalid for non-pointers.
	Pointee() Type
	// NonReference strips a top-level reference, identity otherwise.
	NonReference() Type
	// Unqualified strips the type's own top-level cv qualifiers.
	Unqualified() Type
	IsConst() bool
	IsVolatile() bool
	IsRestrict() bool
	// NumArgTypes and ResultType expose function-type shape, used only to
	// reject function types.
	NumArgTypes() int
	ResultType() Type
}

// Cursor is a handle to a node of the translation unit's AST.
type Cursor interface {
	Kind() CursorKind
	IsValid() bool
	IsTranslationUnit() bool
	IsUnexposed() bool
	Spelling() string
	SemanticParent() Cursor
	Type() Type
	ResultType() Type
	// NumTemplateArguments is negative when the cursor carries none.
	NumTemplateArguments() int
	TemplateArgumentKind(i int) TemplateArgKind
	TemplateArgumentType(i int) Type
	TemplateArgumentValue(i int) int64
	Access() Access
	Storage() Storage
	IsMethodConst() bool
	IsMethodVirtual() bool
	IsMethodPure() bool
	// Evaluate attempts compile-time evaluation; ok is false when the
	// cursor is not evaluable.
	Evaluate() (result EvalResult, ok bool)
	// InMainFile reports whether the cursor's location is in the
	// translation unit's primary file rather than an included header.
	InMainFile() bool
	VisitChildren(fn Visitor)
}

// Severity of a parse diagnostic.
type Severity int

const (
	SeverityIgnored Severity = iota
	SeverityNote
	SeverityWarning
	SeverityError
	SeverityFatal
)

// Diagnostic is a formatted parse diagnostic.
type Diagnostic struct {
	Severity Severity
	Text     string
}

// TranslationUnit is a parsed source file. Dispose must be called on every
// exit path once parsing succeeded.
type TranslationUnit interface {
	Cursor() Cursor
	Diagnostics() []Diagnostic
	Dispose()
}

// Index creates translation units. Parse skips function bodies and allows
// incomplete translation units.
type Index interface {
	Parse(source string, args []string) (TranslationUnit, error)
	Dispose()
}
