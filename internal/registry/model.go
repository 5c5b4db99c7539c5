// Package registry builds the canonical reflection model of a translation
// unit: interned types plus the enums, classes and free functions the user
// marked with annotations. Entities reference each other by canonical string
// key, never by pointer, so the model is cycle-safe and trivially shareable
// with the scripted backend.
package registry

import "leon/internal/attr"

// TypeNodeKind is the shape of the outermost level of a type.
type TypeNodeKind int

const (
	TypeNodeType TypeNodeKind = iota
	TypeNodeLValueReference
	TypeNodeRValueReference
	TypeNodePointer
	TypeNodeBlockPointer
	TypeNodeObjCObjectPointer
	TypeNodeMemberPointer
)

func (k TypeNodeKind) String() string {
	switch k {
	case TypeNodeLValueReference:
		return "lvalue_reference"
	case TypeNodeRValueReference:
		return "rvalue_reference"
	case TypeNodePointer:
		return "pointer"
	case TypeNodeBlockPointer:
		return "block_pointer"
	case TypeNodeObjCObjectPointer:
		return "objc_object_pointer"
	case TypeNodeMemberPointer:
		return "member_pointer"
	}
	return "type"
}

// TemplateArgKind discriminates supported template arguments.
type TemplateArgKind int

const (
	TemplateArgType TemplateArgKind = iota
	TemplateArgNullptr
	TemplateArgIntegral
)

func (k TemplateArgKind) String() string {
	switch k {
	case TemplateArgNullptr:
		return "nullptr"
	case TemplateArgIntegral:
		return "integral"
	}
	return "type"
}

// TemplateArg is one template argument of a template type.
type TemplateArg struct {
	Kind     TemplateArgKind
	Type     string // type key, when Kind is TemplateArgType
	Integral int64  // when Kind is TemplateArgIntegral
}

// TypeNode is an interned type. All cross references are canonical names
// keyed into the same registry.
type TypeNode struct {
	Name     string
	Kind     TypeNodeKind
	Const    bool
	Volatile bool
	Restrict bool

	// Root is the type with all references and pointers peeled off,
	// qualifiers preserved. Unqualified strips this type's own top-level
	// cv qualifiers. UnqualifiedRoot is the declaration's own type when
	// declared, else the unqualified spelling. Pointee is the referenced
	// or pointed-to type, empty for plain types.
	Root            string
	UnqualifiedRoot string
	Unqualified     string
	Pointee         string

	IsTemplate   bool
	TemplateArgs []TemplateArg
}

// Visibility is a C++ access level.
type Visibility int

const (
	VisibilityPublic Visibility = iota
	VisibilityProtected
	VisibilityPrivate
)

func (v Visibility) String() string {
	switch v {
	case VisibilityProtected:
		return "protected"
	case VisibilityPrivate:
		return "private"
	}
	return "public"
}

// EnumNode is a registered enum. Element values follow the C++ successor
// rule: unassigned enumerators are one more than the previous, initialized
// enumerators take their evaluated value.
type EnumNode struct {
	Name     string
	Attrs    []attr.Attr
	Elements map[string]int64
}

// ClassType distinguishes struct from class declarations.
type ClassType int

const (
	ClassTypeStruct ClassType = iota
	ClassTypeClass
)

func (t ClassType) String() string {
	if t == ClassTypeClass {
		return "class"
	}
	return "struct"
}

// Base is one base class specifier.
type Base struct {
	BaseClass  string
	Visibility Visibility
}

// MemberType distinguishes instance members from static ones.
type MemberType int

const (
	MemberTypeMember MemberType = iota
	MemberTypeStatic
)

func (t MemberType) String() string {
	if t == MemberTypeStatic {
		return "static"
	}
	return "member"
}

// Member is an annotated data member.
type Member struct {
	Name       string
	MemberType MemberType
	Attrs      []attr.Attr
	Visibility Visibility
	Type       string // type key
}

// MethodType distinguishes instance methods, statics and friends.
type MethodType int

const (
	MethodTypeMethod MethodType = iota
	MethodTypeStatic
	MethodTypeFriend
)

func (t MethodType) String() string {
	switch t {
	case MethodTypeStatic:
		return "static"
	case MethodTypeFriend:
		return "friend"
	}
	return "method"
}

// Arg is one function or method parameter.
type Arg struct {
	Type  string // type key
	Name  string
	Attrs []attr.Attr
}

// Method is an annotated method, static method or friend function.
type Method struct {
	Name       string
	MethodType MethodType
	Const      bool
	Virtual    bool
	Pure       bool
	Attrs      []attr.Attr
	Visibility Visibility
	ReturnType string // type key
	Args       []Arg
}

// ClassNode is a registered class or struct.
type ClassNode struct {
	Name      string
	ClassType ClassType
	Attrs     []attr.Attr
	Abstract  bool
	Bases     []Base
	Members   []Member
	Methods   []Method
}

// FunctionNode is a registered free function.
type FunctionNode struct {
	Name       string
	Attrs      []attr.Attr
	ReturnType string // type key
	Args       []Arg
}

// Registry holds the four tables built from one translation unit. Entities
// are created on first reference and never mutated after registration
// completes; Reset must run before the next source is parsed.
type Registry struct {
	Types     map[string]*TypeNode
	Enums     map[string]*EnumNode
	Classes   map[string]*ClassNode
	Functions map[string]*FunctionNode
}

// New returns an empty registry.
func New() *Registry {
	r := &Registry{}
	r.Reset()
	return r
}

// Reset empties all four tables.
func (r *Registry) Reset() {
	r.Types = make(map[string]*TypeNode)
	r.Enums = make(map[string]*EnumNode)
	r.Classes = make(map[string]*ClassNode)
	r.Functions = make(map[string]*FunctionNode)
}
