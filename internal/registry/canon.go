package registry

import (
	"fmt"
	"strconv"
	"strings"

	"leon/internal/cxindex"
)

// cursorName is the fully-qualified semantic name of a declaration. Semantic
// parents are prepended with "::" until the translation unit; unexposed
// parents are skipped.
func cursorName(c cxindex.Cursor) string {
	name := c.Spelling()
	for {
		c = c.SemanticParent()
		if !c.IsValid() || c.IsTranslationUnit() {
			break
		}
		if c.IsUnexposed() {
			continue
		}
		name = c.Spelling() + "::" + name
	}
	return name
}

// checkType rejects function-shaped types.
func checkType(t cxindex.Type) error {
	if t.NumArgTypes() > 0 || t.ResultType().Kind() != cxindex.TypeInvalid {
		return fmt.Errorf("Function types currently unsupported: %s", t.Spelling())
	}
	return nil
}

// typeRoot peels references and pointers until the terminal type. Auto is
// peeled only here, not when building qualifier decorations.
func typeRoot(t cxindex.Type) cxindex.Type {
	for {
		switch t.Kind() {
		case cxindex.TypeLValueReference, cxindex.TypeRValueReference:
			t = t.NonReference()
		case cxindex.TypePointer, cxindex.TypeBlockPointer,
			cxindex.TypeObjCObjectPointer, cxindex.TypeMemberPointer,
			cxindex.TypeAuto:
			p := t.Pointee()
			if p.Kind() == cxindex.TypeInvalid {
				return t
			}
			t = p
		default:
			return t
		}
	}
}

// qualString renders a type's own cv/restrict qualifiers in the fixed order
// "const volatile restrict".
func qualString(t cxindex.Type) string {
	var out strings.Builder
	if t.IsConst() {
		out.WriteString("const")
	}
	if t.IsVolatile() {
		if out.Len() > 0 {
			out.WriteByte(' ')
		}
		out.WriteString("volatile")
	}
	if t.IsRestrict() {
		if out.Len() > 0 {
			out.WriteByte(' ')
		}
		out.WriteString("restrict")
	}
	return out.String()
}

// typeName builds the canonical name: left qualifiers of the root, the
// fully-qualified (template-applied) root name, then one right-hand segment
// per reference/pointer layer walked outside-in.
func typeName(t cxindex.Type) (string, error) {
	root := typeRoot(t)
	if err := checkType(root); err != nil {
		return "", err
	}

	decl := root.Declaration()

	var name string
	if decl.IsValid() {
		name = cursorName(decl)
	} else {
		name = root.Unqualified().Spelling()
	}

	if decl.IsValid() {
		if n := decl.NumTemplateArguments(); n >= 0 {
			var sb strings.Builder
			sb.WriteString(name)
			sb.WriteByte('<')
			for i := 0; i < n; i++ {
				if i > 0 {
					sb.WriteString(", ")
				}
				switch kind := decl.TemplateArgumentKind(i); kind {
				case cxindex.TemplateArgType:
					arg, err := typeName(decl.TemplateArgumentType(i))
					if err != nil {
						return "", err
					}
					sb.WriteString(arg)
				case cxindex.TemplateArgNullPtr:
					sb.WriteString("nullptr")
				case cxindex.TemplateArgIntegral:
					sb.WriteString(strconv.FormatInt(decl.TemplateArgumentValue(i), 10))
				case cxindex.TemplateArgInvalid:
					return "", fmt.Errorf("could not deduce template argument type: %s", name)
				default:
					return "", fmt.Errorf("unsupported template argument kind %q: %s", kind, name)
				}
			}
			sb.WriteByte('>')
			name = sb.String()
		}
	}

	lqual := qualString(root)
	if lqual != "" {
		lqual += " "
	}

	var rqual string
	cur := t
walk:
	for {
		switch cur.Kind() {
		case cxindex.TypeLValueReference:
			rqual = " &" + qualString(cur) + rqual
			cur = cur.NonReference()
		case cxindex.TypeRValueReference:
			rqual = " &&" + qualString(cur) + rqual
			cur = cur.NonReference()
		case cxindex.TypePointer, cxindex.TypeBlockPointer,
			cxindex.TypeObjCObjectPointer, cxindex.TypeMemberPointer:
			p := cur.Pointee()
			if p.Kind() == cxindex.TypeInvalid {
				break walk
			}
			rqual = " *" + qualString(cur) + rqual
			cur = p
		default:
			break walk
		}
	}

	return lqual + name + rqual, nil
}
