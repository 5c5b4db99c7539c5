package registry

import (
	"fmt"

	"leon/internal/attr"
	"leon/internal/cxindex"
)

// parseAttrs collects the annotate attributes on a cursor's children. A
// malformed key/value marker fails the whole declaration.
func parseAttrs(c cxindex.Cursor) ([]attr.Attr, error) {
	var attrs []attr.Attr
	var walkErr error
	c.VisitChildren(func(cur, parent cxindex.Cursor) cxindex.VisitResult {
		if cur.Kind() == cxindex.CursorAnnotateAttr {
			a, err := attr.Parse(cur.Spelling())
			if err != nil {
				walkErr = err
				return cxindex.VisitBreak
			}
			attrs = append(attrs, a)
		}
		return cxindex.VisitContinue
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return attrs, nil
}

func visibility(a cxindex.Access) (Visibility, bool) {
	switch a {
	case cxindex.AccessPublic:
		return VisibilityPublic, true
	case cxindex.AccessProtected:
		return VisibilityProtected, true
	case cxindex.AccessPrivate:
		return VisibilityPrivate, true
	}
	return 0, false
}

// RegisterType interns the type under its canonical name and returns the
// key. The node is inserted before its neighbors are registered so that
// self-referential types terminate.
func (r *Registry) RegisterType(t cxindex.Type) (string, error) {
	name, err := typeName(t)
	if err != nil {
		return "", err
	}

	if _, ok := r.Types[name]; ok {
		return name, nil
	}

	node := &TypeNode{Name: name}

	switch t.Kind() {
	case cxindex.TypeLValueReference:
		node.Kind = TypeNodeLValueReference
	case cxindex.TypeRValueReference:
		node.Kind = TypeNodeRValueReference
	case cxindex.TypePointer:
		node.Kind = TypeNodePointer
	case cxindex.TypeBlockPointer:
		node.Kind = TypeNodeBlockPointer
	case cxindex.TypeObjCObjectPointer:
		node.Kind = TypeNodeObjCObjectPointer
	case cxindex.TypeMemberPointer:
		node.Kind = TypeNodeMemberPointer
	default:
		node.Kind = TypeNodeType
	}

	node.Const = t.IsConst()
	node.Volatile = t.IsVolatile()
	node.Restrict = t.IsRestrict()

	r.Types[name] = node

	root := typeRoot(t)
	if node.Root, err = r.RegisterType(root); err != nil {
		return "", err
	}

	decl := root.Declaration()

	if node.Unqualified, err = r.RegisterType(t.Unqualified()); err != nil {
		return "", err
	}
	if decl.IsValid() {
		node.UnqualifiedRoot, err = r.RegisterType(decl.Type())
	} else {
		node.UnqualifiedRoot, err = r.RegisterType(root.Unqualified())
	}
	if err != nil {
		return "", err
	}

	switch t.Kind() {
	case cxindex.TypeLValueReference, cxindex.TypeRValueReference:
		if node.Pointee, err = r.RegisterType(t.NonReference()); err != nil {
			return "", err
		}
	case cxindex.TypePointer, cxindex.TypeBlockPointer,
		cxindex.TypeObjCObjectPointer, cxindex.TypeMemberPointer:
		if p := t.Pointee(); p.Kind() != cxindex.TypeInvalid {
			if node.Pointee, err = r.RegisterType(p); err != nil {
				return "", err
			}
		}
	}

	if decl.IsValid() {
		if n := decl.NumTemplateArguments(); n >= 0 {
			node.IsTemplate = true
			for i := 0; i < n; i++ {
				var arg TemplateArg
				switch kind := decl.TemplateArgumentKind(i); kind {
				case cxindex.TemplateArgType:
					arg.Kind = TemplateArgType
					if arg.Type, err = r.RegisterType(decl.TemplateArgumentType(i)); err != nil {
						return "", err
					}
				case cxindex.TemplateArgNullPtr:
					arg.Kind = TemplateArgNullptr
				case cxindex.TemplateArgIntegral:
					arg.Kind = TemplateArgIntegral
					arg.Integral = decl.TemplateArgumentValue(i)
				case cxindex.TemplateArgInvalid:
					return "", fmt.Errorf("could not deduce template argument type: %s", name)
				default:
					return "", fmt.Errorf("unsupported template argument kind %q: %s", kind, name)
				}
				node.TemplateArgs = append(node.TemplateArgs, arg)
			}
		}
	}

	return name, nil
}

// RegisterEnum records an annotated enum declaration. Enumerator values
// follow the implicit-successor rule; initializers are compile-time
// evaluated and reset the counter.
func (r *Registry) RegisterEnum(c cxindex.Cursor) error {
	name := cursorName(c)

	if _, ok := r.Enums[name]; ok {
		return nil
	}

	attrs, err := parseAttrs(c)
	if err != nil {
		return err
	}
	if len(attrs) == 0 {
		return nil
	}

	node := &EnumNode{Name: name, Attrs: attrs, Elements: make(map[string]int64)}

	var (
		lastElem string
		next     int64
		walkErr  error
	)
	c.VisitChildren(func(cur, parent cxindex.Cursor) cxindex.VisitResult {
		if cur.Kind() == cxindex.CursorEnumConstantDecl {
			elem := cur.Spelling()
			lastElem = elem
			node.Elements[elem] = next
			next++
			return cxindex.VisitRecurse
		}

		if result, ok := cur.Evaluate(); ok {
			if result.Kind != cxindex.EvalInt {
				walkErr = fmt.Errorf("unexpected evaluation result for enum element in %s", name)
				return cxindex.VisitBreak
			}
			node.Elements[lastElem] = result.Int
			next = result.Int + 1
		}

		return cxindex.VisitContinue
	})
	if walkErr != nil {
		return walkErr
	}

	r.Enums[name] = node
	return nil
}

// RegisterClass records an annotated class or struct declaration along with
// its bases, members and methods. Nested classes and enums register into
// their own tables.
func (r *Registry) RegisterClass(c cxindex.Cursor) error {
	name := cursorName(c)

	if _, ok := r.Classes[name]; ok {
		return nil
	}

	attrs, err := parseAttrs(c)
	if err != nil {
		return err
	}
	if len(attrs) == 0 {
		return nil
	}

	node := &ClassNode{Name: name, Attrs: attrs}

	switch c.Kind() {
	case cxindex.CursorClassDecl:
		node.ClassType = ClassTypeClass
	case cxindex.CursorStructDecl:
		node.ClassType = ClassTypeStruct
	default:
		return fmt.Errorf("unexpected cursor kind for class registration: %s", name)
	}

	var (
		// friendWindow counts down the two visits following a friend
		// declaration; a function declaration seen inside it is the
		// befriended function.
		friendWindow  int
		currentMethod *Method
		walkErr       error
	)
	fail := func(err error) cxindex.VisitResult {
		walkErr = err
		return cxindex.VisitBreak
	}

	c.VisitChildren(func(cur, parent cxindex.Cursor) cxindex.VisitResult {
		inFriendWindow := friendWindow > 0
		if friendWindow > 0 {
			friendWindow--
		}

		switch cur.Kind() {
		case cxindex.CursorCXXBaseSpecifier:
			vis, ok := visibility(cur.Access())
			if !ok {
				return fail(fmt.Errorf("unexpected access specifier for base of %s", name))
			}
			t := cur.Type()
			if t.Kind() == cxindex.TypeInvalid {
				return fail(fmt.Errorf("type not found for base specifier of %s", name))
			}
			decl := t.Declaration()
			if !decl.IsValid() {
				return fail(fmt.Errorf("type not found for base specifier of %s", name))
			}
			node.Bases = append(node.Bases, Base{BaseClass: cursorName(decl), Visibility: vis})
			return cxindex.VisitContinue

		case cxindex.CursorClassDecl, cxindex.CursorStructDecl:
			if err := r.RegisterClass(cur); err != nil {
				return fail(err)
			}
			return cxindex.VisitContinue

		case cxindex.CursorEnumDecl:
			if err := r.RegisterEnum(cur); err != nil {
				return fail(err)
			}
			return cxindex.VisitContinue

		case cxindex.CursorFieldDecl:
			return r.registerMember(node, cur, MemberTypeMember, fail)

		case cxindex.CursorVarDecl:
			return r.registerMember(node, cur, MemberTypeStatic, fail)

		case cxindex.CursorFunctionDecl:
			mattrs, err := parseAttrs(cur)
			if err != nil {
				return fail(err)
			}
			if len(mattrs) == 0 {
				currentMethod = nil
				return cxindex.VisitContinue
			}
			vis, ok := visibility(cur.Access())
			if !ok {
				return fail(fmt.Errorf("unexpected access specifier for function in %s", name))
			}
			if !inFriendWindow {
				return fail(fmt.Errorf("function declaration in %s without a friend declaration", name))
			}
			ret, err := r.RegisterType(cur.ResultType())
			if err != nil {
				return fail(err)
			}
			node.Methods = append(node.Methods, Method{
				Name:       cur.Spelling(),
				MethodType: MethodTypeFriend,
				Attrs:      mattrs,
				Visibility: vis,
				ReturnType: ret,
			})
			currentMethod = &node.Methods[len(node.Methods)-1]
			return cxindex.VisitRecurse

		case cxindex.CursorCXXMethod:
			mattrs, err := parseAttrs(cur)
			if err != nil {
				return fail(err)
			}
			if len(mattrs) == 0 {
				currentMethod = nil
				return cxindex.VisitContinue
			}
			vis, ok := visibility(cur.Access())
			if !ok {
				return fail(fmt.Errorf("unexpected access specifier for method in %s", name))
			}
			var methodType MethodType
			switch cur.Storage() {
			case cxindex.StorageNone:
				methodType = MethodTypeMethod
			case cxindex.StorageStatic:
				methodType = MethodTypeStatic
			default:
				return fail(fmt.Errorf("unexpected storage class for method in %s", name))
			}
			ret, err := r.RegisterType(cur.ResultType())
			if err != nil {
				return fail(err)
			}
			node.Methods = append(node.Methods, Method{
				Name:       cur.Spelling(),
				MethodType: methodType,
				Const:      cur.IsMethodConst(),
				Virtual:    cur.IsMethodVirtual(),
				Pure:       cur.IsMethodPure(),
				Attrs:      mattrs,
				Visibility: vis,
				ReturnType: ret,
			})
			currentMethod = &node.Methods[len(node.Methods)-1]
			return cxindex.VisitRecurse

		case cxindex.CursorParmDecl:
			if currentMethod == nil {
				return fail(fmt.Errorf("parameter declaration outside a method in %s", name))
			}
			aattrs, err := parseAttrs(cur)
			if err != nil {
				return fail(err)
			}
			t, err := r.RegisterType(cur.Type())
			if err != nil {
				return fail(err)
			}
			currentMethod.Args = append(currentMethod.Args, Arg{
				Type:  t,
				Name:  cur.Spelling(),
				Attrs: aattrs,
			})
			return cxindex.VisitContinue

		case cxindex.CursorFriendDecl:
			friendWindow = 2
		}

		return cxindex.VisitRecurse
	})
	if walkErr != nil {
		return walkErr
	}

	for _, m := range node.Methods {
		if m.Pure {
			node.Abstract = true
			break
		}
	}

	r.Classes[name] = node
	return nil
}

// registerMember handles field and static variable declarations within a
// class walk.
func (r *Registry) registerMember(node *ClassNode, cur cxindex.Cursor, memberType MemberType, fail func(error) cxindex.VisitResult) cxindex.VisitResult {
	mattrs, err := parseAttrs(cur)
	if err != nil {
		return fail(err)
	}
	if len(mattrs) == 0 {
		return cxindex.VisitContinue
	}
	vis, ok := visibility(cur.Access())
	if !ok {
		return fail(fmt.Errorf("unexpected access specifier for member of %s", node.Name))
	}
	t, err := r.RegisterType(cur.Type())
	if err != nil {
		return fail(err)
	}
	node.Members = append(node.Members, Member{
		Name:       cur.Spelling(),
		MemberType: memberType,
		Attrs:      mattrs,
		Visibility: vis,
		Type:       t,
	})
	return cxindex.VisitContinue
}

// RegisterFunction records an annotated top-level function.
func (r *Registry) RegisterFunction(c cxindex.Cursor) error {
	name := cursorName(c)

	if _, ok := r.Functions[name]; ok {
		return nil
	}

	attrs, err := parseAttrs(c)
	if err != nil {
		return err
	}
	if len(attrs) == 0 {
		return nil
	}

	node := &FunctionNode{Name: name, Attrs: attrs}

	if node.ReturnType, err = r.RegisterType(c.ResultType()); err != nil {
		return err
	}

	var walkErr error
	c.VisitChildren(func(cur, parent cxindex.Cursor) cxindex.VisitResult {
		if cur.Kind() == cxindex.CursorParmDecl {
			aattrs, err := parseAttrs(cur)
			if err != nil {
				walkErr = err
				return cxindex.VisitBreak
			}
			t, err := r.RegisterType(cur.Type())
			if err != nil {
				walkErr = err
				return cxindex.VisitBreak
			}
			node.Args = append(node.Args, Arg{Type: t, Name: cur.Spelling(), Attrs: aattrs})
			return cxindex.VisitContinue
		}
		return cxindex.VisitRecurse
	})
	if walkErr != nil {
		return walkErr
	}

	r.Functions[name] = node
	return nil
}
