// Package bridge materializes the reflection model as Lua tables for the
// scripted backend. Cross-table links are direct references to the target
// entry when it exists, falling back to the bare string key; 64-bit values
// are rendered as decimal strings so the scripting boundary cannot lose
// precision.
package bridge

import (
	"strconv"

	lua "github.com/yuin/gopher-lua"

	"leon/internal/attr"
	"leon/internal/registry"
)

// Tables builds the types, enums, classes and functions tables from the
// registry.
func Tables(L *lua.LState, r *registry.Registry) (types, enums, classes, functions *lua.LTable) {
	types = typesTable(L, r)
	enums = enumsTable(L, r)
	classes = classesTable(L, r, types)
	functions = functionsTable(L, r, types)
	return types, enums, classes, functions
}

// setRef links dst[field] to src's entry for key when present, else to the
// key itself. Empty keys produce no field.
func setRef(dst, src *lua.LTable, field, key string) {
	if key == "" {
		return
	}
	if target := src.RawGetString(key); target != lua.LNil {
		dst.RawSetString(field, target)
		return
	}
	dst.RawSetString(field, lua.LString(key))
}

// attrsTable renders an attribute list. Flag attributes gate registration
// but carry no payload, so only key/value pairs materialize.
func attrsTable(L *lua.LState, attrs []attr.Attr) *lua.LTable {
	tbl := L.NewTable()
	for _, a := range attrs {
		if a.Kind == attr.KeyValue {
			tbl.RawSetString(a.Key, lua.LString(a.Value))
		}
	}
	return tbl
}

func typesTable(L *lua.LState, r *registry.Registry) *lua.LTable {
	types := L.NewTable()

	// Entries exist before they are filled so that references between them
	// resolve regardless of iteration order.
	for name := range r.Types {
		types.RawSetString(name, L.NewTable())
	}

	for name, node := range r.Types {
		entry := types.RawGetString(name).(*lua.LTable)

		entry.RawSetString("type_type", lua.LString(node.Kind.String()))

		entry.RawSetString("const", lua.LBool(node.Const))
		entry.RawSetString("volatile", lua.LBool(node.Volatile))
		entry.RawSetString("restrict", lua.LBool(node.Restrict))

		entry.RawSetString("name", lua.LString(node.Name))
		setRef(entry, types, "root", node.Root)
		setRef(entry, types, "unqualified_root", node.UnqualifiedRoot)
		setRef(entry, types, "unqualified", node.Unqualified)
		setRef(entry, types, "pointee", node.Pointee)

		entry.RawSetString("is_template", lua.LBool(node.IsTemplate))

		if node.IsTemplate {
			args := L.NewTable()
			for i, arg := range node.TemplateArgs {
				argEntry := L.NewTable()
				argEntry.RawSetString("argument_type", lua.LString(arg.Kind.String()))
				switch arg.Kind {
				case registry.TemplateArgType:
					setRef(argEntry, types, "type", arg.Type)
				case registry.TemplateArgIntegral:
					argEntry.RawSetString("integral", lua.LString(strconv.FormatInt(arg.Integral, 10)))
				}
				args.RawSetInt(i+1, argEntry)
			}
			entry.RawSetString("template_arguments", args)
		}
	}

	return types
}

func enumsTable(L *lua.LState, r *registry.Registry) *lua.LTable {
	enums := L.NewTable()

	for name, node := range r.Enums {
		entry := L.NewTable()
		entry.RawSetString("name", lua.LString(node.Name))
		entry.RawSetString("attributes", attrsTable(L, node.Attrs))

		elements := L.NewTable()
		for elem, value := range node.Elements {
			elements.RawSetString(elem, lua.LString(strconv.FormatInt(value, 10)))
		}
		entry.RawSetString("elements", elements)

		enums.RawSetString(name, entry)
	}

	return enums
}

func argsTable(L *lua.LState, types *lua.LTable, args []registry.Arg) *lua.LTable {
	tbl := L.NewTable()
	for i, a := range args {
		entry := L.NewTable()
		setRef(entry, types, "type", a.Type)
		entry.RawSetString("name", lua.LString(a.Name))
		entry.RawSetString("attributes", attrsTable(L, a.Attrs))
		tbl.RawSetInt(i+1, entry)
	}
	return tbl
}

func classesTable(L *lua.LState, r *registry.Registry, types *lua.LTable) *lua.LTable {
	classes := L.NewTable()

	for name := range r.Classes {
		classes.RawSetString(name, L.NewTable())
	}

	for name, node := range r.Classes {
		entry := classes.RawGetString(name).(*lua.LTable)

		entry.RawSetString("name", lua.LString(node.Name))
		entry.RawSetString("class_type", lua.LString(node.ClassType.String()))
		entry.RawSetString("attributes", attrsTable(L, node.Attrs))
		entry.RawSetString("abstract", lua.LBool(node.Abstract))

		bases := L.NewTable()
		for _, base := range node.Bases {
			baseEntry := L.NewTable()
			setRef(baseEntry, classes, "class", base.BaseClass)
			baseEntry.RawSetString("visibility", lua.LString(base.Visibility.String()))
			bases.RawSetString(base.BaseClass, baseEntry)
		}
		entry.RawSetString("bases", bases)

		members := L.NewTable()
		for _, member := range node.Members {
			memberEntry := L.NewTable()
			memberEntry.RawSetString("name", lua.LString(member.Name))
			memberEntry.RawSetString("member_type", lua.LString(member.MemberType.String()))
			memberEntry.RawSetString("attributes", attrsTable(L, member.Attrs))
			memberEntry.RawSetString("visibility", lua.LString(member.Visibility.String()))
			setRef(memberEntry, types, "type", member.Type)
			members.RawSetString(member.Name, memberEntry)
		}
		entry.RawSetString("members", members)

		methods := L.NewTable()
		for _, method := range node.Methods {
			methodEntry := L.NewTable()
			methodEntry.RawSetString("name", lua.LString(method.Name))
			methodEntry.RawSetString("method_type", lua.LString(method.MethodType.String()))
			methodEntry.RawSetString("attributes", attrsTable(L, method.Attrs))
			methodEntry.RawSetString("visibility", lua.LString(method.Visibility.String()))
			methodEntry.RawSetString("const", lua.LBool(method.Const))
			methodEntry.RawSetString("virtual", lua.LBool(method.Virtual))
			methodEntry.RawSetString("pure", lua.LBool(method.Pure))
			setRef(methodEntry, types, "return_type", method.ReturnType)
			methodEntry.RawSetString("arguments", argsTable(L, types, method.Args))
			methods.RawSetString(method.Name, methodEntry)
		}
		entry.RawSetString("methods", methods)
	}

	return classes
}

func functionsTable(L *lua.LState, r *registry.Registry, types *lua.LTable) *lua.LTable {
	functions := L.NewTable()

	for name, node := range r.Functions {
		entry := L.NewTable()
		entry.RawSetString("name", lua.LString(node.Name))
		entry.RawSetString("attributes", attrsTable(L, node.Attrs))
		setRef(entry, types, "return_type", node.ReturnType)
		entry.RawSetString("arguments", argsTable(L, types, node.Args))
		functions.RawSetString(name, entry)
	}

	return functions
}
