// Package script hosts the Lua process backend. The script is loaded once
// per run and must return a table exposing SourceProcess and GlueProcess;
// both are expected to return the output artifact as a string.
package script

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// SourcePair is one processed source and the artifact written for it.
type SourcePair struct {
	Source string
	Out    string
}

// Runtime owns the Lua state for the lifetime of a run.
type Runtime struct {
	L     *lua.LState
	procs *lua.LTable
}

// Load compiles and executes the process script, capturing the table it
// returns.
func Load(path string) (*Runtime, error) {
	L := lua.NewState()

	fn, err := L.LoadFile(path)
	if err != nil {
		L.Close()
		return nil, fmt.Errorf("process script failed to compile: %s", luaMessage(err))
	}

	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		L.Close()
		return nil, fmt.Errorf("process script failed to execute: %s", luaMessage(err))
	}

	ret := L.Get(-1)
	L.Pop(1)

	procs, ok := ret.(*lua.LTable)
	if !ok {
		L.Close()
		return nil, errors.New("process script did not return `table`")
	}

	return &Runtime{L: L, procs: procs}, nil
}

// Close releases the Lua state.
func (rt *Runtime) Close() {
	rt.L.Close()
}

// SourceProcess hands one source's tables to the script and returns the
// per-source output artifact.
func (rt *Runtime) SourceProcess(source string, types, enums, classes, functions *lua.LTable) (string, error) {
	return rt.call("SourceProcess",
		lua.LString(source), types, enums, classes, functions)
}

// GlueProcess hands the processed source/output pairs to the script and
// returns the aggregated glue artifact.
func (rt *Runtime) GlueProcess(pairs []SourcePair) (string, error) {
	sources := rt.L.NewTable()
	for i, pair := range pairs {
		entry := rt.L.NewTable()
		entry.RawSetString("source", lua.LString(pair.Source))
		entry.RawSetString("out", lua.LString(pair.Out))
		sources.RawSetInt(i+1, entry)
	}
	return rt.call("GlueProcess", sources)
}

func (rt *Runtime) call(name string, args ...lua.LValue) (string, error) {
	fn, ok := rt.procs.RawGetString(name).(*lua.LFunction)
	if !ok {
		return "", fmt.Errorf("process script did not define `%s`", name)
	}

	if err := rt.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		return "", fmt.Errorf("process script failed to execute: %s", luaMessage(err))
	}

	ret := rt.L.Get(-1)
	rt.L.Pop(1)

	out, ok := ret.(lua.LString)
	if !ok {
		return "", errors.New("process script did not return `string`")
	}
	return string(out), nil
}

// luaMessage renders a Lua error with its traceback when one is attached.
func luaMessage(err error) string {
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) {
		msg := apiErr.Object.String()
		if apiErr.StackTrace != "" {
			msg += "\nstack backtrace:\n" + apiErr.StackTrace
		}
		return msg
	}
	return err.Error()
}
