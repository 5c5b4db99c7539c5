package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "process.lua")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const echoScript = `
local process = {}

function process.SourceProcess(source, types, enums, classes, functions)
	local count = 0
	for _ in pairs(types) do count = count + 1 end
	return "source=" .. source .. " types=" .. count
end

function process.GlueProcess(sources)
	local out = ""
	for i, pair in ipairs(sources) do
		out = out .. i .. ":" .. pair.source .. "->" .. pair.out .. "\n"
	end
	return out
end

return process
`

func TestSourceProcess(t *testing.T) {
	rt, err := Load(writeScript(t, echoScript))
	require.NoError(t, err)
	defer rt.Close()

	types := rt.L.NewTable()
	types.RawSetString("int", rt.L.NewTable())
	empty := rt.L.NewTable()

	out, err := rt.SourceProcess("main.cpp", types, empty, empty, empty)
	require.NoError(t, err)
	assert.Equal(t, "source=main.cpp types=1", out)
}

func TestGlueProcess(t *testing.T) {
	rt, err := Load(writeScript(t, echoScript))
	require.NoError(t, err)
	defer rt.Close()

	out, err := rt.GlueProcess([]SourcePair{
		{Source: "a.cpp", Out: "a/out.h"},
		{Source: "b.cpp", Out: "b/out.h"},
	})
	require.NoError(t, err)
	assert.Equal(t, "1:a.cpp->a/out.h\n2:b.cpp->b/out.h\n", out)
}

func TestLoadCompileError(t *testing.T) {
	_, err := Load(writeScript(t, "return ((("))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compile")
}

func TestLoadNonTableReturn(t *testing.T) {
	_, err := Load(writeScript(t, `return "not a table"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not return `table`")
}

func TestRuntimeError(t *testing.T) {
	rt, err := Load(writeScript(t, `
local process = {}
function process.SourceProcess() error("boom") end
return process
`))
	require.NoError(t, err)
	defer rt.Close()

	empty := rt.L.NewTable()
	_, err = rt.SourceProcess("main.cpp", empty, empty, empty, empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), "stack backtrace")
}

func TestNonStringReturn(t *testing.T) {
	rt, err := Load(writeScript(t, `
local process = {}
function process.SourceProcess() return {} end
return process
`))
	require.NoError(t, err)
	defer rt.Close()

	empty := rt.L.NewTable()
	_, err = rt.SourceProcess("main.cpp", empty, empty, empty, empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not return `string`")
}

func TestMissingEntryPoint(t *testing.T) {
	rt, err := Load(writeScript(t, `return {}`))
	require.NoError(t, err)
	defer rt.Close()

	_, err = rt.GlueProcess(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GlueProcess")
}

func TestLuaNumbersRoundTrip(t *testing.T) {
	rt, err := Load(writeScript(t, `
local process = {}
function process.SourceProcess(source, types)
	return tostring(types.big.integral)
end
function process.GlueProcess() return "" end
return process
`))
	require.NoError(t, err)
	defer rt.Close()

	types := rt.L.NewTable()
	big := rt.L.NewTable()
	big.RawSetString("integral", lua.LString("9007199254740993"))
	types.RawSetString("big", big)
	empty := rt.L.NewTable()

	out, err := rt.SourceProcess("main.cpp", types, empty, empty, empty)
	require.NoError(t, err)
	// The value crosses the boundary as a string, past float53 precision.
	assert.Equal(t, "9007199254740993", out)
}
