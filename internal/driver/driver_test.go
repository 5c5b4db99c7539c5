package driver

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leon/internal/cxindex"
	"leon/internal/cxindex/cxtest"
)

func TestCleanPath(t *testing.T) {
	assert.Equal(t, "_home_user_game_apple.cpp", CleanPath("/home/user/game/apple.cpp"))
	assert.Equal(t, "relative/apple.cpp", CleanPath("relative/apple.cpp"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitList("a;b;c"))
	assert.Equal(t, []string{"a"}, SplitList("a"))
	assert.Equal(t, []string{"a", "b"}, SplitList(";a;;b;"))
	assert.Nil(t, SplitList(""))
}

func TestCanonicalizeMissingInput(t *testing.T) {
	_, err := Canonicalize(filepath.Join(t.TempDir(), "missing.cpp"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "doesn't exist")
}

func TestStale(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.h")
	in := filepath.Join(dir, "in.cpp")
	require.NoError(t, os.WriteFile(in, []byte("x"), 0o644))

	assert.True(t, stale(out, in), "missing output is stale")

	require.NoError(t, os.WriteFile(out, []byte("y"), 0o644))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(in, old, old))
	assert.False(t, stale(out, in), "output newer than input is fresh")

	newer := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(in, newer, newer))
	assert.True(t, stale(out, in), "input newer than output is stale")
}

const testScript = `
local process = {}

function process.SourceProcess(source, types, enums, classes, functions)
	local names = {}
	for name in pairs(classes) do names[#names + 1] = name end
	table.sort(names)
	return "// " .. source .. "\n// classes: " .. table.concat(names, ", ") .. "\n"
end

function process.GlueProcess(sources)
	local out = ""
	for _, pair in ipairs(sources) do
		out = out .. pair.source .. " -> " .. pair.out .. "\n"
	end
	return out
end

return process
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// annotatedTU is a translation unit declaring one annotated struct.
func annotatedTU(name string) *cxtest.Cursor {
	return &cxtest.Cursor{
		TU: true,
		Children: []*cxtest.Cursor{{
			CursorKind: cxindex.CursorStructDecl,
			Name:       name,
			Children:   []*cxtest.Cursor{cxtest.Flag()},
		}},
	}
}

func TestRun(t *testing.T) {
	tmp := t.TempDir()

	srcPath := filepath.Join(tmp, "apple.cpp")
	writeFile(t, srcPath, "struct LEON Apple {};\n")
	scriptPath := filepath.Join(tmp, "process.lua")
	writeFile(t, scriptPath, testScript)

	std, err := Canonicalize(srcPath)
	require.NoError(t, err)

	idx := &cxtest.Index{TUs: map[string]*cxtest.Cursor{std.Path: annotatedTU("Apple")}}

	opts := Options{
		BinaryDir:     filepath.Join(tmp, "bin"),
		Script:        scriptPath,
		OutExtension:  ".gen.h",
		GlueExtension: ".gen.cpp",
		Sources:       []string{srcPath},
		NewIndex:      func() (cxindex.Index, error) { return idx, nil },
	}
	require.NoError(t, Run(opts))

	outPath := filepath.Join(tmp, "bin", CleanPath(std.Path), "out.gen.h")
	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(out), "apple.cpp")
	assert.Contains(t, string(out), "classes: Apple")

	glue, err := os.ReadFile(filepath.Join(tmp, "bin", "glue.gen.cpp"))
	require.NoError(t, err)
	assert.Contains(t, string(glue), "apple.cpp -> ")
	assert.Contains(t, string(glue), "out.gen.h")
}

func TestRunUpToDateSkipsParse(t *testing.T) {
	tmp := t.TempDir()

	srcPath := filepath.Join(tmp, "apple.cpp")
	writeFile(t, srcPath, "struct LEON Apple {};\n")
	scriptPath := filepath.Join(tmp, "process.lua")
	writeFile(t, scriptPath, testScript)

	std, err := Canonicalize(srcPath)
	require.NoError(t, err)

	idx := &cxtest.Index{TUs: map[string]*cxtest.Cursor{std.Path: annotatedTU("Apple")}}
	parses := 0
	opts := Options{
		BinaryDir:     filepath.Join(tmp, "bin"),
		Script:        scriptPath,
		OutExtension:  ".gen.h",
		GlueExtension: ".gen.cpp",
		Sources:       []string{srcPath},
		NewIndex: func() (cxindex.Index, error) {
			parses++
			return idx, nil
		},
	}
	require.NoError(t, Run(opts))
	require.Equal(t, 1, parses)

	// Make sure mtimes clearly precede a fresh run.
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(srcPath, old, old))
	require.NoError(t, os.Chtimes(scriptPath, old, old))

	require.NoError(t, Run(opts))
	assert.Equal(t, 1, parses, "up-to-date source is not reparsed")
}

func TestRunSkipUnannotated(t *testing.T) {
	tmp := t.TempDir()

	srcPath := filepath.Join(tmp, "plain.cpp")
	writeFile(t, srcPath, "struct Plain { int x; };\n")
	scriptPath := filepath.Join(tmp, "process.lua")
	writeFile(t, scriptPath, testScript)

	opts := Options{
		BinaryDir:       filepath.Join(tmp, "bin"),
		Script:          scriptPath,
		OutExtension:    ".gen.h",
		GlueExtension:   ".gen.cpp",
		SkipUnannotated: true,
		Sources:         []string{srcPath},
		NewIndex: func() (cxindex.Index, error) {
			return nil, errors.New("semantic parse should have been skipped")
		},
	}
	require.NoError(t, Run(opts))

	std, err := Canonicalize(srcPath)
	require.NoError(t, err)
	out, err := os.ReadFile(filepath.Join(tmp, "bin", CleanPath(std.Path), "out.gen.h"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "classes: \n")
}

func TestRunFatalDiagnostic(t *testing.T) {
	tmp := t.TempDir()

	srcPath := filepath.Join(tmp, "broken.cpp")
	writeFile(t, srcPath, "struct LEON Broken {\n")
	scriptPath := filepath.Join(tmp, "process.lua")
	writeFile(t, scriptPath, testScript)

	std, err := Canonicalize(srcPath)
	require.NoError(t, err)

	idx := &cxtest.Index{
		TUs: map[string]*cxtest.Cursor{std.Path: {TU: true}},
		Diags: map[string][]cxindex.Diagnostic{
			std.Path: {{Severity: cxindex.SeverityError, Text: "broken.cpp:1: expected '}'"}},
		},
	}

	opts := Options{
		BinaryDir:     filepath.Join(tmp, "bin"),
		Script:        scriptPath,
		OutExtension:  ".gen.h",
		GlueExtension: ".gen.cpp",
		Sources:       []string{srcPath},
		NewIndex:      func() (cxindex.Index, error) { return idx, nil },
	}
	err = Run(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fatal error")
}

func TestRunNoSources(t *testing.T) {
	tmp := t.TempDir()
	scriptPath := filepath.Join(tmp, "process.lua")
	writeFile(t, scriptPath, testScript)

	err := Run(Options{
		BinaryDir: filepath.Join(tmp, "bin"),
		Script:    scriptPath,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no sources")
}
