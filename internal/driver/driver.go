// Package driver runs the generator end to end: canonicalize inputs, decide
// what is stale, parse each source into the registries, hand the model to
// the script and write the artifacts.
package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"leon/internal/bridge"
	"leon/internal/cxindex"
	"leon/internal/registry"
	"leon/internal/scan"
	"leon/internal/script"
)

// Version of the generator, printed in the startup banner.
const Version = "0.2.0"

// Options configures one run.
type Options struct {
	BinaryDir     string
	Script        string
	Includes      []string
	Defines       []string
	OutExtension  string
	GlueExtension string

	SystemIncludes  []string
	SkipUnannotated bool

	Sources []string

	// NewIndex overrides the indexing backend; nil selects libclang.
	NewIndex func() (cxindex.Index, error)
}

type sourceArg struct {
	std     StdPath
	outName string
	rebuild bool
}

var (
	genLabel  = color.New(color.FgGreen)
	skipLabel = color.New(color.FgHiBlack)
)

// Run processes every source and then the glue. Any failure aborts the
// whole run; partial artifacts from earlier sources are left in place, the
// staleness check picks them up next time.
func Run(opts Options) error {
	newIndex := opts.NewIndex
	if newIndex == nil {
		newIndex = cxindex.NewClangIndex
	}

	scriptStd, err := Canonicalize(opts.Script)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.BinaryDir, 0o755); err != nil {
		return err
	}

	args := compilerArgs(opts)

	glueName := filepath.Join(opts.BinaryDir, "glue"+opts.GlueExtension)
	rebuildGlue := stale(glueName, scriptStd.Path)

	var sources []sourceArg
	for _, src := range opts.Sources {
		std, err := Canonicalize(src)
		if err != nil {
			return err
		}

		dir := filepath.Join(opts.BinaryDir, CleanPath(std.Path))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}

		outName := filepath.Join(dir, "out"+opts.OutExtension)
		sources = append(sources, sourceArg{
			std:     std,
			outName: outName,
			rebuild: stale(outName, std.Path, scriptStd.Path),
		})
	}

	if len(sources) == 0 {
		return errors.New("given no sources")
	}

	rt, err := script.Load(scriptStd.Path)
	if err != nil {
		return err
	}
	defer rt.Close()

	for _, src := range sources {
		short := filepath.Base(src.std.Path)

		if !src.rebuild {
			skipLabel.Printf("[ `%s` up to date ]\n", short)
			continue
		}
		genLabel.Printf("[ Generating `%s` ]\n", short)

		reg := registry.New()
		if err := parseSource(newIndex, reg, src.std.Path, args, opts.SkipUnannotated); err != nil {
			return err
		}

		types, enums, classes, functions := bridge.Tables(rt.L, reg)
		out, err := rt.SourceProcess(src.std.UTF8, types, enums, classes, functions)
		if err != nil {
			return err
		}

		if err := os.WriteFile(src.outName, []byte(out), 0o644); err != nil {
			return fmt.Errorf("failed to open output %s: %w", src.outName, err)
		}
	}

	if !rebuildGlue {
		skipLabel.Printf("[ `glue` up to date ]\n")
		return nil
	}
	genLabel.Printf("[ Generating `glue` ]\n")

	pairs := make([]script.SourcePair, 0, len(sources))
	for _, src := range sources {
		outStd, err := Canonicalize(src.outName)
		if err != nil {
			return err
		}
		pairs = append(pairs, script.SourcePair{Source: src.std.UTF8, Out: outStd.UTF8})
	}

	out, err := rt.GlueProcess(pairs)
	if err != nil {
		return err
	}
	if err := os.WriteFile(glueName, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to open output %s: %w", glueName, err)
	}

	return nil
}

// parseSource fills the registries from one translation unit. With the
// pre-scan enabled, a source mentioning no annotation macro skips the
// semantic parse and leaves the registries empty.
func parseSource(newIndex func() (cxindex.Index, error), reg *registry.Registry, path string, args []string, skipUnannotated bool) error {
	if skipUnannotated {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		annotated, err := scan.HasAnnotations(data)
		if err != nil {
			return err
		}
		if !annotated {
			return nil
		}
	}

	idx, err := newIndex()
	if err != nil {
		return err
	}
	defer idx.Dispose()

	tu, err := idx.Parse(path, args)
	if err != nil {
		return err
	}
	defer tu.Dispose()

	fatal := false
	for _, d := range tu.Diagnostics() {
		fmt.Fprintln(os.Stderr, d.Text)
		if d.Severity >= cxindex.SeverityError {
			fatal = true
		}
	}
	if fatal {
		return errors.New("source parsing ran into a fatal error, see diagnostics above")
	}

	return reg.Visit(tu.Cursor())
}

// compilerArgs assembles the fixed invocation plus configured includes and
// defines.
func compilerArgs(opts Options) []string {
	args := []string{
		"-x", "c++",
		"-std=c++20",
		"-D_LEON_PROC",
		"-fhosted",
		"-fcxx-exceptions",
		"-fexceptions",
	}
	for _, dir := range opts.SystemIncludes {
		args = append(args, "-isystem", dir)
	}
	for _, dir := range opts.Includes {
		args = append(args, "-I"+dir)
	}
	for _, def := range opts.Defines {
		args = append(args, "-D"+def)
	}
	return args
}

// stale reports whether out is missing or older than any of its inputs.
func stale(out string, inputs ...string) bool {
	info, err := os.Stat(out)
	if err != nil {
		return true
	}
	for _, input := range inputs {
		if in, err := os.Stat(input); err == nil && in.ModTime().After(info.ModTime()) {
			return true
		}
	}
	return false
}
