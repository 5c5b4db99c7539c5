package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"leon/internal/config"
	"leon/internal/driver"
)

var (
	flagIncludes      []string
	flagDefines       []string
	flagOutExtension  string
	flagGlueExtension string
	flagConfig        string

	runStarted bool
)

var rootCmd = &cobra.Command{
	Use:   "leon <binary_dir> <process.lua> [flags] <sources...>",
	Short: "Reflect annotated C++ declarations and feed them to a Lua process",
	Long: `leon parses each C++ source with libclang, collects every declaration
marked with the LEON annotation macros, and hands the resulting type, enum,
class and function tables to the process script. The script returns one
output artifact per source, plus a single aggregated glue artifact.`,
	Args:          cobra.MinimumNArgs(3),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		runStarted = true
		banner()

		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}

		opts := driver.Options{
			BinaryDir:       args[0],
			Script:          args[1],
			Includes:        cfg.Includes,
			Defines:         cfg.Defines,
			OutExtension:    cfg.OutExtension,
			GlueExtension:   cfg.GlueExtension,
			SystemIncludes:  cfg.SystemIncludes,
			SkipUnannotated: cfg.SkipUnannotated,
		}

		for _, v := range flagIncludes {
			opts.Includes = append(opts.Includes, driver.SplitList(v)...)
		}
		for _, v := range flagDefines {
			opts.Defines = append(opts.Defines, driver.SplitList(v)...)
		}
		if flagOutExtension != "" {
			opts.OutExtension = flagOutExtension
		}
		if flagGlueExtension != "" {
			opts.GlueExtension = flagGlueExtension
		}

		for _, v := range args[2:] {
			opts.Sources = append(opts.Sources, driver.SplitList(v)...)
		}

		return driver.Run(opts)
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringArrayVar(&flagIncludes, "include", nil, "include directories, semicolon-separated (repeatable)")
	flags.StringArrayVar(&flagDefines, "define", nil, "preprocessor defines, semicolon-separated (repeatable)")
	flags.StringVar(&flagOutExtension, "out-extension", "", "extension for per-source output artifacts")
	flags.StringVar(&flagGlueExtension, "glue-extension", "", "extension for the glue artifact")
	flags.StringVar(&flagConfig, "config", config.DefaultPath, "path to the YAML config file")
}

func banner() {
	const line = "========================================"
	fmt.Println(line)
	fmt.Printf("leon (%s)\n", driver.Version)
	fmt.Println(line)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr)
		color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, "leon generator failed!")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		// Usage errors exit -1, runtime failures exit 1.
		if !runStarted {
			os.Exit(-1)
		}
		os.Exit(1)
	}
}
