package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"plc/interpreter-go/pkg/diag"
	"plc/interpreter-go/pkg/driver"
	"plc/interpreter-go/pkg/generator"
	"plc/interpreter-go/pkg/interpreter"
	"plc/interpreter-go/pkg/runtime"
	"plc/interpreter-go/pkg/types"
)

const cliToolVersion = "plc 0.1.0-dev"

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(stdout, cliToolVersion)
		return 0
	case "run":
		return runEntry(args[1:])
	case "check":
		return runCheck(args[1:])
	case "gen":
		return runGen(args[1:])
	case "ast":
		return runAST(args[1:])
	case "repl":
		return runRepl(args[1:])
	default:
		if strings.HasPrefix(args[0], "-") {
			fmt.Fprintf(stderr, "unknown flag %s\n", args[0])
			printUsage()
			return 1
		}
		return runEntry(args)
	}
}

// target is the program a command operates on plus the manifest it belongs
// to, if any.
type target struct {
	program  *driver.Program
	manifest *driver.Manifest
}

// resolveTarget loads the file named in args, or the nearest manifest's entry
// when args is empty. A named file keeps the manifest only when it is the
// manifest's entry.
func resolveTarget(command string, args []string) (*target, bool) {
	if len(args) > 1 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return nil, false
	}

	start := "."
	if len(args) == 1 {
		start = filepath.Dir(args[0])
	}
	manifest, err := loadManifestFrom(start)
	if err != nil && !errors.Is(err, driver.ErrManifestNotFound) {
		fmt.Fprintf(stderr, "failed to load manifest: %v\n", err)
		return nil, false
	}

	var program *driver.Program
	switch {
	case len(args) == 1:
		program, err = driver.LoadFile(args[0])
		if err == nil && !manifest.Owns(program.Path) {
			manifest = nil
		}
	case manifest != nil:
		program, err = driver.LoadEntry(manifest)
	default:
		fmt.Fprintf(stderr, "plc %s requires a source file (%s not found)\n", command, driver.ManifestName)
		return nil, false
	}
	if err != nil {
		reportError(err)
		return nil, false
	}
	return &target{program: program, manifest: manifest}, true
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	path, err := driver.FindManifest(start)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(path)
}

func runEntry(args []string) int {
	tgt, ok := resolveTarget("run", args)
	if !ok {
		return 1
	}
	table := types.NewStandard()
	if tgt.manifest == nil || tgt.manifest.Analyze {
		if _, err := tgt.program.AnalyzeWith(table); err != nil {
			reportError(err)
			return 1
		}
	}
	interp := interpreter.New(interpreter.WithTable(table), interpreter.WithOutput(stdout))
	result, err := interp.Interpret(tgt.program.AST)
	if err != nil {
		reportError(err)
		return 1
	}
	return exitCode(result)
}

// exitCode maps main's result onto a process exit status. Results that are
// not small non-negative integers exit 0.
func exitCode(result *runtime.Object) int {
	v, ok := result.Value.(runtime.IntegerValue)
	if !ok || !v.Val.IsInt64() {
		return 0
	}
	if n := v.Val.Int64(); n >= 0 && n <= 255 {
		return int(n)
	}
	return 0
}

func runCheck(args []string) int {
	tgt, ok := resolveTarget("check", args)
	if !ok {
		return 1
	}
	checked, err := tgt.program.Analyze()
	if err != nil {
		reportError(err)
		return 1
	}
	fmt.Fprintf(stdout, "ok: %s (%d fields, %d methods)\n", tgt.program.Path, len(checked.Fields), len(checked.Methods))
	return 0
}

func runGen(args []string) int {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	output := fs.String("o", "", "output path (- for stdout)")
	stamp := fs.Bool("stamp", false, "add a source revision header")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	tgt, ok := resolveTarget("gen", fs.Args())
	if !ok {
		return 1
	}
	checked, err := tgt.program.Analyze()
	if err != nil {
		reportError(err)
		return 1
	}

	opts := generator.Options{}
	if *stamp || (tgt.manifest != nil && tgt.manifest.Stamp) {
		prov, err := driver.DetectProvenance(filepath.Dir(tgt.program.Path))
		if err != nil {
			fmt.Fprintf(stderr, "warning: %v\n", err)
		}
		opts.Header = append(prov.HeaderLines(filepath.Base(tgt.program.Path)), tgt.manifest.HeaderLines()...)
	}
	java, err := generator.Generate(checked, opts)
	if err != nil {
		reportError(err)
		return 1
	}

	dest := *output
	if dest == "" {
		if tgt.manifest != nil {
			dest = tgt.manifest.Output
		} else {
			dest = filepath.Join(filepath.Dir(tgt.program.Path), "Main.java")
		}
	}
	if dest == "-" {
		_, _ = stdout.Write(java)
		return 0
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		fmt.Fprintf(stderr, "failed to create %s: %v\n", filepath.Dir(dest), err)
		return 1
	}
	if err := os.WriteFile(dest, java, 0o644); err != nil {
		fmt.Fprintf(stderr, "failed to write %s: %v\n", dest, err)
		return 1
	}
	fmt.Fprintf(stdout, "wrote %s\n", dest)
	return 0
}

func runAST(args []string) int {
	tgt, ok := resolveTarget("ast", args)
	if !ok {
		return 1
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tgt.program.AST); err != nil {
		fmt.Fprintf(stderr, "failed to encode ast: %v\n", err)
		return 1
	}
	return 0
}

func reportError(err error) {
	fmt.Fprintln(stderr, diag.Format(err))
}

func printUsage() {
	fmt.Fprintln(stderr, "Usage:")
	fmt.Fprintln(stderr, "  plc run [file.plc]")
	fmt.Fprintln(stderr, "  plc <file.plc>")
	fmt.Fprintln(stderr, "  plc check [file.plc]")
	fmt.Fprintln(stderr, "  plc gen [-o out.java] [-stamp] [file.plc]")
	fmt.Fprintln(stderr, "  plc ast [file.plc]")
	fmt.Fprintln(stderr, "  plc repl")
	fmt.Fprintln(stderr, "  plc version")
}
