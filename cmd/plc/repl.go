package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"plc/interpreter-go/pkg/diag"
	"plc/interpreter-go/pkg/interpreter"
	"plc/interpreter-go/pkg/parser"
	"plc/interpreter-go/pkg/runtime"
)

const (
	promptMain  = "plc> "
	promptCont  = "...> "
	historyFile = "history"
)

// replSession evaluates REPL input against one persistent interpreter.
type replSession struct {
	interp *interpreter.Interpreter
	out    io.Writer
	errOut io.Writer
	color  bool
}

func newReplSession(out, errOut io.Writer, color bool) *replSession {
	return &replSession{
		interp: interpreter.New(interpreter.WithOutput(out)),
		out:    out,
		errOut: errOut,
		color:  color,
	}
}

// incomplete reports whether code stops mid-construct and more lines
// should be read before evaluating it.
func incomplete(code string) bool {
	if _, err := parser.ParseExpression([]byte(code)); err == nil {
		return false
	}
	var err error
	if isDefinition(code) {
		_, err = parser.Parse([]byte(code))
	} else {
		_, err = parser.ParseStatements([]byte(code))
	}
	return parser.IsIncomplete(err)
}

func isDefinition(code string) bool {
	trimmed := strings.TrimSpace(code)
	return strings.HasPrefix(trimmed, "DEF ") || strings.HasPrefix(trimmed, "DEF\t") || strings.HasPrefix(trimmed, "DEF\n")
}

// eval runs one complete input: a bare expression is evaluated and echoed,
// DEF blocks are loaded, and anything else runs as statements.
func (s *replSession) eval(code string) {
	if strings.TrimSpace(code) == "" {
		return
	}
	if expr, err := parser.ParseExpression([]byte(code)); err == nil {
		result, err := s.interp.Evaluate(expr)
		if err == nil && isNil(result) {
			return
		}
		s.report(result, err)
		return
	}
	if isDefinition(code) {
		src, err := parser.Parse([]byte(code))
		if err != nil {
			s.report(nil, err)
			return
		}
		if err := s.interp.Load(src); err != nil {
			s.report(nil, err)
			return
		}
		for _, method := range src.Methods {
			fmt.Fprintf(s.out, "defined %s/%d\n", method.Name, len(method.Parameters))
		}
		return
	}
	stmts, err := parser.ParseStatements([]byte(code))
	if err != nil {
		s.report(nil, err)
		return
	}
	result, err := s.interp.ExecuteStatements(stmts)
	if err != nil {
		s.report(nil, err)
		return
	}
	if !isNil(result) {
		s.report(result, nil)
	}
}

func isNil(obj *runtime.Object) bool {
	_, ok := obj.Value.(runtime.NilValue)
	return ok
}

func (s *replSession) report(result *runtime.Object, err error) {
	if err != nil {
		msg := diag.Format(err)
		if s.color {
			msg = "\x1b[31m" + msg + "\x1b[0m"
		}
		fmt.Fprintln(s.errOut, msg)
		return
	}
	if result != nil {
		fmt.Fprintln(s.out, interpreter.Stringify(result))
	}
}

// command handles :-prefixed input, reporting whether the REPL should exit.
func (s *replSession) command(line string) (exit bool) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case ":quit", ":q", ":exit":
		return true
	case ":help":
		fmt.Fprintln(s.out, "Enter expressions, statements, or DEF blocks.")
		fmt.Fprintln(s.out, ":defs lists definitions, :types lists types, :quit exits.")
	case ":defs":
		global := s.interp.GlobalScope()
		for _, name := range global.VariableNames() {
			fmt.Fprintf(s.out, "LET %s\n", name)
		}
		for _, key := range global.FunctionKeys() {
			fmt.Fprintf(s.out, "DEF %s\n", key)
		}
	case ":types":
		fmt.Fprintln(s.out, strings.Join(s.interp.Table().Names(), " "))
	default:
		fmt.Fprintln(s.out, "unknown command. Type :help for help.")
	}
	return false
}

func runRepl(args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(stderr, "plc repl does not take arguments (received %s)\n", strings.Join(args, " "))
		return 1
	}
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	color := term.IsTerminal(int(os.Stderr.Fd()))
	session := newReplSession(stdout, stderr, color)
	if !interactive {
		return replLoop(session, bufio.NewScanner(os.Stdin))
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := resolvePlcHome(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if err := os.MkdirAll(filepath.Dir(histPath), 0o755); err != nil {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Fprintln(stdout, cliToolVersion+" (type :quit to exit)")
	for {
		code, ok := readByParseProbe(ln)
		if !ok {
			fmt.Fprintln(stdout)
			return 0
		}
		if strings.HasPrefix(strings.TrimSpace(code), ":") {
			if session.command(code) {
				return 0
			}
			continue
		}
		session.eval(code)
		if strings.TrimSpace(code) != "" {
			ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		}
	}
}

// readByParseProbe keeps prompting while the buffered input is incomplete.
func readByParseProbe(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if code := b.String(); !incomplete(code) {
			return code, true
		}
	}
}

// replLoop drives a session from non-interactive input, such as a pipe.
func replLoop(session *replSession, scanner *bufio.Scanner) int {
	var b strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if b.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
			if session.command(line) {
				return 0
			}
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if code := b.String(); !incomplete(code) {
			session.eval(code)
			b.Reset()
		}
	}
	if b.Len() > 0 {
		session.eval(b.String())
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(stderr, "read input: %v\n", err)
		return 1
	}
	return 0
}

func resolvePlcHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv("PLC_HOME")); home != "" {
		abs, err := filepath.Abs(home)
		if err != nil {
			return "", fmt.Errorf("resolve PLC_HOME %q: %w", home, err)
		}
		return abs, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return filepath.Join(userHome, ".plc"), nil
}
