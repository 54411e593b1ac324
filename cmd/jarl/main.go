package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	jarlang "github.com/lenarduzziadam/jarLang"
)

const (
	appName     = "jarl"
	historyFile = ".jarlang_history"
	promptMain  = "duel -> "
)

var (
	errColor    = color.New(color.FgRed)
	resultColor = color.New(color.FgHiBlue)
	chantColor  = color.New(color.FgGreen)

	banner = fmt.Sprintf("Jarlang %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type q! to exit, !help for commands.", jarlang.Version)

	helpText = `
REPL commands:
  !help            Show this help
  !tokens          Toggle token/parse-tree display for each line
  !tokens <code>   Show the token listing and parse tree for one line
  !vars            List the variables bound in this session
  !test            Run a small built-in smoke script
  q!               Exit the REPL
`
)

func main() {
	if len(os.Args) < 2 {
		os.Exit(cmdRepl(nil))
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "tokens":
		os.Exit(cmdTokens(os.Args[2:]))
	case "version":
		fmt.Println(jarlang.Version)
		return
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`Jarlang %s

Usage:
  %s run <file.vase>      Run a script (.vase or .pot).
  %s repl                 Start the REPL (default with no arguments).
  %s tokens <file.vase>   Print the token listing for a file.
  %s version              Print the version

`, jarlang.Version, appName, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file.vase>\n", appName)
		return 2
	}

	file := args[0]
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	ip := jarlang.NewInterpreter()
	if _, err := ip.RunFile(file); err != nil {
		errColor.Fprintln(os.Stderr, jarlang.WrapErrorWithSource(err, string(src)))
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// tokens
// -----------------------------------------------------------------------------

func cmdTokens(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s tokens <file.vase>\n", appName)
		return 2
	}

	file := args[0]
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	tokens, err := jarlang.Tokenize(file, string(src))
	if err != nil {
		errColor.Fprintln(os.Stderr, jarlang.WrapErrorWithSource(err, string(src)))
		return 1
	}
	fmt.Println(jarlang.FormatTokens(tokens))
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(_ []string) int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := jarlang.NewInterpreter()
	session := jarlang.NewContext("<repl>", ip.Globals)
	showTokens := false

	for {
		line, err := ln.Prompt(promptMain)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			errColor.Fprintln(os.Stderr, err)
			return 1
		}

		code := strings.TrimSpace(line)
		if code == "" {
			continue
		}
		ln.AppendHistory(line)

		if code == "q!" {
			return 0
		}
		if strings.HasPrefix(code, "!") {
			runMeta(ip, session, code, &showTokens)
			continue
		}

		if showTokens {
			dumpTokens(code)
		}
		v, err := ip.EvalSource("<repl>", code, session)
		if err != nil {
			errColor.Fprintln(os.Stderr, jarlang.WrapErrorWithSource(err, code))
			continue
		}
		resultColor.Println(v.String())
	}
}

// dumpTokens prints the token listing and parse tree for one line of input.
func dumpTokens(code string) {
	tokens, err := jarlang.Tokenize("<repl>", code)
	if err != nil {
		errColor.Fprintln(os.Stderr, jarlang.WrapErrorWithSource(err, code))
		return
	}
	fmt.Println(jarlang.FormatTokens(tokens))
	ast, err := jarlang.Parse(tokens)
	if err != nil {
		errColor.Fprintln(os.Stderr, jarlang.WrapErrorWithSource(err, code))
		return
	}
	fmt.Println(jarlang.FormatAST(ast))
}

func runMeta(ip *jarlang.Interpreter, session *jarlang.Context, code string, showTokens *bool) {
	name, rest := code, ""
	if i := strings.IndexByte(code, ' '); i >= 0 {
		name, rest = code[:i], strings.TrimSpace(code[i+1:])
	}

	switch name {
	case "!help":
		fmt.Print(helpText)

	case "!tokens":
		if rest == "" {
			*showTokens = !*showTokens
			if *showTokens {
				fmt.Println("token display on")
			} else {
				fmt.Println("token display off")
			}
			return
		}
		dumpTokens(rest)

	case "!vars":
		vars := session.Snapshot()
		names := make([]string, 0, len(vars))
		for n := range vars {
			names = append(names, n)
		}
		sort.Strings(names)
		if len(names) == 0 {
			fmt.Println("no variables bound")
			return
		}
		for _, n := range names {
			fmt.Printf("%s = %s\n", n, vars[n])
		}

	case "!test":
		const smoke = `
wield count 0
lest count < 3 {
	chant count
	count = count + 1
}
chant "ok: " + (2 + 4 * 3 / 2 - 6 ^ 2 + 50)
`
		if _, err := ip.EvalSource("<repl-test>", smoke, session); err != nil {
			errColor.Fprintln(os.Stderr, jarlang.WrapErrorWithSource(err, smoke))
			return
		}
		chantColor.Println("smoke script ran clean")

	default:
		fmt.Printf("unknown command %q. Type !help for commands.\n", name)
	}
}
