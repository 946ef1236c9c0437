package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	paijorot "go.paijorot.dev/pkg"
)

// Exit statuses, sysexits-style, one per fault class.
const (
	exitUsage   = 64
	exitLex     = 65
	exitNoInput = 66
	exitParse   = 67
	exitRuntime = 70
)

type CLI struct {
	Script string `arg:"" optional:"" help:"Script file to execute. Omit to start an interactive session." type:"path"`
}

func main() {
	var cli CLI

	kong.Parse(&cli,
		kong.Name("paijorot"),
		kong.Description("Interpreter for the paijorot scripting language."),
		kong.UsageOnError(),
		kong.Exit(func(code int) {
			if code != 0 {
				code = exitUsage
			}
			os.Exit(code)
		}),
	)

	if cli.Script == "" {
		runPrompt()
		return
	}

	runFile(cli.Script)
}

func runFile(path string) {
	runner := paijorot.NewRunner(os.Stdout, os.Stdin)

	err := runner.RunFile(path)
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(exitCode(err))
}

// runPrompt evaluates lines against one persistent environment until "exit"
// or end of input. Faults are printed and the session continues.
func runPrompt() {
	stdin := bufio.NewReader(os.Stdin)
	runner := paijorot.NewRunner(os.Stdout, stdin)
	environment := paijorot.NewEnvironment()

	for {
		fmt.Print("> ")

		line, err := stdin.ReadString('\n')
		if err != nil && line == "" {
			fmt.Println()
			return
		}

		if strings.TrimSpace(line) == "exit" {
			return
		}

		if err := runner.RunSource(line, environment); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
}

func exitCode(err error) int {
	var (
		lexErr     *paijorot.LexError
		parseErr   *paijorot.ParseError
		runtimeErr *paijorot.RuntimeError
	)

	switch {
	case errors.As(err, &lexErr):
		return exitLex
	case errors.As(err, &parseErr):
		return exitParse
	case errors.As(err, &runtimeErr):
		return exitRuntime
	default:
		// The script could not be read at all
		return exitNoInput
	}
}
