package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/graftlang/graft"
	"golang.org/x/term"
)

var version = "dev" // set via -ldflags at build time

var (
	evalSource  = flag.String("e", "", "Evaluate source from the command line instead of a file")
	debugMode   = flag.Bool("debug", false, "Enable interpreter debug logging")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Graft - a speculative branch/merge scripting language\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options] script.graft\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s program.graft\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -e 'let x = 1; print x;'\n", os.Args[0])
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("graft %s\n", version)
		return
	}

	config := graft.DefaultConfig()
	config.Debug = *debugMode
	// Suppress input prompts when stdin is piped so redirected runs
	// produce clean output
	config.ShowPrompts = term.IsTerminal(int(os.Stdin.Fd()))

	interp := graft.New(config)

	var run func() error
	switch {
	case *evalSource != "":
		run = func() error { return interp.RunSource(*evalSource) }
	case flag.NArg() == 1:
		path := flag.Arg(0)
		run = func() error { return interp.RunFile(path) }
	default:
		flag.Usage()
		os.Exit(1)
	}

	fmt.Println("Before execution:", interp.World())
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "graft:", err)
		os.Exit(1)
	}
	fmt.Println("After execution:", interp.World())
}
