package graft

import (
	"fmt"
	"io"
	"os"
)

// Config holds configuration for a Graft interpreter
type Config struct {
	// Debug enables the diagnostic channel on the logger
	Debug bool
	// ShowPrompts controls whether input prompts are echoed; CLIs
	// typically disable this when stdin is not a terminal
	ShowPrompts bool
	// Input supplies lines for the input statement (default stdin)
	Input io.Reader
	// Output receives print output and prompts (default stdout)
	Output io.Writer
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Debug:       false,
		ShowPrompts: true,
		Input:       os.Stdin,
		Output:      os.Stdout,
	}
}

// Interpreter is the main Graft interpreter. Each instance owns its
// World, so independent interpreters never share state.
type Interpreter struct {
	config   *Config
	logger   *Logger
	world    *World
	executor *Executor
}

// New creates a new Graft interpreter
func New(config *Config) *Interpreter {
	if config == nil {
		config = DefaultConfig()
	}

	logger := NewLogger(config.Debug)
	world := NewWorld()
	executor := NewExecutor(world, logger)
	if config.Input != nil {
		executor.SetInput(config.Input)
	}
	if config.Output != nil {
		executor.SetOutput(config.Output)
	}
	executor.SetShowPrompts(config.ShowPrompts)

	return &Interpreter{
		config:   config,
		logger:   logger,
		world:    world,
		executor: executor,
	}
}

// World returns the interpreter's namespace
func (g *Interpreter) World() *World {
	return g.world
}

// SetInput redirects the input statement's line source
func (g *Interpreter) SetInput(r io.Reader) {
	g.executor.SetInput(r)
}

// SetOutput redirects print output and prompts
func (g *Interpreter) SetOutput(w io.Writer) {
	g.executor.SetOutput(w)
}

// Run executes a parsed program against the interpreter's World
func (g *Interpreter) Run(program []Stmt) error {
	return g.executor.Run(program)
}

// RunSource lexes, parses, and executes source text
func (g *Interpreter) RunSource(source string) error {
	program, err := ParseSource(source)
	if err != nil {
		return err
	}
	return g.Run(program)
}

// RunFile executes the script at path
func (g *Interpreter) RunFile(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := g.RunSource(string(source)); err != nil {
		return fmt.Errorf("%s:%w", path, err)
	}
	return nil
}
