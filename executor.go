package graft

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Executor walks statement sequences depth-first, in source order,
// mutating its World directly or through the branch/merge protocol.
// Execution is single-threaded and fully synchronous: "branches" are
// an optimistic-concurrency metaphor, not goroutines, and ordering is
// entirely determined by AST traversal order.
type Executor struct {
	world  *World
	logger *Logger
	arena  branchArena

	// open maps a variable name to the most recently opened unmerged
	// branch watching it (last-write-wins registration)
	open map[string]int

	// frames tracks the branch bodies currently executing, innermost
	// last; frames[0] is the root frame for top-level statements
	frames []*branchFrame

	input       *bufio.Reader
	output      io.Writer
	showPrompts bool
}

// branchFrame collects the branches registered while one branch body
// (or the top level) executes, in opening order
type branchFrame struct {
	variable string
	id       int
	opened   []int
}

// NewExecutor creates an executor bound to world, reading input from
// stdin and writing output to stdout until overridden
func NewExecutor(world *World, logger *Logger) *Executor {
	return &Executor{
		world:       world,
		logger:      logger,
		open:        make(map[string]int),
		input:       bufio.NewReader(os.Stdin),
		output:      os.Stdout,
		showPrompts: true,
	}
}

// SetInput redirects the input statement's line source
func (ex *Executor) SetInput(r io.Reader) {
	ex.input = bufio.NewReader(r)
}

// SetOutput redirects print and prompt output
func (ex *Executor) SetOutput(w io.Writer) {
	ex.output = w
}

// SetShowPrompts controls whether input prompts are echoed
func (ex *Executor) SetShowPrompts(show bool) {
	ex.showPrompts = show
}

// Run executes a whole program. Branches still registered when the
// program ends are discarded without merging.
func (ex *Executor) Run(program []Stmt) error {
	ex.open = make(map[string]int)
	ex.frames = []*branchFrame{{id: -1}}

	if err := ex.execBlock(program); err != nil {
		return err
	}

	for _, id := range ex.frames[0].opened {
		ex.logger.Debug("run: discarding unmerged branch on %q", ex.arena.node(id).variable)
	}
	ex.frames = nil
	ex.open = make(map[string]int)
	return nil
}

func (ex *Executor) execBlock(stmts []Stmt) error {
	for _, stmt := range stmts {
		if err := ex.execStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (ex *Executor) execStmt(stmt Stmt) error {
	switch st := stmt.(type) {
	case *LetStmt:
		ex.execLet(st)
	case *BranchStmt:
		return ex.execBranch(st)
	case *MergeStmt:
		ex.execMerge(st)
	case *PrintStmt:
		ex.execPrint(st)
	case *InputStmt:
		return ex.execInput(st)
	case *ListPushStmt:
		ex.execListPush(st)
	case *SetInsertStmt:
		ex.execSetInsert(st)
	default:
		return fmt.Errorf("unknown statement type %T", stmt)
	}
	return nil
}

// execLet commits a binding. Inside a branch body, a let targeting
// the branch's own watched variable stages the value as the branch's
// pending delta instead of touching the World; lets targeting any
// other name commit directly to the shared World. Direct commits
// never advance generations.
func (ex *Executor) execLet(st *LetStmt) {
	for i := len(ex.frames) - 1; i > 0; i-- {
		if ex.frames[i].variable == st.Name {
			ex.arena.setDelta(ex.frames[i].id, st.Value)
			ex.logger.Debug("let: staged %s as pending delta for open branch on %q", st.Value, st.Name)
			return
		}
	}
	ex.world.Set(st.Name, st.Value)
}

// execBranch snapshots the watched variable's generation, executes
// the body, adopts every branch registered during the body (and left
// unmerged) as a child, and registers the result under its variable
// name, replacing any previous unmerged branch with that name.
func (ex *Executor) execBranch(st *BranchStmt) error {
	id := ex.arena.open(st.Variable, ex.world.Generation(st.Variable))
	ex.frames = append(ex.frames, &branchFrame{variable: st.Variable, id: id})

	err := ex.execBlock(st.Body)

	frame := ex.frames[len(ex.frames)-1]
	ex.frames = ex.frames[:len(ex.frames)-1]
	if err != nil {
		return err
	}

	ex.arena.node(id).children = frame.opened
	for _, child := range frame.opened {
		name := ex.arena.node(child).variable
		if registered, ok := ex.open[name]; ok && registered == child {
			delete(ex.open, name)
		}
	}

	ex.register(id)
	return nil
}

// register records id as the open branch for its variable. Opening a
// second branch on a name before merging the first silently replaces
// the lookup slot; the replaced branch is dropped entirely.
func (ex *Executor) register(id int) {
	name := ex.arena.node(id).variable
	if old, exists := ex.open[name]; exists {
		ex.removeFromFrames(old)
		ex.logger.Debug("branch: replacing unmerged branch on %q", name)
	}
	ex.open[name] = id

	top := ex.frames[len(ex.frames)-1]
	top.opened = append(top.opened, id)
}

// removeFromFrames drops a branch id from whichever frame collected it
func (ex *Executor) removeFromFrames(id int) {
	for _, frame := range ex.frames {
		for i, opened := range frame.opened {
			if opened == id {
				frame.opened = append(frame.opened[:i], frame.opened[i+1:]...)
				return
			}
		}
	}
}

// execMerge consumes the registered branch for the named variable and
// runs the merge protocol; merging a name with no registered branch
// is a silent no-op
func (ex *Executor) execMerge(st *MergeStmt) {
	id, exists := ex.open[st.Variable]
	if !exists {
		ex.logger.Debug("merge: no open branch on %q; ignoring", st.Variable)
		return
	}
	delete(ex.open, st.Variable)
	ex.removeFromFrames(id)
	ex.arena.merge(id, ex.world, ex.logger)
}

// execPrint writes a variable's current value, or an explicit
// undefined marker, or a literal; purely observational
func (ex *Executor) execPrint(st *PrintStmt) {
	switch target := st.Target.(type) {
	case PrintVariable:
		if value, ok := ex.world.Get(string(target)); ok {
			fmt.Fprintln(ex.output, value)
		} else {
			fmt.Fprintf(ex.output, "(undefined variable %s)\n", string(target))
		}
	case PrintValue:
		fmt.Fprintln(ex.output, target.Value)
	}
}

// execInput reads one line, trims surrounding whitespace, and binds
// it as a Str via direct commit. End of input binds an empty string.
func (ex *Executor) execInput(st *InputStmt) error {
	if st.HasPrompt && ex.showPrompts {
		fmt.Fprint(ex.output, st.Prompt)
	}
	line, err := ex.input.ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("reading input for %q: %w", st.Variable, err)
	}
	ex.world.Set(st.Variable, StrVal(strings.TrimSpace(line)))
	return nil
}

// execListPush appends to a List-bound variable copy-on-write; absent
// or wrong-variant bindings are a silent no-op
func (ex *Executor) execListPush(st *ListPushStmt) {
	current, ok := ex.world.Get(st.Variable)
	if !ok || current.Kind() != KindList {
		ex.logger.Debug("listpush: %q is not bound to a list; ignoring", st.Variable)
		return
	}
	ex.world.Set(st.Variable, current.Append(st.Value))
}

// execSetInsert inserts into a Set-bound variable copy-on-write;
// absent or wrong-variant bindings are a silent no-op
func (ex *Executor) execSetInsert(st *SetInsertStmt) {
	current, ok := ex.world.Get(st.Variable)
	if !ok || current.Kind() != KindSet {
		ex.logger.Debug("setinsert: %q is not bound to a set; ignoring", st.Variable)
		return
	}
	ex.world.Set(st.Variable, current.Insert(st.Value))
}
