package graft

import (
	"bytes"
	"strings"
	"testing"
)

// newTestExecutor returns an executor wired to buffers
func newTestExecutor(stdin string) (*Executor, *World, *bytes.Buffer) {
	world := NewWorld()
	ex := NewExecutor(world, NewLogger(false))
	out := &bytes.Buffer{}
	ex.SetOutput(out)
	ex.SetInput(strings.NewReader(stdin))
	return ex, world, out
}

func mustRun(t *testing.T, ex *Executor, program []Stmt) {
	t.Helper()
	if err := ex.Run(program); err != nil {
		t.Fatalf("run failed: %v", err)
	}
}

func TestLetCommitsDirectly(t *testing.T) {
	ex, world, _ := newTestExecutor("")

	mustRun(t, ex, []Stmt{
		&LetStmt{Name: "x", Value: IntVal(1)},
		&LetStmt{Name: "x", Value: IntVal(2)},
	})

	if v, _ := world.Get("x"); !v.Equal(IntVal(2)) {
		t.Errorf("x = %s, want 2", v)
	}
	if g := world.Generation("x"); g != 0 {
		t.Errorf("direct lets advanced the generation to %d", g)
	}
}

func TestBranchStagesOwnVariableUntilMerge(t *testing.T) {
	ex, world, out := newTestExecutor("")

	mustRun(t, ex, []Stmt{
		&LetStmt{Name: "x", Value: IntVal(1)},
		&BranchStmt{Variable: "x", Body: []Stmt{
			&LetStmt{Name: "x", Value: IntVal(2)},
		}},
		&PrintStmt{Target: PrintVariable("x")},
		&MergeStmt{Variable: "x"},
		&PrintStmt{Target: PrintVariable("x")},
	})

	if got, want := out.String(), "1\n2\n"; got != want {
		t.Errorf("output %q, want %q (1 before merge, 2 after)", got, want)
	}
	if g := world.Generation("x"); g != 1 {
		t.Errorf("generation of x = %d, want 1", g)
	}
}

func TestLetOfOtherNameInsideBranchCommitsDirectly(t *testing.T) {
	ex, world, _ := newTestExecutor("")

	mustRun(t, ex, []Stmt{
		&BranchStmt{Variable: "x", Body: []Stmt{
			&LetStmt{Name: "y", Value: IntVal(10)},
		}},
	})

	// y committed to the shared world even though the branch on x was
	// never merged
	if v, ok := world.Get("y"); !ok || !v.Equal(IntVal(10)) {
		t.Errorf("y = %v (bound %v), want 10", v, ok)
	}
	if _, ok := world.Get("x"); ok {
		t.Error("unmerged branch leaked a binding for x")
	}
}

func TestNestedBranchComposition(t *testing.T) {
	ex, world, _ := newTestExecutor("")

	mustRun(t, ex, []Stmt{
		&LetStmt{Name: "x", Value: IntVal(1)},
		&LetStmt{Name: "y", Value: IntVal(1)},
		&BranchStmt{Variable: "x", Body: []Stmt{
			&LetStmt{Name: "x", Value: IntVal(2)},
			&BranchStmt{Variable: "y", Body: []Stmt{
				&LetStmt{Name: "y", Value: IntVal(20)},
			}},
		}},
		&MergeStmt{Variable: "x"},
	})

	if v, _ := world.Get("x"); !v.Equal(IntVal(2)) {
		t.Errorf("x = %s, want 2", v)
	}
	if v, _ := world.Get("y"); !v.Equal(IntVal(20)) {
		t.Errorf("nested branch delta not applied, y = %s", v)
	}
	if g := world.Generation("y"); g != 1 {
		t.Errorf("generation of y = %d, want 1", g)
	}
}

func TestUnmergedBranchDiscarded(t *testing.T) {
	ex, world, _ := newTestExecutor("")

	mustRun(t, ex, []Stmt{
		&LetStmt{Name: "x", Value: IntVal(1)},
		&BranchStmt{Variable: "x", Body: []Stmt{
			&LetStmt{Name: "x", Value: IntVal(2)},
		}},
	})

	if v, _ := world.Get("x"); !v.Equal(IntVal(1)) {
		t.Errorf("discarded branch applied its delta, x = %s", v)
	}
	if g := world.Generation("x"); g != 0 {
		t.Errorf("discarded branch advanced the generation to %d", g)
	}
}

func TestMergeWithoutBranchIsNoOp(t *testing.T) {
	ex, world, _ := newTestExecutor("")

	mustRun(t, ex, []Stmt{
		&LetStmt{Name: "x", Value: IntVal(1)},
		&MergeStmt{Variable: "x"},
	})

	if v, _ := world.Get("x"); !v.Equal(IntVal(1)) {
		t.Errorf("x = %s, want 1", v)
	}
	if g := world.Generation("x"); g != 0 {
		t.Errorf("merge of unregistered name advanced the generation to %d", g)
	}
}

func TestBranchRegistrationLastWriteWins(t *testing.T) {
	ex, world, _ := newTestExecutor("")

	mustRun(t, ex, []Stmt{
		&LetStmt{Name: "x", Value: IntVal(1)},
		&BranchStmt{Variable: "x", Body: []Stmt{
			&LetStmt{Name: "x", Value: IntVal(2)},
		}},
		&BranchStmt{Variable: "x", Body: []Stmt{
			&LetStmt{Name: "x", Value: IntVal(3)},
		}},
		&MergeStmt{Variable: "x"},
		// the replaced branch is gone; this second merge is a no-op
		&MergeStmt{Variable: "x"},
	})

	if v, _ := world.Get("x"); !v.Equal(IntVal(3)) {
		t.Errorf("x = %s, want 3 (most recently opened branch)", v)
	}
	if g := world.Generation("x"); g != 1 {
		t.Errorf("generation of x = %d, want 1", g)
	}
}

func TestNestedBranchGoesStaleAfterConflictingCommit(t *testing.T) {
	ex, world, _ := newTestExecutor("")

	mustRun(t, ex, []Stmt{
		&LetStmt{Name: "x", Value: IntVal(1)},
		&BranchStmt{Variable: "outer", Body: []Stmt{
			&BranchStmt{Variable: "x", Body: []Stmt{
				&LetStmt{Name: "x", Value: IntVal(9)},
			}},
		}},
		// commit against x before outer merges its nested branch
		&BranchStmt{Variable: "x", Body: []Stmt{
			&LetStmt{Name: "x", Value: IntVal(2)},
		}},
		&MergeStmt{Variable: "x"},
		&MergeStmt{Variable: "outer"},
	})

	if v, _ := world.Get("x"); !v.Equal(IntVal(2)) {
		t.Errorf("stale nested branch overrode x, got %s", v)
	}
	if g := world.Generation("x"); g != 1 {
		t.Errorf("generation of x = %d, want 1 (stale merge must not advance)", g)
	}
	if g := world.Generation("outer"); g != 1 {
		t.Errorf("generation of outer = %d, want 1", g)
	}
}

func TestMergeOfOuterBranchInsideBody(t *testing.T) {
	ex, world, _ := newTestExecutor("")

	mustRun(t, ex, []Stmt{
		&LetStmt{Name: "x", Value: IntVal(1)},
		&BranchStmt{Variable: "x", Body: []Stmt{
			&LetStmt{Name: "x", Value: IntVal(2)},
		}},
		&BranchStmt{Variable: "y", Body: []Stmt{
			&MergeStmt{Variable: "x"},
		}},
		&MergeStmt{Variable: "y"},
	})

	if v, _ := world.Get("x"); !v.Equal(IntVal(2)) {
		t.Errorf("merge from inside another body did not apply, x = %s", v)
	}
	if g := world.Generation("y"); g != 1 {
		t.Errorf("generation of y = %d, want 1", g)
	}
}

func TestPrintUndefinedVariable(t *testing.T) {
	ex, _, out := newTestExecutor("")

	mustRun(t, ex, []Stmt{
		&PrintStmt{Target: PrintVariable("ghost")},
	})

	if got, want := out.String(), "(undefined variable ghost)\n"; got != want {
		t.Errorf("output %q, want %q", got, want)
	}
}

func TestPrintLiteral(t *testing.T) {
	ex, _, out := newTestExecutor("")

	mustRun(t, ex, []Stmt{
		&PrintStmt{Target: PrintValue{Value: StrVal("hello")}},
		&PrintStmt{Target: PrintValue{Value: IntVal(7)}},
	})

	if got, want := out.String(), "\"hello\"\n7\n"; got != want {
		t.Errorf("output %q, want %q", got, want)
	}
}

func TestInputBindsTrimmedString(t *testing.T) {
	ex, world, out := newTestExecutor("  hello world  \n")
	ex.SetShowPrompts(true)

	mustRun(t, ex, []Stmt{
		&InputStmt{Prompt: "name? ", HasPrompt: true, Variable: "name"},
	})

	if v, _ := world.Get("name"); !v.Equal(StrVal("hello world")) {
		t.Errorf("name = %s, want \"hello world\"", v)
	}
	if got := out.String(); got != "name? " {
		t.Errorf("prompt output %q", got)
	}
}

func TestInputPromptSuppressed(t *testing.T) {
	ex, _, out := newTestExecutor("x\n")
	ex.SetShowPrompts(false)

	mustRun(t, ex, []Stmt{
		&InputStmt{Prompt: "> ", HasPrompt: true, Variable: "v"},
	})

	if out.Len() != 0 {
		t.Errorf("expected no prompt output, got %q", out.String())
	}
}

func TestInputAtEOFBindsEmptyString(t *testing.T) {
	ex, world, _ := newTestExecutor("")

	mustRun(t, ex, []Stmt{
		&InputStmt{Variable: "v"},
	})

	if v, ok := world.Get("v"); !ok || !v.Equal(StrVal("")) {
		t.Errorf("v = %v (bound %v), want empty string", v, ok)
	}
}

func TestListPush(t *testing.T) {
	ex, world, _ := newTestExecutor("")

	mustRun(t, ex, []Stmt{
		&LetStmt{Name: "l", Value: ListVal()},
		&ListPushStmt{Variable: "l", Value: IntVal(1)},
		&ListPushStmt{Variable: "l", Value: IntVal(2)},
	})

	if v, _ := world.Get("l"); !v.Equal(ListVal(IntVal(1), IntVal(2))) {
		t.Errorf("l = %s, want [1, 2]", v)
	}
	if g := world.Generation("l"); g != 0 {
		t.Errorf("listpush advanced the generation to %d", g)
	}
}

func TestListPushWrongVariantIsNoOp(t *testing.T) {
	ex, world, _ := newTestExecutor("")

	mustRun(t, ex, []Stmt{
		&LetStmt{Name: "n", Value: IntVal(5)},
		&ListPushStmt{Variable: "n", Value: IntVal(1)},
		&ListPushStmt{Variable: "missing", Value: IntVal(1)},
	})

	if v, _ := world.Get("n"); !v.Equal(IntVal(5)) {
		t.Errorf("listpush on an int mutated it to %s", v)
	}
	if _, ok := world.Get("missing"); ok {
		t.Error("listpush on an unbound name created a binding")
	}
}

func TestSetInsert(t *testing.T) {
	ex, world, _ := newTestExecutor("")

	mustRun(t, ex, []Stmt{
		&LetStmt{Name: "s", Value: SetVal(IntVal(1))},
		&SetInsertStmt{Variable: "s", Value: IntVal(2)},
		&SetInsertStmt{Variable: "s", Value: IntVal(2)},
	})

	if v, _ := world.Get("s"); !v.Equal(SetVal(IntVal(1), IntVal(2))) {
		t.Errorf("s = %s, want set[1, 2]", v)
	}
}

func TestSetInsertWrongVariantIsNoOp(t *testing.T) {
	ex, world, _ := newTestExecutor("")

	mustRun(t, ex, []Stmt{
		&LetStmt{Name: "l", Value: ListVal()},
		&SetInsertStmt{Variable: "l", Value: IntVal(1)},
	})

	if v, _ := world.Get("l"); !v.Equal(ListVal()) {
		t.Errorf("setinsert on a list mutated it to %s", v)
	}
}

func TestListPushCopyOnWriteIsolation(t *testing.T) {
	ex, world, _ := newTestExecutor("")

	mustRun(t, ex, []Stmt{
		&LetStmt{Name: "l", Value: ListVal(IntVal(1))},
	})

	held, _ := world.Get("l") // handle taken before the push

	mustRun(t, ex, []Stmt{
		&ListPushStmt{Variable: "l", Value: IntVal(2)},
	})

	if !held.Equal(ListVal(IntVal(1))) {
		t.Errorf("previously taken handle changed: %s", held)
	}
	if v, _ := world.Get("l"); !v.Equal(ListVal(IntVal(1), IntVal(2))) {
		t.Errorf("l = %s, want [1, 2]", v)
	}
}

func TestIndependentInterpretersDoNotShareState(t *testing.T) {
	a := New(&Config{Output: &bytes.Buffer{}})
	b := New(&Config{Output: &bytes.Buffer{}})

	if err := a.Run([]Stmt{&LetStmt{Name: "x", Value: IntVal(1)}}); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := b.World().Get("x"); ok {
		t.Error("a binding in one interpreter is visible in another")
	}
}
