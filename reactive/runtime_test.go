package reactive

import (
	"errors"
	"testing"
)

func TestValueReadWrite(t *testing.T) {
	rt := New()
	v := rt.CreateValue(1)
	if got := rt.ReadValue(v); got != 1 {
		t.Fatalf("ReadValue() = %v, want 1", got)
	}
	rt.WriteValue(v, 2)
	if got := rt.ReadValue(v); got != 2 {
		t.Fatalf("ReadValue() after write = %v, want 2", got)
	}
}

func TestWriteEqualValueDoesNotInvalidate(t *testing.T) {
	rt := New()
	v := rt.CreateValue(5)
	e := rt.CreateExpression(func() any { return rt.ReadValue(v).(int) * 2 })

	var observed int
	o := rt.CreateObserver(func() { observed = rt.ReadExpression(e).(int) })
	if err := rt.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if observed != 10 || rt.ExecCount(o) != 1 || rt.ExecCount(e) != 1 {
		t.Fatalf("unexpected initial state: observed=%d exec(e)=%d exec(o)=%d", observed, rt.ExecCount(e), rt.ExecCount(o))
	}

	rt.WriteValue(v, 5) // same value, host-equal
	if err := rt.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if rt.ExecCount(e) != 1 || rt.ExecCount(o) != 1 {
		t.Fatalf("write of an equal value must not re-trigger anything: exec(e)=%d exec(o)=%d", rt.ExecCount(e), rt.ExecCount(o))
	}
}

func TestExpressionIsLazyUntilFirstRead(t *testing.T) {
	rt := New()
	v := rt.CreateValue(1)
	e := rt.CreateExpression(func() any { return rt.ReadValue(v) })
	if rt.ExecCount(e) != 0 {
		t.Fatalf("a freshly created expression must not run before it is read")
	}
	rt.ReadExpression(e)
	if rt.ExecCount(e) != 1 {
		t.Fatalf("ReadExpression should run the compute function exactly once")
	}
}

func TestObserverRunsOnCreationFlush(t *testing.T) {
	rt := New()
	ran := false
	o := rt.CreateObserver(func() { ran = true })
	if ran {
		t.Fatalf("an observer must not run before the first flush")
	}
	if err := rt.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if !ran || rt.ExecCount(o) != 1 {
		t.Fatalf("observer should have run exactly once after flush")
	}
}

func TestIsolateSuppressesEdge(t *testing.T) {
	rt := New()
	v := rt.CreateValue(1)
	var reads int
	rt.CreateObserver(func() {
		reads++
		rt.Isolate(func() any { return rt.ReadValue(v) })
	})
	if err := rt.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if reads != 1 {
		t.Fatalf("observer should have run once, got %d", reads)
	}
	rt.WriteValue(v, 2)
	if err := rt.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if reads != 1 {
		t.Fatalf("a write to a value read only inside isolate must not re-trigger the observer, reads=%d", reads)
	}
}

func TestUserFunctionPanicLeavesNodeInvalid(t *testing.T) {
	rt := New()
	fail := true
	e := rt.CreateExpression(func() any {
		if fail {
			panic(errors.New("boom"))
		}
		return 42
	})

	func() {
		defer func() {
			rec := recover()
			if rec == nil {
				t.Fatalf("ReadExpression should panic when f panics")
			}
			var ufe *UserFunctionError
			if !errors.As(rec.(error), &ufe) {
				t.Fatalf("recovered value %v is not a *UserFunctionError", rec)
			}
		}()
		rt.ReadExpression(e)
	}()

	if rt.ExecCount(e) != 0 {
		t.Fatalf("a failed compute must not count as a successful execution, got %d", rt.ExecCount(e))
	}

	fail = false
	got := rt.ReadExpression(e)
	if got != 42 {
		t.Fatalf("ReadExpression after the failure clears should re-attempt and succeed, got %v", got)
	}
	if rt.ExecCount(e) != 1 {
		t.Fatalf("exec count should be 1 after the first successful run, got %d", rt.ExecCount(e))
	}
}

func TestObserverPanicSurfacesFromFlush(t *testing.T) {
	rt := New()
	rt.CreateObserver(func() { panic("nope") })
	err := rt.Flush()
	if err == nil {
		t.Fatalf("Flush() should surface a panicking observer's error")
	}
	var ufe *UserFunctionError
	if !errors.As(err, &ufe) {
		t.Fatalf("Flush() error = %v, want a *UserFunctionError", err)
	}
	if ufe.Kind != "observer" {
		t.Fatalf("UserFunctionError.Kind = %q, want %q", ufe.Kind, "observer")
	}
}

func TestAtMostOnceQueued(t *testing.T) {
	rt := New()
	v := rt.CreateValue(1)
	o := rt.CreateObserver(func() { rt.ReadValue(v) })
	rt.Flush()

	// Two writes before a flush must still only run the observer once.
	rt.WriteValue(v, 2)
	rt.WriteValue(v, 3)
	rt.Flush()
	if rt.ExecCount(o) != 2 {
		t.Fatalf("exec(o) = %d, want 2 (one run from creation, one from the coalesced writes)", rt.ExecCount(o))
	}
}

func TestMaxFlushIterationsBound(t *testing.T) {
	rt := New(WithMaxFlushIterations(2))
	v := rt.CreateValue(0)
	rt.CreateObserver(func() {
		n := rt.ReadValue(v).(int)
		rt.WriteValue(v, n+1) // never stabilizes
	})
	err := rt.Flush()
	if !errors.Is(err, ErrMaxFlushIterations) {
		t.Fatalf("Flush() error = %v, want ErrMaxFlushIterations", err)
	}
}

func TestWithEqualOverride(t *testing.T) {
	type box struct{ v int }
	alwaysEqual := func(a, b any) bool { return true }
	rt := New(WithEqual(alwaysEqual))

	v := rt.CreateValue(box{1})
	var runs int
	e := rt.CreateExpression(func() any { runs++; return rt.ReadValue(v) })
	o := rt.CreateObserver(func() { rt.ReadExpression(e) })
	rt.Flush()

	rt.WriteValue(v, box{2}) // host-equal under the override, so no propagation
	rt.Flush()
	if rt.ExecCount(o) != 1 {
		t.Fatalf("custom EqualFunc treating all writes as equal should suppress propagation, exec(o)=%d", rt.ExecCount(o))
	}
}

func TestEmitterReceivesEvents(t *testing.T) {
	var kinds []string
	emitter := emitterFunc(func(ev Event) { kinds = append(kinds, ev.Kind+":"+ev.Op) })
	rt := New(WithEmitter(emitter))

	v := rt.CreateValue(1)
	rt.ReadValue(v)
	rt.WriteValue(v, 2)

	want := []string{"value:create", "value:read", "value:write"}
	if len(kinds) != len(want) {
		t.Fatalf("got %d events %v, want %d", len(kinds), kinds, len(want))
	}
	for i, w := range want {
		if kinds[i] != w {
			t.Errorf("event[%d] = %q, want %q", i, kinds[i], w)
		}
	}
}

type emitterFunc func(Event)

func (f emitterFunc) Emit(ev Event) { f(ev) }
