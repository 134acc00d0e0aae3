package main

import (
	"fmt"

	"github.com/dshills/reactive-go/reactive"
)

// scenario bundles a runnable demo with a name, matching how the core
// package's own tests are organized (scenarios_test.go's S1-S9), so the
// CLI exercises the same named cases a developer would read about.
type scenario struct {
	name string
	run  func(rt *reactive.Runtime) (map[string]int, error)
}

var scenarios = []scenario{
	{"plain-chain", scenarioPlainChain},
	{"shared-expression", scenarioSharedExpression},
	{"value-equality-gate", scenarioValueEqualityGate},
	{"laziness", scenarioLaziness},
	{"isolate", scenarioIsolate},
	{"self-writing-expression", scenarioSelfWritingExpression},
	{"simple-recursion", scenarioSimpleRecursion},
	{"observer-self-cycle", scenarioObserverSelfCycle},
	{"write-then-read", scenarioWriteThenRead},
}

func findScenario(name string) (scenario, error) {
	for _, s := range scenarios {
		if s.name == name {
			return s, nil
		}
	}
	return scenario{}, fmt.Errorf("unknown scenario %q", name)
}

func scenarioPlainChain(rt *reactive.Runtime) (map[string]int, error) {
	a := rt.CreateValue(10)
	fa := rt.CreateExpression(func() any { return rt.ReadValue(a) })
	fb := rt.CreateExpression(func() any {
		rt.ReadExpression(fa)
		return rt.ReadValue(a)
	})
	obsC := rt.CreateObserver(func() { rt.ReadExpression(fb) })

	if err := rt.Flush(); err != nil {
		return nil, err
	}
	rt.WriteValue(a, 11)
	if err := rt.Flush(); err != nil {
		return nil, err
	}
	return map[string]int{"fb": rt.ExecCount(fb), "obsC": rt.ExecCount(obsC)}, nil
}

func scenarioSharedExpression(rt *reactive.Runtime) (map[string]int, error) {
	a := rt.CreateValue(1)
	fb := rt.CreateExpression(func() any { return rt.ReadValue(a).(int) + 5 })
	obsC := rt.CreateObserver(func() { _ = rt.ReadValue(a).(int) * rt.ReadExpression(fb).(int) })
	obsD := rt.CreateObserver(func() { _ = rt.ReadValue(a).(int) * rt.ReadExpression(fb).(int) })

	if err := rt.Flush(); err != nil {
		return nil, err
	}
	rt.WriteValue(a, 2)
	if err := rt.Flush(); err != nil {
		return nil, err
	}
	return map[string]int{"fb": rt.ExecCount(fb), "obsC": rt.ExecCount(obsC), "obsD": rt.ExecCount(obsD)}, nil
}

func scenarioValueEqualityGate(rt *reactive.Runtime) (map[string]int, error) {
	a := rt.CreateValue(10)
	c := rt.CreateValue(false)
	rt.CreateObserver(func() { rt.WriteValue(c, rt.ReadValue(a).(int) > 0) })
	fd := rt.CreateExpression(func() any { return rt.ReadValue(c) })
	obsE := rt.CreateObserver(func() { rt.ReadExpression(fd) })

	if err := rt.Flush(); err != nil {
		return nil, err
	}
	rt.WriteValue(a, 11)
	if err := rt.Flush(); err != nil {
		return nil, err
	}
	return map[string]int{"fd": rt.ExecCount(fd), "obsE": rt.ExecCount(obsE)}, nil
}

func scenarioLaziness(rt *reactive.Runtime) (map[string]int, error) {
	a := rt.CreateValue(10)
	fa := rt.CreateExpression(func() any { return rt.ReadValue(a).(int) > 0 })
	fb := rt.CreateExpression(func() any { return rt.ReadExpression(fa) })
	obsC := rt.CreateObserver(func() {
		if rt.ReadValue(a).(int) > 10 {
			return
		}
		rt.ReadExpression(fb)
	})

	if err := rt.Flush(); err != nil {
		return nil, err
	}
	rt.WriteValue(a, 11)
	if err := rt.Flush(); err != nil {
		return nil, err
	}
	return map[string]int{"fa": rt.ExecCount(fa), "fb": rt.ExecCount(fb), "obsC": rt.ExecCount(obsC)}, nil
}

func scenarioIsolate(rt *reactive.Runtime) (map[string]int, error) {
	a := rt.CreateValue(1)
	b := rt.CreateValue(10)
	fb := rt.CreateExpression(func() any { return rt.ReadValue(b).(int) + 100 })

	obsC := rt.CreateObserver(func() {
		isoB := rt.Isolate(func() any { return rt.ReadValue(b) }).(int)
		isoFB := rt.Isolate(func() any { return rt.ReadExpression(fb) }).(int)
		_ = rt.ReadValue(a).(int) + isoB + isoFB
	})
	obsD := rt.CreateObserver(func() {
		isoB := rt.Isolate(func() any { return rt.ReadValue(b) }).(int)
		_ = rt.ReadValue(a).(int) + isoB + rt.ReadExpression(fb).(int)
	})

	for _, step := range []func(){
		func() {},
		func() { rt.WriteValue(a, 2) },
		func() { rt.WriteValue(b, 20) },
		func() { rt.WriteValue(a, 3) },
	} {
		step()
		if err := rt.Flush(); err != nil {
			return nil, err
		}
	}
	return map[string]int{"obsC": rt.ExecCount(obsC), "obsD": rt.ExecCount(obsD)}, nil
}

func scenarioSelfWritingExpression(rt *reactive.Runtime) (map[string]int, error) {
	a := rt.CreateValue(3)
	fb := rt.CreateExpression(func() any {
		v := rt.ReadValue(a).(int)
		if v == 0 {
			return 0
		}
		rt.WriteValue(a, v-1)
		return rt.ReadValue(a)
	})
	obsC := rt.CreateObserver(func() { rt.ReadExpression(fb) })

	if err := rt.Flush(); err != nil {
		return nil, err
	}
	rt.WriteValue(a, 3)
	if err := rt.Flush(); err != nil {
		return nil, err
	}
	return map[string]int{"fb": rt.ExecCount(fb), "obsC": rt.ExecCount(obsC)}, nil
}

func scenarioSimpleRecursion(rt *reactive.Runtime) (map[string]int, error) {
	a := rt.CreateValue(5)
	var fb reactive.ExprHandle
	fb = rt.CreateExpression(func() any {
		v := rt.ReadValue(a).(int)
		if v == 0 {
			return 0
		}
		rt.WriteValue(a, v-1)
		return rt.ReadExpression(fb)
	})
	obsC := rt.CreateObserver(func() { rt.ReadExpression(fb) })

	if err := rt.Flush(); err != nil {
		return nil, err
	}
	return map[string]int{"a": rt.ReadValue(a).(int), "fb": rt.ExecCount(fb), "obsC": rt.ExecCount(obsC)}, nil
}

func scenarioObserverSelfCycle(rt *reactive.Runtime) (map[string]int, error) {
	a := rt.CreateValue(3)
	obsB := rt.CreateObserver(func() {
		v := rt.ReadValue(a).(int)
		if v == 0 {
			return
		}
		rt.WriteValue(a, v-1)
	})

	if err := rt.Flush(); err != nil {
		return nil, err
	}
	return map[string]int{"obsB": rt.ExecCount(obsB)}, nil
}

func scenarioWriteThenRead(rt *reactive.Runtime) (map[string]int, error) {
	a := rt.CreateValue(3)
	fb := rt.CreateExpression(func() any {
		v := rt.Isolate(func() any { return rt.ReadValue(a) }).(int)
		rt.WriteValue(a, v-1)
		return rt.ReadValue(a)
	})
	obsC := rt.CreateObserver(func() { rt.ReadExpression(fb) })

	if err := rt.Flush(); err != nil {
		return nil, err
	}
	rt.WriteValue(a, 10)
	if err := rt.Flush(); err != nil {
		return nil, err
	}
	return map[string]int{"obsC": rt.ExecCount(obsC)}, nil
}
