package runtime

import "testing"

func TestFutureOneShotTransitions(t *testing.T) {
	f := NewFuture(nil)
	f.Resolve(Int(1))
	f.Resolve(Int(2)) // duplicate transition: no-op
	f.Reject("boom")  // duplicate transition: no-op
	v, resolved, _ := f.Await()
	if !resolved {
		t.Fatalf("expected resolved")
	}
	if v.(Int) != 1 {
		t.Fatalf("resolve should keep first value, got %v", v)
	}
}

func TestEnvironmentDeclareAssignScoping(t *testing.T) {
	global := NewEnvironment()
	if err := global.Declare("x", Int(1), false); err != nil {
		t.Fatalf("declare: %v", err)
	}
	if err := global.Declare("x", Int(2), false); err == nil {
		t.Fatalf("expected duplicate declare in same frame to fail")
	}

	child := global.PushScope()
	v, ok := child.Get("x")
	if !ok || v.(Int) != 1 {
		t.Fatalf("expected to read x from outer frame")
	}
	if err := child.Assign("x", Int(5)); err != nil {
		t.Fatalf("assign: %v", err)
	}
	v, _ = global.Get("x")
	if v.(Int) != 5 {
		t.Fatalf("assign through child scope should mutate outer binding, got %v", v)
	}

	before := global.Depth()
	_ = child.PopScope()
	if global.Depth() != before {
		t.Fatalf("pop should not affect the frame it returns to")
	}
}

func TestEnvironmentConstantRejectsAssign(t *testing.T) {
	env := NewEnvironment()
	env.Declare("k", Int(1), true)
	if err := env.Assign("k", Int(2)); err == nil {
		t.Fatalf("expected assignment to constant to fail")
	}
}

func TestClassInstanceAliasSharesProperties(t *testing.T) {
	ci := NewClassInstance("Point", nil)
	ci.SetProperty("x", Int(1))
	alias := ci.Alias()
	alias.SetProperty("x", Int(42))
	v, _ := ci.GetProperty("x")
	if v.(Int) != 42 {
		t.Fatalf("expected alias write to be observed by original, got %v", v)
	}
}

func TestStructuralEqualCrossNumeric(t *testing.T) {
	if !StructuralEqual(Int(2), Float(2.0)) {
		t.Fatalf("expected int 2 == float 2.0")
	}
	if StructuralEqual(Int(2), Str("2")) {
		t.Fatalf("expected int 2 != str \"2\"")
	}
}

func TestTruthiness(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{Bool(true), true}, {Bool(false), false}, {Null, false},
		{Int(0), false}, {Int(1), true}, {Str(""), false}, {Str("a"), true},
	}
	for _, c := range cases {
		if got := IsTruthy(c.v); got != c.want {
			t.Errorf("IsTruthy(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}
