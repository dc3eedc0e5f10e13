package usecase

import (
	"reflect"
	"testing"
)

func TestSuccess(t *testing.T) {
	r := Success("", 42)
	if !r.OK() || r.Failed() {
		t.Fatal("expected a success")
	}
	if r.Type() != TypeOK {
		t.Errorf("Type() = %q, want %q", r.Type(), TypeOK)
	}
	if r.Value() != 42 {
		t.Errorf("Value() = %d, want 42", r.Value())
	}
	if r.Errors() != nil {
		t.Errorf("Errors() = %v, want nil", r.Errors())
	}

	tagged := Success(Type("todo_created"), "x")
	if !tagged.Is(true, "todo_created") {
		t.Errorf("Is(true, todo_created) = false for %+v", tagged)
	}
}

func TestFailure(t *testing.T) {
	errs := Errors{"title": {MsgBlank}}
	r := Failure[int](TypeUnprocessableEntity, errs)

	if r.OK() {
		t.Fatal("expected a failure")
	}
	if r.Type() != TypeUnprocessableEntity {
		t.Errorf("Type() = %q", r.Type())
	}
	if v, ok := r.Unwrap(); ok || v != 0 {
		t.Errorf("Unwrap() = (%d, %v), want (0, false)", v, ok)
	}
	if !reflect.DeepEqual(r.Errors(), errs) {
		t.Errorf("Errors() = %v, want %v", r.Errors(), errs)
	}

	if got := Failure[int]("", nil).Type(); got != TypeFailure {
		t.Errorf("untagged failure Type() = %q, want %q", got, TypeFailure)
	}
}

func TestResultIsImmutable(t *testing.T) {
	errs := Errors{"title": {MsgBlank}}
	r := Failure[string](TypeUnprocessableEntity, errs)

	errs.Add("title", "mutated")
	got := r.Errors()
	got.Add("due_at", "mutated")

	want := Errors{"title": {MsgBlank}}
	if !reflect.DeepEqual(r.Errors(), want) {
		t.Errorf("Errors() = %v, want %v", r.Errors(), want)
	}
}

func TestErrorsKeepOrder(t *testing.T) {
	e := Errors{}
	e.RequirePresent("email", "  ")
	e.Check(false, "email", MsgInvalid)
	e.RequirePresent("name", "Ada")

	want := Errors{"email": {MsgBlank, MsgInvalid}}
	if !reflect.DeepEqual(e, want) {
		t.Errorf("got %v, want %v", e, want)
	}
	if !e.Any() {
		t.Error("Any() = false")
	}
	if fields := e.Fields(); !reflect.DeepEqual(fields, []string{"email"}) {
		t.Errorf("Fields() = %v", fields)
	}
}

func TestBlank(t *testing.T) {
	for _, s := range []string{"", " ", "\t\n"} {
		if !Blank(s) {
			t.Errorf("Blank(%q) = false", s)
		}
	}
	if Blank(" x ") {
		t.Error(`Blank(" x ") = true`)
	}
}

func TestNotFound(t *testing.T) {
	want := Errors{"id": {"not found"}}
	if got := NotFound(); !reflect.DeepEqual(got, want) {
		t.Errorf("NotFound() = %v, want %v", got, want)
	}
}
