package usecase

import "testing"

func TestOutcome(t *testing.T) {
	tests := []struct {
		name   string
		result Result[string]
		want   string
	}{
		{"success", Success(Type("todo_found"), "t"), "success:t"},
		{"not found", Failure[string](TypeNotFound, NotFound()), "not_found"},
		{"unprocessable", Failure[string](TypeUnprocessableEntity, Errors{"title": {MsgBlank}}), "unprocessable:can't be blank"},
		{"unregistered failure", Failure[string]("conflict", nil), "otherwise:conflict"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			runs := 0
			On(tt.result).
				Failure(TypeNotFound, func(Errors) { runs++; got = "not_found" }).
				Failure(TypeUnprocessableEntity, func(e Errors) { runs++; got = "unprocessable:" + e["title"][0] }).
				Success(func(v string) { runs++; got = "success:" + v }).
				Otherwise(func(r Result[string]) { runs++; got = "otherwise:" + string(r.Type()) })

			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if runs != 1 {
				t.Errorf("%d branches ran, want 1", runs)
			}
		})
	}
}

func TestOutcomeUnregisteredIsNotTaken(t *testing.T) {
	o := On(Failure[int](TypeNotFound, NotFound())).
		Success(func(int) { t.Error("success branch ran for a failure") })
	if o.Handled() {
		t.Error("Handled() = true with no matching branch")
	}
}
