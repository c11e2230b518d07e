package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"plain", New(InvalidFormat, "bad magic %q", "P9"), `bad magic "P9"`},
		{"wrapped", Wrap(IO, io.ErrUnexpectedEOF, "failed to write %s", "a.pbm"), "failed to write a.pbm: unexpected EOF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error(): got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("loading: %w", New(UnsupportedFormat, "magic P6"))
	if got := KindOf(err); got != UnsupportedFormat {
		t.Errorf("KindOf: got %v, want %v", got, UnsupportedFormat)
	}
	if got := KindOf(io.EOF); got != Unknown {
		t.Errorf("KindOf(io.EOF): got %v, want %v", got, Unknown)
	}
	if got := KindOf(nil); got != Unknown {
		t.Errorf("KindOf(nil): got %v, want %v", got, Unknown)
	}
}

func TestIs_NestedKinds(t *testing.T) {
	inner := New(InvalidFormat, "sample out of range")
	outer := Wrap(IO, inner, "save failed")

	if !Is(outer, IO) {
		t.Error("Is(outer, IO) should be true")
	}
	if !Is(outer, InvalidFormat) {
		t.Error("Is(outer, InvalidFormat) should be true")
	}
	if Is(outer, NotFound) {
		t.Error("Is(outer, NotFound) should be false")
	}
	if !errors.Is(outer, inner) {
		t.Error("errors.Is should find the wrapped error")
	}
}

func TestPredefined(t *testing.T) {
	if KindOf(ErrNothingToUndo) != NothingToUndo {
		t.Errorf("ErrNothingToUndo has kind %v", KindOf(ErrNothingToUndo))
	}
	if KindOf(ErrNoActiveSession) != NoActiveSession {
		t.Errorf("ErrNoActiveSession has kind %v", KindOf(ErrNoActiveSession))
	}
}

func TestKind_String(t *testing.T) {
	if got := IncompatibleImages.String(); got != "incompatible images" {
		t.Errorf("String: got %q", got)
	}
	if got := Kind(99).String(); got != "kind(99)" {
		t.Errorf("String: got %q", got)
	}
}
