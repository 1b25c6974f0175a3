package errors

import (
	stderrs "errors"
	"fmt"
	"testing"
)

func TestCodeStringMapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want string
	}{
		{ErrorCodePanic, "panic"},
		{ErrorCodeInvalidArgument, "invalid_argument"},
		{ErrorCodeValidation, "validation"},
		{ErrorCodeNotFound, "not_found"},
		{ErrorCodeTooManyMissing, "too_many_missing"},
		{ErrorCodeUnsupportedEncoding, "unsupported_encoding"},
		{ErrorCodeMalformedDecode, "malformed_decode"},
		{ErrorCodeUnsupportedColumn, "unsupported_column"},
		{ErrorCodeMalformed, "malformed"},
		{ErrorCodeIO, "io"},
		{ErrorCodeUnknown, "unknown"},
		{9999, "unknown"}, // default branch
	}
	for _, c := range cases {
		if got := c.code.String(); got != c.want {
			t.Fatalf("String(%d) = %q, want %q", uint16(c.code), got, c.want)
		}
	}
}

func TestErrorTypeAndMethods(t *testing.T) {
	// nil *Error should render "<nil>"
	var e *Error
	if e.Error() != "<nil>" {
		t.Fatalf("nil *Error render = %q, want <nil>", e.Error())
	}

	// New / Newf
	e1 := New(ErrorCodeValidation, "bad stuff")
	if CodeOf(e1) != ErrorCodeValidation {
		t.Fatalf("CodeOf(New) = %v", CodeOf(e1))
	}
	e2 := Newf(ErrorCodeMalformed, "bad row %d", 12)
	if got := e2.Error(); got != "bad row 12" {
		t.Fatalf("Newf().Error = %q", got)
	}

	// Wrap / Wrapf / Unwrap
	src := stderrs.New("root")
	e3 := Wrap(src, ErrorCodeIO, "write failed")
	if u := stderrs.Unwrap(e3); u == nil || u.Error() != "root" {
		t.Fatalf("Wrap did not keep orig")
	}
	if CodeOf(e3) != ErrorCodeIO {
		t.Fatalf("CodeOf(Wrap) = %v", CodeOf(e3))
	}
	if got := e3.Error(); got != "write failed: root" {
		t.Fatalf("Wrap().Error = %q", got)
	}
	e4 := Wrapf(src, ErrorCodeUnknown, "ctx %s", "x")
	if got := e4.Error(); got != "ctx x: root" {
		t.Fatalf("Wrapf().Error = %q", got)
	}
}

func TestRootWalksToDeepestCause(t *testing.T) {
	base := stderrs.New("base")
	mid := fmt.Errorf("mid: %w", base)
	top := Wrap(mid, ErrorCodeIO, "top")
	if got := Root(top); got != base {
		t.Fatalf("Root = %v, want base", got)
	}
	if Root(nil) != nil {
		t.Fatalf("Root(nil) should be nil")
	}
}

func TestAsAndIsCode(t *testing.T) {
	e := Newf(ErrorCodeUnsupportedEncoding, "BAD ENCODING %q", "FOO")
	wrapped := fmt.Errorf("outer: %w", e)

	got, ok := As(wrapped)
	if !ok || got.Code() != ErrorCodeUnsupportedEncoding {
		t.Fatalf("As failed through stdlib wrap: %v %v", got, ok)
	}
	if !IsCode(wrapped, ErrorCodeUnsupportedEncoding) {
		t.Fatalf("IsCode failed through stdlib wrap")
	}
	if IsCode(stderrs.New("plain"), ErrorCodeNotFound) {
		t.Fatalf("IsCode matched a foreign error")
	}
	if CodeOf(stderrs.New("plain")) != ErrorCodeUnknown {
		t.Fatalf("CodeOf foreign error should be Unknown")
	}
}

func TestWithFieldAndOp(t *testing.T) {
	e := New(ErrorCodeValidation, "nope")

	fe := WithField(e, "max_lines")
	if got, ok := As(fe); !ok || got.Field() != "max_lines" {
		t.Fatalf("WithField did not set field: %v", fe)
	}
	// original untouched (copy-on-write)
	if got, _ := As(e); got.Field() != "" {
		t.Fatalf("WithField mutated original")
	}

	oe := WithOp(e, "collect.Run")
	if got, ok := As(oe); !ok || got.Op() != "collect.Run" {
		t.Fatalf("WithOp did not set op: %v", oe)
	}

	// foreign errors pass through unchanged
	foreign := stderrs.New("foreign")
	if WithField(foreign, "f") != foreign || WithOp(foreign, "o") != foreign {
		t.Fatalf("mutators should not touch foreign errors")
	}
}

func TestWrapIf(t *testing.T) {
	if WrapIf(nil, ErrorCodeIO, "x") != nil {
		t.Fatalf("WrapIf(nil) should be nil")
	}
	err := WrapIf(stderrs.New("y"), ErrorCodeIO, "x")
	if !IsCode(err, ErrorCodeIO) {
		t.Fatalf("WrapIf did not wrap")
	}
}

func TestSugarConstructors(t *testing.T) {
	cases := []struct {
		err  error
		code ErrorCode
	}{
		{NotFoundf("blob %s", "abc"), ErrorCodeNotFound},
		{InvalidArgf("bad %s", "arg"), ErrorCodeInvalidArgument},
		{Validationf("v"), ErrorCodeValidation},
		{UnsupportedEncodingf("enc %q", "FOO"), ErrorCodeUnsupportedEncoding},
		{MalformedDecodef("lossy"), ErrorCodeMalformedDecode},
		{UnsupportedColumnf("col"), ErrorCodeUnsupportedColumn},
		{Malformedf("meta"), ErrorCodeMalformed},
		{IOf("io"), ErrorCodeIO},
		{PanicErrf("p"), ErrorCodePanic},
		{Internalf("i"), ErrorCodeUnknown},
	}
	for _, c := range cases {
		if CodeOf(c.err) != c.code {
			t.Fatalf("sugar %v -> code %v, want %v", c.err, CodeOf(c.err), c.code)
		}
	}
}

func TestErrNotFoundSentinel(t *testing.T) {
	if !IsCode(ErrNotFound, ErrorCodeNotFound) {
		t.Fatalf("ErrNotFound should carry NotFound code")
	}
}
