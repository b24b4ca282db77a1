package util

import (
	"errors"
	"testing"
)

func TestPathError(t *testing.T) {
	err := NewPathError("set", "/Nope/missing", 0)
	if !errors.Is(err, ErrNotFound) {
		t.Error("zero-match PathError should unwrap to ErrNotFound")
	}

	err = NewPathError("describe", "/Test/*", 3)
	if !errors.Is(err, ErrAmbiguous) {
		t.Error("multi-match PathError should unwrap to ErrAmbiguous")
	}
}

func TestTypeMismatchError(t *testing.T) {
	err := NewTypeMismatchError("/Test/slider", ",f", ",s")
	if !errors.Is(err, ErrTypeMismatch) {
		t.Error("TypeMismatchError should unwrap to ErrTypeMismatch")
	}
	want := "type mismatch at /Test/slider: expected ,f, got ,s"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestValidationBuilder(t *testing.T) {
	var v ValidationBuilder
	v.Add(true, "should not appear")
	v.Add(false, "first")
	v.AddErrorf("second %d", 2)

	if !v.HasErrors() {
		t.Fatal("builder should have errors")
	}
	err := v.Build()
	if !errors.Is(err, ErrValidationFailed) {
		t.Error("built error should unwrap to ErrValidationFailed")
	}

	var empty ValidationBuilder
	if empty.Build() != nil {
		t.Error("empty builder should build nil")
	}
}
