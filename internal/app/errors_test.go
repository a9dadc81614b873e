package app

import (
	"errors"
	"testing"
)

func TestOperationError(t *testing.T) {
	tests := []struct {
		name string
		err  *OperationError
		want string
	}{
		{"op only", &OperationError{Op: "save"}, "save"},
		{"with target", NewOperationError("open", "/a.txt", nil), "open /a.txt"},
		{"with error", NewOperationError("close", "/a.txt", ErrUnsavedChanges), "close /a.txt: unsaved changes"},
		{
			"with context",
			NewOperationError("reload", "/a.txt", ErrDocumentNotFound).WithContext("watcher"),
			"reload /a.txt (watcher): document not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOperationErrorIs(t *testing.T) {
	err := NewOperationError("open", "/a.txt", ErrDocumentAlreadyOpen)
	if !errors.Is(err, ErrDocumentAlreadyOpen) {
		t.Error("errors.Is should match the wrapped error")
	}
	if !errors.Is(err, err) {
		t.Error("errors.Is should match the wrapper itself")
	}
	if errors.Is(err, NewOperationError("open", "/a.txt", ErrDocumentAlreadyOpen)) {
		t.Error("distinct wrappers should not match")
	}

	var opErr *OperationError
	if !errors.As(error(err), &opErr) || opErr.Target != "/a.txt" {
		t.Errorf("errors.As = %v", opErr)
	}
}

func TestOperationErrorNil(t *testing.T) {
	var err *OperationError
	if err.Error() != "" || err.Unwrap() != nil || err.Is(ErrDocumentNotFound) {
		t.Error("nil OperationError should be inert")
	}
	if err.WithContext("x") != nil {
		t.Error("WithContext on nil should return nil")
	}
}
