package errors

import (
	"fmt"
	"testing"
)

func TestOutreachError_Error(t *testing.T) {
	err := &OutreachError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "contact not found",
	}

	expected := "NOT_FOUND: contact not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("ids are required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "ids are required" {
		t.Errorf("Message = %q, want %q", err.Message, "ids are required")
	}
}

func TestNewAuthFailed_KeepsMessageVerbatim(t *testing.T) {
	err := NewAuthFailed("Invalid login credentials")

	if err.Code != ErrAuthFailed {
		t.Errorf("Code = %q, want %q", err.Code, ErrAuthFailed)
	}
	if err.Status != 401 {
		t.Errorf("Status = %d, want 401", err.Status)
	}
	if err.Message != "Invalid login credentials" {
		t.Errorf("Message = %q, want verbatim provider message", err.Message)
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("01JABC")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["id"] != "01JABC" {
		t.Errorf("Details[id] = %v, want %q", err.Details["id"], "01JABC")
	}
}

func TestNewFileNotFound(t *testing.T) {
	err := NewFileNotFound("/tmp/missing.jsonl")

	if err.Code != ErrFileNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrFileNotFound)
	}
	if err.Details["path"] != "/tmp/missing.jsonl" {
		t.Errorf("Details[path] = %v", err.Details["path"])
	}
}

func TestNewValidation(t *testing.T) {
	err := NewValidation(map[string]string{
		"title": "Job title is required",
		"name":  "Name is required",
	})

	if err.Code != ErrValidationFailed {
		t.Errorf("Code = %q, want %q", err.Code, ErrValidationFailed)
	}
	if err.Status != 422 {
		t.Errorf("Status = %d, want 422", err.Status)
	}
	if err.Message != "invalid fields: name, title" {
		t.Errorf("Message = %q, want sorted field list", err.Message)
	}

	fields := FieldErrors(err)
	if fields["name"] != "Name is required" {
		t.Errorf("fields[name] = %q", fields["name"])
	}
	if fields["title"] != "Job title is required" {
		t.Errorf("fields[title] = %q", fields["title"])
	}
}

func TestFieldErrors_NonValidation(t *testing.T) {
	if got := FieldErrors(NewInvalidRequest("x")); got != nil {
		t.Errorf("FieldErrors = %v, want nil", got)
	}
	if got := FieldErrors(fmt.Errorf("plain")); got != nil {
		t.Errorf("FieldErrors = %v, want nil", got)
	}
}

func TestNewCancelled(t *testing.T) {
	err := NewCancelled("export")

	if err.Code != ErrCancelled {
		t.Errorf("Code = %q, want %q", err.Code, ErrCancelled)
	}
	if err.Message != "export cancelled" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewInternal(t *testing.T) {
	err := NewInternal(fmt.Errorf("disk full"))
	if err.Message != "disk full" {
		t.Errorf("Message = %q, want %q", err.Message, "disk full")
	}

	err = NewInternal(nil)
	if err.Message != "internal error" {
		t.Errorf("Message = %q, want %q", err.Message, "internal error")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"matching code", NewNotFound("x"), ErrNotFound, true},
		{"different code", NewNotFound("x"), ErrInternal, false},
		{"wrapped", fmt.Errorf("load: %w", NewConflict("dup")), ErrConflict, true},
		{"plain error", fmt.Errorf("boom"), ErrInternal, false},
		{"nil", nil, ErrInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}
