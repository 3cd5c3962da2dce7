package validator

import (
	"errors"
	"strings"
	"testing"

	"contactnorm/pkg/model"
)

func TestContactValidator_Validate(t *testing.T) {
	v := NewContactValidator()

	tests := []struct {
		name        string
		contact     model.Contact
		expectValid bool
		wantField   string
	}{
		{
			name:        "valid contact",
			contact:     model.Contact{ID: "c-1", Phone: "+971501234567", DOB: "1990-03-15"},
			expectValid: true,
		},
		{
			name:        "blank id is allowed",
			contact:     model.Contact{Phone: "+971501234567", DOB: "1990-03-15", Row: 4},
			expectValid: true,
		},
		{
			name:      "phone without plus",
			contact:   model.Contact{ID: "c-1", Phone: "0501234567", DOB: "1990-03-15"},
			wantField: "phone",
		},
		{
			name:      "dob not iso",
			contact:   model.Contact{ID: "c-1", Phone: "+971501234567", DOB: "15/03/1990"},
			wantField: "dob",
		},
		{
			name:      "impossible dob",
			contact:   model.Contact{ID: "c-1", Phone: "+971501234567", DOB: "2023-02-30"},
			wantField: "dob",
		},
		{
			name:        "long id is allowed",
			contact:     model.Contact{ID: strings.Repeat("x", 300), Phone: "+971501234567", DOB: "1990-03-15"},
			expectValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.contact)
			if tt.expectValid {
				if err != nil {
					t.Errorf("expected valid, got %v", err)
				}
				return
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %T (%v)", err, err)
			}
			if len(verrs) != 1 || verrs[0].Field != tt.wantField {
				t.Errorf("errors = %v, want one on %q", verrs, tt.wantField)
			}
		})
	}
}

func TestContactValidator_ValidateRejection(t *testing.T) {
	v := NewContactValidator()

	if err := v.ValidateRejection(&model.Rejection{ID: "#row2", Row: 2, Reason: "empty dob"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := v.ValidateRejection(&model.Rejection{Row: 2})
	var verrs ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) != 2 {
		t.Fatalf("expected two errors, got %v", err)
	}
	if !strings.Contains(err.Error(), "id: is required") || !strings.Contains(err.Error(), "reason: is required") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestJSONName(t *testing.T) {
	tests := []struct {
		tag, fallback, want string
	}{
		{tag: "phone", fallback: "Phone", want: "phone"},
		{tag: "row,omitempty", fallback: "Row", want: "row"},
		{tag: "-", fallback: "Row", want: "Row"},
		{tag: "", fallback: "Row", want: "Row"},
	}
	for _, tt := range tests {
		if got := jsonName(tt.tag, tt.fallback); got != tt.want {
			t.Errorf("jsonName(%q, %q) = %q, want %q", tt.tag, tt.fallback, got, tt.want)
		}
	}
}
