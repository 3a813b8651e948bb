package validator

import (
	"testing"
)

type sampleRequest struct {
	Title string `validate:"required,min=1,max=10"`
	Count int    `validate:"min=1,max=5"`
	Email string `validate:"omitempty,email"`
}

func TestValidate(t *testing.T) {
	v := New()

	tests := []struct {
		name       string
		in         sampleRequest
		wantFields []string
	}{
		{
			name: "valid",
			in:   sampleRequest{Title: "ok", Count: 3},
		},
		{
			name:       "missing title",
			in:         sampleRequest{Count: 3},
			wantFields: []string{"Title"},
		},
		{
			name:       "multiple failures",
			in:         sampleRequest{Title: "way too long title", Count: 0, Email: "nope"},
			wantFields: []string{"Title", "Count", "Email"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.Validate(&tt.in)
			if len(tt.wantFields) == 0 {
				if errs != nil {
					t.Fatalf("unexpected errors: %v", errs)
				}
				return
			}
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("got %d errors, want %d: %v", len(errs), len(tt.wantFields), errs)
			}
			for i, field := range tt.wantFields {
				if errs[i].Field != field {
					t.Errorf("error %d field = %s, want %s", i, errs[i].Field, field)
				}
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	one := ValidationErrors{{Field: "Title", Message: "is required"}}
	if one.Error() != "validation failed: Title is required" {
		t.Errorf("got %q", one.Error())
	}
	many := ValidationErrors{{Field: "A"}, {Field: "B"}}
	if many.Error() != "validation failed: 2 field errors" {
		t.Errorf("got %q", many.Error())
	}
}
