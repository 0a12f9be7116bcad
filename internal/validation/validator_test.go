// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package validation

import (
	"strings"
	"testing"

	"github.com/tomtom215/eventsieve/internal/models"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() returned nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same instance")
	}
}

func TestValidateStruct_SearchRequest(t *testing.T) {
	tests := []struct {
		name      string
		req       models.SearchRequest
		wantField string
		wantTag   string
	}{
		{
			name: "minimal",
			req:  models.SearchRequest{Query: "golang", Page: 1, PerPage: 10},
		},
		{
			name: "calendar dates",
			req:  models.SearchRequest{Query: "golang", StartDate: "2026-03-01", EndDate: "2026-03-31"},
		},
		{
			name: "rfc3339 date",
			req:  models.SearchRequest{Query: "golang", StartDate: "2026-03-01T18:00:00-05:00"},
		},
		{
			name: "excludes",
			req:  models.SearchRequest{Query: "golang", Exclude: []string{"online", "workshop"}},
		},
		{
			name:      "bad start date",
			req:       models.SearchRequest{Query: "golang", StartDate: "2026-13-01"},
			wantField: "start_date",
			wantTag:   "eventdate",
		},
		{
			name:      "free-form end date",
			req:       models.SearchRequest{Query: "golang", EndDate: "next friday"},
			wantField: "end_date",
			wantTag:   "eventdate",
		},
		{
			name:      "query too long",
			req:       models.SearchRequest{Query: strings.Repeat("q", 201)},
			wantField: "query",
			wantTag:   "max",
		},
		{
			name:      "empty exclude term",
			req:       models.SearchRequest{Query: "golang", Exclude: []string{""}},
			wantField: "exclude[0]",
			wantTag:   "min",
		},
		{
			name:      "too many excludes",
			req:       models.SearchRequest{Query: "golang", Exclude: make21("x")},
			wantField: "exclude",
			wantTag:   "max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(&tt.req)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("unexpected error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("expected a validation error")
			}
			fields := verr.Fields()
			if len(fields) != 1 {
				t.Fatalf("got %d field errors: %v", len(fields), verr)
			}
			if fields[0].Field != tt.wantField || fields[0].Tag != tt.wantTag {
				t.Errorf("got %s/%s, want %s/%s", fields[0].Field, fields[0].Tag, tt.wantField, tt.wantTag)
			}
		})
	}
}

func make21(term string) []string {
	out := make([]string, 21)
	for i := range out {
		out[i] = term
	}
	return out
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		req  models.SearchRequest
		want string
	}{
		{"string max", models.SearchRequest{Query: strings.Repeat("q", 201)}, "query must be at most 200 characters"},
		{"slice max", models.SearchRequest{Query: "go", Exclude: make21("x")}, "exclude must be at most 20 items"},
		{"element min", models.SearchRequest{Query: "go", Exclude: []string{""}}, "exclude[0] must be at least 1 characters"},
		{"eventdate", models.SearchRequest{Query: "go", StartDate: "soon"}, "start_date must be a date (YYYY-MM-DD) or an RFC 3339 timestamp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(&tt.req)
			if verr == nil {
				t.Fatal("expected a validation error")
			}
			if verr.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", verr.Error(), tt.want)
			}
		})
	}
}

func TestToAPIError_SingleField(t *testing.T) {
	verr := ValidateStruct(&models.SearchRequest{Query: "go", StartDate: "tomorrow"})
	if verr == nil {
		t.Fatal("expected a validation error")
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != CodeValidationError {
		t.Errorf("Code = %q", apiErr.Code)
	}
	if apiErr.Details["field"] != "start_date" || apiErr.Details["tag"] != "eventdate" {
		t.Errorf("Details = %v", apiErr.Details)
	}
}

func TestToAPIError_MultipleFields(t *testing.T) {
	verr := ValidateStruct(&models.SearchRequest{Query: "go", StartDate: "x", EndDate: "y"})
	if verr == nil {
		t.Fatal("expected a validation error")
	}

	apiErr := verr.ToAPIError()
	if !strings.Contains(apiErr.Message, "start_date: ") || !strings.Contains(apiErr.Message, "end_date: ") {
		t.Errorf("Message = %q", apiErr.Message)
	}
	fields, ok := apiErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Fatalf("Details[fields] = %#v", apiErr.Details["fields"])
	}
}

func TestToAPIError_Empty(t *testing.T) {
	apiErr := (&RequestValidationError{}).ToAPIError()
	if apiErr.Code != CodeValidationError || apiErr.Message != "Validation failed" {
		t.Errorf("got %+v", apiErr)
	}
}

func TestFieldNameFallback(t *testing.T) {
	type untagged struct {
		Limit int `validate:"min=1"`
	}
	verr := ValidateStruct(&untagged{})
	if verr == nil {
		t.Fatal("expected a validation error")
	}
	if got := verr.Fields()[0].Field; got != "Limit" {
		t.Errorf("Field = %q, want Limit", got)
	}
	if got := verr.Error(); got != "Limit must be at least 1" {
		t.Errorf("Error() = %q", got)
	}
}
