// File: cmd/api/helpers_test.go
// Description: Tests for JSON and query parameter helpers

package main

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"contactsapi/internal/validator"
)

func TestWriteJSON(t *testing.T) {
	app, _ := newTestApp(t)

	rr := httptest.NewRecorder()
	err := app.writeJSON(rr, 200, envelope{"message": "hello"}, nil)
	if err != nil {
		t.Fatalf("writeJSON returned error: %v", err)
	}

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json content type, got %q", ct)
	}
	if !strings.Contains(rr.Body.String(), `"message": "hello"`) {
		t.Errorf("Unexpected body: %s", rr.Body.String())
	}
}

func TestReadJSON(t *testing.T) {
	app, _ := newTestApp(t)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"Valid body", `{"name": "John"}`, ""},
		{"Malformed JSON", `{"name": `, "badly-formed JSON"},
		{"Unknown field", `{"bogus": "x"}`, "unknown key"},
		{"Wrong type", `{"name": 42}`, "incorrect JSON type"},
		{"Empty body", ``, "must not be empty"},
		{"Multiple values", `{"name": "a"}{"name": "b"}`, "single JSON value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()

			var dest struct {
				Name string `json:"name"`
			}
			err := app.readJSON(rr, req, &dest)

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGetSingleIntQueryParameter(t *testing.T) {
	app, _ := newTestApp(t)

	t.Run("Valid integer", func(t *testing.T) {
		v := validator.New()
		query := url.Values{"page": []string{"3"}}
		got := app.getSingleIntQueryParameter(query, "page", 1, v)
		if got != 3 || !v.IsValid() {
			t.Errorf("Expected 3 with no errors, got %d (errors %v)", got, v.Errors)
		}
	})

	t.Run("Missing parameter falls back to default", func(t *testing.T) {
		v := validator.New()
		got := app.getSingleIntQueryParameter(url.Values{}, "page", 1, v)
		if got != 1 || !v.IsValid() {
			t.Errorf("Expected default 1, got %d", got)
		}
	})

	t.Run("Non-integer records a validation error", func(t *testing.T) {
		v := validator.New()
		query := url.Values{"page": []string{"abc"}}
		app.getSingleIntQueryParameter(query, "page", 1, v)
		if v.IsValid() {
			t.Error("Expected a validation error for non-integer value")
		}
	})
}

func TestReadFilters(t *testing.T) {
	app, _ := newTestApp(t)
	safelist := []string{"id", "-id", "first_name"}

	t.Run("Defaults", func(t *testing.T) {
		v := validator.New()
		filter := app.readFilters(url.Values{}, "id", 20, safelist, v)

		if !v.IsValid() {
			t.Fatalf("Expected valid defaults, got errors %v", v.Errors)
		}
		if filter.Page != 1 || filter.PageSize != 20 || filter.SortBy != "id" {
			t.Errorf("Unexpected defaults: %+v", filter)
		}
	})

	t.Run("Unsafe sort is rejected", func(t *testing.T) {
		v := validator.New()
		query := url.Values{"sort": []string{"password_hash"}}
		app.readFilters(query, "id", 20, safelist, v)

		if v.IsValid() {
			t.Error("Expected a validation error for unsafe sort value")
		}
	})

	t.Run("Oversized page size is rejected", func(t *testing.T) {
		v := validator.New()
		query := url.Values{"page_size": []string{"5000"}}
		app.readFilters(query, "id", 20, safelist, v)

		if v.IsValid() {
			t.Error("Expected a validation error for oversized page size")
		}
	})
}
