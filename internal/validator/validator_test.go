package validator

import "testing"

func TestCheckAndIsValid(t *testing.T) {
	v := New()

	if !v.IsValid() {
		t.Error("new validator should have no errors")
	}

	v.Check(true, "ok", "should not be recorded")
	if !v.IsValid() {
		t.Error("passing check should not record an error")
	}

	v.Check(false, "field", "first message")
	v.Check(false, "field", "second message")

	if v.IsValid() {
		t.Error("failing check should record an error")
	}
	if got := v.Errors["field"]; got != "first message" {
		t.Errorf("expected first message to win, got %q", got)
	}
}

func TestMatchesEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"john@example.com", true},
		{"john.doe+tag@sub.example.co.uk", true},
		{"not-an-email", false},
		{"@example.com", false},
		{"john@", false},
	}

	v := New()
	for _, tt := range tests {
		if got := v.Matches(tt.email, EmailRX); got != tt.want {
			t.Errorf("Matches(%q, EmailRX) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestMatchesPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"+501 605-1234", true},
		{"6051234", true},
		{"(123) 456-7890", true},
		{"12345", false},
		{"abc-def", false},
	}

	v := New()
	for _, tt := range tests {
		if got := v.Matches(tt.phone, PhoneRX); got != tt.want {
			t.Errorf("Matches(%q, PhoneRX) = %v, want %v", tt.phone, got, tt.want)
		}
	}
}

func TestPermitted(t *testing.T) {
	v := New()

	if !v.Permitted("user", "user", "admin") {
		t.Error("expected 'user' to be permitted")
	}
	if v.Permitted("root", "user", "admin") {
		t.Error("expected 'root' to be rejected")
	}
}
