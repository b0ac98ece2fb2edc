package validator

import (
	"regexp"
	"slices"
)

// Regular expressions shared by the data-layer validation helpers.
var (
	EmailRX           = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+\\/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")
	PhoneRX           = regexp.MustCompile(`^\+?[0-9 ()-]{6,20}$`)
	UsernameRX        = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)
	PasswordNumberRX  = regexp.MustCompile(`[0-9]`)
	PasswordUpperRX   = regexp.MustCompile(`[A-Z]`)
	PasswordLowerRX   = regexp.MustCompile(`[a-z]`)
	PasswordSpecialRX = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// Validator collects validation errors keyed by field name.
type Validator struct {
	Errors map[string]string
}

// New creates a new Validator instance.
func New() *Validator {
	return &Validator{
		Errors: make(map[string]string),
	}
}

// IsValid reports whether no validation errors have been recorded.
func (v *Validator) IsValid() bool {
	return len(v.Errors) == 0
}

// AddError records an error message for a key, keeping the first message per key.
func (v *Validator) AddError(key string, message string) {
	_, exists := v.Errors[key]
	if !exists {
		v.Errors[key] = message
	}
}

// Check adds an error message for a key if the condition is false.
func (v *Validator) Check(ok bool, key string, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// Matches checks if the value matches the given regular expression.
func (v *Validator) Matches(value string, rx *regexp.Regexp) bool {
	return rx.MatchString(value)
}

// Permitted checks if the value is within the permitted values.
func (v *Validator) Permitted(value string, permittedValues ...string) bool {
	return slices.Contains(permittedValues, value)
}
