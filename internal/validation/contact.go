package validation

import (
	"strings"
	"unicode/utf8"
)

const (
	maxNameLength    = 100
	maxEmailLength   = 254
	maxSubjectLength = 200
	maxMessageLength = 5000
	maxPhoneLength   = 20

	minNameLength    = 2
	minSubjectLength = 3
	minMessageLength = 10
)

// ContactForm is a sanitized submission. A value produced by
// ValidateContactForm needs no further checks.
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Phone   string `json:"phone,omitempty"`
}

// Fields returns every populated field, phone included when present.
func (f ContactForm) Fields() []string {
	fields := []string{f.Name, f.Email, f.Subject, f.Message}
	if f.Phone != "" {
		fields = append(fields, f.Phone)
	}
	return fields
}

// Result either carries a fully sanitized form or the reasons it was
// rejected, never both.
type Result struct {
	Data   *ContactForm
	Errors []string
}

func (r Result) Valid() bool {
	return r.Data != nil && len(r.Errors) == 0
}

// ValidateContactForm checks raw decoded JSON. Every field is inspected so
// the caller gets the complete error list in one round trip.
func ValidateContactForm(raw any) Result {
	data, ok := raw.(map[string]any)
	if !ok || data == nil {
		return Result{Errors: []string{"Invalid data format"}}
	}

	var (
		form   ContactForm
		errors []string
	)

	if v, ok := requiredString(data, "name"); !ok {
		errors = append(errors, "Name is required")
	} else if name := SanitizeString(v, maxNameLength); utf8.RuneCountInString(name) < minNameLength {
		errors = append(errors, "Name must be at least 2 characters long")
	} else {
		form.Name = name
	}

	if v, ok := requiredString(data, "email"); !ok {
		errors = append(errors, "Email is required")
	} else if email := SanitizeString(v, maxEmailLength); !ValidateEmail(email) {
		errors = append(errors, "Invalid email format")
	} else {
		form.Email = strings.ToLower(email)
	}

	if v, ok := requiredString(data, "subject"); !ok {
		errors = append(errors, "Subject is required")
	} else if subject := SanitizeString(v, maxSubjectLength); utf8.RuneCountInString(subject) < minSubjectLength {
		errors = append(errors, "Subject must be at least 3 characters long")
	} else {
		form.Subject = subject
	}

	if v, ok := requiredString(data, "message"); !ok {
		errors = append(errors, "Message is required")
	} else if message := SanitizeString(v, maxMessageLength); utf8.RuneCountInString(message) < minMessageLength {
		errors = append(errors, "Message must be at least 10 characters long")
	} else {
		form.Message = message
	}

	// Phone is optional; blank or non-string values are ignored
	if v, ok := requiredString(data, "phone"); ok {
		if phone := SanitizeString(v, maxPhoneLength); phone != "" {
			if ValidatePhone(phone) {
				form.Phone = phone
			} else {
				errors = append(errors, "Invalid phone number format")
			}
		}
	}

	if len(errors) > 0 {
		return Result{Errors: errors}
	}
	return Result{Data: &form}
}

// RawStrings returns the string values of the known form fields as submitted,
// before sanitization.
func RawStrings(raw any) []string {
	data, ok := raw.(map[string]any)
	if !ok {
		return nil
	}

	var out []string
	for _, field := range []string{"name", "email", "subject", "message", "phone"} {
		if v, ok := data[field].(string); ok && v != "" {
			out = append(out, v)
		}
	}
	return out
}

func requiredString(data map[string]any, field string) (string, bool) {
	v, ok := data[field].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
