package service

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	apperrors "github.com/spec-kit/school-portal/pkg/util"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// fieldErrors collects input problems in the order they were found. The first
// one becomes the error message, all of them go into the details.
type fieldErrors struct {
	order  []string
	fields map[string]any
}

func (f *fieldErrors) add(field, message string) {
	if f.fields == nil {
		f.fields = map[string]any{}
	}
	if _, seen := f.fields[field]; seen {
		return
	}
	f.order = append(f.order, message)
	f.fields[field] = message
}

func (f *fieldErrors) minLength(field, value string, n int) {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < n {
		f.add(field, fmt.Sprintf("%s must be at least %d characters", field, n))
	}
}

func (f *fieldErrors) email(field, value string) {
	if !validEmail(value) {
		f.add(field, fmt.Sprintf("%s must be a valid email address", field))
	}
}

func (f *fieldErrors) optionalURL(field, value string) {
	if value == "" {
		return
	}
	u, err := url.ParseRequestURI(value)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		f.add(field, fmt.Sprintf("%s must be a valid URL", field))
	}
}

func (f *fieldErrors) err() error {
	if len(f.order) == 0 {
		return nil
	}
	return apperrors.NewValidationError(f.order[0], f.fields)
}

func validEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	return err == nil && addr.Address == value && addr.Name == ""
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
