// Package forms turns submitted catalog forms into sanitized records.
//
// Every form goes through the same pipeline: multi-valued fields are
// normalized into sets, scalar fields are trimmed, the struct is validated
// with go-playground/validator, and text fields are escaped. The sanitized
// form is always returned so a failed submission can be redisplayed.
package forms

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"github.com/mrlokans/library/internal/entities"
)

// FieldError is a validation failure attached to one form field.
type FieldError struct {
	Field   string
	Message string
}

// Errors is an ordered list of field errors. Order follows field
// declaration order in the form.
type Errors []FieldError

// Has reports whether field has at least one error.
func (e Errors) Has(field string) bool {
	return lo.ContainsBy(e, func(fe FieldError) bool { return fe.Field == field })
}

// Messages returns the error messages in order.
func (e Errors) Messages() []string {
	return lo.Map(e, func(fe FieldError, _ int) string { return fe.Message })
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("isodate", isISODate); err != nil {
		panic(fmt.Sprintf("register isodate validator: %v", err))
	}
	return v
}

func isISODate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := ParseDate(s)
	return err == nil
}

// messages maps "field.tag" (or a bare "field" fallback) to the message shown
// to the user.
type messages map[string]string

func (m messages) lookup(field, tag string) string {
	if msg, ok := m[field+"."+tag]; ok {
		return msg
	}
	if msg, ok := m[field]; ok {
		return msg
	}
	return "Invalid " + field + "."
}

// check validates rules and converts the failures into ordered field errors.
func check(rules any, table messages) Errors {
	err := validate.Struct(rules)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return Errors{{Field: "", Message: err.Error()}}
	}

	errs := make(Errors, 0, len(invalid))
	for _, fe := range invalid {
		// Elements of a set report as "genre[1]".
		field, _, _ := strings.Cut(fe.Field(), "[")
		errs = append(errs, FieldError{Field: field, Message: table.lookup(field, fe.Tag())})
	}
	return lo.Uniq(errs)
}

// NormalizeSet returns the values submitted under key as a set: absent
// becomes an empty set, duplicates are dropped and first-seen order kept.
func NormalizeSet(values url.Values, key string) []string {
	raw := values[key]
	if len(raw) == 0 {
		return []string{}
	}
	return lo.Uniq(lo.Map(raw, func(s string, _ int) string { return strings.TrimSpace(s) }))
}

var dateLayouts = []string{entities.InputDateLayout, time.RFC3339}

// ParseDate parses an ISO 8601 date (YYYY-MM-DD or a full RFC 3339
// timestamp). The result is truncated to the UTC calendar day.
func ParseDate(s string) (*time.Time, error) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			t = t.UTC()
			day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &day, nil
		}
	}
	return nil, fmt.Errorf("invalid ISO 8601 date %q", s)
}

// optionalDate parses a date that has already passed validation.
func optionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil
	}
	return t
}

func field(values url.Values, key string) string {
	return strings.TrimSpace(values.Get(key))
}

// idField reads an identifier. Identifiers compare case-insensitively.
func idField(values url.Values, key string) string {
	return strings.ToLower(field(values, key))
}

func lowerAll(values []string) []string {
	return lo.Uniq(lo.Map(values, func(s string, _ int) string { return strings.ToLower(s) }))
}
