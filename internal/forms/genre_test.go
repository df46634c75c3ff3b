package forms

import (
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

// Creation and renaming enforce different minimum lengths.
func TestGenreRules_DifferBetweenCreateAndUpdate(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		createErrs Errors
		updateErrs Errors
	}{
		{
			name:       "empty",
			input:      "",
			createErrs: Errors{{Field: "name", Message: "Genre name required"}},
			updateErrs: Errors{{Field: "name", Message: "Genre name must contain at least 3 characters"}},
		},
		{
			name:       "two characters",
			input:      "Sf",
			updateErrs: Errors{{Field: "name", Message: "Genre name must contain at least 3 characters"}},
		},
		{
			name:  "three characters",
			input: "Art",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			values := url.Values{"name": {tc.input}}

			_, errs := ParseGenreCreate(values)
			if diff := cmp.Diff(tc.createErrs, errs); diff != "" {
				t.Errorf("create errors mismatch (-want +got):\n%s", diff)
			}

			_, errs = ParseGenreUpdate(values)
			if diff := cmp.Diff(tc.updateErrs, errs); diff != "" {
				t.Errorf("update errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseGenreCreate_Escapes(t *testing.T) {
	form, errs := ParseGenreCreate(url.Values{"name": {" Sci/Fi & Fantasy "}})
	assert.Empty(t, errs)
	assert.Equal(t, "Sci&#x2F;Fi &amp; Fantasy", form.Name)
	assert.Equal(t, form.Name, form.Genre().Name)
}

func TestParseGenreCreate_LimitAppliesBeforeEscaping(t *testing.T) {
	name := strings.Repeat("/", 100)

	form, errs := ParseGenreCreate(url.Values{"name": {name}})
	assert.Empty(t, errs)
	assert.Equal(t, strings.Repeat("&#x2F;", 100), form.Name)
	assert.Len(t, form.Name, 600)
}
