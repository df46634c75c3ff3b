package forms

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/entities"
)

func TestParseAuthor(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		errors Errors
	}{
		{
			name:   "valid with dates",
			values: url.Values{"first_name": {" Isaac "}, "family_name": {"Asimov"}, "date_of_birth": {"1920-01-02"}, "date_of_death": {"1992-04-06"}},
		},
		{
			name:   "dates are optional",
			values: url.Values{"first_name": {"Isaac"}, "family_name": {"Asimov"}},
		},
		{
			name:   "everything wrong in field order",
			values: url.Values{"first_name": {""}, "family_name": {"O'Brien"}, "date_of_birth": {"soon"}, "date_of_death": {"later"}},
			errors: Errors{
				{Field: "first_name", Message: "First name must be specified."},
				{Field: "family_name", Message: "Family name has non-alphanumeric characters."},
				{Field: "date_of_birth", Message: "Invalid date of birth"},
				{Field: "date_of_death", Message: "Invalid date of death"},
			},
		},
		{
			name:   "whitespace only is missing",
			values: url.Values{"first_name": {"   "}, "family_name": {"   "}},
			errors: Errors{
				{Field: "first_name", Message: "First name must be specified."},
				{Field: "family_name", Message: "Family name must be specified."},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, errs := ParseAuthor(tc.values)
			if diff := cmp.Diff(tc.errors, errs); diff != "" {
				t.Errorf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseAuthor_SanitizedForRedisplay(t *testing.T) {
	form, errs := ParseAuthor(url.Values{"first_name": {" Jo "}, "family_name": {"<b>"}})
	require.Len(t, errs, 1)
	assert.Equal(t, "Jo", form.FirstName)
	assert.Equal(t, "&lt;b&gt;", form.FamilyName)
}

func TestAuthorForm_Author(t *testing.T) {
	form, errs := ParseAuthor(url.Values{"first_name": {"Isaac"}, "family_name": {"Asimov"}, "date_of_birth": {"1920-01-02"}})
	require.Empty(t, errs)

	author := form.Author()
	assert.Equal(t, "Asimov, Isaac", author.FullName())
	require.NotNil(t, author.DateOfBirth)
	assert.Equal(t, time.Date(1920, 1, 2, 0, 0, 0, 0, time.UTC), *author.DateOfBirth)
	assert.Nil(t, author.DateOfDeath)
}

func TestAuthorFormFrom(t *testing.T) {
	dob := time.Date(1920, 1, 2, 0, 0, 0, 0, time.UTC)
	form := AuthorFormFrom(entities.Author{FirstName: "Isaac", FamilyName: "Asimov", DateOfBirth: &dob})
	assert.Equal(t, "1920-01-02", form.DateOfBirth)
	assert.Empty(t, form.DateOfDeath)
}
