package forms

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/entities"
)

func TestParseBookInstance(t *testing.T) {
	bookID := uuid.New()

	t.Run("blank status defaults to maintenance", func(t *testing.T) {
		form, errs := ParseBookInstance(url.Values{"book": {bookID.String()}, "imprint": {"Ace, 1990"}})
		require.Empty(t, errs)
		instance := form.BookInstance()
		assert.Equal(t, entities.StatusMaintenance, instance.Status)
		assert.Equal(t, bookID, instance.BookID)
		assert.Nil(t, instance.DueBack)
	})

	t.Run("due date parsed", func(t *testing.T) {
		form, errs := ParseBookInstance(url.Values{"book": {bookID.String()}, "imprint": {"Ace"}, "status": {"Loaned"}, "due_back": {"2024-06-01"}})
		require.Empty(t, errs)
		instance := form.BookInstance()
		require.NotNil(t, instance.DueBack)
		assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), *instance.DueBack)
	})

	t.Run("errors in field order", func(t *testing.T) {
		_, errs := ParseBookInstance(url.Values{"status": {"Lost"}, "due_back": {"never"}})
		want := Errors{
			{Field: "book", Message: "Book must be specified."},
			{Field: "imprint", Message: "Imprint must be specified."},
			{Field: "status", Message: "Invalid status."},
			{Field: "due_back", Message: "Invalid date."},
		}
		if diff := cmp.Diff(want, errs); diff != "" {
			t.Errorf("errors mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("malformed book reference", func(t *testing.T) {
		_, errs := ParseBookInstance(url.Values{"book": {"abc"}, "imprint": {"x"}})
		assert.Equal(t, Errors{UnknownBook}, errs)
	})
}
