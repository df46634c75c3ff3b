package forms

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSet(t *testing.T) {
	tests := []struct {
		name     string
		values   url.Values
		expected []string
	}{
		{"absent", url.Values{}, []string{}},
		{"single", url.Values{"genre": {"a"}}, []string{"a"}},
		{"many", url.Values{"genre": {"a", "b"}}, []string{"a", "b"}},
		{"duplicates dropped in order", url.Values{"genre": {"b", "a", "b"}}, []string{"b", "a"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeSet(tc.values, "genre")
			require.NotNil(t, got)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	t.Run("calendar date", func(t *testing.T) {
		got, err := ParseDate("1920-01-02")
		require.NoError(t, err)
		assert.Equal(t, time.Date(1920, 1, 2, 0, 0, 0, 0, time.UTC), *got)
	})

	t.Run("timestamp is truncated to the day", func(t *testing.T) {
		got, err := ParseDate("2020-03-04T15:04:05Z")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2020, 3, 4, 0, 0, 0, 0, time.UTC), *got)
	})

	t.Run("offset timestamp lands on the UTC day", func(t *testing.T) {
		got, err := ParseDate("2020-01-01T23:00:00-05:00")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), *got)

		got, err = ParseDate("2020-01-02T01:00:00+03:00")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), *got)
	})

	for _, bad := range []string{"yesterday", "2020-13-01", "02/01/1920"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "Tom &amp; Jerry", Escape("Tom & Jerry"))
	assert.Equal(t, "&lt;b&gt;&quot;hi&quot;&lt;&#x2F;b&gt;", Escape(`<b>"hi"</b>`))
	assert.Equal(t, "it&#x27;s &#x5C; &#96;x&#96;", Escape("it's \\ `x`"))
	assert.Equal(t, "plain", Escape("plain"))
}

func TestErrors_Helpers(t *testing.T) {
	errs := Errors{{Field: "title", Message: "a"}, {Field: "isbn", Message: "b"}}
	assert.True(t, errs.Has("isbn"))
	assert.False(t, errs.Has("summary"))
	assert.Equal(t, []string{"a", "b"}, errs.Messages())
}
