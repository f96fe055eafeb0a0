package rest

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRange(t *testing.T) {
	assert.NoError(t, ValidateRange("", ""))
	assert.NoError(t, ValidateRange("2024-05-01", ""))
	assert.NoError(t, ValidateRange("", "2024-05-01"))
	assert.NoError(t, ValidateRange("2024-05-01", "2024-05-01"))
	assert.NoError(t, ValidateRange("2024-05-01", "2024-05-15"))
	assert.ErrorIs(t, ValidateRange("2024-05-15", "2024-05-01"), ErrInvalidRange)
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
		want  Pagination
	}{
		{"defaults when absent", url.Values{}, Pagination{Page: 1, Limit: 50}},
		{"reads page and limit", url.Values{"page": {"3"}, "limit": {"20"}}, Pagination{Page: 3, Limit: 20}},
		{"clamps limit to the maximum", url.Values{"limit": {"9999"}}, Pagination{Page: 1, Limit: 200}},
		{"ignores non-positive values", url.Values{"page": {"0"}, "limit": {"-5"}}, Pagination{Page: 1, Limit: 50}},
		{"ignores garbage", url.Values{"page": {"two"}, "limit": {"many"}}, Pagination{Page: 1, Limit: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePagination(tt.query, 50, 200))
		})
	}
}

func TestPagination_Offset(t *testing.T) {
	assert.Equal(t, 0, Pagination{Page: 1, Limit: 50}.Offset())
	assert.Equal(t, 100, Pagination{Page: 3, Limit: 50}.Offset())
}

func TestParseDateParam(t *testing.T) {
	t.Run("absent parameter is empty", func(t *testing.T) {
		v, err := ParseDateParam(url.Values{}, "from")
		assert.NoError(t, err)
		assert.Equal(t, "", v)
	})

	t.Run("valid date passes through", func(t *testing.T) {
		v, err := ParseDateParam(url.Values{"from": {"2024-05-14"}}, "from")
		assert.NoError(t, err)
		assert.Equal(t, "2024-05-14", v)
	})

	t.Run("malformed date is rejected", func(t *testing.T) {
		_, err := ParseDateParam(url.Values{"from": {"14/05/2024"}}, "from")
		assert.Error(t, err)
	})
}

func TestParseBoolParam(t *testing.T) {
	for _, v := range []string{"true", "1", "yes", "Y", "on"} {
		b := ParseBoolParam(url.Values{"isActive": {v}}, "isActive")
		assert.NotNil(t, b, v)
		assert.True(t, *b, v)
	}
	for _, v := range []string{"false", "0", "no", "N", "off"} {
		b := ParseBoolParam(url.Values{"isActive": {v}}, "isActive")
		assert.NotNil(t, b, v)
		assert.False(t, *b, v)
	}
	assert.Nil(t, ParseBoolParam(url.Values{}, "isActive"))
	assert.Nil(t, ParseBoolParam(url.Values{"isActive": {"maybe"}}, "isActive"))
}
