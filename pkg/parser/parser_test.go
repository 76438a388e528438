package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFeed(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantNames []string
	}{
		{
			name:      "array",
			body:      `[{"nombre":"Ana"},{"nombre":"Luis"}]`,
			wantNames: []string{"Ana", "Luis"},
		},
		{
			name:      "data envelope",
			body:      `{"count":2,"data":[{"nombre":"Ana"},{"nombre":"Luis"}]}`,
			wantNames: []string{"Ana", "Luis"},
		},
		{
			name:      "results envelope",
			body:      `{"results":[{"nombre":"Eva"}]}`,
			wantNames: []string{"Eva"},
		},
		{
			name:      "response envelope",
			body:      `{"response":[{"nombre":"Eva"}]}`,
			wantNames: []string{"Eva"},
		},
		{
			name:      "object keyed by id",
			body:      `{"10":{"nombre":"C"},"2":{"nombre":"B"},"x":{"nombre":"D"},"1":{"nombre":"A"}}`,
			wantNames: []string{"A", "B", "C", "D"},
		},
		{
			name:      "non-array envelope value falls back to values",
			body:      `{"data":{"nombre":"Solo"}}`,
			wantNames: []string{"Solo"},
		},
		{
			name:      "non-object elements become empty records",
			body:      `[1,{"nombre":"Ana"}]`,
			wantNames: []string{"", "Ana"},
		},
		{
			name:      "empty array",
			body:      `[]`,
			wantNames: []string{},
		},
		{
			name:      "null",
			body:      `null`,
			wantNames: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := DecodeFeed([]byte(tt.body))
			require.NoError(t, err)

			names := make([]string, 0, len(records))
			for _, r := range records {
				names = append(names, r.Nombre())
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestDecodeFeedErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "invalid json", body: `{"invalid json`, wantErr: ErrMalformedJSON},
		{name: "html error page", body: `<html>502</html>`, wantErr: ErrMalformedJSON},
		{name: "scalar", body: `"hola"`, wantErr: ErrUnexpectedShape},
		{name: "number", body: `42`, wantErr: ErrUnexpectedShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFeed([]byte(tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var parseErr *ParseError
			assert.True(t, errors.As(err, &parseErr))
		})
	}
}

func TestDecodeTooLarge(t *testing.T) {
	body := strings.NewReader("[" + strings.Repeat(" ", MaxFeedSize) + "]")

	_, err := Decode(body)
	assert.ErrorIs(t, err, ErrFeedTooLarge)
}

func TestRecordAccessors(t *testing.T) {
	records, err := DecodeFeed([]byte(`[
		{"timestamp":"2025-07-28T15:47:51.000Z","fecha":"2025-07-01","motivo":"consulta","mensaje":"hola","nombre":"Ana"},
		{"timestamp":"  ","fecha":"28/07/2025, 03:47:51 p. m."},
		{"timestamp":null,"fecha":"2025-07-29"},
		{"nombre":42,"motivo":true}
	]`))
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, "2025-07-28T15:47:51.000Z", records[0].Timestamp())
	assert.Equal(t, "consulta", records[0].Motivo())
	assert.Equal(t, "hola", records[0].Mensaje())
	assert.Equal(t, "Ana", records[0].Nombre())

	assert.Equal(t, "28/07/2025, 03:47:51 p. m.", records[1].Timestamp())
	assert.Equal(t, "2025-07-29", records[2].Timestamp())

	assert.Equal(t, "", records[3].Timestamp())
	assert.Equal(t, "", records[3].Mensaje())
	assert.Equal(t, "42", records[3].Nombre())
	assert.Equal(t, "true", records[3].Motivo())
}

func TestParseErrorTruncates(t *testing.T) {
	err := &ParseError{Data: strings.Repeat("x", 500), Err: ErrMalformedJSON}

	assert.Less(t, len(err.Error()), 200)
	assert.True(t, strings.HasSuffix(err.Error(), "..."))
}
