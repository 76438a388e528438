package daykey

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestNormalize(t *testing.T) {
	n := New(mustLoad(t, "America/Mexico_City"))

	tests := []struct {
		name   string
		raw    string
		want   Key
		format string
	}{
		{name: "long-form spaced meridiem", raw: "28/07/2025, 03:47:51 p. m.", want: "28/07/2025", format: "long-form"},
		{name: "long-form compact meridiem", raw: "28/07/2025, 09:00:00 a.m.", want: "28/07/2025", format: "long-form"},
		{name: "long-form with non-breaking spaces", raw: "28/07/2025,\u00a003:47:51\u00a0p.\u00a0m.", want: "28/07/2025", format: "long-form"},
		{name: "long-form narrow no-break space", raw: "1/8/2025, 3:47:51\u202fp.\u202fm.", want: "01/08/2025", format: "long-form"},
		{name: "long-form non-date head", raw: "lunes, 3 p. m.", want: "lunes", format: "long-form"},
		{name: "long-form month first head", raw: "7/28/2025, 3:47:51 p. m.", want: "7/28/2025", format: "long-form"},
		{name: "long-form impossible day", raw: "31/02/2025, 10:00:00 a. m.", want: "31/02/2025", format: "long-form"},
		{name: "iso utc", raw: "2025-07-28T15:47:51.000Z", want: "28/07/2025", format: "iso-8601"},
		{name: "iso shifts across midnight", raw: "2025-07-29T03:00:00Z", want: "28/07/2025", format: "iso-8601"},
		{name: "iso with offset", raw: "2025-07-28T23:30:00-06:00", want: "28/07/2025", format: "iso-8601"},
		{name: "iso zoneless is local", raw: "2025-07-29T00:10:00", want: "29/07/2025", format: "iso-8601"},
		{name: "iso zoneless minutes", raw: "2025-07-29T00:10", want: "29/07/2025", format: "iso-8601"},
		{name: "date-time", raw: "2025-07-29 09:00:00", want: "29/07/2025", format: "date-time"},
		{name: "date-time without seconds", raw: "2025-07-29 09:00", want: "29/07/2025", format: "date-time"},
		{name: "bare date", raw: "2025-07-30", want: "30/07/2025", format: "date"},
		{name: "passthrough", raw: "  ayer  ", want: "ayer", format: "passthrough"},
		{name: "passthrough dmy", raw: "30/07/2025", want: "30/07/2025", format: "passthrough"},
		{name: "passthrough short dmy", raw: "1/8/2025", want: "01/08/2025", format: "passthrough"},
		{name: "passthrough impossible dmy", raw: "31/02/2025", want: "31/02/2025", format: "passthrough"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Normalize(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.format, FormatName(tt.raw))
		})
	}
}

func TestNormalizeSameDayAcrossFormats(t *testing.T) {
	n := New(time.UTC)

	raws := []string{
		"2025-07-28T15:47:51.000Z",
		"28/07/2025, 03:47:51 p. m.",
		"2025-07-28 09:00:00",
		"2025-07-28",
		"28/7/2025, 11:00:00 a. m.",
	}

	for _, raw := range raws {
		got, err := n.Normalize(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, Key("28/07/2025"), got, raw)
	}
}

func TestNormalizeBareDateIgnoresZone(t *testing.T) {
	for _, zone := range []string{"Pacific/Kiritimati", "Pacific/Pago_Pago", "UTC"} {
		got, err := New(mustLoad(t, zone)).Normalize("2025-07-28")
		require.NoError(t, err)
		assert.Equal(t, Key("28/07/2025"), got, zone)
	}
}

func TestNormalizeErrors(t *testing.T) {
	n := New(time.UTC)

	t.Run("blank", func(t *testing.T) {
		for _, raw := range []string{"", "   ", "\u00a0"} {
			_, err := n.Normalize(raw)
			assert.ErrorIs(t, err, ErrEmpty)
		}
	})

	unparseable := []struct {
		name   string
		raw    string
		format string
	}{
		{name: "iso month 13", raw: "2025-13-01T00:00:00Z", format: "iso-8601"},
		{name: "date-time bad hour", raw: "2025-07-28 25:00:00", format: "date-time"},
		{name: "bare date feb 30", raw: "2025-02-30", format: "date"},
	}

	for _, tt := range unparseable {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnparseable)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.format, parseErr.Format)
			assert.Equal(t, tt.raw, parseErr.Input)
		})
	}
}

func TestParseInstant(t *testing.T) {
	loc := mustLoad(t, "America/Mexico_City")
	n := New(loc)

	tests := []struct {
		raw  string
		want time.Time
	}{
		{"28/07/2025, 03:47:51 p. m.", time.Date(2025, 7, 28, 15, 47, 51, 0, loc)},
		{"28/07/2025, 12:05:00 a. m.", time.Date(2025, 7, 28, 0, 5, 0, 0, loc)},
		{"2025-07-28T15:47:51.000Z", time.Date(2025, 7, 28, 15, 47, 51, 0, time.UTC)},
		{"2025-07-29 09:00:00", time.Date(2025, 7, 29, 9, 0, 0, 0, loc)},
		{"2025-07-30", time.Date(2025, 7, 30, 0, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := n.ParseInstant(tt.raw)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
			assert.Equal(t, loc, got.Location())
		})
	}

	_, err := n.ParseInstant("ayer")
	assert.ErrorIs(t, err, ErrNoInstant)

	_, err = n.ParseInstant("lunes, 3 p. m.")
	assert.ErrorIs(t, err, ErrUnparseable)
}

func TestKeyDate(t *testing.T) {
	d, ok := Key("05/08/2025").Date()
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC), d)

	_, ok = Key("31/04/2025").Date()
	assert.False(t, ok)

	_, ok = Key("Sin datos disponibles").Date()
	assert.False(t, ok)
}

func TestFormatsOrder(t *testing.T) {
	names := make([]string, 0)
	for _, f := range Formats() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"long-form", "iso-8601", "date-time", "date", "passthrough"}, names)
}

func TestNewDefaultsToLocal(t *testing.T) {
	assert.Equal(t, time.Local, New(nil).Location())
}
