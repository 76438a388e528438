package stats

import (
	"strings"
	"time"

	"github.com/0xmhha/landing-dashboard/pkg/daykey"
	"github.com/0xmhha/landing-dashboard/pkg/parser"
)

// LastResponseLayout renders the most recent response instant.
const LastResponseLayout = "02/01/2006 15:04"

// moreInfoReasons are the motivos counted as asking for follow-up.
var moreInfoReasons = map[string]bool{
	"consulta":   true,
	"cotización": true,
	"cotizacion": true,
}

// Summary holds the headline KPIs of the record set.
type Summary struct {
	TotalResponses int `json:"total_responses"`

	// UniqueNames counts distinct non-blank nombre values.
	UniqueNames int `json:"unique_names"`

	// WantsMoreInfo counts responses whose motivo asks for a consultation
	// or a quote.
	WantsMoreInfo int `json:"wants_more_info"`

	// UniqueReasons counts distinct non-blank motivo values.
	UniqueReasons int `json:"unique_reasons"`

	// LastResponse is the latest timestamp for display, or NoValue.
	LastResponse string `json:"last_response"`

	// LastResponseAt is the instant behind LastResponse when known.
	LastResponseAt *time.Time `json:"last_response_at,omitempty"`
}

// Summarize computes the KPIs. A nil normalizer uses the local zone.
//
// LastResponse is the latest parseable instant rendered with
// LastResponseLayout, except that browser-rendered long-form timestamps are
// shown as received. When no timestamp parses, the lexically greatest raw
// timestamp is shown.
func Summarize(records []parser.Record, n *daykey.Normalizer) Summary {
	if n == nil {
		n = daykey.New(nil)
	}

	sum := Summary{
		TotalResponses: len(records),
		LastResponse:   NoValue,
	}

	names := make(map[string]struct{})
	reasons := make(map[string]struct{})

	var (
		latest    time.Time
		latestRaw string
		maxRaw    string
	)

	for _, r := range records {
		if name := strings.TrimSpace(r.Nombre()); name != "" {
			names[name] = struct{}{}
		}

		motivo := strings.TrimSpace(r.Motivo())
		if motivo != "" {
			reasons[motivo] = struct{}{}
		}
		if moreInfoReasons[strings.ToLower(motivo)] {
			sum.WantsMoreInfo++
		}

		raw := strings.TrimSpace(r.Timestamp())
		if raw == "" {
			continue
		}
		if raw > maxRaw {
			maxRaw = raw
		}
		t, err := n.ParseInstant(raw)
		if err != nil {
			continue
		}
		if latestRaw == "" || t.After(latest) {
			latest = t
			latestRaw = raw
		}
	}

	sum.UniqueNames = len(names)
	sum.UniqueReasons = len(reasons)

	switch {
	case latestRaw != "":
		at := latest
		sum.LastResponseAt = &at
		if daykey.FormatName(latestRaw) == "long-form" {
			sum.LastResponse = latestRaw
		} else {
			sum.LastResponse = latest.Format(LastResponseLayout)
		}
	case maxRaw != "":
		sum.LastResponse = maxRaw
	}

	return sum
}
