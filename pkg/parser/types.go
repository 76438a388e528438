// Package parser decodes the landing-page feed into records.
//
// The upstream API is loosely shaped: it may answer with a JSON array of
// responses, with an envelope holding the array under "data", "results" or
// "response", or with an object keyed by response id. DecodeFeed accepts all
// three and always yields a flat slice of records.
//
// Example usage:
//
//	records, err := parser.DecodeFeed(body)
//	if err != nil {
//	    return err
//	}
//	for _, r := range records {
//	    fmt.Println(r.Timestamp(), r.Motivo())
//	}
package parser

import (
	"strings"

	"github.com/bytedance/sonic"
)

// Field names used by the landing-page form.
const (
	FieldTimestamp = "timestamp"
	FieldFecha     = "fecha"
	FieldMensaje   = "mensaje"
	FieldMotivo    = "motivo"
	FieldNombre    = "nombre"
)

// Record is one landing-page response as received from the feed.
//
// Records are treated as immutable once decoded; read them through the
// accessors, which render missing fields as "".
type Record map[string]any

// Get returns the text of a field.
//
// Strings are returned unchanged, null and missing fields as "", and any
// other value as its JSON text.
func (r Record) Get(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}

	text, err := sonic.MarshalString(v)
	if err != nil {
		return ""
	}
	return text
}

// Timestamp returns the raw timestamp of the response.
//
// "timestamp" wins over "fecha" when both are present and non-blank.
func (r Record) Timestamp() string {
	if ts := r.Get(FieldTimestamp); strings.TrimSpace(ts) != "" {
		return ts
	}
	return r.Get(FieldFecha)
}

// Mensaje returns the free-text message.
func (r Record) Mensaje() string { return r.Get(FieldMensaje) }

// Motivo returns the contact reason.
func (r Record) Motivo() string { return r.Get(FieldMotivo) }

// Nombre returns the respondent name.
func (r Record) Nombre() string { return r.Get(FieldNombre) }
