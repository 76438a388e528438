package parser

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/bytedance/sonic"
)

// MaxFeedSize is the maximum accepted feed body (32MB).
const MaxFeedSize = 32 * 1024 * 1024

// envelopeKeys are checked in order when the feed is an object.
var envelopeKeys = []string{"data", "results", "response"}

// Decode reads a whole feed from r and decodes it with DecodeFeed.
func Decode(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFeedSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read feed: %w", err)
	}
	if len(data) > MaxFeedSize {
		return nil, &ParseError{Err: fmt.Errorf("%w: max=%d", ErrFeedTooLarge, MaxFeedSize)}
	}

	return DecodeFeed(data)
}

// DecodeFeed turns a feed body into records.
//
// Accepted shapes:
//   - array: each element is a record
//   - object with an array under "data", "results" or "response": that array
//   - any other object: its values, integer-like keys first in numeric
//     order, then the remaining keys lexically
//   - null: no records
//
// Elements that are not objects become empty records, so they still count
// as responses but carry no timestamp.
func DecodeFeed(data []byte) ([]Record, error) {
	var doc any
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{
			Data: string(data),
			Err:  fmt.Errorf("%w: %v", ErrMalformedJSON, err),
		}
	}

	switch v := doc.(type) {
	case nil:
		return []Record{}, nil
	case []any:
		return toRecords(v), nil
	case map[string]any:
		for _, key := range envelopeKeys {
			if items, ok := v[key].([]any); ok {
				return toRecords(items), nil
			}
		}
		return toRecords(orderedValues(v)), nil
	default:
		return nil, &ParseError{Data: string(data), Err: ErrUnexpectedShape}
	}
}

func toRecords(items []any) []Record {
	records := make([]Record, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			obj = map[string]any{}
		}
		records = append(records, Record(obj))
	}
	return records
}

// orderedValues returns the values of m the way a browser enumerates an
// object: array-index keys ascending, then the rest.
func orderedValues(m map[string]any) []any {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		ni, iok := indexKey(keys[i])
		nj, jok := indexKey(keys[j])
		switch {
		case iok && jok:
			return ni < nj
		case iok != jok:
			return iok
		default:
			return keys[i] < keys[j]
		}
	})

	values := make([]any, 0, len(keys))
	for _, k := range keys {
		values = append(values, m[k])
	}
	return values
}

// indexKey reports whether k is a canonical non-negative integer.
func indexKey(k string) (uint64, bool) {
	n, err := strconv.ParseUint(k, 10, 32)
	if err != nil {
		return 0, false
	}
	if strconv.FormatUint(n, 10) != k {
		return 0, false
	}
	return n, true
}
