package aggregator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/0xmhha/landing-dashboard/pkg/daykey"
	"github.com/0xmhha/landing-dashboard/pkg/logger"
	"github.com/0xmhha/landing-dashboard/pkg/parser"
)

// ErrUnknownDimension is returned for a dimension the aggregator does not know.
var ErrUnknownDimension = errors.New("unknown aggregation dimension")

// aggregator implements the Aggregator interface.
type aggregator struct {
	normalizer *daykey.Normalizer
	logger     logger.Logger
}

// New creates a new aggregator.
func New(cfg Config) Aggregator {
	if cfg.Normalizer == nil {
		cfg.Normalizer = daykey.New(nil)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Noop()
	}

	return &aggregator{
		normalizer: cfg.Normalizer,
		logger:     cfg.Logger.Component("aggregator"),
	}
}

// Aggregate implements Aggregator.Aggregate.
func (a *aggregator) Aggregate(records []parser.Record) Series {
	res, _ := a.Collect(records, DimDay)
	return res.Series
}

// AggregateBy implements Aggregator.AggregateBy.
func (a *aggregator) AggregateBy(records []parser.Record, dim Dimension) (Series, error) {
	res, err := a.Collect(records, dim)
	if err != nil {
		return nil, err
	}
	return res.Series, nil
}

// Collect implements Aggregator.Collect.
func (a *aggregator) Collect(records []parser.Record, dim Dimension) (Result, error) {
	var (
		res    Result
		counts = make(map[string]int)
	)

	switch dim {
	case DimDay:
		for _, r := range records {
			raw := r.Timestamp()
			key, err := a.normalizer.Normalize(raw)
			switch {
			case errors.Is(err, daykey.ErrEmpty):
				res.Excluded++
				continue
			case err != nil:
				res.Dropped++
				a.logger.Warn("dropping record with unparseable timestamp",
					"timestamp", raw,
					"error", err)
				continue
			}
			counts[string(key)]++
			res.Processed++
		}
		res.Series = toSeries(counts)
		sortByDay(res.Series)

	case DimReason:
		for _, r := range records {
			label := strings.TrimSpace(r.Motivo())
			if label == "" {
				label = NoReasonLabel
			}
			counts[label]++
			res.Processed++
		}
		res.Series = toSeries(counts)
		sortByCount(res.Series)

	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownDimension, dim)
	}

	a.logger.Debug("aggregated records",
		"dimension", string(dim),
		"points", len(res.Series),
		"processed", res.Processed,
		"excluded", res.Excluded,
		"dropped", res.Dropped)

	return res, nil
}

func toSeries(counts map[string]int) Series {
	series := make(Series, 0, len(counts))
	for label, count := range counts {
		series = append(series, Point{Label: label, Count: count})
	}
	return series
}

// sortByDay orders points chronologically. Labels that are not dates sort
// after all dated labels, lexically among themselves.
func sortByDay(series Series) {
	sort.Slice(series, func(i, j int) bool {
		return lessDay(series[i].Label, series[j].Label)
	})
}

func lessDay(a, b string) bool {
	da, aok := daykey.Key(a).Date()
	db, bok := daykey.Key(b).Date()

	switch {
	case aok && bok:
		if !da.Equal(db) {
			return da.Before(db)
		}
		return a < b
	case aok != bok:
		return aok
	default:
		return a < b
	}
}

// sortByCount orders points by count descending, then label ascending.
func sortByCount(series Series) {
	sort.Slice(series, func(i, j int) bool {
		if series[i].Count != series[j].Count {
			return series[i].Count > series[j].Count
		}
		return series[i].Label < series[j].Label
	})
}
