// Package chart renders the dashboard as a standalone ECharts HTML page.
//
// Page is a render sink: the refresh controller pushes series, statistic
// slots and frames into it, and every Update re-renders the page, keeps it
// in memory for the HTTP server and optionally writes it to disk.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/0xmhha/landing-dashboard/pkg/sink"
	"github.com/0xmhha/landing-dashboard/pkg/stats"
)

// Chart appearance.
const (
	DefaultTitle = "Landing Page Dashboard"

	chartWidth  = "1100px"
	chartHeight = "420px"
	lineColor   = "#3e95cd"
	barColor    = "#8e5ea2"
)

// ErrPageClosed is returned by Update after Destroy.
var ErrPageClosed = errors.New("chart page destroyed")

// Config configures a Page.
type Config struct {
	// Title heads the page. Default: DefaultTitle.
	Title string

	// OutputPath is written on every Update when set.
	OutputPath string
}

// Page holds the day line chart, the reason bar chart and the statistic
// slots. It implements sink.Chart, sink.Slots and sink.Framer and is safe
// for concurrent use.
type Page struct {
	mu        sync.RWMutex
	cfg       Config
	board     *sink.Board
	destroyed bool

	labels []string
	values []int
	frame  sink.Frame
	html   []byte
}

// New creates an empty page.
func New(cfg Config) *Page {
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	return &Page{
		cfg:   cfg,
		board: sink.NewStatsBoard(),
	}
}

// Factory returns a sink.Factory producing pages.
func Factory(cfg Config) sink.Factory {
	return func() (sink.Chart, error) {
		return New(cfg), nil
	}
}

// SetData implements sink.Chart.
func (p *Page) SetData(labels []string, values []int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.labels = append([]string(nil), labels...)
	p.values = append([]int(nil), values...)
}

// SetText implements sink.Slots.
func (p *Page) SetText(name, text string) error {
	return p.board.SetText(name, text)
}

// SetFrame implements sink.Framer.
func (p *Page) SetFrame(f sink.Frame) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frame = f
}

// Update implements sink.Chart. It re-renders the page and writes it to
// OutputPath if configured.
func (p *Page) Update() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.destroyed {
		return ErrPageClosed
	}

	var buf bytes.Buffer
	if err := p.build().Render(&buf); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	p.html = buf.Bytes()

	if p.cfg.OutputPath != "" {
		if err := writeFileAtomic(p.cfg.OutputPath, p.html); err != nil {
			return fmt.Errorf("write page: %w", err)
		}
	}
	return nil
}

// Destroy implements sink.Chart.
func (p *Page) Destroy() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.destroyed = true
	p.html = nil
	return nil
}

// HTML returns the last rendered page, nil before the first Update.
func (p *Page) HTML() []byte {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.html
}

// WriteTo writes the last rendered page to w.
func (p *Page) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(p.HTML())
	return int64(n), err
}

// build assembles the page from the current state. Callers hold p.mu.
func (p *Page) build() *components.Page {
	page := components.NewPage()
	page.PageTitle = p.cfg.Title
	page.AddCharts(p.dayChart(), p.reasonChart())
	return page
}

func (p *Page) dayChart() *charts.Line {
	slots := p.board.Values()
	subtitle := fmt.Sprintf("Días con respuestas: %s | Promedio por día: %s | Día pico: %s",
		orNoValue(slots[stats.SlotActiveDays]),
		orNoValue(slots[stats.SlotAverage]),
		orNoValue(slots[stats.SlotPeakDay]))

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: p.cfg.Title,
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    p.cfg.Title,
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Respuestas"}),
	)

	data := make([]opts.LineData, len(p.labels))
	for i := range p.labels {
		v := 0
		if i < len(p.values) {
			v = p.values[i]
		}
		data[i] = opts.LineData{Value: v}
	}

	line.SetXAxis(p.labels).
		AddSeries("Respuestas por día", data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: lineColor}),
		).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}),
		)

	return line
}

func (p *Page) reasonChart() *charts.Bar {
	reasons := p.frame.Reasons
	sum := p.frame.Summary
	subtitle := fmt.Sprintf("Total: %d | Nombres únicos: %d | Última respuesta: %s",
		sum.TotalResponses, sum.UniqueNames, orNoValue(sum.LastResponse))

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  chartWidth,
			Height: chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Respuestas por motivo",
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	labels := reasons.Labels()
	data := make([]opts.BarData, len(reasons))
	for i, r := range reasons {
		data[i] = opts.BarData{Value: r.Count}
	}

	bar.SetXAxis(labels).
		AddSeries("Respuestas", data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: barColor}),
		)

	return bar
}

func orNoValue(s string) string {
	if s == "" {
		return stats.NoValue
	}
	return s
}

// writeFileAtomic replaces path so readers never see a partial page.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".dashboard-*.html")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
