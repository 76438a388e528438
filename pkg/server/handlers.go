package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/0xmhha/landing-dashboard/pkg/aggregator"
	"github.com/0xmhha/landing-dashboard/pkg/parser"
	"github.com/0xmhha/landing-dashboard/pkg/refresh"
	"github.com/0xmhha/landing-dashboard/pkg/stats"
)

type errorResponse struct {
	Error string `json:"error"`
}

type seriesResponse struct {
	Cycle       string            `json:"cycle"`
	State       string            `json:"state"`
	Labels      []string          `json:"labels"`
	Values      []int             `json:"values"`
	Slots       map[string]string `json:"slots"`
	Reasons     aggregator.Series `json:"reasons"`
	Placeholder string            `json:"placeholder,omitempty"`
	Error       string            `json:"error,omitempty"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type recordsResponse struct {
	Count   int             `json:"count"`
	Records []parser.Record `json:"records"`
}

type summaryResponse struct {
	State   string            `json:"state"`
	Summary stats.Summary     `json:"summary"`
	Stats   stats.Statistics  `json:"stats"`
	Slots   map[string]string `json:"slots"`
}

type statusResponse struct {
	Status string `json:"status"`
	State  string `json:"state,omitempty"`
}

// getPage serves the rendered chart page.
func (s *Server) getPage(c *fiber.Ctx) error {
	if s.page == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "chart page disabled")
	}
	html := s.page.HTML()
	if len(html) == 0 {
		return fiber.NewError(fiber.StatusServiceUnavailable, "dashboard not rendered yet")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(html)
}

// getSeries returns what the chart currently shows.
func (s *Server) getSeries(c *fiber.Ctx) error {
	snap := s.dash.Snapshot()

	resp := seriesResponse{
		Cycle:     snap.Cycle,
		State:     snap.State.String(),
		Labels:    snap.Series.Labels(),
		Values:    snap.Series.Values(),
		Slots:     snap.Stats.Slots(),
		Reasons:   snap.Reasons,
		UpdatedAt: snap.UpdatedAt,
	}
	if label := snap.Placeholder(); label != "" {
		resp.Placeholder = label
		resp.Labels = []string{label}
		resp.Values = []int{0}
		resp.Slots = stats.Statistics{}.Slots()
	}
	if snap.Err != nil {
		resp.Error = snap.Err.Error()
	}
	if resp.Reasons == nil {
		resp.Reasons = aggregator.Series{}
	}

	return c.JSON(resp)
}

// getRecords returns the records of the latest successful cycle.
func (s *Server) getRecords(c *fiber.Ctx) error {
	records := s.dash.Snapshot().Records
	if records == nil {
		records = []parser.Record{}
	}
	return c.JSON(recordsResponse{Count: len(records), Records: records})
}

// getSummary returns the headline KPIs and statistics.
func (s *Server) getSummary(c *fiber.Ctx) error {
	snap := s.dash.Snapshot()
	return c.JSON(summaryResponse{
		State:   snap.State.String(),
		Summary: snap.Summary,
		Stats:   snap.Stats,
		Slots:   snap.Stats.Slots(),
	})
}

// getProxy relays the upstream feed unchanged.
func (s *Server) getProxy(c *fiber.Ctx) error {
	if s.upstream == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "no upstream configured")
	}

	body, err := s.upstream.Fetch(c.UserContext())
	if err != nil {
		s.logger.Warn("proxy fetch failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: err.Error()})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// postRefresh schedules an immediate cycle.
func (s *Server) postRefresh(c *fiber.Ctx) error {
	s.dash.Trigger()
	return c.Status(fiber.StatusAccepted).JSON(statusResponse{Status: "scheduled"})
}

// postRecreate rebuilds the chart.
func (s *Server) postRecreate(c *fiber.Ctx) error {
	if err := s.dash.Recreate(); err != nil {
		code := fiber.StatusInternalServerError
		if errors.Is(err, refresh.ErrControllerNotRunning) || errors.Is(err, refresh.ErrControllerClosed) {
			code = fiber.StatusConflict
		}
		return c.Status(code).JSON(errorResponse{Error: err.Error()})
	}
	return c.JSON(statusResponse{Status: "recreated"})
}

func (s *Server) getHealth(c *fiber.Ctx) error {
	return c.JSON(statusResponse{Status: "ok", State: s.dash.Snapshot().State.String()})
}
