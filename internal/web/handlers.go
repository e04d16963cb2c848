package web

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/gin-gonic/gin"

	"github.com/Belphemur/ShowFinder/internal/apperrors"
	"github.com/Belphemur/ShowFinder/internal/flow"
	"github.com/Belphemur/ShowFinder/internal/metrics"
	"github.com/Belphemur/ShowFinder/internal/models"
	"github.com/Belphemur/ShowFinder/internal/render"
)

// Response headers read by the page script.
const (
	HeaderEpisodesArea = "X-Episodes-Area"
	HeaderStale        = "X-Stale-Response"
)

const (
	htmlContentType = "text/html; charset=utf-8"
	// nginx's code for a request the client abandoned
	statusClientClosedRequest = 499
)

//go:embed static/app.js
var appJS []byte

func (s *Server) page(c *gin.Context) {
	data := render.PageData{Term: c.Query("q")}
	if data.Term != "" {
		result := models.NewResult(s.deps.Catalog.SearchShows(c.Request.Context(), data.Term))
		if result.OK() {
			data.Shows = result.Value
		} else {
			s.logger.Warn().Err(result.Err).Str("term", data.Term).Msg("Prefilled search failed")
		}
	}

	var buf bytes.Buffer
	if err := render.RenderPage(&buf, data); err != nil {
		s.renderFailed(c, err)
		return
	}
	c.Data(http.StatusOK, htmlContentType, buf.Bytes())
}

func (s *Server) script(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "text/javascript; charset=utf-8", appJS)
}

func (s *Server) search(c *gin.Context) {
	term := c.PostForm("term")
	token := s.deps.Tracker.Begin(sessionID(c), flow.Search)

	result := models.NewResult(s.deps.Catalog.SearchShows(c.Request.Context(), term))
	if s.discardStale(c, token) {
		return
	}
	if !result.OK() {
		s.fail(c, flow.Search, result.Err, map[string]string{"term": term})
		return
	}

	var buf bytes.Buffer
	if err := render.RenderShows(&buf, result.Value); err != nil {
		s.renderFailed(c, err)
		return
	}
	metrics.FlowsTotal.WithLabelValues(flow.Search, "ok").Inc()
	c.Header(HeaderEpisodesArea, "hidden")
	c.Data(http.StatusOK, htmlContentType, buf.Bytes())
}

func (s *Server) episodes(c *gin.Context) {
	raw := c.Param("id")
	showID, err := strconv.Atoi(raw)
	if err != nil || showID < 1 {
		metrics.FlowsTotal.WithLabelValues(flow.Episodes, "bad_request").Inc()
		s.logger.Debug().Str("id", raw).Msg("Rejected non-numeric show id")
		c.Status(http.StatusBadRequest)
		return
	}
	token := s.deps.Tracker.Begin(sessionID(c), flow.Episodes)

	result := models.NewResult(s.deps.Catalog.ListEpisodes(c.Request.Context(), showID))
	if s.discardStale(c, token) {
		return
	}
	if !result.OK() {
		s.fail(c, flow.Episodes, result.Err, map[string]string{"show_id": raw})
		return
	}

	var buf bytes.Buffer
	if err := render.RenderEpisodes(&buf, result.Value); err != nil {
		s.renderFailed(c, err)
		return
	}
	metrics.FlowsTotal.WithLabelValues(flow.Episodes, "ok").Inc()
	c.Header(HeaderEpisodesArea, "visible")
	c.Data(http.StatusOK, htmlContentType, buf.Bytes())
}

func (s *Server) healthz(c *gin.Context) {
	catalog := "serving"
	if !s.catalogServing.Load() {
		catalog = "circuit_open"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"catalog":   catalog,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// discardStale answers 204 when a newer request of the same flow started
// while this one was waiting on the catalog.
func (s *Server) discardStale(c *gin.Context, token flow.Token) bool {
	if s.deps.Tracker.IsCurrent(token) {
		return false
	}
	metrics.FlowsTotal.WithLabelValues(token.Flow, "stale").Inc()
	s.logger.Debug().Str("flow", token.Flow).Uint64("seq", token.Seq).Msg("Discarding superseded response")
	c.Header(HeaderStale, "true")
	c.Status(http.StatusNoContent)
	return true
}

// fail answers a failed flow with an empty body so the page keeps its content.
func (s *Server) fail(c *gin.Context, name string, err error, tags map[string]string) {
	if errors.Is(err, context.Canceled) {
		metrics.FlowsTotal.WithLabelValues(name, "canceled").Inc()
		s.logger.Debug().Err(err).Str("flow", name).Msg("Client went away before the catalog answered")
		c.Status(statusClientClosedRequest)
		return
	}

	status := failureStatus(err)
	kind := apperrors.Kind(err)

	metrics.FlowsTotal.WithLabelValues(name, "failed").Inc()
	s.logger.Error().Err(err).Str("flow", name).Str("kind", kind).Int("status", status).Msg("Flow failed")
	s.deps.Reporter.CaptureFlowFailure(name, err, tags)

	c.Status(status)
}

func (s *Server) renderFailed(c *gin.Context, err error) {
	s.logger.Error().Err(err).Msg("Failed to render fragment")
	c.Status(http.StatusInternalServerError)
}

func failureStatus(err error) int {
	switch {
	case errors.Is(err, &apperrors.ErrNotFound{}):
		return http.StatusNotFound
	case errors.Is(err, circuitbreaker.ErrOpen):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
