package fiber

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"visitor-metrics-service/internal/metrics/core/domain"
	"visitor-metrics-service/internal/metrics/core/usecase"

	"github.com/gofiber/fiber/v2"
	zlog "github.com/rs/zerolog/log"
)

type GetVisitorMetricsUseCase interface {
	Execute(ctx context.Context, period string) (*domain.VisitorMetrics, error)
	Breakdown(ctx context.Context, in usecase.GetBreakdownInput) (*domain.Breakdown, error)
}

type MetricsHandler struct {
	uc GetVisitorMetricsUseCase
}

func NewMetricsHandler(uc GetVisitorMetricsUseCase) *MetricsHandler {
	return &MetricsHandler{uc: uc}
}

// GetVisitorMetrics godoc
// @Summary Visitor counts per time bucket
// @Description Buckets visits of the requested period. last_24_hours always returns 24 hourly buckets (oldest first); other periods only return buckets that saw visits.
// @Tags Metrics
// @Produce json
// @Param period query string true "Period" Enums(last_24_hours, last_week, last_month, last_year, all_time)
// @Success 200 {object} VisitorMetricsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /metrics/visitors [get]
func (h *MetricsHandler) GetVisitorMetrics(c *fiber.Ctx) error {
	period := c.Query("period", "")
	if period == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: "period is required",
		})
	}

	res, err := h.uc.Execute(c.UserContext(), period)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(VisitorMetricsResponse{
		Period:  string(res.Period),
		From:    unixPtr(res.From),
		To:      res.To.Unix(),
		Total:   res.Total,
		Buckets: res.Buckets,
	})
}

// GetVisitorBreakdown godoc
// @Summary Visits grouped by a visitor attribute
// @Tags Metrics
// @Produce json
// @Param period query string true "Period" Enums(last_24_hours, last_week, last_month, last_year, all_time)
// @Param dimension query string true "Dimension" Enums(browser, os, city, country)
// @Param limit query int false "Max groups (default 10, max 100)"
// @Success 200 {object} BreakdownResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /metrics/visitors/breakdown [get]
func (h *MetricsHandler) GetVisitorBreakdown(c *fiber.Ctx) error {
	period := c.Query("period", "")
	dimension := c.Query("dimension", "")
	if period == "" || dimension == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: "period and dimension are required",
		})
	}

	limit := 0
	if raw := c.Query("limit", ""); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_query",
				Message: "invalid 'limit' parameter",
			})
		}
		limit = n
	}

	res, err := h.uc.Breakdown(c.UserContext(), usecase.GetBreakdownInput{
		Period:    period,
		Dimension: dimension,
		Limit:     limit,
	})
	if err != nil {
		return h.writeError(c, err)
	}

	resp := BreakdownResponse{
		Period:    string(res.Period),
		Dimension: string(res.Dimension),
		From:      unixPtr(res.From),
		To:        res.To.Unix(),
		Groups:    make([]BreakdownGroupResponse, 0, len(res.Groups)),
	}
	for _, g := range res.Groups {
		resp.Groups = append(resp.Groups, BreakdownGroupResponse{
			Key:            g.Key,
			Visits:         g.Visits,
			UniqueVisitors: g.UniqueVisitors,
		})
	}

	return c.Status(http.StatusOK).JSON(resp)
}

func (h *MetricsHandler) writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidPeriod),
		errors.Is(err, usecase.ErrInvalidDimension):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: err.Error(),
		})
	default:
		zlog.Error().Err(err).Str("path", c.Path()).Msg("metrics query failed")
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}

func unixPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	v := t.Unix()
	return &v
}
