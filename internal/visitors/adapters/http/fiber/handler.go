package fiber

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"visitor-metrics-service/internal/visitors/core/domain"
	"visitor-metrics-service/internal/visitors/core/usecase"

	"github.com/gofiber/fiber/v2"
	zlog "github.com/rs/zerolog/log"
)

type RecordVisitUseCase interface {
	Execute(ctx context.Context, in usecase.RecordVisitInput) (bool, error)
	BulkRecordVisits(ctx context.Context, in usecase.BulkRecordVisitsInput) (usecase.BulkRecordVisitsResult, error)
}

type ManageVisitorsUseCase interface {
	Ban(ctx context.Context, ip, reason string) (*domain.Visitor, error)
	Unban(ctx context.Context, ip string) (*domain.Visitor, error)
	List(ctx context.Context, in usecase.ListVisitorsInput) ([]domain.Visitor, error)
}

type VisitorHandler struct {
	recordUC RecordVisitUseCase
	manageUC ManageVisitorsUseCase
}

func NewVisitorHandler(recordUC RecordVisitUseCase, manageUC ManageVisitorsUseCase) *VisitorHandler {
	return &VisitorHandler{recordUC: recordUC, manageUC: manageUC}
}

// RecordVisit godoc
// @Summary Record a visit
// @Description Stores a single page view. Missing ip_address, user_agent and referer are taken from the request.
// @Tags Visits
// @Accept json
// @Produce json
// @Param request body RecordVisitRequest true "Visit payload"
// @Success 201 {object} RecordVisitResponse
// @Success 200 {object} RecordVisitResponse "Duplicate visit"
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /visits [post]
func (h *VisitorHandler) RecordVisit(c *fiber.Ctx) error {
	var req RecordVisitRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid_json",
		})
	}

	created, err := h.recordUC.Execute(c.UserContext(), toInput(c, req))
	if err != nil {
		return h.writeError(c, err)
	}

	if !created {
		return c.Status(http.StatusOK).JSON(RecordVisitResponse{
			Status: "duplicate",
		})
	}

	return c.Status(http.StatusCreated).JSON(RecordVisitResponse{
		Status: "created",
	})
}

// BulkRecordVisits godoc
// @Summary Bulk record visits
// @Description Validates every visit, then stores them one by one. Visits of banned visitors are skipped and counted.
// @Tags Visits
// @Accept json
// @Produce json
// @Param request body BulkRecordVisitsRequest true "Bulk visit payload"
// @Success 201 {object} BulkRecordVisitsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /visits/bulk [post]
func (h *VisitorHandler) BulkRecordVisits(c *fiber.Ctx) error {
	var req BulkRecordVisitsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid_json",
		})
	}

	if len(req.Visits) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "visits_list_required",
		})
	}

	inputs := make([]usecase.RecordVisitInput, len(req.Visits))
	for i, v := range req.Visits {
		inputs[i] = toInput(c, v)
	}

	result, err := h.recordUC.BulkRecordVisits(
		c.UserContext(),
		usecase.BulkRecordVisitsInput{Visits: inputs},
	)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(BulkRecordVisitsResponse{
		Created:    result.Created,
		Duplicates: result.Duplicates,
		Banned:     result.Banned,
	})
}

// ListVisitors godoc
// @Summary List visitors
// @Tags Visitors
// @Produce json
// @Param banned query bool false "Only banned visitors"
// @Param limit query int false "Page size (default 50, max 500)"
// @Param offset query int false "Offset"
// @Success 200 {object} ListVisitorsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /visitors [get]
func (h *VisitorHandler) ListVisitors(c *fiber.Ctx) error {
	in := usecase.ListVisitorsInput{}

	if raw := c.Query("banned", ""); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return badQuery(c, "invalid 'banned' parameter")
		}
		in.BannedOnly = b
	}
	if raw := c.Query("limit", ""); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return badQuery(c, "invalid 'limit' parameter")
		}
		in.Limit = n
	}
	if raw := c.Query("offset", ""); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return badQuery(c, "invalid 'offset' parameter")
		}
		in.Offset = n
	}

	visitors, err := h.manageUC.List(c.UserContext(), in)
	if err != nil {
		return h.writeError(c, err)
	}

	resp := ListVisitorsResponse{
		Visitors: make([]VisitorResponse, 0, len(visitors)),
		Count:    len(visitors),
	}
	for i := range visitors {
		resp.Visitors = append(resp.Visitors, toVisitorResponse(&visitors[i]))
	}

	return c.Status(http.StatusOK).JSON(resp)
}

// BanVisitor godoc
// @Summary Ban a visitor
// @Description Further visits from the IP are rejected with 403.
// @Tags Visitors
// @Accept json
// @Produce json
// @Param ip path string true "Visitor IP address"
// @Param request body BanVisitorRequest false "Ban reason"
// @Success 200 {object} VisitorResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /visitors/{ip}/ban [post]
func (h *VisitorHandler) BanVisitor(c *fiber.Ctx) error {
	var req BanVisitorRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid_json",
			})
		}
	}

	v, err := h.manageUC.Ban(c.UserContext(), ipParam(c), req.Reason)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(toVisitorResponse(v))
}

// UnbanVisitor godoc
// @Summary Lift a visitor ban
// @Tags Visitors
// @Produce json
// @Param ip path string true "Visitor IP address"
// @Success 200 {object} VisitorResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /visitors/{ip}/ban [delete]
func (h *VisitorHandler) UnbanVisitor(c *fiber.Ctx) error {
	v, err := h.manageUC.Unban(c.UserContext(), ipParam(c))
	if err != nil {
		return h.writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(toVisitorResponse(v))
}

func (h *VisitorHandler) writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidVisit),
		errors.Is(err, usecase.ErrFutureTime):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_visit",
			Message: err.Error(),
		})
	case errors.Is(err, usecase.ErrInvalidIP):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_ip",
			Message: err.Error(),
		})
	case errors.Is(err, usecase.ErrVisitorBanned):
		return c.Status(http.StatusForbidden).JSON(ErrorResponse{
			Error:   "visitor_banned",
			Message: err.Error(),
		})
	case errors.Is(err, usecase.ErrVisitorNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Error:   "visitor_not_found",
			Message: err.Error(),
		})
	default:
		zlog.Error().Err(err).Str("path", c.Path()).Msg("visitor request failed")
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}

func badQuery(c *fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Error:   "invalid_query",
		Message: msg,
	})
}

// toInput fills in what the tracker left out from the request itself.
func toInput(c *fiber.Ctx, req RecordVisitRequest) usecase.RecordVisitInput {
	in := usecase.RecordVisitInput{
		IPAddress: req.IPAddress,
		Path:      req.Path,
		Referer:   req.Referer,
		UserAgent: req.UserAgent,
		Browser:   req.Browser,
		OS:        req.OS,
		City:      req.City,
		Country:   req.Country,
		Timestamp: req.Timestamp,
	}
	if in.IPAddress == "" {
		in.IPAddress = c.IP()
	}
	if in.UserAgent == "" {
		in.UserAgent = c.Get(fiber.HeaderUserAgent)
	}
	if in.Referer == "" {
		in.Referer = c.Get(fiber.HeaderReferer)
	}
	return in
}

// ipParam decodes the :ip segment; IPv6 addresses arrive escaped.
func ipParam(c *fiber.Ctx) string {
	raw := c.Params("ip")
	ip, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return ip
}

func toVisitorResponse(v *domain.Visitor) VisitorResponse {
	resp := VisitorResponse{
		ID:           v.ID.String(),
		IPAddress:    v.IPAddress,
		Browser:      v.Browser,
		OS:           v.OS,
		City:         v.City,
		Country:      v.Country,
		FirstVisitAt: v.FirstVisitAt.Unix(),
		LastVisitAt:  v.LastVisitAt.Unix(),
		VisitCount:   v.VisitCount,
		Banned:       v.Banned,
		BanReason:    v.BanReason,
	}
	if v.BannedAt != nil {
		at := v.BannedAt.Unix()
		resp.BannedAt = &at
	}
	return resp
}
