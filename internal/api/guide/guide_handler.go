package guide

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/mastour-id/mastour-server/internal/api"
	"github.com/mastour-id/mastour-server/internal/types"
)

type GuideHandler struct {
	service Service
	logger  *slog.Logger
}

func NewGuideHandler(service Service, logger *slog.Logger) *GuideHandler {
	return &GuideHandler{
		service: service,
		logger:  logger,
	}
}

// GetGuides godoc
// @Summary      List Guides
// @Description  Lists guides, optionally filtered to one city, with search, sorting and pagination.
// @Tags         Guides
// @Produce      json
// @Param        city_id query string false "Filter by city"
// @Success      200 {object} map[string]interface{} "Guides and pagination"
// @Router       /guides [get]
func (h *GuideHandler) GetGuides(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("GuideHandler").Start(r.Context(), "GetGuides", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/guides"),
	))
	defer span.End()

	cityID := uuid.Nil
	if raw := r.URL.Query().Get("city_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid city ID format")
			return
		}
		cityID = parsed
	}

	guides, pagination, err := h.service.GetGuides(ctx, cityID, api.ReadManyParamsFromQuery(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list guides", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list guides")
		if errors.Is(err, types.ErrBadRequest) {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		} else {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list guides")
		}
		return
	}

	span.SetStatus(codes.Ok, "Guides listed")
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"guides":     guides,
		"pagination": pagination,
	})
}

// GetGuide godoc
// @Summary      Get Guide
// @Description  Returns one guide with categories and top places.
// @Tags         Guides
// @Produce      json
// @Param        guideID path string true "Guide ID"
// @Success      200 {object} types.GuideDetail "Guide"
// @Failure      404 {object} types.Response "Not Found"
// @Router       /guides/{guideID} [get]
func (h *GuideHandler) GetGuide(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("GuideHandler").Start(r.Context(), "GetGuide", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/guides/{guideID}"),
	))
	defer span.End()

	guideID, err := uuid.Parse(chi.URLParam(r, "guideID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid guide ID format")
		return
	}

	guide, err := h.service.GetGuide(ctx, guideID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch guide")
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Guide not found")
		} else {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch guide")
		}
		return
	}

	span.SetStatus(codes.Ok, "Guide fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, guide)
}
