package city

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

type CityHandler struct {
	service Service
	logger  *slog.Logger
}

func NewCityHandler(service Service, logger *slog.Logger) *CityHandler {
	return &CityHandler{
		service: service,
		logger:  logger,
	}
}

// GetCities godoc
// @Summary      List Cities
// @Description  Lists cities with search, sorting and pagination.
// @Tags         Cities
// @Produce      json
// @Param        search_by query string false "Column to search"
// @Param        search_query query string false "Substring to match"
// @Param        order_by query string false "Column to order by"
// @Param        direction query string false "asc or desc"
// @Param        page query int false "1-indexed page"
// @Param        size query int false "Page size"
// @Success      200 {object} map[string]interface{} "Cities and pagination"
// @Router       /cities [get]
func (h *CityHandler) GetCities(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CityHandler").Start(r.Context(), "GetCities", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/cities"),
	))
	defer span.End()

	cities, pagination, err := h.service.GetCities(ctx, api.ReadManyParamsFromQuery(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list cities", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list cities")
		if errors.Is(err, types.ErrBadRequest) {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		} else {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list cities")
		}
		return
	}

	span.SetStatus(codes.Ok, "Cities listed")
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"cities":     cities,
		"pagination": pagination,
	})
}

// GetCity godoc
// @Summary      Get City
// @Description  Returns one city by id.
// @Tags         Cities
// @Produce      json
// @Param        cityID path string true "City ID"
// @Success      200 {object} types.City "City"
// @Failure      404 {object} types.Response "Not Found"
// @Router       /cities/{cityID} [get]
func (h *CityHandler) GetCity(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CityHandler").Start(r.Context(), "GetCity", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/cities/{cityID}"),
	))
	defer span.End()

	cityID, err := uuid.Parse(chi.URLParam(r, "cityID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid city ID format")
		return
	}

	city, err := h.service.GetCity(ctx, cityID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch city")
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "City not found")
		} else {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch city")
		}
		return
	}

	span.SetStatus(codes.Ok, "City fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, city)
}
