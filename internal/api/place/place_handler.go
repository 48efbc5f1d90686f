package place

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

type PlaceHandler struct {
	service Service
	logger  *slog.Logger
}

func NewPlaceHandler(service Service, logger *slog.Logger) *PlaceHandler {
	return &PlaceHandler{
		service: service,
		logger:  logger,
	}
}

// GetPlaces godoc
// @Summary      List Places
// @Description  Lists points of interest with search, sorting and pagination.
// @Tags         Places
// @Produce      json
// @Success      200 {object} map[string]interface{} "Places and pagination"
// @Router       /places [get]
func (h *PlaceHandler) GetPlaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlaceHandler").Start(r.Context(), "GetPlaces", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/places"),
	))
	defer span.End()

	places, pagination, err := h.service.GetPlaces(ctx, api.ReadManyParamsFromQuery(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list places", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list places")
		if errors.Is(err, types.ErrBadRequest) {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		} else {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list places")
		}
		return
	}

	span.SetStatus(codes.Ok, "Places listed")
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"places":     places,
		"pagination": pagination,
	})
}

// GetPlace godoc
// @Summary      Get Place
// @Description  Returns one point of interest by id.
// @Tags         Places
// @Produce      json
// @Param        placeID path string true "Place ID"
// @Success      200 {object} types.Place "Place"
// @Failure      404 {object} types.Response "Not Found"
// @Router       /places/{placeID} [get]
func (h *PlaceHandler) GetPlace(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlaceHandler").Start(r.Context(), "GetPlace", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/places/{placeID}"),
	))
	defer span.End()

	placeID, err := uuid.Parse(chi.URLParam(r, "placeID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid place ID format")
		return
	}

	place, err := h.service.GetPlace(ctx, placeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch place")
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Place not found")
		} else {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch place")
		}
		return
	}

	span.SetStatus(codes.Ok, "Place fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, place)
}
