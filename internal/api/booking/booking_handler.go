package booking

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
	"github.com/mastour-id/mastour-server/internal/api/auth"
	"github.com/mastour-id/mastour-server/internal/types"
)

type BookingHandler struct {
	service Service
	logger  *slog.Logger
}

func NewBookingHandler(service Service, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		logger:  logger,
	}
}

// BookGuide godoc
// @Summary      Book Guide
// @Description  Creates a pending booking for the caller with the given guide.
// @Tags         Bookings
// @Accept       json
// @Produce      json
// @Param        guideID path string true "Guide ID"
// @Param        body body types.BookRequest true "Booking window"
// @Success      201 {object} types.Booking "Booking"
// @Failure      400 {object} types.Response "Invalid Input"
// @Failure      409 {object} types.Response "Window Taken"
// @Security     BearerAuth
// @Router       /guides/{guideID}/book [post]
func (h *BookingHandler) BookGuide(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("BookingHandler").Start(r.Context(), "BookGuide", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/guides/{guideID}/book"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "BookGuide"))

	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	guideID, err := uuid.Parse(chi.URLParam(r, "guideID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid guide ID format")
		return
	}

	var req types.BookRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := h.service.BookGuide(ctx, userID, guideID, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to book guide", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to book guide")
		switch {
		case errors.Is(err, types.ErrBadRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Guide not found")
		case errors.Is(err, types.ErrConflict):
			api.ErrorResponse(w, r, http.StatusConflict, "Guide is already booked for this period")
		default:
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to book guide")
		}
		return
	}

	span.SetStatus(codes.Ok, "Booking created")
	api.WriteJSONResponse(w, r, http.StatusCreated, booking)
}

// GetBookingHistory godoc
// @Summary      Booking History
// @Description  Lists the caller's bookings newest first, with day counts and totals.
// @Tags         Bookings
// @Produce      json
// @Success      200 {object} map[string]interface{} "Bookings"
// @Security     BearerAuth
// @Router       /bookings [get]
func (h *BookingHandler) GetBookingHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("BookingHandler").Start(r.Context(), "GetBookingHistory", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/bookings"),
	))
	defer span.End()

	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	history, err := h.service.GetBookingHistory(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to fetch booking history", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch booking history")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch booking history")
		return
	}

	span.SetStatus(codes.Ok, "Booking history fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{"bookings": history})
}
