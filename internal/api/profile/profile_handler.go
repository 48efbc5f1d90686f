package profile

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/mastour-id/mastour-server/internal/api"
	"github.com/mastour-id/mastour-server/internal/api/auth"
	"github.com/mastour-id/mastour-server/internal/types"
)

type ProfileHandler struct {
	service Service
	logger  *slog.Logger
}

func NewProfileHandler(service Service, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		logger:  logger,
	}
}

// GetProfile godoc
// @Summary      Get Own Profile
// @Description  Returns the caller's profile with derived age.
// @Tags         Profile
// @Produce      json
// @Success      200 {object} types.ProfileResponse "Profile"
// @Failure      404 {object} types.Response "Not Found"
// @Security     BearerAuth
// @Router       /profile [get]
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ProfileHandler").Start(r.Context(), "GetProfile", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/profile"),
	))
	defer span.End()

	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	profile, err := h.service.GetProfile(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to fetch profile", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch profile")
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Traveler not found")
		} else {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch profile")
		}
		return
	}

	span.SetStatus(codes.Ok, "Profile fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, types.NewProfileResponse(profile))
}

// UpdateProfile godoc
// @Summary      Update Own Profile
// @Description  Applies a partial update to the caller's profile.
// @Tags         Profile
// @Accept       json
// @Produce      json
// @Param        body body types.UpdateProfileParams true "Fields to update"
// @Success      200 {object} types.ProfileResponse "Updated Profile"
// @Failure      400 {object} types.Response "Invalid Input"
// @Failure      409 {object} types.Response "Conflict"
// @Security     BearerAuth
// @Router       /profile [put]
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ProfileHandler").Start(r.Context(), "UpdateProfile", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/profile"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "UpdateProfile"))

	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var params types.UpdateProfileParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.service.UpdateProfile(ctx, userID, params)
	if err != nil {
		l.ErrorContext(ctx, "Failed to update profile", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update profile")
		switch {
		case errors.Is(err, types.ErrBadRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, types.ErrConflict):
			api.ErrorResponse(w, r, http.StatusConflict, "Username or email already exists")
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Traveler not found")
		default:
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update profile")
		}
		return
	}

	span.SetStatus(codes.Ok, "Profile updated")
	api.WriteJSONResponse(w, r, http.StatusOK, types.NewProfileResponse(profile))
}
