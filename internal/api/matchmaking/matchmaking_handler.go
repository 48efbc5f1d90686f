package matchmaking

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/mastour-id/mastour-server/internal/api"
	"github.com/mastour-id/mastour-server/internal/api/auth"
	"github.com/mastour-id/mastour-server/internal/types"
)

// MatchmakingHandler handles survey submission and guide search requests.
type MatchmakingHandler struct {
	service Service
	logger  *slog.Logger
}

func NewMatchmakingHandler(service Service, logger *slog.Logger) *MatchmakingHandler {
	return &MatchmakingHandler{
		service: service,
		logger:  logger,
	}
}

// SubmitSurvey godoc
// @Summary      Submit Personality Survey
// @Description  Classifies the caller's 25 survey answers and stores the resulting personality class.
// @Tags         Matchmaking
// @Accept       json
// @Produce      json
// @Param        body body types.SurveyRequest true "Survey answers"
// @Success      200 {object} types.ProfileResponse "Updated Profile"
// @Failure      400 {object} types.Response "Invalid Input"
// @Failure      502 {object} types.Response "Classifier Unavailable"
// @Security     BearerAuth
// @Router       /matchmaking/survey [post]
func (h *MatchmakingHandler) SubmitSurvey(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("MatchmakingHandler").Start(r.Context(), "SubmitSurvey", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/matchmaking/survey"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "SubmitSurvey"))

	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to resolve user from context", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to resolve user from context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req types.SurveyRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.service.SubmitSurvey(ctx, userID, req.Answers)
	if err != nil {
		l.ErrorContext(ctx, "Failed to submit survey", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to submit survey")
		switch {
		case errors.Is(err, types.ErrBadRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, types.ErrClassificationFailed):
			api.ErrorResponse(w, r, http.StatusBadGateway, "Personality classification is unavailable")
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Traveler not found")
		default:
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to submit survey")
		}
		return
	}

	span.SetStatus(codes.Ok, "Survey submitted")
	api.WriteJSONResponse(w, r, http.StatusOK, types.NewProfileResponse(profile))
}

// Search godoc
// @Summary      Search Guides
// @Description  Ranks the guides of one city against the caller's profile and returns the top matches.
// @Tags         Matchmaking
// @Accept       json
// @Produce      json
// @Param        body body types.MatchSearchRequest true "City and interest categories"
// @Success      200 {object} types.MatchSearchResponse "Ranked Matches"
// @Failure      400 {object} types.Response "Invalid Input"
// @Failure      409 {object} types.Response "Survey Not Completed"
// @Failure      502 {object} types.Response "Projection Unavailable"
// @Security     BearerAuth
// @Router       /matchmaking/search [post]
func (h *MatchmakingHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("MatchmakingHandler").Start(r.Context(), "Search", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/matchmaking/search"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Search"))

	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to resolve user from context", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to resolve user from context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req types.MatchSearchRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.CityID == uuid.Nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "city_id is required")
		return
	}

	matches, err := h.service.Search(ctx, userID, req.CityID, req.CategoryIDs)
	if err != nil {
		l.ErrorContext(ctx, "Failed to search guides", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to search guides")
		switch {
		case errors.Is(err, types.ErrPersonalityNotSet):
			api.ErrorResponse(w, r, http.StatusConflict, "Complete the personality survey before searching")
		case errors.Is(err, types.ErrBadRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Traveler not found")
		case errors.Is(err, types.ErrProjectionFailed):
			api.ErrorResponse(w, r, http.StatusBadGateway, "Embedding projection is unavailable")
		default:
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to search guides")
		}
		return
	}

	span.SetStatus(codes.Ok, "Search completed")
	api.WriteJSONResponse(w, r, http.StatusOK, types.MatchSearchResponse{Matches: matches})
}
