package category

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

type CategoryHandler struct {
	service Service
	logger  *slog.Logger
}

func NewCategoryHandler(service Service, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		logger:  logger,
	}
}

// GetCategories godoc
// @Summary      List Categories
// @Description  Lists interest categories with search, sorting and pagination.
// @Tags         Categories
// @Produce      json
// @Success      200 {object} map[string]interface{} "Categories and pagination"
// @Router       /categories [get]
func (h *CategoryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CategoryHandler").Start(r.Context(), "GetCategories", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/categories"),
	))
	defer span.End()

	categories, pagination, err := h.service.GetCategories(ctx, api.ReadManyParamsFromQuery(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list categories", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list categories")
		if errors.Is(err, types.ErrBadRequest) {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		} else {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list categories")
		}
		return
	}

	span.SetStatus(codes.Ok, "Categories listed")
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"pagination": pagination,
	})
}

// GetCategory godoc
// @Summary      Get Category
// @Description  Returns one interest category by id.
// @Tags         Categories
// @Produce      json
// @Param        categoryID path string true "Category ID"
// @Success      200 {object} types.Category "Category"
// @Failure      404 {object} types.Response "Not Found"
// @Router       /categories/{categoryID} [get]
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CategoryHandler").Start(r.Context(), "GetCategory", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/categories/{categoryID}"),
	))
	defer span.End()

	categoryID, err := uuid.Parse(chi.URLParam(r, "categoryID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	category, err := h.service.GetCategory(ctx, categoryID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch category")
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Category not found")
		} else {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch category")
		}
		return
	}

	span.SetStatus(codes.Ok, "Category fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, category)
}
