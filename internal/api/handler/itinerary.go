package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tripwise/tripwise/internal/api/models"
	"github.com/tripwise/tripwise/internal/api/response"
	"github.com/tripwise/tripwise/internal/itinerary"
	"github.com/tripwise/tripwise/internal/planner"
)

const defaultListLimit = 20

// ItineraryPlanner generates a full trip plan from a raw request.
type ItineraryPlanner interface {
	Generate(ctx context.Context, raw planner.RawTripRequest) (*planner.Itinerary, error)
}

// ItineraryStore persists and retrieves generated itineraries.
type ItineraryStore interface {
	Save(ctx context.Context, userID string, plan *planner.Itinerary) (*itinerary.Record, error)
	Get(ctx context.Context, userID, itineraryID string) (*itinerary.Record, error)
	List(ctx context.Context, userID string, opts itinerary.ListOptions) (*itinerary.ListResult, error)
	Delete(ctx context.Context, userID, itineraryID string) error
}

// ItineraryHandler handles itinerary endpoints.
type ItineraryHandler struct {
	engine ItineraryPlanner
	store  ItineraryStore
	logger zerolog.Logger
}

// NewItineraryHandler creates a new ItineraryHandler.
func NewItineraryHandler(engine ItineraryPlanner, store ItineraryStore, logger zerolog.Logger) *ItineraryHandler {
	return &ItineraryHandler{
		engine: engine,
		store:  store,
		logger: logger,
	}
}

// GenerateItinerary handles POST /v1/itineraries:generate.
// Validation failures map to 400, infeasible budgets to 422.
func (h *ItineraryHandler) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var input models.GenerateItineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	plan, err := h.engine.Generate(r.Context(), input.ToRawTripRequest())
	if err != nil {
		h.writePlanningError(w, r, err)
		return
	}

	rec, err := h.store.Save(r.Context(), userID, plan)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("saving itinerary failed")
		response.InternalError(w, r, "failed to save itinerary")
		return
	}

	location := fmt.Sprintf("/v1/itineraries/%s", rec.ID)
	response.Created(w, r, location, models.NewItinerary(rec))
}

// GetItinerary handles GET /v1/itineraries/{itineraryId}.
func (h *ItineraryHandler) GetItinerary(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	itineraryID := chi.URLParam(r, "itineraryId")
	if itineraryID == "" {
		response.BadRequest(w, r, "itineraryId is required", nil)
		return
	}

	rec, err := h.store.Get(r.Context(), userID, itineraryID)
	if err != nil {
		if errors.Is(err, itinerary.ErrItineraryNotFound) {
			response.NotFound(w, r, "itinerary not found")
			return
		}
		h.logger.Error().Err(err).Str("itinerary_id", itineraryID).Msg("fetching itinerary failed")
		response.InternalError(w, r, "failed to fetch itinerary")
		return
	}

	response.JSON(w, r, http.StatusOK, models.NewItinerary(rec))
}

// ListItineraries handles GET /v1/itineraries.
func (h *ItineraryHandler) ListItineraries(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	opts := itinerary.ListOptions{
		Limit:  defaultListLimit,
		Cursor: r.URL.Query().Get("cursor"),
	}

	result, err := h.store.List(r.Context(), userID, opts)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("listing itineraries failed")
		response.InternalError(w, r, "failed to list itineraries")
		return
	}

	out := models.PagedItineraries{
		Items: make([]models.ItineraryListItem, 0, len(result.Items)),
		Meta:  models.PagedResponseMeta{Limit: opts.Limit},
	}
	for _, rec := range result.Items {
		out.Items = append(out.Items, models.NewItineraryListItem(rec))
	}
	if result.NextCursor != "" {
		cursor := result.NextCursor
		out.Meta.NextCursor = &cursor
	}

	response.JSON(w, r, http.StatusOK, out)
}

// DeleteItinerary handles DELETE /v1/itineraries/{itineraryId}.
func (h *ItineraryHandler) DeleteItinerary(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	itineraryID := chi.URLParam(r, "itineraryId")
	if itineraryID == "" {
		response.BadRequest(w, r, "itineraryId is required", nil)
		return
	}

	if err := h.store.Delete(r.Context(), userID, itineraryID); err != nil {
		if errors.Is(err, itinerary.ErrItineraryNotFound) {
			response.NotFound(w, r, "itinerary not found")
			return
		}
		h.logger.Error().Err(err).Str("itinerary_id", itineraryID).Msg("deleting itinerary failed")
		response.InternalError(w, r, "failed to delete itinerary")
		return
	}

	response.NoContent(w, r)
}

func (h *ItineraryHandler) writePlanningError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *planner.ValidationError
	if errors.As(err, &validationErr) {
		fieldErrors := make([]models.FieldError, 0, len(validationErr.Errors))
		for _, fe := range validationErr.Errors {
			fieldErrors = append(fieldErrors, models.FieldError{Field: fe.Field, Message: fe.Reason})
		}
		response.BadRequest(w, r, "trip request is invalid", fieldErrors)
		return
	}

	var insufficientErr *planner.BudgetInsufficientError
	if errors.As(err, &insufficientErr) {
		response.BudgetInfeasible(w, r, insufficientErr.Error())
		return
	}

	var exceededErr *planner.BudgetExceededError
	if errors.As(err, &exceededErr) {
		response.BudgetInfeasible(w, r, exceededErr.Error())
		return
	}

	h.logger.Error().Err(err).Msg("itinerary generation failed")
	response.InternalError(w, r, "itinerary generation failed")
}
