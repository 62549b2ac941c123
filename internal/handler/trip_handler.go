package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"tripmate/internal/models"
	"tripmate/internal/service"
)

func (h *Handlers) ListTrips(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.TripFilter{
		Category:    query.Get("category"),
		Destination: query.Get("destination"),
	}

	var ok bool
	if filter.MinPrice, ok = priceParam(w, query.Get("minPrice"), "Invalid minPrice"); !ok {
		return
	}
	if filter.MaxPrice, ok = priceParam(w, query.Get("maxPrice"), "Invalid maxPrice"); !ok {
		return
	}

	page, err := h.TripService.ListTrips(r.Context(), filter, pageRequest(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "", pageBody("trips", "totalTrips", page), http.StatusOK)
}

// priceParam parses an optional numeric query value.
func priceParam(w http.ResponseWriter, raw, invalid string) (*float64, bool) {
	if raw == "" {
		return nil, true
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		WriteError(w, invalid, http.StatusBadRequest)
		return nil, false
	}
	return &v, true
}

func (h *Handlers) GetTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := h.TripService.GetTrip(r.Context(), mux.Vars(r)["tripId"])
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "", trip, http.StatusOK)
}

func (h *Handlers) CreateTrip(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var fields service.TripFields
	if !h.decode(w, r, &fields, "Invalid trip data") {
		return
	}

	trip, err := h.TripService.CreateTrip(r.Context(), p.ID, fields)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "Trip created successfully", trip, http.StatusCreated)
}

func (h *Handlers) GetMyTrips(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	page, err := h.TripService.ListOrganizerTrips(r.Context(), p.ID, pageRequest(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "", pageBody("trips", "totalTrips", page), http.StatusOK)
}

func (h *Handlers) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var patch service.TripFields
	if !h.decode(w, r, &patch, "Invalid trip data") {
		return
	}

	trip, err := h.TripService.UpdateTrip(r.Context(), mux.Vars(r)["tripId"], p.ID, patch)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "Trip updated successfully", trip, http.StatusOK)
}

func (h *Handlers) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.TripService.DeleteTrip(r.Context(), mux.Vars(r)["tripId"], p.ID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "Trip deleted successfully", nil, http.StatusOK)
}

func (h *Handlers) PublishTrip(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	trip, err := h.TripService.PublishTrip(r.Context(), mux.Vars(r)["tripId"], p.ID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "Trip published successfully", trip, http.StatusOK)
}
