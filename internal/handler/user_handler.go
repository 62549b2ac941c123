package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h *Handlers) SearchUsers(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	page, err := h.UserService.Search(r.Context(), r.URL.Query().Get("query"), p.ID, pageRequest(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "", pageBody("users", "totalUsers", page), http.StatusOK)
}

func (h *Handlers) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.UserService.GetProfile(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "", profile, http.StatusOK)
}
