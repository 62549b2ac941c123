package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h *Handlers) Follow(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	follow, err := h.FollowService.Follow(r.Context(), p.ID, mux.Vars(r)["userId"])
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "Successfully followed user", follow, http.StatusCreated)
}

func (h *Handlers) Unfollow(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.FollowService.Unfollow(r.Context(), p.ID, mux.Vars(r)["userId"]); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "Successfully unfollowed user", nil, http.StatusOK)
}

func (h *Handlers) Followers(w http.ResponseWriter, r *http.Request) {
	page, err := h.FollowService.ListFollowers(r.Context(), mux.Vars(r)["userId"], pageRequest(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "", pageBody("followers", "totalFollowers", page), http.StatusOK)
}

func (h *Handlers) Following(w http.ResponseWriter, r *http.Request) {
	page, err := h.FollowService.ListFollowing(r.Context(), mux.Vars(r)["userId"], pageRequest(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "", pageBody("following", "totalFollowing", page), http.StatusOK)
}

func (h *Handlers) FollowStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	following, err := h.FollowService.IsFollowing(r.Context(), p.ID, mux.Vars(r)["userId"])
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "", map[string]bool{"isFollowing": following}, http.StatusOK)
}
