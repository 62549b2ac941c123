package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"tripmate/internal/config"
	"tripmate/internal/models"
	"tripmate/internal/service"
)

type Handlers struct {
	AuthService         service.AuthService
	UserService         service.UserService
	FollowService       service.FollowService
	PostService         service.PostService
	FeedService         service.FeedService
	NotificationService service.NotificationService
	TripService         service.TripService
	TablesService       service.TablesService
	Cfg                 *config.Config
	Validate            *validator.Validate
}

func NewHandlers(service *service.Service, config *config.Config) *Handlers {
	return &Handlers{
		AuthService:         service.Auth,
		UserService:         service.User,
		FollowService:       service.Follow,
		PostService:         service.Post,
		FeedService:         service.Feed,
		NotificationService: service.Notification,
		TripService:         service.Trip,
		TablesService:       service.Tables,
		Cfg:                 config,
		Validate:            validator.New(),
	}
}

// decode reads a JSON body into dst and runs struct validation. It writes the
// error response itself and reports whether the handler may continue.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst interface{}, invalid string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}

	if err := h.Validate.Struct(dst); err != nil {
		WriteError(w, invalid, http.StatusBadRequest)
		return false
	}

	return true
}

// principal returns the authenticated caller, answering 401 when there is none.
func principal(w http.ResponseWriter, r *http.Request) (service.Principal, bool) {
	p, ok := service.PrincipalFrom(r.Context())
	if !ok {
		WriteError(w, "Not authorized, no token", http.StatusUnauthorized)
	}
	return p, ok
}

func pageRequest(r *http.Request) models.PageRequest {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return models.NewPageRequest(page, limit)
}

// pageBody lays a page out as {<key>: items, pagination: {..., total<Entity>: n}}.
func pageBody[T any](key, totalKey string, page *models.Page[T]) map[string]interface{} {
	return map[string]interface{}{
		key: page.Items,
		"pagination": map[string]interface{}{
			"currentPage": page.Pagination.CurrentPage,
			"totalPages":  page.Pagination.TotalPages,
			totalKey:      page.Pagination.Total,
			"hasMore":     page.Pagination.HasMore,
		},
	}
}
