package app

import (
	"net/http"

	"github.com/gorilla/mux"

	handlers "tripmate/internal/handler"
	"tripmate/internal/middleware"
	"tripmate/internal/models"
	"tripmate/internal/service"
)

// NewRouter mounts every route under /api. Anonymous routes are registered
// before the protected subrouter so its auth middleware never sees them.
func NewRouter(h *handlers.Handlers, authService service.AuthService, frontendURL string, debug bool) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, "Route not found", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	api.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh-token", h.RefreshToken).Methods(http.MethodPost)
	api.HandleFunc("/auth/check-userid/{userId}", h.CheckUserID).Methods(http.MethodGet)
	api.HandleFunc("/trips", h.ListTrips).Methods(http.MethodGet)

	protected := api.NewRoute().Subrouter()
	protected.Use(mux.MiddlewareFunc(middleware.Auth(authService)))

	protected.HandleFunc("/auth/me", h.GetMe).Methods(http.MethodGet)
	protected.HandleFunc("/auth/profile", h.UpdateProfile).Methods(http.MethodPut)
	protected.HandleFunc("/auth/change-password", h.ChangePassword).Methods(http.MethodPut)

	protected.HandleFunc("/users/search", h.SearchUsers).Methods(http.MethodGet)
	protected.HandleFunc("/users/{userId}", h.GetUserProfile).Methods(http.MethodGet)

	protected.HandleFunc("/follow/{userId}/follow", h.Follow).Methods(http.MethodPost)
	protected.HandleFunc("/follow/{userId}/unfollow", h.Unfollow).Methods(http.MethodDelete)
	protected.HandleFunc("/follow/{userId}/followers", h.Followers).Methods(http.MethodGet)
	protected.HandleFunc("/follow/{userId}/following", h.Following).Methods(http.MethodGet)
	protected.HandleFunc("/follow/{userId}/status", h.FollowStatus).Methods(http.MethodGet)

	protected.HandleFunc("/posts", h.CreatePost).Methods(http.MethodPost)
	protected.HandleFunc("/posts/feed", h.GetFeed).Methods(http.MethodGet)
	protected.HandleFunc("/posts/user/{userId}", h.GetUserPosts).Methods(http.MethodGet)
	protected.HandleFunc("/posts/{postId}", h.DeletePost).Methods(http.MethodDelete)
	protected.HandleFunc("/posts/{postId}/like", h.LikePost).Methods(http.MethodPost)
	protected.HandleFunc("/posts/{postId}/unlike", h.UnlikePost).Methods(http.MethodDelete)
	protected.HandleFunc("/posts/{postId}/comments", h.AddComment).Methods(http.MethodPost)
	protected.HandleFunc("/posts/{postId}/comments", h.GetComments).Methods(http.MethodGet)

	protected.HandleFunc("/uploads/images", h.UploadImage).Methods(http.MethodPost)

	protected.HandleFunc("/notifications", h.GetNotifications).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/unread-count", h.GetUnreadCount).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/read-all", h.MarkAllNotificationsRead).Methods(http.MethodPatch)
	protected.HandleFunc("/notifications/{notificationId}/read", h.MarkNotificationRead).Methods(http.MethodPatch)
	protected.HandleFunc("/notifications/{notificationId}", h.DeleteNotification).Methods(http.MethodDelete)

	protected.HandleFunc("/trips", h.CreateTrip).Methods(http.MethodPost)
	protected.Handle("/trips/organizer/my-trips",
		middleware.RequireRole(models.RoleOrganizer)(http.HandlerFunc(h.GetMyTrips))).Methods(http.MethodGet)
	protected.HandleFunc("/trips/{tripId}", h.UpdateTrip).Methods(http.MethodPatch)
	protected.HandleFunc("/trips/{tripId}", h.DeleteTrip).Methods(http.MethodDelete)
	protected.HandleFunc("/trips/{tripId}/publish", h.PublishTrip).Methods(http.MethodPatch)

	// registered after my-trips so the literal path wins
	api.HandleFunc("/trips/{tripId}", h.GetTrip).Methods(http.MethodGet)

	return middleware.Chain(r,
		middleware.Recovery(debug),
		middleware.Logging,
		middleware.CORS(frontendURL),
	)
}
