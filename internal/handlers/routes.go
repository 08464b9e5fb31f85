package handlers

import "net/http"

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	authH := AuthHandler{Users: deps.Users, Auth: deps.Auth, Sessions: deps.Sessions, Limiter: deps.LoginLimiter}
	users := UserHandler{Users: deps.Users, Feed: deps.Feed}
	videosH := VideoHandler{Videos: deps.Videos, Feed: deps.Feed}
	uploads := UploadHandler{Storage: deps.Storage}

	mux.HandleFunc("/healthz", health.Handle)
	mux.HandleFunc("/api/v1/auth/register", authH.Register)
	mux.HandleFunc("/api/v1/auth/login", authH.Login)
	mux.HandleFunc("/api/v1/users/me", users.DeleteSelf)
	mux.HandleFunc("/api/v1/users/{id}", users.Handle)
	mux.HandleFunc("/api/v1/videos", videosH.Handle)
	mux.HandleFunc("/api/v1/uploads", uploads.Upload)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users        UserStore
	Videos       VideoStore
	Auth         Authenticator
	Sessions     SessionIssuer
	Feed         FeedCache
	Storage      AssetStorage
	LoginLimiter RateLimiter
}
