package api

import (
	"github.com/gorilla/mux"

	"microblog/internal/api/recovery"
	"microblog/internal/auth"
	"microblog/internal/mediafiles"
	"microblog/internal/services"
	"microblog/internal/store"
)

// NewRouter creates the HTTP router with every API route wired to its service.
func NewRouter(st store.Store, files *mediafiles.Dir) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware)

	authorizer := auth.New(st.Users())

	userService := services.NewUserService(st)
	tweetService := services.NewTweetService(st, files)
	likeService := services.NewLikeService(st)
	followService := services.NewFollowService(st)
	mediaService := services.NewMediaService(st, files)

	healthHandler := NewHealthHandler(st)
	userHandler := NewUserHandler(userService, followService, authorizer)
	tweetHandler := NewTweetHandler(tweetService, likeService, authorizer)
	mediaHandler := NewMediaHandler(mediaService)

	// Health endpoint
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	// User endpoints ("me" registered before the numeric id route)
	router.HandleFunc("/api/users/me", userHandler.Me).Methods("GET")
	router.HandleFunc("/api/users/{id:[0-9]+}", userHandler.GetUser).Methods("GET")
	router.HandleFunc("/api/users/{id:[0-9]+}/follow", userHandler.Follow).Methods("POST")
	router.HandleFunc("/api/users/{id:[0-9]+}/follow", userHandler.Unfollow).Methods("DELETE")

	// Tweet endpoints
	router.HandleFunc("/api/tweets", tweetHandler.CreateTweet).Methods("POST")
	router.HandleFunc("/api/tweets", tweetHandler.ListTweets).Methods("GET")
	router.HandleFunc("/api/tweets/{id:[0-9]+}", tweetHandler.DeleteTweet).Methods("DELETE")
	router.HandleFunc("/api/tweets/{id:[0-9]+}/likes", tweetHandler.AddLike).Methods("POST")
	router.HandleFunc("/api/tweets/{id:[0-9]+}/likes", tweetHandler.RemoveLike).Methods("DELETE")

	// Media upload
	router.HandleFunc("/api/medias", mediaHandler.UploadMedia).Methods("POST")

	return router
}
