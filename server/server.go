package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/yashgajera132/blockchain-voting-system/auth"
	"github.com/yashgajera132/blockchain-voting-system/config"
	"github.com/yashgajera132/blockchain-voting-system/reconcile"
)

type Server struct {
	cfg          *config.ServerConfig
	service      *reconcile.Service
	authProvider auth.Provider
}

func NewServer(cfg *config.ServerConfig, service *reconcile.Service, authProvider auth.Provider) *Server {
	return &Server{
		cfg:          cfg,
		service:      service,
		authProvider: authProvider,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	r.Use(auth.Middleware(s.authProvider))

	r.Route("/elections", func(r chi.Router) {
		r.Post("/", auth.RequireAdmin(s.createElection))
		r.Get("/", s.listElections)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getElection)
			r.Put("/", auth.RequireAdmin(s.updateElection))
			r.Put("/status", auth.RequireAdmin(s.setStatus))
			r.Delete("/", auth.RequireAdmin(s.deleteElection))
			r.Post("/vote", auth.Require(s.castVote))
			r.Post("/voters", auth.RequireAdmin(s.addVoter))
			r.Get("/votes", auth.RequireAdmin(s.listVotes))
			r.Get("/results", s.getResults)
		})
	})
	r.Post("/votes/verify", s.verifyVote)

	return r
}

func (s *Server) Serve() error {
	return http.ListenAndServe(fmt.Sprintf(":%d", s.cfg.Port), s.Router())
}
