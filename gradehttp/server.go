package gradehttp

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/programme-lv/grader/gradebook"
)

type HttpServer struct {
	router *chi.Mux
}

func NewHttpServer(opts gradebook.Options, corsOrigins []string) *HttpServer {
	router := chi.NewRouter()

	logger := httplog.NewLogger("grader", httplog.Options{
		LogLevel:         slog.LevelDebug,
		Concise:          true,
		RequestHeaders:   false,
		MessageFieldName: "message",
	})

	router.Use(httplog.RequestLogger(logger))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         3000,
	}))

	NewGradeHttpHandler(opts).RegisterRoutes(router)

	return &HttpServer{router: router}
}

func (httpserver *HttpServer) Handler() http.Handler {
	return httpserver.router
}

func (httpserver *HttpServer) Start(address string) error {
	return http.ListenAndServe(address, httpserver.router)
}
