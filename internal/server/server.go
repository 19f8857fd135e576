package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/alejandrodnm/dcasim/internal/domain"
)

// Simulator es lo único que el transporte necesita del motor.
type Simulator interface {
	Simulate(ctx context.Context, req domain.SimulationRequest) (*domain.SimulationResult, error)
}

// Server es el servidor HTTP de la API. Capa fina: decodifica, delega en el
// motor y mapea errores a status codes. Ninguna lógica de simulación vive aquí.
type Server struct {
	router *chi.Mux
	server *http.Server
	sim    Simulator
}

// New crea el servidor escuchando en el puerto dado.
func New(port int, sim Simulator) *Server {
	s := &Server{
		router: chi.NewRouter(),
		sim:    sim,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Timeout(60 * time.Second))

	// Mismo CORS permisivo que tendría un frontend local apuntando aquí.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleRoot)
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/indices", s.handleIndices)
		r.Post("/simulate", s.handleSimulate)
	})
}

// logRequests loguea cada petición con método, ruta, status y duración.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// Handler expone el router para tests con httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start arranca el servidor y bloquea hasta que se cierre.
func (s *Server) Start() error {
	slog.Info("http server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown para el servidor limpiamente, drenando conexiones activas.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
