package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
)

type GigMapHttpServer struct {
	router          *Router
	muxRouter       *mux.Router
	addr            string
	corsOrigins     []string
	shutdownTimeout time.Duration
}

func NewGigMapHttpServer(router *Router, muxRouter *mux.Router, addr string, corsOrigins []string, shutdownTimeout time.Duration) *GigMapHttpServer {
	return &GigMapHttpServer{
		router:          router,
		muxRouter:       muxRouter,
		addr:            addr,
		corsOrigins:     corsOrigins,
		shutdownTimeout: shutdownTimeout,
	}
}

// Handler registers the routes and wraps them in the CORS layer.
func (s *GigMapHttpServer) Handler() http.Handler {
	s.router.RegisterRoutes()

	return cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})(s.muxRouter)
}

// Start serves until SIGINT/SIGTERM or ctx is done, then shuts down gracefully.
func (s *GigMapHttpServer) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[GigMapHttpServer] Starting server on %s", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
	case <-ctx.Done():
	}
	log.Println("[GigMapHttpServer] Shutting down the server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Println("[GigMapHttpServer] Server exiting")
	return nil
}
