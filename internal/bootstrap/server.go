package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/avolkov/flightbooking/api"
	"github.com/avolkov/flightbooking/config"
	"github.com/gin-gonic/gin"
)

// Handler registers routes on a router group.
type Handler interface {
	Register(router *gin.RouterGroup)
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails, then shuts down gracefully.
func Run(ctx context.Context, cfg *config.Config, handlers ...Handler) error {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())

	root := engine.Group("")
	for _, h := range handlers {
		h.Register(root)
	}
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	httpServer := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

var _ Handler = (*api.FlightHandler)(nil)
