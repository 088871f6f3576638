// Package handle_resources serves WHOIS lookups over HTTP.
package handle_resources

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/KincaidYang/whoisresolver/resolver"
	"github.com/KincaidYang/whoisresolver/utils"
	"go.uber.org/zap"
)

// Options configures a Handler.
type Options struct {
	Resolver *resolver.Resolver
	// Cache is reported by the health endpoints.
	Cache        utils.Cache
	RequireRedis bool
	// RateLimit bounds the number of lookups served concurrently.
	RateLimit int
	Logger    *zap.Logger
}

// Handler holds the state shared by the HTTP endpoints.
type Handler struct {
	resolver     *resolver.Resolver
	cache        utils.Cache
	requireRedis bool
	limiter      chan struct{}
	wg           sync.WaitGroup
	started      time.Time
	log          *zap.SugaredLogger
}

// New creates a Handler.
func New(opts Options) *Handler {
	if opts.RateLimit <= 0 {
		opts.RateLimit = 50
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Handler{
		resolver:     opts.Resolver,
		cache:        opts.Cache,
		requireRedis: opts.RequireRedis,
		limiter:      make(chan struct{}, opts.RateLimit),
		started:      time.Now(),
		log:          opts.Logger.Sugar().Named("http"),
	}
}

// Register adds the endpoints to mux. Other routes on mux must name their
// method to avoid overlapping GET /{key}.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET /ready", h.HandleReady)
	mux.HandleFunc("GET /info", h.HandleInfo)
	mux.HandleFunc("GET /{key}", h.limited(h.HandleLookup))
	mux.HandleFunc("GET /{key}/{property}", h.limited(h.HandleProperty))
}

// limited holds a slot of the concurrency limiter while next runs.
func (h *Handler) limited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case h.limiter <- struct{}{}:
		case <-r.Context().Done():
			return
		}
		h.wg.Add(1)
		defer func() {
			<-h.limiter
			h.wg.Done()
		}()
		next(w, r)
	}
}

// Wait blocks until in-flight lookups finish or ctx is done.
func (h *Handler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InFlight is the number of lookups holding a limiter slot.
func (h *Handler) InFlight() int {
	return len(h.limiter)
}
