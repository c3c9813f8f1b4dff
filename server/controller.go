package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-auth-relay/internal/config"
	"github.com/jrsteele09/go-auth-relay/internal/errors"
	"github.com/jrsteele09/go-auth-relay/server/sessionrepo"
)

const shutdownTimeout = 5 * time.Second

// Result is handed back to the external controller for both lifecycle
// operations: when it happened and a human-readable status line naming the
// bound address.
type Result struct {
	Timestamp time.Time
	Status    string
}

// ListenerHandle bundles everything needed to cleanly release a running
// listener: the http server, its socket, and the serve-loop completion
// signal.
type ListenerHandle struct {
	key       string
	server    *http.Server
	listener  net.Listener
	serveDone chan struct{}
}

// Addr returns the address the listener is actually bound to.
func (h *ListenerHandle) Addr() string {
	return h.listener.Addr().String()
}

// Controller owns the embedded listener's lifecycle. At most one listener
// is bound at any time; starting while running is a hard restart.
type Controller struct {
	config   config.Config
	sessions sessionrepo.Repo

	mu     sync.Mutex
	active *ListenerHandle
}

func NewController(config config.Config, sessions sessionrepo.Repo) *Controller {
	return &Controller{
		config:   config,
		sessions: sessions,
	}
}

// Start binds the listener and begins serving asynchronously. Any running
// listener is fully released first. A fresh session is registered under
// accessKey; prior in-flight authorization data for that key is discarded.
// A bind failure surfaces to the caller and is not retried.
func (c *Controller) Start(ctx context.Context, accessKey string) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil {
		if _, err := c.stopLocked(ctx); err != nil {
			return nil, errors.Wrapf(err, "[Controller Start] stopping previous listener")
		}
	}

	if _, err := c.sessions.Register(accessKey); err != nil {
		return nil, errors.Wrapf(err, "[Controller Start] session registration")
	}

	addr := net.JoinHostPort(c.config.GetHost(), c.config.GetPort())
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "[Controller Start] bind %s", addr)
	}

	handle := &ListenerHandle{
		key: accessKey,
		server: &http.Server{
			Handler:           New(c.config, c.sessions, accessKey),
			ReadHeaderTimeout: 10 * time.Second,
		},
		listener:  listener,
		serveDone: make(chan struct{}),
	}

	go func() {
		defer close(handle.serveDone)
		if err := handle.server.Serve(handle.listener); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("listener serve loop failed")
		}
	}()

	c.active = handle
	log.Info().Str("addr", handle.Addr()).Msg("login server up")

	return &Result{
		Timestamp: time.Now(),
		Status:    fmt.Sprintf("%s Login Server UP - %s", c.config.GetAppName(), handle.Addr()),
	}, nil
}

// Stop gracefully shuts the listener down: no new connections, in-flight
// requests allowed to finish, socket released. When nothing is running it
// is a no-op returning (nil, nil). Safe to call repeatedly.
func (c *Controller) Stop(ctx context.Context) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return nil, nil
	}
	return c.stopLocked(ctx)
}

func (c *Controller) stopLocked(ctx context.Context) (*Result, error) {
	handle := c.active
	addr := handle.Addr()

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := handle.server.Shutdown(shutdownCtx); err != nil {
		// Bounded shutdown overran, force the socket closed
		log.Warn().Err(err).Msg("graceful shutdown failed, closing listener")
		_ = handle.server.Close()
	}
	<-handle.serveDone

	if err := c.sessions.Delete(handle.key); err != nil {
		log.Warn().Err(err).Msg("session cleanup on stop failed")
	}

	c.active = nil
	log.Info().Str("addr", addr).Msg("login server down")

	return &Result{
		Timestamp: time.Now(),
		Status:    fmt.Sprintf("%s Login Server DOWN - %s", c.config.GetAppName(), addr),
	}, nil
}

// Running reports whether a listener is currently bound.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil
}

// Addr returns the bound address of the active listener, or the empty
// string when stopped.
func (c *Controller) Addr() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return ""
	}
	return c.active.Addr()
}
