// Copyright (c) 2025 luoxu-web-ai authors
// All rights reserved. Use of this source code is governed by an
// MIT-style license that can be found in the LICENSE file.

package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/Aierlanta/luoxu-web-ai/internal/config"
	"github.com/Aierlanta/luoxu-web-ai/internal/devproxy"
	"github.com/Aierlanta/luoxu-web-ai/internal/handlers"
	"github.com/Aierlanta/luoxu-web-ai/internal/shell"
	"github.com/Aierlanta/luoxu-web-ai/internal/store"
	"github.com/Aierlanta/luoxu-web-ai/internal/watcher"
)

// Server represents the HTTP server configuration and mux.
type Server struct {
	Config     *config.Config
	Store      store.Store
	Events     *watcher.Service
	Proxy      *devproxy.Proxy
	Mux        *http.ServeMux
	httpServer *http.Server
	listener   net.Listener
}

// New creates a Server. events may be nil, in which case an in-process
// broadcaster without file watching is used.
func New(cfg *config.Config, s store.Store, events *watcher.Service) *Server {
	if events == nil {
		events = watcher.New(storeName(cfg))
	}
	return &Server{
		Config: cfg,
		Store:  s,
		Events: events,
		Mux:    http.NewServeMux(),
	}
}

// storeName labels events after the store actually in use.
func storeName(cfg *config.Config) string {
	if cfg.Store == store.KindMemory {
		return cfg.Store
	}
	return filepath.Base(cfg.StorePath())
}

// EnableProxy mounts the development proxy under its prefix. Must be called
// before Routes.
func (s *Server) EnableProxy(p *devproxy.Proxy) {
	s.Proxy = p
}

// Routes registers all HTTP handlers on the server mux.
func (s *Server) Routes() error {
	s.Mux.HandleFunc("/health", handlers.Health)
	s.Mux.HandleFunc("/api/version", handlers.VersionHandler)

	// APIs
	s.Mux.Handle("/api/config", handlers.ConfigHandler(s.Store, s.Events))
	s.Mux.Handle("/api/events", handlers.EventsHandler(s.Events))
	s.Mux.Handle("/ws/events", handlers.WsEventsHandler(s.Events))

	if s.Proxy != nil {
		log.Printf("[PROXY] %s* -> %s", s.Proxy.Prefix, s.Proxy.Target)
	}

	sh, err := shell.New(shell.Options{
		Key:       s.Config.SessionKey,
		StaticDir: s.Config.StaticDir,
	})
	if err != nil {
		return fmt.Errorf("build entry page: %w", err)
	}
	s.Mux.Handle("/", sh)
	return nil
}

// Handler returns the mux wrapped in the logging and CORS middleware.
// Proxied paths skip CORS so preflights and CORS headers come from upstream.
func (s *Server) Handler() http.Handler {
	local := handlers.CORS(s.Mux)
	if s.Proxy == nil {
		return handlers.Logging(local)
	}
	return handlers.Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Proxy.Match(r.URL.Path) {
			s.Proxy.ServeHTTP(w, r)
			return
		}
		local.ServeHTTP(w, r)
	}))
}

// Start listens on the configured host and port and serves in a goroutine.
// It returns the actual port, which differs from the configured one when
// that is 0.
func (s *Server) Start() (int, error) {
	addr := net.JoinHostPort(s.Config.Host, fmt.Sprint(s.Config.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return 0, err
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.Events.Start(); err != nil {
		log.Printf("[WATCHER] not watching %s: %v", s.Config.ConfigFile, err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	log.Printf("starting server on %s", ln.Addr())
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("server error: %v", err)
		}
	}()
	return port, nil
}

// Shutdown stops event streams and gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	// closing subscriber channels ends SSE and websocket handlers
	s.Events.Stop()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
