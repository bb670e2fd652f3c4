// Copyright (c) 2025 luoxu-web-ai authors
// All rights reserved. Use of this source code is governed by an
// MIT-style license that can be found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Aierlanta/luoxu-web-ai/internal/config"
	"github.com/Aierlanta/luoxu-web-ai/internal/devproxy"
	"github.com/Aierlanta/luoxu-web-ai/internal/server"
)

// dev-server is the development variant: it binds to localhost by default,
// serves the frontend from a directory and forwards the proxy prefix to a
// remote backend.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	port := flag.Int("port", cfg.Port, "port to listen on (env PORT)")
	host := flag.String("host", "127.0.0.1", "host interface to listen on")
	configFile := flag.String("config-file", cfg.ConfigFile, "JSON file holding the AI config")
	storeKind := flag.String("store", cfg.Store, "config store: file, sqlite or memory")
	staticDir := flag.String("static-dir", cfg.StaticDir, "directory for frontend assets (dev mode)")
	proxyPrefix := flag.String("proxy-prefix", cfg.ProxyPrefix, "path prefix forwarded to the proxy target")
	proxyTarget := flag.String("proxy-target", cfg.ProxyTarget, "remote origin for proxied requests, e.g. http://host:9008")
	flag.Parse()

	cfg.Port = *port
	cfg.Host = *host
	cfg.ConfigFile = *configFile
	cfg.Store = *storeKind
	cfg.StaticDir = *staticDir
	cfg.ProxyPrefix = *proxyPrefix
	cfg.ProxyTarget = *proxyTarget

	log.SetOutput(os.Stdout)

	s, closer, err := server.Open(cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	defer closer.Close()

	if cfg.ProxyTarget != "" {
		p, err := devproxy.New(cfg.ProxyPrefix, cfg.ProxyTarget)
		if err != nil {
			log.Fatalf("proxy: %v", err)
		}
		s.EnableProxy(p)
	} else {
		log.Printf("[PROXY] no proxy target set, %s is not forwarded", cfg.ProxyPrefix)
	}

	if err := s.Routes(); err != nil {
		log.Fatalf("routes: %v", err)
	}
	if cfg.Host != "127.0.0.1" && cfg.Host != "localhost" {
		log.Printf("[WARNING] Dev server is listening on EXTERNAL interface (%s).", cfg.Host)
	}
	actualPort, err := s.Start()
	if err != nil {
		log.Fatalf("server error: %v", err)
	}
	log.Printf("Dev server started on http://localhost:%d", actualPort)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
