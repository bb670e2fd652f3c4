// Copyright (c) 2025 luoxu-web-ai authors
// All rights reserved. Use of this source code is governed by an
// MIT-style license that can be found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Aierlanta/luoxu-web-ai/internal/config"
	"github.com/Aierlanta/luoxu-web-ai/internal/handlers"
	"github.com/Aierlanta/luoxu-web-ai/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	port := flag.Int("port", cfg.Port, "port to listen on (env PORT)")
	host := flag.String("host", cfg.Host, "host interface to listen on")
	configFile := flag.String("config-file", cfg.ConfigFile, "JSON file holding the AI config")
	storeKind := flag.String("store", cfg.Store, "config store: file, sqlite or memory")
	dbPath := flag.String("db", cfg.DBPath, "database path for the sqlite store")
	staticDir := flag.String("static-dir", cfg.StaticDir, "directory for frontend assets")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(handlers.BackendVersion)
		os.Exit(0)
	}

	cfg.Port = *port
	cfg.Host = *host
	cfg.ConfigFile = *configFile
	cfg.Store = *storeKind
	cfg.DBPath = *dbPath
	cfg.StaticDir = *staticDir

	log.SetOutput(os.Stdout)
	log.Printf("luoxu v%s starting", handlers.BackendVersion)

	s, closer, err := server.Open(cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	defer closer.Close()

	if err := s.Routes(); err != nil {
		log.Fatalf("routes: %v", err)
	}
	actualPort, err := s.Start()
	if err != nil {
		log.Fatalf("server error: %v", err)
	}
	log.Printf("Server running on port %d (store=%s)", actualPort, cfg.Store)

	// wait for interrupt (Ctrl-C) or termination signal
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
