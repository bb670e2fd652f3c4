// Copyright (c) 2025 luoxu-web-ai authors
// All rights reserved. Use of this source code is governed by an
// MIT-style license that can be found in the LICENSE file.

// Package shell serves the browser entry page that picks the top-level view
// from the session flag in local storage.
package shell

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
)

// View is one of the two top-level views.
type View string

const (
	ViewApp   View = "app"
	ViewLogin View = "login"
)

// LoggedInValue is the only flag value that counts as logged in.
const LoggedInValue = "true"

// Select picks the view for a session flag value. Anything other than the
// exact string "true" (including an absent flag) selects the login view.
func Select(flag string) View {
	if flag == LoggedInValue {
		return ViewApp
	}
	return ViewLogin
}

// Options configures the entry page.
type Options struct {
	Title      string
	Key        string // local storage key holding the session flag
	AppEntry   string // module mounted for ViewApp
	LoginEntry string // module mounted for ViewLogin
	StaticDir  string // optional directory served for everything but "/"
}

//go:embed templates/index.html
var templates embed.FS

var indexTmpl = template.Must(template.ParseFS(templates, "templates/index.html"))

type pageData struct {
	Title       string
	Key         string
	Expected    string
	AppView     View
	LoginView   View
	AppEntry    string
	LoginEntry  string
	InitialView View
}

// Handler serves the entry page at "/" and static assets elsewhere.
type Handler struct {
	page   []byte
	static http.Handler
}

// New renders the entry page once and prepares static serving.
func New(opts Options) (*Handler, error) {
	if opts.Title == "" {
		opts.Title = "Luoxu"
	}
	if opts.AppEntry == "" {
		opts.AppEntry = "./app.js"
	}
	if opts.LoginEntry == "" {
		opts.LoginEntry = "./login.js"
	}

	var buf bytes.Buffer
	err := indexTmpl.Execute(&buf, pageData{
		Title:       opts.Title,
		Key:         opts.Key,
		Expected:    LoggedInValue,
		AppView:     ViewApp,
		LoginView:   ViewLogin,
		AppEntry:    opts.AppEntry,
		LoginEntry:  opts.LoginEntry,
		InitialView: Select(""),
	})
	if err != nil {
		return nil, err
	}

	h := &Handler{page: buf.Bytes()}
	if opts.StaticDir != "" {
		abs, err := filepath.Abs(opts.StaticDir)
		if err != nil {
			return nil, err
		}
		h.static = http.FileServer(http.Dir(abs))
		log.Printf("serving static from %s", abs)
	}
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" || r.URL.Path == "/index.html" {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(h.page)
		return
	}
	if h.static == nil {
		http.NotFound(w, r)
		return
	}
	h.static.ServeHTTP(w, r)
}
