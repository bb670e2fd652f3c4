// Copyright (c) 2025 luoxu-web-ai authors
// All rights reserved. Use of this source code is governed by an
// MIT-style license that can be found in the LICENSE file.

// Package devproxy forwards prefixed requests to a remote backend during local
// development so the browser only ever talks to one origin.
package devproxy

import (
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
)

// Proxy strips Prefix from matching request paths and forwards the rest to Target.
type Proxy struct {
	Prefix string
	Target *url.URL
	rp     *httputil.ReverseProxy
}

// New builds a proxy for prefix (e.g. "/luoxu_api") and a target origin
// (e.g. "http://example.com:9008").
func New(prefix, target string) (*Proxy, error) {
	if !strings.HasPrefix(prefix, "/") || prefix == "/" {
		return nil, fmt.Errorf("invalid proxy prefix %q", prefix)
	}
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("parse proxy target: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("proxy target %q needs scheme and host", target)
	}

	p := &Proxy{Prefix: strings.TrimSuffix(prefix, "/"), Target: u}
	p.rp = &httputil.ReverseProxy{
		Director:     p.direct,
		ErrorHandler: p.upstreamError,
	}
	return p, nil
}

// Match reports whether path starts with the proxy prefix. This is a plain
// string prefix, so "/luoxu_apiX" matches as well as "/luoxu_api/x".
func (p *Proxy) Match(path string) bool {
	return strings.HasPrefix(path, p.Prefix)
}

// Rewrite returns path with the prefix removed, always rooted at "/".
func (p *Proxy) Rewrite(path string) string {
	rest := strings.TrimPrefix(path, p.Prefix)
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return rest
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !p.Match(r.URL.Path) {
		http.NotFound(w, r)
		return
	}
	p.rp.ServeHTTP(w, r)
}

// direct rewrites the outgoing request. The Host header is set to the target
// so the upstream sees itself as the origin.
func (p *Proxy) direct(r *http.Request) {
	rest := p.Rewrite(r.URL.Path)
	r.URL.Scheme = p.Target.Scheme
	r.URL.Host = p.Target.Host
	r.URL.Path = singleJoin(p.Target.Path, rest)
	r.URL.RawPath = ""
	r.Host = p.Target.Host
	if _, ok := r.Header["User-Agent"]; !ok {
		// explicitly disable User-Agent so it's not set to default value
		r.Header.Set("User-Agent", "")
	}
	if origin := r.Header.Get("Origin"); origin != "" {
		r.Header.Set("Origin", p.Target.Scheme+"://"+p.Target.Host)
	}
}

func (p *Proxy) upstreamError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("[PROXY] %s %s -> %s: %v", r.Method, r.URL.Path, p.Target.Host, err)
	w.WriteHeader(http.StatusBadGateway)
}

func singleJoin(a, b string) string {
	switch {
	case a == "" || a == "/":
		return b
	case strings.HasSuffix(a, "/") && strings.HasPrefix(b, "/"):
		return a + b[1:]
	case !strings.HasSuffix(a, "/") && !strings.HasPrefix(b, "/"):
		return a + "/" + b
	}
	return a + b
}
