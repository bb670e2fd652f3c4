// Copyright (c) 2025 luoxu-web-ai authors
// All rights reserved. Use of this source code is governed by an
// MIT-style license that can be found in the LICENSE file.

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strings"

	"github.com/Aierlanta/luoxu-web-ai/internal/store"
)

// Fixed messages returned to callers. Causes are logged, never exposed.
const (
	MsgReadFailed    = "failed to read config"
	MsgMissingFields = "missing required config fields"
	MsgSaveFailed    = "failed to save config"
	MsgSaved         = "config saved"
)

const maxConfigBody = 1 << 20

// configRequest mirrors the accepted POST body; unknown fields are ignored.
type configRequest struct {
	AIProvider  string  `json:"ai_provider"`
	APIKey      *string `json:"api_key"`
	APIEndpoint string  `json:"api_endpoint"`
	AIModel     string  `json:"ai_model"`
}

type saveResp struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Notifier is told about every accepted write.
type Notifier interface {
	Notify()
}

// ConfigHandler reads and replaces the AI provider configuration.
// @Summary Get or replace AI provider config
// @Description GET returns the stored record; POST replaces it wholesale.
// @ID configHandler
// @Tags config
// @Accept json
// @Produce json
// @Success 200 {object} store.Record
// @Failure 400 {object} errorResp
// @Failure 500 {object} errorResp
// @Router /api/config [get]
// @Router /api/config [post]
func ConfigHandler(s store.Store, n Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			getConfig(s, w, r)
		case http.MethodPost:
			postConfig(s, n, w, r)
		default:
			w.Header().Set("Allow", "GET, POST, OPTIONS")
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	}
}

func getConfig(s store.Store, w http.ResponseWriter, r *http.Request) {
	rec, err := s.Load(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			log.Printf("[CONFIG] %s read: not configured yet: %v", RequestID(r), err)
		case errors.Is(err, store.ErrCorrupt):
			log.Printf("[CONFIG] %s read: corrupt config: %v", RequestID(r), err)
		default:
			log.Printf("[CONFIG] %s read: %v", RequestID(r), err)
		}
		writeError(w, http.StatusInternalServerError, MsgReadFailed)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func postConfig(s store.Store, n Notifier, w http.ResponseWriter, r *http.Request) {
	if !isJSON(r.Header.Get("Content-Type")) {
		log.Printf("[CONFIG] %s write: unsupported content type %q", RequestID(r), r.Header.Get("Content-Type"))
		writeError(w, http.StatusBadRequest, MsgMissingFields)
		return
	}
	var req configRequest
	if err := decodeBody(w, r, &req); err != nil {
		log.Printf("[CONFIG] %s write: bad body: %v", RequestID(r), err)
		writeError(w, http.StatusBadRequest, MsgMissingFields)
		return
	}

	rec := &store.Record{
		AIProvider:  req.AIProvider,
		APIKey:      req.APIKey,
		APIEndpoint: req.APIEndpoint,
		AIModel:     req.AIModel,
	}
	if err := rec.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, MsgMissingFields)
		return
	}

	if err := s.Save(r.Context(), rec); err != nil {
		log.Printf("[CONFIG] %s write: %v", RequestID(r), err)
		writeError(w, http.StatusInternalServerError, MsgSaveFailed)
		return
	}
	if n != nil {
		n.Notify()
	}
	writeJSON(w, http.StatusOK, saveResp{Success: true, Message: MsgSaved})
}

// isJSON accepts application/json and +json media types.
func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// decodeBody decodes exactly one JSON value; anything after it is an error.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxConfigBody))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("trailing data after JSON body")
	}
	return nil
}
