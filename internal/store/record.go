// Copyright (c) 2025 luoxu-web-ai authors
// All rights reserved. Use of this source code is governed by an
// MIT-style license that can be found in the LICENSE file.

// Package store persists the AI provider configuration record.
package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Load when nothing has been saved yet.
	ErrNotFound = errors.New("config not found")
	// ErrCorrupt is returned by Load when the stored data cannot be parsed.
	ErrCorrupt = errors.New("config is corrupt")
	// ErrInvalidRecord is returned when a required field is empty.
	ErrInvalidRecord = errors.New("missing required config fields")
)

// Record is the AI provider configuration.
// APIKey is optional and kept in cleartext; a nil key is omitted on disk.
type Record struct {
	AIProvider  string  `json:"ai_provider"`
	APIKey      *string `json:"api_key,omitempty"`
	APIEndpoint string  `json:"api_endpoint"`
	AIModel     string  `json:"ai_model"`
}

// Validate checks that ai_provider, api_endpoint and ai_model are set.
func (r *Record) Validate() error {
	if r == nil || r.AIProvider == "" || r.APIEndpoint == "" || r.AIModel == "" {
		return ErrInvalidRecord
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	if r.APIKey != nil {
		k := *r.APIKey
		c.APIKey = &k
	}
	return &c
}

// Store loads and replaces the configuration record.
// Save always replaces the whole record; there is no merge with previous contents.
type Store interface {
	Load(ctx context.Context) (*Record, error)
	Save(ctx context.Context, r *Record) error
}

// Kinds accepted by Open.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)
