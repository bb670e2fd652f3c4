// Copyright (c) 2025 luoxu-web-ai authors
// All rights reserved. Use of this source code is governed by an
// MIT-style license that can be found in the LICENSE file.

package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileStore keeps the record in a single pretty-printed JSON file.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore backed by path. The file is not touched until
// the first Load or Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Load reads and parses the config file. Keys outside Record are dropped.
func (s *FileStore) Load(ctx context.Context) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(ErrNotFound, "read %s", s.path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", s.path)
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "parse %s: %v", s.path, err)
	}
	// a file that parses but lacks required fields ({} or null) was not
	// written by Save
	if err := r.Validate(); err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "validate %s: %v", s.path, err)
	}
	return &r, nil
}

// Save replaces the config file with r. The data is written to a temp file in the
// same directory and renamed over the target.
func (s *FileStore) Save(ctx context.Context, r *Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode config")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "mkdir %s", dir)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, "write %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "close %s", tmpName)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "chmod %s", tmpName)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "replace %s", s.path)
	}
	return nil
}
