// Copyright (c) 2025 luoxu-web-ai authors
// All rights reserved. Use of this source code is governed by an
// MIT-style license that can be found in the LICENSE file.

package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// configRow is the single-row table backing SQLiteStore (ID=1).
type configRow struct {
	ID          uint    `gorm:"primaryKey"`
	AIProvider  string  `gorm:"not null"`
	APIKey      *string
	APIEndpoint string `gorm:"not null"`
	AIModel     string `gorm:"not null"`
	UpdatedAt   time.Time
}

func (configRow) TableName() string { return "ai_config" }

// SQLiteStore keeps the record in a SQLite database.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the database at path and migrates the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", path)

	gormLogger := logger.New(
		log.New(loggerWriter{}, "", 0),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql db")
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&configRow{}); err != nil {
		return nil, errors.Wrap(err, "auto migrate")
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying connection.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLiteStore) Load(ctx context.Context) (*Record, error) {
	var row configRow
	if err := s.db.WithContext(ctx).First(&row, 1).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "load config row")
	}
	return &Record{
		AIProvider:  row.AIProvider,
		APIKey:      row.APIKey,
		APIEndpoint: row.APIEndpoint,
		AIModel:     row.AIModel,
	}, nil
}

// Save overwrites the row; columns not carried by r are reset.
func (s *SQLiteStore) Save(ctx context.Context, r *Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	c := r.Clone()
	row := configRow{
		ID:          1,
		AIProvider:  c.AIProvider,
		APIKey:      c.APIKey,
		APIEndpoint: c.APIEndpoint,
		AIModel:     c.AIModel,
	}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return errors.Wrap(err, "save config row")
	}
	return nil
}

// loggerWriter routes gorm's logger through the standard logger.
type loggerWriter struct{}

func (loggerWriter) Write(p []byte) (int, error) {
	log.Printf("[DB] %s", p)
	return len(p), nil
}
