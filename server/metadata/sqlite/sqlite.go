// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

// Package sqlite resolves content identifiers to base asset keys from
// the article metadata database. Read-only from renderd's point of
// view; rows are written by the ingestion pipeline.
package sqlite

import (
	"context"
	"errors"
	"fmt"

	glebsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mediakit/renderd/server/types"
	"github.com/mediakit/renderd/utils/logging"
)

var logger = logging.Logger("metadata/sqlite")

// Config holds metadata lookup settings.
type Config struct {
	// Path is the sqlite database file.
	Path string `json:"path,omitempty" mapstructure:"path"`
}

// Article is the metadata row. Only ImageKey is projected by the
// lookup; the rest of the schema belongs to the ingestion pipeline.
type Article struct {
	ID       string `gorm:"primaryKey;column:id"`
	ImageKey string `gorm:"column:image_key"`
}

func (Article) TableName() string { return "articles" }

type lookup struct {
	db *gorm.DB
}

var _ types.MetadataLookup = (*lookup)(nil)

func New(cfg Config) (types.MetadataLookup, error) {
	if cfg.Path == "" {
		return nil, errors.New("metadata lookup requires a database path")
	}

	db, err := gorm.Open(glebsqlite.Open(cfg.Path), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata database: %w", err)
	}

	if err := db.AutoMigrate(&Article{}); err != nil {
		return nil, fmt.Errorf("failed to migrate metadata database: %w", err)
	}

	logger.Debug("Opened metadata database", "path", cfg.Path)

	return &lookup{db: db}, nil
}

// ResolveBaseKey projects the image key for a content id.
func (l *lookup) ResolveBaseKey(ctx context.Context, contentID string) (string, error) {
	var article Article

	err := l.db.WithContext(ctx).
		Select("image_key").
		First(&article, "id = ?", contentID).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("content %q: %w", contentID, types.ErrNotFound)
		}

		return "", fmt.Errorf("failed to look up content %q: %w: %w", contentID, types.ErrUnavailable, err)
	}

	if article.ImageKey == "" {
		return "", fmt.Errorf("content %q has no image: %w", contentID, types.ErrNotFound)
	}

	return article.ImageKey, nil
}
