// Package store persists search outputs: exported workbooks in Redis for
// download, and a history row per search run in PostgreSQL.
package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "business-locator/internal/common/errors"
)

const exportKeyPrefix = "locator:export:"

// StoredExport is a rendered workbook kept for later download.
type StoredExport struct {
	SearchID    string
	FileName    string
	Content     []byte
	RecordCount int
	CreatedAt   time.Time
}

// ResultStore keeps workbooks in Redis hashes that expire after ttl.
type ResultStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewResultStore(client redis.Cmdable, ttl time.Duration) *ResultStore {
	return &ResultStore{client: client, ttl: ttl}
}

func exportKey(searchID string) string {
	return exportKeyPrefix + searchID
}

// Save writes the export and its expiry in one transaction.
func (s *ResultStore) Save(ctx context.Context, e StoredExport) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	key := exportKey(e.SearchID)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"fileName", e.FileName,
			"content", e.Content,
			"recordCount", e.RecordCount,
			"createdAt", e.CreatedAt.Format(time.RFC3339),
		)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return apperrors.NewResultStoreFailedError(err)
	}
	return nil
}

// Load returns the export for searchID, or an EXPORT_NOT_FOUND error once it
// has expired or was never stored.
func (s *ResultStore) Load(ctx context.Context, searchID string) (*StoredExport, error) {
	fields, err := s.client.HGetAll(ctx, exportKey(searchID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, apperrors.NewResultStoreFailedError(err)
	}
	if len(fields) == 0 {
		return nil, apperrors.NewExportNotFoundError(searchID)
	}

	count, _ := strconv.Atoi(fields["recordCount"])
	created, _ := time.Parse(time.RFC3339, fields["createdAt"])
	return &StoredExport{
		SearchID:    searchID,
		FileName:    fields["fileName"],
		Content:     []byte(fields["content"]),
		RecordCount: count,
		CreatedAt:   created,
	}, nil
}
