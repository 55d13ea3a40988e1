package database

import (
	"context"
	"time"
)

type DownloadStore struct {
	db *DB
}

func NewDownloadStore() *DownloadStore {
	return &DownloadStore{
		db: defaultDB,
	}
}

func NewDownloadStoreWithDB(db *DB) *DownloadStore {
	return &DownloadStore{
		db: db,
	}
}

// Download records one client fetching a release's artifact location.
// Rows are immutable and survive deletion of the referenced release, so
// historical stats stay truthful; Version is denormalized for that reason.
type Download struct {
	ID           int64     `bun:",pk,autoincrement" json:"id"`
	ReleaseID    int64     `bun:",notnull" json:"releaseId"`
	Version      string    `bun:",notnull" json:"version"`
	IPAddress    string    `bun:",nullzero" json:"ipAddress,omitempty"`
	UserAgent    string    `bun:",nullzero" json:"userAgent,omitempty"`
	Country      string    `bun:",nullzero" json:"country,omitempty"`
	DownloadedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"downloadedAt"`

	Release *Release `bun:"rel:belongs-to,join:release_id=id" json:"-"`
}

func (s *DownloadStore) Create(ctx context.Context, download *Download) error {
	_, err := s.db.Operator.Core.NewInsert().
		Model(download).
		Exec(ctx)
	return err
}

func (s *DownloadStore) Count(ctx context.Context) (int64, error) {
	count, err := s.db.Operator.Core.NewSelect().
		Model((*Download)(nil)).
		Count(ctx)
	return int64(count), err
}

type VersionCount struct {
	Version string `bun:"version"`
	Count   int64  `bun:"count"`
}

// CountByVersion groups download totals per denormalized version string,
// most downloaded first.
func (s *DownloadStore) CountByVersion(ctx context.Context) ([]VersionCount, error) {
	rows := make([]VersionCount, 0)
	err := s.db.Operator.Core.NewSelect().
		Model((*Download)(nil)).
		ColumnExpr("version").
		ColumnExpr("count(*) AS count").
		GroupExpr("version").
		OrderExpr("count DESC").
		Scan(ctx, &rows)
	return rows, err
}

// Recent returns the newest downloads with the referenced release joined
// when it still exists (deleting a release does not cascade here).
func (s *DownloadStore) Recent(ctx context.Context, limit int) ([]Download, error) {
	downloads := make([]Download, 0)
	err := s.db.Operator.Core.NewSelect().
		Model(&downloads).
		Relation("Release").
		Order("downloaded_at DESC", "id DESC").
		Limit(limit).
		Scan(ctx)
	return downloads, err
}
