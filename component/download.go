package component

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/centerhq/appstore-server/builder/store/database"
	"github.com/centerhq/appstore-server/common/config"
	"github.com/centerhq/appstore-server/common/types"
)

// DownloadComponent tracks download events and aggregates download stats.
type DownloadComponent interface {
	Record(ctx context.Context, releaseID int64, ipAddress, userAgent string) (types.DownloadTicket, error)
	Stats(ctx context.Context) (types.DownloadStats, error)
}

type downloadComponentImpl struct {
	rs *database.ReleaseStore
	ds *database.DownloadStore
}

func NewDownloadComponent(cfg *config.Config) DownloadComponent {
	return &downloadComponentImpl{
		rs: database.NewReleaseStore(),
		ds: database.NewDownloadStore(),
	}
}

// NewTestDownloadComponent wires explicit stores, test only.
func NewTestDownloadComponent(rs *database.ReleaseStore, ds *database.DownloadStore) DownloadComponent {
	return &downloadComponentImpl{
		rs: rs,
		ds: ds,
	}
}

// Record inserts one download event and bumps the release counter. The
// counter update is a single atomic add at the store, the event insert and
// the increment are otherwise independent writes.
func (c *downloadComponentImpl) Record(ctx context.Context, releaseID int64, ipAddress, userAgent string) (types.DownloadTicket, error) {
	var ticket types.DownloadTicket

	release, err := c.rs.FindByID(ctx, releaseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ticket, ErrNotFound
		}
		return ticket, fmt.Errorf("failed to find release %d: %w", releaseID, err)
	}

	err = c.ds.Create(ctx, &database.Download{
		ReleaseID: release.ID,
		Version:   release.Version,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	})
	if err != nil {
		return ticket, fmt.Errorf("failed to record download of release %d: %w", releaseID, err)
	}

	err = c.rs.IncrementDownloadCount(ctx, release.ID)
	if err != nil {
		return ticket, fmt.Errorf("failed to increment download count of release %d: %w", releaseID, err)
	}

	ticket.DownloadURL = release.ApkURL
	ticket.Version = release.Version
	ticket.Size = release.ApkSize
	return ticket, nil
}

// Stats is read only. An empty downloads table yields zero-valued
// aggregates, not an error.
func (c *downloadComponentImpl) Stats(ctx context.Context) (types.DownloadStats, error) {
	stats := types.DownloadStats{
		ByVersion: []types.VersionDownloads{},
		Recent:    []types.RecentDownload{},
	}

	total, err := c.ds.Count(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to count downloads: %w", err)
	}
	stats.Total = total

	byVersion, err := c.ds.CountByVersion(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to count downloads by version: %w", err)
	}
	for _, vc := range byVersion {
		stats.ByVersion = append(stats.ByVersion, types.VersionDownloads{
			Version: vc.Version,
			Count:   vc.Count,
		})
	}

	recent, err := c.ds.Recent(ctx, 10)
	if err != nil {
		return stats, fmt.Errorf("failed to list recent downloads: %w", err)
	}
	for _, d := range recent {
		entry := types.RecentDownload{
			ID:           d.ID,
			ReleaseID:    d.ReleaseID,
			Version:      d.Version,
			IPAddress:    d.IPAddress,
			UserAgent:    d.UserAgent,
			Country:      d.Country,
			DownloadedAt: d.DownloadedAt,
		}
		// release may be gone, downloads are never cascade-deleted
		if d.Release != nil {
			entry.Release = &types.ReleaseRef{
				Version: d.Release.Version,
				AppName: d.Release.AppName,
			}
		}
		stats.Recent = append(stats.Recent, entry)
	}

	return stats, nil
}
