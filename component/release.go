package component

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/centerhq/appstore-server/builder/store/database"
	"github.com/centerhq/appstore-server/builder/store/s3"
	"github.com/centerhq/appstore-server/common/config"
	"github.com/centerhq/appstore-server/common/types"
)

// ReleaseComponent is the release registry: publish, query and retract
// releases while keeping exactly one flagged latest.
type ReleaseComponent interface {
	Create(ctx context.Context, req types.CreateReleaseReq) (*database.Release, error)
	Latest(ctx context.Context) (*database.Release, error)
	ListActive(ctx context.Context, limit int) ([]database.Release, error)
	Delete(ctx context.Context, id int64) error
}

type releaseComponentImpl struct {
	rs *database.ReleaseStore
	s3 s3.Client
}

func NewReleaseComponent(cfg *config.Config, s3Client s3.Client) ReleaseComponent {
	return &releaseComponentImpl{
		rs: database.NewReleaseStore(),
		s3: s3Client,
	}
}

// NewTestReleaseComponent wires explicit collaborators, test only.
func NewTestReleaseComponent(rs *database.ReleaseStore, s3Client s3.Client) ReleaseComponent {
	return &releaseComponentImpl{
		rs: rs,
		s3: s3Client,
	}
}

func (c *releaseComponentImpl) Create(ctx context.Context, req types.CreateReleaseReq) (*database.Release, error) {
	if req.Version == "" {
		return nil, ErrMissingField("version")
	}
	if req.VersionCode <= 0 {
		return nil, ErrMissingField("versionCode")
	}
	if req.ApkURL == "" {
		return nil, ErrMissingField("apkUrl")
	}
	if req.ApkObjectID == "" {
		return nil, ErrMissingField("apkObjectId")
	}

	release := &database.Release{
		AppName:              req.AppName,
		Version:              req.Version,
		VersionCode:          req.VersionCode,
		ApkURL:               req.ApkURL,
		ApkObjectID:          req.ApkObjectID,
		ApkSize:              req.ApkSize,
		Changelog:            emptyIfNil(req.Changelog),
		Features:             emptyIfNil(req.Features),
		Screenshots:          req.Screenshots,
		IconURL:              req.IconURL,
		IconObjectID:         req.IconObjectID,
		MinAndroidVersion:    req.MinAndroidVersion,
		TargetAndroidVersion: req.TargetAndroidVersion,
		Permissions:          emptyIfNil(req.Permissions),
		PackageName:          req.PackageName,
	}
	if release.AppName == "" {
		release.AppName = "Center App"
	}
	if release.MinAndroidVersion == "" {
		release.MinAndroidVersion = "5.0"
	}
	if release.TargetAndroidVersion == "" {
		release.TargetAndroidVersion = "14"
	}
	if release.PackageName == "" {
		release.PackageName = "com.center.app"
	}
	if release.Screenshots == nil {
		release.Screenshots = []types.Screenshot{}
	}

	err := c.rs.Create(ctx, release)
	if err != nil {
		return nil, fmt.Errorf("failed to create release %s: %w", req.Version, err)
	}
	return release, nil
}

func (c *releaseComponentImpl) Latest(ctx context.Context) (*database.Release, error) {
	release, err := c.rs.Latest(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find latest release: %w", err)
	}
	return &release, nil
}

func (c *releaseComponentImpl) ListActive(ctx context.Context, limit int) ([]database.Release, error) {
	if limit <= 0 {
		limit = 10
	}
	releases, err := c.rs.ListActive(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list releases: %w", err)
	}
	return releases, nil
}

// Delete retracts a release: the APK artifact and, when present, the icon
// are removed from the object store before the row goes away. Artifact
// removal is best effort, a failed removal leaves an orphaned object but
// never a dangling database record.
func (c *releaseComponentImpl) Delete(ctx context.Context, id int64) error {
	release, err := c.rs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to find release %d: %w", id, err)
	}

	if release.ApkObjectID != "" {
		if err := c.s3.Remove(ctx, release.ApkObjectID); err != nil {
			slog.Error("failed to remove apk artifact", slog.String("object_id", release.ApkObjectID), slog.Any("error", err))
		}
	}
	if release.IconObjectID != "" {
		if err := c.s3.Remove(ctx, release.IconObjectID); err != nil {
			slog.Error("failed to remove icon artifact", slog.String("object_id", release.IconObjectID), slog.Any("error", err))
		}
	}

	err = c.rs.Delete(ctx, release.ID)
	if err != nil {
		return fmt.Errorf("failed to delete release %d: %w", id, err)
	}
	return nil
}

func emptyIfNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
