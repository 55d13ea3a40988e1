package database

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/centerhq/appstore-server/common/types"
)

type ReleaseStore struct {
	db *DB
}

func NewReleaseStore() *ReleaseStore {
	return &ReleaseStore{
		db: defaultDB,
	}
}

func NewReleaseStoreWithDB(db *DB) *ReleaseStore {
	return &ReleaseStore{
		db: db,
	}
}

// Release is one published version of the distributed application. The APK
// and any images live in the object store, a row only carries their urls and
// opaque handles.
//
// At most one row has is_latest=true at any time, see Create.
type Release struct {
	ID          int64     `bun:",pk,autoincrement" json:"id"`
	AppName     string    `bun:",notnull,default:'Center App'" json:"appName"`
	Version     string    `bun:",notnull" json:"version"`
	VersionCode int64     `bun:",notnull" json:"versionCode"`
	ReleaseDate time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"releaseDate"`

	ApkURL      string `bun:",notnull" json:"apkUrl"`
	ApkObjectID string `bun:",notnull" json:"apkObjectId"`
	ApkSize     int64  `bun:",nullzero" json:"apkSize,omitempty"`

	Changelog    []string           `bun:",type:jsonb" json:"changelog"`
	Features     []string           `bun:",type:jsonb" json:"features"`
	Screenshots  []types.Screenshot `bun:",type:jsonb" json:"screenshots"`
	IconURL      string             `bun:",nullzero" json:"iconUrl,omitempty"`
	IconObjectID string             `bun:",nullzero" json:"iconObjectId,omitempty"`

	DownloadCount int64 `bun:",notnull,default:0" json:"downloadCount"`
	IsLatest      bool  `bun:",notnull,default:false" json:"isLatest"`
	IsActive      bool  `bun:",notnull,default:true" json:"isActive"`

	MinAndroidVersion    string   `bun:",notnull,default:'5.0'" json:"minAndroidVersion"`
	TargetAndroidVersion string   `bun:",notnull,default:'14'" json:"targetAndroidVersion"`
	Permissions          []string `bun:",type:jsonb" json:"permissions"`
	PackageName          string   `bun:",notnull,default:'com.center.app'" json:"packageName"`

	times
}

// Create inserts the release as the new latest. Clearing is_latest on every
// other row and inserting run in one transaction, so concurrent creates
// cannot leave two rows flagged latest.
func (s *ReleaseStore) Create(ctx context.Context, release *Release) error {
	return s.db.Operator.Core.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewUpdate().
			Model((*Release)(nil)).
			Set("is_latest = false").
			Set("updated_at = now()").
			Where("is_latest = true").
			Exec(ctx)
		if err != nil {
			return err
		}
		release.IsLatest = true
		release.IsActive = true
		_, err = tx.NewInsert().
			Model(release).
			Exec(ctx)
		return err
	})
}

func (s *ReleaseStore) FindByID(ctx context.Context, id int64) (release Release, err error) {
	release.ID = id
	err = s.db.Operator.Core.NewSelect().
		Model(&release).
		WherePK().
		Scan(ctx)
	return
}

// Latest returns the single active release flagged latest. Should more than
// one row ever match, the highest version code wins.
func (s *ReleaseStore) Latest(ctx context.Context) (release Release, err error) {
	err = s.db.Operator.Core.NewSelect().
		Model(&release).
		Where("is_active = true AND is_latest = true").
		Order("version_code DESC").
		Limit(1).
		Scan(ctx)
	return
}

func (s *ReleaseStore) ListActive(ctx context.Context, limit int) ([]Release, error) {
	releases := make([]Release, 0)
	err := s.db.Operator.Core.NewSelect().
		Model(&releases).
		Where("is_active = true").
		Order("version_code DESC").
		Limit(limit).
		Scan(ctx)
	return releases, err
}

func (s *ReleaseStore) Delete(ctx context.Context, id int64) error {
	return assertAffectedOneRow(s.db.Operator.Core.NewDelete().
		Model((*Release)(nil)).
		Where("id = ?", id).
		Exec(ctx))
}

// IncrementDownloadCount adds one to the counter in a single update so
// concurrent downloads never lose an increment.
func (s *ReleaseStore) IncrementDownloadCount(ctx context.Context, id int64) error {
	return assertAffectedOneRow(s.db.Operator.Core.NewUpdate().
		Model((*Release)(nil)).
		Set("download_count = download_count + 1").
		Set("updated_at = now()").
		Where("id = ?", id).
		Exec(ctx))
}
