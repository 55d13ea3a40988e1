package database_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/centerhq/appstore-server/builder/store/database"
	"github.com/centerhq/appstore-server/common/tests"
	"github.com/centerhq/appstore-server/common/types"
)

func newTestRelease(version string, code int64) *database.Release {
	return &database.Release{
		AppName:              "Center App",
		Version:              version,
		VersionCode:          code,
		ApkURL:               fmt.Sprintf("http://localhost:9000/center-app/center-app/releases/center-app-v%s", version),
		ApkObjectID:          fmt.Sprintf("center-app/releases/center-app-v%s", version),
		ApkSize:              1024,
		Changelog:            []string{},
		Features:             []string{},
		Screenshots:          []types.Screenshot{},
		Permissions:          []string{},
		MinAndroidVersion:    "5.0",
		TargetAndroidVersion: "14",
		PackageName:          "com.center.app",
	}
}

func TestReleaseStore_CreateLatestHandover(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rs := database.NewReleaseStoreWithDB(db)

	a := newTestRelease("1.0.0", 1)
	require.NoError(t, rs.Create(ctx, a))
	require.True(t, a.IsLatest)
	require.True(t, a.IsActive)

	latest, err := rs.Latest(ctx)
	require.NoError(t, err)
	require.Equal(t, a.ID, latest.ID)
	require.True(t, latest.IsLatest)

	b := newTestRelease("2.0.0", 2)
	require.NoError(t, rs.Create(ctx, b))

	latest, err = rs.Latest(ctx)
	require.NoError(t, err)
	require.Equal(t, b.ID, latest.ID)

	// the older release lost its latest flag
	a2, err := rs.FindByID(ctx, a.ID)
	require.NoError(t, err)
	require.False(t, a2.IsLatest)

	// exactly one row flagged latest
	count, err := db.Core.NewSelect().
		Model((*database.Release)(nil)).
		Where("is_latest = true").
		Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestReleaseStore_LatestNone(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rs := database.NewReleaseStoreWithDB(db)
	_, err := rs.Latest(ctx)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestReleaseStore_ListActive(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rs := database.NewReleaseStoreWithDB(db)

	for i := 1; i <= 12; i++ {
		r := newTestRelease(fmt.Sprintf("1.0.%d", i), int64(i))
		require.NoError(t, rs.Create(ctx, r))
	}

	// retract one release without deleting it
	_, err := db.Core.NewUpdate().
		Model((*database.Release)(nil)).
		Set("is_active = false").
		Where("version_code = ?", 12).
		Exec(ctx)
	require.NoError(t, err)

	releases, err := rs.ListActive(ctx, 10)
	require.NoError(t, err)
	require.Len(t, releases, 10)
	for i, r := range releases {
		require.True(t, r.IsActive)
		require.NotEqual(t, int64(12), r.VersionCode)
		if i > 0 {
			require.Greater(t, releases[i-1].VersionCode, r.VersionCode)
		}
	}
}

func TestReleaseStore_RoundTrip(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rs := database.NewReleaseStoreWithDB(db)

	r := newTestRelease("3.1.4", 31)
	r.Changelog = []string{"Faster sync", "Fixed login crash"}
	r.Features = []string{"Offline mode"}
	r.Screenshots = []types.Screenshot{
		{URL: "http://localhost:9000/center-app/shots/home.png", ObjectID: "shots/home", Caption: "Home"},
		{URL: "http://localhost:9000/center-app/shots/map.png", ObjectID: "shots/map"},
	}
	r.Permissions = []string{"android.permission.CAMERA"}
	require.NoError(t, rs.Create(ctx, r))

	got, err := rs.Latest(ctx)
	require.NoError(t, err)
	require.Equal(t, r.Changelog, got.Changelog)
	require.Equal(t, r.Features, got.Features)
	require.Equal(t, r.Screenshots, got.Screenshots)
	require.Equal(t, r.Permissions, got.Permissions)

	list, err := rs.ListActive(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, r.Screenshots, list[0].Screenshots)
}

func TestReleaseStore_IncrementDownloadCount(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rs := database.NewReleaseStoreWithDB(db)

	r := newTestRelease("1.0.0", 1)
	require.NoError(t, rs.Create(ctx, r))
	require.Equal(t, int64(0), r.DownloadCount)

	for i := 0; i < 5; i++ {
		require.NoError(t, rs.IncrementDownloadCount(ctx, r.ID))
	}

	got, err := rs.FindByID(ctx, r.ID)
	require.NoError(t, err)
	require.Equal(t, int64(5), got.DownloadCount)
}

func TestReleaseStore_Delete(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rs := database.NewReleaseStoreWithDB(db)

	r := newTestRelease("1.0.0", 1)
	require.NoError(t, rs.Create(ctx, r))

	require.NoError(t, rs.Delete(ctx, r.ID))
	_, err := rs.FindByID(ctx, r.ID)
	require.ErrorIs(t, err, sql.ErrNoRows)

	require.Error(t, rs.Delete(ctx, r.ID))
}
