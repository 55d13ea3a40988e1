package component

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/centerhq/appstore-server/builder/store/database"
	"github.com/centerhq/appstore-server/common/tests"
	"github.com/centerhq/appstore-server/common/types"
)

func TestDownloadComponent_Record(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rs := database.NewReleaseStoreWithDB(db)
	ds := database.NewDownloadStoreWithDB(db)
	rc := NewTestReleaseComponent(rs, &fakeS3{})
	dc := NewTestDownloadComponent(rs, ds)

	release, err := rc.Create(ctx, validCreateReq())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		ticket, err := dc.Record(ctx, release.ID, "10.0.0.1", "okhttp/4.12")
		require.NoError(t, err)
		require.Equal(t, release.ApkURL, ticket.DownloadURL)
		require.Equal(t, release.Version, ticket.Version)
		require.Equal(t, release.ApkSize, ticket.Size)
	}

	got, err := rs.FindByID(ctx, release.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), got.DownloadCount)

	total, err := ds.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
}

func TestDownloadComponent_RecordNotFound(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rs := database.NewReleaseStoreWithDB(db)
	ds := database.NewDownloadStoreWithDB(db)
	dc := NewTestDownloadComponent(rs, ds)

	_, err := dc.Record(ctx, 404404, "10.0.0.1", "okhttp/4.12")
	require.ErrorIs(t, err, ErrNotFound)

	// a failed request tracks nothing
	total, err := ds.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(0), total)
}

func TestDownloadComponent_StatsEmpty(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dc := NewTestDownloadComponent(database.NewReleaseStoreWithDB(db), database.NewDownloadStoreWithDB(db))

	stats, err := dc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, types.DownloadStats{
		Total:     0,
		ByVersion: []types.VersionDownloads{},
		Recent:    []types.RecentDownload{},
	}, stats)
}

func TestDownloadComponent_Stats(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rs := database.NewReleaseStoreWithDB(db)
	ds := database.NewDownloadStoreWithDB(db)
	rc := NewTestReleaseComponent(rs, &fakeS3{})
	dc := NewTestDownloadComponent(rs, ds)

	r1, err := rc.Create(ctx, validCreateReq())
	require.NoError(t, err)
	req2 := validCreateReq()
	req2.Version = "2.0.0"
	req2.VersionCode = 2
	r2, err := rc.Create(ctx, req2)
	require.NoError(t, err)

	_, err = dc.Record(ctx, r1.ID, "10.0.0.1", "okhttp/4.12")
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = dc.Record(ctx, r2.ID, "10.0.0.2", "okhttp/4.12")
		require.NoError(t, err)
	}

	stats, err := dc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), stats.Total)
	require.Equal(t, []types.VersionDownloads{
		{Version: "2.0.0", Count: 2},
		{Version: "1.0.0", Count: 1},
	}, stats.ByVersion)
	require.Len(t, stats.Recent, 3)
	require.NotNil(t, stats.Recent[0].Release)
	require.Equal(t, "Center App", stats.Recent[0].Release.AppName)

	// read only: a second call yields the same aggregates
	again, err := dc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, stats, again)
}
