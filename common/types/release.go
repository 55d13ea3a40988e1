package types

import "time"

// Screenshot is one store-listing image attached to a release. The release
// owns the list, there is no independent lifecycle.
type Screenshot struct {
	URL      string `json:"url"`
	ObjectID string `json:"objectId"`
	Caption  string `json:"caption,omitempty"`
}

// CreateReleaseReq is the admin payload to publish a release. The binary
// itself is already in the object store, the request only carries its
// location and handle.
type CreateReleaseReq struct {
	AppName              string       `json:"appName"`
	Version              string       `json:"version"`
	VersionCode          int64        `json:"versionCode"`
	ApkURL               string       `json:"apkUrl"`
	ApkObjectID          string       `json:"apkObjectId"`
	ApkSize              int64        `json:"apkSize"`
	Changelog            []string     `json:"changelog"`
	Features             []string     `json:"features"`
	Screenshots          []Screenshot `json:"screenshots"`
	IconURL              string       `json:"iconUrl"`
	IconObjectID         string       `json:"iconObjectId"`
	MinAndroidVersion    string       `json:"minAndroidVersion"`
	TargetAndroidVersion string       `json:"targetAndroidVersion"`
	Permissions          []string     `json:"permissions"`
	PackageName          string       `json:"packageName"`
}

// DownloadTicket is what a successful download request returns: the client
// fetches the artifact straight from the object store, the server never
// proxies the binary.
type DownloadTicket struct {
	DownloadURL string `json:"downloadUrl"`
	Version     string `json:"version"`
	Size        int64  `json:"size"`
}

type VersionDownloads struct {
	Version string `json:"version"`
	Count   int64  `json:"count"`
}

// ReleaseRef is the enrichment attached to a recent download entry. Nil when
// the referenced release has been deleted since.
type ReleaseRef struct {
	Version string `json:"version"`
	AppName string `json:"appName"`
}

type RecentDownload struct {
	ID           int64       `json:"id"`
	ReleaseID    int64       `json:"releaseId"`
	Version      string      `json:"version"`
	IPAddress    string      `json:"ipAddress,omitempty"`
	UserAgent    string      `json:"userAgent,omitempty"`
	Country      string      `json:"country,omitempty"`
	DownloadedAt time.Time   `json:"downloadedAt"`
	Release      *ReleaseRef `json:"release,omitempty"`
}

type DownloadStats struct {
	Total     int64              `json:"total"`
	ByVersion []VersionDownloads `json:"byVersion"`
	Recent    []RecentDownload   `json:"recent"`
}
