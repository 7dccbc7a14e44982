package updater

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNewer(t *testing.T) {
	tests := []struct {
		current   string
		candidate string
		want      bool
		wantErr   bool
	}{
		{"1.2.0", "1.3.0", true, false},
		{"1.2.0", "v1.3.0", true, false},
		{"v1.2.0", "1.2.0", false, false},
		{"1.2.0", "1.1.9", false, false},
		{"1.2.0", "2.0.0", true, false},
		{"1.2.0-rc.1", "1.2.0", true, false},
		{"dev", "1.0.0", false, true},
		{"1.2.0", "not-a-version", false, true},
	}
	for _, tt := range tests {
		got, err := IsNewer(tt.current, tt.candidate)
		if tt.wantErr {
			assert.Error(t, err, "%s -> %s", tt.current, tt.candidate)
			continue
		}
		require.NoError(t, err, "%s -> %s", tt.current, tt.candidate)
		assert.Equal(t, tt.want, got, "%s -> %s", tt.current, tt.candidate)
	}
}

func TestFindAssetForPlatform(t *testing.T) {
	u := New("kgchat", "kgchat-launcher", "1.0.0", t.TempDir())

	osName := runtime.GOOS
	if osName == "darwin" {
		osName = "macos"
	}
	suffix := ""
	if runtime.GOOS == "windows" {
		suffix = ".exe"
	}
	matching := fmt.Sprintf("kgchat-launcher-%s-%s%s", osName, runtime.GOARCH, suffix)

	assets := []Asset{
		{Name: "kgchat-launcher-plan9-mips"},
		{Name: matching, BrowserDownloadURL: "https://example.org/dl"},
		{Name: "checksums.txt"},
	}

	found := u.findAssetForPlatform(assets)
	require.NotNil(t, found)
	assert.Equal(t, matching, found.Name)

	assert.Nil(t, u.findAssetForPlatform([]Asset{{Name: "checksums.txt"}}))
}

func releaseServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCheckForUpdatesNewer(t *testing.T) {
	osName := runtime.GOOS
	if osName == "darwin" {
		osName = "macos"
	}
	suffix := ""
	if runtime.GOOS == "windows" {
		suffix = ".exe"
	}
	asset := fmt.Sprintf("kgchat-launcher-%s-%s%s", osName, runtime.GOARCH, suffix)

	server := releaseServer(t, http.StatusOK, fmt.Sprintf(`{
		"tag_name": "v2.0.0",
		"name": "2.0.0",
		"body": "New release",
		"assets": [{"name": %q, "browser_download_url": "https://example.org/dl", "size": 1024}]
	}`, asset))

	u := New("kgchat", "kgchat-launcher", "1.2.0", t.TempDir())
	u.APIEndpoint = server.URL

	info, err := u.CheckForUpdates()
	require.NoError(t, err)
	assert.True(t, info.Available)
	assert.Equal(t, "2.0.0", info.LatestVer)
	assert.Equal(t, "https://example.org/dl", info.DownloadURL)
	assert.Equal(t, int64(1024), info.Size)
	assert.Equal(t, "New release", info.Changelog)
}

func TestCheckForUpdatesUpToDate(t *testing.T) {
	server := releaseServer(t, http.StatusOK, `{"tag_name": "v1.2.0", "assets": []}`)

	u := New("kgchat", "kgchat-launcher", "1.2.0", t.TempDir())
	u.APIEndpoint = server.URL

	info, err := u.CheckForUpdates()
	require.NoError(t, err)
	assert.False(t, info.Available)
}

func TestCheckForUpdatesSkipsPrerelease(t *testing.T) {
	server := releaseServer(t, http.StatusOK, `{"tag_name": "v9.0.0", "prerelease": true, "assets": []}`)

	u := New("kgchat", "kgchat-launcher", "1.2.0", t.TempDir())
	u.APIEndpoint = server.URL

	info, err := u.CheckForUpdates()
	require.NoError(t, err)
	assert.False(t, info.Available)
}

func TestCheckForUpdatesHTTPError(t *testing.T) {
	server := releaseServer(t, http.StatusForbidden, `{"message": "rate limited"}`)

	u := New("kgchat", "kgchat-launcher", "1.2.0", t.TempDir())
	u.APIEndpoint = server.URL

	_, err := u.CheckForUpdates()
	assert.Error(t, err)
}

func TestGetVersionInfo(t *testing.T) {
	u := New("kgchat", "kgchat-launcher", "1.2.0", t.TempDir())
	info := u.GetVersionInfo()
	assert.Equal(t, "1.2.0", info["current"])
	assert.Equal(t, runtime.GOOS, info["os"])
	assert.Equal(t, runtime.GOARCH, info["arch"])
}
