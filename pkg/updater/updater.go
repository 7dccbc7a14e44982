// Package updater handles self-update of the launcher binary from
// GitHub releases.
package updater

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// GitHubRelease represents a GitHub release
type GitHubRelease struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	Body        string    `json:"body"`
	PublishedAt time.Time `json:"published_at"`
	Assets      []Asset   `json:"assets"`
	Prerelease  bool      `json:"prerelease"`
}

// Asset represents a release asset
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

// Updater checks for and installs launcher updates
type Updater struct {
	Owner       string
	Repo        string
	CurrentVer  string
	CacheDir    string
	APIEndpoint string

	client *http.Client
}

// UpdateInfo contains information about an available update
type UpdateInfo struct {
	Available   bool
	LatestVer   string
	ReleaseURL  string
	Changelog   string
	DownloadURL string
	Size        int64
}

// New creates a new updater instance
func New(owner, repo, currentVer, cacheDir string) *Updater {
	return &Updater{
		Owner:       owner,
		Repo:        repo,
		CurrentVer:  currentVer,
		CacheDir:    cacheDir,
		APIEndpoint: "https://api.github.com",
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

// CheckForUpdates fetches the latest release and compares versions.
func (u *Updater) CheckForUpdates() (*UpdateInfo, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", u.APIEndpoint, u.Owner, u.Repo)

	resp, err := u.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("release endpoint returned status %d", resp.StatusCode)
	}

	var release GitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("parse release: %w", err)
	}

	// Skip prereleases unless the current version is also a prerelease
	if release.Prerelease && !strings.Contains(u.CurrentVer, "-") {
		return &UpdateInfo{Available: false}, nil
	}

	newer, err := IsNewer(u.CurrentVer, release.TagName)
	if err != nil {
		return nil, err
	}
	if !newer {
		return &UpdateInfo{Available: false}, nil
	}

	asset := u.findAssetForPlatform(release.Assets)
	if asset == nil {
		return nil, fmt.Errorf("no suitable download found for platform %s/%s", runtime.GOOS, runtime.GOARCH)
	}

	return &UpdateInfo{
		Available:   true,
		LatestVer:   strings.TrimPrefix(release.TagName, "v"),
		ReleaseURL:  fmt.Sprintf("https://github.com/%s/%s/releases/tag/%s", u.Owner, u.Repo, release.TagName),
		Changelog:   release.Body,
		DownloadURL: asset.BrowserDownloadURL,
		Size:        asset.Size,
	}, nil
}

// IsNewer reports whether the candidate version is strictly newer than
// the current one, comparing semantically.
func IsNewer(current, candidate string) (bool, error) {
	cur, err := semver.NewVersion(strings.TrimPrefix(current, "v"))
	if err != nil {
		return false, fmt.Errorf("parse current version %q: %w", current, err)
	}
	cand, err := semver.NewVersion(strings.TrimPrefix(candidate, "v"))
	if err != nil {
		return false, fmt.Errorf("parse release version %q: %w", candidate, err)
	}
	return cand.GreaterThan(cur), nil
}

// findAssetForPlatform finds the release asset matching GOOS/GOARCH.
//
// Release naming convention:
//   - kgchat-launcher-linux-amd64
//   - kgchat-launcher-macos-arm64
//   - kgchat-launcher-windows-amd64.exe
func (u *Updater) findAssetForPlatform(assets []Asset) *Asset {
	osName := runtime.GOOS
	if osName == "darwin" {
		osName = "macos"
	}
	arch := runtime.GOARCH

	for i, asset := range assets {
		name := strings.ToLower(asset.Name)
		if !strings.Contains(name, osName) || !strings.Contains(name, arch) {
			continue
		}
		if (runtime.GOOS == "windows") != strings.HasSuffix(name, ".exe") {
			continue
		}
		return &assets[i]
	}
	return nil
}

// DownloadUpdate downloads the release asset and replaces the current
// binary, keeping a .backup copy beside it.
func (u *Updater) DownloadUpdate(updateInfo *UpdateInfo, progressCallback func(float64)) error {
	if updateInfo == nil || !updateInfo.Available {
		return fmt.Errorf("no update available")
	}

	tempDir := filepath.Join(u.CacheDir, "updater", "temp")
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return fmt.Errorf("create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	tempFile := filepath.Join(tempDir, filepath.Base(updateInfo.DownloadURL))
	if err := u.downloadFile(updateInfo.DownloadURL, tempFile, progressCallback); err != nil {
		return fmt.Errorf("download update: %w", err)
	}

	newBinary := tempFile
	if strings.HasSuffix(strings.ToLower(tempFile), ".zip") {
		if err := extractArchive(tempFile, tempDir); err != nil {
			return fmt.Errorf("extract update: %w", err)
		}
		found, err := findBinary(tempDir)
		if err != nil {
			return err
		}
		newBinary = found
	}

	if err := replaceBinary(newBinary); err != nil {
		return fmt.Errorf("replace binary: %w", err)
	}
	return nil
}

func (u *Updater) downloadFile(url, destPath string, progressCallback func(float64)) error {
	resp, err := u.client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()

	counter := &progressReader{
		reader:   resp.Body,
		total:    resp.ContentLength,
		callback: progressCallback,
	}
	_, err = io.Copy(out, counter)
	return err
}

type progressReader struct {
	reader   io.Reader
	total    int64
	current  int64
	callback func(float64)
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	pr.current += int64(n)
	if pr.callback != nil && pr.total > 0 {
		pr.callback(float64(pr.current) / float64(pr.total) * 100)
	}
	return n, err
}

func extractArchive(zipPath, destDir string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	for _, file := range reader.File {
		path := filepath.Join(destDir, file.Name)
		if !strings.HasPrefix(path, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry escapes destination: %s", file.Name)
		}

		if file.FileInfo().IsDir() {
			os.MkdirAll(path, file.Mode())
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}

		outFile, err := os.Create(path)
		if err != nil {
			return err
		}
		rc, err := file.Open()
		if err != nil {
			outFile.Close()
			return err
		}
		_, err = io.Copy(outFile, rc)
		outFile.Close()
		rc.Close()
		if err != nil {
			return err
		}
		if isBinaryFile(file.Name) {
			os.Chmod(path, 0755)
		}
	}
	return nil
}

func isBinaryFile(filename string) bool {
	name := strings.ToLower(filepath.Base(filename))
	if runtime.GOOS == "windows" {
		return strings.HasSuffix(name, ".exe")
	}
	return strings.HasPrefix(name, "kgchat-launcher") || strings.HasPrefix(name, "kgl")
}

func findBinary(extractDir string) (string, error) {
	var candidates []string
	err := filepath.Walk(extractDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && isBinaryFile(info.Name()) {
			candidates = append(candidates, path)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no binary found in update package")
	}
	return candidates[0], nil
}

func replaceBinary(newBinary string) error {
	currentBinary, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate current executable: %w", err)
	}

	backupPath := currentBinary + ".backup"
	if err := copyFile(currentBinary, backupPath); err != nil {
		return fmt.Errorf("create backup: %w", err)
	}

	if err := copyFile(newBinary, currentBinary); err != nil {
		copyFile(backupPath, currentBinary)
		os.Remove(backupPath)
		return err
	}
	return os.Chmod(currentBinary, 0755)
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}
	return destFile.Sync()
}

// GetVersionInfo returns current version information
func (u *Updater) GetVersionInfo() map[string]string {
	return map[string]string{
		"current":  u.CurrentVer,
		"os":       runtime.GOOS,
		"arch":     runtime.GOARCH,
		"platform": fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
