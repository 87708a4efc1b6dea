// Package updater handles self-update logic for the hostguard binary.
package updater

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

const defaultAPIURL = "https://api.github.com/repos/quietlane/hostguard/releases/latest"

var httpClient = &http.Client{Timeout: 30 * time.Second}

// UpdateInfo holds the result of a version check.
type UpdateInfo struct {
	HasUpdate      bool
	CurrentVersion string
	LatestVersion  string
	DownloadURL    string
}

type githubRelease struct {
	TagName string `json:"tag_name"`
	Assets  []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

// CheckLatest queries the GitHub API and returns update info.
// apiURL defaults to the official releases endpoint when empty.
func CheckLatest(currentVersion, apiURL string) (*UpdateInfo, error) {
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	resp, err := httpClient.Get(apiURL)
	if err != nil {
		return nil, fmt.Errorf("updater: fetch releases: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("updater: GitHub API returned %d", resp.StatusCode)
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("updater: parse response: %w", err)
	}

	info := &UpdateInfo{
		CurrentVersion: currentVersion,
		LatestVersion:  release.TagName,
		HasUpdate:      isNewer(currentVersion, release.TagName),
	}

	if info.HasUpdate {
		target := AssetName(runtime.GOOS, runtime.GOARCH)
		for _, a := range release.Assets {
			if a.Name == target {
				info.DownloadURL = a.BrowserDownloadURL
				break
			}
		}
	}

	return info, nil
}

// AssetName returns the expected release asset filename for the given OS/arch.
func AssetName(goos, goarch string) string {
	name := "hostguard-" + goos + "-" + goarch
	if goos == "windows" {
		name += ".exe"
	}
	return name
}

// Download fetches url and writes the content to destPath.
func Download(url, destPath string) error {
	resp, err := httpClient.Get(url)
	if err != nil {
		return fmt.Errorf("updater: download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("updater: download returned %d", resp.StatusCode)
	}

	f, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return fmt.Errorf("updater: create dest file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("updater: write download: %w", err)
	}
	return nil
}

// SelfReplace atomically replaces exePath with newBinary. os.Rename is
// atomic on the same filesystem; Windows needs the running exe moved
// aside first.
func SelfReplace(exePath, newBinary string) error {
	if err := os.Chmod(newBinary, 0o755); err != nil {
		return fmt.Errorf("updater: chmod new binary: %w", err)
	}

	if runtime.GOOS == "windows" {
		bakPath := exePath + ".bak"
		_ = os.Remove(bakPath)
		if err := os.Rename(exePath, bakPath); err != nil {
			return fmt.Errorf("updater: rename current exe: %w", err)
		}
	}

	if err := os.Rename(newBinary, exePath); err != nil {
		return fmt.Errorf("updater: replace exe: %w", err)
	}
	return nil
}

// isNewer reports whether latest > current. Development builds always
// see an available update.
func isNewer(current, latest string) bool {
	current = strings.TrimPrefix(current, "v")
	latest = strings.TrimPrefix(latest, "v")
	if current == "dev" || current == "" || current == "none" {
		return latest != ""
	}
	return semverLess(current, latest)
}

// semverLess reports whether a < b by major.minor.patch.
func semverLess(a, b string) bool {
	pa := splitSemver(a)
	pb := splitSemver(b)
	for i := 0; i < 3; i++ {
		if pa[i] != pb[i] {
			return pa[i] < pb[i]
		}
	}
	return false
}

func splitSemver(v string) [3]int {
	var out [3]int
	for i, p := range strings.SplitN(v, ".", 3) {
		out[i], _ = strconv.Atoi(p)
	}
	return out
}
