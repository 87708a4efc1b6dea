package updater_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/quietlane/hostguard/internal/updater"
)

func releaseJSON(tag string, assets ...string) []byte {
	type asset struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	}
	payload := struct {
		TagName string  `json:"tag_name"`
		Assets  []asset `json:"assets"`
	}{TagName: tag}
	for _, name := range assets {
		payload.Assets = append(payload.Assets, asset{
			Name:               name,
			BrowserDownloadURL: "http://example.com/" + name,
		})
	}
	b, _ := json.Marshal(payload)
	return b
}

func releaseServer(t *testing.T, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckLatest_NewerAvailable(t *testing.T) {
	srv := releaseServer(t, releaseJSON("v0.3.0",
		"hostguard-linux-amd64", "hostguard-darwin-arm64"))

	info, err := updater.CheckLatest("v0.2.1", srv.URL+"/latest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !info.HasUpdate {
		t.Error("expected HasUpdate=true")
	}
	if info.LatestVersion != "v0.3.0" {
		t.Errorf("LatestVersion = %q, want v0.3.0", info.LatestVersion)
	}
}

func TestCheckLatest_AlreadyLatest(t *testing.T) {
	srv := releaseServer(t, releaseJSON("v0.3.0"))

	info, err := updater.CheckLatest("v0.3.0", srv.URL+"/latest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.HasUpdate {
		t.Error("expected HasUpdate=false when already on latest")
	}
}

func TestCheckLatest_DevVersion(t *testing.T) {
	srv := releaseServer(t, releaseJSON("v0.3.0"))

	info, err := updater.CheckLatest("dev", srv.URL+"/latest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !info.HasUpdate {
		t.Error("dev build should always report update available")
	}
}

func TestCheckLatest_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := updater.CheckLatest("v0.1.0", srv.URL); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestAssetName(t *testing.T) {
	tests := []struct {
		goos   string
		goarch string
		want   string
	}{
		{"linux", "amd64", "hostguard-linux-amd64"},
		{"linux", "arm64", "hostguard-linux-arm64"},
		{"darwin", "arm64", "hostguard-darwin-arm64"},
		{"windows", "amd64", "hostguard-windows-amd64.exe"},
	}
	for _, tt := range tests {
		got := updater.AssetName(tt.goos, tt.goarch)
		if got != tt.want {
			t.Errorf("AssetName(%q,%q) = %q, want %q", tt.goos, tt.goarch, got, tt.want)
		}
	}
}

func TestSelfReplace_BasicRoundtrip(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skip in-place replace test on Windows CI")
	}

	dir := t.TempDir()
	exePath := filepath.Join(dir, "hostguard")
	if err := os.WriteFile(exePath, []byte("old"), 0o755); err != nil {
		t.Fatal(err)
	}

	newPath := filepath.Join(dir, "hostguard.new")
	if err := os.WriteFile(newPath, []byte("new"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := updater.SelfReplace(exePath, newPath); err != nil {
		t.Fatalf("SelfReplace: %v", err)
	}

	got, _ := os.ReadFile(exePath)
	if string(got) != "new" {
		t.Errorf("exe content = %q, want new", got)
	}
}
