// Package browser opens URLs in the system default browser.
package browser

import (
	"os/exec"
	"runtime"
)

// Open launches the default browser on url. Best effort: failures are
// ignored since the server keeps running either way.
func Open(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
