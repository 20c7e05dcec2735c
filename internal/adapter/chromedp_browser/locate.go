package chromedp_browser

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/user/deals-scraper/internal/repository"
)

var chromeNames = []string{
	"google-chrome-stable", "google-chrome", "chromium", "chromium-browser", "chrome",
}

var chromePaths = []string{
	"/usr/bin/google-chrome-stable",
	"/usr/bin/google-chrome",
	"/usr/bin/chromium-browser",
	"/usr/bin/chromium",
	"/snap/bin/chromium",
	"/opt/google/chrome/google-chrome",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	`C:\Program Files\Google\Chrome\Application\chrome.exe`,
	`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
}

// LocateChrome resolves the Chrome executable to launch. An explicit path
// must name an existing regular file; an empty path searches PATH and the
// usual install locations.
func LocateChrome(path string) (string, error) {
	if path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return "", fmt.Errorf("%w: %s", repository.ErrBrowserNotFound, path)
		}
		if !info.Mode().IsRegular() {
			return "", fmt.Errorf("%w: %s is not a file", repository.ErrBrowserNotFound, path)
		}
		return path, nil
	}

	for _, name := range chromeNames {
		if p, err := exec.LookPath(name); err == nil {
			return p, nil
		}
	}
	for _, p := range chromePaths {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, nil
		}
	}
	return "", repository.ErrBrowserNotFound
}
