package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fetchlab/fetchlab/internal/demo"
)

// writeTranscript saves the current transcript as a plain-text log file
// and returns the path written.
func writeTranscript(dir string, page *Page, snap demo.Snapshot) (string, error) {
	if len(snap.Logs) == 0 {
		return "", fmt.Errorf("transcript is empty")
	}
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create transcript dir: %w", err)
	}

	name := fmt.Sprintf("fetchlab-%s-%s.log", page.Slug, time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, name)

	var b strings.Builder
	fmt.Fprintf(&b, "# fetchlab transcript: %s (%s)\n", page.Title, snap.Strategy)
	fmt.Fprintf(&b, "# run %s, status %s\n", snap.Run.ID, snap.Run.Status)
	for _, entry := range snap.Logs {
		fmt.Fprintf(&b, "%s [%s] %s\n", entry.At.Format("15:04:05.000"), entry.Kind, entry.Message)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return path, nil
}
