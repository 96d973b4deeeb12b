package tradelog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

var (
	mu          sync.Mutex
	dirOverride string
)

// Entry records one submitted order.
type Entry struct {
	Time, Symbol, Side string
	SizingMode         string
	Amount             string
	OrderID, Status    string
	Signal             string
}

// DecisionEntry records one decision outcome, including no-action runs.
type DecisionEntry struct {
	Time, Symbol string
	Signal       string
	Decision     string
	AccountMode  string
}

// SetDir overrides the log directory (config takes precedence over env).
func SetDir(dir string) {
	mu.Lock()
	defer mu.Unlock()
	dirOverride = dir
}

func logDir() string {
	if dirOverride != "" {
		return dirOverride
	}
	if v := os.Getenv("TRADER_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}

// Exchange-local time keys the daily files.
func exchangeNow() time.Time {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.Now().UTC()
	}
	return time.Now().In(loc)
}

func dailyFilepath(t time.Time) string {
	return filepath.Join(logDir(), t.Format("2006-01-02")+".txt")
}

func decisionsFilepath(t time.Time) string {
	return filepath.Join(logDir(), "decisions", t.Format("2006-01-02")+".txt")
}

func appendLine(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, _ := json.Marshal(v)
	_, err = fmt.Fprintln(f, string(b))
	return err
}

func Append(e Entry) error {
	mu.Lock()
	defer mu.Unlock()
	now := exchangeNow()
	e.Time = now.Format("2006-01-02 15:04:05")
	return appendLine(dailyFilepath(now), e)
}

func AppendDecision(e DecisionEntry) error {
	mu.Lock()
	defer mu.Unlock()
	now := exchangeNow()
	e.Time = now.Format("2006-01-02 15:04:05")
	return appendLine(decisionsFilepath(now), e)
}

// CompressOlder gzips daily log files older than the retention window.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	mu.Lock()
	defer mu.Unlock()

	cutoff := exchangeNow().AddDate(0, 0, -retentionDays)
	for _, dir := range []string{logDir(), filepath.Join(logDir(), "decisions")} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, ent := range entries {
			name := ent.Name()
			if ent.IsDir() || !strings.HasSuffix(name, ".txt") {
				continue
			}
			day, err := time.Parse("2006-01-02", strings.TrimSuffix(name, ".txt"))
			if err != nil || !day.Before(cutoff) {
				continue
			}
			if err := gzipFile(filepath.Join(dir, name)); err != nil {
				return err
			}
		}
	}
	return nil
}

func gzipFile(path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(path + ".gz")
	if err != nil {
		return err
	}
	defer out.Close()

	zw := gzip.NewWriter(out)
	if _, err := io.Copy(zw, in); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return os.Remove(path)
}
