package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// RetentionTarget selects rotated run logs in Dir whose names match Pattern.
// The Keep newest matches survive regardless of age, so a session that is
// rarely restarted still has its previous run on disk.
type RetentionTarget struct {
	Dir     string
	Pattern string
	Keep    int
}

type runLog struct {
	path    string
	modTime time.Time
}

// CleanupOldLogs removes rotated logs older than retentionDays, sparing the
// newest Keep files of each target. A retentionDays value of 0 disables
// pruning.
func CleanupOldLogs(logger *slog.Logger, retentionDays int, targets ...RetentionTarget) {
	if retentionDays <= 0 {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	for _, target := range targets {
		logs := matchRunLogs(target)
		sort.Slice(logs, func(i, j int) bool { return logs[i].modTime.After(logs[j].modTime) })
		for i, entry := range logs {
			if i < target.Keep || !entry.modTime.Before(cutoff) {
				continue
			}
			if err := os.Remove(entry.path); err != nil {
				WarnWithContext(logger, "log retention remove failed; file remains", "log_retention_failed",
					String("path", entry.path),
					Error(err),
					String(FieldErrorHint, "check permissions on paths.log_dir"),
					String(FieldImpact, "old log file remains on disk"),
				)
				continue
			}
			if logger != nil {
				logger.Info("log pruned",
					String("path", entry.path),
					String(FieldEventType, "log_pruned"),
				)
			}
		}
	}
}

func matchRunLogs(target RetentionTarget) []runLog {
	dir := strings.TrimSpace(target.Dir)
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	pattern := strings.TrimSpace(target.Pattern)
	var logs []runLog
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if pattern != "" {
			if matched, err := filepath.Match(pattern, entry.Name()); err != nil || !matched {
				continue
			}
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		logs = append(logs, runLog{path: filepath.Join(dir, entry.Name()), modTime: info.ModTime()})
	}
	return logs
}
