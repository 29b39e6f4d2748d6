// Copyright 2026 The Cronfleet Authors
// SPDX-License-Identifier: Apache-2.0

package deploy

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cronfleet/cronfleet/lib/contenthash"
	"github.com/cronfleet/cronfleet/lib/name"
)

// crontabFileMode is the mode for installed crontab files. cron.d
// entries must be readable by the daemon and are not secrets.
const crontabFileMode = 0o644

// Applied reports the outcome of one reconciliation pass: the storage
// names (installed file names) in each outcome class, each sorted.
type Applied struct {
	// Created are files that did not exist and were written.
	Created []string
	// Updated are files whose content differed and were overwritten.
	Updated []string
	// Deleted are owned files absent from the desired set.
	Deleted []string
	// Unchanged are files whose content already matched; their
	// modification time was refreshed as a liveness signal.
	Unchanged []string
}

// Reconciler applies a desired crontab set for one (group, artifact)
// pair to the local cron drop directory. It only ever creates,
// updates, or deletes files whose names carry the pair's ownership
// prefix; everything else in the directory is invisible to it.
type Reconciler struct {
	// Dir is the cron drop directory (typically /etc/cron.d).
	Dir string

	// InstallationToken is the installation-unique token that leads
	// every owned file name.
	InstallationToken string
}

// ownershipPrefix derives the prefix scoping which files a
// (group, artifact) deployment may touch. Every file this pair
// installs carries the full prefix, and deletion only considers files
// matching it literally.
func (r *Reconciler) ownershipPrefix(groupID, artifactID string) string {
	return r.InstallationToken + "__" + groupID + "__" + artifactID + "__"
}

// storageSafe transforms a logical crontab name into the form used in
// the installed file name. cron ignores drop-in files whose names
// contain anything outside [A-Za-z0-9_-] — notably dots, which every
// artifact versioning scheme loves — so all validator-legal characters
// outside that set map to underscore. The transform is lossy; stale
// detection therefore compares forward images, never inverts.
func storageSafe(logical string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, logical)
}

// Reconcile computes and applies the minimal set of filesystem changes
// bringing the pair's installed crontabs in line with desired.
//
// Identifier validation failures abort the whole pass before any
// write. After that, each file stands alone: a failed create, update,
// delete, or timestamp refresh is logged and skipped so one bad entry
// cannot block deployment of its siblings. An empty desired set
// deletes every owned file for the pair.
func (r *Reconciler) Reconcile(groupID, artifactID string, desired []JobDefinition) (Applied, error) {
	if err := name.Validate(groupID); err != nil {
		return Applied{}, fmt.Errorf("deploy: group ID: %w", err)
	}
	if err := name.Validate(artifactID); err != nil {
		return Applied{}, fmt.Errorf("deploy: artifact ID: %w", err)
	}
	for _, job := range desired {
		if err := name.Validate(job.Name); err != nil {
			return Applied{}, fmt.Errorf("deploy: crontab name: %w", err)
		}
	}

	prefix := r.ownershipPrefix(groupID, artifactID)

	// The current owned set is recomputed from the filesystem on
	// every pass; there is no persisted index to drift out of sync.
	entries, err := os.ReadDir(r.Dir)
	if err != nil {
		return Applied{}, fmt.Errorf("deploy: listing %s: %w", r.Dir, err)
	}
	var installed []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), prefix) {
			installed = append(installed, entry.Name())
		}
	}

	wanted := make(map[string]string, len(desired))
	for _, job := range desired {
		storageName := prefix + storageSafe(job.Name)
		if _, collision := wanted[storageName]; collision {
			slog.Warn("crontab names collide after safety transform, last one wins",
				"group_id", groupID,
				"artifact_id", artifactID,
				"storage_name", storageName)
		}
		wanted[storageName] = job.Content
	}

	var applied Applied

	// Stale deletions first, so a rename (delete old name, create new
	// name) never leaves both forms installed if the pass dies midway.
	// Only exact-prefix matches for this pair are candidates: deleting
	// anything else would be a cross-tenant violation, not a bug.
	for _, storageName := range installed {
		if _, keep := wanted[storageName]; keep {
			continue
		}
		stalePath := filepath.Join(r.Dir, storageName)
		if err := os.Remove(stalePath); err != nil {
			slog.Error("failed to remove stale crontab, skipping",
				"path", stalePath,
				"error", err)
			continue
		}
		slog.Info("removed stale crontab", "path", stalePath)
		applied.Deleted = append(applied.Deleted, storageName)
	}

	storageNames := make([]string, 0, len(wanted))
	for storageName := range wanted {
		storageNames = append(storageNames, storageName)
	}
	sort.Strings(storageNames)

	for _, storageName := range storageNames {
		content := []byte(wanted[storageName])
		path := filepath.Join(r.Dir, storageName)

		current, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			if writeErr := os.WriteFile(path, content, crontabFileMode); writeErr != nil {
				slog.Error("failed to install crontab, skipping",
					"path", path,
					"error", writeErr)
				continue
			}
			slog.Info("installed crontab",
				"path", path,
				"digest", contenthash.Sum(content).Short())
			applied.Created = append(applied.Created, storageName)

		case err != nil:
			slog.Error("failed to read installed crontab, skipping",
				"path", path,
				"error", err)

		case !bytes.Equal(current, content):
			if writeErr := os.WriteFile(path, content, crontabFileMode); writeErr != nil {
				slog.Error("failed to update crontab, skipping",
					"path", path,
					"error", writeErr)
				continue
			}
			slog.Info("updated crontab",
				"path", path,
				"digest", contenthash.Sum(content).Short())
			applied.Updated = append(applied.Updated, storageName)

		default:
			// Content already matches. Refresh the modification time
			// so staleness-based cleanup can tell a live deployment
			// from an abandoned one.
			now := time.Now()
			if touchErr := os.Chtimes(path, now, now); touchErr != nil {
				slog.Error("failed to refresh crontab timestamp, skipping",
					"path", path,
					"error", touchErr)
				continue
			}
			applied.Unchanged = append(applied.Unchanged, storageName)
		}
	}

	sort.Strings(applied.Deleted)
	return applied, nil
}
