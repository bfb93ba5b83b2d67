// Package backup keeps a local git history of exported state snapshots,
// so every saved change of the study plan can be recovered.
package backup

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// SnapshotFile is the name of the tracked snapshot inside the backup repository.
const SnapshotFile = "state.json"

// Commit writes the exported snapshot into the git repository at dir,
// initialising the repository on first use, and records a commit when the
// snapshot changed. An unchanged snapshot is a no-op.
func Commit(dir string, data []byte, now time.Time) error {
	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create backup directory %s: %w", dir, err)
		}
		slog.Info("initialising backup repository", "dir", dir)
		repo, err = git.PlainInit(dir, false)
		if err != nil {
			return fmt.Errorf("failed to init backup repository at %s: %w", dir, err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to open backup repository at %s: %w", dir, err)
	}

	if err := os.WriteFile(filepath.Join(dir, SnapshotFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get backup worktree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return fmt.Errorf("failed to get backup status: %w", err)
	}
	if status.IsClean() {
		return nil
	}

	if _, err := worktree.Add(SnapshotFile); err != nil {
		return fmt.Errorf("failed to stage snapshot: %w", err)
	}
	hash, err := worktree.Commit("snapshot "+now.UTC().Format(time.RFC3339), &git.CommitOptions{
		Author: &object.Signature{
			Name:  "studyplan",
			Email: "studyplan@localhost",
			When:  now,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	slog.Info("snapshot backed up", "dir", dir, "commit", hash.String())
	return nil
}
