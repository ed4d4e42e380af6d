package erasure

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ecbench/internal/logging"
)

// ErrInsufficientShards means fewer eligible files exist than erasures were
// requested: the coding parameters disagree with what is on disk.
var ErrInsufficientShards = errors.New("not enough eligible shard files to erase")

// Injector deletes shard files to simulate disk/node failures.
type Injector struct {
	src Source
}

// NewInjector returns an injector drawing from src (nil = DefaultSource).
func NewInjector(src Source) *Injector {
	if src == nil {
		src = DefaultSource()
	}
	return &Injector{src: src}
}

// Inject deletes exactly count files from dir, never touching names that
// start with excludedPrefix. Each pick re-lists the directory and chooses
// uniformly among eligible files not already removed by this call. It returns
// the deleted names in deletion order.
func (inj *Injector) Inject(dir, excludedPrefix string, count int) ([]string, error) {
	if count <= 0 {
		return nil, nil
	}

	eligible, err := eligibleFiles(dir, excludedPrefix, nil)
	if err != nil {
		return nil, err
	}
	if len(eligible) < count {
		return nil, fmt.Errorf("%w: want %d, have %d in %s (excluding %q)",
			ErrInsufficientShards, count, len(eligible), dir, excludedPrefix)
	}

	removed := make(map[string]bool, count)
	deleted := make([]string, 0, count)
	for len(deleted) < count {
		candidates, err := eligibleFiles(dir, excludedPrefix, removed)
		if err != nil {
			return deleted, err
		}
		if len(candidates) == 0 {
			return deleted, fmt.Errorf("%w: ran out after %d of %d in %s",
				ErrInsufficientShards, len(deleted), count, dir)
		}

		name := candidates[inj.src.Intn(len(candidates))]
		removed[name] = true

		err = os.Remove(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			// Vanished between listing and removal; pick again.
			logging.InjectorDebug("candidate %s vanished before removal", name)
			continue
		}
		if err != nil {
			return deleted, fmt.Errorf("failed to erase %s: %w", name, err)
		}
		deleted = append(deleted, name)
	}

	logging.InjectorDebug("erased %d shard(s) from %s: %v", len(deleted), dir, deleted)
	return deleted, nil
}

// eligibleFiles lists regular files in dir that are neither excluded by
// prefix nor already in skip.
func eligibleFiles(dir, excludedPrefix string, skip map[string]bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list coding directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || skip[name] {
			continue
		}
		if excludedPrefix != "" && strings.HasPrefix(name, excludedPrefix) {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}
