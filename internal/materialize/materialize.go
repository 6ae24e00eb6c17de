package materialize

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"photosift/internal/cluster"
	"photosift/internal/fileutil"
	"photosift/internal/logging"
	"photosift/internal/services"
	"photosift/internal/textutil"
)

// Summary reports what one materialization run accomplished.
type Summary struct {
	Groups  int
	Copied  int
	Missing int
	Failed  int
}

// Materializer copies grouped files into the output tree.
type Materializer struct {
	outputRoot string
	workers    int
	verify     bool
	logger     *slog.Logger
}

// New constructs a materializer writing under outputRoot. verify enables
// SHA256-checked copies.
func New(outputRoot string, workers int, verify bool, logger *slog.Logger) *Materializer {
	if workers < 1 {
		workers = 1
	}
	return &Materializer{
		outputRoot: outputRoot,
		workers:    workers,
		verify:     verify,
		logger:     logging.WithComponent(logger, "materialize"),
	}
}

// copyJob is one reserved source-to-destination copy.
type copyJob struct {
	source      string
	destination string
}

// Run recreates the output root, lays out one numbered directory per group,
// and copies every group member into place. It returns the realized mapping
// from original path to actual destination, matching exactly what collision
// resolution produced for the copies that succeeded.
func (m *Materializer) Run(ctx context.Context, groups []cluster.Group) (map[string]string, Summary, error) {
	summary := Summary{Groups: len(groups)}
	if len(groups) == 0 {
		return nil, summary, nil
	}

	if err := m.recreateRoot(); err != nil {
		return nil, summary, err
	}
	if err := m.checkFreeSpace(groups); err != nil {
		return nil, summary, err
	}

	jobs, missing := m.planCopies(groups)
	summary.Missing = missing

	if err := m.createGroupDirs(len(groups)); err != nil {
		return nil, summary, err
	}

	mapping := make(map[string]string, len(jobs))
	var mu sync.Mutex

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(m.workers)
	for _, job := range jobs {
		job := job
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var err error
			if m.verify {
				err = fileutil.CopyFileVerified(job.source, job.destination)
			} else {
				err = fileutil.CopyFile(job.source, job.destination)
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failed++
				m.logger.Warn("copy failed",
					logging.String("source", job.source),
					logging.String("destination", job.destination),
					logging.Error(err))
				return nil
			}
			summary.Copied++
			mapping[job.source] = job.destination
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, summary, err
	}

	m.logger.Info("materialization finished",
		logging.Int("groups", summary.Groups),
		logging.Int("copied", summary.Copied),
		logging.Int("missing", summary.Missing),
		logging.Int("failed", summary.Failed))
	return mapping, summary, nil
}

// recreateRoot destroys and recreates the output root. Group numbering is
// not stable across runs, so the tree is never additive.
func (m *Materializer) recreateRoot() error {
	if err := os.RemoveAll(m.outputRoot); err != nil {
		return services.Wrap(services.ErrIO, "materialize", "clear output", "Cannot remove previous output tree", err)
	}
	if err := os.MkdirAll(m.outputRoot, 0o755); err != nil {
		return services.Wrap(services.ErrIO, "materialize", "create output", "Cannot create output root", err)
	}
	return nil
}

func (m *Materializer) createGroupDirs(count int) error {
	for i := 1; i <= count; i++ {
		dir := filepath.Join(m.outputRoot, strconv.Itoa(i))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return services.Wrap(services.ErrIO, "materialize", "create group directory", "Cannot create "+dir, err)
		}
	}
	return nil
}

// planCopies assigns a collision-free destination to every existing source.
// Name reservation runs serially so the later parallel copies write
// disjoint paths. Returns the jobs and the count of missing sources.
func (m *Materializer) planCopies(groups []cluster.Group) ([]copyJob, int) {
	var jobs []copyJob
	missing := 0
	for groupIdx, group := range groups {
		groupDir := filepath.Join(m.outputRoot, strconv.Itoa(groupIdx+1))
		reserved := make(map[string]struct{}, len(group))
		for _, source := range group {
			if _, err := os.Stat(source); err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					m.logger.Warn("source file missing", logging.String("path", source))
				} else {
					m.logger.Warn("cannot inspect source file", logging.String("path", source), logging.Error(err))
				}
				missing++
				continue
			}
			name := reserveName(reserved, textutil.SafePathName(source))
			jobs = append(jobs, copyJob{source: source, destination: filepath.Join(groupDir, name)})
		}
	}
	return jobs, missing
}

// reserveName claims name inside the directory's reservation set, appending
// _1, _2, ... before the extension until a free name is found.
func reserveName(reserved map[string]struct{}, name string) string {
	if _, taken := reserved[name]; !taken {
		reserved[name] = struct{}{}
		return name
	}
	stem, ext := textutil.SplitExt(name)
	for counter := 1; ; counter++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, counter, ext)
		if _, taken := reserved[candidate]; !taken {
			reserved[candidate] = struct{}{}
			return candidate
		}
	}
}
