package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Sequencer owns the batch counter and derives clip filenames. All access
// is serialized through one mutex so concurrent submissions never share
// an index.
type Sequencer struct {
	mu        sync.Mutex
	counter   int
	lastReset time.Time
	clipsDir  string
	tmpDir    string
}

func NewSequencer(clipsDir, tmpDir string) (*Sequencer, error) {
	if err := os.MkdirAll(clipsDir, 0755); err != nil {
		return nil, errors.Wrap(err, "sequencer.NewSequencer.clipsDir")
	}
	if err := os.MkdirAll(tmpDir, 0755); err != nil {
		return nil, errors.Wrap(err, "sequencer.NewSequencer.tmpDir")
	}
	return &Sequencer{
		counter:  1,
		clipsDir: clipsDir,
		tmpDir:   tmpDir,
	}, nil
}

// NextFilename reserves the next batch index and returns it together with
// the derived output filename, e.g. `(3) 0010-0025.mp4`.
func (s *Sequencer) NextFilename(start, end float64) (int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.counter
	s.counter++
	return idx, fmt.Sprintf("(%d) %s-%s.mp4", idx, MMSSFromSeconds(start), MMSSFromSeconds(end))
}

func (s *Sequencer) Counter() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter
}

func (s *Sequencer) LastReset() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReset
}

func (s *Sequencer) ClipsDir() string {
	return s.clipsDir
}

// Reset returns the counter to 1. With a non-empty folder every regular
// file in the clips directory is first moved into that subfolder. The tmp
// source cache is emptied either way. In-flight jobs are not aborted;
// they finish against the old output set.
func (s *Sequencer) Reset(folder string) (counter int, archived []string, tmpDeleted int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	archived = []string{}
	if folder != "" {
		archiveDir := filepath.Join(s.clipsDir, folder)
		if err := os.MkdirAll(archiveDir, 0755); err != nil {
			return s.counter, nil, 0, errors.Wrap(err, "sequencer.Reset.archiveDir")
		}
		entries, err := os.ReadDir(s.clipsDir)
		if err != nil {
			return s.counter, nil, 0, errors.Wrap(err, "sequencer.Reset.readDir")
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			src := filepath.Join(s.clipsDir, entry.Name())
			dst := filepath.Join(archiveDir, entry.Name())
			if err := os.Rename(src, dst); err != nil {
				return s.counter, archived, 0, errors.Wrapf(err, "sequencer.Reset.move %s", entry.Name())
			}
			archived = append(archived, entry.Name())
		}
	}

	tmpDeleted = s.clearTmp()
	s.counter = 1
	s.lastReset = time.Now()
	return s.counter, archived, tmpDeleted, nil
}

func (s *Sequencer) clearTmp() int {
	entries, err := os.ReadDir(s.tmpDir)
	if err != nil {
		return 0
	}
	removed := 0
	for _, entry := range entries {
		path := filepath.Join(s.tmpDir, entry.Name())
		if err := os.RemoveAll(path); err == nil {
			removed++
		}
	}
	return removed
}

// MMSSFromSeconds renders seconds as a zero-padded MMSS token, clamped to >= 0.
func MMSSFromSeconds(sec float64) string {
	s := int(sec)
	if s < 0 {
		s = 0
	}
	return fmt.Sprintf("%02d%02d", s/60, s%60)
}
