package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gpstrail/internal/trail"
)

var ErrNoLines = errors.New("replay: no lines")

// DefaultInterval is the pause between two emitted lines.
const DefaultInterval = 100 * time.Millisecond

// Load reads the non-blank lines of a point file.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return trail.ReadLines(f)
}

type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type realSleeper struct{}

func (realSleeper) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Options control pacing of Play.
type Options struct {
	// Interval is slept between emissions. Zero disables pacing.
	Interval time.Duration
	// Loop restarts from the first line after the last one.
	Loop bool
	// Limit stops after that many emissions. Zero means no limit.
	Limit int
	// Sleeper defaults to a context-aware timer.
	Sleeper Sleeper
}

// Play hands every line to cb in order, sleeping Interval after each one.
// It returns the number of emitted lines. With Loop and no Limit it only
// returns on cancellation or a callback error.
func Play(ctx context.Context, lines []string, opts Options, cb func(line string) error) (int, error) {
	if cb == nil {
		return 0, errors.New("replay: callback is nil")
	}
	if len(lines) == 0 {
		return 0, ErrNoLines
	}
	if opts.Interval < 0 {
		return 0, fmt.Errorf("replay: interval must be >= 0")
	}
	sleeper := opts.Sleeper
	if sleeper == nil {
		sleeper = realSleeper{}
	}

	sent := 0
	for i := 0; ; {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if err := cb(lines[i]); err != nil {
			return sent, err
		}
		sent++
		if opts.Limit > 0 && sent >= opts.Limit {
			return sent, nil
		}

		i++
		if i >= len(lines) {
			if !opts.Loop {
				return sent, nil
			}
			i = 0
		}

		if opts.Interval > 0 {
			if err := sleeper.Sleep(ctx, opts.Interval); err != nil {
				return sent, err
			}
		}
	}
}

// AppendWriter appends one line per call to a file, reopening it every time
// so a reader polling the file sees each line as soon as it is written.
type AppendWriter struct {
	path string
}

// NewAppendWriter returns a writer for path. The parent directory must exist.
func NewAppendWriter(path string) (*AppendWriter, error) {
	if path == "" {
		return nil, errors.New("replay: output path is empty")
	}
	if st, err := os.Stat(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("replay: output dir: %w", err)
	} else if !st.IsDir() {
		return nil, fmt.Errorf("replay: output dir %s is not a directory", filepath.Dir(path))
	}
	return &AppendWriter{path: path}, nil
}

func (w *AppendWriter) Path() string { return w.path }

func (w *AppendWriter) WriteLine(line string) error {
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(f, line+"\n"); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
