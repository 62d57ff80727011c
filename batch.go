package confschema

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"github.com/reoring/confschema/value"
)

// lockSuffix names the lock file kept beside a quarantine directory.
const lockSuffix = ".lock"

const lockTimeout = 10 * time.Second

// Status is the outcome for one file of a batch.
type Status int

const (
	StatusPassed Status = iota
	StatusFailed
	// StatusSkipped marks a file that could not be read or validated. It
	// counts as neither passed nor failed.
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	default:
		return "skipped"
	}
}

// FileResult reports one file of a batch.
type FileResult struct {
	File   string
	Status Status
	// Issues holds the diagnostic of a failed file.
	Issues Issues
	// Err is the reason a file was skipped.
	Err error
	// MovedTo is the quarantine location of a failed file.
	MovedTo string
}

// BatchOptions configures ValidateFiles.
type BatchOptions struct {
	Validate ValidateOpt
	// QuarantineDir receives failed files when set. It is created if absent.
	QuarantineDir string
	Logger        *zap.SugaredLogger
	// OnResult is called after each file in input order.
	OnResult func(FileResult)
}

// BatchResult lists files by outcome, in input order.
type BatchResult struct {
	Passed  []string
	Failed  []string
	Skipped []string
}

// OK reports whether no file failed.
func (r BatchResult) OK() bool { return len(r.Failed) == 0 }

// ValidateFiles validates each file independently against the document. A
// file that cannot be read, parsed or validated is logged and skipped, so one
// bad file never aborts the batch. The returned error is reserved for context
// cancellation, which stops processing between files.
func (d *Document) ValidateFiles(ctx context.Context, files []string, opt BatchOptions) (BatchResult, error) {
	log := opt.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	var res BatchResult
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		fr := d.checkFile(file, opt.Validate)
		switch fr.Status {
		case StatusPassed:
			res.Passed = append(res.Passed, file)
		case StatusFailed:
			res.Failed = append(res.Failed, file)
			if opt.QuarantineDir != "" {
				dst, err := quarantine(ctx, file, opt.QuarantineDir)
				if err != nil {
					log.Warnw("quarantine failed", "file", file, "error", err)
				} else {
					fr.MovedTo = dst
					log.Infow("file quarantined", "file", file, "dest", dst)
				}
			}
		default:
			res.Skipped = append(res.Skipped, file)
			log.Warnw("skipping file", "file", file, "error", fr.Err)
		}
		if opt.OnResult != nil {
			opt.OnResult(fr)
		}
	}
	return res, nil
}

func (d *Document) checkFile(file string, vopt ValidateOpt) FileResult {
	fr := FileResult{File: file}
	v, err := readFile(file, d)
	if err != nil {
		fr.Status, fr.Err = StatusSkipped, err
		return fr
	}
	iss, err := d.Check(v, vopt)
	switch {
	case err != nil:
		fr.Status, fr.Err = StatusSkipped, err
	case len(iss) > 0:
		fr.Status, fr.Issues = StatusFailed, iss
	default:
		fr.Status = StatusPassed
	}
	return fr
}

func readFile(file string, d *Document) (value.Value, error) {
	fi, err := os.Stat(file)
	if err != nil {
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: not a regular file", file)
	}
	return readInput(file, d.Format)
}

// quarantine moves file into dir. Moves are serialised through a lock file
// so concurrent batches sharing dir do not interleave.
func quarantine(ctx context.Context, file, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create quarantine dir: %w", err)
	}
	fileLock := flock.New(filepath.Clean(dir) + lockSuffix)
	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()
	locked, err := fileLock.TryLockContext(lockCtx, 50*time.Millisecond)
	if err != nil {
		return "", fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return "", fmt.Errorf("failed to acquire lock: timeout after %v", lockTimeout)
	}
	defer fileLock.Unlock()

	dst, err := freeName(dir, filepath.Base(file))
	if err != nil {
		return "", err
	}
	if err := os.Rename(file, dst); err == nil {
		return dst, nil
	}
	// rename fails across devices
	if err := copyFile(file, dst); err != nil {
		return "", err
	}
	return dst, os.Remove(file)
}

// freeName returns a path in dir for base that does not exist yet, adding
// a counter before the extension (x.json, x.1.json, x.2.json) as needed.
func freeName(dir, base string) (string, error) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for i := 0; ; i++ {
		name := base
		if i > 0 {
			name = stem + "." + strconv.Itoa(i) + ext
		}
		dst := filepath.Join(dir, name)
		_, err := os.Lstat(dst)
		if errors.Is(err, fs.ErrNotExist) {
			return dst, nil
		}
		if err != nil {
			return "", err
		}
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
