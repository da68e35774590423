// Package txn executes an ordered list of filesystem mutations as a single
// all-or-nothing unit.
//
// Steps run strictly in the order added. Before any destructive step the
// manager snapshots the prior state; on the first failing step it stops and
// reverses every already-applied step in last-applied-first order. Rollback
// is best-effort: a failing reversal is recorded and reversal continues for
// the remaining steps.
package txn

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/aidanlsb/relink/internal/atomicfile"
)

type stepKind int

const (
	stepMove stepKind = iota
	stepWrite
)

type step struct {
	kind           stepKind
	source         string
	destination    string
	content        []byte
	allowOverwrite bool
	label          string
}

// undo reverses one applied step.
type undo struct {
	describe string
	run      func() error
}

// Transaction is an ordered list of filesystem mutations with
// rollback-on-failure.
type Transaction struct {
	steps         []step
	createBackups bool
}

// Result is the outcome of executing a transaction.
type Result struct {
	Success bool
	Errors  []string
}

// New returns an empty transaction.
func New() *Transaction {
	return &Transaction{}
}

// SetCreateBackups enables ".backup" sibling files before destructive content
// updates. Backups are left in place after a successful commit.
func (t *Transaction) SetCreateBackups(enabled bool) {
	t.createBackups = enabled
}

// AddFileMove queues a move of source to destination. Moving onto an existing
// destination is a configuration error unless allowOverwrite is set.
func (t *Transaction) AddFileMove(source, destination string, allowOverwrite bool, label string) {
	t.steps = append(t.steps, step{
		kind:           stepMove,
		source:         source,
		destination:    destination,
		allowOverwrite: allowOverwrite,
		label:          label,
	})
}

// AddContentUpdate queues a content write to path. The prior content is
// snapshotted at execution time for rollback.
func (t *Transaction) AddContentUpdate(path string, content []byte, label string) {
	t.steps = append(t.steps, step{
		kind:        stepWrite,
		destination: path,
		content:     content,
		label:       label,
	})
}

// Len returns the number of queued steps.
func (t *Transaction) Len() int { return len(t.steps) }

// Execute runs all steps in order. On the first failure it rolls back every
// applied step and reports Success=false with the step error plus any
// rollback errors.
func (t *Transaction) Execute() Result {
	var applied []undo

	for i, s := range t.steps {
		var err error
		var u undo

		switch s.kind {
		case stepMove:
			u, err = t.applyMove(s)
		case stepWrite:
			u, err = t.applyWrite(s)
		}

		if err != nil {
			errs := []string{fmt.Sprintf("step %d (%s): %v", i+1, s.describe(), err)}
			errs = append(errs, rollback(applied)...)
			return Result{Success: false, Errors: errs}
		}
		applied = append(applied, u)
	}

	return Result{Success: true}
}

func (s step) describe() string {
	if s.label != "" {
		return s.label
	}
	if s.kind == stepMove {
		return fmt.Sprintf("move %s -> %s", s.source, s.destination)
	}
	return fmt.Sprintf("write %s", s.destination)
}

func (t *Transaction) applyMove(s step) (undo, error) {
	if !s.allowOverwrite {
		if _, err := os.Stat(s.destination); err == nil {
			return undo{}, fmt.Errorf("destination already exists: %s", s.destination)
		}
	}
	if err := os.MkdirAll(filepath.Dir(s.destination), 0o755); err != nil {
		return undo{}, fmt.Errorf("create destination directory: %w", err)
	}
	if err := moveFile(s.source, s.destination); err != nil {
		return undo{}, err
	}

	src, dst := s.source, s.destination
	return undo{
		describe: fmt.Sprintf("move %s back to %s", dst, src),
		run: func() error {
			if err := os.MkdirAll(filepath.Dir(src), 0o755); err != nil {
				return err
			}
			return moveFile(dst, src)
		},
	}, nil
}

func (t *Transaction) applyWrite(s step) (undo, error) {
	prior, err := os.ReadFile(s.destination)
	existed := err == nil
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return undo{}, fmt.Errorf("snapshot prior content: %w", err)
	}

	if t.createBackups && existed {
		if err := atomicfile.WriteFile(s.destination+".backup", prior, 0); err != nil {
			return undo{}, fmt.Errorf("write backup: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(s.destination), 0o755); err != nil {
		return undo{}, fmt.Errorf("create directory: %w", err)
	}
	if err := atomicfile.WriteFile(s.destination, s.content, 0); err != nil {
		return undo{}, err
	}

	path := s.destination
	return undo{
		describe: fmt.Sprintf("restore %s", path),
		run: func() error {
			if !existed {
				return os.Remove(path)
			}
			return atomicfile.WriteFile(path, prior, 0)
		},
	}, nil
}

// rollback reverses applied steps last-first, collecting errors but never
// stopping early.
func rollback(applied []undo) []string {
	var errs []string
	for i := len(applied) - 1; i >= 0; i-- {
		if err := applied[i].run(); err != nil {
			errs = append(errs, fmt.Sprintf("rollback (%s): %v", applied[i].describe, err))
		}
	}
	return errs
}

// moveFile renames source to destination, falling back to copy-verify-delete
// when the rename crosses a filesystem boundary.
func moveFile(source, destination string) error {
	err := os.Rename(source, destination)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return err
	}
	if err := atomicfile.CopyFile(source, destination); err != nil {
		return fmt.Errorf("cross-device copy: %w", err)
	}
	if err := os.Remove(source); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return false
	}
	var errno syscall.Errno
	return errors.As(linkErr.Err, &errno) && errno == syscall.EXDEV
}
