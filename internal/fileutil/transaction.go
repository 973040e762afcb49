package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// ErrFinalized is returned when a transaction is used after Commit or Rollback.
var ErrFinalized = errors.New("transaction already finalized")

// FileTransaction writes a set of files all-or-nothing. Writes are staged in
// memory; Commit applies them and undoes the applied ones if any fails.
type FileTransaction struct {
	mu         sync.Mutex
	operations []fileOperation
	createdDir []string
	committed  bool
	rolledBack bool
}

type fileOperation struct {
	path    string
	content []byte
	mode    os.FileMode

	applied   bool
	existed   bool
	backup    []byte
	backupMod os.FileMode
}

// NewFileTransaction creates an empty transaction.
func NewFileTransaction() *FileTransaction {
	return &FileTransaction{}
}

// Write stages a write of content to the absolute path.
func (tx *FileTransaction) Write(path string, content []byte, mode os.FileMode) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	if tx.committed || tx.rolledBack {
		return ErrFinalized
	}
	tx.operations = append(tx.operations, fileOperation{
		path:    path,
		content: content,
		mode:    mode,
	})
	return nil
}

// Len returns the number of staged writes.
func (tx *FileTransaction) Len() int {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return len(tx.operations)
}

// Commit applies every staged write. On failure the applied writes are
// reverted and the returned error names the failing path.
func (tx *FileTransaction) Commit() error {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	if tx.committed || tx.rolledBack {
		return ErrFinalized
	}

	for i := range tx.operations {
		op := &tx.operations[i]
		if err := tx.apply(op); err != nil {
			rbErr := tx.rollback()
			return errors.Join(fmt.Errorf("write %s: %w", op.path, err), rbErr)
		}
	}

	tx.committed = true
	return nil
}

// Rollback discards staged writes. It is a no-op after a successful Commit.
func (tx *FileTransaction) Rollback() error {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	if tx.committed {
		return nil
	}
	return tx.rollback()
}

func (tx *FileTransaction) apply(op *fileOperation) error {
	if info, err := os.Stat(op.path); err == nil {
		if info.IsDir() {
			return fmt.Errorf("is a directory")
		}
		data, err := os.ReadFile(op.path)
		if err != nil {
			return fmt.Errorf("backup: %w", err)
		}
		op.existed = true
		op.backup = data
		op.backupMod = info.Mode().Perm()
	}

	if err := tx.mkdirAll(filepath.Dir(op.path)); err != nil {
		return err
	}
	if err := AtomicWrite(op.path, op.content, op.mode); err != nil {
		return err
	}
	op.applied = true
	return nil
}

// mkdirAll creates dir and remembers every directory it had to create.
func (tx *FileTransaction) mkdirAll(dir string) error {
	var missing []string
	for d := dir; ; d = filepath.Dir(d) {
		if _, err := os.Stat(d); err == nil {
			break
		}
		missing = append(missing, d)
		if filepath.Dir(d) == d {
			break
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tx.createdDir = append(tx.createdDir, missing...)
	return nil
}

func (tx *FileTransaction) rollback() error {
	tx.rolledBack = true

	var errs []error
	for i := len(tx.operations) - 1; i >= 0; i-- {
		op := &tx.operations[i]
		if !op.applied {
			continue
		}
		var err error
		if op.existed {
			err = AtomicWrite(op.path, op.backup, op.backupMod)
		} else {
			err = os.Remove(op.path)
		}
		if err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("rollback %s: %w", op.path, err))
		}
		op.applied = false
	}

	// Deepest first; only directories this transaction created, and only if empty.
	sort.Slice(tx.createdDir, func(i, j int) bool {
		return len(tx.createdDir[i]) > len(tx.createdDir[j])
	})
	for _, dir := range tx.createdDir {
		os.Remove(dir)
	}
	tx.createdDir = nil

	return errors.Join(errs...)
}
