// Package storage implements a storage server's local filesystem
// adapter: it maps filesystem-namespace paths to files on disk rooted
// at a chosen directory, and the client-facing and naming-facing
// remote service interfaces built on top of it.
package storage

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/avneet-kaur/dfs/errors"
	"github.com/avneet-kaur/dfs/log"
	dfspath "github.com/avneet-kaur/dfs/path"
)

// DataService is the client-facing subset of a storage server's
// operations.
type DataService interface {
	Size(p string) (int64, error)
	Read(p string, offset, length int64) ([]byte, error)
	Write(p string, offset int64, data []byte) error
}

// CommandService is the naming-facing subset of a storage server's
// operations.
type CommandService interface {
	Create(p string) (bool, error)
	Delete(p string) (bool, error)
}

// Local is the storage server's local filesystem adapter. Every public
// operation runs under a single instance-level lock, so operations on
// one storage server are serialized with respect to one another;
// operations on distinct Local instances are entirely independent.
type Local struct {
	root string
	mu   sync.Mutex
}

var (
	_ DataService    = (*Local)(nil)
	_ CommandService = (*Local)(nil)
)

// NewLocal returns a storage adapter rooted at root, which must already
// exist and be a directory.
func NewLocal(root string) (*Local, error) {
	const op = errors.Op("storage.NewLocal")
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.E(op, root, errors.NotFound, err)
	}
	if !info.IsDir() {
		return nil, errors.E(op, root, errors.NotFound, errors.Str("root is not a directory"))
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.E(op, root, errors.IOFailure, err)
	}
	return &Local{root: abs}, nil
}

// Root returns the local directory this adapter is rooted at.
func (l *Local) Root() string { return l.root }

func (l *Local) resolve(p string) (dfspath.Path, error) {
	if p == "" {
		return dfspath.Path{}, errors.E(errors.NullArgument, errors.Str("path must not be empty"))
	}
	return dfspath.New(p)
}

// Size returns the size in bytes of the file at p.
func (l *Local) Size(p string) (int64, error) {
	const op = errors.Op("storage.Size")
	l.mu.Lock()
	defer l.mu.Unlock()

	pp, err := l.resolve(p)
	if err != nil {
		return 0, errors.E(op, err)
	}
	info, err := os.Stat(pp.ToFile(l.root))
	if os.IsNotExist(err) {
		return 0, errors.E(op, p, errors.NotFound, err)
	}
	if err != nil {
		return 0, errors.E(op, p, errors.IOFailure, err)
	}
	if info.IsDir() {
		return 0, errors.E(op, p, errors.NotFound, errors.Str("is a directory"))
	}
	return info.Size(), nil
}

// Read returns exactly length bytes starting at offset from the file
// at p.
func (l *Local) Read(p string, offset, length int64) ([]byte, error) {
	const op = errors.Op("storage.Read")
	l.mu.Lock()
	defer l.mu.Unlock()

	pp, err := l.resolve(p)
	if err != nil {
		return nil, errors.E(op, err)
	}
	file := pp.ToFile(l.root)
	info, err := os.Stat(file)
	if os.IsNotExist(err) {
		return nil, errors.E(op, p, errors.NotFound, err)
	}
	if err != nil {
		return nil, errors.E(op, p, errors.IOFailure, err)
	}
	if info.IsDir() {
		return nil, errors.E(op, p, errors.NotFound, errors.Str("is a directory"))
	}
	if offset < 0 || length < 0 || offset > info.Size() || offset+length > info.Size() {
		return nil, errors.E(op, p, errors.OutOfBounds)
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, errors.E(op, p, errors.IOFailure, err)
	}
	defer f.Close()

	buf := make([]byte, length)
	// io.ReadFull loops on short reads until buf is filled or EOF is
	// reached; EOF within [offset, offset+length) cannot happen because
	// bounds were checked against the file's size above.
	if _, err := io.ReadFull(io.NewSectionReader(f, offset, length), buf); err != nil {
		return nil, errors.E(op, p, errors.IOFailure, err)
	}
	return buf, nil
}

// Write writes data starting at offset into the file at p, extending
// the file if necessary. Bytes outside [offset, offset+len(data)) are
// preserved: the file is opened for positional writes, never
// truncated.
func (l *Local) Write(p string, offset int64, data []byte) error {
	const op = errors.Op("storage.Write")
	l.mu.Lock()
	defer l.mu.Unlock()

	pp, err := l.resolve(p)
	if err != nil {
		return errors.E(op, err)
	}
	if offset < 0 {
		return errors.E(op, p, errors.OutOfBounds)
	}
	file := pp.ToFile(l.root)
	info, err := os.Stat(file)
	if os.IsNotExist(err) {
		return errors.E(op, p, errors.NotFound, err)
	}
	if err != nil {
		return errors.E(op, p, errors.IOFailure, err)
	}
	if info.IsDir() {
		return errors.E(op, p, errors.NotFound, errors.Str("is a directory"))
	}

	f, err := os.OpenFile(file, os.O_WRONLY, 0o644)
	if err != nil {
		return errors.E(op, p, errors.IOFailure, err)
	}
	defer f.Close()

	if _, err := f.WriteAt(data, offset); err != nil {
		return errors.E(op, p, errors.IOFailure, err)
	}
	return nil
}

// Create creates the file at p, along with any missing ancestor
// directories. It returns false, with no error, if p is the root or
// already exists.
func (l *Local) Create(p string) (bool, error) {
	const op = errors.Op("storage.Create")
	l.mu.Lock()
	defer l.mu.Unlock()

	pp, err := l.resolve(p)
	if err != nil {
		return false, errors.E(op, err)
	}
	if pp.IsRoot() {
		return false, nil
	}
	file := pp.ToFile(l.root)
	if _, err := os.Lstat(file); err == nil {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		log.Error("create: mkdir ancestors failed", log.F("path", p), log.F("err", err))
		return false, nil
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		log.Error("create: open failed", log.F("path", p), log.F("err", err))
		return false, nil
	}
	f.Close()
	log.Info("created file", log.F("path", p))
	return true, nil
}

// Delete recursively removes the file or directory subtree at p and
// prunes any now-empty ancestor directories, stopping short of the
// root. It returns false, with no error, if p is the root or does not
// exist.
func (l *Local) Delete(p string) (bool, error) {
	const op = errors.Op("storage.Delete")
	l.mu.Lock()
	defer l.mu.Unlock()

	pp, err := l.resolve(p)
	if err != nil {
		return false, errors.E(op, err)
	}
	if pp.IsRoot() {
		return false, nil
	}
	file := pp.ToFile(l.root)
	if _, err := os.Lstat(file); os.IsNotExist(err) {
		return false, nil
	}

	if err := os.RemoveAll(file); err != nil {
		return false, errors.E(op, p, errors.IOFailure, err)
	}
	log.Info("deleted path", log.F("path", p))
	l.pruneAncestors(pp)
	return true, nil
}

// pruneAncestors walks upward from p's parent, removing directories
// that are empty, so long as they are not the root.
func (l *Local) pruneAncestors(p dfspath.Path) {
	for !p.IsRoot() {
		parent, err := p.Parent()
		if err != nil {
			return
		}
		if parent.IsRoot() {
			return
		}
		dir := parent.ToFile(l.root)
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) != 0 {
			return
		}
		if err := os.Remove(dir); err != nil {
			return
		}
		log.Info("pruned empty directory", log.F("path", parent.String()))
		p = parent
	}
}
