package naming

import (
	"sort"
	"sync"

	"github.com/avneet-kaur/dfs/errors"
	dfspath "github.com/avneet-kaur/dfs/path"
	"github.com/avneet-kaur/dfs/rpc"
	"github.com/avneet-kaur/dfs/storage"
)

// ClientService is the naming server's client-facing interface.
type ClientService interface {
	IsDirectory(path string) (bool, error)
	List(path string) ([]string, error)
	CreateFile(path string) (bool, error)
	CreateDirectory(path string) (bool, error)
	Delete(path string) (bool, error)
	GetStorage(path string) (rpc.ServerStubs, error)
}

// RegisterService is the naming server's registration-facing interface,
// called once by each storage server at startup.
type RegisterService interface {
	Register(s rpc.ServerStubs, files []string) ([]string, error)
}

// Service is the naming server: an in-memory path tree guarded by a
// read-write lock, plus an independently-locked storage-server
// registry. Traversals (IsDirectory, List, GetStorage) take the read
// lock; mutations (CreateFile, CreateDirectory, Delete, Register) take
// the write lock, so that file-leaf ownership is always published
// atomically with the node that carries it.
type Service struct {
	treeMu sync.RWMutex
	root   *node

	regMu    sync.Mutex
	registry []rpc.ServerStubs
	next     int // round-robin cursor for createFile placement
}

var (
	_ ClientService   = (*Service)(nil)
	_ RegisterService = (*Service)(nil)
)

// New returns an empty naming service: a single root directory and no
// registered storage servers.
func New() *Service {
	return &Service{root: newDirNode("")}
}

func parse(op errors.Op, path string) (dfspath.Path, error) {
	if path == "" {
		return dfspath.Path{}, errors.E(op, errors.NullArgument, errors.Str("path must not be empty"))
	}
	p, err := dfspath.New(path)
	if err != nil {
		return dfspath.Path{}, errors.E(op, err)
	}
	return p, nil
}

// IsDirectory reports whether path names a directory, as opposed to a
// file-leaf.
func (s *Service) IsDirectory(path string) (bool, error) {
	const op = errors.Op("naming.IsDirectory")
	p, err := parse(op, path)
	if err != nil {
		return false, err
	}

	s.treeMu.RLock()
	defer s.treeMu.RUnlock()
	n, err := walk(s.root, p)
	if err != nil {
		return false, errors.E(op, err)
	}
	return !n.isFile(), nil
}

// List returns the child names of the directory at path, in unspecified
// order.
func (s *Service) List(path string) ([]string, error) {
	const op = errors.Op("naming.List")
	p, err := parse(op, path)
	if err != nil {
		return nil, err
	}

	s.treeMu.RLock()
	defer s.treeMu.RUnlock()
	n, err := walk(s.root, p)
	if err != nil {
		return nil, errors.E(op, err)
	}
	if n.isFile() {
		return nil, errors.E(op, path, errors.NotFound, errors.Str("not a directory"))
	}
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// CreateFile creates an empty file at path on one storage server chosen
// from the registry, and records the new file-leaf in the tree, adding
// any missing parent directories. It fails not-found if a file-leaf
// lies on the parent path.
func (s *Service) CreateFile(path string) (bool, error) {
	const op = errors.Op("naming.CreateFile")
	p, err := parse(op, path)
	if err != nil {
		return false, err
	}
	if p.IsRoot() {
		return false, nil
	}
	parentPath, err := p.Parent()
	if err != nil {
		return false, errors.E(op, err)
	}
	last, err := p.Last()
	if err != nil {
		return false, errors.E(op, err)
	}

	s.treeMu.Lock()
	defer s.treeMu.Unlock()

	for q := parentPath; !q.IsRoot(); q, _ = q.Parent() {
		if s.hasFileAt(q) {
			return false, errors.E(op, path, errors.NotFound, errors.Str("parent path runs through a file"))
		}
	}
	if parent, err := walk(s.root, parentPath); err == nil && parent.children[last] != nil {
		return false, nil
	}

	owner, err := s.pickServer()
	if err != nil {
		return false, errors.E(op, err)
	}
	ok, err := storage.NewCommandStub(owner.CommandAddr).Create(path)
	if err != nil {
		return false, errors.E(op, err)
	}
	if !ok {
		return false, nil
	}

	s.insert(p, owner)
	return true, nil
}

// CreateDirectory records a new, empty directory node at path. Unlike
// CreateFile it never consults the storage registry, so it succeeds
// even when no storage server has registered yet.
func (s *Service) CreateDirectory(path string) (bool, error) {
	const op = errors.Op("naming.CreateDirectory")
	p, err := parse(op, path)
	if err != nil {
		return false, err
	}
	if p.IsRoot() {
		return false, nil
	}
	parentPath, err := p.Parent()
	if err != nil {
		return false, errors.E(op, err)
	}
	last, err := p.Last()
	if err != nil {
		return false, errors.E(op, err)
	}

	s.treeMu.Lock()
	defer s.treeMu.Unlock()

	parent, err := walk(s.root, parentPath)
	if err != nil || parent.isFile() {
		return false, errors.E(op, path, errors.NotFound, errors.Str("parent is not an existing directory"))
	}
	if _, exists := parent.children[last]; exists {
		return false, nil
	}
	parent.children[last] = newDirNode(last)
	return true, nil
}

type leafEntry struct {
	path  dfspath.Path
	owner rpc.ServerStubs
}

func collectLeaves(n *node, prefix dfspath.Path, out *[]leafEntry) {
	if n.isFile() {
		*out = append(*out, leafEntry{path: prefix, owner: *n.owner})
		return
	}
	for name, c := range n.children {
		child, err := dfspath.NewChild(prefix, name)
		if err != nil {
			continue
		}
		collectLeaves(c, child, out)
	}
}

// Delete removes the file or directory subtree at path, commanding
// every storage server that owns a file anywhere in that subtree to
// delete its copy — not just the single owner of the subtree's root,
// so a directory whose files are spread across multiple storage
// servers is deleted completely.
func (s *Service) Delete(path string) (bool, error) {
	const op = errors.Op("naming.Delete")
	p, err := parse(op, path)
	if err != nil {
		return false, err
	}
	if p.IsRoot() {
		return false, nil
	}
	parentPath, err := p.Parent()
	if err != nil {
		return false, errors.E(op, err)
	}
	last, err := p.Last()
	if err != nil {
		return false, errors.E(op, err)
	}

	s.treeMu.Lock()
	defer s.treeMu.Unlock()

	parent, err := walk(s.root, parentPath)
	if err != nil {
		return false, errors.E(op, err)
	}
	target, ok := parent.children[last]
	if !ok {
		return false, errors.E(op, path, errors.NotFound, errors.Str("no such path"))
	}

	var entries []leafEntry
	collectLeaves(target, p, &entries)
	for _, e := range entries {
		if _, err := storage.NewCommandStub(e.owner.CommandAddr).Delete(e.path.String()); err != nil {
			return false, errors.E(op, err)
		}
	}

	delete(parent.children, last)
	return true, nil
}

// GetStorage returns the client-facing storage stub address pair that
// owns the file-leaf at path.
func (s *Service) GetStorage(path string) (rpc.ServerStubs, error) {
	const op = errors.Op("naming.GetStorage")
	p, err := parse(op, path)
	if err != nil {
		return rpc.ServerStubs{}, err
	}

	s.treeMu.RLock()
	defer s.treeMu.RUnlock()
	n, err := walk(s.root, p)
	if err != nil {
		return rpc.ServerStubs{}, errors.E(op, err)
	}
	if !n.isFile() {
		return rpc.ServerStubs{}, errors.E(op, path, errors.NotFound, errors.Str("is a directory"))
	}
	return *n.owner, nil
}

// pickServer chooses a storage server from the registry to place a new
// file on. The specification leaves the placement strategy open; this
// uses a simple round-robin cursor over the registration order.
func (s *Service) pickServer() (rpc.ServerStubs, error) {
	const op = errors.Op("naming.pickServer")
	s.regMu.Lock()
	defer s.regMu.Unlock()
	if len(s.registry) == 0 {
		return rpc.ServerStubs{}, errors.E(op, errors.IllegalState, errors.Str("no storage servers registered"))
	}
	owner := s.registry[s.next%len(s.registry)]
	s.next++
	return owner, nil
}
