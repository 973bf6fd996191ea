package naming

import (
	"github.com/avneet-kaur/dfs/errors"
	dfspath "github.com/avneet-kaur/dfs/path"
	"github.com/avneet-kaur/dfs/rpc"
)

// Register runs the one-time startup handshake for a newly-started
// storage server: s identifies its data and command endpoints, files
// is the list of paths it already holds locally. Register returns the
// subset of files that some earlier-registered server already owns;
// the caller is expected to delete those locally and prune.
//
// Duplicate detection and insertion happen under the same tree lock
// that guards every other mutation, and the registry append happens
// under the same call, so two servers racing to register the same path
// cannot both come away believing they own it.
func (s *Service) Register(server rpc.ServerStubs, files []string) ([]string, error) {
	const op = errors.Op("naming.Register")
	if server.DataAddr == "" || server.CommandAddr == "" {
		return nil, errors.E(op, errors.NullArgument, errors.Str("server stubs must not be empty"))
	}

	s.treeMu.Lock()
	defer s.treeMu.Unlock()
	s.regMu.Lock()
	defer s.regMu.Unlock()

	for _, existing := range s.registry {
		if existing == server {
			return nil, errors.E(op, errors.IllegalState, errors.Str("server already registered"))
		}
	}
	s.registry = append(s.registry, server)

	var duplicates []string
	for _, raw := range files {
		p, err := dfspath.New(raw)
		if err != nil || p.IsRoot() {
			continue
		}
		if s.hasFileAt(p) {
			duplicates = append(duplicates, raw)
			continue
		}
		s.insert(p, server)
	}
	return duplicates, nil
}

// hasFileAt reports whether a file-leaf already exists at exactly p.
func (s *Service) hasFileAt(p dfspath.Path) bool {
	cur := s.root
	it := p.Iterator()
	for {
		c, ok := it.Next()
		if !ok {
			return cur.isFile()
		}
		if cur.isFile() {
			return false
		}
		child, ok := cur.children[c]
		if !ok {
			return false
		}
		cur = child
	}
}

// insert creates any missing intermediate directories and a file-leaf
// for the final component, owned by server. If the final component
// already exists as anything — a directory, or another server's file —
// the path is left untouched; the caller has already recorded it as a
// duplicate (or it collides with a directory, which Register silently
// skips since the specification only defines duplicate handling for
// file/file collisions).
func (s *Service) insert(p dfspath.Path, server rpc.ServerStubs) {
	cur := s.root
	elems := p.Elems()
	for i, c := range elems {
		last := i == len(elems)-1
		if cur.isFile() {
			return
		}
		child, ok := cur.children[c]
		if !ok {
			if last {
				cur.children[c] = newFileNode(c, server)
				return
			}
			child = newDirNode(c)
			cur.children[c] = child
		} else if last {
			// Already exists as a directory or another server's file;
			// leave it in place.
			return
		}
		cur = child
	}
}
