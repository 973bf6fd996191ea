// Package path implements the immutable, forward-slash-delimited path
// values used throughout the distributed filesystem. A Path is a
// sequence of non-empty components; the root is the empty sequence and
// renders as "/".
package path

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/avneet-kaur/dfs/errors"
)

// Path is an immutable forward-slash path inside the filesystem
// namespace. The zero value is the root.
type Path struct {
	str   string
	elems []string
}

// Root returns the root path.
func Root() Path {
	return Path{str: "/"}
}

// New parses s into a Path. s must start with "/" and must not contain
// a colon. Empty components produced by repeated slashes are dropped,
// so "/a//b/" and "/a/b" parse to the same Path.
func New(s string) (Path, error) {
	const op = errors.Op("path.New")
	if s == "" {
		return Path{}, errors.E(op, errors.IllegalArgument, errors.Str("empty path string"))
	}
	if s[0] != '/' {
		return Path{}, errors.E(op, s, errors.IllegalArgument, errors.Str("path must start with '/'"))
	}
	if strings.ContainsRune(s, ':') {
		return Path{}, errors.E(op, s, errors.IllegalArgument, errors.Str("path must not contain ':'"))
	}
	var elems []string
	for _, c := range strings.Split(s, "/") {
		if c != "" {
			elems = append(elems, c)
		}
	}
	return fromElems(elems), nil
}

// NewChild returns the Path formed by appending component to parent.
// component must be non-empty and must not contain "/" or ":".
func NewChild(parent Path, component string) (Path, error) {
	const op = errors.Op("path.NewChild")
	if component == "" {
		return Path{}, errors.E(op, errors.IllegalArgument, errors.Str("empty component"))
	}
	if strings.ContainsAny(component, "/:") {
		return Path{}, errors.E(op, component, errors.IllegalArgument, errors.Str("component must not contain '/' or ':'"))
	}
	elems := make([]string, len(parent.elems)+1)
	copy(elems, parent.elems)
	elems[len(parent.elems)] = component
	return fromElems(elems), nil
}

func fromElems(elems []string) Path {
	if len(elems) == 0 {
		return Root()
	}
	return Path{str: "/" + strings.Join(elems, "/"), elems: elems}
}

// String returns the canonical "/"-rooted string form of p.
func (p Path) String() string {
	if p.str == "" {
		return "/"
	}
	return p.str
}

// IsRoot reports whether p is the root path.
func (p Path) IsRoot() bool {
	return len(p.elems) == 0
}

// NElem returns the number of components in p.
func (p Path) NElem() int {
	return len(p.elems)
}

// Elem returns the i'th component of p. It panics if i is out of range.
func (p Path) Elem(i int) string {
	return p.elems[i]
}

// Elems returns a copy of p's components, in order.
func (p Path) Elems() []string {
	out := make([]string, len(p.elems))
	copy(out, p.elems)
	return out
}

// Parent returns the path with the last component removed. It fails
// for the root path, which has no parent.
func (p Path) Parent() (Path, error) {
	const op = errors.Op("path.Parent")
	if p.IsRoot() {
		return Path{}, errors.E(op, p.String(), errors.IllegalArgument, errors.Str("root has no parent"))
	}
	return fromElems(p.elems[:len(p.elems)-1]), nil
}

// Last returns the final component of p. It fails for the root path.
func (p Path) Last() (string, error) {
	const op = errors.Op("path.Last")
	if p.IsRoot() {
		return "", errors.E(op, p.String(), errors.IllegalArgument, errors.Str("root has no last component"))
	}
	return p.elems[len(p.elems)-1], nil
}

// Equal reports whether p and q denote the same path.
func (p Path) Equal(q Path) bool {
	return p.String() == q.String()
}

// IsSubpath reports whether p is a subpath of other: every component of
// other is a prefix of p's component sequence. Unlike a naive
// string-prefix test (which would wrongly treat "/ab" as a subpath of
// "/a"), this compares whole components, per the specification's
// mandated fix to the source's string-prefix bug.
func (p Path) IsSubpath(other Path) bool {
	if other.NElem() > p.NElem() {
		return false
	}
	for i := 0; i < other.NElem(); i++ {
		if p.elems[i] != other.elems[i] {
			return false
		}
	}
	return true
}

// ToFile resolves p to an absolute host filesystem path rooted at root.
func (p Path) ToFile(root string) string {
	parts := append([]string{root}, p.elems...)
	return filepath.Join(parts...)
}

// Iterator yields the components of a Path in order. It is non-removing:
// it exposes no mutation of the underlying Path.
type Iterator struct {
	elems []string
	i     int
}

// Iterator returns an Iterator over p's components.
func (p Path) Iterator() *Iterator {
	return &Iterator{elems: p.elems}
}

// Next returns the next component and true, or ("", false) once the
// iterator is exhausted.
func (it *Iterator) Next() (string, bool) {
	if it.i >= len(it.elems) {
		return "", false
	}
	c := it.elems[it.i]
	it.i++
	return c, true
}

// List enumerates every file (not directory) under the local directory
// dir, returning one Path per file, relative to dir. It fails with
// errors.NotFound if dir does not exist, and with errors.IOFailure if
// dir exists but is not a directory or cannot be walked.
func List(dir string) ([]Path, error) {
	const op = errors.Op("path.List")
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, errors.E(op, dir, errors.NotFound, err)
	}
	if err != nil {
		return nil, errors.E(op, dir, errors.IOFailure, err)
	}
	if !info.IsDir() {
		return nil, errors.E(op, dir, errors.IOFailure, errors.Str("not a directory"))
	}

	var paths []Path
	walkErr := filepath.Walk(dir, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		pp, err := New("/" + rel)
		if err != nil {
			return err
		}
		paths = append(paths, pp)
		return nil
	})
	if walkErr != nil {
		return nil, errors.E(op, dir, errors.IOFailure, walkErr)
	}
	return paths, nil
}
