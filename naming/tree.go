// Package naming implements the naming server: the in-memory directory
// tree, the storage-server registry, and the client-facing and
// registration-facing services built on top of them.
package naming

import (
	"github.com/avneet-kaur/dfs/errors"
	dfspath "github.com/avneet-kaur/dfs/path"
	"github.com/avneet-kaur/dfs/rpc"
)

// node is one node of the naming tree. A node is either a directory,
// which has children and no owner, or a file-leaf, which has an owner
// and no children; the two are mutually exclusive.
type node struct {
	name     string
	children map[string]*node
	owner    *rpc.ServerStubs
}

func newDirNode(name string) *node {
	return &node{name: name, children: make(map[string]*node)}
}

func newFileNode(name string, owner rpc.ServerStubs) *node {
	return &node{name: name, owner: &owner}
}

func (n *node) isFile() bool { return n.owner != nil }

// walk descends from n following p's components, failing not-found at
// the first missing or non-directory component.
func walk(n *node, p dfspath.Path) (*node, error) {
	const op = errors.Op("naming.walk")
	cur := n
	it := p.Iterator()
	for {
		c, ok := it.Next()
		if !ok {
			return cur, nil
		}
		if cur.isFile() {
			return nil, errors.E(op, p.String(), errors.NotFound, errors.Str("component is a file"))
		}
		child, ok := cur.children[c]
		if !ok {
			return nil, errors.E(op, p.String(), errors.NotFound, errors.Str("no such path"))
		}
		cur = child
	}
}

// leaves collects every file-leaf node in the subtree rooted at n.
func leaves(n *node, out *[]*node) {
	if n.isFile() {
		*out = append(*out, n)
		return
	}
	for _, c := range n.children {
		leaves(c, out)
	}
}
