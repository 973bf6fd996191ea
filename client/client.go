// Package client is a thin end-to-end library over the naming and
// storage stubs: it resolves a path to its owning storage server once
// per call and forwards the operation, so a caller never has to work
// with naming.ClientStub and storage.DataStub/CommandStub directly.
//
// The specification treats the client as an external collaborator
// whose interface is named but not designed; this package exists only
// so the system is exercisable end-to-end, and is deliberately minimal.
package client

import (
	"github.com/avneet-kaur/dfs/errors"
	"github.com/avneet-kaur/dfs/naming"
	"github.com/avneet-kaur/dfs/storage"
)

// Client is bound to one naming server for its lifetime.
type Client struct {
	naming *naming.ClientStub
}

// New returns a client that resolves paths against the naming server
// at namingAddr.
func New(namingAddr string) *Client {
	return &Client{naming: naming.NewClientStub(namingAddr)}
}

// IsDirectory reports whether path names a directory.
func (c *Client) IsDirectory(path string) (bool, error) {
	return c.naming.IsDirectory(path)
}

// List returns the child names of the directory at path.
func (c *Client) List(path string) ([]string, error) {
	return c.naming.List(path)
}

// CreateFile creates an empty file at path.
func (c *Client) CreateFile(path string) (bool, error) {
	return c.naming.CreateFile(path)
}

// CreateDirectory creates an empty directory at path.
func (c *Client) CreateDirectory(path string) (bool, error) {
	return c.naming.CreateDirectory(path)
}

// Delete removes the file or directory subtree at path.
func (c *Client) Delete(path string) (bool, error) {
	return c.naming.Delete(path)
}

// Size returns the size in bytes of the file at path.
func (c *Client) Size(path string) (int64, error) {
	const op = errors.Op("client.Size")
	owner, err := c.naming.GetStorage(path)
	if err != nil {
		return 0, errors.E(op, err)
	}
	sz, err := storage.NewDataStub(owner.DataAddr).Size(path)
	if err != nil {
		return 0, errors.E(op, err)
	}
	return sz, nil
}

// Read returns exactly length bytes starting at offset from the file
// at path.
func (c *Client) Read(path string, offset, length int64) ([]byte, error) {
	const op = errors.Op("client.Read")
	owner, err := c.naming.GetStorage(path)
	if err != nil {
		return nil, errors.E(op, err)
	}
	data, err := storage.NewDataStub(owner.DataAddr).Read(path, offset, length)
	if err != nil {
		return nil, errors.E(op, err)
	}
	return data, nil
}

// Write writes data starting at offset into the file at path.
func (c *Client) Write(path string, offset int64, data []byte) error {
	const op = errors.Op("client.Write")
	owner, err := c.naming.GetStorage(path)
	if err != nil {
		return errors.E(op, err)
	}
	if err := storage.NewDataStub(owner.DataAddr).Write(path, offset, data); err != nil {
		return errors.E(op, err)
	}
	return nil
}
