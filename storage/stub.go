package storage

import (
	"github.com/avneet-kaur/dfs/rpc"
)

// DataInterfaceName is the interface name a DataStub and the skeleton
// serving Local's DataService agree to identify themselves by, used in
// Stub.String and Stub.Equal.
const DataInterfaceName = "storage.DataService"

// CommandInterfaceName is the analogous name for CommandService.
const CommandInterfaceName = "storage.CommandService"

// DataStub is a typed client-side proxy for a storage server's
// client-facing DataService.
type DataStub struct {
	*rpc.Stub
}

var _ DataService = (*DataStub)(nil)

// NewDataStub returns a stub for the data service at addr.
func NewDataStub(addr string) *DataStub {
	return &DataStub{Stub: rpc.NewStub(DataInterfaceName, addr)}
}

func (d *DataStub) Size(p string) (int64, error) {
	v, err := d.Call("Size", []string{"string"}, []interface{}{p})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

func (d *DataStub) Read(p string, offset, length int64) ([]byte, error) {
	v, err := d.Call("Read", []string{"string", "int64", "int64"}, []interface{}{p, offset, length})
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return v.([]byte), nil
}

func (d *DataStub) Write(p string, offset int64, data []byte) error {
	_, err := d.Call("Write", []string{"string", "int64", "[]byte"}, []interface{}{p, offset, data})
	return err
}

// CommandStub is a typed client-side proxy for a storage server's
// naming-facing CommandService.
type CommandStub struct {
	*rpc.Stub
}

var _ CommandService = (*CommandStub)(nil)

// NewCommandStub returns a stub for the command service at addr.
func NewCommandStub(addr string) *CommandStub {
	return &CommandStub{Stub: rpc.NewStub(CommandInterfaceName, addr)}
}

func (c *CommandStub) Create(p string) (bool, error) {
	v, err := c.Call("Create", []string{"string"}, []interface{}{p})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (c *CommandStub) Delete(p string) (bool, error) {
	v, err := c.Call("Delete", []string{"string"}, []interface{}{p})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}
