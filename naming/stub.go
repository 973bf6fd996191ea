package naming

import (
	"github.com/avneet-kaur/dfs/rpc"
)

// ClientStub is a typed client-side proxy for the naming server's
// client-facing ClientService.
type ClientStub struct {
	*rpc.Stub
}

var _ ClientService = (*ClientStub)(nil)

// NewClientStub returns a stub for the naming server's client-facing
// service at addr.
func NewClientStub(addr string) *ClientStub {
	return &ClientStub{Stub: rpc.NewStub(ClientInterfaceName, addr)}
}

func (c *ClientStub) IsDirectory(path string) (bool, error) {
	v, err := c.Call("IsDirectory", []string{"string"}, []interface{}{path})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (c *ClientStub) List(path string) ([]string, error) {
	v, err := c.Call("List", []string{"string"}, []interface{}{path})
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return v.([]string), nil
}

func (c *ClientStub) CreateFile(path string) (bool, error) {
	v, err := c.Call("CreateFile", []string{"string"}, []interface{}{path})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (c *ClientStub) CreateDirectory(path string) (bool, error) {
	v, err := c.Call("CreateDirectory", []string{"string"}, []interface{}{path})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (c *ClientStub) Delete(path string) (bool, error) {
	v, err := c.Call("Delete", []string{"string"}, []interface{}{path})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (c *ClientStub) GetStorage(path string) (rpc.ServerStubs, error) {
	v, err := c.Call("GetStorage", []string{"string"}, []interface{}{path})
	if err != nil {
		return rpc.ServerStubs{}, err
	}
	return v.(rpc.ServerStubs), nil
}
