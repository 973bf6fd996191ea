package naming

import (
	"reflect"

	"github.com/avneet-kaur/dfs/errors"
	"github.com/avneet-kaur/dfs/rpc"
)

// ClientInterfaceName and RegisterInterfaceName identify the naming
// server's two skeletons, matching the interface-name half of the
// "interface name + address" stub identity.
const (
	ClientInterfaceName   = "naming.ClientService"
	RegisterInterfaceName = "naming.RegisterService"
)

var (
	clientIface   = reflect.TypeOf((*ClientService)(nil)).Elem()
	registerIface = reflect.TypeOf((*RegisterService)(nil)).Elem()
)

// Server is a running naming server: the service plus the two
// skeletons that expose it, on fixed well-known ports per the
// specification's external-interfaces section.
type Server struct {
	Service        *Service
	ClientSkeleton *rpc.Skeleton
	RegisterSkel   *rpc.Skeleton
}

// Start constructs an empty naming service and starts its two
// skeletons on clientAddr and registerAddr.
func Start(clientAddr, registerAddr string) (*Server, error) {
	const op = errors.Op("naming.Start")

	svc := New()

	clientSk, err := rpc.NewSkeleton(clientIface, svc, clientAddr, nil)
	if err != nil {
		return nil, errors.E(op, errors.RPCFailure, err)
	}
	if err := clientSk.Start(); err != nil {
		return nil, errors.E(op, errors.RPCFailure, err)
	}

	registerSk, err := rpc.NewSkeleton(registerIface, svc, registerAddr, nil)
	if err != nil {
		return nil, errors.E(op, errors.RPCFailure, err)
	}
	if err := registerSk.Start(); err != nil {
		clientSk.Stop()
		return nil, errors.E(op, errors.RPCFailure, err)
	}

	return &Server{Service: svc, ClientSkeleton: clientSk, RegisterSkel: registerSk}, nil
}

// Stop stops both of the server's skeletons.
func (s *Server) Stop() {
	s.ClientSkeleton.Stop()
	s.RegisterSkel.Stop()
}
