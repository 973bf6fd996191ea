package rpc

import (
	"net"

	"github.com/google/uuid"

	"github.com/avneet-kaur/dfs/errors"
	"github.com/avneet-kaur/dfs/log"
)

// Stub is a client-side proxy for one remote interface. It is the
// low-level dispatcher that typed per-interface wrappers (ClientStub,
// DataStub, CommandStub, ...) embed; it never itself implements the
// served interface, since Go has no dynamic-proxy mechanism, but it
// carries exactly the state a proxy would need: which interface, and
// which address.
//
// Equal, String, and the implicit identity a Stub carries are resolved
// entirely locally; only the typed wrapper's forwarding methods touch
// the network.
type Stub struct {
	ifaceName string
	addr      string
}

// NewStub creates a bootstrap stub pointing directly at addr.
func NewStub(ifaceName, addr string) *Stub {
	return &Stub{ifaceName: ifaceName, addr: addr}
}

// NewStubForSkeleton creates a stub bound to a Skeleton's address,
// captured after Start so a wildcard bind resolves to both a concrete
// port and a dialable loopback host (see Skeleton.Addr).
func NewStubForSkeleton(ifaceName string, sk *Skeleton) *Stub {
	return &Stub{ifaceName: ifaceName, addr: sk.Addr()}
}

// Addr returns the remote address this stub calls.
func (s *Stub) Addr() string { return s.addr }

// String returns the interface name and address, matching the
// "interface name + address" rendering the specification requires.
func (s *Stub) String() string {
	return s.ifaceName + "@" + s.addr
}

// Equal reports whether two stubs implement the same interface and
// point at the same remote address. It is resolved locally, without
// any network access.
func (s *Stub) Equal(other *Stub) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.ifaceName == other.ifaceName && s.addr == other.addr
}

// Call dials the remote address, writes a request for method with the
// given parameter-type descriptors and arguments, reads the reply, and
// returns either the decoded return value or the propagated failure.
// Any transport, marshaling, or dispatch problem is surfaced as an
// errors.RPCFailure; a failure the remote method itself raised is
// re-raised with its original Kind intact.
func (s *Stub) Call(method string, paramTypes []string, args []interface{}) (interface{}, error) {
	const op = errors.Op("rpc.Stub.Call")
	callID := uuid.New()
	log.Debug("rpc call", log.F("callID", callID), log.F("interface", s.ifaceName), log.F("method", method), log.F("addr", s.addr))

	conn, err := net.DialTimeout("tcp", s.addr, dialTimeout)
	if err != nil {
		return nil, errors.E(op, errors.RPCFailure, err)
	}
	defer conn.Close()

	req := &request{Method: method, ParamTypes: paramTypes, Args: args}
	if err := writeRequest(conn, req); err != nil {
		return nil, errors.E(op, errors.RPCFailure, err)
	}

	rep, err := readReply(conn)
	if err != nil {
		return nil, errors.E(op, errors.RPCFailure, err)
	}

	if !rep.Success {
		return nil, rep.Fail.toError()
	}
	return rep.Value, nil
}
