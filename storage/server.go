package storage

import (
	"net"
	"reflect"

	"github.com/avneet-kaur/dfs/errors"
	"github.com/avneet-kaur/dfs/log"
	dfspath "github.com/avneet-kaur/dfs/path"
	"github.com/avneet-kaur/dfs/rpc"
	"github.com/google/uuid"
)

// registerClient is the naming-facing client used only during the
// startup handshake below. It is declared here, rather than depending
// on the naming package's exported type, because the call is dispatched
// by method name over the wire exactly like any other remote call —
// the two sides agree on a name and a wire shape, not a shared Go type.
type registerClient struct {
	*rpc.Stub
}

func (r *registerClient) Register(s rpc.ServerStubs, files []string) ([]string, error) {
	v, err := r.Call("Register", []string{"rpc.ServerStubs", "[]string"}, []interface{}{s, files})
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return v.([]string), nil
}

// Server is a running storage server: its local adapter plus the two
// skeletons that expose it.
type Server struct {
	Local        *Local
	DataSkeleton *rpc.Skeleton
	CmdSkeleton  *rpc.Skeleton
	DataAddr     string
	CommandAddr  string
}

var dataIface = reflect.TypeOf((*DataService)(nil)).Elem()
var cmdIface = reflect.TypeOf((*CommandService)(nil)).Elem()

// Start performs the storage server's startup protocol: verify root is
// a directory, start both skeletons, register the local file listing
// with the naming server, delete any paths the naming server reports
// as duplicates, then prune directories left empty by those deletes.
//
// host is the externally visible hostname this server is reachable at;
// dataAddr and commandAddr are the local bind addresses for the two
// skeletons (empty means OS-assigned port); registerAddr is the naming
// server's registration endpoint.
func Start(root, host, dataAddr, commandAddr, registerAddr string) (*Server, error) {
	const op = errors.Op("storage.Start")

	local, err := NewLocal(root)
	if err != nil {
		return nil, errors.E(op, err)
	}

	dataSk, err := rpc.NewSkeleton(dataIface, local, dataAddr, nil)
	if err != nil {
		return nil, errors.E(op, errors.RPCFailure, err)
	}
	if err := dataSk.Start(); err != nil {
		return nil, errors.E(op, errors.RPCFailure, err)
	}

	cmdSk, err := rpc.NewSkeleton(cmdIface, local, commandAddr, nil)
	if err != nil {
		return nil, errors.E(op, errors.RPCFailure, err)
	}
	if err := cmdSk.Start(); err != nil {
		dataSk.Stop()
		return nil, errors.E(op, errors.RPCFailure, err)
	}

	s := &Server{
		Local:        local,
		DataSkeleton: dataSk,
		CmdSkeleton:  cmdSk,
		DataAddr:     net.JoinHostPort(host, port(dataSk.Addr())),
		CommandAddr:  net.JoinHostPort(host, port(cmdSk.Addr())),
	}

	if err := s.register(registerAddr); err != nil {
		return nil, errors.E(op, err)
	}
	return s, nil
}

func port(addr string) string {
	_, p, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return p
}

func (s *Server) register(registerAddr string) error {
	const op = errors.Op("storage.Server.register")

	files, err := dfspath.List(s.Local.Root())
	if err != nil {
		return errors.E(op, err)
	}
	strs := make([]string, len(files))
	for i, f := range files {
		strs[i] = f.String()
	}

	reg := &registerClient{Stub: rpc.NewStub("naming.RegisterService", registerAddr)}
	regID := uuid.New()
	dup, err := reg.Register(rpc.ServerStubs{DataAddr: s.DataAddr, CommandAddr: s.CommandAddr}, strs)
	if err != nil {
		return errors.E(op, errors.RPCFailure, err)
	}
	log.Info("registered with naming server", log.F("registrationID", regID), log.F("files", len(strs)), log.F("duplicates", len(dup)))

	for _, d := range dup {
		if _, err := s.Local.Delete(d); err != nil {
			log.Error("failed to delete duplicate after registration", log.F("path", d), log.F("err", err))
		}
	}
	return nil
}

// Stop stops both of the server's skeletons.
func (s *Server) Stop() {
	s.DataSkeleton.Stop()
	s.CmdSkeleton.Stop()
}
