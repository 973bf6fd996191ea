package rpc

import (
	"context"
	"net"
	"reflect"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/avneet-kaur/dfs/errors"
	"github.com/avneet-kaur/dfs/log"
)

// state is the Skeleton's lifecycle state machine:
// Unstarted -> Running -> Stopping -> Stopped.
type state int

const (
	unstarted state = iota
	running
	stopping
	stopped
)

// StoppedHook is invoked exactly once, after the accept loop has
// exited and every in-flight worker has finished, with the error that
// caused the listener to stop (nil for a clean Stop).
type StoppedHook func(cause error)

// Skeleton is the server-side endpoint for one interface: it binds a
// listener, accepts connections, and dispatches each request to a
// method on the target object by name and parameter types.
type Skeleton struct {
	ifaceName string
	ifaceType reflect.Type
	target    reflect.Value
	methods   map[string]reflect.Method

	mu        sync.Mutex
	st        state
	listener  net.Listener
	addr      string
	boundAddr string

	sem     *semaphore.Weighted
	wg      sync.WaitGroup
	stopped StoppedHook
}

// defaultWorkerWeight bounds how many dispatched method bodies may run
// concurrently for one Skeleton; it is the "bounded worker pool"
// refinement the design notes call out as valid so long as it does not
// change the ordering guarantees between independent connections.
const defaultWorkerWeight = 256

// NewSkeleton constructs a Skeleton that serves iface (an interface
// type, e.g. reflect.TypeOf((*MyService)(nil)).Elem()) by dispatching
// to target, which must implement iface. addr is the address to listen
// on; an empty addr means the OS chooses a free port at Start.
//
// Construction fails if any method of iface does not declare an error
// as its final return value — the equivalent, in a systems language,
// of requiring every method to declare the RPC-failure kind in its
// failure signature.
func NewSkeleton(iface reflect.Type, target interface{}, addr string, stoppedHook StoppedHook) (*Skeleton, error) {
	const op = errors.Op("rpc.NewSkeleton")
	if iface.Kind() != reflect.Interface {
		return nil, errors.E(op, errors.IllegalArgument, errors.Str("iface must be an interface type"))
	}
	tv := reflect.ValueOf(target)
	if !tv.Type().Implements(iface) {
		return nil, errors.E(op, errors.IllegalArgument, errors.Str("target does not implement iface"))
	}

	methods := make(map[string]reflect.Method, iface.NumMethod())
	for i := 0; i < iface.NumMethod(); i++ {
		m := iface.Method(i)
		if m.Type.NumOut() == 0 || m.Type.Out(m.Type.NumOut()-1) != reflect.TypeOf((*error)(nil)).Elem() {
			return nil, errors.E(op, errors.IllegalArgument, errors.Str("method "+m.Name+" does not declare an error return"))
		}
		// Look up the corresponding method on target's concrete type
		// so dispatch invokes the real receiver, not the interface.
		tm, ok := tv.Type().MethodByName(m.Name)
		if !ok {
			return nil, errors.E(op, errors.IllegalArgument, errors.Str("target missing method "+m.Name))
		}
		methods[m.Name] = tm
	}

	return &Skeleton{
		ifaceName: iface.String(),
		ifaceType: iface,
		target:    tv,
		methods:   methods,
		addr:      addr,
		sem:       semaphore.NewWeighted(defaultWorkerWeight),
		stopped:   stoppedHook,
	}, nil
}

// Start binds the listener and begins accepting connections in a
// background goroutine. It fails if the Skeleton is already running or
// has ever been stopped: start is idempotent-forbidden.
func (s *Skeleton) Start() error {
	const op = errors.Op("rpc.Skeleton.Start")
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st != unstarted {
		return errors.E(op, errors.RPCFailure, errors.Str("skeleton already started"))
	}
	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.E(op, errors.RPCFailure, err)
	}
	s.listener = l
	s.boundAddr = localize(l.Addr().String())
	s.st = running
	go s.acceptLoop()
	log.Info("skeleton started", log.F("interface", s.ifaceName), log.F("addr", s.boundAddr))
	return nil
}

// Addr returns the bound address. It is only meaningful after Start
// has returned successfully. A wildcard bind (e.g. listening on ":0")
// is resolved to a dialable loopback address, per spec.md §4.C: a
// stub built from this address must be able to reach the skeleton
// from the same host.
func (s *Skeleton) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boundAddr
}

// localize rewrites addr's host component to the loopback address
// when it names an unspecified (wildcard) bind, such as "[::]:PORT" or
// "0.0.0.0:PORT" from listening on ":0" or "". A host that was already
// specific, such as "127.0.0.1:PORT", passes through unchanged.
func localize(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	ip := net.ParseIP(host)
	if ip != nil && ip.IsUnspecified() {
		return net.JoinHostPort("127.0.0.1", port)
	}
	return addr
}

// Stop closes the listener, which forces the accept loop to exit.
// In-flight worker goroutines are allowed to run to completion; Stop
// does not cancel them.
func (s *Skeleton) Stop() error {
	const op = errors.Op("rpc.Skeleton.Stop")
	s.mu.Lock()
	if s.st != running {
		s.mu.Unlock()
		return errors.E(op, errors.RPCFailure, errors.Str("skeleton not running"))
	}
	s.st = stopping
	l := s.listener
	s.mu.Unlock()
	return l.Close()
}

func (s *Skeleton) acceptLoop() {
	var cause error
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			cause = err
			break
		}
		s.wg.Add(1)
		go s.serve(conn)
	}
	s.wg.Wait()

	s.mu.Lock()
	s.st = stopped
	s.mu.Unlock()

	if isExpectedCloseError(cause) {
		cause = nil
	}
	log.Info("skeleton stopped", log.F("interface", s.ifaceName), log.F("addr", s.boundAddr))
	if s.stopped != nil {
		s.stopped(cause)
	}
}

func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	// A listener closed by Stop reports "use of closed network
	// connection" (wrapped in a *net.OpError) from Accept; that is the
	// expected shutdown path, not a failure.
	return strings.Contains(err.Error(), "use of closed network connection")
}

func (s *Skeleton) serve(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	if err := s.sem.Acquire(context.Background(), 1); err != nil {
		return
	}
	defer s.sem.Release(1)

	req, err := readRequest(conn)
	if err != nil {
		log.Error("skeleton read failed", log.F("interface", s.ifaceName), log.F("err", err))
		_ = writeReply(conn, &reply{Success: false, Fail: toWireError(errors.E(errors.Op("rpc.Skeleton.serve"), errors.RPCFailure, err))})
		return
	}

	rep := s.dispatch(req)
	if err := writeReply(conn, rep); err != nil {
		log.Error("skeleton write failed", log.F("interface", s.ifaceName), log.F("method", req.Method), log.F("err", err))
	}
}

func (s *Skeleton) dispatch(req *request) *reply {
	const op = errors.Op("rpc.Skeleton.dispatch")

	m, ok := s.methods[req.Method]
	if !ok {
		return &reply{Fail: toWireError(errors.E(op, errors.RPCFailure, errors.Str("unknown method "+req.Method)))}
	}
	// m.Type includes the receiver as In(0).
	wantIn := m.Type.NumIn() - 1
	if len(req.Args) != wantIn {
		return &reply{Fail: toWireError(errors.E(op, errors.RPCFailure, errors.Str("argument count mismatch for "+req.Method)))}
	}

	in := make([]reflect.Value, m.Type.NumIn())
	in[0] = s.target
	for i := 0; i < wantIn; i++ {
		want := m.Type.In(i + 1)
		arg := req.Args[i]
		if arg == nil {
			in[i+1] = reflect.Zero(want)
			continue
		}
		av := reflect.ValueOf(arg)
		if !av.Type().AssignableTo(want) {
			return &reply{Fail: toWireError(errors.E(op, errors.RPCFailure, errors.Str("argument type mismatch for "+req.Method)))}
		}
		in[i+1] = av
	}

	out := m.Func.Call(in)
	errOut := out[len(out)-1]
	if !errOut.IsNil() {
		userErr := errOut.Interface().(error)
		return &reply{Success: false, Fail: toWireError(userErr)}
	}
	var value interface{}
	if len(out) > 1 {
		value = out[0].Interface()
	}
	return &reply{Success: true, Value: value}
}
