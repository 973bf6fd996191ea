// Package rpc implements the remote-invocation runtime that turns a
// plain Go interface into a network-callable endpoint: a server-side
// Skeleton (listener + worker pool + method dispatcher) and a
// client-side Stub (a typed proxy whose method calls become network
// requests), connected by a length-framed, gob-encoded wire protocol.
//
// A connection carries exactly one request and one reply and is then
// closed; there is no persistent session state between calls.
package rpc

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"io"
	"net"
	"time"

	"github.com/avneet-kaur/dfs/errors"
)

func init() {
	// Concrete types that travel inside the interface{} slots of a
	// request's Args or a reply's Value must be registered with gob
	// so the decoder can recover their dynamic type on the wire.
	gob.Register("")
	gob.Register(int64(0))
	gob.Register(false)
	gob.Register([]byte(nil))
	gob.Register([]string(nil))
	gob.Register(ServerStubs{})
}

// ServerStubs is the wire-safe identity of one registered storage
// server: the pair of addresses for its client-facing data service and
// its naming-facing command service. Two ServerStubs values are
// structurally equal, by Go's native struct equality, iff both
// addresses match.
type ServerStubs struct {
	DataAddr    string
	CommandAddr string
}

// request is the wire record a client writes: method name, a
// descriptor for each parameter's static type, and the arguments
// themselves, in order.
type request struct {
	Method     string
	ParamTypes []string
	Args       []interface{}
}

// wireError is the flattened, gob-safe representation of an
// *errors.Error. gob cannot carry an arbitrary wrapped error interior
// value across a process boundary (the decoding side has no type
// registered for whatever error.Err held), so the wrapped cause is
// collapsed to its message string before it is put on the wire.
type wireError struct {
	Op   string
	Path string
	Kind uint8
	Msg  string
}

func toWireError(err error) *wireError {
	if err == nil {
		return nil
	}
	e, ok := err.(*errors.Error)
	if !ok {
		return &wireError{Msg: err.Error()}
	}
	w := &wireError{
		Op:   string(e.Op),
		Path: e.Path,
		Kind: uint8(errors.KindOf(e)),
	}
	if e.Err != nil {
		w.Msg = e.Err.Error()
	}
	return w
}

func (w *wireError) toError() error {
	if w == nil {
		return nil
	}
	var cause error
	if w.Msg != "" {
		cause = errors.Str(w.Msg)
	}
	args := []interface{}{errors.Op(w.Op), errors.Kind(w.Kind)}
	if w.Path != "" {
		args = append(args, w.Path)
	}
	if cause != nil {
		args = append(args, cause)
	}
	return errors.E(args...)
}

// reply is the wire record a server writes: whether the call
// succeeded, and either the return value or the failure.
type reply struct {
	Success bool
	Value   interface{}
	Fail    *wireError
}

// maxFrameBytes bounds how large a single framed record may be, so a
// corrupt or hostile length prefix cannot force an unbounded
// allocation.
const maxFrameBytes = 64 << 20 // 64 MiB

// writeFrame writes a 4-byte big-endian length prefix followed by
// payload to conn.
func writeFrame(conn net.Conn, payload []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := conn.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := conn.Write(payload)
	return err
}

// readFrame reads a 4-byte big-endian length prefix and then exactly
// that many bytes from conn.
func readFrame(conn net.Conn) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(conn, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > maxFrameBytes {
		return nil, errors.E(errors.Op("rpc.readFrame"), errors.RPCFailure, errors.Str("frame too large"))
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(conn, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func writeRequest(conn net.Conn, req *request) error {
	return gobEncodeFrame(conn, req)
}

func readRequest(conn net.Conn) (*request, error) {
	var req request
	if err := gobDecodeFrame(conn, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func writeReply(conn net.Conn, rep *reply) error {
	return gobEncodeFrame(conn, rep)
}

func readReply(conn net.Conn) (*reply, error) {
	var rep reply
	if err := gobDecodeFrame(conn, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

func gobEncodeFrame(conn net.Conn, v interface{}) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return err
	}
	return writeFrame(conn, buf.Bytes())
}

func gobDecodeFrame(conn net.Conn, v interface{}) error {
	payload, err := readFrame(conn)
	if err != nil {
		return err
	}
	return gob.NewDecoder(bytes.NewReader(payload)).Decode(v)
}

// dialTimeout bounds how long a stub waits to establish the TCP
// connection for one call.
const dialTimeout = 10 * time.Second
