package rpc

import (
	"net"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avneet-kaur/dfs/errors"
)

type Greeter interface {
	Greet(name string) (string, error)
	Fail() error
}

type greeterImpl struct{}

func (greeterImpl) Greet(name string) (string, error) { return "hello " + name, nil }
func (greeterImpl) Fail() error {
	return errors.E(errors.Op("greeterImpl.Fail"), errors.IllegalState, errors.Str("boom"))
}

type greeterStub struct{ *Stub }

func (g *greeterStub) Greet(name string) (string, error) {
	v, err := g.Call("Greet", []string{"string"}, []interface{}{name})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (g *greeterStub) Fail() error {
	_, err := g.Call("Fail", nil, nil)
	return err
}

var greeterIface = reflect.TypeOf((*Greeter)(nil)).Elem()

func startGreeter(t *testing.T, hook StoppedHook) *Skeleton {
	t.Helper()
	sk, err := NewSkeleton(greeterIface, greeterImpl{}, "127.0.0.1:0", hook)
	require.NoError(t, err)
	require.NoError(t, sk.Start())
	return sk
}

func TestCallRoundTrip(t *testing.T) {
	sk := startGreeter(t, nil)
	defer sk.Stop()

	stub := &greeterStub{Stub: NewStubForSkeleton(greeterIface.String(), sk)}
	got, err := stub.Greet("world")
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
}

func TestCallPropagatesUserFailure(t *testing.T) {
	sk := startGreeter(t, nil)
	defer sk.Stop()

	stub := &greeterStub{Stub: NewStubForSkeleton(greeterIface.String(), sk)}
	err := stub.Fail()
	require.Error(t, err)
	assert.Equal(t, errors.IllegalState, errors.KindOf(err))
}

func TestStartTwiceFails(t *testing.T) {
	sk, err := NewSkeleton(greeterIface, greeterImpl{}, "127.0.0.1:0", nil)
	require.NoError(t, err)
	require.NoError(t, sk.Start())
	defer sk.Stop()

	err = sk.Start()
	assert.Equal(t, errors.RPCFailure, errors.KindOf(err))
}

func TestStopTwiceFails(t *testing.T) {
	sk := startGreeter(t, nil)
	require.NoError(t, sk.Stop())
	err := sk.Stop()
	assert.Equal(t, errors.RPCFailure, errors.KindOf(err))
}

func TestStoppedHookFiresExactlyOnceAndStubFailsAfter(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	done := make(chan struct{})
	hook := func(cause error) {
		mu.Lock()
		calls++
		mu.Unlock()
		close(done)
	}

	sk := startGreeter(t, hook)
	addr := sk.Addr()
	require.NoError(t, sk.Stop())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stopped hook never fired")
	}

	mu.Lock()
	assert.Equal(t, 1, calls)
	mu.Unlock()

	stub := &greeterStub{Stub: NewStub(greeterIface.String(), addr)}
	_, err := stub.Greet("anyone")
	require.Error(t, err)
	assert.Equal(t, errors.RPCFailure, errors.KindOf(err))
}

func TestSkeletonAddrResolvesWildcardBindToLoopback(t *testing.T) {
	sk, err := NewSkeleton(greeterIface, greeterImpl{}, "", nil)
	require.NoError(t, err)
	require.NoError(t, sk.Start())
	defer sk.Stop()

	host, _, err := net.SplitHostPort(sk.Addr())
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", host)

	stub := &greeterStub{Stub: NewStubForSkeleton(greeterIface.String(), sk)}
	got, err := stub.Greet("world")
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
}

func TestLocalizeLeavesSpecificHostAlone(t *testing.T) {
	assert.Equal(t, "127.0.0.1:9", localize("127.0.0.1:9"))
}

func TestLocalizeRewritesWildcardHosts(t *testing.T) {
	assert.Equal(t, "127.0.0.1:9", localize("[::]:9"))
	assert.Equal(t, "127.0.0.1:9", localize("0.0.0.0:9"))
}

func TestStubEqualAndString(t *testing.T) {
	a := NewStub("Greeter", "127.0.0.1:9")
	b := NewStub("Greeter", "127.0.0.1:9")
	c := NewStub("Greeter", "127.0.0.1:10")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.Equal(t, "Greeter@127.0.0.1:9", a.String())
}

func TestWireErrorRoundTrip(t *testing.T) {
	orig := errors.E(errors.Op("pkg.Method"), "/a/b", errors.NotFound, errors.Str("missing"))
	w := toWireError(orig)
	back := w.toError()
	assert.Equal(t, errors.NotFound, errors.KindOf(back))
	assert.Contains(t, back.Error(), "missing")
}
