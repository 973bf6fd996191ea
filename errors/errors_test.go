package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEBuildsClassifiedError(t *testing.T) {
	err := E(Op("storage.Read"), NotFound, "/a/b.txt")
	assert.Equal(t, NotFound, KindOf(err))
	assert.Equal(t, "storage.Read: /a/b.txt: not found", err.Error())
}

func TestECascadesUnderlyingError(t *testing.T) {
	inner := E(Op("path.New"), IllegalArgument, Str("empty component"))
	outer := E(Op("naming.CreateFile"), NotFound, inner)
	assert.Equal(t, NotFound, KindOf(outer))
	assert.Contains(t, outer.Error(), "path.New")
}

func TestKindOfNonErrorsError(t *testing.T) {
	assert.Equal(t, Other, KindOf(Str("plain")))
	assert.Equal(t, Other, KindOf(nil))
}

func TestMatch(t *testing.T) {
	tmpl := E(NotFound)
	err := E(Op("naming.Delete"), NotFound, "/x")
	assert.True(t, Match(tmpl, err))
	assert.False(t, Match(E(IOFailure), err))
}
