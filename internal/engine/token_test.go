package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDv7Generator(t *testing.T) {
	var g UUIDv7Generator
	a, b := g.Generate(), g.Generate()

	assert.NotEqual(t, a, b)
	u, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), u.Version())
}

func TestFixedGenerator(t *testing.T) {
	g := NewFixedGenerator("p1", "p2")

	assert.Equal(t, "p1", g.Generate())
	assert.Equal(t, "p2", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}

func TestSequentialGenerator(t *testing.T) {
	g := &SequentialGenerator{Prefix: "pass"}

	assert.Equal(t, "pass-1", g.Generate())
	assert.Equal(t, "pass-2", g.Generate())
}
