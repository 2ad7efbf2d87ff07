package engine

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// PassTokenGenerator produces the unique token identifying a pass.
type PassTokenGenerator interface {
	Generate() string
}

// UUIDv7Generator produces time-sortable UUIDv7 tokens. It is stateless
// and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7.
// Panics if the system random source fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator replays a fixed list of tokens, for tests and golden
// output. Safe for concurrent use.
type FixedGenerator struct {
	mu     sync.Mutex
	tokens []string
	next   int
}

// NewFixedGenerator returns a generator yielding tokens in order.
func NewFixedGenerator(tokens ...string) *FixedGenerator {
	return &FixedGenerator{tokens: tokens}
}

// Generate returns the next token. Panics once the list is used up: a test
// that evaluates more passes than it planned for is misconfigured.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.next >= len(g.tokens) {
		panic(fmt.Sprintf("FixedGenerator: all %d tokens used", len(g.tokens)))
	}
	t := g.tokens[g.next]
	g.next++
	return t
}

// SequentialGenerator yields "<prefix>-1", "<prefix>-2", and so on.
// Used by scenario runs that evaluate an unknown number of passes.
type SequentialGenerator struct {
	Prefix string

	mu sync.Mutex
	n  int
}

// Generate returns the next numbered token.
func (g *SequentialGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.Prefix, g.n)
}
