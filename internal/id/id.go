package id

import (
	crand "crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
)

// Generator issues opaque, lexicographically sortable record identifiers.
// Uniqueness within a tenant collection is statistical, not coordinated.
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
}

func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(crand.Reader, 0),
	}
}

// New returns a fresh identifier stamped with the given time.
func (g *Generator) New(t time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), g.entropy).String()
}

// Module wires the identifier generator.
var Module = fx.Module("id",
	fx.Provide(NewGenerator),
)
