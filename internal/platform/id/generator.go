package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator produces "<prefix>_<unix-seconds hex><random hex>" so IDs sort
// roughly by creation time.
type RandomGenerator struct {
	prefix string
	now    func() time.Time
}

func NewRandomGenerator(prefix string) *RandomGenerator {
	return &RandomGenerator{prefix: strings.TrimSuffix(strings.TrimSpace(prefix), "_"), now: time.Now}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	body := fmt.Sprintf("%08x%s", uint32(g.now().Unix()), hex.EncodeToString(buf))
	if g.prefix == "" {
		return body, nil
	}
	return g.prefix + "_" + body, nil
}
