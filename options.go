package bstree

import (
	crand "crypto/rand"
	"math/rand/v2"
)

// Config holds the settings common to all tree variants.
// Clients do not create a Config directly but pass Options to a constructor.
type Config struct {
	InitialCapacity int         // number of node slots to pre-allocate
	MaxNodes        int         // upper limit for the number of nodes, 0 = unlimited
	Source          rand.Source // random source for randomized variants
}

// Option is a type to help initializing trees at creation time.
type Option func(*Config)

// Configure applies a list of options to a fresh Config.
func Configure(opts ...Option) Config {
	var c Config
	for _, option := range opts {
		if option != nil {
			option(&c)
		}
	}
	return c
}

// InitialCapacity is an option to pre-allocate storage for n nodes.
//
//	m := avl.New[int, string](bstree.InitialCapacity(1024))
func InitialCapacity(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.InitialCapacity = n
		}
	}
}

// MaxNodes is an option to limit the number of nodes a tree may hold.
// Insertions beyond the limit fail with ErrOutOfMemory.
func MaxNodes(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxNodes = n
		}
	}
}

// RandomSource is an option to set the random source of randomized trees.
// It is ignored by deterministic variants.
func RandomSource(src rand.Source) Option {
	return func(c *Config) {
		c.Source = src
	}
}

// Seed is an option to make randomized trees reproducible. It is a shortcut
// for RandomSource with a PCG generator seeded with seed.
//
//	m := treap.New[int, string](bstree.Seed(42))
func Seed(seed uint64) Option {
	return func(c *Config) {
		c.Source = rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	}
}

// RandSource returns the configured random source. If none has been
// configured, it creates a ChaCha8 generator seeded from the operating
// system's entropy source.
func (c Config) RandSource() rand.Source {
	if c.Source != nil {
		return c.Source
	}
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		tracer().Errorf("cannot read entropy for random seed: %v", err)
	}
	return rand.NewChaCha8(seed)
}
