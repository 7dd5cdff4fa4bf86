package history

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// adjectives for anonymous session names
var adjectives = []string{
	"azure", "crimson", "emerald", "golden", "silver", "violet", "amber", "coral",
	"indigo", "jade", "scarlet", "pearl", "ruby", "cobalt", "umber", "bronze",
	"copper", "ivory", "sable", "opal", "crystal", "dusky", "frosty", "stormy",
	"shaded", "lunar", "solar", "starry", "cosmic", "mossy", "arctic", "autumn",
	"vernal", "sunny", "wintry", "misty", "silent", "swift", "brave", "clever",
	"gentle", "noble", "proud", "wild", "calm", "bold", "bright", "quiet",
}

// animals for anonymous session names
var animals = []string{
	"tiger", "falcon", "wolf", "eagle", "bear", "hawk", "lion", "panther",
	"marten", "stoat", "raven", "fox", "deer", "owl", "crane", "dolphin",
	"otter", "badger", "heron", "sparrow", "condor", "jaguar", "leopard", "lynx",
	"puma", "gecko", "newt", "plover", "tortoise", "turtle", "salmon", "trout",
	"shark", "whale", "seal", "penguin", "pelican", "ibis", "parrot", "finch",
	"magpie", "robin", "jay", "wren", "kestrel", "martin", "oriole", "thrush",
}

// NameGenerator generates anonymous session names. Safe for concurrent
// use across SSH sessions.
type NameGenerator struct {
	rng *rand.Rand
	mu  sync.Mutex
}

// NewNameGenerator creates a new name generator.
func NewNameGenerator() *NameGenerator {
	return &NameGenerator{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Generate creates a new anonymous name in the format "adjective-animal-number".
func (g *NameGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	adj := adjectives[g.rng.Intn(len(adjectives))]
	animal := animals[g.rng.Intn(len(animals))]
	num := g.rng.Intn(100)
	return fmt.Sprintf("%s-%s-%02d", adj, animal, num)
}
