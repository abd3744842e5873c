package characters

import (
	"hash/fnv"
	"sync"
)

// seedSpace bounds generation seeds so they stay friendly to downstream
// image tooling.
const seedSpace = 1_000_000

// Character is one tracked person with a stable generation seed.
type Character struct {
	Name        string `json:"name"`
	Seed        int    `json:"seed"`
	Appearances int    `json:"appearances"`
	FirstScene  int    `json:"first_scene"`
}

// Registry accumulates characters across scenes. It is safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	order []string
	chars map[string]*Character
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{chars: make(map[string]*Character)}
}

// Observe records that names appeared in the scene at sceneIndex.
func (r *Registry) Observe(sceneIndex int, names []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range names {
		if name == "" {
			continue
		}
		char, ok := r.chars[name]
		if !ok {
			char = &Character{
				Name:       name,
				Seed:       Seed(name),
				FirstScene: sceneIndex,
			}
			r.chars[name] = char
			r.order = append(r.order, name)
		}
		char.Appearances++
	}
}

// Characters returns the tracked characters in first-seen order.
func (r *Registry) Characters() []Character {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Character, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.chars[name])
	}
	return out
}

// Len returns the number of tracked characters.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Seed derives a stable generation seed from a character name, so the
// same character renders consistently across runs.
func Seed(name string) int {
	h := fnv.New32a()
	h.Write([]byte(name))
	return int(h.Sum32() % seedSpace)
}
