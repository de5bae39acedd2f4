//go:build debug_refcount

package refcount

import "sync"

var (
	mu     sync.Mutex
	counts = map[string]int64{}
)

func Inc(kind string) {
	mu.Lock()
	defer mu.Unlock()
	counts[kind]++
}

func Dec(kind string) {
	mu.Lock()
	defer mu.Unlock()
	counts[kind]--
}

func Counts() map[string]int64 {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]int64, len(counts))
	for k, v := range counts {
		out[k] = v
	}
	return out
}
