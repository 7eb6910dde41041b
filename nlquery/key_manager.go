package nlquery

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
)

// KeyManager handles API key rotation across the configured Gemini
// keys: GEMINI_API_KEY plus optional GEMINI_API_KEY_1..4.
type KeyManager struct {
	keys    []string
	current uint32
	mu      sync.RWMutex
}

// NewKeyManager creates a new key manager with available API keys
func NewKeyManager() *KeyManager {
	keys := make([]string, 0)

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		keys = append(keys, key)
	}
	for i := 1; i <= 4; i++ {
		key := os.Getenv(fmt.Sprintf("GEMINI_API_KEY_%d", i))
		if key != "" {
			keys = append(keys, key)
		}
	}

	return &KeyManager{
		keys:    keys,
		current: 0,
	}
}

// GetNextKey returns the next API key in rotation
func (km *KeyManager) GetNextKey() string {
	km.mu.RLock()
	defer km.mu.RUnlock()

	if len(km.keys) == 0 {
		return ""
	}

	current := atomic.AddUint32(&km.current, 1)
	index := (current - 1) % uint32(len(km.keys))

	return km.keys[index]
}

// KeyCount reports how many keys are available for rotation
func (km *KeyManager) KeyCount() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return len(km.keys)
}
