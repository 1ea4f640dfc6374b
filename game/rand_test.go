package game

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockedRandDeterministic(t *testing.T) {
	a, b := NewLockedRand(42), NewLockedRand(42)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
}

func TestLockedRandConcurrentUse(t *testing.T) {
	rng := NewLockedRand(7)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				n := rng.Intn(10)
				assert.True(t, n >= 0 && n < 10)
				_ = rng.Float64()
			}
		}()
	}
	wg.Wait()
}

func TestNewEngineDefaultsToSharedRand(t *testing.T) {
	assert.Same(t, DefaultRand, NewEngine(nil).Rand())
}
