package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetFloat64Slice(t *testing.T) {
	s, cleanup := GetFloat64Slice(3)
	require.Len(t, s, 3)
	s[0], s[1], s[2] = 1, 2, 3
	cleanup()

	big, cleanup := GetFloat64Slice(1000)
	defer cleanup()
	require.Len(t, big, 1000)
}

func TestGetIntSlice(t *testing.T) {
	s, cleanup := GetIntSlice(5)
	defer cleanup()
	require.Len(t, s, 5)

	empty, cleanupEmpty := GetIntSlice(0)
	defer cleanupEmpty()
	require.Empty(t, empty)
}

func TestGetFloat64Slice_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(v float64) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s, cleanup := GetFloat64Slice(4)
				for j := range s {
					s[j] = v
				}
				for j := range s {
					if s[j] != v {
						t.Errorf("slice shared across goroutines")
					}
				}
				cleanup()
			}
		}(float64(g))
	}
	wg.Wait()
}
