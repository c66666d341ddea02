package types

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPartition_ID(t *testing.T) {
	require.Equal(t, "0:0:0", Partition{}.ID())
	require.Equal(t, "1:3:-7", Partition{Instance: 1, X: 3, Z: -7}.ID())
	require.Equal(t, "-2:-1:5", Partition{Instance: -2, X: -1, Z: 5}.ID())
}

func TestPartition_Hash64(t *testing.T) {
	p := Partition{Instance: 1, X: 10, Z: -4}

	t.Run("deterministic", func(t *testing.T) {
		require.Equal(t, p.Hash64(0), p.Hash64(0))
		require.Equal(t, p.Hash64(42), p.Hash64(42))
	})

	t.Run("seed changes the hash", func(t *testing.T) {
		require.NotEqual(t, p.Hash64(0), p.Hash64(1))
	})

	t.Run("distinct keys hash differently", func(t *testing.T) {
		require.NotEqual(t, p.Hash64(0), Partition{Instance: 1, X: 10, Z: -3}.Hash64(0))
		require.NotEqual(t, p.Hash64(0), Partition{Instance: 2, X: 10, Z: -4}.Hash64(0))
		require.NotEqual(t, p.Hash64(0), Partition{Instance: 1, X: 11, Z: -4}.Hash64(0))
	})
}

func TestPartition_Compare(t *testing.T) {
	a := Partition{Instance: 0, X: 0, Z: 0}
	b := Partition{Instance: 0, X: 0, Z: 1}
	c := Partition{Instance: 0, X: 1, Z: 0}
	d := Partition{Instance: 1, X: -5, Z: -5}

	require.Equal(t, 0, a.Compare(a))
	require.Equal(t, -1, a.Compare(b))
	require.Equal(t, 1, b.Compare(a))
	require.Equal(t, -1, b.Compare(c))
	require.Equal(t, -1, c.Compare(d))

	t.Run("sorts instance-major", func(t *testing.T) {
		ps := []Partition{d, c, b, a}
		sort.Slice(ps, func(i, j int) bool { return ps[i].Compare(ps[j]) < 0 })
		require.Equal(t, []Partition{a, b, c, d}, ps)
	})
}

func TestPartition_MapKey(t *testing.T) {
	// Partitions are value keys: two values with the same coordinates are
	// the same map entry.
	m := map[Partition]int{}
	m[Partition{Instance: 1, X: 2, Z: 3}] = 1
	m[Partition{Instance: 1, X: 2, Z: 3}] = 2

	require.Len(t, m, 1)
	require.Equal(t, 2, m[Partition{Instance: 1, X: 2, Z: 3}])
}
