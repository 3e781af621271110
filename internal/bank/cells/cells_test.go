package cells

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/hexbank/internal/bank/geometry"
	"github.com/banshee-data/hexbank/internal/metric"
)

func testCell(t0, t3 float64) Cell {
	return NewCell(geometry.Point{T0: t0, T3: t3}, metric.Ellipse{A: 0.1, B: 0.01})
}

func TestStoreAppendGrowsInBatches(t *testing.T) {
	s := NewStore(0)
	for i := 0; i < DefaultBatch+5; i++ {
		id, err := s.Append(testCell(float64(i), 1))
		require.NoError(t, err)
		require.Equal(t, i, id)
	}
	st := s.State()
	assert.Equal(t, DefaultBatch+5, st.Templates)
	assert.Equal(t, 2*DefaultBatch, st.Capacity)
	assert.Equal(t, DefaultBatch+5, st.Fertile)

	// Ids are stable across growth.
	assert.Equal(t, 7.0, s.Get(7).Pos.T0)
	assert.Equal(t, 7, s.Get(7).ID)
}

func TestStoreCapacityLimit(t *testing.T) {
	s := NewStore(3)
	for i := 0; i < 3; i++ {
		_, err := s.Append(testCell(1, 1))
		require.NoError(t, err)
	}
	_, err := s.Append(testCell(1, 1))
	assert.ErrorIs(t, err, ErrCapacity)
	assert.ErrorIs(t, s.Allocate(10), ErrCapacity)
	assert.Equal(t, 3, s.Len())
}

func TestStoreLifecycle(t *testing.T) {
	s := NewStore(0)
	a, _ := s.Append(testCell(1, 1))
	b, _ := s.Append(testCell(2, 1))
	c, _ := s.Append(testCell(3, 1))
	assert.Equal(t, []int{a, b, c}, s.FertileSnapshot())

	require.NoError(t, s.MarkSterile(a))
	require.NoError(t, s.MarkEdge(b))
	assert.Equal(t, []int{c}, s.FertileSnapshot())
	assert.Equal(t, 1, s.State().Fertile)

	assert.ErrorIs(t, s.MarkSterile(a), ErrLifecycle, "sterile twice")
	assert.ErrorIs(t, s.MarkEdge(a), ErrLifecycle, "sterile to edge")
	assert.ErrorIs(t, s.Retire(c), ErrLifecycle, "retire fertile")
	assert.ErrorIs(t, s.MarkSterile(99), ErrLifecycle, "unknown id")

	assert.Equal(t, []int{b}, s.EdgeIDs())
	require.NoError(t, s.Retire(b))
	assert.Equal(t, Sterile, s.Get(b).Status)
	assert.Empty(t, s.EdgeIDs())
	assert.Equal(t, 1, s.State().Fertile)
}

func TestStoreNonFertileAppend(t *testing.T) {
	s := NewStore(0)
	c := testCell(1, 1)
	c.Status = Sterile
	_, err := s.Append(c)
	require.NoError(t, err)
	assert.Equal(t, 0, s.State().Fertile)
	assert.Empty(t, s.FertileSnapshot())
}

func TestWorklist(t *testing.T) {
	w := NewWorklist()
	for _, id := range []int{5, 2, 9, 4} {
		assert.True(t, w.Add(id))
	}
	assert.False(t, w.Add(2))
	assert.Equal(t, 4, w.Len())

	assert.True(t, w.Remove(5))
	assert.False(t, w.Remove(5))
	assert.True(t, w.Remove(4)) // last element
	assert.False(t, w.Contains(4))
	assert.True(t, w.Contains(9))
	assert.Equal(t, []int{2, 9}, w.Snapshot())
}

func TestCellAddChild(t *testing.T) {
	c := testCell(1, 1)
	assert.Equal(t, None, c.Parent)
	assert.Equal(t, c.Pos, c.Anchor)
	assert.False(t, c.Snapped)
	assert.True(t, c.AddChild(3))
	assert.True(t, c.AddChild(4))
	assert.False(t, c.AddChild(5))
	assert.Equal(t, [2]int{3, 4}, c.Children)
}

func TestGridKeyUnique(t *testing.T) {
	seen := make(map[int64][2]int64)
	for x := int64(-20); x <= 20; x++ {
		for y := int64(-20); y <= 20; y++ {
			k := gridKey(x, y)
			if prev, ok := seen[k]; ok {
				t.Fatalf("gridKey(%d,%d) = %d collides with %v", x, y, k, prev)
			}
			seen[k] = [2]int64{x, y}
		}
	}
}

func TestIndexQuery(t *testing.T) {
	ix := NewIndex(0.1, 0.01)
	ix.Insert(0, geometry.Point{T0: 1.00, T3: 0.500})
	ix.Insert(1, geometry.Point{T0: 1.05, T3: 0.505})
	ix.Insert(2, geometry.Point{T0: 2.00, T3: 0.500})
	ix.Insert(3, geometry.Point{T0: 1.00, T3: 0.700})

	got := ix.Query(geometry.Point{T0: 1.02, T3: 0.502}, 0.1, 0.01)
	assert.ElementsMatch(t, []int{0, 1}, got)

	assert.Empty(t, ix.Query(geometry.Point{T0: 5, T3: 5}, 0.1, 0.01))

	wide := ix.Query(geometry.Point{T0: 1.5, T3: 0.6}, 0.6, 0.15)
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, wide)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "fertile", Fertile.String())
	assert.Equal(t, "sterile", Sterile.String())
	assert.Equal(t, "edge", Edge.String())
}
