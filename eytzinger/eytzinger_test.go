package eytzinger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrom(t *testing.T) {
	l := From([]int{10, 20, 30, 40, 50})

	require.Equal(t, 5, l.Len())
	assert.Equal(t, []int{40, 20, 50, 10, 30}, []int(l[1:]))
}

func TestFrom_Empty(t *testing.T) {
	l := From([]int{})

	assert.Equal(t, 0, l.Len())
	assert.Equal(t, 0, l.Search(42))
}

func TestFrom_Single(t *testing.T) {
	l := From([]string{"m"})

	require.Equal(t, 1, l.Len())
	assert.Equal(t, 1, l.Search("a"))
	assert.Equal(t, 1, l.Search("m"))
	assert.Equal(t, 0, l.Search("z"))
}

func TestLayout_Search(t *testing.T) {
	l := From([]int{10, 20, 30, 40, 50})

	tests := []struct {
		name      string
		value     int
		wantIndex int
		wantElem  int
	}{
		{name: "below all", value: 5, wantIndex: 4, wantElem: 10},
		{name: "exact smallest", value: 10, wantIndex: 4, wantElem: 10},
		{name: "between", value: 25, wantIndex: 5, wantElem: 30},
		{name: "exact middle", value: 30, wantIndex: 5, wantElem: 30},
		{name: "near top", value: 45, wantIndex: 3, wantElem: 50},
		{name: "exact largest", value: 50, wantIndex: 3, wantElem: 50},
		{name: "above all", value: 55, wantIndex: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.Search(tt.value)
			require.Equal(t, tt.wantIndex, got)

			if got != 0 {
				assert.Equal(t, tt.wantElem, l[got])
			}
		})
	}
}

func TestLayout_Search_Duplicates(t *testing.T) {
	l := From([]int{1, 2, 2, 2, 3})

	// The lower bound of a duplicated value is its in-order-first slot,
	// which for this input is slot 2.
	got := l.Search(2)
	require.Equal(t, 2, got)
	assert.Equal(t, 2, l[got])

	var before int
	for v := range l.All() {
		if v == 2 {
			break
		}
		before++
	}
	assert.Equal(t, 1, before)
}

func TestLayout_Search_LowerBoundProperty(t *testing.T) {
	// Even values 0..198; every probe agrees with a linear lower bound.
	sorted := make([]int, 100)
	for i := range sorted {
		sorted[i] = 2 * i
	}
	l := From(sorted)

	for v := -1; v <= 200; v++ {
		want := 0
		for _, s := range sorted {
			if s >= v {
				want = s
				break
			}
		}

		got := l.Search(v)
		if v > 198 {
			require.Equal(t, 0, got, "value %d", v)
			continue
		}

		require.NotEqual(t, 0, got, "value %d", v)
		require.Equal(t, want, l[got], "value %d", v)
	}
}

func TestLayout_All(t *testing.T) {
	sorted := []int{3, 7, 11, 19, 23, 31, 37}
	l := From(sorted)

	var got []int
	for v := range l.All() {
		got = append(got, v)
	}

	assert.Equal(t, sorted, got)
}

func TestLayout_All_EarlyStop(t *testing.T) {
	l := From([]int{1, 2, 3, 4, 5})

	var got []int
	for v := range l.All() {
		got = append(got, v)
		if len(got) == 2 {
			break
		}
	}

	assert.Equal(t, []int{1, 2}, got)
}

func BenchmarkLayout_Search(b *testing.B) {
	sorted := make([]int64, 1<<20)
	for i := range sorted {
		sorted[i] = int64(2 * i)
	}
	l := From(sorted)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = l.Search(int64(i) & (1<<21 - 1))
	}
}
