package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScripted_QueuePermutation(t *testing.T) {
	tests := []struct {
		name string
		perm []int
	}{
		{"identity", []int{0, 1, 2, 3}},
		{"rotation", []int{1, 2, 3, 0}},
		{"reverse", []int{3, 2, 1, 0}},
		{"swap pair", []int{0, 2, 1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewScripted()
			src.QueuePermutation(tt.perm)

			got := permutationOf(src, len(tt.perm))
			assert.Equal(t, tt.perm, got)
		})
	}
}

func TestScripted_ShuffleWithoutPermutation(t *testing.T) {
	src := NewScripted()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, permutationOf(src, 5))

	src.QueuePermutation([]int{1, 0})
	assert.Equal(t, []int{1, 0}, permutationOf(src, 2))
	assert.Equal(t, []int{0, 1}, permutationOf(src, 2), "permutations are consumed")
}

func TestScripted_Uniform(t *testing.T) {
	src := NewScripted(0, 0.5, 1)

	assert.Equal(t, 2.0, src.Uniform(2, 6))
	assert.Equal(t, 4.0, src.Uniform(2, 6))
	assert.Equal(t, 6.0, src.Uniform(2, 6))
	assert.Equal(t, 10.0, src.Uniform(10, 20), "fractions cycle")
	assert.Equal(t, [][2]float64{{2, 6}, {2, 6}, {2, 6}, {10, 20}}, src.Calls)

	assert.Equal(t, 3.0, NewScripted().Uniform(3, 8))
}
