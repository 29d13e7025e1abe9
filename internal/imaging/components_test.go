package imaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// cellsFromRows parses rows of '#' (true) and '.' (false).
func cellsFromRows(rows ...string) ([]bool, int, int) {
	width, height := len(rows[0]), len(rows)
	cells := make([]bool, width*height)
	for y, row := range rows {
		for x, ch := range row {
			cells[y*width+x] = ch == '#'
		}
	}
	return cells, width, height
}

func TestRemoveSmallObjects(t *testing.T) {
	cells, width, height := cellsFromRows(
		"##....#",
		"##.....",
		"......#",
		"#.#...#",
		".#....#",
	)

	tests := []struct {
		name    string
		minSize int
		want    []string
	}{
		{"disabled", 0, []string{
			"##....#",
			"##.....",
			"......#",
			"#.#...#",
			".#....#",
		}},
		{"drop singles", 2, []string{
			"##.....",
			"##.....",
			"......#",
			"......#",
			"......#",
		}},
		{"keep only the square", 4, []string{
			"##.....",
			"##.....",
			".......",
			".......",
			".......",
		}},
		{"drop everything", 5, []string{
			".......",
			".......",
			".......",
			".......",
			".......",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want, _, _ := cellsFromRows(tt.want...)
			got := removeSmallObjects(cells, width, height, tt.minSize)
			assert.Equal(t, want, got)
		})
	}
}

func TestRemoveSmallObjects_DiagonalsAreSeparate(t *testing.T) {
	cells, width, height := cellsFromRows(
		"#.",
		".#",
	)

	got := removeSmallObjects(cells, width, height, 2)
	assert.Equal(t, []bool{false, false, false, false}, got)
}

func TestRemoveSmallObjects_DoesNotMutateInput(t *testing.T) {
	cells, width, height := cellsFromRows("#..", "...")
	before := append([]bool(nil), cells...)

	removeSmallObjects(cells, width, height, 3)
	assert.Equal(t, before, cells)
}
