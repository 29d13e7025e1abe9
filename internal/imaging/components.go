package imaging

import "image"

// removeSmallObjects clears every 4-connected region of true cells that
// holds fewer than minSize cells and returns the filtered copy.
func removeSmallObjects(cells []bool, width, height, minSize int) []bool {
	out := make([]bool, len(cells))
	copy(out, cells)
	if minSize <= 1 {
		return out
	}

	visited := make([]bool, len(cells))
	var region []image.Point

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if visited[y*width+x] || !cells[y*width+x] {
				continue
			}
			region = region[:0]
			floodFill(cells, visited, x, y, width, height, &region)
			if len(region) < minSize {
				for _, p := range region {
					out[p.Y*width+p.X] = false
				}
			}
		}
	}
	return out
}

// floodFill collects the 4-connected region of true cells containing
// (startX, startY), marking each cell visited.
func floodFill(cells, visited []bool, startX, startY, width, height int, region *[]image.Point) {
	stack := []image.Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		i := p.Y*width + p.X
		if visited[i] || !cells[i] {
			continue
		}

		visited[i] = true
		*region = append(*region, p)

		stack = append(stack,
			image.Point{X: p.X + 1, Y: p.Y},
			image.Point{X: p.X - 1, Y: p.Y},
			image.Point{X: p.X, Y: p.Y + 1},
			image.Point{X: p.X, Y: p.Y - 1},
		)
	}
}
