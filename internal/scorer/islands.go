package scorer

import "svw.info/blockpuzzle/internal/domain"

var neighbours4 = [4][2]int{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}

// EmptyIslands returns every maximal 4-connected region of free cells, in
// row-major order of each region's first cell.
func EmptyIslands(b *domain.Board) [][]domain.CellCoord {
	n := b.Size()
	visited := make([]bool, n*n)
	var islands [][]domain.CellCoord
	var stack []domain.CellCoord
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if visited[i*n+j] || b.Occupied(i, j) {
				continue
			}
			var region []domain.CellCoord
			visited[i*n+j] = true
			stack = append(stack[:0], domain.CellCoord{Row: i, Col: j})
			for len(stack) > 0 {
				c := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				region = append(region, c)
				for _, d := range neighbours4 {
					r, col := c.Row+d[0], c.Col+d[1]
					if r < 0 || r >= n || col < 0 || col >= n || visited[r*n+col] || b.Occupied(r, col) {
						continue
					}
					visited[r*n+col] = true
					stack = append(stack, domain.CellCoord{Row: r, Col: col})
				}
			}
			islands = append(islands, region)
		}
	}
	return islands
}
