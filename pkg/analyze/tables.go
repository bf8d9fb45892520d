package analyze

// TableCell is one recognized table cell with its declared coordinates.
type TableCell struct {
	Row     int
	Col     int
	Content string
}

// Grid expands a table descriptor into a rows x cols grid of cell strings.
// Unreferenced cells stay empty; cells whose coordinates fall outside the
// declared dimensions are dropped without error, which tolerates
// inconsistent descriptors from the recognizer.
func Grid(rows, cols int, cells []TableCell) [][]string {
	if rows < 0 || cols < 0 {
		return [][]string{}
	}
	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, cols)
	}
	for _, cell := range cells {
		if cell.Row < 0 || cell.Row >= rows {
			continue
		}
		if cell.Col < 0 || cell.Col >= cols {
			continue
		}
		grid[cell.Row][cell.Col] = cell.Content
	}
	return grid
}

func buildGrids(tables []rawTable) [][][]string {
	grids := make([][][]string, 0, len(tables))
	for _, t := range tables {
		cells := make([]TableCell, 0, len(t.Cells))
		for _, c := range t.Cells {
			cells = append(cells, TableCell{Row: c.RowIndex, Col: c.ColumnIndex, Content: c.Content})
		}
		grids = append(grids, Grid(t.RowCount, t.ColumnCount, cells))
	}
	return grids
}
