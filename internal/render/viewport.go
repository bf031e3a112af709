package render

// Viewport is the window of the document shown in the text rows. Top is a
// line number and Left a display column.
type Viewport struct {
	Top  int
	Left int
	Rows int
	Cols int
}

// Scroll moves Top and Left by the least amount that brings (row, col)
// into view.
func (v *Viewport) Scroll(row, col int) {
	if v.Rows > 0 {
		if row < v.Top {
			v.Top = row
		} else if row >= v.Top+v.Rows {
			v.Top = row - v.Rows + 1
		}
	}
	if v.Cols > 0 {
		if col < v.Left {
			v.Left = col
		} else if col >= v.Left+v.Cols {
			v.Left = col - v.Cols + 1
		}
	}
}

func (v Viewport) Contains(row, col int) bool {
	return row >= v.Top && row < v.Top+v.Rows && col >= v.Left && col < v.Left+v.Cols
}

// Layout splits a terminal of the given height into text rows and reports
// whether the status and message rows fit below them.
func Layout(rows int) (text int, bars bool) {
	if rows >= 3 {
		return rows - 2, true
	}
	return max(rows, 0), false
}
