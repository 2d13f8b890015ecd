package engine

// winLength is the number of consecutive same-player cells that wins.
const winLength = 4

// CheckWinner scans the board for four in a row and returns the winning
// player, or Empty if there is none. Windows are scanned in a fixed order
// (horizontal row-major, vertical column-major, down-right diagonals,
// up-right diagonals) so that when multiple winning lines exist the same
// one is reported every time.
func CheckWinner(b Board) uint8 {
	_, player := winningRun(b)
	return player
}

// WinningCells returns the four (row, col) coordinates of the first
// winning window in scan order, or nil when there is no winner.
func WinningCells(b Board) [][2]int {
	cells, _ := winningRun(b)
	return cells
}

func winningRun(b Board) ([][2]int, uint8) {
	// Horizontal
	for row := 0; row < Rows; row++ {
		for col := 0; col <= Cols-winLength; col++ {
			if player := runAt(b, row, col, 0, 1); player != Empty {
				return runCells(row, col, 0, 1), player
			}
		}
	}

	// Vertical
	for row := 0; row <= Rows-winLength; row++ {
		for col := 0; col < Cols; col++ {
			if player := runAt(b, row, col, 1, 0); player != Empty {
				return runCells(row, col, 1, 0), player
			}
		}
	}

	// Diagonal down-right
	for row := 0; row <= Rows-winLength; row++ {
		for col := 0; col <= Cols-winLength; col++ {
			if player := runAt(b, row, col, 1, 1); player != Empty {
				return runCells(row, col, 1, 1), player
			}
		}
	}

	// Diagonal down-left (up-right lines)
	for row := 0; row <= Rows-winLength; row++ {
		for col := winLength - 1; col < Cols; col++ {
			if player := runAt(b, row, col, 1, -1); player != Empty {
				return runCells(row, col, 1, -1), player
			}
		}
	}

	return nil, Empty
}

// runAt returns the player owning all four cells starting at (row, col)
// stepping by (dr, dc), or Empty.
func runAt(b Board, row, col, dr, dc int) uint8 {
	player := b[row][col]
	if player == Empty {
		return Empty
	}
	for i := 1; i < winLength; i++ {
		if b[row+i*dr][col+i*dc] != player {
			return Empty
		}
	}
	return player
}

func runCells(row, col, dr, dc int) [][2]int {
	cells := make([][2]int, winLength)
	for i := 0; i < winLength; i++ {
		cells[i] = [2]int{row + i*dr, col + i*dc}
	}
	return cells
}
