// Package engine provides the public API for the Connect-4 engine:
// board mechanics, win detection, the game state machine, search agents,
// and self-play training-data generation.
package engine

import (
	"fmt"
	"strings"
)

// Board dimensions and cell values.
const (
	Rows = 6
	Cols = 7

	Empty   uint8 = 0
	Player1 uint8 = 1
	Player2 uint8 = 2
)

// Board represents the 6x7 grid. Row 0 is the top row; pieces stack from
// row 5 upward. Board is a value type so hypothetical moves can work on
// cheap disposable copies.
type Board [Rows][Cols]uint8

// Opponent returns the other player.
func Opponent(player uint8) uint8 {
	if player == Player1 {
		return Player2
	}
	return Player1
}

// NextRow returns the lowest empty row in the column, or false if the
// column is out of range or full.
func (b *Board) NextRow(col int) (int, bool) {
	if col < 0 || col >= Cols {
		return 0, false
	}
	for row := Rows - 1; row >= 0; row-- {
		if b[row][col] == Empty {
			return row, true
		}
	}
	return 0, false
}

// Place drops a piece for the given player into the column. It returns
// false, leaving the board unchanged, if the column is out of range or full.
func (b *Board) Place(col int, player uint8) bool {
	row, ok := b.NextRow(col)
	if !ok {
		return false
	}
	b[row][col] = player
	return true
}

// IsColumnFull reports whether the column cannot take another piece.
// Out-of-range columns count as full.
func (b *Board) IsColumnFull(col int) bool {
	if col < 0 || col >= Cols {
		return true
	}
	return b[0][col] != Empty
}

// ValidMoves returns the non-full column indices in ascending order.
func (b *Board) ValidMoves() []int {
	moves := make([]int, 0, Cols)
	for col := 0; col < Cols; col++ {
		if !b.IsColumnFull(col) {
			moves = append(moves, col)
		}
	}
	return moves
}

// IsFull reports whether every column is full.
func (b *Board) IsFull() bool {
	for col := 0; col < Cols; col++ {
		if b[0][col] == Empty {
			return false
		}
	}
	return true
}

// Count returns the number of pieces the player has on the board.
func (b *Board) Count(player uint8) int {
	n := 0
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			if b[row][col] == player {
				n++
			}
		}
	}
	return n
}

// Cells returns the grid as nested int slices for JSON serialization.
// ([]uint8 would be base64-encoded by encoding/json.)
func (b Board) Cells() [][]int {
	out := make([][]int, Rows)
	for row := 0; row < Rows; row++ {
		out[row] = make([]int, Cols)
		for col := 0; col < Cols; col++ {
			out[row][col] = int(b[row][col])
		}
	}
	return out
}

// BoardFromCells builds a Board from nested int slices, validating
// dimensions and cell values.
func BoardFromCells(cells [][]int) (Board, error) {
	var b Board
	if len(cells) != Rows {
		return b, fmt.Errorf("board must have %d rows, got %d", Rows, len(cells))
	}
	for row := 0; row < Rows; row++ {
		if len(cells[row]) != Cols {
			return b, fmt.Errorf("row %d must have %d columns, got %d", row, Cols, len(cells[row]))
		}
		for col := 0; col < Cols; col++ {
			v := cells[row][col]
			if v < 0 || v > 2 {
				return b, fmt.Errorf("invalid cell value %d at (%d,%d)", v, row, col)
			}
			b[row][col] = uint8(v)
		}
	}
	return b, nil
}

// String renders the board as six rows of seven digits separated by "/",
// top row first. Example: "0000000/0000000/0000000/0000000/0000000/0112000".
func (b Board) String() string {
	var sb strings.Builder
	for row := 0; row < Rows; row++ {
		if row > 0 {
			sb.WriteByte('/')
		}
		for col := 0; col < Cols; col++ {
			sb.WriteByte('0' + b[row][col])
		}
	}
	return sb.String()
}

// ParseBoard parses the format produced by String.
func ParseBoard(s string) (Board, error) {
	var b Board
	rows := strings.Split(strings.TrimSpace(s), "/")
	if len(rows) != Rows {
		return b, fmt.Errorf("board string must have %d rows, got %d", Rows, len(rows))
	}
	for row := 0; row < Rows; row++ {
		if len(rows[row]) != Cols {
			return b, fmt.Errorf("row %d must have %d cells, got %d", row, Cols, len(rows[row]))
		}
		for col := 0; col < Cols; col++ {
			c := rows[row][col]
			if c < '0' || c > '2' {
				return b, fmt.Errorf("invalid cell %q at (%d,%d)", c, row, col)
			}
			b[row][col] = c - '0'
		}
	}
	return b, nil
}
