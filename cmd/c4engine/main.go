// c4engine - Connect-4 analysis engine command line tool
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yourusername/c4engine/pkg/engine"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "move":
		cmdMove(args)
	case "eval":
		cmdEval(args)
	case "play":
		cmdPlay(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`c4engine - Connect-4 Analysis Engine

Usage: c4engine <command> [options]

Commands:
  move      Find the best column for a position
  eval      Score every legal column for a position
  play      Play interactively against the engine

Use "c4engine <command> -h" for command-specific help.

Board Format:
  Seven digits per row, rows top-down, separated by "/".
  0 = empty, 1 = player 1, 2 = player 2.
  Example: "0000000/0000000/0000000/0000000/0001000/0012000"`)
}

func parsePosition(boardStr string, player int) (engine.Board, uint8, error) {
	board, err := engine.ParseBoard(boardStr)
	if err != nil {
		return engine.Board{}, 0, err
	}
	if player != int(engine.Player1) && player != int(engine.Player2) {
		return engine.Board{}, 0, fmt.Errorf("player must be 1 or 2, got %d", player)
	}
	return board, uint8(player), nil
}

func cmdMove(args []string) {
	fs := flag.NewFlagSet("move", flag.ExitOnError)
	boardStr := fs.String("board", "", "Board position (required)")
	player := fs.Int("player", 1, "Player on turn (1 or 2)")
	depth := fs.Int("depth", engine.DefaultSearchDepth, "Search depth in plies")
	fs.Parse(args)

	if *boardStr == "" {
		fmt.Fprintln(os.Stderr, "Error: -board is required")
		fs.Usage()
		os.Exit(1)
	}

	board, mover, err := parsePosition(*boardStr, *player)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(board.ValidMoves()) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no legal moves")
		os.Exit(1)
	}

	agent := engine.NewSearchAgent(*depth)
	col := agent.GetMove(board, mover)
	fmt.Printf("Best move: column %d\n", col)
}

func cmdEval(args []string) {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	boardStr := fs.String("board", "", "Board position (required)")
	player := fs.Int("player", 1, "Player on turn (1 or 2)")
	depth := fs.Int("depth", engine.DefaultSearchDepth, "Search depth in plies")
	fs.Parse(args)

	if *boardStr == "" {
		fmt.Fprintln(os.Stderr, "Error: -board is required")
		fs.Usage()
		os.Exit(1)
	}

	board, mover, err := parsePosition(*boardStr, *player)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if winner := engine.CheckWinner(board); winner != engine.Empty {
		fmt.Printf("Position already won by player %d\n", winner)
		return
	}

	agent := engine.NewSearchAgent(*depth)
	scores := agent.ScoreMoves(board, mover)
	if len(scores) == 0 {
		fmt.Println("No legal moves")
		return
	}

	fmt.Printf("Pieces: player 1 = %d, player 2 = %d\n", board.Count(engine.Player1), board.Count(engine.Player2))
	fmt.Printf("Player %d, depth %d:\n", mover, *depth)
	for _, ms := range scores {
		note := ""
		switch {
		case ms.Score >= 1000:
			note = "  (forced win)"
		case ms.Score <= -1000:
			note = "  (losing)"
		}
		fmt.Printf("  column %d: %5d%s\n", ms.Column, ms.Score, note)
	}
}

func cmdPlay(args []string) {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	depth := fs.Int("depth", engine.DefaultSearchDepth, "Engine search depth")
	engineFirst := fs.Bool("engine-first", false, "Engine plays first")
	fs.Parse(args)

	agent := engine.NewSearchAgent(*depth)
	game := engine.NewGame()
	enginePlayer := engine.Player2
	if *engineFirst {
		enginePlayer = engine.Player1
	}

	fmt.Printf("Playing against depth-%d search. Enter a column 0-6, or q to quit.\n", *depth)
	scanner := bufio.NewScanner(os.Stdin)

	for !game.IsOver() {
		if game.CurrentPlayer == enginePlayer {
			col := agent.GetMove(game.Board, enginePlayer)
			if err := game.MakeMove(col); err != nil {
				fmt.Fprintf(os.Stderr, "engine move failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Engine plays column %d\n", col)
			printBoard(game.Board)
			continue
		}

		fmt.Printf("Your move (player %d): ", game.CurrentPlayer)
		if !scanner.Scan() {
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "q" || input == "quit" {
			return
		}
		col, err := strconv.Atoi(input)
		if err != nil {
			fmt.Println("Enter a column number 0-6")
			continue
		}
		if err := game.MakeMove(col); err != nil {
			fmt.Printf("Illegal move: %v\n", err)
			continue
		}
		printBoard(game.Board)
	}

	switch game.Status {
	case engine.StatusWon:
		if game.Winner == enginePlayer {
			fmt.Println("Engine wins.")
		} else {
			fmt.Println("You win!")
		}
	case engine.StatusDraw:
		fmt.Println("Draw.")
	}
}

func printBoard(b engine.Board) {
	for row := 0; row < engine.Rows; row++ {
		line := make([]byte, 0, engine.Cols*2)
		for col := 0; col < engine.Cols; col++ {
			switch b[row][col] {
			case engine.Player1:
				line = append(line, 'X', ' ')
			case engine.Player2:
				line = append(line, 'O', ' ')
			default:
				line = append(line, '.', ' ')
			}
		}
		fmt.Println(string(line))
	}
	fmt.Println("0 1 2 3 4 5 6")
}
