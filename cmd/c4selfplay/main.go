// Command c4selfplay generates minimax self-play games and writes the
// resulting training corpus as an .npz archive.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yourusername/c4engine/pkg/engine"
)

func main() {
	games := flag.Int("games", 1000, "Number of games to simulate")
	p1Depth := flag.Int("p1-depth", engine.DefaultSearchDepth, "Player 1 search depth")
	p2Depth := flag.Int("p2-depth", engine.DefaultSearchDepth, "Player 2 search depth")
	workers := flag.Int("workers", 0, "Parallel game workers (0 = GOMAXPROCS)")
	checkpoint := flag.Int("checkpoint", 250, "Checkpoint interval in games (0 = none)")
	channels := flag.Int("channels", 3, "Encoder channels (2 or 3)")
	output := flag.String("output", "training_data.npz", "Output .npz path")
	recordDir := flag.String("record-dir", "", "Per-game JSON record directory (empty = off)")
	noRandomFirst := flag.Bool("no-random-first", false, "Disable randomized opening moves")
	noVaryDepths := flag.Bool("no-vary-depths", false, "Disable per-game depth jitter")
	seed := flag.Int64("seed", 0, "RNG seed (0 = random)")

	flag.Parse()

	opts := engine.DefaultSelfPlayOptions()
	opts.Games = *games
	opts.Player1Depth = *p1Depth
	opts.Player2Depth = *p2Depth
	opts.Workers = *workers
	opts.CheckpointInterval = *checkpoint
	opts.Channels = *channels
	opts.OutputPath = *output
	opts.RecordDir = *recordDir
	opts.RandomFirstMove = !*noRandomFirst
	opts.VaryDepths = !*noVaryDepths
	opts.Seed = *seed

	// Interrupts stop at the next game boundary so the final save still
	// covers every completed game.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("Generating %d self-play games (depths %d/%d, %d channels)",
		opts.Games, opts.Player1Depth, opts.Player2Depth, opts.Channels)

	start := time.Now()
	result, err := engine.GenerateSelfPlay(ctx, opts)
	if err != nil {
		log.Fatalf("self-play failed: %v", err)
	}
	elapsed := time.Since(start)

	fmt.Printf("\nCompleted %d/%d games in %s\n", result.GamesCompleted, result.GamesRequested, elapsed.Round(time.Second))
	if result.GamesFailed > 0 {
		fmt.Printf("Failed games: %d\n", result.GamesFailed)
	}
	fmt.Printf("Player 1 wins: %d\n", result.Player1Wins)
	fmt.Printf("Player 2 wins: %d\n", result.Player2Wins)
	fmt.Printf("Draws:         %d\n", result.Draws)
	fmt.Printf("Examples:      %d\n", result.Examples)
	fmt.Printf("Checkpoints:   %d\n", result.Checkpoints)
	fmt.Printf("Moves/game:    %.1f (stddev %.1f)\n", result.MeanMoves, result.MovesStdDev)
	if opts.OutputPath != "" {
		fmt.Printf("Corpus:        %s\n", opts.OutputPath)
	}

	if ctx.Err() != nil {
		os.Exit(130)
	}
}
