package engine

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/c4engine/internal/npz"
	"github.com/yourusername/c4engine/internal/tensor"
)

// Outcome labels a recorded example with its game's final result.
type Outcome string

const (
	OutcomePending Outcome = ""
	OutcomeWin     Outcome = "win"
	OutcomeLoss    Outcome = "loss"
	OutcomeDraw    Outcome = "draw"
)

// TrainingExample is one recorded move. BoardState is the snapshot taken
// before the move was applied; Outcome stays pending until the owning
// game terminates and is immutable after that.
type TrainingExample struct {
	BoardState Board
	Move       int
	Mover      uint8
	Outcome    Outcome
	MoveNumber int
}

// SelfPlayJob configures a single simulated game.
type SelfPlayJob struct {
	Index           int
	Player1Depth    int
	Player2Depth    int
	RandomFirstMove bool
}

// ProgressFunc is called by the coordinator after each completed game.
type ProgressFunc func(completed, total, examples int)

// SelfPlayOptions controls a self-play generation run.
type SelfPlayOptions struct {
	Games              int    // Number of games to simulate (default 1000)
	Player1Depth       int    // Minimax depth for player 1 (default 4)
	Player2Depth       int    // Minimax depth for player 2 (default 4)
	RandomFirstMove    bool   // Randomize half the opening moves for diversity
	VaryDepths         bool   // Jitter each side's depth by one per game, floored at 2
	Workers            int    // Parallel game workers (0 = GOMAXPROCS)
	CheckpointInterval int    // Checkpoint the cumulative set every N games (default 250)
	Channels           int    // Encoder channels, 2 or 3 (default 3)
	Seed               int64  // RNG seed (0 = random)
	OutputPath         string // Training corpus .npz path ("" = no corpus output)
	RecordDir          string // Per-game JSON record directory ("" = no records)

	Progress ProgressFunc // Optional progress callback
}

// DefaultSelfPlayOptions returns the defaults used by the self-play CLI.
func DefaultSelfPlayOptions() SelfPlayOptions {
	return SelfPlayOptions{
		Games:              1000,
		Player1Depth:       DefaultSearchDepth,
		Player2Depth:       DefaultSearchDepth,
		RandomFirstMove:    true,
		VaryDepths:         true,
		Workers:            0,
		CheckpointInterval: 250,
		Channels:           3,
	}
}

// SelfPlayResult summarizes a completed run.
type SelfPlayResult struct {
	GamesRequested int
	GamesCompleted int
	GamesFailed    int

	Player1Wins int
	Player2Wins int
	Draws       int

	Examples    int
	Checkpoints int

	MeanMoves   float64
	MovesStdDev float64
}

// gameResult is the per-game payload workers hand to the coordinator.
// Job is the originating job index, kept for diagnostics only.
type gameResult struct {
	Job      int
	Examples []TrainingExample
	Winner   uint8 // Empty on a draw
	Record   *GameRecord
	Err      error
}

// GenerateSelfPlay simulates games between minimax agents and collects
// labeled training examples. Games run on a pool of worker goroutines,
// each owning its private game, agents, and RNG; the only shared point is
// the results channel drained by this coordinator. Results accumulate in
// completion order, and every CheckpointInterval completed games the full
// cumulative example set is re-encoded and written to OutputPath, so a
// crash loses at most one interval of work.
//
// Cancelling ctx stops new games from being dispatched; in-flight games
// run to completion and are included in the final checkpoint.
func GenerateSelfPlay(ctx context.Context, opts SelfPlayOptions) (*SelfPlayResult, error) {
	if opts.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", opts.Games)
	}
	if opts.Player1Depth <= 0 {
		opts.Player1Depth = DefaultSearchDepth
	}
	if opts.Player2Depth <= 0 {
		opts.Player2Depth = DefaultSearchDepth
	}
	if opts.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", opts.Workers)
	}
	if opts.Workers == 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.CheckpointInterval <= 0 {
		opts.CheckpointInterval = 250
	}
	if opts.Channels == 0 {
		opts.Channels = 3
	}
	if !tensor.ValidChannels(opts.Channels) {
		return nil, fmt.Errorf("channels must be 2 or 3, got %d", opts.Channels)
	}
	if opts.Seed == 0 {
		opts.Seed = rand.Int63()
	}

	var store *Store
	if opts.RecordDir != "" {
		var err error
		if store, err = NewStore(opts.RecordDir); err != nil {
			return nil, err
		}
	}

	jobs := make(chan SelfPlayJob)
	results := make(chan gameResult, opts.Workers)
	var wg sync.WaitGroup

	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		workerSeed := opts.Seed + int64(i)*1000000
		go func(seed int64) {
			defer wg.Done()
			selfPlayWorker(jobs, results, seed, opts.VaryDepths)
		}(workerSeed)
	}

	// Dispatch jobs; stop at a game boundary if the context is cancelled.
	go func() {
		defer close(jobs)
		for i := 0; i < opts.Games; i++ {
			job := SelfPlayJob{
				Index:           i,
				Player1Depth:    opts.Player1Depth,
				Player2Depth:    opts.Player2Depth,
				RandomFirstMove: opts.RandomFirstMove,
			}
			select {
			case jobs <- job:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return collectSelfPlay(results, opts, store)
}

// collectSelfPlay drains worker results in completion order, labels being
// already applied, and handles checkpointing and per-game persistence.
func collectSelfPlay(results <-chan gameResult, opts SelfPlayOptions, store *Store) (*SelfPlayResult, error) {
	res := &SelfPlayResult{GamesRequested: opts.Games}
	var all []TrainingExample
	var moveCounts []float64
	sinceCheckpoint := 0

	for gr := range results {
		if gr.Err != nil {
			res.GamesFailed++
			log.Printf("selfplay: game %d failed: %v", gr.Job, gr.Err)
			continue
		}

		all = append(all, gr.Examples...)
		moveCounts = append(moveCounts, float64(len(gr.Examples)))
		res.GamesCompleted++
		sinceCheckpoint++

		switch gr.Winner {
		case Player1:
			res.Player1Wins++
		case Player2:
			res.Player2Wins++
		default:
			res.Draws++
		}

		if store != nil && gr.Record != nil {
			if err := store.SaveGame(gr.Record); err != nil {
				log.Printf("selfplay: saving record for game %d: %v", gr.Job, err)
			}
		}

		if opts.Progress != nil {
			opts.Progress(res.GamesCompleted, opts.Games, len(all))
		}
		if res.GamesCompleted%100 == 0 {
			log.Printf("selfplay: generated %d/%d games (%d examples)",
				res.GamesCompleted, opts.Games, len(all))
		}

		if opts.OutputPath != "" && sinceCheckpoint >= opts.CheckpointInterval {
			if err := SaveTrainingData(all, opts.Channels, opts.OutputPath); err != nil {
				log.Printf("selfplay: checkpoint failed: %v", err)
			} else {
				res.Checkpoints++
				sinceCheckpoint = 0
				log.Printf("selfplay: checkpointed %d examples from %d games",
					len(all), res.GamesCompleted)
			}
		}
	}

	if opts.OutputPath != "" && len(all) > 0 {
		if err := SaveTrainingData(all, opts.Channels, opts.OutputPath); err != nil {
			return nil, fmt.Errorf("final save: %w", err)
		}
		res.Checkpoints++
	}

	res.Examples = len(all)
	if len(moveCounts) > 0 {
		res.MeanMoves = stat.Mean(moveCounts, nil)
		res.MovesStdDev = stat.StdDev(moveCounts, nil)
	}
	return res, nil
}

// selfPlayWorker pulls jobs and plays them to completion with a private
// RNG. A panicking or failing game is reported and does not take down
// sibling workers.
func selfPlayWorker(jobs <-chan SelfPlayJob, results chan<- gameResult, seed int64, varyDepths bool) {
	rng := rand.New(rand.NewSource(seed))
	for job := range jobs {
		results <- runSelfPlayGame(job, rng, varyDepths)
	}
}

func runSelfPlayGame(job SelfPlayJob, rng *rand.Rand, varyDepths bool) (gr gameResult) {
	gr.Job = job.Index
	defer func() {
		if r := recover(); r != nil {
			gr = gameResult{Job: job.Index, Err: fmt.Errorf("worker panic: %v", r)}
		}
	}()

	d1, d2 := job.Player1Depth, job.Player2Depth
	if varyDepths {
		d1 = jitterDepth(d1, rng)
		d2 = jitterDepth(d2, rng)
	}

	examples, winner, record, err := playTrainingGame(job, d1, d2, rng)
	if err != nil {
		gr.Err = err
		return gr
	}
	gr.Examples = examples
	gr.Winner = winner
	gr.Record = record
	return gr
}

// jitterDepth perturbs a configured depth by plus or minus one, floored at 2.
func jitterDepth(depth int, rng *rand.Rand) int {
	d := depth + rng.Intn(3) - 1
	if d < 2 {
		d = 2
	}
	return d
}

// playTrainingGame plays one game between two search agents and returns
// the labeled examples, the winner (Empty on a draw), and the game
// record. Every recorded example snapshots the board before its move.
func playTrainingGame(job SelfPlayJob, d1, d2 int, rng *rand.Rand) ([]TrainingExample, uint8, *GameRecord, error) {
	game := NewGame()
	ai1 := NewSearchAgent(d1)
	ai2 := NewSearchAgent(d2)

	recorder := NewRecorder()
	recorder.Start("")

	var examples []TrainingExample
	moveNumber := 0

	record := func(before Board, col int, mover uint8) {
		moveNumber++
		examples = append(examples, TrainingExample{
			BoardState: before,
			Move:       col,
			Mover:      mover,
			MoveNumber: moveNumber,
		})
		recorder.RecordMove(int(mover), col, game.Board, moveNumber)
	}

	// Random opening half the time, for position diversity.
	if job.RandomFirstMove && rng.Float64() < 0.5 {
		moves := game.Board.ValidMoves()
		col := moves[rng.Intn(len(moves))]
		before := game.Board
		if err := game.MakeMove(col); err == nil {
			record(before, col, Player1)
		}
	}

	for game.Status == StatusPlaying {
		mover := game.CurrentPlayer
		agent := Agent(ai1)
		if mover == Player2 {
			agent = ai2
		}

		before := game.Board
		col := agent.GetMove(game.Board, mover)

		if err := game.MakeMove(col); err != nil {
			// One retry with a random legal move before giving up the ply.
			moves := game.Board.ValidMoves()
			if len(moves) == 0 {
				return nil, Empty, nil, ErrNoLegalMoves
			}
			col = moves[rng.Intn(len(moves))]
			if err := game.MakeMove(col); err != nil {
				return nil, Empty, nil, fmt.Errorf("move retry failed: %w", err)
			}
		}
		record(before, col, mover)
	}

	// Back-propagate the outcome to every example of the game.
	winner := game.Winner
	for i := range examples {
		switch {
		case game.Status == StatusDraw:
			examples[i].Outcome = OutcomeDraw
		case examples[i].Mover == winner:
			examples[i].Outcome = OutcomeWin
		default:
			examples[i].Outcome = OutcomeLoss
		}
	}

	return examples, winner, recorder.End(game), nil
}

// SaveTrainingData encodes the examples and writes the corpus to path as
// an .npz archive: X with shape (n, 6, 7, channels) and one-hot y with
// shape (n, 7). The file is replaced atomically.
func SaveTrainingData(examples []TrainingExample, channels int, path string) error {
	if !tensor.ValidChannels(channels) {
		return fmt.Errorf("channels must be 2 or 3, got %d", channels)
	}

	x := make([]float32, 0, len(examples)*Rows*Cols*channels)
	y := make([]float32, 0, len(examples)*Cols)
	for _, ex := range examples {
		x = append(x, tensor.Encode(tensor.Grid(ex.BoardState), ex.Mover, channels)...)
		y = append(y, tensor.EncodeLabel(ex.Move)...)
	}

	return npz.WriteFile(path,
		npz.Entry{Name: "X", Array: npz.Array{Shape: []int{len(examples), Rows, Cols, channels}, Data: x}},
		npz.Entry{Name: "y", Array: npz.Array{Shape: []int{len(examples), Cols}, Data: y}},
	)
}
