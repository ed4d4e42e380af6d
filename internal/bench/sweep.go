package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ecbench/internal/config"
	"ecbench/internal/logging"
	"ecbench/internal/verify"
)

// Point is the aggregated result for one buffer size.
type Point struct {
	BufferMultiplier int   `json:"buffer_multiplier"`
	BufferSize       int   `json:"buffer_size"`
	Rates            Rates `json:"rates"`
}

// Cell is the raw sum of every trial of one grid configuration.
type Cell struct {
	Configuration
	Sum     Rates `json:"sum"`
	Skipped int   `json:"skipped_verifications"`
}

// Result is everything a sweep produced.
type Result struct {
	RunID      string              `json:"run_id"`
	Input      string              `json:"input"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
	Coding     config.CodingConfig `json:"coding"`
	Policy     config.Policy       `json:"policy"`
	Runs       int                 `json:"runs"`
	Points     []Point             `json:"points"`
	Cells      []Cell              `json:"cells"`
}

// Trialer runs a single trial for one configuration.
type Trialer interface {
	Run(ctx context.Context, cfg Configuration) (TrialReport, error)
}

// Reporter receives each aggregated point as soon as its buffer size is done.
type Reporter interface {
	Point(p Point)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Point)

func (f ReporterFunc) Point(p Point) { f(p) }

// Sweeper iterates the grid and aggregates trial rates.
type Sweeper struct {
	trials   Trialer
	grid     config.SweepConfig
	reporter Reporter
	now      func() time.Time
}

// NewSweeper creates a sweeper. reporter may be nil.
func NewSweeper(trials Trialer, grid config.SweepConfig, reporter Reporter) *Sweeper {
	return &Sweeper{trials: trials, grid: grid, reporter: reporter, now: time.Now}
}

// Configurations lists the grid in execution order: buffer multiplier
// outer, packet multiplier inner.
func Configurations(grid config.SweepConfig) []Configuration {
	var out []Configuration
	for _, s := range grid.BufferMultipliers() {
		for _, nn := range grid.PacketMultipliers() {
			out = append(out, Configuration{
				PacketMultiplier: nn,
				BufferMultiplier: s,
				PacketSize:       nn * grid.PacketBlockSize,
				BufferSize:       s * grid.BufferBlockSize,
			})
		}
	}
	return out
}

// Run executes the sweep. On failure the partial result gathered so far is
// returned alongside the error; no point is emitted for the buffer size
// that failed.
func (s *Sweeper) Run(ctx context.Context) (*Result, error) {
	res := &Result{
		RunID:     uuid.NewString(),
		StartedAt: s.now(),
		Policy:    s.grid.Policy,
		Runs:      s.grid.Runs,
	}
	if res.Policy == "" {
		res.Policy = config.PolicyBest
	}
	defer func() { res.FinishedAt = s.now() }()

	packets := s.grid.PacketMultipliers()
	for _, mult := range s.grid.BufferMultipliers() {
		timer := logging.StartTimer(logging.CategorySweep, fmt.Sprintf("buffer multiplier %d", mult))

		sums := make([]Rates, 0, len(packets))
		for _, nn := range packets {
			cell := Cell{Configuration: Configuration{
				PacketMultiplier: nn,
				BufferMultiplier: mult,
				PacketSize:       nn * s.grid.PacketBlockSize,
				BufferSize:       mult * s.grid.BufferBlockSize,
			}}

			for run := 0; run < s.grid.Runs; run++ {
				if err := ctx.Err(); err != nil {
					c := cell.Configuration
					return res, &Error{Kind: KindCanceled, Config: &c, Err: err}
				}
				tr, err := s.trials.Run(ctx, cell.Configuration)
				if err != nil {
					logging.SweepWarn("trial %d/%d at %s failed: %v", run+1, s.grid.Runs, cell.Configuration, err)
					return res, err
				}
				cell.Sum = cell.Sum.Add(tr.Rates)
				for _, o := range tr.Outcomes {
					if o == verify.Skipped {
						cell.Skipped++
					}
				}
			}

			res.Cells = append(res.Cells, cell)
			sums = append(sums, cell.Sum)
		}

		rates, err := Aggregate(res.Policy, s.grid.Runs, sums)
		if err != nil {
			return res, &Error{Kind: KindSetup, Err: err}
		}
		p := Point{
			BufferMultiplier: mult,
			BufferSize:       mult * s.grid.BufferBlockSize,
			Rates:            rates,
		}
		res.Points = append(res.Points, p)
		timer.Stop()

		if s.reporter != nil {
			s.reporter.Point(p)
		}
	}

	logging.Sweep("sweep %s finished: %d buffer sizes, %d cells", res.RunID, len(res.Points), len(res.Cells))
	return res, nil
}
