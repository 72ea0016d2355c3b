// Package sweep runs batches of independent bean-machine experiments.
//
// Each experiment owns its machine and random source, so experiments run on
// separate goroutines while every machine still steps in lockstep.
package sweep

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"quincunx/internal/galton"
	"quincunx/internal/logging"
	prng "quincunx/pkg/core"
)

// Round is the outcome of one pass of beads through a machine.
type Round struct {
	Counts  []int   `json:"counts"`
	Average float64 `json:"average"`
	Ticks   int     `json:"ticks"`
}

// Result is the outcome of an experiment, one round per replay.
type Result struct {
	RunID  string  `json:"run_id"`
	Name   string  `json:"name"`
	Mode   string  `json:"mode"`
	Slots  int     `json:"slots"`
	Beads  int     `json:"beads"`
	Seed   int64   `json:"seed"`
	Trim   string  `json:"trim,omitempty"`
	Rounds []Round `json:"rounds"`

	Elapsed time.Duration `json:"elapsed_ns"`
}

// Runner executes plans.
type Runner struct {
	// Workers overrides the plan's worker count when positive.
	Workers int

	// IDs assigns run IDs. Defaults to UUIDv7Generator.
	IDs IDGenerator

	// Logger receives progress records. Defaults to a discarding logger.
	Logger *slog.Logger
}

type job struct {
	index int
	runID string
	exp   Experiment
	cfg   galton.Config
}

// Run executes every experiment in the plan and returns results in plan
// order. If ctx is cancelled, experiments not yet started are skipped and
// ctx.Err() is returned alongside the results that finished.
func (r *Runner) Run(ctx context.Context, plan *Plan) ([]Result, error) {
	ids := r.IDs
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	log := r.Logger
	if log == nil {
		log = logging.Discard()
	}
	workers := r.Workers
	if workers <= 0 {
		workers = plan.Workers
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, len(plan.Experiments))

	jobs := make([]job, len(plan.Experiments))
	for i, e := range plan.Experiments {
		jobs[i] = job{index: i, runID: ids.Generate(), exp: e, cfg: plan.config(i)}
	}

	log.Info("sweep started", "plan", plan.Name, "experiments", len(jobs), "workers", workers)
	start := time.Now()

	queue := make(chan job)
	results := make([]Result, len(jobs))
	done := make([]bool, len(jobs))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				t0 := time.Now()
				res := runExperiment(j)
				res.Elapsed = time.Since(t0)
				results[j.index] = res
				done[j.index] = true
				log.Debug("experiment finished", "name", j.exp.Name, "run_id", j.runID, "elapsed", res.Elapsed)
			}
		}()
	}

	var err error
dispatch:
	for _, j := range jobs {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break dispatch
		case queue <- j:
		}
	}
	close(queue)
	wg.Wait()

	finished := make([]Result, 0, len(results))
	for i, res := range results {
		if done[i] {
			finished = append(finished, res)
		}
	}
	log.Info("sweep finished", "plan", plan.Name, "completed", len(finished), "elapsed", time.Since(start))
	return finished, err
}

func runExperiment(j job) Result {
	cfg := j.cfg
	res := Result{
		RunID: j.runID,
		Name:  j.exp.Name,
		Mode:  cfg.Mode.String(),
		Slots: cfg.Slots,
		Beads: cfg.Beads,
		Seed:  cfg.Seed,
		Trim:  j.exp.Trim,
	}

	m := galton.New(cfg.Slots)
	m.Reset(galton.Population(cfg, prng.NewRNG(cfg.Seed)))
	for round := 0; round <= j.exp.Repeats; round++ {
		if round > 0 {
			m.Repeat()
		}
		ticks := 0
		for m.Step() {
			ticks++
		}
		switch j.exp.Trim {
		case TrimUpper:
			m.UpperHalf()
		case TrimLower:
			m.LowerHalf()
		}
		res.Rounds = append(res.Rounds, Round{
			Counts:  m.Counts(),
			Average: m.Average(),
			Ticks:   ticks,
		})
	}
	return res
}
