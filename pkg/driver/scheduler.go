package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"sml/analyzer-go/pkg/diag"
	"sml/analyzer-go/pkg/typechecker"
)

// UnitResult is the outcome of checking one top-level unit.
type UnitResult struct {
	Unit        string                 `json:"unit"`
	Path        string                 `json:"path,omitempty"`
	Session     string                 `json:"session"`
	Files       int                    `json:"files"`
	Diagnostics []diag.Diagnostic      `json:"diagnostics"`
	Exports     typechecker.EnvSummary `json:"exports"`
	Duration    time.Duration          `json:"-"`
}

// Scheduler elaborates compilation units. Members of one unit are checked
// sequentially in listed order; independent units run concurrently, each in
// its own session.
type Scheduler struct {
	// Workers bounds the number of units checked at once. Zero means
	// GOMAXPROCS.
	Workers int
	// Overrides adjusts diagnostic severities after checking.
	Overrides diag.Overrides
	Logger    *slog.Logger
}

func (s *Scheduler) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Scheduler) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// CheckUnit elaborates u in a fresh session. Cancellation is observed
// between members.
func (s *Scheduler) CheckUnit(ctx context.Context, u *Unit) (UnitResult, error) {
	if u == nil {
		return UnitResult{}, fmt.Errorf("driver: nil unit")
	}
	id := uuid.Must(uuid.NewV7()).String()
	log := s.logger().With("unit", u.Name, "session", id)
	log.Debug("unit started", "members", len(u.Members))
	start := time.Now()

	session := typechecker.NewSession()
	defer session.Close()
	run := &unitRun{ctx: ctx, session: session, log: log}
	exports, err := run.check(session.Basis(), u)
	if err != nil {
		log.Debug("unit aborted", "error", err)
		return UnitResult{}, fmt.Errorf("driver: unit %s: %w", u.Name, err)
	}

	diags := s.Overrides.Apply(run.diags)
	diag.Sort(diags)
	result := UnitResult{
		Unit:        u.Name,
		Path:        u.Path,
		Session:     id,
		Files:       u.Files(),
		Diagnostics: diags,
		Exports:     session.Summarize(exports),
		Duration:    time.Since(start),
	}
	log.Debug("unit finished", "diagnostics", len(diags), "duration", result.Duration)
	return result, nil
}

// CheckUnits checks every unit, at most Workers at a time. Results are in
// input order. Units that fail do not stop the others; their errors are
// joined.
func (s *Scheduler) CheckUnits(ctx context.Context, units []*Unit) ([]UnitResult, error) {
	results := make([]UnitResult, len(units))
	errs := make([]error, len(units))
	var g errgroup.Group
	g.SetLimit(s.workers())
	for i, u := range units {
		i, u := i, u
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = fmt.Errorf("driver: unit %s: %w", u.Name, err)
				return nil
			}
			results[i], errs[i] = s.CheckUnit(ctx, u)
			return nil
		})
	}
	_ = g.Wait()
	return results, errors.Join(errs...)
}

// CheckSources checks in-memory sources as one unit with default settings.
func CheckSources(ctx context.Context, sources ...Source) (UnitResult, error) {
	var s Scheduler
	return s.CheckUnit(ctx, NewUnit("sources", sources...))
}

type unitRun struct {
	ctx     context.Context
	session *typechecker.Session
	log     *slog.Logger
	diags   []diag.Diagnostic
}

// check elaborates the members of u on top of env and returns what the
// unit binds. A nested unit starts from the basis; its bindings are then
// visible to the members after it.
func (r *unitRun) check(env *typechecker.Env, u *Unit) (*typechecker.Env, error) {
	acc := typechecker.NewEnv(nil)
	for _, m := range u.Members {
		if err := r.ctx.Err(); err != nil {
			return nil, err
		}
		var delta *typechecker.Env
		if m.IsUnit() {
			nested, err := r.check(r.session.Basis(), m.Unit)
			if err != nil {
				return nil, err
			}
			delta = nested
		} else {
			delta = r.checkFile(env, m)
		}
		acc.Absorb(delta)
		env = env.With(delta)
	}
	return acc, nil
}

func (r *unitRun) checkFile(env *typechecker.Env, m Member) *typechecker.Env {
	file, syntax := ParseSource(m.Path, m.Source)
	r.diags = append(r.diags, syntax...)
	if file == nil {
		return typechecker.NewEnv(nil)
	}
	delta, diags := r.session.CheckFile(env, m.Path, file)
	r.log.Debug("member checked", "path", m.Path, "diagnostics", len(diags))
	r.diags = append(r.diags, diags...)
	return delta
}
