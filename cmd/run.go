package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/fchimpan/kusa-learn/internal/config"
	"github.com/fchimpan/kusa-learn/internal/logging"
	"github.com/fchimpan/kusa-learn/internal/progress"
	"github.com/fchimpan/kusa-learn/internal/session"
	"github.com/fchimpan/kusa-learn/internal/store"
)

// env is the per-invocation wiring shared by every command.
type env struct {
	deps    Deps
	cfg     config.Config
	log     *slog.Logger
	store   StateStore
	verbose bool
}

func setup(deps Deps, g globalFlags) (*env, error) {
	if deps.LoadConfig == nil {
		return nil, fmt.Errorf("deps.LoadConfig is nil")
	}
	if deps.OpenStore == nil {
		return nil, fmt.Errorf("deps.OpenStore is nil")
	}
	if deps.NewRemote == nil {
		return nil, fmt.Errorf("deps.NewRemote is nil")
	}
	if deps.Now == nil {
		return nil, fmt.Errorf("deps.Now is nil")
	}

	log := logging.Discard()
	if deps.Stderr != nil {
		log = logging.Setup(deps.Stderr, g.verbose)
	}

	cfg, err := deps.LoadConfig(g.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if g.course != "" {
		cfg.Course = g.course
	}

	st, err := deps.OpenStore(cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open state: %w", err)
	}

	log.Debug("config loaded",
		"file", cfg.File,
		"state", st.Path(),
		"base_url", cfg.BaseURL,
		"token", logging.MaskToken(cfg.Token),
		"charge_policy", cfg.ChargePolicy.String(),
	)
	return &env{deps: deps, cfg: cfg, log: log, store: st, verbose: g.verbose}, nil
}

func (e *env) remote() (Remote, error) {
	var httpLog io.Writer
	if e.verbose {
		httpLog = e.deps.Stderr
	}
	return e.deps.NewRemote(e.cfg, httpLog)
}

func (e *env) newSession() *session.Session {
	return session.New(session.Options{
		LookbackDays: e.cfg.LookbackDays,
		Policy:       e.cfg.ChargePolicy,
		Now:          e.deps.Now,
	})
}

// loadSession restores the stored snapshot, syncing first when there is none.
func (e *env) loadSession(ctx context.Context) (*session.Session, store.State, error) {
	state, found, err := e.store.Load(ctx)
	if err != nil {
		return nil, store.State{}, fmt.Errorf("failed to load state: %w", err)
	}
	if !found {
		e.log.Info("no local state, syncing", "path", e.store.Path())
		remote, err := e.remote()
		if err != nil {
			return nil, store.State{}, err
		}
		state, err = e.sync(ctx, remote, state)
		if err != nil {
			return nil, store.State{}, err
		}
	}

	sess := e.newSession()
	state.Apply(sess, e.cfg.Budget)
	if e.cfg.Course != "" {
		sess.SelectCourse(e.cfg.Course)
	}
	return sess, state, nil
}

// sync fetches the platform state and writes it to the store.
func (e *env) sync(ctx context.Context, remote Remote, prev store.State) (store.State, error) {
	state, err := fetchState(ctx, remote, prev, e.deps.Now())
	if err != nil {
		return store.State{}, err
	}
	if err := e.store.Save(ctx, state); err != nil {
		return store.State{}, fmt.Errorf("failed to save state: %w", err)
	}
	e.log.Debug("state synced",
		"records", len(state.Records),
		"completed", len(state.Completed),
		"checkins", len(state.CheckIns),
	)
	return state, nil
}

func (e *env) persist(ctx context.Context, sess *session.Session, syncedAt time.Time) error {
	if err := e.store.Save(ctx, store.Capture(sess, syncedAt)); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// fetchState pulls the tests tree, attempts and streak days. prev supplies the
// course selection and the saver budget when the platform reports none.
func fetchState(ctx context.Context, remote Remote, prev store.State, now time.Time) (store.State, error) {
	records, err := remote.FetchTestsTree(ctx)
	if err != nil {
		return store.State{}, fmt.Errorf("failed to fetch tests tree: %w", err)
	}
	attempts, err := remote.FetchUserTests(ctx)
	if err != nil {
		return store.State{}, fmt.Errorf("failed to fetch test attempts: %w", err)
	}
	daily, err := remote.FetchDailyStreak(ctx)
	if err != nil {
		return store.State{}, fmt.Errorf("failed to fetch daily streak: %w", err)
	}

	completed := progress.CompletedFromAttempts(attempts).IDs()
	sort.Strings(completed)

	budget := prev.Budget
	if daily.SaversLeft != nil {
		n := *daily.SaversLeft
		budget = &n
	}

	return store.State{
		Course:    prev.Course,
		Budget:    budget,
		SyncedAt:  now,
		Completed: completed,
		CheckIns:  daily.CheckIns,
		Records:   records,
	}, nil
}
