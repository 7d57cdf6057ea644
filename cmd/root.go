package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cli/go-gh/v2/pkg/term"
	"github.com/spf13/cobra"

	"github.com/fchimpan/kusa-learn/internal/config"
	"github.com/fchimpan/kusa-learn/internal/platform"
	"github.com/fchimpan/kusa-learn/internal/progress"
	"github.com/fchimpan/kusa-learn/internal/store"
	"github.com/fchimpan/kusa-learn/internal/tui"
)

// Remote is the subset of the platform API the commands use.
type Remote interface {
	FetchTestsTree(ctx context.Context) ([]progress.Record, error)
	FetchUserTests(ctx context.Context) ([]progress.Attempt, error)
	FetchDailyStreak(ctx context.Context) (platform.DailyStreak, error)
	UseStreakSaver(ctx context.Context, day time.Time) error
	CheckInToday(ctx context.Context) error
}

type StateStore interface {
	Path() string
	Load(ctx context.Context) (store.State, bool, error)
	Save(ctx context.Context, state store.State) error
}

type Deps struct {
	LoadConfig func(file string) (config.Config, error)
	OpenStore  func(path string) (StateStore, error)
	// NewRemote builds the platform client. httpLog is non-nil in verbose mode.
	NewRemote func(cfg config.Config, httpLog io.Writer) (Remote, error)
	RunTUI    func(opts tui.Options) error
	Terminal  func() (isTTY bool, width int)
	Now       func() time.Time
	Stdout    io.Writer
	Stderr    io.Writer
}

func DefaultDeps() Deps {
	return Deps{
		LoadConfig: func(file string) (config.Config, error) {
			return config.Load(config.Options{File: file})
		},
		OpenStore: func(path string) (StateStore, error) {
			return store.Open(path)
		},
		NewRemote: newPlatformClient,
		RunTUI:    defaultRunTUI,
		Terminal:  terminalInfo,
		Now:       time.Now,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

func newPlatformClient(cfg config.Config, httpLog io.Writer) (Remote, error) {
	c, err := platform.NewClient(platform.Options{
		BaseURL: cfg.BaseURL,
		Token:   cfg.Token,
		Timeout: cfg.Timeout,
		Log:     httpLog,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func terminalInfo() (bool, int) {
	t := term.FromEnv()
	width, _, err := t.Size()
	if err != nil || width <= 0 {
		width = 80
	}
	return t.IsTerminalOutput(), width
}

type globalFlags struct {
	configFile string
	verbose    bool
	course     string
}

func NewRootCmd(deps Deps) *cobra.Command {
	var g globalFlags

	c := &cobra.Command{
		Use:          "kusa-learn",
		Short:        "Follow your learning path and keep your daily streak green",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAuthHint(deps, runTUI(cmd.Context(), deps, g))
		},
	}

	pf := c.PersistentFlags()
	pf.StringVarP(&g.configFile, "config", "c", "", "config file (default ~/.config/kusa-learn/config.toml)")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "log debug output and HTTP traffic to stderr")
	pf.StringVar(&g.course, "course", "", "course id to show (default: last selected or first course)")

	c.AddCommand(
		newPathCmd(deps, &g),
		newStreakCmd(deps, &g),
		newSaverCmd(deps, &g),
		newCheckInCmd(deps, &g),
		newSyncCmd(deps, &g),
	)

	c.SetOut(deps.Stdout)
	c.SetErr(deps.Stderr)
	return c
}

func withAuthHint(deps Deps, err error) error {
	if err != nil && platform.IsAuthError(err) {
		fmt.Fprintln(deps.Stderr, "hint: set KUSA_LEARN_TOKEN or api.token in ~/.config/kusa-learn/config.toml")
	}
	return err
}

func runTUI(ctx context.Context, deps Deps, g globalFlags) error {
	e, err := setup(deps, g)
	if err != nil {
		return err
	}
	if deps.RunTUI == nil {
		return fmt.Errorf("deps.RunTUI is nil")
	}

	sess, state, err := e.loadSession(ctx)
	if err != nil {
		return err
	}

	opts := tui.Options{
		Session:  sess,
		SyncedAt: state.SyncedAt,
		Timeout:  e.cfg.Timeout,
		Persist:  e.store.Save,
	}
	if remote, err := e.remote(); err == nil {
		opts.Saver = remote.UseStreakSaver
		opts.Sync = func(ctx context.Context, prev store.State) (store.State, error) {
			return fetchState(ctx, remote, prev, deps.Now())
		}
	} else {
		e.log.Warn("running offline", "error", err)
	}

	return deps.RunTUI(opts)
}
