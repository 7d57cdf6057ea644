package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fchimpan/kusa-learn/internal/calendar"
	"github.com/fchimpan/kusa-learn/internal/render"
	"github.com/fchimpan/kusa-learn/internal/streak"
)

func newPathCmd(deps Deps, g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the chapters and lesson statuses of the selected course",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(deps, *g)
			if err != nil {
				return err
			}
			sess, _, err := e.loadSession(cmd.Context())
			if err != nil {
				return withAuthHint(deps, err)
			}
			if len(sess.Courses()) == 0 {
				fmt.Fprintln(deps.Stdout, "no courses found")
				return nil
			}

			isTTY, width := false, 0
			if deps.Terminal != nil {
				isTTY, width = deps.Terminal()
			}
			return render.Path(deps.Stdout, sess.View(), render.PathOptions{IsTTY: isTTY, Width: width})
		},
	}
}

func newStreakCmd(deps Deps, g *globalFlags) *cobra.Command {
	var monthStr string

	c := &cobra.Command{
		Use:   "streak",
		Short: "Print the daily streak and a month calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var month time.Time
			if monthStr != "" {
				m, ok := calendar.ParseMonth(monthStr, deps.Now().Location())
				if !ok {
					return fmt.Errorf("invalid --month %q (expected YYYY-MM)", monthStr)
				}
				month = m
			}

			e, err := setup(deps, *g)
			if err != nil {
				return err
			}
			sess, _, err := e.loadSession(cmd.Context())
			if err != nil {
				return withAuthHint(deps, err)
			}

			out := render.Streak(sess.Streak(), sess.CheckIns(), render.StreakOptions{
				Now:   sess.Today(),
				Month: month,
			})
			fmt.Fprintln(deps.Stdout, out)
			return nil
		},
	}

	c.Flags().StringVarP(&monthStr, "month", "m", "", "month to show (YYYY-MM, default: current month)")
	return c
}

func newSaverCmd(deps Deps, g *globalFlags) *cobra.Command {
	var dateStr string
	var local bool

	c := &cobra.Command{
		Use:   "saver",
		Short: "Spend a streak saver on the latest missed day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(deps, *g)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			sess, state, err := e.loadSession(ctx)
			if err != nil {
				return withAuthHint(deps, err)
			}

			var remote streak.RemoteFunc
			if !local {
				r, err := e.remote()
				if err != nil {
					return withAuthHint(deps, err)
				}
				remote = r.UseStreakSaver
			}

			var day time.Time
			if dateStr == "" {
				day, err = sess.UseStreakSaver(ctx, remote)
			} else {
				day, err = restorableDay(dateStr, sess.Today(), e.cfg.LookbackDays)
				if err == nil {
					err = sess.RestoreDay(ctx, day, remote)
				}
			}
			if err != nil {
				return withAuthHint(deps, err)
			}

			if err := e.persist(ctx, sess, state.SyncedAt); err != nil {
				return err
			}
			sum := sess.Streak()
			fmt.Fprintf(deps.Stdout, "restored %s (streak: %d, savers left: %d)\n",
				calendar.NormalizeISODate(day), sum.Length, sum.SaversLeft)
			return nil
		},
	}

	c.Flags().StringVarP(&dateStr, "date", "d", "", "day to restore (YYYY-MM-DD, default: latest missed day)")
	c.Flags().BoolVar(&local, "local", false, "restore in the local state only, without calling the platform")
	return c
}

// restorableDay validates an explicit --date against the lookback window.
func restorableDay(s string, today time.Time, lookback int) (time.Time, error) {
	day, ok := calendar.ParseISODate(s, today.Location())
	if !ok {
		return time.Time{}, fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", s)
	}
	if lookback <= 0 {
		lookback = streak.DefaultLookbackDays
	}
	earliest := calendar.AddDays(today, -lookback)
	if !day.Before(calendar.StartOfDay(today)) || day.Before(earliest) {
		return time.Time{}, fmt.Errorf("--date %s is outside the restorable window %s..%s",
			calendar.NormalizeISODate(day), calendar.NormalizeISODate(earliest), calendar.NormalizeISODate(calendar.AddDays(today, -1)))
	}
	return day, nil
}

func newCheckInCmd(deps Deps, g *globalFlags) *cobra.Command {
	var local bool

	c := &cobra.Command{
		Use:   "checkin",
		Short: "Record today's check-in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(deps, *g)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			sess, state, err := e.loadSession(ctx)
			if err != nil {
				return withAuthHint(deps, err)
			}
			if !local {
				r, err := e.remote()
				if err != nil {
					return withAuthHint(deps, err)
				}
				if err := r.CheckInToday(ctx); err != nil {
					return withAuthHint(deps, fmt.Errorf("failed to check in: %w", err))
				}
			}

			today := sess.CheckIn()
			if err := e.persist(ctx, sess, state.SyncedAt); err != nil {
				return err
			}
			fmt.Fprintf(deps.Stdout, "checked in %s (streak: %d)\n", calendar.NormalizeISODate(today), sess.Streak().Length)
			return nil
		},
	}

	c.Flags().BoolVar(&local, "local", false, "record in the local state only, without calling the platform")
	return c
}

func newSyncCmd(deps Deps, g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch lessons, attempts and streak days from the platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(deps, *g)
			if err != nil {
				return err
			}
			return withAuthHint(deps, runSync(cmd.Context(), e))
		},
	}
}

func runSync(ctx context.Context, e *env) error {
	prev, _, err := e.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	if e.cfg.Course != "" {
		prev.Course = e.cfg.Course
	}
	remote, err := e.remote()
	if err != nil {
		return err
	}
	state, err := e.sync(ctx, remote, prev)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.deps.Stdout, "synced %d records, %d completed, %d check-ins to %s\n",
		len(state.Records), len(state.Completed), len(state.CheckIns), e.store.Path())
	return nil
}
