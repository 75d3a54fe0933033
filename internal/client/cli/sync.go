package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/daybook/internal/client/syncer"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

func printProgress(w io.Writer, ch <-chan syncer.Progress) {
	for p := range ch {
		if p.Total == 0 {
			continue
		}
		fmt.Fprintf(w, "%s %d/%d\n", p.Phase, p.Current, p.Total)
	}
}

func newSyncCmd(ref *appRef) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull remote changes and push local ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ref.get()
			if err != nil {
				return err
			}

			var progress chan syncer.Progress
			var wg sync.WaitGroup
			if !quiet {
				progress = make(chan syncer.Progress, 16)
				wg.Add(1)
				go func() {
					defer wg.Done()
					printProgress(a.out, progress)
				}()
			}

			res, err := a.engine.Run(cmd.Context(), progress)
			if progress != nil {
				close(progress)
				wg.Wait()
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, syncer.Summary(res))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print progress")
	return cmd
}

// newScheduler returns a started cron that calls kick on schedule, or nil when
// schedule is empty.
func newScheduler(schedule string, kick func()) (*cron.Cron, error) {
	if schedule == "" {
		return nil, nil
	}
	c := cron.New()
	if _, err := c.AddFunc(schedule, kick); err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", schedule, err)
	}
	c.Start()
	return c, nil
}

func newWatchCmd(ref *appRef) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stay running, syncing when the server comes online and on schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ref.get()
			if err != nil {
				return err
			}
			if a.remote == nil {
				return syncer.ErrNotConfigured
			}
			ctx := cmd.Context()

			sched, err := newScheduler(a.config.SyncSchedule, a.trigger.Kick)
			if err != nil {
				return err
			}
			if sched != nil {
				defer func() { <-sched.Stop().Done() }()
			}

			fmt.Fprintf(a.out, "Watching %s, press Ctrl+C to stop\n", a.config.ServerEndpointAddr)
			a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
			return nil
		},
	}
}
