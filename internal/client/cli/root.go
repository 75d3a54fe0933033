package cli

import (
	"context"
	"errors"
	"io"

	"github.com/dmitrijs2005/daybook/internal/client/config"
	"github.com/spf13/cobra"
)

var errNoApp = errors.New("application not initialised")

// appRef is filled by the root pre-run hook and read by subcommands.
type appRef struct {
	app *App
}

func (r *appRef) get() (*App, error) {
	if r.app == nil {
		return nil, errNoApp
	}
	return r.app, nil
}

// NewRootCommand builds the command tree. Persistent flags override cfg;
// the returned appRef holds the App once a command has started.
func NewRootCommand(cfg *config.Config) (*cobra.Command, *appRef) {
	ref := &appRef{}
	var quota, configPath string

	root := &cobra.Command{
		Use:           "daybook",
		Short:         "An offline-first daily journal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if quota != "" {
				q, err := config.ParseQuota(quota)
				if err != nil {
					return err
				}
				cfg.StorageQuota = q
			}
			app, err := NewApp(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			ref.app = app
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "JSON config file")
	pf.StringVarP(&cfg.ServerEndpointAddr, "server", "a", cfg.ServerEndpointAddr, "sync server address (empty disables sync)")
	pf.DurationVarP(&cfg.OnlineCheckInterval, "interval", "i", cfg.OnlineCheckInterval, "online check interval")
	pf.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "path of the local journal database")
	pf.StringVar(&quota, "quota", "", "local storage quota, e.g. 50MB (0 = unlimited)")
	pf.DurationVar(&cfg.SyncCallTimeout, "sync-timeout", cfg.SyncCallTimeout, "timeout of each remote call during sync")
	pf.StringVar(&cfg.SyncSchedule, "schedule", cfg.SyncSchedule, "cron schedule for periodic sync in watch mode")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")

	root.AddCommand(
		newRegisterCmd(ref),
		newLoginCmd(ref),
		newLogoutCmd(ref),
		newAddCmd(ref),
		newEditCmd(ref),
		newShowCmd(ref),
		newListCmd(ref),
		newDeleteCmd(ref),
		newDraftCmd(ref),
		newSyncCmd(ref),
		newWatchCmd(ref),
		newStatsCmd(ref),
		newUsageCmd(ref),
		newExportCmd(ref),
		newImportCmd(ref),
	)
	return root, ref
}

// Run executes the CLI with args and releases the App afterwards.
func Run(ctx context.Context, cfg *config.Config, args []string, in io.Reader, out io.Writer) error {
	root, ref := NewRootCommand(cfg)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(out)

	err := root.ExecuteContext(ctx)
	if ref.app != nil {
		err = errors.Join(err, ref.app.Close())
	}
	return err
}
