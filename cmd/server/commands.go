package main

import (
	"context"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/edupass/internal/server"
	"github.com/dmitrijs2005/edupass/internal/server/config"
	"github.com/spf13/cobra"
)

const configHelp = `Configuration is read from defaults, then a JSON file (-c/-config),
then environment variables, then these flags:

  -a  HTTP address          -g  gRPC address
  -D  database driver       -d  database DSN or SQLite path
  -s  JWT secret            -k  encryption passphrase
  -t  token validity (min)  -bc bcrypt cost
  -l  log level             -o  CORS origins (comma separated)
  -ra redis address         -rp redis password    -rt cache TTL (s)
  -bd backup driver         -u/-p S3 user/password
  -b  S3 bucket             -r  S3 region          -e  S3 endpoint
  -ssl=true  TLS for MinIO`

// appFactory is replaced in tests.
var appFactory = func(ctx context.Context, c *config.Config) (application, error) {
	app, err := server.NewApp(ctx, c)
	if err != nil {
		return nil, err
	}
	return app, nil
}

type application interface {
	Run(ctx context.Context) error
	Migrate(ctx context.Context) error
	Seed(ctx context.Context) (int, error)
	Backup(ctx context.Context) (string, error)
	Close() error
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "edupass",
		Short:         "EduPass - shared credential vault for school staff.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		appCommand("serve", "Run migrations, seed the catalog and serve the API", func(ctx context.Context, cmd *cobra.Command, app application) error {
			return app.Run(ctx)
		}),
		appCommand("migrate", "Apply database migrations and exit", func(ctx context.Context, cmd *cobra.Command, app application) error {
			return app.Migrate(ctx)
		}),
		appCommand("seed", "Install the default site catalog and exit", func(ctx context.Context, cmd *cobra.Command, app application) error {
			if err := app.Migrate(ctx); err != nil {
				return err
			}
			added, err := app.Seed(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sites added: %d\n", added)
			return nil
		}),
		appCommand("backup", "Upload a vault snapshot to object storage", func(ctx context.Context, cmd *cobra.Command, app application) error {
			key, err := app.Backup(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "backup written: %s\n", key)
			return nil
		}),
	)

	return root
}

// appCommand builds a subcommand whose flags go to config.LoadConfig
// rather than cobra.
func appCommand(use, short string, run func(ctx context.Context, cmd *cobra.Command, app application) error) *cobra.Command {
	return &cobra.Command{
		Use:                use + " [flags]",
		Short:              short,
		Long:               short + ".\n\n" + configHelp,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if slices.Contains(args, "-h") || slices.Contains(args, "--help") {
				return cmd.Help()
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			app, err := appFactory(ctx, config.LoadConfig(args))
			if err != nil {
				return err
			}
			defer app.Close()

			return run(ctx, cmd, app)
		},
	}
}
