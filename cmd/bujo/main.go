// Package main implements the bujo command line: a bullet journal whose
// daily, monthly and future logs stay in sync as tasks are planned,
// migrated and resolved.
//
// Configuration is read from ~/.config/bujo/config.yaml (see --config) and
// BUJO_* environment variables. Secrets live in the system keyring.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/bujo/internal/collections"
	"github.com/nhle/bujo/internal/credential"
	"github.com/nhle/bujo/internal/lifecycle"
	"github.com/nhle/bujo/internal/model"
	"github.com/nhle/bujo/internal/render"
	"github.com/nhle/bujo/internal/store"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// app carries the state shared by every command of one invocation.
type app struct {
	configPath string
	userFlag   string
	verbose    bool

	cfg    *model.AppConfig
	logger *log.Logger

	st     *store.SQLStore
	engine *lifecycle.Engine
	coll   *collections.Service
}

// userID picks the journal owner: --user, then BUJO_USER, then user.id.
func (a *app) userID() string {
	if a.userFlag != "" {
		return a.userFlag
	}
	if env := strings.TrimSpace(os.Getenv("BUJO_USER")); env != "" {
		return env
	}
	return a.cfg.User.ID
}

func (a *app) debugf(format string, args ...any) {
	if a.verbose {
		a.logger.Printf(format, args...)
	}
}

// open connects the store and builds the engine on first use.
func (a *app) open(ctx context.Context) error {
	if a.engine != nil {
		return nil
	}

	storage := a.cfg.Storage
	if storage.Backend == model.BackendPostgres && storage.PostgresDSN == "" {
		creds, err := credential.Open()
		if err != nil {
			return err
		}
		dsn, err := creds.Resolve(storage.PostgresDSN, credential.KeyPostgresDSN)
		if err != nil {
			return fmt.Errorf("postgres dsn: %w (set storage.postgres_dsn or run `bujo secret set %s`)",
				err, credential.KeyPostgresDSN)
		}
		storage.PostgresDSN = dsn
	}

	st, err := store.Open(ctx, storage)
	if err != nil {
		return err
	}
	a.debugf("opened %s store", storage.Backend)

	a.st = st
	a.engine = lifecycle.New(st, lifecycle.WithLogger(a.logger))
	a.coll = collections.New(a.engine)
	return nil
}

func (a *app) close() {
	if a.st == nil {
		return
	}
	if err := a.st.Close(); err != nil {
		a.logger.Printf("closing store: %v", err)
	}
	a.st, a.engine, a.coll = nil, nil, nil
}

func (a *app) renderer(w io.Writer) *render.Renderer {
	return render.New(w, a.cfg.Display)
}

// withEngine wraps a command body that needs the journal.
func (a *app) withEngine(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.open(cmd.Context()); err != nil {
			return err
		}
		return fn(cmd, args)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "bujo",
		Short:         "A bullet journal for the terminal",
		Long:          `bujo keeps daily, monthly and future logs in sync: completing a task on any day completes it everywhere in its month, and migrated tasks leave a trail behind them.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := model.LoadConfig(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.debugf("config %s, user %s", a.configPath, a.userID())
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", model.DefaultConfigPath(), "config file")
	root.PersistentFlags().StringVar(&a.userFlag, "user", "", "journal owner (default BUJO_USER or user.id)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log progress to stderr")

	root.AddGroup(
		&cobra.Group{ID: "log", Title: "Logging:"},
		&cobra.Group{ID: "views", Title: "Views:"},
		&cobra.Group{ID: "migrate", Title: "Planning and migration:"},
		&cobra.Group{ID: "more", Title: "Collections and integrations:"},
	)

	root.AddCommand(
		newAddCmd(a), newDoneCmd(a), newCancelCmd(a), newEditCmd(a), newRmCmd(a),
		newDayCmd(a), newMonthCmd(a), newFutureCmd(a), newUnassignedCmd(a), newHistoryCmd(a),
		newPlanCmd(a), newMigrateCmd(a), newMigrateMonthCmd(a), newMigrateAllCmd(a),
		newCollectionsCmd(a), newMeetingsCmd(a), newMCPCmd(a), newCaptureCmd(a),
		newConfigCmd(a), newSecretCmd(a), newVersionCmd(), newCompletionCmd(root),
	)
	return root
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for bujo.

  Bash:
    $ source <(bujo completion bash)

  Zsh:
    $ bujo completion zsh > "${fpath[1]}/_bujo"

  Fish:
    $ bujo completion fish > ~/.config/fish/completions/bujo.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             completionShells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		PersistentPreRunE:     func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return root.GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return root.GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return root.GenPowerShellCompletion(cmd.OutOrStdout())
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "version",
		Short:             "Print the bujo version",
		Args:              cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	a := &app{logger: log.New(stderr, "[bujo] ", log.LstdFlags)}

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		a.close()
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
