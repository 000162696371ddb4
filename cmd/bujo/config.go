package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/bujo/internal/credential"
	"github.com/nhle/bujo/internal/model"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Show or create the configuration file",
		GroupID: "more",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			c := a.cfg
			dsn := "(keyring)"
			if c.Storage.PostgresDSN != "" {
				dsn = "(set)"
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "config file:        %s\n", a.configPath)
			fmt.Fprintf(w, "user:               %s\n", a.userID())
			fmt.Fprintf(w, "storage.backend:    %s\n", c.Storage.Backend)
			fmt.Fprintf(w, "storage.sqlite:     %s\n", c.Storage.SQLitePath)
			fmt.Fprintf(w, "storage.postgres:   %s\n", dsn)
			fmt.Fprintf(w, "capture.email:      enabled=%t host=%s:%s user=%s mailbox=%s every %ds\n",
				c.Capture.Email.Enabled, c.Capture.Email.IMAPHost, c.Capture.Email.IMAPPort,
				c.Capture.Email.Username, c.Capture.Email.Mailbox, c.Capture.Email.PollIntervalSec)
			fmt.Fprintf(w, "display:            color=%t table_style=%s\n", c.Display.Color, c.Display.TableStyle)
		},
	}

	var (
		force      bool
		backend    string
		sqlitePath string
		user       string
	)
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the defaults",
		Args:  cobra.NoArgs,
		// The existing file may be the reason init is run.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(a.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists; use --force to overwrite", a.configPath)
			}

			cfg := model.DefaultAppConfig()
			if backend != "" {
				cfg.Storage.Backend = backend
			}
			if sqlitePath != "" {
				cfg.Storage.SQLitePath = sqlitePath
			}
			if user != "" {
				cfg.User.ID = user
			}
			switch cfg.Storage.Backend {
			case model.BackendSQLite, model.BackendPostgres:
			default:
				return fmt.Errorf("%w: unknown storage backend %q", model.ErrInvalidInput, cfg.Storage.Backend)
			}

			if err := model.SaveConfig(a.configPath, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", a.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	initCmd.Flags().StringVar(&backend, "backend", "", "storage backend: sqlite or postgres")
	initCmd.Flags().StringVar(&sqlitePath, "sqlite-path", "", "journal database file")
	initCmd.Flags().StringVar(&user, "user-id", "", "journal owner")

	cmd.AddCommand(show, initCmd)
	return cmd
}

func validSecretKey(key string) error {
	if !slices.Contains(credential.Keys, key) {
		return fmt.Errorf("%w: unknown secret %q (want one of %s)",
			model.ErrInvalidInput, key, strings.Join(credential.Keys, ", "))
	}
	return nil
}

// readSecret prompts for a secret, or reads the first line of in when
// fromStdin is set.
func readSecret(key string, in io.Reader, fromStdin bool) (string, error) {
	if fromStdin {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading secret: %w", err)
		}
		return strings.TrimSpace(line), nil
	}

	var value string
	err := huh.NewInput().
		Title(key).
		EchoMode(huh.EchoModePassword).
		Value(&value).
		Run()
	return strings.TrimSpace(value), err
}

func newSecretCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "secret",
		Short:     "Store credentials in the system keyring",
		GroupID:   "more",
		ValidArgs: credential.Keys,
	}

	var fromStdin bool
	set := &cobra.Command{
		Use:       "set <key>",
		Short:     "Set " + strings.Join(credential.Keys, " or "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: credential.Keys,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if err := validSecretKey(key); err != nil {
				return err
			}
			value, err := readSecret(key, cmd.InOrStdin(), fromStdin)
			if err != nil {
				return err
			}
			if value == "" {
				return fmt.Errorf("%w: %s must not be empty", model.ErrInvalidInput, key)
			}

			creds, err := credential.Open()
			if err != nil {
				return err
			}
			if err := creds.Set(key, value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s.\n", key)
			return nil
		},
	}
	set.Flags().BoolVar(&fromStdin, "stdin", false, "read the value from standard input")

	del := &cobra.Command{
		Use:       "delete <key>",
		Short:     "Remove a stored credential",
		Args:      cobra.ExactArgs(1),
		ValidArgs: credential.Keys,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if err := validSecretKey(key); err != nil {
				return err
			}
			creds, err := credential.Open()
			if err != nil {
				return err
			}
			if err := creds.Delete(key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", key)
			return nil
		},
	}

	cmd.AddCommand(set, del)
	return cmd
}
