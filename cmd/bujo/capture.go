package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/bujo/internal/capture"
	"github.com/nhle/bujo/internal/credential"
	"github.com/nhle/bujo/internal/model"
)

// newCapturer connects email capture to the configured mailbox.
func (a *app) newCapturer() (*capture.Capturer, error) {
	email := a.cfg.Capture.Email
	if email.IMAPHost == "" || email.Username == "" {
		return nil, fmt.Errorf("%w: email capture needs capture.email.imap_host and capture.email.username",
			model.ErrInvalidInput)
	}

	creds, err := credential.Open()
	if err != nil {
		return nil, err
	}
	password, err := creds.Get(credential.KeyIMAPPassword)
	if err != nil {
		return nil, fmt.Errorf("imap password: %w (run `bujo secret set %s`)", err, credential.KeyIMAPPassword)
	}

	mailbox := capture.NewIMAPMailbox(capture.IMAPConfigFrom(email, password))
	return capture.NewCapturer(a.engine, mailbox, a.userID(), a.logger), nil
}

func newCaptureCmd(a *app) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:     "capture",
		Short:   "File unread mail as today's entries",
		GroupID: "more",
		Long: `Read unseen messages from the configured IMAP mailbox. Each body line is
read as rapid-log notation and logged for today; a message with no usable
lines is logged by its subject. Captured messages are marked seen.

With --watch the mailbox is polled every capture.email.poll_interval_sec
seconds until interrupted.`,
		Args: cobra.NoArgs,
		RunE: a.withEngine(func(cmd *cobra.Command, args []string) error {
			c, err := a.newCapturer()
			if err != nil {
				return err
			}

			if !watch {
				res, err := c.Run(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Captured %d entries from %d messages (%d already captured, %d failed).\n",
					res.Entries, res.Messages, res.Skipped, res.Failed)
				return nil
			}

			if !a.cfg.Capture.Email.Enabled {
				a.logger.Printf("capture.email.enabled is false; watching anyway")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			interval := time.Duration(a.cfg.Capture.Email.PollIntervalSec) * time.Second
			p := capture.NewPoller(a.logger)
			p.Register("email", interval, c.Job())
			p.Start(ctx)
			a.logger.Printf("watching %s every %s", a.cfg.Capture.Email.IMAPHost, interval)

			<-ctx.Done()
			p.Stop()
			reportStatuses(cmd, p.Statuses())
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep polling until interrupted")
	return cmd
}

func reportStatuses(cmd *cobra.Command, statuses []capture.JobStatus) {
	for _, s := range statuses {
		line := fmt.Sprintf("%s: %d runs, %s", s.Name, s.Runs, s.State)
		if s.Error != nil {
			line += ": " + s.Error.Error()
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
}
