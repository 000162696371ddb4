// Package capture turns incoming mail into rapid-log entries.
package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"
	"time"

	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"

	"github.com/nhle/bujo/internal/lifecycle"
	"github.com/nhle/bujo/internal/model"
	"github.com/nhle/bujo/internal/rapidlog"
	"github.com/nhle/bujo/internal/store"
)

// AuthError indicates that a mailbox rejected the configured credentials.
type AuthError struct {
	Host    string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.Host, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// Message is one unread mail waiting to be captured.
type Message struct {
	UID       uint32
	MessageID string
	Subject   string
	From      string
	Date      time.Time

	// Raw is the full RFC 5322 message.
	Raw []byte
}

// Mailbox is a source of unread messages.
type Mailbox interface {
	// Unseen returns the messages without the \Seen flag.
	Unseen(ctx context.Context) ([]Message, error)

	// MarkSeen flags a captured message as read.
	MarkSeen(ctx context.Context, uid uint32) error
}

// ItemsFromMessage splits a message into rapid-log items, one per
// non-empty line of its text body. Quoted lines and everything after a
// signature delimiter are dropped. A message without body lines yields
// its subject.
func ItemsFromMessage(m Message) []rapidlog.Item {
	var items []rapidlog.Item
	for _, line := range strings.Split(messageText(m.Raw), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "-- " || strings.TrimSpace(line) == "--" {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ">") {
			continue
		}
		if item := rapidlog.Parse(line); item.Content != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		if item := rapidlog.Parse(m.Subject); item.Content != "" {
			items = append(items, item)
		}
	}
	return items
}

// messageText returns the text/plain body of raw, or the stripped
// text/html body when there is no plain part.
func messageText(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	defer mr.Close()

	var textBody, htmlBody string
	for {
		part, err := mr.NextPart()
		if err != nil {
			break
		}
		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, _ := h.ContentType()
		body, err := io.ReadAll(part.Body)
		if err != nil {
			continue
		}
		switch {
		case contentType == "" || strings.HasPrefix(contentType, "text/plain"):
			if textBody == "" {
				textBody = string(body)
			}
		case strings.HasPrefix(contentType, "text/html"):
			if htmlBody == "" {
				htmlBody = string(body)
			}
		}
	}

	if textBody != "" {
		return textBody
	}
	return stripHTML(htmlBody)
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTML removes tags and decodes common entities, keeping block
// boundaries as line breaks.
func stripHTML(html string) string {
	if html == "" {
		return ""
	}

	result := html
	for _, tag := range []string{
		"<br>", "<br/>", "<br />", "</p>", "</div>", "</li>",
	} {
		result = strings.ReplaceAll(result, tag, "\n")
	}

	result = htmlTagPattern.ReplaceAllString(result, "")

	replacer := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	)
	return strings.TrimSpace(replacer.Replace(result))
}

// Result summarises one capture run.
type Result struct {
	Messages int
	Entries  int
	Skipped  int
	Failed   int
}

// Capturer files unread mail as daily entries of one user.
type Capturer struct {
	engine  *lifecycle.Engine
	mailbox Mailbox
	userID  string
	logger  *log.Logger
}

// NewCapturer creates a Capturer. A nil logger discards output.
func NewCapturer(engine *lifecycle.Engine, mailbox Mailbox, userID string, logger *log.Logger) *Capturer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Capturer{
		engine:  engine,
		mailbox: mailbox,
		userID:  userID,
		logger:  logger,
	}
}

// Run captures every unseen message. Each message's items are created in
// one transaction dated today, after which the message is marked seen. A
// message that fails stays unseen for the next run. A message whose
// Message-ID was captured before is only marked seen.
func (c *Capturer) Run(ctx context.Context) (Result, error) {
	var res Result

	msgs, err := c.mailbox.Unseen(ctx)
	if err != nil {
		return res, fmt.Errorf("listing unseen messages: %w", err)
	}

	for _, m := range msgs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Messages++

		n, err := c.capture(ctx, m)
		if err != nil {
			c.logger.Printf("capture: message %d (%s): %v", m.UID, m.Subject, err)
			res.Failed++
			continue
		}
		if n == 0 {
			res.Skipped++
		}
		res.Entries += n

		if err := c.mailbox.MarkSeen(ctx, m.UID); err != nil {
			c.logger.Printf("capture: marking message %d seen: %v", m.UID, err)
			res.Failed++
		}
	}

	c.logger.Printf("capture: %d messages, %d entries, %d skipped, %d failed",
		res.Messages, res.Entries, res.Skipped, res.Failed)
	return res, nil
}

// Job adapts Run to the poller.
func (c *Capturer) Job() Job {
	return func(ctx context.Context) error {
		_, err := c.Run(ctx)
		return err
	}
}

func (c *Capturer) capture(ctx context.Context, m Message) (int, error) {
	var externalID *string
	if m.MessageID != "" {
		id := m.MessageID
		externalID = &id

		seen, err := c.engine.Store().CountEntries(ctx, c.userID, store.EntryFilter{
			LogTypes:   []model.LogType{model.LogTypeDaily},
			ExternalID: externalID,
		})
		if err != nil {
			return 0, err
		}
		if seen > 0 {
			return 0, nil
		}
	}

	items := ItemsFromMessage(m)
	if len(items) == 0 {
		return 0, nil
	}

	today := c.engine.Today()
	params := make([]lifecycle.CreateParams, len(items))
	for i, item := range items {
		params[i] = lifecycle.CreateParams{
			Type:       item.Type,
			Content:    item.Content,
			LogType:    model.LogTypeDaily,
			Date:       today,
			Tags:       item.Tags,
			Source:     model.SourceExternalIntegration,
			ExternalID: externalID,
		}
	}
	created, err := c.engine.CreateAll(ctx, c.userID, params)
	if err != nil {
		return 0, err
	}
	return len(created), nil
}
