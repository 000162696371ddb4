package capture

import (
	"context"
	"fmt"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"github.com/nhle/bujo/internal/model"
)

// IMAPConfig holds the connection settings of an IMAP mailbox.
type IMAPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	TLS      bool
	Mailbox  string
}

// IMAPConfigFrom builds an IMAPConfig from the capture settings and the
// resolved password.
func IMAPConfigFrom(cfg model.EmailCaptureConfig, password string) IMAPConfig {
	return IMAPConfig{
		Host:     cfg.IMAPHost,
		Port:     cfg.IMAPPort,
		Username: cfg.Username,
		Password: password,
		TLS:      cfg.TLS,
		Mailbox:  cfg.Mailbox,
	}
}

// maxFetch caps how many unseen messages one run downloads.
const maxFetch = 100

// IMAPMailbox implements Mailbox over go-imap v2. Every call opens its own
// connection.
type IMAPMailbox struct {
	cfg IMAPConfig
}

var _ Mailbox = (*IMAPMailbox)(nil)

// NewIMAPMailbox creates a mailbox for cfg. An empty mailbox name selects
// INBOX.
func NewIMAPMailbox(cfg IMAPConfig) *IMAPMailbox {
	if cfg.Mailbox == "" {
		cfg.Mailbox = "INBOX"
	}
	return &IMAPMailbox{cfg: cfg}
}

// connect dials, authenticates and selects the configured mailbox. The
// caller must Logout the returned client.
func (m *IMAPMailbox) connect(_ context.Context) (*imapclient.Client, error) {
	addr := m.cfg.Host + ":" + m.cfg.Port

	var client *imapclient.Client
	var err error

	if m.cfg.TLS {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(m.cfg.Username, m.cfg.Password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, &AuthError{
			Host:    m.cfg.Host,
			Message: fmt.Sprintf("authentication failed for %s: %v", m.cfg.Username, err),
		}
	}

	if _, err := client.Select(m.cfg.Mailbox, nil).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("selecting %s: %w", m.cfg.Mailbox, err)
	}

	return client, nil
}

// Unseen fetches the envelope and full body of up to maxFetch unseen
// messages, oldest first. Bodies are fetched with PEEK so reading does not
// set \Seen.
func (m *IMAPMailbox) Unseen(ctx context.Context) ([]Message, error) {
	client, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
	}
	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching unseen messages: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}
	if len(uids) > maxFetch {
		uids = uids[:maxFetch]
	}

	bodySection := &imap.FetchItemBodySection{Peek: true}
	fetchOpts := &imap.FetchOptions{
		Envelope:    true,
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	fetchCmd := client.Fetch(imap.UIDSetNum(uids...), fetchOpts)
	defer fetchCmd.Close()

	var msgs []Message
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fm := fetchCmd.Next()
		if fm == nil {
			break
		}
		buf, err := fm.Collect()
		if err != nil {
			continue
		}
		msgs = append(msgs, messageFromBuffer(buf, bodySection))
	}

	if err := fetchCmd.Close(); err != nil {
		return msgs, fmt.Errorf("fetching unseen messages: %w", err)
	}
	return msgs, nil
}

// MarkSeen adds the \Seen flag to the message with the given UID.
func (m *IMAPMailbox) MarkSeen(ctx context.Context, uid uint32) error {
	client, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Logout().Wait() }()

	storeCmd := client.Store(imap.UIDSetNum(imap.UID(uid)), &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagSeen},
	}, nil)
	if err := storeCmd.Close(); err != nil {
		return fmt.Errorf("flagging message %d seen: %w", uid, err)
	}
	return nil
}

func messageFromBuffer(buf *imapclient.FetchMessageBuffer, section *imap.FetchItemBodySection) Message {
	msg := Message{
		UID: uint32(buf.UID),
		Raw: buf.FindBodySection(section),
	}

	if buf.Envelope != nil {
		msg.MessageID = buf.Envelope.MessageID
		msg.Subject = buf.Envelope.Subject
		msg.Date = buf.Envelope.Date

		if len(buf.Envelope.From) > 0 {
			from := buf.Envelope.From[0]
			if from.Name != "" {
				msg.From = from.Name
			} else {
				msg.From = from.Addr()
			}
		}
	}

	return msg
}
