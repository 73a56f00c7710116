package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"backend/models"
	"backend/repository"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"go.uber.org/zap"
)

// rfpIDPattern matches the 24-hex correlation key embedded in outbound
// subject lines.
var rfpIDPattern = regexp.MustCompile(`(?i)[a-f0-9]{24}`)

// ExtractRFPID pulls the RFP correlation key out of a reply subject line.
// Returns empty when the subject carries no 24-hex token.
func ExtractRFPID(subject string) string {
	return strings.ToLower(rfpIDPattern.FindString(subject))
}

// IMAPConfig holds inbound mailbox settings.
type IMAPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// IMAPConfigFromEnv reads IMAP settings from the environment. Host defaults
// to imap.gmail.com and port to 993.
func IMAPConfigFromEnv() IMAPConfig {
	port := 993
	if v := os.Getenv("IMAP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		}
	}
	cfg := IMAPConfig{
		Host:     os.Getenv("IMAP_HOST"),
		Port:     port,
		Username: os.Getenv("IMAP_USER"),
		Password: os.Getenv("IMAP_PASSWORD"),
	}
	if cfg.Host == "" {
		cfg.Host = "imap.gmail.com"
	}
	return cfg
}

// maxConcurrentEmails bounds the fan-out when processing a poll batch so a
// flood of replies cannot exhaust LLM quota or database connections.
const maxConcurrentEmails = 4

// perEmailTimeout bounds the extraction and scoring work for one reply.
const perEmailTimeout = 2 * time.Minute

// InboxService polls the IMAP inbox for vendor replies and turns them into
// proposals.
type InboxService struct {
	cfg       IMAPConfig
	vendors   repository.VendorStore
	proposals *ProposalService
	logger    *zap.Logger
}

// NewInboxService wires an InboxService.
func NewInboxService(cfg IMAPConfig, vendors repository.VendorStore, proposals *ProposalService, logger *zap.Logger) *InboxService {
	return &InboxService{cfg: cfg, vendors: vendors, proposals: proposals, logger: logger}
}

// Poll fetches unseen messages from the last 24 hours, processes each into a
// proposal where possible, and marks every fetched message seen whether or
// not it produced a proposal. Connection, login, select, search and fetch
// failures abort the cycle; per-message failures are logged and skipped.
func (s *InboxService) Poll(ctx context.Context) ([]*models.Proposal, error) {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	c, err := imapclient.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to imap server %s: %w", addr, err)
	}
	defer func() {
		if err := c.Logout().Wait(); err != nil {
			s.logger.Warn("imap logout failed", zap.Error(err))
		}
	}()

	if err := c.Login(s.cfg.Username, s.cfg.Password).Wait(); err != nil {
		return nil, fmt.Errorf("imap login: %w", err)
	}

	if _, err := c.Select("INBOX", nil).Wait(); err != nil {
		return nil, fmt.Errorf("selecting inbox: %w", err)
	}

	since := time.Now().Add(-24 * time.Hour)
	searchData, err := c.Search(&imap.SearchCriteria{
		Since:   since,
		NotFlag: []imap.Flag{imap.FlagSeen},
	}, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching for unseen messages: %w", err)
	}

	seqNums := searchData.AllSeqNums()
	s.logger.Info("inbox poll", zap.Int("unseen", len(seqNums)))
	if len(seqNums) == 0 {
		return []*models.Proposal{}, nil
	}

	seqSet := imap.SeqSetNum(seqNums...)
	section := &imap.FetchItemBodySection{}
	msgs, err := c.Fetch(seqSet, &imap.FetchOptions{
		Envelope:    true,
		BodySection: []*imap.FetchItemBodySection{section},
	}).Collect()
	if err != nil {
		return nil, fmt.Errorf("fetching messages: %w", err)
	}

	var (
		mu        sync.Mutex
		proposals []*models.Proposal
		wg        sync.WaitGroup
		sem       = make(chan struct{}, maxConcurrentEmails)
	)

	for _, msg := range msgs {
		body := msg.FindBodySection(section)
		if body == nil {
			s.logger.Warn("message without body section", zap.Uint32("seq", uint32(msg.SeqNum)))
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(seq uint32, raw []byte) {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("panic processing email", zap.Uint32("seq", seq), zap.Any("panic", r))
				}
			}()

			emailCtx, cancel := context.WithTimeout(ctx, perEmailTimeout)
			defer cancel()

			proposal, err := s.processEmail(emailCtx, raw)
			if err != nil {
				s.logger.Warn("skipping email", zap.Uint32("seq", seq), zap.Error(err))
				return
			}
			if proposal != nil {
				mu.Lock()
				proposals = append(proposals, proposal)
				mu.Unlock()
			}
		}(uint32(msg.SeqNum), body)
	}

	wg.Wait()

	// Mark the whole batch seen so unprocessable messages are not retried
	// forever on every poll cycle.
	if err := c.Store(seqSet, &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagSeen},
	}, nil).Close(); err != nil {
		s.logger.Error("marking messages seen failed", zap.Error(err))
	}

	s.logger.Info("inbox poll complete",
		zap.Int("fetched", len(msgs)),
		zap.Int("proposals", len(proposals)))

	return proposals, nil
}

// processEmail parses one raw message and runs the intake rules: the sender
// must match a registered vendor, the subject must carry an RFP id, and the
// (rfp, vendor) pair must not already have a proposal.
func (s *InboxService) processEmail(ctx context.Context, raw []byte) (*models.Proposal, error) {
	email, err := ParseInboundMessage(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing message: %w", err)
	}

	vendor, err := s.vendors.GetByEmail(ctx, email.From)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("sender %s is not a registered vendor", email.From)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up vendor: %w", err)
	}

	rfpID := ExtractRFPID(email.Subject)
	if rfpID == "" {
		return nil, fmt.Errorf("subject %q carries no rfp reference", email.Subject)
	}

	exists, err := s.proposals.Exists(ctx, rfpID, vendor.ID)
	if err != nil {
		return nil, fmt.Errorf("checking for existing proposal: %w", err)
	}
	if exists {
		s.logger.Info("proposal already exists, skipping",
			zap.String("rfp_id", rfpID),
			zap.String("vendor_id", vendor.ID))
		return nil, nil
	}

	proposal, err := s.proposals.CreateFromEmail(ctx, *email, rfpID, vendor.ID)
	if errors.Is(err, repository.ErrDuplicateProposal) {
		s.logger.Info("duplicate proposal insert lost race, skipping",
			zap.String("rfp_id", rfpID),
			zap.String("vendor_id", vendor.ID))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return proposal, nil
}

// ParseInboundMessage decodes a raw RFC 5322 message into an InboundEmail.
// Inline parts populate the text and HTML bodies; everything else becomes an
// attachment, with text-typed attachment content captured for the extractor.
func ParseInboundMessage(raw []byte) (*InboundEmail, error) {
	mr, err := mail.CreateReader(strings.NewReader(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("creating mail reader: %w", err)
	}

	email := &InboundEmail{}

	if addrs, err := mr.Header.AddressList("From"); err == nil && len(addrs) > 0 {
		email.From = strings.ToLower(strings.TrimSpace(addrs[0].Address))
	}
	if subject, err := mr.Header.Subject(); err == nil {
		email.Subject = subject
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading message part: %w", err)
		}

		switch header := part.Header.(type) {
		case *mail.InlineHeader:
			content, err := io.ReadAll(part.Body)
			if err != nil {
				continue
			}
			contentType, _, _ := header.ContentType()
			switch contentType {
			case "text/plain":
				email.Text += string(content)
			case "text/html":
				email.HTML += string(content)
			}
		case *mail.AttachmentHeader:
			filename, _ := header.Filename()
			contentType, _, _ := header.ContentType()
			att := models.Attachment{Filename: filename, ContentType: contentType}
			if strings.Contains(contentType, "text") {
				if content, err := io.ReadAll(part.Body); err == nil {
					att.Content = string(content)
				}
			}
			email.Attachments = append(email.Attachments, att)
		}
	}

	return email, nil
}
