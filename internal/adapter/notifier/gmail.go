package notifier

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/iho/ledgerlens/internal/domain"
)

// GmailSender delivers mail through the Gmail API.
type GmailSender struct {
	svc   *gmail.Service
	user  string
	ids   IDGenerator
	clock func() time.Time
}

// NewGmailSender creates a Gmail sender. Without credentials file or client
// options the sender is created disabled and every delivery reports
// domain.ErrSenderDisabled.
func NewGmailSender(ctx context.Context, credentialsFile, user string, ids IDGenerator, opts ...option.ClientOption) (*GmailSender, error) {
	s := &GmailSender{user: user, ids: ids, clock: time.Now}
	if s.user == "" {
		s.user = "me"
	}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile), option.WithScopes(gmail.GmailSendScope))
	}
	if len(opts) == 0 {
		return s, nil
	}

	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	s.svc = svc
	return s, nil
}

// Name implements usecase.EmailSender.
func (s *GmailSender) Name() string { return "gmail" }

// Deliver implements usecase.EmailSender.
func (s *GmailSender) Deliver(ctx context.Context, msg *domain.EmailMessage) (*domain.DeliveryReceipt, error) {
	if s.svc == nil {
		return nil, fmt.Errorf("gmail: %w", domain.ErrSenderDisabled)
	}

	id := s.ids.Generate()
	now := s.clock().UTC()
	raw := base64.URLEncoding.EncodeToString(compose(s.user, msg, id, now))

	sent, err := s.svc.Users.Messages.Send(s.user, &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("gmail: %w", err)
	}
	return &domain.DeliveryReceipt{ID: sent.Id, Location: "gmail:" + sent.ThreadId, SentAt: now}, nil
}
