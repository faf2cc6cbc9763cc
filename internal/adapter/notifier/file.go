package notifier

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iho/ledgerlens/internal/domain"
)

// IDGenerator generates unique message ids.
type IDGenerator interface {
	Generate() string
}

// FileSender saves messages as .eml files in an outbox directory. It is the
// last resort of the fallback chain.
type FileSender struct {
	dir   string
	from  string
	ids   IDGenerator
	clock func() time.Time
}

// NewFileSender creates a new FileSender writing into dir.
func NewFileSender(dir, from string, ids IDGenerator) *FileSender {
	return &FileSender{dir: dir, from: from, ids: ids, clock: time.Now}
}

// Name implements usecase.EmailSender.
func (s *FileSender) Name() string { return "file" }

// Deliver implements usecase.EmailSender.
func (s *FileSender) Deliver(ctx context.Context, msg *domain.EmailMessage) (*domain.DeliveryReceipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create outbox: %w", err)
	}

	id := s.ids.Generate()
	now := s.clock().UTC()
	path := filepath.Join(s.dir, id+".eml")

	if err := os.WriteFile(path, compose(s.from, msg, id, now), 0o640); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}
	return &domain.DeliveryReceipt{ID: id, Location: path, SentAt: now}, nil
}
