package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/iho/ledgerlens/internal/domain"
)

// DigestUseCase emails a KPI summary of the trailing window.
type DigestUseCase struct {
	overview   *OverviewUseCase
	comms      *CommunicationUseCase
	recipients []string
	window     time.Duration
	currency   string
	logger     zerolog.Logger
	now        func() time.Time
}

// NewDigestUseCase creates a new DigestUseCase.
func NewDigestUseCase(overview *OverviewUseCase, comms *CommunicationUseCase, recipients []string, window time.Duration, currency string, logger zerolog.Logger) *DigestUseCase {
	return &DigestUseCase{
		overview:   overview,
		comms:      comms,
		recipients: recipients,
		window:     window,
		currency:   currency,
		logger:     logger.With().Str("component", "digest").Logger(),
		now:        time.Now,
	}
}

// Send composes and delivers the digest. A window without activity still
// sends a short notice.
func (uc *DigestUseCase) Send(ctx context.Context) (*domain.DeliveryReceipt, error) {
	today := truncate(uc.now())
	window := domain.DateRange{From: today.Add(-uc.window), To: today}

	rep, err := uc.overview.KPIDashboard(ctx, RangeInput{
		StartDate: domain.FormatDate(window.From),
		EndDate:   domain.FormatDate(window.To),
	})
	var body string
	switch {
	case err == nil:
		body = uc.render(rep)
	case errors.Is(err, domain.ErrNoData):
		body = fmt.Sprintf("No activity was recorded for %s.\n", window)
	default:
		return nil, fmt.Errorf("failed to build digest: %w", err)
	}

	uc.logger.Info().Stringer("range", window).Int("recipients", len(uc.recipients)).Msg("sending KPI digest")

	return uc.comms.SendEmail(ctx, SendEmailInput{
		To:      uc.recipients,
		Subject: fmt.Sprintf("KPI digest %s", window),
		Body:    body,
	})
}

func (uc *DigestUseCase) render(rep *KPIReport) string {
	p := message.NewPrinter(language.English)
	var b strings.Builder
	line := func(label string, format string, args ...any) {
		b.WriteString(p.Sprintf("%-24s ", label+":"))
		b.WriteString(p.Sprintf(format, args...))
		b.WriteByte('\n')
	}
	money := func(label string, v decimal.Decimal) {
		line(label, "%s %.2f", uc.currency, v.InexactFloat64())
	}

	b.WriteString(p.Sprintf("Key performance indicators for %s\n\n", rep.Range))
	money("Sales revenue", rep.SalesRevenue)
	money("Purchase costs", rep.PurchaseCosts)
	money("Gross margin", rep.GrossMargin)
	line("Margin", "%.2f%%", rep.MarginPercent.InexactFloat64())
	line("Revenue/cost ratio", "%.2f", rep.RevenueCostRatio.InexactFloat64())
	line("Active customers", "%d", rep.ActiveCustomers)
	line("Active suppliers", "%d", rep.ActiveSuppliers)
	line("Transactions", "%d", rep.Transactions)
	line("Transactions per day", "%.2f", rep.TransactionsPerDay.InexactFloat64())
	money("Cash inflows", rep.CashInflows)
	money("Cash outflows", rep.CashOutflows)
	money("Net cash flow", rep.NetCashFlow)
	return b.String()
}
