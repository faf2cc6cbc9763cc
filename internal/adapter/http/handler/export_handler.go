package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/iho/ledgerlens/internal/adapter/export"
	"github.com/iho/ledgerlens/internal/adapter/http/dto"
	"github.com/iho/ledgerlens/internal/domain"
	"github.com/iho/ledgerlens/internal/infrastructure/metrics"
	"github.com/iho/ledgerlens/internal/usecase"
)

// ExportSources are the reports that can be downloaded as workbooks.
type ExportSources struct {
	LedgerSummary   func(context.Context, usecase.LedgerSummaryInput) (*usecase.LedgerSummaryReport, error)
	PaymentReceipts func(context.Context, usecase.PaymentReceiptsInput) (*usecase.VoucherListReport, error)
	StockSummary    func(context.Context, usecase.StockSummaryInput) (*usecase.StockSummaryReport, error)
	TopCustomers    func(context.Context, usecase.TopPartiesInput) (*usecase.PartyReport, error)
	TopSuppliers    func(context.Context, usecase.TopPartiesInput) (*usecase.PartyReport, error)
	KPIDashboard    func(context.Context, usecase.RangeInput) (*usecase.KPIReport, error)
}

// NewExportSources collects the export sources from the report services.
func NewExportSources(fin FinancialService, inv InventoryService, sales SalesService, purchase PurchaseService, overview OverviewService) ExportSources {
	return ExportSources{
		LedgerSummary:   fin.LedgerSummary,
		PaymentReceipts: fin.PaymentReceipts,
		StockSummary:    inv.StockSummary,
		TopCustomers:    sales.TopCustomers,
		TopSuppliers:    purchase.TopSuppliers,
		KPIDashboard:    overview.KPIDashboard,
	}
}

// ExportHandler renders reports as .xlsx downloads. Failures are reported
// with the usual JSON envelope.
type ExportHandler struct {
	src     ExportSources
	metrics *metrics.Metrics
}

// NewExportHandler creates a new ExportHandler. m may be nil.
func NewExportHandler(src ExportSources, m *metrics.Metrics) *ExportHandler {
	return &ExportHandler{src: src, metrics: m}
}

// Routes mounts the export endpoints.
func (h *ExportHandler) Routes(r chi.Router) {
	r.Get("/ledgers.xlsx", h.Ledgers)
	r.Get("/transactions.xlsx", h.Transactions)
	r.Get("/stock.xlsx", h.Stock)
	r.Get("/parties.xlsx", h.Parties)
	r.Get("/kpis.xlsx", h.KPIs)
}

// Ledgers exports the ledger summary.
func (h *ExportHandler) Ledgers(w http.ResponseWriter, r *http.Request) {
	includeZero, err := boolQuery(r, "include_zero")
	if err != nil {
		writeOutcome(w, err)
		return
	}
	rep, err := h.src.LedgerSummary(r.Context(), usecase.LedgerSummaryInput{
		Parent:      query(r, "account_type"),
		IncludeZero: includeZero,
	})
	if err != nil {
		writeOutcome(w, err)
		return
	}
	h.write(w, "ledgers", export.LedgerSummary(rep))
}

// Transactions exports payment and receipt vouchers.
func (h *ExportHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		writeOutcome(w, err)
		return
	}
	rep, err := h.src.PaymentReceipts(r.Context(), usecase.PaymentReceiptsInput{
		Kind:      query(r, "transaction_type"),
		StartDate: query(r, "start_date"),
		EndDate:   query(r, "end_date"),
		Party:     query(r, "party_name"),
		Limit:     limit,
	})
	if err != nil {
		writeOutcome(w, err)
		return
	}
	h.write(w, "transactions", export.Vouchers(rep))
}

// Stock exports the stock summary.
func (h *ExportHandler) Stock(w http.ResponseWriter, r *http.Request) {
	rep, err := h.src.StockSummary(r.Context(), usecase.StockSummaryInput{
		Godown: query(r, "godown_name"),
		Item:   query(r, "item_name"),
	})
	if err != nil {
		writeOutcome(w, err)
		return
	}
	h.write(w, "stock", export.StockSummary(rep))
}

// Parties exports the top customers and top suppliers of the window as two
// sheets. A side without data is left out; if both are empty the no data
// outcome of the customers is returned.
func (h *ExportHandler) Parties(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		writeOutcome(w, err)
		return
	}
	input := usecase.TopPartiesInput{
		Metric:    "transactions",
		Limit:     limit,
		StartDate: query(r, "start_date"),
		EndDate:   query(r, "end_date"),
	}

	var sheets []export.Sheet
	customers, custErr := h.src.TopCustomers(r.Context(), input)
	if custErr == nil {
		sheets = append(sheets, export.Parties("Customers", customers))
	} else if !isNoData(custErr) {
		writeOutcome(w, custErr)
		return
	}
	suppliers, err := h.src.TopSuppliers(r.Context(), input)
	if err == nil {
		sheets = append(sheets, export.Parties("Suppliers", suppliers))
	} else if !isNoData(err) {
		writeOutcome(w, err)
		return
	}
	if len(sheets) == 0 {
		writeOutcome(w, custErr)
		return
	}
	h.write(w, "parties", sheets...)
}

// KPIs exports the KPI dashboard.
func (h *ExportHandler) KPIs(w http.ResponseWriter, r *http.Request) {
	rep, err := h.src.KPIDashboard(r.Context(), rangeInput(r))
	if err != nil {
		writeOutcome(w, err)
		return
	}
	h.write(w, "kpis", export.KPIs(rep))
}

func (h *ExportHandler) write(w http.ResponseWriter, report string, sheets ...export.Sheet) {
	var buf bytes.Buffer
	if err := export.Write(&buf, sheets...); err != nil {
		log.Error().Err(err).Str("report", report).Msg("failed to render workbook")
		writeError(w, http.StatusInternalServerError, dto.KindInternal, "failed to render workbook")
		return
	}

	if h.metrics != nil {
		h.metrics.ExportsWritten.WithLabelValues(report).Inc()
	}

	name := fmt.Sprintf("%s-%s.xlsx", report, time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func isNoData(err error) bool {
	return errors.Is(err, domain.ErrNoData)
}
