package usecase

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/iho/ledgerlens/internal/domain"
)

// AnalyticsInput is the common input of the tiered analytics operations.
type AnalyticsInput struct {
	Tier            string
	Focus           string
	StartDate       string
	EndDate         string
	ForecastPeriods int
}

// Figure is a named amount.
type Figure struct {
	Name  string
	Value decimal.Decimal
}

// SeriesPoint is one monthly value of a trend series.
type SeriesPoint struct {
	Period string
	Value  decimal.Decimal
}

// Insight is one generated statement tagged with the tier that produced it.
type Insight struct {
	Tier domain.AnalyticsTier
	Text string
}

// AnalyticsReport is the result of a tiered analytics call.
type AnalyticsReport struct {
	Tier            domain.AnalyticsTier
	Focus           string
	Range           domain.DateRange
	DataPoints      int
	Figures         []Figure
	Insights        []Insight
	Recommendations []string
	Trend           []SeriesPoint
	Forecast        []SeriesPoint
	ForecastPeriods int
}

// analysis holds what a domain computed before tiers are rendered.
type analysis struct {
	tier         domain.AnalyticsTier
	focus        string
	window       domain.DateRange
	periods      int
	dataPoints   int
	figures      []Figure
	subject      string
	contributors []Figure
	series       []SeriesPoint
	advice       []advice
}

type advice struct {
	when bool
	text string
}

// analyticsParams validates the common analytics input. Missing bounds
// default to now and to DefaultAnalyticsLookback before the end.
func analyticsParams(in AnalyticsInput, focuses []string, now time.Time) (domain.AnalyticsTier, string, domain.DateRange, int, error) {
	tier, err := domain.ParseAnalyticsTier(in.Tier)
	if err != nil {
		return "", "", domain.DateRange{}, 0, err
	}
	focus := ""
	if focuses != nil {
		if focus, err = domain.ParseEnum("query_focus", in.Focus, "", focuses); err != nil {
			return "", "", domain.DateRange{}, 0, err
		}
	}
	window, err := domain.ParseDateRange(in.StartDate, in.EndDate)
	if err != nil {
		return "", "", domain.DateRange{}, 0, err
	}
	if !window.HasTo() {
		window.To = truncate(now)
	}
	if !window.HasFrom() {
		window.From = window.To.Add(-DefaultAnalyticsLookback)
	}
	if window.From.After(window.To) {
		return "", "", domain.DateRange{}, 0, domain.Invalid("start_date", "start date cannot be after end date")
	}
	periods := in.ForecastPeriods
	if periods == 0 {
		periods = DefaultForecastPeriods
	}
	if periods < 1 || periods > MaxForecastPeriods {
		return "", "", domain.DateRange{}, 0, domain.Invalid("forecast_periods", "must be between 1 and %d", MaxForecastPeriods)
	}
	return tier, focus, window, periods, nil
}

func (a analysis) report() *AnalyticsReport {
	p := message.NewPrinter(language.English)
	rep := &AnalyticsReport{
		Tier:       a.tier,
		Focus:      a.focus,
		Range:      a.window,
		DataPoints: a.dataPoints,
		Figures:    a.figures,
	}
	say := func(tier domain.AnalyticsTier, format string, args ...any) {
		rep.Insights = append(rep.Insights, Insight{Tier: tier, Text: p.Sprintf(format, args...)})
	}

	if a.tier.Includes(domain.TierDescriptive) {
		say(domain.TierDescriptive, "Analyzed %d records from %s", a.dataPoints, a.window)
		for _, f := range a.figures {
			say(domain.TierDescriptive, "%s: %.2f", f.Name, f.Value.InexactFloat64())
		}
	}

	if a.tier.Includes(domain.TierDiagnostic) {
		total := decimal.Zero
		for _, c := range a.contributors {
			total = total.Add(c.Value)
		}
		if len(a.contributors) > 0 && total.IsPositive() {
			top := a.contributors[0]
			share := percentOf(top.Value, total)
			say(domain.TierDiagnostic, "%s is the largest %s with %.1f%% of %d", top.Name, a.subject, share.InexactFloat64(), len(a.contributors))
			if share.GreaterThan(decimal.NewFromInt(ConcentrationPercent)) {
				rep.Recommendations = append(rep.Recommendations, p.Sprintf("Reduce dependence on %s", top.Name))
			}
		} else {
			say(domain.TierDiagnostic, "No %s activity to break down", a.subject)
		}
	}

	if a.tier.Includes(domain.TierPredictive) {
		rep.Trend = a.series
		rep.ForecastPeriods = a.periods
		rep.Forecast = forecast(a.series, a.periods)
		switch slope := trendSlope(a.series); {
		case len(a.series) < 2:
			say(domain.TierPredictive, "Not enough monthly history to project %d periods", a.periods)
		case slope.IsPositive():
			say(domain.TierPredictive, "Monthly trend is rising by %.2f per month", slope.InexactFloat64())
		case slope.IsNegative():
			say(domain.TierPredictive, "Monthly trend is falling by %.2f per month", slope.Neg().InexactFloat64())
		default:
			say(domain.TierPredictive, "Monthly trend is flat")
		}
	}

	if a.tier.Includes(domain.TierPrescriptive) {
		for _, ad := range a.advice {
			if ad.when {
				rep.Recommendations = append(rep.Recommendations, ad.text)
			}
		}
		say(domain.TierPrescriptive, "%d recommendations for %s", len(rep.Recommendations), focusOr(a.focus, a.subject))
	}

	return rep
}

func focusOr(focus, fallback string) string {
	if focus != "" {
		return focus
	}
	return fallback
}

// monthlySeries sums values per calendar month in key order.
func monthlySeries(dates []time.Time, values []decimal.Decimal) []SeriesPoint {
	byMonth := map[string]decimal.Decimal{}
	var keys []string
	for i, d := range dates {
		k := domain.Monthly.PeriodKey(d)
		if _, ok := byMonth[k]; !ok {
			keys = append(keys, k)
		}
		byMonth[k] = byMonth[k].Add(values[i])
	}
	slices.Sort(keys)
	out := make([]SeriesPoint, len(keys))
	for i, k := range keys {
		out[i] = SeriesPoint{Period: k, Value: byMonth[k]}
	}
	return out
}

// trendSlope is the least-squares slope of the series per calendar month.
func trendSlope(series []SeriesPoint) decimal.Decimal {
	slope, _ := leastSquares(series)
	return slope
}

// monthOffsets places each point at its distance in months from the first
// point, so months without activity keep their place on the axis.
func monthOffsets(series []SeriesPoint) ([]int64, bool) {
	offsets := make([]int64, len(series))
	var first time.Time
	for i, p := range series {
		t, err := time.Parse("2006-01", p.Period)
		if err != nil {
			return nil, false
		}
		if i == 0 {
			first = t
		}
		offsets[i] = int64((t.Year()-first.Year())*12 + int(t.Month()-first.Month()))
	}
	return offsets, true
}

func leastSquares(series []SeriesPoint) (slope, intercept decimal.Decimal) {
	n := int64(len(series))
	if n < 2 {
		if n == 1 {
			return decimal.Zero, series[0].Value
		}
		return decimal.Zero, decimal.Zero
	}
	offsets, ok := monthOffsets(series)
	if !ok {
		return decimal.Zero, decimal.Zero
	}
	var sx, sy, sxy, sxx decimal.Decimal
	for i, p := range series {
		x := decimal.NewFromInt(offsets[i])
		sx = sx.Add(x)
		sy = sy.Add(p.Value)
		sxy = sxy.Add(x.Mul(p.Value))
		sxx = sxx.Add(x.Mul(x))
	}
	dn := decimal.NewFromInt(n)
	denom := dn.Mul(sxx).Sub(sx.Mul(sx))
	slope = dn.Mul(sxy).Sub(sx.Mul(sy)).DivRound(denom, 4)
	intercept = sy.Sub(slope.Mul(sx)).DivRound(dn, 4)
	return slope, intercept
}

// forecast projects the series periods months past its last point.
func forecast(series []SeriesPoint, periods int) []SeriesPoint {
	if len(series) == 0 {
		return nil
	}
	offsets, ok := monthOffsets(series)
	if !ok {
		return nil
	}
	slope, intercept := leastSquares(series)
	last, _ := time.Parse("2006-01", series[len(series)-1].Period)
	lastOffset := offsets[len(offsets)-1]
	out := make([]SeriesPoint, periods)
	for i := range periods {
		x := decimal.NewFromInt(lastOffset + int64(i) + 1)
		out[i] = SeriesPoint{
			Period: domain.Monthly.PeriodKey(last.AddDate(0, i+1, 0)),
			Value:  intercept.Add(slope.Mul(x)).Round(2),
		}
	}
	return out
}
