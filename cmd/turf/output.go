package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/yourusername/turf-analytics/internal/models"
	"github.com/yourusername/turf-analytics/internal/service"
)

const dateLayout = "2006-01-02"

// parseDay parses a YYYY-MM-DD flag, defaulting to today
func parseDay(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return d, nil
}

// parseSelection parses "3,7,1" into program numbers
func parseSelection(value string) ([]int, error) {
	parts := strings.Split(value, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid program number %q", p)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("selection is empty")
	}
	return out, nil
}

// parseWeights parses repeated criterion=weight pairs
func parseWeights(pairs []string) (map[models.Criterion]float64, error) {
	weights := make(map[models.Criterion]float64, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		name = strings.ToLower(strings.TrimSpace(name))
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid weight %q, expected criterion=weight", pair)
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight for %s: %w", name, err)
		}
		weights[models.Criterion(name)] = w
	}
	return weights, nil
}

func formatMoney(d decimal.Decimal) string {
	return humanize.FormatFloat("#,###.##", d.InexactFloat64()) + " €"
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, "-")
}

func printPrediction(w io.Writer, p *service.Prediction, top int) {
	field := p.Field
	fmt.Fprintf(w, "\n%s  %s  %d runners\n", p.Race.Reference(), p.Race.Discipline, len(field.Runners))
	fmt.Fprintf(w, "Profile: %s v%d (%s)   Confidence: %.1f%%", p.Profile.Name, p.Profile.Version, p.Profile.Source, field.Confidence)
	if p.Cached {
		fmt.Fprint(w, "   [cached]")
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tNO\tNAME\tSCORE\tCONF\tCLASS")
	runners := field.Runners
	if top > 0 && top < len(runners) {
		runners = field.Top(top)
	}
	for _, r := range runners {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%.2f\t%.0f%%\t%s\n",
			r.Rank, r.ProgramNumber(), r.Runner.Name, r.Score, r.Confidence, r.Classification)
	}
	_ = tw.Flush()

	printRecommendations(w, p.Recommendations)
}

func printRecommendations(w io.Writer, set *models.RecommendationSet) {
	if set == nil {
		return
	}
	if set.Empty() {
		fmt.Fprintf(w, "No recommendation (%s)\n", set.Reason)
		return
	}

	fmt.Fprintf(w, "Recommendations (%d bases, %d complements):\n", set.Bases, set.Complements)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, rec := range set.ByPriority() {
		fmt.Fprintf(tw, "  T%d\t%s\t%s\t%s combinations\t%s\n",
			rec.Tier, rec.Type, rec.Formula, humanize.Comma(int64(rec.Combinations)), formatMoney(rec.TotalCost))
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "  Total outlay: %s\n", formatMoney(set.TotalCost()))
}

func printProfiles(w io.Writer, profiles []*models.WeightingProfile) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVERSION\tVENUE\tDISC\tBAND\tSOURCE\tCREATED\tWEIGHTS")
	for _, p := range profiles {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Name, p.Version, orDash(p.Venue), orDash(string(p.Discipline)), orDash(string(p.FieldBand)),
			p.Source, humanize.Time(p.CreatedAt), formatWeights(p))
	}
	_ = tw.Flush()
}

func formatWeights(p *models.WeightingProfile) string {
	parts := make([]string, 0, len(p.Criteria()))
	for _, c := range p.Criteria() {
		parts = append(parts, fmt.Sprintf("%s=%s", c, humanize.Ftoa(p.Weight(c))))
	}
	return strings.Join(parts, " ")
}

func printBets(w io.Writer, bets []*models.PlacedBet) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tRACE\tTYPE\tSELECTION\tSTAKE\tSTATUS\tPAYOUT\tPLACED")
	for _, b := range bets {
		payout := "-"
		if b.IsSettled() {
			payout = formatMoney(b.PayoutOrZero())
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			b.ID, b.RaceRef, b.BetType, joinInts(b.Selection), formatMoney(b.Stake),
			b.Status, payout, humanize.Time(b.PlacedAt))
	}
	_ = tw.Flush()
}

func printStatistics(w io.Writer, stats models.LedgerStatistics) {
	fmt.Fprintln(w, "\nLedger Statistics:")
	fmt.Fprintf(w, "  Bets: %s (%s pending, %s settled)\n",
		humanize.Comma(int64(stats.Count)), humanize.Comma(int64(stats.PendingCount)), humanize.Comma(int64(stats.SettledCount)))
	fmt.Fprintf(w, "  Total stake: %s\n", formatMoney(stats.TotalStake))
	fmt.Fprintf(w, "  Total payout: %s\n", formatMoney(stats.TotalPayout))
	fmt.Fprintf(w, "  Profit: %s\n", formatMoney(stats.Profit()))
	fmt.Fprintf(w, "  ROI: %.2f%%\n", stats.ROIPercent)
	fmt.Fprintf(w, "  Hit rate: %.2f%% (%d hits)\n", stats.HitRatePercent, stats.HitCount)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
