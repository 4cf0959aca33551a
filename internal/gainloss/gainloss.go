package gainloss

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tradebook-dev/tradebook/internal/model"
)

// oneYear is the long-term holding threshold. A lot held exactly one year
// lands in neither bucket, matching how the broker reports it.
const oneYear = 365 * 24 * time.Hour

// Summary accumulates realized gain/loss by tax treatment.
type Summary struct {
	ShortTerm decimal.Decimal
	LongTerm  decimal.Decimal
}

// Total returns combined short and long-term gain/loss.
func (s Summary) Total() decimal.Decimal {
	return s.ShortTerm.Add(s.LongTerm)
}

func (s Summary) add(t model.Transaction) Summary {
	gain := t.GainLoss()
	if model.IsOption(t.Holding) {
		// Option gains are always short-term.
		s.ShortTerm = s.ShortTerm.Add(gain)
		return s
	}
	held := t.HoldingPeriod()
	switch {
	case held > oneYear:
		s.LongTerm = s.LongTerm.Add(gain)
	case held < oneYear:
		s.ShortTerm = s.ShortTerm.Add(gain)
	}
	return s
}

// Summarize reduces transactions into a single Summary.
func Summarize(txns []model.Transaction) Summary {
	var s Summary
	for _, t := range txns {
		s = s.add(t)
	}
	return s
}

// BySymbol reduces transactions into per-symbol summaries, restricted to
// the given symbols. A symbol appears in the result once a matching
// transaction is seen, even if its net gain/loss is zero.
func BySymbol(txns []model.Transaction, symbols []string) map[string]Summary {
	want := make(map[string]bool, len(symbols))
	for _, sym := range symbols {
		sym = strings.ToLower(strings.TrimSpace(sym))
		if sym != "" {
			want[sym] = true
		}
	}

	result := make(map[string]Summary)
	for _, t := range txns {
		sym := strings.ToLower(t.Holding.Symbol())
		if !want[sym] {
			continue
		}
		result[sym] = result[sym].add(t)
	}
	return result
}

// SplitSymbols parses a comma-separated symbol filter into a slice,
// dropping empty entries.
func SplitSymbols(list string) []string {
	var symbols []string
	for _, sym := range strings.Split(list, ",") {
		if sym = strings.TrimSpace(sym); sym != "" {
			symbols = append(symbols, sym)
		}
	}
	return symbols
}
