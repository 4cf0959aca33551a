package gainloss

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tradebook-dev/tradebook/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func stockLot(symbol string, acquired, sold time.Time, cost, proceeds string) model.Transaction {
	return model.Transaction{
		Holding:      model.Stock{Ticker: symbol},
		Quantity:     dec("1"),
		AcquiredDate: acquired,
		SoldDate:     sold,
		Cost:         dec(cost),
		Proceeds:     dec(proceeds),
	}
}

func optionLot(symbol string, acquired, sold time.Time, cost, proceeds string) model.Transaction {
	t := stockLot(symbol, acquired, sold, cost, proceeds)
	t.Holding = model.NewCall(symbol, dec("100"), sold.AddDate(0, 1, 0))
	return t
}

func TestSummarize_Buckets(t *testing.T) {
	txns := []model.Transaction{
		// Held 5 months: short-term +250.50.
		stockLot("aapl", date(2024, 1, 5), date(2024, 6, 5), "1500.00", "1750.50"),
		// Held over two years: long-term +850.
		stockLot("msft", date(2022, 3, 10), date(2024, 6, 20), "1250.00", "2100.00"),
		// Option held 14 months: still short-term, -130.
		optionLot("tsla", date(2023, 1, 1), date(2024, 3, 1), "450.00", "320.00"),
	}

	s := Summarize(txns)
	assert.Equal(t, "120.50", s.ShortTerm.StringFixed(2))
	assert.Equal(t, "850.00", s.LongTerm.StringFixed(2))
	assert.Equal(t, "970.50", s.Total().StringFixed(2))
}

func TestSummarize_ExactlyOneYear(t *testing.T) {
	// 2023 is not a leap year, so this is exactly 365 days.
	lot := stockLot("aapl", date(2023, 2, 1), date(2024, 2, 1), "100.00", "150.00")
	s := Summarize([]model.Transaction{lot})
	assert.True(t, s.ShortTerm.IsZero())
	assert.True(t, s.LongTerm.IsZero())

	// One more day tips it long-term.
	lot.SoldDate = date(2024, 2, 2)
	s = Summarize([]model.Transaction{lot})
	assert.Equal(t, "50.00", s.LongTerm.StringFixed(2))
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.True(t, s.Total().IsZero())
}

func TestBySymbol(t *testing.T) {
	txns := []model.Transaction{
		stockLot("aapl", date(2024, 1, 5), date(2024, 6, 5), "1500.00", "1750.50"),
		stockLot("aapl", date(2022, 1, 5), date(2024, 6, 5), "1000.00", "900.00"),
		stockLot("msft", date(2024, 1, 5), date(2024, 3, 5), "100.00", "110.00"),
	}

	result := BySymbol(txns, []string{" AAPL ", "goog"})
	assert.Len(t, result, 1, "msft filtered out, goog never traded")

	aapl := result["aapl"]
	assert.Equal(t, "250.50", aapl.ShortTerm.StringFixed(2))
	assert.Equal(t, "-100.00", aapl.LongTerm.StringFixed(2))
	assert.Equal(t, "150.50", aapl.Total().StringFixed(2))
}

func TestBySymbol_ZeroNetStillListed(t *testing.T) {
	txns := []model.Transaction{
		stockLot("zero", date(2024, 1, 5), date(2024, 2, 5), "100.00", "100.00"),
	}
	result := BySymbol(txns, []string{"zero"})
	s, ok := result["zero"]
	assert.True(t, ok, "a traded symbol shows up even at net zero")
	assert.True(t, s.Total().IsZero())
}

func TestSplitSymbols(t *testing.T) {
	assert.Equal(t, []string{"aapl", "msft"}, SplitSymbols("aapl, msft,"))
	assert.Nil(t, SplitSymbols(""))
}
