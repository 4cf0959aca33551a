package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/tradebook-dev/tradebook/internal/model"
)

// FidelityParser parses Fidelity realized gain/loss CSV exports.
type FidelityParser struct {
	logger *log.Logger
}

const (
	fidelityDateFormat   = "01/02/2006"
	optionDateFormat     = "060102"
	fidelityMinFields    = 7
	fidelityColSymbol    = 0
	fidelityColDesc      = 1
	fidelityColQuantity  = 2
	fidelityColAcquired  = 3
	fidelityColSold      = 4
	fidelityColProceeds  = 5
	fidelityColCost      = 6
	fidelityColShortTerm = 7
	fidelityColLongTerm  = 8
)

// NewFidelityParser creates a FidelityParser with the default logger.
func NewFidelityParser() *FidelityParser {
	return &FidelityParser{logger: log.Default()}
}

// WithLogger replaces the parser's logger.
func (p *FidelityParser) WithLogger(logger *log.Logger) *FidelityParser {
	p.logger = logger
	return p
}

// Format returns the parser name.
func (p *FidelityParser) Format() string { return "fidelity" }

// Parse reads a realized gain/loss CSV and returns Transactions. Rows that
// fail to parse are logged and skipped so one malformed entry does not
// block the rest of the export.
func (p *FidelityParser) Parse(r io.Reader, accountNumber string) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // exports carry 7 or 9 columns

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading realized gain/loss CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := parseFidelityRow(rec, accountNumber)
		if err != nil {
			p.logger.Warn("row not processed", "row", i+2, "err", err)
			continue
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseFidelityRow(rec []string, accountNumber string) (model.Transaction, error) {
	if len(rec) < fidelityMinFields {
		return model.Transaction{}, fmt.Errorf("expected at least %d fields, got %d", fidelityMinFields, len(rec))
	}

	holding, cusip, err := parseSymbolCell(rec[fidelityColSymbol])
	if err != nil {
		return model.Transaction{}, err
	}

	quantity, err := decimal.NewFromString(strings.TrimSpace(rec[fidelityColQuantity]))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing quantity %q: %w", rec[fidelityColQuantity], err)
	}

	acquired, err := time.Parse(fidelityDateFormat, rec[fidelityColAcquired])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing acquired date %q: %w", rec[fidelityColAcquired], err)
	}
	sold, err := time.Parse(fidelityDateFormat, rec[fidelityColSold])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing sold date %q: %w", rec[fidelityColSold], err)
	}

	proceeds, err := parseCurrency(rec[fidelityColProceeds])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing proceeds: %w", err)
	}
	cost, err := parseCurrency(rec[fidelityColCost])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing cost: %w", err)
	}

	var shortTerm, longTerm decimal.Decimal
	if len(rec) > fidelityColShortTerm {
		if shortTerm, err = parseCurrency(rec[fidelityColShortTerm]); err != nil {
			return model.Transaction{}, fmt.Errorf("parsing short-term gain/loss: %w", err)
		}
	}
	if len(rec) > fidelityColLongTerm {
		if longTerm, err = parseCurrency(rec[fidelityColLongTerm]); err != nil {
			return model.Transaction{}, fmt.Errorf("parsing long-term gain/loss: %w", err)
		}
	}

	return model.Transaction{
		AccountNumber:     accountNumber,
		Holding:           holding,
		CUSIP:             cusip,
		Description:       rec[fidelityColDesc],
		Quantity:          quantity,
		AcquiredDate:      acquired,
		SoldDate:          sold,
		Cost:              cost,
		Proceeds:          proceeds,
		ShortTermGainLoss: shortTerm,
		LongTermGainLoss:  longTerm,
	}, nil
}

// parseCurrency converts broker money cells: "$1,234.56" style positives,
// "($12.34)" negatives, and empty or "-" as zero.
func parseCurrency(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "-" {
		return decimal.Zero, nil
	}
	if strings.HasPrefix(value, "$") {
		return decimal.NewFromString(strings.ReplaceAll(value[1:], ",", ""))
	}
	if strings.HasPrefix(value, "($") && strings.HasSuffix(value, ")") {
		d, err := decimal.NewFromString(strings.ReplaceAll(value[2:len(value)-1], ",", ""))
		if err != nil {
			return decimal.Zero, err
		}
		return d.Neg(), nil
	}
	return decimal.Zero, fmt.Errorf("invalid currency %q", value)
}

func isOptionType(c byte) bool {
	return c == 'c' || c == 'p' || c == 'C' || c == 'P'
}

// parseSymbolCell splits the export's symbol cell "RAW(CUSIP)" into a
// holding and CUSIP. RAW without digits is a stock ticker; otherwise it
// encodes an option as ticker + yymmdd expiration + C/P + strike.
func parseSymbolCell(cell string) (model.Holding, string, error) {
	open := strings.IndexByte(cell, '(')
	if open < 0 || !strings.HasSuffix(cell, ")") {
		return nil, "", fmt.Errorf("invalid symbol %q", cell)
	}
	raw := cell[:open]
	cusip := cell[open+1 : len(cell)-1]

	digitStart := -1
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digitStart = i
			break
		}
	}
	if digitStart == -1 {
		return model.Stock{Ticker: strings.ToLower(raw)}, cusip, nil
	}

	// Common case: the first digit starts the expiration date and the
	// type char sits right after it.
	if digitStart > 0 && digitStart+6 < len(raw) && isOptionType(raw[digitStart+6]) {
		return buildOption(raw, digitStart, digitStart+6, cusip)
	}

	// Ticker itself contains digits; look for a type char preceded by
	// six date digits further in.
	for n := digitStart + 7; n < len(raw); n++ {
		if isOptionType(raw[n]) {
			return buildOption(raw, n-6, n, cusip)
		}
	}
	return nil, "", fmt.Errorf("invalid symbol %q", cell)
}

func buildOption(raw string, dateStart, typePos int, cusip string) (model.Holding, string, error) {
	ticker := strings.ToLower(raw[:dateStart])
	expiration, err := time.Parse(optionDateFormat, raw[dateStart:typePos])
	if err != nil {
		return nil, "", fmt.Errorf("invalid option expiration in %q: %w", raw, err)
	}
	strike, err := decimal.NewFromString(raw[typePos+1:])
	if err != nil {
		return nil, "", fmt.Errorf("invalid option strike in %q: %w", raw, err)
	}

	if raw[typePos] == 'p' || raw[typePos] == 'P' {
		return model.NewPut(ticker, strike, expiration), cusip, nil
	}
	return model.NewCall(ticker, strike, expiration), cusip, nil
}
