package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType distinguishes the two brokerage account flavors.
type AccountType string

const (
	AccountSingle AccountType = "single"
	AccountJoint  AccountType = "joint"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	return t == AccountSingle || t == AccountJoint
}

// Transaction represents one closed lot from a realized gain/loss export.
type Transaction struct {
	TransactionID string
	AccountNumber string
	Holding       Holding
	CUSIP         string
	Description   string
	Quantity      decimal.Decimal
	AcquiredDate  time.Time
	SoldDate      time.Time
	Cost          decimal.Decimal
	Proceeds      decimal.Decimal

	// Broker-reported columns; zero when the export omits them.
	ShortTermGainLoss decimal.Decimal
	LongTermGainLoss  decimal.Decimal
}

// GainLoss returns proceeds minus cost for the lot.
func (t Transaction) GainLoss() decimal.Decimal {
	return t.Proceeds.Sub(t.Cost)
}

// HoldingPeriod returns the time between acquisition and sale.
func (t Transaction) HoldingPeriod() time.Duration {
	return t.SoldDate.Sub(t.AcquiredDate)
}
