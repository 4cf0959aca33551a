package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestHoldingClasses(t *testing.T) {
	exp := time.Date(2024, 1, 19, 0, 0, 0, 0, time.UTC)
	strike := decimal.NewFromInt(250)

	stock := Stock{Ticker: "aapl"}
	assert.Equal(t, ClassStock, stock.Class())
	assert.Equal(t, "aapl", stock.Symbol())
	assert.False(t, IsOption(stock))

	call := NewCall("tsla", strike, exp)
	assert.Equal(t, ClassCall, call.Class())
	assert.True(t, IsOption(call))
	assert.True(t, call.Strike.Equal(strike))

	put := NewPut("spy", strike, exp)
	assert.Equal(t, ClassPut, put.Class())
	assert.True(t, IsOption(put))
}

func TestAccountTypeValid(t *testing.T) {
	assert.True(t, AccountSingle.Valid())
	assert.True(t, AccountJoint.Valid())
	assert.False(t, AccountType("margin").Valid())
	assert.False(t, AccountType("").Valid())
}

func TestTransactionDerived(t *testing.T) {
	txn := Transaction{
		Holding:      Stock{Ticker: "aapl"},
		AcquiredDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		SoldDate:     time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
		Cost:         decimal.RequireFromString("1500.00"),
		Proceeds:     decimal.RequireFromString("1750.50"),
	}
	assert.Equal(t, "250.50", txn.GainLoss().StringFixed(2))
	assert.Equal(t, 152*24*time.Hour, txn.HoldingPeriod())
}
