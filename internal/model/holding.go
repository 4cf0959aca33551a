package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EquityClass classifies a holding for storage and reporting.
type EquityClass string

const (
	ClassStock EquityClass = "stock"
	ClassCall  EquityClass = "call"
	ClassPut   EquityClass = "put"
)

// Holding is the instrument side of a trade: a stock or an option contract.
type Holding interface {
	Symbol() string
	Class() EquityClass
}

// Stock is a plain equity position.
type Stock struct {
	Ticker string
}

func (s Stock) Symbol() string     { return s.Ticker }
func (s Stock) Class() EquityClass { return ClassStock }

// Option carries the contract terms shared by calls and puts.
type Option struct {
	Ticker     string
	Strike     decimal.Decimal
	Expiration time.Time
}

func (o Option) Symbol() string { return o.Ticker }

// Call is a call option contract.
type Call struct {
	Option
}

func (c Call) Class() EquityClass { return ClassCall }

// Put is a put option contract.
type Put struct {
	Option
}

func (p Put) Class() EquityClass { return ClassPut }

// NewCall builds a call holding.
func NewCall(ticker string, strike decimal.Decimal, expiration time.Time) Call {
	return Call{Option{Ticker: ticker, Strike: strike, Expiration: expiration}}
}

// NewPut builds a put holding.
func NewPut(ticker string, strike decimal.Decimal, expiration time.Time) Put {
	return Put{Option{Ticker: ticker, Strike: strike, Expiration: expiration}}
}

// IsOption reports whether h is an option contract rather than a stock.
func IsOption(h Holding) bool {
	switch h.(type) {
	case Call, Put:
		return true
	}
	return false
}
