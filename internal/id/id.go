package id

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/tradebook-dev/tradebook/internal/model"
)

const dateFormat = "2006-01-02"

// Generator assigns deterministic transaction IDs. The ID is a version-3
// UUID over the lot's identifying fields, so re-importing the same export
// yields the same IDs. A per-key sequence disambiguates identical fills
// (same lot closed twice in one day).
type Generator struct {
	seq map[string]int
}

// NewGenerator creates a Generator with an empty sequence registry.
func NewGenerator() *Generator {
	return &Generator{seq: make(map[string]int)}
}

// Next returns the ID for a transaction. Calling it again with an identical
// transaction returns the next ID in that lot's sequence.
func (g *Generator) Next(t model.Transaction) string {
	key := Key(t)
	g.seq[key]++
	name := fmt.Sprintf("%s-%02d", key, g.seq[key])
	return uuid.NewMD5(uuid.NameSpaceURL, []byte(name)).String()
}

// Key returns the identifying string for a transaction, without the
// sequence suffix.
func Key(t model.Transaction) string {
	return fmt.Sprintf("%s-%s-%s-%s-%s-%s-%s",
		t.AccountNumber,
		t.CUSIP,
		t.AcquiredDate.Format(dateFormat),
		t.SoldDate.Format(dateFormat),
		t.Quantity.StringFixed(2),
		t.Cost.StringFixed(2),
		t.Proceeds.StringFixed(2))
}

// Assign fills in TransactionID for every transaction that lacks one.
func Assign(g *Generator, txns []model.Transaction) {
	for i := range txns {
		if txns[i].TransactionID == "" {
			txns[i].TransactionID = g.Next(txns[i])
		}
	}
}
