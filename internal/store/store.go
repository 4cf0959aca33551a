package store

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/tradebook-dev/tradebook/internal/model"
)

const dateFormat = "2006-01-02"

var hundred = decimal.NewFromInt(100)

// Store is a sqlite-backed trade database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the trade database at path.
func Open(path string) (*Store, error) {
	needSchema := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		needSchema = true
	}
	return open(path, needSchema)
}

// OpenMemory opens a fresh in-memory trade database.
func OpenMemory() (*Store, error) {
	return open(":memory:", true)
}

func open(dsn string, needSchema bool) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", dsn, err)
	}
	// A pooled second connection would see a different :memory: database
	// and would not share the foreign_keys pragma.
	db.SetMaxOpenConns(1)

	if needSchema {
		if _, err := db.Exec(schemaSQL); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	} else if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// trade is the flat row shape of the trade table.
type trade struct {
	TransactionID string
	CUSIP         string
	Symbol        string
	AccountNumber string
	EquityClass   model.EquityClass
	Strike        int64 // cents
	Quantity      int64 // shares x100
	Expiration    *time.Time
	AcquiredDate  time.Time
	SoldDate      time.Time
	Cost          int64 // cents
	Proceeds      int64 // cents
	Description   string
}

func toCents(d decimal.Decimal) int64 {
	return d.Mul(hundred).IntPart()
}

func fromCents(v int64) decimal.Decimal {
	return decimal.New(v, -2)
}

func toTrade(t model.Transaction) trade {
	row := trade{
		TransactionID: t.TransactionID,
		CUSIP:         t.CUSIP,
		Symbol:        t.Holding.Symbol(),
		AccountNumber: t.AccountNumber,
		EquityClass:   t.Holding.Class(),
		Quantity:      toCents(t.Quantity),
		AcquiredDate:  t.AcquiredDate,
		SoldDate:      t.SoldDate,
		Cost:          toCents(t.Cost),
		Proceeds:      toCents(t.Proceeds),
		Description:   t.Description,
	}
	switch h := t.Holding.(type) {
	case model.Call:
		row.Strike = toCents(h.Strike)
		exp := h.Expiration
		row.Expiration = &exp
	case model.Put:
		row.Strike = toCents(h.Strike)
		exp := h.Expiration
		row.Expiration = &exp
	}
	return row
}

func (r trade) toTransaction() (model.Transaction, error) {
	var holding model.Holding
	switch r.EquityClass {
	case model.ClassStock:
		holding = model.Stock{Ticker: r.Symbol}
	case model.ClassCall, model.ClassPut:
		if r.Expiration == nil {
			return model.Transaction{}, fmt.Errorf("trade %s: %s without expiration", r.TransactionID, r.EquityClass)
		}
		if r.EquityClass == model.ClassCall {
			holding = model.NewCall(r.Symbol, fromCents(r.Strike), *r.Expiration)
		} else {
			holding = model.NewPut(r.Symbol, fromCents(r.Strike), *r.Expiration)
		}
	default:
		return model.Transaction{}, fmt.Errorf("trade %s: unknown equity class %q", r.TransactionID, r.EquityClass)
	}
	return model.Transaction{
		TransactionID: r.TransactionID,
		AccountNumber: r.AccountNumber,
		Holding:       holding,
		CUSIP:         r.CUSIP,
		Description:   r.Description,
		Quantity:      fromCents(r.Quantity),
		AcquiredDate:  r.AcquiredDate,
		SoldDate:      r.SoldDate,
		Cost:          fromCents(r.Cost),
		Proceeds:      fromCents(r.Proceeds),
	}, nil
}

// InsertTransactions stores transactions under the given account type,
// skipping transaction IDs already present. Unseen account numbers and
// symbols are inserted first so the trade rows' foreign keys resolve.
// Returns the number of trades inserted.
func (s *Store) InsertTransactions(txns []model.Transaction, accountType model.AccountType) (int, error) {
	if !accountType.Valid() {
		return 0, fmt.Errorf("unknown account type %q", accountType)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	existingIDs, err := stringSet(tx, "SELECT transaction_id FROM trade")
	if err != nil {
		return 0, err
	}

	var rows []trade
	for _, t := range txns {
		if _, seen := existingIDs[t.TransactionID]; seen {
			continue
		}
		rows = append(rows, toTrade(t))
	}
	if len(rows) == 0 {
		return 0, tx.Commit()
	}

	if err := insertAccounts(tx, rows, accountType); err != nil {
		return 0, err
	}
	if err := insertSymbols(tx, rows); err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`INSERT INTO trade (
		transaction_id, cusip, symbol, account_number, equity_class, strike,
		quantity, expiration, acquired_date, sold_date, cost, proceed, description)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing trade insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		var expiration any
		if r.Expiration != nil {
			expiration = r.Expiration.Format(dateFormat)
		}
		_, err := stmt.Exec(r.TransactionID, r.CUSIP, r.Symbol, r.AccountNumber,
			string(r.EquityClass), r.Strike, r.Quantity, expiration,
			r.AcquiredDate.Format(dateFormat), r.SoldDate.Format(dateFormat),
			r.Cost, r.Proceeds, r.Description)
		if err != nil {
			return 0, fmt.Errorf("inserting trade %s: %w", r.TransactionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return len(rows), nil
}

func insertAccounts(tx *sql.Tx, rows []trade, accountType model.AccountType) error {
	existing, err := stringSet(tx, "SELECT account_number FROM account")
	if err != nil {
		return err
	}
	for _, r := range rows {
		if _, ok := existing[r.AccountNumber]; ok {
			continue
		}
		if _, err := tx.Exec("INSERT INTO account (account_number, account_type) VALUES (?,?)",
			r.AccountNumber, string(accountType)); err != nil {
			return fmt.Errorf("inserting account %s: %w", r.AccountNumber, err)
		}
		existing[r.AccountNumber] = struct{}{}
	}
	return nil
}

func insertSymbols(tx *sql.Tx, rows []trade) error {
	existing, err := stringSet(tx, "SELECT symbol FROM symbol")
	if err != nil {
		return err
	}
	for _, r := range rows {
		if _, ok := existing[r.Symbol]; ok {
			continue
		}
		if _, err := tx.Exec("INSERT INTO symbol (symbol) VALUES (?)", r.Symbol); err != nil {
			return fmt.Errorf("inserting symbol %s: %w", r.Symbol, err)
		}
		existing[r.Symbol] = struct{}{}
	}
	return nil
}

func stringSet(tx *sql.Tx, query string) (map[string]struct{}, error) {
	rows, err := tx.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying %q: %w", query, err)
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning %q: %w", query, err)
		}
		set[v] = struct{}{}
	}
	return set, rows.Err()
}

// Transactions returns stored trades as model transactions, oldest sale
// first. An empty accountNumber returns every account's trades.
func (s *Store) Transactions(accountNumber string) ([]model.Transaction, error) {
	query := `SELECT transaction_id, cusip, symbol, account_number, equity_class,
		strike, quantity, expiration, acquired_date, sold_date, cost, proceed, description
		FROM trade`
	args := []any{}
	if accountNumber != "" {
		query += " WHERE account_number = ?"
		args = append(args, accountNumber)
	}
	query += " ORDER BY sold_date, transaction_id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying trades: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		var r trade
		var class string
		// The driver returns DATE columns as time.Time; scanning into a
		// string would reformat them as RFC 3339.
		var expiration sql.NullTime
		err := rows.Scan(&r.TransactionID, &r.CUSIP, &r.Symbol, &r.AccountNumber,
			&class, &r.Strike, &r.Quantity, &expiration, &r.AcquiredDate,
			&r.SoldDate, &r.Cost, &r.Proceeds, &r.Description)
		if err != nil {
			return nil, fmt.Errorf("scanning trade: %w", err)
		}
		r.EquityClass = model.EquityClass(class)
		if expiration.Valid {
			exp := expiration.Time
			r.Expiration = &exp
		}

		txn, err := r.toTransaction()
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

// Accounts returns the stored account numbers and their types.
func (s *Store) Accounts() (map[string]model.AccountType, error) {
	rows, err := s.db.Query("SELECT account_number, account_type FROM account")
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}
	defer rows.Close()

	accounts := make(map[string]model.AccountType)
	for rows.Next() {
		var number, accountType string
		if err := rows.Scan(&number, &accountType); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		accounts[number] = model.AccountType(accountType)
	}
	return accounts, rows.Err()
}
