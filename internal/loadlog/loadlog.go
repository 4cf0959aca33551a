package loadlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tradebook-dev/tradebook/internal/model"
)

// Entry is one row in the load log: one export file processed by a load run.
type Entry struct {
	Timestamp     time.Time
	File          string
	AccountNumber string
	AccountType   model.AccountType
	RowsParsed    int
	RowsInserted  int
	Deleted       bool
}

// Header is the CSV header for load-log.csv.
const Header = "timestamp,file,account_number,account_type,rows_parsed,rows_inserted,deleted"

const (
	numFields     = 7
	logFile       = "load-log.csv"
	colTimestamp  = 0
	colFile       = 1
	colAcctNumber = 2
	colAcctType   = 3
	colParsed     = 4
	colInserted   = 5
	colDeleted    = 6
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colFile] = e.File
	row[colAcctNumber] = e.AccountNumber
	row[colAcctType] = string(e.AccountType)
	row[colParsed] = strconv.Itoa(e.RowsParsed)
	row[colInserted] = strconv.Itoa(e.RowsInserted)
	row[colDeleted] = strconv.FormatBool(e.Deleted)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	parsed, err := strconv.Atoi(record[colParsed])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing rows_parsed %q: %w", record[colParsed], err)
	}

	inserted, err := strconv.Atoi(record[colInserted])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing rows_inserted %q: %w", record[colInserted], err)
	}

	deleted, err := strconv.ParseBool(record[colDeleted])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing deleted %q: %w", record[colDeleted], err)
	}

	return Entry{
		Timestamp:     ts,
		File:          record[colFile],
		AccountNumber: record[colAcctNumber],
		AccountType:   model.AccountType(record[colAcctType]),
		RowsParsed:    parsed,
		RowsInserted:  inserted,
		Deleted:       deleted,
	}, nil
}

// Append writes entries to <dataDir>/load-log.csv, creating the file and
// header if needed.
func Append(dataDir string, entries []Entry) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	path := filepath.Join(dataDir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening load log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <dataDir>/load-log.csv.
// Returns an empty slice if the file does not exist.
func Read(dataDir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dataDir, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening load log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading load log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
