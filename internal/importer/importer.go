package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tradebook-dev/tradebook/internal/model"
)

// Parser converts a broker realized gain/loss export into Transactions.
// Rows the parser cannot understand are skipped, not fatal; a file-level
// failure (unreadable stream, malformed CSV) returns an error.
type Parser interface {
	Parse(r io.Reader, accountNumber string) ([]model.Transaction, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// ExportFile describes a downloaded export found for a configured account.
type ExportFile struct {
	AccountNumber string
	AccountType   model.AccountType
	Path          string
	Size          int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewFidelityParser())
	return r
}

// exportFilePattern is what the broker names a realized gain/loss download.
const exportFilePattern = "Realized_Gain_Loss_Account_%s.csv"

// ExportFileName returns the expected download name for an account number.
func ExportFileName(accountNumber string) string {
	return fmt.Sprintf(exportFilePattern, accountNumber)
}

// Account pairs an account number with its type for scanning.
type Account struct {
	Number string
	Type   model.AccountType
}

// Scan returns the export files that currently exist in downloadsDir for
// the given accounts. Missing files are not an error; they are simply
// absent from the result.
func Scan(downloadsDir string, accounts []Account) ([]ExportFile, error) {
	var files []ExportFile
	for _, acct := range accounts {
		path := filepath.Join(downloadsDir, ExportFileName(acct.Number))
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if info.IsDir() {
			continue
		}
		files = append(files, ExportFile{
			AccountNumber: acct.Number,
			AccountType:   acct.Type,
			Path:          path,
			Size:          info.Size(),
		})
	}
	return files, nil
}

// AccountNumberFromPath derives the account number from an export file
// name: the last underscore-separated token of the stem, uppercased.
// "Realized_Gain_Loss_Account_X69469547.csv" -> "X69469547".
func AccountNumberFromPath(path string) string {
	stem := filepath.Base(path)
	if i := strings.LastIndex(strings.ToLower(stem), ".csv"); i >= 0 {
		stem = stem[:i]
	}
	parts := strings.Split(stem, "_")
	return strings.ToUpper(parts[len(parts)-1])
}
