package importer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/homeledger/homeledger/internal/dedupe"
	enc "github.com/homeledger/homeledger/internal/encoding"
	"github.com/homeledger/homeledger/internal/transaction"
)

// Service turns raw bank CSV exports into duplicate-flagged import
// candidates for the user to review.
type Service struct {
	now func() time.Time
}

func NewService() *Service {
	return &Service{now: time.Now}
}

// Preview reads a CSV export and returns one candidate per usable row, each
// flagged against the existing transaction set. Rows that normalize to a
// zero amount are dropped; all other malformations degrade to defaults. An
// error is returned only when the file itself cannot be read as CSV.
func (s *Service) Preview(r io.Reader, existing []*transaction.Transaction) ([]transaction.ImportCandidate, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	br := bufio.NewReader(utf8r)

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(rows) < 2 {
		return nil, nil
	}

	header := rows[0]
	now := s.now()

	var candidates []transaction.ImportCandidate

	for _, row := range rows[1:] {
		record := make(map[string]string, len(header))

		for i, name := range header {
			if i >= len(row) {
				break
			}

			record[name] = row[i]
		}

		if c, ok := NormalizeRow(record, now); ok {
			candidates = append(candidates, c)
		}
	}

	return dedupe.FlagDuplicates(candidates, existing), nil
}

// sniffDelimiter peeks at the header line and picks whichever of comma and
// semicolon occurs more often. European bank exports commonly use
// semicolons.
func sniffDelimiter(br *bufio.Reader) rune {
	buf, _ := br.Peek(4096)

	line := string(buf)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}

	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}

	return ','
}
