// Package ingest turns uploaded budget exports (CSV/TSV, XLSX, HTML tables,
// markdown tables) into an ordered DraftModel of raw lines. Malformed content
// is reported through DraftModel notes; the reader only errors on input it
// cannot decode at all.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"lifepath_planner/pkg/models"
)

// Read parses file bytes into a DraftModel. The filename extension selects the
// decoder; unknown extensions are treated as delimiter-sniffed CSV.
func Read(data []byte, filename string) (*models.DraftModel, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("empty file: %s", filename)
	}

	var grid [][]string
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		grid, err = readXLSX(data)
	case ".html", ".htm":
		grid, err = readHTMLTable(data)
	case ".md", ".markdown":
		grid, err = readMarkdownTable(data)
	default:
		grid, err = readCSV(data)
	}
	if err != nil {
		return nil, err
	}

	return buildDraft(grid), nil
}

// readCSV decodes comma, semicolon, or tab separated content, picking the
// delimiter that appears most often in the first line.
func readCSV(data []byte) ([][]string, error) {
	firstLine := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		firstLine = data[:idx]
	}
	delim := ','
	bestCount := bytes.Count(firstLine, []byte(","))
	if n := bytes.Count(firstLine, []byte(";")); n > bestCount {
		delim, bestCount = ';', n
	}
	if n := bytes.Count(firstLine, []byte("\t")); n > bestCount {
		delim = '\t'
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	reader.FieldsPerRecord = -1 // ragged rows are expected in hand-edited exports
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to decode CSV: %w", err)
	}
	return rows, nil
}

// buildDraft detects the header row, maps columns, and assembles raw lines.
// It never fails; problems become notes on the draft.
func buildDraft(grid [][]string) *models.DraftModel {
	draft := &models.DraftModel{
		DetectedFormat: models.FormatUnknown,
		FormatHints:    make(map[string]interface{}),
	}
	if len(grid) == 0 {
		draft.AddNote("no rows found in upload")
		return draft
	}

	cols := detectHeader(grid)
	if cols == nil {
		draft.AddNote("no header row detected; nothing ingested")
		return draft
	}
	if !cols.has(colCategory) {
		draft.AddNote("no category column detected")
	}
	hasDebitCredit := cols.has(colDebit) && cols.has(colCredit)
	if !cols.has(colAmount) && !hasDebitCredit {
		draft.AddNote("no amount column detected; nothing ingested")
		return draft
	}

	draft.FormatHints["debit_credit_pair"] = hasDebitCredit
	draft.FormatHints["balance_column"] = cols.has(colBalance)

	dropped := 0
	for rowIdx := cols.headerRow + 1; rowIdx < len(grid); rowIdx++ {
		row := grid[rowIdx]
		if isBlankRow(row) {
			continue
		}
		line, ok := buildLine(row, cols, rowIdx-cols.headerRow-1)
		if !ok {
			dropped++
			continue
		}
		draft.Lines = append(draft.Lines, line)
	}
	if dropped > 0 {
		draft.AddNote(fmt.Sprintf("%d rows dropped (no parseable amount)", dropped))
	}
	if len(draft.Lines) == 0 {
		draft.AddNote("no usable budget lines found")
	}

	ClassifyFormat(draft)
	return draft
}

// buildLine assembles one RawLine from a grid row. Returns false when the row
// has no parseable amount.
func buildLine(row []string, cols *columnMap, rowIndex int) (models.RawLine, bool) {
	line := models.RawLine{RowIndex: rowIndex}

	cell := func(role string) string {
		idx, ok := cols.roles[role]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var amount float64
	var ok bool
	if cols.has(colAmount) {
		amount, ok = parseAmount(cell(colAmount))
	}
	if !ok && cols.has(colDebit) && cols.has(colCredit) {
		// Ledger exports: debit means money out, credit money in.
		debit, dOK := parseAmount(cell(colDebit))
		credit, cOK := parseAmount(cell(colCredit))
		if dOK || cOK {
			amount = credit - debit
			ok = true
		}
	}
	if !ok {
		return line, false
	}
	line.Amount = amount

	line.Category = cell(colCategory)
	line.Description = cell(colDescription)
	line.Date = parseDate(cell(colDate))

	for idx, header := range cols.metadata {
		if idx < len(row) {
			if v := strings.TrimSpace(row[idx]); v != "" {
				line.SetMeta(header, v)
			}
		}
	}
	return line, true
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
