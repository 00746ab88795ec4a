package ingest

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"
)

// readMarkdownTable extracts the first pipe table from a markdown document as
// a string grid. Goldmark first checks the document parses at all; the table
// itself is scanned line by line since pipe rows are unambiguous.
func readMarkdownTable(data []byte) ([][]string, error) {
	if doc := goldmark.DefaultParser().Parse(text.NewReader(data)); doc == nil {
		return nil, fmt.Errorf("markdown document did not parse")
	}

	var grid [][]string
	inTable := false
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if inTable {
				break
			}
			continue
		}
		if !strings.HasPrefix(line, "|") {
			if inTable {
				break
			}
			continue
		}
		inTable = true

		// Skip the |---|---| separator row.
		if strings.Contains(line, "---") {
			continue
		}
		grid = append(grid, splitPipeRow(line))
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("no markdown table found in upload")
	}
	return grid, nil
}

// splitPipeRow splits a markdown table row into trimmed cells.
func splitPipeRow(line string) []string {
	line = strings.Trim(line, "|")
	parts := strings.Split(line, "|")
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.TrimSpace(p))
	}
	return cells
}
