package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// readHTMLTable extracts the first <table> of an HTML export as a string grid.
// Header cells (<th>) and data cells (<td>) are treated alike; header
// detection happens downstream with the other formats.
func readHTMLTable(data []byte) ([][]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no <table> found in HTML upload")
	}

	var grid [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var row []string
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			row = append(row, strings.TrimSpace(cell.Text()))
		})
		if len(row) > 0 {
			grid = append(grid, row)
		}
	})
	if len(grid) == 0 {
		return nil, fmt.Errorf("HTML table has no rows")
	}
	return grid, nil
}
