package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/preston-bernstein/nba-ingest-core/internal/sourceclient"
)

// brefTableRows walks every <tr> in the named <table id="..."> and
// builds one row dictionary per row, keyed by each cell's data-stat
// attribute — Basketball-Reference's own convention for naming box
// score columns, stable across page redesigns even when display layout
// changes.
func brefTableRows(tree sourceclient.ResponseTree, tableID string) ([]map[string]any, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(tree.Raw))
	if err != nil {
		return nil, fmt.Errorf("extract: bref %s: parse html: %w", tree.Endpoint, err)
	}

	table := doc.Find("table#" + tableID)
	if table.Length() == 0 {
		return nil, fmt.Errorf("extract: bref %s: table %q not found", tree.Endpoint, tableID)
	}

	var rows []map[string]any
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		if strings.Contains(tr.AttrOr("class", ""), "thead") {
			return
		}
		row := map[string]any{}
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			stat, ok := cell.Attr("data-stat")
			if !ok {
				return
			}
			row[stat] = strings.TrimSpace(cell.Text())
		})
		if len(row) > 0 {
			rows = append(rows, row)
		}
	})
	return rows, nil
}

// BrefBoxscore extracts per-player basic box score rows from a
// Basketball-Reference game page.
func BrefBoxscore(tree sourceclient.ResponseTree, tableID string) ([]map[string]any, error) {
	return brefTableRows(tree, tableID)
}

// BrefPBP extracts play-by-play rows from a Basketball-Reference
// play-by-play page.
func BrefPBP(tree sourceclient.ResponseTree) ([]map[string]any, error) {
	return brefTableRows(tree, "pbp")
}
