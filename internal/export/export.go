// Package export writes scored leads to CSV, JSON, or XLSX files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/scorer"
)

// Format selects the output file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", eris.Errorf("export: unknown format %q (want csv, json, or xlsx)", s)
	}
}

// breakdownFactors fixes the order of the flattened score_* columns.
var breakdownFactors = []string{
	scorer.FactorRating,
	scorer.FactorReviews,
	scorer.FactorReachable,
	scorer.FactorEmail,
	scorer.FactorTags,
}

var columns = buildColumns()

func buildColumns() []string {
	cols := []string{
		"name", "address", "phone", "website", "category",
		"rating", "review_count", "source",
		"reachable", "email", "tags",
		"score",
	}
	for _, factor := range breakdownFactors {
		cols = append(cols, "score_"+factor)
	}
	return cols
}

// Exporter writes lead files into a target directory.
type Exporter struct {
	dir string
}

// New creates an Exporter that writes into dir, creating it if needed.
func New(dir string) (*Exporter, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrap(err, "export: create output dir")
	}
	return &Exporter{dir: dir}, nil
}

// Write exports leads in the given format and returns the written path.
func (e *Exporter) Write(leads []model.Lead, format Format, query string) (string, error) {
	path := filepath.Join(e.dir, fileName(query, format))
	switch format {
	case FormatCSV:
		return path, e.writeCSV(path, leads)
	case FormatJSON:
		return path, e.writeJSON(path, leads)
	case FormatXLSX:
		return path, e.writeXLSX(path, leads)
	default:
		return "", eris.Errorf("export: unknown format %q", format)
	}
}

func fileName(query string, format Format) string {
	slug := strings.ToLower(strings.TrimSpace(query))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, slug)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "leads"
	}
	return fmt.Sprintf("%s-%s.%s", slug, time.Now().UTC().Format("20060102-150405"), format)
}

func (e *Exporter) writeCSV(path string, leads []model.Lead) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create csv")
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for _, lead := range leads {
		if err := w.Write(leadRow(lead)); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "export: flush csv")
	}
	return eris.Wrap(f.Close(), "export: close csv")
}

func (e *Exporter) writeJSON(path string, leads []model.Lead) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create json")
	}
	defer f.Close() //nolint:errcheck

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if leads == nil {
		leads = []model.Lead{}
	}
	if err := enc.Encode(leads); err != nil {
		return eris.Wrap(err, "export: encode json")
	}
	return eris.Wrap(f.Close(), "export: close json")
}

func (e *Exporter) writeXLSX(path string, leads []model.Lead) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range columns {
		header.AddCell().SetString(col)
	}
	for _, lead := range leads {
		row := sheet.AddRow()
		for _, cell := range leadRow(lead) {
			row.AddCell().SetString(cell)
		}
	}
	return eris.Wrap(file.Save(path), "export: save xlsx")
}

func leadRow(lead model.Lead) []string {
	rating := ""
	if lead.Rating != nil {
		rating = strconv.FormatFloat(*lead.Rating, 'f', -1, 64)
	}
	reviews := ""
	if lead.ReviewCount != nil {
		reviews = strconv.Itoa(*lead.ReviewCount)
	}
	row := []string{
		lead.Name,
		lead.Address,
		lead.Phone,
		lead.Website,
		lead.Category,
		rating,
		reviews,
		string(lead.Source),
		strconv.FormatBool(lead.Reachable),
		lead.Email,
		strings.Join(lead.Tags, ";"),
		strconv.FormatFloat(lead.Score, 'f', 2, 64),
	}
	for _, factor := range breakdownFactors {
		cell := ""
		if lead.ScoreBreakdown != nil {
			cell = strconv.FormatFloat(lead.ScoreBreakdown[factor], 'f', 2, 64)
		}
		row = append(row, cell)
	}
	return row
}
