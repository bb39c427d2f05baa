// Package source reads raw record sets from the two scrape sources.
// Header aliases are resolved to canonical fields once here; malformed
// rows are logged and skipped, never fatal.
package source

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/outboundiq/leadpipe/internal/model"
)

// LoadProfiles reads profile-source records from a .csv or .xlsx file.
func LoadProfiles(path string) ([]model.ProfileRecord, error) {
	header, rows, err := readRows(path)
	if err != nil {
		return nil, eris.Wrapf(err, "source: load profiles %s", path)
	}

	idx := headerIndex(header)
	records := make([]model.ProfileRecord, 0, len(rows))
	for _, row := range rows {
		r := model.ProfileRecord{
			FirstName:      cell(row, idx, "first_name"),
			LastName:       cell(row, idx, "last_name"),
			JobTitle:       cell(row, idx, "job_title"),
			CompanyName:    cell(row, idx, "company_name"),
			CompanyURL:     cell(row, idx, "company_url"),
			CompanySize:    cell(row, idx, "company_size"),
			Location:       cell(row, idx, "location"),
			Phone:          cell(row, idx, "phone"),
			ProfileURL:     cell(row, idx, "profile_url"),
			RecentActivity: truthy(cell(row, idx, "recent_activity")),
		}
		if r.FirstName == "" && r.LastName == "" && r.CompanyName == "" {
			zap.L().Warn("source: skipping empty profile row", zap.String("path", path))
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

// LoadDirectory reads directory-source records from a .csv or .xlsx file.
func LoadDirectory(path string) ([]model.DirectoryRecord, error) {
	header, rows, err := readRows(path)
	if err != nil {
		return nil, eris.Wrapf(err, "source: load directory %s", path)
	}

	idx := headerIndex(header)
	records := make([]model.DirectoryRecord, 0, len(rows))
	for _, row := range rows {
		r := model.DirectoryRecord{
			Name:     cell(row, idx, "company_name"),
			Phone:    cell(row, idx, "phone"),
			Address:  cell(row, idx, "location"),
			Website:  cell(row, idx, "company_url"),
			MapURL:   cell(row, idx, "map_url"),
			Category: cell(row, idx, "category"),
		}
		if v := cell(row, idx, "rating"); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				r.Rating = &f
			} else {
				zap.L().Warn("source: unparseable rating", zap.String("value", v))
			}
		}
		if v := cell(row, idx, "review_count"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				r.ReviewCount = &n
			} else {
				zap.L().Warn("source: unparseable review count", zap.String("value", v))
			}
		}
		if r.Name == "" && r.Website == "" {
			zap.L().Warn("source: skipping empty directory row", zap.String("path", path))
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

// readRows returns the header row and data rows for a CSV or XLSX file.
func readRows(path string) ([]string, [][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	case ".xlsx":
		return readXLSX(path)
	default:
		return nil, nil, eris.Errorf("source: unsupported file extension %q", filepath.Ext(path))
	}
}

func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "source: open csv")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, eris.New("source: empty csv file")
	}
	if err != nil {
		return nil, nil, eris.Wrap(err, "source: read csv header")
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			zap.L().Warn("source: skipping malformed csv row", zap.Error(err))
			continue
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

func readXLSX(path string) ([]string, [][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "source: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, nil, eris.New("source: xlsx file has no sheets")
	}

	sheet := f.Sheets[0]
	var header []string
	var rows [][]string
	for i, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = strings.TrimSpace(c.String())
		}
		if i == 0 {
			header = cells
			continue
		}
		rows = append(rows, cells)
	}
	if header == nil {
		return nil, nil, eris.New("source: xlsx sheet is empty")
	}
	return header, rows, nil
}

// headerIndex maps canonical field names to column positions. Each header
// cell is resolved through the alias table exactly once.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key, ok := model.CanonicalKey(h)
		if !ok {
			continue
		}
		if _, exists := idx[key]; !exists {
			idx[key] = i
		}
	}
	return idx
}

func cell(row []string, idx map[string]int, key string) string {
	i, ok := idx[key]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1":
		return true
	default:
		return false
	}
}
