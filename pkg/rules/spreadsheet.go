package rules

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/admitcheck/pkg/domain"
	"github.com/xuri/excelize/v2"
)

// Sheet names with their accepted aliases.
var (
	sheetModules      = []string{"Module", "Modules"}
	sheetPrograms     = []string{"Studiengänge", "Programs"}
	sheetGeneral      = []string{"Allgemein", "General"}
	sheetCompositions = []string{"Modulzusammensetzung", "Module Composition"}
)

// Column headers.
const (
	colModuleName     = "Modulbezeichnung"
	colProgram        = "Studiengang"
	colCategory       = "Kategorie"
	colMinCredits     = "Mindest-ECTS"
	colKey            = "Schlüssel"
	colValue          = "Wert"
	colPriorProgram   = "Bachelorstudiengang"
	colStudyMode      = "Studienart"
	colSpecialization = "Vertiefung"
	colModules        = "Pflichtmodule"
)

// LoadSpreadsheet reads a rule table from an .xlsx workbook.
func LoadSpreadsheet(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer f.Close()

	table := Empty()
	table.Source = path

	// Modules: one row per module, one column per category.
	name, rows, err := readSheet(f, sheetModules, true, colModuleName)
	if err != nil {
		return nil, &LoadError{Source: path, Sheet: name, Err: err}
	}
	for _, row := range rows {
		module := strings.TrimSpace(row[colModuleName])
		if module == "" {
			continue
		}
		cats := make(CategoryCredits)
		for col, cell := range row {
			if col == colModuleName {
				continue
			}
			cats[col] = flagCredits(cell)
		}
		table.Modules[module] = cats
	}

	// Programs: long format (program, category, minimum credits).
	name, rows, err = readSheet(f, sheetPrograms, true, colProgram, colCategory, colMinCredits)
	if err != nil {
		return nil, &LoadError{Source: path, Sheet: name, Err: err}
	}
	for i, row := range rows {
		program := strings.TrimSpace(row[colProgram])
		category := strings.TrimSpace(row[colCategory])
		if program == "" || category == "" {
			continue
		}
		minCredits, err := ParseNumber(row[colMinCredits])
		if err != nil {
			return nil, &LoadError{Source: path, Sheet: name, Err: fmt.Errorf("row %d: %w", i+2, err)}
		}
		if table.Programs[program] == nil {
			table.Programs[program] = make(CategoryCredits)
		}
		table.Programs[program][category] = minCredits
	}

	// General: key/value thresholds.
	name, rows, err = readSheet(f, sheetGeneral, true, colKey, colValue)
	if err != nil {
		return nil, &LoadError{Source: path, Sheet: name, Err: err}
	}
	raw := make(map[string]any, len(rows))
	for _, row := range rows {
		if key := strings.TrimSpace(row[colKey]); key != "" {
			raw[key] = strings.TrimSpace(row[colValue])
		}
	}
	general, ok, err := decodeGeneral(raw)
	if err != nil {
		return nil, &LoadError{Source: path, Sheet: name, Err: err}
	}
	table.General = general
	table.hasGeneral = ok

	// Module composition is optional.
	_, rows, err = readSheet(f, sheetCompositions, false, colPriorProgram, colStudyMode, colSpecialization, colModules)
	if err != nil {
		return nil, &LoadError{Source: path, Sheet: sheetCompositions[0], Err: err}
	}
	for _, row := range rows {
		c := Composition{
			Program:        strings.TrimSpace(row[colPriorProgram]),
			StudyMode:      strings.TrimSpace(row[colStudyMode]),
			Specialization: strings.TrimSpace(row[colSpecialization]),
			Modules:        splitList(row[colModules]),
		}
		if c.Program == "" {
			continue
		}
		table.Compositions = append(table.Compositions, c)
	}

	return table, nil
}

// readSheet returns the rows of the first sheet matching one of names as
// header-keyed records. The header row must contain every column in columns.
func readSheet(f *excelize.File, names []string, required bool, columns ...string) (string, []map[string]string, error) {
	sheet := ""
	for _, existing := range f.GetSheetList() {
		for _, n := range names {
			if strings.EqualFold(existing, n) {
				sheet = existing
			}
		}
	}
	if sheet == "" {
		if required {
			return names[0], nil, fmt.Errorf("missing sheet %q", names[0])
		}
		return names[0], nil, nil
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return sheet, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return sheet, nil, fmt.Errorf("sheet is empty")
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	for _, col := range columns {
		if !slices.Contains(header, col) {
			return sheet, nil, fmt.Errorf("missing column %q", col)
		}
	}

	records := make([]map[string]string, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		rec := make(map[string]string, len(header))
		for i, h := range header {
			if h == "" {
				continue
			}
			if i < len(cells) {
				rec[h] = cells[i]
			} else {
				rec[h] = ""
			}
		}
		records = append(records, rec)
	}
	return sheet, records, nil
}

// flagCredits converts a module category cell into credit-units.
// "x" marks a full module; numbers are weights; anything else counts as zero.
func flagCredits(cell string) float64 {
	clean := strings.TrimSpace(cell)
	if strings.EqualFold(clean, "x") {
		return ModuleCredits
	}
	if w, err := ParseNumber(clean); err == nil {
		return w * ModuleCredits
	}
	return 0
}

// ParseNumber parses a number written with a decimal point or a decimal comma.
func ParseNumber(s string) (float64, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	n, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("number %q: %w", s, domain.ErrInvalidAnswerFormat)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("number %q is not finite: %w", s, domain.ErrInvalidAnswerFormat)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

