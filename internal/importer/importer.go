// Package importer reads stone layouts from spreadsheets and drawings.
// Spreadsheet columns are matched by header name when a header row is
// present and by position otherwise.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/KickaEttan/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult is the board read from a file, with per-row problems.
type ImportResult struct {
	Board    model.Board
	BanZones model.TeamZones
	Errors   []string
	Warnings []string
}

// StoneCount returns the number of imported stones across both teams.
func (r ImportResult) StoneCount() int {
	return len(r.Board.Red) + len(r.Board.Yellow)
}

// ColumnMapping holds the column index of each stone field.
type ColumnMapping struct {
	ID     int
	X      int
	Y      int
	Team   int
	Placed int
}

// headerAliases lists the lowercase header names accepted for each field.
var headerAliases = map[string][]string{
	"id":     {"id", "stone", "stone id", "#", "no", "number"},
	"x":      {"x", "pos x", "x (cm)", "across"},
	"y":      {"y", "pos y", "y (cm)", "down"},
	"team":   {"team", "side", "color", "colour"},
	"placed": {"placed", "on sheet", "status", "in play"},
}

// DetectCSVDelimiter guesses the delimiter of a CSV file among comma,
// semicolon, tab and pipe. The candidate that splits the most lines into as
// many columns as the first line wins, and a wider first line breaks ties.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1 // Allow variable field counts

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns matches the cells of a candidate header row against
// headerAliases. When no cell names a field it reports false along with the
// positional layout id, x, y, team, placed.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{ID: -1, X: -1, Y: -1, Team: -1, Placed: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "id":
					setOnce(&mapping.ID, i)
				case "x":
					setOnce(&mapping.X, i)
				case "y":
					setOnce(&mapping.Y, i)
				case "team":
					setOnce(&mapping.Team, i)
				case "placed":
					setOnce(&mapping.Placed, i)
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{ID: 0, X: 1, Y: 2, Team: 3, Placed: 4}, false
	}
	return mapping, true
}

func setOnce(dst *int, i int) {
	if *dst == -1 {
		*dst = i
	}
}

// parseTeam converts a team cell to a model.Team. Empty cells mean red.
// It returns the team and whether the string was recognized.
func parseTeam(s string) (model.Team, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red", "":
		return model.TeamRed, true
	case "yellow":
		return model.TeamYellow, true
	default:
		return model.TeamRed, false
	}
}

// parsePlaced converts a placed cell to a bool. Empty cells mean placed.
func parsePlaced(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "true", "yes", "1", "placed":
		return true, true
	case "false", "0", "bar", "-":
		return false, true
	default:
		return true, false
	}
}

// getCell returns the trimmed cell at idx, or "" when the row is short or the
// column is unmapped.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseCoord(row []string, idx int, name, rowLabel string) (float64, string) {
	s := getCell(row, idx)
	if s == "" {
		return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, name)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, name, s)
	}
	return v, ""
}

// parseRow extracts a stone from a row using the given column mapping.
// nextID is used when the row has no id. Returns the stone, its team, any
// error message, and any warnings.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, nextID func(model.Team) int) (model.Stone, model.Team, string, []string) {
	var warnings []string

	x, errMsg := parseCoord(row, mapping.X, "x", rowLabel)
	if errMsg != "" {
		return model.Stone{}, "", errMsg, nil
	}
	y, errMsg := parseCoord(row, mapping.Y, "y", rowLabel)
	if errMsg != "" {
		return model.Stone{}, "", errMsg, nil
	}

	teamStr := getCell(row, mapping.Team)
	team, ok := parseTeam(teamStr)
	if !ok {
		warnings = append(warnings, fmt.Sprintf("%s: Unknown team '%s', defaulting to red", rowLabel, teamStr))
	}

	placedStr := getCell(row, mapping.Placed)
	placed, ok := parsePlaced(placedStr)
	if !ok {
		warnings = append(warnings, fmt.Sprintf("%s: Unknown placed value '%s', assuming placed", rowLabel, placedStr))
	}

	id := nextID(team)
	if idStr := getCell(row, mapping.ID); idStr != "" {
		n, err := strconv.Atoi(idStr)
		if err != nil || n < 0 {
			return model.Stone{}, "", fmt.Sprintf("%s: Invalid id '%s'", rowLabel, idStr), nil
		}
		id = n
	}

	return model.Stone{ID: id, X: x, Y: y, Placed: placed}, team, "", warnings
}

// isEmptyRow reports whether every cell is blank.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV reads stones from a CSV file whose delimiter is detected from
// its content.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	imported := ImportCSVFromReader(bytes.NewReader(data), delimiter)
	imported.Warnings = append(result.Warnings, imported.Warnings...)
	return imported
}

// ImportCSVFromReader imports stones from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel reads stones from the first sheet of an .xlsx workbook.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows turns spreadsheet rows into a board. rowPrefix names rows
// in messages ("Line" for CSV, "Row" for Excel).
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.X == -1 {
			missing = append(missing, "X")
		}
		if mapping.Y == -1 {
			missing = append(missing, "Y")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			// Unrecognized header; keep positional mapping but skip it
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	counts := map[model.Team]int{}
	nextID := func(team model.Team) int { return counts[team] }
	seen := map[model.Team]map[int]bool{model.TeamRed: {}, model.TeamYellow: {}}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		stone, team, errMsg, warnings := parseRow(row, mapping, rowLabel, nextID)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)

		if seen[team][stone.ID] {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Duplicate %s stone id %d", rowLabel, team, stone.ID))
			continue
		}
		seen[team][stone.ID] = true
		if stone.ID >= counts[team] {
			counts[team] = stone.ID + 1
		}

		result.Board.Add(team, stone)
	}

	return result
}
