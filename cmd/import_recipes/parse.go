package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"recipebook/internal/recipes"
	"recipebook/models"
)

// recipeDraft is one recipe read from an import file, ready for the engine.
type recipeDraft struct {
	Recipe models.Recipe
	Lines  []recipes.IngredientLine
}

// Column order of an import sheet. Rows sharing a recipe name are merged;
// description and servings are taken from the first row that sets them.
var sheetColumns = []string{"recipe", "description", "servings", "ingredient", "amount", "unit"}

func readFile(path string) ([]recipeDraft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return parseSheet(bytes.NewReader(data))
	case ".pdf":
		text, err := extractTextFromPDF(data)
		if err != nil {
			return nil, fmt.Errorf("extract pdf text: %w", err)
		}
		return parseSheet(strings.NewReader(text))
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

// extractTextFromPDF returns the page text with one line per text object, so
// a sheet exported with one row per line reads back as CSV.
func extractTextFromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var builder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

func parseSheet(r io.Reader) ([]recipeDraft, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var (
		drafts []recipeDraft
		index  = map[string]int{}
		line   int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if isBlank(record) || (line == 1 && isHeader(record)) {
			continue
		}

		fields := make([]string, len(sheetColumns))
		for i := range fields {
			if i < len(record) {
				fields[i] = strings.TrimSpace(record[i])
			}
		}

		name := fields[0]
		if name == "" {
			return nil, fmt.Errorf("line %d: recipe name is required", line)
		}

		key := strings.ToLower(name)
		pos, ok := index[key]
		if !ok {
			pos = len(drafts)
			index[key] = pos
			drafts = append(drafts, recipeDraft{Recipe: models.Recipe{Name: name}})
		}
		draft := &drafts[pos]

		if draft.Recipe.Description == "" {
			draft.Recipe.Description = fields[1]
		}
		if fields[2] != "" && draft.Recipe.Servings == 0 {
			servings, err := strconv.Atoi(fields[2])
			if err != nil || servings < 0 {
				return nil, fmt.Errorf("line %d: invalid servings %q", line, fields[2])
			}
			draft.Recipe.Servings = servings
		}

		if fields[3] == "" {
			continue
		}
		amount, err := strconv.ParseFloat(fields[4], 64)
		if err != nil || amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
			return nil, fmt.Errorf("line %d: invalid amount %q", line, fields[4])
		}
		unit, ok := models.ParseMeasurementUnit(fields[5])
		if !ok {
			return nil, fmt.Errorf("line %d: unknown measurement unit %q", line, fields[5])
		}
		draft.Lines = append(draft.Lines, recipes.IngredientLine{
			Ingredient:      models.Ingredient{Name: fields[3]},
			Amount:          amount,
			MeasurementUnit: unit,
		})
	}
	return drafts, nil
}

func isHeader(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), sheetColumns[0])
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
