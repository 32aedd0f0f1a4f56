package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/xavierca1/prospection-crm/internal/entity"
	"github.com/xavierca1/prospection-crm/internal/usecase"
)

const (
	SheetName   = "Prospects"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	dateLayout  = "02/01/2006"
)

var headers = []string{
	"Nom",
	"Entreprise",
	"Email",
	"Téléphone",
	"Adresse",
	"Statut",
	"Valeur estimée (€)",
	"Date création",
	"Nombre interactions",
}

var columnWidths = []float64{20, 25, 30, 15, 30, 15, 18, 15, 18}

type column int

const (
	colNom column = iota
	colEntreprise
	colEmail
	colTelephone
	colAdresse
	colValeur
)

// headerAliases maps lowercased header cells onto import columns. Both the
// export headers and the raw field names are accepted.
var headerAliases = map[string]column{
	"nom":                colNom,
	"entreprise":         colEntreprise,
	"email":              colEmail,
	"téléphone":          colTelephone,
	"telephone":          colTelephone,
	"adresse":            colAdresse,
	"valeur estimée (€)": colValeur,
	"valeur estimée":     colValeur,
	"valeurestimee":      colValeur,
	"valeur_estimee":     colValeur,
}

var ErrEmptySheet = errors.New("le fichier ne contient aucune ligne")

type ExcelCodec struct{}

func NewExcelCodec() *ExcelCodec {
	return &ExcelCodec{}
}

func (c *ExcelCodec) Encode(w io.Writer, items []entity.Prospect) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	head := make([]any, len(headers))
	for i, h := range headers {
		head[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &head); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return err
	}

	for i, p := range items {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []any{
			p.Nom,
			p.Entreprise,
			p.Email,
			p.Telephone,
			p.Adresse,
			p.Status.Label(),
			"",
			"",
			len(p.Interactions),
		}
		if p.ValeurEstimee != nil {
			row[6] = *p.ValeurEstimee
		}
		if !p.DateCreation.IsZero() {
			row[7] = p.DateCreation.Format(dateLayout)
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("ligne %d: %w", i+2, err)
		}
	}

	for i, width := range columnWidths {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, name, name, width); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// Decode reads the first sheet. The first row is the header; blank lines are
// skipped and Line keeps the spreadsheet row number.
func (c *ExcelCodec) Decode(r io.Reader) ([]usecase.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("lecture du classeur: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	index := map[column]int{}
	for i, h := range rows[0] {
		if col, ok := headerAliases[strings.ToLower(strings.TrimSpace(h))]; ok {
			if _, dup := index[col]; !dup {
				index[col] = i
			}
		}
	}

	cell := func(row []string, col column) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := []usecase.ImportRow{}
	for n, row := range rows[1:] {
		if blank(row) {
			continue
		}
		line := n + 2
		ir := usecase.ImportRow{
			Line:       line,
			Nom:        cell(row, colNom),
			Entreprise: cell(row, colEntreprise),
			Email:      cell(row, colEmail),
			Telephone:  cell(row, colTelephone),
			Adresse:    cell(row, colAdresse),
		}
		if raw := cell(row, colValeur); raw != "" {
			if v, ok := parseAmount(raw); ok {
				ir.ValeurEstimee = &v
			} else {
				log.Printf("⚠️ Ligne %d: valeur estimée illisible %q", line, raw)
			}
		}
		out = append(out, ir)
	}
	return out, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseAmount accepts "12 500,50 €" as well as "12500.5". NaN and
// infinities are refused.
func parseAmount(raw string) (float64, bool) {
	s := strings.NewReplacer("€", "", " ", "", " ", "", " ", "").Replace(raw)
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
