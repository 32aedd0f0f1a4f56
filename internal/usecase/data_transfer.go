package usecase

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/xavierca1/prospection-crm/internal/entity"
)

type ExportProspectsUseCase struct {
	Store ProspectLister
	Codec SpreadsheetCodec
}

func NewExportProspectsUseCase(store ProspectLister, codec SpreadsheetCodec) *ExportProspectsUseCase {
	return &ExportProspectsUseCase{Store: store, Codec: codec}
}

func (uc *ExportProspectsUseCase) Execute(w io.Writer) error {
	items := uc.Store.Prospects()
	if len(items) == 0 {
		return &DomainError{Code: CodeNothingToExport, Message: "Aucun prospect à exporter"}
	}
	if err := uc.Codec.Encode(w, items); err != nil {
		return &TechnicalError{Code: CodeSpreadsheet, Message: "erreur lors de la génération du fichier: " + err.Error(), Err: err}
	}
	return nil
}

type ImportProspectsUseCase struct {
	Store ProspectAdder
	Codec SpreadsheetCodec
}

func NewImportProspectsUseCase(store ProspectAdder, codec SpreadsheetCodec) *ImportProspectsUseCase {
	return &ImportProspectsUseCase{Store: store, Codec: codec}
}

// Execute adds every row that is not a duplicate of a known prospect (same
// email, or same nom + entreprise). Rows are added one by one; a failing row
// is logged and counted but does not stop the import.
func (uc *ImportProspectsUseCase) Execute(ctx context.Context, r io.Reader) (*ImportResult, error) {
	rows, err := uc.Codec.Decode(r)
	if err != nil {
		return nil, &DomainError{Code: CodeSpreadsheet, Message: "Erreur lors de l'import du fichier: " + err.Error()}
	}

	seen := newDedupIndex(uc.Store.Prospects())
	res := &ImportResult{}

	for _, row := range rows {
		if seen.contains(row.Email, row.Nom, row.Entreprise) {
			res.Skipped++
			continue
		}

		in := entity.NewProspect{
			Nom:           row.Nom,
			Entreprise:    row.Entreprise,
			Email:         row.Email,
			Telephone:     row.Telephone,
			Adresse:       row.Adresse,
			Status:        entity.StatusNouveau,
			ValeurEstimee: row.ValeurEstimee,
		}
		if errs := ValidateNewProspect(in); len(errs) > 0 {
			log.Printf("⚠️ Ligne %d ignorée: %v", row.Line, NewValidationFailed(errs))
			res.Failed++
			continue
		}

		if _, err := uc.Store.Add(ctx, in); err != nil {
			log.Printf("❌ Erreur import ligne %d: %v", row.Line, err)
			res.Failed++
			continue
		}
		seen.add(row.Email, row.Nom, row.Entreprise)
		res.Imported++
	}

	log.Printf("📥 Import terminé: %d importés, %d doublons, %d en erreur", res.Imported, res.Skipped, res.Failed)
	return res, nil
}

type dedupIndex struct {
	emails map[string]struct{}
	names  map[string]struct{}
}

func newDedupIndex(items []entity.Prospect) *dedupIndex {
	idx := &dedupIndex{
		emails: make(map[string]struct{}, len(items)),
		names:  make(map[string]struct{}, len(items)),
	}
	for _, p := range items {
		idx.add(p.Email, p.Nom, p.Entreprise)
	}
	return idx
}

func (d *dedupIndex) add(email, nom, entreprise string) {
	if e := normalize(email); e != "" {
		d.emails[e] = struct{}{}
	}
	if n := normalize(nom); n != "" {
		d.names[nameKey(n, normalize(entreprise))] = struct{}{}
	}
}

func (d *dedupIndex) contains(email, nom, entreprise string) bool {
	if e := normalize(email); e != "" {
		if _, ok := d.emails[e]; ok {
			return true
		}
	}
	if n := normalize(nom); n != "" {
		if _, ok := d.names[nameKey(n, normalize(entreprise))]; ok {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func nameKey(nom, entreprise string) string {
	return fmt.Sprintf("%s\x00%s", nom, entreprise)
}
