// Package record holds the storage-side shape of prospects and interactions
// (snake_case columns, nested interaction rows) and the mapper that converts
// it to and from the domain types in entity.
package record

import (
	"fmt"
	"sort"
	"time"
)

const (
	CollectionProspects    = "prospects"
	CollectionInteractions = "interactions"
)

// prospects columns
const (
	ColID            = "id"
	ColNom           = "nom"
	ColEntreprise    = "entreprise"
	ColEmail         = "email"
	ColTelephone     = "telephone"
	ColAdresse       = "adresse"
	ColStatus        = "status"
	ColValeurEstimee = "valeur_estimee"
	ColDateCreation  = "date_creation"
)

// interactions columns
const (
	ColProspectID = "prospect_id"
	ColType       = "type"
	ColDate       = "date"
	ColNotes      = "notes"
	ColDuree      = "duree"
)

type ProspectRecord struct {
	ID            string              `json:"id"`
	Nom           string              `json:"nom"`
	Entreprise    string              `json:"entreprise"`
	Email         string              `json:"email"`
	Telephone     string              `json:"telephone"`
	Adresse       string              `json:"adresse"`
	Status        string              `json:"status"`
	ValeurEstimee *float64            `json:"valeur_estimee"`
	DateCreation  time.Time           `json:"date_creation"`
	Interactions  []InteractionRecord `json:"interactions"`
}

type InteractionRecord struct {
	ID         string    `json:"id"`
	ProspectID string    `json:"prospect_id"`
	Type       string    `json:"type"`
	Date       time.Time `json:"date"`
	Notes      string    `json:"notes"`
	Duree      *int      `json:"duree"`
}

// Fields is a partial row keyed by column name. A key mapped to nil clears
// the column; a missing key leaves it untouched.
type Fields map[string]any

// Columns returns the keys in a stable order so generated SQL is
// deterministic.
func (f Fields) Columns() []string {
	cols := make([]string, 0, len(f))
	for c := range f {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// ApplyTo writes f onto r the way the backend would for an UPDATE.
func (f Fields) ApplyTo(r *ProspectRecord) error {
	for _, col := range f.Columns() {
		v := f[col]
		switch col {
		case ColNom:
			r.Nom = stringValue(v)
		case ColEntreprise:
			r.Entreprise = stringValue(v)
		case ColEmail:
			r.Email = stringValue(v)
		case ColTelephone:
			r.Telephone = stringValue(v)
		case ColAdresse:
			r.Adresse = stringValue(v)
		case ColStatus:
			r.Status = stringValue(v)
		case ColValeurEstimee:
			if v == nil {
				r.ValeurEstimee = nil
				continue
			}
			fv, ok := v.(float64)
			if !ok {
				return fmt.Errorf("column %s: unexpected %T", col, v)
			}
			r.ValeurEstimee = &fv
		case ColDateCreation:
			t, ok := v.(time.Time)
			if !ok {
				return fmt.Errorf("column %s: unexpected %T", col, v)
			}
			r.DateCreation = t
		default:
			return fmt.Errorf("unknown prospect column %q", col)
		}
	}
	return nil
}

func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// Order names a sort column and direction.
type Order struct {
	Column     string
	Descending bool
}

// ListOrder orders the prospect rows and, independently, the nested
// interaction rows of each prospect.
type ListOrder struct {
	Prospects    Order
	Interactions Order
}

// DefaultListOrder is newest prospect first, most recent interaction first.
var DefaultListOrder = ListOrder{
	Prospects:    Order{Column: ColDateCreation, Descending: true},
	Interactions: Order{Column: ColDate, Descending: true},
}
