package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/xavierca1/prospection-crm/internal/entity"
	"github.com/xavierca1/prospection-crm/internal/record"
)

const prospectColumns = `id, nom, entreprise, email, telephone, adresse, status, valeur_estimee, date_creation`

const interactionColumns = `id, prospect_id, type, date, notes, duree`

var prospectWritable = map[string]bool{
	record.ColNom:           true,
	record.ColEntreprise:    true,
	record.ColEmail:         true,
	record.ColTelephone:     true,
	record.ColAdresse:       true,
	record.ColStatus:        true,
	record.ColValeurEstimee: true,
	record.ColDateCreation:  true,
}

var orderable = map[string]bool{
	record.ColDateCreation: true,
	record.ColNom:          true,
	record.ColEntreprise:   true,
	record.ColStatus:       true,
	record.ColDate:         true,
}

// ProspectRepository is the Postgres-backed remote store.
type ProspectRepository struct {
	DB    *sql.DB
	newID func() string
}

func NewProspectRepository(db *sql.DB) *ProspectRepository {
	return &ProspectRepository{
		DB:    db,
		newID: func() string { return uuid.New().String() },
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProspect(row rowScanner) (*record.ProspectRecord, error) {
	var (
		r      record.ProspectRecord
		valeur sql.NullFloat64
	)
	if err := row.Scan(&r.ID, &r.Nom, &r.Entreprise, &r.Email, &r.Telephone, &r.Adresse, &r.Status, &valeur, &r.DateCreation); err != nil {
		return nil, err
	}
	if valeur.Valid {
		v := valeur.Float64
		r.ValeurEstimee = &v
	}
	r.Interactions = []record.InteractionRecord{}
	return &r, nil
}

func scanInteraction(row rowScanner) (*record.InteractionRecord, error) {
	var (
		r     record.InteractionRecord
		duree sql.NullInt64
	)
	if err := row.Scan(&r.ID, &r.ProspectID, &r.Type, &r.Date, &r.Notes, &duree); err != nil {
		return nil, err
	}
	if duree.Valid {
		d := int(duree.Int64)
		r.Duree = &d
	}
	return &r, nil
}

func (r *ProspectRepository) ListProspects(ctx context.Context, order record.ListOrder) ([]record.ProspectRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM prospects ORDER BY %s`, prospectColumns, orderClause(order.Prospects, record.ColDateCreation))

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, classify("list prospects", err)
	}
	defer rows.Close()

	var (
		out   []record.ProspectRecord
		ids   []string
		index = map[string]int{}
	)
	for rows.Next() {
		p, err := scanProspect(rows)
		if err != nil {
			return nil, classify("scan prospect", err)
		}
		index[p.ID] = len(out)
		ids = append(ids, p.ID)
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list prospects", err)
	}
	if len(ids) == 0 {
		return []record.ProspectRecord{}, nil
	}

	iquery := fmt.Sprintf(`SELECT %s FROM interactions WHERE prospect_id = ANY($1::uuid[]) ORDER BY %s`,
		interactionColumns, orderClause(order.Interactions, record.ColDate))
	irows, err := r.DB.QueryContext(ctx, iquery, pq.Array(ids))
	if err != nil {
		return nil, classify("list interactions", err)
	}
	defer irows.Close()

	for irows.Next() {
		it, err := scanInteraction(irows)
		if err != nil {
			return nil, classify("scan interaction", err)
		}
		if i, ok := index[it.ProspectID]; ok {
			out[i].Interactions = append(out[i].Interactions, *it)
		}
	}
	if err := irows.Err(); err != nil {
		return nil, classify("list interactions", err)
	}

	return out, nil
}

func (r *ProspectRepository) InsertProspect(ctx context.Context, fields record.Fields) (*record.ProspectRecord, error) {
	cols := []string{record.ColID}
	args := []any{r.newID()}
	placeholders := []string{"$1::uuid"}

	for _, col := range fields.Columns() {
		if !prospectWritable[col] {
			return nil, fmt.Errorf("insert prospect: unknown column %q", col)
		}
		cols = append(cols, col)
		args = append(args, fields[col])
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}

	query := fmt.Sprintf(`INSERT INTO prospects (%s) VALUES (%s) RETURNING %s`,
		strings.Join(cols, ", "), strings.Join(placeholders, ", "), prospectColumns)

	p, err := scanProspect(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, classify("insert prospect", err)
	}
	return p, nil
}

// UpdateProspect writes only the given columns. An empty field set reads the
// row back unchanged.
func (r *ProspectRepository) UpdateProspect(ctx context.Context, id string, fields record.Fields) (*record.ProspectRecord, error) {
	query, args, err := buildUpdate(id, fields)
	if err != nil {
		return nil, err
	}

	p, err := scanProspect(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, classify("update prospect "+id, err)
	}

	its, err := r.interactionsOf(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Interactions = its
	return p, nil
}

func buildUpdate(id string, fields record.Fields) (string, []any, error) {
	if len(fields) == 0 {
		return fmt.Sprintf(`SELECT %s FROM prospects WHERE id = $1::uuid`, prospectColumns), []any{id}, nil
	}

	var (
		sets []string
		args []any
	)
	for _, col := range fields.Columns() {
		if !prospectWritable[col] {
			return "", nil, fmt.Errorf("update prospect: unknown column %q", col)
		}
		args = append(args, fields[col])
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE prospects SET %s WHERE id = $%d::uuid RETURNING %s`,
		strings.Join(sets, ", "), len(args), prospectColumns)
	return query, args, nil
}

func (r *ProspectRepository) DeleteProspect(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM prospects WHERE id = $1::uuid`, id)
	if err != nil {
		return classify("delete prospect "+id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify("delete prospect "+id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", entity.ErrNotFound, id)
	}
	return nil
}

func (r *ProspectRepository) InsertInteraction(ctx context.Context, fields record.Fields) (*record.InteractionRecord, error) {
	prospectID, _ := fields[record.ColProspectID].(string)
	if prospectID == "" {
		return nil, fmt.Errorf("insert interaction: %s is required", record.ColProspectID)
	}

	date, _ := fields[record.ColDate].(time.Time)
	query := fmt.Sprintf(`
		INSERT INTO interactions (id, prospect_id, type, date, notes, duree)
		VALUES ($1::uuid, $2::uuid, $3, $4, $5, $6)
		RETURNING %s`, interactionColumns)

	it, err := scanInteraction(r.DB.QueryRowContext(ctx, query,
		r.newID(),
		prospectID,
		fields[record.ColType],
		date,
		fields[record.ColNotes],
		fields[record.ColDuree],
	))
	if err != nil {
		return nil, classify("insert interaction for "+prospectID, err)
	}
	return it, nil
}

func (r *ProspectRepository) interactionsOf(ctx context.Context, prospectID string) ([]record.InteractionRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM interactions WHERE prospect_id = $1::uuid ORDER BY date DESC`, interactionColumns)
	rows, err := r.DB.QueryContext(ctx, query, prospectID)
	if err != nil {
		return nil, classify("list interactions", err)
	}
	defer rows.Close()

	out := []record.InteractionRecord{}
	for rows.Next() {
		it, err := scanInteraction(rows)
		if err != nil {
			return nil, classify("scan interaction", err)
		}
		out = append(out, *it)
	}
	return out, classify("list interactions", rows.Err())
}

func orderClause(o record.Order, fallback string) string {
	col := o.Column
	if !orderable[col] {
		col = fallback
	}
	if o.Descending {
		return col + " DESC"
	}
	return col + " ASC"
}

// classify maps driver errors onto the store taxonomy. Missing rows, unknown
// foreign keys and malformed ids all mean the target does not exist.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", entity.ErrNotFound, op)
	}

	code := ""
	var pgErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgErr):
		code = pgErr.Code
	case errors.As(err, &pqErr):
		code = string(pqErr.Code)
	}
	switch code {
	case "23503", "22P02":
		return fmt.Errorf("%w: %s: %v", entity.ErrNotFound, op, err)
	}
	return fmt.Errorf("%w: %s: %v", entity.ErrRemoteUnavailable, op, err)
}
