package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Schema creates the two collections. Interactions are removed together
// with their prospect.
const Schema = `
CREATE TABLE IF NOT EXISTS prospects (
    id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    nom            TEXT NOT NULL,
    entreprise     TEXT NOT NULL DEFAULT '',
    email          TEXT NOT NULL DEFAULT '',
    telephone      TEXT NOT NULL DEFAULT '',
    adresse        TEXT NOT NULL DEFAULT '',
    status         TEXT NOT NULL DEFAULT 'nouveau'
                   CHECK (status IN ('nouveau', 'contact', 'qualification', 'proposition', 'negociation', 'conclu', 'perdu')),
    valeur_estimee DOUBLE PRECISION CHECK (valeur_estimee >= 0),
    date_creation  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS interactions (
    id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    prospect_id UUID NOT NULL REFERENCES prospects(id) ON DELETE CASCADE,
    type        TEXT NOT NULL CHECK (type IN ('appel', 'email', 'reunion', 'sms', 'visite')),
    date        TIMESTAMPTZ NOT NULL,
    notes       TEXT NOT NULL DEFAULT '',
    duree       INTEGER CHECK (duree >= 0)
);

CREATE INDEX IF NOT EXISTS idx_prospects_date_creation ON prospects(date_creation DESC);
CREATE INDEX IF NOT EXISTS idx_interactions_prospect_date ON interactions(prospect_id, date DESC);
`

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range strings.Split(Schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute ddl: %w", err)
		}
	}
	return nil
}
