package supabase

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/prospection-crm/internal/entity"
	"github.com/xavierca1/prospection-crm/internal/record"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "anon-key")
}

func TestListProspects_QueryAndDecode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/prospects", r.URL.Path)
		assert.Equal(t, "*,interactions(*)", r.URL.Query().Get("select"))
		assert.Equal(t, "date_creation.desc", r.URL.Query().Get("order"))
		assert.Equal(t, "date.desc", r.URL.Query().Get("interactions.order"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))

		w.Write([]byte(`[
			{"id":"p1","nom":"Jean","entreprise":"Acme","email":null,"telephone":"0612345678","adresse":null,
			 "status":"contact","valeur_estimee":1500.5,"date_creation":"2026-01-10T08:00:00+00:00",
			 "interactions":[{"id":"i1","prospect_id":"p1","type":"appel","date":"2026-01-11T09:30:00+00:00","notes":"ok","duree":null}]}
		]`))
	})

	rows, err := c.ListProspects(t.Context(), record.DefaultListOrder)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	p := rows[0]
	assert.Equal(t, "Jean", p.Nom)
	assert.Equal(t, "", p.Email)
	require.NotNil(t, p.ValeurEstimee)
	assert.Equal(t, 1500.5, *p.ValeurEstimee)
	require.Len(t, p.Interactions, 1)
	assert.Nil(t, p.Interactions[0].Duree)
}

func TestUpdateProspect_SendsOnlyPatchedColumns(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.p1", r.URL.Query().Get("id"))
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		assert.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, map[string]any{"status": "conclu", "valeur_estimee": nil}, body)

		w.Write([]byte(`[{"id":"p1","nom":"Jean","status":"conclu","date_creation":"2026-01-10T08:00:00Z"}]`))
	})

	got, err := c.UpdateProspect(t.Context(), "p1", record.Fields{record.ColStatus: "conclu", record.ColValeurEstimee: nil})
	require.NoError(t, err)
	assert.Equal(t, "conclu", got.Status)
	assert.NotNil(t, got.Interactions)
}

func TestUpdateProspect_NoRowsIsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := c.UpdateProspect(t.Context(), "ghost", record.Fields{record.ColNom: "x"})
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestDeleteProspect(t *testing.T) {
	deleted := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		if deleted {
			w.Write([]byte(`[]`))
			return
		}
		deleted = true
		w.Write([]byte(`[{"id":"p1"}]`))
	})

	require.NoError(t, c.DeleteProspect(t.Context(), "p1"))
	assert.ErrorIs(t, c.DeleteProspect(t.Context(), "p1"), entity.ErrNotFound)
}

func TestInsertInteraction_ForeignKeyViolationIsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/interactions", r.URL.Path)
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"code":"23503","message":"insert or update on table \"interactions\" violates foreign key constraint"}`))
	})

	_, err := c.InsertInteraction(t.Context(), record.Fields{record.ColProspectID: "ghost"})
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestServerErrorIsRemoteUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`upstream down`))
	})

	_, err := c.ListProspects(t.Context(), record.DefaultListOrder)
	assert.ErrorIs(t, err, entity.ErrRemoteUnavailable)
	assert.ErrorContains(t, err, "upstream down")
}

func TestUnreachableIsRemoteUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, "k").InsertProspect(t.Context(), record.Fields{record.ColNom: "x"})
	assert.ErrorIs(t, err, entity.ErrRemoteUnavailable)
}

func TestOrderParam(t *testing.T) {
	assert.Equal(t, "nom.asc", orderParam(record.Order{Column: record.ColNom}))
	assert.Equal(t, "date_creation.desc", orderParam(record.Order{Descending: true}))
}
