package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/prospection-crm/internal/entity"
	"github.com/xavierca1/prospection-crm/internal/record"
)

var created = time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

func prospectRow(id, nom string, status entity.ProspectStatus) record.ProspectRecord {
	return record.ProspectRecord{
		ID:           id,
		Nom:          nom,
		Entreprise:   "Acme",
		Email:        nom + "@acme.fr",
		Status:       string(status),
		DateCreation: created,
		Interactions: []record.InteractionRecord{},
	}
}

func readyStore(t *testing.T, rows ...record.ProspectRecord) (*ProspectStore, *MockRemoteStore) {
	t.Helper()
	remote := new(MockRemoteStore)
	remote.On("ListProspects", mock.Anything, record.DefaultListOrder).Return(rows, nil).Once()
	store := NewProspectStore(remote, nil)
	store.Initialize(context.Background())
	require.Equal(t, StateReady, store.State())
	return store, remote
}

func ids(items []entity.Prospect) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.ID
	}
	return out
}

func TestInitialize_LoadsInOrder(t *testing.T) {
	store, remote := readyStore(t,
		prospectRow("p2", "b", entity.StatusContact),
		prospectRow("p1", "a", entity.StatusNouveau),
	)

	assert.False(t, store.IsLoading())
	assert.Equal(t, []string{"p2", "p1"}, ids(store.Prospects()))
	remote.AssertExpectations(t)
}

func TestInitialize_LoadErrorLeavesEmptyReadyStore(t *testing.T) {
	remote := new(MockRemoteStore)
	remote.On("ListProspects", mock.Anything, record.DefaultListOrder).
		Return(nil, fmt.Errorf("%w: connection refused", entity.ErrRemoteUnavailable))

	store := NewProspectStore(remote, nil)
	assert.True(t, store.IsLoading())
	assert.Equal(t, StateUninitialized, store.State())

	assert.NotPanics(t, func() { store.Initialize(context.Background()) })

	assert.False(t, store.IsLoading())
	assert.Equal(t, StateReady, store.State())
	assert.Empty(t, store.Prospects())
}

func TestInitialize_RunsOnce(t *testing.T) {
	store, remote := readyStore(t, prospectRow("p1", "a", entity.StatusNouveau))

	store.Initialize(context.Background())

	remote.AssertNumberOfCalls(t, "ListProspects", 1)
	assert.Len(t, store.Prospects(), 1)
}

func TestInitialize_DropsDuplicateRows(t *testing.T) {
	store, _ := readyStore(t,
		prospectRow("p1", "a", entity.StatusNouveau),
		prospectRow("p1", "a", entity.StatusNouveau),
	)
	assert.Len(t, store.Prospects(), 1)
}

func TestAdd_PrependsEachNewItem(t *testing.T) {
	store, remote := readyStore(t)

	for i := 1; i <= 5; i++ {
		row := prospectRow(fmt.Sprintf("p%d", i), fmt.Sprintf("n%d", i), entity.StatusNouveau)
		remote.On("InsertProspect", mock.Anything, mock.Anything).Return(&row, nil).Once()

		p, err := store.Add(context.Background(), entity.NewProspect{Nom: row.Nom})
		require.NoError(t, err)

		items := store.Prospects()
		assert.Len(t, items, i)
		assert.Equal(t, p.ID, items[0].ID)
	}

	seen := map[string]bool{}
	for _, id := range ids(store.Prospects()) {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestAdd_SendsStorageShape(t *testing.T) {
	store, remote := readyStore(t)

	valeur := 2500.0
	expected := record.Fields{
		record.ColNom:           "Jean",
		record.ColEntreprise:    "Acme",
		record.ColEmail:         "jean@acme.fr",
		record.ColTelephone:     "",
		record.ColAdresse:       "",
		record.ColStatus:        "nouveau",
		record.ColValeurEstimee: valeur,
	}
	row := prospectRow("p1", "Jean", entity.StatusNouveau)
	row.ValeurEstimee = &valeur
	remote.On("InsertProspect", mock.Anything, expected).Return(&row, nil)

	p, err := store.Add(context.Background(), entity.NewProspect{Nom: "Jean", Entreprise: "Acme", Email: "jean@acme.fr", ValeurEstimee: &valeur})
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, 2500.0, *p.ValeurEstimee)
	remote.AssertExpectations(t)
}

func TestAdd_ErrorLeavesItemsUnchanged(t *testing.T) {
	store, remote := readyStore(t, prospectRow("p1", "a", entity.StatusNouveau))
	remote.On("InsertProspect", mock.Anything, mock.Anything).Return(nil, entity.ErrRemoteUnavailable)

	_, err := store.Add(context.Background(), entity.NewProspect{Nom: "x"})

	assert.ErrorIs(t, err, entity.ErrRemoteUnavailable)
	assert.Equal(t, []string{"p1"}, ids(store.Prospects()))
}

func TestUpdate_CommitsServerRow(t *testing.T) {
	before := prospectRow("p1", "a", entity.StatusNouveau)
	before.Telephone = "0612345678"
	store, remote := readyStore(t, before, prospectRow("p2", "b", entity.StatusContact))

	after := before
	after.Status = string(entity.StatusQualification)
	remote.On("UpdateProspect", mock.Anything, "p1", record.Fields{record.ColStatus: "qualification"}).Return(&after, nil)

	p, err := store.Update(context.Background(), "p1", entity.StatusPatch(entity.StatusQualification))
	require.NoError(t, err)
	assert.Equal(t, entity.StatusQualification, p.Status)

	got, ok := store.Get("p1")
	require.True(t, ok)
	assert.Equal(t, entity.StatusQualification, got.Status)
	assert.Equal(t, "0612345678", got.Telephone)
	assert.Equal(t, "a@acme.fr", got.Email)
	assert.Equal(t, []string{"p1", "p2"}, ids(store.Prospects()))
}

func TestUpdate_ClearsEstimatedValue(t *testing.T) {
	before := prospectRow("p1", "a", entity.StatusNouveau)
	before.ValeurEstimee = ptrFloat(100)
	store, remote := readyStore(t, before)

	after := before
	after.ValeurEstimee = nil
	remote.On("UpdateProspect", mock.Anything, "p1", record.Fields{record.ColValeurEstimee: nil}).Return(&after, nil)

	_, err := store.Update(context.Background(), "p1", entity.ProspectPatch{ValeurEstimee: entity.Clear[float64]()})
	require.NoError(t, err)

	got, _ := store.Get("p1")
	assert.Nil(t, got.ValeurEstimee)
}

func TestUpdate_NotFoundLeavesItemsUnchanged(t *testing.T) {
	store, remote := readyStore(t, prospectRow("p1", "a", entity.StatusNouveau))
	remote.On("UpdateProspect", mock.Anything, "ghost", mock.Anything).Return(nil, fmt.Errorf("%w: ghost", entity.ErrNotFound))

	_, err := store.Update(context.Background(), "ghost", entity.ProspectPatch{Nom: ptrString("x")})

	assert.ErrorIs(t, err, entity.ErrNotFound)
	got, _ := store.Get("p1")
	assert.Equal(t, "a", got.Nom)
}

func TestDelete_RemovesExactlyOne(t *testing.T) {
	store, remote := readyStore(t,
		prospectRow("p3", "c", entity.StatusNouveau),
		prospectRow("p2", "b", entity.StatusContact),
		prospectRow("p1", "a", entity.StatusConclu),
	)
	before := store.Prospects()
	remote.On("DeleteProspect", mock.Anything, "p2").Return(nil)

	require.NoError(t, store.Delete(context.Background(), "p2"))

	after := store.Prospects()
	assert.Equal(t, []string{"p3", "p1"}, ids(after))
	assert.Equal(t, before[0], after[0])
	assert.Equal(t, before[2], after[1])
}

func TestDelete_ErrorKeepsItem(t *testing.T) {
	store, remote := readyStore(t, prospectRow("p1", "a", entity.StatusNouveau))
	remote.On("DeleteProspect", mock.Anything, "p1").Return(errors.New("boom"))

	assert.Error(t, store.Delete(context.Background(), "p1"))
	assert.Len(t, store.Prospects(), 1)
}

func TestAddInteraction_PrependsToOwner(t *testing.T) {
	store, remote := readyStore(t, prospectRow("p1", "a", entity.StatusContact))
	date := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	remote.On("InsertInteraction", mock.Anything, record.Fields{
		record.ColProspectID: "p1",
		record.ColType:       "appel",
		record.ColDate:       date,
		record.ColNotes:      "follow up",
		record.ColDuree:      nil,
	}).Return(&record.InteractionRecord{ID: "i1", ProspectID: "p1", Type: "appel", Date: date, Notes: "follow up"}, nil)

	it, err := store.AddInteraction(context.Background(), "p1", entity.NewInteraction{
		Type:  entity.InteractionAppel,
		Date:  date,
		Notes: "follow up",
	})
	require.NoError(t, err)
	assert.Equal(t, "i1", it.ID)

	p, _ := store.Get("p1")
	require.Len(t, p.Interactions, 1)
	assert.Equal(t, entity.InteractionAppel, p.Interactions[0].Type)
	assert.Equal(t, date, p.Interactions[0].Date)
	assert.Equal(t, "follow up", p.Interactions[0].Notes)
	assert.Nil(t, p.Interactions[0].Duree)
	remote.AssertExpectations(t)
}

func TestAddInteraction_NewestFirst(t *testing.T) {
	row := prospectRow("p1", "a", entity.StatusContact)
	row.Interactions = []record.InteractionRecord{{ID: "old", ProspectID: "p1", Type: "email"}}
	store, remote := readyStore(t, row)
	remote.On("InsertInteraction", mock.Anything, mock.Anything).
		Return(&record.InteractionRecord{ID: "new", ProspectID: "p1", Type: "sms"}, nil)

	_, err := store.AddInteraction(context.Background(), "p1", entity.NewInteraction{Type: entity.InteractionSMS, Date: created})
	require.NoError(t, err)

	p, _ := store.Get("p1")
	require.Len(t, p.Interactions, 2)
	assert.Equal(t, "new", p.Interactions[0].ID)
	assert.Equal(t, "old", p.Interactions[1].ID)
}

func TestAddInteraction_UnknownProspectIsInvisible(t *testing.T) {
	store, remote := readyStore(t, prospectRow("p1", "a", entity.StatusContact))
	remote.On("InsertInteraction", mock.Anything, mock.Anything).
		Return(&record.InteractionRecord{ID: "i9", ProspectID: "elsewhere", Type: "appel"}, nil)

	it, err := store.AddInteraction(context.Background(), "elsewhere", entity.NewInteraction{Type: entity.InteractionAppel, Date: created})
	require.NoError(t, err)
	assert.Equal(t, "i9", it.ID)

	p, _ := store.Get("p1")
	assert.Empty(t, p.Interactions)
	assert.Len(t, store.Prospects(), 1)
}

func TestProspects_ReturnsCopies(t *testing.T) {
	store, _ := readyStore(t, prospectRow("p1", "a", entity.StatusNouveau))

	items := store.Prospects()
	items[0].Nom = "mutated"

	got, _ := store.Get("p1")
	assert.Equal(t, "a", got.Nom)
}

func TestEvents_PublishedAfterCommit(t *testing.T) {
	remote := new(MockRemoteStore)
	events := new(MockEventPublisher)
	remote.On("ListProspects", mock.Anything, mock.Anything).
		Return([]record.ProspectRecord{prospectRow("p1", "a", entity.StatusNegociation)}, nil)

	store := NewProspectStore(remote, events)
	store.now = func() time.Time { return created }
	store.Initialize(context.Background())

	after := prospectRow("p1", "a", entity.StatusConclu)
	remote.On("UpdateProspect", mock.Anything, "p1", mock.Anything).Return(&after, nil)
	events.On("PublishPipelineEvent", mock.Anything, entity.PipelineEvent{
		Type:       entity.EventStatusChanged,
		ProspectID: "p1",
		Nom:        "a",
		Entreprise: "Acme",
		Email:      "a@acme.fr",
		FromStatus: entity.StatusNegociation,
		ToStatus:   entity.StatusConclu,
		OccurredAt: created,
	}).Return(nil)

	_, err := store.Update(context.Background(), "p1", entity.StatusPatch(entity.StatusConclu))
	require.NoError(t, err)
	events.AssertExpectations(t)
}

func TestEvents_PublishFailureDoesNotFailMutation(t *testing.T) {
	remote := new(MockRemoteStore)
	events := new(MockEventPublisher)
	remote.On("ListProspects", mock.Anything, mock.Anything).Return([]record.ProspectRecord{}, nil)
	store := NewProspectStore(remote, events)
	store.Initialize(context.Background())

	row := prospectRow("p1", "a", entity.StatusNouveau)
	remote.On("InsertProspect", mock.Anything, mock.Anything).Return(&row, nil)
	events.On("PublishPipelineEvent", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	p, err := store.Add(context.Background(), entity.NewProspect{Nom: "a"})
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Len(t, store.Prospects(), 1)
}

func TestEvents_NotPublishedOnFailure(t *testing.T) {
	remote := new(MockRemoteStore)
	events := new(MockEventPublisher)
	remote.On("ListProspects", mock.Anything, mock.Anything).Return([]record.ProspectRecord{}, nil)
	remote.On("DeleteProspect", mock.Anything, "p1").Return(entity.ErrNotFound)
	store := NewProspectStore(remote, events)
	store.Initialize(context.Background())

	assert.ErrorIs(t, store.Delete(context.Background(), "p1"), entity.ErrNotFound)
	events.AssertNotCalled(t, "PublishPipelineEvent", mock.Anything, mock.Anything)
}
