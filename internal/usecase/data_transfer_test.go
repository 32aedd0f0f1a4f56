package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/prospection-crm/internal/entity"
	"github.com/xavierca1/prospection-crm/internal/record"
)

func TestExport_NothingToExport(t *testing.T) {
	store, _ := readyStore(t)
	codec := new(MockCodec)

	err := NewExportProspectsUseCase(store, codec).Execute(&bytes.Buffer{})

	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeNothingToExport, de.Code)
	codec.AssertNotCalled(t, "Encode", mock.Anything, mock.Anything)
}

func TestExport_EncodesStoreItems(t *testing.T) {
	store, _ := readyStore(t, prospectRow("p1", "a", entity.StatusNouveau))
	codec := new(MockCodec)
	codec.On("Encode", mock.Anything, mock.MatchedBy(func(items []entity.Prospect) bool {
		return len(items) == 1 && items[0].ID == "p1"
	})).Return(nil)

	require.NoError(t, NewExportProspectsUseCase(store, codec).Execute(&bytes.Buffer{}))
	codec.AssertExpectations(t)
}

func TestExport_CodecFailureIsTechnical(t *testing.T) {
	store, _ := readyStore(t, prospectRow("p1", "a", entity.StatusNouveau))
	codec := new(MockCodec)
	codec.On("Encode", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	err := NewExportProspectsUseCase(store, codec).Execute(&bytes.Buffer{})
	assert.True(t, IsTechnicalError(err))
}

func TestImport_SkipsDuplicatesAndCountsFailures(t *testing.T) {
	existing := prospectRow("p1", "jean", entity.StatusContact)
	existing.Email = "Jean@Acme.fr"
	store, remote := readyStore(t, existing)

	rows := []ImportRow{
		{Line: 2, Nom: "Autre", Email: "jean@acme.fr"},
		{Line: 3, Nom: "JEAN", Entreprise: "acme"},
		{Line: 4, Nom: "Marie", Entreprise: "Globex", Email: "marie@globex.fr"},
		{Line: 5, Nom: "Marie", Entreprise: "Globex"},
		{Line: 6, Nom: "Paul", Telephone: "123"},
		{Line: 7, Nom: "Luc", Email: "luc@x.fr"},
		{Line: 8, Email: "sans-nom@x.fr"},
	}
	codec := new(MockCodec)
	codec.On("Decode", mock.Anything).Return(rows, nil)

	marie := prospectRow("p2", "Marie", entity.StatusNouveau)
	remote.On("InsertProspect", mock.Anything, mock.MatchedBy(func(f record.Fields) bool {
		return f[record.ColNom] == "Marie"
	})).Return(&marie, nil).Once()
	remote.On("InsertProspect", mock.Anything, mock.MatchedBy(func(f record.Fields) bool {
		return f[record.ColNom] == "Luc"
	})).Return(nil, entity.ErrRemoteUnavailable).Once()

	res, err := NewImportProspectsUseCase(store, codec).Execute(context.Background(), strings.NewReader(""))
	require.NoError(t, err)

	assert.Equal(t, &ImportResult{Imported: 1, Skipped: 3, Failed: 3}, res)
	assert.Len(t, store.Prospects(), 2)
	remote.AssertExpectations(t)
}

func TestImport_NewRowsAreNouveau(t *testing.T) {
	store, remote := readyStore(t)
	codec := new(MockCodec)
	codec.On("Decode", mock.Anything).Return([]ImportRow{{Line: 2, Nom: "A", ValeurEstimee: ptrFloat(10)}}, nil)

	row := prospectRow("p1", "A", entity.StatusNouveau)
	remote.On("InsertProspect", mock.Anything, mock.MatchedBy(func(f record.Fields) bool {
		return f[record.ColStatus] == "nouveau" && f[record.ColValeurEstimee] == 10.0
	})).Return(&row, nil)

	res, err := NewImportProspectsUseCase(store, codec).Execute(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
}

func TestImport_UnreadableFile(t *testing.T) {
	store, _ := readyStore(t)
	codec := new(MockCodec)
	codec.On("Decode", mock.Anything).Return(nil, errors.New("zip: not a valid zip file"))

	_, err := NewImportProspectsUseCase(store, codec).Execute(context.Background(), strings.NewReader("x"))

	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeSpreadsheet, de.Code)
}
