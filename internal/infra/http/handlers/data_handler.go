package handlers

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/xavierca1/prospection-crm/internal/infra/http/middleware"
	"github.com/xavierca1/prospection-crm/internal/infra/spreadsheet"
	"github.com/xavierca1/prospection-crm/internal/usecase"
)

// ExportArchiver keeps a copy of each export. Satisfied by the S3 archive.
type ExportArchiver interface {
	Store(ctx context.Context, key, contentType string, data []byte) error
}

type DataHandler struct {
	ExportUC       *usecase.ExportProspectsUseCase
	ImportUC       *usecase.ImportProspectsUseCase
	Archive        ExportArchiver
	MaxUploadBytes int64
	now            func() time.Time
}

func NewDataHandler(exportUC *usecase.ExportProspectsUseCase, importUC *usecase.ImportProspectsUseCase, maxUploadBytes int64) *DataHandler {
	return &DataHandler{
		ExportUC:       exportUC,
		ImportUC:       importUC,
		MaxUploadBytes: maxUploadBytes,
		now:            time.Now,
	}
}

// Export (GET /data/export) streams prospects_YYYY-MM-DD.xlsx.
func (h *DataHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.ExportUC.Execute(&buf); err != nil {
		writeError(w, "export", err)
		return
	}

	now := h.now()
	filename := fmt.Sprintf("prospects_%s.xlsx", now.Format("2006-01-02"))

	if h.Archive != nil {
		key := fmt.Sprintf("exports/prospects_%s.xlsx", now.UTC().Format("2006-01-02_150405"))
		if err := h.Archive.Store(r.Context(), key, spreadsheet.ContentType, buf.Bytes()); err != nil {
			log.Printf("⚠️ Export non archivé (%s): %v", key, err)
		}
	}

	w.Header().Set("Content-Type", spreadsheet.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Import (POST /data/import) expects the workbook in the "file" form field.
func (h *DataHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_UPLOAD", "Fichier manquant ou trop volumineux")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_UPLOAD", "Champ 'file' requis")
		return
	}
	defer file.Close()

	res, err := h.ImportUC.Execute(r.Context(), file)
	if err != nil {
		writeError(w, "import", err)
		return
	}
	middleware.RecordImport(res.Imported, res.Skipped, res.Failed)

	writeJSON(w, http.StatusOK, res)
}
