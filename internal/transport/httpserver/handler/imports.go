package handler

import (
	"bytes"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finance-tracker-go/internal/domain/importer"
	"finance-tracker-go/internal/domain/ledger"
	"finance-tracker-go/pkg/logger"
)

const templateContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type importedTransactionResponse struct {
	ID              string          `json:"id"`
	CategoryID      string          `json:"categoryId"`
	CategoryName    string          `json:"categoryName"`
	Type            ledger.Kind     `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate time.Time       `json:"transactionDate"`
	Note            string          `json:"note"`
}

type importResponse struct {
	TotalRows            int                           `json:"totalRows"`
	SuccessCount         int                           `json:"successCount"`
	ErrorCount           int                           `json:"errorCount"`
	Errors               []string                      `json:"errors"`
	ImportedTransactions []importedTransactionResponse `json:"importedTransactions"`
}

// ImportTransactions reads the multipart "file" part, which must be a spreadsheet.
func (h *Handlers) ImportTransactions(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds upload limit")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "multipart form with a file is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "file is required")
		return
	}
	defer file.Close()

	if header.Size == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "file is empty")
		return
	}
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".xlsx", ".xls":
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "only Excel files (.xlsx, .xls) are supported")
		return
	}

	result, err := h.Importer.Import(r.Context(), user.ID, file)
	if err != nil {
		h.writeServiceError(w, r, "transactions.import", err, "filename", header.Filename)
		return
	}

	writeJSON(w, http.StatusOK, toImportResponse(result))
}

func (h *Handlers) ImportTemplate(w http.ResponseWriter, r *http.Request) {
	buf := &bytes.Buffer{}
	if err := importer.WriteTemplate(buf); err != nil {
		logger.FromContext(r.Context(), h.log).InternalError("transactions.template: write failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeFile(w, importer.TemplateFilename, templateContentType, buf.Bytes())
}

func toImportResponse(result importer.Result) importResponse {
	response := importResponse{
		TotalRows:            result.TotalRows,
		SuccessCount:         result.SuccessCount,
		ErrorCount:           result.ErrorCount,
		Errors:               result.Errors,
		ImportedTransactions: make([]importedTransactionResponse, 0, len(result.ImportedTransactions)),
	}
	if response.Errors == nil {
		response.Errors = []string{}
	}
	for _, tx := range result.ImportedTransactions {
		response.ImportedTransactions = append(response.ImportedTransactions, importedTransactionResponse{
			ID:              tx.ID,
			CategoryID:      tx.CategoryID,
			CategoryName:    tx.Category.Name,
			Type:            tx.Kind,
			Amount:          tx.Amount,
			TransactionDate: tx.OccurredAt,
			Note:            tx.Note,
		})
	}
	return response
}
