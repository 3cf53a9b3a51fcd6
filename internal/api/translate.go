package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/deptquery/deptquery/internal/directory"
	"github.com/deptquery/deptquery/internal/nl2sql"
	"github.com/deptquery/deptquery/internal/observability"
)

type translateRequest struct {
	Question string `json:"question"`
}

// handleTranslateQuery exposes the translation step on its own so the UI
// can show generated SQL before running it.
func handleTranslateQuery(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Translator == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "TRANSLATE_NOT_CONFIGURED", "question translation is not configured", false, nil)
		return
	}

	var req translateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid translation request body", false, map[string]any{"details": err.Error()})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "QUESTION_REQUIRED", "question is required", false, nil)
		return
	}

	tableContexts, err := buildTableContexts(r.Context(), deps)
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "SCHEMA_FETCH_FAILED", "failed to load schema context", true, map[string]any{"details": err.Error()})
		return
	}

	translateStart := time.Now()
	result, err := deps.Translator.Translate(r.Context(), nl2sql.Request{
		Question: req.Question,
		Tables:   tableContexts,
	})
	if err != nil {
		observability.ObserveTranslation("error", time.Since(translateStart))
		writeError(r.Context(), w, http.StatusBadGateway, "TRANSLATE_FAILED", "failed to translate question", true, map[string]any{"details": err.Error()})
		return
	}
	observability.ObserveTranslation("ok", time.Since(translateStart))

	sanitized, err := nl2sql.Sanitize(result.SQL)
	if err != nil {
		observability.IncrementRejectedSQL()
		writeError(r.Context(), w, http.StatusBadRequest, "SQL_REJECTED", "generated SQL was rejected", false, map[string]any{"details": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sql":      sanitized,
		"provider": result.Provider,
		"model":    result.Model,
	})
}

func handleSchema(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Directory == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "SCHEMA_NOT_CONFIGURED", "directory dependency is not configured", false, nil)
		return
	}

	tableContexts, err := buildTableContexts(r.Context(), deps)
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "SCHEMA_FETCH_FAILED", "failed to load schema context", true, map[string]any{"details": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"tables": tableContexts})
}

// buildTableContexts describes the department table for the model prompt
// and the UI schema panel. Sample rows are best effort.
func buildTableContexts(ctx context.Context, deps Dependencies) ([]nl2sql.TableContext, error) {
	tableContext := nl2sql.TableContext{
		TableName: directory.TableName,
		Columns:   append([]string(nil), directory.Columns...),
	}
	if deps.Directory == nil {
		return []nl2sql.TableContext{tableContext}, nil
	}

	sampleRows := deps.SchemaSampleRows
	if sampleRows <= 0 {
		sampleRows = 5
	}
	rows, err := deps.Directory.SampleRows(ctx, sampleRows)
	if err != nil {
		return nil, fmt.Errorf("sample rows: %w", err)
	}
	tableContext.SampleRows = rows

	return []nl2sql.TableContext{tableContext}, nil
}
