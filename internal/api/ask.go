package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/deptquery/deptquery/internal/history"
	"github.com/deptquery/deptquery/internal/nl2sql"
	"github.com/deptquery/deptquery/internal/observability"
	"github.com/deptquery/deptquery/internal/query"
)

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Question string         `json:"question"`
	SQL      string         `json:"sql"`
	Columns  []string       `json:"columns"`
	Rows     [][]any        `json:"rows"`
	Provider string         `json:"provider,omitempty"`
	Model    string         `json:"model,omitempty"`
	Stats    map[string]any `json:"stats"`
}

// handleAsk runs the full question-to-answer pipeline: translate the
// question, sanitize what the model produced, execute against the
// department table, and record the outcome.
func handleAsk(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.QueryEngine == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "QUERY_NOT_CONFIGURED", "query engine is not configured", false, nil)
		return
	}

	var req askRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid ask request body", false, map[string]any{"details": err.Error()})
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "QUESTION_REQUIRED", "question is required", false, nil)
		return
	}

	var (
		sqlText  string
		provider string
		model    string
	)
	if deps.Translator != nil {
		tableContexts, err := buildTableContexts(r.Context(), deps)
		if err != nil {
			writeError(r.Context(), w, http.StatusInternalServerError, "SCHEMA_FETCH_FAILED", "failed to load schema context", true, map[string]any{"details": err.Error()})
			return
		}

		translateStart := time.Now()
		result, err := deps.Translator.Translate(r.Context(), nl2sql.Request{
			Question: question,
			Tables:   tableContexts,
		})
		if err != nil {
			observability.ObserveTranslation("error", time.Since(translateStart))
			recordAsk(deps, history.Entry{Question: question, Status: history.StatusTranslateFailed, Error: err.Error()})
			writeError(r.Context(), w, http.StatusBadGateway, "TRANSLATE_FAILED", "failed to translate question", true, map[string]any{"details": err.Error()})
			return
		}
		observability.ObserveTranslation("ok", time.Since(translateStart))

		sqlText, err = nl2sql.Sanitize(result.SQL)
		if err != nil {
			var unsafeErr *nl2sql.ErrUnsafeSQL
			if errors.As(err, &unsafeErr) {
				observability.IncrementRejectedSQL()
			}
			recordAsk(deps, history.Entry{Question: question, SQL: result.SQL, Status: history.StatusRejected, Error: err.Error()})
			writeError(r.Context(), w, http.StatusBadRequest, "SQL_REJECTED", "generated SQL was rejected", false, map[string]any{"details": err.Error()})
			return
		}
		provider = result.Provider
		model = result.Model
	}

	// Manager lookups are answered deterministically even when the model
	// generated something else for the same question.
	if overrideSQL, ok := nl2sql.ManagerLookupSQL(question); ok {
		sqlText = overrideSQL
		provider = "heuristic"
		model = ""
	}
	if sqlText == "" {
		writeError(r.Context(), w, http.StatusNotImplemented, "TRANSLATE_NOT_CONFIGURED", "question translation is not configured", false, nil)
		return
	}

	executeStart := time.Now()
	result, err := deps.QueryEngine.Execute(r.Context(), query.Request{
		SQL:      sqlText,
		RowLimit: deps.RowLimit,
	})
	if err != nil {
		observability.ObserveQuery("error", 0, time.Since(executeStart))
		recordAsk(deps, history.Entry{Question: question, SQL: sqlText, Status: history.StatusQueryFailed, Error: err.Error()})
		writeError(r.Context(), w, http.StatusBadRequest, "QUERY_EXECUTION_FAILED", err.Error(), false, map[string]any{"sql": sqlText})
		return
	}
	observability.ObserveQuery("ok", len(result.Rows), time.Since(executeStart))
	recordAsk(deps, history.Entry{
		Question: question,
		SQL:      sqlText,
		Status:   history.StatusOK,
		RowCount: len(result.Rows),
		Duration: result.Duration.String(),
	})

	writeJSON(w, http.StatusOK, askResponse{
		Question: question,
		SQL:      sqlText,
		Columns:  result.Columns,
		Rows:     result.Rows,
		Provider: provider,
		Model:    model,
		Stats: map[string]any{
			"duration_ms": result.Duration.Milliseconds(),
			"row_count":   len(result.Rows),
		},
	})
}

func recordAsk(deps Dependencies, entry history.Entry) {
	if deps.History == nil {
		return
	}
	deps.History.Record(entry)
}
