package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/deptquery/deptquery/internal/observability"
	"github.com/deptquery/deptquery/internal/query"
)

type queryRequest struct {
	SQL      string `json:"sql"`
	RowLimit int    `json:"row_limit"`
}

type queryResponse struct {
	Columns []string       `json:"columns"`
	Rows    [][]any        `json:"rows"`
	Stats   map[string]any `json:"stats"`
}

func handleQuery(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.QueryEngine == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "QUERY_NOT_CONFIGURED", "query engine is not configured", false, nil)
		return
	}

	var request queryRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid query request body", false, map[string]any{"details": err.Error()})
		return
	}

	if strings.TrimSpace(request.SQL) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "SQL_REQUIRED", "sql is required", false, nil)
		return
	}
	if !query.IsReadOnlySQL(request.SQL) {
		writeError(r.Context(), w, http.StatusBadRequest, "SQL_NOT_ALLOWED", "only read-only SELECT/WITH queries are allowed", false, nil)
		return
	}

	rowLimit := request.RowLimit
	if rowLimit <= 0 || (deps.RowLimit > 0 && rowLimit > deps.RowLimit) {
		rowLimit = deps.RowLimit
	}

	executeStart := time.Now()
	result, err := deps.QueryEngine.Execute(r.Context(), query.Request{
		SQL:      request.SQL,
		RowLimit: rowLimit,
	})
	if err != nil {
		observability.ObserveQuery("error", 0, time.Since(executeStart))
		writeError(r.Context(), w, http.StatusBadRequest, "QUERY_EXECUTION_FAILED", err.Error(), false, nil)
		return
	}
	observability.ObserveQuery("ok", len(result.Rows), time.Since(executeStart))

	writeJSON(w, http.StatusOK, queryResponse{
		Columns: result.Columns,
		Rows:    result.Rows,
		Stats: map[string]any{
			"duration_ms": result.Duration.Milliseconds(),
			"row_count":   len(result.Rows),
		},
	})
}
