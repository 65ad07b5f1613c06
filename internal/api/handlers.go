package api

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hpungsan/strindex/internal/db"
	"github.com/hpungsan/strindex/internal/errors"
	"github.com/hpungsan/strindex/internal/filter"
	"github.com/hpungsan/strindex/internal/ops"
)

// Handlers contains HTTP route handlers.
type Handlers struct {
	db      *sql.DB
	version string
}

// HandleCreate handles POST /strings.
// 201 with the new record, or 409 with the record already stored.
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		renderError(w, r, errors.NewInvalidRequest("request body must be a JSON object"))
		return
	}

	value, err := ops.ValueFromAny(body["value"])
	if err != nil {
		renderError(w, r, err)
		return
	}

	out, err := ops.Create(r.Context(), h.db, ops.CreateInput{Value: value})
	if err != nil {
		renderError(w, r, err)
		return
	}

	status := http.StatusCreated
	if out.Outcome == ops.OutcomeConflict {
		status = http.StatusConflict
	}
	renderJSON(w, status, out.Record)
}

// HandleGet handles GET /strings/{value...}.
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := ops.Get(r.Context(), h.db, ops.GetInput{Value: r.PathValue("value")})
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, rec)
}

// HandleDelete handles DELETE /strings/{value...}. 204 on success, 404 when absent.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	value := r.PathValue("value")
	out, err := ops.Delete(r.Context(), h.db, ops.DeleteInput{Value: value})
	if err != nil {
		renderError(w, r, err)
		return
	}
	if !out.Deleted {
		renderError(w, r, errors.NewNotFound(value))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleList handles GET /strings with optional structured filters.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		renderError(w, r, err)
		return
	}

	out, err := ops.List(r.Context(), h.db, ops.ListInput{Filter: f})
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

// HandleQuery handles GET /strings/filter-by-natural-language?query=.
func (h *Handlers) HandleQuery(w http.ResponseWriter, r *http.Request) {
	out, err := ops.Query(r.Context(), h.db, ops.QueryInput{Query: r.URL.Query().Get("query")})
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

// HandleHealth handles GET /healthz. It touches the strings table so a
// broken database surfaces as 500.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	n, err := db.Count(r.Context(), h.db)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"status": "ok", "version": h.version, "strings": n})
}

// parseFilter reads the structured filter from query parameters.
// Empty parameters are treated as absent; malformed ones are INVALID_REQUEST.
func parseFilter(q url.Values) (filter.Filter, error) {
	var f filter.Filter

	if v := strings.TrimSpace(q.Get("is_palindrome")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, errors.NewInvalidRequest(fmt.Sprintf("is_palindrome must be true or false, got %q", v))
		}
		f.IsPalindrome = &b
	}

	for _, p := range []struct {
		name string
		dst  **int
	}{
		{"min_length", &f.MinLength},
		{"max_length", &f.MaxLength},
		{"word_count", &f.WordCount},
	} {
		v := strings.TrimSpace(q.Get(p.name))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, errors.NewInvalidRequest(fmt.Sprintf("%s must be an integer, got %q", p.name, v))
		}
		*p.dst = &n
	}

	if v := q.Get("contains_character"); v != "" {
		f.ContainsCharacter = &v
	}

	return f, nil
}
