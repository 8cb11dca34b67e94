// internal/httpserver/routes_lists.go
//
// HTTP routes for user-saved vocabulary lists and the learning list
// ("My List"). Both live in the kv_store table as whole JSON documents
// keyed per owner; reads return the entire document and writes replace it.
//
//   GET /lists    → all saved lists        (key "savedLists")
//   PUT /lists    → replace saved lists
//   GET /mylist   → the learning list      (key "myList")
//   PUT /mylist   → replace learning list
//
// Guests are keyed by the anonymous cookie, so saved lists survive a later
// signup via claimAnonData.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

const (
	keySavedLists = "savedLists"
	keyMyList     = "myList"
)

// savedListDoc is the client's saved-list shape. Ids and timestamps are
// opaque client-generated strings; the server only checks structure.
type savedListDoc struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Words     []string `json:"words"`
	CreatedAt string   `json:"createdAt"`
}

// The learning list is a flat list of [term, translation] tuples.
type myListEntry [2]string

// mountLists registers the saved-list and learning-list routes.
func (s *Server) mountLists(r chi.Router) {
	r.Get("/lists", s.handleGetDoc(keySavedLists, func() any { return []savedListDoc{} }))
	r.Put("/lists", s.handlePutDoc(keySavedLists, func(raw []byte) error {
		var lists []savedListDoc
		return json.Unmarshal(raw, &lists)
	}))
	r.Get("/mylist", s.handleGetDoc(keyMyList, func() any { return []myListEntry{} }))
	r.Put("/mylist", s.handlePutDoc(keyMyList, func(raw []byte) error {
		var pairs []myListEntry
		return json.Unmarshal(raw, &pairs)
	}))
}

// handleGetDoc reads a whole kv document; missing rows return the empty
// default instead of a 404 so clients never special-case first use.
func (s *Server) handleGetDoc(key string, empty func() any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := s.ownerID(w, r)
		var raw string
		err := s.db.QueryRowContext(r.Context(),
			`SELECT value FROM kv_store WHERE owner_id=? AND key=?`, owner, key,
		).Scan(&raw)
		if errors.Is(err, sql.ErrNoRows) {
			_ = json.NewEncoder(w).Encode(empty())
			return
		}
		if err != nil {
			http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, raw)
	}
}

// handlePutDoc validates the body against the document shape, then replaces
// the stored value wholesale.
func (s *Server) handlePutDoc(key string, validate func([]byte) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := s.ownerID(w, r)
		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
		if err != nil {
			http.Error(w, `{"error":"body_too_large"}`, http.StatusRequestEntityTooLarge)
			return
		}
		if err := validate(raw); err != nil {
			http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
			return
		}
		_, err = s.db.ExecContext(r.Context(),
			`INSERT INTO kv_store (owner_id, key, value, updated_at) VALUES (?,?,?,CURRENT_TIMESTAMP)
			 ON CONFLICT(owner_id, key) DO UPDATE SET value=excluded.value, updated_at=CURRENT_TIMESTAMP`,
			owner, key, string(raw),
		)
		if err != nil {
			http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	}
}
