// internal/httpserver/routes_games.go
//
// HTTP routes for game rounds and the vocabulary catalog.
//
// A round lives in the in-memory store; every action endpoint loads it,
// applies one engine transition, saves it back, and replies with the updated
// round view plus the list of audio effects the browser should perform
// (speech synthesis utterances and oscillator tones). The server never
// touches an audio device; the client is the audio gateway.
//
//   GET  /games                         → catalog of playable game kinds
//   POST /game/new                      → build a round {game, options}
//   GET  /game/{id}                     → current round view
//   POST /game/{id}/select              → matching: pick an item
//   POST /game/{id}/place               → matching: drop onto a target
//   POST /game/{id}/press               → sequence: press a drum
//   POST /game/{id}/target              → reading: choose a target (optionally speak it)
//   POST /game/{id}/listen              → reading: start recognition
//   POST /game/{id}/stop                → reading: recognition session ended
//   POST /game/{id}/transcript          → reading: verify a transcript
//   POST /game/{id}/recognition-error   → reading: recognizer failure report

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/talbenari/wordgarden/internal/audio"
	"github.com/talbenari/wordgarden/internal/games"
	"github.com/talbenari/wordgarden/internal/match"
	"github.com/talbenari/wordgarden/internal/reading"
	"github.com/talbenari/wordgarden/internal/sequence"
	"github.com/talbenari/wordgarden/internal/store"
	"github.com/talbenari/wordgarden/internal/vocab"
)

// mountGames registers /games, /game/new and the per-round action routes.
func (s *Server) mountGames(r chi.Router) {
	r.Get("/games", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"games": games.Kinds})
	})
	r.Post("/game/new", s.handleNewRound)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetRound)
		r.Post("/select", s.handleSelect)
		r.Post("/place", s.handlePlace)
		r.Post("/press", s.handlePress)
		r.Post("/target", s.handleTarget)
		r.Post("/listen", s.handleListen)
		r.Post("/stop", s.handleStop)
		r.Post("/transcript", s.handleTranscript)
		r.Post("/recognition-error", s.handleRecognitionError)
		r.Post("/reset", s.handleReset)
	})
}

// roundRes is the uniform action response: the full round view plus the
// ordered effects the client should play. Effects is never null.
type roundRes struct {
	Round    store.Round    `json:"round"`
	Effects  []audio.Effect `json:"effects"`
	Accepted *bool          `json:"accepted,omitempty"` // transcript verdict only
}

func writeRound(w http.ResponseWriter, rd store.Round, fx []audio.Effect) {
	if fx == nil {
		fx = []audio.Effect{}
	}
	_ = json.NewEncoder(w).Encode(roundRes{Round: rd, Effects: fx})
}

// newRoundReq is the payload for POST /game/new.
type newRoundReq struct {
	Game    string        `json:"game"`
	Options games.Options `json:"options"`
}

// handleNewRound builds a round from the catalog and stores it.
func (s *Server) handleNewRound(w http.ResponseWriter, r *http.Request) {
	var req newRoundReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	rd, err := games.New(req.Game, req.Options)
	if err != nil {
		if errors.Is(err, games.ErrUnknownKind) {
			http.Error(w, `{"error":"unknown_game"}`, http.StatusBadRequest)
			return
		}
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	if err := s.store.Save(r.Context(), rd); err != nil {
		log.Error().Err(err).Msg("save round")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	s.recipeMu.Lock()
	s.recipes[rd.RoundID()] = req
	s.recipeMu.Unlock()
	writeRound(w, rd, nil)
}

// handleReset rebuilds the round from its original creation request:
// fresh shuffle, fresh sequence, zero score, new round id.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	old, ok := s.loadRound(w, r)
	if !ok {
		return
	}
	s.recipeMu.Lock()
	req, ok := s.recipes[old.RoundID()]
	s.recipeMu.Unlock()
	if !ok {
		req = newRoundReq{Game: old.GameKind()}
	}
	rd, err := games.New(req.Game, req.Options)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	if err := s.store.Save(r.Context(), rd); err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	s.recipeMu.Lock()
	delete(s.recipes, old.RoundID())
	s.recipes[rd.RoundID()] = req
	s.recipeMu.Unlock()
	writeRound(w, rd, nil)
}

// loadRound pulls the round out of the store, writing a 404 on miss.
func (s *Server) loadRound(w http.ResponseWriter, r *http.Request) (store.Round, bool) {
	id := chi.URLParam(r, "id")
	rd, err := s.store.Get(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return nil, false
	}
	return rd, true
}

func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	if rd, ok := s.loadRound(w, r); ok {
		writeRound(w, rd, nil)
	}
}

// applyRound persists the mutated round and writes the response, mapping
// engine errors to JSON statuses.
func (s *Server) applyRound(w http.ResponseWriter, r *http.Request, rd store.Round, fx []audio.Effect, err error) {
	if err != nil {
		switch {
		case errors.Is(err, match.ErrUnknownItem),
			errors.Is(err, match.ErrUnknownTarget),
			errors.Is(err, sequence.ErrUnknownKey),
			errors.Is(err, reading.ErrUnknownTarget):
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		case errors.Is(err, reading.ErrNoTarget),
			errors.Is(err, reading.ErrRecognitionBusy):
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusConflict)
		default:
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		}
		return
	}
	if err := s.store.Save(r.Context(), rd); err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	writeRound(w, rd, fx)
}

// matchRound narrows a stored round, writing a 400 on kind mismatch.
func matchRound(w http.ResponseWriter, rd store.Round) (*match.Round, bool) {
	m, ok := rd.(*match.Round)
	if !ok {
		http.Error(w, `{"error":"wrong_game"}`, http.StatusBadRequest)
	}
	return m, ok
}

func sequenceRound(w http.ResponseWriter, rd store.Round) (*sequence.Round, bool) {
	q, ok := rd.(*sequence.Round)
	if !ok {
		http.Error(w, `{"error":"wrong_game"}`, http.StatusBadRequest)
	}
	return q, ok
}

func readingRound(w http.ResponseWriter, rd store.Round) (*reading.Round, bool) {
	rr, ok := rd.(*reading.Round)
	if !ok {
		http.Error(w, `{"error":"wrong_game"}`, http.StatusBadRequest)
	}
	return rr, ok
}

// ------------------------------ matching -----------------------------------

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	rd, ok := s.loadRound(w, r)
	if !ok {
		return
	}
	m, ok := matchRound(w, rd)
	if !ok {
		return
	}
	var req struct {
		ItemID int `json:"itemId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	fx, err := m.Select(req.ItemID)
	s.applyRound(w, r, m, fx, err)
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	rd, ok := s.loadRound(w, r)
	if !ok {
		return
	}
	m, ok := matchRound(w, rd)
	if !ok {
		return
	}
	var req struct {
		TargetID int `json:"targetId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	fx, err := m.Place(req.TargetID)
	s.applyRound(w, r, m, fx, err)
}

// ------------------------------ sequence -----------------------------------

func (s *Server) handlePress(w http.ResponseWriter, r *http.Request) {
	rd, ok := s.loadRound(w, r)
	if !ok {
		return
	}
	q, ok := sequenceRound(w, rd)
	if !ok {
		return
	}
	var req struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	fx, err := q.Press(req.Key)
	s.applyRound(w, r, q, fx, err)
}

// ------------------------------ reading ------------------------------------

func (s *Server) handleTarget(w http.ResponseWriter, r *http.Request) {
	rd, ok := s.loadRound(w, r)
	if !ok {
		return
	}
	rr, ok := readingRound(w, rd)
	if !ok {
		return
	}
	var req struct {
		TargetID int  `json:"targetId"`
		Speak    bool `json:"speak"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	fx, err := rr.SelectTarget(req.TargetID, req.Speak)
	s.applyRound(w, r, rr, fx, err)
}

func (s *Server) handleListen(w http.ResponseWriter, r *http.Request) {
	rd, ok := s.loadRound(w, r)
	if !ok {
		return
	}
	rr, ok := readingRound(w, rd)
	if !ok {
		return
	}
	err := rr.BeginListening()
	s.applyRound(w, r, rr, nil, err)
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	rd, ok := s.loadRound(w, r)
	if !ok {
		return
	}
	rr, ok := readingRound(w, rd)
	if !ok {
		return
	}
	rr.EndListening()
	s.applyRound(w, r, rr, nil, nil)
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	rd, ok := s.loadRound(w, r)
	if !ok {
		return
	}
	rr, ok := readingRound(w, rd)
	if !ok {
		return
	}
	var req struct {
		Transcript string `json:"transcript"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	accepted, fx, err := rr.Submit(req.Transcript)
	if err != nil {
		s.applyRound(w, r, rr, nil, err)
		return
	}
	if err := s.store.Save(r.Context(), rr); err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	if fx == nil {
		fx = []audio.Effect{}
	}
	_ = json.NewEncoder(w).Encode(roundRes{Round: rr, Effects: fx, Accepted: &accepted})
}

func (s *Server) handleRecognitionError(w http.ResponseWriter, r *http.Request) {
	rd, ok := s.loadRound(w, r)
	if !ok {
		return
	}
	rr, ok := readingRound(w, rd)
	if !ok {
		return
	}
	var req struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	rr.RecognitionError(req.Error)
	s.applyRound(w, r, rr, nil, nil)
}

// ------------------------------- vocab -------------------------------------

// mountVocab registers the read-only vocabulary catalog.
func (s *Server) mountVocab() {
	s.r.Route("/vocab", func(r chi.Router) {
		r.Get("/lists", func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(vocab.Lists())
		})
		r.Get("/lists/{id}", func(w http.ResponseWriter, req *http.Request) {
			id, err := strconv.Atoi(chi.URLParam(req, "id"))
			if err != nil {
				http.Error(w, `{"error":"bad_id"}`, http.StatusBadRequest)
				return
			}
			list, ok := vocab.ListByID(id)
			if !ok {
				http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
				return
			}
			_ = json.NewEncoder(w).Encode(list)
		})
		r.Get("/categories", func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(vocab.Categories())
		})
		r.Get("/sentence-categories", func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(vocab.SentenceCategories())
		})
		r.Get("/stories", func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(vocab.Stories())
		})
		r.Get("/stories/{id}", func(w http.ResponseWriter, req *http.Request) {
			story, ok := vocab.StoryByID(chi.URLParam(req, "id"))
			if !ok {
				http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
				return
			}
			_ = json.NewEncoder(w).Encode(story)
		})
	})

	// Debug: dataset counts
	s.r.Get("/debug/vocab", func(w http.ResponseWriter, _ *http.Request) {
		pairs, lists, colors, animals := vocab.Stats()
		_ = json.NewEncoder(w).Encode(map[string]int{
			"pairs": pairs, "lists": lists, "colors": colors, "animals": animals,
		})
	})
}
