package httpserver

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/talbenari/wordgarden/internal/store"
	"github.com/talbenari/wordgarden/internal/vocab"
)

// testServer builds a server without a database: game, vocab, and health
// routes only. List and daily routes run against SQLite via testServerDB.
func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	require.NoError(t, vocab.Init())
	srv := New(store.NewMemoryStore(), nil)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

// testServerDB builds a server over in-memory SQLite with the real schema,
// so list, daily, and auth routes are live. The returned client keeps
// cookies: guest data is keyed by the anonymous cookie.
func testServerDB(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()
	require.NoError(t, vocab.Init())

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	schema, err := os.ReadFile(filepath.Join("..", "..", "sql", "001_init.sql"))
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	srv := New(store.NewMemoryStore(), db)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return ts, &http.Client{Jar: jar}
}

// doReq sends a raw JSON body with the given client and method.
func doReq(t *testing.T, c *http.Client, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := c.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(res.Body)
	require.NoError(t, err)
	return res, buf.Bytes()
}

func postJSON(t *testing.T, url string, body any) (*http.Response, []byte) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer res.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(res.Body)
	require.NoError(t, err)
	return res, buf.Bytes()
}

func getJSON(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(res.Body)
	require.NoError(t, err)
	return res, buf.Bytes()
}

// actionRes mirrors the wire shape of round action responses.
type actionRes struct {
	Round    json.RawMessage  `json:"round"`
	Effects  []map[string]any `json:"effects"`
	Accepted *bool            `json:"accepted"`
}

// matchView is the subset of the matching round view the tests inspect.
type matchView struct {
	ID       string `json:"id"`
	Game     string `json:"game"`
	Selected int    `json:"selected"`
	Score    int    `json:"score"`
	Items    []struct {
		ID      int    `json:"id"`
		Key     string `json:"key"`
		Matched bool   `json:"matched"`
	} `json:"items"`
	Targets []struct {
		ID  int    `json:"id"`
		Key string `json:"key"`
	} `json:"targets"`
}

func TestHealth(t *testing.T) {
	ts := testServer(t)
	res, body := getJSON(t, ts.URL+"/health")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.JSONEq(t, `{"ok":true}`, string(body))
}

func TestNotFoundIsJSON(t *testing.T) {
	ts := testServer(t)
	res, body := getJSON(t, ts.URL+"/nope")
	require.Equal(t, http.StatusNotFound, res.StatusCode)
	require.Contains(t, string(body), `"not_found"`)
}

func TestGamesCatalog(t *testing.T) {
	ts := testServer(t)
	res, body := getJSON(t, ts.URL+"/games")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var out struct {
		Games []string `json:"games"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.Contains(t, out.Games, "word-match")
	require.Contains(t, out.Games, "color-drum")
	require.Contains(t, out.Games, "reading")
}

func TestVocabRoutes(t *testing.T) {
	ts := testServer(t)

	res, body := getJSON(t, ts.URL+"/vocab/lists")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var lists []vocab.List
	require.NoError(t, json.Unmarshal(body, &lists))
	require.NotEmpty(t, lists)

	res, _ = getJSON(t, ts.URL+"/vocab/lists/1")
	require.Equal(t, http.StatusOK, res.StatusCode)
	res, _ = getJSON(t, ts.URL+"/vocab/lists/9999")
	require.Equal(t, http.StatusNotFound, res.StatusCode)
	res, _ = getJSON(t, ts.URL+"/vocab/lists/abc")
	require.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, _ = getJSON(t, ts.URL+"/vocab/categories")
	require.Equal(t, http.StatusOK, res.StatusCode)
	res, _ = getJSON(t, ts.URL+"/vocab/stories")
	require.Equal(t, http.StatusOK, res.StatusCode)
	res, _ = getJSON(t, ts.URL+"/debug/vocab")
	require.Equal(t, http.StatusOK, res.StatusCode)
}

func TestNewRoundValidation(t *testing.T) {
	ts := testServer(t)

	res, body := postJSON(t, ts.URL+"/game/new", map[string]any{"game": "tetris"})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Contains(t, string(body), "unknown_game")
}

func TestRoundNotFound(t *testing.T) {
	ts := testServer(t)
	res, _ := getJSON(t, ts.URL+"/game/deadbeef")
	require.Equal(t, http.StatusNotFound, res.StatusCode)
}

func newMatchRound(t *testing.T, ts *httptest.Server) matchView {
	t.Helper()
	res, body := postJSON(t, ts.URL+"/game/new", map[string]any{
		"game": "word-match",
		"options": map[string]any{
			"pairs": []map[string]string{
				{"term": "cat", "translation": "חתול"},
				{"term": "dog", "translation": "כלב"},
			},
		},
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	var ar actionRes
	require.NoError(t, json.Unmarshal(body, &ar))
	require.NotNil(t, ar.Effects)
	var mv matchView
	require.NoError(t, json.Unmarshal(ar.Round, &mv))
	require.NotEmpty(t, mv.ID)
	return mv
}

func TestMatchRoundFlow(t *testing.T) {
	ts := testServer(t)
	mv := newMatchRound(t, ts)
	base := fmt.Sprintf("%s/game/%s", ts.URL, mv.ID)

	// round is retrievable
	res, body := getJSON(t, base)
	require.Equal(t, http.StatusOK, res.StatusCode)

	// select the cat item: spoken once
	var catID, catTarget, dogTarget int
	for _, it := range mv.Items {
		if it.Key == "cat" {
			catID = it.ID
		}
	}
	for _, tg := range mv.Targets {
		if tg.Key == "cat" {
			catTarget = tg.ID
		} else {
			dogTarget = tg.ID
		}
	}

	res, body = postJSON(t, base+"/select", map[string]int{"itemId": catID})
	require.Equal(t, http.StatusOK, res.StatusCode)
	var ar actionRes
	require.NoError(t, json.Unmarshal(body, &ar))
	require.Len(t, ar.Effects, 1)
	require.Equal(t, "speak", ar.Effects[0]["type"])
	require.Equal(t, "cat", ar.Effects[0]["text"])

	// wrong target: miss feedback, selection cleared
	res, body = postJSON(t, base+"/place", map[string]int{"targetId": dogTarget})
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NoError(t, json.Unmarshal(body, &ar))
	require.Len(t, ar.Effects, 1)
	require.Equal(t, "Incorrect answer", ar.Effects[0]["text"])
	var view matchView
	require.NoError(t, json.Unmarshal(ar.Round, &view))
	require.Equal(t, -1, view.Selected)

	// correct placement is silent and scores
	res, _ = postJSON(t, base+"/select", map[string]int{"itemId": catID})
	require.Equal(t, http.StatusOK, res.StatusCode)
	res, body = postJSON(t, base+"/place", map[string]int{"targetId": catTarget})
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NoError(t, json.Unmarshal(body, &ar))
	require.Empty(t, ar.Effects)
	require.NoError(t, json.Unmarshal(ar.Round, &view))
	require.Equal(t, 10, view.Score)

	// state survived in the store
	res, body = getJSON(t, base)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NoError(t, json.Unmarshal(body, &ar))
	require.NoError(t, json.Unmarshal(ar.Round, &view))
	require.Equal(t, 10, view.Score)

	// unknown item id → 400
	res, _ = postJSON(t, base+"/select", map[string]int{"itemId": 999})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)

	// sequence action on a matching round → wrong_game
	res, body = postJSON(t, base+"/press", map[string]string{"key": "Red"})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Contains(t, string(body), "wrong_game")
}

func TestResetRebuildsFromRecipe(t *testing.T) {
	ts := testServer(t)
	mv := newMatchRound(t, ts)
	base := fmt.Sprintf("%s/game/%s", ts.URL, mv.ID)

	// score a match, then reset
	var catID, catTarget int
	for _, it := range mv.Items {
		if it.Key == "cat" {
			catID = it.ID
		}
	}
	for _, tg := range mv.Targets {
		if tg.Key == "cat" {
			catTarget = tg.ID
		}
	}
	res, _ := postJSON(t, base+"/select", map[string]int{"itemId": catID})
	require.Equal(t, http.StatusOK, res.StatusCode)
	res, _ = postJSON(t, base+"/place", map[string]int{"targetId": catTarget})
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, body := postJSON(t, base+"/reset", map[string]any{})
	require.Equal(t, http.StatusOK, res.StatusCode)
	var ar actionRes
	require.NoError(t, json.Unmarshal(body, &ar))
	var fresh matchView
	require.NoError(t, json.Unmarshal(ar.Round, &fresh))

	// same custom pairs, new identity, zero score
	require.NotEqual(t, mv.ID, fresh.ID)
	require.Zero(t, fresh.Score)
	require.Equal(t, -1, fresh.Selected)
	require.Len(t, fresh.Items, 2)
	for _, it := range fresh.Items {
		require.False(t, it.Matched)
	}
}

func TestSequenceRoundFlow(t *testing.T) {
	ts := testServer(t)

	res, body := postJSON(t, ts.URL+"/game/new", map[string]any{"game": "color-drum"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	var ar actionRes
	require.NoError(t, json.Unmarshal(body, &ar))

	var view struct {
		ID       string   `json:"id"`
		Expected []string `json:"expected"`
		Cursor   int      `json:"cursor"`
	}
	require.NoError(t, json.Unmarshal(ar.Round, &view))
	require.NotEmpty(t, view.Expected)

	base := fmt.Sprintf("%s/game/%s", ts.URL, view.ID)
	res, body = postJSON(t, base+"/press", map[string]string{"key": view.Expected[0]})
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NoError(t, json.Unmarshal(body, &ar))
	require.Len(t, ar.Effects, 1)
	require.Equal(t, "tone", ar.Effects[0]["type"])
	require.NoError(t, json.Unmarshal(ar.Round, &view))
	require.Equal(t, 1, view.Cursor)

	res, _ = postJSON(t, base+"/press", map[string]string{"key": "NotADrum"})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestReadingRoundFlow(t *testing.T) {
	ts := testServer(t)

	res, body := postJSON(t, ts.URL+"/game/new", map[string]any{"game": "reading"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	var ar actionRes
	require.NoError(t, json.Unmarshal(body, &ar))

	var view struct {
		ID      string `json:"id"`
		Score   int    `json:"score"`
		Targets []struct {
			ID   int    `json:"id"`
			Text string `json:"text"`
		} `json:"targets"`
		Listening bool `json:"listening"`
	}
	require.NoError(t, json.Unmarshal(ar.Round, &view))
	require.NotEmpty(t, view.Targets)
	base := fmt.Sprintf("%s/game/%s", ts.URL, view.ID)

	// listening before selecting a target is a conflict
	res, _ = postJSON(t, base+"/listen", map[string]any{})
	require.Equal(t, http.StatusConflict, res.StatusCode)

	// select the first word, spoken on click
	res, body = postJSON(t, base+"/target", map[string]any{"targetId": view.Targets[0].ID, "speak": true})
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NoError(t, json.Unmarshal(body, &ar))
	require.Len(t, ar.Effects, 1)
	require.Equal(t, view.Targets[0].Text, ar.Effects[0]["text"])

	// open a session; a second open is busy
	res, _ = postJSON(t, base+"/listen", map[string]any{})
	require.Equal(t, http.StatusOK, res.StatusCode)
	res, _ = postJSON(t, base+"/listen", map[string]any{})
	require.Equal(t, http.StatusConflict, res.StatusCode)

	// correct transcript accepted and scored
	res, body = postJSON(t, base+"/transcript", map[string]string{"transcript": view.Targets[0].Text})
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NoError(t, json.Unmarshal(body, &ar))
	require.NotNil(t, ar.Accepted)
	require.True(t, *ar.Accepted)
	require.NoError(t, json.Unmarshal(ar.Round, &view))
	require.Equal(t, 10, view.Score)

	// recognizer failure report clears the session flag
	res, body = postJSON(t, base+"/target", map[string]any{"targetId": view.Targets[1].ID, "speak": false})
	require.Equal(t, http.StatusOK, res.StatusCode)
	res, _ = postJSON(t, base+"/listen", map[string]any{})
	require.Equal(t, http.StatusOK, res.StatusCode)
	res, body = postJSON(t, base+"/recognition-error", map[string]string{"error": "no-speech"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NoError(t, json.Unmarshal(body, &ar))
	require.NoError(t, json.Unmarshal(ar.Round, &view))
	require.False(t, view.Listening)
}
