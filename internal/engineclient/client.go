// Package engineclient is the HTTP client for the remote Codenames rules
// engine. The engine owns all game legality, scoring, and AI move selection;
// this package only requests projections and actions and hands back the
// engine's answers.
//
// Non-2xx responses carry a JSON body of the form {"error": "..."}. That body
// is decoded best-effort: when it is not parseable, the raw body text is
// surfaced instead so a failure is never silently swallowed.
package engineclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jdai1/codenames/internal/models"
)

// Client talks to one engine instance. The zero value is not usable; use New.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the engine at baseURL. httpClient may be nil, in
// which case http.DefaultClient is used. Streamed endpoints require the
// client to have no response timeout, since an AI turn may stream for an
// unbounded time.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// APIError is a non-success engine response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("engine returned %d: %s", e.StatusCode, e.Message)
}

// decodeAPIError drains the response body into an APIError. Malformed error
// bodies fall back to their raw text.
func decodeAPIError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(resp.Body)
	var payload struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		msg = payload.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.http.Do(req)
}

// doJSON performs a POST and decodes a 2xx JSON response into out (which may
// be nil to discard the body). Non-2xx responses become *APIError.
func (c *Client) doJSON(ctx context.Context, path string, body, out any) error {
	resp, err := c.postJSON(ctx, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// CreateGameRequest configures a new game. Zero values let the engine pick
// its defaults (english, 25 cards, random seed).
type CreateGameRequest struct {
	Language  string `json:"language,omitempty"`
	BoardSize int    `json:"board_size,omitempty"`
	Seed      *int64 `json:"seed,omitempty"`
}

// CreateGame asks the engine for a new game. The returned state is the
// initial spymaster-visible projection.
func (c *Client) CreateGame(ctx context.Context, req CreateGameRequest) (string, *models.GameState, error) {
	var out struct {
		GameID    string            `json:"game_id"`
		GameState *models.GameState `json:"game_state"`
	}
	if err := c.doJSON(ctx, "/games", req, &out); err != nil {
		return "", nil, err
	}
	return out.GameID, out.GameState, nil
}

// FetchState reads one projection of a game. showColors selects the
// spymaster view; includeHistory asks for the per-team event history.
func (c *Client) FetchState(ctx context.Context, gameID string, showColors, includeHistory bool) (*models.GameState, error) {
	url := fmt.Sprintf("%s/games/%s?show_colors=%t&include_history=%t",
		c.baseURL, gameID, showColors, includeHistory)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}
	var state models.GameState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("decode game state: %w", err)
	}
	return &state, nil
}

// GiveHint submits a spymaster hint.
func (c *Client) GiveHint(ctx context.Context, gameID, word string, cardAmount int) error {
	body := map[string]any{"word": word, "card_amount": cardAmount}
	return c.doJSON(ctx, "/games/"+gameID+"/hint", body, nil)
}

// MakeGuess submits an operative guess.
func (c *Client) MakeGuess(ctx context.Context, gameID, word string) error {
	body := map[string]any{"word": word}
	return c.doJSON(ctx, "/games/"+gameID+"/guess", body, nil)
}

// PassTurn passes the current team's guessing turn.
func (c *Client) PassTurn(ctx context.Context, gameID string) error {
	return c.doJSON(ctx, "/games/"+gameID+"/pass", nil, nil)
}

// AIHint asks the engine to have the given model produce and submit a hint.
// The returned body is a stream of newline-delimited "data: <json>" frames;
// the caller owns closing it. Non-2xx responses are decoded into *APIError
// before any stream is handed out.
func (c *Client) AIHint(ctx context.Context, gameID, model string) (io.ReadCloser, error) {
	return c.openStream(ctx, "/games/"+gameID+"/ai/hint", map[string]any{"model": model})
}

// AIGuess asks the engine to run the given model's operatives for a guessing
// turn. nOperatives is the number of simultaneous operative agents voting on
// each guess. Same stream semantics as AIHint.
func (c *Client) AIGuess(ctx context.Context, gameID, model string, nOperatives int) (io.ReadCloser, error) {
	body := map[string]any{"model": model, "n_operatives": nOperatives}
	return c.openStream(ctx, "/games/"+gameID+"/ai/guess", body)
}

func (c *Client) openStream(ctx context.Context, path string, body any) (io.ReadCloser, error) {
	resp, err := c.postJSON(ctx, path, body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, decodeAPIError(resp)
	}
	return resp.Body, nil
}
