// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package collection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

// =============================================================================
// ANKICONNECT COLLECTION
// =============================================================================

const (
	// DefaultConnectURL is where the AnkiConnect add-on listens by default.
	DefaultConnectURL = "http://127.0.0.1:8765"

	// connectVersion is the AnkiConnect API version spoken by this client.
	connectVersion = 6

	// maxResponseSize bounds a single AnkiConnect response (media dirs and
	// card info only, never media payloads).
	maxResponseSize = 32 * 1024 * 1024
)

// ConnectOptions configures NewConnect.
type ConnectOptions struct {
	// URL of the AnkiConnect endpoint. Default: DefaultConnectURL.
	URL string

	// Timeout per request. Default: 10s.
	Timeout time.Duration

	// HTTPClient overrides the client (tests).
	HTTPClient *http.Client
}

// Connect talks to a running Anki through the AnkiConnect add-on.
type Connect struct {
	url    string
	client *http.Client

	// stylesheets caches note type CSS seen in cardsInfo responses.
	stylesheets map[string]string
}

// connectRequest is the AnkiConnect request envelope.
type connectRequest struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

// connectResponse is the AnkiConnect response envelope.
type connectResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// connectCardInfo is the subset of a cardsInfo entry the exporter reads.
type connectCardInfo struct {
	CardID    int64  `json:"cardId"`
	Note      int64  `json:"note"`
	ModelName string `json:"modelName"`
	DeckName  string `json:"deckName"`
	CSS       string `json:"css"`
	Fields    map[string]struct {
		Value string `json:"value"`
		Order int    `json:"order"`
	} `json:"fields"`
}

// NewConnect creates an AnkiConnect-backed collection.
func NewConnect(opts ConnectOptions) *Connect {
	if opts.URL == "" {
		opts.URL = DefaultConnectURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &Connect{
		url:         opts.URL,
		client:      client,
		stylesheets: make(map[string]string),
	}
}

// invoke performs one AnkiConnect action and decodes its result into out.
func (c *Connect) invoke(ctx context.Context, action string, params, out any) error {
	body, err := json.Marshal(connectRequest{Action: action, Version: connectVersion, Params: params})
	if err != nil {
		return fmt.Errorf("encode %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: HTTP %d", ErrUnavailable, action, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("read %s response: %w", action, err)
	}

	var envelope connectResponse
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("decode %s response: %w", action, err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("ankiconnect %s: %s", action, *envelope.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", action, err)
	}
	return nil
}

// ListDecks returns every deck name, sorted.
func (c *Connect) ListDecks(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.invoke(ctx, "deckNames", nil, &names); err != nil {
		return nil, err
	}
	return sortedNames(names), nil
}

// CardIDsForDeck runs the host search deck:"<deck>" and returns the ids in
// the order the host reports them.
func (c *Connect) CardIDsForDeck(ctx context.Context, deck string) ([]CardID, error) {
	names, err := c.ListDecks(ctx)
	if err != nil {
		return nil, err
	}
	found := false
	for _, name := range names {
		if InDeck(name, deck) {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrDeckNotFound, deck)
	}

	var ids []int64
	params := map[string]string{"query": DeckQuery(deck)}
	if err := c.invoke(ctx, "findCards", params, &ids); err != nil {
		return nil, err
	}

	cards := make([]CardID, len(ids))
	for i, id := range ids {
		cards[i] = CardID(id)
	}
	return cards, nil
}

// FieldsForCard fetches cardsInfo for a single card.
func (c *Connect) FieldsForCard(ctx context.Context, id CardID) (*Note, error) {
	var infos []connectCardInfo
	params := map[string][]int64{"cards": {int64(id)}}
	if err := c.invoke(ctx, "cardsInfo", params, &infos); err != nil {
		return nil, err
	}
	// Unknown ids come back as empty objects.
	if len(infos) == 0 || infos[0].CardID == 0 {
		return nil, fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}

	info := infos[0]
	c.stylesheets[info.ModelName] = info.CSS

	note := &Note{ID: info.Note, NoteType: info.ModelName}
	for name, f := range info.Fields {
		note.Fields = append(note.Fields, Field{Name: name, Value: f.Value})
	}
	sort.SliceStable(note.Fields, func(i, j int) bool {
		return info.Fields[note.Fields[i].Name].Order < info.Fields[note.Fields[j].Name].Order
	})
	return note, nil
}

// StylesheetForNote returns the note type CSS, asking the host when the
// note type has not been seen in a cardsInfo response.
func (c *Connect) StylesheetForNote(ctx context.Context, note *Note) (string, error) {
	if css, ok := c.stylesheets[note.NoteType]; ok {
		return css, nil
	}

	var styling struct {
		CSS string `json:"css"`
	}
	params := map[string]string{"modelName": note.NoteType}
	if err := c.invoke(ctx, "modelStyling", params, &styling); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNoteType, note.NoteType, err)
	}
	c.stylesheets[note.NoteType] = styling.CSS
	return styling.CSS, nil
}

// MediaDirectory asks the host for its media folder.
func (c *Connect) MediaDirectory(ctx context.Context) (string, error) {
	var dir string
	if err := c.invoke(ctx, "getMediaDirPath", nil, &dir); err != nil {
		return "", err
	}
	return dir, nil
}

// Close releases idle connections.
func (c *Connect) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// DeckQuery builds the host search expression selecting deck and its sub-decks.
func DeckQuery(deck string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, `*`, `\*`, `_`, `\_`)
	return `deck:"` + r.Replace(deck) + `"`
}
