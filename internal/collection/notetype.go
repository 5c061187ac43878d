// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package collection

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/protobuf/encoding/protowire"
)

// noteType is the part of a host template the exporter needs.
type noteType struct {
	Name   string
	CSS    string
	Fields []string
}

// notetypeCSSField is the protobuf field number of the stylesheet in the
// split-schema notetypes.config blob.
const notetypeCSSField protowire.Number = 3

// decodeNotetypeCSS extracts the stylesheet from a notetypes.config blob.
// Unknown fields are skipped.
func decodeNotetypeCSS(b []byte) (string, error) {
	var css string
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return "", fmt.Errorf("notetype config: %w", protowire.ParseError(n))
		}
		b = b[n:]

		if num == notetypeCSSField && typ == protowire.BytesType {
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return "", fmt.Errorf("notetype config css: %w", protowire.ParseError(m))
			}
			css = string(v)
			b = b[m:]
			continue
		}

		m := protowire.ConsumeFieldValue(num, typ, b)
		if m < 0 {
			return "", fmt.Errorf("notetype config field %d: %w", num, protowire.ParseError(m))
		}
		b = b[m:]
	}
	return css, nil
}

// =============================================================================
// LEGACY JSON SCHEMA
// =============================================================================

// legacyModel mirrors one entry of the legacy col.models JSON object.
type legacyModel struct {
	Name string `json:"name"`
	CSS  string `json:"css"`
	Flds []struct {
		Name string `json:"name"`
		Ord  int    `json:"ord"`
	} `json:"flds"`
}

// legacyDeck mirrors one entry of the legacy col.decks JSON object.
type legacyDeck struct {
	Name string `json:"name"`
}

// parseLegacyModels decodes col.models into note types keyed by id.
func parseLegacyModels(raw string) (map[string]*noteType, error) {
	out := make(map[string]*noteType)
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}
	var models map[string]legacyModel
	if err := json.Unmarshal([]byte(raw), &models); err != nil {
		return nil, fmt.Errorf("decode col.models: %w", err)
	}
	for id, m := range models {
		flds := m.Flds
		sort.SliceStable(flds, func(i, j int) bool { return flds[i].Ord < flds[j].Ord })
		nt := &noteType{Name: m.Name, CSS: m.CSS}
		for _, f := range flds {
			nt.Fields = append(nt.Fields, f.Name)
		}
		out[id] = nt
	}
	return out, nil
}

// parseLegacyDecks decodes col.decks into deck names keyed by id.
func parseLegacyDecks(raw string) (map[string]string, error) {
	out := make(map[string]string)
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}
	var decks map[string]legacyDeck
	if err := json.Unmarshal([]byte(raw), &decks); err != nil {
		return nil, fmt.Errorf("decode col.decks: %w", err)
	}
	for id, d := range decks {
		out[id] = d.Name
	}
	return out, nil
}
