// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// =============================================================================
// MEDIA INLINING
// =============================================================================

var (
	imageSrcPattern = regexp.MustCompile(`src="([^"]+)"`)
	soundPattern    = regexp.MustCompile(`\[sound:(.+?)\]`)
)

// AudioMIMEType is declared for every inlined sound regardless of codec.
const AudioMIMEType = "audio/mpeg"

// ImageMIMEType maps a file name to the MIME type used in its data URI.
// Unknown extensions fall back to image/jpeg.
func ImageMIMEType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

// MediaInliner replaces media references with base64 data URIs read from a
// media directory.
type MediaInliner struct {
	fsys   fs.FS
	logger *slog.Logger
}

// NewMediaInliner creates an inliner reading from fsys. A nil fsys treats
// every reference as missing.
func NewMediaInliner(fsys fs.FS, logger *slog.Logger) *MediaInliner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &MediaInliner{fsys: fsys, logger: logger}
}

// InlineImages replaces the path of every src="<path>" attribute whose file
// exists with a data URI. The path text is replaced everywhere it occurs in
// the field, not only inside the attribute.
func (m *MediaInliner) InlineImages(field string) string {
	seen := make(map[string]bool)
	for _, match := range imageSrcPattern.FindAllStringSubmatch(field, -1) {
		ref := match[1]
		if seen[ref] || strings.HasPrefix(ref, "data:") {
			continue
		}
		seen[ref] = true

		data, name, ok := m.read(ref)
		if !ok {
			continue
		}
		uri := "data:" + ImageMIMEType(name) + ";base64," + base64.StdEncoding.EncodeToString(data)
		field = strings.ReplaceAll(field, ref, uri)
	}
	return field
}

// InlineAudio replaces every [sound:<path>] token whose file exists with an
// audio element and the toggle control built by button. Element ids are
// audio_<n>, n being the token's position among the field's sound tokens.
func (m *MediaInliner) InlineAudio(field string, button func(id string) string) string {
	for idx, match := range soundPattern.FindAllStringSubmatch(field, -1) {
		data, _, ok := m.read(match[1])
		if !ok {
			continue
		}
		id := fmt.Sprintf("audio_%d", idx)
		element := fmt.Sprintf(`<audio id="%s" src="data:%s;base64,%s" type="%s"></audio>%s`,
			id, AudioMIMEType, base64.StdEncoding.EncodeToString(data), AudioMIMEType, button(id))
		field = strings.Replace(field, match[0], element, 1)
	}
	return field
}

// read loads a referenced media file. Missing files and references outside
// the media directory report ok=false silently; read failures are logged.
func (m *MediaInliner) read(ref string) ([]byte, string, bool) {
	if m.fsys == nil {
		return nil, "", false
	}

	for _, name := range candidateNames(ref) {
		if !fs.ValidPath(name) || strings.Contains(name, `\`) {
			continue
		}
		info, err := fs.Stat(m.fsys, name)
		if err != nil || info.IsDir() {
			continue
		}

		data, err := fs.ReadFile(m.fsys, name)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				m.logger.Warn("media read failed", "ref", ref, "err", err)
			}
			return nil, "", false
		}
		return data, name, true
	}
	return nil, "", false
}

// candidateNames lists the file names a reference may stand for: the literal
// text first, then with HTML entities and percent-escapes decoded.
func candidateNames(ref string) []string {
	names := []string{ref}
	decoded := html.UnescapeString(ref)
	if unescaped, err := url.PathUnescape(decoded); err == nil {
		decoded = unescaped
	}
	if decoded != ref {
		names = append(names, decoded)
	}
	return names
}
