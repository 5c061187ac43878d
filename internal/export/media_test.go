// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes = []byte("\x89PNG fake image")
	mp3Bytes = []byte("ID3 fake sound")
)

func testMedia() fstest.MapFS {
	return fstest.MapFS{
		"dog.png":        {Data: pngBytes},
		"cat.jpg":        {Data: []byte("jpeg")},
		"anim.GIF":       {Data: []byte("gif")},
		"pic.webp":       {Data: []byte("webp")},
		"my pic.png":     {Data: pngBytes},
		"bark.mp3":       {Data: mp3Bytes},
		"meow.mp3":       {Data: []byte("meow")},
		"sub/nested.png": {Data: pngBytes},
	}
}

func noButton(id string) string { return "<button id='" + id + "-btn'></button>" }

func TestImageMIMEType(t *testing.T) {
	tests := map[string]string{
		"a.jpg":  "image/jpeg",
		"a.JPEG": "image/jpeg",
		"a.png":  "image/png",
		"a.gif":  "image/gif",
		"a.webp": "image/jpeg",
		"noext":  "image/jpeg",
	}
	for name, want := range tests {
		assert.Equal(t, want, ImageMIMEType(name), name)
	}
}

func TestInlineImages(t *testing.T) {
	m := NewMediaInliner(testMedia(), nil)
	b64 := base64.StdEncoding.EncodeToString(pngBytes)

	t.Run("existing", func(t *testing.T) {
		out := m.InlineImages(`<img src="dog.png">`)
		require.Equal(t, `<img src="data:image/png;base64,`+b64+`">`, out)
		require.NotContains(t, out, "dog.png")
	})

	t.Run("mime by extension", func(t *testing.T) {
		require.Contains(t, m.InlineImages(`<img src="cat.jpg">`), "data:image/jpeg;base64,")
		require.Contains(t, m.InlineImages(`<img src="anim.GIF">`), "data:image/gif;base64,")
		require.Contains(t, m.InlineImages(`<img src="pic.webp">`), "data:image/jpeg;base64,")
	})

	t.Run("missing left unchanged", func(t *testing.T) {
		in := `<img src="missing.png"> text`
		require.Equal(t, in, m.InlineImages(in))
	})

	t.Run("path text replaced everywhere", func(t *testing.T) {
		out := m.InlineImages(`<img src="dog.png"> caption: dog.png`)
		require.Equal(t, 2, strings.Count(out, "data:image/png;base64,"))
	})

	t.Run("escaping media dir", func(t *testing.T) {
		for _, in := range []string{`<img src="../dog.png">`, `<img src="/etc/passwd">`, `<img src="sub/../dog.png">`} {
			require.Equal(t, in, m.InlineImages(in))
		}
	})

	t.Run("subdirectory", func(t *testing.T) {
		require.Contains(t, m.InlineImages(`<img src="sub/nested.png">`), "data:image/png;base64,")
	})

	t.Run("percent encoded", func(t *testing.T) {
		require.Contains(t, m.InlineImages(`<img src="my%20pic.png">`), "data:image/png;base64,")
	})

	t.Run("already inlined", func(t *testing.T) {
		in := `<img src="data:image/png;base64,AAAA">`
		require.Equal(t, in, m.InlineImages(in))
	})
}

func TestInlineAudio(t *testing.T) {
	m := NewMediaInliner(testMedia(), nil)

	t.Run("scenario B", func(t *testing.T) {
		out := m.InlineAudio("See [sound:bark.mp3] run", noButton)
		require.NotContains(t, out, "[sound:bark.mp3]")
		require.Contains(t, out, `<audio id="audio_0" src="data:audio/mpeg;base64,`+base64.StdEncoding.EncodeToString(mp3Bytes)+`" type="audio/mpeg"></audio>`)
		require.Contains(t, out, "<button id='audio_0-btn'></button>")
		require.True(t, strings.HasPrefix(out, "See "))
		require.True(t, strings.HasSuffix(out, " run"))
	})

	t.Run("distinct ids", func(t *testing.T) {
		out := m.InlineAudio("[sound:bark.mp3] [sound:missing.mp3] [sound:meow.mp3] [sound:bark.mp3]", noButton)
		require.Contains(t, out, `id="audio_0"`)
		require.Contains(t, out, `id="audio_2"`)
		require.Contains(t, out, `id="audio_3"`)
		require.NotContains(t, out, `id="audio_1"`)
		require.Contains(t, out, "[sound:missing.mp3]")
	})

	t.Run("missing left unchanged", func(t *testing.T) {
		in := "Listen [sound:nothing.mp3]"
		require.Equal(t, in, m.InlineAudio(in, noButton))
	})
}

// brokenFS reports files as present but fails to read them.
type brokenFS struct {
	fstest.MapFS
}

func (b brokenFS) ReadFile(name string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func TestInlineReadFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	m := NewMediaInliner(brokenFS{testMedia()}, logger)

	in := `<img src="dog.png"> [sound:bark.mp3]`
	out := m.InlineAudio(m.InlineImages(in), noButton)

	require.Equal(t, in, out)
	require.Contains(t, buf.String(), "media read failed")
	require.Contains(t, buf.String(), "ref=dog.png")
	require.Contains(t, buf.String(), "disk on fire")
}

func TestNilMediaFS(t *testing.T) {
	m := NewMediaInliner(nil, nil)
	in := `<img src="dog.png"> [sound:bark.mp3]`
	require.Equal(t, in, m.InlineAudio(m.InlineImages(in), noButton))
}
