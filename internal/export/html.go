// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/jeranaias/deckhtml/internal/collection"
)

// =============================================================================
// RENDERING STYLE
// =============================================================================

// Style selects the page layout of rendered cards.
type Style string

const (
	// StylePlain renders a light page with bold field labels.
	StylePlain Style = "plain"

	// StyleStyled renders the dark card layout with an accented Word field.
	StyleStyled Style = "styled"
)

// AccentField is the field the styled layout emphasises.
const AccentField = "Word"

// ParseStyle validates a style name. Empty selects StyleStyled.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case "", StyleStyled:
		return StyleStyled, nil
	case StylePlain:
		return StylePlain, nil
	default:
		return "", fmt.Errorf("unknown style %q (expected plain or styled)", s)
	}
}

var accentBluePattern = regexp.MustCompile(`(?i)#0000ff`)

const accentColor = "#ff8c00"

// =============================================================================
// HTML RENDERER
// =============================================================================

// HTMLRenderer turns one note into a standalone HTML page.
type HTMLRenderer struct {
	style Style
	media *MediaInliner
}

// NewHTMLRenderer creates a renderer. A nil media inliner leaves media
// references untouched.
func NewHTMLRenderer(style Style, media *MediaInliner) *HTMLRenderer {
	if style == "" {
		style = StyleStyled
	}
	if media == nil {
		media = NewMediaInliner(nil, nil)
	}
	return &HTMLRenderer{style: style, media: media}
}

// Style returns the renderer's layout.
func (r *HTMLRenderer) Style() Style {
	return r.style
}

// RenderFragment builds the card body: a "Card <index>" heading, one entry
// per non-blank field and a trailing rule.
func (r *HTMLRenderer) RenderFragment(index int, note *collection.Note) string {
	var sb strings.Builder

	if r.style == StylePlain {
		sb.WriteString(fmt.Sprintf("<div class='card'><h3>Card %d</h3>\n", index))
	} else {
		sb.WriteString(fmt.Sprintf("<div class='card-container'><h3>Card %d</h3>\n", index))
	}

	for _, f := range note.Fields {
		value := strings.TrimSpace(f.Value)
		if value == "" {
			continue
		}
		sb.WriteString(r.renderField(f.Name, value))
	}

	sb.WriteString("<hr/></div>")
	return sb.String()
}

// renderField renders one field entry from its stripped value.
func (r *HTMLRenderer) renderField(name, value string) string {
	value = FlattenCloze(value)
	label := html.EscapeString(name)

	if r.style == StylePlain {
		value = r.inlineMedia(value)
		return fmt.Sprintf("<div class='field'><b>%s:</b> %s</div>\n", label, value)
	}

	class := "field-value"
	if name == AccentField {
		value = accentBluePattern.ReplaceAllString(value, accentColor)
		class = "field-value field-value-bold"
	}
	value = r.inlineMedia(value)
	return fmt.Sprintf("<div class='field-name'>%s:</div> <div class='%s'>%s</div>\n", label, class, value)
}

func (r *HTMLRenderer) inlineMedia(value string) string {
	value = r.media.InlineImages(value)
	return r.media.InlineAudio(value, r.audioButton)
}

// audioButton returns the toggle control for an inlined audio element.
func (r *HTMLRenderer) audioButton(id string) string {
	if r.style == StylePlain {
		return fmt.Sprintf(`<button class="audio-btn" onclick="playAudio('%s')"></button>`, id)
	}
	return fmt.Sprintf(`<button class="audio-btn" onclick="playAudio('%s')">%s</button>`, id, speakerIcon)
}

// RenderPage wraps a fragment in the shared page template. The note's
// stylesheet follows the shared style block verbatim.
func (r *HTMLRenderer) RenderPage(fragment, stylesheet string) string {
	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html>\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"generator\" content=\"deckhtml\">\n")

	if r.style == StylePlain {
		sb.WriteString(plainCSS)
	} else {
		sb.WriteString(styledCSS)
	}
	if stylesheet != "" {
		sb.WriteString("    <style>\n")
		sb.WriteString(stylesheet)
		sb.WriteString("\n    </style>\n")
	}

	sb.WriteString("</head>\n")
	sb.WriteString("<body>\n")
	sb.WriteString(fragment)
	sb.WriteString("\n")
	sb.WriteString(playAudioScript)
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return sb.String()
}

// Render renders a complete page for the index-th card of a run.
func (r *HTMLRenderer) Render(index int, note *collection.Note, stylesheet string) string {
	return r.RenderPage(r.RenderFragment(index, note), stylesheet)
}

// =============================================================================
// EMBEDDED ASSETS
// =============================================================================

const speakerIcon = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" class="feather feather-volume-up"><path d="M3 9v6h4l5 5V4L7 9zm13.5 3c0-1.77-1.02-3.29-2.5-4.03v8.05c1.48-.73 2.5-2.25 2.5-4.02M14 3.23v2.06c2.89.86 5 3.54 5 6.71s-2.11 5.85-5 6.71v2.06c4.01-.91 7-4.49 7-8.77s-2.99-7.86-7-8.77"></path></svg>`

// playIconURI is a small play triangle used by the plain layout.
const playIconURI = "data:image/svg+xml;base64,PHN2ZyB4bWxucz0iaHR0cDovL3d3dy53My5vcmcvMjAwMC9zdmciIHZpZXdCb3g9IjAgMCAyNCAyNCI+PHBhdGggZmlsbD0iIzMzMzMzMyIgZD0iTTggNXYxNGwxMS03eiIvPjwvc3ZnPg=="

const playAudioScript = `    <script>
        function playAudio(id) {
            var audio = document.getElementById(id);
            if (audio.paused) {
                audio.play();
            } else {
                audio.pause();
            }
        }
    </script>
`

const styledCSS = `    <style>
        body {
            background-color: #2D2D2D;
            color: #D4D4D4;
            font-family: Arial, sans-serif;
            line-height: 1.6;
        }

        .card-container {
            margin: 20px;
            padding: 20px;
            border: 1px solid #444;
            border-radius: 12px;
            background-color: #3B3B3B;
        }

        .field-name {
            color: #BBBBBB;
            font-size: 12px;
            font-weight: normal;
        }

        .field-value {
            color: #E0E0E0;
            font-size: 14px;
        }

        .field-value-bold {
            font-weight: bold;
            font-size: 22px;
            color: #FFA500;
        }

        img {
            width: 100px;
            height: 100px;
            object-fit: cover;
            border-radius: 8px;
        }

        a {
            color: #FFA500;
        }

        button.audio-btn {
            background: none;
            width: 32px;
            height: 32px;
            border: none;
            cursor: pointer;
            display: flex;
            justify-content: center;
            align-items: center;
        }

        button.audio-btn svg {
            width: 100%;
            height: 100%;
            fill: #FFA500;
        }

        button.audio-btn:focus {
            outline: none;
        }
    </style>
`

const plainCSS = `    <style>
        body {
            background-color: #FFFFFF;
            color: #222222;
            font-family: Arial, sans-serif;
            line-height: 1.5;
            margin: 20px;
        }

        .field {
            margin: 6px 0;
        }

        img {
            max-width: 100%;
        }

        button.audio-btn {
            width: 28px;
            height: 28px;
            border: 1px solid #CCCCCC;
            border-radius: 50%;
            cursor: pointer;
            vertical-align: middle;
            background: #F5F5F5 url("` + playIconURI + `") no-repeat center;
            background-size: 60%;
        }
    </style>
`
