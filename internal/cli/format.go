// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package cli

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomtom215/eventsieve/internal/models"
)

// maxDescription is the number of description characters kept in a reply.
const maxDescription = 250

var linkPattern = regexp.MustCompile(`(https?://[^\s<>]+)`)

// Formatter renders events in the chat reply layout: bold labels, a
// shortened description and links wrapped in <> so chat clients do not
// unfurl them.
type Formatter struct {
	label lipgloss.Style
	hint  lipgloss.Style
}

// NewFormatter styles output for w. Styles degrade to plain text when w is
// not a terminal.
func NewFormatter(w io.Writer) *Formatter {
	r := lipgloss.NewRenderer(w)
	return &Formatter{
		label: r.NewStyle().Bold(true),
		hint:  r.NewStyle().Foreground(lipgloss.Color("#6C6C6C")).Italic(true),
	}
}

// Events renders every event followed by a blank line.
func (f *Formatter) Events(events []models.Event) string {
	var b strings.Builder
	for _, e := range events {
		title := e.Title
		if e.Going > 0 {
			title = fmt.Sprintf("%s (%d ppl)", title, e.Going)
		}
		b.WriteString(f.label.Render("title:") + " " + title + "\n")
		if d := Description(e.Description); d != "" {
			b.WriteString(f.label.Render("description:") + " " + d + "\n")
		}
		if when := eventDate(e); when != "" {
			b.WriteString(f.label.Render("date:") + " " + when + "\n")
		}
		if e.EventURL != "" {
			b.WriteString(f.label.Render("link:") + " <" + e.EventURL + ">\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Footer tells the user how to continue, or that the listing is complete.
func (f *Formatter) Footer(info models.PageInfo, next string) string {
	if !info.HasNextPage {
		return f.hint.Render("no more events") + "\n"
	}
	return f.hint.Render("more events: "+next) + "\n"
}

// Description flattens text to one line, drops markdown bold markers,
// truncates it and wraps links in <>.
func Description(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	text = strings.ReplaceAll(text, "**", "")

	truncated := false
	if runes := []rune(text); len(runes) > maxDescription {
		text = strings.TrimSpace(string(runes[:maxDescription]))
		truncated = true
	}
	text = linkPattern.ReplaceAllString(text, "<$1>")
	if truncated {
		text += "..."
	}
	return text
}

// eventDate renders "2006-01-02 15:04 - 16:30" in the event's own offset,
// or the raw start time when it does not parse.
func eventDate(e models.Event) string {
	start, ok := e.StartAt()
	if !ok {
		return e.StartTime
	}
	out := start.Format("2006-01-02 15:04")
	if end, ok := e.EndAt(); ok {
		if end.Format("2006-01-02") == start.Format("2006-01-02") {
			out += " - " + end.Format("15:04")
		} else {
			out += " - " + end.Format("2006-01-02 15:04")
		}
	}
	return out
}
