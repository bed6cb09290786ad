// Package parser reads the roll-template markup carried in chat message
// content: a &{template:name} tag followed by {{key=value}} markers.
package parser

import (
	"errors"
	"strings"
)

var (
	ErrNoTemplate   = errors.New("no roll template tag found")
	ErrEmptyMarker  = errors.New("marker has an empty key")
	ErrUnclosedMark = errors.New("unclosed {{ marker")
)

const (
	templateOpen = "&{template:"
	markerOpen   = "{{"
	markerClose  = "}}"
)

type Message struct {
	Template string
	Markers  map[string]string
}

// Parse extracts the template tag and markers from content. Marker keys are
// trimmed and matched case-sensitively; when a key repeats the first value
// wins. A marker without "=" is recorded with an empty value. A marker with
// an empty key is skipped and reported as ErrEmptyMarker once the rest of
// the content has been read.
func Parse(content string) (*Message, error) {
	msg := &Message{Markers: make(map[string]string)}
	var skipped error

	if tpl, err := Template(content); err == nil {
		msg.Template = tpl
	}

	rest := content
	for {
		start := strings.Index(rest, markerOpen)
		if start == -1 {
			break
		}
		rest = rest[start+len(markerOpen):]
		end := strings.Index(rest, markerClose)
		if end == -1 {
			return msg, ErrUnclosedMark
		}
		body := rest[:end]
		rest = rest[end+len(markerClose):]

		key, value, _ := strings.Cut(body, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			skipped = ErrEmptyMarker
			continue
		}
		if _, exists := msg.Markers[key]; exists {
			continue
		}
		msg.Markers[key] = strings.TrimSpace(value)
	}

	return msg, skipped
}

// Template returns the name inside the first &{template:...} tag.
func Template(content string) (string, error) {
	start := strings.Index(content, templateOpen)
	if start == -1 {
		return "", ErrNoTemplate
	}
	rest := content[start+len(templateOpen):]
	end := strings.Index(rest, "}")
	if end == -1 {
		return "", ErrNoTemplate
	}
	name := strings.TrimSpace(rest[:end])
	if name == "" {
		return "", ErrNoTemplate
	}
	return name, nil
}

// Marker returns a marker's value and whether it was present at all.
func (m *Message) Marker(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	value, ok := m.Markers[key]
	return value, ok
}
