package parser

import "strings"

type Marker struct {
	Key   string
	Value string
}

// Render writes a template tag followed by its markers. Values are escaped
// so they cannot close their marker early.
func Render(template string, markers ...Marker) string {
	var b strings.Builder
	b.WriteString(templateOpen)
	b.WriteString(template)
	b.WriteString("}")
	for _, m := range markers {
		b.WriteString(" ")
		b.WriteString(markerOpen)
		b.WriteString(m.Key)
		b.WriteString("=")
		b.WriteString(escape(m.Value))
		b.WriteString(markerClose)
	}
	return b.String()
}

func escape(value string) string {
	return strings.NewReplacer(markerOpen, "{ {", markerClose, "} }").Replace(value)
}
