// Package plist handles the property-list documents exchanged with the
// engine: wrapping bare fragments into complete documents, and digging
// one macro's definition out of the engine's hex-encoded full export.
package plist

import "strings"

const (
	xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>`
	doctype        = `<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">`
	rootOpen       = `<plist version="1.0">`
	rootClose      = `</plist>`
)

// Wrap embeds a bare fragment (typically a single action or trigger
// dictionary) into a complete plist document. A fragment that already is
// a complete document, i.e. starts with an XML declaration, a doctype or
// a plist root element once surrounding whitespace is trimmed, is
// returned unchanged, so Wrap is idempotent.
func Wrap(fragment string) string {
	trimmed := strings.TrimSpace(fragment)
	if strings.HasPrefix(trimmed, "<?xml") ||
		strings.HasPrefix(trimmed, "<!DOCTYPE") ||
		strings.HasPrefix(trimmed, "<plist") {
		return fragment
	}
	var b strings.Builder
	b.WriteString(xmlDeclaration)
	b.WriteByte('\n')
	b.WriteString(doctype)
	b.WriteByte('\n')
	b.WriteString(rootOpen)
	b.WriteByte('\n')
	b.WriteString(trimmed)
	b.WriteByte('\n')
	b.WriteString(rootClose)
	b.WriteByte('\n')
	return b.String()
}
