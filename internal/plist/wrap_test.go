package plist

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_Fragment(t *testing.T) {
	out := Wrap("<dict><key>MacroActionType</key><string>Notification</string></dict>")

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `<!DOCTYPE plist PUBLIC`)
	assert.Contains(t, out, `<plist version="1.0">`)
	assert.Contains(t, out, "<key>MacroActionType</key>")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</plist>"))
}

func TestWrap_Idempotent(t *testing.T) {
	once := Wrap("<dict><key>A</key><string>1</string></dict>")
	twice := Wrap(once)

	assert.Equal(t, once, twice)
}

func TestWrap_CompleteDocumentsPassThrough(t *testing.T) {
	cases := map[string]string{
		"xml declaration": `<?xml version="1.0" encoding="UTF-8"?><plist version="1.0"><dict/></plist>`,
		"doctype first":   `<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd"><plist version="1.0"><dict/></plist>`,
		"plist root":      `<plist version="1.0"><dict/></plist>`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, doc, Wrap(doc))
		})
	}
}

func TestWrap_LeadingWhitespaceStillDetected(t *testing.T) {
	doc := "\n\t  <?xml version=\"1.0\"?><plist version=\"1.0\"><dict/></plist>"
	assert.Equal(t, doc, Wrap(doc))
}
