package plist

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/macrokit/maestro/pkg/domain"
)

// nonHex strips separators (whitespace, commas) that the engine may
// intersperse in its hex output.
var nonHex = regexp.MustCompile(`[^0-9a-fA-F]+`)

// macroBlock matches one exported macro dictionary: a <dict> carrying a
// Name string and a UID string, with arbitrary content in between. The
// quantifiers are deliberately lazy so the match ends at the nearest
// closing tag; a tolerant linear scan is preferred here over a full
// plist parser because the export blob is large and minimally nested
// per macro. A nested dictionary that itself carries a Name/UID pair can
// still truncate a block early; see DESIGN.md.
var macroBlock = regexp.MustCompile(`(?is)<dict>.*?<key>Name</key>\s*<string>(.*?)</string>.*?<key>UID</key>\s*<string>(.*?)</string>.*?</dict>`)

// Extract decodes the engine's hex-encoded export of all macros and
// returns the entire dictionary block of the macro matching id. The uid
// is compared case-insensitively; the name exactly first, then
// case-insensitively. The first qualifying block wins. It returns
// domain.ErrNotFound when no block matches.
func Extract(blob string, id domain.Identifier) (string, error) {
	decoded, err := hex.DecodeString(nonHex.ReplaceAllString(blob, ""))
	if err != nil {
		return "", fmt.Errorf("decoding macro export: %w", err)
	}
	doc := string(decoded)

	for _, m := range macroBlock.FindAllStringSubmatchIndex(doc, -1) {
		block := doc[m[0]:m[1]]
		name := doc[m[2]:m[3]]
		uid := doc[m[4]:m[5]]
		if matches(id, name, uid) {
			return block, nil
		}
	}
	return "", fmt.Errorf("macro %q: %w", id.Value(), domain.ErrNotFound)
}

func matches(id domain.Identifier, name, uid string) bool {
	want := id.Value()
	byUID := strings.EqualFold(uid, want)
	byName := name == want || strings.EqualFold(name, want)
	switch id.Kind() {
	case domain.MatchID:
		return byUID
	case domain.MatchName:
		return byName
	default:
		return byName || byUID
	}
}
