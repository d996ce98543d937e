package script

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/macrokit/maestro/pkg/domain"
)

func TestEscape(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "My Macro", "My Macro"},
		{"quotes", `say "hi"`, `say \"hi\"`},
		{"backslash", `C:\path`, `C:\\path`},
		{"backslash before quote", `\"`, `\\\"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Escape(tc.in))
		})
	}
}

func TestEscape_OrderIsStable(t *testing.T) {
	// Backslashes are doubled before quotes are escaped; the other order
	// would double the backslash that the quote escape just emitted.
	assert.Equal(t, `\\\"`, Escape(`\"`))
}

func TestPredicateRendering(t *testing.T) {
	t.Run("name or id", func(t *testing.T) {
		src := NewBuilder().GetMacro(domain.ByNameOrID("Mail"))
		assert.Contains(t, src, `first macro whose (name is "Mail" or id is "Mail")`)
	})
	t.Run("name only", func(t *testing.T) {
		src := NewBuilder().GetMacro(domain.ByName("Mail"))
		assert.Contains(t, src, `first macro whose (name is "Mail")`)
	})
	t.Run("id only", func(t *testing.T) {
		src := NewBuilder().GetMacro(domain.ByID("A1B2"))
		assert.Contains(t, src, `first macro whose (id is "A1B2")`)
	})
	t.Run("identifier escaped", func(t *testing.T) {
		src := NewBuilder().GetMacro(domain.ByName(`say "hi"`))
		assert.Contains(t, src, `(name is "say \"hi\"")`)
	})
}

func TestBuilder_ApplicationTargets(t *testing.T) {
	b := NewBuilder()
	assert.Contains(t, b.ListMacros(), `tell application "Keyboard Maestro"`)
	assert.Contains(t, b.ExecuteMacro(domain.ByNameOrID("m"), ""), `tell application "Keyboard Maestro Engine"`)

	custom := NewBuilder(WithEditorApp("Editor X"), WithEngineApp("Engine X"))
	assert.Contains(t, custom.ListMacros(), `tell application "Editor X"`)
	assert.Contains(t, custom.ExportAllMacros(), `tell application "Engine X"`)
}

func TestListMacros_EmitsSeparators(t *testing.T) {
	src := NewBuilder().ListMacros()

	assert.Contains(t, src, FieldSeparator)
	assert.Contains(t, src, RecordSeparator)
	assert.Contains(t, src, "repeat with g in macro groups")
	assert.True(t, strings.HasSuffix(src, "end tell"))
}

func TestSearchMacros_CaseSensitiveMatch(t *testing.T) {
	src := NewBuilder().SearchMacros("Mail")

	assert.Contains(t, src, "considering case")
	assert.Contains(t, src, `whose name contains "Mail"`)
}

func TestExecuteMacro(t *testing.T) {
	t.Run("without parameter", func(t *testing.T) {
		src := NewBuilder().ExecuteMacro(domain.ByNameOrID("Paste Date"), "")
		assert.Contains(t, src, `do script "Paste Date"`)
		assert.NotContains(t, src, "with parameter")
	})
	t.Run("with parameter", func(t *testing.T) {
		src := NewBuilder().ExecuteMacro(domain.ByNameOrID("Paste Date"), "2026-08-27")
		assert.Contains(t, src, `do script "Paste Date" with parameter "2026-08-27"`)
	})
}

func TestPayloadCommands_ReferenceFileNotContent(t *testing.T) {
	const path = "/tmp/maestro-payload-1-1.xml"
	b := NewBuilder()
	id := domain.ByNameOrID("Mail")

	for name, src := range map[string]string{
		"add action":  b.AddAction(id, path),
		"set action":  b.SetAction(id, 2, path),
		"add trigger": b.AddTrigger(id, path),
		"set trigger": b.SetTrigger(id, 2, path),
	} {
		t.Run(name, func(t *testing.T) {
			assert.Contains(t, src, `read (POSIX file "`+path+`") as «class utf8»`)
			assert.NotContains(t, src, "<dict>")
		})
	}
}

func TestMoveAction_BoundaryRendering(t *testing.T) {
	src := NewBuilder().MoveAction(domain.ByNameOrID("Mail"), 3, 7)

	assert.Contains(t, src, "if 7 > (count of actions of m) then")
	assert.Contains(t, src, "move action 3 of m to end of actions of m")
	assert.Contains(t, src, "move action 3 of m to before action 7 of m")
}

func TestMoveTrigger_BoundaryRendering(t *testing.T) {
	src := NewBuilder().MoveTrigger(domain.ByNameOrID("Mail"), 1, 2)

	assert.Contains(t, src, "if 2 > (count of triggers of m) then")
	assert.Contains(t, src, "move trigger 1 of m to before trigger 2 of m")
}

func TestSearchReplaceAction_Rendering(t *testing.T) {
	src := NewBuilder().SearchReplaceAction(domain.ByNameOrID("Mail"), 2, "old", "new")

	assert.Contains(t, src, "set _xml to xml of action 2 of m")
	assert.Contains(t, src, "considering case")
	assert.Contains(t, src, `set AppleScript's text item delimiters to "old"`)
	assert.Contains(t, src, `set AppleScript's text item delimiters to "new"`)
	assert.Contains(t, src, "set xml of action 2 of m to _new")
	// Delimiters are restored afterwards.
	assert.Contains(t, src, "set AppleScript's text item delimiters to _old")
}

func TestCreateMacro_GroupPlacement(t *testing.T) {
	b := NewBuilder()

	t.Run("default group", func(t *testing.T) {
		src := b.CreateMacro("New Macro", domain.Identifier{})
		assert.Contains(t, src, `make new macro with properties {name:"New Macro"}`)
		assert.NotContains(t, src, "macro group whose")
		assert.Contains(t, src, "return id of m")
	})
	t.Run("explicit group", func(t *testing.T) {
		src := b.CreateMacro("New Macro", domain.ByNameOrID("Utilities"))
		assert.Contains(t, src, `first macro group whose (name is "Utilities" or id is "Utilities")`)
		assert.Contains(t, src, "tell g to set m to make new macro")
	})
}

func TestDuplicateMacro_OptionalRename(t *testing.T) {
	b := NewBuilder()

	src := b.DuplicateMacro(domain.ByNameOrID("Mail"), "")
	assert.NotContains(t, src, "set name of d")

	src = b.DuplicateMacro(domain.ByNameOrID("Mail"), "Mail Copy")
	assert.Contains(t, src, `set name of d to "Mail Copy"`)
	assert.Contains(t, src, "return id of d")
}

func TestGetElementXML(t *testing.T) {
	b := NewBuilder()
	assert.Contains(t, b.GetAction(domain.ByNameOrID("Mail"), 4), "return xml of action 4 of m")
	assert.Contains(t, b.GetTrigger(domain.ByNameOrID("Mail"), 1), "return xml of trigger 1 of m")
}
