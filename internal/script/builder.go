// Package script renders AppleScript command text for each engine
// operation and decodes the delimiter-separated results the commands
// produce. It is the only place where caller-supplied values meet the
// engine's command grammar, so all escaping lives here.
package script

import (
	"fmt"
	"strings"

	"github.com/macrokit/maestro/pkg/domain"
)

// Separator tokens emitted by the listing commands. Both are
// multi-character and rare enough not to collide with macro names.
const (
	RecordSeparator = "@@@"
	FieldSeparator  = "%%%"
)

// Builder renders one AppleScript source string per logical operation.
// It targets two applications: the editor (which owns macros, groups,
// actions and triggers) and the engine (which executes macros and
// exports definitions).
type Builder struct {
	editorApp string
	engineApp string
}

// Option configures a Builder.
type Option func(*Builder)

// WithEditorApp overrides the editor application name.
func WithEditorApp(name string) Option {
	return func(b *Builder) { b.editorApp = name }
}

// WithEngineApp overrides the engine application name.
func WithEngineApp(name string) Option {
	return func(b *Builder) { b.engineApp = name }
}

// NewBuilder creates a Builder targeting the stock application names.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		editorApp: "Keyboard Maestro",
		engineApp: "Keyboard Maestro Engine",
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Escape makes a caller-supplied literal safe for inline placement
// inside a double-quoted AppleScript string: backslashes first, then
// quotes, so escaping a value twice never corrupts it.
func Escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// quote escapes and double-quotes a literal.
func quote(s string) string {
	return `"` + Escape(s) + `"`
}

// predicate renders the whose-clause for an identifier. The combined
// name-or-id form lets one round trip resolve either; the engine
// evaluates name before id, which gives names precedence.
func predicate(id domain.Identifier) string {
	v := quote(id.Value())
	switch id.Kind() {
	case domain.MatchName:
		return fmt.Sprintf("(name is %s)", v)
	case domain.MatchID:
		return fmt.Sprintf("(id is %s)", v)
	default:
		return fmt.Sprintf("(name is %s or id is %s)", v, v)
	}
}

// macroRef selects a single macro by identifier.
func macroRef(id domain.Identifier) string {
	return fmt.Sprintf("first macro whose %s", predicate(id))
}

// groupRef selects a single macro group by identifier.
func groupRef(id domain.Identifier) string {
	return fmt.Sprintf("first macro group whose %s", predicate(id))
}

// readPayload renders the clause that loads a transfer file's content as
// UTF-8 text inside the script. Payloads are never interpolated inline.
func readPayload(path string) string {
	return fmt.Sprintf("read (POSIX file %s) as «class utf8»", quote(path))
}

func (b *Builder) tellEditor(body ...string) string {
	return tellBlock(b.editorApp, body)
}

func (b *Builder) tellEngine(body ...string) string {
	return tellBlock(b.engineApp, body)
}

func tellBlock(app string, body []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "tell application %s\n", quote(app))
	for _, line := range body {
		sb.WriteByte('\t')
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteString("end tell")
	return sb.String()
}

// ListMacros emits one record per macro: name, uid, enabled, group.
func (b *Builder) ListMacros() string {
	return b.tellEditor(
		`set _out to ""`,
		`repeat with g in macro groups`,
		"\trepeat with m in macros of g",
		fmt.Sprintf("\t\tset _out to _out & (name of m) & %q & (id of m) & %q & ((enabled of m) as text) & %q & (name of g) & %q",
			FieldSeparator, FieldSeparator, FieldSeparator, RecordSeparator),
		"\tend repeat",
		`end repeat`,
		`return _out`,
	)
}

// SearchMacros emits the same record shape as ListMacros, restricted to
// macros whose name contains query. The substring match runs inside a
// considering-case block, so it is case-sensitive.
func (b *Builder) SearchMacros(query string) string {
	return b.tellEditor(
		`set _out to ""`,
		`repeat with g in macro groups`,
		`	considering case`,
		fmt.Sprintf("\t\tset _ms to (every macro of g whose name contains %s)", quote(query)),
		`	end considering`,
		"\trepeat with m in _ms",
		fmt.Sprintf("\t\tset _out to _out & (name of m) & %q & (id of m) & %q & ((enabled of m) as text) & %q & (name of g) & %q",
			FieldSeparator, FieldSeparator, FieldSeparator, RecordSeparator),
		"\tend repeat",
		`end repeat`,
		`return _out`,
	)
}

// GetMacro returns one record: name, uid, enabled.
func (b *Builder) GetMacro(id domain.Identifier) string {
	return b.tellEditor(
		fmt.Sprintf("set m to %s", macroRef(id)),
		fmt.Sprintf("return (name of m) & %q & (id of m) & %q & ((enabled of m) as text)",
			FieldSeparator, FieldSeparator),
	)
}

// ExportAllMacros asks the engine for its full macro export: a
// hex-encoded plist covering every macro. Fetched fresh per call; the
// engine may mutate between calls, so the blob is never cached.
func (b *Builder) ExportAllMacros() string {
	return b.tellEngine(`getmacros with asstring`)
}

// CreateMacro makes a new macro, optionally inside a specific group, and
// returns the new macro's id as the raw result.
func (b *Builder) CreateMacro(name string, group domain.Identifier) string {
	if group.IsZero() {
		return b.tellEditor(
			fmt.Sprintf("set m to make new macro with properties {name:%s}", quote(name)),
			`return id of m`,
		)
	}
	return b.tellEditor(
		fmt.Sprintf("set g to %s", groupRef(group)),
		fmt.Sprintf("tell g to set m to make new macro with properties {name:%s}", quote(name)),
		`return id of m`,
	)
}

// DuplicateMacro copies a macro within its group, optionally renaming
// the copy, and returns the new macro's id.
func (b *Builder) DuplicateMacro(id domain.Identifier, newName string) string {
	body := []string{
		fmt.Sprintf("set m to %s", macroRef(id)),
		`set d to duplicate m to macro group of m`,
	}
	if newName != "" {
		body = append(body, fmt.Sprintf("set name of d to %s", quote(newName)))
	}
	body = append(body, `return id of d`)
	return b.tellEditor(body...)
}

// DeleteMacro removes a macro.
func (b *Builder) DeleteMacro(id domain.Identifier) string {
	return b.tellEditor(
		fmt.Sprintf("delete (%s)", macroRef(id)),
		fmt.Sprintf("return \"Deleted macro \" & %s", quote(id.Value())),
	)
}

// SetMacroEnable toggles a macro's enabled state.
func (b *Builder) SetMacroEnable(id domain.Identifier, enabled bool) string {
	return b.tellEditor(
		fmt.Sprintf("set enabled of (%s) to %t", macroRef(id), enabled),
		fmt.Sprintf("return \"Set macro \" & %s & \" enabled to %t\"", quote(id.Value()), enabled),
	)
}

// ListGroups emits one record per group: name, uid, macro count. The
// command trims nothing itself, but fields here are safe to trim on
// decode since group names with meaningful surrounding whitespace do
// not round-trip through the engine anyway.
func (b *Builder) ListGroups() string {
	return b.tellEditor(
		`set _out to ""`,
		`repeat with g in macro groups`,
		fmt.Sprintf("\tset _out to _out & (name of g) & %q & (id of g) & %q & ((count of macros of g) as text) & %q",
			FieldSeparator, FieldSeparator, RecordSeparator),
		`end repeat`,
		`return _out`,
	)
}

// CreateGroup makes a new macro group and returns its id.
func (b *Builder) CreateGroup(name string) string {
	return b.tellEditor(
		fmt.Sprintf("set g to make new macro group with properties {name:%s}", quote(name)),
		`return id of g`,
	)
}

// DeleteGroup removes a macro group.
func (b *Builder) DeleteGroup(id domain.Identifier) string {
	return b.tellEditor(
		fmt.Sprintf("delete (%s)", groupRef(id)),
		fmt.Sprintf("return \"Deleted group \" & %s", quote(id.Value())),
	)
}

// SetGroupEnable toggles a group's enabled state.
func (b *Builder) SetGroupEnable(id domain.Identifier, enabled bool) string {
	return b.tellEditor(
		fmt.Sprintf("set enabled of (%s) to %t", groupRef(id), enabled),
		fmt.Sprintf("return \"Set group \" & %s & \" enabled to %t\"", quote(id.Value()), enabled),
	)
}

// ExecuteMacro runs a macro through the engine. The engine's do script
// accepts a name or a uid natively, so the identifier's raw value is
// passed straight through (escaped).
func (b *Builder) ExecuteMacro(id domain.Identifier, parameter string) string {
	line := fmt.Sprintf("do script %s", quote(id.Value()))
	if parameter != "" {
		line += fmt.Sprintf(" with parameter %s", quote(parameter))
	}
	return b.tellEngine(
		line,
		fmt.Sprintf("return \"Executed macro \" & %s", quote(id.Value())),
	)
}

// ListActions emits one action name per record.
func (b *Builder) ListActions(macro domain.Identifier) string {
	return b.listElements(macro, "actions", "name")
}

// ListTriggers emits one trigger description per record.
func (b *Builder) ListTriggers(macro domain.Identifier) string {
	return b.listElements(macro, "triggers", "description")
}

func (b *Builder) listElements(macro domain.Identifier, collection, field string) string {
	return b.tellEditor(
		fmt.Sprintf("set m to %s", macroRef(macro)),
		`set _out to ""`,
		fmt.Sprintf("repeat with e in %s of m", collection),
		fmt.Sprintf("\tset _out to _out & (%s of e) & %q", field, RecordSeparator),
		`end repeat`,
		`return _out`,
	)
}

// GetAction returns the raw XML definition of one action.
func (b *Builder) GetAction(macro domain.Identifier, index int) string {
	return b.getElementXML(macro, "action", index)
}

// GetTrigger returns the raw XML definition of one trigger.
func (b *Builder) GetTrigger(macro domain.Identifier, index int) string {
	return b.getElementXML(macro, "trigger", index)
}

func (b *Builder) getElementXML(macro domain.Identifier, element string, index int) string {
	return b.tellEditor(
		fmt.Sprintf("set m to %s", macroRef(macro)),
		fmt.Sprintf("return xml of %s %d of m", element, index),
	)
}

// AddAction appends a new action whose definition is read from the
// transfer file at path.
func (b *Builder) AddAction(macro domain.Identifier, path string) string {
	return b.addElement(macro, "action", path)
}

// AddTrigger appends a new trigger whose definition is read from the
// transfer file at path.
func (b *Builder) AddTrigger(macro domain.Identifier, path string) string {
	return b.addElement(macro, "trigger", path)
}

func (b *Builder) addElement(macro domain.Identifier, element, path string) string {
	return b.tellEditor(
		fmt.Sprintf("set m to %s", macroRef(macro)),
		fmt.Sprintf("set _xml to (%s)", readPayload(path)),
		fmt.Sprintf("tell m to make new %s with properties {xml:_xml}", element),
		fmt.Sprintf("return \"Added %s to macro \" & %s", element, quote(macro.Value())),
	)
}

// SetAction replaces one action's definition from the transfer file.
func (b *Builder) SetAction(macro domain.Identifier, index int, path string) string {
	return b.setElement(macro, "action", index, path)
}

// SetTrigger replaces one trigger's definition from the transfer file.
func (b *Builder) SetTrigger(macro domain.Identifier, index int, path string) string {
	return b.setElement(macro, "trigger", index, path)
}

func (b *Builder) setElement(macro domain.Identifier, element string, index int, path string) string {
	return b.tellEditor(
		fmt.Sprintf("set m to %s", macroRef(macro)),
		fmt.Sprintf("set _xml to (%s)", readPayload(path)),
		fmt.Sprintf("set xml of %s %d of m to _xml", element, index),
		fmt.Sprintf("return \"Set %s %d of macro \" & %s", element, index, quote(macro.Value())),
	)
}

// DeleteAction removes one action by index.
func (b *Builder) DeleteAction(macro domain.Identifier, index int) string {
	return b.deleteElement(macro, "action", index)
}

// DeleteTrigger removes one trigger by index.
func (b *Builder) DeleteTrigger(macro domain.Identifier, index int) string {
	return b.deleteElement(macro, "trigger", index)
}

func (b *Builder) deleteElement(macro domain.Identifier, element string, index int) string {
	return b.tellEditor(
		fmt.Sprintf("set m to %s", macroRef(macro)),
		fmt.Sprintf("delete %s %d of m", element, index),
		fmt.Sprintf("return \"Deleted %s %d of macro \" & %s", element, index, quote(macro.Value())),
	)
}

// MoveAction repositions an action. A destination beyond the current
// action count resolves to the tail; otherwise the action lands
// immediately before the destination index. The boundary check runs
// engine-side, so callers never need to know the exact count.
func (b *Builder) MoveAction(macro domain.Identifier, index, dest int) string {
	return b.moveElement(macro, "action", "actions", index, dest)
}

// MoveTrigger repositions a trigger with the same gap-tolerant semantics
// as MoveAction.
func (b *Builder) MoveTrigger(macro domain.Identifier, index, dest int) string {
	return b.moveElement(macro, "trigger", "triggers", index, dest)
}

func (b *Builder) moveElement(macro domain.Identifier, element, collection string, index, dest int) string {
	return b.tellEditor(
		fmt.Sprintf("set m to %s", macroRef(macro)),
		fmt.Sprintf("if %d > (count of %s of m) then", dest, collection),
		fmt.Sprintf("\tmove %s %d of m to end of %s of m", element, index, collection),
		`else`,
		fmt.Sprintf("\tmove %s %d of m to before %s %d of m", element, index, element, dest),
		`end if`,
		fmt.Sprintf("return \"Moved %s %d of macro \" & %s", element, index, quote(macro.Value())),
	)
}

// SearchReplaceAction rewrites one action's XML by literal,
// case-sensitive substring replacement, performed entirely engine-side
// via text item delimiters inside a considering-case block.
func (b *Builder) SearchReplaceAction(macro domain.Identifier, index int, search, replace string) string {
	return b.tellEditor(
		fmt.Sprintf("set m to %s", macroRef(macro)),
		fmt.Sprintf("set _xml to xml of action %d of m", index),
		`set _old to AppleScript's text item delimiters`,
		`considering case`,
		fmt.Sprintf("\tset AppleScript's text item delimiters to %s", quote(search)),
		`	set _parts to every text item of _xml`,
		fmt.Sprintf("\tset AppleScript's text item delimiters to %s", quote(replace)),
		`	set _new to _parts as text`,
		`end considering`,
		`set AppleScript's text item delimiters to _old`,
		fmt.Sprintf("set xml of action %d of m to _new", index),
		fmt.Sprintf("return \"Replaced text in action %d of macro \" & %s", index, quote(macro.Value())),
	)
}
