package script

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/macrokit/maestro/pkg/domain"
)

func TestDecodeRecords_Empty(t *testing.T) {
	assert.Nil(t, DecodeRecords("", false))
	assert.Nil(t, DecodeRecords("   \n\t", false))
}

func TestDecodeRecords_TrailingSeparator(t *testing.T) {
	raw := "a%%%b@@@c%%%d@@@"
	records := DecodeRecords(raw, false)

	assert.Len(t, records, 2)
	assert.Equal(t, []string{"a", "b"}, records[0])
	assert.Equal(t, []string{"c", "d"}, records[1])
}

func TestDecodeRecords_TrimOnlyWhenAsked(t *testing.T) {
	raw := " a %%% b @@@"

	assert.Equal(t, []string{" a ", " b "}, DecodeRecords(raw, false)[0])
	assert.Equal(t, []string{"a", "b"}, DecodeRecords(raw, true)[0])
}

func TestDecodeMacros(t *testing.T) {
	raw := "Open Mail%%%A1-001%%%true%%%Utilities@@@" +
		"Paste Date%%%A1-002%%%false%%%Text@@@"

	macros := DecodeMacros(raw)
	assert.Equal(t, []domain.MacroRecord{
		{Name: "Open Mail", UID: "A1-001", Enabled: true, Group: "Utilities"},
		{Name: "Paste Date", UID: "A1-002", Enabled: false, Group: "Text"},
	}, macros)
}

func TestDecodeMacros_MissingFieldsStayEmpty(t *testing.T) {
	macros := DecodeMacros("Lonely%%%A1-003@@@")

	assert.Len(t, macros, 1)
	assert.Equal(t, domain.MacroRecord{Name: "Lonely", UID: "A1-003"}, macros[0])
}

func TestDecodeMacro(t *testing.T) {
	rec, err := DecodeMacro("Open Mail%%%A1-001%%%true")
	assert.NoError(t, err)
	assert.Equal(t, domain.MacroRecord{Name: "Open Mail", UID: "A1-001", Enabled: true}, rec)
}

func TestDecodeMacro_EmptyResult(t *testing.T) {
	_, err := DecodeMacro("")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDecodeGroups(t *testing.T) {
	raw := "Utilities %%% G-001 %%% 12 @@@" +
		"%%%G-ghost%%%0@@@" + // blank name: filtered out
		"Text%%%G-002%%%not-a-number@@@"

	groups := DecodeGroups(raw)
	assert.Equal(t, []domain.GroupRecord{
		{Name: "Utilities", UID: "G-001", MacroCount: 12},
		{Name: "Text", UID: "G-002", MacroCount: 0},
	}, groups)
}

func TestDecodeActions_OneBasedIndices(t *testing.T) {
	actions := DecodeActions("Pause@@@Type a Keystroke@@@")

	assert.Equal(t, []domain.ActionRecord{
		{Index: 1, Name: "Pause"},
		{Index: 2, Name: "Type a Keystroke"},
	}, actions)
}

func TestDecodeTriggers_OneBasedIndices(t *testing.T) {
	triggers := DecodeTriggers("Hot Key F1@@@")

	assert.Equal(t, []domain.TriggerRecord{
		{Index: 1, Description: "Hot Key F1"},
	}, triggers)
}

func TestDecodeActions_Empty(t *testing.T) {
	assert.Empty(t, DecodeActions(""))
	assert.Empty(t, DecodeTriggers("\n"))
}
