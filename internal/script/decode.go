package script

import (
	"strconv"
	"strings"

	"github.com/macrokit/maestro/pkg/domain"
)

// DecodeRecords splits a raw listing result into records and fields.
// A whitespace-only raw result decodes to nil, never to a single empty
// record. The listing commands terminate every record with the record
// separator, so the trailing empty chunk is dropped. Missing fields stay
// missing; readers treat them as empty strings rather than errors, since
// the engine may omit optional properties.
//
// trim applies per-field whitespace trimming and is used only where the
// producing command's output is safe to trim (group listings); macro
// names are never trimmed.
func DecodeRecords(raw string, trim bool) [][]string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var records [][]string
	for _, rec := range strings.Split(raw, RecordSeparator) {
		if strings.TrimSpace(rec) == "" {
			continue
		}
		fields := strings.Split(rec, FieldSeparator)
		if trim {
			for i := range fields {
				fields[i] = strings.TrimSpace(fields[i])
			}
		}
		records = append(records, fields)
	}
	return records
}

// field returns the i-th field of a record, or "" when absent.
func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return rec[i]
}

// DecodeMacros decodes the ListMacros / SearchMacros result shape:
// name, uid, enabled, group.
func DecodeMacros(raw string) []domain.MacroRecord {
	var out []domain.MacroRecord
	for _, rec := range DecodeRecords(raw, false) {
		out = append(out, macroFromRecord(rec))
	}
	return out
}

// DecodeMacro decodes the single-record GetMacro result shape:
// name, uid, enabled.
func DecodeMacro(raw string) (domain.MacroRecord, error) {
	records := DecodeRecords(raw, false)
	if len(records) == 0 {
		return domain.MacroRecord{}, domain.ErrNotFound
	}
	return macroFromRecord(records[0]), nil
}

func macroFromRecord(rec []string) domain.MacroRecord {
	return domain.MacroRecord{
		Name:    field(rec, 0),
		UID:     field(rec, 1),
		Enabled: field(rec, 2) == "true",
		Group:   field(rec, 3),
	}
}

// DecodeGroups decodes the ListGroups result shape: name, uid, count.
// Fields are trimmed and records with an empty name are filtered out;
// the engine reports placeholder groups with blank names.
func DecodeGroups(raw string) []domain.GroupRecord {
	var out []domain.GroupRecord
	for _, rec := range DecodeRecords(raw, true) {
		name := field(rec, 0)
		if name == "" {
			continue
		}
		out = append(out, domain.GroupRecord{
			Name:       name,
			UID:        field(rec, 1),
			MacroCount: parseCount(field(rec, 2)),
		})
	}
	return out
}

// DecodeActions decodes a flat list of action names into indexed
// records. Indices are 1-based and valid only until the macro mutates.
func DecodeActions(raw string) []domain.ActionRecord {
	var out []domain.ActionRecord
	for i, rec := range DecodeRecords(raw, false) {
		out = append(out, domain.ActionRecord{Index: i + 1, Name: field(rec, 0)})
	}
	return out
}

// DecodeTriggers decodes a flat list of trigger descriptions into
// indexed records.
func DecodeTriggers(raw string) []domain.TriggerRecord {
	var out []domain.TriggerRecord
	for i, rec := range DecodeRecords(raw, false) {
		out = append(out, domain.TriggerRecord{Index: i + 1, Description: field(rec, 0)})
	}
	return out
}

// parseCount is permissive: non-numeric counts decode to zero instead of
// failing the whole listing.
func parseCount(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
