package domain

// MacroRecord is one macro as reported by the engine.
type MacroRecord struct {
	Name    string `json:"name"`
	UID     string `json:"uid"`
	Enabled bool   `json:"enabled"`
	Group   string `json:"group,omitempty"`
}

// GroupRecord is one macro group as reported by the engine.
type GroupRecord struct {
	Name       string `json:"name"`
	UID        string `json:"uid"`
	MacroCount int    `json:"macro_count"`
}

// ActionRecord is one action of a macro, addressed by a 1-based index.
// The index is an ephemeral cursor: any add, delete or move on the same
// macro invalidates every previously observed index.
type ActionRecord struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// TriggerRecord is one trigger of a macro. Indices carry the same
// non-identity caveat as ActionRecord.
type TriggerRecord struct {
	Index       int    `json:"index"`
	Description string `json:"description"`
}
