package domain

// IdentifierKind selects how an Identifier is matched against engine
// entities.
type IdentifierKind int

const (
	// MatchNameOrID tries a name match first and falls back to the unique
	// id, in a single combined predicate. This is what the public
	// operations use: callers pass one string and never learn which
	// matched.
	MatchNameOrID IdentifierKind = iota
	// MatchName matches the (non-unique) human-readable name only.
	MatchName
	// MatchID matches the opaque unique id only.
	MatchID
)

// Identifier addresses a macro or group either by name or by id. Names
// are never guaranteed unique; only the id is.
type Identifier struct {
	kind  IdentifierKind
	value string
}

// ByNameOrID builds the default identifier used at the public boundary.
func ByNameOrID(v string) Identifier {
	return Identifier{kind: MatchNameOrID, value: v}
}

// ByName builds an identifier that resolves by name only.
func ByName(v string) Identifier {
	return Identifier{kind: MatchName, value: v}
}

// ByID builds an identifier that resolves by unique id only.
func ByID(v string) Identifier {
	return Identifier{kind: MatchID, value: v}
}

// Kind reports how this identifier is matched.
func (i Identifier) Kind() IdentifierKind { return i.kind }

// Value returns the raw caller-supplied string.
func (i Identifier) Value() string { return i.value }

// IsZero reports whether the identifier carries no value.
func (i Identifier) IsZero() bool { return i.value == "" }
