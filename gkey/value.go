package gkey

// Value is the opaque payload a node entry carries once it is Done. The
// focuser only ever inspects it through a type switch for the
// ActionLookupValue variant; everything else is carried without
// interpretation.
type Value interface{}

// Action describes one action recorded by an ActionLookupValue: a single
// step of the evaluation engine that produced one or more outputs.
type Action struct {
	// Outputs lists the exec-rooted output paths this action produced.
	Outputs []string
}

// ActionLookupValue is the Value variant the focuser must recognize during
// sweep: when a node carrying one is deleted, every action's outputs are
// evicted from the action cache (if one was supplied).
type ActionLookupValue struct {
	Actions []Action
}

// NestedArtifactSet is a Value variant a KindNestedArtifactSet key may
// carry, giving the default expander something to expand without a custom
// hook. Callers with a different representation should supply their own
// WithNestedArtifactExpander option instead of relying on this type.
type NestedArtifactSet struct {
	Artifacts []Key
}
