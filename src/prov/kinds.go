package prov

// Kind is the PROV type of a record.
type Kind string

// Node kinds
const (
	Entity   Kind = "entity"
	Activity Kind = "activity"
	Agent    Kind = "agent"
)

// Relation kinds
const (
	WasGeneratedBy    Kind = "wasGeneratedBy"
	Used              Kind = "used"
	WasInformedBy     Kind = "wasInformedBy"
	WasStartedBy      Kind = "wasStartedBy"
	WasEndedBy        Kind = "wasEndedBy"
	WasInvalidatedBy  Kind = "wasInvalidatedBy"
	WasDerivedFrom    Kind = "wasDerivedFrom"
	WasAttributedTo   Kind = "wasAttributedTo"
	WasAssociatedWith Kind = "wasAssociatedWith"
	ActedOnBehalfOf   Kind = "actedOnBehalfOf"
	WasInfluencedBy   Kind = "wasInfluencedBy"
	SpecializationOf  Kind = "specializationOf"
	AlternateOf       Kind = "alternateOf"
	HadMember         Kind = "hadMember"
)

// SlotType says what the value of a formal attribute points at.
type SlotType int

const (
	// NodeRef slots reference a node identifier.
	NodeRef SlotType = iota
	// RelationRef slots reference the identifier of another relation.
	RelationRef
	// TimeLiteral slots hold an xsd:dateTime.
	TimeLiteral
)

// Slot describes one formal attribute of a relation kind. For NodeRef slots,
// Implies is the node kind an undeclared reference is assumed to have; it is
// empty when any kind of node fits.
type Slot struct {
	Name    string
	Type    SlotType
	Implies Kind
}

var relationSlots = map[Kind][]Slot{
	WasGeneratedBy: {
		{"prov:entity", NodeRef, Entity},
		{"prov:activity", NodeRef, Activity},
		{"prov:time", TimeLiteral, ""},
	},
	Used: {
		{"prov:activity", NodeRef, Activity},
		{"prov:entity", NodeRef, Entity},
		{"prov:time", TimeLiteral, ""},
	},
	WasInformedBy: {
		{"prov:informed", NodeRef, Activity},
		{"prov:informant", NodeRef, Activity},
	},
	WasStartedBy: {
		{"prov:activity", NodeRef, Activity},
		{"prov:trigger", NodeRef, Entity},
		{"prov:starter", NodeRef, Activity},
		{"prov:time", TimeLiteral, ""},
	},
	WasEndedBy: {
		{"prov:activity", NodeRef, Activity},
		{"prov:trigger", NodeRef, Entity},
		{"prov:ender", NodeRef, Activity},
		{"prov:time", TimeLiteral, ""},
	},
	WasInvalidatedBy: {
		{"prov:entity", NodeRef, Entity},
		{"prov:activity", NodeRef, Activity},
		{"prov:time", TimeLiteral, ""},
	},
	WasDerivedFrom: {
		{"prov:generatedEntity", NodeRef, Entity},
		{"prov:usedEntity", NodeRef, Entity},
		{"prov:activity", NodeRef, Activity},
		{"prov:generation", RelationRef, ""},
		{"prov:usage", RelationRef, ""},
	},
	WasAttributedTo: {
		{"prov:entity", NodeRef, Entity},
		{"prov:agent", NodeRef, Agent},
	},
	WasAssociatedWith: {
		{"prov:activity", NodeRef, Activity},
		{"prov:agent", NodeRef, Agent},
		{"prov:plan", NodeRef, Entity},
	},
	ActedOnBehalfOf: {
		{"prov:delegate", NodeRef, Agent},
		{"prov:responsible", NodeRef, Agent},
		{"prov:activity", NodeRef, Activity},
	},
	WasInfluencedBy: {
		{"prov:influencee", NodeRef, ""},
		{"prov:influencer", NodeRef, ""},
	},
	SpecializationOf: {
		{"prov:specificEntity", NodeRef, Entity},
		{"prov:generalEntity", NodeRef, Entity},
	},
	AlternateOf: {
		{"prov:alternate1", NodeRef, Entity},
		{"prov:alternate2", NodeRef, Entity},
	},
	HadMember: {
		{"prov:collection", NodeRef, Entity},
		{"prov:entity", NodeRef, Entity},
	},
}

// node kinds in output order
var nodeKinds = []Kind{Entity, Activity, Agent}

// relation kinds in output order
var relationKinds = []Kind{
	WasGeneratedBy, Used, WasInformedBy, WasStartedBy, WasEndedBy,
	WasInvalidatedBy, WasDerivedFrom, WasAttributedTo, WasAssociatedWith,
	ActedOnBehalfOf, WasInfluencedBy, SpecializationOf, AlternateOf, HadMember,
}

// IsNode reports whether k is entity, activity or agent.
func (k Kind) IsNode() bool {
	return k == Entity || k == Activity || k == Agent
}

// IsRelation reports whether k is one of the supported relation kinds.
func (k Kind) IsRelation() bool {
	_, ok := relationSlots[k]
	return ok
}

// Slots returns the formal attributes of a relation kind, in positional
// order. It returns nil for node kinds.
func (k Kind) Slots() []Slot {
	return relationSlots[k]
}

// slot looks up a formal attribute by name.
func (k Kind) slot(name string) (Slot, bool) {
	for _, s := range relationSlots[k] {
		if s.Name == name {
			return s, true
		}
	}
	return Slot{}, false
}

func kindFromName(name string) (Kind, bool) {
	k := Kind(name)
	if k.IsNode() || k.IsRelation() {
		return k, true
	}
	return "", false
}
