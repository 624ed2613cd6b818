package concept

// InstanceRecord is the record of a node, or of the whole document with the
// document concept. Skipped instances were written by an earlier save and
// only carry the latest record id of their account.
type InstanceRecord struct {
	NodeID     string `json:"node_id" yaml:"node_id"`
	CreateID   string `json:"create_id,omitempty" yaml:"create_id,omitempty"`
	TransferID string `json:"transfer_id" yaml:"transfer_id"`
	Skipped    bool   `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// RelationRecord is the record of a relation.
type RelationRecord struct {
	RelationID string `json:"relation_id,omitempty" yaml:"relation_id,omitempty"`
	Kind       string `json:"kind" yaml:"kind"`
	Source     string `json:"source" yaml:"source"`
	Target     string `json:"target,omitempty" yaml:"target,omitempty"`
	CreateID   string `json:"create_id" yaml:"create_id"`
	TransferID string `json:"transfer_id" yaml:"transfer_id"`
}

// Failure is a relation that could not be written. CreateID is set when the
// record was created but not transferred.
type Failure struct {
	RelationID string `json:"relation_id,omitempty" yaml:"relation_id,omitempty"`
	Kind       string `json:"kind" yaml:"kind"`
	Source     string `json:"source" yaml:"source"`
	CreateID   string `json:"create_id,omitempty" yaml:"create_id,omitempty"`
	Error      string `json:"error" yaml:"error"`
}

// SaveReport describes the records written by a save, in write order.
type SaveReport struct {
	SaveID    string           `json:"save_id" yaml:"save_id"`
	Concept   Concept          `json:"concept" yaml:"concept"`
	Instances []InstanceRecord `json:"instances" yaml:"instances"`
	Relations []RelationRecord `json:"relations" yaml:"relations"`
	Failures  []Failure        `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// RecordIDs returns the latest record id of every instance and relation, in
// write order. They are the ids to pass to GetDocument.
func (r *SaveReport) RecordIDs() []string {
	ids := make([]string, 0, len(r.Instances)+len(r.Relations))
	for _, i := range r.Instances {
		ids = append(ids, i.TransferID)
	}
	for _, rel := range r.Relations {
		ids = append(ids, rel.TransferID)
	}
	return ids
}

// Partial reports whether some relations failed.
func (r *SaveReport) Partial() bool {
	return len(r.Failures) > 0
}
