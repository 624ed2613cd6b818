package concept

import (
	"context"
	"errors"
	"fmt"

	"github.com/mosaicnetworks/provledger/src/accounts"
	"github.com/mosaicnetworks/provledger/src/decompose"
	"github.com/mosaicnetworks/provledger/src/ledger"
	"github.com/mosaicnetworks/provledger/src/prov"
	"github.com/mosaicnetworks/provledger/src/writer"
	"github.com/sirupsen/logrus"
)

// Account is the ledger identity through which a concept writes records.
type Account interface {
	ID() string
	PublicKey() string

	// RecordID is the latest record of the account, empty until its instance
	// record has been written.
	RecordID() string

	// SaveInstance writes the instance record of the account.
	SaveInstance(ctx context.Context) (*InstanceRecord, error)

	// SaveRelations writes the relation records owned by the account. Ids of
	// identified relations are added to ids as they are written. peers gives
	// the accounts of the other nodes of the document.
	SaveRelations(ctx context.Context, ids *decompose.IDMapping, peers Directory) ([]RelationRecord, []Failure, error)
}

// Directory indexes accounts by node id.
type Directory map[string]Account

// base holds what every account needs to write records.
type base struct {
	account  *accounts.Account
	registry *accounts.Registry
	writer   *writer.Writer
	metadata map[string]string
	logger   *logrus.Entry
}

func (b *base) ID() string {
	return b.account.NodeID
}

func (b *base) PublicKey() string {
	return b.account.PublicKey
}

func (b *base) RecordID() string {
	return b.account.RecordID
}

// publishInstance writes payload, transfers it to recipient and makes it the
// latest record of the account.
func (b *base) publishInstance(ctx context.Context, recipient string, payload ledger.Payload) (*InstanceRecord, error) {
	meta := b.meta(nil)

	pub, err := b.writer.CreateAndPublish(ctx, b.account, recipient, payload, meta)
	if err != nil {
		return nil, fmt.Errorf("writing instance of %s: %w", b.account.NodeID, err)
	}

	if err := b.registry.WriteRecordID(ctx, b.account.NodeID, pub.TransferID); err != nil {
		return nil, err
	}
	b.account.RecordID = pub.TransferID

	b.logger.WithFields(logrus.Fields{
		"node_id":   b.account.NodeID,
		"record_id": pub.TransferID,
	}).Info("Saved instance")

	return &InstanceRecord{
		NodeID:     b.account.NodeID,
		CreateID:   pub.CreateID,
		TransferID: pub.TransferID,
	}, nil
}

func (b *base) meta(extra map[string]string) map[string]string {
	m := make(map[string]string, len(b.metadata)+len(extra)+1)
	for k, v := range b.metadata {
		m[k] = v
	}
	for k, v := range extra {
		m[k] = v
	}
	m["account_id"] = b.account.NodeID
	return m
}

// documentAccount owns a whole document as a single record.
type documentAccount struct {
	base
	doc *prov.Document
}

func newDocumentAccount(b base, doc *prov.Document) *documentAccount {
	return &documentAccount{base: b, doc: doc}
}

// SaveInstance always writes the document, even when the account already
// holds an earlier one.
func (a *documentAccount) SaveInstance(ctx context.Context) (*InstanceRecord, error) {
	data, err := a.doc.JSON()
	if err != nil {
		return nil, err
	}
	return a.publishInstance(ctx, a.account.PublicKey, ledger.Payload{Prov: string(data)})
}

// SaveRelations does nothing: relations are part of the document record.
func (a *documentAccount) SaveRelations(ctx context.Context, ids *decompose.IDMapping, peers Directory) ([]RelationRecord, []Failure, error) {
	return nil, nil, nil
}

// nodeAccount is the account of one node of a decomposed document. Its
// instance record is transferred to owner: the node itself with the graph
// concept, the responsible agent with the role concept.
type nodeAccount struct {
	base
	part   *decompose.Partition
	owner  string
	policy FailurePolicy
}

func newNodeAccount(b base, part *decompose.Partition, owner string, policy FailurePolicy) *nodeAccount {
	if owner == "" {
		owner = b.account.PublicKey
	}
	return &nodeAccount{
		base:   b,
		part:   part,
		owner:  owner,
		policy: policy,
	}
}

// SaveInstance writes the node record unless the account already has one,
// in which case the returned InstanceRecord is marked Skipped.
func (a *nodeAccount) SaveInstance(ctx context.Context) (*InstanceRecord, error) {
	if a.account.Ready() {
		a.logger.WithField("node_id", a.account.NodeID).Debug("Instance already saved")
		return &InstanceRecord{
			NodeID:     a.account.NodeID,
			TransferID: a.account.RecordID,
			Skipped:    true,
		}, nil
	}

	doc, err := a.partDocument(a.part.Node)
	if err != nil {
		return nil, err
	}
	data, err := doc.JSON()
	if err != nil {
		return nil, err
	}

	return a.publishInstance(ctx, a.owner, ledger.Payload{Prov: string(data)})
}

// SaveRelations writes one record per relation of the node, identified
// relations first. Each record is transferred to the target node of the
// relation, or kept by the account when there is none.
func (a *nodeAccount) SaveRelations(ctx context.Context, ids *decompose.IDMapping, peers Directory) ([]RelationRecord, []Failure, error) {
	if !a.account.Ready() {
		return nil, nil, &AccountNotReadyError{NodeID: a.account.NodeID}
	}

	var (
		written  []RelationRecord
		failures []Failure
	)

	for _, r := range a.part.Relations() {
		if err := ctx.Err(); err != nil {
			return written, failures, err
		}

		rec, err := a.saveRelation(ctx, r, ids, peers)
		if err != nil {
			f := Failure{
				RelationID: r.ID,
				Kind:       string(r.Kind),
				Source:     a.account.NodeID,
				Error:      err.Error(),
			}
			var te *writer.TransferError
			if errors.As(err, &te) {
				f.CreateID = te.CreateID
			}
			failures = append(failures, f)

			a.logger.WithFields(logrus.Fields{
				"node_id":  a.account.NodeID,
				"relation": r.ID,
				"kind":     r.Kind,
				"error":    err,
			}).Warn("Failed to save relation")

			if a.policy == Abort {
				return written, failures, err
			}
			continue
		}
		written = append(written, *rec)
	}

	return written, failures, nil
}

func (a *nodeAccount) saveRelation(ctx context.Context, r *prov.Record, ids *decompose.IDMapping, peers Directory) (*RelationRecord, error) {
	target := r.Target()
	recipient := a.account.PublicKey
	if target != "" {
		peer, ok := peers[target]
		if !ok {
			return nil, fmt.Errorf("no account for target %s", target)
		}
		recipient = peer.PublicKey()
	}

	doc, err := a.partDocument(r)
	if err != nil {
		return nil, err
	}
	data, err := doc.JSON()
	if err != nil {
		return nil, err
	}

	payload := ledger.Payload{
		Prov: string(data),
		Map:  a.references(r, ids, peers),
	}

	pub, err := a.writer.CreateAndPublish(ctx, a.account, recipient, payload, a.meta(map[string]string{
		"relation": string(r.Kind),
	}))
	if err != nil {
		return nil, err
	}

	if r.Identified() {
		if err := ids.Set(r.ID, pub.TransferID); err != nil {
			return nil, err
		}
	}

	a.logger.WithFields(logrus.Fields{
		"node_id":   a.account.NodeID,
		"relation":  r.ID,
		"kind":      r.Kind,
		"target":    target,
		"record_id": pub.TransferID,
	}).Info("Saved relation")

	return &RelationRecord{
		RelationID: r.ID,
		Kind:       string(r.Kind),
		Source:     a.account.NodeID,
		Target:     target,
		CreateID:   pub.CreateID,
		TransferID: pub.TransferID,
	}, nil
}

// references maps the identifiers a relation refers to onto record ids:
// nodes to the latest record of their account, relations to the record they
// were written under. Identifiers with no record yet are left out.
func (a *nodeAccount) references(r *prov.Record, ids *decompose.IDMapping, peers Directory) map[string]string {
	m := make(map[string]string)

	for _, ref := range r.NodeRefs() {
		if peer, ok := peers[ref.ID]; ok && peer.RecordID() != "" {
			m[ref.ID] = peer.RecordID()
		}
	}

	for _, ref := range r.RelationRefs() {
		rec, res := ids.Resolve(ref.ID)
		if res == decompose.Resolved {
			m[ref.ID] = rec
			continue
		}
		a.logger.WithFields(logrus.Fields{
			"relation":   r.ID,
			"reference":  ref.ID,
			"resolution": res,
		}).Debug("Reference not resolved")
	}

	if len(m) == 0 {
		return nil
	}
	return m
}

func (a *nodeAccount) partDocument(r *prov.Record) (*prov.Document, error) {
	doc := prov.NewDocument()
	for _, ns := range a.part.Namespaces {
		if err := doc.AddNamespace(ns.Prefix, ns.URI); err != nil {
			return nil, err
		}
	}
	doc.AddRecord(r)
	return doc, nil
}
