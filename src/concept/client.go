package concept

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mosaicnetworks/provledger/src/accounts"
	"github.com/mosaicnetworks/provledger/src/assemble"
	"github.com/mosaicnetworks/provledger/src/decompose"
	"github.com/mosaicnetworks/provledger/src/prov"
	"github.com/mosaicnetworks/provledger/src/writer"
	"github.com/sirupsen/logrus"
)

// Client saves provenance documents to a ledger and reads them back.
type Client struct {
	registry  *accounts.Registry
	writer    *writer.Writer
	assembler *assemble.Assembler
	opts      Options
	logger    *logrus.Entry
}

// NewClient ...
func NewClient(registry *accounts.Registry,
	w *writer.Writer,
	asm *assemble.Assembler,
	opts Options,
	logger *logrus.Entry) *Client {

	if opts.Concept == "" {
		opts.Concept = GraphConcept
	}
	if opts.FailurePolicy == "" {
		opts.FailurePolicy = Continue
	}

	return &Client{
		registry:  registry,
		writer:    w,
		assembler: asm,
		opts:      opts,
		logger:    logger,
	}
}

// Options returns the options of the client.
func (c *Client) Options() Options {
	return c.opts
}

// SaveDocument writes doc to the ledger. Every account is created before the
// first ledger call, then every instance record is written before the first
// relation record. Failed relation writes are listed in the report; with
// the Abort policy the first one also ends the save and is returned along
// with the partial report.
func (c *Client) SaveDocument(ctx context.Context, doc *prov.Document) (*SaveReport, error) {
	report := &SaveReport{
		SaveID:  uuid.New().String(),
		Concept: c.opts.Concept,
	}

	logger := c.logger.WithFields(logrus.Fields{
		"save_id": report.SaveID,
		"concept": c.opts.Concept,
	})
	logger.Info("Saving document")

	var err error
	switch c.opts.Concept {
	case DocumentConcept:
		err = c.saveDocument(ctx, doc, report, logger)
	case GraphConcept:
		err = c.saveGraph(ctx, doc, decompose.GraphMode, report, logger)
	case RoleConcept:
		err = c.saveGraph(ctx, doc, decompose.RoleMode, report, logger)
	default:
		err = fmt.Errorf("unknown concept %q", c.opts.Concept)
	}
	if err != nil {
		return report, err
	}

	logger.WithFields(logrus.Fields{
		"instances": len(report.Instances),
		"relations": len(report.Relations),
		"failures":  len(report.Failures),
	}).Info("Document saved")

	return report, nil
}

func (c *Client) saveDocument(ctx context.Context, doc *prov.Document, report *SaveReport, logger *logrus.Entry) error {
	if c.opts.DocumentAccountID == "" {
		return fmt.Errorf("no document account configured")
	}

	acc, err := c.registry.GetOrCreate(ctx, c.opts.DocumentAccountID)
	if err != nil {
		return err
	}

	a := newDocumentAccount(c.base(acc, logger), doc)
	rec, err := a.SaveInstance(ctx)
	if err != nil {
		return err
	}
	report.Instances = append(report.Instances, *rec)
	return nil
}

func (c *Client) saveGraph(ctx context.Context, doc *prov.Document, mode decompose.Mode, report *SaveReport, logger *logrus.Entry) error {
	d, err := decompose.Decompose(doc, mode)
	if err != nil {
		return err
	}

	loaded := make(map[string]*accounts.Account, len(d.Partitions))
	for _, p := range d.Partitions {
		acc, err := c.registry.GetOrCreate(ctx, p.Node.ID)
		if err != nil {
			return err
		}
		loaded[p.Node.ID] = acc
	}

	order := make([]*nodeAccount, 0, len(d.Partitions))
	peers := make(Directory, len(d.Partitions))
	for _, p := range d.Partitions {
		owner := ""
		if mode == decompose.RoleMode && p.Agent != "" {
			owner = loaded[p.Agent].PublicKey
		}
		a := newNodeAccount(c.base(loaded[p.Node.ID], logger), p, owner, c.opts.FailurePolicy)
		order = append(order, a)
		peers[p.Node.ID] = a
	}

	for _, a := range order {
		rec, err := a.SaveInstance(ctx)
		if err != nil {
			return err
		}
		report.Instances = append(report.Instances, *rec)
	}

	for _, a := range order {
		written, failures, err := a.SaveRelations(ctx, d.IDs, peers)
		report.Relations = append(report.Relations, written...)
		report.Failures = append(report.Failures, failures...)
		if err != nil {
			return err
		}
	}

	return nil
}

func (c *Client) base(acc *accounts.Account, logger *logrus.Entry) base {
	return base{
		account:  acc,
		registry: c.registry,
		writer:   c.writer,
		metadata: c.opts.Metadata,
		logger:   logger,
	}
}

// GetDocument assembles the records in ids into one document.
func (c *Client) GetDocument(ctx context.Context, ids []string) (*prov.Document, error) {
	return c.assembler.Assemble(ctx, ids)
}
