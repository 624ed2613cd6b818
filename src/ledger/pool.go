package ledger

import (
	"context"
	"fmt"
)

// Pool is a Ledger spreading calls over a fixed set of independent clients.
// Each call goes to a single client.
type Pool struct {
	clients  []Ledger
	selector Selector
}

// NewPool ...
func NewPool(clients []Ledger, selector Selector) (*Pool, error) {
	if len(clients) == 0 {
		return nil, fmt.Errorf("ledger pool needs at least one client")
	}
	return &Pool{
		clients:  clients,
		selector: selector,
	}, nil
}

// Size returns the number of clients.
func (p *Pool) Size() int {
	return len(p.clients)
}

func (p *Pool) next() Ledger {
	return p.clients[p.selector.Next()]
}

// CreateRecord implements the Ledger interface.
func (p *Pool) CreateRecord(ctx context.Context, tx *Transaction) (*Transaction, error) {
	return p.next().CreateRecord(ctx, tx)
}

// TransferRecord implements the Ledger interface.
func (p *Pool) TransferRecord(ctx context.Context, tx *Transaction) (*Transaction, error) {
	return p.next().TransferRecord(ctx, tx)
}

// RecordStatus implements the Ledger interface.
func (p *Pool) RecordStatus(ctx context.Context, id string) (Status, error) {
	return p.next().RecordStatus(ctx, id)
}

// EnclosingBlocks implements the Ledger interface.
func (p *Pool) EnclosingBlocks(ctx context.Context, id string) ([]Block, error) {
	return p.next().EnclosingBlocks(ctx, id)
}

// FetchRecord implements the Ledger interface.
func (p *Pool) FetchRecord(ctx context.Context, id string) (*Transaction, error) {
	return p.next().FetchRecord(ctx, id)
}
