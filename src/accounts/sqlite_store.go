package accounts

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

const accountsSchema = `
CREATE TABLE IF NOT EXISTS accounts (
	account_id  TEXT PRIMARY KEY,
	public_key  TEXT NOT NULL,
	private_key TEXT NOT NULL,
	record_id   TEXT NOT NULL DEFAULT ''
)`

// SQLiteStore persists accounts in a SQLite table keyed by node id. The
// primary key enforces one account per node.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(accountsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// GetAccount implements the Store interface.
func (s *SQLiteStore) GetAccount(nodeID string) (Lookup, error) {
	a := &Account{NodeID: nodeID}
	err := s.db.QueryRow(
		`SELECT public_key, private_key, record_id FROM accounts WHERE account_id = ?`,
		nodeID,
	).Scan(&a.PublicKey, &a.PrivateKey, &a.RecordID)

	if errors.Is(err, sql.ErrNoRows) {
		return NotFound(), nil
	}
	if err != nil {
		return NotFound(), fmt.Errorf("failed to query account %s: %w", nodeID, err)
	}
	return Found(a), nil
}

// PutAccount implements the Store interface.
func (s *SQLiteStore) PutAccount(nodeID, publicKey, privateKey string) error {
	_, err := s.db.Exec(
		`INSERT INTO accounts (account_id, public_key, private_key) VALUES (?, ?, ?)`,
		nodeID, publicKey, privateKey,
	)
	if isConstraintViolation(err) {
		return duplicateErr(nodeID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert account %s: %w", nodeID, err)
	}
	return nil
}

// UpdateRecordID implements the Store interface.
func (s *SQLiteStore) UpdateRecordID(nodeID, recordID string) error {
	res, err := s.db.Exec(
		`UPDATE accounts SET record_id = ? WHERE account_id = ?`,
		recordID, nodeID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", nodeID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFoundErr(nodeID)
	}
	return nil
}

// Clear implements the Store interface.
func (s *SQLiteStore) Clear() error {
	_, err := s.db.Exec(`DELETE FROM accounts`)
	return err
}

// Close implements the Store interface.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func isConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}
