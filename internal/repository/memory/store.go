// Package memory is an in-process implementation of the repositories used by
// tests and by the server when STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"sync"

	"noteshare/internal/domain/models"
	docmodels "noteshare/internal/domain/models/docsystem"
	"noteshare/internal/domain/repositories"
)

type collabKey struct {
	documentID int64
	userID     int64
}

// Store holds every table. Transactions are serialized: ExecTx holds txMu for
// the whole unit of work and restores a snapshot when fn fails.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	users   map[int64]models.User
	docs    map[int64]docmodels.Document
	collabs map[collabKey]docmodels.Collaborator

	nextUserID int64
	nextDocID  int64
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:   make(map[int64]models.User),
		docs:    make(map[int64]docmodels.Document),
		collabs: make(map[collabKey]docmodels.Collaborator),
	}
}

type snapshot struct {
	users      map[int64]models.User
	docs       map[int64]docmodels.Document
	collabs    map[collabKey]docmodels.Collaborator
	nextUserID int64
	nextDocID  int64
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot{
		users:      make(map[int64]models.User, len(s.users)),
		docs:       make(map[int64]docmodels.Document, len(s.docs)),
		collabs:    make(map[collabKey]docmodels.Collaborator, len(s.collabs)),
		nextUserID: s.nextUserID,
		nextDocID:  s.nextDocID,
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	for k, v := range s.docs {
		snap.docs[k] = v
	}
	for k, v := range s.collabs {
		snap.collabs[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = snap.users
	s.docs = snap.docs
	s.collabs = snap.collabs
	s.nextUserID = snap.nextUserID
	s.nextDocID = snap.nextDocID
}

type txKey struct{}

// TransactionManager runs units of work against a Store
type TransactionManager struct {
	store *Store
}

// NewTransactionManager creates a transaction manager for store
func NewTransactionManager(store *Store) repositories.TransactionManager {
	return &TransactionManager{store: store}
}

// ExecTx runs fn with exclusive access to the store. Nested calls join the
// outer unit of work. Changes made by fn are discarded if it returns an error.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tm.store.txMu.Lock()
	defer tm.store.txMu.Unlock()

	snap := tm.store.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		tm.store.restore(snap)
		return err
	}
	return nil
}
