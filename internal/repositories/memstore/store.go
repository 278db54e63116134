// Package memstore - хранилище в памяти процесса с теми же интерфейсами,
// что и репозитории PostgreSQL. Используется в dev-режиме (STORE_DRIVER=memory) и в тестах.
//
// Изоляции нет: записи незавершённой транзакции сразу видны читателям вне неё
// (в PostgreSQL это READ COMMITTED, и такие записи не видны до COMMIT).
// Откат восстанавливает снимок, сделанный в начале транзакции. Писатели вне
// транзакции ждут её завершения на txMu.
package memstore

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"office-docflow/internal/entities"
	"office-docflow/internal/repositories"
)

// memTx - маркер "мы внутри транзакции". Методы pgx.Tx у него не вызываются.
type memTx struct {
	pgx.Tx
}

type tables struct {
	seq          map[string]uint64
	branches     map[entities.Branch]entities.BranchInfo
	letters      []entities.Letter
	inquiries    []entities.Inquiry
	proposals    []entities.Proposal
	procurements []entities.Procurement
	invoices     []entities.Invoice
	controls     []entities.Control
	assets       []entities.Asset
}

func (t *tables) clone() tables {
	return tables{
		seq:          maps.Clone(t.seq),
		branches:     maps.Clone(t.branches),
		letters:      slices.Clone(t.letters),
		inquiries:    slices.Clone(t.inquiries),
		proposals:    slices.Clone(t.proposals),
		procurements: slices.Clone(t.procurements),
		invoices:     slices.Clone(t.invoices),
		controls:     slices.Clone(t.controls),
		assets:       slices.Clone(t.assets),
	}
}

// Store держит все коллекции под одним RWMutex.
// txMu сериализует пишущие операции: транзакция откатывается восстановлением снимка,
// поэтому параллельная запись вне транзакции не должна в неё вклиниться.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	now  func() time.Time
	data tables
}

func New() *Store {
	return &Store{
		now: func() time.Time { return time.Now().UTC() },
		data: tables{
			seq:      map[string]uint64{},
			branches: map[entities.Branch]entities.BranchInfo{},
		},
	}
}

// Registry собирает репозитории поверх этого хранилища.
func (s *Store) Registry() *repositories.Registry {
	return &repositories.Registry{
		Tx:           s,
		Branches:     &branchRepo{s},
		Letters:      &letterRepo{s},
		Inquiries:    &inquiryRepo{s},
		Proposals:    &proposalRepo{s},
		Procurements: &procurementRepo{s},
		Invoices:     &invoiceRepo{s},
		Controls:     &controlRepo{s},
		Assets:       &assetRepo{s},
	}
}

// RunInTransaction - при ошибке или панике состояние возвращается к снимку.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	defer func() {
		if p := recover(); p != nil {
			s.restore(snapshot)
			panic(p)
		}
	}()

	if err = fn(&memTx{}); err != nil {
		s.restore(snapshot)
	}
	return err
}

func (s *Store) restore(snapshot tables) {
	s.mu.Lock()
	s.data = snapshot
	s.mu.Unlock()
}

// write выполняет изменение. Вне транзакции сам берёт txMu.
func (s *Store) write(tx pgx.Tx, fn func(t *tables) error) error {
	if tx == nil {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.data)
}

func (s *Store) read(fn func(t *tables)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.data)
}

func (t *tables) nextID(collection string) uint64 {
	t.seq[collection]++
	return t.seq[collection]
}
