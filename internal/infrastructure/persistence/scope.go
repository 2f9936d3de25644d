package persistence

import (
	"fmt"

	"gorm.io/gorm"
)

// ScopeState tracks where a transaction scope is in its lifecycle. No
// transition is legal once the scope is closed.
type ScopeState int

const (
	ScopeNotStarted ScopeState = iota
	ScopeActive
	ScopeCommitted
	ScopeRolledBack
	ScopeClosed
)

func (s ScopeState) String() string {
	switch s {
	case ScopeNotStarted:
		return "NOT_STARTED"
	case ScopeActive:
		return "ACTIVE"
	case ScopeCommitted:
		return "COMMITTED"
	case ScopeRolledBack:
		return "ROLLED_BACK"
	case ScopeClosed:
		return "CLOSED"
	default:
		return fmt.Sprintf("ScopeState(%d)", int(s))
	}
}

// Session is the unit-of-work handle available inside an open scope. It
// exposes the live entity registry and the transactional connection, plus
// write helpers that translate unique-key collisions into
// ErrConstraintViolation. A session must be used by exactly one flow of
// control between its scope's open and close.
type Session struct {
	tx     *gorm.DB
	models *Models
}

// Models returns the live entity registry, addressable by logical name.
func (s *Session) Models() *Models {
	return s.models
}

// DB returns the transactional connection for ad-hoc queries.
func (s *Session) DB() *gorm.DB {
	return s.tx
}

// Create inserts an entity instance.
func (s *Session) Create(value any) error {
	return TranslateError(s.tx.Create(value).Error)
}

// Save persists all fields of an entity instance.
func (s *Session) Save(value any) error {
	return TranslateError(s.tx.Save(value).Error)
}

// Delete removes an entity instance. Deleting a row that still owns
// children fails with ErrConstraintViolation.
func (s *Session) Delete(value any, conds ...any) error {
	return TranslateError(s.tx.Delete(value, conds...).Error)
}

// Find runs a query into dest.
func (s *Session) Find(dest any, conds ...any) error {
	return TranslateError(s.tx.Find(dest, conds...).Error)
}

// First fetches the first row matching conds into dest.
func (s *Session) First(dest any, conds ...any) error {
	return TranslateError(s.tx.First(dest, conds...).Error)
}

// Scope bounds a sequence of reads and writes in one all-or-nothing unit.
// Acquisition happens on entry, release on every exit path; commit or
// rollback is decided solely by whether the block exited via an error.
//
// Nested scopes are unsupported: opening a second scope inside an active
// one on the same connection is undefined behavior.
type Scope struct {
	db      *Database
	state   ScopeState
	tx      *gorm.DB
	session *Session
}

// State reports the scope's lifecycle state.
func (s *Scope) State() ScopeState {
	return s.state
}

// Begin acquires the underlying transaction and returns the live session.
func (s *Scope) Begin() (*Session, error) {
	if s.state != ScopeNotStarted {
		return nil, fmt.Errorf("%w: cannot begin scope in state %s", ErrTransaction, s.state)
	}

	tx := s.db.conn.Begin()
	if tx.Error != nil {
		s.state = ScopeClosed
		return nil, fmt.Errorf("%w: begin failed: %v", ErrTransaction, tx.Error)
	}

	s.tx = tx
	s.session = &Session{tx: tx, models: s.db.models}
	s.state = ScopeActive
	return s.session, nil
}

// Commit makes the scope's writes durable.
func (s *Scope) Commit() error {
	if s.state != ScopeActive {
		return fmt.Errorf("%w: cannot commit scope in state %s", ErrTransaction, s.state)
	}

	if err := s.tx.Commit().Error; err != nil {
		// A failed commit is treated as if the block had errored: attempt
		// rollback, surface the commit failure.
		_ = s.tx.Rollback()
		s.state = ScopeRolledBack
		return fmt.Errorf("%w: commit failed: %v", ErrTransaction, err)
	}

	s.state = ScopeCommitted
	return nil
}

// Rollback discards the scope's writes.
func (s *Scope) Rollback() error {
	if s.state != ScopeActive {
		return fmt.Errorf("%w: cannot rollback scope in state %s", ErrTransaction, s.state)
	}

	err := s.tx.Rollback().Error
	s.state = ScopeRolledBack
	if err != nil {
		return fmt.Errorf("%w: rollback failed: %v", ErrTransaction, err)
	}
	return nil
}

// Close releases the scope. A still-active scope is rolled back first.
// Closing is idempotent; the underlying resource is released exactly once.
func (s *Scope) Close() error {
	switch s.state {
	case ScopeClosed:
		return nil
	case ScopeActive:
		err := s.Rollback()
		s.state = ScopeClosed
		return err
	default:
		s.state = ScopeClosed
		return nil
	}
}

// Run executes fn inside the scope: begin, run, commit on a nil return,
// rollback on error or panic. The scope is closed on every exit path and
// cannot be reused afterwards.
func (s *Scope) Run(fn func(*Session) error) (err error) {
	session, err := s.Begin()
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			_ = s.Close()
			panic(r)
		}
		closeErr := s.Close()
		if err == nil {
			err = closeErr
		}
	}()

	if ferr := fn(session); ferr != nil {
		if rbErr := s.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (additionally: %w)", TranslateError(ferr), rbErr)
		}
		return TranslateError(ferr)
	}

	return s.Commit()
}
