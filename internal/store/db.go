package store

import (
	"database/sql"
	"errors"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Sentinel errors returned by the data layer. Handlers and the checkout
// workflow translate these into response kinds.
var (
	ErrNotFound = errors.New("store: not found")
	// ErrEmptyCart means checkout was attempted against an absent or
	// zero-item cart. Expected precondition failure, not a fault.
	ErrEmptyCart = errors.New("store: cart is empty")
	// ErrUnknownTransaction means a gateway callback carried a tran_id that
	// matches no order.
	ErrUnknownTransaction = errors.New("store: unknown transaction id")
	ErrDuplicateEmail     = errors.New("store: email already in use")
)

type Store struct {
	DB *sql.DB
}

func NewStore(dataSourceName string) (*Store, error) {
	// Foreign keys are off by default in SQLite; cart/order referential
	// integrity depends on them.
	sep := "?"
	if strings.Contains(dataSourceName, "?") {
		sep = "&"
	}
	dsn := dataSourceName + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &Store{DB: db}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}
