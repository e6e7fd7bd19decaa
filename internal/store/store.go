// Package store is the record store: ordered collections of clients,
// projects, transactions and archives persisted with GORM.
package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/diewo77/go-gestion/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound is returned when deleting an id the collection does not hold.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique structured id is already taken.
	ErrDuplicate = errors.New("duplicate record")
)

// Collection is one ordered table of records of type T.
type Collection[T any] struct {
	db      *gorm.DB
	name    string
	orderBy string
	desc    bool
	fields  map[string]bool
}

func newCollection[T any](db *gorm.DB, name, orderBy string, desc bool, fields ...string) *Collection[T] {
	allowed := make(map[string]bool, len(fields))
	for _, f := range fields {
		allowed[f] = true
	}
	return &Collection[T]{db: db, name: name, orderBy: orderBy, desc: desc, fields: allowed}
}

// Name returns the collection name used in logs and errors.
func (c *Collection[T]) Name() string { return c.name }

// Insert persists rec and returns its store-assigned id. Validation runs in
// the model's BeforeCreate hook.
func (c *Collection[T]) Insert(ctx context.Context, rec *T) (string, error) {
	if err := c.db.WithContext(ctx).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("insert %s: %w", c.name, ErrDuplicate)
		}
		return "", fmt.Errorf("insert %s: %w", c.name, err)
	}
	return idOf(rec), nil
}

// DeleteByID removes the record with the given id.
func (c *Collection[T]) DeleteByID(ctx context.Context, id string) error {
	var zero T
	res := c.db.WithContext(ctx).Where("id = ?", id).Delete(&zero)
	if res.Error != nil {
		return fmt.Errorf("delete %s %s: %w", c.name, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete %s %s: %w", c.name, id, ErrNotFound)
	}
	return nil
}

// DeleteWhere removes every record whose field equals value and reports
// how many were removed. Only whitelisted reference fields are accepted.
func (c *Collection[T]) DeleteWhere(ctx context.Context, field string, value any) (int64, error) {
	if !c.fields[field] {
		return 0, fmt.Errorf("delete %s: field %q is not queryable", c.name, field)
	}
	var zero T
	res := c.db.WithContext(ctx).Where(clause.Eq{Column: clause.Column{Name: field}, Value: value}).Delete(&zero)
	if res.Error != nil {
		return 0, fmt.Errorf("delete %s where %s: %w", c.name, field, res.Error)
	}
	return res.RowsAffected, nil
}

// FetchAll returns every record ordered by the collection's timestamp.
func (c *Collection[T]) FetchAll(ctx context.Context) ([]T, error) {
	var out []T
	err := c.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: c.orderBy}, Desc: c.desc}).
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", c.name, err)
	}
	return out, nil
}

// Store bundles the four collections.
type Store struct {
	Clients      *Collection[models.Client]
	Projects     *Collection[models.Project]
	Transactions *Collection[models.Transaction]
	Archives     *Collection[models.Archive]
}

// New wires the collections on db. Clients, projects and transactions come
// back oldest first; archives newest first.
func New(db *gorm.DB) *Store {
	return &Store{
		Clients:      newCollection[models.Client](db, "clients", "created_at", false),
		Projects:     newCollection[models.Project](db, "projects", "created_at", false, "client_id"),
		Transactions: newCollection[models.Transaction](db, "transactions", "created_at", false, "project_id"),
		Archives:     newCollection[models.Archive](db, "archives", "archived_at", true, "project_id"),
	}
}

func idOf(rec any) string {
	v := reflect.Indirect(reflect.ValueOf(rec))
	if f := v.FieldByName("ID"); f.IsValid() && f.Kind() == reflect.String {
		return f.String()
	}
	return ""
}

// isUniqueViolation recognises duplicate-key errors from Postgres and
// SQLite. GORM only translates them when TranslateError is enabled, so the
// driver messages are checked as well.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "sqlstate 23505")
}
