package ledger

import (
	"fmt"
	"strings"
)

// CreateCategory registers a new aid campaign and returns its record. IDs are
// assigned sequentially starting at 1 and are never reused.
func (l *Ledger) CreateCategory(caller Address, name string) (Record, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Record{}, fmt.Errorf("%w: category name is required", ErrInvalidArgument)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.isAdmin(caller) {
		return Record{}, fmt.Errorf("%w: only admins create categories", ErrUnauthorized)
	}

	id := l.nextCategoryID
	l.nextCategoryID++
	l.categories[id] = &Category{ID: id, Name: name}

	return Record{
		Kind:       RecordCategoryCreated,
		At:         l.now(),
		CategoryID: id,
		Name:       name,
	}, nil
}
