// Package entity holds the catalog records shared by every resource package.
package entity

// Base carries the identity shared by every stored record.
type Base struct {
	ID int64 `json:"id"`
}

// Identity returns the address of the id so stores can assign it.
func (b *Base) Identity() *int64 {
	return &b.ID
}

// Record is satisfied by pointers to entities embedding Base.
type Record[T any] interface {
	*T
	Identity() *int64
}
