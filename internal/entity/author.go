package entity

// Author writes books.
type Author struct {
	Base
	FirstName string `json:"firstName" validate:"notblank"`
	LastName  string `json:"lastName" validate:"notblank"`
	Biography string `json:"biography,omitempty"`
}

// FullName is the "first last" form used for book filtering and sorting.
func (a Author) FullName() string {
	return a.FirstName + " " + a.LastName
}
