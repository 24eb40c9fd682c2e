package merge

import (
	"testing"
	"time"

	"bookseller/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	Title   string
	Stars   int
	Owner   int64
	Created time.Time
}

type noteInput struct {
	Title   *string
	Stars   *int
	Owner   *int64
	Created *time.Time
}

var noteFields = []Field[note, noteInput]{
	Value("title", Mutable, func(in noteInput) *string { return in.Title }, func(n *note) *string { return &n.Title }),
	Value("stars", Mutable, func(in noteInput) *int { return in.Stars }, func(n *note) *int { return &n.Stars }),
	Value("owner", Immutable, func(in noteInput) *int64 { return in.Owner }, func(n *note) *int64 { return &n.Owner }),
	Func("created", Computed, func(in noteInput) *time.Time { return in.Created }, func(n *note) *time.Time { return &n.Created }, time.Time.Equal),
}

func ptr[V any](v V) *V { return &v }

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	verrs, ok := entity.AsValidation(err)
	require.True(t, ok, "expected validation error, got %v", err)
	var names []string
	for _, v := range verrs {
		names = append(names, v.Field)
	}
	return names
}

func TestCreate(t *testing.T) {
	t.Run("applies sent fields", func(t *testing.T) {
		got, err := Create(noteFields, noteInput{Title: ptr("hello"), Owner: ptr(int64(9))})
		require.NoError(t, err)
		assert.Equal(t, note{Title: "hello", Owner: 9}, got)
	})

	t.Run("rejects computed field", func(t *testing.T) {
		_, err := Create(noteFields, noteInput{Title: ptr("hello"), Created: ptr(time.Now())})
		assert.Equal(t, []string{"created"}, fieldNames(t, err))
	})
}

func TestUpdate(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	current := note{Title: "old", Stars: 3, Owner: 1, Created: created}

	t.Run("unsent fields keep stored values", func(t *testing.T) {
		got, err := Update(noteFields, current, noteInput{Stars: ptr(5)})
		require.NoError(t, err)
		assert.Equal(t, note{Title: "old", Stars: 5, Owner: 1, Created: created}, got)
	})

	t.Run("zero values can be set explicitly", func(t *testing.T) {
		got, err := Update(noteFields, current, noteInput{Title: ptr(""), Stars: ptr(0)})
		require.NoError(t, err)
		assert.Equal(t, "", got.Title)
		assert.Equal(t, 0, got.Stars)
	})

	t.Run("same immutable value is accepted", func(t *testing.T) {
		got, err := Update(noteFields, current, noteInput{Owner: ptr(int64(1)), Created: ptr(created.In(time.Local))})
		require.NoError(t, err)
		assert.Equal(t, current, got)
	})

	t.Run("changed immutable and computed fields are rejected", func(t *testing.T) {
		got, err := Update(noteFields, current, noteInput{
			Title:   ptr("new"),
			Owner:   ptr(int64(2)),
			Created: ptr(created.Add(time.Hour)),
		})
		assert.Equal(t, []string{"owner", "created"}, fieldNames(t, err))
		assert.Equal(t, current, got)
	})
}
