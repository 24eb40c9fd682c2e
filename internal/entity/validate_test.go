package entity

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Author(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, Validate(Author{FirstName: "Ursula", LastName: "Le Guin"}))
	})

	t.Run("blank names", func(t *testing.T) {
		err := Validate(Author{FirstName: "   ", LastName: ""})
		verrs, ok := AsValidation(err)
		require.True(t, ok)
		require.Len(t, verrs, 2)
		assert.Equal(t, "firstName", verrs[0].Field)
		assert.Equal(t, "firstName is required", verrs[0].Message)
		assert.Equal(t, "lastName", verrs[1].Field)
	})
}

func TestValidate_Book(t *testing.T) {
	tests := []struct {
		name   string
		book   Book
		fields []string
	}{
		{name: "valid", book: Book{Title: "Dune", AuthorID: 1, Price: 9.99}},
		{name: "minimum price", book: Book{Title: "Dune", AuthorID: 1, Price: 0.01}},
		{name: "price below minimum", book: Book{Title: "Dune", AuthorID: 1, Price: 0}, fields: []string{"price"}},
		{name: "missing title and author", book: Book{Price: 1}, fields: []string{"title", "authorId"}},
		{name: "expanded author is not validated", book: Book{Title: "Dune", AuthorID: 1, Price: 1, Author: &Author{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.book)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			verrs, ok := AsValidation(err)
			require.True(t, ok)
			var got []string
			for _, v := range verrs {
				got = append(got, v.Field)
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}

func TestValidate_ReviewRating(t *testing.T) {
	for rating := 0; rating <= 6; rating++ {
		t.Run(fmt.Sprintf("rating %d", rating), func(t *testing.T) {
			err := Validate(Review{BookID: 1, Rating: rating})
			if rating >= 1 && rating <= 5 {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestAsValidation_Wrapped(t *testing.T) {
	err := fmt.Errorf("create author: %w", Invalid("id", "id is assigned by the server"))
	verrs, ok := AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "id", verrs[0].Field)

	_, ok = AsValidation(fmt.Errorf("boom"))
	assert.False(t, ok)
}
