package crud_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bookseller/internal/author"
	"bookseller/internal/crud"
	"bookseller/internal/entity"
	"bookseller/internal/paging"
	"bookseller/internal/query"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Find(ctx context.Context, id int64) (entity.Author, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.Author), args.Error(1)
}

func (m *mockStore) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) Select(spec query.Spec[entity.Author]) paging.Source[entity.Author] {
	args := m.Called(spec)
	return args.Get(0).(paging.Source[entity.Author])
}

func (m *mockStore) Add(ctx context.Context, item *entity.Author) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockStore) Replace(ctx context.Context, item entity.Author) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockStore) Remove(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func ptr[V any](v V) *V { return &v }

var stored = entity.Author{Base: entity.Base{ID: 7}, FirstName: "Ann", LastName: "Leckie"}

func newService(store crud.Store[entity.Author]) *author.Service {
	return author.NewService(store, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
}

func TestUpdate_ConflictOnVanishedRowIsNotFound(t *testing.T) {
	store := &mockStore{}
	store.On("Find", mock.Anything, int64(7)).Return(stored, nil)
	store.On("Replace", mock.Anything, mock.AnythingOfType("entity.Author")).Return(crud.ErrConflict)
	store.On("Exists", mock.Anything, int64(7)).Return(false, nil)

	err := newService(store).Update(context.Background(), 7, author.Input{LastName: ptr("Smith")})
	assert.ErrorIs(t, err, crud.ErrNotFound)
	store.AssertExpectations(t)
}

func TestUpdate_ConflictOnLiveRowIsFatal(t *testing.T) {
	store := &mockStore{}
	store.On("Find", mock.Anything, int64(7)).Return(stored, nil)
	store.On("Replace", mock.Anything, mock.AnythingOfType("entity.Author")).Return(crud.ErrConflict)
	store.On("Exists", mock.Anything, int64(7)).Return(true, nil)

	err := newService(store).Update(context.Background(), 7, author.Input{LastName: ptr("Smith")})
	require.Error(t, err)
	assert.ErrorIs(t, err, crud.ErrConflict)
	assert.NotErrorIs(t, err, crud.ErrNotFound)
}

func TestUpdate_ReplacesMergedRecord(t *testing.T) {
	store := &mockStore{}
	store.On("Find", mock.Anything, int64(7)).Return(stored, nil)
	store.On("Replace", mock.Anything, entity.Author{Base: entity.Base{ID: 7}, FirstName: "Ann", LastName: "Smith"}).Return(nil)

	require.NoError(t, newService(store).Update(context.Background(), 7, author.Input{ID: ptr(int64(7)), LastName: ptr("Smith")}))
	store.AssertExpectations(t)
}

func TestUpdate_MismatchedIDSkipsStore(t *testing.T) {
	store := &mockStore{}
	err := newService(store).Update(context.Background(), 7, author.Input{ID: ptr(int64(8))})
	assert.ErrorIs(t, err, crud.ErrIDMismatch)
	store.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
}

func TestCreate_StoreFailureIsWrapped(t *testing.T) {
	store := &mockStore{}
	store.On("Add", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := newService(store).Create(context.Background(), author.Input{FirstName: ptr("Ann"), LastName: ptr("Leckie")})
	assert.EqualError(t, err, "add author: disk full")
}

func TestDelete_MissingIsNotFound(t *testing.T) {
	store := &mockStore{}
	store.On("Find", mock.Anything, int64(9)).Return(entity.Author{}, crud.ErrNotFound)

	_, err := newService(store).Delete(context.Background(), 9)
	assert.ErrorIs(t, err, crud.ErrNotFound)
	store.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}

func TestList_SourceFailure(t *testing.T) {
	store := &mockStore{}
	store.On("Select", mock.Anything).Return(failingSource{})

	_, err := newService(store).List(context.Background(), author.NewFilter())
	assert.EqualError(t, err, "list author: fetch failed")
}

type failingSource struct{}

func (failingSource) Fetch(context.Context, int, int) ([]entity.Author, error) {
	return nil, errors.New("fetch failed")
}

func (failingSource) Count(context.Context) (int, error) { return 0, nil }
