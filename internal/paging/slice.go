package paging

import "context"

// SliceSource serves an already filtered and ordered slice.
type SliceSource[T any] []T

func (s SliceSource[T]) Fetch(_ context.Context, offset, limit int) ([]T, error) {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(s) || limit <= 0 {
		return []T{}, nil
	}
	end := len(s)
	if limit < end-offset {
		end = offset + limit
	}
	out := make([]T, end-offset)
	copy(out, s[offset:end])
	return out, nil
}

func (s SliceSource[T]) Count(context.Context) (int, error) {
	return len(s), nil
}
