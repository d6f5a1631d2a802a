package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFetchErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("connection refused")
	err := NewFetchError(3, 0, underlying)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, 3, fetchErr.Page)
	require.True(t, stdErrors.Is(err, underlying))
	require.Equal(t, "fetch error: page 3: connection refused", err.Error())
}

func TestFetchErrorIncludesStatusCode(t *testing.T) {
	t.Parallel()

	err := NewFetchError(2, 503, stdErrors.New("unexpected status 503 Service Unavailable"))
	require.Contains(t, err.Error(), "status 503")
}

func TestParseErrorIncludesLine(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("config.yaml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "config.yaml", parseErr.Source)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "config.yaml:12")
}

func TestPersistenceErrorIncludesKey(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("disk full")
	err := NewPersistenceError("favorites", "write", underlying)

	var persistErr *PersistenceError
	require.ErrorAs(t, err, &persistErr)
	require.Equal(t, "favorites", persistErr.Key)
	require.Equal(t, "write", persistErr.Op)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), `write "favorites"`)
}

func TestValidationErrorIncludesField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("catalog.page_size", "must be at least 1", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "catalog.page_size", validationErr.Field)
	require.Equal(t, "validation error: catalog.page_size: must be at least 1", err.Error())
}

func TestIsFetchFailure(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "fetch error", err: NewFetchError(1, 500, stdErrors.New("boom")), want: true},
		{name: "parse error", err: NewParseError("catalog page 1", 0, stdErrors.New("bad json")), want: true},
		{name: "wrapped fetch error", err: fmt.Errorf("load page: %w", NewFetchError(1, 0, nil)), want: true},
		{name: "persistence error", err: NewPersistenceError("favorites", "write", nil), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, IsFetchFailure(tc.err))
		})
	}
}

func TestIsPersistenceFailure(t *testing.T) {
	t.Parallel()

	require.True(t, IsPersistenceFailure(fmt.Errorf("save: %w", NewPersistenceError("darkMode", "write", nil))))
	require.False(t, IsPersistenceFailure(NewFetchError(1, 0, nil)))
}
