package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRefinements_MatchInvalidArgument(t *testing.T) {
	refined := []error{
		ErrDuplicateColumn,
		ErrUnsortedColumns,
		ErrNegativeColumn,
		ErrArityMismatch,
		ErrColumnOutOfRange,
		ErrShapeMismatch,
		ErrOverlappingGroup,
	}

	for _, err := range refined {
		t.Run(err.Error(), func(t *testing.T) {
			wrapped := fmt.Errorf("%w: detail", err)
			require.ErrorIs(t, wrapped, ErrInvalidArgument)
			require.ErrorIs(t, wrapped, err)
			require.NotErrorIs(t, wrapped, ErrNilInput)
		})
	}
}

func TestNilInput_IsNotInvalidArgument(t *testing.T) {
	require.False(t, errors.Is(ErrNilInput, ErrInvalidArgument))
	require.False(t, errors.Is(ErrChecksumMismatch, ErrInvalidArgument))
}
