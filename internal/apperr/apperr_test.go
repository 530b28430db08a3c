package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransientMatchesBothSentinelAndCause(t *testing.T) {
	err := Transient("load match", sql.ErrConnDone)

	assert.ErrorIs(t, err, ErrTransientIO)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Contains(t, err.Error(), "load match")
}

func TestInvalidCarriesMessage(t *testing.T) {
	err := Invalid("a cancellation reason is required for match %s", "m1")

	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "invalid request: a cancellation reason is required for match m1", err.Error())
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("get match: %w", ErrNotFound), "not_found"},
		{ErrForbidden, "forbidden"},
		{fmt.Errorf("%w: match has started", ErrLockedMatch), "locked_match"},
		{ErrUnbalancedTeams, "unbalanced_teams"},
		{Invalid("bad"), "validation"},
		{Transient("op", errors.New("boom")), "transient_io"},
		{errors.New("boom"), "internal"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Kind(tt.err), tt.err.Error())
	}
}
