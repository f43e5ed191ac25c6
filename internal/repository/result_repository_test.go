package repository_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/adiborse/online-examination-system/internal/model"
	"github.com/adiborse/online-examination-system/internal/repository"
)

func TestResultWithUser_MarshalKeepsIdentity(t *testing.T) {
	rw := repository.ResultWithUser{
		Result: model.Result{
			ID:             uuid.New(),
			UserID:         7,
			TotalQuestions: 2,
			CorrectAnswers: 1,
			Percentage:     50,
		},
		UserName:  "Alice",
		UserEmail: "alice@example.com",
	}

	raw, err := json.Marshal(rw)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	// The admin listing pairs each result with the student's identity; the
	// embedded result fields and derived grade must survive alongside it.
	require.Equal(t, "Alice", decoded["user_name"])
	require.Equal(t, "alice@example.com", decoded["user_email"])
	require.Equal(t, "D", decoded["grade"])
	require.Equal(t, float64(7), decoded["user_id"])
	require.Equal(t, float64(50), decoded["percentage"])
}
