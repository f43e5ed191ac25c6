package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adiborse/online-examination-system/internal/model"
)

func TestResult_Grade(t *testing.T) {
	tests := []struct {
		percentage float64
		want       string
	}{
		{100, "A+"},
		{90, "A+"},
		{89.99, "A"},
		{80, "A"},
		{79.99, "B"},
		{70, "B"},
		{69.99, "C"},
		{60, "C"},
		{59.99, "D"},
		{50, "D"},
		{49.99, "F"},
		{0, "F"},
	}

	for _, tt := range tests {
		got := model.Result{Percentage: tt.percentage}.Grade()
		require.Equal(t, tt.want, got, "percentage %.2f", tt.percentage)
	}
}

func TestResult_MarshalIncludesGrade(t *testing.T) {
	raw, err := json.Marshal(model.Result{Percentage: 75})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, "B", decoded["grade"])
}
