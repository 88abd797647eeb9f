package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patchBody struct {
	Description Optional[string]       `json:"description"`
	Status      Optional[ReportStatus] `json:"status"`
}

func TestOptional_DistinguishesAbsentFromNull(t *testing.T) {
	var body patchBody
	require.NoError(t, json.Unmarshal([]byte(`{"description": null}`), &body))

	assert.True(t, body.Description.Set)
	assert.True(t, body.Description.Null)
	assert.False(t, body.Description.Present())
	assert.Nil(t, body.Description.Ptr())

	assert.False(t, body.Status.Set)
}

func TestOptional_Value(t *testing.T) {
	var body patchBody
	require.NoError(t, json.Unmarshal([]byte(`{"description": "deep hole", "status": "resolved"}`), &body))

	require.True(t, body.Description.Present())
	assert.Equal(t, "deep hole", *body.Description.Ptr())
	assert.Equal(t, StatusResolved, body.Status.Value)
}

func TestOptional_WrongType(t *testing.T) {
	var body patchBody
	err := json.Unmarshal([]byte(`{"description": 42}`), &body)
	assert.Error(t, err)
}

func TestReportPatch_IsEmpty(t *testing.T) {
	assert.True(t, ReportPatch{}.IsEmpty())
	assert.False(t, ReportPatch{Status: Some(StatusRejected)}.IsEmpty())
	assert.False(t, ReportPatch{Description: Null[string]()}.IsEmpty())
}

func TestEnums_Valid(t *testing.T) {
	assert.True(t, StatusUnderReview.Valid())
	assert.False(t, ReportStatus("closed").Valid())
	assert.True(t, CategoryDrainage.Valid())
	assert.False(t, DefectCategory("graffiti").Valid())
	assert.True(t, SeverityCritical.Valid())
	assert.False(t, Severity("").Valid())
}
