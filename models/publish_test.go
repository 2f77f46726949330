package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowsUnchangedDerivation(t *testing.T) {
	result := PublishResult{
		RowsProcessed: 100,
		RowsCreated:   10,
		RowsUpdated:   20,
	}
	assert.Equal(t, 70, result.RowsUnchanged())
}

func TestPreviewFromResult(t *testing.T) {
	result := &PublishResult{
		Status:        PublishStatusDryRun,
		DryRun:        true,
		RowsProcessed: 100,
		RowsCreated:   10,
		RowsUpdated:   20,
		Warnings:      []string{"missing family on 3 rows"},
	}

	preview := PreviewFromResult("pb-1", result)
	assert.Equal(t, "pb-1", preview.PriceBookID)
	assert.Equal(t, 10, preview.RowsCreated)
	assert.Equal(t, 20, preview.RowsUpdated)
	assert.Equal(t, 70, preview.RowsUnchanged)
	assert.Equal(t, 1, preview.WarningCount)
}
