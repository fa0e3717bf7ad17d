// File path: internal/cobol/result_test.go
package cobol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ykosuru/cobolscan/internal/cobol/data"
)

func TestDataPreservationRecoversFromSnapshots(t *testing.T) {
	collection := &data.Collection{
		Snapshots: map[data.Section][]data.Declaration{
			data.SectionWorkingStorage: {
				{Level: 1, Name: "WS-REC", Section: data.SectionWorkingStorage, Line: 20},
				{Level: 5, Name: "WS-ID", Section: data.SectionWorkingStorage, Line: 21},
			},
			data.SectionFile: {
				{Level: 1, Name: "IN-REC", Section: data.SectionFile, Line: 10},
			},
			data.SectionLinkage: {
				{Level: 1, Name: "LNK-REQ", Section: data.SectionLinkage, Line: 30},
			},
		},
	}
	result := &Result{Program: "SAMPLE"}
	result.enforceDataPreservation(collection)

	// Rebuilt in canonical section order: FILE first, then
	// WORKING-STORAGE, then LINKAGE.
	var names []string
	for _, item := range result.DataItems {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"IN-REC", "WS-REC", "WS-ID", "LNK-REQ"}, names)

	require.NotNil(t, result.Data)
	assert.Equal(t, len(result.DataItems), result.Data.Size())

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "recovered from per-section snapshots")
}

func TestDataPreservationReportsUnrecoverableLoss(t *testing.T) {
	collection := &data.Collection{
		Items:     []data.Declaration{{Level: 1, Name: "WS-GONE", Section: data.SectionWorkingStorage}},
		Snapshots: map[data.Section][]data.Declaration{},
	}
	result := &Result{Program: "SAMPLE"}
	result.enforceDataPreservation(collection)

	assert.Empty(t, result.DataItems)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "no snapshot available")
}

func TestDataPreservationQuietWhenNothingCollected(t *testing.T) {
	collection := &data.Collection{Snapshots: map[data.Section][]data.Declaration{}}
	result := &Result{Program: "SAMPLE"}
	result.enforceDataPreservation(collection)

	assert.Empty(t, result.DataItems)
	assert.Empty(t, result.Warnings)
}

func TestDataPreservationLeavesIntactResultAlone(t *testing.T) {
	items := []data.Declaration{{Level: 1, Name: "WS-OK", Section: data.SectionWorkingStorage}}
	collection := &data.Collection{
		Items: items,
		Snapshots: map[data.Section][]data.Declaration{
			data.SectionWorkingStorage: items,
		},
	}
	result := &Result{Program: "SAMPLE", DataItems: items}
	result.enforceDataPreservation(collection)

	assert.Equal(t, items, result.DataItems)
	assert.Empty(t, result.Warnings)
}
