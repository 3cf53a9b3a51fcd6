package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRecordsNewestFirst(t *testing.T) {
	log := NewLog(10)

	log.Record(Entry{Question: "first", Status: StatusOK})
	log.Record(Entry{Question: "second", Status: StatusOK})

	entries := log.Recent(0)
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].Question)
	assert.Equal(t, "first", entries[1].Question)
	assert.NotEmpty(t, entries[0].ID)
	assert.False(t, entries[0].CreatedAt.IsZero())
}

func TestLogEvictsOldestAtCapacity(t *testing.T) {
	log := NewLog(3)

	for i := 0; i < 5; i++ {
		log.Record(Entry{Question: fmt.Sprintf("q%d", i), Status: StatusOK})
	}

	require.Equal(t, 3, log.Len())
	entries := log.Recent(0)
	assert.Equal(t, "q4", entries[0].Question)
	assert.Equal(t, "q2", entries[2].Question)
}

func TestLogRecentHonorsLimit(t *testing.T) {
	log := NewLog(10)
	for i := 0; i < 4; i++ {
		log.Record(Entry{Question: fmt.Sprintf("q%d", i), Status: StatusOK})
	}

	entries := log.Recent(2)
	require.Len(t, entries, 2)
	assert.Equal(t, "q3", entries[0].Question)
}

func TestLogRecentCopiesEntries(t *testing.T) {
	log := NewLog(10)
	log.Record(Entry{Question: "orig", Status: StatusOK})

	entries := log.Recent(0)
	entries[0].Question = "mutated"

	assert.Equal(t, "orig", log.Recent(0)[0].Question)
}
