package repositories_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reaandrew/vmlint/core"
	"github.com/reaandrew/vmlint/repositories"
)

func sampleVerdicts() []core.Verdict {
	return []core.Verdict{
		{
			RuleID:   "serial/time-sync",
			Instance: &core.Instance{ID: "1111", Name: "instance-1", Zone: "us-central1-a"},
			Status:   core.StatusFailed,
			Message:  "Time synchronization errors detected on instance instance-1.",
		},
		{
			RuleID:   "serial/time-sync",
			Instance: &core.Instance{ID: "2222", Name: "instance-2", Zone: "us-central1-b"},
			Status:   core.StatusOK,
		},
		{
			RuleID:  "serial/oom-kill",
			Status:  core.StatusSkipped,
			Message: "no instances found",
		},
	}
}

func TestSqliteVerdictRepository_StoreAndIterate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "verdicts.db")
	repository, err := repositories.NewSqliteVerdictRepository(dbPath)
	assert.NoError(t, err)
	defer repository.Close()

	assert.NoError(t, repository.Store(sampleVerdicts()))

	var got []core.Verdict
	iterator := repository.NewIterator()
	for iterator.HasNext() {
		verdict, err := iterator.Next()
		assert.NoError(t, err)
		got = append(got, verdict)
	}

	assert.Equal(t, sampleVerdicts(), got)
}

func TestSqliteVerdictRepository_RuleLevelSkipsKeepNilInstance(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "verdicts.db")
	repository, err := repositories.NewSqliteVerdictRepository(dbPath)
	assert.NoError(t, err)
	defer repository.Close()

	assert.NoError(t, repository.Store([]core.Verdict{{
		RuleID:  "serial/time-sync",
		Status:  core.StatusSkipped,
		Message: "serial port output is unavailable",
	}}))

	iterator := repository.NewIterator()
	assert.True(t, iterator.HasNext())
	verdict, err := iterator.Next()
	assert.NoError(t, err)
	assert.Nil(t, verdict.Instance)
	assert.False(t, iterator.HasNext())
}

func TestSqliteVerdictRepository_IteratorReset(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "verdicts.db")
	repository, err := repositories.NewSqliteVerdictRepository(dbPath)
	assert.NoError(t, err)
	defer repository.Close()

	assert.NoError(t, repository.Store(sampleVerdicts()))

	iterator := repository.NewIterator()
	count := 0
	for iterator.HasNext() {
		_, err := iterator.Next()
		assert.NoError(t, err)
		count++
	}
	assert.Equal(t, 3, count)

	assert.NoError(t, iterator.Reset())
	assert.True(t, iterator.HasNext())
}

func TestSqliteVerdictRepository_ClearRemovesEverything(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "verdicts.db")
	repository, err := repositories.NewSqliteVerdictRepository(dbPath)
	assert.NoError(t, err)
	defer repository.Close()

	assert.NoError(t, repository.Store(sampleVerdicts()))
	assert.NoError(t, repository.Clear())

	assert.False(t, repository.NewIterator().HasNext())
}

func TestSqliteVerdictRepository_ReplacesAnExistingArchive(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "verdicts.db")
	assert.NoError(t, os.WriteFile(dbPath, []byte("stale junk"), 0644))

	repository, err := repositories.NewSqliteVerdictRepository(dbPath)
	assert.NoError(t, err)
	defer repository.Close()

	assert.False(t, repository.NewIterator().HasNext())
}
