package store

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"proplens/app/service/analysis"
	"proplens/app/service/taxonomy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	old := auditFilePath
	auditFilePath = filepath.Join(t.TempDir(), "sessions.jsonl")
	t.Cleanup(func() { auditFilePath = old })

	svc, err := New(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Shutdown() })

	return svc
}

func record(id, sessionID string, createdAt time.Time) *AnalysisRecord {
	return &AnalysisRecord{
		ID:        id,
		SessionID: sessionID,
		ImageRef:  "http://storage/" + id,
		Issues: []analysis.Issue{
			{Label: taxonomy.Water, Confidence: 0.8, Severity: analysis.SeverityHigh},
		},
		CreatedAt: createdAt,
	}
}

func TestGetLatestAbsent(t *testing.T) {
	svc := newTestService(t)

	rec, ok := svc.GetLatest("nobody")
	assert.False(t, ok)
	assert.Nil(t, rec)
}

func TestPutThenGetLatest(t *testing.T) {
	svc := newTestService(t)

	rec := record("a", "s1", time.Now().UTC())
	svc.Put("s1", rec)

	got, ok := svc.GetLatest("s1")
	require.True(t, ok)
	assert.Equal(t, rec, got)
}

func TestSupersessionKeepsHistory(t *testing.T) {
	svc := newTestService(t)

	base := time.Now().UTC()
	first := record("a", "s1", base)
	second := record("b", "s1", base.Add(time.Second))

	svc.Put("s1", first)
	svc.Put("s1", second)

	got, ok := svc.GetLatest("s1")
	require.True(t, ok)
	assert.Equal(t, "b", got.ID)

	history := svc.History("s1")
	require.Len(t, history, 2)
	assert.Equal(t, "a", history[0].ID)
	assert.Equal(t, "b", history[1].ID)
}

func TestLastWriterWinsByCreatedAt(t *testing.T) {
	svc := newTestService(t)

	base := time.Now().UTC()
	newer := record("newer", "s1", base.Add(time.Minute))
	older := record("older", "s1", base)

	// Insertion order does not matter, CreatedAt does.
	svc.Put("s1", newer)
	svc.Put("s1", older)

	got, ok := svc.GetLatest("s1")
	require.True(t, ok)
	assert.Equal(t, "newer", got.ID)
}

func TestSessionsAreIndependent(t *testing.T) {
	svc := newTestService(t)

	svc.Put("s1", record("a", "s1", time.Now().UTC()))

	_, ok := svc.GetLatest("s2")
	assert.False(t, ok)
}

func TestConcurrentPutsStayVisible(t *testing.T) {
	svc := newTestService(t)

	base := time.Now().UTC()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			svc.Put("s1", record("r", "s1", base.Add(time.Duration(i)*time.Millisecond)))
		}(i)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			if rec, ok := svc.GetLatest("s1"); ok {
				// Never a partial record.
				assert.NotEmpty(t, rec.ID)
				assert.NotEmpty(t, rec.Issues)
			}
		}
	}()

	wg.Wait()
	<-done

	assert.Len(t, svc.History("s1"), 50)
}

func TestTurnsAppendOnly(t *testing.T) {
	svc := newTestService(t)

	svc.AppendTurn("s1", ConversationTurn{Role: RoleUser, Text: "hello", At: time.Now().UTC()})
	svc.AppendTurn("s1", ConversationTurn{Role: RoleAssistant, Text: "hi", At: time.Now().UTC()})

	turns := svc.Turns("s1")
	require.Len(t, turns, 2)
	assert.Equal(t, RoleUser, turns[0].Role)
	assert.Equal(t, RoleAssistant, turns[1].Role)
}

func TestTurnsReturnsCopy(t *testing.T) {
	svc := newTestService(t)

	svc.AppendTurn("s1", ConversationTurn{Role: RoleUser, Text: "hello", At: time.Now().UTC()})

	turns := svc.Turns("s1")
	turns[0].Text = "mutated"

	assert.Equal(t, "hello", svc.Turns("s1")[0].Text)
}

func TestAuditReplay(t *testing.T) {
	old := auditFilePath
	auditFilePath = filepath.Join(t.TempDir(), "sessions.jsonl")
	t.Cleanup(func() { auditFilePath = old })

	first, err := New(nil)
	require.NoError(t, err)

	rec := record("a", "s1", time.Now().UTC().Truncate(time.Second))
	first.Put("s1", rec)
	first.AppendTurn("s1", ConversationTurn{Role: RoleUser, Text: "hello", At: rec.CreatedAt})
	require.NoError(t, first.Shutdown())

	second, err := New(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Shutdown() })

	got, ok := second.GetLatest("s1")
	require.True(t, ok)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.ImageRef, got.ImageRef)

	turns := second.Turns("s1")
	require.Len(t, turns, 1)
	assert.Equal(t, "hello", turns[0].Text)
}
