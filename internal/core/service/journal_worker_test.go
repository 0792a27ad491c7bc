package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/stock-assistant/internal/core/domain"
)

type recordingJournal struct {
	mu      sync.Mutex
	entries []domain.JournalEntry
	err     error
}

func (r *recordingJournal) AppendEntry(_ context.Context, entry domain.JournalEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, entry)
	return nil
}

type recordingMirror struct {
	mu        sync.Mutex
	published []domain.Counts
}

func (r *recordingMirror) MirrorCounts(_ context.Context, counts domain.Counts) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published = append(r.published, counts)
	return nil
}

func TestJournalWorkers_PersistAppliedBatches(t *testing.T) {
	env := newTestEnv(t, domain.Counts{domain.Shirts: 10, domain.Pants: 10}, 10)
	journal := &recordingJournal{}
	mirror := &recordingMirror{}
	wg := StartJournalWorkers(1, env.svc.JournalQueue(), journal, mirror, nil)

	ctx := context.Background()
	_, err := env.svc.Ask(ctx, "add 2 shirts and remove 1 pant")
	require.NoError(t, err)
	_, err = env.svc.Ask(ctx, "how many shirts")
	require.NoError(t, err)
	_, err = env.svc.Apply(ctx, domain.DirectMutation{Item: "pants", Change: 4})
	require.NoError(t, err)

	env.svc.Close()
	wg.Wait()

	require.Len(t, journal.entries, 2)
	first := journal.entries[0]
	assert.Equal(t, domain.JournalSourceLanguage, first.Source)
	assert.Equal(t, "add 2 shirts and remove 1 pant", first.Text)
	assert.Equal(t, map[domain.ItemKind]int{domain.Shirts: 2, domain.Pants: -1}, first.Deltas)
	assert.Equal(t, domain.Counts{domain.Shirts: 12, domain.Pants: 9}, first.CountsAfter)
	assert.Equal(t, uint64(1), first.Sequence)

	second := journal.entries[1]
	assert.Equal(t, domain.JournalSourceDirect, second.Source)
	assert.Equal(t, uint64(2), second.Sequence)

	require.Len(t, mirror.published, 2)
	assert.Equal(t, domain.Counts{domain.Shirts: 12, domain.Pants: 13}, mirror.published[1])
}

func TestJournalWorkers_FailedWriteStillMirrors(t *testing.T) {
	queue := make(chan domain.JournalEntry, 1)
	journal := &recordingJournal{err: errors.New("db down")}
	mirror := &recordingMirror{}
	wg := StartJournalWorkers(2, queue, journal, mirror, nil)

	queue <- domain.JournalEntry{ID: "a", Sequence: 1, CountsAfter: domain.Counts{domain.Shirts: 1}}
	close(queue)
	wg.Wait()

	assert.Empty(t, journal.entries)
	assert.Len(t, mirror.published, 1)
}

func TestOrderedMirror_SkipsStaleSnapshots(t *testing.T) {
	next := &recordingMirror{}
	m := &orderedMirror{next: next}
	ctx := context.Background()

	require.NoError(t, m.publish(ctx, domain.JournalEntry{Sequence: 2, CountsAfter: domain.Counts{domain.Shirts: 2}}))
	require.NoError(t, m.publish(ctx, domain.JournalEntry{Sequence: 1, CountsAfter: domain.Counts{domain.Shirts: 1}}))
	require.NoError(t, m.publish(ctx, domain.JournalEntry{Sequence: 3, CountsAfter: domain.Counts{domain.Shirts: 3}}))

	assert.Equal(t, []domain.Counts{{domain.Shirts: 2}, {domain.Shirts: 3}}, next.published)
}
