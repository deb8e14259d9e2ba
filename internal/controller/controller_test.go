package controller

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sandeepkv93/todo/internal/logging"
	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/storage"
)

type write struct {
	Key   string
	Value string
}

// recordingStore wraps a MemoryStore and records every write.
type recordingStore struct {
	*storage.MemoryStore
	writes []write
	getErr error
	setErr error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{MemoryStore: storage.NewMemoryStore()}
}

func (s *recordingStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.getErr != nil {
		return "", false, s.getErr
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *recordingStore) Set(ctx context.Context, key, value string) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.writes = append(s.writes, write{Key: key, Value: value})
	return s.MemoryStore.Set(ctx, key, value)
}

func seed(t *testing.T, store *recordingStore, raw string) {
	t.Helper()
	if err := store.MemoryStore.Set(context.Background(), storage.TodosKey, raw); err != nil {
		t.Fatalf("seed store: %v", err)
	}
}

func newController(t *testing.T, store storage.KVStore, opts ...Option) *Controller {
	t.Helper()
	c, err := New(context.Background(), store, opts...)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return c
}

func assertItems(t *testing.T, c *Controller, want []string) {
	t.Helper()
	if diff := cmp.Diff(want, c.Items()); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestNewEmptyStoreStartsEmptyWithoutWriting(t *testing.T) {
	store := newRecordingStore()
	c := newController(t, store)

	assertItems(t, c, []string{})
	if c.Draft() != "" {
		t.Fatalf("expected empty draft, got %q", c.Draft())
	}
	if len(store.writes) != 0 {
		t.Fatalf("initialization must not write, got %v", store.writes)
	}
}

func TestNewLoadsStoredList(t *testing.T) {
	store := newRecordingStore()
	seed(t, store, `["A","B","C"]`)
	c := newController(t, store)

	assertItems(t, c, []string{"A", "B", "C"})
	if len(store.writes) != 0 {
		t.Fatalf("initialization must not write, got %v", store.writes)
	}
}

func TestNewMalformedListFallsBackToEmpty(t *testing.T) {
	store := newRecordingStore()
	seed(t, store, `{"not":"a list"}`)
	var buf bytes.Buffer
	c := newController(t, store, WithLogger(logging.NewFromConfig(&buf, "debug", "logfmt")))

	assertItems(t, c, []string{})
	if !strings.Contains(buf.String(), "ignoring malformed stored list") {
		t.Fatalf("expected warning in log, got %q", buf.String())
	}
	raw, _, _ := store.MemoryStore.Get(context.Background(), storage.TodosKey)
	if raw != `{"not":"a list"}` {
		t.Fatalf("malformed entry must be left untouched on load, got %q", raw)
	}
}

func TestNewStrictLoadFailsOnMalformedList(t *testing.T) {
	store := newRecordingStore()
	seed(t, store, `["A", 1]`)
	_, err := New(context.Background(), store, WithStrictLoad(true))
	if !errors.Is(err, model.ErrMalformedList) {
		t.Fatalf("expected ErrMalformedList, got %v", err)
	}
}

func TestNewPropagatesReadError(t *testing.T) {
	store := newRecordingStore()
	store.getErr = errors.New("disk gone")
	if _, err := New(context.Background(), store); err == nil || !strings.Contains(err.Error(), "disk gone") {
		t.Fatalf("expected read error, got %v", err)
	}
	if _, err := New(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil store")
	}
}

func TestCommitDraftAppendsTrimmedAndClears(t *testing.T) {
	store := newRecordingStore()
	seed(t, store, `["A"]`)
	c := newController(t, store)

	c.SetDraft("   Buy milk \t")
	if c.Draft() != "   Buy milk \t" {
		t.Fatalf("draft should be stored verbatim, got %q", c.Draft())
	}
	changed, err := c.CommitDraft()
	if err != nil || !changed {
		t.Fatalf("commit = (%v, %v)", changed, err)
	}
	assertItems(t, c, []string{"A", "Buy milk"})
	if c.Draft() != "" {
		t.Fatalf("expected draft cleared, got %q", c.Draft())
	}
	want := []write{{Key: storage.TodosKey, Value: `["A","Buy milk"]`}}
	if diff := cmp.Diff(want, store.writes); diff != "" {
		t.Fatalf("writes mismatch (-want +got):\n%s", diff)
	}
}

func TestCommitDraftBlankIsNoop(t *testing.T) {
	for _, draft := range []string{"", "   ", "\t\n"} {
		store := newRecordingStore()
		c := newController(t, store)
		notified := 0
		c.SetDraft(draft)
		c.Subscribe(func(Snapshot) { notified++ })

		changed, err := c.CommitDraft()
		if err != nil || changed {
			t.Fatalf("commit of %q = (%v, %v)", draft, changed, err)
		}
		assertItems(t, c, []string{})
		if c.Draft() != draft {
			t.Fatalf("blank commit must not touch the draft, got %q", c.Draft())
		}
		if len(store.writes) != 0 || notified != 0 {
			t.Fatalf("blank commit wrote %d times and notified %d times", len(store.writes), notified)
		}
	}
}

func TestCommitDraftAllowsDuplicates(t *testing.T) {
	store := newRecordingStore()
	c := newController(t, store)
	for i := 0; i < 3; i++ {
		c.SetDraft("same")
		if _, err := c.CommitDraft(); err != nil {
			t.Fatalf("commit: %v", err)
		}
	}
	assertItems(t, c, []string{"same", "same", "same"})
	if len(store.writes) != 3 {
		t.Fatalf("expected one write per commit, got %d", len(store.writes))
	}
}

func TestRemoveAtIsPositional(t *testing.T) {
	store := newRecordingStore()
	seed(t, store, `["A","B","A","C"]`)
	c := newController(t, store)

	changed, err := c.RemoveAt(2)
	if err != nil || !changed {
		t.Fatalf("remove = (%v, %v)", changed, err)
	}
	assertItems(t, c, []string{"A", "B", "C"})
	want := []write{{Key: storage.TodosKey, Value: `["A","B","C"]`}}
	if diff := cmp.Diff(want, store.writes); diff != "" {
		t.Fatalf("writes mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveAtOutOfRangeIsNoop(t *testing.T) {
	store := newRecordingStore()
	seed(t, store, `["A","B"]`)
	c := newController(t, store)
	notified := 0
	c.Subscribe(func(Snapshot) { notified++ })

	for _, idx := range []int{-1, 2, 100} {
		changed, err := c.RemoveAt(idx)
		if err != nil || changed {
			t.Fatalf("RemoveAt(%d) = (%v, %v)", idx, changed, err)
		}
	}
	assertItems(t, c, []string{"A", "B"})
	if len(store.writes) != 0 || notified != 0 {
		t.Fatalf("out of range removal wrote %d times and notified %d times", len(store.writes), notified)
	}
}

func TestSetDraftNotifiesWithoutWriting(t *testing.T) {
	store := newRecordingStore()
	c := newController(t, store)
	var got []Snapshot
	c.Subscribe(func(s Snapshot) { got = append(got, s) })

	c.SetDraft("B")
	c.SetDraft("Bu")

	want := []Snapshot{{Items: []string{}, Draft: "B"}, {Items: []string{}, Draft: "Bu"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("snapshots mismatch (-want +got):\n%s", diff)
	}
	if len(store.writes) != 0 {
		t.Fatalf("draft edits must not write, got %v", store.writes)
	}
}

func TestObserversSeePostCommitStateAtomically(t *testing.T) {
	store := newRecordingStore()
	c := newController(t, store)
	c.SetDraft("task")

	var seen []Snapshot
	var storedDuringNotify string
	c.Subscribe(func(s Snapshot) {
		seen = append(seen, s)
		storedDuringNotify, _, _ = store.MemoryStore.Get(context.Background(), storage.TodosKey)
	})

	if _, err := c.CommitDraft(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	want := []Snapshot{{Items: []string{"task"}, Draft: ""}}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("observer saw intermediate state (-want +got):\n%s", diff)
	}
	if storedDuringNotify != `["task"]` {
		t.Fatalf("store should already hold the new list when observers run, got %q", storedDuringNotify)
	}
}

func TestSubscribeOrderAndCancel(t *testing.T) {
	c := newController(t, newRecordingStore())
	var order []string
	cancelA := c.Subscribe(func(Snapshot) { order = append(order, "a") })
	c.Subscribe(func(Snapshot) { order = append(order, "b") })
	c.Subscribe(nil)

	c.SetDraft("x")
	cancelA()
	cancelA()
	c.SetDraft("y")

	if diff := cmp.Diff([]string{"a", "b", "b"}, order); diff != "" {
		t.Fatalf("notification order mismatch (-want +got):\n%s", diff)
	}
}

func TestObserverCannotMutateState(t *testing.T) {
	store := newRecordingStore()
	seed(t, store, `["A"]`)
	c := newController(t, store)
	c.Subscribe(func(s Snapshot) {
		if len(s.Items) > 0 {
			s.Items[0] = "mutated"
		}
	})
	c.SetDraft("x")
	assertItems(t, c, []string{"A"})

	items := c.Items()
	items[0] = "mutated"
	assertItems(t, c, []string{"A"})
}

func TestPersistFailureKeepsMutationAndReturnsError(t *testing.T) {
	store := newRecordingStore()
	c := newController(t, store)
	store.setErr = errors.New("quota exceeded")

	c.SetDraft("A")
	changed, err := c.CommitDraft()
	if !changed || err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("commit = (%v, %v)", changed, err)
	}
	assertItems(t, c, []string{"A"})

	store.setErr = nil
	c.SetDraft("B")
	if _, err := c.CommitDraft(); err != nil {
		t.Fatalf("commit after recovery: %v", err)
	}
	raw, _, _ := store.MemoryStore.Get(context.Background(), storage.TodosKey)
	if raw != `["A","B"]` {
		t.Fatalf("next write should resync the full list, got %q", raw)
	}
}

func TestAddLeavesDraftAlone(t *testing.T) {
	store := newRecordingStore()
	c := newController(t, store)
	c.SetDraft("half typed")

	changed, err := c.Add("  from palette ")
	if err != nil || !changed {
		t.Fatalf("add = (%v, %v)", changed, err)
	}
	if changed, _ := c.Add("   "); changed {
		t.Fatal("blank add should be ignored")
	}
	assertItems(t, c, []string{"from palette"})
	if c.Draft() != "half typed" {
		t.Fatalf("add must not touch the draft, got %q", c.Draft())
	}
	if len(store.writes) != 1 {
		t.Fatalf("expected one write, got %d", len(store.writes))
	}
}

func TestEndToEndScenario(t *testing.T) {
	store := newRecordingStore()
	c := newController(t, store)
	assertItems(t, c, []string{})

	c.SetDraft("Buy milk")
	if c.Draft() != "Buy milk" {
		t.Fatalf("unexpected draft %q", c.Draft())
	}
	if _, err := c.CommitDraft(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	assertItems(t, c, []string{"Buy milk"})
	if c.Draft() != "" {
		t.Fatalf("draft not cleared: %q", c.Draft())
	}

	c.SetDraft("  ")
	if changed, _ := c.CommitDraft(); changed {
		t.Fatal("whitespace commit should be a no-op")
	}
	assertItems(t, c, []string{"Buy milk"})

	if _, err := c.RemoveAt(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	assertItems(t, c, []string{})

	want := []write{
		{Key: storage.TodosKey, Value: `["Buy milk"]`},
		{Key: storage.TodosKey, Value: `[]`},
	}
	if diff := cmp.Diff(want, store.writes); diff != "" {
		t.Fatalf("writes mismatch (-want +got):\n%s", diff)
	}

	reloaded := newController(t, store)
	assertItems(t, reloaded, []string{})
}

func TestPrepopulatedScenario(t *testing.T) {
	store := newRecordingStore()
	seed(t, store, `["A","B","C"]`)
	c := newController(t, store)
	if _, err := c.RemoveAt(1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	assertItems(t, c, []string{"A", "C"})

	reloaded := newController(t, store)
	assertItems(t, reloaded, []string{"A", "C"})
}

func TestInvalidUTF8ItemMatchesReloadedList(t *testing.T) {
	store := newRecordingStore()
	c := newController(t, store)
	c.SetDraft("caf\xe9")
	if _, err := c.CommitDraft(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if _, err := c.Add("na\xefve"); err != nil {
		t.Fatalf("add: %v", err)
	}

	reloaded := newController(t, store)
	if diff := cmp.Diff(c.Items(), reloaded.Items()); diff != "" {
		t.Fatalf("in-memory list differs from stored list (-memory +stored):\n%s", diff)
	}
	assertItems(t, c, []string{"caf\uFFFD", "na\uFFFDve"})
}

func TestKeyOptionIsolatesLists(t *testing.T) {
	store := newRecordingStore()
	a := newController(t, store, withKey("todos-a"))
	b := newController(t, store, withKey("todos-b"))
	if _, err := a.Add("only in a"); err != nil {
		t.Fatalf("add: %v", err)
	}
	assertItems(t, b, []string{})
	if store.writes[0].Key != "todos-a" {
		t.Fatalf("unexpected key %q", store.writes[0].Key)
	}
}

func TestCloseDropsObservers(t *testing.T) {
	var buf bytes.Buffer
	c := newController(t, newRecordingStore(), WithLogger(logging.NewFromConfig(&buf, "info", "text")))
	notified := 0
	c.Subscribe(func(Snapshot) { notified++ })
	c.Close()
	c.SetDraft("x")
	if notified != 0 {
		t.Fatalf("expected no notifications after close, got %d", notified)
	}
	if !strings.Contains(buf.String(), "controller closed") {
		t.Fatalf("expected close log, got %q", buf.String())
	}
}
