// Package controller owns the to-do list state: the ordered items and the
// uncommitted draft. Every change to the items is written through to a
// storage.KVStore as a full overwrite, and every state change is announced
// to subscribers.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/todo/internal/logging"
	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/storage"
)

// Snapshot is an immutable copy of the controller state.
type Snapshot struct {
	Items []string
	Draft string
}

type Option func(*Controller)

func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithStrictLoad makes New fail on a malformed stored list instead of
// starting from an empty one.
func WithStrictLoad(strict bool) Option {
	return func(c *Controller) { c.strict = strict }
}

// withKey overrides the store key so tests can share one store.
func withKey(key string) Option {
	return func(c *Controller) {
		if key != "" {
			c.key = key
		}
	}
}

type Controller struct {
	mu          sync.Mutex
	store       storage.KVStore
	logger      *log.Logger
	key         string
	strict      bool
	items       []string
	draft       string
	observers   map[int]func(Snapshot)
	observerIDs []int
	nextID      int
}

// New reads the stored list once. A missing entry yields an empty list.
// Nothing is written during construction.
func New(ctx context.Context, store storage.KVStore, opts ...Option) (*Controller, error) {
	if store == nil {
		return nil, errors.New("controller: nil store")
	}
	c := &Controller{
		store:     store,
		logger:    logging.Discard(),
		key:       storage.TodosKey,
		observers: make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(c)
	}

	raw, ok, err := store.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("controller: load list: %w", err)
	}
	if !ok {
		c.items = []string{}
		c.logger.Debug("no stored list, starting empty", "key", c.key)
		return c, nil
	}

	items, err := model.Decode(raw)
	if err != nil {
		if c.strict {
			return nil, fmt.Errorf("controller: load list: %w", err)
		}
		c.logger.Warn("ignoring malformed stored list", "key", c.key, "err", err)
		c.items = []string{}
		return c, nil
	}
	c.items = items
	c.logger.Debug("loaded stored list", "key", c.key, "items", len(items))
	return c, nil
}

func (c *Controller) Items() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.Clone(c.items)
}

func (c *Controller) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// SetDraft replaces the draft text as typed. No validation happens here.
func (c *Controller) SetDraft(text string) {
	c.mu.Lock()
	c.draft = text
	snap := c.snapshotLocked()
	observers := c.observersLocked()
	c.mu.Unlock()

	notify(observers, snap)
}

// CommitDraft appends the trimmed draft and clears it. A draft that is empty
// after trimming is ignored and reported as false. The store write and the
// notification both observe the list with the new item and an empty draft.
func (c *Controller) CommitDraft() (bool, error) {
	c.mu.Lock()
	item, ok := model.Normalize(c.draft)
	if !ok {
		c.mu.Unlock()
		return false, nil
	}
	c.draft = ""
	return c.appendLocked(item)
}

// Add appends text the same way CommitDraft does but leaves the draft alone.
// It backs the command palette and the headless commands.
func (c *Controller) Add(text string) (bool, error) {
	c.mu.Lock()
	item, ok := model.Normalize(text)
	if !ok {
		c.mu.Unlock()
		return false, nil
	}
	return c.appendLocked(item)
}

// appendLocked must be called with c.mu held; it releases it.
func (c *Controller) appendLocked(item string) (bool, error) {
	c.items = model.Append(c.items, item)
	err := c.persistLocked()
	snap := c.snapshotLocked()
	observers := c.observersLocked()
	c.mu.Unlock()

	if err == nil {
		c.logger.Debug("item added", "index", len(snap.Items)-1, "items", len(snap.Items))
	}
	notify(observers, snap)
	return true, err
}

// RemoveAt deletes the item at index. Indices are only meaningful against
// the snapshot they were read from; an index outside the current list is
// ignored and reported as false.
func (c *Controller) RemoveAt(index int) (bool, error) {
	c.mu.Lock()
	next, ok := model.RemoveAt(c.items, index)
	if !ok {
		c.mu.Unlock()
		c.logger.Debug("ignoring out of range removal", "index", index)
		return false, nil
	}
	c.items = next
	err := c.persistLocked()
	snap := c.snapshotLocked()
	observers := c.observersLocked()
	c.mu.Unlock()

	if err == nil {
		c.logger.Debug("item removed", "index", index, "items", len(snap.Items))
	}
	notify(observers, snap)
	return true, err
}

// Subscribe registers fn to run after every state change, in registration
// order. The returned function cancels the subscription.
func (c *Controller) Subscribe(fn func(Snapshot)) func() {
	if fn == nil {
		return func() {}
	}
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.observers[id] = fn
	c.observerIDs = append(c.observerIDs, id)
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.observers, id)
			for i, v := range c.observerIDs {
				if v == id {
					c.observerIDs = append(c.observerIDs[:i], c.observerIDs[i+1:]...)
					break
				}
			}
		})
	}
}

// Close drops all subscribers. The store is owned by the caller.
func (c *Controller) Close() {
	c.mu.Lock()
	c.observers = make(map[int]func(Snapshot))
	c.observerIDs = nil
	n := len(c.items)
	c.mu.Unlock()
	c.logger.Info("controller closed", "items", n)
}

func (c *Controller) persistLocked() error {
	raw, err := model.Encode(c.items)
	if err != nil {
		return err
	}
	if err := c.store.Set(context.Background(), c.key, raw); err != nil {
		c.logger.Error("persist list failed", "key", c.key, "err", err)
		return fmt.Errorf("controller: persist list: %w", err)
	}
	return nil
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{Items: model.Clone(c.items), Draft: c.draft}
}

func (c *Controller) observersLocked() []func(Snapshot) {
	out := make([]func(Snapshot), 0, len(c.observerIDs))
	for _, id := range c.observerIDs {
		out = append(out, c.observers[id])
	}
	return out
}

func notify(observers []func(Snapshot), snap Snapshot) {
	for _, fn := range observers {
		fn(Snapshot{Items: model.Clone(snap.Items), Draft: snap.Draft})
	}
}
