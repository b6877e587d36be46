// Package board is the viewer-side reconciliation engine: it merges inbound
// tagged events into a keyed, checkbox-editable item collection without
// feedback loops. Each viewer owns one Board and drives it from a single
// goroutine.
package board

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hovden/gitboard/internal/model"
)

// Toggler is the action bridge: it forwards a genuine user toggle upstream.
// Inbound events must never reach it.
type Toggler interface {
	Close(ctx context.Context, iid int) error
	Reopen(ctx context.Context, iid int) error
}

// Item is one visible row of the board. Muted presentation is derived from
// Closed by renderers, so the two can never diverge.
type Item struct {
	IID         int
	Title       string
	Description string
	AvatarURL   string
	Closed      bool
	LastEvent   model.Tag // provenance: which event tag last touched this item
}

// Muted reports whether the row should render muted.
func (i Item) Muted() bool {
	return i.Closed
}

// writeGuard is the per-control programmatic-mutation flag: idle or
// suppressing. While suppressing, the change handler treats control writes
// as inbound-caused and never forwards them to the toggler.
type writeGuard struct {
	suppressing bool
}

// suppress raises the guard and returns a release function. Callers must
// defer the release so the guard clears on every exit path.
func (g *writeGuard) suppress() func() {
	g.suppressing = true
	return func() { g.suppressing = false }
}

// entry pairs an item with its control guard.
type entry struct {
	item  Item
	guard writeGuard
}

// Board maintains the keyed item collection for one viewer.
type Board struct {
	items    map[int]*entry
	order    []int // iids in first-seen order, for stable rendering
	toggler  Toggler
	logger   *slog.Logger
	onChange func(Item)
}

// New returns an empty board. toggler may be nil for view-only boards.
func New(toggler Toggler, logger *slog.Logger) *Board {
	if logger == nil {
		logger = slog.Default()
	}
	return &Board{
		items:   make(map[int]*entry),
		toggler: toggler,
		logger:  logger,
	}
}

// OnChange registers a render hook invoked after an item is created or
// updated.
func (b *Board) OnChange(fn func(Item)) {
	b.onChange = fn
}

// Len returns the number of items on the board.
func (b *Board) Len() int {
	return len(b.items)
}

// Get returns the item with the given iid.
func (b *Board) Get(iid int) (Item, bool) {
	e, ok := b.items[iid]
	if !ok {
		return Item{}, false
	}
	return e.item, true
}

// Items returns all items in first-seen order.
func (b *Board) Items() []Item {
	out := make([]Item, 0, len(b.order))
	for _, iid := range b.order {
		out = append(out, b.items[iid].item)
	}
	return out
}

// Apply merges one inbound envelope into the board. Unknown tags are
// dropped; malformed data is an error.
func (b *Board) Apply(env model.Envelope) error {
	switch env.Type {
	case model.TagSnapshot:
		var issues []model.Issue
		if err := json.Unmarshal(env.Data, &issues); err != nil {
			return fmt.Errorf("decoding snapshot: %w", err)
		}
		for _, issue := range issues {
			b.applySnapshotRow(issue)
		}
		return nil
	case model.TagOpen, model.TagReopen, model.TagClose, model.TagUpdate:
		var payload model.WebhookPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return fmt.Errorf("decoding %s payload: %w", env.Type, err)
		}
		b.applyLive(env.Type, payload)
		return nil
	default:
		b.logger.Debug("board: ignoring event", "type", string(env.Type))
		return nil
	}
}

// applyLive applies one live webhook event. Items are created on first sight;
// field application depends on the tag.
func (b *Board) applyLive(tag model.Tag, payload model.WebhookPayload) {
	attrs := payload.ObjectAttributes
	e := b.ensure(attrs.IID)

	switch tag {
	case model.TagOpen:
		e.item.Title = attrs.Title
		e.item.Description = attrs.Description
		e.item.AvatarURL = payload.User.AvatarURL
		b.setClosed(e, false)
	case model.TagReopen:
		// Avatar untouched on reopen.
		e.item.Title = attrs.Title
		e.item.Description = attrs.Description
		b.setClosed(e, false)
	case model.TagClose:
		// Text and avatar unchanged. Only a confirmed close flips state;
		// partial payloads leave the item as it was.
		if attrs.Action == model.ActionClose {
			b.setClosed(e, true)
		}
	case model.TagUpdate:
		e.item.Title = attrs.Title
		e.item.Description = attrs.Description
		e.item.AvatarURL = payload.User.AvatarURL
	}

	e.item.LastEvent = tag
	b.fireChange(e)
}

// applySnapshotRow applies one row of the bulk issue list.
func (b *Board) applySnapshotRow(issue model.Issue) {
	e := b.ensure(issue.IID)
	e.item.Title = issue.Title
	e.item.Description = issue.Description
	e.item.AvatarURL = issue.Author.AvatarURL
	b.setClosed(e, issue.Closed())
	e.item.LastEvent = model.TagSnapshot
	b.fireChange(e)
}

// ensure returns the entry for iid, creating it if absent.
func (b *Board) ensure(iid int) *entry {
	if e, ok := b.items[iid]; ok {
		return e
	}
	e := &entry{item: Item{IID: iid}}
	b.items[iid] = e
	b.order = append(b.order, iid)
	return e
}

// setClosed writes the closed-state control as a programmatic mutation: the
// guard is held for the duration of the write so the change handler never
// mistakes it for a user action.
func (b *Board) setClosed(e *entry, closed bool) {
	release := e.guard.suppress()
	defer release()
	e.item.Closed = closed
	_ = b.checkChanged(context.Background(), e)
}

// checkChanged is the change handler for an item's closed-state control.
// Suppressed (inbound-caused) changes stop here; genuine user toggles are
// forwarded to the toggler. Close failures propagate; reopen failures are
// logged and swallowed.
func (b *Board) checkChanged(ctx context.Context, e *entry) error {
	if e.guard.suppressing {
		return nil
	}
	if b.toggler == nil {
		return nil
	}
	if e.item.Closed {
		return b.toggler.Close(ctx, e.item.IID)
	}
	if err := b.toggler.Reopen(ctx, e.item.IID); err != nil {
		b.logger.Error("board: reopen failed", "iid", e.item.IID, "error", err)
	}
	return nil
}

// UserToggle flips an item's closed-state control as a direct user action.
// checked means "done" (close); unchecked means reopen. The real state
// change comes back through the forward path as a webhook, not as a local
// echo.
func (b *Board) UserToggle(ctx context.Context, iid int, checked bool) error {
	e := b.ensure(iid)
	e.item.Closed = checked
	err := b.checkChanged(ctx, e)
	b.fireChange(e)
	return err
}

func (b *Board) fireChange(e *entry) {
	if b.onChange != nil {
		b.onChange(e.item)
	}
}
