package feed

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Options tunes a Reconciler.
type Options struct {
	// PollInterval overrides the default background pull cadence.
	PollInterval time.Duration

	// ToastDuration overrides how long a toast stays visible before it
	// dismisses itself.
	ToastDuration time.Duration

	// OnToast, when set, is invoked for every toast that becomes visible.
	// It runs on the engine goroutine and must not call Reconciler methods
	// synchronously.
	OnToast func(Toast)
}

// Reconciler merges the periodic pull and the push stream into one state.
//
// All state is owned by the Run goroutine: pull results, pushed records and
// caller commands funnel through one channel of operations, so no two
// mutations ever interleave mid-update even though their sources run
// concurrently.
type Reconciler struct {
	fetcher Fetcher
	opts    Options

	ops       chan func()
	done      chan struct{}
	closeOnce sync.Once

	// Everything below is touched only from the Run goroutine.
	notifications []Notification
	toasts        []Toast
	toastTimers   map[uuid.UUID]*time.Timer
	knownIDs      map[uuid.UUID]bool
	unread        int
	hydrated      bool
	loading       bool
	errMsg        string
	session       uint64
}

func NewReconciler(fetcher Fetcher, opts Options) *Reconciler {
	if opts.PollInterval <= 0 {
		opts.PollInterval = PollInterval
	}
	if opts.ToastDuration <= 0 {
		opts.ToastDuration = ToastVisibleFor
	}
	return &Reconciler{
		fetcher:     fetcher,
		opts:        opts,
		ops:         make(chan func(), 16),
		done:        make(chan struct{}),
		toastTimers: make(map[uuid.UUID]*time.Timer),
		knownIDs:    make(map[uuid.UUID]bool),
	}
}

// Run owns the session: an initial visible pull, then silent pulls on the
// poll interval, interleaved with queued operations. Cancelling ctx ends the
// session and clears every trace of it.
func (r *Reconciler) Run(ctx context.Context) {
	defer r.closeOnce.Do(func() { close(r.done) })

	r.startPull(ctx, false)

	ticker := time.NewTicker(r.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.reset()
			return
		case <-ticker.C:
			r.startPull(ctx, true)
		case op := <-r.ops:
			op()
		}
	}
}

// do hands op to the Run goroutine, dropping it if the session has ended.
func (r *Reconciler) do(op func()) {
	select {
	case r.ops <- op:
	case <-r.done:
	}
}

// startPull launches the network call off the engine goroutine; its result
// comes back as an operation tagged with the session it belongs to, so a
// response landing after teardown is discarded rather than applied.
func (r *Reconciler) startPull(ctx context.Context, silent bool) {
	if !silent {
		r.loading = true
		r.errMsg = ""
	}
	session := r.session

	go func() {
		page, err := r.fetcher.List(ctx, pullLimit)
		r.do(func() {
			if session != r.session {
				return
			}
			if !silent {
				r.loading = false
			}
			if err != nil {
				if !silent {
					r.errMsg = "unable to load notifications right now"
				}
				return
			}
			r.applyPull(page)
		})
	}()
}

func (r *Reconciler) applyPull(page *ListPage) {
	merged := dedupeAndSort(page.Notifications)
	if len(merged) > MaxNotifications {
		merged = merged[:MaxNotifications]
	}

	var freshUnread []Notification
	for _, n := range merged {
		if !n.IsRead && !r.knownIDs[n.ID] {
			freshUnread = append(freshUnread, n)
		}
	}

	r.notifications = merged
	r.unread = page.UnreadCount

	r.knownIDs = make(map[uuid.UUID]bool, len(merged))
	for _, n := range merged {
		r.knownIDs[n.ID] = true
	}

	// The first pull of a session hydrates silently: everything it returns
	// is history, and toasting it all would storm the user on login.
	if r.hydrated {
		for _, n := range freshUnread {
			r.enqueueToast(n)
		}
	} else {
		r.hydrated = true
	}
}

// OnPush merges a record arriving over the push channel. Live pushes always
// toast; there is no first-pull suppression here.
func (r *Reconciler) OnPush(n Notification) {
	r.do(func() {
		if r.knownIDs[n.ID] {
			return
		}
		r.knownIDs[n.ID] = true

		merged := dedupeAndSort(append([]Notification{n}, r.notifications...))
		if len(merged) > MaxNotifications {
			merged = merged[:MaxNotifications]
		}
		r.notifications = merged

		if !n.IsRead {
			r.unread++
			r.enqueueToast(n)
		}
	})
}

// MarkRead optimistically flips the local record before the network call; a
// failed call triggers a silent pull to reconcile with server truth.
func (r *Reconciler) MarkRead(ctx context.Context, id uuid.UUID) {
	r.do(func() {
		flipped := false
		for i := range r.notifications {
			if r.notifications[i].ID == id {
				if !r.notifications[i].IsRead {
					r.notifications[i].IsRead = true
					flipped = true
				}
				break
			}
		}
		if flipped && r.unread > 0 {
			r.unread--
		}

		go func() {
			if err := r.fetcher.MarkRead(ctx, id); err != nil {
				r.do(func() { r.startPull(ctx, true) })
			}
		}()
	})
}

// MarkAllRead optimistically flips every local record and zeroes the
// counter, with the same reconciliation-on-failure policy as MarkRead.
func (r *Reconciler) MarkAllRead(ctx context.Context) {
	r.do(func() {
		for i := range r.notifications {
			r.notifications[i].IsRead = true
		}
		r.unread = 0

		go func() {
			if err := r.fetcher.MarkAllRead(ctx); err != nil {
				r.do(func() { r.startPull(ctx, true) })
			}
		}()
	})
}

// DismissToast removes the toast by id. Dismissing an absent id is a no-op.
func (r *Reconciler) DismissToast(id uuid.UUID) {
	r.do(func() { r.dismissToast(id) })
}

// Snapshot returns a copy of the current state. A nil-state snapshot is
// returned after the session has ended.
func (r *Reconciler) Snapshot() Snapshot {
	reply := make(chan Snapshot, 1)
	r.do(func() {
		reply <- Snapshot{
			Notifications: append([]Notification(nil), r.notifications...),
			Toasts:        append([]Toast(nil), r.toasts...),
			UnreadCount:   r.unread,
			Hydrated:      r.hydrated,
			Loading:       r.loading,
			Err:           r.errMsg,
		}
	})
	select {
	case snapshot := <-reply:
		return snapshot
	case <-r.done:
		return Snapshot{}
	}
}

func (r *Reconciler) enqueueToast(n Notification) {
	if n.IsRead {
		return
	}
	for _, t := range r.toasts {
		if t.ID == n.ID {
			return
		}
	}

	toast := Toast{ID: n.ID, Type: n.Type, Title: n.Title, Message: n.Message, CreatedAt: n.CreatedAt}
	r.toasts = append([]Toast{toast}, r.toasts...)
	for len(r.toasts) > MaxToasts {
		oldest := r.toasts[len(r.toasts)-1]
		r.toasts = r.toasts[:len(r.toasts)-1]
		r.stopToastTimer(oldest.ID)
	}

	r.toastTimers[toast.ID] = time.AfterFunc(r.opts.ToastDuration, func() {
		r.DismissToast(toast.ID)
	})

	if r.opts.OnToast != nil {
		r.opts.OnToast(toast)
	}
}

func (r *Reconciler) dismissToast(id uuid.UUID) {
	for i, t := range r.toasts {
		if t.ID == id {
			r.toasts = append(r.toasts[:i], r.toasts[i+1:]...)
			break
		}
	}
	r.stopToastTimer(id)
}

func (r *Reconciler) stopToastTimer(id uuid.UUID) {
	if timer, ok := r.toastTimers[id]; ok {
		timer.Stop()
		delete(r.toastTimers, id)
	}
}

// reset clears all session state so nothing leaks into the next login.
func (r *Reconciler) reset() {
	for id := range r.toastTimers {
		r.stopToastTimer(id)
	}
	r.notifications = nil
	r.toasts = nil
	r.knownIDs = make(map[uuid.UUID]bool)
	r.unread = 0
	r.hydrated = false
	r.loading = false
	r.errMsg = ""
	r.session++
}

// dedupeAndSort keeps the first occurrence of each id and orders the result
// by created_at descending.
func dedupeAndSort(list []Notification) []Notification {
	seen := make(map[uuid.UUID]bool, len(list))
	out := make([]Notification, 0, len(list))
	for _, n := range list {
		if n.ID == uuid.Nil || seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
