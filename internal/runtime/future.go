package runtime

import (
	"sync"

	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

// FutureStatus tags the Future state machine (spec §4.2).
type FutureStatus int

const (
	Pending FutureStatus = iota
	Resolved
	Rejected
)

func (s FutureStatus) String() string {
	switch s {
	case Pending:
		return "pending"
	case Resolved:
		return "resolved"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Future is the shared, one-shot asynchronous result cell (spec §3.2,
// §4.2). Its state is the sole mutable resource shared between tasks
// (spec §5) and is serialized through mu/cond, mirroring the
// interior-mutable-plus-lock treatment the spec prescribes for
// ClassInstance.properties.
type Future struct {
	mu     sync.Mutex
	cond   *sync.Cond
	status FutureStatus
	value  Value  // set when Resolved
	reason string // set when Rejected
	inner  typesystem.Type
}

func NewFuture(inner typesystem.Type) *Future {
	f := &Future{status: Pending, inner: inner}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// NewResolvedFuture builds a Future already in the Resolved state, used
// for synchronous native-async results and for `Future.resolve(v)`.
func NewResolvedFuture(v Value, inner typesystem.Type) *Future {
	f := NewFuture(inner)
	f.Resolve(v)
	return f
}

// NewRejectedFuture builds a Future already in the Rejected state.
func NewRejectedFuture(reason string, inner typesystem.Type) *Future {
	f := NewFuture(inner)
	f.Reject(reason)
	return f
}

func (*Future) Kind() Kind { return KFuture }
func (f *Future) RuntimeType() typesystem.Type {
	return typesystem.Future{Inner: f.inner}
}

// Resolve transitions Pending -> Resolved(v). A duplicate transition
// after terminality is a no-op (spec §4.2, testable property #4).
func (f *Future) Resolve(v Value) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status != Pending {
		return
	}
	f.status = Resolved
	f.value = v
	f.cond.Broadcast()
}

// Reject transitions Pending -> Rejected(reason). A duplicate transition
// after terminality is a no-op.
func (f *Future) Reject(reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status != Pending {
		return
	}
	f.status = Rejected
	f.reason = reason
	f.cond.Broadcast()
}

// Status reports the current state without blocking.
func (f *Future) Status() FutureStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// IsTerminal reports whether the future has resolved or rejected.
func (f *Future) IsTerminal() bool {
	return f.Status() != Pending
}

// Await blocks the calling goroutine until the future is terminal, then
// returns either (value, true) on Resolved or (reason, false) on
// Rejected - the evaluator turns the latter into a raised error whose
// message is the stored reason (spec §4.2 "await").
func (f *Future) Await() (Value, bool, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for f.status == Pending {
		f.cond.Wait()
	}
	if f.status == Resolved {
		return f.value, true, ""
	}
	return nil, false, f.reason
}

// Peek returns the terminal value/reason WITHOUT blocking; ok is false
// if still Pending. Used by the thenable methods (.then/.catch/...),
// which spec §4.2 defines to operate only on an already-terminal future.
func (f *Future) Peek() (value Value, resolved bool, reason string, terminal bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status == Pending {
		return nil, false, "", false
	}
	return f.value, f.status == Resolved, f.reason, true
}
