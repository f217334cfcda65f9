package session

import (
	"context"
	"sync"
	"time"

	"bookeasy/internal/domain/identity"
)

// Notifier publishes session changes made through this API instance.
// Sequence numbers follow the wall clock but never repeat within a process.
type Notifier struct {
	broker Broker
	store  *Store
	now    func() time.Time

	mu      sync.Mutex
	lastSeq int64
}

func NewNotifier(broker Broker, store *Store) *Notifier {
	return &Notifier{broker: broker, store: store, now: time.Now}
}

func (n *Notifier) SignedIn(ctx context.Context, p identity.Principal) error {
	return n.publish(ctx, KindSignedIn, p.ID, &p)
}

func (n *Notifier) SignedOut(ctx context.Context, principalID string) error {
	return n.publish(ctx, KindSignedOut, principalID, nil)
}

// Refreshed records a verified token whose profile differs from the stored
// session, e.g. after the identity provider reissued it.
func (n *Notifier) Refreshed(ctx context.Context, p identity.Principal) error {
	if n.store != nil && !n.store.NeedsRefresh(p) {
		return nil
	}
	return n.publish(ctx, KindTokenRefreshed, p.ID, &p)
}

func (n *Notifier) publish(ctx context.Context, kind Kind, id string, p *identity.Principal) error {
	at := n.now()
	return n.broker.Publish(ctx, Event{
		Kind:        kind,
		PrincipalID: id,
		Principal:   p,
		Seq:         n.nextSeq(at),
		At:          at,
	})
}

func (n *Notifier) nextSeq(at time.Time) int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	seq := at.UnixNano()
	if seq <= n.lastSeq {
		seq = n.lastSeq + 1
	}
	n.lastSeq = seq
	return seq
}

var _ identity.SessionNotifier = (*Notifier)(nil)
