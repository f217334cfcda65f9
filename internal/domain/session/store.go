package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"bookeasy/internal/domain/identity"
	"bookeasy/internal/domain/navigation"
)

var ErrAlreadyStarted = errors.New("session store already started")

// Store holds the latest resolved session of every principal it has seen.
// It is fed by a Broker between Start and Close; Apply may also be called
// directly. For each principal the event with the highest Seq wins and older
// ones are dropped on arrival.
type Store struct {
	broker Broker
	log    zerolog.Logger

	mu       sync.RWMutex
	current  map[string]Snapshot
	watchers map[string]map[int]chan Snapshot
	nextID   int

	cancel context.CancelFunc
	done   chan struct{}
}

func NewStore(broker Broker, log zerolog.Logger) *Store {
	return &Store{
		broker:   broker,
		log:      log.With().Str("component", "session").Logger(),
		current:  make(map[string]Snapshot),
		watchers: make(map[string]map[int]chan Snapshot),
	}
}

// Start subscribes to the broker and applies events until Close or ctx ends.
func (s *Store) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	ctx, cancel := context.WithCancel(ctx)
	events, unsubscribe, err := s.broker.Subscribe(ctx)
	if err != nil {
		s.mu.Unlock()
		cancel()
		return err
	}
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				s.Apply(ev)
			}
		}
	}()

	s.log.Info().Msg("session store started")
	return nil
}

// Close stops the subscription and closes every watcher channel.
func (s *Store) Close() error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ws := range s.watchers {
		for _, ch := range ws {
			close(ch)
		}
		delete(s.watchers, id)
	}
	return nil
}

// Apply folds ev into the store and reports whether it was newer than the
// current snapshot of its principal.
func (s *Store) Apply(ev Event) bool {
	id := ev.PrincipalID
	if id == "" && ev.Principal != nil {
		id = ev.Principal.ID
	}
	if id == "" {
		return false
	}

	snap := Snapshot{PrincipalID: id, Seq: ev.Seq}
	switch ev.Kind {
	case KindSignedIn, KindTokenRefreshed:
		if ev.Principal == nil {
			s.log.Warn().Str("principal_id", id).Str("kind", string(ev.Kind)).Msg("event without principal")
			return false
		}
		p := *ev.Principal
		role := p.Role()
		snap.Authenticated = true
		snap.Principal = &p
		snap.Role = role
		snap.HomePath = navigation.HomePath(role)
	case KindSignedOut:
		snap.HomePath = "/"
	default:
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.current[id]; ok && ev.Seq <= prev.Seq {
		s.log.Debug().Str("principal_id", id).Int64("seq", ev.Seq).Int64("current", prev.Seq).Msg("stale session event dropped")
		return false
	}
	s.current[id] = snap

	for _, ch := range s.watchers[id] {
		// keep only the newest snapshot for slow readers
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return true
}

func (s *Store) Current(principalID string) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.current[principalID]
	return snap, ok
}

// Watch streams snapshots of one principal. The returned func stops the
// stream and closes the channel.
func (s *Store) Watch(principalID string) (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Snapshot, 1)
	id := s.nextID
	s.nextID++
	if s.watchers[principalID] == nil {
		s.watchers[principalID] = make(map[int]chan Snapshot)
	}
	s.watchers[principalID][id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if ws, ok := s.watchers[principalID]; ok {
				if c, ok := ws[id]; ok {
					delete(ws, id)
					close(c)
				}
				if len(ws) == 0 {
					delete(s.watchers, principalID)
				}
			}
		})
	}
}

// NeedsRefresh reports whether p carries profile data the stored session has
// not seen. A signed-out session is not revived by an old token.
func (s *Store) NeedsRefresh(p identity.Principal) bool {
	snap, ok := s.Current(p.ID)
	if !ok {
		return true
	}
	if !snap.Authenticated {
		return false
	}
	return snap.Principal == nil || *snap.Principal != p
}
