package server

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/freestyle/internal/beats"
	"codeberg.org/snonux/freestyle/internal/scheduler"
)

// session is one browser's practice state
type session struct {
	id    string
	sched *scheduler.Scheduler
	deck  *beats.Deck

	lastAccess time.Time // guarded by sessionStore.mu
	syncDone   chan struct{}
}

// view is the JSON shape of a session
type view struct {
	scheduler.Snapshot
	Deck beats.DeckState `json:"deck"`
}

func (s *session) view() view {
	return view{Snapshot: s.sched.Snapshot(), Deck: s.deck.State()}
}

// followScheduler keeps the deck playing exactly while the scheduler
// generates, including forced stops
func (s *session) followScheduler() {
	updates, _ := s.sched.Subscribe()
	s.syncDone = make(chan struct{})
	go func() {
		defer close(s.syncDone)
		for snap := range updates {
			s.deck.SetPlaying(snap.Generating())
		}
	}()
}

func (s *session) close() {
	s.sched.Close()
	if s.syncDone != nil {
		<-s.syncDone
	}
}

type sessionFactory func(id string) (*session, error)

// sessionStore is the in-memory session table
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	create   sessionFactory
	now      func() time.Time
	logger   *zap.Logger
	closed   bool
}

func newSessionStore(create sessionFactory, now func() time.Time, logger *zap.Logger) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*session),
		create:   create,
		now:      now,
		logger:   logger,
	}
}

// getOrCreate returns the session for id, creating it on first use
func (st *sessionStore) getOrCreate(id string) (*session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.closed {
		return nil, errServerClosed
	}
	if sess, ok := st.sessions[id]; ok {
		sess.lastAccess = st.now()
		return sess, nil
	}

	sess, err := st.create(id)
	if err != nil {
		return nil, err
	}
	sess.lastAccess = st.now()
	st.sessions[id] = sess
	st.logger.Info("Created session", zap.String("session", id))
	return sess, nil
}

// touch marks a session as used
func (st *sessionStore) touch(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if sess, ok := st.sessions[id]; ok {
		sess.lastAccess = st.now()
	}
}

// sweep closes sessions idle for longer than maxIdle and returns how many
func (st *sessionStore) sweep(maxIdle time.Duration) int {
	st.mu.Lock()
	var expired []*session
	cutoff := st.now().Add(-maxIdle)
	for id, sess := range st.sessions {
		if sess.lastAccess.Before(cutoff) {
			expired = append(expired, sess)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, sess := range expired {
		sess.close()
		st.logger.Info("Expired idle session", zap.String("session", sess.id))
	}
	return len(expired)
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// closeAll closes every session and refuses new ones
func (st *sessionStore) closeAll() {
	st.mu.Lock()
	st.closed = true
	all := make([]*session, 0, len(st.sessions))
	for id, sess := range st.sessions {
		all = append(all, sess)
		delete(st.sessions, id)
	}
	st.mu.Unlock()

	for _, sess := range all {
		sess.close()
	}
}
