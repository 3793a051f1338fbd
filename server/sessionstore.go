/******************************************************************************
 *
 *  Description :
 *
 *  Management of long-lived presence sessions.
 *
 *****************************************************************************/

package main

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hiddenjvc/server/server/logs"
	"github.com/hiddenjvc/server/server/store"
)

// SessionStore holds live sessions indexed by session ID.
type SessionStore struct {
	lock sync.Mutex

	// All sessions indexed by session ID.
	sessCache map[string]*Session
}

// NewSession creates a new session and saves it to the session store.
func (ss *SessionStore) NewSession(conn *websocket.Conn, sid string) (*Session, int) {
	var s Session

	s.sid = sid
	if s.sid == "" {
		s.sid = store.Store.GetUidString()
	}
	s.ws = conn
	s.send = make(chan any, sendQueueLimit+32) // buffered
	s.stop = make(chan any, 1)                 // Buffered by 1 just to make it non-blocking
	s.lastAction = time.Now()

	ss.lock.Lock()
	if _, found := ss.sessCache[s.sid]; found {
		logs.Err.Println("ERROR! duplicate session ID", s.sid)
	}
	ss.sessCache[s.sid] = &s
	count := len(ss.sessCache)
	ss.lock.Unlock()

	statsSet("LiveSessions", int64(count))
	statsInc("TotalSessions", 1)

	return &s, count
}

// Get fetches a session from the store by session ID.
func (ss *SessionStore) Get(sid string) *Session {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	return ss.sessCache[sid]
}

// Delete removes session from the store.
func (ss *SessionStore) Delete(s *Session) {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	delete(ss.sessCache, s.sid)

	statsSet("LiveSessions", int64(len(ss.sessCache)))
}

// Range calls given function for all sessions. It stops if the function returns false.
func (ss *SessionStore) Range(f func(sid string, s *Session) bool) {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	for sid, s := range ss.sessCache {
		if !f(sid, s) {
			break
		}
	}
}

// Shutdown terminates sessionStore. No need to clean up.
func (ss *SessionStore) Shutdown() {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	shutdown := NoErrShutdown(time.Now().UTC().Round(time.Millisecond))
	for _, s := range ss.sessCache {
		if s.stop != nil {
			s.stop <- s.serialize(shutdown)
		}
	}

	logs.Info.Println("SessionStore shut down, sessions terminated:", len(ss.sessCache))
}

// NewSessionStore initializes a session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessCache: make(map[string]*Session),
	}
}
