/******************************************************************************
 *
 *  Description :
 *
 *  Handling of a single long-lived presence connection: message
 *  dispatch, authentication and the guaranteed-cleanup obligation.
 *
 *****************************************************************************/

package main

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hiddenjvc/server/server/auth"
	"github.com/hiddenjvc/server/server/logs"
	"github.com/hiddenjvc/server/server/store"
	"github.com/hiddenjvc/server/server/store/types"
)

// Maximum number of queued messages before the session is considered stale
// and is terminated.
const sendQueueLimit = 128

// Session is a single long-lived presence connection.
type Session struct {
	// Session ID.
	sid string

	// Websocket connection.
	ws *websocket.Conn

	// IP address of the client. Presence membership is keyed by it.
	remoteAddr string

	// Time when the session received any packet from the client.
	lastAction time.Time

	// User id of the authenticated user; zero for anonymous viewers.
	uid types.Uid
	// Server-side session id issued with the token.
	authSid string
	// Authentication level of the user.
	authLvl auth.Level
	// Cached public profile of the authenticated user, attached to
	// presence rooms so membership can be listed.
	public any

	// Outbound messages, buffered. The content must be serialized in
	// format suitable for the session.
	send chan any

	// Channel for shutting down the session, buffered by 1.
	stop chan any

	// Rooms this connection joined. Accessed from the readLoop goroutine
	// only; cleanUp reads them after the readLoop has terminated.
	joinedForums map[int64]bool
	joinedTopics map[string]bool

	// cleanUp must run exactly once even if both loops exit with errors.
	cleanupOnce sync.Once
}

// queueOut attempts to send a ServerComMessage to the session write loop;
// returns false if the send buffer is full.
func (s *Session) queueOut(msg *ServerComMessage) bool {
	if s == nil {
		return true
	}
	if len(s.send) == sendQueueLimit {
		logs.Err.Println("s.queueOut: session send queue full", s.sid)
		return false
	}

	select {
	case s.send <- s.serialize(msg):
	case <-time.After(time.Millisecond * 50):
		logs.Err.Println("s.queueOut: timeout", s.sid)
		return false
	}
	return true
}

func (s *Session) serialize(msg *ServerComMessage) any {
	out, _ := json.Marshal(msg)
	return out
}

// cleanUp is called when the session is terminated for any reason. It
// releases presence membership and removes the session from the store.
// Guaranteed to run its body at most once.
func (s *Session) cleanUp() {
	s.cleanupOnce.Do(func() {
		var forums []int64
		for forumId := range s.joinedForums {
			forums = append(forums, forumId)
		}
		var topicKeys []string
		for key := range s.joinedTopics {
			topicKeys = append(topicKeys, key)
		}
		globals.tracker.Leave(s.remoteAddr, forums, topicKeys)

		globals.sessionStore.Delete(s)
	})
}

// dispatchRaw parses the message and calls dispatch.
func (s *Session) dispatchRaw(raw []byte) {
	now := types.TimeNow()

	var msg ClientComMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		logs.Warn.Println("s.dispatch: parse error", err, s.sid)
		s.queueOut(ErrMalformedReply("", now))
		return
	}

	s.dispatch(&msg)
}

// dispatch handles one parsed client message.
func (s *Session) dispatch(msg *ClientComMessage) {
	now := types.TimeNow()
	s.lastAction = now

	switch {
	case msg.Login != nil:
		s.handleLogin(msg.Login, now)

	case msg.Join != nil:
		s.handleJoin(msg.Join, now)

	default:
		// Unknown or empty message.
		s.queueOut(ErrMalformedReply("", now))
	}
}

// handleLogin authenticates the connection. Presence tracking works
// without it; a successful login additionally attaches the viewer's
// public identity to the rooms it joins.
func (s *Session) handleLogin(msg *MsgClientLogin, now time.Time) {
	handler := globals.authHandlers[msg.Scheme]
	if handler == nil {
		s.queueOut(ErrMalformedReply(msg.Id, now))
		return
	}

	rec, err := handler.Authenticate(msg.Secret)
	if err != nil {
		logs.Warn.Println("s.login: failed", err, s.sid)
		s.queueOut(ErrAuthFailedReply(msg.Id, now))
		return
	}

	user, err := store.Users.Get(rec.Uid)
	if err != nil {
		logs.Err.Println("s.login: cannot fetch user", err, s.sid)
		s.queueOut(ErrUnknownReply(msg.Id, now))
		return
	}
	if user == nil {
		s.queueOut(ErrAuthFailedReply(msg.Id, now))
		return
	}

	s.uid = rec.Uid
	s.authSid = rec.SessionId
	s.authLvl = rec.AuthLevel
	s.public = user.Public

	s.queueOut(NoErrParams(msg.Id, now, map[string]any{"user": rec.Uid.UserId()}))
}

// handleJoin declares interest in a forum and optionally a topic, and
// replies with the updated viewer counts.
func (s *Session) handleJoin(msg *MsgClientJoin, now time.Time) {
	if msg.Forum <= 0 {
		s.queueOut(ErrMalformedReply(msg.Id, now))
		return
	}

	var topicKey string
	if msg.Topic != "" {
		topic := types.ParseUid(msg.Topic)
		if topic.IsZero() {
			s.queueOut(ErrMalformedReply(msg.Id, now))
			return
		}
		topicKey = presenceTopicKey(msg.Forum, msg.Hidden, topic)
	}

	forumCount, topicCount, forumUsers, topicUsers :=
		globals.tracker.Join(s.remoteAddr, msg.Forum, topicKey, s.public)

	if s.joinedForums == nil {
		s.joinedForums = make(map[int64]bool)
	}
	s.joinedForums[msg.Forum] = true
	if topicKey != "" {
		if s.joinedTopics == nil {
			s.joinedTopics = make(map[string]bool)
		}
		s.joinedTopics[topicKey] = true
	}

	params := map[string]any{"forumCount": forumCount}
	if topicKey != "" {
		params["topicCount"] = topicCount
	}
	if len(forumUsers) > 0 {
		params["forumUsers"] = forumUsers
	}
	if len(topicUsers) > 0 {
		params["topicUsers"] = topicUsers
	}

	s.queueOut(NoErrParams(msg.Id, now, params))
}
