/******************************************************************************
 *
 *  Description :
 *
 *  Live presence tracker: concurrent viewer counts per forum and per
 *  topic, keyed by the remote network identity of the connection.
 *
 *****************************************************************************/

package main

import (
	"strconv"
	"sync"

	"github.com/hiddenjvc/server/server/store/types"
)

// presenceMember is one distinct viewer inside a room.
type presenceMember struct {
	// Public identity of the viewer if any of its connections was
	// authenticated; nil for purely anonymous viewers.
	public any
}

// PresenceTracker maintains two registries: forum id to the set of
// viewing connections and topic key to the set of viewing connections.
//
// The member key is the connection's remote network identity, not the
// socket: multiple tabs from the same origin collapse into one count.
// The count approximates distinct viewers, not distinct connections.
//
// The tracker is the single owner of both maps; every access goes
// through the mutex. Counting requires read-then-write on a set, which
// is not atomic across connections without it.
type PresenceTracker struct {
	lock sync.Mutex

	forums map[int64]map[string]*presenceMember
	topics map[string]map[string]*presenceMember
}

// NewPresenceTracker initializes an empty tracker.
func NewPresenceTracker() *PresenceTracker {
	return &PresenceTracker{
		forums: make(map[int64]map[string]*presenceMember),
		topics: make(map[string]map[string]*presenceMember),
	}
}

// presenceTopicKey builds the composite room key of a topic. The forum id
// and the section flag are part of the key so the same topic id in two
// different sections cannot collide.
func presenceTopicKey(forumId int64, hidden bool, topic types.Uid) string {
	h := "0"
	if hidden {
		h = "1"
	}
	return strconv.FormatInt(forumId, 10) + "-" + h + "-" + topic.String()
}

// Join records the connection's interest in a forum and optionally in one
// of its topics, and returns the updated counts plus the listable members
// of each room. A repeated join from the same key is idempotent for the
// same room and additive for a new room.
func (pt *PresenceTracker) Join(connKey string, forumId int64, topicKey string, public any) (
	forumCount, topicCount int, forumUsers, topicUsers []any) {

	pt.lock.Lock()
	defer pt.lock.Unlock()

	forumCount, forumUsers = joinRoom(pt.forums, forumId, connKey, public)
	if topicKey != "" {
		topicCount, topicUsers = joinRoom(pt.topics, topicKey, connKey, public)
	}

	statsSet("LivePresenceForums", int64(len(pt.forums)))
	statsSet("LivePresenceTopics", int64(len(pt.topics)))

	return
}

// Leave removes the connection's key from every room it joined and drops
// rooms which became empty, so memory stays bounded by the currently
// active rooms.
func (pt *PresenceTracker) Leave(connKey string, forums []int64, topicKeys []string) {
	pt.lock.Lock()
	defer pt.lock.Unlock()

	for _, forumId := range forums {
		leaveRoom(pt.forums, forumId, connKey)
	}
	for _, key := range topicKeys {
		leaveRoom(pt.topics, key, connKey)
	}

	statsSet("LivePresenceForums", int64(len(pt.forums)))
	statsSet("LivePresenceTopics", int64(len(pt.topics)))
}

// ForumCount returns the current viewer count of a forum.
func (pt *PresenceTracker) ForumCount(forumId int64) int {
	pt.lock.Lock()
	defer pt.lock.Unlock()
	return len(pt.forums[forumId])
}

// TopicCount returns the current viewer count of a topic room.
func (pt *PresenceTracker) TopicCount(topicKey string) int {
	pt.lock.Lock()
	defer pt.lock.Unlock()
	return len(pt.topics[topicKey])
}

// ForumTracked reports if the forum still has a live room entry.
func (pt *PresenceTracker) ForumTracked(forumId int64) bool {
	pt.lock.Lock()
	defer pt.lock.Unlock()
	_, ok := pt.forums[forumId]
	return ok
}

// TopicTracked reports if the topic room still has a live entry.
func (pt *PresenceTracker) TopicTracked(topicKey string) bool {
	pt.lock.Lock()
	defer pt.lock.Unlock()
	_, ok := pt.topics[topicKey]
	return ok
}

func joinRoom[K comparable](rooms map[K]map[string]*presenceMember, room K, connKey string,
	public any) (int, []any) {

	members := rooms[room]
	if members == nil {
		members = make(map[string]*presenceMember)
		rooms[room] = members
	}

	member := members[connKey]
	if member == nil {
		member = &presenceMember{}
		members[connKey] = member
	}
	if public != nil {
		// The latest authenticated tab wins.
		member.public = public
	}

	var users []any
	for _, m := range members {
		if m.public != nil {
			users = append(users, m.public)
		}
	}
	return len(members), users
}

func leaveRoom[K comparable](rooms map[K]map[string]*presenceMember, room K, connKey string) {
	members := rooms[room]
	if members == nil {
		return
	}
	delete(members, connKey)
	if len(members) == 0 {
		delete(rooms, room)
	}
}
