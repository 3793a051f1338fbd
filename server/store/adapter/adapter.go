// Package adapter contains the interfaces to be implemented by the database adapter.
package adapter

import (
	"encoding/json"
	"time"

	t "github.com/hiddenjvc/server/server/store/types"
)

// Adapter is the interface which must be implemented by a database adapter.
// The schema supports a single connection by database type.
//
// Every call is expected to execute as one atomic unit against the
// database: bulk updates and deletes either apply to all given ids or to
// none, so a concurrent reader never observes a partially applied batch.
type Adapter interface {
	// Open and configure the adapter.
	Open(config json.RawMessage) error
	// Close the adapter.
	Close() error
	// IsOpen checks if the adapter is ready for use.
	IsOpen() bool
	// GetDbVersion returns the current database version.
	GetDbVersion() (int, error)
	// CheckDbVersion checks if the actual database version matches adapter's expected version.
	CheckDbVersion() error
	// GetName returns the name of the adapter.
	GetName() string
	// SetMaxResults configures how many results of a bulk query to return.
	SetMaxResults(val int) error
	// CreateDb creates the database optionally dropping an existing database first.
	CreateDb(reset bool) error
	// UpgradeDb upgrades the database to the current adapter version.
	UpgradeDb() error
	// Version returns adapter version.
	Version() int
	// Stats returns connection stats object.
	Stats() any

	// User management.

	// UserCreate creates a user record.
	UserCreate(user *t.User) error
	// UserGet fetches a single user by id. Returns (nil, nil) if the user is not found.
	UserGet(uid t.Uid) (*t.User, error)
	// UserGetAll fetches multiple users by a list of ids. Unknown ids are skipped.
	UserGetAll(ids ...t.Uid) ([]t.User, error)
	// UserUpdate updates user record fields.
	UserUpdate(uid t.Uid, update map[string]any) error
	// UserSetBanned sets or clears the Banned flag on all given accounts
	// as one atomic operation.
	UserSetBanned(ids []t.Uid, banned bool) error
	// UserIncPostCount increments the lifetime post counter of a user.
	UserIncPostCount(uid t.Uid) error

	// Authentication management for the basic authentication scheme.

	// AuthGetRecord returns user id, secret and expiration time by the unique login.
	AuthGetRecord(unique string) (t.Uid, []byte, time.Time, error)
	// AuthAddRecord creates a new authentication record for the given user.
	AuthAddRecord(uid t.Uid, unique string, secret []byte, expires time.Time) error
	// AuthDelRecords deletes all authentication records of the given user.
	AuthDelRecords(uid t.Uid) error

	// Moderator grants.

	// GrantGet fetches the capability set of a user scoped to one forum.
	// Returns (nil, nil) if no grant exists.
	GrantGet(user t.Uid, forumId int64) (*t.ForumGrant, error)
	// GrantsForUser fetches all per-forum grants of a user.
	GrantsForUser(user t.Uid) ([]t.ForumGrant, error)
	// GrantUpsert creates or replaces a grant.
	GrantUpsert(grant *t.ForumGrant) error
	// GrantDelete removes a grant.
	GrantDelete(user t.Uid, forumId int64) error

	// Topic management.

	// TopicCreate creates a topic.
	TopicCreate(topic *t.Topic) error
	// TopicGet fetches a single topic by id. Returns (nil, nil) if the topic is not found.
	TopicGet(tid t.Uid) (*t.Topic, error)
	// TopicGetAll fetches multiple topics by a list of ids. Unknown ids are skipped.
	TopicGetAll(ids ...t.Uid) ([]t.Topic, error)
	// TopicUpdateAll applies the same field update to all given topics atomically.
	TopicUpdateAll(ids []t.Uid, update map[string]any) error
	// TopicDelAll removes all given topics and their posts atomically.
	TopicDelAll(ids []t.Uid) error

	// Post management.

	// PostCreate saves a post to the database.
	PostCreate(post *t.Post) error
	// PostGet fetches a single post by id. Returns (nil, nil) if the post is not found.
	PostGet(pid t.Uid) (*t.Post, error)
	// PostGetAll fetches multiple posts by a list of ids. Unknown ids are skipped.
	PostGetAll(ids ...t.Uid) ([]t.Post, error)
	// PostUpdateAll applies the same field update to all given posts atomically.
	PostUpdateAll(ids []t.Uid, update map[string]any) error
	// PostDelAll removes all given posts atomically.
	PostDelAll(ids []t.Uid) error
	// PostLastByIP fetches the most recent post created from the given
	// address across all forums. Returns (nil, nil) if the address never posted.
	PostLastByIP(ip string) (*t.Post, error)

	// IP ban list.

	// BanIPGet checks if the address is present in the ban list.
	BanIPGet(ip string) (bool, error)
	// BanIPAdd inserts the address into the ban list if not already
	// present. Returns true if the address was actually inserted.
	BanIPAdd(ban *t.BannedIp) (bool, error)
	// BanIPDel removes all matching addresses from the ban list.
	BanIPDel(ip string) error

	// Moderation audit log.

	// ModLogAppend appends records to the audit log as one atomic operation.
	ModLogAppend(recs ...*t.ModerationRecord) error
	// ModLogGetAll fetches the most recent audit records, newest first.
	ModLogGetAll(limit int) ([]t.ModerationRecord, error)
}
