// Package store provides methods for registering and accessing database adapters.
package store

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/hiddenjvc/server/server/store/adapter"
	"github.com/hiddenjvc/server/server/store/types"
)

var adp adapter.Adapter
var availableAdapters = make(map[string]adapter.Adapter)

// Unique ID generator.
var uGen types.UidGenerator

type configType struct {
	// 16-byte key for XTEA. Used to initialize types.UidGenerator.
	UidKey []byte `json:"uid_key"`
	// Maximum number of results to return from adapter.
	MaxResults int `json:"max_results"`
	// DB adapter name to use. Should be one of those specified in `Adapters`.
	UseAdapter string `json:"use_adapter"`
	// Configurations for individual adapters.
	Adapters map[string]json.RawMessage `json:"adapters"`
}

func openAdapter(workerId int, jsonconf json.RawMessage) error {
	var config configType
	if err := json.Unmarshal(jsonconf, &config); err != nil {
		return errors.New("store: failed to parse config: " + err.Error() + "(" + string(jsonconf) + ")")
	}

	if adp == nil {
		if len(config.UseAdapter) > 0 {
			// Adapter name specified explicitly.
			if ad, ok := availableAdapters[config.UseAdapter]; ok {
				adp = ad
			} else {
				return errors.New("store: " + config.UseAdapter + " adapter is not available in this binary")
			}
		} else if len(availableAdapters) == 1 {
			// Default to the only entry in availableAdapters.
			for _, v := range availableAdapters {
				adp = v
			}
		} else {
			return errors.New("store: db adapter is not specified. Please set `store_config.use_adapter`")
		}
	}

	if adp.IsOpen() {
		return errors.New("store: connection is already opened")
	}

	if workerId < 0 || workerId > 1023 {
		return errors.New("store: invalid worker ID")
	}

	if err := uGen.Init(uint(workerId), config.UidKey); err != nil {
		return errors.New("store: failed to init snowflake: " + err.Error())
	}

	if err := adp.SetMaxResults(config.MaxResults); err != nil {
		return err
	}

	var adapterConfig json.RawMessage
	if config.Adapters != nil {
		adapterConfig = config.Adapters[adp.GetName()]
	}

	return adp.Open(adapterConfig)
}

// PersistentStorageInterface defines methods used for interaction with persistent storage.
type PersistentStorageInterface interface {
	Open(workerId int, jsonconf json.RawMessage) error
	Close() error
	IsOpen() bool
	GetAdapterName() string
	GetAdapterVersion() int
	GetDbVersion() int
	InitDb(jsonconf json.RawMessage, reset bool) error
	UpgradeDb(jsonconf json.RawMessage) error
	GetUid() types.Uid
	GetUidString() string
	DbStats() func() any
}

// Store is the main object for interacting with persistent storage.
var Store PersistentStorageInterface = storeObj{}

type storeObj struct{}

// Open initializes the persistence system. Adapter holds a connection pool
// for a database instance.
//
//	workerId - snowflake worker id of this process
//	jsonconf - configuration string
func (storeObj) Open(workerId int, jsonconf json.RawMessage) error {
	if err := openAdapter(workerId, jsonconf); err != nil {
		return err
	}

	return adp.CheckDbVersion()
}

// Close terminates connection to persistent storage.
func (storeObj) Close() error {
	if adp.IsOpen() {
		return adp.Close()
	}

	return nil
}

// IsOpen checks if persistent storage connection has been initialized.
func (storeObj) IsOpen() bool {
	if adp != nil {
		return adp.IsOpen()
	}

	return false
}

// GetAdapterName returns the name of the current adapter.
func (storeObj) GetAdapterName() string {
	if adp != nil {
		return adp.GetName()
	}

	return ""
}

// GetAdapterVersion returns version of the current adapter.
func (storeObj) GetAdapterVersion() int {
	if adp != nil {
		return adp.Version()
	}

	return -1
}

// GetDbVersion returns version of the underlying database.
func (storeObj) GetDbVersion() int {
	if adp != nil {
		vers, _ := adp.GetDbVersion()
		return vers
	}

	return -1
}

// InitDb creates and configures a new database instance. If 'reset' is true it will first
// attempt to drop an existing database. If jsonconf is nil it will assume that the adapter
// is already open. If it's non-nil and the adapter is not open, it will use the config string
// to open the adapter first.
func (s storeObj) InitDb(jsonconf json.RawMessage, reset bool) error {
	if !s.IsOpen() {
		if err := openAdapter(1, jsonconf); err != nil {
			return err
		}
	}
	return adp.CreateDb(reset)
}

// UpgradeDb performs an upgrade of the database to the current adapter version.
// If jsonconf is nil it will assume that the adapter is already open. If it's non-nil and
// the adapter is not open, it will use the config string to open the adapter first.
func (s storeObj) UpgradeDb(jsonconf json.RawMessage) error {
	if !s.IsOpen() {
		if err := openAdapter(1, jsonconf); err != nil {
			return err
		}
	}
	return adp.UpgradeDb()
}

// RegisterAdapter makes a persistence adapter available.
// If Register is called twice or if the adapter is nil, it panics.
func RegisterAdapter(a adapter.Adapter) {
	if a == nil {
		panic("store: Register adapter is nil")
	}

	adapterName := a.GetName()
	if _, ok := availableAdapters[adapterName]; ok {
		panic("store: adapter '" + adapterName + "' is already registered")
	}
	availableAdapters[adapterName] = a
}

// GetUid generates a unique ID suitable for use as a primary key.
func (storeObj) GetUid() types.Uid {
	return uGen.Get()
}

// GetUidString generates a unique ID as a string.
func (storeObj) GetUidString() string {
	return uGen.GetStr()
}

// DecodeUid takes an XTEA encrypted Uid and decrypts it into an int64.
// This is needed for SQL compatibility. The original int64 values
// are generated by snowflake which ensures that the top bit is unset.
func DecodeUid(uid types.Uid) int64 {
	if uid.IsZero() {
		return 0
	}
	return uGen.DecodeUid(uid)
}

// EncodeUid applies XTEA encryption to an int64 value. It's the inverse of DecodeUid.
func EncodeUid(id int64) types.Uid {
	if id == 0 {
		return types.ZeroUid
	}
	return uGen.EncodeInt64(id)
}

// DbStats returns a callback returning db connection stats object.
func (s storeObj) DbStats() func() any {
	if !s.IsOpen() {
		return nil
	}
	return adp.Stats
}

// UsersPersistenceInterface is an interface which defines methods for persistent storage of user records.
type UsersPersistenceInterface interface {
	Create(user *types.User) (*types.User, error)
	Get(uid types.Uid) (*types.User, error)
	GetAll(uid ...types.Uid) ([]types.User, error)
	Update(uid types.Uid, update map[string]any) error
	SetBanned(ids []types.Uid, banned bool) error
	IncPostCount(uid types.Uid) error
	GetAuthRecord(unique string) (types.Uid, []byte, time.Time, error)
	AddAuthRecord(uid types.Uid, unique string, secret []byte, expires time.Time) error
	DelAuthRecords(uid types.Uid) error
}

// UsersObjMapper is a concrete type which implements UsersPersistenceInterface.
type UsersObjMapper struct{}

// Users is the anchor for storing/retrieving User objects.
var Users UsersPersistenceInterface = UsersObjMapper{}

// Create inserts a User object into the database, updates creation time and assigns Uid.
func (UsersObjMapper) Create(user *types.User) (*types.User, error) {
	user.SetUid(Store.GetUid())
	user.InitTimes()

	if err := adp.UserCreate(user); err != nil {
		return nil, err
	}

	return user, nil
}

// Get returns a user object for the given user id.
func (UsersObjMapper) Get(uid types.Uid) (*types.User, error) {
	return adp.UserGet(uid)
}

// GetAll returns a slice of user objects for the given user ids.
func (UsersObjMapper) GetAll(uid ...types.Uid) ([]types.User, error) {
	return adp.UserGetAll(uid...)
}

// Update is a general-purpose update of user data.
func (UsersObjMapper) Update(uid types.Uid, update map[string]any) error {
	if _, ok := update["UpdatedAt"]; !ok {
		update["UpdatedAt"] = types.TimeNow()
	}
	return adp.UserUpdate(uid, update)
}

// SetBanned sets or clears the Banned flag on all given accounts atomically.
func (UsersObjMapper) SetBanned(ids []types.Uid, banned bool) error {
	if len(ids) == 0 {
		return nil
	}
	return adp.UserSetBanned(ids, banned)
}

// IncPostCount increments the lifetime post counter of a user.
func (UsersObjMapper) IncPostCount(uid types.Uid) error {
	return adp.UserIncPostCount(uid)
}

// GetAuthRecord takes a unique identifier, fetches user ID and authentication secret.
func (UsersObjMapper) GetAuthRecord(unique string) (types.Uid, []byte, time.Time, error) {
	return adp.AuthGetRecord(unique)
}

// AddAuthRecord creates a new authentication record for the given user.
func (UsersObjMapper) AddAuthRecord(uid types.Uid, unique string, secret []byte, expires time.Time) error {
	return adp.AuthAddRecord(uid, unique, secret, expires)
}

// DelAuthRecords deletes all authentication records of the given user.
func (UsersObjMapper) DelAuthRecords(uid types.Uid) error {
	return adp.AuthDelRecords(uid)
}

// GrantsPersistenceInterface is an interface which defines methods for persistent storage of moderator grants.
type GrantsPersistenceInterface interface {
	Get(user types.Uid, forumId int64) (*types.ForumGrant, error)
	GetForUser(user types.Uid) ([]types.ForumGrant, error)
	Upsert(grant *types.ForumGrant) error
	Delete(user types.Uid, forumId int64) error
}

// GrantsObjMapper is a concrete type which implements GrantsPersistenceInterface.
type GrantsObjMapper struct{}

// Grants is the anchor for storing/retrieving ForumGrant objects.
var Grants GrantsPersistenceInterface = GrantsObjMapper{}

// Get fetches the capability set of a user scoped to one forum.
func (GrantsObjMapper) Get(user types.Uid, forumId int64) (*types.ForumGrant, error) {
	return adp.GrantGet(user, forumId)
}

// GetForUser fetches all per-forum grants of a user.
func (GrantsObjMapper) GetForUser(user types.Uid) ([]types.ForumGrant, error) {
	return adp.GrantsForUser(user)
}

// Upsert creates or replaces a grant.
func (GrantsObjMapper) Upsert(grant *types.ForumGrant) error {
	grant.UpdatedAt = types.TimeNow()
	return adp.GrantUpsert(grant)
}

// Delete removes a grant.
func (GrantsObjMapper) Delete(user types.Uid, forumId int64) error {
	return adp.GrantDelete(user, forumId)
}

// TopicsPersistenceInterface is an interface which defines methods for persistent storage of topics.
type TopicsPersistenceInterface interface {
	Create(topic *types.Topic) (*types.Topic, error)
	Get(tid types.Uid) (*types.Topic, error)
	GetAll(tid ...types.Uid) ([]types.Topic, error)
	UpdateAll(ids []types.Uid, update map[string]any) error
	DeleteAll(ids []types.Uid) error
}

// TopicsObjMapper is a concrete type which implements TopicsPersistenceInterface.
type TopicsObjMapper struct{}

// Topics is the anchor for storing/retrieving Topic objects.
var Topics TopicsPersistenceInterface = TopicsObjMapper{}

// Create inserts a Topic object into the database, updates creation time and assigns Uid.
func (TopicsObjMapper) Create(topic *types.Topic) (*types.Topic, error) {
	topic.SetUid(Store.GetUid())
	topic.InitTimes()

	if err := adp.TopicCreate(topic); err != nil {
		return nil, err
	}
	return topic, nil
}

// Get loads a single topic by id.
func (TopicsObjMapper) Get(tid types.Uid) (*types.Topic, error) {
	return adp.TopicGet(tid)
}

// GetAll loads multiple topics by a list of ids.
func (TopicsObjMapper) GetAll(tid ...types.Uid) ([]types.Topic, error) {
	return adp.TopicGetAll(tid...)
}

// UpdateAll applies the same field update to all given topics atomically.
func (TopicsObjMapper) UpdateAll(ids []types.Uid, update map[string]any) error {
	if len(ids) == 0 {
		return nil
	}
	if _, ok := update["UpdatedAt"]; !ok {
		update["UpdatedAt"] = types.TimeNow()
	}
	return adp.TopicUpdateAll(ids, update)
}

// DeleteAll removes all given topics and their posts atomically.
func (TopicsObjMapper) DeleteAll(ids []types.Uid) error {
	if len(ids) == 0 {
		return nil
	}
	return adp.TopicDelAll(ids)
}

// PostsPersistenceInterface is an interface which defines methods for persistent storage of posts.
type PostsPersistenceInterface interface {
	Create(post *types.Post) (*types.Post, error)
	Get(pid types.Uid) (*types.Post, error)
	GetAll(pid ...types.Uid) ([]types.Post, error)
	UpdateAll(ids []types.Uid, update map[string]any) error
	DeleteAll(ids []types.Uid) error
	LastByIP(ip string) (*types.Post, error)
}

// PostsObjMapper is a concrete type which implements PostsPersistenceInterface.
type PostsObjMapper struct{}

// Posts is the anchor for storing/retrieving Post objects.
var Posts PostsPersistenceInterface = PostsObjMapper{}

// Create inserts a Post object into the database, updates creation time,
// assigns Uid and bumps the author's lifetime post counter.
func (PostsObjMapper) Create(post *types.Post) (*types.Post, error) {
	post.SetUid(Store.GetUid())
	post.InitTimes()

	if err := adp.PostCreate(post); err != nil {
		return nil, err
	}

	if author := post.AuthorUid(); !author.IsZero() {
		if err := adp.UserIncPostCount(author); err != nil {
			return nil, err
		}
	}

	return post, nil
}

// Get loads a single post by id.
func (PostsObjMapper) Get(pid types.Uid) (*types.Post, error) {
	return adp.PostGet(pid)
}

// GetAll loads multiple posts by a list of ids.
func (PostsObjMapper) GetAll(pid ...types.Uid) ([]types.Post, error) {
	return adp.PostGetAll(pid...)
}

// UpdateAll applies the same field update to all given posts atomically.
func (PostsObjMapper) UpdateAll(ids []types.Uid, update map[string]any) error {
	if len(ids) == 0 {
		return nil
	}
	if _, ok := update["UpdatedAt"]; !ok {
		update["UpdatedAt"] = types.TimeNow()
	}
	return adp.PostUpdateAll(ids, update)
}

// DeleteAll removes all given posts atomically.
func (PostsObjMapper) DeleteAll(ids []types.Uid) error {
	if len(ids) == 0 {
		return nil
	}
	return adp.PostDelAll(ids)
}

// LastByIP loads the most recent post created from the given address.
func (PostsObjMapper) LastByIP(ip string) (*types.Post, error) {
	return adp.PostLastByIP(ip)
}

// BansPersistenceInterface is an interface which defines methods for persistent storage of banned addresses.
type BansPersistenceInterface interface {
	IsBanned(ip string) (bool, error)
	Add(ip string) (bool, error)
	Delete(ip string) error
}

// BansObjMapper is a concrete type which implements BansPersistenceInterface.
type BansObjMapper struct{}

// Bans is the anchor for storing/retrieving BannedIp objects.
var Bans BansPersistenceInterface = BansObjMapper{}

// IsBanned checks if the address is present in the ban list.
func (BansObjMapper) IsBanned(ip string) (bool, error) {
	return adp.BanIPGet(ip)
}

// Add inserts the address into the ban list if not already present.
// Returns true if the address was actually inserted.
func (BansObjMapper) Add(ip string) (bool, error) {
	return adp.BanIPAdd(&types.BannedIp{IP: ip, CreatedAt: types.TimeNow()})
}

// Delete removes all matching addresses from the ban list.
func (BansObjMapper) Delete(ip string) error {
	return adp.BanIPDel(ip)
}

// ModLogPersistenceInterface is an interface which defines methods for the append-only audit log.
type ModLogPersistenceInterface interface {
	Append(recs ...*types.ModerationRecord) error
	GetAll(limit int) ([]types.ModerationRecord, error)
}

// ModLogObjMapper is a concrete type which implements ModLogPersistenceInterface.
type ModLogObjMapper struct{}

// ModLog is the anchor for storing/retrieving ModerationRecord objects.
var ModLog ModLogPersistenceInterface = ModLogObjMapper{}

// Append assigns Uids and creation times to records and appends them to
// the audit log as one atomic operation.
func (ModLogObjMapper) Append(recs ...*types.ModerationRecord) error {
	if len(recs) == 0 {
		return nil
	}
	for _, rec := range recs {
		rec.SetUid(Store.GetUid())
		rec.InitTimes()
	}
	return adp.ModLogAppend(recs...)
}

// GetAll fetches the most recent audit records, newest first.
func (ModLogObjMapper) GetAll(limit int) ([]types.ModerationRecord, error) {
	return adp.ModLogGetAll(limit)
}
