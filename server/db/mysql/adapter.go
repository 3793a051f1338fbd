// Package mysql is a database adapter backed by MySQL or a compatible fork.
package mysql

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	ms "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/hiddenjvc/server/server/store"
	t "github.com/hiddenjvc/server/server/store/types"
)

// adapter holds MySQL connection data.
type adapter struct {
	db         *sqlx.DB
	dsn        string
	dbName     string
	maxResults int
	version    int
}

const (
	defaultDSN      = "root:@tcp(localhost:3306)/hiddenjvc?parseTime=true"
	defaultDatabase = "hiddenjvc"

	adpVersion = 100

	adapterName = "mysql"

	defaultMaxResults = 1024
)

type configType struct {
	DSN    string `json:"dsn,omitempty"`
	DBName string `json:"database,omitempty"`

	// Connection pool settings.
	MaxOpenConns    int `json:"max_open_conns,omitempty"`
	MaxIdleConns    int `json:"max_idle_conns,omitempty"`
	ConnMaxLifetime int `json:"conn_max_lifetime,omitempty"`
}

// Open initializes the MySQL connection pool.
func (a *adapter) Open(jsonconfig json.RawMessage) error {
	if a.db != nil {
		return errors.New("mysql adapter is already connected")
	}

	var err error
	var config configType
	if err = json.Unmarshal(jsonconfig, &config); err != nil {
		return errors.New("mysql adapter failed to parse config: " + err.Error())
	}

	a.dsn = config.DSN
	if a.dsn == "" {
		a.dsn = defaultDSN
	}
	a.dbName = config.DBName
	if a.dbName == "" {
		a.dbName = defaultDatabase
	}
	if a.maxResults <= 0 {
		a.maxResults = defaultMaxResults
	}

	// This just initializes the driver but does not open the network connection.
	a.db, err = sqlx.Open("mysql", a.dsn)
	if err != nil {
		return err
	}

	// Actually opening the network connection.
	err = a.db.Ping()
	if isMissingDb(err) {
		// Ignore missing database here. If we are initializing the database
		// missing DB is OK.
		err = nil
	}
	if err == nil {
		if config.MaxOpenConns > 0 {
			a.db.SetMaxOpenConns(config.MaxOpenConns)
		}
		if config.MaxIdleConns > 0 {
			a.db.SetMaxIdleConns(config.MaxIdleConns)
		}
		if config.ConnMaxLifetime > 0 {
			a.db.SetConnMaxLifetime(time.Duration(config.ConnMaxLifetime) * time.Second)
		}
	}
	return err
}

// Close closes the underlying database connection.
func (a *adapter) Close() error {
	var err error
	if a.db != nil {
		err = a.db.Close()
		a.db = nil
		a.version = -1
	}
	return err
}

// IsOpen returns true if the adapter is ready for use.
func (a *adapter) IsOpen() bool {
	return a.db != nil
}

// GetDbVersion returns the current version of the database.
func (a *adapter) GetDbVersion() (int, error) {
	if a.version > 0 {
		return a.version, nil
	}

	var vers int
	if err := a.db.Get(&vers, "SELECT `value` FROM kvmeta WHERE `key`='version'"); err != nil {
		if isMissingDb(err) || isMissingTable(err) || err == sql.ErrNoRows {
			err = errors.New("Database not initialized")
		}
		return -1, err
	}
	a.version = vers

	return vers, nil
}

// CheckDbVersion checks the current database version against the expected one.
func (a *adapter) CheckDbVersion() error {
	version, err := a.GetDbVersion()
	if err != nil {
		return err
	}

	if version != adpVersion {
		return errors.New("Invalid database version " + strconv.Itoa(version) +
			". Expected " + strconv.Itoa(adpVersion))
	}

	return nil
}

// Version returns adapter version.
func (a *adapter) Version() int {
	return adpVersion
}

// GetName returns string that adapter uses to register itself with store.
func (a *adapter) GetName() string {
	return adapterName
}

// SetMaxResults configures how many results of a bulk query to return.
func (a *adapter) SetMaxResults(val int) error {
	if val <= 0 {
		a.maxResults = defaultMaxResults
	} else {
		a.maxResults = val
	}
	return nil
}

// Stats returns connection pool stats.
func (a *adapter) Stats() any {
	if a.db == nil {
		return nil
	}
	return a.db.Stats()
}

// CreateDb initializes the storage.
func (a *adapter) CreateDb(reset bool) error {
	var err error
	var tx *sql.Tx

	// Can't use an existing connection because it's configured with the
	// database name which may not exist yet.
	a.db.Close()
	a.db, err = sqlx.Open("mysql", a.dsn)
	if err != nil {
		return err
	}

	if tx, err = a.db.Begin(); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if reset {
		if _, err = tx.Exec("DROP DATABASE IF EXISTS " + a.dbName); err != nil {
			return err
		}
	}

	if _, err = tx.Exec("CREATE DATABASE " + a.dbName + " CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"); err != nil {
		return err
	}

	if _, err = tx.Exec("USE " + a.dbName); err != nil {
		return err
	}

	if _, err = tx.Exec(
		`CREATE TABLE users(
			id        BIGINT NOT NULL,
			createdat DATETIME(3) NOT NULL,
			updatedat DATETIME(3) NOT NULL,
			isadmin   TINYINT NOT NULL DEFAULT 0,
			banned    TINYINT NOT NULL DEFAULT 0,
			postcount INT NOT NULL DEFAULT 0,
			public    JSON,
			PRIMARY KEY(id)
		)`); err != nil {
		return err
	}

	// Indexed users.id.
	if _, err = tx.Exec(
		`CREATE TABLE auth(
			uname   VARCHAR(32) NOT NULL,
			userid  BIGINT NOT NULL,
			secret  VARCHAR(255) NOT NULL,
			expires DATETIME(3),
			PRIMARY KEY(uname),
			FOREIGN KEY(userid) REFERENCES users(id),
			INDEX auth_userid(userid)
		)`); err != nil {
		return err
	}

	if _, err = tx.Exec(
		`CREATE TABLE grants(
			userid    BIGINT NOT NULL,
			forumid   BIGINT NOT NULL,
			actions   VARCHAR(255) NOT NULL DEFAULT '',
			updatedat DATETIME(3) NOT NULL,
			PRIMARY KEY(userid, forumid),
			FOREIGN KEY(userid) REFERENCES users(id)
		)`); err != nil {
		return err
	}

	if _, err = tx.Exec(
		`CREATE TABLE topics(
			id         BIGINT NOT NULL,
			createdat  DATETIME(3) NOT NULL,
			updatedat  DATETIME(3) NOT NULL,
			forumid    BIGINT NOT NULL,
			hidden     TINYINT NOT NULL DEFAULT 0,
			title      VARCHAR(255) NOT NULL,
			author     BIGINT,
			authorname VARCHAR(64) NOT NULL DEFAULT '',
			pinned     TINYINT NOT NULL DEFAULT 0,
			locked     TINYINT NOT NULL DEFAULT 0,
			PRIMARY KEY(id),
			INDEX topics_forumid(forumid)
		)`); err != nil {
		return err
	}

	if _, err = tx.Exec(
		`CREATE TABLE posts(
			id         BIGINT NOT NULL,
			createdat  DATETIME(3) NOT NULL,
			updatedat  DATETIME(3) NOT NULL,
			topicid    BIGINT NOT NULL,
			author     BIGINT,
			authorname VARCHAR(64) NOT NULL DEFAULT '',
			ip         VARCHAR(45) NOT NULL DEFAULT '',
			content    TEXT NOT NULL,
			quotedid   BIGINT,
			pinned     TINYINT NOT NULL DEFAULT 0,
			PRIMARY KEY(id),
			FOREIGN KEY(topicid) REFERENCES topics(id),
			INDEX posts_ip_createdat(ip, createdat)
		)`); err != nil {
		return err
	}

	if _, err = tx.Exec(
		`CREATE TABLE bannedips(
			ip        VARCHAR(45) NOT NULL,
			createdat DATETIME(3) NOT NULL,
			PRIMARY KEY(ip)
		)`); err != nil {
		return err
	}

	if _, err = tx.Exec(
		`CREATE TABLE modlog(
			id        BIGINT NOT NULL,
			createdat DATETIME(3) NOT NULL,
			action    VARCHAR(32) NOT NULL,
			userid    BIGINT NOT NULL,
			label     VARCHAR(255) NOT NULL DEFAULT '',
			PRIMARY KEY(id),
			INDEX modlog_createdat(createdat)
		)`); err != nil {
		return err
	}

	if _, err = tx.Exec(
		"CREATE TABLE kvmeta(`key` CHAR(32), `value` TEXT, PRIMARY KEY(`key`))"); err != nil {
		return err
	}
	if _, err = tx.Exec("INSERT INTO kvmeta(`key`, `value`) VALUES('version', ?)", adpVersion); err != nil {
		return err
	}

	return tx.Commit()
}

// UpgradeDb upgrades the database to the current adapter version.
func (a *adapter) UpgradeDb() error {
	if _, err := a.GetDbVersion(); err != nil {
		return err
	}
	if err := a.CheckDbVersion(); err != nil {
		return errors.New("Unable to perform automatic upgrade. Use a migration tool")
	}
	return nil
}

// Rows of the tables as stored. Ids are stored decrypted, see
// store.DecodeUid for details.

type userRow struct {
	Id        int64     `db:"id"`
	CreatedAt time.Time `db:"createdat"`
	UpdatedAt time.Time `db:"updatedat"`
	IsAdmin   bool      `db:"isadmin"`
	Banned    bool      `db:"banned"`
	PostCount int       `db:"postcount"`
	Public    []byte    `db:"public"`
}

func (row *userRow) user() (*t.User, error) {
	var user t.User
	user.SetUid(store.EncodeUid(row.Id))
	user.CreatedAt = row.CreatedAt
	user.UpdatedAt = row.UpdatedAt
	user.IsAdmin = row.IsAdmin
	user.Banned = row.Banned
	user.PostCount = row.PostCount
	if len(row.Public) > 0 {
		if err := json.Unmarshal(row.Public, &user.Public); err != nil {
			return nil, err
		}
	}
	return &user, nil
}

type topicRow struct {
	Id         int64         `db:"id"`
	CreatedAt  time.Time     `db:"createdat"`
	UpdatedAt  time.Time     `db:"updatedat"`
	ForumId    int64         `db:"forumid"`
	Hidden     bool          `db:"hidden"`
	Title      string        `db:"title"`
	Author     sql.NullInt64 `db:"author"`
	AuthorName string        `db:"authorname"`
	Pinned     bool          `db:"pinned"`
	Locked     bool          `db:"locked"`
}

func (row *topicRow) topic() *t.Topic {
	var topic t.Topic
	topic.SetUid(store.EncodeUid(row.Id))
	topic.CreatedAt = row.CreatedAt
	topic.UpdatedAt = row.UpdatedAt
	topic.ForumId = row.ForumId
	topic.Hidden = row.Hidden
	topic.Title = row.Title
	if row.Author.Valid {
		topic.Author = store.EncodeUid(row.Author.Int64).String()
	}
	topic.AuthorName = row.AuthorName
	topic.Pinned = row.Pinned
	topic.Locked = row.Locked
	return &topic
}

type postRow struct {
	Id         int64         `db:"id"`
	CreatedAt  time.Time     `db:"createdat"`
	UpdatedAt  time.Time     `db:"updatedat"`
	TopicId    int64         `db:"topicid"`
	Author     sql.NullInt64 `db:"author"`
	AuthorName string        `db:"authorname"`
	IP         string        `db:"ip"`
	Content    string        `db:"content"`
	QuotedId   sql.NullInt64 `db:"quotedid"`
	Pinned     bool          `db:"pinned"`
}

func (row *postRow) post() *t.Post {
	var post t.Post
	post.SetUid(store.EncodeUid(row.Id))
	post.CreatedAt = row.CreatedAt
	post.UpdatedAt = row.UpdatedAt
	post.Topic = store.EncodeUid(row.TopicId).String()
	if row.Author.Valid {
		post.Author = store.EncodeUid(row.Author.Int64).String()
	}
	post.AuthorName = row.AuthorName
	post.IP = row.IP
	post.Content = row.Content
	if row.QuotedId.Valid {
		post.QuotedId = store.EncodeUid(row.QuotedId.Int64).String()
	}
	post.Pinned = row.Pinned
	return &post
}

// decodeUidString converts a Uid in its base64 string form to the stored int64.
func decodeUidString(s string) sql.NullInt64 {
	uid := t.ParseUid(s)
	if uid.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: store.DecodeUid(uid), Valid: true}
}

// decodeUids converts a list of Uids to a list of stored int64 ids.
func decodeUids(ids []t.Uid) []any {
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, store.DecodeUid(id))
	}
	return out
}

// updateToSql converts an update map keyed by Go field names to an SQL
// assignment list plus arguments. Unknown fields are rejected.
func updateToSql(update map[string]any) (string, []any, error) {
	parts := make([]string, 0, len(update))
	args := make([]any, 0, len(update))
	for field, value := range update {
		switch field {
		case "Pinned", "Locked", "Hidden", "Banned", "IsAdmin", "UpdatedAt",
			"Title", "Content", "AuthorName", "PostCount":
			parts = append(parts, strings.ToLower(field)+"=?")
			args = append(args, value)
		default:
			return "", nil, t.ErrMalformed
		}
	}
	return strings.Join(parts, ","), args, nil
}

// User management.

// UserCreate creates a user record.
func (a *adapter) UserCreate(user *t.User) error {
	public, err := json.Marshal(user.Public)
	if err != nil {
		return err
	}
	_, err = a.db.Exec(
		"INSERT INTO users(id,createdat,updatedat,isadmin,banned,postcount,public) VALUES(?,?,?,?,?,?,?)",
		store.DecodeUid(user.Uid()), user.CreatedAt, user.UpdatedAt,
		user.IsAdmin, user.Banned, user.PostCount, public)
	if isDupe(err) {
		return t.ErrDuplicate
	}
	return err
}

// UserGet fetches a single user by user id.
func (a *adapter) UserGet(uid t.Uid) (*t.User, error) {
	var row userRow
	err := a.db.Get(&row,
		"SELECT id,createdat,updatedat,isadmin,banned,postcount,public FROM users WHERE id=?",
		store.DecodeUid(uid))
	if err == sql.ErrNoRows {
		// Clear the error if user does not exist.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.user()
}

// UserGetAll returns user records for a given list of user IDs.
func (a *adapter) UserGetAll(ids ...t.Uid) ([]t.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(
		"SELECT id,createdat,updatedat,isadmin,banned,postcount,public FROM users WHERE id IN (?)",
		decodeUids(ids))
	if err != nil {
		return nil, err
	}

	var rows []userRow
	if err = a.db.Select(&rows, query, args...); err != nil {
		return nil, err
	}

	users := make([]t.User, 0, len(rows))
	for i := range rows {
		user, err := rows[i].user()
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, nil
}

// UserUpdate updates user record.
func (a *adapter) UserUpdate(uid t.Uid, update map[string]any) error {
	if public, ok := update["Public"]; ok {
		blob, err := json.Marshal(public)
		if err != nil {
			return err
		}
		updatedAt := update["UpdatedAt"]
		delete(update, "Public")
		res, err := a.db.Exec("UPDATE users SET public=?,updatedat=? WHERE id=?",
			blob, updatedAt, store.DecodeUid(uid))
		if err != nil {
			return err
		}
		if len(update) <= 1 {
			if count, _ := res.RowsAffected(); count == 0 {
				return t.ErrNotFound
			}
			return nil
		}
	}

	assignments, args, err := updateToSql(update)
	if err != nil {
		return err
	}
	args = append(args, store.DecodeUid(uid))
	_, err = a.db.Exec("UPDATE users SET "+assignments+" WHERE id=?", args...)
	return err
}

// UserSetBanned sets or clears the Banned flag on all given accounts atomically.
func (a *adapter) UserSetBanned(ids []t.Uid, banned bool) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In("UPDATE users SET banned=?,updatedat=? WHERE id IN (?)",
		banned, t.TimeNow(), decodeUids(ids))
	if err != nil {
		return err
	}
	_, err = a.db.Exec(query, args...)
	return err
}

// UserIncPostCount increments the lifetime post counter of a user.
func (a *adapter) UserIncPostCount(uid t.Uid) error {
	_, err := a.db.Exec("UPDATE users SET postcount=postcount+1 WHERE id=?",
		store.DecodeUid(uid))
	return err
}

// Authentication management.

// AuthGetRecord returns user id, secret and expiration time by the unique login.
func (a *adapter) AuthGetRecord(unique string) (t.Uid, []byte, time.Time, error) {
	var record struct {
		Userid  int64        `db:"userid"`
		Secret  []byte       `db:"secret"`
		Expires sql.NullTime `db:"expires"`
	}
	err := a.db.Get(&record, "SELECT userid,secret,expires FROM auth WHERE uname=?", unique)
	if err == sql.ErrNoRows {
		return t.ZeroUid, nil, time.Time{}, t.ErrNotFound
	}
	if err != nil {
		return t.ZeroUid, nil, time.Time{}, err
	}
	return store.EncodeUid(record.Userid), record.Secret, record.Expires.Time, nil
}

// AuthAddRecord creates a new authentication record for the given user.
func (a *adapter) AuthAddRecord(uid t.Uid, unique string, secret []byte, expires time.Time) error {
	var exp any
	if !expires.IsZero() {
		exp = expires
	}
	_, err := a.db.Exec("INSERT INTO auth(uname,userid,secret,expires) VALUES(?,?,?,?)",
		unique, store.DecodeUid(uid), secret, exp)
	if isDupe(err) {
		return t.ErrDuplicate
	}
	return err
}

// AuthDelRecords deletes all authentication records of the given user.
func (a *adapter) AuthDelRecords(uid t.Uid) error {
	_, err := a.db.Exec("DELETE FROM auth WHERE userid=?", store.DecodeUid(uid))
	return err
}

// Moderator grants.

// GrantGet fetches the capability set of a user scoped to one forum.
func (a *adapter) GrantGet(user t.Uid, forumId int64) (*t.ForumGrant, error) {
	var row struct {
		Actions   string    `db:"actions"`
		UpdatedAt time.Time `db:"updatedat"`
	}
	err := a.db.Get(&row, "SELECT actions,updatedat FROM grants WHERE userid=? AND forumid=?",
		store.DecodeUid(user), forumId)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	grant := &t.ForumGrant{User: user.String(), ForumId: forumId, UpdatedAt: row.UpdatedAt}
	if err = grant.Actions.UnmarshalText([]byte(row.Actions)); err != nil {
		return nil, err
	}
	return grant, nil
}

// GrantsForUser fetches all per-forum grants of a user.
func (a *adapter) GrantsForUser(user t.Uid) ([]t.ForumGrant, error) {
	var rows []struct {
		ForumId   int64     `db:"forumid"`
		Actions   string    `db:"actions"`
		UpdatedAt time.Time `db:"updatedat"`
	}
	err := a.db.Select(&rows, "SELECT forumid,actions,updatedat FROM grants WHERE userid=?",
		store.DecodeUid(user))
	if err != nil {
		return nil, err
	}

	grants := make([]t.ForumGrant, 0, len(rows))
	for i := range rows {
		grant := t.ForumGrant{User: user.String(), ForumId: rows[i].ForumId, UpdatedAt: rows[i].UpdatedAt}
		if err = grant.Actions.UnmarshalText([]byte(rows[i].Actions)); err != nil {
			return nil, err
		}
		grants = append(grants, grant)
	}
	return grants, nil
}

// GrantUpsert creates or replaces a grant.
func (a *adapter) GrantUpsert(grant *t.ForumGrant) error {
	actions, err := grant.Actions.MarshalText()
	if err != nil {
		return t.ErrMalformed
	}
	_, err = a.db.Exec(
		"INSERT INTO grants(userid,forumid,actions,updatedat) VALUES(?,?,?,?) "+
			"ON DUPLICATE KEY UPDATE actions=VALUES(actions),updatedat=VALUES(updatedat)",
		store.DecodeUid(t.ParseUid(grant.User)), grant.ForumId, string(actions), grant.UpdatedAt)
	return err
}

// GrantDelete removes a grant.
func (a *adapter) GrantDelete(user t.Uid, forumId int64) error {
	_, err := a.db.Exec("DELETE FROM grants WHERE userid=? AND forumid=?",
		store.DecodeUid(user), forumId)
	return err
}

// Topic management.

// TopicCreate creates a topic.
func (a *adapter) TopicCreate(topic *t.Topic) error {
	_, err := a.db.Exec(
		"INSERT INTO topics(id,createdat,updatedat,forumid,hidden,title,author,authorname,pinned,locked) "+
			"VALUES(?,?,?,?,?,?,?,?,?,?)",
		store.DecodeUid(topic.Uid()), topic.CreatedAt, topic.UpdatedAt,
		topic.ForumId, topic.Hidden, topic.Title, decodeUidString(topic.Author),
		topic.AuthorName, topic.Pinned, topic.Locked)
	if isDupe(err) {
		return t.ErrDuplicate
	}
	return err
}

// TopicGet loads a single topic by id.
func (a *adapter) TopicGet(tid t.Uid) (*t.Topic, error) {
	var row topicRow
	err := a.db.Get(&row,
		"SELECT id,createdat,updatedat,forumid,hidden,title,author,authorname,pinned,locked "+
			"FROM topics WHERE id=?", store.DecodeUid(tid))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.topic(), nil
}

// TopicGetAll loads multiple topics by a list of ids.
func (a *adapter) TopicGetAll(ids ...t.Uid) ([]t.Topic, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(
		"SELECT id,createdat,updatedat,forumid,hidden,title,author,authorname,pinned,locked "+
			"FROM topics WHERE id IN (?)", decodeUids(ids))
	if err != nil {
		return nil, err
	}

	var rows []topicRow
	if err = a.db.Select(&rows, query, args...); err != nil {
		return nil, err
	}

	topics := make([]t.Topic, 0, len(rows))
	for i := range rows {
		topics = append(topics, *rows[i].topic())
	}
	return topics, nil
}

// TopicUpdateAll applies the same field update to all given topics atomically.
func (a *adapter) TopicUpdateAll(ids []t.Uid, update map[string]any) error {
	if len(ids) == 0 {
		return nil
	}
	assignments, args, err := updateToSql(update)
	if err != nil {
		return err
	}
	query, args, err := sqlx.In("UPDATE topics SET "+assignments+" WHERE id IN (?)",
		append(args, decodeUids(ids))...)
	if err != nil {
		return err
	}
	_, err = a.db.Exec(query, args...)
	return err
}

// TopicDelAll removes all given topics and their posts atomically.
func (a *adapter) TopicDelAll(ids []t.Uid) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := a.db.Beginx()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	query, args, err := sqlx.In("DELETE FROM posts WHERE topicid IN (?)", decodeUids(ids))
	if err != nil {
		return err
	}
	if _, err = tx.Exec(query, args...); err != nil {
		return err
	}

	query, args, err = sqlx.In("DELETE FROM topics WHERE id IN (?)", decodeUids(ids))
	if err != nil {
		return err
	}
	if _, err = tx.Exec(query, args...); err != nil {
		return err
	}

	return tx.Commit()
}

// Post management.

// PostCreate saves a post to the database.
func (a *adapter) PostCreate(post *t.Post) error {
	_, err := a.db.Exec(
		"INSERT INTO posts(id,createdat,updatedat,topicid,author,authorname,ip,content,quotedid,pinned) "+
			"VALUES(?,?,?,?,?,?,?,?,?,?)",
		store.DecodeUid(post.Uid()), post.CreatedAt, post.UpdatedAt,
		store.DecodeUid(post.TopicUid()), decodeUidString(post.Author),
		post.AuthorName, post.IP, post.Content, decodeUidString(post.QuotedId), post.Pinned)
	if isDupe(err) {
		return t.ErrDuplicate
	}
	return err
}

// PostGet loads a single post by id.
func (a *adapter) PostGet(pid t.Uid) (*t.Post, error) {
	var row postRow
	err := a.db.Get(&row,
		"SELECT id,createdat,updatedat,topicid,author,authorname,ip,content,quotedid,pinned "+
			"FROM posts WHERE id=?", store.DecodeUid(pid))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.post(), nil
}

// PostGetAll loads multiple posts by a list of ids.
func (a *adapter) PostGetAll(ids ...t.Uid) ([]t.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(
		"SELECT id,createdat,updatedat,topicid,author,authorname,ip,content,quotedid,pinned "+
			"FROM posts WHERE id IN (?)", decodeUids(ids))
	if err != nil {
		return nil, err
	}

	var rows []postRow
	if err = a.db.Select(&rows, query, args...); err != nil {
		return nil, err
	}

	posts := make([]t.Post, 0, len(rows))
	for i := range rows {
		posts = append(posts, *rows[i].post())
	}
	return posts, nil
}

// PostUpdateAll applies the same field update to all given posts atomically.
func (a *adapter) PostUpdateAll(ids []t.Uid, update map[string]any) error {
	if len(ids) == 0 {
		return nil
	}
	assignments, args, err := updateToSql(update)
	if err != nil {
		return err
	}
	query, args, err := sqlx.In("UPDATE posts SET "+assignments+" WHERE id IN (?)",
		append(args, decodeUids(ids))...)
	if err != nil {
		return err
	}
	_, err = a.db.Exec(query, args...)
	return err
}

// PostDelAll removes all given posts atomically.
func (a *adapter) PostDelAll(ids []t.Uid) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In("DELETE FROM posts WHERE id IN (?)", decodeUids(ids))
	if err != nil {
		return err
	}
	_, err = a.db.Exec(query, args...)
	return err
}

// PostLastByIP fetches the most recent post created from the given address.
func (a *adapter) PostLastByIP(ip string) (*t.Post, error) {
	var row postRow
	err := a.db.Get(&row,
		"SELECT id,createdat,updatedat,topicid,author,authorname,ip,content,quotedid,pinned "+
			"FROM posts WHERE ip=? ORDER BY createdat DESC,id DESC LIMIT 1", ip)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.post(), nil
}

// IP ban list.

// BanIPGet checks if the address is present in the ban list.
func (a *adapter) BanIPGet(ip string) (bool, error) {
	var one int
	err := a.db.Get(&one, "SELECT 1 FROM bannedips WHERE ip=?", ip)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// BanIPAdd inserts the address into the ban list if not already present.
func (a *adapter) BanIPAdd(ban *t.BannedIp) (bool, error) {
	res, err := a.db.Exec("INSERT IGNORE INTO bannedips(ip,createdat) VALUES(?,?)",
		ban.IP, ban.CreatedAt)
	if err != nil {
		return false, err
	}
	count, err := res.RowsAffected()
	return count > 0, err
}

// BanIPDel removes all matching addresses from the ban list.
func (a *adapter) BanIPDel(ip string) error {
	_, err := a.db.Exec("DELETE FROM bannedips WHERE ip=?", ip)
	return err
}

// Moderation audit log.

// ModLogAppend appends records to the audit log as one atomic operation.
func (a *adapter) ModLogAppend(recs ...*t.ModerationRecord) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := a.db.Beginx()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, rec := range recs {
		if _, err = tx.Exec("INSERT INTO modlog(id,createdat,action,userid,label) VALUES(?,?,?,?,?)",
			store.DecodeUid(rec.Uid()), rec.CreatedAt, rec.Action.String(),
			store.DecodeUid(t.ParseUid(rec.User)), rec.Label); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ModLogGetAll fetches the most recent audit records, newest first.
func (a *adapter) ModLogGetAll(limit int) ([]t.ModerationRecord, error) {
	if limit <= 0 || limit > a.maxResults {
		limit = a.maxResults
	}

	var rows []struct {
		Id        int64     `db:"id"`
		CreatedAt time.Time `db:"createdat"`
		Action    string    `db:"action"`
		Userid    int64     `db:"userid"`
		Label     string    `db:"label"`
	}
	err := a.db.Select(&rows,
		"SELECT id,createdat,action,userid,label FROM modlog ORDER BY createdat DESC,id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, err
	}

	recs := make([]t.ModerationRecord, 0, len(rows))
	for i := range rows {
		var rec t.ModerationRecord
		rec.SetUid(store.EncodeUid(rows[i].Id))
		rec.CreatedAt = rows[i].CreatedAt
		rec.UpdatedAt = rows[i].CreatedAt
		if err = rec.Action.UnmarshalText([]byte(rows[i].Action)); err != nil {
			return nil, err
		}
		rec.User = store.EncodeUid(rows[i].Userid).String()
		rec.Label = rows[i].Label
		recs = append(recs, rec)
	}
	return recs, nil
}

// Check if MySQL error is a duplicate key error.
func isDupe(err error) bool {
	if err == nil {
		return false
	}
	myerr, ok := err.(*ms.MySQLError)
	return ok && myerr.Number == 1062
}

// Check if MySQL error is the unknown database error.
func isMissingDb(err error) bool {
	if err == nil {
		return false
	}
	myerr, ok := err.(*ms.MySQLError)
	return ok && myerr.Number == 1049
}

// Check if MySQL error is the unknown table error.
func isMissingTable(err error) bool {
	if err == nil {
		return false
	}
	myerr, ok := err.(*ms.MySQLError)
	return ok && myerr.Number == 1146
}

func init() {
	store.RegisterAdapter(&adapter{})
}
