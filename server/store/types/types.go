// Package types provides data types for persisting objects in the database.
package types

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"strings"
	"time"
)

// StoreError satisfies Error interface but allows constant values for direct comparison.
type StoreError string

// Error is required by error interface.
func (s StoreError) Error() string {
	return string(s)
}

const (
	// ErrInternal means DB or other internal failure.
	ErrInternal = StoreError("internal")
	// ErrMalformed means the input cannot be parsed or otherwise wrong.
	ErrMalformed = StoreError("malformed")
	// ErrFailed means authentication failed (wrong login or password, etc).
	ErrFailed = StoreError("failed")
	// ErrDuplicate means duplicate unique value.
	ErrDuplicate = StoreError("duplicate value")
	// ErrUnsupported means an operation is not supported.
	ErrUnsupported = StoreError("unsupported")
	// ErrExpired means the secret has expired.
	ErrExpired = StoreError("expired")
	// ErrNotFound means the referenced object was not found.
	ErrNotFound = StoreError("not found")
	// ErrPermissionDenied means the caller is not authorized for the operation.
	ErrPermissionDenied = StoreError("denied")
	// ErrThrottled means the posting cooldown has not elapsed yet.
	ErrThrottled = StoreError("throttled")
	// ErrBanned means the IP address or the account is banned.
	ErrBanned = StoreError("banned")
	// ErrLocked means the topic does not accept new posts.
	ErrLocked = StoreError("locked")
	// ErrPolicy means policy violation, e.g. password too weak.
	ErrPolicy = StoreError("policy")
)

// Uid is a database-specific record id, suitable to be used as a primary key.
type Uid uint64

// ZeroUid is a constant representing uninitialized Uid.
const ZeroUid Uid = 0

const (
	uidBase64Unpadded = 11
	uidBase64Padded   = 12
)

// IsZero checks if Uid is uninitialized.
func (uid Uid) IsZero() bool {
	return uid == 0
}

// Compare returns 0 if uid is equal to u2, 1 if u2 is greater than uid, -1 if u2 is smaller.
func (uid Uid) Compare(u2 Uid) int {
	if uid < u2 {
		return -1
	} else if uid > u2 {
		return 1
	}
	return 0
}

// MarshalBinary converts Uid to byte slice.
func (uid Uid) MarshalBinary() ([]byte, error) {
	dst := make([]byte, 8)
	binary.LittleEndian.PutUint64(dst, uint64(uid))
	return dst, nil
}

// UnmarshalBinary reads Uid from byte slice.
func (uid *Uid) UnmarshalBinary(b []byte) error {
	if len(b) < 8 {
		return errors.New("Uid.UnmarshalBinary: invalid length")
	}
	*uid = Uid(binary.LittleEndian.Uint64(b))
	return nil
}

// UnmarshalText reads Uid from string represented as byte slice.
func (uid *Uid) UnmarshalText(src []byte) error {
	if len(src) != uidBase64Unpadded {
		return errors.New("Uid.UnmarshalText: invalid length")
	}
	dec := make([]byte, base64.URLEncoding.DecodedLen(uidBase64Padded))
	for len(src) < uidBase64Padded {
		src = append(src, '=')
	}
	count, err := base64.URLEncoding.Decode(dec, src)
	if count < 8 {
		if err != nil {
			return errors.New("Uid.UnmarshalText: failed to decode " + err.Error())
		}
		return errors.New("Uid.UnmarshalText: failed to decode")
	}
	*uid = Uid(binary.LittleEndian.Uint64(dec))
	return nil
}

// MarshalText converts Uid to string represented as byte slice.
func (uid Uid) MarshalText() ([]byte, error) {
	if uid == 0 {
		return []byte{}, nil
	}
	src := make([]byte, 8)
	dst := make([]byte, base64.URLEncoding.EncodedLen(8))
	binary.LittleEndian.PutUint64(src, uint64(uid))
	base64.URLEncoding.Encode(dst, src)
	return dst[0:uidBase64Unpadded], nil
}

// MarshalJSON converts Uid to double quoted ("ajjj") string.
func (uid Uid) MarshalJSON() ([]byte, error) {
	dst, _ := uid.MarshalText()
	return append(append([]byte{'"'}, dst...), '"'), nil
}

// UnmarshalJSON reads Uid from a double quoted string.
func (uid *Uid) UnmarshalJSON(b []byte) error {
	size := len(b)
	if size != (uidBase64Unpadded + 2) {
		return errors.New("Uid.UnmarshalJSON: invalid length")
	} else if b[0] != '"' || b[size-1] != '"' {
		return errors.New("Uid.UnmarshalJSON: unrecognized")
	}
	return uid.UnmarshalText(b[1 : size-1])
}

// String converts Uid to its base64 string representation.
func (uid Uid) String() string {
	buf, _ := uid.MarshalText()
	return string(buf)
}

// ParseUid parses string NOT prefixed with anything.
func ParseUid(s string) Uid {
	var uid Uid
	uid.UnmarshalText([]byte(s))
	return uid
}

// UserId converts Uid to string prefixed with "usr", like usrXXXXX.
func (uid Uid) UserId() string {
	return uid.PrefixId("usr")
}

// PrefixId converts Uid to string prefixed with the given prefix.
func (uid Uid) PrefixId(prefix string) string {
	if uid.IsZero() {
		return ""
	}
	return prefix + uid.String()
}

// ParseUserId parses user ID of the form "usrXXXXXX".
func ParseUserId(s string) Uid {
	var uid Uid
	if strings.HasPrefix(s, "usr") {
		(&uid).UnmarshalText([]byte(s)[3:])
	}
	return uid
}

// ObjHeader is the header shared by all stored objects.
type ObjHeader struct {
	// Using string to avoid uint64 precision problems in JSON and BSON.
	Id        string `bson:"_id"`
	id        Uid
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Uid returns the id value of the header as Uid.
func (h *ObjHeader) Uid() Uid {
	if h.id.IsZero() && h.Id != "" {
		h.id.UnmarshalText([]byte(h.Id))
	}
	return h.id
}

// SetUid assigns given Uid to appropriate header fields.
func (h *ObjHeader) SetUid(uid Uid) {
	h.id = uid
	h.Id = uid.String()
}

// TimeNow returns current wall time in UTC rounded to milliseconds.
func TimeNow() time.Time {
	return time.Now().UTC().Round(time.Millisecond)
}

// InitTimes initializes time.Time variables in the header to current time.
func (h *ObjHeader) InitTimes() {
	if h.CreatedAt.IsZero() {
		h.CreatedAt = TimeNow()
	}
	h.UpdatedAt = h.CreatedAt
}

// MergeTimes intelligently copies time.Time variables from h2 to h.
func (h *ObjHeader) MergeTimes(h2 *ObjHeader) {
	// Set the creation time to the earliest value.
	if h.CreatedAt.IsZero() || (!h2.CreatedAt.IsZero() && h2.CreatedAt.Before(h.CreatedAt)) {
		h.CreatedAt = h2.CreatedAt
	}
	// Set the update time to the latest value.
	if h.UpdatedAt.Before(h2.UpdatedAt) {
		h.UpdatedAt = h2.UpdatedAt
	}
}

// ActionSet is a bitmap of moderation actions. A single bit is one action,
// a moderator's per-forum capability set is a union of bits.
type ActionSet uint

// Moderation action bits.
const (
	ActionPin ActionSet = 1 << iota // pin a topic or a post to the top
	ActionUnPin
	ActionLock // lock a topic: no new posts accepted
	ActionUnLock
	ActionDeleteTopic
	ActionDeletePost
	ActionBanAccount
	ActionUnBanAccount
	ActionBanIp
	ActionUnBanIp
	ActionModifyTag

	// ActionNone is an empty capability set.
	ActionNone ActionSet = 0

	// ActionInvalid is an invalid value to indicate an error.
	ActionInvalid ActionSet = 0x100000
)

var actionNames = []string{
	"Pin", "UnPin", "Lock", "UnLock", "DeleteTopic", "DeletePost",
	"BanAccount", "UnBanAccount", "BanIp", "UnBanIp", "ModifyTag",
}

// ParseAction parses a single action name as used on the wire, i.e. "DeleteTopic".
func ParseAction(name string) (ActionSet, error) {
	for i, n := range actionNames {
		if n == name {
			return 1 << uint(i), nil
		}
	}
	return ActionInvalid, ErrMalformed
}

// IsSet checks if all action bits of a2 are present in the set.
func (a ActionSet) IsSet(a2 ActionSet) bool {
	return a&a2 == a2
}

// MarshalText converts ActionSet to a comma-separated list of action names.
func (a ActionSet) MarshalText() ([]byte, error) {
	if a == ActionInvalid {
		return nil, errors.New("ActionSet invalid")
	}
	var names []string
	for i, n := range actionNames {
		if a&(1<<uint(i)) != 0 {
			names = append(names, n)
		}
	}
	return []byte(strings.Join(names, ",")), nil
}

// UnmarshalText parses a comma-separated list of action names.
// Does not change the value if the input is empty.
func (a *ActionSet) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	var set ActionSet
	for _, name := range strings.Split(string(b), ",") {
		one, err := ParseAction(strings.TrimSpace(name))
		if err != nil {
			return errors.New("ActionSet: invalid action '" + name + "'")
		}
		set |= one
	}
	*a = set
	return nil
}

// String returns the set as a comma-separated list of action names.
func (a ActionSet) String() string {
	res, err := a.MarshalText()
	if err != nil {
		return ""
	}
	return string(res)
}

// MarshalJSON converts ActionSet to a quoted string.
func (a ActionSet) MarshalJSON() ([]byte, error) {
	res, err := a.MarshalText()
	if err != nil {
		return nil, err
	}
	res = append([]byte{'"'}, res...)
	return append(res, '"'), nil
}

// UnmarshalJSON reads ActionSet from a quoted string.
func (a *ActionSet) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return errors.New("syntax error")
	}
	return a.UnmarshalText(b[1 : len(b)-1])
}

// User is a stored user account.
type User struct {
	ObjHeader

	// True if the user bypasses all per-forum capability checks.
	IsAdmin bool
	// True if the user is banned from creating content. Mutated by
	// moderation only; a banned user can still read.
	Banned bool
	// Lifetime count of posts authored by this user. Maintained as a side
	// effect of posting; consumed by the posting throttle.
	PostCount int

	// Application-defined data which is unrestricted in access (name, avatar).
	Public any
}

// ForumGrant is a moderator's capability set scoped to a single forum.
// At most one grant exists per (user, forum) pair.
type ForumGrant struct {
	User      string
	ForumId   int64
	Actions   ActionSet
	UpdatedAt time.Time
}

// Topic is a thread of posts under a forum.
type Topic struct {
	ObjHeader

	// Id of the forum owning this topic. Forum ids are assigned upstream,
	// not generated here.
	ForumId int64
	// True if the topic belongs to the hidden section of the forum.
	Hidden bool
	Title  string
	// Id of the author; empty for anonymous topics.
	Author string
	// Display name of an anonymous author; empty when Author is set.
	AuthorName string
	Pinned     bool
	// A locked topic rejects new posts.
	Locked bool
}

// AuthorUid returns the author as Uid, zero for anonymous topics.
func (t *Topic) AuthorUid() Uid {
	return ParseUid(t.Author)
}

// Post is a single message in a topic.
type Post struct {
	ObjHeader

	Topic string
	// Id of the author; empty for anonymous posts.
	Author string
	// Display name of an anonymous author; empty when Author is set.
	AuthorName string
	// Remote address the post was created from.
	IP      string
	Content string
	// Id of the older post this post quotes; empty if none. A post has at
	// most one outgoing quote edge, so quote ancestry forms a chain.
	QuotedId string
	Pinned   bool
}

// AuthorUid returns the author as Uid, zero for anonymous posts.
func (p *Post) AuthorUid() Uid {
	return ParseUid(p.Author)
}

// TopicUid returns the owning topic id as Uid.
func (p *Post) TopicUid() Uid {
	return ParseUid(p.Topic)
}

// QuotedUid returns the quoted post id as Uid, zero if the post quotes nothing.
func (p *Post) QuotedUid() Uid {
	return ParseUid(p.QuotedId)
}

// BannedIp is a set-membership record: presence blocks all content
// creation from the address regardless of account.
type BannedIp struct {
	IP        string
	CreatedAt time.Time
}

// ModerationRecord is an append-only audit entry. Never mutated or
// deleted once written.
type ModerationRecord struct {
	ObjHeader

	// The single action bit which was applied.
	Action ActionSet
	// Id of the moderator who acted.
	User string
	// Human-readable description naming what was acted upon. Kept
	// denormalized so the log remains meaningful after the target row
	// is gone.
	Label string
}
