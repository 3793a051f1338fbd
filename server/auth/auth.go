// Package auth provides interfaces and types for implementing authentication handlers.
package auth

import (
	"encoding/json"
	"time"

	"github.com/hiddenjvc/server/server/store/types"
)

// Level is the type for authentication levels.
type Level int

// Authentication levels.
const (
	// LevelNone is undefined/not authenticated.
	LevelNone Level = iota * 10
	// LevelAnon is anonymous user/light authentication.
	LevelAnon
	// LevelAuth is fully authenticated user.
	LevelAuth
	// LevelRoot is an administrator.
	LevelRoot
)

// String implements Stringer interface for Level.
func (a Level) String() string {
	switch a {
	case LevelNone:
		return ""
	case LevelAnon:
		return "anon"
	case LevelAuth:
		return "auth"
	case LevelRoot:
		return "root"
	default:
		return "unkn"
	}
}

// ParseAuthLevel parses authentication level from a string.
func ParseAuthLevel(name string) Level {
	switch name {
	case "anon", "ANON":
		return LevelAnon
	case "auth", "AUTH":
		return LevelAuth
	case "root", "ROOT":
		return LevelRoot
	default:
		return LevelNone
	}
}

// MarshalText converts Level to a slice of bytes with the name of the level.
func (a Level) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses authentication level from a string.
func (a *Level) UnmarshalText(b []byte) error {
	*a = ParseAuthLevel(string(b))
	return nil
}

// Rec is an authentication record: the outcome of validating a secret.
type Rec struct {
	// User who owns the record.
	Uid types.Uid `json:"uid,omitempty"`
	// Server-side session the record was issued for.
	SessionId string `json:"sid,omitempty"`
	// Authentication level of the record.
	AuthLevel Level `json:"authlvl,omitempty"`
	// Lifetime of the record: how long the secret is valid for.
	Lifetime time.Duration `json:"lifetime,omitempty"`
}

// AuthHandler is the interface which auth providers must implement.
type AuthHandler interface {
	// Init initializes the handler taking config and logical name as parameters.
	Init(jsonconf json.RawMessage, name string) error

	// IsInitialized returns true if the handler is initialized.
	IsInitialized() bool

	// AddRecord adds a persistent authentication record to the database.
	// Returns the updated auth record.
	AddRecord(rec *Rec, secret []byte) (*Rec, error)

	// Authenticate: given a user-provided authentication secret (such as
	// "login:password" or a signed token), return the validated record or
	// an error. The caller identity is (rec.Uid, rec.SessionId).
	Authenticate(secret []byte) (*Rec, error)

	// GenSecret generates a new secret for the given record, if supported.
	GenSecret(rec *Rec) ([]byte, time.Time, error)

	// DelRecords deletes (or disables) all authentication records of the given user.
	DelRecords(uid types.Uid) error
}
