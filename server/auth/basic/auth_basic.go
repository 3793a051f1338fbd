// Package basic is an authenticator by login:password.
package basic

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hiddenjvc/server/server/auth"
	"github.com/hiddenjvc/server/server/store"
	"github.com/hiddenjvc/server/server/store/types"
)

// Define default constraints on login and password.
const (
	defaultMinLoginLength    = 3
	defaultMaxLoginLength    = 32
	defaultMinPasswordLength = 6
)

// Authenticator is the type to map authentication methods to.
type Authenticator struct {
	name              string
	minPasswordLength int
	minLoginLength    int
}

func parseSecret(bsecret []byte) (uname, password string, err error) {
	secret := string(bsecret)

	splitAt := strings.Index(secret, ":")
	if splitAt < 1 {
		err = types.ErrMalformed
		return
	}

	uname = strings.ToLower(secret[:splitAt])
	password = secret[splitAt+1:]
	return
}

// Init initializes the basic authenticator.
func (a *Authenticator) Init(jsonconf json.RawMessage, name string) error {
	if name == "" {
		return errors.New("auth_basic: authenticator name cannot be blank")
	}
	if a.name != "" {
		return errors.New("auth_basic: already initialized as " + a.name + "; " + name)
	}

	type configType struct {
		MinPasswordLength int `json:"min_password_length"`
		MinLoginLength    int `json:"min_login_length"`
	}
	var config configType
	if len(jsonconf) > 0 {
		if err := json.Unmarshal(jsonconf, &config); err != nil {
			return errors.New("auth_basic: failed to parse config: " + err.Error())
		}
	}

	a.name = name
	a.minPasswordLength = config.MinPasswordLength
	a.minLoginLength = config.MinLoginLength
	if a.minPasswordLength <= 0 {
		a.minPasswordLength = defaultMinPasswordLength
	}
	if a.minLoginLength <= 0 {
		a.minLoginLength = defaultMinLoginLength
	}
	if a.minLoginLength > defaultMaxLoginLength {
		return errors.New("auth_basic: min_login_length exceeds the limit")
	}

	return nil
}

// IsInitialized returns true if the handler is initialized.
func (a *Authenticator) IsInitialized() bool {
	return a.name != ""
}

// AddRecord adds a basic authentication record to the database.
func (a *Authenticator) AddRecord(rec *auth.Rec, secret []byte) (*auth.Rec, error) {
	uname, password, err := parseSecret(secret)
	if err != nil {
		return nil, err
	}

	if len(uname) < a.minLoginLength || len(uname) > defaultMaxLoginLength {
		return nil, types.ErrPolicy
	}
	if len(password) < a.minPasswordLength {
		return nil, types.ErrPolicy
	}

	passhash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, types.ErrInternal
	}

	var expires time.Time
	if rec.Lifetime > 0 {
		expires = types.TimeNow().Add(rec.Lifetime)
	}
	if err := store.Users.AddAuthRecord(rec.Uid, uname, passhash, expires); err != nil {
		return nil, err
	}

	rec.AuthLevel = auth.LevelAuth
	return rec, nil
}

// Authenticate checks login and password against the stored record.
// On success a new server-side session id is assigned to the record.
func (a *Authenticator) Authenticate(secret []byte) (*auth.Rec, error) {
	uname, password, err := parseSecret(secret)
	if err != nil {
		return nil, err
	}

	uid, passhash, expires, err := store.Users.GetAuthRecord(uname)
	if err != nil {
		return nil, err
	}
	if uid.IsZero() {
		// Invalid login.
		return nil, types.ErrFailed
	}
	if !expires.IsZero() && expires.Before(time.Now()) {
		// The record has expired.
		return nil, types.ErrExpired
	}

	if err = bcrypt.CompareHashAndPassword(passhash, []byte(password)); err != nil {
		// Invalid password.
		return nil, types.ErrFailed
	}

	return &auth.Rec{
		Uid:       uid,
		SessionId: store.Store.GetUidString(),
		AuthLevel: auth.LevelAuth,
	}, nil
}

// GenSecret is not supported, generates an error.
func (*Authenticator) GenSecret(rec *auth.Rec) ([]byte, time.Time, error) {
	return nil, time.Time{}, types.ErrUnsupported
}

// DelRecords deletes all authentication records of the given user.
func (*Authenticator) DelRecords(uid types.Uid) error {
	return store.Users.DelAuthRecords(uid)
}
