package token

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/hiddenjvc/server/server/auth"
	"github.com/hiddenjvc/server/server/store/types"
)

func testAuthenticator(t *testing.T) *Authenticator {
	t.Helper()

	ta := &Authenticator{}
	conf := map[string]any{
		"key":        []byte("wfaY2RgF2S1OQI/ZlK+LSrp1KB2jwAdGAIHQ7JZn+Kc="),
		"expire_in":  1209600,
		"serial_num": 1,
	}
	raw, _ := json.Marshal(conf)
	if err := ta.Init(raw, "token"); err != nil {
		t.Fatal(err)
	}
	return ta
}

func TestInitRejectsBadConfig(t *testing.T) {
	ta := &Authenticator{}
	if err := ta.Init(json.RawMessage(`{"key":"c2hvcnQ=","expire_in":60}`), "token"); err == nil {
		t.Error("short key must be rejected")
	}

	ta = &Authenticator{}
	conf, _ := json.Marshal(map[string]any{"key": make([]byte, 32), "expire_in": 0})
	if err := ta.Init(conf, "token"); err == nil {
		t.Error("zero expiration must be rejected")
	}

	ta = testAuthenticator(t)
	conf, _ = json.Marshal(map[string]any{"key": make([]byte, 32), "expire_in": 60})
	if err := ta.Init(conf, "token2"); err == nil {
		t.Error("double initialization must be rejected")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	ta := testAuthenticator(t)

	uid := types.Uid(12345678901)
	tok, expires, err := ta.GenSecret(&auth.Rec{Uid: uid, AuthLevel: auth.LevelAuth})
	if err != nil {
		t.Fatal(err)
	}
	if !expires.After(time.Now()) {
		t.Error("expiration must be in the future")
	}

	rec, err := ta.Authenticate(tok)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Uid != uid {
		t.Errorf("expected uid %d, got %d", uid, rec.Uid)
	}
	if rec.AuthLevel != auth.LevelAuth {
		t.Errorf("expected level auth, got %s", rec.AuthLevel.String())
	}
	if rec.Lifetime <= 0 {
		t.Errorf("expected positive remaining lifetime, got %s", rec.Lifetime)
	}
}

func TestTokenExpired(t *testing.T) {
	ta := testAuthenticator(t)

	tok, _, err := ta.GenSecret(&auth.Rec{
		Uid:       types.Uid(42),
		AuthLevel: auth.LevelAuth,
		Lifetime:  time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}

	// The validity check has a one second grace margin, no need to sleep.
	if _, err = ta.Authenticate(tok); err != types.ErrExpired {
		t.Errorf("expected ErrExpired, got %v", err)
	}

	if _, _, err = ta.GenSecret(&auth.Rec{Uid: types.Uid(42), Lifetime: -time.Second}); err != types.ErrExpired {
		t.Errorf("negative lifetime: expected ErrExpired, got %v", err)
	}
}

func TestTokenTampered(t *testing.T) {
	ta := testAuthenticator(t)

	tok, _, err := ta.GenSecret(&auth.Rec{Uid: types.Uid(42), AuthLevel: auth.LevelAuth})
	if err != nil {
		t.Fatal(err)
	}

	// Flip a bit in the uid field: the signature no longer matches.
	tok[0] ^= 0x01
	if _, err = ta.Authenticate(tok); err != types.ErrFailed {
		t.Errorf("expected ErrFailed, got %v", err)
	}

	if _, err = ta.Authenticate(tok[:10]); err != types.ErrMalformed {
		t.Errorf("short token: expected ErrMalformed, got %v", err)
	}
}

func TestTokenWrongSerial(t *testing.T) {
	ta := testAuthenticator(t)
	tok, _, err := ta.GenSecret(&auth.Rec{Uid: types.Uid(42), AuthLevel: auth.LevelAuth})
	if err != nil {
		t.Fatal(err)
	}

	other := &Authenticator{}
	conf, _ := json.Marshal(map[string]any{
		"key":        []byte("wfaY2RgF2S1OQI/ZlK+LSrp1KB2jwAdGAIHQ7JZn+Kc="),
		"expire_in":  1209600,
		"serial_num": 2,
	})
	if err = other.Init(conf, "token"); err != nil {
		t.Fatal(err)
	}
	if _, err = other.Authenticate(tok); err != types.ErrFailed {
		t.Errorf("expected ErrFailed on serial mismatch, got %v", err)
	}
}

func TestAddRecordUnsupported(t *testing.T) {
	ta := testAuthenticator(t)
	if _, err := ta.AddRecord(&auth.Rec{}, nil); err != types.ErrUnsupported {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
	if err := ta.DelRecords(types.Uid(42)); err != nil {
		t.Errorf("DelRecords must be a successful noop, got %v", err)
	}
}
