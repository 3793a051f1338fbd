package types

import (
	"encoding/json"
	"testing"
)

func TestUidTextEncoding(t *testing.T) {
	uid := Uid(0x0102030405060708)
	if got := uid.String(); got != "CAcGBQQDAgE" {
		t.Errorf("String: expected CAcGBQQDAgE, got %s", got)
	}
	if got := ParseUid(uid.String()); got != uid {
		t.Errorf("round trip failed: %d != %d", got, uid)
	}

	if got := ZeroUid.String(); got != "" {
		t.Errorf("zero uid must encode to an empty string, got %q", got)
	}
	if got := ParseUid("*malformed*!"); !got.IsZero() {
		t.Errorf("malformed input must parse to zero, got %d", got)
	}
	if got := ParseUid("tooshort"); !got.IsZero() {
		t.Errorf("short input must parse to zero, got %d", got)
	}
}

func TestUidJSON(t *testing.T) {
	uid := Uid(808080)
	b, err := json.Marshal(uid)
	if err != nil {
		t.Fatal(err)
	}

	var back Uid
	if err = json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back != uid {
		t.Errorf("JSON round trip failed: %d != %d", back, uid)
	}

	if err = back.UnmarshalJSON([]byte("123456789")); err == nil {
		t.Error("unquoted input must be rejected")
	}
}

func TestUserId(t *testing.T) {
	uid := Uid(9876543210)
	id := uid.UserId()
	if id[:3] != "usr" {
		t.Errorf("expected usr prefix, got %s", id)
	}
	if got := ParseUserId(id); got != uid {
		t.Errorf("round trip failed: %d != %d", got, uid)
	}
	if got := ParseUserId(uid.String()); !got.IsZero() {
		t.Errorf("missing prefix must parse to zero, got %d", got)
	}
	if got := ZeroUid.UserId(); got != "" {
		t.Errorf("zero uid must have no user id, got %q", got)
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		name string
		want ActionSet
		ok   bool
	}{
		{"Pin", ActionPin, true},
		{"UnPin", ActionUnPin, true},
		{"Lock", ActionLock, true},
		{"UnLock", ActionUnLock, true},
		{"DeleteTopic", ActionDeleteTopic, true},
		{"DeletePost", ActionDeletePost, true},
		{"BanAccount", ActionBanAccount, true},
		{"UnBanAccount", ActionUnBanAccount, true},
		{"BanIp", ActionBanIp, true},
		{"UnBanIp", ActionUnBanIp, true},
		{"ModifyTag", ActionModifyTag, true},
		{"", ActionInvalid, false},
		{"pin", ActionInvalid, false},
		{"DeleteEverything", ActionInvalid, false},
	}
	for _, tc := range tests {
		got, err := ParseAction(tc.name)
		if got != tc.want {
			t.Errorf("ParseAction(%q): expected %d, got %d", tc.name, tc.want, got)
		}
		if (err == nil) != tc.ok {
			t.Errorf("ParseAction(%q): unexpected error state %v", tc.name, err)
		}
	}
}

func TestActionSetIsSet(t *testing.T) {
	set := ActionLock | ActionUnLock | ActionDeletePost
	if !set.IsSet(ActionLock) {
		t.Error("Lock must be set")
	}
	if !set.IsSet(ActionLock | ActionDeletePost) {
		t.Error("Lock|DeletePost must be set")
	}
	if set.IsSet(ActionBanIp) {
		t.Error("BanIp must not be set")
	}
	if set.IsSet(ActionLock | ActionBanIp) {
		t.Error("a partially covered set must not be reported as set")
	}
	if !set.IsSet(ActionNone) {
		t.Error("the empty set is a subset of everything")
	}
}

func TestActionSetText(t *testing.T) {
	set := ActionPin | ActionDeleteTopic

	b, err := set.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "Pin,DeleteTopic" {
		t.Errorf("expected 'Pin,DeleteTopic', got %q", string(b))
	}

	var back ActionSet
	if err = back.UnmarshalText(b); err != nil {
		t.Fatal(err)
	}
	if back != set {
		t.Errorf("round trip failed: %d != %d", back, set)
	}

	// Whitespace around names is tolerated.
	if err = back.UnmarshalText([]byte("Lock, UnLock")); err != nil {
		t.Fatal(err)
	}
	if back != ActionLock|ActionUnLock {
		t.Errorf("expected Lock|UnLock, got %s", back.String())
	}

	// Empty input leaves the value unchanged.
	if err = back.UnmarshalText(nil); err != nil {
		t.Fatal(err)
	}
	if back != ActionLock|ActionUnLock {
		t.Errorf("empty input must not change the value, got %s", back.String())
	}

	if err = back.UnmarshalText([]byte("Lock,Bogus")); err == nil {
		t.Error("unknown action name must be rejected")
	}

	if _, err = ActionInvalid.MarshalText(); err == nil {
		t.Error("invalid set must not be marshalable")
	}
}

func TestActionSetJSON(t *testing.T) {
	set := ActionBanAccount | ActionBanIp

	b, err := json.Marshal(set)
	if err != nil {
		t.Fatal(err)
	}
	var back ActionSet
	if err = json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back != set {
		t.Errorf("JSON round trip failed: %s != %s", back.String(), set.String())
	}
}

func TestObjHeaderTimes(t *testing.T) {
	var h ObjHeader
	h.InitTimes()
	if h.CreatedAt.IsZero() || h.UpdatedAt != h.CreatedAt {
		t.Error("InitTimes must set both timestamps to the same value")
	}

	h2 := ObjHeader{CreatedAt: h.CreatedAt.Add(-3600), UpdatedAt: h.UpdatedAt.Add(7200)}
	h.MergeTimes(&h2)
	if h.CreatedAt != h2.CreatedAt {
		t.Error("MergeTimes must keep the earliest creation time")
	}
	if h.UpdatedAt != h2.UpdatedAt {
		t.Error("MergeTimes must keep the latest update time")
	}
}

func TestObjHeaderUid(t *testing.T) {
	var h ObjHeader
	uid := Uid(123456789)
	h.SetUid(uid)
	if h.Id != uid.String() {
		t.Errorf("string id not assigned: %q", h.Id)
	}
	if h.Uid() != uid {
		t.Errorf("expected %d, got %d", uid, h.Uid())
	}

	// Uid() recovers the cached value from the string form.
	h2 := ObjHeader{Id: uid.String()}
	if h2.Uid() != uid {
		t.Errorf("expected %d from string id, got %d", uid, h2.Uid())
	}
}
