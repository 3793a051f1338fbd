package main

import (
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/hiddenjvc/server/server/store/types"
)

func postFromIPAgo(ip string, ago time.Duration) *types.Post {
	var post types.Post
	post.SetUid(types.Uid(800))
	post.IP = ip
	post.CreatedAt = time.Now().Add(-ago)
	return &post
}

func TestDelayForTiers(t *testing.T) {
	tc := defaultThrottleConfig()

	cases := []struct {
		postCount int
		anonymous bool
		want      time.Duration
	}{
		{250, false, 5 * time.Second},
		{201, false, 5 * time.Second},
		{200, false, 30 * time.Second}, // boundary: strictly greater
		{150, false, 30 * time.Second},
		{100, false, 60 * time.Second},
		{1, false, 60 * time.Second},
		{0, false, 60 * time.Second},
		{10000, true, 60 * time.Second}, // anonymous always gets the base tier
		{0, true, 60 * time.Second},
	}
	for _, tcase := range cases {
		if got := tc.delayFor(tcase.postCount, tcase.anonymous); got != tcase.want {
			t.Errorf("delayFor(%d, %v): expected %v, got %v",
				tcase.postCount, tcase.anonymous, tcase.want, got)
		}
	}
}

func TestCanPostEstablishedAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, restore := mockStore(ctrl)
	defer restore()

	globals.throttle = defaultThrottleConfig()
	actor := types.Uid(40001)
	user := &types.User{PostCount: 250}
	user.SetUid(actor)

	// 6 seconds since the last post clears the 5 second tier.
	m.posts.EXPECT().LastByIP("198.51.100.1").Return(postFromIPAgo("198.51.100.1", 6*time.Second), nil)
	m.users.EXPECT().Get(actor).Return(user, nil)

	allowed, err := canPost("198.51.100.1", actor)
	if err != nil {
		t.Fatal(err)
	}
	if !allowed {
		t.Error("6s elapsed at 250 posts must be allowed")
	}

	// 3 seconds is inside the cooldown.
	m.posts.EXPECT().LastByIP("198.51.100.1").Return(postFromIPAgo("198.51.100.1", 3*time.Second), nil)
	m.users.EXPECT().Get(actor).Return(user, nil)

	allowed, err = canPost("198.51.100.1", actor)
	if err != nil {
		t.Fatal(err)
	}
	if allowed {
		t.Error("3s elapsed at 250 posts must be throttled")
	}
}

func TestCanPostAnonymous(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, restore := mockStore(ctrl)
	defer restore()

	globals.throttle = defaultThrottleConfig()

	// Anonymous posters wait the full base cooldown regardless of the
	// address's history.
	m.posts.EXPECT().LastByIP("198.51.100.2").Return(postFromIPAgo("198.51.100.2", 50*time.Second), nil)
	allowed, err := canPost("198.51.100.2", types.ZeroUid)
	if err != nil {
		t.Fatal(err)
	}
	if allowed {
		t.Error("50s elapsed must be throttled for anonymous")
	}

	m.posts.EXPECT().LastByIP("198.51.100.2").Return(postFromIPAgo("198.51.100.2", 61*time.Second), nil)
	allowed, err = canPost("198.51.100.2", types.ZeroUid)
	if err != nil {
		t.Fatal(err)
	}
	if !allowed {
		t.Error("61s elapsed must be allowed for anonymous")
	}
}

func TestCanPostFreshAddress(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, restore := mockStore(ctrl)
	defer restore()

	globals.throttle = defaultThrottleConfig()

	m.posts.EXPECT().LastByIP("198.51.100.3").Return(nil, nil)
	allowed, err := canPost("198.51.100.3", types.ZeroUid)
	if err != nil {
		t.Fatal(err)
	}
	if !allowed {
		t.Error("an address with no posting history must be allowed")
	}
}

func TestCheckCanCreateBans(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, restore := mockStore(ctrl)
	defer restore()

	globals.throttle = defaultThrottleConfig()

	// Banned address loses regardless of cooldown state.
	m.bans.EXPECT().IsBanned("198.51.100.4").Return(true, nil)
	if err := checkCanCreate("198.51.100.4", types.ZeroUid); err != types.ErrBanned {
		t.Errorf("banned address: expected ErrBanned, got %v", err)
	}

	// Banned account loses even from a clean address.
	actor := types.Uid(40002)
	banned := &types.User{Banned: true}
	banned.SetUid(actor)
	m.bans.EXPECT().IsBanned("198.51.100.5").Return(false, nil)
	m.users.EXPECT().Get(actor).Return(banned, nil)
	if err := checkCanCreate("198.51.100.5", actor); err != types.ErrBanned {
		t.Errorf("banned account: expected ErrBanned, got %v", err)
	}

	// Clean address and account inside the cooldown window.
	m.bans.EXPECT().IsBanned("198.51.100.6").Return(false, nil)
	m.posts.EXPECT().LastByIP("198.51.100.6").Return(postFromIPAgo("198.51.100.6", time.Second), nil)
	if err := checkCanCreate("198.51.100.6", types.ZeroUid); err != types.ErrThrottled {
		t.Errorf("inside cooldown: expected ErrThrottled, got %v", err)
	}
}
