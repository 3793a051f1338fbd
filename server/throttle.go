/******************************************************************************
 *
 *  Description :
 *
 *  Abuse mitigation: posting cooldown tiered by account history, plus
 *  IP and account ban checks. Consulted before every content-creation
 *  write.
 *
 *****************************************************************************/

package main

import (
	"time"

	"github.com/hiddenjvc/server/server/store"
	"github.com/hiddenjvc/server/server/store/types"
)

// throttleTier maps an account's lifetime post count to the minimum gap
// required between two posts from the same address.
type throttleTier struct {
	// The tier applies when the account's lifetime post count is
	// strictly greater than this value.
	MinPostCount int `json:"min_post_count"`
	// Required gap in seconds.
	CooldownSec int `json:"cooldown_sec"`
}

// throttleConfig is the tiered cooldown policy. Tiers must be ordered by
// MinPostCount descending; the last tier is the base tier applied to
// everybody else, anonymous posters included.
type throttleConfig struct {
	Tiers []throttleTier `json:"tiers"`
}

// defaultThrottleConfig returns the stock policy: established accounts
// post more often, newcomers and anonymous posters wait the longest.
func defaultThrottleConfig() throttleConfig {
	return throttleConfig{
		Tiers: []throttleTier{
			{MinPostCount: 200, CooldownSec: 5},
			{MinPostCount: 100, CooldownSec: 30},
			{MinPostCount: 0, CooldownSec: 60},
		},
	}
}

// delayFor picks the cooldown for the given lifetime post count. An
// anonymous poster always gets the base tier regardless of the address's
// historical volume: without an account the history cannot be attributed.
func (tc *throttleConfig) delayFor(postCount int, anonymous bool) time.Duration {
	if len(tc.Tiers) == 0 {
		return 0
	}
	if !anonymous {
		for _, tier := range tc.Tiers {
			if postCount > tier.MinPostCount {
				return time.Duration(tier.CooldownSec) * time.Second
			}
		}
	}
	return time.Duration(tc.Tiers[len(tc.Tiers)-1].CooldownSec) * time.Second
}

// canPost decides if a new post or topic may be created right now from
// the given address by the given account (zero uid for anonymous).
//
// The check is a leaky-bucket approximation keyed on the wall-clock gap
// since the most recent post from the address: the only state it needs is
// already persisted as a side effect of posting. Ban checks are separate
// and harder: no cooldown path overrides a ban.
func canPost(ip string, actor types.Uid) (bool, error) {
	last, err := store.Posts.LastByIP(ip)
	if err != nil {
		return false, err
	}
	if last == nil {
		// The address never posted.
		return true, nil
	}

	postCount := 0
	if !actor.IsZero() {
		user, err := store.Users.Get(actor)
		if err != nil {
			return false, err
		}
		if user != nil {
			postCount = user.PostCount
		}
	}

	elapsed := time.Since(last.CreatedAt)
	allowed := elapsed >= globals.throttle.delayFor(postCount, actor.IsZero())
	if !allowed {
		statsInc("PostsThrottledTotal", 1)
	}
	return allowed, nil
}

// isBanned checks if the address is on the ban list.
func isBanned(ip string) (bool, error) {
	return store.Bans.IsBanned(ip)
}

// isAccountBanned checks the Banned flag of the account. A zero
// (anonymous) uid is never banned as an account.
func isAccountBanned(actor types.Uid) (bool, error) {
	if actor.IsZero() {
		return false, nil
	}
	user, err := store.Users.Get(actor)
	if err != nil {
		return false, err
	}
	return user != nil && user.Banned, nil
}

// checkCanCreate combines the ban and cooldown checks into the single
// gate called by content-creation handlers.
func checkCanCreate(ip string, actor types.Uid) error {
	if banned, err := isBanned(ip); err != nil {
		return err
	} else if banned {
		return types.ErrBanned
	}
	if banned, err := isAccountBanned(actor); err != nil {
		return err
	} else if banned {
		return types.ErrBanned
	}
	if ok, err := canPost(ip, actor); err != nil {
		return err
	} else if !ok {
		return types.ErrThrottled
	}
	return nil
}
