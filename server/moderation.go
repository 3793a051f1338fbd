/******************************************************************************
 *
 *  Description :
 *
 *  Moderation dispatcher: applies an authorized action to a set of
 *  targets and writes the audit trail.
 *
 *****************************************************************************/

package main

import (
	"fmt"

	"github.com/hiddenjvc/server/server/logs"
	"github.com/hiddenjvc/server/server/store"
	"github.com/hiddenjvc/server/server/store/types"
)

// apply performs the state change of a single moderation action on all
// targets and appends the matching audit records.
//
// Callers must obtain approval from authorize() first: this function does
// not re-validate. Keeping the two concerns separate lets the resolver
// stay a pure decision function and the dispatcher a pure state machine.
//
// Audit ordering: every leg writes its records before touching the rows.
// A failed Append aborts the action, so a partial failure can leave a
// record without the matching state change but never a silent change
// with no record. Deletions additionally need the record first because
// the label names rows which are about to disappear.
func apply(action types.ActionSet, kind TargetKind, targets []types.Uid, actor types.Uid) error {
	if action == types.ActionNone || action == types.ActionInvalid || len(targets) == 0 {
		return types.ErrMalformed
	}

	targets = uniqueUids(targets)

	var err error
	switch action {
	case types.ActionPin, types.ActionUnPin:
		err = applyFlag(action, kind, targets, actor, "Pinned", action == types.ActionPin)

	case types.ActionLock, types.ActionUnLock:
		if kind != TargetTopic {
			// Individual posts cannot be locked.
			return types.ErrMalformed
		}
		err = applyFlag(action, kind, targets, actor, "Locked", action == types.ActionLock)

	case types.ActionDeleteTopic:
		if kind != TargetTopic {
			return types.ErrMalformed
		}
		err = applyDeleteTopics(targets, actor)

	case types.ActionDeletePost:
		if kind != TargetPost {
			return types.ErrMalformed
		}
		err = applyDeletePosts(targets, actor)

	case types.ActionBanAccount, types.ActionUnBanAccount:
		if kind != TargetPost {
			return types.ErrMalformed
		}
		err = applyBanAccounts(targets, actor, action == types.ActionBanAccount)

	case types.ActionBanIp, types.ActionUnBanIp:
		if kind != TargetPost {
			return types.ErrMalformed
		}
		err = applyBanIPs(targets, actor, action == types.ActionBanIp)

	case types.ActionModifyTag:
		// Tag edits are applied by the tag management endpoints; the
		// action exists only as a grantable capability checked by
		// authorize(). Nothing to dispatch.
		return types.ErrUnsupported

	default:
		return types.ErrMalformed
	}

	if err == nil {
		statsInc("ModerationActionsTotal", 1)
	} else {
		logs.Err.Println("moderation: apply", action.String(), "failed:", err)
	}
	return err
}

// applyFlag appends one audit record per affected topic, then bulk-updates
// one boolean flag on all targets.
func applyFlag(action types.ActionSet, kind TargetKind, targets []types.Uid, actor types.Uid,
	field string, value bool) error {

	var topicIds []types.Uid
	switch kind {
	case TargetTopic:
		topicIds = targets

	case TargetPost:
		posts, err := store.Posts.GetAll(targets...)
		if err != nil {
			return err
		}
		seen := make(map[types.Uid]bool)
		for i := range posts {
			if tid := posts[i].TopicUid(); !seen[tid] {
				seen[tid] = true
				topicIds = append(topicIds, tid)
			}
		}

	default:
		return types.ErrMalformed
	}

	topics, err := store.Topics.GetAll(topicIds...)
	if err != nil {
		return err
	}
	recs := make([]*types.ModerationRecord, 0, len(topics))
	for i := range topics {
		recs = append(recs, &types.ModerationRecord{
			Action: action,
			User:   actor.String(),
			Label:  topicLabel(action, &topics[i]),
		})
	}
	if err = store.ModLog.Append(recs...); err != nil {
		return err
	}

	update := map[string]any{field: value}
	if kind == TargetTopic {
		return store.Topics.UpdateAll(targets, update)
	}
	return store.Posts.UpdateAll(targets, update)
}

// applyDeleteTopics writes one audit record per topic, then removes the topics.
func applyDeleteTopics(targets []types.Uid, actor types.Uid) error {
	topics, err := store.Topics.GetAll(targets...)
	if err != nil {
		return err
	}

	recs := make([]*types.ModerationRecord, 0, len(topics))
	found := make([]types.Uid, 0, len(topics))
	for i := range topics {
		recs = append(recs, &types.ModerationRecord{
			Action: types.ActionDeleteTopic,
			User:   actor.String(),
			Label:  topicLabel(types.ActionDeleteTopic, &topics[i]),
		})
		found = append(found, topics[i].Uid())
	}

	// Records go in first: once the rows are gone their titles are
	// unrecoverable.
	if err = store.ModLog.Append(recs...); err != nil {
		return err
	}
	return store.Topics.DeleteAll(found)
}

// applyDeletePosts writes one audit record per post, then removes the posts.
func applyDeletePosts(targets []types.Uid, actor types.Uid) error {
	posts, err := store.Posts.GetAll(targets...)
	if err != nil {
		return err
	}

	recs := make([]*types.ModerationRecord, 0, len(posts))
	found := make([]types.Uid, 0, len(posts))
	for i := range posts {
		recs = append(recs, &types.ModerationRecord{
			Action: types.ActionDeletePost,
			User:   actor.String(),
			Label:  postLabel(types.ActionDeletePost, &posts[i]),
		})
		found = append(found, posts[i].Uid())
	}

	if err = store.ModLog.Append(recs...); err != nil {
		return err
	}
	return store.Posts.DeleteAll(found)
}

// applyBanAccounts resolves the distinct set of accounts which authored
// the target posts, appends one audit record per affected account, then
// flips their Banned flag. Anonymous posts contribute no accounts.
func applyBanAccounts(targets []types.Uid, actor types.Uid, banned bool) error {
	posts, err := store.Posts.GetAll(targets...)
	if err != nil {
		return err
	}

	seen := make(map[types.Uid]bool)
	var accounts []types.Uid
	for i := range posts {
		if uid := posts[i].AuthorUid(); !uid.IsZero() && !seen[uid] {
			seen[uid] = true
			accounts = append(accounts, uid)
		}
	}
	if len(accounts) == 0 {
		return nil
	}

	action := types.ActionBanAccount
	if !banned {
		action = types.ActionUnBanAccount
	}
	recs := make([]*types.ModerationRecord, 0, len(accounts))
	for _, uid := range accounts {
		recs = append(recs, &types.ModerationRecord{
			Action: action,
			User:   actor.String(),
			Label:  fmt.Sprintf("%s account %s", action.String(), uid.UserId()),
		})
	}
	if err = store.ModLog.Append(recs...); err != nil {
		return err
	}

	return store.Users.SetBanned(accounts, banned)
}

// applyBanIPs resolves the distinct addresses the target posts were
// created from. Banning skips addresses already on the list, so a repeated
// ban of the same address produces exactly one row and one record;
// unbanning removes all matching addresses unconditionally.
func applyBanIPs(targets []types.Uid, actor types.Uid, banned bool) error {
	posts, err := store.Posts.GetAll(targets...)
	if err != nil {
		return err
	}

	seen := make(map[string]bool)
	var addrs []string
	for i := range posts {
		if ip := posts[i].IP; ip != "" && !seen[ip] {
			seen[ip] = true
			addrs = append(addrs, ip)
		}
	}

	action := types.ActionBanIp
	if !banned {
		action = types.ActionUnBanIp
	}

	var recs []*types.ModerationRecord
	var pending []string
	for _, ip := range addrs {
		if banned {
			already, err := store.Bans.IsBanned(ip)
			if err != nil {
				return err
			}
			if already {
				// Already banned, nothing to log.
				continue
			}
		}
		pending = append(pending, ip)
		recs = append(recs, &types.ModerationRecord{
			Action: action,
			User:   actor.String(),
			Label:  fmt.Sprintf("%s %s", action.String(), ip),
		})
	}
	if err = store.ModLog.Append(recs...); err != nil {
		return err
	}

	for _, ip := range pending {
		if banned {
			// Add is a no-op on a concurrent duplicate insert.
			if _, err = store.Bans.Add(ip); err != nil {
				return err
			}
		} else if err = store.Bans.Delete(ip); err != nil {
			return err
		}
	}
	return nil
}

func topicLabel(action types.ActionSet, topic *types.Topic) string {
	return fmt.Sprintf("%s topic %q (%s)", action.String(), topic.Title, topic.Id)
}

func postLabel(action types.ActionSet, post *types.Post) string {
	author := post.AuthorName
	if uid := post.AuthorUid(); !uid.IsZero() {
		author = uid.UserId()
	}
	return fmt.Sprintf("%s post %s by %s (topic %s)", action.String(), post.Id, author, post.Topic)
}
