/******************************************************************************
 *
 *  Description :
 *
 *  Authorization resolver: decides whether an actor may perform a
 *  moderation action on a set of target entities.
 *
 *****************************************************************************/

package main

import (
	"github.com/hiddenjvc/server/server/store"
	"github.com/hiddenjvc/server/server/store/types"
)

// authorize decides if the actor may apply the action to all targets.
//
// Admins are allowed unconditionally. Everybody else needs a ForumGrant
// containing the action for every distinct forum owning a target: if a
// single forum lacks a matching grant the whole call is denied, there is
// no partial application. The one exception is self-service deletion: an
// actor who authored every target may delete their own content without
// a grant.
//
// Unknown target ids result in a denial, not an error, so a caller cannot
// use this function to probe for existence. The function is a pure
// decision, it mutates nothing.
func authorize(actor types.Uid, action types.ActionSet, kind TargetKind, targets []types.Uid) (bool, error) {
	if actor.IsZero() || action == types.ActionNone || action == types.ActionInvalid || len(targets) == 0 {
		return false, nil
	}

	user, err := store.Users.Get(actor)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	if user.IsAdmin {
		return true, nil
	}

	targets = uniqueUids(targets)

	forums, ownsAll, err := resolveOwnership(actor, kind, targets)
	if err != nil {
		return false, err
	}
	if forums == nil {
		// At least one target does not exist.
		return false, nil
	}

	if ownsAll && (action == types.ActionDeleteTopic || action == types.ActionDeletePost) {
		// Authors may remove their own content without a grant.
		return true, nil
	}

	for forumId := range forums {
		grant, err := store.Grants.Get(actor, forumId)
		if err != nil {
			return false, err
		}
		if grant == nil || !grant.Actions.IsSet(action) {
			return false, nil
		}
	}

	return true, nil
}

// resolveOwnership maps the targets to the set of distinct forums owning
// them and reports whether the actor authored every target. Returns a nil
// map if any target is missing.
func resolveOwnership(actor types.Uid, kind TargetKind, targets []types.Uid) (map[int64]bool, bool, error) {
	forums := make(map[int64]bool)
	ownsAll := true

	switch kind {
	case TargetTopic:
		topics, err := store.Topics.GetAll(targets...)
		if err != nil {
			return nil, false, err
		}
		if len(topics) != len(targets) {
			return nil, false, nil
		}
		for i := range topics {
			forums[topics[i].ForumId] = true
			if topics[i].AuthorUid() != actor {
				ownsAll = false
			}
		}

	case TargetPost:
		posts, err := store.Posts.GetAll(targets...)
		if err != nil {
			return nil, false, err
		}
		if len(posts) != len(targets) {
			return nil, false, nil
		}

		topicIds := make(map[types.Uid]bool)
		for i := range posts {
			topicIds[posts[i].TopicUid()] = true
			if posts[i].AuthorUid() != actor {
				ownsAll = false
			}
		}
		topics, err := store.Topics.GetAll(uidSetToSlice(topicIds)...)
		if err != nil {
			return nil, false, err
		}
		if len(topics) != len(topicIds) {
			// Orphaned post: the owning topic is gone.
			return nil, false, nil
		}
		for i := range topics {
			forums[topics[i].ForumId] = true
		}

	default:
		return nil, false, nil
	}

	return forums, ownsAll, nil
}

// uniqueUids removes duplicates preserving the order of first occurrence.
func uniqueUids(ids []types.Uid) []types.Uid {
	seen := make(map[types.Uid]bool, len(ids))
	out := make([]types.Uid, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func uidSetToSlice(set map[types.Uid]bool) []types.Uid {
	out := make([]types.Uid, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
