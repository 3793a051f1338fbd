/******************************************************************************
 *
 *  Description :
 *
 *  Quote chain resolver: walks the "this post quotes that post" edges
 *  up to the root and returns the ancestry in reading order.
 *
 *****************************************************************************/

package main

import (
	"github.com/hiddenjvc/server/server/store"
	"github.com/hiddenjvc/server/server/store/types"
)

// QuotedPost is one link of a resolved quote chain: the post plus its
// author's public profile.
type QuotedPost struct {
	Post *types.Post `json:"post"`
	// Author's public profile fields; nil for anonymous posts.
	Author any `json:"author,omitempty"`
	// Display name of an anonymous author.
	AuthorName string `json:"authorName,omitempty"`
}

// resolveChain returns the target post plus every ancestor reachable via
// its quote edge, ordered oldest first for natural reading.
//
// Quote edges always point at older posts so the walk terminates on its
// own with healthy data. The visited set is kept anyway: corrupted data
// must produce a truncated chain, not an infinite loop. An unknown post
// id yields an empty chain, not an error.
func resolveChain(postId types.Uid) ([]QuotedPost, error) {
	var posts []*types.Post
	visited := make(map[types.Uid]bool)

	for next := postId; !next.IsZero() && !visited[next]; {
		visited[next] = true

		post, err := store.Posts.Get(next)
		if err != nil {
			return nil, err
		}
		if post == nil {
			// Dangling edge or unknown starting id.
			break
		}
		posts = append(posts, post)
		next = post.QuotedUid()
	}

	// The walk collects target first; flip to oldest first.
	for i, j := 0, len(posts)-1; i < j; i, j = i+1, j-1 {
		posts[i], posts[j] = posts[j], posts[i]
	}

	return attachAuthors(posts)
}

// attachAuthors loads the public profiles of the distinct authors and
// pairs them with their posts.
func attachAuthors(posts []*types.Post) ([]QuotedPost, error) {
	seen := make(map[types.Uid]bool)
	var uids []types.Uid
	for _, post := range posts {
		if uid := post.AuthorUid(); !uid.IsZero() && !seen[uid] {
			seen[uid] = true
			uids = append(uids, uid)
		}
	}

	publics := make(map[string]any, len(uids))
	if len(uids) > 0 {
		users, err := store.Users.GetAll(uids...)
		if err != nil {
			return nil, err
		}
		for i := range users {
			publics[users[i].Id] = users[i].Public
		}
	}

	chain := make([]QuotedPost, 0, len(posts))
	for _, post := range posts {
		chain = append(chain, QuotedPost{
			Post:       post,
			Author:     publics[post.Author],
			AuthorName: post.AuthorName,
		})
	}
	return chain, nil
}
