package main

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"

	"github.com/hiddenjvc/server/server/store/types"
)

func quotingPost(pid, quoted, author types.Uid) *types.Post {
	var post types.Post
	post.SetUid(pid)
	post.Topic = types.Uid(1).String()
	if !author.IsZero() {
		post.Author = author.String()
	}
	if !quoted.IsZero() {
		post.QuotedId = quoted.String()
	}
	return &post
}

func TestResolveChainSinglePost(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, restore := mockStore(ctrl)
	defer restore()

	pid := types.Uid(900)
	m.posts.EXPECT().Get(pid).Return(quotingPost(pid, types.ZeroUid, types.ZeroUid), nil)

	chain, err := resolveChain(pid)
	if err != nil {
		t.Fatal(err)
	}
	if len(chain) != 1 {
		t.Fatalf("expected chain of 1, got %d", len(chain))
	}
	if chain[0].Post.Uid() != pid {
		t.Errorf("wrong post in chain: %s", chain[0].Post.Id)
	}
}

func TestResolveChainOrdering(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, restore := mockStore(ctrl)
	defer restore()

	// C quotes B quotes A; resolving C must yield [A, B, C].
	a, b, c := types.Uid(901), types.Uid(902), types.Uid(903)
	author := types.Uid(50001)

	m.posts.EXPECT().Get(c).Return(quotingPost(c, b, author), nil)
	m.posts.EXPECT().Get(b).Return(quotingPost(b, a, types.ZeroUid), nil)
	m.posts.EXPECT().Get(a).Return(quotingPost(a, types.ZeroUid, author), nil)
	m.users.EXPECT().GetAll(author).DoAndReturn(
		func(ids ...types.Uid) ([]types.User, error) {
			user := types.User{Public: map[string]any{"fn": "alice"}}
			user.SetUid(author)
			return []types.User{user}, nil
		})

	chain, err := resolveChain(c)
	if err != nil {
		t.Fatal(err)
	}
	if len(chain) != 3 {
		t.Fatalf("expected chain of 3, got %d", len(chain))
	}
	var got []types.Uid
	for _, link := range chain {
		got = append(got, link.Post.Uid())
	}
	if diff := cmp.Diff([]types.Uid{a, b, c}, got); diff != "" {
		t.Errorf("wrong chain order (-want +got):\n%s", diff)
	}
	// Author profiles attached where known.
	if chain[0].Author == nil || chain[2].Author == nil {
		t.Error("registered author must carry a public profile")
	}
	if chain[1].Author != nil {
		t.Error("anonymous post must not carry a profile")
	}
}

func TestResolveChainDanglingEdge(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, restore := mockStore(ctrl)
	defer restore()

	// B quotes a post that no longer exists: the chain truncates.
	b, gone := types.Uid(904), types.Uid(905)
	m.posts.EXPECT().Get(b).Return(quotingPost(b, gone, types.ZeroUid), nil)
	m.posts.EXPECT().Get(gone).Return(nil, nil)

	chain, err := resolveChain(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(chain) != 1 {
		t.Fatalf("expected truncated chain of 1, got %d", len(chain))
	}
}

func TestResolveChainUnknownPost(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, restore := mockStore(ctrl)
	defer restore()

	pid := types.Uid(906)
	m.posts.EXPECT().Get(pid).Return(nil, nil)

	chain, err := resolveChain(pid)
	if err != nil {
		t.Fatal(err)
	}
	if len(chain) != 0 {
		t.Errorf("unknown id must yield an empty chain, got %d links", len(chain))
	}
}

func TestResolveChainCycleTerminates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, restore := mockStore(ctrl)
	defer restore()

	// Corrupted data: A and B quote each other. The walk must terminate.
	a, b := types.Uid(907), types.Uid(908)
	m.posts.EXPECT().Get(a).Return(quotingPost(a, b, types.ZeroUid), nil)
	m.posts.EXPECT().Get(b).Return(quotingPost(b, a, types.ZeroUid), nil)

	chain, err := resolveChain(a)
	if err != nil {
		t.Fatal(err)
	}
	if len(chain) != 2 {
		t.Fatalf("cycle must truncate to 2 links, got %d", len(chain))
	}
}
