package main

import (
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/hiddenjvc/server/server/store"
	"github.com/hiddenjvc/server/server/store/mock_store"
	"github.com/hiddenjvc/server/server/store/types"
)

// Mocks for the store anchors, restored by the returned function.
type storeMocks struct {
	users  *mock_store.MockUsersPersistenceInterface
	grants *mock_store.MockGrantsPersistenceInterface
	topics *mock_store.MockTopicsPersistenceInterface
	posts  *mock_store.MockPostsPersistenceInterface
	bans   *mock_store.MockBansPersistenceInterface
	modlog *mock_store.MockModLogPersistenceInterface
}

func mockStore(ctrl *gomock.Controller) (*storeMocks, func()) {
	m := &storeMocks{
		users:  mock_store.NewMockUsersPersistenceInterface(ctrl),
		grants: mock_store.NewMockGrantsPersistenceInterface(ctrl),
		topics: mock_store.NewMockTopicsPersistenceInterface(ctrl),
		posts:  mock_store.NewMockPostsPersistenceInterface(ctrl),
		bans:   mock_store.NewMockBansPersistenceInterface(ctrl),
		modlog: mock_store.NewMockModLogPersistenceInterface(ctrl),
	}
	store.Users = m.users
	store.Grants = m.grants
	store.Topics = m.topics
	store.Posts = m.posts
	store.Bans = m.bans
	store.ModLog = m.modlog
	return m, func() {
		store.Users = store.UsersObjMapper{}
		store.Grants = store.GrantsObjMapper{}
		store.Topics = store.TopicsObjMapper{}
		store.Posts = store.PostsObjMapper{}
		store.Bans = store.BansObjMapper{}
		store.ModLog = store.ModLogObjMapper{}
	}
}

func makeTopic(tid types.Uid, forumId int64, author types.Uid) types.Topic {
	var topic types.Topic
	topic.SetUid(tid)
	topic.ForumId = forumId
	if !author.IsZero() {
		topic.Author = author.String()
	}
	return topic
}

func makePost(pid, tid, author types.Uid, ip string) types.Post {
	var post types.Post
	post.SetUid(pid)
	post.Topic = tid.String()
	if !author.IsZero() {
		post.Author = author.String()
	}
	post.IP = ip
	return post
}

func TestAuthorizeAdminBypass(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, restore := mockStore(ctrl)
	defer restore()

	actor := types.Uid(10001)
	admin := &types.User{IsAdmin: true}
	admin.SetUid(actor)

	// No grant or target lookups expected: the admin check short-circuits.
	m.users.EXPECT().Get(actor).Return(admin, nil)

	allowed, err := authorize(actor, types.ActionLock, TargetTopic, []types.Uid{types.Uid(555)})
	if err != nil {
		t.Fatal(err)
	}
	if !allowed {
		t.Error("admin must be allowed unconditionally")
	}
}

func TestAuthorizeGrantDenied(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, restore := mockStore(ctrl)
	defer restore()

	actor := types.Uid(10002)
	tid := types.Uid(555)
	user := &types.User{}
	user.SetUid(actor)

	m.users.EXPECT().Get(actor).Return(user, nil)
	m.topics.EXPECT().GetAll(tid).Return([]types.Topic{makeTopic(tid, 7, types.Uid(99))}, nil)
	// The grant covers Pin only, not Lock.
	m.grants.EXPECT().Get(actor, int64(7)).Return(
		&types.ForumGrant{User: actor.String(), ForumId: 7, Actions: types.ActionPin}, nil)

	allowed, err := authorize(actor, types.ActionLock, TargetTopic, []types.Uid{tid})
	if err != nil {
		t.Fatal(err)
	}
	if allowed {
		t.Error("action outside the granted set must be denied")
	}
}

func TestAuthorizeGrantAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, restore := mockStore(ctrl)
	defer restore()

	actor := types.Uid(10003)
	tid := types.Uid(556)
	user := &types.User{}
	user.SetUid(actor)

	m.users.EXPECT().Get(actor).Return(user, nil)
	m.topics.EXPECT().GetAll(tid).Return([]types.Topic{makeTopic(tid, 7, types.Uid(99))}, nil)
	m.grants.EXPECT().Get(actor, int64(7)).Return(
		&types.ForumGrant{User: actor.String(), ForumId: 7,
			Actions: types.ActionLock | types.ActionUnLock}, nil)

	allowed, err := authorize(actor, types.ActionLock, TargetTopic, []types.Uid{tid})
	if err != nil {
		t.Fatal(err)
	}
	if !allowed {
		t.Error("granted action must be allowed")
	}
}

func TestAuthorizeSelfDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, restore := mockStore(ctrl)
	defer restore()

	actor := types.Uid(10004)
	tid := types.Uid(557)
	pid := types.Uid(900)
	user := &types.User{}
	user.SetUid(actor)

	m.users.EXPECT().Get(actor).Return(user, nil)
	m.posts.EXPECT().GetAll(pid).Return([]types.Post{makePost(pid, tid, actor, "10.0.0.1")}, nil)
	m.topics.EXPECT().GetAll(tid).Return([]types.Topic{makeTopic(tid, 7, types.Uid(99))}, nil)
	// No grant lookup: authorship decides.

	allowed, err := authorize(actor, types.ActionDeletePost, TargetPost, []types.Uid{pid})
	if err != nil {
		t.Fatal(err)
	}
	if !allowed {
		t.Error("author must be allowed to delete own post without a grant")
	}
}

func TestAuthorizeSelfExceptionDeleteOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, restore := mockStore(ctrl)
	defer restore()

	actor := types.Uid(10005)
	tid := types.Uid(558)
	user := &types.User{}
	user.SetUid(actor)

	m.users.EXPECT().Get(actor).Return(user, nil)
	m.topics.EXPECT().GetAll(tid).Return([]types.Topic{makeTopic(tid, 7, actor)}, nil)
	// Pinning own topic still requires a grant.
	m.grants.EXPECT().Get(actor, int64(7)).Return(nil, nil)

	allowed, err := authorize(actor, types.ActionPin, TargetTopic, []types.Uid{tid})
	if err != nil {
		t.Fatal(err)
	}
	if allowed {
		t.Error("ownership must not substitute for a grant on non-delete actions")
	}
}

func TestAuthorizeUnknownTargetDenied(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, restore := mockStore(ctrl)
	defer restore()

	actor := types.Uid(10006)
	tid := types.Uid(559)
	user := &types.User{}
	user.SetUid(actor)

	m.users.EXPECT().Get(actor).Return(user, nil)
	// The topic does not exist.
	m.topics.EXPECT().GetAll(tid).Return(nil, nil)

	allowed, err := authorize(actor, types.ActionLock, TargetTopic, []types.Uid{tid})
	if err != nil {
		t.Fatal(err)
	}
	if allowed {
		t.Error("unknown target must result in a denial")
	}
}

func TestAuthorizeTrivialDenials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	_, restore := mockStore(ctrl)
	defer restore()

	cases := []struct {
		name    string
		actor   types.Uid
		action  types.ActionSet
		targets []types.Uid
	}{
		{"zero actor", types.ZeroUid, types.ActionPin, []types.Uid{1}},
		{"no action", types.Uid(1), types.ActionNone, []types.Uid{1}},
		{"no targets", types.Uid(1), types.ActionPin, nil},
	}
	for _, tc := range cases {
		allowed, err := authorize(tc.actor, tc.action, TargetTopic, tc.targets)
		if err != nil || allowed {
			t.Errorf("%s: expected silent denial, got allowed=%v err=%v", tc.name, allowed, err)
		}
	}
}

func TestAuthorizeMultiForum(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, restore := mockStore(ctrl)
	defer restore()

	actor := types.Uid(10007)
	tid1, tid2 := types.Uid(561), types.Uid(562)
	user := &types.User{}
	user.SetUid(actor)

	m.users.EXPECT().Get(actor).Return(user, nil)
	m.topics.EXPECT().GetAll(tid1, tid2).Return([]types.Topic{
		makeTopic(tid1, 7, types.Uid(99)),
		makeTopic(tid2, 8, types.Uid(99)),
	}, nil)
	// Granted in forum 7 but not in forum 8: the whole call is denied.
	m.grants.EXPECT().Get(actor, int64(7)).Return(
		&types.ForumGrant{User: actor.String(), ForumId: 7, Actions: types.ActionPin}, nil).AnyTimes()
	m.grants.EXPECT().Get(actor, int64(8)).Return(nil, nil).AnyTimes()

	allowed, err := authorize(actor, types.ActionPin, TargetTopic, []types.Uid{tid1, tid2})
	if err != nil {
		t.Fatal(err)
	}
	if allowed {
		t.Error("a single forum without a grant must deny the whole call")
	}
}
