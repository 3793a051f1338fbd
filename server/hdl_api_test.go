package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/hiddenjvc/server/server/store/types"
)

// setupAPITest primes the globals the HTTP handlers read and returns a
// restore func.
func setupAPITest() func() {
	savedMax := globals.maxMessageSize
	savedThrottle := globals.throttle
	globals.maxMessageSize = defaultMaxMessageSize
	globals.throttle = defaultThrottleConfig()
	return func() {
		globals.maxMessageSize = savedMax
		globals.throttle = savedThrottle
	}
}

func postReq(t *testing.T, msg *MsgPostReq) *http.Request {
	t.Helper()
	body, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	return httptest.NewRequest(http.MethodPost, "/v0/posts", bytes.NewReader(body))
}

func decodeCtrl(t *testing.T, wrt *httptest.ResponseRecorder) *MsgCtrl {
	t.Helper()
	var resp ServerComMessage
	if err := json.Unmarshal(wrt.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Ctrl == nil {
		t.Fatal("response carries no ctrl message")
	}
	return resp.Ctrl
}

func TestPostCreateLockedTopicRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, restore := mockStore(ctrl)
	defer restore()
	defer setupAPITest()()

	tid := types.Uid(1300)
	topic := makeTopic(tid, 7, types.Uid(99))
	topic.Locked = true

	// httptest requests come from 192.0.2.1. Fresh address, so the
	// abuse gate lets the request through to the lock check.
	m.bans.EXPECT().IsBanned("192.0.2.1").Return(false, nil)
	m.posts.EXPECT().LastByIP("192.0.2.1").Return(nil, nil)
	m.topics.EXPECT().Get(tid).Return(&topic, nil)

	wrt := httptest.NewRecorder()
	servePosts(wrt, postReq(t, &MsgPostReq{Topic: tid.String(), Content: "me again", Name: "drive-by"}))

	if wrt.Code != http.StatusConflict {
		t.Fatalf("expected %d for a locked topic, got %d", http.StatusConflict, wrt.Code)
	}
	if reply := decodeCtrl(t, wrt); reply.Text != types.ErrLocked.Error() {
		t.Errorf("expected text %q, got %q", types.ErrLocked.Error(), reply.Text)
	}
}

func TestPostCreateUnlockedTopic(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, restore := mockStore(ctrl)
	defer restore()
	defer setupAPITest()()

	tid := types.Uid(1301)
	pid := types.Uid(1400)
	topic := makeTopic(tid, 7, types.Uid(99))

	m.bans.EXPECT().IsBanned("192.0.2.1").Return(false, nil)
	m.posts.EXPECT().LastByIP("192.0.2.1").Return(nil, nil)
	m.topics.EXPECT().Get(tid).Return(&topic, nil)
	m.posts.EXPECT().Create(gomock.Any()).DoAndReturn(
		func(post *types.Post) (*types.Post, error) {
			if post.Topic != tid.String() {
				t.Errorf("post filed under topic %q, want %q", post.Topic, tid.String())
			}
			if post.AuthorName != "drive-by" {
				t.Errorf("anonymous author name lost: %q", post.AuthorName)
			}
			post.SetUid(pid)
			return post, nil
		})

	wrt := httptest.NewRecorder()
	servePosts(wrt, postReq(t, &MsgPostReq{Topic: tid.String(), Content: "first", Name: "drive-by"}))

	if wrt.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d: %s", http.StatusOK, wrt.Code, wrt.Body.String())
	}
}

func TestPostCreateMissingTopic(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, restore := mockStore(ctrl)
	defer restore()
	defer setupAPITest()()

	tid := types.Uid(1302)

	m.bans.EXPECT().IsBanned("192.0.2.1").Return(false, nil)
	m.posts.EXPECT().LastByIP("192.0.2.1").Return(nil, nil)
	m.topics.EXPECT().Get(tid).Return(nil, nil)

	wrt := httptest.NewRecorder()
	servePosts(wrt, postReq(t, &MsgPostReq{Topic: tid.String(), Content: "hello?", Name: "drive-by"}))

	if wrt.Code != http.StatusNotFound {
		t.Fatalf("expected %d for a missing topic, got %d", http.StatusNotFound, wrt.Code)
	}
}
