package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/hiddenjvc/server/server/store/types"
)

func TestApplyDeleteTopicRecordsFirst(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, restore := mockStore(ctrl)
	defer restore()

	actor := types.Uid(20001)
	tid := types.Uid(600)
	topic := makeTopic(tid, 7, types.Uid(99))
	topic.Title = "doomed thread"

	m.topics.EXPECT().GetAll(tid).Return([]types.Topic{topic}, nil)
	// The audit record must be written before the rows disappear.
	gomock.InOrder(
		m.modlog.EXPECT().Append(gomock.Any()).DoAndReturn(
			func(recs ...*types.ModerationRecord) error {
				if len(recs) != 1 {
					t.Fatalf("expected 1 record, got %d", len(recs))
				}
				if recs[0].Action != types.ActionDeleteTopic {
					t.Errorf("wrong action in record: %s", recs[0].Action)
				}
				if !strings.Contains(recs[0].Label, "doomed thread") {
					t.Errorf("label must name the topic: %q", recs[0].Label)
				}
				return nil
			}),
		m.topics.EXPECT().DeleteAll([]types.Uid{tid}).Return(nil),
	)

	if err := apply(types.ActionDeleteTopic, TargetTopic, []types.Uid{tid}, actor); err != nil {
		t.Fatal(err)
	}
}

func TestApplyLockTopics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, restore := mockStore(ctrl)
	defer restore()

	actor := types.Uid(20002)
	tid := types.Uid(601)

	m.topics.EXPECT().GetAll(tid).Return([]types.Topic{makeTopic(tid, 7, types.Uid(99))}, nil)
	// The record is appended before the flag flips.
	gomock.InOrder(
		m.modlog.EXPECT().Append(gomock.Any()).Return(nil),
		m.topics.EXPECT().UpdateAll([]types.Uid{tid},
			map[string]any{"Locked": true}).Return(nil),
	)

	if err := apply(types.ActionLock, TargetTopic, []types.Uid{tid}, actor); err != nil {
		t.Fatal(err)
	}
}

func TestApplyFlagAbortsWhenRecordFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, restore := mockStore(ctrl)
	defer restore()

	actor := types.Uid(20012)
	tid := types.Uid(610)

	m.topics.EXPECT().GetAll(tid).Return([]types.Topic{makeTopic(tid, 7, types.Uid(99))}, nil)
	// A failed append must block the state change: no UpdateAll expected.
	m.modlog.EXPECT().Append(gomock.Any()).Return(errors.New("log unavailable"))

	if err := apply(types.ActionLock, TargetTopic, []types.Uid{tid}, actor); err == nil {
		t.Fatal("apply must fail when the audit record cannot be written")
	}
}

func TestApplyLockPostRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	_, restore := mockStore(ctrl)
	defer restore()

	err := apply(types.ActionLock, TargetPost, []types.Uid{types.Uid(602)}, types.Uid(20003))
	if err != types.ErrMalformed {
		t.Errorf("locking a post must be rejected, got %v", err)
	}
}

func TestApplyBanIpIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, restore := mockStore(ctrl)
	defer restore()

	actor := types.Uid(20004)
	pid := types.Uid(700)
	tid := types.Uid(603)

	// The address is already banned: no insert, no audit record.
	m.posts.EXPECT().GetAll(pid).Return([]types.Post{makePost(pid, tid, types.ZeroUid, "203.0.113.4")}, nil)
	m.bans.EXPECT().IsBanned("203.0.113.4").Return(true, nil)
	m.modlog.EXPECT().Append().Return(nil)

	if err := apply(types.ActionBanIp, TargetPost, []types.Uid{pid}, actor); err != nil {
		t.Fatal(err)
	}
}

func TestApplyBanIpNewAddress(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, restore := mockStore(ctrl)
	defer restore()

	actor := types.Uid(20005)
	pid1, pid2 := types.Uid(701), types.Uid(702)
	tid := types.Uid(604)

	// Two posts from the same address collapse to one insert and one record.
	m.posts.EXPECT().GetAll(pid1, pid2).Return([]types.Post{
		makePost(pid1, tid, types.ZeroUid, "203.0.113.5"),
		makePost(pid2, tid, types.ZeroUid, "203.0.113.5"),
	}, nil)
	m.bans.EXPECT().IsBanned("203.0.113.5").Return(false, nil)
	gomock.InOrder(
		m.modlog.EXPECT().Append(gomock.Any()).DoAndReturn(
			func(recs ...*types.ModerationRecord) error {
				if len(recs) != 1 {
					t.Fatalf("expected 1 record, got %d", len(recs))
				}
				if !strings.Contains(recs[0].Label, "203.0.113.5") {
					t.Errorf("label must name the address: %q", recs[0].Label)
				}
				return nil
			}),
		m.bans.EXPECT().Add("203.0.113.5").Return(true, nil),
	)

	if err := apply(types.ActionBanIp, TargetPost, []types.Uid{pid1, pid2}, actor); err != nil {
		t.Fatal(err)
	}
}

func TestApplyBanAccountsSkipsAnonymous(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, restore := mockStore(ctrl)
	defer restore()

	actor := types.Uid(20006)
	author := types.Uid(30001)
	pid1, pid2 := types.Uid(703), types.Uid(704)
	tid := types.Uid(605)

	m.posts.EXPECT().GetAll(pid1, pid2).Return([]types.Post{
		makePost(pid1, tid, author, "203.0.113.6"),
		makePost(pid2, tid, types.ZeroUid, "203.0.113.7"),
	}, nil)
	// Only the registered author gets banned, and only after the record
	// is down.
	gomock.InOrder(
		m.modlog.EXPECT().Append(gomock.Any()).Return(nil),
		m.users.EXPECT().SetBanned([]types.Uid{author}, true).Return(nil),
	)

	if err := apply(types.ActionBanAccount, TargetPost, []types.Uid{pid1, pid2}, actor); err != nil {
		t.Fatal(err)
	}
}

func TestApplyModifyTagUnsupported(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	_, restore := mockStore(ctrl)
	defer restore()

	err := apply(types.ActionModifyTag, TargetTopic, []types.Uid{types.Uid(606)}, types.Uid(20007))
	if err != types.ErrUnsupported {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}
