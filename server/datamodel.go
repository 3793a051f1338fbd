/******************************************************************************
 *
 *  Description :
 *
 *  Wire messages of the presence channel and the JSON payloads of the
 *  moderation API, plus constructors for the response messages.
 *
 *****************************************************************************/

package main

import (
	"net/http"
	"time"

	"github.com/hiddenjvc/server/server/store/types"
)

// TargetKind identifies which kind of entities a moderation call targets.
type TargetKind int

// Moderation targets are either whole topics or individual posts.
const (
	TargetNone TargetKind = iota
	TargetTopic
	TargetPost
)

// parseTargetKind parses the wire name of a target kind.
func parseTargetKind(name string) TargetKind {
	switch name {
	case "topic", "topics":
		return TargetTopic
	case "post", "posts":
		return TargetPost
	}
	return TargetNone
}

// MsgClientLogin is a login {login} message: authenticates the connection
// so the viewer can be listed, not just counted.
type MsgClientLogin struct {
	// Message id.
	Id string `json:"id,omitempty"`
	// Authentication scheme: "basic" or "token".
	Scheme string `json:"scheme,omitempty"`
	// Authentication secret for the chosen scheme.
	Secret []byte `json:"secret"`
}

// MsgClientJoin declares the connection's interest in a presence room:
// a forum and optionally one of its topics.
type MsgClientJoin struct {
	// Message id.
	Id string `json:"id,omitempty"`
	// Id of the forum being viewed.
	Forum int64 `json:"forum"`
	// True if the topic lives in the hidden section of the forum.
	Hidden bool `json:"hidden,omitempty"`
	// Id of the topic being viewed; empty if only the forum is viewed.
	Topic string `json:"topic,omitempty"`
}

// ClientComMessage is a wrapper for the client messages of the presence channel.
type ClientComMessage struct {
	Login *MsgClientLogin `json:"login,omitempty"`
	Join  *MsgClientJoin  `json:"join,omitempty"`
}

// MsgCtrl is a ctrl response message: a status code plus any payload.
type MsgCtrl struct {
	Id        string         `json:"id,omitempty"`
	Code      int            `json:"code"`
	Text      string         `json:"text,omitempty"`
	Params    map[string]any `json:"params,omitempty"`
	Timestamp time.Time      `json:"ts"`
}

// ServerComMessage is a wrapper for the server side messages of the presence channel.
type ServerComMessage struct {
	Ctrl *MsgCtrl `json:"ctrl,omitempty"`
}

// NoErr returns a established ctrl message (200).
func NoErr(id string, ts time.Time) *ServerComMessage {
	return NoErrParams(id, ts, nil)
}

// NoErrParams returns an established ctrl message (200) with given parameters.
func NoErrParams(id string, ts time.Time, params map[string]any) *ServerComMessage {
	return &ServerComMessage{Ctrl: &MsgCtrl{
		Id:        id,
		Code:      http.StatusOK,
		Text:      "ok",
		Params:    params,
		Timestamp: ts,
	}}
}

// ErrMalformedReply returns a malformed message ctrl (400).
func ErrMalformedReply(id string, ts time.Time) *ServerComMessage {
	return &ServerComMessage{Ctrl: &MsgCtrl{
		Id:        id,
		Code:      http.StatusBadRequest,
		Text:      "malformed",
		Timestamp: ts,
	}}
}

// ErrAuthFailedReply returns an authentication failed ctrl (401).
func ErrAuthFailedReply(id string, ts time.Time) *ServerComMessage {
	return &ServerComMessage{Ctrl: &MsgCtrl{
		Id:        id,
		Code:      http.StatusUnauthorized,
		Text:      "authentication failed",
		Timestamp: ts,
	}}
}

// ErrUnknownReply returns an internal error ctrl (500).
func ErrUnknownReply(id string, ts time.Time) *ServerComMessage {
	return &ServerComMessage{Ctrl: &MsgCtrl{
		Id:        id,
		Code:      http.StatusInternalServerError,
		Text:      "internal error",
		Timestamp: ts,
	}}
}

// NoErrShutdown returns a server shutdown ctrl (503) to be sent to
// still-connected clients.
func NoErrShutdown(ts time.Time) *ServerComMessage {
	return &ServerComMessage{Ctrl: &MsgCtrl{
		Code:      http.StatusServiceUnavailable,
		Text:      "server shutting down",
		Timestamp: ts,
	}}
}

// errorStatus maps the storage error taxonomy to HTTP status codes.
func errorStatus(err error) int {
	switch err {
	case nil:
		return http.StatusOK
	case types.ErrMalformed:
		return http.StatusBadRequest
	case types.ErrFailed, types.ErrExpired:
		return http.StatusUnauthorized
	case types.ErrPermissionDenied, types.ErrBanned:
		return http.StatusForbidden
	case types.ErrNotFound:
		return http.StatusNotFound
	case types.ErrThrottled:
		return http.StatusTooManyRequests
	case types.ErrLocked:
		return http.StatusConflict
	case types.ErrDuplicate:
		return http.StatusConflict
	case types.ErrPolicy:
		return http.StatusUnprocessableEntity
	case types.ErrUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
