/******************************************************************************
 *
 *  Description :
 *
 *  JSON API handlers: login, moderation calls, the audit log, post
 *  creation and quote chain resolution. Thin shims which validate the
 *  payload, call the engine and map errors to status codes.
 *
 *****************************************************************************/

package main

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hiddenjvc/server/server/logs"
	"github.com/hiddenjvc/server/server/store"
	"github.com/hiddenjvc/server/server/store/types"
)

// MsgLoginReq is the payload of a login call.
type MsgLoginReq struct {
	// Authentication scheme: "basic" or "token".
	Scheme string `json:"scheme"`
	// Base64-encoded secret for the chosen scheme.
	Secret []byte `json:"secret"`
}

// MsgModerationReq is the payload of a moderation call.
type MsgModerationReq struct {
	// Action name, e.g. "Pin" or "DeleteTopic".
	Action string `json:"action"`
	// Kind of the targets: "topics" or "posts".
	Kind string `json:"kind"`
	// Ids of the target entities.
	Ids []string `json:"ids"`
}

// MsgPostReq is the payload of a post creation call.
type MsgPostReq struct {
	// Id of the topic being replied to.
	Topic string `json:"topic"`
	// Body of the post.
	Content string `json:"content"`
	// Id of the post being quoted, if any.
	Quoted string `json:"quoted,omitempty"`
	// Display name for anonymous posts.
	Name string `json:"name,omitempty"`
}

// writeHTTPResponse serializes one ctrl message to the response writer.
func writeHTTPResponse(wrt http.ResponseWriter, msg *ServerComMessage) {
	wrt.Header().Set("Content-Type", "application/json; charset=utf-8")
	wrt.WriteHeader(msg.Ctrl.Code)
	json.NewEncoder(wrt).Encode(msg)
}

// errorReply builds a ctrl message from a storage error.
func errorReply(err error, ts time.Time) *ServerComMessage {
	code := errorStatus(err)
	text := http.StatusText(code)
	if serr, ok := err.(types.StoreError); ok {
		text = serr.Error()
	}
	return &ServerComMessage{Ctrl: &MsgCtrl{Code: code, Text: text, Timestamp: ts}}
}

// decodeRequest unmarshals a size-capped JSON request body.
func decodeRequest(wrt http.ResponseWriter, req *http.Request, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(wrt, req.Body, globals.maxMessageSize))
	if err != nil {
		return types.ErrMalformed
	}
	if err = json.Unmarshal(body, dst); err != nil {
		return types.ErrMalformed
	}
	return nil
}

// authForRequest extracts the actor's identity from the request's
// Authorization header. Missing header means an anonymous caller, zero
// uid. A present but invalid token is an error.
func authForRequest(req *http.Request) (types.Uid, error) {
	header := req.Header.Get("Authorization")
	if header == "" {
		return types.ZeroUid, nil
	}

	scheme, secret, ok := strings.Cut(header, " ")
	if !ok {
		return types.ZeroUid, types.ErrMalformed
	}
	handler := globals.authHandlers[strings.ToLower(scheme)]
	if handler == nil {
		return types.ZeroUid, types.ErrUnsupported
	}

	decoded, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return types.ZeroUid, types.ErrMalformed
	}
	rec, err := handler.Authenticate(decoded)
	if err != nil {
		return types.ZeroUid, err
	}
	return rec.Uid, nil
}

// serveLogin authenticates the caller with the scheme named in the
// payload and responds with a token for subsequent calls.
func serveLogin(wrt http.ResponseWriter, req *http.Request) {
	now := types.TimeNow()
	if req.Method != http.MethodPost {
		wrt.Header().Set("Allow", http.MethodPost)
		writeHTTPResponse(wrt, errorReply(types.ErrUnsupported, now))
		return
	}

	var msg MsgLoginReq
	if err := decodeRequest(wrt, req, &msg); err != nil {
		writeHTTPResponse(wrt, ErrMalformedReply("", now))
		return
	}

	handler := globals.authHandlers[msg.Scheme]
	if handler == nil {
		writeHTTPResponse(wrt, ErrMalformedReply("", now))
		return
	}
	rec, err := handler.Authenticate(msg.Secret)
	if err != nil {
		logs.Warn.Println("login: failed", err)
		writeHTTPResponse(wrt, ErrAuthFailedReply("", now))
		return
	}

	params := map[string]any{"user": rec.Uid.UserId()}
	if tokenizer := globals.authHandlers["token"]; tokenizer != nil {
		token, expires, err := tokenizer.GenSecret(rec)
		if err != nil {
			logs.Err.Println("login: cannot generate token", err)
			writeHTTPResponse(wrt, ErrUnknownReply("", now))
			return
		}
		params["token"] = token
		params["expires"] = expires
	}

	writeHTTPResponse(wrt, NoErrParams("", now, params))
}

// serveModeration authorizes and applies one moderation action to a set
// of targets on behalf of the authenticated caller.
func serveModeration(wrt http.ResponseWriter, req *http.Request) {
	now := types.TimeNow()
	if req.Method != http.MethodPost {
		wrt.Header().Set("Allow", http.MethodPost)
		writeHTTPResponse(wrt, errorReply(types.ErrUnsupported, now))
		return
	}

	actor, err := authForRequest(req)
	if err != nil || actor.IsZero() {
		writeHTTPResponse(wrt, ErrAuthFailedReply("", now))
		return
	}

	var msg MsgModerationReq
	if err = decodeRequest(wrt, req, &msg); err != nil {
		writeHTTPResponse(wrt, ErrMalformedReply("", now))
		return
	}

	action, err := types.ParseAction(msg.Action)
	kind := parseTargetKind(msg.Kind)
	targets := parseUidSlice(msg.Ids)
	if err != nil || kind == TargetNone || targets == nil {
		writeHTTPResponse(wrt, ErrMalformedReply("", now))
		return
	}

	allowed, err := authorize(actor, action, kind, targets)
	if err != nil {
		logs.Err.Println("moderation: authorize failed", err)
		writeHTTPResponse(wrt, errorReply(err, now))
		return
	}
	if !allowed {
		writeHTTPResponse(wrt, errorReply(types.ErrPermissionDenied, now))
		return
	}

	if err = apply(action, kind, targets, actor); err != nil {
		writeHTTPResponse(wrt, errorReply(err, now))
		return
	}

	writeHTTPResponse(wrt, NoErr("", now))
}

// serveModerationLog returns the most recent audit records, newest first.
// Reading the log is itself a moderator capability: it requires at least
// one grant or the admin flag.
func serveModerationLog(wrt http.ResponseWriter, req *http.Request) {
	now := types.TimeNow()
	if req.Method != http.MethodGet {
		wrt.Header().Set("Allow", http.MethodGet)
		writeHTTPResponse(wrt, errorReply(types.ErrUnsupported, now))
		return
	}

	actor, err := authForRequest(req)
	if err != nil || actor.IsZero() {
		writeHTTPResponse(wrt, ErrAuthFailedReply("", now))
		return
	}
	user, err := store.Users.Get(actor)
	if err != nil {
		writeHTTPResponse(wrt, errorReply(err, now))
		return
	}
	if user == nil {
		writeHTTPResponse(wrt, ErrAuthFailedReply("", now))
		return
	}
	if !user.IsAdmin {
		grants, err := store.Grants.GetForUser(actor)
		if err != nil {
			writeHTTPResponse(wrt, errorReply(err, now))
			return
		}
		if len(grants) == 0 {
			writeHTTPResponse(wrt, errorReply(types.ErrPermissionDenied, now))
			return
		}
	}

	limit := 0
	if val := req.URL.Query().Get("limit"); val != "" {
		if limit, err = strconv.Atoi(val); err != nil || limit < 0 {
			writeHTTPResponse(wrt, ErrMalformedReply("", now))
			return
		}
	}

	recs, err := store.ModLog.GetAll(limit)
	if err != nil {
		writeHTTPResponse(wrt, errorReply(err, now))
		return
	}

	writeHTTPResponse(wrt, NoErrParams("", now, map[string]any{"records": recs}))
}

// servePosts routes the posts subtree: post creation at the root, quote
// chain resolution at posts/{id}/quotes.
func servePosts(wrt http.ResponseWriter, req *http.Request) {
	now := types.TimeNow()

	_, rest, _ := strings.Cut(req.URL.Path, "/posts")
	rest = strings.Trim(rest, "/")
	if rest == "" {
		servePostCreate(wrt, req, now)
		return
	}

	parts := strings.Split(rest, "/")
	if len(parts) == 2 && parts[1] == "quotes" {
		serveQuoteChain(wrt, req, parts[0], now)
		return
	}

	serve404(wrt, req)
}

// servePostCreate creates one post after running the abuse gate and the
// lock check on the owning topic. Anonymous callers must supply a name.
func servePostCreate(wrt http.ResponseWriter, req *http.Request, now time.Time) {
	if req.Method != http.MethodPost {
		wrt.Header().Set("Allow", http.MethodPost)
		writeHTTPResponse(wrt, errorReply(types.ErrUnsupported, now))
		return
	}

	actor, err := authForRequest(req)
	if err != nil {
		writeHTTPResponse(wrt, ErrAuthFailedReply("", now))
		return
	}

	var msg MsgPostReq
	if err = decodeRequest(wrt, req, &msg); err != nil {
		writeHTTPResponse(wrt, ErrMalformedReply("", now))
		return
	}
	topicId := types.ParseUid(msg.Topic)
	if topicId.IsZero() || msg.Content == "" || (actor.IsZero() && msg.Name == "") {
		writeHTTPResponse(wrt, ErrMalformedReply("", now))
		return
	}

	ip := remoteAddress(req)
	if err = checkCanCreate(ip, actor); err != nil {
		writeHTTPResponse(wrt, errorReply(err, now))
		return
	}

	topic, err := store.Topics.Get(topicId)
	if err != nil {
		writeHTTPResponse(wrt, errorReply(err, now))
		return
	}
	if topic == nil {
		writeHTTPResponse(wrt, errorReply(types.ErrNotFound, now))
		return
	}
	if topic.Locked {
		writeHTTPResponse(wrt, errorReply(types.ErrLocked, now))
		return
	}

	post := &types.Post{
		Topic:   topic.Id,
		Content: msg.Content,
		IP:      ip,
	}
	if actor.IsZero() {
		post.AuthorName = msg.Name
	} else {
		post.Author = actor.String()
	}
	if msg.Quoted != "" {
		quoted := types.ParseUid(msg.Quoted)
		if quoted.IsZero() {
			writeHTTPResponse(wrt, ErrMalformedReply("", now))
			return
		}
		post.QuotedId = quoted.String()
	}

	if _, err = store.Posts.Create(post); err != nil {
		logs.Err.Println("posts: create failed", err)
		writeHTTPResponse(wrt, errorReply(err, now))
		return
	}

	writeHTTPResponse(wrt, NoErrParams("", now, map[string]any{"post": post.Id}))
}

// serveQuoteChain resolves the quote ancestry of one post.
func serveQuoteChain(wrt http.ResponseWriter, req *http.Request, id string, now time.Time) {
	if req.Method != http.MethodGet {
		wrt.Header().Set("Allow", http.MethodGet)
		writeHTTPResponse(wrt, errorReply(types.ErrUnsupported, now))
		return
	}

	postId := types.ParseUid(id)
	if postId.IsZero() {
		writeHTTPResponse(wrt, ErrMalformedReply("", now))
		return
	}

	chain, err := resolveChain(postId)
	if err != nil {
		logs.Err.Println("quotes: resolve failed", err)
		writeHTTPResponse(wrt, errorReply(err, now))
		return
	}

	writeHTTPResponse(wrt, NoErrParams("", now, map[string]any{"chain": chain}))
}
