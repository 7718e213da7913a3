// Package activation 处理系统通过 URL 协议转发回来的通知激活。
//
// 点击通知或按钮时系统以 "<scheme>:activate?session=<uuid>&handle=3&action=1"
// 启动协议处理程序（即 localnotifier activate），后者把 URI 转发给正在运行的实例。
// 句柄只在一个进程内有效，session 不匹配的 URI 来自已退出的进程，会被丢弃。
package activation

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"localnotifier/internal/notify"
)

// DefaultScheme 默认协议名
const DefaultScheme = "localnotifier"

var (
	ErrInvalidURI   = errors.New("invalid activation uri")
	ErrStaleSession = errors.New("activation uri belongs to another session")
)

// NewSession 进程级会话标识，写入本进程生成的每个激活 URI
func NewSession() string {
	return uuid.NewString()
}

// BuildURI 生成激活 URI，action < 0 表示点击通知本身
func BuildURI(scheme, session string, h notify.Handle, action int) string {
	q := url.Values{}
	q.Set("session", session)
	q.Set("handle", strconv.FormatInt(int64(h), 10))
	if action >= 0 {
		q.Set("action", strconv.Itoa(action))
	}
	return scheme + ":activate?" + q.Encode()
}

// URIBuilder 绑定协议名与会话，供 notify.NativeOptions 使用
func URIBuilder(scheme, session string) func(notify.Handle, int) string {
	return func(h notify.Handle, action int) string {
		return BuildURI(scheme, session, h, action)
	}
}

// ParseURI 解析激活 URI 为原生事件，session 与本进程不同时返回 ErrStaleSession
func ParseURI(scheme, session, raw string) (notify.NativeEvent, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return notify.NativeEvent{}, fmt.Errorf("%w: %w", ErrInvalidURI, err)
	}
	if u.Scheme != scheme {
		return notify.NativeEvent{}, fmt.Errorf("%w: unexpected scheme %q", ErrInvalidURI, u.Scheme)
	}
	if u.Opaque != "activate" {
		return notify.NativeEvent{}, fmt.Errorf("%w: unexpected verb %q", ErrInvalidURI, u.Opaque)
	}

	q := u.Query()
	if q.Get("session") != session {
		return notify.NativeEvent{}, fmt.Errorf("%w: %q", ErrStaleSession, q.Get("session"))
	}

	h, err := strconv.ParseInt(q.Get("handle"), 10, 64)
	if err != nil || h <= 0 {
		return notify.NativeEvent{}, fmt.Errorf("%w: bad handle %q", ErrInvalidURI, q.Get("handle"))
	}

	ev := notify.NativeEvent{Handle: notify.Handle(h), Kind: notify.NativeActivated}

	if q.Has("input") {
		ev.Kind = notify.NativeInputSubmitted
		ev.Input = q.Get("input")
		return ev, nil
	}

	if q.Has("action") {
		idx, err := strconv.Atoi(q.Get("action"))
		if err != nil || idx < 0 {
			return notify.NativeEvent{}, fmt.Errorf("%w: bad action %q", ErrInvalidURI, q.Get("action"))
		}
		ev.Kind = notify.NativeActionActivated
		ev.ActionIndex = idx
	}
	return ev, nil
}
