// Package channel 实现宿主与本进程之间的方法通道：
// 每行一个 JSON 消息，请求带 id，事件（反向调用）不带 id。
package channel

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
)

// 错误码
const (
	CodeMalformedMessage = "MALFORMED_MESSAGE"
	CodeNoResponse       = "NO_RESPONSE"
)

const maxMessageSize = 1 << 20

// MethodCall 宿主发起的一次调用
type MethodCall struct {
	Method    string
	Arguments json.RawMessage
}

// DecodeArguments 将参数解码到 v
func (c MethodCall) DecodeArguments(v any) error {
	if len(c.Arguments) == 0 || string(c.Arguments) == "null" {
		return errors.New("arguments are required")
	}
	return json.Unmarshal(c.Arguments, v)
}

// Result 每次调用恰好回复一次
type Result interface {
	Success(v any)
	Error(code, message string, details any)
	NotImplemented()
}

// Handler 处理宿主调用
type Handler interface {
	HandleMethodCall(ctx context.Context, call MethodCall, result Result)
}

// HandlerFunc 函数适配器
type HandlerFunc func(ctx context.Context, call MethodCall, result Result)

func (f HandlerFunc) HandleMethodCall(ctx context.Context, call MethodCall, result Result) {
	f(ctx, call, result)
}

// ErrorPayload 错误回复内容
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type request struct {
	ID        *int64          `json:"id"`
	Method    string          `json:"method"`
	Arguments json.RawMessage `json:"arguments"`
}

type response struct {
	ID             *int64        `json:"id"`
	Result         any           `json:"result,omitempty"`
	Error          *ErrorPayload `json:"error,omitempty"`
	NotImplemented bool          `json:"notImplemented,omitempty"`
}

type invocation struct {
	Method    string `json:"method"`
	Arguments any    `json:"arguments,omitempty"`
}

// Channel 基于行分隔 JSON 的方法通道
type Channel struct {
	name string
	r    io.Reader
	log  zerolog.Logger

	wmu sync.Mutex
	w   io.Writer

	hmu     sync.RWMutex
	handler Handler
}

// New 创建通道，r 读取宿主调用，w 写回复与事件
func New(name string, r io.Reader, w io.Writer, logger zerolog.Logger) *Channel {
	return &Channel{
		name: name,
		r:    r,
		w:    w,
		log:  logger.With().Str("component", "channel").Str("channel", name).Logger(),
	}
}

// Name 通道名称
func (c *Channel) Name() string {
	return c.name
}

// SetMethodCallHandler 设置调用处理器，为 nil 时所有调用回复未实现
func (c *Channel) SetMethodCallHandler(h Handler) {
	c.hmu.Lock()
	defer c.hmu.Unlock()
	c.handler = h
}

// InvokeMethod 向宿主发送一次调用（不等待回复），可并发使用
func (c *Channel) InvokeMethod(method string, args any) error {
	return c.write(invocation{Method: method, Arguments: args})
}

// Serve 逐个处理调用，直到读到 EOF 或 ctx 取消
func (c *Channel) Serve(ctx context.Context) error {
	lines := make(chan frame)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		br := bufio.NewReaderSize(c.r, 64*1024)
		for {
			f, err := readFrame(br, maxMessageSize)
			if len(f.line) > 0 || f.tooLong {
				select {
				case lines <- f:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					errc <- err
				}
				return
			}
		}
	}()

	c.log.Debug().Msg("serving")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					return fmt.Errorf("read channel: %w", err)
				default:
				}
				c.log.Debug().Msg("host closed channel")
				return nil
			}
			if f.tooLong {
				c.log.Warn().Int("limit", maxMessageSize).Msg("message too long, skipped")
				c.reply(response{Error: &ErrorPayload{
					Code:    CodeMalformedMessage,
					Message: fmt.Sprintf("message exceeds %d bytes", maxMessageSize),
				}})
				continue
			}
			c.handleLine(ctx, f.line)
		}
	}
}

// frame 一行消息；超长的行被整行丢弃，只保留 tooLong 标记
type frame struct {
	line    []byte
	tooLong bool
}

// readFrame 读取一行（不含换行符），超过 limit 时继续读到行尾并丢弃
func readFrame(br *bufio.Reader, limit int) (frame, error) {
	var f frame
	for {
		chunk, err := br.ReadSlice('\n')
		if !f.tooLong {
			if len(f.line)+len(chunk) > limit+1 {
				f.tooLong = true
				f.line = nil
			} else {
				f.line = append(f.line, chunk...)
			}
		}

		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		f.line = bytes.TrimRight(f.line, "\r\n")
		return f, err
	}
}

func (c *Channel) handleLine(ctx context.Context, line []byte) {
	var req request
	if err := json.Unmarshal(line, &req); err != nil {
		c.log.Warn().Err(err).Msg("malformed message")
		c.reply(response{Error: &ErrorPayload{Code: CodeMalformedMessage, Message: err.Error()}})
		return
	}
	if req.Method == "" {
		c.reply(response{ID: req.ID, Error: &ErrorPayload{Code: CodeMalformedMessage, Message: "method is required"}})
		return
	}

	res := &result{ch: c, id: req.ID, method: req.Method}
	call := MethodCall{Method: req.Method, Arguments: req.Arguments}

	c.hmu.RLock()
	h := c.handler
	c.hmu.RUnlock()

	c.log.Debug().Str("method", call.Method).Msg("method call")
	if h == nil {
		res.NotImplemented()
		return
	}

	h.HandleMethodCall(ctx, call, res)
	if !res.replied() {
		c.log.Error().Str("method", call.Method).Msg("handler returned without replying")
		res.Error(CodeNoResponse, "handler did not reply", nil)
	}
}

func (c *Channel) reply(resp response) {
	if err := c.write(resp); err != nil {
		c.log.Error().Err(err).Msg("write reply")
	}
}

func (c *Channel) write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	data = append(data, '\n')

	c.wmu.Lock()
	defer c.wmu.Unlock()
	_, err = c.w.Write(data)
	return err
}

type result struct {
	ch     *Channel
	id     *int64
	method string

	mu   sync.Mutex
	done bool
}

func (r *result) Success(v any) {
	if r.claim() {
		r.ch.reply(response{ID: r.id, Result: v})
	}
}

func (r *result) Error(code, message string, details any) {
	if r.claim() {
		r.ch.reply(response{ID: r.id, Error: &ErrorPayload{Code: code, Message: message, Details: details}})
	}
}

func (r *result) NotImplemented() {
	if r.claim() {
		r.ch.reply(response{ID: r.id, NotImplemented: true})
	}
}

func (r *result) claim() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		r.ch.log.Warn().Str("method", r.method).Msg("duplicate reply dropped")
		return false
	}
	r.done = true
	return true
}

func (r *result) replied() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}
