package plugin

import (
	"github.com/rs/zerolog"

	"localnotifier/internal/channel"
	"localnotifier/internal/notify"
)

// EventSink 把生命周期事件作为反向调用写到通道
func EventSink(ch *channel.Channel, logger zerolog.Logger) notify.Sink {
	return notify.SinkFunc(func(ev notify.Event) {
		method, args := Encode(ev)
		if err := ch.InvokeMethod(method, args); err != nil {
			logger.Error().Err(err).Str("method", method).Str("id", ev.ID).Msg("forward event")
		}
	})
}

// Encode 生命周期事件的方法名与参数
func Encode(ev notify.Event) (string, map[string]any) {
	args := map[string]any{"notificationId": ev.ID}

	switch ev.Kind {
	case notify.EventShown:
		return EventShow, args
	case notify.EventClicked:
		return EventClick, args
	case notify.EventActionClicked:
		args["actionIndex"] = ev.ActionIndex
		return EventClickAction, args
	case notify.EventInputSubmitted:
		args["input"] = ev.Input
		return EventInput, args
	case notify.EventClosed:
		args["closeReason"] = string(ev.CloseReason)
		return EventClose, args
	default:
		return EventFail, args
	}
}
