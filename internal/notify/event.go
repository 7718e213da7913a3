package notify

// NativeEventKind 原生回调类型
type NativeEventKind int

const (
	NativeActivated NativeEventKind = iota
	NativeActionActivated
	NativeInputSubmitted
	NativeDismissed
	NativeFailed
)

// DismissReason 原生引擎报告的关闭原因
type DismissReason int

const (
	DismissUserCanceled DismissReason = iota
	DismissApplicationHidden
	DismissTimedOut
)

// NativeEvent 引擎投递的回调事件
type NativeEvent struct {
	Handle      Handle
	Kind        NativeEventKind
	ActionIndex int
	Input       string
	Reason      DismissReason
}

// Callback 在 Show 时绑定到通知标识的回调
type Callback func(NativeEvent)

// EventKind 生命周期事件类型
type EventKind int

const (
	EventShown EventKind = iota
	EventClicked
	EventActionClicked
	EventInputSubmitted
	EventClosed
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventShown:
		return "shown"
	case EventClicked:
		return "clicked"
	case EventActionClicked:
		return "actionClicked"
	case EventInputSubmitted:
		return "inputSubmitted"
	case EventClosed:
		return "closed"
	case EventFailed:
		return "failed"
	}
	return "unknown"
}

// CloseReason 上报给宿主的关闭原因
type CloseReason string

const (
	CloseUserCanceled CloseReason = "userCanceled"
	CloseTimedOut     CloseReason = "timedOut"
	CloseUnknown      CloseReason = "unknown"
)

// CloseReasonFor 只区分用户取消与超时，其余原因一律为 unknown
func CloseReasonFor(r DismissReason) CloseReason {
	switch r {
	case DismissUserCanceled:
		return CloseUserCanceled
	case DismissTimedOut:
		return CloseTimedOut
	default:
		return CloseUnknown
	}
}

// Event 生命周期事件，总是带有 Show 时绑定的标识
type Event struct {
	Kind        EventKind
	ID          string
	ActionIndex int
	Input       string
	CloseReason CloseReason
}

// Translate 将原生事件转换为绑定到 id 的生命周期事件
func Translate(id string, ev NativeEvent) Event {
	out := Event{ID: id}
	switch ev.Kind {
	case NativeActivated:
		out.Kind = EventClicked
	case NativeActionActivated:
		out.Kind = EventActionClicked
		out.ActionIndex = ev.ActionIndex
	case NativeInputSubmitted:
		out.Kind = EventInputSubmitted
		out.Input = ev.Input
	case NativeDismissed:
		out.Kind = EventClosed
		out.CloseReason = CloseReasonFor(ev.Reason)
	default:
		out.Kind = EventFailed
	}
	return out
}

// Sink 接收生命周期事件
type Sink interface {
	Emit(Event)
}

// SinkFunc 函数适配器
type SinkFunc func(Event)

func (f SinkFunc) Emit(ev Event) { f(ev) }
