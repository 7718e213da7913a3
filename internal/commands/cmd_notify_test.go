package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localnotifier/internal/notify"
)

func TestNotifyCmd_Config(t *testing.T) {
	cmd := &NotifyCmd{
		kind:        "LocalNotificationType.imageAndText04",
		title:       "Build finished",
		body:        "main is green",
		body2:       "42 tests",
		attribution: "ci",
		image:       `C:\icons\ok.png`,
		sound:       "alarm3",
		soundOption: "loop",
		duration:    "long",
		actions:     []string{"Open", "Dismiss"},
	}

	cfg, err := cmd.config()
	require.NoError(t, err)

	assert.Equal(t, notify.TemplateImageAndText04, cfg.Type)
	assert.Equal(t, "Build finished", cfg.Title)
	assert.Equal(t, "main is green", cfg.Body)
	assert.Equal(t, "42 tests", cfg.Body2)
	assert.Equal(t, "ci", cfg.AttributionText)
	assert.Equal(t, `C:\icons\ok.png`, cfg.ImagePath)
	assert.Equal(t, notify.SoundAlarm3, cfg.Sound)
	assert.Equal(t, notify.SoundOptionLoop, cfg.SoundOption)
	assert.Equal(t, notify.DurationLong, cfg.Duration)
	assert.Equal(t, []notify.Action{{Text: "Open"}, {Text: "Dismiss"}}, cfg.Actions)
	assert.Nil(t, cfg.Input)
}

func TestNotifyCmd_ConfigDefaults(t *testing.T) {
	cmd := &NotifyCmd{kind: "text02", title: "hi"}

	cfg, err := cmd.config()
	require.NoError(t, err)
	assert.Equal(t, notify.SoundUnset, cfg.Sound)
	assert.Equal(t, notify.SoundOptionDefault, cfg.SoundOption)
	assert.Equal(t, notify.DurationSystem, cfg.Duration)
	assert.Empty(t, cfg.Actions)
}

func TestNotifyCmd_ConfigRejectsUnknownEnums(t *testing.T) {
	tests := []struct {
		name string
		cmd  NotifyCmd
	}{
		{name: "type", cmd: NotifyCmd{kind: "text05"}},
		{name: "sound", cmd: NotifyCmd{kind: "text01", sound: "klaxon"}},
		{name: "sound option", cmd: NotifyCmd{kind: "text01", soundOption: "twice"}},
		{name: "duration", cmd: NotifyCmd{kind: "text01", duration: "forever"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cmd.config()
			assert.ErrorIs(t, err, notify.ErrInvalidArgument)
		})
	}
}

func TestPrintSink(t *testing.T) {
	var buf bytes.Buffer
	done := make(chan struct{}, 1)
	sink := printSink(&buf, done)

	sink.Emit(notify.Event{Kind: notify.EventShown, ID: "n1"})
	select {
	case <-done:
		t.Fatal("shown must not finish the command")
	default:
	}

	sink.Emit(notify.Event{Kind: notify.EventClosed, ID: "n1", CloseReason: notify.CloseTimedOut})
	select {
	case <-done:
	default:
		t.Fatal("closed finishes the command")
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"method":"onLocalNotificationShow","arguments":{"notificationId":"n1"}}`, lines[0])
	assert.JSONEq(t, `{"method":"onLocalNotificationClose","arguments":{"notificationId":"n1","closeReason":"timedOut"}}`, lines[1])
}
