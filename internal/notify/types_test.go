package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplateType(t *testing.T) {
	tests := []struct {
		in   string
		want TemplateType
	}{
		{"text01", TemplateText01},
		{"LocalNotificationType.text02", TemplateText02},
		{"LocalNotificationType.imageAndText03", TemplateImageAndText03},
		{"imageAndText04", TemplateImageAndText04},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTemplateType(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTemplateType_RejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "text05", "LocalNotificationType.", "Text01"} {
		_, err := ParseTemplateType(in)
		assert.ErrorIs(t, err, ErrInvalidArgument, in)
	}
}

func TestParseSound(t *testing.T) {
	s, err := ParseSound("")
	require.NoError(t, err)
	assert.Equal(t, SoundUnset, s)

	s, err = ParseSound("LocalNotificationSound.alarm10")
	require.NoError(t, err)
	assert.Equal(t, SoundAlarm10, s)
	assert.True(t, s.IsAlarm())
	assert.False(t, s.IsCall())

	s, err = ParseSound("call")
	require.NoError(t, err)
	assert.True(t, s.IsCall())

	s, err = ParseSound("LocalNotificationSound.call1")
	require.NoError(t, err)
	assert.Equal(t, SoundCall1, s)
	assert.True(t, s.IsCall())
	assert.Equal(t, "call1", s.String())

	_, err = ParseSound("LocalNotificationSound.trumpet")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParseSoundOption(t *testing.T) {
	o, err := ParseSoundOption("")
	require.NoError(t, err)
	assert.Equal(t, SoundOptionDefault, o)

	o, err = ParseSoundOption("LocalNotificationSoundOption.loop")
	require.NoError(t, err)
	assert.Equal(t, SoundOptionLoop, o)

	_, err = ParseSoundOption("loud")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("LocalNotificationDuration.short")
	require.NoError(t, err)
	assert.Equal(t, DurationShort, d)

	d, err = ParseDuration("")
	require.NoError(t, err)
	assert.Equal(t, DurationSystem, d)

	_, err = ParseDuration("forever")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParseShortcutPolicy(t *testing.T) {
	p, err := ParseShortcutPolicy("requireNoCreate")
	require.NoError(t, err)
	assert.Equal(t, ShortcutRequireNoCreate, p)
	assert.Equal(t, "requireNoCreate", p.String())

	_, err = ParseShortcutPolicy("")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestTemplateType_Lines(t *testing.T) {
	assert.Equal(t, 1, TemplateText01.Lines())
	assert.Equal(t, 2, TemplateText02.Lines())
	assert.Equal(t, 2, TemplateImageAndText03.Lines())
	assert.Equal(t, 3, TemplateImageAndText04.Lines())
	assert.False(t, TemplateText04.HasImage())
	assert.True(t, TemplateImageAndText01.HasImage())
}

func TestConfig_TextLines(t *testing.T) {
	cfg := Config{Type: TemplateText01, Title: "Hi", Body: "There", Body2: "Again"}
	assert.Equal(t, []string{"Hi"}, cfg.TextLines())

	cfg.Type = TemplateText02
	assert.Equal(t, []string{"Hi", "There"}, cfg.TextLines())

	cfg.Type = TemplateText04
	assert.Equal(t, []string{"Hi", "There", "Again"}, cfg.TextLines())

	cfg.Body = ""
	assert.Equal(t, []string{"Hi", "Again"}, cfg.TextLines())
}

func TestConfig_Message(t *testing.T) {
	cfg := Config{Type: TemplateText04, Title: "Hi", Body: "There", Body2: "Again", AttributionText: "via app"}
	assert.Equal(t, "There\nAgain\nvia app", cfg.Message())

	cfg = Config{Type: TemplateText01, Title: "Hi", Body: "dropped"}
	assert.Equal(t, "", cfg.Message())
}

func TestEnumString_Unknown(t *testing.T) {
	assert.Equal(t, "unknown(99)", TemplateType(99).String())
	assert.Equal(t, "unknown(-1)", Duration(-1).String())
}
