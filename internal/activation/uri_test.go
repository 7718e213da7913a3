package activation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localnotifier/internal/notify"
)

const testSession = "6f1c2a9e-7b1d-4c55-9d0e-2f1b8f3c4a10"

func TestBuildURI(t *testing.T) {
	assert.Equal(t, "localnotifier:activate?handle=3&session="+testSession, BuildURI(DefaultScheme, testSession, 3, -1))
	assert.Equal(t, "localnotifier:activate?action=2&handle=3&session="+testSession, BuildURI(DefaultScheme, testSession, 3, 2))
}

func TestParseURI_RoundTrip(t *testing.T) {
	ev, err := ParseURI(DefaultScheme, testSession, BuildURI(DefaultScheme, testSession, 12, -1))
	require.NoError(t, err)
	assert.Equal(t, notify.NativeEvent{Handle: 12, Kind: notify.NativeActivated}, ev)

	ev, err = ParseURI(DefaultScheme, testSession, URIBuilder(DefaultScheme, testSession)(12, 0))
	require.NoError(t, err)
	assert.Equal(t, notify.NativeEvent{Handle: 12, Kind: notify.NativeActionActivated, ActionIndex: 0}, ev)
}

func TestParseURI_Input(t *testing.T) {
	ev, err := ParseURI("app", "s1", "app:activate?session=s1&handle=4&input=see+you")
	require.NoError(t, err)
	assert.Equal(t, notify.NativeInputSubmitted, ev.Kind)
	assert.Equal(t, "see you", ev.Input)
}

func TestParseURI_OtherSession(t *testing.T) {
	previous := NewSession()
	current := NewSession()
	require.NotEqual(t, previous, current)

	for _, raw := range []string{
		BuildURI(DefaultScheme, previous, 1, -1),
		"localnotifier:activate?handle=1",
	} {
		_, err := ParseURI(DefaultScheme, current, raw)
		assert.ErrorIs(t, err, ErrStaleSession, raw)
	}
}

func TestParseURI_Invalid(t *testing.T) {
	for _, raw := range []string{
		"other:activate?session=s&handle=1",
		"localnotifier:dismiss?session=s&handle=1",
		"localnotifier:activate?session=s",
		"localnotifier:activate?session=s&handle=0",
		"localnotifier:activate?session=s&handle=x",
		"localnotifier:activate?session=s&handle=1&action=-1",
		"localnotifier:activate?session=s&handle=1&action=two",
		"%zz",
	} {
		_, err := ParseURI(DefaultScheme, "s", raw)
		assert.ErrorIs(t, err, ErrInvalidURI, raw)
	}
}
