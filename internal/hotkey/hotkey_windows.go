//go:build windows

package hotkey

import (
	"fmt"

	"golang.design/x/hotkey"
)

type platform struct {
	hk *hotkey.Hotkey
}

func (p *platform) register(modifiers []string, key string) error {
	mods, err := parseModifiers(modifiers)
	if err != nil {
		return err
	}
	k, err := parseKey(key)
	if err != nil {
		return err
	}

	p.hk = hotkey.New(mods, k)
	return p.hk.Register()
}

func (p *platform) unregister() error {
	if p.hk == nil {
		return nil
	}
	return p.hk.Unregister()
}

func (p *platform) keydown() <-chan hotkey.Event {
	if p.hk == nil {
		return nil
	}
	return p.hk.Keydown()
}

// parseModifiers 解析修饰键
func parseModifiers(mods []string) ([]hotkey.Modifier, error) {
	var result []hotkey.Modifier
	for _, mod := range mods {
		switch mod {
		case "ctrl":
			result = append(result, hotkey.ModCtrl)
		case "alt":
			result = append(result, hotkey.ModAlt)
		case "shift":
			result = append(result, hotkey.ModShift)
		case "win":
			result = append(result, hotkey.ModWin)
		default:
			return nil, fmt.Errorf("unknown modifier %q", mod)
		}
	}
	return result, nil
}

var namedKeys = map[string]hotkey.Key{
	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3, "f4": hotkey.KeyF4,
	"f5": hotkey.KeyF5, "f6": hotkey.KeyF6, "f7": hotkey.KeyF7, "f8": hotkey.KeyF8,
	"f9": hotkey.KeyF9, "f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,
	"space": hotkey.KeySpace, "return": hotkey.KeyReturn, "enter": hotkey.KeyReturn,
	"escape": hotkey.KeyEscape, "esc": hotkey.KeyEscape, "tab": hotkey.KeyTab,
	"delete": hotkey.KeyDelete, "del": hotkey.KeyDelete,
	"up": hotkey.KeyUp, "down": hotkey.KeyDown, "left": hotkey.KeyLeft, "right": hotkey.KeyRight,
}

// parseKey 解析主键，无法识别时报错
func parseKey(key string) (hotkey.Key, error) {
	if len(key) == 1 {
		c := key[0]
		if c >= 'a' && c <= 'z' {
			return hotkey.Key(c - 'a' + 'A'), nil
		}
		if c >= '0' && c <= '9' {
			return hotkey.Key(c), nil
		}
	}
	if k, ok := namedKeys[key]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("unknown key %q", key)
}
