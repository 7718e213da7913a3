//go:build !windows

package hotkey

type platform struct{}

func (p *platform) register([]string, string) error { return ErrUnsupported }

func (p *platform) unregister() error { return nil }

func (p *platform) keydown() <-chan struct{} { return nil }
