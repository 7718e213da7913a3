package tray

import (
	"fmt"
	"time"

	"github.com/getlantern/systray"
)

// Tray 系统托盘
type Tray struct {
	appName    string
	hotkeyText string
	onCloseAll func()
	onQuit     func()
	count      func() int
	refresh    chan struct{}
}

// NewTray 创建系统托盘
func NewTray(appName string) *Tray {
	return &Tray{
		appName: appName,
		refresh: make(chan struct{}, 1),
	}
}

// SetHotkeyText 设置“关闭全部”快捷键显示文本
func (t *Tray) SetHotkeyText(text string) {
	t.hotkeyText = text
}

// SetOnCloseAll 设置关闭全部通知回调
func (t *Tray) SetOnCloseAll(fn func()) {
	t.onCloseAll = fn
}

// SetOnQuit 设置退出回调
func (t *Tray) SetOnQuit(fn func()) {
	t.onQuit = fn
}

// SetCounter 设置当前通知数量来源
func (t *Tray) SetCounter(fn func() int) {
	t.count = fn
}

// Refresh 通知数量变化后调用，不阻塞
func (t *Tray) Refresh() {
	select {
	case t.refresh <- struct{}{}:
	default:
	}
}

// Run 运行系统托盘（阻塞，需在主线程调用）
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit 退出托盘循环
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetIcon(getIcon())
	systray.SetTitle(t.appName)
	systray.SetTooltip(t.appName + " - 通知")

	mCount := systray.AddMenuItem(t.countText(), "当前显示的通知")
	mCount.Disable()
	systray.AddSeparator()

	closeText := "关闭全部通知"
	if t.hotkeyText != "" {
		closeText += " (" + t.hotkeyText + ")"
	}
	mCloseAll := systray.AddMenuItem(closeText, "撤回所有仍在显示的通知")

	systray.AddSeparator()

	mQuit := systray.AddMenuItem("退出", "退出程序")

	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				mCount.SetTitle(t.countText())
			case <-t.refresh:
				mCount.SetTitle(t.countText())
			case <-mCloseAll.ClickedCh:
				if t.onCloseAll != nil {
					t.onCloseAll()
				}
				mCount.SetTitle(t.countText())
			case <-mQuit.ClickedCh:
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()
}

func (t *Tray) countText() string {
	if t.count == nil {
		return "通知"
	}
	return fmt.Sprintf("当前通知: %d", t.count())
}

func (t *Tray) onExit() {}
