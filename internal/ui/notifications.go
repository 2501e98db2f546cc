package ui

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/anomredux/slt-usage/internal/theme"
)

const notificationTTL = 5 * time.Second

type Notification struct {
	Message   string
	CreatedAt time.Time
}

type NotificationManager struct {
	active *Notification
	bell   bool
	now    func() time.Time
}

func NewNotificationManager(bell bool, now func() time.Time) *NotificationManager {
	if now == nil {
		now = time.Now
	}
	return &NotificationManager{bell: bell, now: now}
}

// SetMessage shows a transient informational notification.
func (nm *NotificationManager) SetMessage(msg string) {
	nm.active = &Notification{
		Message:   msg,
		CreatedAt: nm.now(),
	}
}

// Active returns the current notification if it has not expired.
func (nm *NotificationManager) Active() *Notification {
	if nm.active == nil {
		return nil
	}
	if nm.now().Sub(nm.active.CreatedAt) > notificationTTL {
		return nil
	}
	return nm.active
}

// Expire clears expired notifications. Call from Update(), not View().
func (nm *NotificationManager) Expire() {
	if nm.active != nil && nm.now().Sub(nm.active.CreatedAt) > notificationTTL {
		nm.active = nil
	}
}

func (nm *NotificationManager) RenderBanner(width int) string {
	n := nm.Active()
	if n == nil {
		return ""
	}

	style := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(theme.ColorLavender)
	if width > 0 {
		style = style.Width(width).Align(lipgloss.Center)
	}

	bellChar := ""
	if nm.bell {
		bellChar = "\a"
	}

	return bellChar + style.Render(n.Message)
}
