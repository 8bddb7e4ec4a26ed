// Package notify delivers desktop notifications for admin messages and
// other app events, degrading to a no-op where unsupported or denied.
package notify

import (
	"fmt"
	"log/slog"
	"time"
)

// Permission is the notification permission state.
type Permission string

const (
	// PermissionUnsupported means the platform cannot show notifications.
	PermissionUnsupported Permission = "unsupported"
	// PermissionDefault means the user has not decided yet.
	PermissionDefault Permission = "default"
	// PermissionGranted means notifications may be shown.
	PermissionGranted Permission = "granted"
	// PermissionDenied means the user refused notifications.
	PermissionDenied Permission = "denied"
)

// autoDismiss windows for transient and interactive notifications.
const (
	autoDismiss            = 6 * time.Second
	autoDismissInteractive = 12 * time.Second
)

// Platform is the OS notification surface.
type Platform interface {
	Supported() bool
	Permission() Permission
	RequestPermission() (Permission, error)
	Show(n Notification) (Handle, error)
}

// Notification is a single desktop notification.
type Notification struct {
	Title              string
	Body               string
	Tag                string
	Icon               string
	RequireInteraction bool
}

// Handle closes a shown notification.
type Handle interface {
	Close() error
}

// Bridge shows notifications through a Platform, filling defaults and
// auto-dismissing after a fixed window.
type Bridge struct {
	platform    Platform
	defaultIcon string
	logger      *slog.Logger

	// after is time.AfterFunc, replaceable in tests.
	after func(d time.Duration, fn func()) *time.Timer
}

// NewBridge creates a Bridge over the given platform.
func NewBridge(platform Platform, defaultIcon string, logger *slog.Logger) *Bridge {
	return &Bridge{
		platform:    platform,
		defaultIcon: defaultIcon,
		logger:      logger,
		after:       time.AfterFunc,
	}
}

// Supported reports whether the platform can show notifications at all.
func (b *Bridge) Supported() bool {
	return b.platform.Supported()
}

// Permission returns the current permission state.
func (b *Bridge) Permission() Permission {
	if !b.platform.Supported() {
		return PermissionUnsupported
	}
	return b.platform.Permission()
}

// RequestPermission asks the user for notification permission. An already
// decided state is returned as-is without prompting again.
func (b *Bridge) RequestPermission() Permission {
	if !b.platform.Supported() {
		return PermissionUnsupported
	}
	if current := b.platform.Permission(); current == PermissionGranted || current == PermissionDenied {
		return current
	}
	perm, err := b.platform.RequestPermission()
	if err != nil {
		b.logger.Warn("notification permission request failed", "error", err)
		return PermissionDenied
	}
	return perm
}

// Show displays a notification when supported and granted, returning a nil
// handle otherwise. The notification auto-dismisses after a fixed window.
func (b *Bridge) Show(n Notification) Handle {
	if !b.platform.Supported() || b.platform.Permission() != PermissionGranted {
		return nil
	}
	if n.Icon == "" {
		n.Icon = b.defaultIcon
	}

	handle, err := b.platform.Show(n)
	if err != nil {
		b.logger.Warn("show notification failed", "title", n.Title, "error", err)
		return nil
	}
	if handle == nil {
		return nil
	}

	window := autoDismiss
	if n.RequireInteraction {
		window = autoDismissInteractive
	}
	b.after(window, func() {
		if err := handle.Close(); err != nil {
			b.logger.Debug("close notification", "error", err)
		}
	})
	return handle
}

// ShowAdminMessage displays an admin message with the title keyed on the
// message kind. Broadcasts and directed messages get distinct titles, and
// both stay up for the longer interactive window.
func (b *Bridge) ShowAdminMessage(kind string, body string) Handle {
	title := "📢 Aviso del VIP"
	if kind == "specific" {
		title = "💌 Mensaje del VIP"
	}
	return b.Show(Notification{
		Title:              title,
		Body:               body,
		Tag:                fmt.Sprintf("vip-%s-%d", kind, time.Now().UnixMilli()),
		RequireInteraction: true,
	})
}
