package notify

import (
	"sync"

	"github.com/gen2brain/beeep"
)

// DesktopPlatform shows notifications through the OS notification daemon.
// Permission is app-level state: the OS side has no deny flow, so the state
// starts at default and moves to granted on request.
type DesktopPlatform struct {
	mu         sync.Mutex
	permission Permission
}

// NewDesktopPlatform creates a DesktopPlatform in the default permission
// state.
func NewDesktopPlatform() *DesktopPlatform {
	return &DesktopPlatform{permission: PermissionDefault}
}

// Supported reports whether desktop notifications are available.
func (p *DesktopPlatform) Supported() bool {
	return true
}

// Permission returns the current app-level permission state.
func (p *DesktopPlatform) Permission() Permission {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.permission
}

// RequestPermission grants permission.
func (p *DesktopPlatform) RequestPermission() (Permission, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.permission = PermissionGranted
	return p.permission, nil
}

// SetPermission overrides the permission state, for an explicit opt-out.
func (p *DesktopPlatform) SetPermission(perm Permission) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.permission = perm
}

// Show displays the notification. Interactive notifications use the alert
// variant so they stay visible longer on platforms that honor urgency.
func (p *DesktopPlatform) Show(n Notification) (Handle, error) {
	var err error
	if n.RequireInteraction {
		err = beeep.Alert(n.Title, n.Body, n.Icon)
	} else {
		err = beeep.Notify(n.Title, n.Body, n.Icon)
	}
	if err != nil {
		return nil, err
	}
	return noopHandle{}, nil
}

// noopHandle satisfies Handle for notifications the daemon manages itself.
type noopHandle struct{}

func (noopHandle) Close() error { return nil }
