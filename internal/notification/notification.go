// Package notification sends desktop notifications for messages that
// arrive in chats no pane is showing. Failures are logged and
// swallowed; a broken notifier must never affect the session.
package notification

import (
	"sync"

	"github.com/gen2brain/beeep"

	"panechat/internal/logger"
)

var (
	mu      sync.Mutex
	enabled = true
	// send is swapped out by tests.
	send = beeep.Notify
)

// SetEnabled toggles notifications globally, mirroring the display
// flag.
func SetEnabled(on bool) {
	mu.Lock()
	enabled = on
	mu.Unlock()
}

// Notify shows "title: body" as a desktop notification.
func Notify(title, body string) {
	mu.Lock()
	on := enabled
	fn := send
	mu.Unlock()
	if !on {
		return
	}
	if err := fn(title, body, ""); err != nil {
		logger.Warn("notification failed", "err", err)
	}
}
