// Package activitylog writes audit entries for admin-facing actions.
// Recording is fire-and-forget: a failed insert is logged and swallowed
// so auditing never breaks the request that triggered it.
package activitylog

import (
	"log"

	"github.com/aigatehq/aigate/app/models"
	"github.com/aigatehq/aigate/app/repository"
)

// Record persists one audit entry through the global repository factory.
func Record(user, action, details, component, level string) {
	entry := &models.ActivityLog{
		User:      user,
		Action:    action,
		Details:   details,
		Component: component,
		Level:     level,
	}
	if err := repository.GetGlobalRepositories().Log.Insert(entry); err != nil {
		log.Printf("[ActivityLog] failed to record %s/%s: %v", component, action, err)
	}
}

// Info records an entry at info level
func Info(user, action, details, component string) {
	Record(user, action, details, component, models.LOG_LEVEL_INFO)
}

// Warn records an entry at warning level
func Warn(user, action, details, component string) {
	Record(user, action, details, component, models.LOG_LEVEL_WARN)
}

// Error records an entry at error level
func Error(user, action, details, component string) {
	Record(user, action, details, component, models.LOG_LEVEL_ERROR)
}
