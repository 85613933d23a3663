package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Reminder holds bulk dispatch settings
type Reminder struct {
	// WindowDays bounds the pre-filter: only tasks due within this many days are considered
	WindowDays  int
	LinkBase    string
	Subject     string
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
}

// Window returns WindowDays as a duration
func (r *Reminder) Window() time.Duration {
	return time.Duration(r.WindowDays) * 24 * time.Hour
}

func getReminderConfig(v *viper.Viper) *Reminder {
	return &Reminder{
		WindowDays:  getIntOrDefault(v, "reminder.window_days", 30),
		LinkBase:    strings.TrimRight(getStringOrDefault(v, "reminder.link_base", "http://localhost:3000"), "/"),
		Subject:     getStringOrDefault(v, "reminder.subject", "Reminder: %s"),
		Workers:     getIntOrDefault(v, "reminder.workers", 4),
		QueueSize:   getIntOrDefault(v, "reminder.queue_size", 256),
		SendTimeout: getDurationOrDefault(v, "reminder.send_timeout", 30*time.Second),
	}
}
