// Package config holds the fixed parameters of the session UI. Tunables
// that operators may change live in the top-level config package.
package config

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // seconds the shutdown notice stays up before disconnecting
)

// Inactivity
const (
	InactivityWarnFraction = 0.75 // share of the idle timeout after which the warning shows
)

// Notices
const (
	RecordNoticeSeconds = 4.0 // how long another player's record stays on screen
	BlinkPeriodMillis   = 600 // prompt blink half-period
	MaxUsernameLength   = 16
)

// Minimum terminal size the HUD is laid out for.
const (
	MinTermWidth  = 40
	MinTermHeight = 12
)
