package weighin

import "time"

// Config holds runtime knobs for the weigh-in service.
type Config struct {
	SessionTTL time.Duration
}
