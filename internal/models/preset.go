package models

import "time"

// Preset is a named countdown duration the user can arm with one click.
type Preset struct {
	ID        int64
	Name      string
	Duration  time.Duration
	Position  int
	CreatedAt time.Time
}
