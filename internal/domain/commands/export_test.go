package commands

import "time"

// Classification exports classification for testing.
var Classification = classification //nolint:gochecknoglobals // test export

// ShortSHA exports shortSHA for testing.
var ShortSHA = shortSHA //nolint:gochecknoglobals // test export

// SetClock replaces the clock used to timestamp pull request proposals.
func (it *UpdateCommand) SetClock(now func() time.Time) {
	it.now = now
}
