package seals

import (
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval so business logic is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator abstracts unique ID generation so tests are deterministic.
// prefix names the entity kind: "seal", "t", "b" or "g".
type IDGenerator interface {
	New(prefix string) string
}

// UUIDGenerator produces "<prefix>_<uuidv7>" identifiers. UUIDv7 carries a
// millisecond timestamp followed by random bits.
type UUIDGenerator struct{}

func (UUIDGenerator) New(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return prefix + "_" + id.String()
}

// dateLayout is the zero-padded local calendar date used for earnedOn and gild dates.
const dateLayout = "2006-01-02"

// Today formats the local calendar date of c.Now() as YYYY-MM-DD.
func Today(c Clock) string {
	return c.Now().Local().Format(dateLayout)
}

// CurrentYear returns the local calendar year of c.Now() as a 4-digit string.
func CurrentYear(c Clock) string {
	return c.Now().Local().Format("2006")
}
