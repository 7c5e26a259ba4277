package logging

import (
	"github.com/oklog/ulid/v2"
)

// GenerateRunID generates a new ULID for run identification. ULIDs sort
// lexicographically by creation time, which keeps per-run log files ordered
// in directory listings.
func GenerateRunID() string {
	return ulid.Make().String()
}
