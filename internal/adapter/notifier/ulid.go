package notifier

import "github.com/oklog/ulid/v2"

// ULIDGenerator generates ULID-based IDs.
type ULIDGenerator struct{}

// Generate generates a new ULID.
func (ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
