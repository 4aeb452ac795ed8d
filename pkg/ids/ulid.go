package ids

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/exp/rand"
)

var (
	entropy       = ulid.Monotonic(rand.New(rand.NewSource(uint64(time.Now().UnixNano()))), 0)
	entropyMu     sync.Mutex
	zeroValueULID ulid.ULID
)

// GenerateULID returns a ULID that sorts after every ULID previously
// generated by this process within the same millisecond.
func GenerateULID(now time.Time) (ulid.ULID, error) {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	id, err := ulid.New(ulid.Timestamp(now), entropy)
	if err != nil {
		return zeroValueULID, err
	}

	return id, nil
}
