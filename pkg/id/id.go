package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// FillIDLen is the length of identifiers handed out by NewFillID.
const FillIDLen = 16

var (
	mu   sync.Mutex
	mono io.Reader
)

func init() {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// NewRunID returns a ULID string identifying one merge run.
//
// ULIDs sort by generation time, so log lines and reports from successive
// runs order naturally.
func NewRunID() string {
	mu.Lock()
	defer mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), mono)
	if err != nil {
		panic(err)
	}
	return id.String()
}

// NewFillID returns the first 16 hex characters of a random UUID.
// Collisions are possible in principle but nothing relies on uniqueness.
func NewFillID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:FillIDLen]
}
