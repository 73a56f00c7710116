package repository

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// GenerateObjectID returns a 24-character lowercase hex identifier: a 4-byte
// unix timestamp followed by 8 random bytes. The timestamp prefix keeps ids
// roughly sortable by creation time; the format matches the pattern the
// inbox poller extracts from reply subject lines.
func GenerateObjectID() string {
	var b [12]byte
	binary.BigEndian.PutUint32(b[:4], uint32(time.Now().Unix()))
	_, _ = rand.Read(b[4:])
	return hex.EncodeToString(b[:])
}
