package server

import (
	crand "crypto/rand"
	"math/big"
	"math/rand/v2"
)

// Room codes are short enough to read out loud; the alphabet drops the
// characters that are easy to confuse (0/O, 1/I).
const (
	roomCodeLength   = 5
	roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

func newRoomCode() string {
	code := make([]byte, roomCodeLength)
	for i := range code {
		n, err := crand.Int(crand.Reader, big.NewInt(int64(len(roomCodeAlphabet))))
		if err != nil {
			// fallback to math/rand if crypto fails
			code[i] = roomCodeAlphabet[rand.IntN(len(roomCodeAlphabet))]
			continue
		}
		code[i] = roomCodeAlphabet[n.Int64()]
	}
	return string(code)
}
