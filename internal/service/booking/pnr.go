package booking

import "crypto/rand"

const pnrAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const pnrLength = 6

// generatePNR returns a short random booking reference. Uniqueness is
// enforced by the database constraint; callers retry on collision.
func generatePNR() string {
	buf := make([]byte, pnrLength)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	for i, b := range buf {
		buf[i] = pnrAlphabet[int(b)%len(pnrAlphabet)]
	}
	return string(buf)
}
