package auth

import (
	"time"

	"github.com/xlzd/gotp"
)

// totpSkew is how many 30 second steps a code may lag or lead the clock.
const totpSkew = 1

// VerifyTOTP checks code against secret at now, allowing one step of clock
// drift in either direction.
func VerifyTOTP(secret, code string, now time.Time) bool {
	if secret == "" || code == "" {
		return false
	}
	totp := gotp.NewDefaultTOTP(secret)
	for step := -totpSkew; step <= totpSkew; step++ {
		if totp.Verify(code, now.Add(time.Duration(step)*30*time.Second).Unix()) {
			return true
		}
	}
	return false
}
