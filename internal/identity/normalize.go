package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// FingerprintLen is the number of hex characters kept from the SHA-256 digest.
const FingerprintLen = 32

// NormalizePhone strips a trailing WhatsApp JID suffix ("5511999@s.whatsapp.net")
// and every non-digit character. Returns "" when nothing remains.
func NormalizePhone(raw string) string {
	s := raw
	if at := strings.IndexByte(s, '@'); at >= 0 {
		s = s[:at]
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FingerprintAttrs is the normalized subset of contact fields covered by the
// import fingerprint. Field order is fixed so serialization is stable.
type FingerprintAttrs struct {
	Phone       string `json:"phone"`
	Name        string `json:"name"`
	WhatsappJID string `json:"whatsappJid"`
	AvatarURL   string `json:"avatarUrl"`
}

// ImportFingerprint computes a deterministic digest over the given attributes.
// Identical logical inputs always produce the identical fingerprint; changing
// any single field changes it.
func ImportFingerprint(attrs FingerprintAttrs) string {
	raw, err := json.Marshal(attrs)
	if err != nil {
		// A struct of strings cannot fail to marshal.
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])[:FingerprintLen]
}
