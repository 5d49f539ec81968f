package identity

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+55 11 98888-0001", "5511988880001"},
		{"5511988880001@s.whatsapp.net", "5511988880001"},
		{"5511988880001@c.us", "5511988880001"},
		{"(11) 99999-0002", "11999990002"},
		{"abc", ""},
		{"", ""},
		{"@s.whatsapp.net", ""},
	}
	for _, tc := range cases {
		got := NormalizePhone(tc.in)
		if got != tc.want {
			t.Fatalf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	inputs := []string{"+55 11 98888-0001", "5511988880001@s.whatsapp.net", "123", ""}
	for _, in := range inputs {
		once := NormalizePhone(in)
		twice := NormalizePhone(once)
		if once != twice {
			t.Fatalf("NormalizePhone not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestImportFingerprintDeterministic(t *testing.T) {
	attrs := FingerprintAttrs{
		Phone:       "5511988880001",
		Name:        "Maria Silva",
		WhatsappJID: "5511988880001@s.whatsapp.net",
		AvatarURL:   "https://cdn.example.com/a.png",
	}
	a := ImportFingerprint(attrs)
	b := ImportFingerprint(attrs)
	if a == "" {
		t.Fatalf("ImportFingerprint returned empty digest")
	}
	if a != b {
		t.Fatalf("ImportFingerprint not deterministic: %q vs %q", a, b)
	}
	if len(a) != FingerprintLen {
		t.Fatalf("ImportFingerprint length = %d, want %d", len(a), FingerprintLen)
	}
}

func TestImportFingerprintChangesPerField(t *testing.T) {
	base := FingerprintAttrs{
		Phone:       "5511988880001",
		Name:        "Maria Silva",
		WhatsappJID: "5511988880001@s.whatsapp.net",
		AvatarURL:   "https://cdn.example.com/a.png",
	}
	baseFP := ImportFingerprint(base)

	variants := []FingerprintAttrs{
		{Phone: "5511988880002", Name: base.Name, WhatsappJID: base.WhatsappJID, AvatarURL: base.AvatarURL},
		{Phone: base.Phone, Name: "Maria S.", WhatsappJID: base.WhatsappJID, AvatarURL: base.AvatarURL},
		{Phone: base.Phone, Name: base.Name, WhatsappJID: "other@s.whatsapp.net", AvatarURL: base.AvatarURL},
		{Phone: base.Phone, Name: base.Name, WhatsappJID: base.WhatsappJID, AvatarURL: "https://cdn.example.com/b.png"},
	}
	for i, v := range variants {
		if ImportFingerprint(v) == baseFP {
			t.Fatalf("variant %d: fingerprint did not change", i)
		}
	}
}
