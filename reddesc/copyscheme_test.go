package reddesc

import "testing"

func Test_ParseCopyScheme_CaseInsensitive(t *testing.T) {
	cases := []struct {
		in   string
		want CopyKind
	}{
		{"single", Single},
		{"SINGLE", Single},
		{"Partner", Partner},
		{"xor", Xor},
		{"XOR", Xor},
	}
	for _, c := range cases {
		got, err := ParseCopyScheme(c.in, 4)
		if err != nil {
			t.Errorf("ParseCopyScheme(%q): unexpected error %v", c.in, err)
			continue
		}
		if got.Kind != c.want {
			t.Errorf("ParseCopyScheme(%q): got kind %v, expected %v", c.in, got.Kind, c.want)
		}
	}
}

func Test_ParseCopyScheme_Unknown(t *testing.T) {
	if _, err := ParseCopyScheme("triplicate", 4); err == nil {
		t.Errorf("expected error for unknown copy type")
	}
}

func Test_ParseCopyScheme_XorCarriesSetSize(t *testing.T) {
	got, err := ParseCopyScheme("xor", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SetSize != 4 {
		t.Errorf("got set size %d, expected 4", got.SetSize)
	}
}

func Test_CopyScheme_String_CanonicalUppercase(t *testing.T) {
	cases := map[CopyScheme]string{
		NewSingle():  "SINGLE",
		NewPartner(): "PARTNER",
		NewXor(4):    "XOR",
	}
	for scheme, want := range cases {
		if got := scheme.String(); got != want {
			t.Errorf("String() got %q, expected %q", got, want)
		}
	}
}
