package utils

import "testing"

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Kota Bandung":         "kota_bandung",
		"Kab. Bandung Barat":   "kab_bandung_barat",
		"  Daerah Jawa Barat ": "daerah_jawa_barat",
		"a--b":                 "a_b",
		"":                     "",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
