package srt

import "testing"

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		charset string
		want    string
	}{
		{"plain utf8", []byte("hello"), "", "hello"},
		{"utf8 bom", []byte("\xEF\xBB\xBFhello"), "utf-8", "hello"},
		{"latin1 alias", []byte("na\xefve"), "latin1", "naïve"},
		{"windows-1252", []byte("caf\xe9"), "windows-1252", "café"},
		{"utf16le bom", []byte{0xFF, 0xFE, 'h', 0, 'i', 0}, "", "hi"},
		{"utf16be bom", []byte{0xFE, 0xFF, 0, 'h', 0, 'i'}, "utf-8", "hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.data, tt.charset)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Decode = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLookupEncoding(t *testing.T) {
	for _, name := range []string{"", "UTF-8", "iso-8859-15", "shift_jis"} {
		if _, err := LookupEncoding(name); err != nil {
			t.Errorf("LookupEncoding(%q): %v", name, err)
		}
	}
	if _, err := LookupEncoding("klingon-8"); err == nil {
		t.Error("expected error for unknown encoding")
	}
	if _, err := Decode([]byte("x"), "klingon-8"); err == nil {
		t.Error("expected Decode to reject unknown encoding")
	}
}
