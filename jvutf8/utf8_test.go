package jvutf8

import (
	"bytes"
	"testing"
	"unicode/utf16"
)

func TestCombineSurrogates(t *testing.T) {
	// U+1D11E (MUSICAL SYMBOL G CLEF) = high 0xD834, low 0xDD1E.
	r, ok := CombineSurrogates(0xD834, 0xDD1E)
	if !ok {
		t.Fatal("expected ok")
	}
	if r != 0x1D11E {
		t.Errorf("got U+%04X, want U+1D11E", r)
	}
	// Cross-check against the standard library's own surrogate combiner.
	if got := utf16.DecodeRune(0xD834, 0xDD1E); got != r {
		t.Errorf("utf16.DecodeRune disagreed: got U+%04X", got)
	}
}

func TestCombineSurrogatesRejectsBadPairs(t *testing.T) {
	if _, ok := CombineSurrogates(0x0041, 0xDD1E); ok {
		t.Error("expected reject: not a high surrogate")
	}
	if _, ok := CombineSurrogates(0xD834, 0x0041); ok {
		t.Error("expected reject: not a low surrogate")
	}
}

func TestEncodeRune(t *testing.T) {
	cases := []struct {
		r    rune
		want []byte
	}{
		{0x24, []byte{0x24}},
		{0xA2, []byte{0xC2, 0xA2}},
		{0x20AC, []byte{0xE2, 0x82, 0xAC}},
		{0x1D11E, []byte{0xF0, 0x9D, 0x84, 0x9E}},
	}
	for _, tc := range cases {
		got := EncodeRune(nil, tc.r)
		if !bytes.Equal(got, tc.want) {
			t.Errorf("EncodeRune(U+%04X) = % X, want % X", tc.r, got, tc.want)
		}
	}
}

func TestEncodeRuneLoneLowSurrogate(t *testing.T) {
	// A lone low surrogate is accepted and emitted as a three-byte form,
	// matching the documented (probable-bug) reference behavior.
	got := EncodeRune(nil, 0xDC00)
	want := []byte{0xED, 0xB0, 0x80}
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeRune(lone low surrogate) = % X, want % X", got, want)
	}
}
