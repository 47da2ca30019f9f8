package main

import (
	"bytes"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
)

func TestBlend(t *testing.T) {
	for _, tc := range []struct {
		fg, bg uint32
		alpha  float64
		want   uint32
	}{
		{0xffffff, 0x000000, 1, 0xffffff},
		{0xffffff, 0x000000, 0, 0x000000},
		{0xffffff, 0x000000, 0.5, 0x808080},
		{0x102030, 0x000000, 2, 0x102030},
		{0x102030, 0x405060, -1, 0x405060},
	} {
		if got := blend(tc.fg, tc.bg, tc.alpha); got != tc.want {
			t.Errorf("blend(%06x, %06x, %v) = %06x, want %06x", tc.fg, tc.bg, tc.alpha, got, tc.want)
		}
	}
}

func TestXRect(t *testing.T) {
	for _, tc := range []struct {
		r    Rect
		want xproto.Rectangle
	}{
		{Rect{Pos{1, 2}, Size{3, 4}}, xproto.Rectangle{X: 1, Y: 2, Width: 3, Height: 4}},
		{Rect{Pos{-40000, 40000}, Size{-1, 70000}}, xproto.Rectangle{X: -32768, Y: 32767, Width: 0, Height: 65535}},
	} {
		if got := xRect(tc.r); got != tc.want {
			t.Errorf("xRect(%v) = %+v, want %+v", tc.r, got, tc.want)
		}
	}
}

func TestEncodeAtoms(t *testing.T) {
	got := encodeAtoms(0x01020304, 5)
	want := []byte{4, 3, 2, 1, 5, 0, 0, 0}
	if !bytes.Equal(got, want) {
		t.Errorf("encodeAtoms = %v, want %v", got, want)
	}
}
