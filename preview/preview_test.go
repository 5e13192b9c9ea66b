// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRenderPlain(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for x, c := range []color.NRGBA{
		{0, 0, 0, 255},
		{255, 255, 255, 255},
		{255, 0, 0, 255},
		{255, 255, 0, 255},
	} {
		img.SetNRGBA(x, 0, c)
		img.SetNRGBA(3-x, 1, c)
	}
	var buf bytes.Buffer
	d := New(&buf, &Opts{Plain: true})
	if err := d.Render(img); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(buf.String(), "#.ry\nyr.#\n"); diff != "" {
		t.Errorf("Render() difference (-got +want):\n%s", diff)
	}
}

func TestRenderColor(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	var buf bytes.Buffer
	d := New(&buf, nil)
	if err := d.Render(img); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	for _, l := range lines {
		if !strings.HasPrefix(l, "\033[0m") || !strings.HasSuffix(l, "\033[0m") {
			t.Errorf("line %q is not reset", l)
		}
	}
}

func TestChar(t *testing.T) {
	for _, tc := range []struct {
		c    color.Color
		want byte
	}{
		{color.Transparent, ' '},
		{color.Gray{Y: 0x10}, '#'},
		{color.Gray{Y: 0xF0}, '.'},
		{color.NRGBA{0, 0, 255, 255}, '+'},
	} {
		if got := Char(tc.c); got != tc.want {
			t.Errorf("Char(%v) = %q, want %q", tc.c, got, tc.want)
		}
	}
}
