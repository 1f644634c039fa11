// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

import "testing"

func TestParseIdAcceptsBothForms(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Id
	}{
		{"colon", "12:345", Id{Session: 12, Local: 345}},
		{"dash", "12-345", Id{Session: 12, Local: 345}},
		{"zero", "0:0", Id{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ParseId(c.in)
			if err != nil {
				t.Fatalf("ParseId(%q): %v", c.in, err)
			}
			if got != c.want {
				t.Fatalf("ParseId(%q) = %+v, want %+v", c.in, got, c.want)
			}
		})
	}
}

func TestParseIdMalformed(t *testing.T) {
	cases := []string{"", "abc", "12:", "12:abc", "abc:12"}
	for _, s := range cases {
		if _, err := ParseId(s); err == nil {
			t.Fatalf("ParseId(%q): expected error, got nil", s)
		}
	}
}

func TestIdIsZero(t *testing.T) {
	if !(Id{}).IsZero() {
		t.Fatal("zero Id should report IsZero")
	}
	if (Id{Session: 1}).IsZero() {
		t.Fatal("non-zero Id should not report IsZero")
	}
}

func TestIdString(t *testing.T) {
	id := Id{Session: 7, Local: 9}
	if got, want := id.String(), "7:9"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
