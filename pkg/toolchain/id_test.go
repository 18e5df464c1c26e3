// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"errors"
	"strings"
	"testing"
)

func TestParseID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{name: "gcc", input: "gcc", want: GCC},
		{name: "clang upper case", input: "CLANG", want: Clang},
		{name: "msvc mixed case with spaces", input: "  MsVc ", want: MSVC},
		{name: "empty means auto", input: "", want: ""},
		{name: "whitespace means auto", input: "   ", want: ""},
		{name: "unknown", input: "tcc", wantErr: true},
		{name: "partial", input: "gc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseID(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseID(%q) expected error, got %q", tt.input, got)
				}
				if !errors.Is(err, ErrUnknownToolchain) {
					t.Errorf("ParseID(%q) error should wrap ErrUnknownToolchain, got %v", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseID(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestInvalidIDError_ListsAvailable(t *testing.T) {
	t.Parallel()

	err := (&InvalidIDError{Value: "icc"}).Error()
	for _, want := range []string{`"icc"`, "gcc", "clang", "msvc"} {
		if !strings.Contains(err, want) {
			t.Errorf("Error() = %q, should contain %q", err, want)
		}
	}
}

func TestID_IsAuto(t *testing.T) {
	t.Parallel()

	if !ID("").IsAuto() {
		t.Error("zero ID should request auto-detection")
	}
	if GCC.IsAuto() {
		t.Error("gcc should not request auto-detection")
	}
}

func TestMode(t *testing.T) {
	t.Parallel()

	if Release.String() != "release" || Debug.String() != "debug" {
		t.Errorf("unexpected mode strings: %q %q", Release, Debug)
	}
	if Release.Banner() != "RELEASE" || Debug.Banner() != "DEBUG" {
		t.Errorf("unexpected banners: %q %q", Release.Banner(), Debug.Banner())
	}
	if err := Mode(7).Validate(); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("Mode(7).Validate() = %v, want ErrInvalidMode", err)
	}
	if Mode(7).String() != "unknown" {
		t.Errorf("Mode(7).String() = %q, want unknown", Mode(7).String())
	}
}
