package engine

import (
	"errors"
	"testing"
)

func TestNewImage(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		wantStride int
	}{
		{"1x1", 1, 1, 16},
		{"aligned", 4, 3, 16},
		{"padded", 10, 10, 48},
		{"wide", 100, 2, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := NewImage(tt.w, tt.h, FormatPRGB32)
			if err != nil {
				t.Fatalf("NewImage() error = %v", err)
			}
			if img.Stride() != tt.wantStride {
				t.Errorf("Stride() = %d, want %d", img.Stride(), tt.wantStride)
			}
			if img.Stride() < tt.w*4 || img.Stride()%strideAlign != 0 {
				t.Errorf("stride %d is not aligned or too small", img.Stride())
			}
			data, err := img.Data()
			if err != nil {
				t.Fatalf("Data() error = %v", err)
			}
			if len(data.Pixels) != img.Stride()*tt.h {
				t.Errorf("len(Pixels) = %d, want %d", len(data.Pixels), img.Stride()*tt.h)
			}
			for i, b := range data.Pixels {
				if b != 0 {
					t.Fatalf("pixel byte %d = %d, want 0", i, b)
				}
			}
			if img.RefCount() != 1 {
				t.Errorf("RefCount() = %d, want 1", img.RefCount())
			}
		})
	}
}

func TestNewImageErrors(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		format Format
		want   Result
	}{
		{"zero width", 0, 10, FormatPRGB32, ErrInvalidValue},
		{"zero height", 10, 0, FormatPRGB32, ErrInvalidValue},
		{"negative", -1, 5, FormatPRGB32, ErrInvalidValue},
		{"no format", 10, 10, FormatNone, ErrInvalidValue},
		{"too wide", MaxImageSize + 1, 1, FormatPRGB32, ErrImageTooLarge},
		{"too many bytes", MaxImageSize, MaxImageSize, FormatPRGB32, ErrOutOfMemory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := NewImage(tt.w, tt.h, tt.format)
			if !errors.Is(err, tt.want) {
				t.Errorf("NewImage() error = %v, want %v", err, tt.want)
			}
			if img != nil {
				t.Error("NewImage() returned an image on failure")
			}
		})
	}
}

func TestImageRefCount(t *testing.T) {
	img, err := NewImage(2, 2, FormatPRGB32)
	if err != nil {
		t.Fatal(err)
	}

	img.Retain()
	if img.RefCount() != 2 {
		t.Errorf("RefCount() = %d, want 2", img.RefCount())
	}
	img.Release()
	if !img.Alive() {
		t.Fatal("image died with one reference left")
	}
	img.Release()
	if img.Alive() {
		t.Fatal("image alive after last release")
	}
	if _, err := img.Data(); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("Data() error = %v, want ErrInvalidHandle", err)
	}

	img.Release()
	if img.RefCount() != 0 {
		t.Errorf("RefCount() after extra release = %d, want 0", img.RefCount())
	}
}

func TestResultError(t *testing.T) {
	if got := ErrNoStatesToRestore.Error(); got != "engine: no states to restore" {
		t.Errorf("Error() = %q", got)
	}
	if got := Result(0xdead).Error(); got != "engine: unknown result 0x0000DEAD" {
		t.Errorf("Error() = %q", got)
	}
	if ErrOutOfMemory.Code() != 0x00010000 {
		t.Errorf("ErrOutOfMemory.Code() = %#x", ErrOutOfMemory.Code())
	}

	var r Result
	if !errors.As(error(ErrInvalidValue), &r) || r != ErrInvalidValue {
		t.Errorf("errors.As() = %v", r)
	}
}
