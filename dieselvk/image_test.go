package dieselvk

import (
	"image"
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

//A texture whose upload failed is destroyed before it ever owned a sampler
//or, with a failed image, any GPU object at all.
func TestTextureDestroyPartial(t *testing.T) {
	tests := []struct {
		name string
		tex  *TextureBackend
	}{
		{"nil backend", nil},
		{"no image", &TextureBackend{name: "a"}},
		{"image without device", &TextureBackend{name: "b", image: &CoreImage{}}},
	}
	for _, tt := range tests {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("%s: destroy panicked: %v", tt.name, r)
				}
			}()
			tt.tex.destroy()
			tt.tex.destroy()
		}()
	}
}

func TestTransitionFor(t *testing.T) {
	if _, err := transitionFor(vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal); err != nil {
		t.Errorf("undefined to transfer dst: %v", err)
	}
	if _, err := transitionFor(vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal); err != nil {
		t.Errorf("transfer dst to shader read: %v", err)
	}
	if _, err := transitionFor(vk.ImageLayoutShaderReadOnlyOptimal, vk.ImageLayoutUndefined); err == nil {
		t.Error("unsupported transition accepted")
	}
}

func TestPackRGBA(t *testing.T) {
	whole := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if got := packRGBA(whole); len(got) != 16 {
		t.Errorf("packed %d bytes, want 16", len(got))
	}

	sub := whole.SubImage(image.Rect(1, 0, 2, 2)).(*image.RGBA)
	sub.Pix[0] = 7
	got := packRGBA(sub)
	if len(got) != 8 {
		t.Fatalf("packed %d bytes, want 8", len(got))
	}
	if got[0] != 7 {
		t.Errorf("first byte %d, want 7", got[0])
	}
}
