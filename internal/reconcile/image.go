package reconcile

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"

	"golang.org/x/image/draw"

	"github.com/ZarakiLancelot/NutriSnap/internal/domain"
)

// LargeImageThreshold is the base64 length (roughly 30KB of pixels) above
// which a stored thumbnail gets re-encoded before the next cloud write.
const LargeImageThreshold = 40000

// Thumbnail presets. New captures get the standard size; the hygiene pass
// squeezes oversized legacy entries harder.
const (
	ThumbMaxPx     = 250
	ThumbQuality   = 50
	HygieneMaxPx   = 200
	HygieneQuality = 40
	dataURLPrefix  = "data:image/jpeg;base64,"
)

// SanitizeHistoryImages re-encodes every oversized stored image in place
// and returns how many items changed. Entries that fail to decode are left
// untouched; a broken thumbnail is not worth losing the analysis over.
func SanitizeHistoryImages(history []domain.HistoryItem) int {
	changed := 0
	for i := range history {
		if len(history[i].ImageBase64) <= LargeImageThreshold {
			continue
		}
		smaller, err := RecompressBase64(history[i].ImageBase64, HygieneMaxPx, HygieneQuality)
		if err != nil {
			continue
		}
		history[i].ImageBase64 = smaller
		changed++
	}
	return changed
}

// HasLargeImages reports whether any stored image is over the threshold.
func HasLargeImages(history []domain.HistoryItem) bool {
	for _, item := range history {
		if len(item.ImageBase64) > LargeImageThreshold {
			return true
		}
	}
	return false
}

// RecompressBase64 decodes a (possibly data-URL wrapped) base64 image,
// scales it down so the longest side is at most maxPx, and re-encodes it
// as a JPEG data URL at the given quality.
func RecompressBase64(encoded string, maxPx, quality int) (string, error) {
	payload := encoded
	if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("decoding image payload: %w", err)
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}

	out, err := EncodeThumbnail(src, maxPx, quality)
	if err != nil {
		return "", err
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(out), nil
}

// EncodeThumbnail scales src down to fit within maxPx and JPEG-encodes it.
// Images already small enough are re-encoded without scaling.
func EncodeThumbnail(src image.Image, maxPx, quality int) ([]byte, error) {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxPx || h > maxPx {
		scale := float64(maxPx) / float64(w)
		if h > w {
			scale = float64(maxPx) / float64(h)
		}
		dw := int(float64(w) * scale)
		dh := int(float64(h) * scale)
		if dw < 1 {
			dw = 1
		}
		if dh < 1 {
			dh = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
