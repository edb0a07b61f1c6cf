package qrcodes

import (
	"encoding/base64"
	"encoding/json"

	qrcode "github.com/skip2/go-qrcode"

	"stagepass/internal/shared/apperr"
)

// QR rendering parameters: medium error correction and a fixed pixel
// width legible on both screens and print.
const (
	qrSize = 256
)

// PlaceholderDataURL is shown when encoding fails. A failed encode is
// still reported as an error; the placeholder only keeps display
// surfaces from breaking.
const PlaceholderDataURL = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg=="

// EncodeDataURL serializes a payload to JSON and renders it as a PNG
// QR code wrapped in a data URL. Pure transform, no side effects.
func EncodeDataURL(payload interface{}) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", apperr.UnexpectedStatef("failed to marshal payload: %v", err)
	}

	png, err := qrcode.Encode(string(data), qrcode.Medium, qrSize)
	if err != nil {
		return "", apperr.UnexpectedStatef("failed to encode qr code: %v", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
