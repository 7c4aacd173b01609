package auth

import (
	"encoding/base64"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
)

// qrSize is the pixel size of generated enrollment QR codes.
const qrSize = 256

// GenerateTOTPKey creates a new TOTP key for the account. The key's secret
// is persisted on the user; the key's URL goes into the enrollment QR code.
func GenerateTOTPKey(issuer, account string) (*otp.Key, error) {
	return totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: account,
	})
}

// ValidateTOTP checks a 6-digit code against the stored secret.
func ValidateTOTP(code, secret string) bool {
	return totp.Validate(code, secret)
}

// QRCodeBase64 renders an otpauth:// URL as a base64-encoded PNG, suitable
// for inlining into an <img> tag on the client.
func QRCodeBase64(url string) (string, error) {
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
