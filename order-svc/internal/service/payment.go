package service

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(data string) ([]byte, error)
}

type DefaultQRGenerator struct {
	Size int
}

func (g DefaultQRGenerator) Generate(data string) ([]byte, error) {
	size := g.Size
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(data, qrcode.Medium, size)
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// PaymentQR finds the payment asset to send at checkout: the static file when
// it exists, otherwise a QR code generated from Payload into CacheDir.
type PaymentQR struct {
	StaticPath string
	Payload    string
	CacheDir   string
	Generator  QRGenerator
}

func NewPaymentQR(staticPath, payload, cacheDir string) *PaymentQR {
	return &PaymentQR{
		StaticPath: staticPath,
		Payload:    payload,
		CacheDir:   cacheDir,
		Generator:  DefaultQRGenerator{},
	}
}

func (p *PaymentQR) Locate(orderID string, total decimal.Decimal) (string, error) {
	if p.StaticPath != "" {
		if info, err := os.Stat(p.StaticPath); err == nil && !info.IsDir() {
			return p.StaticPath, nil
		}
	}
	if p.Payload == "" || p.Generator == nil {
		return "", ErrPaymentAssetUnavailable
	}

	png, err := p.Generator.Generate(fmt.Sprintf("%s?amount=%s&ref=%s", p.Payload, total.StringFixed(2), orderID))
	if err != nil {
		return "", fmt.Errorf("%w: generate qr: %v", ErrPaymentAssetUnavailable, err)
	}
	if err := os.MkdirAll(p.CacheDir, 0755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPaymentAssetUnavailable, err)
	}
	path := filepath.Join(p.CacheDir, "paynow_"+unsafeFileChars.ReplaceAllString(orderID, "_")+".png")
	if err := os.WriteFile(path, png, 0644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPaymentAssetUnavailable, err)
	}
	return path, nil
}

var _ PaymentAsset = (*PaymentQR)(nil)
