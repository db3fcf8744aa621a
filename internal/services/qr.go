package services

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

const (
	qrDefaultSize = 256
	qrMaxSize     = 1024
)

// QRService renders PNG QR codes pointing at a product's public URL, so a
// listing can be shared offline.
type QRService struct {
	baseURL string
}

func NewQRService(baseURL string) *QRService {
	return &QRService{baseURL: baseURL}
}

// ProductCode returns PNG bytes encoding the product's public URL. A size of
// 0 uses the default; oversized requests are clamped.
func (s *QRService) ProductCode(productID uint, size int) ([]byte, error) {
	if size <= 0 {
		size = qrDefaultSize
	}
	if size > qrMaxSize {
		size = qrMaxSize
	}

	content := fmt.Sprintf("%s/products/%d", s.baseURL, productID)
	return qrcode.Encode(content, qrcode.Medium, size)
}
