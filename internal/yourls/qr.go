package yourls

import (
	"context"
	"fmt"
	"strings"
)

// QRResult carries a QR image for a short URL.
type QRResult struct {
	Keyword     string `json:"keyword"`
	ShortURL    string `json:"shorturl"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// GenerateQR fetches the QR image for a keyword. The QR plugin serves
// images from <shorturl>.qr via plain GET, not through the API endpoint, so
// the keyword is resolved first to learn its short URL.
func (c *Client) GenerateQR(ctx context.Context, keyword string, size int) (*QRResult, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, newValidationError("keyword must not be empty")
	}
	if size < 0 {
		return nil, newValidationError("size must not be negative")
	}

	resolved, err := c.Expand(ctx, keyword)
	if err != nil {
		return nil, err
	}

	qrURL := strings.TrimRight(resolved.ShortURL, "/") + ".qr"
	if size > 0 {
		qrURL = fmt.Sprintf("%s?s=%d", qrURL, size)
	}

	data, contentType, err := c.FetchBinary(ctx, qrURL)
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = "image/png"
	}
	return &QRResult{
		Keyword:     resolved.Keyword,
		ShortURL:    resolved.ShortURL,
		ContentType: contentType,
		Data:        data,
	}, nil
}
