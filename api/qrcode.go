package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"github.com/mikanbox/droplink/tool"
)

const (
	defaultQRSize = 200
	maxQRSize     = 512
)

// handleQRCode returns a PNG QR code image. Compatible with the
// api.qrserver.com create-qr-code API: GET ?size=200x200&data=<content>.
// When data is omitted and a share is active, the primary URL is encoded.
func (s *ControlServer) handleQRCode(c *gin.Context) {
	data := c.Query("data")
	if data == "" {
		if descriptor := s.manager.Snapshot(); descriptor != nil {
			data = descriptor.PrimaryURL
		}
	}
	if data == "" {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Missing required parameter: data"))
		return
	}

	size := parseQRSize(c.Query("size"))
	if size <= 0 {
		size = defaultQRSize
	}
	if size > maxQRSize {
		size = maxQRSize
	}

	png, err := qrcode.Encode(data, qrcode.Medium, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("Failed to encode QR code: "+err.Error()))
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// parseQRSize parses "200x200" or "200" into the pixel dimension.
func parseQRSize(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if idx := strings.Index(s, "x"); idx > 0 {
		s = strings.TrimSpace(s[:idx])
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
