package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"strings"
	"time"

	_ "image/gif" // 支援 GIF
	_ "image/png" // 支援 PNG

	_ "golang.org/x/image/webp" // 支援 WebP
)

// Service 圖片處理服務
// 接受 URL、裸 base64 或 data URI，統一輸出縮過尺寸的 JPEG data URI
type Service struct {
	maxSizeBytes int64
	maxDimension int
	httpClient   *http.Client
}

// NewService 創建新的圖片處理服務
func NewService(maxSizeBytes int64, maxDimension int) *Service {
	if maxDimension <= 0 {
		maxDimension = 1200
	}
	return &Service{
		maxSizeBytes: maxSizeBytes,
		maxDimension: maxDimension,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ProcessImage 處理圖片，回傳 data:image/jpeg;base64 形式
func (s *Service) ProcessImage(imageData string) (string, error) {
	raw, err := s.loadBytes(imageData)
	if err != nil {
		return "", err
	}

	// 解碼圖片
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	// 檢查圖片格式
	if !isSupportedFormat(format) {
		return "", fmt.Errorf("unsupported image format: %s", format)
	}

	// 超過最大邊長就等比例縮小
	img = s.downscale(img)

	// 統一轉成 JPEG
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode image as JPEG: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	return fmt.Sprintf("data:image/jpeg;base64,%s", encoded), nil
}

// ValidateImage 驗證圖片可被解碼且未超出大小限制
func (s *Service) ValidateImage(imageData string) error {
	raw, err := s.loadBytes(imageData)
	if err != nil {
		return err
	}

	_, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}
	if !isSupportedFormat(format) {
		return fmt.Errorf("unsupported image format: %s", format)
	}
	return nil
}

// loadBytes 將 URL / base64 / data URI 統一讀成位元組
func (s *Service) loadBytes(imageData string) ([]byte, error) {
	if imageData == "" {
		return nil, fmt.Errorf("image data is empty")
	}

	// URL：下載
	if strings.HasPrefix(imageData, "http://") || strings.HasPrefix(imageData, "https://") {
		resp, err := s.httpClient.Get(imageData)
		if err != nil {
			return nil, fmt.Errorf("failed to download image: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("failed to download image: status code %d", resp.StatusCode)
		}

		raw, err := io.ReadAll(io.LimitReader(resp.Body, s.maxSizeBytes+1))
		if err != nil {
			return nil, fmt.Errorf("failed to read image data: %w", err)
		}
		if int64(len(raw)) > s.maxSizeBytes {
			return nil, fmt.Errorf("image size exceeds maximum limit of %d bytes", s.maxSizeBytes)
		}
		return raw, nil
	}

	// data URI：取出 base64 部分
	payload := imageData
	if strings.HasPrefix(imageData, "data:image/") {
		parts := strings.Split(imageData, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid data uri format")
		}
		payload = parts[1]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 data: %w", err)
	}
	if int64(len(raw)) > s.maxSizeBytes {
		return nil, fmt.Errorf("image size exceeds maximum limit of %d bytes", s.maxSizeBytes)
	}
	return raw, nil
}

// downscale 等比例縮小到最大邊長以內（最近鄰取樣，夠菜單辨識用）
func (s *Service) downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= s.maxDimension && h <= s.maxDimension {
		return img
	}

	scale := float64(s.maxDimension) / float64(w)
	if h > w {
		scale = float64(s.maxDimension) / float64(h)
	}
	nw, nh := int(float64(w)*scale), int(float64(h)*scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	for y := 0; y < nh; y++ {
		sy := bounds.Min.Y + y*h/nh
		for x := 0; x < nw; x++ {
			sx := bounds.Min.X + x*w/nw
			dst.Set(x, y, img.At(sx, sy))
		}
	}
	return dst
}

// isSupportedFormat 檢查圖片格式是否支援
func isSupportedFormat(format string) bool {
	supportedFormats := map[string]bool{
		"jpeg": true,
		"jpg":  true,
		"png":  true,
		"gif":  true,
		"webp": true,
	}
	return supportedFormats[format]
}
