package service

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/inkwell-next/internal/config"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// EncodedImage 编码后的图片（以二进制存库）
type EncodedImage struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// ImageService 图片编码服务
type ImageService struct {
	cfg config.ImageConfig
}

// NewImageService 创建图片编码服务
func NewImageService(cfg config.ImageConfig) *ImageService {
	return &ImageService{cfg: cfg}
}

// Encode 校验并读取上传图片
func (s *ImageService) Encode(file *multipart.FileHeader) (*EncodedImage, error) {
	if file == nil {
		return nil, nil
	}
	if s.cfg.MaxSize > 0 && file.Size > s.cfg.MaxSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrImageTooLarge, file.Size)
	}
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	limit := s.cfg.MaxSize
	if limit <= 0 {
		limit = 32 << 20
	}
	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return nil, err
	}
	return s.EncodeBytes(file.Filename, data)
}

// EncodeBytes 校验图片内容：大小、扩展名、嗅探 MIME 与尺寸
func (s *ImageService) EncodeBytes(filename string, data []byte) (*EncodedImage, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrImageTypeInvalid)
	}
	if s.cfg.MaxSize > 0 && int64(len(data)) > s.cfg.MaxSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrImageTooLarge, len(data))
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if len(s.cfg.AllowedExtensions) > 0 {
		if ext == "" || !isAllowedExtension(ext, s.cfg.AllowedExtensions) {
			return nil, fmt.Errorf("%w: extension %s", ErrImageTypeInvalid, ext)
		}
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	contentType := http.DetectContentType(head)
	if len(s.cfg.AllowedTypes) > 0 && !isAllowedContentType(contentType, s.cfg.AllowedTypes) {
		return nil, fmt.Errorf("%w: %s", ErrImageTypeInvalid, contentType)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: %s", ErrImageTypeInvalid, contentType)
	}

	width, height, err := decodeImageDimensions(bytes.NewReader(data), contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageTypeInvalid, err)
	}
	if s.cfg.MaxWidth > 0 && width > s.cfg.MaxWidth {
		return nil, fmt.Errorf("%w: width %d", ErrImageDimensionInvalid, width)
	}
	if s.cfg.MaxHeight > 0 && height > s.cfg.MaxHeight {
		return nil, fmt.Errorf("%w: height %d", ErrImageDimensionInvalid, height)
	}

	return &EncodedImage{
		Data:        data,
		ContentType: contentType,
		Width:       width,
		Height:      height,
	}, nil
}

func isAllowedContentType(contentType string, allowed []string) bool {
	for _, item := range allowed {
		if strings.EqualFold(strings.TrimSpace(item), contentType) {
			return true
		}
	}
	return false
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, allowedExt := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(allowedExt))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if strings.EqualFold(ext, normalized) {
			return true
		}
	}
	return false
}

func decodeImageDimensions(src io.ReadSeeker, contentType string) (int, int, error) {
	if strings.EqualFold(contentType, "image/webp") {
		return decodeWebPDimensions(src)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return 0, 0, err
	}
	cfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// decodeWebPDimensions 解析 RIFF 容器内 VP8X/VP8/VP8L 块中的宽高
func decodeWebPDimensions(src io.ReadSeeker) (int, int, error) {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return 0, 0, err
	}
	header := make([]byte, 12)
	if _, err := io.ReadFull(src, header); err != nil {
		return 0, 0, err
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WEBP" {
		return 0, 0, fmt.Errorf("invalid webp header")
	}

	for {
		chunkHeader := make([]byte, 8)
		if _, err := io.ReadFull(src, chunkHeader); err != nil {
			return 0, 0, err
		}
		chunkType := string(chunkHeader[0:4])
		chunkSize := int64(binary.LittleEndian.Uint32(chunkHeader[4:8]))

		switch chunkType {
		case "VP8X":
			data, err := readWebPChunk(src, chunkSize, 10)
			if err != nil {
				return 0, 0, err
			}
			width := 1 + int(data[4]) + int(data[5])<<8 + int(data[6])<<16
			height := 1 + int(data[7]) + int(data[8])<<8 + int(data[9])<<16
			return width, height, nil
		case "VP8 ":
			data, err := readWebPChunk(src, chunkSize, 10)
			if err != nil {
				return 0, 0, err
			}
			width := int(binary.LittleEndian.Uint16(data[6:8]) & 0x3FFF)
			height := int(binary.LittleEndian.Uint16(data[8:10]) & 0x3FFF)
			return width, height, nil
		case "VP8L":
			data, err := readWebPChunk(src, chunkSize, 5)
			if err != nil {
				return 0, 0, err
			}
			if data[0] != 0x2f {
				return 0, 0, fmt.Errorf("invalid vp8l signature")
			}
			bits := binary.LittleEndian.Uint32(data[1:5])
			return int(bits&0x3FFF) + 1, int((bits>>14)&0x3FFF) + 1, nil
		}

		// 跳过未知块，奇数长度需要补齐 1 字节
		skip := chunkSize + chunkSize%2
		if _, err := src.Seek(skip, io.SeekCurrent); err != nil {
			return 0, 0, err
		}
	}
}

func readWebPChunk(src io.Reader, size int64, minSize int64) ([]byte, error) {
	if size < minSize {
		return nil, fmt.Errorf("webp chunk too short")
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(src, data); err != nil {
		return nil, err
	}
	return data, nil
}
