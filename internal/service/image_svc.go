package service

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ==================== 常量定义 ====================

const (
	// MaxLongEdge 处理后图片长边上限 (像素)
	MaxLongEdge = 1080

	// WebPQuality WebP 编码质量
	WebPQuality = 70
)

// ==================== 类型定义 ====================

// ProcessedImage 处理完成的图片
type ProcessedImage struct {
	Data        []byte
	Width       int
	Height      int
	ContentType string
}

// ImageProcessor 图片处理器: 解码 -> 等比缩放 -> WebP 编码
type ImageProcessor struct {
	maxLongEdge int
	quality     float32
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{
		maxLongEdge: MaxLongEdge,
		quality:     WebPQuality,
	}
}

// ==================== 处理方法 ====================

// Process 把任意 JPEG/PNG/WebP 输入统一转成 WebP
// 长边超过上限时等比缩小，不放大小图
func (p *ImageProcessor) Process(data []byte) (*ProcessedImage, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("解码图片失败: %v", err)
	}
	_ = format

	src = p.downscale(src)
	bounds := src.Bounds()

	var buf bytes.Buffer
	if err := webp.Encode(&buf, src, &webp.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("编码WebP失败: %v", err)
	}

	return &ProcessedImage{
		Data:        buf.Bytes(),
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ContentType: "image/webp",
	}, nil
}

// downscale 按长边等比缩放，使用 Catmull-Rom 插值保持质量
func (p *ImageProcessor) downscale(src image.Image) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	long := w
	if h > long {
		long = h
	}
	if long <= p.maxLongEdge {
		return src
	}

	scale := float64(p.maxLongEdge) / float64(long)
	dw := int(float64(w)*scale + 0.5)
	dh := int(float64(h)*scale + 0.5)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}
