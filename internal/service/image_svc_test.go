package service

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func pngBytesRaw(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	return pngBytesRaw(w, h)
}

func TestImageProcessor_Downscale(t *testing.T) {
	p := NewImageProcessor()

	out, err := p.Process(pngBytes(t, 2000, 1000))
	if err != nil {
		t.Fatalf("处理失败: %v", err)
	}
	if out.Width != 1080 || out.Height != 540 {
		t.Errorf("缩放尺寸不正确: %dx%d", out.Width, out.Height)
	}
	if out.ContentType != "image/webp" {
		t.Errorf("内容类型不正确: %s", out.ContentType)
	}
	if len(out.Data) == 0 {
		t.Error("输出数据为空")
	}
}

func TestImageProcessor_SmallImageKept(t *testing.T) {
	p := NewImageProcessor()

	out, err := p.Process(pngBytes(t, 640, 480))
	if err != nil {
		t.Fatalf("处理失败: %v", err)
	}
	if out.Width != 640 || out.Height != 480 {
		t.Errorf("小图不应放大: %dx%d", out.Width, out.Height)
	}
}

func TestImageProcessor_PortraitLongEdge(t *testing.T) {
	p := NewImageProcessor()

	out, err := p.Process(pngBytes(t, 900, 1800))
	if err != nil {
		t.Fatalf("处理失败: %v", err)
	}
	if out.Height != 1080 || out.Width != 540 {
		t.Errorf("竖图按高度缩放不正确: %dx%d", out.Width, out.Height)
	}
}

func TestImageProcessor_InvalidData(t *testing.T) {
	p := NewImageProcessor()

	if _, err := p.Process([]byte("not-an-image")); err == nil {
		t.Fatal("非图片数据应当报错")
	}
}
