package utils

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// FetchImage 拉取客户端引用的图片
// 支持两种形式: http(s) URL 和 data:image/...;base64, 内联数据
func FetchImage(ref string) ([]byte, error) {
	if strings.HasPrefix(ref, "data:") {
		return decodeDataURL(ref)
	}
	return DownloadImage(ref)
}

// DownloadImage 下载网络图片并返回字节切片
func DownloadImage(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("http get failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed with status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %v", err)
	}

	return data, nil
}

func decodeDataURL(ref string) ([]byte, error) {
	idx := strings.Index(ref, ",")
	if idx < 0 {
		return nil, fmt.Errorf("invalid data url")
	}
	meta := ref[:idx]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("unsupported data url encoding")
	}

	data, err := base64.StdEncoding.DecodeString(ref[idx+1:])
	if err != nil {
		return nil, fmt.Errorf("decode base64 failed: %v", err)
	}
	return data, nil
}
