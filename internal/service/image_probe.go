package service

import (
	"bytes"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// probeImageSize 解析上传图片的像素尺寸，无法识别的格式一律拒绝。
func probeImageSize(data []byte) (int, int, error) {
	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, ErrItemImageInvalid
	}
	if config.Width <= 0 || config.Height <= 0 {
		return 0, 0, ErrItemImageInvalid
	}
	return config.Width, config.Height, nil
}
