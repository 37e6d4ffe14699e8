package security

import (
	"bytes"
	"errors"
	"io"

	"github.com/go-think/openssl"
	"github.com/klauspost/compress/gzip"
)

// WS 帧格式：json -> AES-CBC(key 同时作 iv) -> gzip。握手帧只压缩不加密。

// MaxFrameSize 单帧解压后的上限。
const MaxFrameSize = 1 << 20

var ErrFrameTooLarge = errors.New("frame exceeds size limit")

func AesCBCEncrypt(src, key, iv []byte, padding string) ([]byte, error) {
	return openssl.AesCBCEncrypt(src, key, iv, padding)
}

func AesCBCDecrypt(src, key, iv []byte, padding string) ([]byte, error) {
	return openssl.AesCBCDecrypt(src, key, iv, padding)
}

func Zip(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnZip 解压后超过 MaxFrameSize 时返回 ErrFrameTooLarge。
func UnZip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	out, err := io.ReadAll(io.LimitReader(r, MaxFrameSize+1))
	if err != nil {
		return nil, err
	}
	if len(out) > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	return out, nil
}

// SealFrame 加密并压缩一帧。
func SealFrame(plain []byte, key string) ([]byte, error) {
	enc, err := AesCBCEncrypt(plain, []byte(key), []byte(key), openssl.ZEROS_PADDING)
	if err != nil {
		return nil, err
	}
	return Zip(enc)
}

// OpenFrame 是 SealFrame 的逆过程。
func OpenFrame(frame []byte, key string) ([]byte, error) {
	enc, err := UnZip(frame)
	if err != nil {
		return nil, err
	}
	return AesCBCDecrypt(enc, []byte(key), []byte(key), openssl.ZEROS_PADDING)
}
