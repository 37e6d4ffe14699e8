package security

import (
	"bytes"
	"errors"
	"testing"
)

func TestZip_往返(t *testing.T) {
	in := []byte(`{"name":"battle.simulate","seq":3}`)
	z, err := Zip(in)
	if err != nil {
		t.Fatalf("Zip err=%v", err)
	}
	out, err := UnZip(z)
	if err != nil || !bytes.Equal(out, in) {
		t.Fatalf("UnZip out=%q err=%v", out, err)
	}
	if _, err := UnZip([]byte("not gzip")); err == nil {
		t.Fatalf("非 gzip 数据应报错")
	}
}

func TestUnZip_解压上限(t *testing.T) {
	// 高压缩比的全零数据，压缩后很小，解压后超过上限
	bomb, err := Zip(make([]byte, MaxFrameSize+1))
	if err != nil {
		t.Fatalf("Zip err=%v", err)
	}
	if len(bomb) >= MaxFrameSize/100 {
		t.Fatalf("压缩后应远小于上限, len=%d", len(bomb))
	}
	if _, err := UnZip(bomb); !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("超限应返回 ErrFrameTooLarge, got=%v", err)
	}

	exact, _ := Zip(make([]byte, MaxFrameSize))
	out, err := UnZip(exact)
	if err != nil || len(out) != MaxFrameSize {
		t.Fatalf("恰好等于上限应通过, len=%d err=%v", len(out), err)
	}
}

func TestFrame_加密压缩往返(t *testing.T) {
	key := "0123456789abcdef"
	in := []byte(`{"seq":1,"name":"tournament.run","msg":{"words":["KING","HEX"]}}`)
	frame, err := SealFrame(in, key)
	if err != nil {
		t.Fatalf("SealFrame err=%v", err)
	}
	out, err := OpenFrame(frame, key)
	if err != nil {
		t.Fatalf("OpenFrame err=%v", err)
	}
	if !bytes.Equal(out, in) {
		t.Fatalf("out=%q", out)
	}
	if _, err := SealFrame(in, "short"); err == nil {
		t.Fatalf("非法 key 长度应报错")
	}
}
