// Package framing 实现长度前缀帧编解码
//
// 帧格式：
//
//	[4 字节长度，大端序，无符号][负载]
//
// 负载是一个 protocol.Command 或 protocol.Event 的编码。
package framing

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/dep2p/go-gamenet/pkg/protocol"
)

// PrefixSize 长度前缀字节数
const PrefixSize = 4

// EncodeFrame 编码一帧
//
// 负载长度超过 u32 范围属于编程错误，直接 panic。
func EncodeFrame(payload []byte) []byte {
	if uint64(len(payload)) > math.MaxUint32 {
		panic(fmt.Sprintf("framing: payload of %d bytes exceeds u32 length prefix", len(payload)))
	}
	buf := make([]byte, PrefixSize+len(payload))
	binary.BigEndian.PutUint32(buf, uint32(len(payload)))
	copy(buf[PrefixSize:], payload)
	return buf
}

// WriteFrame 写入一帧
//
// 前缀与负载在一次 Write 中写出，同一写者的帧不会交错。
func WriteFrame(w io.Writer, payload []byte) error {
	if _, err := w.Write(EncodeFrame(payload)); err != nil {
		return fmt.Errorf("framing: write frame: %w", err)
	}
	return nil
}

// ReadFrame 读取一帧并返回负载
//
// maxSize 为 0 时只受 u32 范围限制。任何短读（包括前缀的第一个字节之前就
// 遇到 EOF）都返回 ErrTruncatedFrame，并包装底层错误；声明长度超过
// maxSize 时返回 ErrFrameTooLarge，不读取负载。
func ReadFrame(r io.Reader, maxSize uint32) ([]byte, error) {
	var prefix [PrefixSize]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, truncated("length prefix", err)
	}

	length := binary.BigEndian.Uint32(prefix[:])
	if maxSize > 0 && length > maxSize {
		return nil, fmt.Errorf("%w: %d bytes declared, limit %d", ErrFrameTooLarge, length, maxSize)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, truncated("payload", err)
	}
	return payload, nil
}

func truncated(part string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrTruncatedFrame, part, err)
}

// ============================================================================
//                              消息帧
// ============================================================================

// EncodeCommand 编码 Command 为完整帧
func EncodeCommand(cmd protocol.Command) ([]byte, error) {
	payload, err := protocol.MarshalCommand(cmd)
	if err != nil {
		return nil, err
	}
	return EncodeFrame(payload), nil
}

// EncodeEvent 编码 Event 为完整帧
func EncodeEvent(ev protocol.Event) ([]byte, error) {
	payload, err := protocol.MarshalEvent(ev)
	if err != nil {
		return nil, err
	}
	return EncodeFrame(payload), nil
}
