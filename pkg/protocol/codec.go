package protocol

import (
	"fmt"
	"net/netip"

	"google.golang.org/protobuf/encoding/protowire"
)

// 字段号，一经发布不可修改
const (
	// Command.kind
	fieldCommandJoin protowire.Number = 1

	// Join
	fieldJoinUUID protowire.Number = 1
	fieldJoinHash protowire.Number = 2

	// Event.kind
	fieldEventJoinAccept   protowire.Number = 1
	fieldEventPlayerJoined protowire.Number = 2

	// JoinAccept
	fieldJoinAcceptIP   protowire.Number = 1
	fieldJoinAcceptUUID protowire.Number = 2
)

// ============================================================================
//                              编码
// ============================================================================

// MarshalCommand 编码 Command
func MarshalCommand(cmd Command) ([]byte, error) {
	switch c := cmd.(type) {
	case Join:
		return appendMessage(nil, fieldCommandJoin, encodeJoin(c)), nil
	}
	return nil, fmt.Errorf("%w: command %T", ErrUnknownVariant, cmd)
}

// MarshalEvent 编码 Event
func MarshalEvent(ev Event) ([]byte, error) {
	switch e := ev.(type) {
	case JoinAccept:
		return appendMessage(nil, fieldEventJoinAccept, encodeJoinAccept(e)), nil
	case PlayerJoined:
		return appendMessage(nil, fieldEventPlayerJoined, nil), nil
	}
	return nil, fmt.Errorf("%w: event %T", ErrUnknownVariant, ev)
}

// appendMessage 追加一个嵌套消息字段，空消息也写出标签以标记变体
func appendMessage(b []byte, num protowire.Number, inner []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, inner)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func encodeJoin(j Join) []byte {
	var b []byte
	b = appendVarint(b, fieldJoinUUID, uint64(j.UUID))
	b = appendVarint(b, fieldJoinHash, j.Hash)
	return b
}

func encodeJoinAccept(ja JoinAccept) []byte {
	var b []byte
	if ja.IP.IsValid() {
		b = protowire.AppendTag(b, fieldJoinAcceptIP, protowire.BytesType)
		b = protowire.AppendString(b, ja.IP.String())
	}
	b = appendVarint(b, fieldJoinAcceptUUID, uint64(ja.UUID))
	return b
}

// ============================================================================
//                              解码
// ============================================================================

// UnmarshalCommand 解码 Command
//
// 同一变体字段出现多次时以最后一次为准。
func UnmarshalCommand(payload []byte) (Command, error) {
	var cmd Command
	err := walkFields(payload, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != fieldCommandJoin || typ != protowire.BytesType {
			return 0, nil
		}
		inner, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		j, err := decodeJoin(inner)
		if err != nil {
			return 0, fmt.Errorf("join: %w", err)
		}
		cmd = j
		return n, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if cmd == nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, ErrUnknownVariant)
	}
	return cmd, nil
}

// UnmarshalEvent 解码 Event
func UnmarshalEvent(payload []byte) (Event, error) {
	var ev Event
	err := walkFields(payload, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if typ != protowire.BytesType {
			return 0, nil
		}
		switch num {
		case fieldEventJoinAccept:
			inner, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			ja, err := decodeJoinAccept(inner)
			if err != nil {
				return 0, fmt.Errorf("join_accept: %w", err)
			}
			ev = ja
			return n, nil
		case fieldEventPlayerJoined:
			_, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			ev = PlayerJoined{}
			return n, nil
		}
		return 0, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if ev == nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, ErrUnknownVariant)
	}
	return ev, nil
}

func decodeJoin(b []byte) (Join, error) {
	var j Join
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if typ != protowire.VarintType {
			return 0, nil
		}
		switch num {
		case fieldJoinUUID, fieldJoinHash:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			if num == fieldJoinUUID {
				j.UUID = PlayerID(v)
			} else {
				j.Hash = v
			}
			return n, nil
		}
		return 0, nil
	})
	return j, err
}

func decodeJoinAccept(b []byte) (JoinAccept, error) {
	var ja JoinAccept
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == fieldJoinAcceptIP && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			ap, err := netip.ParseAddrPort(s)
			if err != nil {
				return 0, fmt.Errorf("ip: %w", err)
			}
			ja.IP = Canonical(ap)
			return n, nil
		case num == fieldJoinAcceptUUID && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			ja.UUID = PlayerID(v)
			return n, nil
		}
		return 0, nil
	})
	return ja, err
}

// fieldFunc 处理一个已读出标签的字段，返回消耗的值字节数
//
// 返回 0 表示未识别该字段，由 walkFields 跳过。已识别字段的值至少占 1 字节。
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

// walkFields 遍历消息中的所有字段，跳过未知字段
func walkFields(b []byte, fn fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		m, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if m == 0 {
			m = protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return protowire.ParseError(m)
			}
		}
		b = b[m:]
	}
	return nil
}
