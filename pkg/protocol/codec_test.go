package protocol

import (
	"net"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

// TestCommand_RoundTrip 测试所有 Command 变体的往返编码
func TestCommand_RoundTrip(t *testing.T) {
	commands := []Command{
		Join{UUID: 7, Hash: 42},
		Join{},
		Join{UUID: 1<<64 - 1, Hash: 1<<64 - 1},
	}
	for _, cmd := range commands {
		data, err := MarshalCommand(cmd)
		require.NoError(t, err)

		got, err := UnmarshalCommand(data)
		require.NoError(t, err)
		assert.Equal(t, cmd, got)
	}
}

// TestEvent_RoundTrip 测试所有 Event 变体的往返编码
func TestEvent_RoundTrip(t *testing.T) {
	events := []Event{
		JoinAccept{IP: netip.MustParseAddrPort("127.0.0.1:5000"), UUID: 7},
		JoinAccept{IP: netip.MustParseAddrPort("[2001:db8::1]:443"), UUID: 9},
		JoinAccept{},
		PlayerJoined{},
	}
	for _, ev := range events {
		data, err := MarshalEvent(ev)
		require.NoError(t, err)

		got, err := UnmarshalEvent(data)
		require.NoError(t, err)
		assert.Equal(t, ev, got)
	}
}

// TestCodec_WireLayout 测试字段号固定
//
// Join{7, 42} 的负载是 6 字节，帧前缀为 00 00 00 06。
func TestCodec_WireLayout(t *testing.T) {
	data, err := MarshalCommand(Join{UUID: 7, Hash: 42})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0a, 0x04, 0x08, 0x07, 0x10, 0x2a}, data)

	ja := JoinAccept{IP: netip.MustParseAddrPort("127.0.0.1:5000"), UUID: 7}
	data, err = MarshalEvent(ja)
	require.NoError(t, err)
	want := append([]byte{0x0a, 0x12, 0x0a, 0x0e}, "127.0.0.1:5000"...)
	want = append(want, 0x10, 0x07)
	assert.Equal(t, want, data)

	data, err = MarshalEvent(PlayerJoined{})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x12, 0x00}, data)
}

// TestCodec_SkipsUnknownFields 测试未知字段被跳过
func TestCodec_SkipsUnknownFields(t *testing.T) {
	var inner []byte
	inner = protowire.AppendTag(inner, 9, protowire.BytesType)
	inner = protowire.AppendString(inner, "future")
	inner = protowire.AppendTag(inner, fieldJoinUUID, protowire.VarintType)
	inner = protowire.AppendVarint(inner, 3)
	inner = protowire.AppendTag(inner, fieldJoinHash, protowire.Fixed64Type)
	inner = protowire.AppendFixed64(inner, 1)

	var payload []byte
	payload = protowire.AppendTag(payload, 15, protowire.VarintType)
	payload = protowire.AppendVarint(payload, 1)
	payload = appendMessage(payload, fieldCommandJoin, inner)

	cmd, err := UnmarshalCommand(payload)
	require.NoError(t, err)
	assert.Equal(t, Join{UUID: 3}, cmd)
}

// TestCodec_UnknownVariant 测试没有已知变体的负载
func TestCodec_UnknownVariant(t *testing.T) {
	future := appendMessage(nil, 3, nil)

	_, err := UnmarshalEvent(future)
	assert.ErrorIs(t, err, ErrMalformedPayload)
	assert.ErrorIs(t, err, ErrUnknownVariant)

	_, err = UnmarshalCommand(nil)
	assert.ErrorIs(t, err, ErrMalformedPayload)
	assert.ErrorIs(t, err, ErrUnknownVariant)

	_, err = MarshalCommand(nil)
	assert.ErrorIs(t, err, ErrUnknownVariant)

	_, err = MarshalEvent(nil)
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

// TestCodec_Malformed 测试损坏的负载
func TestCodec_Malformed(t *testing.T) {
	tests := map[string][]byte{
		"truncated tag":    {0x0a},
		"truncated length": {0x0a, 0x05, 0x08},
		"bad varint":       {0x0a, 0x02, 0x08, 0xff},
		"bad ip":           appendMessage(nil, fieldEventJoinAccept, protowire.AppendString(protowire.AppendTag(nil, fieldJoinAcceptIP, protowire.BytesType), "nope")),
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, errCmd := UnmarshalCommand(data)
			_, errEv := UnmarshalEvent(data)
			assert.ErrorIs(t, errEv, ErrMalformedPayload)
			if name != "bad ip" {
				assert.ErrorIs(t, errCmd, ErrMalformedPayload)
			}
		})
	}
}

// TestAddrPortOf 测试地址规范化
func TestAddrPortOf(t *testing.T) {
	ap, err := AddrPortOf(&net.UDPAddr{IP: net.ParseIP("::ffff:10.0.0.1"), Port: 1234})
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddrPort("10.0.0.1:1234"), ap)

	ap, err = AddrPortOf(&net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 80})
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddrPort("127.0.0.1:80"), ap)

	_, err = AddrPortOf(nil)
	assert.Error(t, err)
}

// TestPlayerID 测试身份辅助方法
func TestPlayerID(t *testing.T) {
	assert.False(t, Unassigned.IsAssigned())
	assert.True(t, PlayerID(7).IsAssigned())
	assert.Equal(t, "7", PlayerID(7).String())
	assert.Equal(t, "join", Join{}.Kind())
	assert.Equal(t, "join_accept", JoinAccept{}.Kind())
	assert.Equal(t, "player_joined", PlayerJoined{}.Kind())
}
