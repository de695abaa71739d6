package transcoder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildSYSEX(dataLen int) []byte {
	midi := make([]byte, 0, dataLen+2)
	midi = append(midi, 0xF0)
	for i := 0; i < dataLen; i++ {
		midi = append(midi, byte(i%0x60))
	}
	midi = append(midi, 0xF7)
	return midi
}

func encodeAll(t *testing.T, midi []byte) [][]uint32 {
	enc := NewSYSEXEncoder()
	var packets [][]uint32
	for {
		words, ok := enc.Next(midi)
		if !ok {
			break
		}
		packets = append(packets, words)
	}
	require.NotEmpty(t, packets)
	return packets
}

func sysexFormat(w0 uint32) uint32 {
	return w0 & 0xF0F00000
}

func TestSYSEXEncoderStartEndOnly(t *testing.T) {
	midi := buildSYSEX(10) // 6 (start) + 4 (end), no continue
	packets := encodeAll(t, midi)
	require.Len(t, packets, 2)
	require.EqualValues(t, 0x30100000, sysexFormat(packets[0][0]))
	require.EqualValues(t, 0x30300000, sysexFormat(packets[1][0]))
}

func TestSYSEXEncoderWithContinue(t *testing.T) {
	midi := buildSYSEX(14) // 6 (start) + 6 (continue) + 2 (end)
	packets := encodeAll(t, midi)
	require.Len(t, packets, 3)
	require.EqualValues(t, 0x30100000, sysexFormat(packets[0][0]))
	require.EqualValues(t, 0x30200000, sysexFormat(packets[1][0]))
	require.EqualValues(t, 0x30300000, sysexFormat(packets[2][0]))
}

func TestSYSEXRoundTrip(t *testing.T) {
	for _, dataLen := range []int{7, 10, 12, 13, 14, 20, 37} {
		midi := buildSYSEX(dataLen)
		packets := encodeAll(t, midi)

		dec := NewSYSEXDecoder()
		var rebuilt []byte
		var complete bool
		for _, p := range packets {
			rebuilt, complete = dec.Feed(p)
		}
		require.True(t, complete, "dataLen=%d", dataLen)
		require.Equal(t, midi, rebuilt, "dataLen=%d", dataLen)
	}
}

func TestSYSEXDecoderRejectsContinueWithoutStart(t *testing.T) {
	dec := NewSYSEXDecoder()
	_, complete := dec.Feed([]uint32{0x30260102, 0})
	require.False(t, complete)
}
