package transcoder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMIDI1ToUMPNoteOn(t *testing.T) {
	words, ok := MIDI1ToUMP([]byte{0x90, 0x40, 0x7F})
	require.True(t, ok)
	require.Equal(t, []uint32{0x2090407F}, words)
}

func TestMIDI1ToUMPProgramChange(t *testing.T) {
	words, ok := MIDI1ToUMP([]byte{0xC0, 0x10})
	require.True(t, ok)
	require.Equal(t, []uint32{0x20C01000}, words)
}

func TestMIDI1ToUMPSystemRealtime(t *testing.T) {
	words, ok := MIDI1ToUMP([]byte{0xF8})
	require.True(t, ok)
	require.Equal(t, []uint32{0x10F80000}, words)
}

func TestMIDI1ToUMPShortSYSEX(t *testing.T) {
	words, ok := MIDI1ToUMP([]byte{0xF0, 0x01, 0x02, 0xF7})
	require.True(t, ok)
	require.Equal(t, []uint32{0x30020102, 0}, words)
}

func TestMIDI1ToUMPRejectsLongSYSEX(t *testing.T) {
	midi := append([]byte{0xF0}, make([]byte, 10)...)
	midi = append(midi, 0xF7)
	_, ok := MIDI1ToUMP(midi)
	require.False(t, ok)
}

func TestUMPToMIDI1RoundTripChannelVoice(t *testing.T) {
	words, ok := MIDI1ToUMP([]byte{0x90, 0x40, 0x7F})
	require.True(t, ok)
	midi, ok := UMPToMIDI1(words)
	require.True(t, ok)
	require.Equal(t, []byte{0x90, 0x40, 0x7F}, midi)
}

func TestUMPToMIDI1RoundTripShortSYSEX(t *testing.T) {
	original := []byte{0xF0, 0x7E, 0x00, 0x06, 0x01, 0xF7}
	words, ok := MIDI1ToUMP(original)
	require.True(t, ok)
	midi, ok := UMPToMIDI1(words)
	require.True(t, ok)
	require.Equal(t, original, midi)
}
