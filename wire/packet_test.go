package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeInvitationRoundTrip(t *testing.T) {
	pkt, err := EncodeInvitation(OpInvitation, "Example Endpoint", "abc123", 0)
	require.NoError(t, err)

	name, piid, err := DecodeInvitation(pkt)
	require.NoError(t, err)
	require.Equal(t, "Example Endpoint", name)
	require.Equal(t, "abc123", piid)
}

func TestEncodeInvitationPadsToWordBoundary(t *testing.T) {
	// "ab" + NUL = 3 bytes -> 1 word (padded to 4).
	pkt, err := EncodeInvitation(OpInvitation, "ab", "", 0)
	require.NoError(t, err)

	hdr, err := ParseHeader(pkt)
	require.NoError(t, err)
	require.EqualValues(t, 1, hdr.B2) // CSD1: one word for the name
	require.EqualValues(t, 2, hdr.PayloadLenWords) // name word + empty-piid word
}

func TestEncodeInvitationRejectsOversizeFields(t *testing.T) {
	longName := make([]byte, MaxEndpointNameLen)
	for i := range longName {
		longName[i] = 'x'
	}
	_, err := EncodeInvitation(OpInvitation, string(longName), "", 0)
	require.ErrorIs(t, err, ErrNameTooLong)

	longPIID := make([]byte, MaxProductInstanceIDLen)
	for i := range longPIID {
		longPIID[i] = 'x'
	}
	_, err = EncodeInvitation(OpInvitation, "n", string(longPIID), 0)
	require.ErrorIs(t, err, ErrPIIDTooLong)
}

func TestDecodeInvitationTruncated(t *testing.T) {
	_, _, err := DecodeInvitation([]byte{byte(OpInvitation), 5})
	require.Error(t, err)
}

func TestByeRoundTrip(t *testing.T) {
	pkt := EncodeBye(ByeTimeout)
	code, err := DecodeBye(pkt)
	require.NoError(t, err)
	require.Equal(t, ByeTimeout, code)
}

func TestPingRoundTrip(t *testing.T) {
	pkt := EncodePing(OpPing, 0xDEADBEEF)
	id, err := DecodePing(pkt)
	require.NoError(t, err)
	require.EqualValues(t, 0xDEADBEEF, id)

	hdr, err := ParseHeader(pkt)
	require.NoError(t, err)
	require.Equal(t, OpPing, hdr.Opcode)
	require.EqualValues(t, 1, hdr.PayloadLenWords)
}

func TestUMPDataHeaderRoundTrip(t *testing.T) {
	hdr := EncodeUMPDataHeader(3, 0xBEEF)
	wordCount, seq, err := DecodeUMPDataHeader(hdr[:])
	require.NoError(t, err)
	require.EqualValues(t, 3, wordCount)
	require.EqualValues(t, 0xBEEF, seq)
}

func TestSignatureRoundTrip(t *testing.T) {
	pkt := EncodeByeReply()
	datagram := PrependSignature(pkt)
	require.True(t, HasSignature(datagram))
	require.False(t, HasSignature(pkt))
}

func TestOpcodeString(t *testing.T) {
	require.Equal(t, "UMP_DATA", OpUMPData.String())
	require.Equal(t, "UNKNOWN", Opcode(0x99).String())
}
