package wire

// messageTypeWords gives the number of 32-bit words in a UMP message for
// each possible Message Type (MT), the high nibble of the first word.
var messageTypeWords = [16]uint8{
	1, 1, 1, 2, 2, 4, 1, 1, 2, 2, 2, 3, 3, 4, 4, 4,
}

// MessageType returns the Message Type (MT) field of a UMP word: its high
// nibble.
func MessageType(word uint32) uint8 {
	return uint8(word >> 28)
}

// MessageWords returns the number of 32-bit words in the UMP message that
// begins with the given first word, as determined by its Message Type.
func MessageWords(firstWord uint32) uint8 {
	return messageTypeWords[MessageType(firstWord)]
}
