// Package netump implements a two-party, UDP-based NetUMP session
// endpoint: it negotiates and maintains a session with a single peer,
// serialises outbound Universal MIDI Packet (UMP) words into framed
// NetUMP command packets with optional forward error correction, parses
// inbound packets, and surfaces recovered UMP words to a Handler.
//
// The protocol state machine and wire codec live in the session and wire
// subpackages; this package supplies the public Endpoint API together
// with the real UDP Transport and millisecond Clock the session core
// expects to be driven by.
package netump
