package message

import sccp "github.com/vincentpeyrouse/wazo-libsccp"

// FromFrame decodes a raw frame into its typed message.
func FromFrame(f sccp.Frame) (Message, error) {
	return Decode(f.ID, f.Body)
}

// ToFrame encodes a typed outbound message into a raw frame ready for
// the framing codec.
func ToFrame(m Encoder) sccp.Frame {
	return sccp.Frame{ID: m.ID(), Body: m.Encode()}
}
