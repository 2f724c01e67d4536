package device

// supportedDeviceTypes lists the §6.4 registration allow-list; any
// other declared type is rejected with REGISTER_REJ.
var supportedDeviceTypes = map[int]bool{
	7: true, 8: true, 115: true, 307: true, 309: true, 348: true,
	365: true, 369: true, 404: true, 431: true, 434: true,
	20000: true, 30006: true, 30007: true, 30016: true, 30018: true,
}

// IsSupportedDeviceType reports whether typ may register.
func IsSupportedDeviceType(typ int) bool {
	return supportedDeviceTypes[typ]
}

// clampProtoVersion applies the §6.5 negotiation table: low versions
// clamp up to 3, the 4-10 band echoes back unchanged, anything 11+
// clamps down to 11.
func clampProtoVersion(requested uint8) (emitted uint8, pad1, pad2, pad3 byte) {
	switch {
	case requested <= 3:
		return 3, 0x00, 0x00, 0x00
	case requested <= 10:
		return requested, 0x20, 0x00, 0xFE
	default:
		return 11, 0x20, 0xF1, 0xFF
	}
}
