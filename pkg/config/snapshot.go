// Package config provides an immutable, swappable view of devices,
// lines and speed-dials loaded from an INI configuration file. Devices
// and sessions hold a reference to one Snapshot at a time; a reload
// produces a new Snapshot and atomically swaps it into the Store
// without blocking readers.
package config

// SpeedDialConfig is one programmable button on a device.
type SpeedDialConfig struct {
	Label     string
	Extension string
	Index     int
	BLF       bool
}

// LineConfig is the single line presented by a device.
type LineConfig struct {
	Name     string
	CIDNum   string
	CIDName  string
	Context  string
	Language string
}

// DeviceConfig is everything known about one configured phone before
// it registers.
type DeviceConfig struct {
	Name       string
	Type       int
	DateFormat string
	Voicemail  string
	Keepalive  int
	Line       LineConfig
	SpeedDials []SpeedDialConfig
}

// Snapshot is an immutable view of the whole configuration file, safe
// to share across goroutines without copying.
type Snapshot struct {
	BindAddr    string
	AuthTimeout int
	DialTimeout int
	Devices     map[string]DeviceConfig
}

// Device looks up a configured device by name.
func (s *Snapshot) Device(name string) (DeviceConfig, bool) {
	if s == nil {
		return DeviceConfig{}, false
	}
	d, ok := s.Devices[name]
	return d, ok
}

// DiffRequiresReset reports whether old and cur differ in any field
// the phone cannot reconcile while registered, per the live-reload
// comparison set: dateformat, voicemail, keepalive, speed-dial count,
// the line's name/cid_num/cid_name/context, and each speed-dial's
// label/blf/extension. Any inequality in that set forces a soft reset.
func DiffRequiresReset(old, cur DeviceConfig) bool {
	if old.DateFormat != cur.DateFormat ||
		old.Voicemail != cur.Voicemail ||
		old.Keepalive != cur.Keepalive ||
		len(old.SpeedDials) != len(cur.SpeedDials) {
		return true
	}
	if old.Line.Name != cur.Line.Name ||
		old.Line.CIDNum != cur.Line.CIDNum ||
		old.Line.CIDName != cur.Line.CIDName ||
		old.Line.Context != cur.Line.Context {
		return true
	}
	for i := range old.SpeedDials {
		a, b := old.SpeedDials[i], cur.SpeedDials[i]
		if a.Label != b.Label || a.BLF != b.BLF || a.Extension != b.Extension {
			return true
		}
	}
	return false
}
