package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

const (
	defaultBindAddr    = "0.0.0.0"
	defaultAuthTimeout = 5
	defaultDialTimeout = 1
)

// LoadINI parses an sccp.ini-style configuration file into a Snapshot.
// Section names follow "device <name>" and "speeddial <device>"; the
// "general" section carries the daemon-wide defaults.
func LoadINI(path string) (*Snapshot, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	return fromFile(f)
}

func fromFile(f *ini.File) (*Snapshot, error) {
	snap := &Snapshot{
		BindAddr:    defaultBindAddr,
		AuthTimeout: defaultAuthTimeout,
		DialTimeout: defaultDialTimeout,
		Devices:     make(map[string]DeviceConfig),
	}

	if gen, err := f.GetSection("general"); err == nil {
		snap.BindAddr = gen.Key("bindaddr").MustString(defaultBindAddr)
		snap.AuthTimeout = gen.Key("authtimeout").MustInt(defaultAuthTimeout)
		snap.DialTimeout = gen.Key("dialtimeout").MustInt(defaultDialTimeout)
	}

	for _, sec := range f.Sections() {
		name := sec.Name()
		switch {
		case strings.HasPrefix(name, "device "):
			dev, err := parseDevice(sec)
			if err != nil {
				return nil, err
			}
			snap.Devices[dev.Name] = dev
		}
	}

	for _, sec := range f.Sections() {
		name := sec.Name()
		if !strings.HasPrefix(name, "speeddial ") {
			continue
		}
		deviceName := strings.TrimPrefix(name, "speeddial ")
		dev, ok := snap.Devices[deviceName]
		if !ok {
			continue
		}
		dev.SpeedDials = parseSpeedDials(sec)
		snap.Devices[deviceName] = dev
	}

	return snap, nil
}

func parseDevice(sec *ini.Section) (DeviceConfig, error) {
	name := strings.TrimPrefix(sec.Name(), "device ")
	if name == "" {
		return DeviceConfig{}, fmt.Errorf("config: section %q has no device name", sec.Name())
	}
	return DeviceConfig{
		Name:       name,
		Type:       sec.Key("type").MustInt(0),
		DateFormat: sec.Key("dateformat").MustString("D.M.Y"),
		Voicemail:  sec.Key("voicemail").String(),
		Keepalive:  sec.Key("keepalive").MustInt(30),
		Line: LineConfig{
			Name:     sec.Key("line").MustString(name),
			CIDNum:   sec.Key("cid_num").String(),
			CIDName:  sec.Key("cid_name").String(),
			Context:  sec.Key("context").MustString("default"),
			Language: sec.Key("language").MustString("en"),
		},
	}, nil
}

// parseSpeedDials reads numbered keys ("1", "2", ...) each holding a
// comma-separated "extension,label[,blf]" triple, in ascending key
// order so Index assignment is deterministic.
func parseSpeedDials(sec *ini.Section) []SpeedDialConfig {
	keys := sec.Keys()
	out := make([]SpeedDialConfig, 0, len(keys))
	for _, k := range keys {
		idx, err := strconv.Atoi(k.Name())
		if err != nil {
			continue
		}
		fields := strings.Split(k.String(), ",")
		sd := SpeedDialConfig{Index: idx}
		if len(fields) > 0 {
			sd.Extension = strings.TrimSpace(fields[0])
		}
		if len(fields) > 1 {
			sd.Label = strings.TrimSpace(fields[1])
		}
		if len(fields) > 2 {
			sd.BLF = strings.TrimSpace(fields[2]) == "blf"
		}
		out = append(out, sd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
