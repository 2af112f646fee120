package core

import (
	"time"

	"github.com/samber/lo"
)

// Snapshot is the parsed view of one sessions response.
// Devices keep the order in which they first appear in the document.
type Snapshot struct {
	Devices   []*Device `json:"devices"`
	FetchedAt time.Time `json:"fetched_at"`

	index map[string]*Device
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot(fetchedAt time.Time) *Snapshot {
	return &Snapshot{
		Devices:   make([]*Device, 0),
		FetchedAt: fetchedAt,
		index:     make(map[string]*Device),
	}
}

// Device returns the device with the given name, or nil.
func (s *Snapshot) Device(name string) *Device {
	if s == nil {
		return nil
	}
	if s.index == nil {
		s.reindex()
	}
	return s.index[name]
}

// Ensure returns the named device, adding it with status if it is new.
// The status of an existing device is left unchanged.
func (s *Snapshot) Ensure(name, status string) *Device {
	if d := s.Device(name); d != nil {
		return d
	}
	d := &Device{Name: name, Status: status, Tracks: make([]Track, 0)}
	s.Devices = append(s.Devices, d)
	s.index[name] = d
	return d
}

// Len returns the number of devices.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Devices)
}

// IsEmpty returns true if no device is present.
func (s *Snapshot) IsEmpty() bool {
	return s.Len() == 0
}

// DeviceNames returns the device names in display order.
func (s *Snapshot) DeviceNames() []string {
	if s == nil {
		return nil
	}
	return lo.Map(s.Devices, func(d *Device, _ int) string {
		return d.Name
	})
}

// TrackCount returns the number of tracks across all devices.
func (s *Snapshot) TrackCount() int {
	if s == nil {
		return 0
	}
	return lo.SumBy(s.Devices, func(d *Device) int {
		return len(d.Tracks)
	})
}

// Filter returns a snapshot holding only devices accepted by keep.
func (s *Snapshot) Filter(keep func(d *Device) bool) *Snapshot {
	out := NewSnapshot(time.Time{})
	if s == nil {
		return out
	}
	out.FetchedAt = s.FetchedAt
	for _, d := range lo.Filter(s.Devices, func(d *Device, _ int) bool { return keep(d) }) {
		out.Devices = append(out.Devices, d)
		out.index[d.Name] = d
	}
	return out
}

func (s *Snapshot) reindex() {
	s.index = make(map[string]*Device, len(s.Devices))
	for _, d := range s.Devices {
		s.index[d.Name] = d
	}
}
