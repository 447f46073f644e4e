package web

import (
	"pivovar/internal/chart"
	"pivovar/internal/models"
	"pivovar/internal/store"
)

// DeviceView is what one wash machine block renders: its phases in order and
// the chart of its temperature log.
type DeviceView struct {
	Name    string
	Phases  []string
	TempLog models.TempLog
}

// NewDeviceView reads the device from the store.
func NewDeviceView(s *store.Store, name string) (DeviceView, bool) {
	wm, ok := s.Get(name)
	if !ok {
		return DeviceView{}, false
	}
	return DeviceView{Name: wm.Name, Phases: wm.Phases, TempLog: wm.TempLog}, true
}

// DeviceList returns one view per known device in discovery order.
func DeviceList(s *store.Store) []DeviceView {
	names := s.Names()
	out := make([]DeviceView, 0, len(names))
	for _, n := range names {
		if v, ok := NewDeviceView(s, n); ok {
			out = append(out, v)
		}
	}
	return out
}

func (v DeviceView) PlotID() string { return chart.PlotID(v.Name) }

func (v DeviceView) Figure(traceName string) chart.Figure {
	return chart.New(v.TempLog, traceName)
}

// Watch calls fn with the new series each time this device's temperature log
// changes. The returned func stops the watch.
func (v DeviceView) Watch(s *store.Store, fn func(models.TempLog)) (unsubscribe func()) {
	return s.Subscribe(func(c store.Change) {
		if c.Kind == store.ChangeTempLog && c.Device.Name == v.Name {
			fn(c.Device.TempLog)
		}
	})
}
