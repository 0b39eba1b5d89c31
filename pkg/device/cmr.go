package device

import (
	"fmt"

	"github.com/matzehuels/maskgen/pkg/geom"
	"github.com/matzehuels/maskgen/pkg/layout"
)

// FlatCMR builds a contact-mechanical resonator: the IDT bus is suspended by
// a narrow tether, widened to the arm width by a taper, then routed to the
// contact pad. The assembly is mirrored to feed the opposite bus.
func FlatCMR(s Spec) (*Device, error) {
	name := s.CellName()
	x0, y0 := s.Origin.X, s.Origin.Y
	l := BusLength(s.IDT)
	arm, tw, tl := s.Pad.ArmWidth, s.Tether.Width, s.TetherLength()

	bus := layout.New(name + "_bus")
	bus.AddRect(metal, geom.R(x0, y0, x0+s.IDT.BusWidth, y0+l))
	if err := bus.AddPort(layout.Port{Name: "bus_port", Center: geom.Pt(x0, y0+l/2), Width: tw, Orientation: 180, Layer: metal}); err != nil {
		return nil, err
	}

	tether := layout.New(name + "_tether")
	tether.AddRect(metal, geom.R(x0, y0, x0+tl, y0+tw))
	for _, p := range []layout.Port{
		{Name: "tether_port1", Center: geom.Pt(x0, y0+tw/2), Width: tw, Orientation: 180, Layer: metal},
		{Name: "tether_port2", Center: geom.Pt(x0+tl, y0+tw/2), Width: tw, Orientation: 0, Layer: metal},
	} {
		if err := tether.AddPort(p); err != nil {
			return nil, err
		}
	}

	taper, err := layout.Taper(s.Tether.TaperLength, arm, tw, metal, "taper_port1", "taper_port2")
	if err != nil {
		return nil, err
	}
	taper.Name = name + "_taper"

	feed := layout.New(name + "_feed")
	busRef := feed.Add(bus)
	tetherRef := feed.Add(tether)
	taperRef := feed.Add(taper)
	if err := tetherRef.Connect("tether_port2", busRef.MustPort("bus_port")); err != nil {
		return nil, err
	}
	if err := taperRef.Connect("taper_port2", tetherRef.MustPort("tether_port1")); err != nil {
		return nil, err
	}
	taperPort := taperRef.MustPort("taper_port1")
	taperPort.Name = "taper_port"
	if err := feed.AddPort(taperPort); err != nil {
		return nil, err
	}

	padOrigin := geom.Pt(x0-3*s.Pad.Width/4, y0+2*l)
	p, err := pad(name+"_pad", s, padOrigin)
	if err != nil {
		return nil, err
	}

	half := layout.New(name + "_pad_and_bus")
	feedRef := half.Add(feed)
	padRef := half.Add(p)
	route, err := layout.Route(feedRef.MustPort("taper_port"), padRef.MustPort("pad_port"), arm)
	if err != nil {
		return nil, fmt.Errorf("route %s: %w", name, err)
	}
	half.Add(route)

	fingers := layout.New(name + "_electrodes")
	fingers.AddPolygons(metal, Fingers(s.Origin, s.IDT))

	all := layout.New(name + "_metal")
	all.Add(mirroredPair(name+"_pair", s, half))
	all.Add(fingers)
	metalCell := layout.Union(all, metal)

	var windows []geom.Polygon
	if s.windowsEnabled() {
		windows = EtchWindows(s.Origin, l, tw, s.IDT, s.Etch)
	}

	n := s.IDT.ElectrodeNumber
	label := fmt.Sprintf("Pair num = %s\nPeriod = %s\nTether w = %s",
		floatNum(float64(n)/2),
		floatNum(2*(s.IDT.ElectrodeWidth+s.IDT.ElectrodeSeparation)),
		num(tw+2*s.Etch.Buffer))
	return finish(s, name, metalCell, label, geom.Pt(padOrigin.X, y0-15), windows)
}
