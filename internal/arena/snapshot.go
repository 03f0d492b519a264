package arena

// TopView is a read-only copy of the render-facing state of one top.
type TopView struct {
	Index           int
	X, Y            float64
	VX, VY          float64
	Angle           float64
	AngularVelocity float64
	Radius          float64
	Speed           float64
	DirX, DirY      float64
	Selected        bool
	CollisionFlash  float64
	Palette         Palette
}

// Snapshot is what renderers consume; it never aliases arena memory.
type Snapshot struct {
	Frame          int
	Radius         float64
	Center         Point
	FlashIntensity float64
	Tops           []TopView
}

func (a *Arena) Snapshot() Snapshot {
	s := Snapshot{
		Frame:          a.frame,
		Radius:         a.radius,
		Center:         a.center,
		FlashIntensity: a.flash,
		Tops:           make([]TopView, len(a.tops)),
	}
	for i := range a.tops {
		t := &a.tops[i]
		dx, dy := t.DirectionVector()
		s.Tops[i] = TopView{
			Index:           i,
			X:               t.X,
			Y:               t.Y,
			VX:              t.VX,
			VY:              t.VY,
			Angle:           t.Angle,
			AngularVelocity: t.AngularVelocity,
			Radius:          t.radius,
			Speed:           t.Speed(),
			DirX:            dx,
			DirY:            dy,
			Selected:        t.Selected,
			CollisionFlash:  t.CollisionFlash,
			Palette:         t.Palette,
		}
	}
	return s
}
