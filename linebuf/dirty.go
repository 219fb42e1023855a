package linebuf

// Dirty describes what must be repainted. It is either FullRedraw or
// PartialRedraw; no other implementations exist.
type Dirty interface {
	isDirty()
}

// FullRedraw means the window scrolled: every slot now holds a different
// line and the whole surface must be cleared and repainted.
type FullRedraw struct{}

// PartialRedraw lists slots that were blank and have been filled since the
// last paint, in ascending order. Other slots are unchanged.
type PartialRedraw struct {
	Slots []int
}

func (FullRedraw) isDirty()    {}
func (PartialRedraw) isDirty() {}

// IsClean reports whether d requires no painting at all.
func IsClean(d Dirty) bool {
	p, ok := d.(PartialRedraw)
	return ok && len(p.Slots) == 0
}
