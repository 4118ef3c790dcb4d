package types

import "time"

// Space is a bounded region of reality owning an ordered collection of
// objects. Values returned by engine accessors are deep snapshots; mutating
// them never affects engine state.
type Space struct {
	ID           uint64    // Registry-unique, monotonically assigned from 1.
	Mode         Mode      // Presentation mode.
	Dimensions   Dimension // Dimensional profile.
	Objects      []Object  // Ordered, owned objects.
	Entanglement *Handle   // Optional provider handle; nil when none.
	OwnerID      uint64    // Owning principal; 0 when unowned.
	CreatedAt    time.Time // Timestamp of creation.
	LastUpdate   time.Time // Touched by successful sync.
	LastRender   time.Time // Touched by successful render.
	FrameCount   uint64    // Successful renders since creation.
	Correlator   string    // Stable token identifying this space to providers.
}

// ObjectCount returns the number of objects the space owns.
func (s Space) ObjectCount() int {
	return len(s.Objects)
}

// Clone returns a deep copy of the space, including object blobs and
// entanglement handles.
func (s Space) Clone() Space {
	c := s
	c.Entanglement = s.Entanglement.Clone()
	if s.Objects != nil {
		c.Objects = make([]Object, len(s.Objects))
		for i := range s.Objects {
			c.Objects[i] = s.Objects[i].Clone()
		}
	}
	return c
}
