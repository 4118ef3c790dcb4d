package types

import "time"

// Object is an entity inside a space. Geometry and material blobs are
// owned copies; the knowledge reference is non-owning and shared.
type Object struct {
	ID           uint64         // spaceID*1000 + ordinal+1, fixed for the object's life.
	SpaceID      uint64         // Owning space.
	Name         string         // Optional label; empty means unnamed.
	Geometry     []byte         // Opaque geometry blob, owned.
	Material     []byte         // Opaque material blob, owned.
	Interactive  bool           // Whether observers may interact with it.
	Entanglement *Handle        // Optional provider handle; nil when none.
	Knowledge    *KnowledgeNode // Non-owning reference; nil when unlinked.
	CreatedAt    time.Time      // Timestamp of creation.
	Correlator   string         // Stable token identifying this object to providers.
}

// Clone returns a copy of the object with its own blob storage.
// The knowledge reference stays shared; it is not owned by the object.
func (o Object) Clone() Object {
	c := o
	c.Geometry = cloneBytes(o.Geometry)
	c.Material = cloneBytes(o.Material)
	c.Entanglement = o.Entanglement.Clone()
	return c
}

// ObjectSpec describes an object to create. Blob slices are copied on
// creation; the caller keeps ownership of its own buffers.
type ObjectSpec struct {
	Name        string // Optional label.
	Geometry    []byte // Opaque geometry blob.
	Material    []byte // Opaque material blob.
	Interactive bool
	Quantum     bool   // Request an entanglement handle for this object.
	Knowledge   uint64 // Knowledge node to link; 0 means none.
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
