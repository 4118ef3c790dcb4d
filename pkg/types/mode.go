package types

import "fmt"

// Mode identifies how a space presents reality to its observers.
// The numeric values are wire-visible: render descriptors emit them as
// integers, so they must not be reordered.
type Mode uint8

// Reality presentation modes.
const (
	ModePhysical  Mode = 0
	ModeAugmented Mode = 1
	ModeVirtual   Mode = 2
	ModeMixed     Mode = 3
	ModeQuantum   Mode = 4
)

// Valid reports whether m is a recognized mode.
func (m Mode) Valid() bool {
	return m <= ModeQuantum
}

// String returns the lowercase name of the mode.
func (m Mode) String() string {
	switch m {
	case ModePhysical:
		return "physical"
	case ModeAugmented:
		return "augmented"
	case ModeVirtual:
		return "virtual"
	case ModeMixed:
		return "mixed"
	case ModeQuantum:
		return "quantum"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// ParseMode converts a mode name to its Mode value.
// Returns ErrInvalidArgument for unrecognized names.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "physical":
		return ModePhysical, nil
	case "augmented":
		return ModeAugmented, nil
	case "virtual":
		return ModeVirtual, nil
	case "mixed":
		return ModeMixed, nil
	case "quantum":
		return ModeQuantum, nil
	}
	return 0, fmt.Errorf("unknown mode %q: %w", s, ErrInvalidArgument)
}

// Dimension identifies the dimensional profile of a space.
// Like Mode, the numeric values are wire-visible and fixed.
type Dimension uint8

// Dimensional profiles.
const (
	Dim2D      Dimension = 0
	Dim3D      Dimension = 1
	Dim4D      Dimension = 2
	DimMulti   Dimension = 3
	DimQuantum Dimension = 4
)

// Valid reports whether d is a recognized dimensional profile.
func (d Dimension) Valid() bool {
	return d <= DimQuantum
}

// String returns the lowercase name of the dimensional profile.
func (d Dimension) String() string {
	switch d {
	case Dim2D:
		return "2d"
	case Dim3D:
		return "3d"
	case Dim4D:
		return "4d"
	case DimMulti:
		return "multi"
	case DimQuantum:
		return "quantum"
	}
	return fmt.Sprintf("dimension(%d)", uint8(d))
}

// ParseDimension converts a dimensional profile name to its Dimension value.
// Returns ErrInvalidArgument for unrecognized names.
func ParseDimension(s string) (Dimension, error) {
	switch s {
	case "2d":
		return Dim2D, nil
	case "3d":
		return Dim3D, nil
	case "4d":
		return Dim4D, nil
	case "multi":
		return DimMulti, nil
	case "quantum":
		return DimQuantum, nil
	}
	return 0, fmt.Errorf("unknown dimension %q: %w", s, ErrInvalidArgument)
}
