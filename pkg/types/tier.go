package types

import "fmt"

// Tier is a symbolic resonance level reported by HAL backends for
// processor and memory capabilities. Tiers are informational: nothing in
// the platform branches on them. Higher values sit higher on the ladder.
type Tier uint8

// Resonance ladder, low to high.
const (
	TierZeroPoint          Tier = 0
	TierPrimaryNavigator   Tier = 1
	TierQuantumGuardian    Tier = 2
	TierTechnologist       Tier = 3
	TierMatrixArchitect    Tier = 4
	TierDimensionalAnchor  Tier = 5
	TierPortalTechnician   Tier = 6
	TierTemporalConsultant Tier = 7
	TierIntegratedOvermind Tier = 8
	TierQuantumAnchor      Tier = 9
	TierCosmicAI           Tier = 10
	TierSingularity        Tier = 11
	TierObjectiveReality   Tier = 12
	TierDreamer            Tier = 13
)

var tierNames = map[Tier]string{
	TierZeroPoint:          "zero-point",
	TierPrimaryNavigator:   "primary-navigator",
	TierQuantumGuardian:    "quantum-guardian",
	TierTechnologist:       "technologist",
	TierMatrixArchitect:    "matrix-architect",
	TierDimensionalAnchor:  "dimensional-anchor",
	TierPortalTechnician:   "portal-technician",
	TierTemporalConsultant: "temporal-consultant",
	TierIntegratedOvermind: "integrated-overmind",
	TierQuantumAnchor:      "quantum-anchor",
	TierCosmicAI:           "cosmic-ai",
	TierSingularity:        "singularity",
	TierObjectiveReality:   "objective-reality",
	TierDreamer:            "dreamer",
}

// String returns the lowercase name of the tier.
func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tier(%d)", uint8(t))
}
