package components

// Kind tags a particle with its molecular species.
type Kind uint8

const (
	KindWater      Kind = iota // background crowding agent
	KindProtein                // translation product
	KindLipid                  // membrane precursor
	KindDNA                    // chromosome segment
	KindMRNA                   // transcription product
	KindPolymerase             // enzyme: DNA -> mRNA
	KindRibosome               // enzyme: mRNA -> protein
)

// KindCount is the number of particle kinds.
const KindCount = 7

// String returns the display name for a Kind.
func (k Kind) String() string {
	names := KindNames()
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// KindNames returns the display names for all kinds.
// The order matches the Kind constants.
func KindNames() []string {
	return []string{"Water", "Protein", "Lipid", "DNA", "mRNA", "Polymerase", "Ribosome"}
}

// IsEnzyme reports whether particles of this kind carry reaction state.
func (k Kind) IsEnzyme() bool {
	return k == KindPolymerase || k == KindRibosome
}

// Constraint links two particles by a rest-length bond.
// Indices reference the particle store and stay valid for the lifetime
// of both endpoints (the store never reuses a live index).
type Constraint struct {
	A, B       int32
	RestLength float32
}
