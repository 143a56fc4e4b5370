package components

// NoTarget marks an enzyme as unbound.
const NoTarget int32 = -1

// Binding is the per-enzyme reaction state: which substrate the enzyme is
// bound to (NoTarget when unbound) and how long it has dwelled there.
// Only Polymerase and Ribosome particles carry meaningful binding state.
type Binding struct {
	Target int32
	Dwell  float32 // ticks since (re)binding
}

// Bound reports whether the enzyme currently holds a substrate.
func (b *Binding) Bound() bool {
	return b.Target != NoTarget
}

// Release returns the enzyme to the unbound state.
func (b *Binding) Release() {
	b.Target = NoTarget
	b.Dwell = 0
}

// ReactionRule describes one enzyme species as data: what it binds, what it
// emits, and how the binding is gated. New reaction types are added by
// extending the rule table, not by branching in the engine.
type ReactionRule struct {
	Enzyme        Kind    // enzyme species this rule applies to
	Substrate     Kind    // required neighbor kind to bind
	Product       Kind    // kind spawned when dwell completes
	DwellTicks    float32 // dwell threshold before product emission
	BindChance    float32 // per-tick probability of binding a found substrate
	EnergyGate    float32 // minimum pool energy required to enter Bound
	BurnChance    float32 // per-tick probability of consuming one energy unit while bound
	ProductRadius float32 // radius of the spawned product particle
}

// DefaultRules returns the built-in transcription and translation rules.
func DefaultRules() []ReactionRule {
	return []ReactionRule{
		{
			Enzyme:        KindPolymerase,
			Substrate:     KindDNA,
			Product:       KindMRNA,
			DwellTicks:    50,
			BindChance:    0.1,
			EnergyGate:    0,
			BurnChance:    0,
			ProductRadius: 0.4,
		},
		{
			Enzyme:        KindRibosome,
			Substrate:     KindMRNA,
			Product:       KindProtein,
			DwellTicks:    40,
			BindChance:    0.1,
			EnergyGate:    1,
			BurnChance:    0.5,
			ProductRadius: 0.5,
		},
	}
}
