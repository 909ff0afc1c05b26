package cpu

// State is the serializable subset of CPU register state used by save
// states; addressing/decoding tables are rebuilt on load rather than
// persisted.
type State struct {
	A, X, Y, SP uint8
	PC          uint16
	C, Z, I, D, B, V, N bool
	Cycles      uint64
	NMIPending  bool
	IRQPending  bool
	NMIPrevious bool
	Jammed      bool
}

// Snapshot captures the CPU's register state.
func (cpu *CPU) Snapshot() State {
	return State{
		A: cpu.A, X: cpu.X, Y: cpu.Y, SP: cpu.SP, PC: cpu.PC,
		C: cpu.C, Z: cpu.Z, I: cpu.I, D: cpu.D, B: cpu.B, V: cpu.V, N: cpu.N,
		Cycles:      cpu.cycles,
		NMIPending:  cpu.nmiPending,
		IRQPending:  cpu.irqPending,
		NMIPrevious: cpu.nmiPrevious,
		Jammed:      cpu.jammed,
	}
}

// Restore overwrites the CPU's register state from a prior snapshot.
func (cpu *CPU) Restore(s State) {
	cpu.A, cpu.X, cpu.Y, cpu.SP, cpu.PC = s.A, s.X, s.Y, s.SP, s.PC
	cpu.C, cpu.Z, cpu.I, cpu.D, cpu.B, cpu.V, cpu.N = s.C, s.Z, s.I, s.D, s.B, s.V, s.N
	cpu.cycles = s.Cycles
	cpu.nmiPending = s.NMIPending
	cpu.irqPending = s.IRQPending
	cpu.nmiPrevious = s.NMIPrevious
	cpu.jammed = s.Jammed
}
