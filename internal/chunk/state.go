package chunk

// State is the explicit tagged-variant chunk lifecycle state of spec
// §4.3, replacing the scattered `terrainDataReady / needsMeshRegeneration
// / meshDataReady` booleans the teacher keeps on Chunk/columnMeshes
// (dantero-ps-mini-mc-go/internal/world/chunk.go's dirty flag and
// internal/graphics/renderables/blocks/meshing.go's pendingMeshJobs map)
// with one explicit state machine, mutated main-thread-only.
type State int

const (
	// Empty: allocated by the streaming controller, no terrain task has
	// run yet.
	Empty State = iota
	// Generating: a terrain task owns the voxel grid exclusively.
	Generating
	// VoxelsReady: terrain filled; readable by mesh tasks.
	VoxelsReady
	// Meshing: a mesh task has snapshotted this chunk (and is reading
	// whatever neighbor snapshots it could obtain).
	Meshing
	// MeshReady: a mesh buffer for the chunk's current revision has been
	// produced (though not necessarily uploaded yet).
	MeshReady
	// Dropped: terminal. The chunk is retired; no further transitions.
	Dropped
)

func (s State) String() string {
	switch s {
	case Empty:
		return "Empty"
	case Generating:
		return "Generating"
	case VoxelsReady:
		return "VoxelsReady"
	case Meshing:
		return "Meshing"
	case MeshReady:
		return "MeshReady"
	case Dropped:
		return "Dropped"
	default:
		return "Unknown"
	}
}

// validTransitions enumerates the edges of the §4.3 state diagram. Any
// transition not listed here is a programmer error (spec §7: "attempts
// to mutate a chunk not in a mutable state" is an assertion-class bug).
var validTransitions = map[State]map[State]bool{
	Empty:       {Generating: true, Dropped: true},
	Generating:  {VoxelsReady: true, Dropped: true},
	VoxelsReady: {Meshing: true, Dropped: true},
	Meshing:     {MeshReady: true, Dropped: true},
	MeshReady:   {Meshing: true, Dropped: true},
	Dropped:     {},
}

// CanTransition reports whether moving from 'from' to 'to' is a legal
// edge of the state machine. 'any -> Dropped' is legal from every
// non-terminal state.
func CanTransition(from, to State) bool {
	if to == Dropped {
		return from != Dropped
	}
	edges, ok := validTransitions[from]
	if !ok {
		return false
	}
	return edges[to]
}
