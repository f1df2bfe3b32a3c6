// Package cache implements the in-memory semantic cache core: a brute-force
// cosine vector index and an entry store with capacity, TTL, and eviction
// policy. The core never performs I/O; embeddings are computed by the caller
// before entering this package.
package cache

import (
	"math"
)

// defaultCompactFraction is the tombstone share that triggers index
// compaction.
const defaultCompactFraction = 0.5

// indexSlot holds one stored vector. Removed slots stay as tombstones until
// the next compaction so Remove stays O(1).
type indexSlot struct {
	id   string
	vec  []float64
	seq  uint64
	dead bool
}

// VectorIndex is an append-friendly nearest-neighbor structure over
// fixed-length embedding vectors under cosine similarity. It is not safe for
// concurrent use; the owning store serializes access.
type VectorIndex struct {
	slots           []indexSlot
	slotByID        map[string]int
	tombstones      int
	seq             uint64
	compactFraction float64
}

// NewVectorIndex creates an empty index. A compactFraction of zero or less
// selects the default tombstone threshold.
func NewVectorIndex(compactFraction float64) *VectorIndex {
	if compactFraction <= 0 {
		compactFraction = defaultCompactFraction
	}
	return &VectorIndex{
		slots:           nil,
		slotByID:        make(map[string]int),
		tombstones:      0,
		seq:             0,
		compactFraction: compactFraction,
	}
}

// Insert adds a vector under the given id, replacing any previous vector for
// that id. Amortized O(1).
func (x *VectorIndex) Insert(id string, vec []float64) {
	if slot, exists := x.slotByID[id]; exists {
		x.slots[slot].dead = true
		x.tombstones++
	}

	x.seq++
	x.slots = append(x.slots, indexSlot{
		id:   id,
		vec:  append([]float64(nil), vec...),
		seq:  x.seq,
		dead: false,
	})
	x.slotByID[id] = len(x.slots) - 1
}

// Remove tombstones the slot for id. Once tombstones exceed the configured
// fraction of total slots the index is compacted to bound scan cost.
func (x *VectorIndex) Remove(id string) bool {
	slot, exists := x.slotByID[id]
	if !exists {
		return false
	}

	x.slots[slot].dead = true
	x.tombstones++
	delete(x.slotByID, id)

	if float64(x.tombstones) > x.compactFraction*float64(len(x.slots)) {
		x.compact()
	}

	return true
}

// Nearest returns the id and cosine similarity of the single closest stored
// vector. Ties break toward the oldest insertion. ok is false when the index
// is empty.
func (x *VectorIndex) Nearest(vec []float64) (id string, similarity float64, ok bool) {
	bestSeq := uint64(math.MaxUint64)
	best := -1.0

	for i := range x.slots {
		slot := &x.slots[i]
		if slot.dead {
			continue
		}

		sim := CosineSimilarity(vec, slot.vec)
		if sim > best || (sim == best && slot.seq < bestSeq) {
			best = sim
			bestSeq = slot.seq
			id = slot.id
			ok = true
		}
	}

	return id, best, ok
}

// Len returns the number of live vectors.
func (x *VectorIndex) Len() int {
	return len(x.slotByID)
}

// Reset drops every slot, live and dead.
func (x *VectorIndex) Reset() {
	x.slots = nil
	x.slotByID = make(map[string]int)
	x.tombstones = 0
}

// compact rebuilds the slot slice without tombstones, preserving every live
// (id, vector) pair and its insertion sequence.
func (x *VectorIndex) compact() {
	live := make([]indexSlot, 0, len(x.slotByID))
	for _, slot := range x.slots {
		if !slot.dead {
			live = append(live, slot)
		}
	}

	x.slots = live
	x.slotByID = make(map[string]int, len(live))
	for i := range live {
		x.slotByID[live[i].id] = i
	}
	x.tombstones = 0
}

// CosineSimilarity computes the normalized dot product of two vectors.
// Mismatched or zero-magnitude vectors score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
