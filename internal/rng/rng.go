// Package rng provides the single scalar-producing randomness source threaded
// through the battle engine. Every draw returns a float64 in [0,1). The engine
// never reaches for global randomness directly: every compiler and resolver
// function takes a Source parameter so that a recorded stream can be replayed
// bit-for-bit and so that search policies can pin randomness deterministically.
package rng

import (
	"encoding/binary"
	"math/rand/v2"

	"golang.org/x/crypto/blake2b"
)

// Source produces successive uniform draws in [0,1).
type Source interface {
	Next() float64
}

// FixedSource always returns the same value. Used by the minimax policy,
// which requires every draw to resolve to 0.5 (median damage roll, failed
// crit below a certain-crit stage, multi-hit count min+floor(0.5*(max-min+1)),
// tie-break pinned, accuracy passes only when the move's accuracy is above
// 0.5).
type FixedSource struct {
	Value float64
}

// NewFixedSource returns a Source that always yields value.
func NewFixedSource(value float64) *FixedSource {
	return &FixedSource{Value: value}
}

// Next returns the fixed value.
func (s *FixedSource) Next() float64 {
	return s.Value
}

// SeededSource is a deterministic Source derived from a string seed by
// expanding it with a keyed BLAKE2b hash into a stream of 8-byte blocks, each
// read as a uniform [0,1) float via the standard 53-bit mantissa trick. Equal
// seeds always produce equal streams, which is what bit-identical replay
// requires.
type SeededSource struct {
	key     [32]byte
	counter uint64
	block   []byte
	offset  int
}

// NewSeededSource derives a deterministic stream from seed.
func NewSeededSource(seed string) *SeededSource {
	key := blake2b.Sum256([]byte(seed))
	return &SeededSource{key: key}
}

// Next returns the next draw in the deterministic stream.
func (s *SeededSource) Next() float64 {
	if s.offset == 0 || s.offset >= len(s.block) {
		s.block = s.nextBlock()
		s.offset = 0
	}
	v := binary.BigEndian.Uint64(s.block[s.offset : s.offset+8])
	s.offset += 8
	return uint64ToUnitFloat(v)
}

// nextBlock produces 64 bytes of keyed hash output for the current counter
// and advances the counter.
func (s *SeededSource) nextBlock() []byte {
	var ctr [8]byte
	binary.BigEndian.PutUint64(ctr[:], s.counter)
	s.counter++

	mac, err := blake2b.New512(s.key[:])
	if err != nil {
		// blake2b.New512 only fails for an oversized key, which never
		// happens here since key is exactly 32 bytes.
		panic(err)
	}
	mac.Write(ctr[:])
	return mac.Sum(nil)
}

func uint64ToUnitFloat(v uint64) float64 {
	// Keep the top 53 bits for a double's mantissa precision, matching the
	// conventional uint64->[0,1) conversion.
	return float64(v>>11) / (1 << 53)
}

// MathRandSource wraps math/rand/v2's ChaCha8 generator for live, non-replayed
// play where bit-for-bit reproducibility across processes is not required.
type MathRandSource struct {
	rng *rand.ChaCha8
}

// NewMathRandSource seeds a ChaCha8 generator from a 32-byte seed.
func NewMathRandSource(seed [32]byte) *MathRandSource {
	return &MathRandSource{rng: rand.NewChaCha8(seed)}
}

// NewEntropyMathRandSource seeds a ChaCha8 generator from process entropy.
func NewEntropyMathRandSource() *MathRandSource {
	var seed [32]byte
	// crypto/rand is avoided here deliberately: this source is for live,
	// non-replayed play only, so rand/v2's own top-level entropy is enough
	// to obtain a seed without adding an import solely for one-time setup.
	for i := range seed {
		seed[i] = byte(rand.Uint32())
	}
	return NewMathRandSource(seed)
}

// Next returns the next draw.
func (s *MathRandSource) Next() float64 {
	return s.rng.Float64()
}

// RecordingSource decorates a Source, appending every draw to an internal log
// so the turn resolver can populate History.Turns[i].RNG for later replay.
type RecordingSource struct {
	inner Source
	draws []float64
}

// NewRecordingSource wraps inner.
func NewRecordingSource(inner Source) *RecordingSource {
	return &RecordingSource{inner: inner}
}

// Next draws from the wrapped source and records the value.
func (s *RecordingSource) Next() float64 {
	v := s.inner.Next()
	s.draws = append(s.draws, v)
	return v
}

// Draws returns every value recorded since the last Reset.
func (s *RecordingSource) Draws() []float64 {
	return s.draws
}

// Reset clears the recorded draws, typically called at the start of a turn.
func (s *RecordingSource) Reset() {
	s.draws = s.draws[:0]
}

// ReplaySource replays a fixed, pre-recorded sequence of draws. Reading past
// the end of the sequence is a caller error surfaced by engine.ReplayBattle
// as HistoryRngUnderflow rather than panicking.
type ReplaySource struct {
	values []float64
	pos    int
}

// NewReplaySource returns a Source that replays values in order.
func NewReplaySource(values []float64) *ReplaySource {
	return &ReplaySource{values: values}
}

// Next returns the next recorded value; once none remain it returns 0.5 and
// Exhausted reports true.
func (s *ReplaySource) Next() float64 {
	if s.pos >= len(s.values) {
		s.pos++ // keep Exhausted() accurate even if Next is called again
		return 0.5
	}
	v := s.values[s.pos]
	s.pos++
	return v
}

// Exhausted reports whether the last Next() call had to fabricate a value
// because the recorded stream ran out.
func (s *ReplaySource) Exhausted() bool {
	return s.pos > len(s.values)
}
