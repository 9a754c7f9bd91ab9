package walk

import "fmt"

// MaxFingerprintWords is the most words FingerprintWords returns; every word
// starts with a different door.
const MaxFingerprintWords = DoorCount

// FingerprintWords returns count words that identify a room by the labels it
// shows along each of them. The first word is magic; the others are random
// words of the same length. First doors are pairwise distinct, so the words
// leave through different doors and no word is a suffix of another.
//
// Only WithSeed is consulted among opts.
//
// Steps:
//  1. Validate count and magic.
//  2. Shuffle the doors not taken by magic[0].
//  3. Draw each extra word as a fresh first door plus random doors.
//
// Errors: ErrBadOption (empty magic, count outside [1, MaxFingerprintWords]),
// ErrDoorOutOfRange (magic holds an invalid door).
func FingerprintWords(magic Plan, count int, opts ...GeneratorOption) ([]Plan, error) {
	o := DefaultGeneratorOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if len(magic) == 0 || count < 1 || count > MaxFingerprintWords {
		return nil, fmt.Errorf("walk: %d fingerprint words over a %d-door magic: %w",
			count, len(magic), ErrBadOption)
	}
	if err := magic.Validate(); err != nil {
		return nil, err
	}

	rng := NewRand(o.Seed)
	firsts := make([]Door, 0, DoorCount-1)
	for d := Door(0); d < DoorCount; d++ {
		if d != magic[0] {
			firsts = append(firsts, d)
		}
	}
	rng.Shuffle(len(firsts), func(i, j int) { firsts[i], firsts[j] = firsts[j], firsts[i] })

	out := make([]Plan, 0, count)
	out = append(out, magic.Clone())
	for i := 1; i < count; i++ {
		w := make(Plan, 0, len(magic))
		w = append(w, firsts[i-1])
		w = append(w, randomPlan(rng, len(magic)-1)...)
		out = append(out, w)
	}

	return out, nil
}
