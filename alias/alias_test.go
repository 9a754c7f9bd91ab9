package alias_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/aedificium/alias"
	"github.com/katalvlaran/aedificium/walk"
)

func mustTrace(t *testing.T, plan string, labels ...int) walk.Trace {
	t.Helper()
	tr, err := walk.TraceFromInts(walk.MustParsePlan(plan), labels)
	require.NoError(t, err)

	return tr
}

func planStrings(ps []walk.Plan) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}

	return out
}

// TestSubpatternsOrder verifies long-to-short, left-to-right enumeration.
func TestSubpatternsOrder(t *testing.T) {
	got := alias.Subpatterns(walk.MustParsePlan("012"))
	assert.Equal(t, []string{"012", "01", "12"}, planStrings(got))

	got = alias.Subpatterns(walk.MustParsePlan("0101"))
	assert.Equal(t, []string{"0101", "010", "101", "01", "10"}, planStrings(got))

	got = alias.Subpatterns(walk.MustParsePlan("012"), alias.WithMinPatternLen(3))
	assert.Equal(t, []string{"012"}, planStrings(got))

	got = alias.Subpatterns(walk.MustParsePlan("01"), alias.WithMinPatternLen(0))
	assert.Equal(t, []string{"01", "0", "1"}, planStrings(got))
}

// TestOccurrencesNonOverlapping verifies the scan resumes after each hit.
func TestOccurrencesNonOverlapping(t *testing.T) {
	p := walk.MustParsePlan("0000")
	assert.Equal(t, []int{0, 2}, alias.Occurrences(p, walk.MustParsePlan("00")))
	assert.Equal(t, []int{0}, alias.Occurrences(walk.MustParsePlan("000"), walk.MustParsePlan("00")))
	assert.Equal(t, []int{1, 4}, alias.Occurrences(walk.MustParsePlan("501201"), walk.MustParsePlan("01")))
	assert.Nil(t, alias.Occurrences(p, nil))
	assert.Nil(t, alias.Occurrences(p, walk.MustParsePlan("1")))
}

// TestDetectRepeatedSignature checks a repeated window is aliased to its first
// occurrence, with aligned pairs over Length+1 positions.
func TestDetectRepeatedSignature(t *testing.T) {
	tr := mustTrace(t, "01201", 0, 1, 2, 0, 1, 2)
	ms, err := alias.Detect(tr, walk.MustParsePlan("01"))
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, alias.Match{Start: 3, Prior: 0, Length: 2}, ms[0])
	assert.Equal(t, []alias.Pair{{A: 3, B: 0}, {A: 4, B: 1}, {A: 5, B: 2}}, ms[0].Pairs())
}

// TestDetectDifferentSignature checks differing label windows never alias.
func TestDetectDifferentSignature(t *testing.T) {
	tr := mustTrace(t, "01201", 0, 1, 2, 3, 1, 2)
	ms, err := alias.Detect(tr, walk.MustParsePlan("01"))
	require.NoError(t, err)
	assert.Empty(t, ms)
}

// TestDetectFirstOccurrenceWins checks every repeat points at the first window.
func TestDetectFirstOccurrenceWins(t *testing.T) {
	tr := mustTrace(t, "0505050", 1, 1, 1, 1, 1, 1, 1, 1)
	ms, err := alias.Detect(tr, walk.MustParsePlan("05"))
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, 0, ms[0].Prior)
	assert.Equal(t, 2, ms[0].Start)
	assert.Equal(t, 0, ms[1].Prior)
	assert.Equal(t, 4, ms[1].Start)
}

// TestDetectAll concatenates matches across sub-patterns.
func TestDetectAll(t *testing.T) {
	tr := mustTrace(t, "01201", 0, 1, 2, 0, 1, 2)
	ms, err := alias.DetectAll(tr, walk.MustParsePlan("012"))
	require.NoError(t, err)
	// "012" occurs once; "01" twice with equal windows; "12" once.
	require.Len(t, ms, 1)
	assert.Equal(t, 2, ms[0].Length)
}

// TestVerifyMismatch checks corrupted matches are rejected.
func TestVerifyMismatch(t *testing.T) {
	tr := mustTrace(t, "01201", 0, 1, 2, 3, 1, 2)
	err := alias.Verify(tr, alias.Match{Start: 3, Prior: 0, Length: 2})
	assert.ErrorIs(t, err, alias.ErrLabelMismatch)

	err = alias.Verify(tr, alias.Match{Start: 4, Prior: 0, Length: 2})
	assert.ErrorIs(t, err, alias.ErrOutOfRange)

	assert.NoError(t, alias.Verify(tr, alias.Match{Start: 4, Prior: 1, Length: 1}))
}

// TestFingerprints checks prints are keyed by prefix, complete only with
// every word, and linked by equal responses.
func TestFingerprints(t *testing.T) {
	words := []walk.Plan{walk.MustParsePlan("0"), walk.MustParsePlan("1")}
	traces := []walk.Trace{
		mustTrace(t, "0", 0, 1),
		mustTrace(t, "1", 0, 2),
		mustTrace(t, "20", 0, 0, 1),
		mustTrace(t, "21", 0, 0, 2),
		mustTrace(t, "30", 0, 3, 1),
	}

	prints, err := alias.Fingerprints(traces, words)
	require.NoError(t, err)
	require.Len(t, prints, 2, "prefix 3 misses word 1")
	assert.Equal(t, alias.Anchor{Trace: 0, Pos: 0}, prints[0].Anchor)
	assert.Empty(t, prints[0].Prefix)
	assert.Equal(t, alias.Anchor{Trace: 2, Pos: 1}, prints[1].Anchor)
	assert.Equal(t, "2", prints[1].Prefix.String())
	assert.Equal(t, prints[0].Key, prints[1].Key)

	assert.Equal(t, []alias.Link{{A: prints[0].Anchor, B: prints[1].Anchor}}, alias.Links(prints))
	assert.Empty(t, alias.Links(prints[:1]))
}

// TestFingerprintsContradiction checks a prefix answering two ways.
func TestFingerprintsContradiction(t *testing.T) {
	words := []walk.Plan{walk.MustParsePlan("0")}

	_, err := alias.Fingerprints([]walk.Trace{mustTrace(t, "0", 0, 1), mustTrace(t, "0", 0, 3)}, words)
	assert.ErrorIs(t, err, alias.ErrLabelMismatch)

	_, err = alias.Fingerprints([]walk.Trace{mustTrace(t, "10", 0, 0, 1), mustTrace(t, "10", 0, 2, 1)}, words)
	assert.ErrorIs(t, err, alias.ErrLabelMismatch)

	_, err = alias.Fingerprints([]walk.Trace{{Plan: walk.MustParsePlan("0"), Labels: []walk.Label{0}}}, words)
	assert.ErrorIs(t, err, walk.ErrLengthMismatch)
}
