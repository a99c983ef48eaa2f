package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		raw  string
		want Label
	}{
		{"water damage", Water},
		{"Water Stain", Water},
		{"visible leak near sink", Water},
		{"mold growth", Mold},
		{"mildew", Mold},
		{"structural cracks", Structural},
		{"foundation issues", Structural},
		{"exposed wires", Electrical},
		{"pipe leaks", Plumbing},
		{"paint peeling", Cosmetic},
		{"window issues", Cosmetic},
		{"haunted attic", Other},
		{"", Other},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonicalize(tt.raw))
		})
	}
}

func TestCanonicalizeOverlappingPhrasesIsStable(t *testing.T) {
	// "pipe leaks" matches both "pipe" and "leak"; the leftmost phrase must
	// win on every call, not whichever the map happens to yield first.
	for i := 0; i < 500; i++ {
		assert.Equal(t, Plumbing, Canonicalize("pipe leaks"))
		assert.Equal(t, Water, Canonicalize("leaking pipe"))
	}
}

func TestCanonicalizeAcceptsCanonicalNames(t *testing.T) {
	for _, label := range All() {
		assert.Equal(t, label, Canonicalize(string(label)))
	}
}

func TestLabelsInText(t *testing.T) {
	labels := LabelsInText("is the mold related to the water damage or the cracks?")

	assert.Equal(t, []Label{Structural, Water, Mold}, labels)
}

func TestLabelsInTextEmpty(t *testing.T) {
	assert.Empty(t, LabelsInText("what documents should I check before signing?"))
}

func TestPriorityOrder(t *testing.T) {
	all := All()
	for i := 1; i < len(all); i++ {
		assert.Less(t, Priority(all[i-1]), Priority(all[i]))
	}
	assert.Greater(t, Priority(Other), Priority(Cosmetic))
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "water damage", Display(Water))
	assert.Equal(t, "structural damage", Display(Structural))
}
