package conversation

import (
	"context"
	"errors"
	"testing"

	"proplens/app/service/knowledge"
	"proplens/app/service/taxonomy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	reply      string
	err        error
	calls      int
	lastPrompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	return f.reply, f.err
}

func newTestComposer(t *testing.T, gen *fakeGenerator) *composer {
	t.Helper()

	knowledgeSvc, err := knowledge.New(nil)
	require.NoError(t, err)

	return &composer{
		generator:    gen,
		knowledgeSvc: knowledgeSvc,
	}
}

func TestComposeUnroutableSkipsGeneration(t *testing.T) {
	gen := &fakeGenerator{}
	c := newTestComposer(t, gen)

	reply := c.compose(context.Background(), ReasoningContext{Message: ""}, Unroutable)

	assert.Contains(t, reply, "rephrase")
	assert.Zero(t, gen.calls)
}

func TestComposeNewImageExpectedSkipsGeneration(t *testing.T) {
	gen := &fakeGenerator{}
	c := newTestComposer(t, gen)

	reply := c.compose(context.Background(), ReasoningContext{Message: "look at the leak"}, NewImageExpected)

	assert.Contains(t, reply, "photo")
	assert.Zero(t, gen.calls)
}

func TestComposeHallucinationGuard(t *testing.T) {
	gen := &fakeGenerator{
		reply: "The water damage is serious, and there is probably mold behind the wall too.",
	}
	c := newTestComposer(t, gen)

	rctx := ReasoningContext{
		SessionID: "s1",
		Message:   "how bad is it?",
		Record:    recordWith(taxonomy.Water),
	}

	reply := c.compose(context.Background(), rctx, AnalysisFollowup)

	assert.Contains(t, reply, "speculative")
	assert.Contains(t, reply, "mold")
}

func TestComposeLeavesGroundedReplyAlone(t *testing.T) {
	gen := &fakeGenerator{
		reply: "The water damage should be dried out within two weeks.",
	}
	c := newTestComposer(t, gen)

	rctx := ReasoningContext{
		SessionID: "s1",
		Message:   "how long will it take?",
		Record:    recordWith(taxonomy.Water),
	}

	reply := c.compose(context.Background(), rctx, CostTimelineQuery)

	assert.Equal(t, gen.reply, reply)
}

func TestComposeNoRecordSkipsReconciliation(t *testing.T) {
	gen := &fakeGenerator{
		reply: "Mold in rentals is usually the landlord's responsibility.",
	}
	c := newTestComposer(t, gen)

	reply := c.compose(context.Background(), ReasoningContext{Message: "who pays for mold?"}, GeneralPropertyQuestion)

	assert.Equal(t, gen.reply, reply)
}

func TestComposeFallbackOnGenerationFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("timeout")}
	c := newTestComposer(t, gen)

	rctx := ReasoningContext{
		SessionID: "s1",
		Message:   "how much will this cost?",
		Record:    recordWith(taxonomy.Water, taxonomy.Mold),
	}

	reply := c.compose(context.Background(), rctx, CostTimelineQuery)

	// Known issues and severities, but no figures.
	assert.Contains(t, reply, "water damage")
	assert.Contains(t, reply, "mold")
	assert.Contains(t, reply, "severity")
	assert.NotContains(t, reply, "$")
	assert.Contains(t, reply, "can't give you reliable cost or timeline figures")
}

func TestComposeFallbackWithoutRecordUsesFAQ(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("boom")}
	c := newTestComposer(t, gen)

	reply := c.compose(context.Background(), ReasoningContext{
		Message: "my landlord is not returning my security deposit",
	}, GeneralPropertyQuestion)

	assert.Contains(t, reply, "deposit")
	assert.Contains(t, reply, "small claims")
}

func TestPromptMarksMissingLocation(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	c := newTestComposer(t, gen)

	c.compose(context.Background(), ReasoningContext{
		Message: "how much does repainting cost?",
		Record:  recordWith(taxonomy.Cosmetic),
	}, CostTimelineQuery)

	assert.Contains(t, gen.lastPrompt, "Location context: unknown")
}

func TestPromptAttachesLocationVerbatim(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	c := newTestComposer(t, gen)

	c.compose(context.Background(), ReasoningContext{
		Message:  "how much does repainting cost?",
		Location: "Portland, OR",
		Record:   recordWith(taxonomy.Cosmetic),
	}, CostTimelineQuery)

	assert.Contains(t, gen.lastPrompt, "Location context: Portland, OR")
}

func TestPromptCarriesIssuesAndFacts(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	c := newTestComposer(t, gen)

	c.compose(context.Background(), ReasoningContext{
		Message: "what are the repair steps for the water damage?",
		Record:  recordWith(taxonomy.Water),
	}, AnalysisFollowup)

	assert.Contains(t, gen.lastPrompt, "water damage (confidence 0.90, severity high)")
	assert.Contains(t, gen.lastPrompt, "Emergency water extraction")
	assert.Contains(t, gen.lastPrompt, "specifically about the water damage issue")
}

func TestPromptNarrowsFollowupFactsToSubTopic(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	c := newTestComposer(t, gen)

	c.compose(context.Background(), ReasoningContext{
		Message: "who should I call about the water damage?",
		Record:  recordWith(taxonomy.Water),
	}, AnalysisFollowup)

	// A "who do I call" question carries only the professionals slice of the
	// sheet, not repair steps or cost figures.
	assert.Contains(t, gen.lastPrompt, "Water Damage Restoration Specialist")
	assert.NotContains(t, gen.lastPrompt, "Emergency water extraction")
	assert.NotContains(t, gen.lastPrompt, "$2,000")
}

func TestPromptFollowupPreventionSubTopic(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	c := newTestComposer(t, gen)

	c.compose(context.Background(), ReasoningContext{
		Message: "how can I avoid water damage happening again?",
		Record:  recordWith(taxonomy.Water),
	}, AnalysisFollowup)

	assert.Contains(t, gen.lastPrompt, "Install water detection systems")
	assert.NotContains(t, gen.lastPrompt, "Emergency water extraction")
}

func TestComposeFallbackOnFollowupSurfacesRepairSteps(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("timeout")}
	c := newTestComposer(t, gen)

	rctx := ReasoningContext{
		SessionID: "s1",
		Message:   "how do I fix the water damage?",
		Record:    recordWith(taxonomy.Water),
	}

	reply := c.compose(context.Background(), rctx, AnalysisFollowup)

	assert.Contains(t, reply, "Typical repair steps for water damage")
	assert.Contains(t, reply, "Emergency water extraction")
}

func TestComposeFallbackOnFollowupAboutProfessionals(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("timeout")}
	c := newTestComposer(t, gen)

	rctx := ReasoningContext{
		SessionID: "s1",
		Message:   "who should I hire for the mold?",
		Record:    recordWith(taxonomy.Mold),
	}

	reply := c.compose(context.Background(), rctx, AnalysisFollowup)

	assert.Contains(t, reply, "Mold Remediation Specialist")
}

func TestPromptMarksAbsentAnalysis(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	c := newTestComposer(t, gen)

	c.compose(context.Background(), ReasoningContext{
		Message: "what documents should I check before signing?",
	}, GeneralPropertyQuestion)

	assert.Contains(t, gen.lastPrompt, "No analysis available")
}
