package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Harshitk-cp/tombench/internal/domain"
	"github.com/Harshitk-cp/tombench/internal/render"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sallyAnnePairs() map[domain.QACategory][]domain.QAPair {
	return map[domain.QACategory][]domain.QAPair{
		domain.QAMemory:       {{Question: "Where was the marble at the beginning?", Answer: "basket"}},
		domain.QAReality:      {{Question: "Where is the marble now?", Answer: "box"}},
		domain.QATrueBelief1:  {{Question: "Where does Anne think the marble is?", Answer: "box"}},
		domain.QAFalseBelief1: {{Question: "Where does Sally think the marble is?", Answer: "basket"}},
		domain.QATrueBelief2:  {{Question: "Where does Anne think that Sally thinks the marble is?", Answer: "basket"}},
		domain.QAFalseBelief2: {{Question: "Where does Sally think that Anne thinks the marble is?", Answer: "basket"}},
	}
}

func TestQAService_Build(t *testing.T) {
	svc := NewQAService(nopLogger())
	st := sallyAnneStory(t)
	rng, _ := NewRand(1)

	q, err := svc.Build(rng, st)
	require.NoError(t, err)
	assert.Equal(t, st.ID, q.StoryID)
	assert.Equal(t, 1, q.InstanceIndex)
	assert.Equal(t, st.FullStory, q.FullStory)
	assert.Equal(t, 6, q.Count())
	if diff := cmp.Diff(sallyAnnePairs(), q.Pairs); diff != "" {
		t.Fatalf("pairs mismatch (-want +got):\n%s", diff)
	}
}

func TestQAService_Build_InvalidLog(t *testing.T) {
	st := sallyAnneStory(t)
	st.SimulationLog[1].Action.Target = "drawer"
	rng, _ := NewRand(1)
	_, err := NewQAService(nopLogger()).Build(rng, st)
	assert.Error(t, err)
}

func TestQAService_BuildAll(t *testing.T) {
	st := sallyAnneStory(t)
	rng, _ := NewRand(1)
	sets, counts, err := NewQAService(nopLogger()).BuildAll(context.Background(), rng, []domain.Story{*st, *st})
	require.NoError(t, err)
	assert.Len(t, sets, 2)
	for _, cat := range domain.AllQACategories() {
		assert.Equal(t, 2, counts[cat], cat)
	}
}

func TestQAService_BuildLegacy_MatchesStructured(t *testing.T) {
	st := sallyAnneStory(t)
	rng, _ := NewRand(1)

	sets, counts, err := NewQAService(nopLogger()).BuildLegacy(context.Background(), rng, []domain.LegacyStory{legacyOf(st)}, testRooms)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, 1, counts[domain.QAFalseBelief1])
	if diff := cmp.Diff(sallyAnnePairs(), sets[0].Pairs); diff != "" {
		t.Fatalf("pairs mismatch (-want +got):\n%s", diff)
	}
}

func TestQAService_BuildLegacy_OldExitWording(t *testing.T) {
	legacy := legacyOf(sallyAnneStory(t))
	legacy.SimulationLog[0].Event = "Sally exited kitchen and entered garden."
	rng, _ := NewRand(1)

	sets, _, err := NewQAService(nopLogger()).BuildLegacy(context.Background(), rng, []domain.LegacyStory{legacy}, testRooms)
	require.NoError(t, err)
	assert.Equal(t, "basket", sets[0].Pairs[domain.QAFalseBelief1][0].Answer)
}

func TestQAService_BuildLegacy_ExitIntoUnmentionedRoom(t *testing.T) {
	legacy := legacyOf(sallyAnneStory(t))
	legacy.SimulationLog[0].Event = "Sally exited the kitchen and entered the hallway."
	rng, _ := NewRand(1)

	_, _, err := NewQAService(nopLogger()).BuildLegacy(context.Background(), rng, []domain.LegacyStory{legacy}, testRooms)
	require.NoError(t, err)
}

func TestQAService_BuildLegacy_Malformed(t *testing.T) {
	legacy := legacyOf(sallyAnneStory(t))
	legacy.SimulationLog[1].Event = "Anne hid the marble."
	rng, _ := NewRand(1)

	_, _, err := NewQAService(nopLogger()).BuildLegacy(context.Background(), rng, []domain.LegacyStory{legacy}, testRooms)
	assert.True(t, errors.Is(err, render.ErrMalformedSentence), "got %v", err)
}
