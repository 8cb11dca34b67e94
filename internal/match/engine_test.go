package match

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talbenari/wordgarden/internal/audio"
)

func pairRound(t *testing.T) *Round {
	t.Helper()
	r, err := NewRound(Config{
		Game: "word-match",
		Entries: []Entry{
			{Key: "cat", Display: "cat", TargetLabel: "חתול"},
			{Key: "dog", Display: "dog", TargetLabel: "כלב"},
			{Key: "sun", Display: "sun", TargetLabel: "שמש"},
		},
		Topology:             TopologyPair,
		ToggleDeselect:       true,
		ClearSelectionOnMiss: true,
		CompleteFeedback:     "Congratulations! You matched all the words!",
	})
	require.NoError(t, err)
	return r
}

// itemByKey finds the (single-copy) item carrying a key.
func itemByKey(t *testing.T, r *Round, key string) Item {
	t.Helper()
	for _, it := range r.Items {
		if it.Key == key {
			return it
		}
	}
	t.Fatalf("no item with key %q", key)
	return Item{}
}

func targetByKey(t *testing.T, r *Round, key string) Target {
	t.Helper()
	for _, tg := range r.Targets {
		if tg.Key == key {
			return tg
		}
	}
	t.Fatalf("no target with key %q", key)
	return Target{}
}

func TestNewRoundEmptyEntries(t *testing.T) {
	t.Parallel()

	_, err := NewRound(Config{Topology: TopologyPair})
	require.ErrorIs(t, err, ErrNoEntries)
}

func TestNewRoundBadTopology(t *testing.T) {
	t.Parallel()

	entries := []Entry{{Key: "a", Display: "a", TargetLabel: "b"}}

	_, err := NewRound(Config{Entries: entries, Topology: Topology("grid")})
	require.ErrorIs(t, err, ErrBadTopology)

	// pair topology forbids shared targets and item copies
	_, err = NewRound(Config{Entries: entries, Topology: TopologyPair, TargetCapacity: 2})
	require.ErrorIs(t, err, ErrBadTopology)
	_, err = NewRound(Config{Entries: entries, Topology: TopologyPair, CopiesPerKey: 2})
	require.ErrorIs(t, err, ErrBadTopology)
}

func TestNewRoundShape(t *testing.T) {
	t.Parallel()

	r := pairRound(t)
	require.Len(t, r.Items, 3)
	require.Len(t, r.Targets, 3)
	require.Equal(t, -1, r.Selected)
	require.False(t, r.Complete())

	// targets stay in entry order regardless of the item shuffle
	require.Equal(t, "cat", r.Targets[0].Key)
	require.Equal(t, "dog", r.Targets[1].Key)
	require.Equal(t, "sun", r.Targets[2].Key)
}

func TestSelectSpeaksItem(t *testing.T) {
	t.Parallel()

	r := pairRound(t)
	cat := itemByKey(t, r, "cat")
	fx, err := r.Select(cat.ID)
	require.NoError(t, err)
	require.Equal(t, cat.ID, r.Selected)
	require.Len(t, fx, 1)
	require.Equal(t, audio.KindSpeak, fx[0].Kind)
	require.Equal(t, "cat", fx[0].Text)
	require.Zero(t, fx[0].DelayMs)
}

func TestSelectToggleDeselects(t *testing.T) {
	t.Parallel()

	r := pairRound(t)
	cat := itemByKey(t, r, "cat")
	_, err := r.Select(cat.ID)
	require.NoError(t, err)

	fx, err := r.Select(cat.ID)
	require.NoError(t, err)
	require.Empty(t, fx)
	require.Equal(t, -1, r.Selected)
}

func TestSelectUnknownItem(t *testing.T) {
	t.Parallel()

	r := pairRound(t)
	_, err := r.Select(99)
	require.ErrorIs(t, err, ErrUnknownItem)
}

func TestPlaceWithoutSelectionIsNoop(t *testing.T) {
	t.Parallel()

	r := pairRound(t)
	fx, err := r.Place(r.Targets[0].ID)
	require.NoError(t, err)
	require.Empty(t, fx)
	require.Zero(t, r.Score)
}

func TestPlaceMissClearsSelectionInPairRounds(t *testing.T) {
	t.Parallel()

	r := pairRound(t)
	cat := itemByKey(t, r, "cat")
	dogTarget := targetByKey(t, r, "dog")

	_, err := r.Select(cat.ID)
	require.NoError(t, err)
	fx, err := r.Place(dogTarget.ID)
	require.NoError(t, err)
	require.Len(t, fx, 1)
	require.Equal(t, "Incorrect answer", fx[0].Text)
	require.Equal(t, -1, r.Selected)
	require.Zero(t, r.Score)
	require.False(t, itemByKey(t, r, "cat").Matched)
}

func TestPlaceCorrectIsSilent(t *testing.T) {
	t.Parallel()

	r := pairRound(t)
	cat := itemByKey(t, r, "cat")
	catTarget := targetByKey(t, r, "cat")

	_, err := r.Select(cat.ID)
	require.NoError(t, err)
	fx, err := r.Place(catTarget.ID)
	require.NoError(t, err)
	require.Empty(t, fx)
	require.Equal(t, 10, r.Score)
	require.True(t, itemByKey(t, r, "cat").Matched)
	require.Equal(t, 1, targetByKey(t, r, "cat").Filled)
	require.Equal(t, -1, r.Selected)
}

func TestMatchedItemIgnoresSelect(t *testing.T) {
	t.Parallel()

	r := pairRound(t)
	cat := itemByKey(t, r, "cat")
	_, err := r.Select(cat.ID)
	require.NoError(t, err)
	_, err = r.Place(targetByKey(t, r, "cat").ID)
	require.NoError(t, err)

	fx, err := r.Select(cat.ID)
	require.NoError(t, err)
	require.Empty(t, fx)
	require.Equal(t, -1, r.Selected)
}

func TestCompleteAnnouncementIsDelayed(t *testing.T) {
	t.Parallel()

	r := pairRound(t)
	var fx []audio.Effect
	for _, key := range []string{"cat", "dog", "sun"} {
		item := itemByKey(t, r, key)
		_, err := r.Select(item.ID)
		require.NoError(t, err)
		fx, err = r.Place(targetByKey(t, r, key).ID)
		require.NoError(t, err)
	}
	require.True(t, r.Complete())
	require.Equal(t, 30, r.Score)
	require.Len(t, fx, 1)
	require.Equal(t, audio.KindSpeak, fx[0].Kind)
	require.Equal(t, "Congratulations! You matched all the words!", fx[0].Text)
	require.Equal(t, 500, fx[0].DelayMs)
}

func TestScoreNeverDecreases(t *testing.T) {
	t.Parallel()

	r := pairRound(t)
	last := 0
	keys := []string{"cat", "dog", "sun"}
	for i, key := range keys {
		// deliberately miss before every correct placement
		item := itemByKey(t, r, key)
		_, err := r.Select(item.ID)
		require.NoError(t, err)
		wrong := targetByKey(t, r, keys[(i+1)%len(keys)])
		if !itemByKey(t, r, wrong.Key).Matched {
			_, err = r.Place(wrong.ID)
			require.NoError(t, err)
			require.GreaterOrEqual(t, r.Score, last)
			_, err = r.Select(item.ID)
			require.NoError(t, err)
		}
		_, err = r.Place(targetByKey(t, r, key).ID)
		require.NoError(t, err)
		require.GreaterOrEqual(t, r.Score, last)
		last = r.Score
	}
}

func slotRound(t *testing.T) *Round {
	t.Helper()
	r, err := NewRound(Config{
		Game: "color-bottle",
		Entries: []Entry{
			{Key: "Red", Display: "Red", TargetLabel: "Red", TargetHint: "#f44336"},
			{Key: "Blue", Display: "Blue", TargetLabel: "Blue", TargetHint: "#2196f3"},
		},
		Topology:         TopologySlot,
		TargetCapacity:   2,
		CopiesPerKey:     2,
		FullFeedback:     "Bottle is full",
		CompleteFeedback: "Congratulations! You finished successfully! All bottles are empty!",
	})
	require.NoError(t, err)
	return r
}

// unmatchedByKey returns an unmatched item carrying the key.
func unmatchedByKey(t *testing.T, r *Round, key string) Item {
	t.Helper()
	for _, it := range r.Items {
		if it.Key == key && !it.Matched {
			return it
		}
	}
	t.Fatalf("no unmatched item with key %q", key)
	return Item{}
}

func TestSlotSelectionSurvivesMiss(t *testing.T) {
	t.Parallel()

	r := slotRound(t)
	red := unmatchedByKey(t, r, "Red")
	blueTarget := targetByKey(t, r, "Blue")

	_, err := r.Select(red.ID)
	require.NoError(t, err)
	fx, err := r.Place(blueTarget.ID)
	require.NoError(t, err)
	require.Len(t, fx, 1)
	require.Equal(t, "Incorrect answer", fx[0].Text)
	// selection is retained so the player can try another target
	require.Equal(t, red.ID, r.Selected)
}

func TestSlotReselectSwitchesItems(t *testing.T) {
	t.Parallel()

	r := slotRound(t)
	red := unmatchedByKey(t, r, "Red")
	blue := unmatchedByKey(t, r, "Blue")

	_, err := r.Select(red.ID)
	require.NoError(t, err)
	fx, err := r.Select(blue.ID)
	require.NoError(t, err)
	require.Equal(t, blue.ID, r.Selected)
	require.Len(t, fx, 1)
	require.Equal(t, "Blue", fx[0].Text)

	// no toggle in slot rounds: re-click keeps the selection
	_, err = r.Select(blue.ID)
	require.NoError(t, err)
	require.Equal(t, blue.ID, r.Selected)
}

func TestSlotCapacityFills(t *testing.T) {
	t.Parallel()

	r := slotRound(t)
	redTarget := targetByKey(t, r, "Red")

	for i := 0; i < 2; i++ {
		red := unmatchedByKey(t, r, "Red")
		_, err := r.Select(red.ID)
		require.NoError(t, err)
		fx, err := r.Place(redTarget.ID)
		require.NoError(t, err)
		require.Empty(t, fx)
	}
	require.Equal(t, 2, targetByKey(t, r, "Red").Filled)
	require.Equal(t, 20, r.Score)
}

func TestSlotFullTargetSpeaksAndClearsSelection(t *testing.T) {
	t.Parallel()

	r, err := NewRound(Config{
		Game: "color-bottle",
		Entries: []Entry{
			{Key: "Red", Display: "Red", TargetLabel: "Red"},
			{Key: "Blue", Display: "Blue", TargetLabel: "Blue"},
		},
		Topology:       TopologySlot,
		TargetCapacity: 1,
		CopiesPerKey:   2,
		FullFeedback:   "Bottle is full",
	})
	require.NoError(t, err)

	redTarget := targetByKey(t, r, "Red")
	red := unmatchedByKey(t, r, "Red")
	_, err = r.Select(red.ID)
	require.NoError(t, err)
	_, err = r.Place(redTarget.ID)
	require.NoError(t, err)

	// second copy finds the target already full
	red2 := unmatchedByKey(t, r, "Red")
	_, err = r.Select(red2.ID)
	require.NoError(t, err)
	fx, err := r.Place(redTarget.ID)
	require.NoError(t, err)
	require.Len(t, fx, 1)
	require.Equal(t, "Bottle is full", fx[0].Text)
	require.Equal(t, -1, r.Selected)
	require.False(t, unmatchedByKey(t, r, "Red").Matched)
}

func TestPlaceUnknownTarget(t *testing.T) {
	t.Parallel()

	r := pairRound(t)
	_, err := r.Place(42)
	require.ErrorIs(t, err, ErrUnknownTarget)
}
