package session

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/versecraft/engine/internal/storage"
	"github.com/versecraft/engine/pkg/player"
	"github.com/versecraft/engine/pkg/story"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	kv := storage.NewRedisKV("redis://"+mr.Addr(), logger)
	t.Cleanup(func() {
		_ = kv.Close()
	})

	return NewStore(kv, logger)
}

func samplePlayer() *player.State {
	p := player.NewState(story.ModuleConfig{
		Resource: story.ResourceConfig{Name: "HP", Min: 0, Max: 10},
	}, player.Progression{XP: 30, XPMax: 100, Level: 2})
	p.Resource.Cur = 6
	p.SetFlag("met_guard")
	p.AddItem(story.ItemSpec{ID: "rope", Name: "Rope", Category: story.CategoryItem, Qty: 2})
	p.AddItem(story.ItemSpec{ID: "dagger", Name: "Dagger", Category: story.CategoryWeapon})
	p.EquipItem(story.SlotWeapon, story.CategoryWeapon, "dagger")
	return p
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	st := &State{StoryID: "cave", SectionID: "S7", Player: samplePlayer()}
	require.NoError(t, store.Save(ctx, st, 1))

	loaded, err := store.Load(ctx, "cave", 1)
	require.NoError(t, err)

	assert.Equal(t, "cave", loaded.StoryID)
	assert.Equal(t, "S7", loaded.SectionID)
	assert.False(t, loaded.SavedAt.IsZero())

	// The player round-trips equivalently: resource, flags, inventory, equip.
	p := loaded.Player
	require.NotNil(t, p)
	assert.Equal(t, 6, p.Resource.Cur)
	assert.Equal(t, 10, p.Resource.Max)
	assert.True(t, p.HasFlag("met_guard"))
	assert.True(t, p.HasItem(story.CategoryItem, "rope"))
	assert.Equal(t, 2, p.Inventory[story.CategoryItem][0].Qty)
	assert.Equal(t, "Dagger", p.EquippedName(story.SlotWeapon))
	assert.False(t, p.HasItem(story.CategoryWeapon, "dagger"), "equip invariant survives the round trip")
	assert.Equal(t, 30, p.Progression.XP)
	assert.Equal(t, 2, p.Progression.Level)
}

func TestStore_LoadEmptySlot(t *testing.T) {
	store := setupTestStore(t)
	_, err := store.Load(context.Background(), "cave", 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_SlotValidation(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	st := &State{StoryID: "cave", SectionID: "start", Player: samplePlayer()}

	assert.Error(t, store.Save(ctx, st, 0))
	assert.Error(t, store.Save(ctx, st, MaxSlots+1))
	_, err := store.Load(ctx, "cave", 0)
	assert.Error(t, err)
}

func TestStore_SlotsAreIndependentPerStory(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	a := &State{StoryID: "story_a", SectionID: "a1", Player: samplePlayer()}
	b := &State{StoryID: "story_b", SectionID: "b1", Player: samplePlayer()}
	require.NoError(t, store.Save(ctx, a, 1))
	require.NoError(t, store.Save(ctx, b, 1))

	loadedA, err := store.Load(ctx, "story_a", 1)
	require.NoError(t, err)
	assert.Equal(t, "a1", loadedA.SectionID)

	loadedB, err := store.Load(ctx, "story_b", 1)
	require.NoError(t, err)
	assert.Equal(t, "b1", loadedB.SectionID)
}

func TestStore_LoadStrictMismatch(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	// Save story A at slot 1, then attempt a strict load while story B is
	// active: the store must refuse rather than silently switch stories.
	a := &State{StoryID: "story_a", SectionID: "a1", Player: samplePlayer()}
	require.NoError(t, store.Save(ctx, a, 1))

	_, err := store.LoadStrict(ctx, "story_b", "story_a", 1)
	require.Error(t, err)
	var mm *MismatchError
	require.ErrorAs(t, err, &mm)
	assert.Equal(t, "story_a", mm.SavedStoryID)
	assert.Equal(t, "story_b", mm.ActiveStoryID)

	// Same story passes.
	loaded, err := store.LoadStrict(ctx, "story_a", "story_a", 1)
	require.NoError(t, err)
	assert.Equal(t, "a1", loaded.SectionID)
}

func TestStore_LastPlayed(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	lp, err := store.LastPlayed(ctx)
	require.NoError(t, err)
	assert.Nil(t, lp, "no saves yet")

	require.NoError(t, store.Save(ctx, &State{StoryID: "cave", SectionID: "s1", Player: samplePlayer()}, 2))
	require.NoError(t, store.Save(ctx, &State{StoryID: "yarn", SectionID: "y1", Player: samplePlayer()}, 1))

	lp, err = store.LastPlayed(ctx)
	require.NoError(t, err)
	require.NotNil(t, lp)
	assert.Equal(t, "yarn", lp.StoryID)
	assert.Equal(t, 1, lp.Slot)
}

func TestStore_ProgressionGlobalTrack(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	// First-ever bootstrap.
	prog, err := store.LoadProgression(ctx)
	require.NoError(t, err)
	assert.Equal(t, player.NewProgression(), prog)

	// Saving a session persists its progression globally.
	p := samplePlayer()
	require.NoError(t, store.Save(ctx, &State{StoryID: "cave", SectionID: "s1", Player: p}, 1))

	prog, err = store.LoadProgression(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30, prog.XP)
	assert.Equal(t, 2, prog.Level)
}
