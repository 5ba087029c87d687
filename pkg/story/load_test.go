package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalStory = `{
	"id": "tutorial",
	"startSectionId": "start",
	"module": {
		"primaryResource": {"name": "HP", "min": 0, "max": 10, "failureSectionId": "DEATH"}
	},
	"sections": {
		"start": {
			"text": ["You wake up."],
			"choices": [
				{"label": "Go north", "destination": "north"}
			]
		},
		"north": {"text": ["A wall."], "choices": []}
	}
}`

func TestLoad_MapSections(t *testing.T) {
	st, err := Load([]byte(minimalStory))
	require.NoError(t, err)

	assert.Equal(t, "tutorial", st.ID)
	assert.Equal(t, "start", st.StartSectionID)
	assert.Len(t, st.Sections, 2)
	assert.Empty(t, st.Diagnostics)

	sec, ok := st.GetSection("start")
	require.True(t, ok)
	assert.Equal(t, "start", sec.ID)
	assert.Equal(t, []string{"You wake up."}, sec.Text)
	require.Len(t, sec.Choices, 1)
	assert.Equal(t, "north", sec.Choices[0].Destination)

	north, ok := st.GetSection("north")
	require.True(t, ok)
	assert.True(t, north.IsTerminal())
}

func TestLoad_ListSectionsAndLegacyKeys(t *testing.T) {
	raw := `{
		"id": "legacy",
		"startSectionId": "s1",
		"sections": [
			{"id": "s1", "text": "Single line.", "choices": [
				{"text": "Onward", "to": "s2"},
				{"label": "Jump", "goto": "s2"},
				{"label": "Step", "next": "s2"}
			]},
			{"id": "s2", "text": ["Done."]}
		]
	}`
	st, err := Load([]byte(raw))
	require.NoError(t, err)

	sec, ok := st.GetSection("s1")
	require.True(t, ok)
	assert.Equal(t, []string{"Single line."}, sec.Text)
	require.Len(t, sec.Choices, 3)
	for _, c := range sec.Choices {
		assert.Equal(t, "s2", c.Destination)
	}
	assert.Equal(t, "Onward", sec.Choices[0].Label)
}

func TestLoad_SingleEffectObject(t *testing.T) {
	raw := `{
		"id": "fx",
		"sections": {
			"start": {"text": ["Hi"], "choices": [
				{"label": "Drink", "destination": "start",
				 "effects": {"resourceDelta": 3, "setFlag": "drank"}}
			]}
		}
	}`
	st, err := Load([]byte(raw))
	require.NoError(t, err)

	sec, _ := st.GetSection("start")
	require.Len(t, sec.Choices[0].Effects, 1)
	assert.Equal(t, 3, sec.Choices[0].Effects[0].ResourceDelta)
	assert.Equal(t, "drank", sec.Choices[0].Effects[0].SetFlag)
}

func TestLoad_ModuleDefaults(t *testing.T) {
	raw := `{"id": "bare", "sections": {"start": {"text": ["x"]}}}`
	st, err := Load([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, DefaultResourceName, st.Module.Resource.Name)
	assert.Equal(t, DefaultResourceMin, st.Module.Resource.Min)
	assert.Equal(t, DefaultResourceMax, st.Module.Resource.Max)
	assert.Equal(t, DefaultFailureSectionID, st.Module.Resource.FailureSectionID)
}

func TestLoad_InvalidBoundsDegradeWithDiagnostic(t *testing.T) {
	raw := `{
		"id": "broken",
		"module": {"primaryResource": {"name": "Sanity", "min": 10, "max": 5, "failureSectionId": "MAD"}},
		"sections": {"start": {"text": ["x"]}}
	}`
	st, err := Load([]byte(raw))
	require.NoError(t, err, "invalid module config must not abort the load")

	assert.NotEmpty(t, st.Diagnostics)
	assert.Equal(t, DefaultResourceMin, st.Module.Resource.Min)
	assert.Equal(t, DefaultResourceMax, st.Module.Resource.Max)
	// The failure section id survives; only the bounds were broken.
	assert.Equal(t, "MAD", st.Module.Resource.FailureSectionID)
}

func TestLoad_LoadoutValidation(t *testing.T) {
	raw := `{
		"id": "kit",
		"module": {
			"primaryResource": {"min": 0, "max": 10},
			"loadout": {
				"weapon": {"id": "rusty_dagger", "name": "Rusty Dagger", "category": "weapon"},
				"armor": {"id": "jerkin", "category": "banana"},
				"special": {"category": "special"}
			}
		},
		"sections": {"start": {"text": ["x"]}}
	}`
	st, err := Load([]byte(raw))
	require.NoError(t, err)

	require.NotNil(t, st.Module.Loadout)
	assert.Equal(t, "rusty_dagger", st.Module.Loadout.Weapon.ID)
	// Invalid category falls back to the slot's category.
	assert.Equal(t, CategoryArmor, st.Module.Loadout.Armor.Category)
	// Missing id drops the entry.
	assert.Nil(t, st.Module.Loadout.Special)
	assert.NotEmpty(t, st.Diagnostics)
}

func TestLoad_MissingStartFallsBack(t *testing.T) {
	raw := `{"id": "s", "startSectionId": "nope", "sections": [{"id": "only", "text": ["x"]}]}`
	st, err := Load([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "only", st.StartSectionID)
	assert.NotEmpty(t, st.Diagnostics)
}

func TestLoad_Fatal(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", "{nope"},
		{"no sections", `{"id": "x"}`},
		{"empty sections", `{"id": "x", "sections": []}`},
		{"sections wrong type", `{"id": "x", "sections": 42}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load([]byte(tc.raw))
			require.Error(t, err)
			var se *SchemaError
			assert.ErrorAs(t, err, &se)
		})
	}
}

func TestLoadYAML(t *testing.T) {
	raw := `
id: yarn
startSectionId: start
module:
  primaryResource:
    name: HP
    min: 0
    max: 12
sections:
  start:
    text:
      - A fork in the road.
    choices:
      - label: Left
        to: left
  left:
    text: [Dead end.]
`
	st, err := LoadYAML([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "yarn", st.ID)
	assert.Equal(t, 12, st.Module.Resource.Max)
	sec, ok := st.GetSection("start")
	require.True(t, ok)
	assert.Equal(t, "left", sec.Choices[0].Destination)
}

func TestParseManifest(t *testing.T) {
	raw := `{
		"defaultStoryId": "b",
		"stories": [
			{"id": "a", "title": "Alpha", "file": "a.json"},
			{"id": "b", "title": "Beta", "file": "b.yaml", "estimate": "20 min"}
		]
	}`
	m, err := ParseManifest([]byte(raw))
	require.NoError(t, err)

	info, ok := m.Find("a")
	require.True(t, ok)
	assert.Equal(t, "Alpha", info.Title)

	def, ok := m.Default()
	require.True(t, ok)
	assert.Equal(t, "b", def.ID)

	m.DefaultStoryID = "missing"
	def, ok = m.Default()
	require.True(t, ok)
	assert.Equal(t, "a", def.ID, "unresolvable default falls back to first entry")
}
