package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibilityMapVisible(t *testing.T) {
	shown := uuid.New()
	hidden := uuid.New()
	unknown := uuid.New()
	vis := VisibilityMap{shown: true, hidden: false}

	assert.True(t, vis.Visible(shown))
	assert.False(t, vis.Visible(hidden))
	assert.True(t, vis.Visible(unknown), "absent project defaults to visible")

	var nilMap VisibilityMap
	assert.True(t, nilMap.Visible(unknown))
}

func TestFilterVisible(t *testing.T) {
	projectA := uuid.New()
	projectB := uuid.New()
	hiddenProject := uuid.New()
	vis := VisibilityMap{hiddenProject: false}

	global := Invoice{BaseModel: BaseModel{ID: uuid.New()}, Title: "global"}
	inA := Invoice{BaseModel: BaseModel{ID: uuid.New()}, Title: "in-a", ProjectID: &projectA}
	inB := Invoice{BaseModel: BaseModel{ID: uuid.New()}, Title: "in-b", ProjectID: &projectB}
	inHidden := Invoice{BaseModel: BaseModel{ID: uuid.New()}, Title: "in-hidden", ProjectID: &hiddenProject}
	docs := []Invoice{global, inA, inB, inHidden}

	titles := func(out []Invoice) []string {
		got := make([]string, len(out))
		for i, d := range out {
			got[i] = d.Title
		}
		return got
	}

	t.Run("all projects shows visible plus global", func(t *testing.T) {
		out := FilterVisible[Invoice](docs, nil, vis)
		assert.Equal(t, []string{"global", "in-a", "in-b"}, titles(out))
	})

	t.Run("specific project shows its documents plus global", func(t *testing.T) {
		out := FilterVisible[Invoice](docs, &projectA, vis)
		assert.Equal(t, []string{"global", "in-a"}, titles(out))
	})

	t.Run("projectless documents pass every selection", func(t *testing.T) {
		out := FilterVisible[Invoice](docs, &projectB, vis)
		assert.Contains(t, titles(out), "global")
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		out := FilterVisible[Invoice](nil, nil, vis)
		assert.Empty(t, out)
	})
}

func TestResolveDefaultProject(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mkProject := func(name string, age time.Duration) Project {
		return Project{
			BaseModel: BaseModel{ID: uuid.New(), CreatedAt: base.Add(-age)},
			Name:      name,
		}
	}

	oldest := mkProject("oldest", 72*time.Hour)
	middle := mkProject("middle", 48*time.Hour)
	newest := mkProject("newest", 24*time.Hour)
	projects := []Project{oldest, middle, newest}

	t.Run("configured visible default wins", func(t *testing.T) {
		settings := &PortalSettings{DefaultProjectID: &middle.ID}
		got := ResolveDefaultProject(projects, settings)
		require.NotNil(t, got)
		assert.Equal(t, "middle", got.Name)
	})

	t.Run("hidden configured default falls through to newest visible", func(t *testing.T) {
		settings := &PortalSettings{
			DefaultProjectID:  &middle.ID,
			ProjectVisibility: VisibilityMap{middle.ID: false},
		}
		got := ResolveDefaultProject(projects, settings)
		require.NotNil(t, got)
		assert.Equal(t, "newest", got.Name)
	})

	t.Run("no default picks newest visible", func(t *testing.T) {
		settings := &PortalSettings{ProjectVisibility: VisibilityMap{newest.ID: false}}
		got := ResolveDefaultProject(projects, settings)
		require.NotNil(t, got)
		assert.Equal(t, "middle", got.Name)
	})

	t.Run("all hidden falls back to newest overall", func(t *testing.T) {
		settings := &PortalSettings{ProjectVisibility: VisibilityMap{
			oldest.ID: false, middle.ID: false, newest.ID: false,
		}}
		got := ResolveDefaultProject(projects, settings)
		require.NotNil(t, got, "a fully hidden portal must still resolve a project")
		assert.Equal(t, "newest", got.Name)
	})

	t.Run("nil settings picks newest", func(t *testing.T) {
		got := ResolveDefaultProject(projects, nil)
		require.NotNil(t, got)
		assert.Equal(t, "newest", got.Name)
	})

	t.Run("no projects resolves to nil", func(t *testing.T) {
		assert.Nil(t, ResolveDefaultProject(nil, nil))
	})
}
