package service

import (
	"context"
	"fmt"
	"testing"

	"robohub/hub-api/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.Model{}, model.Stats{}))

	return db
}

func seed(t *testing.T, db *gorm.DB, models ...model.Model) {
	t.Helper()
	for i := range models {
		require.NoError(t, db.Create(&models[i]).Error)
	}
}

func names(items []model.Model) []string {
	out := make([]string, 0, len(items))
	for _, m := range items {
		out = append(out, m.Name)
	}
	return out
}

func TestCatalogTagFilterNeedsEveryTag(t *testing.T) {
	db := testDB(t)
	seed(t, db,
		model.Model{Name: "a/walker", IsPublic: true, Tags: model.StringSlice{"Walking", "Balance"}, FolderPath: "a/walker-1"},
		model.Model{Name: "a/runner", IsPublic: true, Tags: model.StringSlice{"Running"}, FolderPath: "a/runner-1"},
		model.Model{Name: "b/strider", IsPublic: true, Tags: model.StringSlice{"Walking", "Balance", "Running"}, FolderPath: "b/strider-1"},
		model.Model{Name: "b/lurker", IsPublic: true, Tags: model.StringSlice{"Walking"}, FolderPath: "b/lurker-1"},
	)

	c := NewCatalog(db)

	res, err := c.List(context.Background(), CatalogQuery{Tasks: []string{"Walking", "Balance"}})
	require.NoError(t, err)

	assert.EqualValues(t, 2, res.Total)
	assert.ElementsMatch(t, []string{"a/walker", "b/strider"}, names(res.Items))
}

func TestCatalogTagFilterMatchesWholeTag(t *testing.T) {
	db := testDB(t)
	seed(t, db,
		model.Model{Name: "a/walker", IsPublic: true, Tags: model.StringSlice{"Walking"}, FolderPath: "a/walker-1"},
		model.Model{Name: "a/jumper", IsPublic: true, Tags: model.StringSlice{"Jump Walking Drills"}, FolderPath: "a/jumper-1"},
	)

	res, err := NewCatalog(db).List(context.Background(), CatalogQuery{Tasks: []string{"Walking"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"a/walker"}, names(res.Items))
}

func TestCatalogLicenseFilterIsAnyOf(t *testing.T) {
	db := testDB(t)
	seed(t, db,
		model.Model{Name: "a/m1", IsPublic: true, License: "MIT", FolderPath: "a/m1-1"},
		model.Model{Name: "a/m2", IsPublic: true, License: "BSD", FolderPath: "a/m2-1"},
		model.Model{Name: "a/m3", IsPublic: true, License: "GPL", FolderPath: "a/m3-1"},
	)

	res, err := NewCatalog(db).List(context.Background(), CatalogQuery{Licenses: []string{"MIT", "BSD"}})
	require.NoError(t, err)

	assert.EqualValues(t, 2, res.Total)
	assert.ElementsMatch(t, []string{"a/m1", "a/m2"}, names(res.Items))
}

func TestCatalogHidesPrivateModels(t *testing.T) {
	db := testDB(t)
	seed(t, db,
		model.Model{Name: "a/open", IsPublic: true, FolderPath: "a/open-1"},
		model.Model{Name: "a/secret", IsPublic: false, FolderPath: "a/secret-1"},
	)

	res, err := NewCatalog(db).List(context.Background(), CatalogQuery{})
	require.NoError(t, err)

	assert.Equal(t, []string{"a/open"}, names(res.Items))
}

func TestCatalogPagination(t *testing.T) {
	db := testDB(t)
	for i := 0; i < 25; i++ {
		seed(t, db, model.Model{
			Name:       fmt.Sprintf("a/model-%02d", i),
			IsPublic:   true,
			FolderPath: fmt.Sprintf("a/model-%02d-1", i),
			Downloads:  int64(i),
		})
	}

	c := NewCatalog(db)
	ctx := context.Background()

	res, err := c.List(ctx, CatalogQuery{Page: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 25, res.Total)
	assert.Equal(t, 3, res.TotalPages)
	assert.Len(t, res.Items, 10)

	res, err = c.List(ctx, CatalogQuery{Page: 3})
	require.NoError(t, err)
	assert.Len(t, res.Items, 5)

	// One past the end is empty, not an error
	res, err = c.List(ctx, CatalogQuery{Page: 4})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.EqualValues(t, 25, res.Total)
}

func TestCatalogSortKeys(t *testing.T) {
	db := testDB(t)
	seed(t, db,
		model.Model{Name: "a/old-popular", IsPublic: true, Downloads: 300, CreatedAt: 100, FolderPath: "p1"},
		model.Model{Name: "b/new-quiet", IsPublic: true, Downloads: 5, CreatedAt: 300, FolderPath: "p2"},
		model.Model{Name: "c/middle", IsPublic: true, Downloads: 40, CreatedAt: 200, FolderPath: "p3"},
	)

	c := NewCatalog(db)
	ctx := context.Background()

	byDownloads, err := c.List(ctx, CatalogQuery{Sort: SortMostDownloaded})
	require.NoError(t, err)
	assert.Equal(t, []string{"a/old-popular", "c/middle", "b/new-quiet"}, names(byDownloads.Items))

	// Trending is an alias, the ordering must be identical
	trending, err := c.List(ctx, CatalogQuery{Sort: SortTrending})
	require.NoError(t, err)
	assert.Equal(t, names(byDownloads.Items), names(trending.Items))

	recent, err := c.List(ctx, CatalogQuery{Sort: SortRecent})
	require.NoError(t, err)
	assert.Equal(t, []string{"b/new-quiet", "c/middle", "a/old-popular"}, names(recent.Items))

	alpha, err := c.List(ctx, CatalogQuery{Sort: SortAlphabetical})
	require.NoError(t, err)
	assert.Equal(t, []string{"a/old-popular", "b/new-quiet", "c/middle"}, names(alpha.Items))
}

func TestCatalogSearchNarrowsPageButNotTotals(t *testing.T) {
	db := testDB(t)
	seed(t, db,
		model.Model{Name: "a/walk-policy", Description: "Gait controller", IsPublic: true, FolderPath: "p1"},
		model.Model{Name: "a/grasp-net", Description: "Walking is mentioned here", IsPublic: true, FolderPath: "p2"},
		model.Model{Name: "a/vision", Description: "Depth estimation", IsPublic: true, FolderPath: "p3"},
	)

	res, err := NewCatalog(db).List(context.Background(), CatalogQuery{Search: "WALK"})
	require.NoError(t, err)

	// Totals still count every record behind the backend filter, only
	// the visible page shrinks
	assert.EqualValues(t, 3, res.Total)
	assert.Equal(t, 1, res.TotalPages)
	assert.ElementsMatch(t, []string{"a/walk-policy", "a/grasp-net"}, names(res.Items))
}

func TestCatalogQueryMutatorsResetPage(t *testing.T) {
	q := CatalogQuery{Page: 7}

	q.ToggleTask("Walking")
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, []string{"Walking"}, q.Tasks)

	q.Page = 7
	q.ToggleTask("Walking")
	assert.Equal(t, 1, q.Page)
	assert.Empty(t, q.Tasks)

	q.Page = 7
	q.ToggleLicense("MIT")
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, []string{"MIT"}, q.Licenses)

	q.Page = 7
	q.SetSearch("walk")
	assert.Equal(t, 1, q.Page)

	q.Page = 7
	q.SetSort(SortRecent)
	assert.Equal(t, 1, q.Page)
}
