//go:build integration

package contents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workshop_backend/internals/databases/dbtest"
	"workshop_backend/internals/features/contents/model"
)

func TestSeedContentsFromJSON(t *testing.T) {
	pg := dbtest.NewPostgres(t)

	n, err := SeedContentsFromJSON(pg.DB, "data_contents.json")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	// second run leaves existing blocks alone
	n, err = SeedContentsFromJSON(pg.DB, "data_contents.json")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	var hero model.ContentModel
	require.NoError(t, pg.DB.Where("content_div_id = ?", "hero").First(&hero).Error)
	assert.Equal(t, "Art Therapy Workshop", hero.ContentTitle)
}

func TestSeedContentsFromJSON_MissingFile(t *testing.T) {
	pg := dbtest.NewPostgres(t)
	_, err := SeedContentsFromJSON(pg.DB, "nope.json")
	assert.Error(t, err)
}
