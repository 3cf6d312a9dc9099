package dataprocessing

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, content string) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "staffing.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return NewStore(path, testLoader(t), nil), path
}

const storeCSV = `D.O.A,Patient_Count,Estimated_Nurse_Count,Patients_Per_Nurse,Occupancy_Rate
01/01/2024,50,10,5.0,80
05/01/2024,40,20,2.0,60
`

func TestStoreCachesDataset(t *testing.T) {
	store, _ := testStore(t, storeCSV)
	ctx := context.Background()

	first, err := store.Dataset(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := store.Dataset(ctx)
	require.NoError(t, err)

	// Same backing array: the cached dataset is shared, not re-parsed.
	assert.Equal(t, &first[0], &second[0])
}

func TestStoreReloadsWhenFileChanges(t *testing.T) {
	store, path := testStore(t, storeCSV)
	ctx := context.Background()

	first, err := store.Dataset(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)

	updated := storeCSV + "09/01/2024,45,11,4.1,75\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0644))
	// Ensure the mtime moves even on coarse-grained filesystems.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	second, err := store.Dataset(ctx)
	require.NoError(t, err)
	assert.Len(t, second, 3)
}

func TestStoreReloadForcesRefresh(t *testing.T) {
	store, path := testStore(t, storeCSV)
	ctx := context.Background()

	_, err := store.Dataset(ctx)
	require.NoError(t, err)

	updated := storeCSV + "09/01/2024,45,11,4.1,75\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0644))

	ds, err := store.Reload(ctx)
	require.NoError(t, err)
	assert.Len(t, ds, 3)
}

func TestStoreMissingSource(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.csv"), testLoader(t), nil)

	_, err := store.Dataset(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataSourceMissing)
}

func TestStoreBounds(t *testing.T) {
	store, _ := testStore(t, storeCSV)

	bounds, err := store.Bounds(context.Background())
	require.NoError(t, err)
	assert.True(t, bounds.Min.Equal(day(2024, 1, 1)))
	assert.True(t, bounds.Max.Equal(day(2024, 1, 5)))
}

func TestStoreBoundsEmptyDataset(t *testing.T) {
	store, _ := testStore(t, "D.O.A,Patient_Count,Estimated_Nurse_Count,Patients_Per_Nurse,Occupancy_Rate\n")

	_, err := store.Bounds(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataSourceMissing)
}
