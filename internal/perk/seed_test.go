package perk

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeedSource(t *testing.T) {
	assert.Equal(t, FileSeed{Path: "data/perks.json"}, NewSeedSource("data/perks.json"))
	assert.Equal(t, FileSeed{Path: "/etc/perks.json"}, NewSeedSource("file:///etc/perks.json"))

	src, ok := NewSeedSource("https://example.com/perks.json").(*HTTPSeed)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/perks.json", src.URL)
	assert.NotNil(t, src.Client)
}

func TestFileSeed_DecodesNullableIDs(t *testing.T) {
	perks, err := FileSeed{Path: filepath.Join("testdata", "seed.json")}.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, perks, 5)

	assert.Equal(t, int64(1), perks[0].ID)
	assertPrice(t, "14.99", perks[0].StandalonePrice)
	assert.Zero(t, perks[1].ID, "null id")
	assert.Zero(t, perks[2].ID, "missing id")
	assertPrice(t, "7.25", perks[2].StandalonePrice)
	assert.Equal(t, int64(7), perks[3].ID)
}

func TestFileSeed_Missing(t *testing.T) {
	_, err := FileSeed{Path: filepath.Join(t.TempDir(), "nope.json")}.Fetch(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileSeed_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"id": 1}`), 0o600))

	_, err := FileSeed{Path: path}.Fetch(context.Background())
	assert.ErrorContains(t, err, "decode seed")
}

func TestHTTPSeed_Fetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/perks.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 3, "name": "Apple One", "standalonePrice": 19.95, "verizonPerkPrice": 10}]`))
	}))
	t.Cleanup(ts.Close)

	perks, err := NewSeedSource(ts.URL + "/perks.json").Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, perks, 1)
	assert.Equal(t, "Apple One", perks[0].Name)

	_, err = NewSeedSource(ts.URL + "/missing.json").Fetch(context.Background())
	assert.ErrorContains(t, err, "status=404")
}
