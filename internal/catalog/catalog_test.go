package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/httpclient"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/pkg/logging"
)

func TestIDUnmarshal(t *testing.T) {
	var c Category
	require.NoError(t, json.Unmarshal([]byte(`{"id": 12, "name": "A"}`), &c))
	assert.Equal(t, ID("12"), c.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"id": " abc ", "name": "B"}`), &c))
	assert.Equal(t, ID("abc"), c.ID)

	c = Category{}
	require.NoError(t, json.Unmarshal([]byte(`{"id": null, "name": "C"}`), &c))
	assert.Equal(t, ID(""), c.ID)

	assert.Error(t, json.Unmarshal([]byte(`{"id": true}`), &c))
}

func TestFind(t *testing.T) {
	leaf := &Category{ID: "3", Name: "Tiles"}
	root := &Category{ID: "1", Name: "Renovation", Children: []*Category{
		{ID: "2", Name: "Bathroom", Children: []*Category{leaf}},
	}}
	assert.Same(t, leaf, root.Find("3"))
	assert.Nil(t, root.Find("9"))
	assert.Same(t, leaf, FindIn([]*Category{{ID: "7"}, root}, "3"))
	assert.True(t, root.HasChildren())
	assert.False(t, leaf.HasChildren())
}

const seedYAML = `
- id: 1
  name: Renovation
  description: Full renovation
  children:
    - id: 2
      name: Bathroom
      modal_config:
        sub_services:
          - name: Tiles
- id: 5
  name: Design
  modal_config: '{"fields":[{"name":"sqm","label":"Square meters"}]}'
`

func TestDecodeSeedYAML(t *testing.T) {
	roots, err := DecodeSeed([]byte(seedYAML), ".yaml")
	require.NoError(t, err)
	require.Len(t, roots, 2)

	bathroom := roots[0].Find("2")
	require.NotNil(t, bathroom)
	assert.JSONEq(t, `{"sub_services":[{"name":"Tiles"}]}`, string(bathroom.ModalConfig))

	var blob string
	require.NoError(t, json.Unmarshal(roots[1].ModalConfig, &blob), "string configs stay string-encoded")
	assert.Contains(t, blob, "sqm")
}

func TestLoadFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":1,"name":"Renovation","children":[]}]`), 0o600))

	src, err := LoadFile(path)
	require.NoError(t, err)
	tree, err := src.Tree(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Renovation", tree.Name)

	_, err = src.Tree(context.Background(), "2")
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestMemorySourceReplace(t *testing.T) {
	src := NewMemorySource(nil)
	_, err := src.Tree(context.Background(), "1")
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	src.Replace([]*Category{{ID: "1", Name: "A"}})
	assert.Len(t, src.Roots(), 1)
	_, err = src.Tree(context.Background(), "1")
	assert.NoError(t, err)
}

func TestMemorySourceQuotesInvalidConfig(t *testing.T) {
	good := json.RawMessage(`{"form_title":"Visit"}`)
	root := &Category{ID: "1", Name: "Root", Children: []*Category{
		{ID: "2", Name: "Broken", ModalConfig: json.RawMessage(`{"form_title":`)},
		{ID: "3", Name: "Fine", ModalConfig: good},
	}}
	src := NewMemorySource([]*Category{root})

	tree, err := src.Tree(context.Background(), "1")
	require.NoError(t, err)
	_, err = json.Marshal(tree)
	require.NoError(t, err)

	var quoted string
	require.NoError(t, json.Unmarshal(tree.Find("2").ModalConfig, &quoted))
	assert.Equal(t, `{"form_title":`, quoted)
	assert.JSONEq(t, string(good), string(tree.Find("3").ModalConfig))

	src.Replace([]*Category{{ID: "9", Name: "Other", ModalConfig: json.RawMessage("not json")}})
	other, err := src.Tree(context.Background(), "9")
	require.NoError(t, err)
	assert.Equal(t, `"not json"`, string(other.ModalConfig))
}

func TestPostgresSourceTree(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	src := newPostgresSourceWithQuerier(mock)
	one := int64(1)
	two := int64(2)
	desc := "Full renovation"
	rows := pgxmock.NewRows([]string{"id", "parent_id", "name", "description", "modal_config"}).
		AddRow(int64(1), (*int64)(nil), "Renovation", &desc, []byte(nil)).
		AddRow(int64(2), &one, "Bathroom", (*string)(nil), []byte(`{"sub_services":[{"name":"Tiles"}]}`)).
		AddRow(int64(3), &one, "Kitchen", (*string)(nil), []byte(nil)).
		AddRow(int64(4), &two, "Shower", (*string)(nil), []byte(nil))
	mock.ExpectQuery("WITH RECURSIVE subtree").WithArgs(int64(1)).WillReturnRows(rows)

	tree, err := src.Tree(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Renovation", tree.Name)
	assert.Equal(t, "Full renovation", tree.Description)
	require.Len(t, tree.Children, 2)
	assert.Equal(t, "Bathroom", tree.Children[0].Name)
	assert.NotEmpty(t, tree.Children[0].ModalConfig)
	require.Len(t, tree.Children[0].Children, 1)
	assert.Equal(t, ID("4"), tree.Children[0].Children[0].ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSourceNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	src := newPostgresSourceWithQuerier(mock)

	_, err = src.Tree(context.Background(), "not-a-number")
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	mock.ExpectQuery("WITH RECURSIVE subtree").WithArgs(int64(9)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "parent_id", "name", "description", "modal_config"}))
	_, err = src.Tree(context.Background(), "9")
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	mock.ExpectQuery("WITH RECURSIVE subtree").WithArgs(int64(10)).WillReturnError(errors.New("boom"))
	_, err = src.Tree(context.Background(), "10")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCategoryNotFound)
}

func TestHTTPSourceTree(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/categories/public", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"name":"Renovation","children":[{"id":2,"name":"Bathroom","children":[]}]},{"id":2,"name":"Bathroom","children":[]}]`))
	}))
	defer srv.Close()

	src := NewHTTPSource(httpclient.New(httpclient.Options{BaseURL: srv.URL}), "")
	tree, err := src.Tree(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "Bathroom", tree.Name)

	_, err = src.Tree(context.Background(), "99")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestHTTPSourceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := NewHTTPSource(httpclient.New(httpclient.Options{BaseURL: srv.URL}), "/cats")
	_, err := src.Tree(context.Background(), "1")
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

type countingSource struct {
	calls int32
	tree  *Category
}

func (c *countingSource) Tree(ctx context.Context, id ID) (*Category, error) {
	atomic.AddInt32(&c.calls, 1)
	if c.tree == nil || c.tree.ID != id {
		return nil, ErrCategoryNotFound
	}
	return c.tree, nil
}

func TestCachedSource(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	inner := &countingSource{tree: &Category{ID: "1", Name: "Renovation", ModalConfig: json.RawMessage(`{"form_title":"Hi"}`)}}
	src := NewCachedSource(inner, client, time.Minute, logging.Default())
	ctx := context.Background()

	first, err := src.Tree(ctx, "1")
	require.NoError(t, err)
	second, err := src.Tree(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, first.Name, second.Name)
	assert.JSONEq(t, `{"form_title":"Hi"}`, string(second.ModalConfig))
	assert.Equal(t, int32(1), atomic.LoadInt32(&inner.calls))
	assert.True(t, mr.Exists("catalog:tree:1"))

	require.NoError(t, src.Invalidate(ctx, "1"))
	_, err = src.Tree(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&inner.calls))

	_, err = src.Tree(ctx, "2")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCachedSourceSurvivesRedisOutage(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	inner := &countingSource{tree: &Category{ID: "1", Name: "Renovation"}}
	src := NewCachedSource(inner, client, time.Minute, nil)
	tree, err := src.Tree(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Renovation", tree.Name)
}
