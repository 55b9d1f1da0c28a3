package manifest

import (
	"context"
	"embed"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	_ "github.com/viant/afs/embed"
	"github.com/viant/modtree/logger"
	"github.com/viant/modtree/service/meta"
	"github.com/viant/modtree/unit"
)

//go:embed testdata/*
var testFS embed.FS

func newTestService() *Service {
	return New(
		WithMetaService(meta.New(afs.New(), "embed:///testdata", &testFS)),
		WithLogger(logger.Nop()),
	)
}

func TestService_Load(t *testing.T) {
	t.Setenv("MODTREE_TEST_QUEUE", "orders")
	var testCases = []struct {
		description string
		URL         string
		expectName  string
		expectTree  []string
		expectErr   bool
	}{
		{description: "yaml", URL: "tree.yaml", expectName: "shop", expectTree: []string{"api", "db", "cache", "worker"}},
		{description: "json", URL: "failing.json", expectName: "broken", expectTree: []string{"ok", "bad"}},
		{description: "toml", URL: "tree.toml", expectName: "toml-tree", expectTree: []string{"store"}},
		{description: "leaf with children", URL: "invalid.yaml", expectErr: true},
		{description: "missing", URL: "missing.yaml", expectErr: true},
	}

	service := newTestService()
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			actual, err := service.Load(context.Background(), testCase.URL)
			if testCase.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expectName, actual.Name)
			var names []string
			var collect func(nodes []*Node)
			collect = func(nodes []*Node) {
				for _, node := range nodes {
					names = append(names, node.Name)
					collect(node.Children)
				}
			}
			collect(actual.Children)
			assert.Equal(t, testCase.expectTree, names)
		})
	}
}

func TestService_Build(t *testing.T) {
	t.Setenv("MODTREE_TEST_QUEUE", "orders")
	service := newTestService()
	manifest, err := service.Load(context.Background(), "tree.yaml")
	require.NoError(t, err)
	assert.Equal(t, "orders", manifest.Children[1].Params["queue"])

	parent := unit.NewComposite(manifest.Name, nil, unit.WithLogger(logger.Nop()))
	require.NoError(t, service.Build(parent, manifest.Children))

	api := parent.Use("api")
	require.NotNil(t, api)
	assert.True(t, api.IsContainer())
	assert.NotNil(t, api.Use("db"))
	assert.False(t, api.Use("db").IsContainer())
	assert.False(t, parent.Use("worker").IsContainer())

	require.NoError(t, parent.Init(context.Background()))
	parent.Kill(context.Background())
	assert.Empty(t, parent.Children())
}

func TestService_BuildFailingTree(t *testing.T) {
	service := newTestService()
	manifest, err := service.Load(context.Background(), "failing.json")
	require.NoError(t, err)

	parent := unit.NewComposite(manifest.Name, nil, unit.WithLogger(logger.Nop()))
	require.NoError(t, service.Build(parent, manifest.Children))
	err = parent.Init(context.Background())
	var loadErr *unit.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.ErrorContains(t, err, "db down")
}

func TestService_BuildUnknownHook(t *testing.T) {
	parent := unit.NewComposite("p", nil, unit.WithLogger(logger.Nop()))
	err := newTestService().Build(parent, []*Node{{Name: "x", Hook: "missing"}})
	assert.ErrorContains(t, err, "unknown hook")
	assert.Empty(t, parent.Children())
}

func TestManifest_Validate(t *testing.T) {
	var testCases = []struct {
		description string
		manifest    Manifest
		expectErr   bool
	}{
		{description: "valid", manifest: Manifest{Name: "m", Children: []*Node{{Name: "a", Kind: KindLeaf}, {Name: "b", Children: []*Node{{Name: "c"}}}}}},
		{description: "empty", manifest: Manifest{Name: "m"}, expectErr: true},
		{description: "nil node", manifest: Manifest{Name: "m", Children: []*Node{nil}}, expectErr: true},
		{description: "missing name", manifest: Manifest{Name: "m", Children: []*Node{{Kind: KindLeaf}}}, expectErr: true},
		{description: "bad kind", manifest: Manifest{Name: "m", Children: []*Node{{Name: "a", Kind: "service"}}}, expectErr: true},
		{description: "nested missing name", manifest: Manifest{Name: "m", Children: []*Node{{Name: "a", Children: []*Node{{}}}}}, expectErr: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			err := testCase.manifest.Validate()
			if testCase.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNode_IsComposite(t *testing.T) {
	assert.False(t, (&Node{Name: "a"}).IsComposite())
	assert.True(t, (&Node{Name: "a", Kind: KindComposite}).IsComposite())
	assert.True(t, (&Node{Name: "a", Children: []*Node{{Name: "b"}}}).IsComposite())
	assert.False(t, (&Node{Name: "a", Kind: KindLeaf}).IsComposite())
}
