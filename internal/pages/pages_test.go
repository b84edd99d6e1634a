package pages

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/productspec/internal/domain"
)

func TestRouter_Resolve(t *testing.T) {
	r, err := NewRouter(DefaultRoutes(), NotFoundView)
	require.NoError(t, err)

	tests := []struct {
		path  string
		view  *View
		found bool
	}{
		{"/", HomeView, true},
		{"/specs", SpecManagementView, true},
		{"/product", ProductPageView, true},
		{"/specs/", NotFoundView, false},
		{"/PRODUCT", NotFoundView, false},
		{"/unknown", NotFoundView, false},
		{"", NotFoundView, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			v, ok := r.Resolve(tt.path)
			assert.Equal(t, tt.found, ok)
			assert.Same(t, tt.view, v)
		})
	}
}

func TestNewRouter_RejectsDuplicatePath(t *testing.T) {
	_, err := NewRouter([]Route{
		{Path: "/", View: HomeView},
		{Path: "/", View: ProductPageView},
	}, NotFoundView)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate route")
}

func TestNewRouter_RejectsInvalidEntries(t *testing.T) {
	_, err := NewRouter([]Route{{Path: "", View: HomeView}}, NotFoundView)
	assert.Error(t, err)

	_, err = NewRouter([]Route{{Path: "/x"}}, NotFoundView)
	assert.Error(t, err)

	_, err = NewRouter(DefaultRoutes(), nil)
	assert.Error(t, err)
}

func TestRouter_RoutesIsCopy(t *testing.T) {
	r, err := NewRouter(DefaultRoutes(), NotFoundView)
	require.NoError(t, err)

	routes := r.Routes()
	require.Len(t, routes, 3)
	routes[0].Path = "/changed"

	assert.Equal(t, "/", r.Routes()[0].Path)
}

func TestViews_Render(t *testing.T) {
	price := 2.5
	stock := 3
	snap := domain.Snapshot{
		Product: &domain.Product{Name: "Mug <XL>", Description: "Ceramic"},
		Specs: []domain.Spec{{Title: "Size", Options: []domain.SpecOption{
			{Name: "L", Price: &price, Stock: &stock, Image: "https://x/l.png"},
		}}},
		Variants: []domain.Variant{{ID: "size.l", Specs: map[string]string{"Size": "L"}, Price: 2.5, Stock: 3, Quantity: 1}},
	}

	var buf bytes.Buffer
	require.NoError(t, HomeView.Render(&buf, "/", snap))
	assert.Contains(t, buf.String(), "Mug &lt;XL&gt;")
	assert.Contains(t, buf.String(), "1 specs, 1 variants.")

	buf.Reset()
	require.NoError(t, SpecManagementView.Render(&buf, "/specs", snap))
	assert.Contains(t, buf.String(), "<h2>Size</h2>")
	assert.Contains(t, buf.String(), "(2.50)")
	assert.Contains(t, buf.String(), "stock 3")

	buf.Reset()
	require.NoError(t, ProductPageView.Render(&buf, "/product", snap))
	assert.Contains(t, buf.String(), `id="size.l"`)
	assert.Contains(t, buf.String(), "Size: L")

	buf.Reset()
	require.NoError(t, NotFoundView.Render(&buf, "/nope", domain.EmptySnapshot()))
	assert.Contains(t, buf.String(), "Nothing is mounted at /nope.")
}

func TestViews_RenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	snap := domain.EmptySnapshot()

	require.NoError(t, HomeView.Render(&buf, "/", snap))
	assert.Contains(t, buf.String(), "No product configured yet.")

	buf.Reset()
	require.NoError(t, SpecManagementView.Render(&buf, "/specs", snap))
	assert.Contains(t, buf.String(), "No specs defined.")

	buf.Reset()
	require.NoError(t, ProductPageView.Render(&buf, "/product", snap))
	assert.Contains(t, buf.String(), "No variants.")
}
