package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want Location
	}{
		{path: "/", want: Location{Page: PageHome}},
		{path: "", want: Location{Page: PageHome}},
		{path: "/login", want: Location{Page: PageLogin}},
		{path: "/login/", want: Location{Page: PageLogin}},
		{path: "/signup", want: Location{Page: PageSignup}},
		{path: "/admin?tab=orders", want: Location{Page: PageAdmin}},
		{path: "/product/42", want: Location{Page: PageProduct, ProductID: 42}},
		{path: "/product/42/", want: Location{Page: PageProduct, ProductID: 42}},
		{path: "/product/abc", want: Location{Page: PageHome}},
		{path: "/product/0", want: Location{Page: PageHome}},
		{path: "/product/1/reviews", want: Location{Page: PageHome}},
		{path: "/product", want: Location{Page: PageHome}},
		{path: "/cart", want: Location{Page: PageHome}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Parse(tt.path))
		})
	}
}

func TestPathRoundTrip(t *testing.T) {
	t.Parallel()

	for _, loc := range []Location{
		{Page: PageHome},
		{Page: PageLogin},
		{Page: PageSignup},
		{Page: PageAdmin},
		{Page: PageProduct, ProductID: 9},
	} {
		assert.Equal(t, loc, Parse(loc.Path()))
	}
	assert.Equal(t, "/product", Location{Page: PageProduct}.Path())
}

func TestStore_Navigate(t *testing.T) {
	t.Parallel()

	s := NewStore("/product/3")
	assert.Equal(t, Location{Page: PageProduct, ProductID: 3}, s.Current())

	var seen []Location
	cancel := s.Subscribe(func(l Location) { seen = append(seen, l) })
	defer cancel()

	path, err := s.Navigate(PageLogin, 0)
	require.NoError(t, err)
	assert.Equal(t, "/login", path)

	path, err = s.Navigate(PageProduct, 12)
	require.NoError(t, err)
	assert.Equal(t, "/product/12", path)

	_, err = s.Navigate(PageProduct, 0)
	assert.ErrorIs(t, err, ErrMissingProductID)

	_, err = s.Navigate("checkout", 0)
	assert.ErrorIs(t, err, ErrUnknownPage)

	assert.Equal(t, Location{Page: PageHome}, s.Sync("/whatever"))
	assert.Equal(t, []Location{
		{Page: PageLogin},
		{Page: PageProduct, ProductID: 12},
		{Page: PageHome},
	}, seen)
}
