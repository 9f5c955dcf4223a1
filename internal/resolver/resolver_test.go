package resolver_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/esglens/internal/esg"
	"github.com/jonesrussell/esglens/internal/logger"
	"github.com/jonesrussell/esglens/internal/resolver"
)

type fakeLookup struct {
	url string
	err error
}

func (f *fakeLookup) Resolve(_ context.Context, _ string) (string, error) {
	return f.url, f.err
}

func TestResolveURLInput(t *testing.T) {
	t.Parallel()

	r := resolver.New(nil, logger.NewNoOp())

	res, err := r.Resolve(context.Background(), "https://Example.com/esg/report?x=1")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", res.RootURL)
	assert.Empty(t, res.CompanyName, "URL inputs carry no company name")
}

func TestResolveBareDomain(t *testing.T) {
	t.Parallel()

	r := resolver.New(nil, logger.NewNoOp())

	res, err := r.Resolve(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", res.RootURL)
}

func TestResolveNameViaLookup(t *testing.T) {
	t.Parallel()

	r := resolver.New(&fakeLookup{url: "https://acme.io/about"}, logger.NewNoOp())

	res, err := r.Resolve(context.Background(), "Acme")
	require.NoError(t, err)
	assert.Equal(t, "https://acme.io", res.RootURL, "path should be stripped")
	assert.Equal(t, "Acme", res.CompanyName)
}

func TestResolveNameFallsBackOnLookupFailure(t *testing.T) {
	t.Parallel()

	r := resolver.New(&fakeLookup{err: errors.New("network down")}, logger.NewNoOp())

	res, err := r.Resolve(context.Background(), "Acme Corporation")
	require.NoError(t, err, "lookup failure is not fatal")
	assert.Equal(t, "https://acmecorporation.com", res.RootURL)
	assert.Equal(t, "Acme Corporation", res.CompanyName)
}

func TestResolveNameFallsBackOnEmptyAnswer(t *testing.T) {
	t.Parallel()

	r := resolver.New(&fakeLookup{}, logger.NewNoOp())

	res, err := r.Resolve(context.Background(), "Acme")
	require.NoError(t, err)
	assert.Equal(t, "https://acme.com", res.RootURL)
}

func TestResolveEmptyInputIsFatal(t *testing.T) {
	t.Parallel()

	r := resolver.New(nil, logger.NewNoOp())

	_, err := r.Resolve(context.Background(), "   ")
	require.ErrorIs(t, err, esg.ErrResolution)
}
