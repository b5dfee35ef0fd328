//go:build integration
// +build integration

package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjstillabower/weather-collector/internal/export"
	"github.com/kjstillabower/weather-collector/internal/testhelpers"
)

func TestCollectionService_Run_Integration(t *testing.T) {
	cfg := testhelpers.GetIntegrationConfig(t)
	svc, path, out := testhelpers.SetupIntegrationService(t, cfg, []string{"London", "Atlantis"})

	rr, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, rr.Attempted)
	assert.Equal(t, 1, rr.Succeeded)
	assert.Contains(t, out.String(), "Fetched 1/2 locations (1 failed)")

	_, rows, err := export.Read(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "London", rows[0][0])
}
