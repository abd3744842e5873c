package ingest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	t.Run("empty tracker is healthy", func(t *testing.T) {
		h := NewHealth()
		assert.True(t, h.IsOverallHealthy())
		assert.Nil(t, h.GetStatus("scan"))
		assert.Empty(t, h.GetAllStatuses())
	})

	t.Run("tracks healthy component", func(t *testing.T) {
		h := NewHealth()
		h.SetHealthy("scan", "2 files ingested")

		status := h.GetStatus("scan")
		require.NotNil(t, status)
		assert.True(t, status.Healthy)
		assert.Equal(t, "2 files ingested", status.Message)
		assert.False(t, status.LastCheck.IsZero())
		assert.False(t, status.LastSuccess.IsZero())
		assert.True(t, h.IsOverallHealthy())
	})

	t.Run("tracks unhealthy component", func(t *testing.T) {
		h := NewHealth()
		h.SetHealthy("scan", "ok")
		h.SetUnhealthy("index", errors.New("disk full"))

		status := h.GetStatus("index")
		require.NotNil(t, status)
		assert.False(t, status.Healthy)
		assert.Equal(t, "disk full", status.Message)
		assert.Error(t, status.LastError)
		assert.False(t, h.IsOverallHealthy())
	})

	t.Run("recovery keeps last success", func(t *testing.T) {
		h := NewHealth()
		h.SetHealthy("ingest", "ok")
		first := h.GetStatus("ingest").LastSuccess

		h.SetUnhealthy("ingest", errors.New("boom"))
		status := h.GetStatus("ingest")
		assert.Equal(t, first, status.LastSuccess)
		assert.False(t, status.Healthy)

		h.SetHealthy("ingest", "recovered")
		status = h.GetStatus("ingest")
		assert.True(t, status.Healthy)
		assert.NoError(t, status.LastError)
		assert.Equal(t, "recovered", status.Message)
	})

	t.Run("returned statuses are copies", func(t *testing.T) {
		h := NewHealth()
		h.SetHealthy("scan", "ok")

		status := h.GetStatus("scan")
		status.Message = "mutated"
		assert.Equal(t, "ok", h.GetStatus("scan").Message)

		all := h.GetAllStatuses()
		require.Contains(t, all, "scan")
		assert.Equal(t, "ok", all["scan"].Message)
	})
}
