package progresschart

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRender(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	points := []sharedtypes.ProgressPoint{
		{Total: 1200, RecordedAt: base},
		{Total: 1450, RecordedAt: base.AddDate(0, 0, 7)},
		{Total: 1800, RecordedAt: base.AddDate(0, 0, 21)},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "Ada", sharedtypes.Label4L, points))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic), "expected PNG output")
}

func TestRender_SingleSnapshot(t *testing.T) {
	points := []sharedtypes.ProgressPoint{
		{Total: 900, RecordedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "Ada", sharedtypes.Label6LPlus, points))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic), "expected PNG output")
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, "Ada", sharedtypes.Label4L, nil)
	assert.ErrorIs(t, err, ErrNoSnapshots)
	assert.Zero(t, buf.Len())
}
