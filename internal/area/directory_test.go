package area

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devscanner/internal/config"
)

func TestStaticDirectory(t *testing.T) {
	t.Parallel()

	d := NewStaticDirectory([]config.AreaConfig{
		{ID: "tampines", Name: "Tampines"},
		{ID: "punggol", Name: "Punggol"},
		{ID: "", Name: "ignored"},
	})

	name, err := d.AreaName(context.Background(), "tampines")
	require.NoError(t, err)
	assert.Equal(t, "Tampines", name)

	_, err = d.AreaName(context.Background(), "atlantis")
	require.Error(t, err)

	assert.Equal(t, []string{"tampines", "punggol"}, d.IDs())
}
