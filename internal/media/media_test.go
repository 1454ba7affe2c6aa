package media

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medcamp-api-server/config"
)

func TestNew_SelectsProvider(t *testing.T) {
	ctx := context.Background()

	u, err := New(ctx, config.Config{})
	require.NoError(t, err)
	assert.Nil(t, u)

	_, err = New(ctx, config.Config{Media: config.MediaConfig{Provider: "ftp"}})
	assert.Error(t, err)

	u, err = New(ctx, config.Config{
		Media:      config.MediaConfig{Provider: "cloudinary"},
		Cloudinary: config.CloudinaryConfig{CloudName: "demo", APIKey: "key", APISecret: "secret", Folder: "camps"},
	})
	require.NoError(t, err)
	assert.IsType(t, &CloudinaryUploader{}, u)
}
