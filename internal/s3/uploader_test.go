package s3

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey("Camp Photo.JPG")
	assert.True(t, strings.HasPrefix(key, keyFolder+"/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.NotEqual(t, key, ObjectKey("Camp Photo.JPG"))
}

func TestUploader_URL(t *testing.T) {
	u := &Uploader{Bucket: "camps", Region: "ap-south-1"}
	assert.Equal(t, "https://camps.s3.ap-south-1.amazonaws.com/images/a.png", u.URL("images/a.png"))

	u.CloudFrontDomain = "cdn.example.com"
	assert.Equal(t, "https://cdn.example.com/images/a.png", u.URL("images/a.png"))
}
