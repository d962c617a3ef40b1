package catalog

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string]string
	gotKey  string
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.gotKey = aws.ToString(params.Bucket) + "/" + aws.ToString(params.Key)
	body, ok := f.objects[f.gotKey]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestParseS3URI(t *testing.T) {
	bucket, key, ok := ParseS3URI("s3://seeds/catalog/prod.yaml")
	require.True(t, ok)
	assert.Equal(t, "seeds", bucket)
	assert.Equal(t, "catalog/prod.yaml", key)

	for _, bad := range []string{"/etc/catalog.yaml", "s3://", "s3://bucket", "s3://bucket/"} {
		_, _, ok := ParseS3URI(bad)
		assert.False(t, ok, bad)
	}
}

func TestLoadS3(t *testing.T) {
	client := &fakeS3{objects: map[string]string{
		"seeds/catalog.yaml": "- id: 5\n  name: Garden\n  children:\n    - name: Lawn\n",
	}}

	src, err := LoadS3(context.Background(), client, "seeds", "catalog.yaml")
	require.NoError(t, err)
	assert.Equal(t, "seeds/catalog.yaml", client.gotKey)

	root, err := src.Tree(context.Background(), "5")
	require.NoError(t, err)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "Lawn", root.Children[0].Name)
}

func TestLoadS3MissingObject(t *testing.T) {
	_, err := LoadS3(context.Background(), &fakeS3{}, "seeds", "nope.json")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
