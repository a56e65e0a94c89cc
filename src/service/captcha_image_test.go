package service

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTextChallenge(t *testing.T) {
	data, err := renderTextChallenge("AB3K9")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, TextImageWidth, img.Bounds().Dx())
	assert.Equal(t, TextImageHeight, img.Bounds().Dy())
}

func TestRenderPositionChallenge(t *testing.T) {
	for _, x := range []int{PositionMin, 140, PositionMax} {
		data, err := renderPositionChallenge(x)
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, PositionImageWidth, img.Bounds().Dx())
		assert.Equal(t, PositionImageHeight, img.Bounds().Dy())
	}
}

func TestPngDataURI(t *testing.T) {
	uri := pngDataURI([]byte{0x89, 'P', 'N', 'G'})

	require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, decoded)
}
