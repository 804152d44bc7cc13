// Package media stores product images outside the database.
package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidDataURL = errors.New("invalid image data url")

// Image is a decoded image payload.
type Image struct {
	ContentType string
	Data        []byte
}

// DataURL encodes the image back into a base64 data URL.
func (i *Image) DataURL() string {
	return "data:" + i.ContentType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// ImageStore uploads images and returns the URL they are served from.
type ImageStore interface {
	Upload(ctx context.Context, img *Image) (string, error)
	// Delete removes an image previously returned by Upload. URLs the store does not own are ignored.
	Delete(ctx context.Context, url string) error
}

// ParseDataURL decodes a base64 "data:<mime>;base64,<payload>" string.
// It returns ok=false for anything that is not a data URL, such as a plain http URL.
func ParseDataURL(s string) (img *Image, ok bool, err error) {
	rest, found := strings.CutPrefix(s, "data:")
	if !found {
		return nil, false, nil
	}
	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return nil, true, ErrInvalidDataURL
	}
	mime, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 || !strings.HasPrefix(mime, "image/") {
		return nil, true, ErrInvalidDataURL
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	if len(data) == 0 {
		return nil, true, ErrInvalidDataURL
	}
	return &Image{ContentType: mime, Data: data}, true, nil
}

// PassthroughImageStore keeps images inline: the data URL itself is the stored value.
type PassthroughImageStore struct{}

func (PassthroughImageStore) Upload(_ context.Context, img *Image) (string, error) {
	return img.DataURL(), nil
}

func (PassthroughImageStore) Delete(context.Context, string) error {
	return nil
}
