// Package imagestore resizes uploaded images, computes their thumbhash
// placeholders and hands the encoded files to an object store.
package imagestore

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/disintegration/imaging"
	"github.com/galdor/go-thumbhash"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxSide bounds the stored image's width and height.
	MaxSide = 1080
	// placeholderSide is the size of the image thumbhash is computed on.
	placeholderSide = 100
	jpegQuality     = 82
)

// Uploader writes one object and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

// Stored is one persisted image.
type Stored struct {
	URL         string
	Placeholder string
}

// Processor prepares and uploads images.
type Processor struct {
	uploader Uploader
}

// NewProcessor creates a new Processor
func NewProcessor(u Uploader) *Processor {
	return &Processor{uploader: u}
}

// Store processes and uploads files under prefix concurrently. The result
// keeps the order of files; any failure fails the whole batch.
func (p *Processor) Store(ctx context.Context, prefix string, files [][]byte) ([]Stored, error) {
	out := make([]Stored, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, raw := range files {
		g.Go(func() error {
			s, err := p.storeOne(gctx, prefix, raw)
			if err != nil {
				return fmt.Errorf("image %d: %w", i, err)
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Processor) storeOne(ctx context.Context, prefix string, raw []byte) (Stored, error) {
	encoded, placeholder, err := Prepare(raw)
	if err != nil {
		return Stored{}, err
	}
	name := path.Join(prefix, uuid.NewString()+".jpg")
	url, err := p.uploader.Upload(ctx, name, "image/jpeg", bytes.NewReader(encoded))
	if err != nil {
		return Stored{}, fmt.Errorf("upload %s: %w", name, err)
	}
	slog.Debug("image stored", "name", name, "bytes", len(encoded))
	return Stored{URL: url, Placeholder: placeholder}, nil
}

// Prepare decodes raw, fits it within MaxSide and re-encodes it as JPEG.
// It also returns the base64 thumbhash of the image.
func Prepare(raw []byte) ([]byte, string, error) {
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("decode: %w", err)
	}
	resized := imaging.Fit(img, MaxSide, MaxSide, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, "", fmt.Errorf("encode: %w", err)
	}

	small := imaging.Fit(img, placeholderSide, placeholderSide, imaging.Box)
	hash := thumbhash.EncodeImage(small)
	return buf.Bytes(), base64.StdEncoding.EncodeToString(hash), nil
}
