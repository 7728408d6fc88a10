package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/blog-content-api/internal/config"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// allowedImageTypes are the sniffed MIME types accepted for upload
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// uploadService is the concrete implementation of UploadService
type uploadService struct {
	cfg *config.UploadConfig
	log zerolog.Logger
}

func newUploadService(cfg *config.Config, log zerolog.Logger) *uploadService {
	return &uploadService{
		cfg: &cfg.Upload,
		log: log.With().Str("service", "upload").Logger(),
	}
}

// SaveImage stores an uploaded image under a generated name and returns its public URL.
func (s *uploadService) SaveImage(ctx context.Context, file *multipart.FileHeader) (*UploadedImage, error) {
	if file == nil {
		return nil, NewValidationError("No file provided")
	}
	if file.Size > s.cfg.MaxUploadSize {
		return nil, NewValidationError(fmt.Sprintf("file exceeds maximum size of %d bytes", s.cfg.MaxUploadSize))
	}

	src, err := file.Open()
	if err != nil {
		return nil, NewAppError(ErrInvalidInput, "failed to read uploaded file", err)
	}
	defer src.Close()

	return s.StoreImage(ctx, file.Filename, src)
}

// StoreImage writes an image read from src. The type is detected from the
// contents, not from the name or any client-supplied header.
func (s *uploadService) StoreImage(ctx context.Context, originalName string, src io.ReadSeeker) (*UploadedImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewAppError(ErrInternal, "upload cancelled", err)
	}

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, NewAppError(ErrInvalidInput, "failed to detect file type", err)
	}
	mime := strings.SplitN(mtype.String(), ";", 2)[0]
	if !allowedImageTypes[mime] {
		return nil, NewValidationError("only image files are allowed (jpeg, png, gif, webp)")
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, NewAppError(ErrInternal, "failed to rewind uploaded file", err)
	}

	if err := os.MkdirAll(s.cfg.Dir, 0755); err != nil {
		return nil, NewAppError(ErrInternal, "failed to create upload directory", err)
	}

	filename := fmt.Sprintf("image-%d-%s%s", time.Now().Unix(), uuid.New().String(), mtype.Extension())
	written, err := s.write(ctx, filepath.Join(s.cfg.Dir, filename), src)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("filename", filename).
		Str("original_name", originalName).
		Str("mimetype", mime).
		Int64("size", written).
		Msg("Image uploaded")

	return &UploadedImage{
		ImageURL:     path.Join(s.cfg.PublicPrefix, filename),
		Filename:     filename,
		OriginalName: filepath.Base(originalName),
		Size:         written,
		MimeType:     mime,
	}, nil
}

// write copies src to dst, removing the file unless the whole image was stored
func (s *uploadService) write(ctx context.Context, dst string, src io.Reader) (written int64, err error) {
	f, err := os.Create(dst)
	if err != nil {
		return 0, NewAppError(ErrInternal, "failed to store file", err)
	}
	defer func() {
		closeErr := f.Close()
		if err == nil && closeErr != nil {
			err = NewAppError(ErrInternal, "failed to store file", closeErr)
		}
		if err != nil {
			os.Remove(dst)
		}
	}()

	// one byte past the limit is enough to reject oversized streams
	written, err = io.Copy(f, io.LimitReader(src, s.cfg.MaxUploadSize+1))
	if err != nil {
		return 0, NewAppError(ErrInternal, "failed to store file", err)
	}
	if written > s.cfg.MaxUploadSize {
		return 0, NewValidationError(fmt.Sprintf("file exceeds maximum size of %d bytes", s.cfg.MaxUploadSize))
	}
	if err := ctx.Err(); err != nil {
		return 0, NewAppError(ErrInternal, "upload cancelled", err)
	}
	return written, nil
}
