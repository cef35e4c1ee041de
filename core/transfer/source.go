package transfer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"catalog-sync/core/storage"

	"go.uber.org/zap"
)

// Source retrieves a remote feed into a local file and returns its path.
type Source interface {
	Fetch(ctx context.Context, remotePath string) (string, error)
}

// Job is one feed retrieval: where the file lives and how to prepare it.
type Job struct {
	RemotePath string
	Unzip      bool
	Projection *Projection
}

// NewSource builds the Source selected by cfg.Protocol. client and bucket
// are only used by the s3 protocol.
func NewSource(cfg *Config, client storage.Client, bucket string, logger *zap.Logger) (Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Protocol {
	case ProtocolSFTP:
		return NewSFTPSource(cfg, logger), nil
	case ProtocolS3:
		if client == nil {
			return nil, fmt.Errorf("vendor protocol s3 requires storage to be enabled")
		}
		return &ObjectSource{Client: client, Bucket: bucket, Dir: cfg.LocalDir}, nil
	default:
		return &LocalSource{Dir: cfg.LocalDir}, nil
	}
}

// Retrieve fetches job.RemotePath through src, extracts it when it is a zip
// archive and applies the projection. The returned path is ready for the feed reader.
func Retrieve(ctx context.Context, src Source, job Job, delimiter rune, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	path, err := src.Fetch(ctx, job.RemotePath)
	if err != nil {
		return "", err
	}
	logger.Info("Feed retrieved", zap.String("remote", job.RemotePath), zap.String("local", path))

	if job.Unzip && strings.EqualFold(filepath.Ext(path), ".zip") {
		extracted, err := Unzip(path, filepath.Dir(path))
		if err != nil {
			return "", err
		}
		logger.Info("Feed extracted", zap.String("archive", path), zap.String("file", extracted))
		path = extracted
	}

	if job.Projection != nil {
		out := strings.TrimSuffix(path, filepath.Ext(path)) + ".projected.csv"
		stats, err := job.Projection.Apply(path, out, delimiter)
		if err != nil {
			return "", err
		}
		logger.Info("Feed projected",
			zap.String("file", out),
			zap.Int("kept", stats.Kept),
			zap.Int("filtered", stats.Filtered),
			zap.Int("short", stats.Short),
			zap.Int("malformed", stats.Malformed),
		)
		path = out
	}
	return path, nil
}

// LocalSource serves feeds that are already on disk.
type LocalSource struct {
	// Dir resolves relative paths.
	Dir string
}

// Fetch returns the local path of remotePath after checking that it exists.
func (s *LocalSource) Fetch(ctx context.Context, remotePath string) (string, error) {
	path := remotePath
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.Dir, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", &TransferError{Op: "open", Path: path, Err: err}
	}
	if info.IsDir() {
		return "", &TransferError{Op: "open", Path: path, Err: fmt.Errorf("is a directory")}
	}
	return path, nil
}

// ObjectSource downloads feeds from the object store.
type ObjectSource struct {
	Client storage.Client
	Bucket string
	Dir    string
}

// Fetch downloads the object named remotePath (leading slash ignored) into Dir.
func (s *ObjectSource) Fetch(ctx context.Context, remotePath string) (string, error) {
	object := strings.TrimPrefix(remotePath, "/")
	dest := filepath.Join(s.Dir, filepath.Base(object))
	if err := storage.Download(ctx, s.Client, s.Bucket, object, dest); err != nil {
		return "", &TransferError{Op: "download", Path: s.Bucket + "/" + object, Err: err}
	}
	return dest, nil
}
