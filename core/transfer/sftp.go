package transfer

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/pkg/sftp"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// SFTPSource downloads feeds from the vendor SFTP server. Every Fetch opens
// its own connection and closes it before returning.
type SFTPSource struct {
	cfg    *Config
	logger *zap.Logger
	dial   func(ctx context.Context) (*sftp.Client, io.Closer, error)
}

// NewSFTPSource creates a source for cfg.Host.
func NewSFTPSource(cfg *Config, logger *zap.Logger) *SFTPSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SFTPSource{cfg: cfg, logger: logger}
	s.dial = s.dialSSH
	return s
}

// Fetch copies remotePath into the local directory.
func (s *SFTPSource) Fetch(ctx context.Context, remotePath string) (string, error) {
	client, conn, err := s.dial(ctx)
	if err != nil {
		return "", &TransferError{Op: "connect", Path: s.address(), Err: err}
	}
	defer conn.Close()
	defer client.Close()

	// Unblock a transfer stuck on the network when the run is cancelled.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	dest := filepath.Join(s.cfg.LocalDir, path.Base(remotePath))
	n, err := copyRemote(client, remotePath, dest)
	if err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return "", &TransferError{Op: "download", Path: remotePath, Err: err}
	}
	s.logger.Info("Vendor file downloaded", zap.String("remote", remotePath), zap.String("local", dest), zap.Int64("bytes", n))
	return dest, nil
}

func (s *SFTPSource) address() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

func (s *SFTPSource) dialSSH(ctx context.Context) (*sftp.Client, io.Closer, error) {
	hostKey, err := s.hostKeyCallback()
	if err != nil {
		return nil, nil, err
	}
	sshCfg := &ssh.ClientConfig{
		User:            s.cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(s.cfg.Password)},
		HostKeyCallback: hostKey,
		Timeout:         s.cfg.Timeout(),
	}

	dialer := net.Dialer{Timeout: s.cfg.Timeout()}
	netConn, err := dialer.DialContext(ctx, "tcp", s.address())
	if err != nil {
		return nil, nil, err
	}
	c, chans, reqs, err := ssh.NewClientConn(netConn, s.address(), sshCfg)
	if err != nil {
		_ = netConn.Close()
		return nil, nil, err
	}
	sshClient := ssh.NewClient(c, chans, reqs)

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		_ = sshClient.Close()
		return nil, nil, fmt.Errorf("open sftp session: %w", err)
	}
	return client, sshClient, nil
}

func (s *SFTPSource) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if s.cfg.KnownHosts == "" {
		s.logger.Warn("Vendor host key is not verified, set vendor.known_hosts")
		return ssh.InsecureIgnoreHostKey(), nil
	}
	cb, err := knownhosts.New(s.cfg.KnownHosts)
	if err != nil {
		return nil, fmt.Errorf("load known hosts: %w", err)
	}
	return cb, nil
}

// copyRemote writes remotePath to dest through a temporary file so that a
// failed transfer never leaves a truncated feed behind.
func copyRemote(client *sftp.Client, remotePath, dest string) (int64, error) {
	src, err := client.Open(remotePath)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".part-*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())

	n, err := src.WriteTo(tmp)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, err
	}
	return n, os.Rename(tmp.Name(), dest)
}
