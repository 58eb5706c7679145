// Package sftp moves files to and from the partner's file-drop server.
package sftp

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/angelopoggi/PFSH-Parser/internal/config"
	apperrors "github.com/angelopoggi/PFSH-Parser/pkg/errors"
)

const dialTimeout = 30 * time.Second

// Direction tells a transfer which way the file moves
type Direction string

const (
	Pull Direction = "pull" // remote -> local
	Push Direction = "push" // local -> remote
)

// Transferer copies one file between the local disk and the remote server
type Transferer interface {
	Transfer(ctx context.Context, dir Direction, localPath, remotePath string) error
}

// Client opens a fresh SSH session for every transfer and closes it afterwards
type Client struct {
	cfg    config.SFTPConfig
	logger *zap.Logger
}

// NewClient creates a new SFTP client
func NewClient(cfg config.SFTPConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg:    cfg,
		logger: logger,
	}
}

// Transfer pulls remotePath to localPath or pushes localPath to remotePath.
// Missing parent directories are created on the receiving side.
func (c *Client) Transfer(ctx context.Context, dir Direction, localPath, remotePath string) error {
	if dir != Pull && dir != Push {
		return fmt.Errorf("invalid transfer direction %q", dir)
	}
	op := fmt.Sprintf("sftp %s %s", dir, remotePath)

	client, closeFn, err := c.connect(ctx)
	if err != nil {
		return &apperrors.TransportError{Op: op, Err: err}
	}
	defer closeFn()

	if dir == Pull {
		c.logger.Info("Pulling file from SFTP", zap.String("remote", remotePath), zap.String("local", localPath))
		err = pull(client, localPath, remotePath)
	} else {
		c.logger.Info("Pushing file to SFTP", zap.String("local", localPath), zap.String("remote", remotePath))
		err = push(client, localPath, remotePath)
	}
	if err != nil {
		return &apperrors.TransportError{Op: op, Err: err}
	}
	return nil
}

func (c *Client) connect(ctx context.Context) (*sftp.Client, func(), error) {
	hostKeyCallback, err := c.hostKeyCallback()
	if err != nil {
		return nil, nil, err
	}
	sshCfg := &ssh.ClientConfig{
		User:            c.cfg.Username,
		Auth:            []ssh.AuthMethod{ssh.Password(c.cfg.Password)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         dialTimeout,
	}

	addr := net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port))
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, nil, err
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, sshCfg)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	sshClient := ssh.NewClient(sshConn, chans, reqs)

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, nil, err
	}
	return client, func() {
		client.Close()
		sshClient.Close()
	}, nil
}

func (c *Client) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if c.cfg.KnownHosts == "" {
		c.logger.Warn("SFTP_KNOWN_HOSTS not set, host key is not verified", zap.String("host", c.cfg.Host))
		return ssh.InsecureIgnoreHostKey(), nil
	}
	cb, err := knownhosts.New(c.cfg.KnownHosts)
	if err != nil {
		return nil, fmt.Errorf("failed to load known hosts: %w", err)
	}
	return cb, nil
}

func pull(client *sftp.Client, localPath, remotePath string) error {
	src, err := client.Open(remotePath)
	if err != nil {
		return err
	}
	defer src.Close()

	dir := filepath.Dir(localPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(localPath)+".*.part")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), localPath)
}

func push(client *sftp.Client, localPath, remotePath string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer src.Close()

	if dir := path.Dir(remotePath); dir != "." && dir != "/" {
		if err := client.MkdirAll(dir); err != nil {
			return err
		}
	}
	dst, err := client.Create(remotePath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
