package core

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/subtle"
	"os"

	"github.com/gliderlabs/ssh"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	gossh "golang.org/x/crypto/ssh"

	"github.com/minnowsh/minnow/core/config"
	"github.com/minnowsh/minnow/core/interp"
	"github.com/minnowsh/minnow/core/vos"
)

// Server exposes the shell over SSH. Every session gets its own
// environment and working directory; external commands still run as real
// processes on the host.
type Server struct {
	config    *config.Configuration
	log       zerolog.Logger
	sshServer *ssh.Server
}

func NewServer(cfg *config.Configuration, log zerolog.Logger) (*Server, error) {
	srv := &Server{
		config: cfg,
		log:    log,
	}

	srv.sshServer = &ssh.Server{
		Addr: cfg.SSH.Addr,
		Handler: func(sess ssh.Session) {
			srv.handleSession(sess)
		},
		PasswordHandler: func(ctx ssh.Context, password string) bool {
			want, ok := cfg.Password(ctx.User())
			if !ok {
				return false
			}
			return subtle.ConstantTimeCompare([]byte(password), []byte(want)) == 1
		},
	}

	signer, err := srv.hostSigner()
	if err != nil {
		return nil, err
	}
	srv.sshServer.AddHostKey(signer)

	return srv, nil
}

// hostSigner loads the configured host key, or generates an ephemeral
// ed25519 key when none is configured.
func (s *Server) hostSigner() (gossh.Signer, error) {
	if path := s.config.SSH.HostKeyPath; path != "" {
		pem, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return gossh.ParsePrivateKey(pem)
	}

	s.log.Warn().Msg("no host key configured, generating an ephemeral one")
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return gossh.NewSignerFromKey(key)
}

func (s *Server) handleSession(sess ssh.Session) {
	s.log.Info().
		Str("user", sess.User()).
		Str("remote", sess.RemoteAddr().String()).
		Msg("session opened")
	defer s.log.Info().Str("user", sess.User()).Msg("session closed")

	_, _, isPty := sess.Pty()
	fs := afero.NewOsFs()

	runner := &interp.Runner{
		Env:      vos.NewMapEnvFromList(sess.Environ()),
		FS:       fs,
		Cwd:      vos.NewVirtualCwd(fs, "/"),
		Launcher: vos.NewExecLauncher(),
		Stdio:    vos.Stdio{In: sess, Out: sess, Err: sess.Stderr()},
		Log:      s.log,
	}

	shell, err := NewShell(runner, s.config, sess, sess, sess.Stderr(), isPty)
	if err != nil {
		s.log.Error().Err(err).Msg("session setup failed")
		sess.Exit(interp.StatusFailure)
		return
	}
	defer shell.Close()

	hostname, _ := os.Hostname()
	shell.Init(sess.User(), hostname)
	// Best effort, the home directory may not exist on the host.
	_ = runner.Cwd.Chdir(runner.Env.Getenv(EnvHome))

	sess.Exit(shell.Run())
}

// ListenAndServe blocks serving SSH sessions.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.sshServer.Addr).Msg("listening")
	return s.sshServer.ListenAndServe()
}

// Shutdown stops the server, waiting for active sessions up to the
// context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.sshServer.Shutdown(ctx)
}
