// Package server implements the connection driver and server loop
// (spec.md §4.F): the accept loop, per-connection dispatch through the
// Handshake/Status/Login/Configuration/Play state machine, the 20Hz tick
// timer, and graceful shutdown.
package server

import (
	"net"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/embervale/ember/internal/config"
	"github.com/embervale/ember/pkg/directory"
	"github.com/embervale/ember/pkg/status"
	"github.com/embervale/ember/pkg/world"
)

// ProtocolVersion is the negotiated protocol version this engine speaks:
// Minecraft Java Edition 1.21.5.
const ProtocolVersion = 770

// TickRate is the server tick frequency: 20Hz, 50ms per tick.
const TickRate = 20
const tickInterval = time.Second / TickRate

// Server owns the listener, the player directory, and the world ticker.
// Config and the static parts of Status are immutable after
// construction; only the online count is mutated, once per tick, by the
// tick loop alone (spec.md §5).
type Server struct {
	cfg   config.Config
	log   *zap.Logger
	dir   *directory.Directory
	world world.Ticker

	listener net.Listener
	stopCh   chan struct{}
	doneCh   chan struct{}

	nextEntityID atomic.Int32
	onlineCount  atomic.Int32

	acceptLimiter *rate.Limiter
}

// New constructs a Server from cfg. w is the opaque world collaborator
// driven once per tick; pass world.New(seed) for the bundled stub.
func New(cfg config.Config, log *zap.Logger, w world.Ticker) *Server {
	s := &Server{
		cfg:    cfg,
		log:    log,
		dir:    directory.New(),
		world:  w,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
		// One accepted connection per 50ms sustained, bursting to 20 —
		// generous enough for legitimate reconnect storms while still
		// bounding how fast the listener accepts. The limit is shared by
		// all remote hosts; it is not tracked per peer address.
		acceptLimiter: rate.NewLimiter(rate.Every(50*time.Millisecond), 20),
	}
	return s
}

// Directory exposes the player registry, mainly for tests.
func (s *Server) Directory() *directory.Directory { return s.dir }

// buildStatus snapshots the current server status for a Status response.
// Built fresh per request rather than cached as a string. Players.Online
// is the directory count stored by the most recent tick, so it can trail
// the directory by up to one tick.
func (s *Server) buildStatus() status.Status {
	st := status.Status{
		Version: status.Version{
			Name:     "1.21.5",
			Protocol: ProtocolVersion,
		},
		Players: status.Players{
			Max:    s.cfg.MaxPlayers,
			Online: int(s.onlineCount.Load()),
		},
		Description:        status.PlainDescription(s.cfg.MOTD),
		Favicon:             s.cfg.Favicon,
		EnforcesSecureChat: false,
	}
	return st
}

// Start binds the listener and launches the accept loop and tick timer
// as background goroutines; it does not block.
func (s *Server) Start() error {
	l, err := net.Listen("tcp", s.cfg.BindAddress)
	if err != nil {
		return err
	}
	s.listener = l
	s.log.Info("listening", zap.String("addr", s.cfg.BindAddress))

	go s.acceptLoop()
	go s.tickLoop()
	return nil
}

// Stop stops the tick loop and closes the listener. Open connections are
// not closed here; each per-connection task ends on its next read error
// (EOF from the peer or the read deadline).
func (s *Server) Stop() {
	close(s.stopCh)
	if s.listener != nil {
		_ = s.listener.Close()
	}
}

// Done returns a channel closed once the accept loop has exited.
func (s *Server) Done() <-chan struct{} { return s.doneCh }

func (s *Server) acceptLoop() {
	defer close(s.doneCh)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.stopCh:
				return
			default:
				s.log.Error("accept error", zap.Error(err))
				continue
			}
		}
		if !s.acceptLimiter.Allow() {
			s.log.Warn("rejecting connection: accept rate exceeded", zap.String("addr", conn.RemoteAddr().String()))
			_ = conn.Close()
			continue
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) tickLoop() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.world.Tick(tickInterval.Seconds())
			s.onlineCount.Store(int32(s.dir.Count()))
		}
	}
}

// nextID allocates the next entity id, starting at 1.
func (s *Server) nextID() int32 {
	return s.nextEntityID.Add(1)
}
