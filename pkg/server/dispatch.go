package server

import (
	"bytes"
	"io"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/embervale/ember/internal/protoerr"
	"github.com/embervale/ember/pkg/chat"
	"github.com/embervale/ember/pkg/directory"
	"github.com/embervale/ember/pkg/protocol"
	"github.com/embervale/ember/pkg/protocol/frame"
	"github.com/embervale/ember/pkg/protocol/packet"
	"github.com/embervale/ember/pkg/protocol/state"
)

// writer is anything with a Write(io.Writer) error method, the shape
// every typed packet in pkg/protocol/packet satisfies.
type writer interface {
	Write(io.Writer) error
}

// encode serializes a packet body.
func encode(p writer) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// send encodes and frames p under the connection's current compression
// state.
func send(c *Connection, id int32, p writer) error {
	body, err := encode(p)
	if err != nil {
		return err
	}
	return c.WriteFrame(id, body)
}

// handleConnection runs the per-connection task: read one framed packet
// at a time, dispatch it by the connection's current state, write any
// response. Any Protocol or I/O error is fatal for the connection; it is
// logged at debug and the loop exits, and the directory entry for this
// peer address (if any) is removed (spec.md §4.F, §7).
func (s *Server) handleConnection(netConn net.Conn) {
	c := newConnection(netConn)
	defer func() {
		_ = c.Close()
		s.dir.Remove(c.addr)
	}()

	for {
		if err := c.SetReadDeadline(time.Now().Add(s.cfg.ConnectionTimeout)); err != nil {
			return
		}
		f, err := c.ReadFrame()
		if err != nil {
			s.log.Debug("connection closed", zap.Stringer("addr", c.addr), zap.Error(err))
			return
		}
		c.Touch()

		closeConn, err := s.dispatch(c, f)
		if err != nil {
			s.log.Debug("protocol fault", zap.Stringer("addr", c.addr), zap.Error(err))
			return
		}
		if closeConn {
			return
		}
	}
}

// dispatch routes one decoded frame by the connection's current state.
// It returns closeConn=true when the caller should tear the connection
// down after this packet (e.g. after PingResponse).
func (s *Server) dispatch(c *Connection, f frame.Frame) (closeConn bool, err error) {
	body := bytes.NewReader(f.Body)

	switch c.State {
	case state.Handshaking:
		return s.handleHandshaking(c, f.ID, body)
	case state.Status:
		return s.handleStatus(c, f.ID, body)
	case state.Login:
		return s.handleLogin(c, f.ID, body)
	case state.Configuration:
		return s.handleConfiguration(c, f.ID, body)
	case state.Play:
		return s.handlePlay(c, f.ID, body)
	default:
		return true, protoerr.Protocolf("connection in unknown state %v", c.State)
	}
}

func (s *Server) handleHandshaking(c *Connection, id int32, r *bytes.Reader) (bool, error) {
	if id != packet.HandshakeID {
		return true, protoerr.Protocolf("unexpected packet id 0x%02X in Handshaking", id)
	}
	hs, err := packet.ReadHandshake(r)
	if err != nil {
		return true, err
	}
	next, err := state.NextStateFromHandshake(hs.NextState)
	if err != nil {
		return true, err
	}
	c.ProtocolVersion = hs.ProtocolVersion
	c.State = next
	return false, nil
}

func (s *Server) handleStatus(c *Connection, id int32, r *bytes.Reader) (bool, error) {
	switch id {
	case packet.StatusRequestID:
		if _, err := packet.ReadStatusRequest(r); err != nil {
			return true, err
		}
		st := s.buildStatus()
		j, err := st.JSON()
		if err != nil {
			return true, err
		}
		if err := send(c, packet.StatusResponseID, packet.StatusResponse{JSON: j}); err != nil {
			return true, err
		}
		return false, nil
	case packet.PingRequestID:
		ping, err := packet.ReadPingRequest(r)
		if err != nil {
			return true, err
		}
		if err := send(c, packet.PingResponseID, packet.PingResponse{Payload: ping.Payload}); err != nil {
			return true, err
		}
		return true, nil
	default:
		return true, protoerr.Protocolf("unexpected packet id 0x%02X in Status", id)
	}
}

func (s *Server) handleLogin(c *Connection, id int32, r *bytes.Reader) (bool, error) {
	if id != packet.LoginStartID {
		return true, protoerr.Protocolf("unexpected packet id 0x%02X in Login", id)
	}
	ls, err := packet.ReadLoginStart(r)
	if err != nil {
		return true, err
	}

	if s.cfg.CompressionEnabled() {
		if err := send(c, packet.SetCompressionID, packet.SetCompression{Threshold: int32(s.cfg.CompressionThreshold)}); err != nil {
			return true, err
		}
		if err := c.EnableCompression(s.cfg.CompressionThreshold); err != nil {
			return true, err
		}
	}

	if err := send(c, packet.LoginSuccessID, packet.LoginSuccess{
		PlayerUUID: ls.PlayerUUID,
		Username:   ls.Name,
	}); err != nil {
		return true, err
	}

	c.PlayerUUID = ls.PlayerUUID
	c.Username = ls.Name
	s.dir.Insert(directory.Player{UUID: ls.PlayerUUID, Username: ls.Name}, c.addr)

	c.State = state.Configuration
	return false, nil
}

func (s *Server) handleConfiguration(c *Connection, id int32, r *bytes.Reader) (bool, error) {
	switch id {
	case packet.LoginAcknowledgedID:
		if _, err := packet.ReadLoginAcknowledged(r); err != nil {
			return true, err
		}
		// Sync a minimal empty dimension_type registry (SPEC_FULL §12)
		// before signalling configuration is finished.
		if err := send(c, packet.RegistryDataID, packet.RegistryData{
			RegistryID: protocol.NewIdentifier("minecraft:dimension_type"),
			Entries:    nil,
		}); err != nil {
			return true, err
		}
		if err := send(c, packet.FinishConfigurationID, packet.FinishConfiguration{}); err != nil {
			return true, err
		}
		return false, nil
	case packet.AcknowledgeFinishConfigurationID:
		if _, err := packet.ReadAcknowledgeFinishConfiguration(r); err != nil {
			return true, err
		}
		c.State = state.Play
		entityID := s.nextID()
		join := packet.LoginPlay{
			EntityID:            entityID,
			IsHardcore:          false,
			DimensionNames:      []string{"minecraft:overworld"},
			MaxPlayers:          int32(s.cfg.MaxPlayers),
			ViewDistance:        int32(s.cfg.ViewDistance),
			SimulationDistance:  int32(s.cfg.SimulationDistance),
			ReducedDebugInfo:    false,
			EnableRespawnScreen: true,
			DoLimitedCrafting:   false,
			DimensionType:       0,
			DimensionName:       "minecraft:overworld",
			HashedSeed:          0,
			GameMode:            0,
			PreviousGameMode:    -1,
			IsDebug:             false,
			IsFlat:              false,
			PortalCooldown:      0,
			SeaLevel:            63,
			EnforcesSecureChat:  false,
		}
		if err := send(c, packet.LoginPlayID, join); err != nil {
			return true, err
		}
		return false, nil
	default:
		return true, protoerr.Protocolf("unexpected packet id 0x%02X in Configuration", id)
	}
}

func (s *Server) handlePlay(c *Connection, id int32, r *bytes.Reader) (bool, error) {
	switch id {
	case packet.KeepAliveServerboundID:
		if _, err := packet.ReadKeepAlive(r); err != nil {
			return true, err
		}
		return false, nil
	case packet.ChatMessageServerboundID:
		msg, err := packet.ReadChatMessage(r)
		if err != nil {
			return true, err
		}
		s.log.Info("chat", zap.String("from", c.Username), zap.String("message", chat.Text(msg.Message).String()))
		return false, nil
	case packet.PlayerPositionServerboundID:
		if _, err := packet.ReadPlayerPosition(r); err != nil {
			return true, err
		}
		return false, nil
	default:
		s.log.Debug("unhandled play packet", zap.Stringer("addr", c.addr), zap.Int32("id", id))
		return false, nil
	}
}

