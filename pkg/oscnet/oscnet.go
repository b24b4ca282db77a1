// Package oscnet implements the OSC-over-UDP binding. The Server
// component receives messages addressed to input endpoints during
// external_sources and publishes qualifying outputs as one bundle per
// tick during external_destinations.
package oscnet

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/sygaldry-dmi/sygaldry/pkg/endpoint"
	"github.com/sygaldry-dmi/sygaldry/pkg/osc"
	"github.com/sygaldry-dmi/sygaldry/pkg/tree"
	"github.com/sygaldry-dmi/sygaldry/pkg/util"
)

const recvBufferSize = 4096

// ServerInputs holds the session-persisted connection configuration.
type ServerInputs struct {
	SrcPort endpoint.TextMessage
	DstPort endpoint.TextMessage
	DstAddr endpoint.TextMessage
}

// ServerOutputs reports the binding's state.
type ServerOutputs struct {
	ServerRunning endpoint.Toggle
	OutputRunning endpoint.Toggle
	ErrorMessage  endpoint.TextMessage
}

// Server is the OSC binding component.
type Server struct {
	Inputs  ServerInputs
	Outputs ServerOutputs

	conn     *net.UDPConn
	dst      *net.UDPAddr
	handlers map[string]*tree.Node
	lastSent map[string]string
	recvBuf  []byte
}

// NewServer constructs the binding with its configuration endpoints.
func NewServer() *Server {
	return &Server{
		Inputs: ServerInputs{
			SrcPort: endpoint.MakeTextMessage("source port",
				endpoint.WithDescription("The UDP port on which to receive incoming messages."),
				endpoint.WithTags(endpoint.TagSessionData)),
			DstPort: endpoint.MakeTextMessage("destination port",
				endpoint.WithDescription("The UDP port on which to send outgoing messages."),
				endpoint.WithTags(endpoint.TagSessionData)),
			DstAddr: endpoint.MakeTextMessage("destination address",
				endpoint.WithDescription("The IP address to send outgoing messages to."),
				endpoint.WithTags(endpoint.TagSessionData)),
		},
		Outputs: ServerOutputs{
			ServerRunning: endpoint.MakeToggle("server running"),
			OutputRunning: endpoint.MakeToggle("output running"),
			ErrorMessage:  endpoint.MakeTextMessage("error message"),
		},
		lastSent: make(map[string]string),
		recvBuf:  make([]byte, recvBufferSize),
	}
}

// ComponentName implements tree.Component.
func (s *Server) ComponentName() string { return "OSC" }

// Port returns the bound UDP port, or zero when the server is down.
func (s *Server) Port() int {
	if s.conn == nil {
		return 0
	}
	return s.conn.LocalAddr().(*net.UDPAddr).Port
}

// Init brings up the server and, when the destination inputs are valid,
// the send address.
func (s *Server) Init(t *tree.Tree) {
	s.setupServer(t)
	s.Outputs.OutputRunning.Set(0)
	s.setupDst()
}

// Main re-runs setup when the configuration inputs were updated.
func (s *Server) Main(t *tree.Tree) {
	s.setupServer(t)
	s.setupDst()
}

func portOf(text string) (int, bool) {
	n, err := strconv.Atoi(text)
	if err != nil || n < 1024 || n > 65535 {
		return 0, false
	}
	return n, true
}

func (s *Server) setupServer(t *tree.Tree) {
	log := util.WithBinding("osc")

	_, portValid := portOf(s.Inputs.SrcPort.Value())
	portUpdated := s.Inputs.SrcPort.Updated() && portValid
	if s.Outputs.ServerRunning.Value() == 1 && !portUpdated {
		return
	}

	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}

	laddr := &net.UDPAddr{}
	if portValid {
		laddr.Port, _ = portOf(s.Inputs.SrcPort.Value())
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		log.Errorf("server setup failed: %v", err)
		s.Outputs.ServerRunning.Set(0)
		s.Outputs.ErrorMessage.Set(fmt.Sprintf("server setup failed: %v", err))
		return
	}
	s.conn = conn

	if !portValid {
		// write the chosen port back, without re-triggering setup
		s.Inputs.SrcPort.Set(strconv.Itoa(s.Port()))
		s.Inputs.SrcPort.ClearFlag()
	}
	log.Infof("listening on port %s", s.Inputs.SrcPort.Value())

	s.handlers = make(map[string]*tree.Node)
	for _, n := range t.Inputs() {
		s.handlers[n.Path] = n
	}
	s.Outputs.ServerRunning.Set(1)
}

func (s *Server) dstValid() bool {
	_, ok := portOf(s.Inputs.DstPort.Value())
	return ok && len(s.Inputs.DstAddr.Value()) >= 7
}

func (s *Server) setupDst() {
	dstUpdated := (s.Inputs.DstPort.Updated() || s.Inputs.DstAddr.Updated()) && s.dstValid()
	if s.Outputs.OutputRunning.Value() == 1 && !dstUpdated {
		return
	}
	if !s.dstValid() {
		s.Outputs.OutputRunning.Set(0)
		return
	}
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(s.Inputs.DstAddr.Value(), s.Inputs.DstPort.Value()))
	if err != nil {
		util.WithBinding("osc").Errorf("destination setup failed: %v", err)
		s.Outputs.OutputRunning.Set(0)
		s.Outputs.ErrorMessage.Set(fmt.Sprintf("destination setup failed: %v", err))
		return
	}
	s.dst = addr
	s.Outputs.OutputRunning.Set(1)
}

// ExternalSources drains incoming datagrams without blocking and writes
// each message into its matching input endpoint.
func (s *Server) ExternalSources() {
	if s.Outputs.ServerRunning.Value() != 1 || s.conn == nil {
		return
	}
	s.conn.SetReadDeadline(time.Now().Add(time.Millisecond))
	for {
		n, _, err := s.conn.ReadFromUDP(s.recvBuf)
		if err != nil {
			return
		}
		s.dispatch(s.recvBuf[:n])
	}
}

func (s *Server) dispatch(datagram []byte) {
	log := util.WithBinding("osc")
	p, err := osc.ReadPacket(datagram)
	if err != nil {
		log.Warnf("dropping undecodable packet: %v", err)
		return
	}
	for _, m := range p.Messages() {
		n, ok := s.handlers[m.Address]
		if !ok {
			log.Warnf("no input endpoint at %s", m.Address)
			continue
		}
		want := osc.TypeTag(n.Endpoint)[1:]
		if m.TypeTags != want {
			log.Warnf("%v", util.NewTypeMismatchError(m.Address, ","+want, ","+m.TypeTags))
			continue
		}
		if err := writeMessage(n.Endpoint, m); err != nil {
			log.Warnf("write to %s failed: %v", m.Address, err)
		}
	}
}

func writeMessage(e endpoint.Endpoint, m *osc.Message) error {
	switch e.Kind() {
	case endpoint.KindBang:
		return endpoint.SetValue(e, true)
	case endpoint.KindString:
		return endpoint.SetValue(e, m.Args[0])
	case endpoint.KindInt:
		return endpoint.SetValue(e, int64(m.Args[0].(int32)))
	case endpoint.KindFloat:
		if e.Size() > 1 {
			vs := make([]float32, len(m.Args))
			for i, a := range m.Args {
				vs[i] = a.(float32)
			}
			return endpoint.SetValue(e, vs)
		}
		return endpoint.SetValue(e, m.Args[0])
	}
	return util.NewTypeMismatchError(e.Name(), "endpoint", m.TypeTags)
}

// ExternalDestinations publishes one bundle containing every output that
// fired this tick or whose persistent value changed since last sent.
func (s *Server) ExternalDestinations(t *tree.Tree) {
	if s.Outputs.OutputRunning.Value() != 1 || s.conn == nil || s.dst == nil {
		return
	}
	var msgs []osc.Message
	for _, n := range t.Outputs() {
		if n.Endpoint.Tags().Has(endpoint.TagWriteOnly) {
			continue
		}
		if endpoint.IsFlagged(n.Endpoint) {
			if !endpoint.FlagOf(n.Endpoint) {
				continue
			}
		} else {
			rendered := fmt.Sprintf("%v", endpoint.ValueOf(n.Endpoint))
			if s.lastSent[n.Path] == rendered {
				continue
			}
			s.lastSent[n.Path] = rendered
		}
		msgs = append(msgs, messageFor(n))
	}
	if len(msgs) == 0 {
		return
	}
	datagram, err := osc.EncodeBundle(osc.Immediately, msgs)
	if err != nil {
		util.WithBinding("osc").Errorf("bundle encoding failed: %v", err)
		return
	}
	if _, err := s.conn.WriteToUDP(datagram, s.dst); err != nil {
		util.WithBinding("osc").Warnf("bundle send failed: %v", err)
	}
}

func messageFor(n *tree.Node) osc.Message {
	e := n.Endpoint
	m := osc.Message{Address: n.Path, TypeTags: osc.TypeTag(e)[1:]}
	switch e.Kind() {
	case endpoint.KindBang:
		// no payload
	case endpoint.KindInt:
		m.Args = []any{int32(endpoint.ValueOf(e).(int64))}
	case endpoint.KindFloat:
		if e.Size() > 1 {
			for _, v := range endpoint.ValueOf(e).([]float32) {
				m.Args = append(m.Args, v)
			}
		} else {
			m.Args = []any{endpoint.ValueOf(e).(float32)}
		}
	case endpoint.KindString:
		m.Args = []any{endpoint.ValueOf(e).(string)}
	}
	return m
}
