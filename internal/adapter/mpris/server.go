// Package mpris exposes playback on the desktop session bus through the
// MPRIS D-Bus interface, so media keys and desktop widgets can control SubTune.
package mpris

import (
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"

	"github.com/tejashwikalptaru/subtune/internal/domain"
	"github.com/tejashwikalptaru/subtune/internal/ports"
)

// D-Bus names.
const (
	BusNamePrefix       = "org.mpris.MediaPlayer2."
	ObjectPath          = dbus.ObjectPath("/org/mpris/MediaPlayer2")
	RootInterface       = "org.mpris.MediaPlayer2"
	PlayerInterface     = "org.mpris.MediaPlayer2.Player"
	PropertiesInterface = "org.freedesktop.DBus.Properties"

	propertiesChanged = PropertiesInterface + ".PropertiesChanged"
)

// commandBuffer bounds the commands waiting for the session loop.
const commandBuffer = 32

// signalEmitter is the part of *dbus.Conn used for change notifications.
type signalEmitter interface {
	Emit(path dbus.ObjectPath, name string, values ...interface{}) error
}

// Server is an MPRIS endpoint. It forwards controller calls as remote
// commands and mirrors playback events into its State.
type Server struct {
	logger   *slog.Logger
	bus      ports.EventBus
	conn     *dbus.Conn
	emitter  signalEmitter
	state    *State
	commands chan domain.RemoteCommand
	subs     []domain.SubscriptionID
	identity string
	busName  string

	closeOnce sync.Once
}

// NewServer connects to the session bus, exports the MPRIS objects and claims
// org.mpris.MediaPlayer2.<identity>.
func NewServer(logger *slog.Logger, bus ports.EventBus, identity string) (*Server, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, domain.NewBusError("connect", "failed to connect to session bus", err)
	}

	s := newServer(logger, bus, conn, identity)
	s.conn = conn

	if err := s.export(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	reply, err := conn.RequestName(s.busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		_ = conn.Close()
		return nil, domain.NewBusError("request_name", "failed to request "+s.busName, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		_ = conn.Close()
		return nil, domain.NewBusError("request_name", s.busName+" is already taken", nil)
	}

	s.subscribe()
	logger.Info("mpris server registered", slog.String("name", s.busName))
	return s, nil
}

func newServer(logger *slog.Logger, bus ports.EventBus, emitter signalEmitter, identity string) *Server {
	return &Server{
		logger:   logger,
		bus:      bus,
		emitter:  emitter,
		state:    NewState(),
		commands: make(chan domain.RemoteCommand, commandBuffer),
		identity: identity,
		busName:  BusNamePrefix + identity,
	}
}

// Commands returns the channel controller calls are delivered on.
// The channel is never closed.
func (s *Server) Commands() <-chan domain.RemoteCommand {
	return s.commands
}

// State returns the exported now-playing record.
func (s *Server) State() *State {
	return s.state
}

// Close unsubscribes from the event bus, releases the bus name and closes the connection.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		for _, id := range s.subs {
			s.bus.Unsubscribe(id)
		}
		s.subs = nil
		if s.conn == nil {
			return
		}
		if _, relErr := s.conn.ReleaseName(s.busName); relErr != nil {
			s.logger.Warn("failed to release bus name", slog.Any("error", relErr))
		}
		err = s.conn.Close()
	})
	return err
}

func (s *Server) export() error {
	exports := []struct {
		v     interface{}
		iface string
	}{
		{player{s}, PlayerInterface},
		{root{}, RootInterface},
		{properties{s}, PropertiesInterface},
		{introspect.NewIntrospectable(s.introspection()), "org.freedesktop.DBus.Introspectable"},
	}
	for _, e := range exports {
		if err := s.conn.Export(e.v, ObjectPath, e.iface); err != nil {
			return domain.NewBusError("export", "failed to export "+e.iface, err)
		}
	}
	return nil
}

func (s *Server) subscribe() {
	s.subs = append(s.subs,
		s.bus.Subscribe(domain.EventTrackStarted, func(e domain.Event) {
			ev := e.(domain.TrackStartedEvent)
			s.state.SetTrack(ev.Track, ev.StreamURL)
			s.emitChanged("Metadata", dbus.MakeVariant(s.state.Metadata()))
		}),
		s.bus.Subscribe(domain.EventTrackCleared, func(domain.Event) {
			s.state.ClearTrack()
			s.emitChanged("Metadata", dbus.MakeVariant(s.state.Metadata()))
		}),
		s.bus.Subscribe(domain.EventPlaybackStatusChanged, func(e domain.Event) {
			s.state.SetStatus(e.(domain.PlaybackStatusChangedEvent).Status)
			s.emitChanged("PlaybackStatus", dbus.MakeVariant(s.state.Status()))
		}),
		s.bus.Subscribe(domain.EventVolumeChanged, func(e domain.Event) {
			s.state.SetVolume(e.(domain.VolumeChangedEvent).Volume)
			s.emitChanged("Volume", dbus.MakeVariant(s.state.Volume()))
		}),
	)
}

// emitChanged must not be called with the state lock held.
func (s *Server) emitChanged(name string, value dbus.Variant) {
	changed := map[string]dbus.Variant{name: value}
	if err := s.emitter.Emit(ObjectPath, propertiesChanged, PlayerInterface, changed, []string{}); err != nil {
		s.logger.Debug("failed to emit PropertiesChanged", slog.String("property", name), slog.Any("error", err))
	}
}

// send queues a command for the session loop, dropping it if the loop is behind.
func (s *Server) send(cmd domain.RemoteCommand) {
	select {
	case s.commands <- cmd:
	default:
		s.logger.Warn("remote command dropped", slog.String("command", cmd.Kind.String()))
	}
}

func (s *Server) rootProperties() map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"CanQuit":             dbus.MakeVariant(false),
		"CanRaise":            dbus.MakeVariant(false),
		"HasTrackList":        dbus.MakeVariant(false),
		"Identity":            dbus.MakeVariant(s.identity),
		"DesktopEntry":        dbus.MakeVariant(s.identity),
		"SupportedUriSchemes": dbus.MakeVariant([]string{}),
		"SupportedMimeTypes":  dbus.MakeVariant([]string{}),
	}
}

func (s *Server) playerProperties() map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"PlaybackStatus": dbus.MakeVariant(s.state.Status()),
		"LoopStatus":     dbus.MakeVariant("None"),
		"Rate":           dbus.MakeVariant(1.0),
		"Shuffle":        dbus.MakeVariant(false),
		"Metadata":       dbus.MakeVariant(s.state.Metadata()),
		"Volume":         dbus.MakeVariant(s.state.Volume()),
		"Position":       dbus.MakeVariant(int64(0)),
		"MinimumRate":    dbus.MakeVariant(1.0),
		"MaximumRate":    dbus.MakeVariant(1.0),
		"CanGoNext":      dbus.MakeVariant(true),
		"CanGoPrevious":  dbus.MakeVariant(true),
		"CanPlay":        dbus.MakeVariant(true),
		"CanPause":       dbus.MakeVariant(true),
		"CanSeek":        dbus.MakeVariant(false),
		"CanControl":     dbus.MakeVariant(true),
	}
}

func (s *Server) introspection() *introspect.Node {
	read := func(name, sig string) introspect.Property {
		return introspect.Property{Name: name, Type: sig, Access: "read"}
	}
	return &introspect.Node{
		Name: string(ObjectPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name:    RootInterface,
				Methods: introspect.Methods(root{}),
				Properties: []introspect.Property{
					read("CanQuit", "b"),
					read("CanRaise", "b"),
					read("HasTrackList", "b"),
					read("Identity", "s"),
					read("DesktopEntry", "s"),
					read("SupportedUriSchemes", "as"),
					read("SupportedMimeTypes", "as"),
				},
			},
			{
				Name:    PlayerInterface,
				Methods: introspect.Methods(player{}),
				Properties: []introspect.Property{
					read("PlaybackStatus", "s"),
					read("LoopStatus", "s"),
					read("Rate", "d"),
					read("Shuffle", "b"),
					read("Metadata", "a{sv}"),
					{Name: "Volume", Type: "d", Access: "readwrite"},
					read("Position", "x"),
					read("MinimumRate", "d"),
					read("MaximumRate", "d"),
					read("CanGoNext", "b"),
					read("CanGoPrevious", "b"),
					read("CanPlay", "b"),
					read("CanPause", "b"),
					read("CanSeek", "b"),
					read("CanControl", "b"),
				},
				Signals: []introspect.Signal{
					{Name: "Seeked", Args: []introspect.Arg{{Name: "Position", Type: "x"}}},
				},
			},
		},
	}
}

var _ ports.RemoteControl = (*Server)(nil)
