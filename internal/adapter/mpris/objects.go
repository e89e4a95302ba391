package mpris

import (
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/tejashwikalptaru/subtune/internal/domain"
)

// player implements the org.mpris.MediaPlayer2.Player methods.
type player struct {
	s *Server
}

func (p player) Next() *dbus.Error {
	p.s.send(domain.RemoteCommand{Kind: domain.CommandNext})
	return nil
}

func (p player) Previous() *dbus.Error {
	p.s.send(domain.RemoteCommand{Kind: domain.CommandPrevious})
	return nil
}

func (p player) Pause() *dbus.Error {
	p.s.send(domain.RemoteCommand{Kind: domain.CommandPause})
	return nil
}

func (p player) PlayPause() *dbus.Error {
	p.s.send(domain.RemoteCommand{Kind: domain.CommandPlayPause})
	return nil
}

func (p player) Stop() *dbus.Error {
	p.s.send(domain.RemoteCommand{Kind: domain.CommandStop})
	return nil
}

func (p player) Play() *dbus.Error {
	p.s.send(domain.RemoteCommand{Kind: domain.CommandPlay})
	return nil
}

// Seek offset is in microseconds.
func (p player) Seek(offset int64) *dbus.Error {
	p.s.send(domain.RemoteCommand{Kind: domain.CommandSeek, Offset: time.Duration(offset) * time.Microsecond})
	return nil
}

func (p player) SetPosition(_ dbus.ObjectPath, position int64) *dbus.Error {
	p.s.send(domain.RemoteCommand{Kind: domain.CommandSetPosition, Offset: time.Duration(position) * time.Microsecond})
	return nil
}

func (p player) OpenUri(string) *dbus.Error {
	return nil
}

// root implements the org.mpris.MediaPlayer2 methods. Neither is supported.
type root struct{}

func (root) Raise() *dbus.Error { return nil }
func (root) Quit() *dbus.Error  { return nil }

// properties implements org.freedesktop.DBus.Properties for both interfaces.
type properties struct {
	s *Server
}

func (p properties) all(iface string) (map[string]dbus.Variant, *dbus.Error) {
	switch iface {
	case RootInterface:
		return p.s.rootProperties(), nil
	case PlayerInterface:
		return p.s.playerProperties(), nil
	default:
		return nil, dbus.NewError("org.freedesktop.DBus.Error.UnknownInterface", []interface{}{"unknown interface " + iface})
	}
}

func (p properties) Get(iface, name string) (dbus.Variant, *dbus.Error) {
	props, err := p.all(iface)
	if err != nil {
		return dbus.Variant{}, err
	}
	v, ok := props[name]
	if !ok {
		return dbus.Variant{}, dbus.NewError("org.freedesktop.DBus.Error.UnknownProperty", []interface{}{"unknown property " + name})
	}
	return v, nil
}

func (p properties) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	return p.all(iface)
}

// Set accepts only Player.Volume. The new volume is forwarded as a command;
// the exported value changes once playback reports it.
func (p properties) Set(iface, name string, value dbus.Variant) *dbus.Error {
	if _, err := p.Get(iface, name); err != nil {
		return err
	}
	if iface != PlayerInterface || name != "Volume" {
		return dbus.NewError("org.freedesktop.DBus.Error.PropertyReadOnly", []interface{}{name + " is read-only"})
	}
	volume, ok := value.Value().(float64)
	if !ok {
		return dbus.NewError("org.freedesktop.DBus.Error.InvalidArgs", []interface{}{"Volume must be a double"})
	}
	p.s.send(domain.RemoteCommand{Kind: domain.CommandSetVolume, Volume: volume})
	return nil
}
