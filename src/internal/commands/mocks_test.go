package commands

import (
	"fmt"
	"net"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

type mockLink struct {
	attrs netlink.LinkAttrs
}

func (m *mockLink) Attrs() *netlink.LinkAttrs { return &m.attrs }
func (m *mockLink) Type() string              { return "mock" }

// mockNetlink is a host with loopback and a br-lan bridge serving one client.
type mockNetlink struct{}

var (
	lanLink = &mockLink{attrs: netlink.LinkAttrs{
		Name:         "br-lan",
		Index:        3,
		Flags:        net.FlagUp,
		HardwareAddr: net.HardwareAddr{0xa4, 0x5e, 0x60, 0x00, 0x00, 0x01},
	}}
	loLink = &mockLink{attrs: netlink.LinkAttrs{
		Name:  "lo",
		Index: 1,
		Flags: net.FlagUp | net.FlagLoopback,
	}}
)

func (mockNetlink) LinkByName(name string) (netlink.Link, error) {
	switch name {
	case "br-lan":
		return lanLink, nil
	case "lo":
		return loLink, nil
	}
	return nil, fmt.Errorf("link %s not found: %w", name, unix.ENODEV)
}

func (mockNetlink) LinkList() ([]netlink.Link, error) {
	return []netlink.Link{loLink, lanLink}, nil
}

func (mockNetlink) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	var cidr string
	switch link.Attrs().Name {
	case "br-lan":
		cidr = "192.168.1.1/24"
	case "lo":
		cidr = "127.0.0.1/8"
	default:
		return nil, nil
	}
	addr, err := netlink.ParseAddr(cidr)
	if err != nil {
		return nil, err
	}
	return []netlink.Addr{*addr}, nil
}

func (mockNetlink) NeighList(linkIndex, family int) ([]netlink.Neigh, error) {
	if linkIndex != lanLink.attrs.Index {
		return nil, nil
	}
	return []netlink.Neigh{{
		LinkIndex:    linkIndex,
		Family:       netlink.FAMILY_V4,
		State:        netlink.NUD_REACHABLE,
		IP:           net.ParseIP("192.168.1.50"),
		HardwareAddr: net.HardwareAddr{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01},
	}}, nil
}
