package netinfo

import (
	"fmt"
	"net"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

// Mock types for testing

type mockNetlinkLink struct {
	name  string
	up    bool
	index int
	mac   net.HardwareAddr
}

func (m *mockNetlinkLink) Attrs() *netlink.LinkAttrs {
	flags := net.Flags(0)
	if m.up {
		flags |= net.FlagUp
	}
	return &netlink.LinkAttrs{
		Name:         m.name,
		Index:        m.index,
		Flags:        flags,
		HardwareAddr: m.mac,
	}
}

func (m *mockNetlinkLink) Type() string { return "mock" }

type mockNetlink struct {
	links   []*mockNetlinkLink
	addrs   map[string][]netlink.Addr
	neighs  map[int][]netlink.Neigh
	failAll error
}

func (m *mockNetlink) LinkByName(name string) (netlink.Link, error) {
	if m.failAll != nil {
		return nil, m.failAll
	}
	for _, l := range m.links {
		if l.name == name {
			return l, nil
		}
	}
	return nil, fmt.Errorf("link %s not found: %w", name, unix.ENODEV)
}

func (m *mockNetlink) LinkList() ([]netlink.Link, error) {
	if m.failAll != nil {
		return nil, m.failAll
	}
	links := make([]netlink.Link, 0, len(m.links))
	for _, l := range m.links {
		links = append(links, l)
	}
	return links, nil
}

func (m *mockNetlink) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	if family != netlink.FAMILY_V4 {
		return nil, fmt.Errorf("unexpected family %d", family)
	}
	return m.addrs[link.Attrs().Name], nil
}

func (m *mockNetlink) NeighList(linkIndex, family int) ([]netlink.Neigh, error) {
	if family != netlink.FAMILY_V4 {
		return nil, fmt.Errorf("unexpected family %d", family)
	}
	return m.neighs[linkIndex], nil
}

func mustAddr(cidr string, flags int) netlink.Addr {
	addr, err := netlink.ParseAddr(cidr)
	if err != nil {
		panic(err)
	}
	addr.Flags = flags
	return *addr
}

func mustMAC(s string) net.HardwareAddr {
	mac, err := net.ParseMAC(s)
	if err != nil {
		panic(err)
	}
	return mac
}
