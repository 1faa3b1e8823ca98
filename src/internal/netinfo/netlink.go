package netinfo

import (
	"github.com/vishvananda/netlink"
)

// Netlink is the subset of the netlink API used by the resolver.
// *netlink.Handle satisfies it; tests provide fakes.
type Netlink interface {
	LinkByName(name string) (netlink.Link, error)
	LinkList() ([]netlink.Link, error)
	AddrList(link netlink.Link, family int) ([]netlink.Addr, error)
	NeighList(linkIndex, family int) ([]netlink.Neigh, error)
}

// systemNetlink uses the package-level netlink functions, which open a
// fresh netlink socket per request.
type systemNetlink struct{}

func (systemNetlink) LinkByName(name string) (netlink.Link, error) {
	return netlink.LinkByName(name)
}

func (systemNetlink) LinkList() ([]netlink.Link, error) {
	return netlink.LinkList()
}

func (systemNetlink) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	return netlink.AddrList(link, family)
}

func (systemNetlink) NeighList(linkIndex, family int) ([]netlink.Neigh, error) {
	return netlink.NeighList(linkIndex, family)
}
