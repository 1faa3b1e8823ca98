package netinfo

import (
	stderrors "errors"
	"fmt"
	"net"
	"net/netip"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"

	"github.com/captivegate/captivegate/src/internal/errors"
	"github.com/captivegate/captivegate/src/internal/log"
	"github.com/captivegate/captivegate/src/internal/utils"
)

// InterfaceBinding is the snapshot of the gated interface handed to the
// kernel module when gating is enabled.
type InterfaceBinding struct {
	Name      string     `json:"name"`
	Index     int        `json:"ifindex"`
	IP        netip.Addr `json:"ip"`
	Mask      netip.Addr `json:"netmask"`
	Broadcast netip.Addr `json:"broadcast"`
}

// InterfaceInfo is a short description of a link for listings.
type InterfaceInfo struct {
	Name  string `json:"name"`
	Index int    `json:"ifindex"`
	MAC   string `json:"mac,omitempty"`
	Up    bool   `json:"up"`
	IPv4  string `json:"ipv4,omitempty"`
}

// Resolver performs interface and neighbour lookups.
type Resolver struct {
	nl Netlink
}

// NewResolver creates a resolver backed by the host netlink socket.
func NewResolver() *Resolver {
	return &Resolver{nl: systemNetlink{}}
}

// NewResolverWithNetlink creates a resolver on top of the given netlink implementation.
func NewResolverWithNetlink(nl Netlink) *Resolver {
	return &Resolver{nl: nl}
}

// InterfaceIPv4 returns the primary IPv4 address of the interface in dotted-quad form.
func (r *Resolver) InterfaceIPv4(name string) (string, error) {
	addr, _, err := r.primaryIPv4(name)
	if err != nil {
		return "", err
	}
	return addr.String(), nil
}

// InterfaceMAC returns the hardware address of the interface as 12 uppercase hex digits.
func (r *Resolver) InterfaceMAC(name string) (string, error) {
	mac, err := r.interfaceMAC(name)
	if err != nil {
		return "", err
	}
	return mac.String(), nil
}

// ARPLookup returns the MAC of ip on iface as colon-separated hex.
func (r *Resolver) ARPLookup(iface, ip string) (string, error) {
	mac, err := r.Neighbour(iface, ip)
	if err != nil {
		return "", err
	}
	return mac.Colon(), nil
}

// Neighbour is ARPLookup returning the canonical MAC.
func (r *Resolver) Neighbour(iface, ip string) (utils.MAC, error) {
	addr, ok := utils.ParseIPv4Literal(ip)
	if !ok {
		return utils.MAC{}, errors.NewValidationError(fmt.Sprintf("invalid IPv4 address %q", ip), nil)
	}

	link, err := r.link(iface)
	if err != nil {
		return utils.MAC{}, err
	}

	neighs, err := r.nl.NeighList(link.Attrs().Index, netlink.FAMILY_V4)
	if err != nil {
		return utils.MAC{}, errors.NewTransportError(fmt.Sprintf("failed to list neighbours on %s", iface), err)
	}

	target := net.IP(addr.AsSlice())
	for _, n := range neighs {
		if !n.IP.Equal(target) || !usableNeighState(n.State) {
			continue
		}
		mac, err := utils.MACFromBytes(n.HardwareAddr)
		if err != nil || mac.IsZero() {
			continue
		}
		log.Debugf("ARP %s on %s is %s", ip, iface, mac.Colon())
		return mac, nil
	}

	return utils.MAC{}, errors.NewNotFoundError(fmt.Sprintf("no ARP entry for %s on %s", ip, iface), nil)
}

// Binding returns the full interface binding (index, address, mask, broadcast).
func (r *Resolver) Binding(name string) (*InterfaceBinding, error) {
	addr, link, err := r.primaryIPv4(name)
	if err != nil {
		return nil, err
	}

	ip, _ := netip.AddrFromSlice(addr.IP.To4())
	mask, _ := netip.AddrFromSlice(net.IP(addr.Mask))

	var broadcast netip.Addr
	if b := addr.Broadcast.To4(); b != nil && !b.IsUnspecified() {
		broadcast, _ = netip.AddrFromSlice(b)
	} else {
		broadcast = broadcastOf(ip, mask)
	}

	return &InterfaceBinding{
		Name:      name,
		Index:     link.Attrs().Index,
		IP:        ip,
		Mask:      mask.Unmap(),
		Broadcast: broadcast,
	}, nil
}

// Interfaces lists all links with their first IPv4 address, if any.
func (r *Resolver) Interfaces() ([]InterfaceInfo, error) {
	links, err := r.nl.LinkList()
	if err != nil {
		return nil, errors.NewTransportError("failed to list interfaces", err)
	}

	infos := make([]InterfaceInfo, 0, len(links))
	for _, link := range links {
		attrs := link.Attrs()
		info := InterfaceInfo{
			Name:  attrs.Name,
			Index: attrs.Index,
			Up:    attrs.Flags&net.FlagUp != 0,
		}
		if mac, err := utils.MACFromBytes(attrs.HardwareAddr); err == nil {
			info.MAC = mac.Colon()
		}
		if addr, err := r.firstIPv4(link); err == nil {
			info.IPv4 = addr.IP.String()
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (r *Resolver) interfaceMAC(name string) (utils.MAC, error) {
	link, err := r.link(name)
	if err != nil {
		return utils.MAC{}, err
	}
	mac, err := utils.MACFromBytes(link.Attrs().HardwareAddr)
	if err != nil {
		return utils.MAC{}, errors.NewNotFoundError(fmt.Sprintf("interface %s has no Ethernet hardware address", name), err)
	}
	return mac, nil
}

func (r *Resolver) link(name string) (netlink.Link, error) {
	link, err := r.nl.LinkByName(name)
	if err != nil {
		var notFound netlink.LinkNotFoundError
		if stderrors.As(err, &notFound) || stderrors.Is(err, unix.ENODEV) {
			return nil, errors.NewNotFoundError(fmt.Sprintf("interface %s does not exist", name), err)
		}
		return nil, errors.NewTransportError(fmt.Sprintf("failed to query interface %s", name), err)
	}
	return link, nil
}

func (r *Resolver) primaryIPv4(name string) (*netlink.Addr, netlink.Link, error) {
	link, err := r.link(name)
	if err != nil {
		return nil, nil, err
	}
	addr, err := r.firstIPv4(link)
	if err != nil {
		return nil, nil, err
	}
	return addr, link, nil
}

// firstIPv4 prefers a primary address, the same one SIOCGIFADDR reports.
func (r *Resolver) firstIPv4(link netlink.Link) (*netlink.Addr, error) {
	name := link.Attrs().Name
	addrs, err := r.nl.AddrList(link, netlink.FAMILY_V4)
	if err != nil {
		return nil, errors.NewTransportError(fmt.Sprintf("failed to list addresses of %s", name), err)
	}

	var secondary *netlink.Addr
	for i := range addrs {
		a := &addrs[i]
		if a.IPNet == nil || a.IP.To4() == nil {
			continue
		}
		if a.Flags&unix.IFA_F_SECONDARY == 0 {
			return a, nil
		}
		if secondary == nil {
			secondary = a
		}
	}
	if secondary != nil {
		return secondary, nil
	}
	return nil, errors.NewNotFoundError(fmt.Sprintf("interface %s has no IPv4 address", name), nil)
}

func usableNeighState(state int) bool {
	return state&(netlink.NUD_INCOMPLETE|netlink.NUD_FAILED) == 0 && state != netlink.NUD_NONE
}

func broadcastOf(ip, mask netip.Addr) netip.Addr {
	if !ip.Is4() || !mask.Unmap().Is4() {
		return netip.Addr{}
	}
	a, m := ip.As4(), mask.Unmap().As4()
	var b [4]byte
	for i := range b {
		b[i] = a[i] | ^m[i]
	}
	return netip.AddrFrom4(b)
}
