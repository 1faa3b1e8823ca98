// Package netinfo answers identity questions about the gated network:
// which IPv4 address and hardware address an interface has, and which MAC
// sits behind a client IP according to the kernel neighbour (ARP) table.
//
// Every query is synchronous and single-shot over netlink; nothing is
// cached and nothing is retried. Missing interfaces, addresses or
// neighbour entries are reported as NOT_FOUND, netlink failures as
// TRANSPORT_ERROR.
package netinfo
