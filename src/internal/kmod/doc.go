// Package kmod is the write-only control channel to the captive portal
// kernel module.
//
// The module exposes three control files, by default under /proc/wifidog-ng:
//
//	config  interface=<name>\n enabled=<0|1>\n   bind and enable, or disable
//	ip      <+|-><ipv4>\n                        pre-auth destination allow/deny
//	term    <+|?|-|!><MAC> <token>\n             admit, temp admit, evict, whitelist
//
// Every command opens the file, writes the complete payload with one
// write call and closes it again; no handle is kept between calls and
// nothing is read back. A successful return means the kernel accepted the
// write, not that it has applied it.
//
// Writers to the same file are serialised in FIFO order so lines from
// concurrent callers never interleave. The optional write timeout bounds
// both the wait for the channel and the write itself. When it expires
// during the write the caller gets TIMEOUT while the write may still land;
// the channel stays locked until it does.
package kmod
