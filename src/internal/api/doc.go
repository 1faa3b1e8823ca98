// Package api provides the local control API of captivegate.
//
// The API maps one-to-one onto the gate operations so that a portal or
// an operator script can admit clients without going through the CLI:
//   - gating enable/disable on the captive interface
//   - pre-auth destination and domain rules
//   - terminal admit, evict and whitelist
//   - interface and ARP queries, login URL rendering
//   - health, status and Prometheus metrics
//
// Only loopback and private-network clients are served.
//
// # Response Format
//
// Successful responses wrap data in a "data" field:
//
//	{
//	  "data": { /* response payload */ }
//	}
//
// Error responses use the following format:
//
//	{
//	  "error": {
//	    "code": "channel_unavailable",
//	    "message": "Human-readable error message",
//	    "details": { /* optional context */ }
//	  }
//	}
package api
