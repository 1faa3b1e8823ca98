// Package utils provides small helpers shared across captivegate.
//
//   - MAC: canonical 6-byte hardware address with the two text encodings
//     used by the kernel module (bare uppercase hex) and by ARP read paths
//     (colon-separated).
//   - URLEncode: percent-encoding for auth server redirect parameters.
//   - Validation: DNS names, dotted-quad IPv4 literals, ports and
//     line-safe tokens.
//
// Example:
//
//	mac, err := utils.ParseMAC("aa:bb:cc:dd:ee:ff")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(mac)         // AABBCCDDEEFF
//	fmt.Println(mac.Colon()) // AA:BB:CC:DD:EE:FF
package utils
