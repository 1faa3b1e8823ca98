// Package config handles configuration file parsing and validation for captivegate.
//
// The configuration is a TOML file with the following sections:
//   - [general]: gated interface, portal ports, temporary pass and client
//     timeouts, auth server login URL template
//   - [kernel]: control file directory of the enforcement module and the
//     write timeout
//   - [dns]: upstream resolvers for domain rules
//   - [api]: local control API
//   - [policy]: pre-auth domains and whitelisted MACs applied at startup
//
// Missing sections and zero values are filled with defaults before
// validation. Validation uses go-playground/validator with field paths
// reported by their TOML names.
//
// Typical lifecycle:
//
//	provider := config.NewProvider()
//	if err := provider.Init("/etc/captivegate.toml"); err != nil {
//	    log.Fatalf("%v", err)
//	}
//	defer provider.Deinit()
//	cfg, _ := provider.Get()
package config
