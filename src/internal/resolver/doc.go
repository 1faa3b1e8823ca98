// Package resolver turns domain rules into destination commands.
//
// A rule whose domain is a dotted-quad IPv4 literal is applied at once. Any
// other domain is looked up in the background and, when the lookup
// succeeds, every returned address is applied in the order the resolver
// gave it. Failed lookups apply nothing and are only logged and counted.
package resolver
