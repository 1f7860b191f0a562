// Package output serializes transformed trees and delivers them to their
// destination.
//
// The package is organized around three concerns:
//
//   - Serialization (serializer.go): JSON and YAML text that keeps the key
//     order of ordered trees, with a configurable indent.
//
//   - Writers (writer.go): Pluggable output destinations via the [Writer]
//     interface, with [StreamWriter] and [FileWriter] implementations.
//
//   - Registry (registry.go): Format names mapped to serializers, so the
//     CLI can resolve --output-format without a switch.
package output
