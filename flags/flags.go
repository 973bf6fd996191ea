// Package flags defines the command-line flags shared by the naming
// server and storage server binaries, so both register the same names
// and defaults rather than hand-rolling flag.Parse in each main.
package flags

import (
	"github.com/spf13/pflag"

	"github.com/avneet-kaur/dfs/log"
)

var (
	// NamingAddr is the address the naming server's client-facing
	// service listens on.
	NamingAddr = "localhost:9001"

	// RegisterAddr is the address the naming server's registration
	// service listens on.
	RegisterAddr = "localhost:9002"

	// NamingHost is the hostname storage servers and clients use to
	// reach the naming server; only meaningful from the storage
	// server binary, which dials NamingHost:RegisterAddr's port.
	NamingHost = "localhost"

	// StorageDataAddr is the address a storage server's client-facing
	// data service listens on. Empty means let the OS pick a port.
	StorageDataAddr = ""

	// StorageCommandAddr is the address a storage server's
	// naming-facing command service listens on. Empty means let the
	// OS pick a port.
	StorageCommandAddr = ""

	// StorageHost is the hostname this storage server is reachable at
	// from clients and the naming server.
	StorageHost = "localhost"

	// StorageRoot is the local directory a storage server roots its
	// files under.
	StorageRoot = ""

	// LogLevel sets the level of logging: debug, info, error, disabled.
	LogLevel = "info"
)

// logLevel adapts the LogLevel string flag to the log package's Level
// type, parsed once flags have been read.
func logLevel() log.Level {
	switch LogLevel {
	case "debug":
		return log.Ldebug
	case "info":
		return log.Linfo
	case "error":
		return log.Lerror
	case "disabled":
		return log.Ldisabled
	default:
		return log.Linfo
	}
}

// ApplyLogLevel pushes the parsed LogLevel flag into the log package.
// Call it after pflag parsing, at the top of each binary's run func.
func ApplyLogLevel() {
	log.SetLevel(logLevel())
}

// RegisterNamingFlags adds the flags relevant to the naming server
// binary to fs.
func RegisterNamingFlags(fs *pflag.FlagSet) {
	fs.StringVar(&NamingAddr, "addr", NamingAddr, "address for the client-facing naming service")
	fs.StringVar(&RegisterAddr, "register-addr", RegisterAddr, "address for the storage registration service")
	fs.StringVar(&LogLevel, "log", LogLevel, "level of logging: debug, info, error, disabled")
}

// RegisterStorageFlags adds the flags relevant to the storage server
// binary to fs.
func RegisterStorageFlags(fs *pflag.FlagSet) {
	fs.StringVar(&StorageDataAddr, "data-addr", StorageDataAddr, "address for the client-facing data service (empty: OS-assigned)")
	fs.StringVar(&StorageCommandAddr, "command-addr", StorageCommandAddr, "address for the naming-facing command service (empty: OS-assigned)")
	fs.StringVar(&StorageHost, "host", StorageHost, "hostname this storage server is reachable at")
	fs.StringVar(&StorageRoot, "root", StorageRoot, "local directory this storage server roots its files under")
	fs.StringVar(&NamingHost, "naming-host", NamingHost, "hostname of the naming server")
	fs.StringVar(&RegisterAddr, "naming-register-addr", RegisterAddr, "address of the naming server's registration service")
	fs.StringVar(&LogLevel, "log", LogLevel, "level of logging: debug, info, error, disabled")
}
