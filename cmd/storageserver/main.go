// Command storageserver runs one storage server: a local filesystem
// adapter rooted at a chosen directory, exposed over the data and
// command interfaces, registered with a naming server at startup.
package main

import (
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/avneet-kaur/dfs/errors"
	"github.com/avneet-kaur/dfs/flags"
	"github.com/avneet-kaur/dfs/log"
	"github.com/avneet-kaur/dfs/storage"
)

var rootCmd = &cobra.Command{
	Use:   "storageserver",
	Short: "Run a distributed filesystem storage server",
	RunE:  run,
}

func init() {
	flags.RegisterStorageFlags(rootCmd.Flags())
}

func run(cmd *cobra.Command, args []string) error {
	flags.ApplyLogLevel()

	if flags.StorageRoot == "" {
		return errors.E(errors.Op("storageserver.run"), errors.IllegalArgument, errors.Str("--root is required"))
	}

	registerAddr := net.JoinHostPort(flags.NamingHost, portOf(flags.RegisterAddr))
	srv, err := storage.Start(flags.StorageRoot, flags.StorageHost, flags.StorageDataAddr, flags.StorageCommandAddr, registerAddr)
	if err != nil {
		return err
	}
	log.Info("storage server listening",
		log.F("root", flags.StorageRoot),
		log.F("dataAddr", srv.DataAddr),
		log.F("commandAddr", srv.CommandAddr))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info("storage server shutting down")
	srv.Stop()
	return nil
}

func portOf(addr string) string {
	_, p, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return p
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
