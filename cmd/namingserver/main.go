// Command namingserver runs the naming server: the client-facing
// directory service and the registration service storage servers call
// at startup.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/avneet-kaur/dfs/flags"
	"github.com/avneet-kaur/dfs/log"
	"github.com/avneet-kaur/dfs/naming"
)

var rootCmd = &cobra.Command{
	Use:   "namingserver",
	Short: "Run the distributed filesystem's naming server",
	RunE:  run,
}

func init() {
	flags.RegisterNamingFlags(rootCmd.Flags())
}

func run(cmd *cobra.Command, args []string) error {
	flags.ApplyLogLevel()

	srv, err := naming.Start(flags.NamingAddr, flags.RegisterAddr)
	if err != nil {
		return err
	}
	log.Info("naming server listening",
		log.F("clientAddr", srv.ClientSkeleton.Addr()),
		log.F("registerAddr", srv.RegisterSkel.Addr()))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info("naming server shutting down")
	srv.Stop()
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
