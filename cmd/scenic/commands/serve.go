package commands

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"scenic/bridge"
	"scenic/viewer"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run a standalone viewer server",
		Long: "Run the viewer server without a controlling program. With an MQTT\n" +
			"broker configured, transform batches published to the transform topic\n" +
			"drive the scene.",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := readConfig()
			if err != nil {
				return err
			}

			v, err := viewer.New(config.Server)
			if err != nil {
				return err
			}
			defer v.Close()
			log.Printf("viewer at %s", v.URL())

			if config.Mqtt.URL != "" {
				b := bridge.New(config.Mqtt, v)
				if err := b.Connect(); err != nil {
					return err
				}
				defer b.Close()
			}

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop
			log.Println("shutting down")
			return nil
		},
	}
}
