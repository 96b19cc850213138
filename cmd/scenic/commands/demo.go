package commands

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"scenic/viewer"
)

func demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Serve a demo scene of colored primitives",
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
			log.Printf("open %s in a browser", v.URL())

			if err := v.WaitForBrowser(context.Background()); err != nil {
				return err
			}
			if err := buildDemoScene(v); err != nil {
				return err
			}

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop
			return nil
		},
	}
}

func buildDemoScene(v *viewer.Viewer) error {
	v.Clear()
	v.StopAnimation()

	if err := v.AddBox("ground", 10, 10, 0.05, viewer.Options{
		Color:    0x444444,
		Position: [3]float64{0, 0, -0.025},
	}); err != nil {
		return err
	}

	rainbow := []int{0xFF0000, 0xFF7F00, 0xFFFF00, 0x00FF00, 0x0000FF, 0x8B00FF}
	for i, color := range rainbow {
		x := (float64(i) - 2.5) * 1.5
		if err := v.AddSphere(spriteID("sphere", i), 0.4, viewer.Options{
			Color:    color,
			Position: [3]float64{x, 0, 0.4},
		}); err != nil {
			return err
		}
	}

	for i := 0; i < 4; i++ {
		angle := float64(i) * math.Pi / 4
		if err := v.AddBox(spriteID("box", i), 0.6, 0.6, 1.2, viewer.Options{
			Color:    0x4A90D9,
			Position: [3]float64{3 * math.Cos(angle), 3 * math.Sin(angle), 0.6},
			Rotation: [3]float64{0, 0, angle},
		}); err != nil {
			return err
		}
	}

	pillars := [][2]float64{{-4, -4}, {-4, 4}, {4, -4}, {4, 4}}
	for i, p := range pillars {
		if err := v.AddCylinder(spriteID("pillar", i), 0.3, 0.4, 2.0, viewer.Options{
			Color:    0xB87333,
			Position: [3]float64{p[0], p[1], 1.0},
		}); err != nil {
			return err
		}
	}
	return nil
}

func spriteID(prefix string, i int) string {
	return fmt.Sprintf("%s_%d", prefix, i)
}
