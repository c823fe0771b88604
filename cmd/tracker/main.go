package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/FireFighterProject/fire-dispatch/config"
	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
	"github.com/FireFighterProject/fire-dispatch/module/core/tracking"
)

func main() {
	config.InitLogging()

	rootCmd := &cobra.Command{
		Use:   "tracker",
		Short: "Crew-side live position sharing for a dispatched fire vehicle",
		RunE: func(c *cobra.Command, args []string) error {
			return run(c.Context())
		},
	}

	flags := rootCmd.Flags()
	flags.String("server", "http://localhost:8080", "dispatch server base URL")
	flags.String("vehicle", "", "vehicle id to report as")
	flags.String("route", "route.yaml", "route file replayed as the device position")
	flags.Float64("target-lat", 0, "dispatch target latitude")
	flags.Float64("target-lng", 0, "dispatch target longitude")
	flags.Duration("interval", tracking.DefaultPushInterval, "push interval")
	flags.Duration("timeout", 5*time.Second, "push request timeout")

	viper.SetEnvPrefix("TRACKER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.BindPFlags(flags); err != nil {
		log.Fatalf("bind flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	vehicleID := viper.GetString("vehicle")
	if vehicleID == "" {
		return fmt.Errorf("--vehicle (or TRACKER_VEHICLE) is required")
	}

	route, err := tracking.LoadRoute(viper.GetString("route"))
	if err != nil {
		return err
	}

	var target *domain.LatLng
	if viper.IsSet("target-lat") && viper.IsSet("target-lng") {
		target = &domain.LatLng{Lat: viper.GetFloat64("target-lat"), Lng: viper.GetFloat64("target-lng")}
	}

	session := tracking.NewSession(tracking.Config{
		VehicleID:    vehicleID,
		Target:       target,
		PushInterval: viper.GetDuration("interval"),
	}, tracking.NewRouteReplay(route), tracking.NewHTTPPusher(viper.GetString("server"), viper.GetDuration("timeout")))

	log.Printf("session %s for vehicle %s", session.ID(), vehicleID)

	p := newPrompt(session, os.Stdin, os.Stdout)
	err = p.loop(ctx)

	// interrupted while sharing: stop pushing before exit
	if st := session.Status(); st.State != tracking.Ended && st.State != tracking.Idle {
		_ = session.End(true)
	}
	return err
}
