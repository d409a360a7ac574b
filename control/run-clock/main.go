package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jrockway/alarm-clock/control/buzzer"
	"github.com/jrockway/alarm-clock/control/clock"
	"github.com/jrockway/alarm-clock/control/config"
	"github.com/jrockway/alarm-clock/control/display"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

var (
	configFile  = flag.StringP("config", "c", "", "yaml file describing the clock hardware; defaults describe the reference board")
	bind        = flag.String("bind", "", "address to bind for debug/metrics server, overriding the config")
	initialTime = flag.String("initial-time", "", "HH:MM:SS to write to the real-time clock at startup, overriding the config")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *bind != "" {
		cfg.Bind = *bind
	}
	if *initialTime != "" {
		cfg.InitialTime = *initialTime
		if err := cfg.Validate(); err != nil {
			log.Fatalf("--initial-time: %v", err)
		}
	}

	if _, err := host.Init(); err != nil {
		log.Fatalf("init periph.io: %v", err)
	}
	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		log.Fatalf("open i2c bus %q: %v", cfg.I2CBus, err)
	}

	hw, err := openHardware(cfg, bus)
	if err != nil {
		log.Fatalf("open hardware: %v", err)
	}

	if cfg.InitialTime != "" {
		t, err := clock.ParseTime(cfg.InitialTime)
		if err != nil {
			log.Fatalf("parse initial time: %v", err)
		}
		if err := hw.rtc.Write(t); err != nil {
			log.Fatalf("set real-time clock to %v: %v", t, err)
		}
		log.Printf("real-time clock set to %v", t)
	}

	buzzerPin, err := pin(cfg.Buzzer)
	if err != nil {
		log.Fatalf("buzzer: %v", err)
	}
	bz := buzzer.New(buzzerPin)

	preview := display.NewPreview()
	model, err := clock.NewModel(hw.rtc, hw.store, bz)
	if err != nil {
		log.Fatalf("init clock: %v", err)
	}
	controller := clock.NewController(model, hw.buttons, display.Multi{hw.display, preview})

	ctx, cancel := context.WithCancel(context.Background())

	http.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/display.png", http.StatusFound)
	})
	http.Handle("/display.png", preview)
	http.Handle("/metrics", promhttp.Handler())

	httpDoneCh := make(chan error)
	httpServer := http.Server{Addr: cfg.Bind}
	go func() {
		log.Printf("http server listening on %s", httpServer.Addr)
		err := httpServer.ListenAndServe()
		select {
		case httpDoneCh <- err:
		case <-ctx.Done():
		}
		close(httpDoneCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	loopDoneCh := make(chan error)
	go func() {
		err := controller.Run(ctx, cfg.FrameInterval)
		select {
		case loopDoneCh <- err:
		case <-ctx.Done():
		}
		close(loopDoneCh)
	}()

	httpAlive := true
	select {
	case err := <-httpDoneCh:
		log.Printf("http server died: %v", err)
		httpAlive = false
	case err := <-loopDoneCh:
		log.Printf("clock loop died: %v", err)
	case <-sigCh:
		log.Printf("interrupt")
	}
	signal.Stop(sigCh)
	cancel()
	// Let a frame in progress finish before the display is blanked underneath it.
	<-loopDoneCh
	if err := hw.blank(); err != nil {
		log.Printf("blank display: %v", err)
	}
	if err := bz.SetSounding(false); err != nil {
		log.Printf("silence buzzer: %v", err)
	}
	if httpAlive {
		tctx, c := context.WithTimeout(context.Background(), time.Second)
		httpServer.Shutdown(tctx)
		c()
	}
	hw.Close()
	bus.Close()
	os.Exit(1)
}
