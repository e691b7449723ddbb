// Command fskrx runs a single 4-FSK receiver session against a configured
// transport, logging validated packets and optionally publishing them to
// MQTT and exposing Prometheus metrics.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cwsl/fskrx/config"
	"github.com/cwsl/fskrx/framer"
	"github.com/cwsl/fskrx/message"
	"github.com/cwsl/fskrx/metrics"
	"github.com/cwsl/fskrx/publish"
	"github.com/cwsl/fskrx/recorder"
	"github.com/cwsl/fskrx/session"
	"github.com/cwsl/fskrx/transport"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file (defaults to the built-in reference tone plan)")
	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			log.Fatalf("[fskrx] loading config: %v", err)
		}
		cfg = loaded
	}

	ch, err := buildTransport(cfg.Transport)
	if err != nil {
		log.Fatalf("[fskrx] building transport: %v", err)
	}

	var mqttPub *publish.MQTT
	if cfg.MQTT.Enabled {
		mqttPub, err = publish.NewMQTT(cfg.MQTT)
		if err != nil {
			log.Fatalf("[fskrx] connecting to MQTT: %v", err)
		}
		defer mqttPub.Disconnect(250)
	}

	var rec *recorder.Recorder
	listener := framer.Listener{
		OnPacket: func(payload []byte) {
			log.Printf("[fskrx] packet: %d bytes", len(payload))
			if decoded, ok := message.Decode(payload); ok {
				log.Printf("[fskrx] message src=%d dst=%d type=%d data=%q",
					decoded.Src, decoded.Dst, decoded.Type, message.ToText(decoded.Data))
			}
			if mqttPub != nil {
				mqttPub.PublishPacket(payload)
			}
		},
	}
	if cfg.Recorder.Enabled {
		rec, err = recorder.New(cfg.Recorder.Path, cfg.Recorder.Compressed)
		if err != nil {
			log.Fatalf("[fskrx] opening recorder: %v", err)
		}
		defer rec.Close()
		listener.OnByteProgress = rec.OnByteProgress()
	}

	params := framer.NewParams(
		cfg.Receiver.SampleRate,
		cfg.Receiver.SymbolMS,
		cfg.Receiver.Freq,
		cfg.Receiver.PreambleSyms,
		cfg.Receiver.Sync,
	)

	m := metrics.NewReceiver()
	sess := session.New(params, ch, listener, m)

	if cfg.Prometheus.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			log.Printf("[fskrx] metrics listening on %s", cfg.Prometheus.Listen)
			if err := http.ListenAndServe(cfg.Prometheus.Listen, mux); err != nil {
				log.Printf("[fskrx] metrics server exited: %v", err)
			}
		}()
	}

	sess.Start()
	log.Printf("[fskrx] session %s running", sess.ID)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("[fskrx] shutting down")
	sess.Stop()
}

func buildTransport(cfg config.TransportConfig) (transport.Channel, error) {
	switch cfg.Kind {
	case "", "loopback":
		return transport.NewLoopback(), nil
	case "websocket":
		return nil, fmt.Errorf("websocket transport requires an already-dialed connection; wire it up in-process via transport.NewWebSocketChannel")
	default:
		return nil, fmt.Errorf("unknown transport kind %q", cfg.Kind)
	}
}
