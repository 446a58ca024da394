package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/robotalks/toyctl/pkg/msgs"
	"github.com/robotalks/toyctl/pkg/transport/mqtt"
)

var (
	mqttURL = "mqtt://localhost:1883/"
)

func init() {
	if val := os.Getenv("TOYCTL_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}

	q.Sub("#", mqtt.Handler(func(topic string, payload []byte) {
		switch {
		case strings.HasSuffix(topic, "/"+mqtt.TopicState):
			state, err := msgs.DecodeBankState(payload)
			if err != nil {
				log.Printf("%s: bad state: %v", topic, err)
				return
			}
			log.Printf("%s: %v", topic, state.Angles())
		case strings.HasSuffix(topic, "/"+mqtt.TopicCmdFrame):
			log.Printf("%s: % x", topic, payload)
		default:
			log.Printf("%s: %s", topic, string(payload))
		}
	}))
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}
	<-(chan struct{})(nil)
}
