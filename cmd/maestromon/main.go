package main

import (
	"flag"
	"log"

	"github.com/robotalks/maestro.go/pkg/bridge"
)

var (
	filter = "maestro/#"
)

func init() {
	flag.StringVar(&filter, "filter", filter, "Topic filter below the MQTT prefix.")
	bridge.SetupFlags()
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := bridge.NewQueueFromURL(bridge.Default().BrokerURL)
	if err != nil {
		log.Fatalln(err)
	}
	token := q.Connect()
	if token.Wait(); token.Error() != nil {
		log.Fatalln(token.Error())
	}
	q.Sub(filter, bridge.Handler(func(topic string, payload []byte) {
		if len(payload) == 0 {
			log.Printf("%s: <empty>", topic)
			return
		}
		log.Printf("%s: %s", topic, string(payload))
	}))
	<-(chan struct{})(nil)
}
