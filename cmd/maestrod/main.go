package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	"github.com/robotalks/maestro.go/pkg/bridge"
	fx "github.com/robotalks/maestro.go/pkg/framework"
	"github.com/robotalks/maestro.go/pkg/maestro"
)

func init() {
	maestro.SetupFlags()
	bridge.SetupFlags()
}

func main() {
	flag.Parse()

	session := maestro.Default().MustOpen()
	b, err := bridge.New(bridge.Default(), session)
	if err != nil {
		session.Close()
		log.Fatalln(err)
	}
	loop := fx.NewLoop().Add(b)
	err = session.Use(func(*maestro.Session) error {
		return fx.NewRunner().HandleSignals().Go(loop).Wait()
	})
	if err != nil {
		log.Fatalln(err)
	}
}
