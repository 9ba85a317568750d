package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"

	otfanlz "github.com/nsip/otf-analyze"
	"github.com/peterbourgon/ff/v3"
)

func main() {

	fs := flag.NewFlagSet("otf-analyze", flag.ExitOnError)
	var (
		_            = fs.String("config", "", "config file (optional), json format.")
		serviceName  = fs.String("name", "", "name for this analysis service instance")
		serviceID    = fs.String("id", "", "id for this analysis service instance, leave blank to auto-generate a unique id")
		serviceHost  = fs.String("host", "localhost", "name/address of host for this service")
		servicePort  = fs.Int("port", 0, "port to run service on, if not specified will assign an available port automatically")
		artifactDir  = fs.String("artifactDir", "./artifacts", "directory holding pre-trained classifier and difficulty artifacts")
		encoderURL   = fs.String("encoderUrl", "http://localhost:8080/v1", "base url of the openai-compatible embeddings endpoint")
		encoderModel = fs.String("encoderModel", "", "model name requested from the embeddings endpoint")
		encoderKey   = fs.String("encoderKey", "", "api key for the embeddings endpoint, if required")
	)

	ff.Parse(fs, os.Args[1:],
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.JSONParser),
		ff.WithEnvVarPrefix("OTF_ANALYZE_SRVC"),
	)

	opts := []otfanlz.Option{
		otfanlz.Name(*serviceName),
		otfanlz.ID(*serviceID),
		otfanlz.Host(*serviceHost),
		otfanlz.Port(*servicePort),
		otfanlz.ArtifactDir(*artifactDir),
		otfanlz.EncoderURL(*encoderURL),
		otfanlz.EncoderModel(*encoderModel),
		otfanlz.EncoderKey(*encoderKey),
	}

	srvc, err := otfanlz.New(opts...)
	if err != nil {
		fmt.Printf("\nCannot create otf-analyze service:\n%s\n\n", err)
		return
	}

	srvc.PrintConfig()

	// signal handler for shutdown
	closed := make(chan struct{})
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		<-c
		fmt.Println("\notf-analyze shutting down")
		srvc.Shutdown()
		fmt.Println("otf-analyze closed")
		close(closed)
	}()

	srvc.Start()

	// block until shutdown by sig-handler
	<-closed

}
