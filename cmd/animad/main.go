// Package main is a service that plays Timelines on an in-memory page
// and streams the resulting transitions and animations to clients
// over Websockets and MQTT.
package main

import (
	"context"
	"flag"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/Comcast/anima/loader"
	"github.com/Comcast/anima/storage"
	"github.com/Comcast/anima/storage/bolt"
	"github.com/Comcast/anima/timers"
)

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.LUTC)
}

func main() {

	var (
		httpPort    = flag.String("h", ":8080", "HTTP service port")
		httpDir     = flag.String("d", "", "optional directory that the HTTP service will serve")
		storeFile   = flag.String("p", "", "optional filename for persistence (otherwise in-memory)")
		websockets  = flag.Bool("w", true, "start Web sockets service")
		pageFile    = flag.String("page", "page.html", "page HTML")
		timelineDir = flag.String("s", "", "optional directory of timeline files to store at startup")
		replay      = flag.String("replay", "", "optional cron expression for replaying the page")
		mq          = flag.Bool("mqtt", false, "bridge to an MQTT broker (flags after --)")
		maxTimers   = flag.Int("max-timers", 1024, "maximum number of pending timers")
		debug       = flag.Bool("debug", false, "verbose logging")
	)

	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, os.Interrupt)
		<-sigs
		log.Printf("interrupted")
		cancel()
	}()

	page, err := ioutil.ReadFile(*pageFile)
	if err != nil {
		log.Fatal(err)
	}

	var store storage.Store
	if *storeFile == "" {
		store = storage.NewMemStore()
	} else {
		bs, err := bolt.NewStorage(*storeFile)
		if err != nil {
			log.Fatal(err)
		}
		bs.Debug = *debug
		store = bs
	}
	if err = store.Open(ctx); err != nil {
		log.Fatal(err)
	}
	defer store.Close(ctx)

	if *timelineDir != "" {
		tls, err := loader.ReadDir(ctx, *timelineDir)
		if err != nil {
			log.Fatal(err)
		}
		if err = storage.PutAll(ctx, store, tls); err != nil {
			log.Fatal(err)
		}
	}

	ts, err := timers.NewTimers(*maxTimers)
	if err != nil {
		log.Fatal(err)
	}
	ts.Debug = *debug
	go func() {
		if err := ts.Run(ctx); err != nil {
			log.Printf("Timers.Run: %v", err)
		}
	}()
	if !ts.Wait(5 * time.Second) {
		log.Fatal("timers didn't start")
	}

	s := NewServer(ts, store, string(page))
	s.Debug = *debug

	if err = s.LoadStored(ctx); err != nil {
		log.Fatal(err)
	}

	if *replay != "" {
		if err = s.ReplayOn(ctx, *replay); err != nil {
			log.Fatal(err)
		}
	}

	if *mq {
		b, _, err := NewMQTTBridge(ctx, s, flag.Args())
		if err != nil {
			log.Fatal(err)
		}
		if err = b.Start(ctx); err != nil {
			log.Fatal(err)
		}
	}

	mux := http.NewServeMux()
	s.Routes(ctx, mux)
	if *websockets {
		s.WebSockets(ctx, mux, *httpPort)
	}
	if *httpDir != "" {
		fs := http.FileServer(http.Dir(*httpDir))
		mux.Handle("/f/", http.StripPrefix("/f", fs))
	}

	if err = s.HTTPServer(ctx, *httpPort, mux); err != nil {
		log.Fatal(err)
	}

	log.Printf("main terminating")
}
