package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"strings"

	"github.com/Comcast/anima/loader"
	"github.com/Comcast/anima/storage"
	"github.com/Comcast/anima/tools"
)

// Routes adds the HTTP API to the mux.
//
//	POST /api              an Op (JSON), which is returned with results
//	GET  /timelines        names of stored Timelines
//	GET  /timelines/NAME   a stored Timeline (JSON)
//	PUT  /timelines/NAME   store a Timeline (YAML or JSON)
//	GET  /doc/NAME         HTML documentation for a stored Timeline
//	GET  /dom              the current document
func (s *Server) Routes(ctx context.Context, mux *http.ServeMux) {

	complain := func(w http.ResponseWriter, x interface{}, status int) {
		w.WriteHeader(status)
		fmt.Fprintf(w, `{"error":%q}`+"\n", fmt.Sprint(x))
	}

	reply := func(w http.ResponseWriter, x interface{}) {
		js, err := json.Marshal(x)
		if err != nil {
			complain(w, err, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err = w.Write(js); err != nil {
			log.Printf("Server.HTTPServer warning on Write(): %v", err)
		}
	}

	status := func(err error) int {
		if err == storage.NotFound {
			return http.StatusNotFound
		}
		return http.StatusInternalServerError
	}

	mux.HandleFunc("/api", func(w http.ResponseWriter, r *http.Request) {
		js, err := ioutil.ReadAll(r.Body)
		if err != nil {
			complain(w, err, http.StatusBadRequest)
			return
		}
		op, err := ParseOp(js)
		if err != nil {
			complain(w, err, http.StatusBadRequest)
			return
		}
		if err = op.Do(ctx, s); err != nil {
			complain(w, err, http.StatusInternalServerError)
			return
		}
		reply(w, op)
	})

	mux.HandleFunc("/timelines", func(w http.ResponseWriter, r *http.Request) {
		names, err := s.Store.List(ctx)
		if err != nil {
			complain(w, err, status(err))
			return
		}
		reply(w, names)
	})

	mux.HandleFunc("/timelines/", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/timelines/")
		if name == "" {
			complain(w, "no timeline name", http.StatusBadRequest)
			return
		}

		switch r.Method {
		case http.MethodGet:
			tl, err := s.Store.Get(ctx, name)
			if err != nil {
				complain(w, err, status(err))
				return
			}
			reply(w, tl)

		case http.MethodPut, http.MethodPost:
			bs, err := ioutil.ReadAll(r.Body)
			if err != nil {
				complain(w, err, http.StatusBadRequest)
				return
			}
			// YAML is a superset of JSON.
			tls, err := loader.FromYAML(name, bs)
			if err != nil {
				complain(w, err, http.StatusBadRequest)
				return
			}
			if len(tls) != 1 {
				complain(w, "need exactly one timeline", http.StatusBadRequest)
				return
			}
			tls[0].Name = name
			if err = s.Store.Put(ctx, tls[0]); err != nil {
				complain(w, err, status(err))
				return
			}
			reply(w, tls[0])

		case http.MethodDelete:
			if err := s.Store.Rem(ctx, name); err != nil {
				complain(w, err, status(err))
				return
			}
			reply(w, name)

		default:
			complain(w, r.Method, http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/doc/", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/doc/")
		tl, err := s.Store.Get(ctx, name)
		if err != nil {
			complain(w, err, status(err))
			return
		}
		w.Header().Set("Content-Type", "text/html")
		if err = tools.RenderTimelinePage(tl, w, nil, true); err != nil {
			log.Printf("Server.HTTPServer RenderTimelinePage: %v", err)
		}
	})

	mux.HandleFunc("/dom", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if err := s.Render(ctx, w); err != nil {
			complain(w, err, http.StatusServiceUnavailable)
		}
	})
}

// HTTPServer serves the mux until the context is done.
func (s *Server) HTTPServer(ctx context.Context, port string, mux *http.ServeMux) error {
	log.Printf("Server.HTTPServer starting on %s", port)

	srv := &http.Server{
		Addr:    port,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
