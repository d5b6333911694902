package main

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// WebSockets adds Websockets support to the HTTP server.
//
// Every client gets every Message.  A client can send Ops, and the
// result of each Op comes back to that client.
func (s *Server) WebSockets(ctx context.Context, mux *http.ServeMux, port string) {

	var upgrader = websocket.Upgrader{} // use default options

	api := func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error", err)
			return
		}
		defer c.Close()

		ctl := make(chan bool)
		defer close(ctl)

		out := make(chan *Message, 64)

		id := c.RemoteAddr().String()
		defer s.Subscribe(id, out)()

		// Only this goroutine writes to the connection.
		replies := make(chan []byte, 8)

		go func() {
			mt := websocket.TextMessage

		LOOP:
			for {
				var js []byte
				select {
				case <-ctl:
					break LOOP
				case <-ctx.Done():
					break LOOP
				case js = <-replies:
				case m := <-out:
					bs, err := json.Marshal(m)
					if err != nil {
						log.Printf("websocket Marshal error %v on %#v", err, m)
						continue
					}
					js = bs
				}
				if err := c.WriteMessage(mt, js); err != nil {
					log.Println("websocket write:", err)
				}
			}
		}()

		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("read error", err)
				break
			}

			op, err := ParseOp(message)
			if err != nil {
				op = &Op{Err: fmt.Sprintf("can't parse: %v", err)}
			} else if err = op.Do(ctx, s); err != nil {
				log.Println("op.Do error", err)
			}

			js, err := json.Marshal(op)
			if err != nil {
				log.Printf("websocket Marshal error %v", err)
				continue
			}
			select {
			case replies <- js:
			case <-ctx.Done():
				return
			}
		}
	}

	var uiTemplate = template.Must(template.New("").Parse(`
<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<script>  
window.addEventListener("load", function(evt) {

    var output = document.getElementById("output");
    var input = document.getElementById("input");
    var ws;

    var print = function(message) {
        var d = document.createElement("div");
        d.textContent = message;
        output.insertBefore(d, output.firstChild);
    };

    document.getElementById("open").onclick = function(evt) {
        if (ws) {
            return false;
        }
        ws = new WebSocket("ws://{{.}}/ws/api");
        ws.onopen = function(evt) {
            print("OPEN");
        }
        ws.onclose = function(evt) {
            print("CLOSE");
            ws = null;
        }
        ws.onmessage = function(evt) {
            print("RESPONSE: " + evt.data);
        }
        ws.onerror = function(evt) {
            print("ERROR: " + evt.data);
        }
        return false;
    };

    document.getElementById("send").onclick = function(evt) {
        if (!ws) {
            return false;
        }
        print("SEND: " + input.value);
        ws.send(input.value);
        return false;
    };

    document.getElementById("close").onclick = function(evt) {
        if (!ws) {
            return false;
        }
        ws.close();
        return false;
    };

});
</script>
<style>
body { margin: 2em }
</style>
</head>
<body>
<form>
<button id="open">Open connection</button>
<button id="close">Close connection</button>
<br><input id="input" size="100" type="text" value='{"event":{"type":"click","selector":"body"}}'>
<br><button id="send">Send</button>
<hr>
<div id="output"></div>
</body>
</html>
`))

	ui := func(w http.ResponseWriter, r *http.Request) {
		uiTemplate.Execute(w, "localhost"+port)
	}

	mux.HandleFunc("/ws/api", api)
	mux.HandleFunc("/ws/ui", ui)

	log.Printf("Server.HTTPServer (%s) has Websockets", port)
}
