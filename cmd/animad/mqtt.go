/* Copyright 2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTBridge subscribes to topics that carry Ops and publishes every
// Message (and the result of each Op) to an outbound topic.
type MQTTBridge struct {
	Client    mqtt.Client
	Quiesce   uint
	SubTopics string
	OutTopic  string

	s *Server
}

// NewMQTTBridge parses the flags (following mosquitto_sub) and makes
// a client.  With nil args, just returns the FlagSet.
func NewMQTTBridge(ctx context.Context, s *Server, args []string) (*MQTTBridge, *flag.FlagSet, error) {
	var (
		fs = flag.NewFlagSet("mq", flag.ContinueOnError)

		broker    = fs.String("h", "tcp://localhost", "Broker hostname")
		clientId  = fs.String("i", "animad", "Client id")
		port      = fs.Int("p", 1883, "Broker port")
		keepAlive = fs.Int("k", 10, "Keep-alive in seconds")
		userName  = fs.String("u", "", "Username")
		password  = fs.String("P", "", "Password")
		reconnect = fs.Bool("reconnect", true, "Automatically attempt to reconnect")
		clean     = fs.Bool("c", true, "Clean session")
		quiesce   = fs.Int("quiesce", 100, "Disconnection quiescence (in milliseconds)")

		certFilename = fs.String("cert", "", "Optional cert filename")
		keyFilename  = fs.String("key", "", "Optional key filename")
		insecure     = fs.Bool("insecure", false, "Skip broker cert checking")
		caFilename   = fs.String("cafile", "", "Optional CA cert filename")

		subTopics = fs.String("t", "anima/in", "subscription topic(s), comma-separated, each optionally TOPIC:QOS")
		outTopic  = fs.String("o", "anima/out", "out-bound topic, optionally TOPIC:QOS")
	)

	if args == nil {
		return nil, fs, nil
	}

	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}

	mqtt.ERROR = log.New(os.Stderr, "mqtt.error ", 0)

	opts := mqtt.NewClientOptions()

	opts.AddBroker(fmt.Sprintf("%s:%d", *broker, *port))
	opts.SetClientID(*clientId)
	opts.SetKeepAlive(time.Second * time.Duration(*keepAlive))

	opts.Username = *userName
	opts.Password = *password
	opts.AutoReconnect = *reconnect
	opts.CleanSession = *clean

	tlsConf := &tls.Config{
		InsecureSkipVerify: *insecure,
	}

	if *caFilename != "" {
		rootCAs, _ := x509.SystemCertPool()
		if rootCAs == nil {
			rootCAs = x509.NewCertPool()
		}
		certs, err := ioutil.ReadFile(*caFilename)
		if err != nil {
			return nil, fs, fmt.Errorf("couldn't read '%s': %w", *caFilename, err)
		}
		if ok := rootCAs.AppendCertsFromPEM(certs); !ok {
			log.Println("No certs appended, using system certs only")
		}
		tlsConf.RootCAs = rootCAs
	}

	if *keyFilename != "" {
		cert, err := tls.LoadX509KeyPair(*certFilename, *keyFilename)
		if err != nil {
			return nil, fs, err
		}
		tlsConf.Certificates = []tls.Certificate{cert}
	}

	opts.SetTLSConfig(tlsConf)

	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		log.Printf("MQTT connection lost: %v", err)
	}

	b := &MQTTBridge{
		Quiesce:   uint(*quiesce),
		SubTopics: *subTopics,
		OutTopic:  *outTopic,
		s:         s,
	}

	opts.DefaultPublishHandler = func(client mqtt.Client, msg mqtt.Message) {
		b.inHandler(ctx, msg)
	}

	b.Client = mqtt.NewClient(opts)

	return b, fs, nil
}

// inHandler is a Paho publish handler, which is used to handle
// messages send to us from the MQTT broker due to our subscriptions.
func (b *MQTTBridge) inHandler(ctx context.Context, msg mqtt.Message) {
	log.Printf("incoming: %s %s\n", msg.Topic(), msg.Payload())

	op, err := ParseOp(msg.Payload())
	if err != nil {
		b.publish(&Message{Err: fmt.Sprintf("can't parse: %v", err)})
		return
	}
	// Paho calls handlers from its own goroutine, and Do waits
	// for the event loop.
	go func() {
		if err := op.Do(ctx, b.s); err != nil {
			log.Printf("op.Do error %v", err)
		}
		b.publish(op)
	}()
}

func (b *MQTTBridge) publish(x interface{}) {
	js, err := json.Marshal(x)
	if err != nil {
		log.Printf("Failed to marshal %#v", x)
		return
	}
	topic, qos := parseTopic(b.OutTopic)
	token := b.Client.Publish(topic, qos, false, js)
	if token.Wait() && token.Error() != nil {
		log.Printf("Publish error: %s", token.Error())
	}
}

// Start connects, subscribes, and forwards Messages until the context
// is done.
func (b *MQTTBridge) Start(ctx context.Context) error {
	log.Printf("Attempting to connect to broker")
	if token := b.Client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("Connected to broker")

	for _, topic := range strings.Split(b.SubTopics, ",") {
		topic, qos := parseTopic(topic)
		if topic == "" {
			continue
		}
		log.Printf("Subscribing to %s (%d)", topic, qos)
		if t := b.Client.Subscribe(topic, qos, nil); t.Wait() && t.Error() != nil {
			return t.Error()
		}
	}

	out := make(chan *Message, 64)
	unsubscribe := b.s.Subscribe("mqtt", out)

	go func() {
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				b.Client.Disconnect(b.Quiesce)
				return
			case m := <-out:
				b.publish(m)
			}
		}
	}()

	return nil
}

// parseTopic can extract QoS from a topic name of the form TOPIC:QOS.
func parseTopic(s string) (string, byte) {
	s = strings.TrimSpace(s)
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return s, 0
	}
	var qos byte
	if _, err := fmt.Sscanf(s[i+1:], "%d", &qos); err != nil || 2 < qos {
		return s, 0
	}
	return s[:i], qos
}
